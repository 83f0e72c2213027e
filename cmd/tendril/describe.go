package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/tendril/internal/cli"
	"github.com/aretw0/tendril/internal/presentation/tui"
	"github.com/aretw0/tendril/pkg/domain"
)

var describeCmd = &cobra.Command{
	Use:   "describe <endpoint-id>",
	Short: "Show the details of one endpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		reg, _, err := cli.NewRegistry(cfg)
		if err != nil {
			return err
		}

		decl, err := reg.Get(args[0])
		if err != nil {
			return err
		}

		render := tui.NewRenderer()
		out, err := render(describeMarkdown(decl))
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func describeMarkdown(decl domain.Declaration) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", decl.Endpoint.ID)
	if decl.Endpoint.Summary != "" {
		fmt.Fprintf(&sb, "%s\n\n", decl.Endpoint.Summary)
	}
	fmt.Fprintf(&sb, "`%s %s`\n\n", decl.Endpoint.Method, decl.Endpoint.Path)
	sb.WriteString("## Actions\n\n")
	fmt.Fprintf(&sb, "- request: `%s`\n", decl.Triplet.Request)
	fmt.Fprintf(&sb, "- success: `%s`\n", decl.Triplet.Success)
	fmt.Fprintf(&sb, "- failure: `%s`\n", decl.Triplet.Failure)
	if decl.Endpoint.Doc != "" {
		fmt.Fprintf(&sb, "\n## Notes\n\n%s\n", decl.Endpoint.Doc)
	}
	return sb.String()
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
