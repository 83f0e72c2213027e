package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/tendril/internal/cli"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered endpoints",
	Long:  `Loads the configured endpoint sources and prints every registered endpoint with its action triplet.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		reg, _, err := cli.NewRegistry(cfg)
		if err != nil {
			return err
		}

		decls := reg.List()
		if len(decls) == 0 {
			fmt.Println("No endpoints registered. Configure an openapi or manifest source.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tMETHOD\tPATH\tSUCCESS\tFAILURE")
		for _, decl := range decls {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				decl.Endpoint.ID, decl.Endpoint.Method, decl.Endpoint.Path,
				decl.Triplet.Success, decl.Triplet.Failure)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
