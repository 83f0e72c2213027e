package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/tendril/internal/cli"
	"github.com/aretw0/tendril/internal/presentation/graph"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Render the endpoint action flows as a Mermaid diagram",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		reg, _, err := cli.NewRegistry(cfg)
		if err != nil {
			return err
		}

		fmt.Print(graph.GenerateMermaid(reg.List()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
