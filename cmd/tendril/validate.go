package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tendril/internal/cli"
	"github.com/aretw0/tendril/internal/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configured endpoint sources for consistency",
	Long:  `Loads the configured endpoint sources and reports malformed path templates, duplicate IDs and colliding action labels.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Endpoints are valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	decls, err := cli.LoadDeclarations(cfg)
	if err != nil {
		return err
	}

	return validator.ValidateDeclarations(decls)
}
