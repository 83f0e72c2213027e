package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tendril/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "tendril",
	Short: "Tendril is a typed endpoint dispatcher",
	Long: `Tendril turns declared HTTP endpoints into dispatchable actions:
every call emits a request action and resolves into a success or failure
action on the bus, within a fixed timeout.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to the config file (default ./tendril.yaml)")
	rootCmd.PersistentFlags().String("base-url", "", "Base URL of the target API")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// loadConfig builds the effective configuration for a command: config file,
// environment, then command line flags.
func loadConfig(cmd *cobra.Command) (cli.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := cli.LoadConfig(path)
	if err != nil {
		return cli.Config{}, err
	}
	if cmd.Flags().Changed("base-url") {
		cfg.BaseURL, _ = cmd.Flags().GetString("base-url")
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug, _ = cmd.Flags().GetBool("debug")
	}
	return cfg, nil
}
