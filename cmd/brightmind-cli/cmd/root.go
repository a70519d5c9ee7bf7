package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "brightmind-cli",
	Short: "Brightmind admin CLI",
	Long: `Brightmind CLI is the administrative companion to the Brightmind server.

Available commands:
  seed-games    Load the cognitive-games catalog into the database

Use "brightmind-cli [command] --help" for more information about a specific command.`,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
