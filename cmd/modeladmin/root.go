package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "modeladmin",
	Short: "Administrator panel generated from model descriptors",
	Long: `Model Admin serves an administrator panel for every registered model.

Models come from built-in descriptors or from YAML files in a models
directory. Each model gets a list page, a create form, an edit form and
a confirmed delete action.

Quick start:
  modeladmin serve      # Start the panel
  modeladmin validate   # Check configuration and model files
  modeladmin models     # Show the models that would be registered`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "modeladmin.yaml", "config file path")
}
