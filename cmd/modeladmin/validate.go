package main

import (
	"fmt"
	"io"
	"os"

	"github.com/artpar/modeladmin/bootstrap"
	"github.com/artpar/modeladmin/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and model files",
	Long: `Validate the configuration file and every model it registers.

Checks:
  - Configuration file exists and parses
  - Built-in model names are known
  - Every YAML file in admin.models_dir describes a valid model
  - No two models share a URL path

Examples:
  modeladmin validate
  modeladmin validate --config /etc/modeladmin/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	return validateConfig(cmd.OutOrStdout(), cfgFile)
}

func validateConfig(w io.Writer, path string) error {
	fmt.Fprintf(w, "Validating %s\n\n", path)

	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(w, "  %s Config file exists\n", crossMark)
		return fmt.Errorf("config file not found: %s", path)
	}
	fmt.Fprintf(w, "  %s Config file exists\n", checkMark)

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(w, "  %s Config syntax valid\n", crossMark)
		fmt.Fprintf(w, "      Error: %v\n", err)
		return fmt.Errorf("invalid configuration")
	}
	fmt.Fprintf(w, "  %s Config syntax valid\n", checkMark)
	fmt.Fprintf(w, "  %s Database: %s\n", checkMark, describeDatabase(cfg.Database))
	fmt.Fprintf(w, "  %s Panel prefix: %s\n", checkMark, cfg.Admin.Prefix)

	models, err := bootstrap.CollectModels(cfg.Admin, bootstrap.Builtins())
	if err != nil {
		fmt.Fprintf(w, "  %s Models valid\n", crossMark)
		fmt.Fprintf(w, "      Error: %v\n", err)
		return fmt.Errorf("invalid models")
	}
	fmt.Fprintf(w, "  %s Models valid: %d\n", checkMark, len(models))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Configuration is valid.")
	return nil
}

func describeDatabase(db config.DatabaseConfig) string {
	if db.DSN == "" {
		return db.Driver
	}
	return fmt.Sprintf("%s (%s)", db.DSN, db.Driver)
}

const (
	checkMark = "\033[32m✓\033[0m"
	crossMark = "\033[31m✗\033[0m"
)
