package main

import (
	"fmt"

	"github.com/artpar/modeladmin/bootstrap"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the administrator panel",
	Long: `Start the Model Admin server.

The server will:
  - Load configuration from modeladmin.yaml (or --config)
  - Or load configuration from MODELADMIN_* environment variables
  - Open the record store
  - Register built-in models and the YAML models in admin.models_dir
  - Reload models when the config file or a model file changes

Environment variables (for Docker deployments):
  MODELADMIN_SERVER_PORT      - Server port (default: 8080)
  MODELADMIN_DATABASE_DRIVER  - sqlite or memory (default: sqlite)
  MODELADMIN_DATABASE_DSN     - Database path (default: modeladmin.db)
  MODELADMIN_ADMIN_PREFIX     - Panel mount path (default: /administrator)
  MODELADMIN_MODELS_DIR       - Directory of YAML model files
  MODELADMIN_BUILTIN_MODELS   - Comma separated built-in models
  MODELADMIN_LOG_LEVEL        - Log level: debug, info, warn, error

Examples:
  modeladmin serve
  modeladmin serve --config /etc/modeladmin/config.yaml

  # Docker (env vars only):
  MODELADMIN_DATABASE_DRIVER=memory MODELADMIN_BUILTIN_MODELS=blog modeladmin serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	app, err := bootstrap.New(bootstrap.Options{
		ConfigPath: cfgFile,
		Version:    version,
	})
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	return app.Run()
}
