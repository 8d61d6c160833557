package main

import (
	"fmt"
	"io"

	"github.com/artpar/modeladmin/bootstrap"
	"github.com/artpar/modeladmin/config"
	"github.com/artpar/modeladmin/core/descriptor"
	"github.com/artpar/modeladmin/core/registry"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models the configuration registers",
	Long: `Print a table of every model that serve would register, in the
order the dashboard shows them.

Examples:
  modeladmin models
  modeladmin models --config /etc/modeladmin/config.yaml`,
	RunE: runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	models, err := bootstrap.CollectModels(cfg.Admin, bootstrap.Builtins())
	if err != nil {
		return err
	}

	reg := registry.New()
	reg.Replace(models...)
	renderModels(cmd.OutOrStdout(), reg.All())
	return nil
}

func renderModels(w io.Writer, models []descriptor.Erased) {
	if len(models) == 0 {
		fmt.Fprintln(w, "No models registered.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Model", "Path", "Fields", "Per Page", "Sort"})

	for _, m := range models {
		order := "desc"
		if m.DefaultSortAscending() {
			order = "asc"
		}
		t.AppendRow(table.Row{
			m.ModelNamePlural(),
			m.URLPath(),
			len(m.EditFields()),
			m.ItemsPerPage(),
			m.DefaultSortField() + " " + order,
		})
	}
	t.Render()
}
