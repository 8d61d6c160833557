package bootstrap

import (
	"context"
	"fmt"

	"github.com/artpar/modeladmin/adapters/sqlite"
	"github.com/artpar/modeladmin/config"
	"github.com/artpar/modeladmin/core/descriptor"
	"github.com/artpar/modeladmin/domain/blog"
	"github.com/artpar/modeladmin/domain/media"
)

// reservedPaths are served by the admin panel itself and cannot name a model.
var reservedPaths = map[string]bool{"static": true}

// Builtins returns the compiled-in models keyed by the name used in
// admin.builtin_models.
func Builtins() map[string]descriptor.ModelDescriptor {
	return map[string]descriptor.ModelDescriptor{
		"blog":  blog.Articles{},
		"media": media.Media{},
	}
}

// CollectModels erases the builtin models named in cfg, then every YAML
// definition in cfg.ModelsDir. Nothing is registered. It fails on an
// unknown builtin, a malformed definition, a reserved path, two models
// sharing a URL path, or two paths that map to the same SQLite table.
func CollectModels(cfg config.AdminConfig, builtins map[string]descriptor.ModelDescriptor) ([]descriptor.Erased, error) {
	var out []descriptor.Erased
	seen := make(map[string]string)
	tables := make(map[string]string)

	add := func(source string, d descriptor.ModelDescriptor) error {
		e, err := descriptor.Erase(d)
		if err != nil {
			return fmt.Errorf("%s: %w", source, err)
		}
		path := e.URLPath()
		if reservedPaths[path] {
			return fmt.Errorf("%s: url path %q is reserved", source, path)
		}
		if prev, ok := seen[path]; ok {
			return fmt.Errorf("%s: url path %q is already used by %s", source, path, prev)
		}
		table := sqlite.TableName(path)
		if prev, ok := tables[table]; ok {
			return fmt.Errorf("%s: url path %q shares storage table %s with %s", source, path, table, prev)
		}
		seen[path] = source
		tables[table] = source
		out = append(out, e)
		return nil
	}

	for _, name := range cfg.BuiltinModels {
		d, ok := builtins[name]
		if !ok {
			return nil, fmt.Errorf("unknown builtin model %q", name)
		}
		if err := add("builtin "+name, d); err != nil {
			return nil, err
		}
	}

	if cfg.ModelsDir != "" {
		defs, err := descriptor.ParseDir(cfg.ModelsDir)
		if err != nil {
			return nil, fmt.Errorf("load models: %w", err)
		}
		for _, d := range defs {
			if err := add("model "+d.Name, d); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

// LoadModels collects the models cfg names, prepares storage for each and
// then swaps them into the registry in one step. On error the registry is
// left as it was.
func (a *App) LoadModels(ctx context.Context, cfg *config.Config) error {
	models, err := CollectModels(cfg.Admin, a.builtins)
	if err != nil {
		return err
	}

	for _, d := range models {
		if err := a.Store.Ensure(ctx, d); err != nil {
			return fmt.Errorf("prepare storage for %s: %w", d.URLPath(), err)
		}
	}

	removed := a.Registry.Replace(models...)
	for _, path := range removed {
		a.Logger.Info().Str("path", path).Msg("model unregistered")
	}

	a.Logger.Info().Int("count", len(models)).Msg("models loaded")
	return nil
}
