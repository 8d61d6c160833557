package config

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Holder provides thread-safe access to configuration with hot reload support.
// A reload is triggered by SIGHUP, by a write to the config file, or by a
// write to any YAML file in the watched model directories.
type Holder struct {
	mu       sync.RWMutex
	config   *Config
	path     string
	logger   zerolog.Logger
	watcher  *fsnotify.Watcher
	onChange []func(*Config) error
	onResult []func(error)
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewHolder creates a new config holder and loads the initial configuration.
func NewHolder(path string, logger zerolog.Logger) (*Holder, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}

	return &Holder{
		config: cfg,
		path:   absPath,
		logger: logger,
		stopCh: make(chan struct{}),
	}, nil
}

// Get returns the current configuration (thread-safe).
func (h *Holder) Get() *Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.config
}

// Path returns the absolute path of the config file.
func (h *Holder) Path() string {
	return h.path
}

// Reload reloads the configuration from disk and runs the change callbacks.
// A file that fails to load keeps the old config. A failing callback does
// not stop the others; the first error is returned.
func (h *Holder) Reload() error {
	h.logger.Info().Str("path", h.path).Msg("reloading configuration")

	newCfg, err := Load(h.path)
	if err != nil {
		h.logger.Error().Err(err).Msg("config reload failed, keeping old config")
		err = fmt.Errorf("reload config: %w", err)
		h.report(err)
		return err
	}

	h.mu.Lock()
	oldCfg := h.config
	h.config = newCfg
	callbacks := append([]func(*Config) error(nil), h.onChange...)
	h.mu.Unlock()

	h.logChanges(oldCfg, newCfg)

	var first error
	for _, fn := range callbacks {
		if err := fn(newCfg); err != nil {
			h.logger.Error().Err(err).Msg("config change handler failed")
			if first == nil {
				first = err
			}
		}
	}
	h.report(first)

	if first == nil {
		h.logger.Info().Msg("configuration reloaded successfully")
	}
	return first
}

// OnChange registers a callback to be called when config changes.
func (h *Holder) OnChange(fn func(*Config) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = append(h.onChange, fn)
}

// OnReload registers a callback told the outcome of every reload.
func (h *Holder) OnReload(fn func(error)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onResult = append(h.onResult, fn)
}

func (h *Holder) report(err error) {
	h.mu.RLock()
	callbacks := append(([]func(error))(nil), h.onResult...)
	h.mu.RUnlock()

	for _, fn := range callbacks {
		fn(err)
	}
}

// WatchFile starts watching the config file, and the YAML files in
// modelDirs, for changes. Changes trigger automatic reload.
func (h *Holder) WatchFile(modelDirs ...string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	h.watcher = watcher

	// Watch the directory (more reliable for editors that do atomic saves)
	dir := filepath.Dir(h.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}

	var models []string
	for _, d := range modelDirs {
		if d == "" {
			continue
		}
		abs, err := filepath.Abs(d)
		if err != nil {
			watcher.Close()
			return fmt.Errorf("absolute path: %w", err)
		}
		if abs != dir {
			if err := watcher.Add(abs); err != nil {
				watcher.Close()
				return fmt.Errorf("watch models directory: %w", err)
			}
		}
		models = append(models, abs)
	}

	go h.watchLoop(models)

	h.logger.Info().
		Str("path", h.path).
		Strs("models", models).
		Msg("watching config for changes")
	return nil
}

// WatchSignals starts listening for SIGHUP to trigger reload.
func (h *Holder) WatchSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)

	go func() {
		for {
			select {
			case <-sigCh:
				h.logger.Info().Msg("received SIGHUP, reloading config")
				if err := h.Reload(); err != nil {
					h.logger.Error().Err(err).Msg("SIGHUP reload failed")
				}
			case <-h.stopCh:
				signal.Stop(sigCh)
				return
			}
		}
	}()

	h.logger.Info().Msg("listening for SIGHUP to reload config")
}

// Stop stops watching for file changes and signals. It is safe to call
// more than once.
func (h *Holder) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopCh)
		if h.watcher != nil {
			h.watcher.Close()
		}
	})
}

func (h *Holder) watchLoop(modelDirs []string) {
	for {
		select {
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}

			if !h.relevant(event.Name, modelDirs) {
				continue
			}

			// React to write, create (atomic save) and removal of model files
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				h.logger.Debug().
					Str("event", event.Op.String()).
					Str("file", event.Name).
					Msg("watched file changed")

				if err := h.Reload(); err != nil {
					h.logger.Error().Err(err).Msg("file watch reload failed")
				}
			}

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().Err(err).Msg("file watcher error")

		case <-h.stopCh:
			return
		}
	}
}

// relevant reports whether name is the config file or a model definition.
func (h *Holder) relevant(name string, modelDirs []string) bool {
	if filepath.Clean(name) == h.path {
		return true
	}
	if !isYAML(name) {
		return false
	}
	dir := filepath.Dir(filepath.Clean(name))
	for _, d := range modelDirs {
		if dir == d {
			return true
		}
	}
	return false
}

func isYAML(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

func (h *Holder) logChanges(old, new *Config) {
	if old.Logging.Level != new.Logging.Level {
		h.logger.Info().
			Str("old", old.Logging.Level).
			Str("new", new.Logging.Level).
			Msg("log level changed")
	}

	if old.Admin.ModelsDir != new.Admin.ModelsDir {
		h.logger.Info().
			Str("old", old.Admin.ModelsDir).
			Str("new", new.Admin.ModelsDir).
			Msg("models directory changed")
	}

	if len(old.Admin.BuiltinModels) != len(new.Admin.BuiltinModels) {
		h.logger.Info().
			Int("old", len(old.Admin.BuiltinModels)).
			Int("new", len(new.Admin.BuiltinModels)).
			Msg("builtin models changed")
	}

	for _, field := range NonReloadableFields() {
		if nonReloadable(old, field) != nonReloadable(new, field) {
			h.logger.Warn().Str("field", field).Msg("change requires a restart to take effect")
		}
	}
}

func nonReloadable(cfg *Config, field string) string {
	switch field {
	case "server.host":
		return cfg.Server.Host
	case "server.port":
		return fmt.Sprint(cfg.Server.Port)
	case "database.driver":
		return cfg.Database.Driver
	case "database.dsn":
		return cfg.Database.DSN
	case "admin.prefix":
		return cfg.Admin.Prefix
	}
	return ""
}

// ReloadableFields returns which fields can be changed without restart.
func ReloadableFields() []string {
	return []string{
		"admin.models_dir",
		"admin.builtin_models",
		"logging.level",
	}
}

// NonReloadableFields returns which fields require a restart.
func NonReloadableFields() []string {
	return []string{
		"server.host",
		"server.port",
		"database.driver",
		"database.dsn",
		"admin.prefix",
	}
}
