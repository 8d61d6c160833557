// Package bootstrap wires all dependencies and starts the application.
// Configuration comes from a YAML file when one exists and from
// MODELADMIN_* environment variables otherwise.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apihttp "github.com/artpar/modeladmin/adapters/http"
	"github.com/artpar/modeladmin/adapters/memory"
	"github.com/artpar/modeladmin/adapters/metrics"
	"github.com/artpar/modeladmin/adapters/sqlite"
	"github.com/artpar/modeladmin/config"
	"github.com/artpar/modeladmin/core/descriptor"
	"github.com/artpar/modeladmin/core/registry"
	"github.com/artpar/modeladmin/ports"
	"github.com/artpar/modeladmin/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// App represents the running application.
type App struct {
	Logger     zerolog.Logger
	Config     *config.Config // as loaded at startup
	DB         *sqlite.DB // nil with the memory driver
	Store      ports.RecordStore
	Registry   *registry.Registry
	Metrics    *metrics.Collector // nil when metrics are disabled
	Web        *web.Handler
	HTTPServer *http.Server

	holder   *config.Holder // nil without a config file
	builtins map[string]descriptor.ModelDescriptor
}

// Options provides optional configuration for application initialization.
type Options struct {
	// ConfigPath is loaded when the file exists; otherwise configuration
	// comes from the environment and hot reload is off.
	ConfigPath string

	Version string

	// Builtins maps admin.builtin_models names to descriptors.
	// Default: Builtins().
	Builtins map[string]descriptor.ModelDescriptor

	// MetricsRegistry replaces the default Prometheus registry.
	MetricsRegistry *prometheus.Registry

	// LogOutput defaults to stdout.
	LogOutput io.Writer
}

// New creates and initializes the application.
func New(opts Options) (*App, error) {
	cfg, err := config.LoadWithFallback(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := NewLogger(cfg.Logging, opts.LogOutput)
	logger.Info().Msg("initializing modeladmin")

	a := &App{
		Logger:   logger,
		Config:   cfg,
		builtins: opts.Builtins,
	}
	if a.builtins == nil {
		a.builtins = Builtins()
	}

	if opts.ConfigPath != "" {
		if _, err := os.Stat(opts.ConfigPath); err == nil {
			a.holder, err = config.NewHolder(opts.ConfigPath, logger)
			if err != nil {
				return nil, err
			}
		}
	}

	if err := a.initStore(); err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	if cfg.Metrics.Enabled {
		if opts.MetricsRegistry != nil {
			a.Metrics = metrics.NewWithRegistry(opts.MetricsRegistry)
		} else {
			a.Metrics = metrics.New()
		}
		logger.Info().Msg("prometheus metrics enabled")
	}

	regOpts := []registry.Option{registry.WithLogger(logger)}
	if a.Metrics != nil {
		regOpts = append(regOpts, registry.WithMetrics(a.Metrics))
	}
	a.Registry = registry.New(regOpts...)

	if err := a.LoadModels(context.Background(), cfg); err != nil {
		a.closeStore()
		return nil, fmt.Errorf("load models: %w", err)
	}

	if err := a.initHTTPServer(opts.Version); err != nil {
		a.closeStore()
		return nil, fmt.Errorf("init http server: %w", err)
	}

	if a.holder != nil {
		a.holder.OnChange(a.applyConfig)
		if a.Metrics != nil {
			a.holder.OnReload(a.Metrics.ObserveReload)
		}
	}

	return a, nil
}

func (a *App) initStore() error {
	switch a.Config.Database.Driver {
	case "memory":
		a.Store = memory.NewRecordStore(nil, nil)
		a.Logger.Warn().Msg("using in-memory record store, records are lost on restart")
		return nil

	default:
		db, err := sqlite.Open(a.Config.Database.DSN)
		if err != nil {
			return err
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return fmt.Errorf("migrate: %w", err)
		}
		a.DB = db
		a.Store = sqlite.NewRecordStore(db, nil, nil)
		a.Logger.Info().Str("dsn", a.Config.Database.DSN).Msg("database ready")
		return nil
	}
}

func (a *App) initHTTPServer(version string) error {
	deps := web.Deps{
		Registry: a.Registry,
		Store:    a.Store,
		Logger:   a.Logger,
		Prefix:   a.Config.Admin.Prefix,
		Title:    a.Config.Admin.Title,
	}
	if a.Metrics != nil {
		deps.Observer = a.Metrics
	}

	webHandler, err := web.NewHandler(deps)
	if err != nil {
		return err
	}
	a.Web = webHandler

	routerCfg := apihttp.RouterConfig{
		Registry:      a.Registry,
		Metrics:       a.Metrics,
		MetricsPath:   a.Config.Metrics.Path,
		EnableOpenAPI: a.Config.OpenAPI.Enabled,
		WebHandler:    webHandler.Router(),
		WebPrefix:     webHandler.Prefix(),
		Version:       version,
	}
	if a.DB != nil {
		routerCfg.Health = a.DB
	}

	a.HTTPServer = &http.Server{
		Addr:         a.Config.Server.Addr(),
		Handler:      apihttp.NewRouter(a.Logger, routerCfg),
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
	}
	return nil
}

// applyConfig runs on every successful config reload.
func (a *App) applyConfig(cfg *config.Config) error {
	setLevel(cfg.Logging.Level)
	return a.LoadModels(context.Background(), cfg)
}

// Reload re-reads the config file and re-registers models. Without a
// config file only the models are reloaded.
func (a *App) Reload() error {
	if a.holder != nil {
		return a.holder.Reload()
	}

	err := a.LoadModels(context.Background(), a.Config)
	if a.Metrics != nil {
		a.Metrics.ObserveReload(err)
	}
	return err
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run() error {
	if a.holder != nil {
		if err := a.holder.WatchFile(a.Config.Admin.ModelsDir); err != nil {
			a.Logger.Warn().Err(err).Msg("config file watching disabled")
		}
		a.holder.WatchSignals()
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().
			Str("addr", a.HTTPServer.Addr).
			Str("admin", a.Web.Prefix()).
			Msg("starting http server")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt or error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		a.Shutdown()
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the application.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if a.holder != nil {
		a.holder.Stop()
	}

	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("http server shutdown error")
		}
	}

	a.closeStore()

	a.Logger.Info().Msg("shutdown complete")
	return nil
}

func (a *App) closeStore() {
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("database close error")
		}
		a.DB = nil
	}
}
