// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Admin    AdminConfig    `yaml:"admin"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	OpenAPI  OpenAPIConfig  `yaml:"openapi"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig configures the record store.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "sqlite" or "memory"
	DSN    string `yaml:"dsn"`
}

// AdminConfig configures the administrator panel and the models it serves.
type AdminConfig struct {
	Prefix        string   `yaml:"prefix"`         // Mount path (default: /administrator)
	Title         string   `yaml:"title"`          // Site name in the navbar
	ModelsDir     string   `yaml:"models_dir"`     // Directory of YAML model definitions
	BuiltinModels []string `yaml:"builtin_models"` // Compiled-in models to register, e.g. blog, media
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // Enable /metrics endpoint
	Path    string `yaml:"path"`    // Custom path (default: /metrics)
}

// OpenAPIConfig configures OpenAPI/Swagger documentation.
type OpenAPIConfig struct {
	Enabled bool `yaml:"enabled"` // Enable OpenAPI endpoints
}

// Paths served by the root router that the admin prefix must not shadow.
var reservedPrefixes = []string{"/api", "/health", "/metrics", "/swagger", "/version", "/.well-known"}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes configuration from YAML, then applies environment
// overrides and defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return finish(&cfg)
}

// LoadFromEnv creates configuration entirely from environment variables.
// Every setting has a default, so this never needs a file.
//
// Environment variables:
//
//	MODELADMIN_SERVER_HOST     - Server host (default: 0.0.0.0)
//	MODELADMIN_SERVER_PORT     - Server port (default: 8080)
//	MODELADMIN_DATABASE_DRIVER - sqlite or memory (default: sqlite)
//	MODELADMIN_DATABASE_DSN    - Database path (default: modeladmin.db)
//	MODELADMIN_ADMIN_PREFIX    - Admin mount path (default: /administrator)
//	MODELADMIN_ADMIN_TITLE     - Site name (default: Administrator)
//	MODELADMIN_MODELS_DIR      - Directory of YAML model definitions
//	MODELADMIN_BUILTIN_MODELS  - Comma-separated compiled-in models
//	MODELADMIN_LOG_LEVEL       - Log level: debug, info, warn, error (default: info)
//	MODELADMIN_LOG_FORMAT      - Log format: json or console (default: json)
//	MODELADMIN_METRICS_ENABLED - Enable /metrics endpoint
//	MODELADMIN_OPENAPI_ENABLED - Enable OpenAPI/Swagger
func LoadFromEnv() (*Config, error) {
	return finish(&Config{})
}

// LoadWithFallback loads path when it exists and falls back to the
// environment otherwise.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return LoadFromEnv()
}

func finish(cfg *Config) (*Config, error) {
	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	setDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies MODELADMIN_* environment variables to the config.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	// Server configuration
	if v := os.Getenv("MODELADMIN_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("MODELADMIN_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("MODELADMIN_SERVER_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if v := os.Getenv("MODELADMIN_SERVER_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}

	// Database configuration
	if v := os.Getenv("MODELADMIN_DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("MODELADMIN_DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}

	// Admin configuration
	if v := os.Getenv("MODELADMIN_ADMIN_PREFIX"); v != "" {
		cfg.Admin.Prefix = v
	}
	if v := os.Getenv("MODELADMIN_ADMIN_TITLE"); v != "" {
		cfg.Admin.Title = v
	}
	if v := os.Getenv("MODELADMIN_MODELS_DIR"); v != "" {
		cfg.Admin.ModelsDir = v
	}
	if v := os.Getenv("MODELADMIN_BUILTIN_MODELS"); v != "" {
		cfg.Admin.BuiltinModels = splitList(v)
	}

	// Logging configuration
	if v := os.Getenv("MODELADMIN_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("MODELADMIN_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	// Metrics configuration
	if v := os.Getenv("MODELADMIN_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv("MODELADMIN_METRICS_PATH"); v != "" {
		cfg.Metrics.Path = v
	}

	// OpenAPI configuration
	if v := os.Getenv("MODELADMIN_OPENAPI_ENABLED"); v != "" {
		cfg.OpenAPI.Enabled = parseBool(v)
	}
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite" {
		cfg.Database.DSN = "modeladmin.db"
	}

	if cfg.Admin.Prefix == "" {
		cfg.Admin.Prefix = "/administrator"
	}
	cfg.Admin.Prefix = "/" + strings.Trim(cfg.Admin.Prefix, "/")
	if cfg.Admin.Title == "" {
		cfg.Admin.Title = "Administrator"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", cfg.Server.Port)
	}

	validDrivers := map[string]bool{"sqlite": true, "memory": true}
	if !validDrivers[cfg.Database.Driver] {
		return fmt.Errorf("database.driver must be 'sqlite' or 'memory', got %q", cfg.Database.Driver)
	}

	if cfg.Admin.Prefix == "/" {
		return fmt.Errorf("admin.prefix must not be the root path")
	}
	for _, reserved := range reservedPrefixes {
		if cfg.Admin.Prefix == reserved || strings.HasPrefix(cfg.Admin.Prefix, reserved+"/") {
			return fmt.Errorf("admin.prefix %q collides with %s", cfg.Admin.Prefix, reserved)
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}

	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/', got %q", cfg.Metrics.Path)
	}

	return nil
}
