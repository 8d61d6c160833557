package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/artpar/modeladmin/config"
	"github.com/google/go-cmp/cmp"
)

func TestLoad_ValidConfig(t *testing.T) {
	cfg := writeAndLoad(t, `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: 5s
  write_timeout: 10s

database:
  driver: sqlite
  dsn: "/var/lib/modeladmin/admin.db"

admin:
  prefix: "/backoffice/"
  title: "Newsroom"
  models_dir: "./models"
  builtin_models: [blog, media]

logging:
  level: debug
  format: console

metrics:
  enabled: true
  path: /internal/metrics

openapi:
  enabled: true
`)

	want := &config.Config{
		Server: config.ServerConfig{
			Host:         "127.0.0.1",
			Port:         9090,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: config.DatabaseConfig{Driver: "sqlite", DSN: "/var/lib/modeladmin/admin.db"},
		Admin: config.AdminConfig{
			Prefix:        "/backoffice",
			Title:         "Newsroom",
			ModelsDir:     "./models",
			BuiltinModels: []string{"blog", "media"},
		},
		Logging: config.LoggingConfig{Level: "debug", Format: "console"},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/internal/metrics"},
		OpenAPI: config.OpenAPIConfig{Enabled: true},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
	if cfg.Server.Addr() != "127.0.0.1:9090" {
		t.Errorf("Addr() = %s", cfg.Server.Addr())
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg := writeAndLoad(t, "{}\n")

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"host", cfg.Server.Host, "0.0.0.0"},
		{"port", cfg.Server.Port, 8080},
		{"read timeout", cfg.Server.ReadTimeout, 30 * time.Second},
		{"write timeout", cfg.Server.WriteTimeout, 60 * time.Second},
		{"driver", cfg.Database.Driver, "sqlite"},
		{"dsn", cfg.Database.DSN, "modeladmin.db"},
		{"prefix", cfg.Admin.Prefix, "/administrator"},
		{"title", cfg.Admin.Title, "Administrator"},
		{"log level", cfg.Logging.Level, "info"},
		{"log format", cfg.Logging.Format, "json"},
		{"metrics path", cfg.Metrics.Path, "/metrics"},
		{"metrics enabled", cfg.Metrics.Enabled, false},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoad_MemoryHasNoDSN(t *testing.T) {
	cfg := writeAndLoad(t, "database:\n  driver: memory\n")
	if cfg.Database.DSN != "" {
		t.Errorf("memory DSN = %q, want empty", cfg.Database.DSN)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_MODELS_DIR", "/srv/models")

	cfg := writeAndLoad(t, `
admin:
  models_dir: "${TEST_MODELS_DIR}"
`)
	if cfg.Admin.ModelsDir != "/srv/models" {
		t.Errorf("ModelsDir = %s, want /srv/models", cfg.Admin.ModelsDir)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"unknown driver", "database:\n  driver: postgres\n", "database.driver"},
		{"root prefix", "admin:\n  prefix: /\n", "root path"},
		{"api prefix", "admin:\n  prefix: /api\n", "collides"},
		{"nested reserved prefix", "admin:\n  prefix: /health/admin\n", "collides"},
		{"bad log level", "logging:\n  level: verbose\n", "logging.level"},
		{"bad log format", "logging:\n  format: xml\n", "logging.format"},
		{"relative metrics path", "metrics:\n  path: metrics\n", "metrics.path"},
		{"port out of range", "server:\n  port: 70000\n", "server.port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := writeAndLoadErr(t, tt.content)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("error = %v, want it to mention %s", err, tt.errPart)
			}
		})
	}
}

func TestLoad_PrefixNotShadowed(t *testing.T) {
	// "/apis" shares a string prefix with "/api" but not a path segment.
	cfg := writeAndLoad(t, "admin:\n  prefix: apis\n")
	if cfg.Admin.Prefix != "/apis" {
		t.Errorf("Prefix = %s, want /apis", cfg.Admin.Prefix)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	if _, err := writeAndLoadErr(t, "admin: [unclosed\n"); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	if _, err := config.Load("/nonexistent/modeladmin.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MODELADMIN_SERVER_HOST", "localhost")
	t.Setenv("MODELADMIN_SERVER_PORT", "3000")
	t.Setenv("MODELADMIN_SERVER_READ_TIMEOUT", "2s")
	t.Setenv("MODELADMIN_SERVER_WRITE_TIMEOUT", "4s")
	t.Setenv("MODELADMIN_DATABASE_DRIVER", "memory")
	t.Setenv("MODELADMIN_ADMIN_PREFIX", "/admin")
	t.Setenv("MODELADMIN_ADMIN_TITLE", "Ops")
	t.Setenv("MODELADMIN_MODELS_DIR", "/etc/models")
	t.Setenv("MODELADMIN_BUILTIN_MODELS", "blog, media,")
	t.Setenv("MODELADMIN_LOG_LEVEL", "warn")
	t.Setenv("MODELADMIN_LOG_FORMAT", "console")
	t.Setenv("MODELADMIN_METRICS_ENABLED", "yes")
	t.Setenv("MODELADMIN_METRICS_PATH", "/m")
	t.Setenv("MODELADMIN_OPENAPI_ENABLED", "1")

	cfg, err := config.LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv error: %v", err)
	}

	want := &config.Config{
		Server: config.ServerConfig{
			Host:         "localhost",
			Port:         3000,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 4 * time.Second,
		},
		Database: config.DatabaseConfig{Driver: "memory"},
		Admin: config.AdminConfig{
			Prefix:        "/admin",
			Title:         "Ops",
			ModelsDir:     "/etc/models",
			BuiltinModels: []string{"blog", "media"},
		},
		Logging: config.LoggingConfig{Level: "warn", Format: "console"},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/m"},
		OpenAPI: config.OpenAPIConfig{Enabled: true},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("LoadFromEnv() mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("MODELADMIN_ADMIN_TITLE", "From Env")
	t.Setenv("MODELADMIN_DATABASE_DSN", "/tmp/env.db")

	cfg := writeAndLoad(t, `
database:
  dsn: "file.db"
admin:
  title: "From File"
`)
	if cfg.Admin.Title != "From Env" {
		t.Errorf("Title = %s, want From Env", cfg.Admin.Title)
	}
	if cfg.Database.DSN != "/tmp/env.db" {
		t.Errorf("DSN = %s, want /tmp/env.db", cfg.Database.DSN)
	}
}

func TestEnvOverrides_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("MODELADMIN_SERVER_PORT", "not-a-number")
	t.Setenv("MODELADMIN_SERVER_READ_TIMEOUT", "soon")

	cfg, err := config.LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want default 8080", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("ReadTimeout = %v, want default", cfg.Server.ReadTimeout)
	}
}

func TestParseBoolValues(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{" on ", true},
		{"false", false},
		{"0", false},
		{"off", false},
		{"maybe", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("MODELADMIN_OPENAPI_ENABLED", tt.value)
			cfg, err := config.LoadFromEnv()
			if err != nil {
				t.Fatalf("LoadFromEnv error: %v", err)
			}
			if cfg.OpenAPI.Enabled != tt.want {
				t.Errorf("parseBool(%q) = %v, want %v", tt.value, cfg.OpenAPI.Enabled, tt.want)
			}
		})
	}
}

func TestLoadWithFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modeladmin.yaml")
	if err := os.WriteFile(path, []byte("admin:\n  title: File\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.LoadWithFallback(path)
	if err != nil {
		t.Fatalf("LoadWithFallback error: %v", err)
	}
	if cfg.Admin.Title != "File" {
		t.Errorf("Title = %s, want File", cfg.Admin.Title)
	}

	t.Setenv("MODELADMIN_ADMIN_TITLE", "Env")
	for _, p := range []string{"", filepath.Join(t.TempDir(), "missing.yaml")} {
		cfg, err := config.LoadWithFallback(p)
		if err != nil {
			t.Fatalf("LoadWithFallback(%q) error: %v", p, err)
		}
		if cfg.Admin.Title != "Env" {
			t.Errorf("LoadWithFallback(%q) Title = %s, want Env", p, cfg.Admin.Title)
		}
	}
}

func writeAndLoad(t *testing.T, content string) *config.Config {
	t.Helper()
	cfg, err := writeAndLoadErr(t, content)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	return cfg
}

func writeAndLoadErr(t *testing.T, content string) (*config.Config, error) {
	t.Helper()
	return config.Load(writeConfig(t, content))
}
