package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: "5s"
  write_timeout: "15s"
  idle_timeout: "30s"
  shutdown_timeout: "5s"

storage:
  driver: "postgres"
  postgres:
    dsn: "postgres://u:p@localhost:5432/catalogs"
    max_conns: 8
    min_conns: 2

editor:
  debounce: "250ms"
  idle_delay: "2s"
  collation: "de"

auth:
  jwt_secret: "this-is-a-very-long-jwt-secret-for-testing-32+"

log:
  level: "debug"
  format: "text"
  file: "/var/log/catalogd.log"

metrics:
  enabled: false
`

// validConfig returns a Config that passes Validate.
func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		Storage: StorageConfig{
			Driver: DriverSQLite,
			SQLite: SQLiteConfig{Path: "./data/catalogs.db"},
			Postgres: DatabaseConfig{
				MaxConns: 10,
				MinConns: 1,
			},
		},
		Editor: EditorConfig{
			Debounce:  300 * time.Millisecond,
			IdleDelay: time.Second,
			Collation: "en",
		},
		Log:     LogConfig{Level: "info", Format: "json"},
		Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Server
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("server.read_timeout = %v, want %v", cfg.Server.ReadTimeout, 5*time.Second)
	}

	// Storage
	if cfg.Storage.Driver != DriverPostgres {
		t.Errorf("storage.driver = %q, want %q", cfg.Storage.Driver, DriverPostgres)
	}
	if cfg.Storage.Postgres.DSN != "postgres://u:p@localhost:5432/catalogs" {
		t.Errorf("storage.postgres.dsn = %q", cfg.Storage.Postgres.DSN)
	}
	if cfg.Storage.Postgres.MaxConns != 8 {
		t.Errorf("storage.postgres.max_conns = %d, want 8", cfg.Storage.Postgres.MaxConns)
	}
	if cfg.Storage.SQLite.Path != "./data/catalogs.db" {
		t.Errorf("storage.sqlite.path = %q, want default", cfg.Storage.SQLite.Path)
	}

	// Editor
	if cfg.Editor.Debounce != 250*time.Millisecond {
		t.Errorf("editor.debounce = %v, want 250ms", cfg.Editor.Debounce)
	}
	if cfg.Editor.IdleDelay != 2*time.Second {
		t.Errorf("editor.idle_delay = %v, want 2s", cfg.Editor.IdleDelay)
	}
	if cfg.Editor.Collation != "de" {
		t.Errorf("editor.collation = %q, want %q", cfg.Editor.Collation, "de")
	}

	// Auth
	if !cfg.Auth.Enabled() {
		t.Error("auth should be enabled when jwt_secret is set")
	}
	if cfg.Auth.JWTIssuer != "xcstrings-editor" {
		t.Errorf("auth.jwt_issuer = %q, want default", cfg.Auth.JWTIssuer)
	}

	// Log
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.Format != "text" {
		t.Errorf("log.format = %q, want %q", cfg.Log.Format, "text")
	}
	if cfg.Log.File != "/var/log/catalogd.log" {
		t.Errorf("log.file = %q", cfg.Log.File)
	}
	if cfg.Log.MaxBackups != 5 {
		t.Errorf("log.max_backups = %d, want 5 (default)", cfg.Log.MaxBackups)
	}

	// Metrics
	if cfg.Metrics.Enabled {
		t.Error("metrics.enabled should be false")
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("EDITOR_DEBOUNCE", "1s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want 3000 (ENV override)", cfg.Server.Port)
	}
	if cfg.Storage.Driver != DriverMemory {
		t.Errorf("storage.driver = %q, want %q (ENV override)", cfg.Storage.Driver, DriverMemory)
	}
	if cfg.Editor.Debounce != time.Second {
		t.Errorf("editor.debounce = %v, want 1s (ENV override)", cfg.Editor.Debounce)
	}
}

func TestLoad_NoFile_ENVOnly(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("STORAGE_DRIVER", "Memory")

	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080 (default)", cfg.Server.Port)
	}
	if cfg.Storage.Driver != DriverMemory {
		t.Errorf("storage.driver = %q, want normalized %q", cfg.Storage.Driver, DriverMemory)
	}
	if cfg.Editor.Debounce != 300*time.Millisecond {
		t.Errorf("editor.debounce = %v, want 300ms (default)", cfg.Editor.Debounce)
	}
	if cfg.Auth.Enabled() {
		t.Error("auth should be disabled by default")
	}
}

func TestLoad_DotEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	// Registered so the value loaded from .env is cleared afterwards.
	t.Setenv("SQLITE_PATH", "")
	_ = os.Unsetenv("SQLITE_PATH")

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SQLITE_PATH=/tmp/from-dotenv.db\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Storage.SQLite.Path != "/tmp/from-dotenv.db" {
		t.Errorf("storage.sqlite.path = %q, want value from .env", cfg.Storage.SQLite.Path)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `{{{invalid yaml`)
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "negative rate limit", mutate: func(c *Config) { c.Server.RateLimitPerMinute = -1 }, wantErr: true},
		{name: "memory driver", mutate: func(c *Config) { c.Storage.Driver = DriverMemory }},
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "redis" }, wantErr: true},
		{name: "sqlite without path", mutate: func(c *Config) { c.Storage.SQLite.Path = "" }, wantErr: true},
		{
			name: "postgres without dsn",
			mutate: func(c *Config) {
				c.Storage.Driver = DriverPostgres
			},
			wantErr: true,
		},
		{
			name: "postgres min above max",
			mutate: func(c *Config) {
				c.Storage.Driver = DriverPostgres
				c.Storage.Postgres.DSN = "postgres://localhost/db"
				c.Storage.Postgres.MinConns = 20
			},
			wantErr: true,
		},
		{
			name: "postgres valid",
			mutate: func(c *Config) {
				c.Storage.Driver = DriverPostgres
				c.Storage.Postgres.DSN = "postgres://localhost/db"
			},
		},
		{name: "zero debounce", mutate: func(c *Config) { c.Editor.Debounce = 0 }, wantErr: true},
		{name: "negative idle delay", mutate: func(c *Config) { c.Editor.IdleDelay = -time.Second }, wantErr: true},
		{name: "bad collation", mutate: func(c *Config) { c.Editor.Collation = "not a tag!" }, wantErr: true},
		{name: "empty collation", mutate: func(c *Config) { c.Editor.Collation = "" }},
		{name: "short jwt secret", mutate: func(c *Config) { c.Auth.JWTSecret = "short" }, wantErr: true},
		{
			name:   "long jwt secret",
			mutate: func(c *Config) { c.Auth.JWTSecret = "this-is-a-very-long-jwt-secret-for-testing-32+" },
		},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: true},
		{name: "relative metrics path", mutate: func(c *Config) { c.Metrics.Path = "metrics" }, wantErr: true},
		{
			name: "metrics path ignored when disabled",
			mutate: func(c *Config) {
				c.Metrics.Enabled = false
				c.Metrics.Path = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
