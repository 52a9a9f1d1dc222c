package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.RateLimitPerMinute < 0 {
		return fmt.Errorf("server.rate_limit_per_minute must be >= 0 (got %d)", c.Server.RateLimitPerMinute)
	}

	if err := c.Storage.validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	if err := c.Editor.validate(); err != nil {
		return fmt.Errorf("editor: %w", err)
	}

	if c.Auth.Enabled() && len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with / (got %q)", c.Metrics.Path)
	}

	return nil
}

func (s *StorageConfig) validate() error {
	s.Driver = strings.ToLower(strings.TrimSpace(s.Driver))
	switch s.Driver {
	case DriverMemory:
	case DriverSQLite:
		if s.SQLite.Path == "" {
			return fmt.Errorf("sqlite.path is required for driver %q", s.Driver)
		}
	case DriverPostgres:
		if s.Postgres.DSN == "" {
			return fmt.Errorf("postgres.dsn is required for driver %q", s.Driver)
		}
		if s.Postgres.MaxConns <= 0 {
			return fmt.Errorf("postgres.max_conns must be > 0 (got %d)", s.Postgres.MaxConns)
		}
		if s.Postgres.MinConns > s.Postgres.MaxConns {
			return fmt.Errorf("postgres.min_conns must be <= max_conns (got %d > %d)", s.Postgres.MinConns, s.Postgres.MaxConns)
		}
	default:
		return fmt.Errorf("driver must be one of memory, sqlite, postgres (got %q)", s.Driver)
	}
	return nil
}

func (e *EditorConfig) validate() error {
	if e.Debounce <= 0 {
		return fmt.Errorf("debounce must be > 0 (got %v)", e.Debounce)
	}
	if e.IdleDelay <= 0 {
		return fmt.Errorf("idle_delay must be > 0 (got %v)", e.IdleDelay)
	}
	if _, err := e.CollationTag(); err != nil {
		return fmt.Errorf("collation: %w", err)
	}
	return nil
}

// CollationTag parses Collation. An empty value yields language.Und.
func (e EditorConfig) CollationTag() (language.Tag, error) {
	if strings.TrimSpace(e.Collation) == "" {
		return language.Und, nil
	}
	tag, err := language.Parse(e.Collation)
	if err != nil {
		return language.Und, fmt.Errorf("invalid tag %q: %w", e.Collation, err)
	}
	return tag, nil
}
