package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Target == nil {
		return fmt.Errorf("target is required")
	}
	if err := c.Target.Validate(); err != nil {
		return fmt.Errorf("invalid target configuration: %w", err)
	}
	if c.Serve.MaxRequestBytes < 0 {
		return fmt.Errorf("serve.max_request_bytes must not be negative")
	}
	return nil
}

// ValidateSchema checks that the configured schema file exists.
func (c *Config) ValidateSchema() error {
	if c.Schema == "" {
		return fmt.Errorf("no schema file configured\nHint: Set schema in querygraph.yaml or use --schema")
	}
	if _, err := os.Stat(c.Schema); os.IsNotExist(err) {
		return fmt.Errorf("schema file does not exist: %s\nHint: Use --schema to specify a different path", c.Schema)
	}
	return nil
}

// ParseLogLevel maps a level name to a slog level. Empty means warn.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q (use debug, info, warn or error)", s)
}
