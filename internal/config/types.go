// Package config provides the target configuration shared by the CLI
// and the HTTP compile service.
package config

import (
	"fmt"

	"github.com/leapstack-labs/querygraph/pkg/adapter"
	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
)

// TargetConfig holds database target configuration.
type TargetConfig struct {
	Type string `koanf:"type"` // sqlite, duckdb, postgres, mysql, mariadb

	// Dialect overrides the dialect used for compilation. Defaults to Type.
	Dialect string `koanf:"dialect"`

	// File-based databases (DuckDB, SQLite)
	Database string `koanf:"database"` // file path or database name

	// Network databases
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	Schema string `koanf:"schema"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`

	// Params holds adapter-specific configuration (DuckDB extensions, secrets, settings)
	Params map[string]any `koanf:"params"`
}

// DialectName returns the dialect used to compile for this target.
func (t *TargetConfig) DialectName() string {
	if t.Dialect != "" {
		return t.Dialect
	}
	return t.Type
}

// AdapterConfig converts the target into connection settings.
func (t *TargetConfig) AdapterConfig() core.AdapterConfig {
	return core.AdapterConfig{
		Type:     t.Type,
		Path:     t.Database,
		Database: t.Database,
		Schema:   t.Schema,
		Host:     t.Host,
		Port:     t.Port,
		Username: t.User,
		Password: t.Password,
		Options:  t.Options,
		Params:   t.Params,
	}
}

// Validate checks that a dialect exists for the target. The adapter is
// only required when the target is connected to, see ValidateAdapter.
func (t *TargetConfig) Validate() error {
	if t.Type == "" && t.Dialect == "" {
		return fmt.Errorf("target type is required")
	}
	if _, err := dialect.Lookup(t.DialectName()); err != nil {
		return err
	}
	return nil
}

// ValidateAdapter checks that an execution adapter is registered for the
// target type.
func (t *TargetConfig) ValidateAdapter() error {
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}
	if !adapter.IsRegistered(t.Type) {
		return &adapter.UnknownAdapterError{
			Type:      t.Type,
			Available: adapter.ListAdapters(),
		}
	}
	return nil
}

// DefaultSchemaForType returns the default schema for a database type.
// It looks up the dialect in the registry; if not found, returns "" so the
// connection's own default applies.
func DefaultSchemaForType(dbType string) string {
	if d, ok := dialect.Get(dbType); ok {
		return d.DefaultSchema
	}
	return ""
}
