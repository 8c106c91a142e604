// Package duckdb provides a DuckDB database adapter.
package duckdb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/querygraph/pkg/adapter"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
	duckdbdialect "github.com/leapstack-labs/querygraph/pkg/dialects/duckdb"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Adapter implements the adapter.Adapter interface for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new DuckDB adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(logger)}
}

// Dialect returns the DuckDB dialect profile.
func (a *Adapter) Dialect() *dialect.Dialect {
	return duckdbdialect.DuckDB
}

// Connect establishes a connection to DuckDB and applies cfg.Params.
// Use ":memory:" (or an empty path) for an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := parseParams(cfg.Params)
	if err != nil {
		return err
	}

	path := cfg.Path
	if path == ":memory:" {
		path = ""
	}
	if err := a.Open(ctx, "duckdb", path, cfg); err != nil {
		return err
	}

	for _, stmt := range params.setupStatements() {
		if _, err := a.DB.ExecContext(ctx, stmt); err != nil {
			_ = a.Close()
			a.DB = nil
			return fmt.Errorf("failed to configure duckdb: %w", err)
		}
	}
	return nil
}

// Describe retrieves metadata for a table from information_schema.
func (a *Adapter) Describe(ctx context.Context, table string) (*adapter.Metadata, error) {
	return a.DescribeCommon(ctx, table, a.Dialect())
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
