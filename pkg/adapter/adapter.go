// Package adapter executes compiled statements against real databases.
//
// The compiler never touches a connection; this package is the optional
// execution layer used by the CLI and by end-to-end tests. Concrete
// adapters live in pkg/adapters/ and register themselves from init().
package adapter

import (
	"context"

	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
)

type (
	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig

	// Rows is an alias for core.Rows.
	Rows = core.Rows
)

// Adapter defines the interface that all database adapters must implement.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec executes a SQL statement that doesn't return rows (e.g., INSERT, UPDATE, CREATE).
	Exec(ctx context.Context, sql string) error

	// Query executes a SQL statement that returns rows.
	Query(ctx context.Context, sql string) (*Rows, error)

	// Describe reads the column layout of a table from the database catalog.
	Describe(ctx context.Context, table string) (*Metadata, error)

	// Dialect returns the SQL dialect profile statements for this adapter
	// must be compiled with.
	Dialect() *dialect.Dialect
}
