// Package sqlite provides a SQLite database adapter backed by the pure-Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/querygraph/pkg/adapter"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
	sqlitedialect "github.com/leapstack-labs/querygraph/pkg/dialects/sqlite"

	_ "modernc.org/sqlite" // sqlite driver
)

const memoryPath = ":memory:"

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(logger)}
}

// Dialect returns the SQLite dialect profile.
func (a *Adapter) Dialect() *dialect.Dialect {
	return sqlitedialect.SQLite
}

// Connect opens the database file at cfg.Path.
// An empty path opens a private in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	path := cfg.Path
	if path == "" {
		path = memoryPath
	}
	if err := a.Open(ctx, "sqlite", path, cfg); err != nil {
		return err
	}
	if path == memoryPath {
		// every pooled connection would otherwise see its own empty database
		a.DB.SetMaxOpenConns(1)
	}
	return nil
}

// Describe reads the column layout of a table with pragma_table_info.
func (a *Adapter) Describe(ctx context.Context, table string) (*adapter.Metadata, error) {
	if a.DB == nil {
		return nil, adapter.ErrNotConnected
	}

	rows, err := a.DB.QueryContext(ctx,
		`SELECT name, type, "notnull", pk, cid FROM pragma_table_info(?) ORDER BY cid`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []adapter.Column
	for rows.Next() {
		var col adapter.Column
		var notNull, pk, cid int
		if err := rows.Scan(&col.Name, &col.Type, &notNull, &pk, &cid); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col.Nullable = notNull == 0
		col.PrimaryKey = pk > 0
		col.Position = cid + 1
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}

	var count int64
	countSQL := "SELECT COUNT(*) FROM " + a.Dialect().QuoteIdentifierIfNeeded(table) //nolint:gosec // table exists in the catalog
	if err := a.DB.QueryRowContext(ctx, countSQL).Scan(&count); err != nil {
		count = 0
	}

	return &adapter.Metadata{
		Schema:   "main",
		Name:     table,
		Columns:  columns,
		RowCount: count,
	}, nil
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
