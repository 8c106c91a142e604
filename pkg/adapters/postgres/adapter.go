// Package postgres provides a PostgreSQL database adapter.
package postgres

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/leapstack-labs/querygraph/pkg/adapter"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
	pgdialect "github.com/leapstack-labs/querygraph/pkg/dialects/postgres"
)

// Adapter implements the adapter.Adapter interface for PostgreSQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new PostgreSQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(logger)}
}

// Dialect returns the PostgreSQL dialect profile.
func (a *Adapter) Dialect() *dialect.Dialect {
	return pgdialect.Postgres
}

// Connect establishes a connection to PostgreSQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	connCfg, err := pgx.ParseConfig(buildPostgresDSN(cfg))
	if err != nil {
		return fmt.Errorf("invalid postgres connection settings: %w", err)
	}

	a.Logger.Debug("connecting to postgres", slog.String("host", connCfg.Host), slog.String("database", connCfg.Database))
	return a.Attach(ctx, stdlib.OpenDB(*connCfg), cfg)
}

// buildPostgresDSN renders cfg as a libpq keyword/value string. Options
// pass through as extra keywords, so anything pgx does not know becomes a
// runtime parameter. A non-default schema sets search_path.
func buildPostgresDSN(cfg adapter.Config) string {
	kv := map[string]string{
		"host":    cmp.Or(cfg.Host, "localhost"),
		"port":    strconv.Itoa(cmp.Or(cfg.Port, 5432)),
		"dbname":  cfg.Database,
		"sslmode": "disable",
	}
	if cfg.Username != "" {
		kv["user"] = cfg.Username
	}
	if cfg.Password != "" {
		kv["password"] = cfg.Password
	}
	if cfg.Schema != "" && cfg.Schema != "public" {
		kv["search_path"] = cfg.Schema
	}
	for k, v := range cfg.Options {
		kv[k] = v
	}

	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+dsnValue(kv[k]))
	}
	return strings.Join(parts, " ")
}

// dsnValue quotes v when libpq would otherwise split or misread it.
func dsnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	return "'" + strings.ReplaceAll(v, "'", `\'`) + "'"
}

// Describe retrieves metadata for a table from information_schema.
func (a *Adapter) Describe(ctx context.Context, table string) (*adapter.Metadata, error) {
	return a.DescribeCommon(ctx, table, a.Dialect())
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
