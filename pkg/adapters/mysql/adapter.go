// Package mysql provides a MySQL and MariaDB database adapter backed by
// github.com/go-sql-driver/mysql.
package mysql

import (
	"context"
	"log/slog"
	"net"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/leapstack-labs/querygraph/pkg/adapter"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
	"github.com/leapstack-labs/querygraph/pkg/dialects/mariadb"
	mysqldialect "github.com/leapstack-labs/querygraph/pkg/dialects/mysql"
)

// Adapter implements the adapter.Adapter interface for MySQL-compatible
// servers. The wire protocol is shared; only the dialect differs.
type Adapter struct {
	adapter.BaseSQLAdapter
	dialect *dialect.Dialect
}

// New creates a MySQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(logger), dialect: mysqldialect.MySQL}
}

// NewMariaDB creates an adapter that compiles for MariaDB.
func NewMariaDB(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(logger), dialect: mariadb.MariaDB}
}

// Dialect returns the dialect profile the adapter was created for.
func (a *Adapter) Dialect() *dialect.Dialect {
	return a.dialect
}

// Connect establishes a TCP connection to the server.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	a.Logger.Debug("connecting to mysql", slog.String("host", cfg.Host), slog.String("database", cfg.Database))
	return a.Open(ctx, "mysql", buildMySQLDSN(cfg), cfg)
}

// buildMySQLDSN constructs a go-sql-driver DSN. Options are passed through
// as connection parameters.
func buildMySQLDSN(cfg adapter.Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 3306
	}

	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.DBName = cfg.Database
	mc.ParseTime = true
	if len(cfg.Options) > 0 {
		mc.Params = make(map[string]string, len(cfg.Options))
		for k, v := range cfg.Options {
			mc.Params[k] = v
		}
	}
	return mc.FormatDSN()
}

// Describe retrieves metadata for a table from information_schema. An
// unqualified table is looked up in the connected database.
func (a *Adapter) Describe(ctx context.Context, table string) (*adapter.Metadata, error) {
	return a.DescribeCommon(ctx, table, a.Dialect())
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
