// Package mariadb provides the MariaDB SQL dialect definition.
// MariaDB shares MySQL's literal and DDL rules.
package mariadb

import (
	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
	"github.com/leapstack-labs/querygraph/pkg/dialects/mysql"
)

func init() {
	dialect.Register(MariaDB)
}

// Config is the MariaDB dialect configuration.
var Config = func() *core.DialectConfig {
	cfg := mysql.MySQL.Config()
	cfg.Name = "mariadb"
	cfg.TimestampTemplate = "CAST({0} AS DATETIME(3))"
	return &cfg
}()

// MariaDB is the MariaDB dialect.
var MariaDB = dialect.New(Config).
	WithReservedWords("offset", "over", "recursive", "returning").
	Build()
