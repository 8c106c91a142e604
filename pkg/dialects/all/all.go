// Package all registers every built-in dialect.
package all

import (
	// Registered for their init side effects.
	_ "github.com/leapstack-labs/querygraph/pkg/dialects/ansi"
	_ "github.com/leapstack-labs/querygraph/pkg/dialects/databricks"
	_ "github.com/leapstack-labs/querygraph/pkg/dialects/db2"
	_ "github.com/leapstack-labs/querygraph/pkg/dialects/duckdb"
	_ "github.com/leapstack-labs/querygraph/pkg/dialects/h2"
	_ "github.com/leapstack-labs/querygraph/pkg/dialects/informix"
	_ "github.com/leapstack-labs/querygraph/pkg/dialects/mariadb"
	_ "github.com/leapstack-labs/querygraph/pkg/dialects/mysql"
	_ "github.com/leapstack-labs/querygraph/pkg/dialects/oracle"
	_ "github.com/leapstack-labs/querygraph/pkg/dialects/postgres"
	_ "github.com/leapstack-labs/querygraph/pkg/dialects/snowflake"
	_ "github.com/leapstack-labs/querygraph/pkg/dialects/sqlite"
	_ "github.com/leapstack-labs/querygraph/pkg/dialects/sqlserver"
)
