package snowflake

import (
	"github.com/leapstack-labs/querygraph/pkg/dialect"
)

func init() {
	dialect.Register(Snowflake)
}

// Snowflake is the Snowflake dialect.
var Snowflake = dialect.New(Config).
	WithReservedWords("account", "connection", "database", "gscluster", "ilike",
		"increment", "issue", "lateral", "minus", "organization", "qualify",
		"regexp", "rlike", "sample", "schema", "tablesample", "trigger", "try_cast",
		"view").
	Build()
