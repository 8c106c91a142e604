package mysql

import (
	"github.com/leapstack-labs/querygraph/pkg/dialect"
)

func init() {
	dialect.Register(MySQL)
}

var mysqlReservedWords = []string{
	"accessible", "add", "analyze", "asc", "before", "both", "call", "cascade",
	"change", "condition", "database", "databases", "dec", "declare", "delayed",
	"describe", "div", "dual", "each", "enclosed", "escaped", "explain", "fetch",
	"force", "fulltext", "generated", "grant", "groups", "high_priority", "if",
	"ignore", "index", "infile", "interval", "keys", "kill", "lead", "leading",
	"limit", "linear", "lines", "load", "lock", "long", "loop", "match", "mod",
	"natural", "of", "optimize", "option", "outfile", "partition", "precision",
	"procedure", "range", "rank", "read", "regexp", "release", "rename",
	"repeat", "replace", "require", "restrict", "return", "revoke", "rlike",
	"row", "rows", "schema", "schemas", "separator", "show", "signal",
	"spatial", "sql", "ssl", "starting", "status", "straight_join", "system",
	"terminated", "trigger", "undo", "unlock", "unsigned", "usage", "use",
	"utc_date", "utc_time", "utc_timestamp", "varying", "while", "window",
	"write", "xor", "year_month", "zerofill",
}

// MySQL is the MySQL dialect.
var MySQL = dialect.New(Config).
	WithReservedWords(mysqlReservedWords...).
	Build()
