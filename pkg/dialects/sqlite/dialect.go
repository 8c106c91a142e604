// Package sqlite provides the SQLite SQL dialect definition.
package sqlite

import (
	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
)

func init() {
	dialect.Register(SQLite, "sqlite3")
}

// Config is the SQLite dialect configuration.
// Timestamps are stored as text in the layout strftime produces.
var Config = &core.DialectConfig{
	Name:          "sqlite",
	DefaultSchema: "main",
	Placeholder:   core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormCaseInsensitive,
	},

	TrueLiteral:       "1",
	FalseLiteral:      "0",
	TimestampTemplate: "strftime('%Y-%m-%d %H:%M:%f', {0})",

	Functions: map[string]string{
		dialect.FuncLength:    "LENGTH",
		dialect.FuncSubstring: "SUBSTR",
	},

	TypeNames: map[core.SemanticType]string{
		core.TypeInteger:   "INTEGER",
		core.TypeDecimal:   "REAL",
		core.TypeText:      "TEXT",
		core.TypeBoolean:   "INTEGER",
		core.TypeTimestamp: "DATETIME",
	},
	AutoIncrementType:        "INTEGER",
	AutoIncrementSuffix:      " PRIMARY KEY AUTOINCREMENT",
	AutoIncrementDeclaresKey: true,
}

// SQLite is the SQLite dialect.
var SQLite = dialect.New(Config).
	WithReservedWords("abort", "autoincrement", "glob", "index", "limit", "offset", "regexp", "temp").
	Build()
