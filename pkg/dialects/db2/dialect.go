// Package db2 provides the IBM DB2 dialect definition.
package db2

import (
	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
)

func init() {
	dialect.Register(DB2)
}

// Config is the DB2 dialect configuration.
var Config = &core.DialectConfig{
	Name:        "db2",
	Placeholder: core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormUppercase,
	},

	TrueLiteral:       "1",
	FalseLiteral:      "0",
	TimestampTemplate: "TIMESTAMP({0})",
	Paging:            core.PagingFetchFirst,

	Functions: map[string]string{
		dialect.FuncLength:    "LENGTH",
		dialect.FuncSubstring: "SUBSTR",
	},

	TypeNames: map[core.SemanticType]string{
		core.TypeDecimal: "DOUBLE",
		core.TypeText:    "VARCHAR(4000)",
		core.TypeBoolean: "SMALLINT",
	},
}

// DB2 is the DB2 dialect.
var DB2 = dialect.New(Config).
	WithReservedWords("fetch", "first", "only", "rownumber", "sequence").
	Build()
