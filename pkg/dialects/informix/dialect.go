// Package informix provides the IBM Informix dialect definition.
//
// Informix pages with SKIP/FIRST right after SELECT and writes datetime
// literals unquoted inside DATETIME(...).
package informix

import (
	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
)

func init() {
	dialect.Register(Informix)
}

// Config is the Informix dialect configuration.
var Config = &core.DialectConfig{
	Name:        "informix",
	Placeholder: core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormLowercase,
	},

	TrueLiteral:       "'t'",
	FalseLiteral:      "'f'",
	TimestampTemplate: "DATETIME ({1}) YEAR TO FRACTION(3)",
	IntervalTemplate:  "INTERVAL ({0}) SECOND(9) TO SECOND",
	Paging:            core.PagingSkipFirst,
	NoNullsOrdering:   true,

	Functions: map[string]string{
		dialect.FuncSubstring: "SUBSTR",
	},

	TypeNames: map[core.SemanticType]string{
		core.TypeInteger:   "INT8",
		core.TypeDecimal:   "FLOAT",
		core.TypeText:      "LVARCHAR(2048)",
		core.TypeTimestamp: "DATETIME YEAR TO FRACTION(3)",
		core.TypeInterval:  "INTERVAL DAY(9) TO SECOND",
		core.TypeBinary:    "BYTE",
	},
	PrimaryKeyTypeNames: map[core.SemanticType]string{
		core.TypeText: "VARCHAR(255)",
	},
	AutoIncrementType: "SERIAL8",
}

// Informix is the Informix dialect.
var Informix = dialect.New(Config).
	WithReservedWords("first", "skip", "limit", "serial", "serial8").
	Build()
