// Package snowflake provides the Snowflake SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package snowflake

import (
	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
)

// Config is the Snowflake dialect configuration.
var Config = &core.DialectConfig{
	Name:          "snowflake",
	DefaultSchema: "PUBLIC",
	Placeholder:   core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormUppercase, // Snowflake normalizes unquoted to uppercase
	},

	TimestampTemplate:   "TO_TIMESTAMP_NTZ({0})",
	GeometryTemplate:    "TO_GEOMETRY({0})",
	CaseInsensitiveLike: "ILIKE",

	Functions: map[string]string{
		dialect.FuncLength: "LENGTH",
	},

	TypeNames: map[core.SemanticType]string{
		core.TypeInteger:   "NUMBER(38,0)",
		core.TypeDecimal:   "FLOAT",
		core.TypeText:      "VARCHAR",
		core.TypeTimestamp: "TIMESTAMP_NTZ",
		core.TypeGeometry:  "GEOMETRY",
		core.TypeBinary:    "BINARY",
	},
	AutoIncrementSuffix: " AUTOINCREMENT",
}
