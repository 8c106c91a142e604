// Package databricks provides the Databricks SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package databricks

import (
	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
)

// Config is the Databricks SQL dialect configuration.
var Config = &core.DialectConfig{
	Name:          "databricks",
	DefaultSchema: "default",
	Placeholder:   core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         "`",
		QuoteEnd:      "`",
		Escape:        "``",
		Normalization: core.NormCaseInsensitive,
	},

	IntervalTemplate:    "INTERVAL '{0}' SECOND",
	CaseInsensitiveLike: "ILIKE",

	Functions: map[string]string{
		dialect.FuncLength: "LENGTH",
	},

	TypeNames: map[core.SemanticType]string{
		core.TypeDecimal:  "DOUBLE",
		core.TypeText:     "STRING",
		core.TypeInterval: "INTERVAL DAY TO SECOND",
		core.TypeBinary:   "BINARY",
	},
}
