// Package h2 provides the H2 SQL dialect definition.
package h2

import (
	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
)

func init() {
	dialect.Register(H2)
}

// Config is the H2 dialect configuration.
var Config = &core.DialectConfig{
	Name:          "h2",
	DefaultSchema: "PUBLIC",
	Placeholder:   core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormUppercase,
	},

	TimestampTemplate:      "PARSEDATETIME({0}, 'yyyy-MM-dd HH:mm:ss.SSS')",
	IntervalTemplate:       "INTERVAL '{0}' SECOND",
	GeometryTemplate:       "GEOMETRY {0}",
	GeometryEqualsTemplate: "{0} = {1}",

	TypeNames: map[core.SemanticType]string{
		core.TypeText:     "VARCHAR",
		core.TypeInterval: "INTERVAL DAY TO SECOND",
		core.TypeGeometry: "GEOMETRY",
	},
}

// H2 is the H2 dialect.
var H2 = dialect.New(Config).
	WithReservedWords("limit", "minus", "offset", "qualify", "rownum", "top", "value").
	Build()
