// Package postgres provides the PostgreSQL SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package postgres

import "github.com/leapstack-labs/querygraph/pkg/core"

// Config is the PostgreSQL dialect configuration.
// Geometry fragments assume the PostGIS extension.
var Config = &core.DialectConfig{
	Name:          "postgres",
	DefaultSchema: "public",
	Placeholder:   core.PlaceholderDollar,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormLowercase, // Postgres normalizes unquoted to lowercase
	},

	TimestampTemplate:      "CAST({0} AS TIMESTAMP)",
	IntervalTemplate:       "INTERVAL '{0} seconds'",
	GeometryTemplate:       "ST_GeomFromText({0})",
	GeometryEqualsTemplate: "ST_Equals({0}, {1})",
	CaseInsensitiveLike:    "ILIKE",

	TypeNames: map[core.SemanticType]string{
		core.TypeText:     "TEXT",
		core.TypeInterval: "INTERVAL",
		core.TypeGeometry: "GEOMETRY",
		core.TypeBinary:   "BYTEA",
	},
	AutoIncrementType: "BIGSERIAL",
}
