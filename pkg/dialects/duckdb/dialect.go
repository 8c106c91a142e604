// Package duckdb provides the DuckDB SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package duckdb

import (
	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
)

func init() {
	dialect.Register(DuckDB)
}

// Config is the DuckDB dialect configuration.
// Geometry fragments assume the spatial extension is loaded.
var Config = &core.DialectConfig{
	Name:          "duckdb",
	DefaultSchema: "main",
	Placeholder:   core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormCaseInsensitive,
	},

	IntervalTemplate:       "INTERVAL '{0} seconds'",
	GeometryTemplate:       "ST_GeomFromText({0})",
	GeometryEqualsTemplate: "ST_Equals({0}, {1})",
	CaseInsensitiveLike:    "ILIKE",

	Functions: map[string]string{
		dialect.FuncLength: "LENGTH",
	},

	TypeNames: map[core.SemanticType]string{
		core.TypeDecimal:  "DOUBLE",
		core.TypeText:     "VARCHAR",
		core.TypeInterval: "INTERVAL",
		core.TypeGeometry: "GEOMETRY",
	},
	// Keys are filled from sequences instead.
	NoAutoIncrement: true,
}

var duckdbReservedWords = []string{
	"analyse", "analyze", "asc", "both", "cast", "collate", "column", "describe",
	"do", "except", "fetch", "grant", "ilike", "intersect", "lateral", "leading",
	"limit", "offset", "only", "pivot", "qualify", "returning", "show", "some",
	"summarize", "symmetric", "trailing", "unpivot", "variadic", "window",
}

// DuckDB is the DuckDB dialect.
var DuckDB = dialect.New(Config).
	WithReservedWords(duckdbReservedWords...).
	Build()
