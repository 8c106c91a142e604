// Package mysql provides the MySQL SQL dialect definition.
package mysql

import "github.com/leapstack-labs/querygraph/pkg/core"

// Config is the MySQL dialect configuration.
var Config = &core.DialectConfig{
	Name:        "mysql",
	Placeholder: core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         "`",
		QuoteEnd:      "`",
		Escape:        "``",
		Normalization: core.NormCaseSensitive,
	},

	EscapeBackslash:        true,
	TimestampTemplate:      "TIMESTAMP({0})",
	GeometryTemplate:       "ST_GeomFromText({0})",
	GeometryEqualsTemplate: "ST_Equals({0}, {1})",
	ConcatTemplate:         "CONCAT({0}, {1})",
	NoFullOuterJoin:        true,
	NoNullsOrdering:        true,

	TypeNames: map[core.SemanticType]string{
		core.TypeDecimal:   "DOUBLE",
		core.TypeText:      "LONGTEXT",
		core.TypeTimestamp: "DATETIME(3)",
		core.TypeGeometry:  "GEOMETRY",
		core.TypeBinary:    "LONGBLOB",
	},
	// TEXT columns cannot be keys without a prefix length.
	PrimaryKeyTypeNames: map[core.SemanticType]string{
		core.TypeText: "VARCHAR(255)",
	},
	AutoIncrementSuffix: " AUTO_INCREMENT",
}
