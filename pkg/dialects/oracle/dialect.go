// Package oracle provides the Oracle SQL dialect definition.
//
// The profile targets 12c or later: identity columns and OFFSET/FETCH paging.
// Statements carry no terminator because the Oracle drivers reject one.
package oracle

import (
	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
)

func init() {
	dialect.Register(Oracle)
}

// Config is the Oracle dialect configuration.
var Config = &core.DialectConfig{
	Name:        "oracle",
	Placeholder: core.PlaceholderColon,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormUppercase,
	},

	TrueLiteral:            "1",
	FalseLiteral:           "0",
	TimestampTemplate:      "TO_TIMESTAMP({0}, 'YYYY-MM-DD HH24:MI:SS.FF3')",
	IntervalTemplate:       "NUMTODSINTERVAL({0}, 'SECOND')",
	GeometryTemplate:       "SDO_UTIL.FROM_WKTGEOMETRY({0})",
	GeometryEqualsTemplate: "SDO_EQUAL({0}, {1}) = 'TRUE'",
	Paging:                 core.PagingFetchFirst,
	OmitTerminator:         true,

	Functions: map[string]string{
		dialect.FuncLength:    "LENGTH",
		dialect.FuncSubstring: "SUBSTR",
	},

	TypeNames: map[core.SemanticType]string{
		core.TypeInteger:  "NUMBER(19)",
		core.TypeDecimal:  "BINARY_DOUBLE",
		core.TypeText:     "VARCHAR2(4000)",
		core.TypeBoolean:  "NUMBER(1)",
		core.TypeInterval: "INTERVAL DAY(9) TO SECOND(3)",
		core.TypeGeometry: "SDO_GEOMETRY",
	},
	PrimaryKeyTypeNames: map[core.SemanticType]string{
		core.TypeText: "VARCHAR2(1000)",
	},
}

var oracleReservedWords = []string{
	"access", "audit", "char", "cluster", "comment", "compress", "connect",
	"date", "decimal", "exclusive", "file", "float", "identified", "immediate",
	"increment", "index", "initial", "integer", "intersect", "level", "lock",
	"long", "maxextents", "minus", "mode", "modify", "noaudit", "nocompress",
	"nowait", "number", "of", "offline", "online", "option", "pctfree", "prior",
	"privileges", "public", "raw", "rename", "resource", "revoke", "row",
	"rowid", "rownum", "rows", "session", "share", "size", "smallint", "start",
	"successful", "synonym", "sysdate", "trigger", "uid", "validate", "varchar",
	"varchar2", "view", "whenever",
}

// Oracle is the Oracle dialect.
var Oracle = dialect.New(Config).
	WithReservedWords(oracleReservedWords...).
	Build()
