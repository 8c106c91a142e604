// Package sqlserver provides the Microsoft SQL Server dialect definition.
package sqlserver

import (
	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
)

func init() {
	dialect.Register(SQLServer, "mssql")
}

// Config is the SQL Server dialect configuration.
var Config = &core.DialectConfig{
	Name:          "sqlserver",
	DefaultSchema: "dbo",
	Placeholder:   core.PlaceholderAt,
	Identifiers: core.IdentifierConfig{
		Quote:         "[",
		QuoteEnd:      "]",
		Escape:        "]]",
		Normalization: core.NormCaseInsensitive,
	},

	TrueLiteral:            "1",
	FalseLiteral:           "0",
	TimestampTemplate:      "CAST({0} AS DATETIME2)",
	GeometryTemplate:       "geometry::STGeomFromText({0}, 0)",
	GeometryEqualsTemplate: "{0}.STEquals({1}) = 1",
	ConcatTemplate:         "{0} + {1}",
	ModuloTemplate:         "{0} % {1}",
	Paging:                 core.PagingFetchFirst,
	PagingOrderFallback:    "(SELECT NULL)",
	NoNullsOrdering:        true,

	Functions: map[string]string{
		dialect.FuncLength: "LEN",
	},

	TypeNames: map[core.SemanticType]string{
		core.TypeDecimal:   "FLOAT",
		core.TypeText:      "NVARCHAR(MAX)",
		core.TypeBoolean:   "BIT",
		core.TypeTimestamp: "DATETIME2",
		core.TypeGeometry:  "GEOMETRY",
		core.TypeBinary:    "VARBINARY(MAX)",
	},
	// Index keys are limited to 900 bytes.
	PrimaryKeyTypeNames: map[core.SemanticType]string{
		core.TypeText: "NVARCHAR(450)",
	},
	AutoIncrementSuffix: " IDENTITY(1,1)",
}

var sqlserverReservedWords = []string{
	"backup", "browse", "bulk", "cascade", "checkpoint", "clustered", "compute",
	"contains", "database", "dbcc", "deny", "disk", "distributed", "dump",
	"errlvl", "escape", "exec", "execute", "file", "fillfactor", "freetext",
	"function", "goto", "holdlock", "identity", "identitycol", "index", "kill",
	"lineno", "load", "merge", "national", "nocheck", "nonclustered", "of",
	"off", "offsets", "open", "option", "over", "percent", "pivot", "plan",
	"print", "proc", "procedure", "public", "raiserror", "read", "readtext",
	"reconfigure", "replication", "restore", "revert", "rowcount", "rowguidcol",
	"rule", "save", "schema", "setuser", "shutdown", "statistics", "top", "tran",
	"transaction", "trigger", "truncate", "tsequal", "unpivot", "updatetext",
	"use", "view", "waitfor", "writetext",
}

// SQLServer is the SQL Server dialect.
var SQLServer = dialect.New(Config).
	WithReservedWords(sqlserverReservedWords...).
	Build()
