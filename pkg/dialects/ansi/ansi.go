// Package ansi provides the base ANSI SQL dialect.
//
// It carries the defaults every other profile starts from: double-quoted
// identifiers, TIMESTAMP literals, LIMIT/OFFSET paging and identity columns.
package ansi

import (
	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
)

func init() {
	dialect.Register(ANSI)
}

// Config is the ANSI dialect configuration.
var Config = &core.DialectConfig{
	Name:             "ansi",
	IntervalTemplate: "INTERVAL '{0}' SECOND",
	TypeNames: map[core.SemanticType]string{
		core.TypeInterval: "INTERVAL DAY TO SECOND",
	},
}

// ANSI is the base ANSI SQL dialect.
var ANSI = dialect.New(Config).Build()
