package adapter

import (
	"strings"

	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/schema"
)

// Column represents a column in a database table.
type Column struct {
	Name       string
	Type       string
	Nullable   bool
	PrimaryKey bool
	Position   int
}

// Metadata holds metadata about a database table.
type Metadata struct {
	Schema   string
	Name     string
	Columns  []Column
	RowCount int64
}

// typeHints maps fragments of engine type names to semantic types, most
// specific first.
var typeHints = []struct {
	fragment string
	semantic core.SemanticType
}{
	{"interval", core.TypeInterval},
	{"point", core.TypeGeometry},
	{"geometry", core.TypeGeometry},
	{"geography", core.TypeGeometry},
	{"bool", core.TypeBoolean},
	{"bit", core.TypeBoolean},
	{"timestamp", core.TypeTimestamp},
	{"datetime", core.TypeTimestamp},
	{"date", core.TypeTimestamp},
	{"time", core.TypeTimestamp},
	{"int", core.TypeInteger},
	{"serial", core.TypeInteger},
	{"dec", core.TypeDecimal},
	{"numeric", core.TypeDecimal},
	{"number", core.TypeDecimal},
	{"real", core.TypeDecimal},
	{"double", core.TypeDecimal},
	{"float", core.TypeDecimal},
	{"money", core.TypeDecimal},
	{"blob", core.TypeBinary},
	{"binary", core.TypeBinary},
	{"bytea", core.TypeBinary},
}

// SemanticTypeOf guesses the semantic type of an engine type name.
// Anything unrecognised is treated as text.
func SemanticTypeOf(dbType string) core.SemanticType {
	t := strings.ToLower(dbType)
	for _, h := range typeHints {
		if strings.Contains(t, h.fragment) {
			return h.semantic
		}
	}
	return core.TypeText
}

// Table converts the metadata into a table descriptor with no predicates.
func (m *Metadata) Table() *schema.Table {
	cols := make([]*schema.Column, 0, len(m.Columns))
	pk := ""
	for _, c := range m.Columns {
		cols = append(cols, schema.NewColumn(c.Name, SemanticTypeOf(c.Type)))
		if c.PrimaryKey && pk == "" {
			pk = c.Name
		}
	}
	t := schema.NewTable(m.Name, cols...)
	if pk != "" {
		t = t.WithPrimaryKey(pk, false)
	}
	return t
}
