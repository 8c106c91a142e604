// Package expr provides typed SQL expression nodes.
//
// Expressions are immutable values. They know which tables they reference and
// render themselves through a *dialect.Dialect, so the same tree produces
// correct text for every engine.
package expr

import (
	"slices"
	"sort"
	"time"

	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
)

// Expression is a renderable SQL expression.
type Expression interface {
	// Render returns the SQL text for the expression.
	Render(d *dialect.Dialect) (string, error)
	// Type returns the semantic type of the result.
	Type() core.SemanticType
	// Tables returns the sorted keys of the tables the expression references.
	Tables() []string
}

// Boolean is an expression producing a truth value that can be negated
// without re-deriving it.
type Boolean interface {
	Expression
	Negate() Boolean
}

// TablesOf merges the table keys referenced by all expressions.
func TablesOf(exprs ...Expression) []string {
	var keys []string
	for _, e := range exprs {
		if e != nil {
			keys = append(keys, e.Tables()...)
		}
	}
	sort.Strings(keys)
	return slices.Compact(keys)
}

// Column references a column of a table in the query.
type Column struct {
	// Table is the table key (alias, else table name). Empty renders the
	// bare column name, as used by UPDATE and DELETE.
	Table string
	Name  string
	T     core.SemanticType
}

// Col creates a column reference.
func Col(table, name string, t core.SemanticType) Column {
	return Column{Table: table, Name: name, T: t}
}

// Render implements Expression.
func (c Column) Render(d *dialect.Dialect) (string, error) {
	return d.QualifiedColumn(c.Table, c.Name), nil
}

// Type implements Expression.
func (c Column) Type() core.SemanticType { return c.T }

// Tables implements Expression.
func (c Column) Tables() []string {
	if c.Table == "" {
		return nil
	}
	return []string{c.Table}
}

// Unqualified returns the same column without its table key.
func (c Column) Unqualified() Column {
	c.Table = ""
	return c
}

// Value is a typed literal.
type Value struct {
	T core.SemanticType
	V any
}

// ValueOf creates a literal after checking that v fits t. A nil v is NULL.
func ValueOf(t core.SemanticType, v any) (Value, error) {
	if err := Validate(t, v); err != nil {
		return Value{}, err
	}
	return Value{T: t, V: v}, nil
}

// MustValue is like ValueOf but panics on a mismatch.
func MustValue(t core.SemanticType, v any) Value {
	val, err := ValueOf(t, v)
	if err != nil {
		panic(err)
	}
	return val
}

// Null returns a typed NULL.
func Null(t core.SemanticType) Value {
	return Value{T: t}
}

// Validate checks that the Go value v can be held by semantic type t.
func Validate(t core.SemanticType, v any) error {
	if v == nil {
		return nil
	}
	ok := false
	switch t {
	case core.TypeInteger:
		switch v.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			ok = true
		}
	case core.TypeDecimal:
		switch v.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
			ok = true
		}
	case core.TypeText:
		_, ok = v.(string)
	case core.TypeBoolean:
		_, ok = v.(bool)
	case core.TypeTimestamp:
		_, ok = v.(time.Time)
	case core.TypeInterval:
		_, ok = v.(time.Duration)
	case core.TypeGeometry:
		switch v.(type) {
		case core.Point, *core.Point:
			ok = true
		}
	case core.TypeBinary:
		_, ok = v.([]byte)
	}
	if !ok {
		return core.NewConfigurationError(core.CodeIllegalValue, "%s cannot hold a value of Go type %T", t, v)
	}
	return nil
}

// IsNull reports whether the value is NULL.
func (v Value) IsNull() bool { return v.V == nil }

// Render implements Expression.
func (v Value) Render(d *dialect.Dialect) (string, error) {
	return d.Literal(v.T, v.V)
}

// Type implements Expression.
func (v Value) Type() core.SemanticType { return v.T }

// Tables implements Expression.
func (v Value) Tables() []string { return nil }

// IsNullValue reports whether e is a NULL literal.
func IsNullValue(e Expression) bool {
	v, ok := e.(Value)
	return ok && v.IsNull()
}
