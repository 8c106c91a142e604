package schema

import (
	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/expr"
	"github.com/leapstack-labs/querygraph/pkg/operator"
)

// Mode describes the pending predicate on a column.
type Mode int

// Column modes.
const (
	// ModeNone places no constraint on the column.
	ModeNone Mode = iota
	ModeLiteral
	ModeNull
	ModeLike
	ModeIn
	ModeBetween
	ModeCompare
)

var modeNames = [...]string{"none", "literal", "null", "like", "in", "between", "compare"}

// String returns the mode name.
func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// Column is a typed column of a table together with the predicate the
// caller wants applied to it.
type Column struct {
	Name string
	Type core.SemanticType
	// Excluded columns are not selected.
	Excluded bool

	pending operator.Operator
}

// NewColumn creates a column of the given semantic type.
func NewColumn(name string, t core.SemanticType) *Column {
	return &Column{Name: name, Type: t}
}

// Integer creates an integer column.
func Integer(name string) *Column { return NewColumn(name, core.TypeInteger) }

// Decimal creates a decimal column.
func Decimal(name string) *Column { return NewColumn(name, core.TypeDecimal) }

// Text creates a text column.
func Text(name string) *Column { return NewColumn(name, core.TypeText) }

// Boolean creates a boolean column.
func Boolean(name string) *Column { return NewColumn(name, core.TypeBoolean) }

// Timestamp creates a timestamp column.
func Timestamp(name string) *Column { return NewColumn(name, core.TypeTimestamp) }

// Interval creates an interval column.
func Interval(name string) *Column { return NewColumn(name, core.TypeInterval) }

// Geometry creates a geometry column.
func Geometry(name string) *Column { return NewColumn(name, core.TypeGeometry) }

// Binary creates a binary column.
func Binary(name string) *Column { return NewColumn(name, core.TypeBinary) }

// Operator returns the pending operator.
func (c *Column) Operator() operator.Operator { return c.pending }

// Mode reports the kind of predicate pending on the column.
func (c *Column) Mode() Mode {
	op := c.pending
	switch {
	case op.IsZero():
		return ModeNone
	case op.Kind() == operator.KindIsNull:
		return ModeNull
	case op.Kind() == operator.KindEquals:
		if ops := op.Operands(); len(ops) == 1 && expr.IsNullValue(ops[0]) {
			return ModeNull
		}
		return ModeLiteral
	case op.Kind() == operator.KindLike:
		return ModeLike
	case op.Kind() == operator.KindIn:
		return ModeIn
	case op.Kind() == operator.KindBetween:
		return ModeBetween
	default:
		return ModeCompare
	}
}

// Permit sets the pending operator after checking it is legal for the
// column's type.
func (c *Column) Permit(op operator.Operator) error {
	if err := op.Check(c.Type); err != nil {
		return err
	}
	c.pending = op
	return nil
}

// PermitAnything clears the pending operator.
func (c *Column) PermitAnything() {
	c.pending = operator.Operator{}
}

// PermittedValues matches any of the values; none clears the predicate.
func (c *Column) PermittedValues(values ...any) error {
	op, err := c.valuesOperator(values)
	if err != nil || len(values) == 0 {
		return err
	}
	return c.Permit(op)
}

// ExcludedValues matches anything but the values.
func (c *Column) ExcludedValues(values ...any) error {
	op, err := c.valuesOperator(values)
	if err != nil || len(values) == 0 {
		return err
	}
	return c.Permit(op.Not())
}

func (c *Column) valuesOperator(values []any) (operator.Operator, error) {
	if len(values) == 0 {
		c.PermitAnything()
		return operator.Operator{}, nil
	}
	vals := make([]expr.Expression, len(values))
	for i, v := range values {
		val, err := expr.ValueOf(c.Type, v)
		if err != nil {
			return operator.Operator{}, err
		}
		vals[i] = val
	}
	if len(vals) == 1 {
		return operator.Equals(vals[0]), nil
	}
	return operator.In(vals...), nil
}

// PermittedRange matches values from lo to hi inclusive. A nil bound drops
// the predicate.
func (c *Column) PermittedRange(lo, hi any) error {
	l, h, err := c.bounds(lo, hi)
	if err != nil {
		return err
	}
	return c.Permit(operator.Between(l, h))
}

// PermittedRangeExclusive matches values strictly between lo and hi.
func (c *Column) PermittedRangeExclusive(lo, hi any) error {
	l, h, err := c.bounds(lo, hi)
	if err != nil {
		return err
	}
	return c.Permit(operator.BetweenExclusive(l, h))
}

func (c *Column) bounds(lo, hi any) (expr.Value, expr.Value, error) {
	l, err := expr.ValueOf(c.Type, lo)
	if err != nil {
		return expr.Value{}, expr.Value{}, err
	}
	h, err := expr.ValueOf(c.Type, hi)
	if err != nil {
		return expr.Value{}, expr.Value{}, err
	}
	return l, h, nil
}

// PermittedPattern matches a LIKE pattern.
func (c *Column) PermittedPattern(pattern string) error {
	return c.Permit(operator.Like(expr.Value{T: core.TypeText, V: pattern}))
}

// PermittedPatternIgnoreCase matches a LIKE pattern ignoring case.
func (c *Column) PermittedPatternIgnoreCase(pattern string) error {
	return c.Permit(operator.LikeFold(expr.Value{T: core.TypeText, V: pattern}))
}

// PermitNull matches NULL only.
func (c *Column) PermitNull() error {
	return c.Permit(operator.IsNull())
}

// IncludeNulls widens the pending predicate to also match NULL.
func (c *Column) IncludeNulls() {
	if !c.pending.IsZero() {
		c.pending = c.pending.IncludingNulls()
	}
}

// Ref returns an expression referencing the column through a table key.
func (c *Column) Ref(tableKey string) expr.Column {
	return expr.Col(tableKey, c.Name, c.Type)
}

func (c *Column) clone() *Column {
	cp := *c
	return &cp
}
