// Package operator provides first-class comparison operators.
//
// An Operator is a small tagged union: a Kind plus operand expressions and a
// few flags. It checks its own legality against a column's semantic type,
// renders itself as a WHERE fragment or a join predicate, and produces its
// logical inverse. The zero Operator is an equality with no operand: it
// renders no predicate and relates two columns by equality.
package operator

import (
	"strings"

	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
	"github.com/leapstack-labs/querygraph/pkg/expr"
)

// Kind identifies an operator.
type Kind int

// Operator kinds.
const (
	KindEquals Kind = iota
	KindLessThan
	KindLessOrEqual
	KindGreaterThan
	KindGreaterOrEqual
	KindLike
	KindIn
	KindBetween
	KindIsNull
)

var kindNames = map[Kind]string{
	KindEquals:         "equals",
	KindLessThan:       "less-than",
	KindLessOrEqual:    "less-or-equal",
	KindGreaterThan:    "greater-than",
	KindGreaterOrEqual: "greater-or-equal",
	KindLike:           "like",
	KindIn:             "in",
	KindBetween:        "between",
	KindIsNull:         "is-null",
}

// String returns the kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind parses a kind name as written by String.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// comparison symbols and their inverses.
var (
	symbols = map[Kind]string{
		KindEquals:         "=",
		KindLessThan:       "<",
		KindLessOrEqual:    "<=",
		KindGreaterThan:    ">",
		KindGreaterOrEqual: ">=",
	}
	inverse = map[Kind]Kind{
		KindLessThan:       KindGreaterOrEqual,
		KindLessOrEqual:    KindGreaterThan,
		KindGreaterThan:    KindLessOrEqual,
		KindGreaterOrEqual: KindLessThan,
	}
	mirrored = map[Kind]Kind{
		KindLessThan:       KindGreaterThan,
		KindLessOrEqual:    KindGreaterOrEqual,
		KindGreaterThan:    KindLessThan,
		KindGreaterOrEqual: KindLessOrEqual,
	}
)

// nullMode says how NULL subjects combine with the comparison.
type nullMode int

const (
	nullsUnknown nullMode = iota // three-valued SQL comparison
	nullsMatch                   // OR subject IS NULL
	nullsReject                  // AND subject IS NOT NULL
)

// Operator is a comparison waiting for a subject.
type Operator struct {
	kind      Kind
	operands  []expr.Expression
	negated   bool
	nulls     nullMode
	fold      bool // case-insensitive LIKE
	exclusive bool // BETWEEN without its bounds
}

// Equals matches values equal to v. A NULL v matches NULL.
func Equals(v expr.Expression) Operator { return Operator{kind: KindEquals, operands: []expr.Expression{v}} }

// LessThan matches values below v.
func LessThan(v expr.Expression) Operator { return Operator{kind: KindLessThan, operands: []expr.Expression{v}} }

// LessOrEqual matches values up to and including v.
func LessOrEqual(v expr.Expression) Operator {
	return Operator{kind: KindLessOrEqual, operands: []expr.Expression{v}}
}

// GreaterThan matches values above v.
func GreaterThan(v expr.Expression) Operator {
	return Operator{kind: KindGreaterThan, operands: []expr.Expression{v}}
}

// GreaterOrEqual matches values from v upward.
func GreaterOrEqual(v expr.Expression) Operator {
	return Operator{kind: KindGreaterOrEqual, operands: []expr.Expression{v}}
}

// Like matches text against a pattern using % and _ wildcards.
func Like(pattern expr.Expression) Operator {
	return Operator{kind: KindLike, operands: []expr.Expression{pattern}}
}

// LikeFold is Like ignoring case.
func LikeFold(pattern expr.Expression) Operator {
	return Operator{kind: KindLike, operands: []expr.Expression{pattern}, fold: true}
}

// In matches any of the values. An empty list matches nothing.
func In(values ...expr.Expression) Operator {
	return Operator{kind: KindIn, operands: values}
}

// Between matches values from lo to hi inclusive. A missing bound (nil or
// NULL) drops the predicate.
func Between(lo, hi expr.Expression) Operator {
	return Operator{kind: KindBetween, operands: []expr.Expression{lo, hi}}
}

// BetweenExclusive matches values strictly between lo and hi.
func BetweenExclusive(lo, hi expr.Expression) Operator {
	return Operator{kind: KindBetween, operands: []expr.Expression{lo, hi}, exclusive: true}
}

// IsNull matches NULL.
func IsNull() Operator { return Operator{kind: KindIsNull} }

// Relation returns an operand-less operator for relating two columns.
func Relation(kind Kind) Operator { return Operator{kind: kind} }

// Kind returns the operator kind.
func (o Operator) Kind() Kind { return o.kind }

// Operands returns a copy of the operands.
func (o Operator) Operands() []expr.Expression {
	return append([]expr.Expression(nil), o.operands...)
}

// Negated reports whether the operator has been inverted an odd number of times.
func (o Operator) Negated() bool { return o.negated }

// IncludesNulls reports whether NULL subjects also match.
func (o Operator) IncludesNulls() bool { return o.nulls == nullsMatch }

// IsZero reports whether the operator places no constraint on a subject.
func (o Operator) IsZero() bool {
	return o.kind != KindIsNull && o.kind != KindIn && len(o.operands) == 0
}

// Not returns the logical inverse. Applying Not twice gives back an
// identical operator. The inverse of a NULL-inclusive operator rejects
// NULL subjects, so a row matches exactly one of o and o.Not().
func (o Operator) Not() Operator {
	o.operands = o.Operands()
	o.negated = !o.negated
	switch o.nulls {
	case nullsMatch:
		o.nulls = nullsReject
	case nullsReject:
		o.nulls = nullsMatch
	}
	return o
}

// IncludingNulls returns a copy that also matches NULL subjects.
func (o Operator) IncludingNulls() Operator {
	o.operands = o.Operands()
	o.nulls = nullsMatch
	return o
}

// Translate returns a copy with fn applied to every operand.
func (o Operator) Translate(fn func(expr.Expression) expr.Expression) Operator {
	ops := make([]expr.Expression, len(o.operands))
	for i, e := range o.operands {
		if e != nil {
			ops[i] = fn(e)
		}
	}
	o.operands = ops
	return o
}

// Reverse returns the operator with its sides swapped, so that
// a < b relates the same rows as b > a.
func (o Operator) Reverse() Operator {
	o.operands = o.Operands()
	if k, ok := mirrored[o.kind]; ok {
		o.kind = k
	}
	return o
}

// Check reports whether the operator may be applied to a column of type t
// and whether its operands fit that type.
func (o Operator) Check(t core.SemanticType) error {
	legal := true
	switch o.kind {
	case KindIsNull:
	case KindEquals:
		legal = t != core.TypeBinary
	case KindIn:
		legal = t != core.TypeBinary && t != core.TypeGeometry
	case KindLike:
		legal = t.IsTextRendered()
	case KindLessThan, KindLessOrEqual, KindGreaterThan, KindGreaterOrEqual, KindBetween:
		legal = t.IsOrdered()
	}
	if !legal {
		return core.NewConfigurationError(core.CodeIllegalOperator, "%s is not allowed on %s values", o.kind, t)
	}
	for _, e := range o.operands {
		if e == nil {
			continue
		}
		if !core.Compatible(t, e.Type()) {
			return core.NewConfigurationError(core.CodeIllegalValue,
				"%s operand of type %s does not fit a %s column", o.kind, e.Type(), t)
		}
	}
	return nil
}

// Render returns the WHERE fragment applying the operator to subject. An
// empty string means no predicate.
func (o Operator) Render(subject expr.Expression, d *dialect.Dialect) (string, error) {
	if err := o.Check(subject.Type()); err != nil {
		return "", err
	}
	s, err := subject.Render(d)
	if err != nil {
		return "", err
	}
	frag, err := o.fragment(s, subject.Type(), d)
	if err != nil || frag == "" {
		return frag, err
	}
	if o.kind == KindIsNull {
		return frag, nil
	}
	switch o.nulls {
	case nullsMatch:
		return "(" + frag + " OR " + s + " IS NULL)", nil
	case nullsReject:
		return "(" + frag + " AND " + s + " IS NOT NULL)", nil
	}
	return frag, nil
}

func (o Operator) fragment(s string, t core.SemanticType, d *dialect.Dialect) (string, error) {
	switch o.kind {
	case KindIsNull:
		return nullTest(s, o.negated), nil
	case KindIn:
		return o.renderIn(s, d)
	case KindBetween:
		return o.renderBetween(s, d)
	}

	if len(o.operands) == 0 || o.operands[0] == nil {
		return "", nil
	}
	if o.kind == KindEquals && expr.IsNullValue(o.operands[0]) {
		return nullTest(s, o.negated), nil
	}
	v, err := o.operands[0].Render(d)
	if err != nil {
		return "", err
	}
	return o.binary(s, v, t, d)
}

// binary renders left <op> right for single-operand kinds.
func (o Operator) binary(left, right string, t core.SemanticType, d *dialect.Dialect) (string, error) {
	switch o.kind {
	case KindLike:
		return d.Like(left, right, o.fold, o.negated), nil
	case KindEquals:
		if t == core.TypeGeometry {
			frag, err := d.GeometryEquals(left, right)
			if err != nil || !o.negated {
				return frag, err
			}
			return "NOT (" + frag + ")", nil
		}
		if o.negated {
			return left + " <> " + right, nil
		}
		return left + " = " + right, nil
	default:
		k := o.kind
		if o.negated {
			k = inverse[k]
		}
		return left + " " + symbols[k] + " " + right, nil
	}
}

func nullTest(s string, negated bool) string {
	if negated {
		return s + " IS NOT NULL"
	}
	return s + " IS NULL"
}

// renderIn renders list membership. A NULL member never compares equal in
// SQL, so it becomes an explicit IS NULL test beside the list.
func (o Operator) renderIn(s string, d *dialect.Dialect) (string, error) {
	vals := make([]string, 0, len(o.operands))
	hasNull := false
	for _, e := range o.operands {
		switch {
		case e == nil:
			continue
		case expr.IsNullValue(e):
			hasNull = true
			continue
		}
		v, err := e.Render(d)
		if err != nil {
			return "", err
		}
		vals = append(vals, v)
	}
	if len(vals) == 0 {
		switch {
		case hasNull:
			return nullTest(s, o.negated), nil
		case o.negated:
			return d.TrueCondition(), nil
		default:
			return d.FalseCondition(), nil
		}
	}

	op := " IN ("
	if o.negated {
		op = " NOT IN ("
	}
	list := s + op + strings.Join(vals, ", ") + ")"
	switch {
	case !hasNull:
		return list, nil
	case o.negated:
		return "(" + list + " AND " + s + " IS NOT NULL)", nil
	default:
		return "(" + list + " OR " + s + " IS NULL)", nil
	}
}

func (o Operator) renderBetween(s string, d *dialect.Dialect) (string, error) {
	if len(o.operands) != 2 {
		return "", nil
	}
	for _, b := range o.operands {
		if b == nil || expr.IsNullValue(b) {
			return "", nil
		}
	}
	lo, err := o.operands[0].Render(d)
	if err != nil {
		return "", err
	}
	hi, err := o.operands[1].Render(d)
	if err != nil {
		return "", err
	}
	switch {
	case o.exclusive && o.negated:
		return "(" + s + " <= " + lo + " OR " + s + " >= " + hi + ")", nil
	case o.exclusive:
		return "(" + s + " > " + lo + " AND " + s + " < " + hi + ")", nil
	case o.negated:
		return s + " NOT BETWEEN " + lo + " AND " + hi, nil
	default:
		return s + " BETWEEN " + lo + " AND " + hi, nil
	}
}

// RenderRelationship renders a join predicate comparing two columns with
// this operator's kind. Operands are ignored.
func (o Operator) RenderRelationship(left, right expr.Expression, d *dialect.Dialect) (string, error) {
	switch o.kind {
	case KindIn, KindBetween, KindIsNull:
		return "", core.NewConfigurationError(core.CodeIllegalOperator, "%s cannot relate two columns", o.kind)
	}
	if err := o.Check(left.Type()); err != nil {
		return "", err
	}
	if !core.Compatible(left.Type(), right.Type()) {
		return "", core.NewConfigurationError(core.CodeIllegalValue,
			"cannot relate %s to %s", left.Type(), right.Type())
	}
	l, err := left.Render(d)
	if err != nil {
		return "", err
	}
	r, err := right.Render(d)
	if err != nil {
		return "", err
	}
	return o.binary(l, r, left.Type(), d)
}

// On binds the operator to a subject, producing a condition.
func (o Operator) On(subject expr.Expression) expr.Boolean {
	return Predicate{Subject: subject, Op: o}
}

// Predicate is an operator applied to a subject expression.
type Predicate struct {
	Subject expr.Expression
	Op      Operator
}

// Render implements expr.Expression.
func (p Predicate) Render(d *dialect.Dialect) (string, error) {
	return p.Op.Render(p.Subject, d)
}

// Type implements expr.Expression.
func (Predicate) Type() core.SemanticType { return core.TypeBoolean }

// Tables implements expr.Expression.
func (p Predicate) Tables() []string {
	return expr.TablesOf(append([]expr.Expression{p.Subject}, p.Op.operands...)...)
}

// Negate implements expr.Boolean.
func (p Predicate) Negate() expr.Boolean {
	return Predicate{Subject: p.Subject, Op: p.Op.Not()}
}
