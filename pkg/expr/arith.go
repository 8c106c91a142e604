package expr

import (
	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
)

// ArithOp is an arithmetic operator.
type ArithOp string

// Arithmetic operators.
const (
	OpAdd ArithOp = "+"
	OpSub ArithOp = "-"
	OpMul ArithOp = "*"
	OpDiv ArithOp = "/"
	OpMod ArithOp = "%"
)

// Arithmetic combines two operands.
type Arithmetic struct {
	Op          ArithOp
	Left, Right Expression
}

// Add returns left + right. Timestamps may be shifted by intervals.
func Add(left, right Expression) Arithmetic { return Arithmetic{OpAdd, left, right} }

// Sub returns left - right.
func Sub(left, right Expression) Arithmetic { return Arithmetic{OpSub, left, right} }

// Mul returns left * right.
func Mul(left, right Expression) Arithmetic { return Arithmetic{OpMul, left, right} }

// Div returns left / right.
func Div(left, right Expression) Arithmetic { return Arithmetic{OpDiv, left, right} }

// Mod returns the remainder of left / right.
func Mod(left, right Expression) Arithmetic { return Arithmetic{OpMod, left, right} }

// Type implements Expression. Operands that cannot be combined yield TypeUnknown
// and fail at render time.
func (a Arithmetic) Type() core.SemanticType {
	l, r := a.Left.Type(), a.Right.Type()
	switch {
	case l == core.TypeInteger && r == core.TypeInteger:
		return core.TypeInteger
	case l.IsNumeric() && r.IsNumeric():
		return core.TypeDecimal
	case l == core.TypeTimestamp && r == core.TypeInterval && (a.Op == OpAdd || a.Op == OpSub):
		return core.TypeTimestamp
	case l == core.TypeInterval && r == core.TypeInterval && (a.Op == OpAdd || a.Op == OpSub):
		return core.TypeInterval
	default:
		return core.TypeUnknown
	}
}

// Tables implements Expression.
func (a Arithmetic) Tables() []string { return TablesOf(a.Left, a.Right) }

// Render implements Expression.
func (a Arithmetic) Render(d *dialect.Dialect) (string, error) {
	if a.Type() == core.TypeUnknown {
		return "", core.NewConfigurationError(core.CodeIllegalOperator,
			"cannot apply %s to %s and %s", a.Op, a.Left.Type(), a.Right.Type())
	}
	l, err := a.Left.Render(d)
	if err != nil {
		return "", err
	}
	r, err := a.Right.Render(d)
	if err != nil {
		return "", err
	}
	if a.Op == OpMod {
		return d.Modulo(l, r), nil
	}
	return "(" + l + " " + string(a.Op) + " " + r + ")", nil
}
