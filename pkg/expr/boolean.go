package expr

import (
	"strings"

	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
)

// Literal is a constant truth value.
type Literal bool

// True and False are the constant conditions.
const (
	True  Literal = true
	False Literal = false
)

// Render implements Expression.
func (l Literal) Render(d *dialect.Dialect) (string, error) {
	if l {
		return d.TrueCondition(), nil
	}
	return d.FalseCondition(), nil
}

// Type implements Expression.
func (Literal) Type() core.SemanticType { return core.TypeBoolean }

// Tables implements Expression.
func (Literal) Tables() []string { return nil }

// Negate implements Boolean.
func (l Literal) Negate() Boolean { return !l }

// Junction combines conditions with AND or OR.
type Junction struct {
	Any   bool // OR when set, AND otherwise
	Terms []Boolean
}

// And is true when every term is. Terms that render empty are skipped;
// an empty And is true.
func And(terms ...Boolean) Junction { return Junction{Terms: terms} }

// Or is true when any term is. An empty Or is false.
func Or(terms ...Boolean) Junction { return Junction{Any: true, Terms: terms} }

// Type implements Expression.
func (Junction) Type() core.SemanticType { return core.TypeBoolean }

// Tables implements Expression.
func (j Junction) Tables() []string {
	exprs := make([]Expression, len(j.Terms))
	for i, t := range j.Terms {
		exprs[i] = t
	}
	return TablesOf(exprs...)
}

// Negate implements Boolean by De Morgan's laws, so negating twice gives
// back an identical tree.
func (j Junction) Negate() Boolean {
	terms := make([]Boolean, len(j.Terms))
	for i, t := range j.Terms {
		terms[i] = t.Negate()
	}
	return Junction{Any: !j.Any, Terms: terms}
}

// Render implements Expression.
func (j Junction) Render(d *dialect.Dialect) (string, error) {
	parts := make([]string, 0, len(j.Terms))
	for _, t := range j.Terms {
		s, err := t.Render(d)
		if err != nil {
			return "", err
		}
		if s != "" {
			parts = append(parts, s)
		}
	}
	switch {
	case len(parts) == 0 && j.Any:
		return d.FalseCondition(), nil
	case len(parts) == 0:
		return d.TrueCondition(), nil
	case len(parts) == 1:
		return parts[0], nil
	}
	sep := ") AND ("
	if j.Any {
		sep = ") OR ("
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}

// Not returns the logical inverse of b.
func Not(b Boolean) Boolean { return b.Negate() }
