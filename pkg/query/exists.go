package query

import (
	"fmt"
	"sort"

	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
	"github.com/leapstack-labs/querygraph/pkg/expr"
)

// ExistsExpr is a boolean expression that is true when a correlated
// subquery returns a row.
type ExistsExpr struct {
	inner   *Query
	negated bool
}

// Exists wraps a snapshot of inner. Changes made to inner afterwards are
// not seen. Use inner.Correlate to tie it to tables of the enclosing query.
func Exists(inner *Query) ExistsExpr {
	return ExistsExpr{inner: inner.clone()}
}

// NotExists is the negation of Exists.
func NotExists(inner *Query) ExistsExpr {
	e := Exists(inner)
	e.negated = true
	return e
}

// Render compiles the inner query and embeds it without its terminator.
func (e ExistsExpr) Render(d *dialect.Dialect) (string, error) {
	st, err := e.inner.Compile(d)
	if err != nil {
		return "", fmt.Errorf("exists subquery: %w", err)
	}
	s := d.Exists(st.SQL)
	if e.negated {
		s = "NOT " + s
	}
	return s, nil
}

// Type implements expr.Expression.
func (ExistsExpr) Type() core.SemanticType { return core.TypeBoolean }

// Tables returns the correlated tables of the enclosing query.
func (e ExistsExpr) Tables() []string {
	keys := make([]string, 0, len(e.inner.outer))
	for _, t := range e.inner.outer {
		keys = append(keys, t.Key())
	}
	sort.Strings(keys)
	return keys
}

// Negate implements expr.Boolean.
func (e ExistsExpr) Negate() expr.Boolean {
	e.negated = !e.negated
	return e
}
