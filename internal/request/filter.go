package request

import (
	"fmt"
	"strings"
	"time"

	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/expr"
	"github.com/leapstack-labs/querygraph/pkg/operator"
	"github.com/leapstack-labs/querygraph/pkg/schema"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// filterOperator builds the operator a filter describes for column c.
func filterOperator(c *schema.Column, f Filter) (operator.Operator, error) {
	values := f.Values
	if f.Value != nil {
		values = append([]any{f.Value}, values...)
	}
	lits, err := literals(c.Type, values)
	if err != nil {
		return operator.Operator{}, err
	}
	need := func(n int) error {
		if len(lits) != n {
			return core.NewConfigurationError(core.CodeIllegalValue, "%s needs %d value(s), got %d", f.Op, n, len(lits))
		}
		return nil
	}

	var op operator.Operator
	switch strings.ToLower(f.Op) {
	case "eq", "in", "":
		if len(lits) == 0 {
			return operator.Operator{}, need(1)
		}
		if len(lits) == 1 {
			op = operator.Equals(lits[0])
		} else {
			op = operator.In(lits...)
		}
	case "ne", "not_in":
		if len(lits) == 0 {
			return operator.Operator{}, need(1)
		}
		if len(lits) == 1 {
			op = operator.Equals(lits[0]).Not()
		} else {
			op = operator.In(lits...).Not()
		}
	case "lt", "le", "gt", "ge":
		if err := need(1); err != nil {
			return operator.Operator{}, err
		}
		op = map[string]func(expr.Expression) operator.Operator{
			"lt": operator.LessThan,
			"le": operator.LessOrEqual,
			"gt": operator.GreaterThan,
			"ge": operator.GreaterOrEqual,
		}[strings.ToLower(f.Op)](lits[0])
	case "between", "between_exclusive":
		if err := need(2); err != nil {
			return operator.Operator{}, err
		}
		if strings.EqualFold(f.Op, "between") {
			op = operator.Between(lits[0], lits[1])
		} else {
			op = operator.BetweenExclusive(lits[0], lits[1])
		}
	case "like", "not_like":
		if err := need(1); err != nil {
			return operator.Operator{}, err
		}
		op = operator.Like(lits[0])
		if strings.EqualFold(f.Op, "not_like") {
			op = op.Not()
		}
	case "ilike":
		if err := need(1); err != nil {
			return operator.Operator{}, err
		}
		op = operator.LikeFold(lits[0])
	case "null":
		op = operator.IsNull()
	case "not_null":
		op = operator.IsNull().Not()
	default:
		return operator.Operator{}, core.NewConfigurationError(core.CodeIllegalOperator, "unknown filter op %q", f.Op)
	}

	if f.IncludeNulls {
		op = op.IncludingNulls()
	}
	return op, op.Check(c.Type)
}

func literals(t core.SemanticType, values []any) ([]expr.Expression, error) {
	out := make([]expr.Expression, len(values))
	for i, raw := range values {
		v, err := coerce(t, raw)
		if err != nil {
			return nil, err
		}
		val, err := expr.ValueOf(t, v)
		if err != nil {
			return nil, err
		}
		out[i] = val
	}
	return out, nil
}

// coerce converts a decoded YAML scalar into the Go value the semantic type
// holds.
func coerce(t core.SemanticType, v any) (any, error) {
	switch t {
	case core.TypeTimestamp:
		if s, ok := v.(string); ok {
			for _, layout := range timestampLayouts {
				if ts, err := time.Parse(layout, s); err == nil {
					return ts, nil
				}
			}
			return nil, core.NewConfigurationError(core.CodeIllegalValue, "cannot read %q as a timestamp", s)
		}
	case core.TypeInterval:
		switch x := v.(type) {
		case string:
			d, err := time.ParseDuration(x)
			if err != nil {
				return nil, core.NewConfigurationError(core.CodeIllegalValue, "cannot read %q as an interval: %v", x, err)
			}
			return d, nil
		case int:
			return time.Duration(x) * time.Second, nil
		}
	case core.TypeGeometry:
		return point(v)
	case core.TypeBinary:
		if s, ok := v.(string); ok {
			return []byte(s), nil
		}
	}
	return v, nil
}

// point reads [x, y] or {x: .., y: ..}.
func point(v any) (any, error) {
	var xy []any
	switch p := v.(type) {
	case []any:
		xy = p
	case map[string]any:
		xy = []any{p["x"], p["y"]}
	default:
		return v, nil
	}
	if len(xy) != 2 {
		return nil, core.NewConfigurationError(core.CodeIllegalValue, "a point needs two coordinates")
	}
	var coords [2]float64
	for i, c := range xy {
		switch n := c.(type) {
		case int:
			coords[i] = float64(n)
		case float64:
			coords[i] = n
		default:
			return nil, core.NewConfigurationError(core.CodeIllegalValue, "coordinate %v is not a number", fmt.Sprint(c))
		}
	}
	return core.Point{X: coords[0], Y: coords[1]}, nil
}
