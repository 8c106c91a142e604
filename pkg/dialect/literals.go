package dialect

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/querygraph/pkg/core"
)

// StringLiteral renders s as a quoted string literal with embedded quotes
// (and backslashes, where the engine treats them as escapes) escaped.
func (d *Dialect) StringLiteral(s string) string {
	d = d.orDefault()
	if d.cfg.EscapeBackslash {
		s = strings.ReplaceAll(s, `\`, `\\`)
	}
	s = strings.ReplaceAll(s, d.cfg.StringQuote, d.cfg.StringEscape)
	return d.cfg.StringQuote + s + d.cfg.StringQuote
}

// NumberLiteral renders an integer or floating point value.
func (d *Dialect) NumberLiteral(v any) (string, error) {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n), nil
	case int8:
		return strconv.FormatInt(int64(n), 10), nil
	case int16:
		return strconv.FormatInt(int64(n), 10), nil
	case int32:
		return strconv.FormatInt(int64(n), 10), nil
	case int64:
		return strconv.FormatInt(n, 10), nil
	case uint:
		return strconv.FormatUint(uint64(n), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(n), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(n), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(n), 10), nil
	case uint64:
		return strconv.FormatUint(n, 10), nil
	case float32:
		return formatFloat(float64(n), 32)
	case float64:
		return formatFloat(n, 64)
	default:
		return "", core.NewConfigurationError(core.CodeIllegalValue, "%T is not a number", v)
	}
}

func formatFloat(f float64, bits int) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", core.NewConfigurationError(core.CodeIllegalValue, "%v has no SQL literal", f)
	}
	return strconv.FormatFloat(f, 'f', -1, bits), nil
}

// BooleanLiteral renders b using the engine's true/false spelling.
func (d *Dialect) BooleanLiteral(b bool) string {
	d = d.orDefault()
	if b {
		return d.cfg.TrueLiteral
	}
	return d.cfg.FalseLiteral
}

// DateLiteral renders t wrapped in the engine's timestamp construction.
// Literals carry no zone, so t is written as UTC wall time.
func (d *Dialect) DateLiteral(t time.Time) string {
	d = d.orDefault()
	text := t.UTC().Format(d.cfg.TimestampLayout)
	return render(d.cfg.TimestampTemplate, d.StringLiteral(text), text)
}

// IntervalLiteral renders a duration as whole seconds.
func (d *Dialect) IntervalLiteral(v time.Duration) (string, error) {
	d = d.orDefault()
	if d.cfg.IntervalTemplate == "" {
		return "", d.unsupported("interval literals")
	}
	return render(d.cfg.IntervalTemplate, strconv.FormatInt(int64(v/time.Second), 10)), nil
}

// GeometryLiteral renders a point from its WKT text.
func (d *Dialect) GeometryLiteral(p core.Point) (string, error) {
	d = d.orDefault()
	if d.cfg.GeometryTemplate == "" {
		return "", d.unsupported("geometry literals")
	}
	return render(d.cfg.GeometryTemplate, d.StringLiteral(p.WKT())), nil
}

// GeometryEquals compares two rendered geometry expressions.
func (d *Dialect) GeometryEquals(left, right string) (string, error) {
	d = d.orDefault()
	if d.cfg.GeometryEqualsTemplate == "" {
		return "", d.unsupported("geometry comparison")
	}
	return render(d.cfg.GeometryEqualsTemplate, left, right), nil
}

// NullLiteral renders SQL NULL.
func (d *Dialect) NullLiteral() string {
	return "NULL"
}

// Literal renders v as a literal of the given semantic type. A nil value
// renders NULL. The Go type of v must match the semantic type.
func (d *Dialect) Literal(t core.SemanticType, v any) (string, error) {
	if v == nil {
		return d.NullLiteral(), nil
	}
	switch t {
	case core.TypeInteger:
		switch v.(type) {
		case float32, float64:
			return "", illegalValue(t, v)
		}
		return d.NumberLiteral(v)
	case core.TypeDecimal:
		return d.NumberLiteral(v)
	case core.TypeText:
		if s, ok := v.(string); ok {
			return d.StringLiteral(s), nil
		}
	case core.TypeBoolean:
		if b, ok := v.(bool); ok {
			return d.BooleanLiteral(b), nil
		}
	case core.TypeTimestamp:
		if ts, ok := v.(time.Time); ok {
			return d.DateLiteral(ts), nil
		}
	case core.TypeInterval:
		if iv, ok := v.(time.Duration); ok {
			return d.IntervalLiteral(iv)
		}
	case core.TypeGeometry:
		switch p := v.(type) {
		case core.Point:
			return d.GeometryLiteral(p)
		case *core.Point:
			if p != nil {
				return d.GeometryLiteral(*p)
			}
		}
	case core.TypeBinary:
		return "", d.unsupported("binary literals")
	}
	return "", illegalValue(t, v)
}

func illegalValue(t core.SemanticType, v any) error {
	return core.NewConfigurationError(core.CodeIllegalValue,
		"%s cannot hold a value of Go type %T", t, v)
}
