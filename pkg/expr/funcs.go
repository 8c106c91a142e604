package expr

import (
	"strconv"

	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
)

// Func is a call to a canonical function (see the dialect.Func* names).
type Func struct {
	Name   string
	Args   []Expression
	Result core.SemanticType
	// ArgType, when set, is required of every argument.
	ArgType core.SemanticType
}

// Call creates a function call with an explicit result type.
func Call(name string, result core.SemanticType, args ...Expression) Func {
	return Func{Name: name, Args: args, Result: result}
}

// Upper converts text to upper case.
func Upper(e Expression) Func {
	return Func{Name: dialect.FuncUpper, Args: []Expression{e}, Result: core.TypeText, ArgType: core.TypeText}
}

// Lower converts text to lower case.
func Lower(e Expression) Func {
	return Func{Name: dialect.FuncLower, Args: []Expression{e}, Result: core.TypeText, ArgType: core.TypeText}
}

// Length returns the number of characters in text.
func Length(e Expression) Func {
	return Func{Name: dialect.FuncLength, Args: []Expression{e}, Result: core.TypeInteger, ArgType: core.TypeText}
}

// Trim removes leading and trailing spaces.
func Trim(e Expression) Func {
	return Func{Name: dialect.FuncTrim, Args: []Expression{e}, Result: core.TypeText, ArgType: core.TypeText}
}

// Abs returns the absolute value of a number.
func Abs(e Expression) Func {
	return Func{Name: dialect.FuncAbs, Args: []Expression{e}, Result: e.Type()}
}

// Round rounds a number to the given decimal places.
func Round(e Expression, places int) Func {
	return Func{
		Name:   dialect.FuncRound,
		Args:   []Expression{e, Value{T: core.TypeInteger, V: places}},
		Result: e.Type(),
	}
}

// Coalesce returns the first non-NULL argument.
func Coalesce(first Expression, rest ...Expression) Func {
	return Func{Name: dialect.FuncCoalesce, Args: append([]Expression{first}, rest...), Result: first.Type()}
}

// CurrentTimestamp returns the database's current time.
func CurrentTimestamp() Func {
	return Func{Name: dialect.FuncCurrentTimestamp, Result: core.TypeTimestamp}
}

// Count counts non-NULL values of e.
func Count(e Expression) Func {
	return Func{Name: dialect.FuncCount, Args: []Expression{e}, Result: core.TypeInteger}
}

// Type implements Expression.
func (f Func) Type() core.SemanticType { return f.Result }

// Tables implements Expression.
func (f Func) Tables() []string { return TablesOf(f.Args...) }

// Render implements Expression.
func (f Func) Render(d *dialect.Dialect) (string, error) {
	args := make([]string, len(f.Args))
	for i, a := range f.Args {
		if f.ArgType != core.TypeUnknown && !core.Compatible(f.ArgType, a.Type()) {
			return "", core.NewConfigurationError(core.CodeIllegalOperator,
				"%s expects %s arguments, got %s", f.Name, f.ArgType, a.Type())
		}
		s, err := a.Render(d)
		if err != nil {
			return "", err
		}
		args[i] = s
	}
	return d.Function(f.Name, args...)
}

// Substring extracts part of a text value. Start is 1-based; a length of
// zero or less takes the rest of the value.
type Substring struct {
	Of     Expression
	Start  int
	Length int
}

// Substr creates a Substring.
func Substr(of Expression, start, length int) Substring {
	return Substring{Of: of, Start: start, Length: length}
}

// Type implements Expression.
func (s Substring) Type() core.SemanticType { return core.TypeText }

// Tables implements Expression.
func (s Substring) Tables() []string { return s.Of.Tables() }

// Render implements Expression.
func (s Substring) Render(d *dialect.Dialect) (string, error) {
	if !s.Of.Type().IsTextRendered() {
		return "", core.NewConfigurationError(core.CodeIllegalOperator, "substring of %s", s.Of.Type())
	}
	if s.Start < 1 {
		return "", core.NewConfigurationError(core.CodeIllegalValue, "substring start %d is before the first character", s.Start)
	}
	of, err := s.Of.Render(d)
	if err != nil {
		return "", err
	}
	length := strconv.Itoa(s.Length)
	if s.Length <= 0 {
		// Not every engine accepts the two-argument form.
		if length, err = d.Function(dialect.FuncLength, of); err != nil {
			return "", err
		}
	}
	return d.Function(dialect.FuncSubstring, of, strconv.Itoa(s.Start), length)
}

// Concat joins text values.
type Concat struct {
	Parts []Expression
}

// Join creates a Concat of two or more parts.
func Join(first, second Expression, rest ...Expression) Concat {
	return Concat{Parts: append([]Expression{first, second}, rest...)}
}

// Type implements Expression.
func (c Concat) Type() core.SemanticType { return core.TypeText }

// Tables implements Expression.
func (c Concat) Tables() []string { return TablesOf(c.Parts...) }

// Render implements Expression.
func (c Concat) Render(d *dialect.Dialect) (string, error) {
	var out string
	for i, p := range c.Parts {
		if !p.Type().IsTextRendered() {
			return "", core.NewConfigurationError(core.CodeIllegalOperator, "cannot concatenate %s", p.Type())
		}
		s, err := p.Render(d)
		if err != nil {
			return "", err
		}
		if i == 0 {
			out = s
			continue
		}
		out = d.Concat(out, s)
	}
	return out, nil
}

type star struct{}

func (star) Render(*dialect.Dialect) (string, error) { return "*", nil }
func (star) Type() core.SemanticType                  { return core.TypeUnknown }
func (star) Tables() []string                         { return nil }

// CountAll counts rows.
func CountAll() Func {
	return Func{Name: dialect.FuncCount, Args: []Expression{star{}}, Result: core.TypeInteger}
}
