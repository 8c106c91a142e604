package dialect

import (
	"maps"
	"slices"
	"strings"
)

// Canonical function names. Dialects map these to their own spelling.
const (
	FuncUpper            = "upper"
	FuncLower            = "lower"
	FuncLength           = "length"
	FuncTrim             = "trim"
	FuncSubstring        = "substring"
	FuncCoalesce         = "coalesce"
	FuncAbs              = "abs"
	FuncRound            = "round"
	FuncCount            = "count"
	FuncCurrentTimestamp = "current_timestamp"
)

// niladic functions are written without parentheses when called with no arguments.
var niladic = map[string]bool{
	FuncCurrentTimestamp: true,
}

// HasFunction reports whether the engine supports a canonical function.
func (d *Dialect) HasFunction(name string) bool {
	_, ok := d.orDefault().functions[strings.ToLower(name)]
	return ok
}

// Functions returns the canonical names this dialect supports, sorted.
func (d *Dialect) Functions() []string {
	return slices.Sorted(maps.Keys(d.orDefault().functions))
}

// Function renders a call to a canonical function with rendered arguments.
func (d *Dialect) Function(name string, args ...string) (string, error) {
	d = d.orDefault()
	key := strings.ToLower(name)
	spelling, ok := d.functions[key]
	if !ok {
		return "", d.unsupported("function " + name)
	}
	if len(args) == 0 && niladic[key] {
		return spelling, nil
	}
	return spelling + "(" + strings.Join(args, ", ") + ")", nil
}
