// Package dialect provides SQL dialect profiles: immutable strategy objects
// that turn structured arguments into dialect-correct SQL fragments.
//
// A profile is built once from a pure-data core.DialectConfig merged over the
// ANSI defaults documented on that type, then shared read-only by any number
// of concurrent compilations. Concrete engines live in pkg/dialects/* and
// register themselves from init().
//
// Every fragment method is safe on a nil *Dialect (the ANSI defaults are
// used) and has no side effects. A fragment the engine cannot express is
// reported as *core.DialectUnsupportedError instead of emitting invalid SQL.
package dialect

import (
	"maps"
	"strconv"
	"strings"

	"github.com/leapstack-labs/querygraph/pkg/core"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Dialect represents a built SQL dialect profile.
type Dialect struct {
	Name        string
	Identifiers core.IdentifierConfig

	// Database-specific settings
	DefaultSchema string                // Default schema name ("main" for DuckDB, "public" for Postgres)
	Placeholder   core.PlaceholderStyle // How to format query parameters

	cfg           core.DialectConfig
	reservedWords map[string]struct{}
	functions     map[string]string
	typeNames     map[core.SemanticType]string
	pkTypeNames   map[core.SemanticType]string
}

// fallback backs nil receivers.
var fallback = NewDialect("ansi").Build()

func (d *Dialect) orDefault() *Dialect {
	if d == nil {
		return fallback
	}
	return d
}

// GetName returns the dialect name.
func (d *Dialect) GetName() string {
	return d.orDefault().Name
}

// Config returns a copy of the merged configuration for this dialect.
func (d *Dialect) Config() core.DialectConfig {
	d = d.orDefault()
	cfg := d.cfg
	cfg.Functions = maps.Clone(d.functions)
	cfg.TypeNames = maps.Clone(d.typeNames)
	cfg.PrimaryKeyTypeNames = maps.Clone(d.pkTypeNames)
	cfg.ReservedWords = append([]string(nil), d.cfg.ReservedWords...)
	return cfg
}

func (d *Dialect) unsupported(feature string) error {
	return &core.DialectUnsupportedError{Dialect: d.Name, Feature: feature}
}

// NormalizeName normalizes an identifier according to dialect rules.
func (d *Dialect) NormalizeName(name string) string {
	d = d.orDefault()
	switch d.Identifiers.Normalization {
	case core.NormUppercase:
		return cases.Upper(language.Und).String(name)
	case core.NormLowercase, core.NormCaseInsensitive:
		return cases.Lower(language.Und).String(name)
	default: // NormCaseSensitive
		return name
	}
}

// IsReservedWord returns true if the word needs quoting when used as an identifier.
func (d *Dialect) IsReservedWord(word string) bool {
	d = d.orDefault()
	_, ok := d.reservedWords[strings.ToLower(word)]
	return ok
}

// QuoteIdentifier quotes an identifier using the dialect's quote characters.
func (d *Dialect) QuoteIdentifier(name string) string {
	d = d.orDefault()
	// Escape any existing quote end characters in the name (e.g., ] -> ]])
	escaped := strings.ReplaceAll(name, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	return d.Identifiers.Quote + escaped + d.Identifiers.QuoteEnd
}

// QuoteIdentifierIfNeeded quotes an identifier only if it's a reserved word
// or is not a plain identifier.
func (d *Dialect) QuoteIdentifierIfNeeded(name string) string {
	if d.IsReservedWord(name) || !isPlainIdentifier(name) {
		return d.QuoteIdentifier(name)
	}
	return name
}

func isPlainIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// QualifiedColumn renders table.column with quoting where needed.
func (d *Dialect) QualifiedColumn(table, column string) string {
	if table == "" {
		return d.QuoteIdentifierIfNeeded(column)
	}
	return d.QuoteIdentifierIfNeeded(table) + "." + d.QuoteIdentifierIfNeeded(column)
}

// FormatPlaceholder returns a placeholder for the given parameter index (1-based).
func (d *Dialect) FormatPlaceholder(index int) string {
	switch d.orDefault().Placeholder {
	case core.PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	case core.PlaceholderColon:
		return ":" + strconv.Itoa(index)
	case core.PlaceholderAt:
		return "@p" + strconv.Itoa(index)
	default: // PlaceholderQuestion
		return "?"
	}
}

// TrueCondition returns the always-true predicate used to anchor WHERE clauses.
func (d *Dialect) TrueCondition() string {
	return d.orDefault().cfg.TrueCondition
}

// FalseCondition returns an always-false predicate.
func (d *Dialect) FalseCondition() string {
	return d.orDefault().cfg.FalseCondition
}

// StatementTerminator returns the text that ends a statement, possibly empty.
func (d *Dialect) StatementTerminator() string {
	if d.orDefault().cfg.OmitTerminator {
		return ""
	}
	return ";"
}

// StripTerminator removes a trailing statement terminator and surrounding space.
func (d *Dialect) StripTerminator(sql string) string {
	sql = strings.TrimSpace(sql)
	for strings.HasSuffix(sql, ";") {
		sql = strings.TrimSpace(strings.TrimSuffix(sql, ";"))
	}
	return sql
}

// Exists wraps an inner SELECT as an EXISTS predicate.
func (d *Dialect) Exists(inner string) string {
	return "EXISTS (" + d.StripTerminator(inner) + ")"
}

// render substitutes positional markers {0}, {1}, ... in a template.
func render(template string, args ...string) string {
	if len(args) == 0 {
		return template
	}
	pairs := make([]string, 0, len(args)*2)
	for i, a := range args {
		pairs = append(pairs, "{"+strconv.Itoa(i)+"}", a)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
