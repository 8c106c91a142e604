package dialect

import (
	"maps"
	"strings"

	"github.com/leapstack-labs/querygraph/pkg/core"
)

// ANSI defaults. An engine config only needs to name what differs.
var (
	defaultFunctions = map[string]string{
		FuncUpper:            "UPPER",
		FuncLower:            "LOWER",
		FuncLength:           "CHAR_LENGTH",
		FuncTrim:             "TRIM",
		FuncSubstring:        "SUBSTRING",
		FuncCoalesce:         "COALESCE",
		FuncAbs:              "ABS",
		FuncRound:            "ROUND",
		FuncCount:            "COUNT",
		FuncCurrentTimestamp: "CURRENT_TIMESTAMP",
	}

	defaultTypeNames = map[core.SemanticType]string{
		core.TypeInteger:   "BIGINT",
		core.TypeDecimal:   "DOUBLE PRECISION",
		core.TypeText:      "VARCHAR(1000)",
		core.TypeBoolean:   "BOOLEAN",
		core.TypeTimestamp: "TIMESTAMP",
		core.TypeBinary:    "BLOB",
	}

	defaultReservedWords = []string{
		"all", "and", "as", "between", "by", "case", "check", "column", "constraint",
		"create", "cross", "current", "default", "delete", "desc", "distinct", "drop",
		"else", "end", "exists", "false", "for", "foreign", "from", "full", "group",
		"having", "in", "inner", "insert", "into", "is", "join", "key", "left", "like",
		"not", "null", "on", "or", "order", "outer", "primary", "references", "right",
		"select", "set", "table", "then", "to", "true", "union", "unique", "update",
		"user", "using", "values", "when", "where", "with",
	}
)

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	config core.DialectConfig
}

// NewDialect creates a new dialect builder with the given name and the ANSI defaults.
func NewDialect(name string) *Builder {
	return &Builder{config: core.DialectConfig{Name: name}}
}

// New creates a dialect builder from a DialectConfig.
// Zero-valued fields fall back to the ANSI defaults when Build() is called.
func New(cfg *core.DialectConfig) *Builder {
	b := &Builder{}
	if cfg != nil {
		b.config = *cfg
		b.config.Functions = maps.Clone(cfg.Functions)
		b.config.TypeNames = maps.Clone(cfg.TypeNames)
		b.config.PrimaryKeyTypeNames = maps.Clone(cfg.PrimaryKeyTypeNames)
		b.config.ReservedWords = append([]string(nil), cfg.ReservedWords...)
	}
	return b
}

// Identifiers configures identifier quoting and normalization.
func (b *Builder) Identifiers(quote, quoteEnd, escape string, norm core.NormalizationStrategy) *Builder {
	b.config.Identifiers = core.IdentifierConfig{
		Quote:         quote,
		QuoteEnd:      quoteEnd,
		Escape:        escape,
		Normalization: norm,
	}
	return b
}

// DefaultSchema sets the default schema name.
func (b *Builder) DefaultSchema(schema string) *Builder {
	b.config.DefaultSchema = schema
	return b
}

// PlaceholderStyle sets how query parameters are formatted.
func (b *Builder) PlaceholderStyle(style core.PlaceholderStyle) *Builder {
	b.config.Placeholder = style
	return b
}

// WithReservedWords registers words that need quoting when used as identifiers.
func (b *Builder) WithReservedWords(words ...string) *Builder {
	b.config.ReservedWords = append(b.config.ReservedWords, words...)
	return b
}

// Function sets the spelling of a canonical function. An empty spelling
// marks the function as unsupported.
func (b *Builder) Function(name, spelling string) *Builder {
	if b.config.Functions == nil {
		b.config.Functions = make(map[string]string)
	}
	b.config.Functions[name] = spelling
	return b
}

// TypeName sets the column DDL for a semantic type.
func (b *Builder) TypeName(t core.SemanticType, ddl string) *Builder {
	if b.config.TypeNames == nil {
		b.config.TypeNames = make(map[core.SemanticType]string)
	}
	b.config.TypeNames[t] = ddl
	return b
}

// Paging sets the paging style.
func (b *Builder) Paging(style core.PagingStyle) *Builder {
	b.config.Paging = style
	return b
}

// Configure applies arbitrary changes to the underlying config.
func (b *Builder) Configure(fn func(cfg *core.DialectConfig)) *Builder {
	fn(&b.config)
	return b
}

// Build returns the constructed dialect.
func (b *Builder) Build() *Dialect {
	cfg := withDefaults(b.config)

	d := &Dialect{
		Name:          cfg.Name,
		Identifiers:   cfg.Identifiers,
		DefaultSchema: cfg.DefaultSchema,
		Placeholder:   cfg.Placeholder,
		cfg:           cfg,
		reservedWords: make(map[string]struct{}, len(defaultReservedWords)+len(cfg.ReservedWords)),
		functions:     overlay(defaultFunctions, cfg.Functions),
		typeNames:     overlay(defaultTypeNames, cfg.TypeNames),
		pkTypeNames:   overlay(nil, cfg.PrimaryKeyTypeNames),
	}
	for _, w := range defaultReservedWords {
		d.reservedWords[w] = struct{}{}
	}
	for _, w := range cfg.ReservedWords {
		d.reservedWords[strings.ToLower(w)] = struct{}{}
	}
	// The maps live on the Dialect; Config() rebuilds them on request.
	d.cfg.Functions = nil
	d.cfg.TypeNames = nil
	d.cfg.PrimaryKeyTypeNames = nil
	return d
}

// overlay copies base and applies over; empty values delete.
func overlay[K comparable](base, over map[K]string) map[K]string {
	out := make(map[K]string, len(base)+len(over))
	maps.Copy(out, base)
	for k, v := range over {
		if v == "" {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

func withDefaults(cfg core.DialectConfig) core.DialectConfig {
	if cfg.Name == "" {
		cfg.Name = "ansi"
	}
	if cfg.Identifiers.Quote == "" {
		cfg.Identifiers.Quote = `"`
	}
	if cfg.Identifiers.QuoteEnd == "" {
		cfg.Identifiers.QuoteEnd = cfg.Identifiers.Quote
	}
	if cfg.Identifiers.Escape == "" {
		cfg.Identifiers.Escape = cfg.Identifiers.QuoteEnd + cfg.Identifiers.QuoteEnd
	}
	setDefault(&cfg.StringQuote, "'")
	setDefault(&cfg.StringEscape, cfg.StringQuote+cfg.StringQuote)
	setDefault(&cfg.TrueLiteral, "TRUE")
	setDefault(&cfg.FalseLiteral, "FALSE")
	setDefault(&cfg.TimestampLayout, "2006-01-02 15:04:05.000")
	setDefault(&cfg.TimestampTemplate, "TIMESTAMP {0}")
	setDefault(&cfg.ConcatTemplate, "{0} || {1}")
	setDefault(&cfg.ModuloTemplate, "MOD({0}, {1})")
	setDefault(&cfg.TrueCondition, "1=1")
	setDefault(&cfg.FalseCondition, "1=0")
	if cfg.AutoIncrementType == "" {
		setDefault(&cfg.AutoIncrementSuffix, " GENERATED BY DEFAULT AS IDENTITY")
	}
	return cfg
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
