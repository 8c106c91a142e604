package core

// DialectConfig holds the static configuration for a SQL dialect.
// It is pure data with no behavior of its own.
//
// Zero values mean "use the documented default": pkg/dialect merges a config
// over the ANSI defaults when the dialect is built, so an engine only spells
// out the fragments where it diverges. Templates use positional markers
// {0}, {1}, ... which are replaced with already-rendered SQL.
type DialectConfig struct {
	// Name is the dialect identifier (e.g., "postgres", "sqlserver")
	Name string

	// Identifiers defines quoting and normalization rules
	Identifiers IdentifierConfig

	// DefaultSchema is the default schema name ("main" for DuckDB, "public" for Postgres)
	DefaultSchema string

	// Placeholder defines how query parameters are formatted
	Placeholder PlaceholderStyle

	// ReservedWords are quoted when used as identifiers.
	ReservedWords []string

	// ---------- Literals ----------

	StringQuote     string // default '
	StringEscape    string // escape for an embedded quote, default ''
	EscapeBackslash bool   // MySQL treats \ as an escape inside strings
	TrueLiteral     string // default TRUE
	FalseLiteral    string // default FALSE

	// TimestampLayout is the Go time layout used for date literals.
	// Default "2006-01-02 15:04:05.000".
	TimestampLayout string
	// TimestampTemplate wraps the formatted literal: {0} is quoted, {1} is the
	// bare text for engines that take an unquoted form. Default "TIMESTAMP {0}".
	TimestampTemplate string
	// IntervalTemplate renders a duration; {0} is a whole number of seconds.
	// Empty means the engine has no interval literal.
	IntervalTemplate string
	// GeometryTemplate wraps the quoted WKT text ({0}). Empty means unsupported.
	GeometryTemplate string
	// GeometryEqualsTemplate compares two geometries ({0}, {1}). Empty means unsupported.
	GeometryEqualsTemplate string

	// ---------- Operators ----------

	// ConcatTemplate joins two strings, default "{0} || {1}".
	ConcatTemplate string
	// ModuloTemplate renders a remainder, default "MOD({0}, {1})".
	ModuloTemplate string
	// CaseInsensitiveLike is a native operator such as ILIKE.
	// Empty means LOWER({0}) LIKE LOWER({1}).
	CaseInsensitiveLike string
	TrueCondition       string // always-true anchor, default 1=1
	FalseCondition      string // default 1=0

	// Functions maps canonical function names (see pkg/dialect) to this
	// engine's spelling. Entries override the ANSI table; an empty value
	// removes a function the engine does not have.
	Functions map[string]string

	// ---------- Statement shape ----------

	// Paging selects how LIMIT/OFFSET is expressed.
	Paging PagingStyle
	// PagingOrderFallback is an ORDER BY expression emitted when the paging
	// syntax requires ordering and the query has none (SQL Server).
	PagingOrderFallback string
	// CommaJoins makes the compiler list tables with commas and move join
	// predicates into WHERE, for engines without ANSI join syntax.
	CommaJoins bool
	// NoFullOuterJoin marks engines without FULL OUTER JOIN.
	NoFullOuterJoin bool
	// NoNullsOrdering marks engines without NULLS FIRST/LAST in ORDER BY.
	NoNullsOrdering bool
	// OmitTerminator drops the trailing statement terminator (;).
	OmitTerminator bool

	// ---------- DDL ----------

	// TypeNames maps semantic types to column DDL. Entries override ANSI.
	TypeNames map[SemanticType]string
	// PrimaryKeyTypeNames overrides TypeNames for primary-key columns
	// (e.g. engines that cannot index an unbounded text type).
	PrimaryKeyTypeNames map[SemanticType]string
	// AutoIncrementType replaces the column type for auto-increment keys (e.g. BIGSERIAL).
	AutoIncrementType string
	// AutoIncrementSuffix follows the type for auto-increment keys.
	// Default " GENERATED BY DEFAULT AS IDENTITY".
	AutoIncrementSuffix string
	// AutoIncrementDeclaresKey means the suffix already contains PRIMARY KEY (SQLite).
	AutoIncrementDeclaresKey bool
	// NoAutoIncrement marks engines without an auto-increment column form.
	NoAutoIncrement bool
}

// NormalizationStrategy defines how unquoted identifiers are normalized.
type NormalizationStrategy int

const (
	// NormLowercase normalizes unquoted identifiers to lowercase (default SQL behavior).
	NormLowercase NormalizationStrategy = iota
	// NormUppercase normalizes unquoted identifiers to uppercase (Snowflake, Oracle).
	NormUppercase
	// NormCaseSensitive preserves identifier case exactly (MySQL, ClickHouse).
	NormCaseSensitive
	// NormCaseInsensitive normalizes to lowercase for comparison (BigQuery, Hive, DuckDB).
	NormCaseInsensitive
)

// PlaceholderStyle defines how query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (DuckDB, MySQL, SQLite).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. for parameters (PostgreSQL).
	PlaceholderDollar
	// PlaceholderColon uses :1, :2, etc. for parameters (Oracle).
	PlaceholderColon
	// PlaceholderAt uses @p1, @p2, etc. for parameters (SQL Server).
	PlaceholderAt
)

// PagingStyle defines how a row limit and offset are written.
type PagingStyle int

const (
	// PagingLimitOffset appends LIMIT n OFFSET m after ORDER BY.
	PagingLimitOffset PagingStyle = iota
	// PagingTop puts TOP n after SELECT; offsets are not expressible.
	PagingTop
	// PagingFetchFirst appends OFFSET m ROWS FETCH NEXT n ROWS ONLY.
	PagingFetchFirst
	// PagingSkipFirst puts SKIP m FIRST n after SELECT (Informix).
	PagingSkipFirst
	// PagingUnsupported marks engines with no paging syntax.
	PagingUnsupported
)

// String returns the string representation of PagingStyle.
func (p PagingStyle) String() string {
	switch p {
	case PagingLimitOffset:
		return "limit-offset"
	case PagingTop:
		return "top"
	case PagingFetchFirst:
		return "fetch-first"
	case PagingSkipFirst:
		return "skip-first"
	default:
		return "unsupported"
	}
}

// IdentifierConfig defines how identifiers are quoted and normalized.
type IdentifierConfig struct {
	Quote         string                // Quote character: ", `, [
	QuoteEnd      string                // End quote character (usually same as Quote, ] for [)
	Escape        string                // Escape sequence: "", ``, ]]
	Normalization NormalizationStrategy // How to normalize unquoted identifiers
}
