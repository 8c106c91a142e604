package dialect

import (
	"errors"
	"testing"
	"time"

	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderDefaults(t *testing.T) {
	d := NewDialect("test").Build()

	require.NotNil(t, d)
	assert.Equal(t, "test", d.Name)
	assert.Equal(t, `"`, d.Identifiers.Quote)
	assert.Equal(t, `""`, d.Identifiers.Escape)
	assert.Equal(t, "1=1", d.TrueCondition())
	assert.Equal(t, "1=0", d.FalseCondition())
	assert.Equal(t, ";", d.StatementTerminator())
	assert.True(t, d.SupportsANSIJoins())
}

func TestBuilderChaining(t *testing.T) {
	d := NewDialect("test").
		Identifiers("[", "]", "]]", core.NormCaseSensitive).
		DefaultSchema("dbo").
		PlaceholderStyle(core.PlaceholderAt).
		WithReservedWords("marque").
		Function(FuncLength, "LEN").
		TypeName(core.TypeText, "NVARCHAR(MAX)").
		Paging(core.PagingTop).
		Configure(func(cfg *core.DialectConfig) { cfg.OmitTerminator = true }).
		Build()

	assert.Equal(t, "dbo", d.DefaultSchema)
	assert.Equal(t, "@p3", d.FormatPlaceholder(3))
	assert.Equal(t, "[marque]", d.QuoteIdentifierIfNeeded("marque"))
	assert.Empty(t, d.StatementTerminator())

	fn, err := d.Function(FuncLength, "x")
	require.NoError(t, err)
	assert.Equal(t, "LEN(x)", fn)

	typ, err := d.TypeName(core.TypeText, false)
	require.NoError(t, err)
	assert.Equal(t, "NVARCHAR(MAX)", typ)
}

func TestNewMergesOverDefaults(t *testing.T) {
	cfg := &core.DialectConfig{
		Name:      "custom",
		Functions: map[string]string{FuncTrim: ""},
	}
	d := New(cfg).Build()

	assert.False(t, d.HasFunction(FuncTrim))
	assert.True(t, d.HasFunction(FuncUpper))
	assert.Equal(t, "a || b", d.Concat("a", "b"))

	// the caller's config is not mutated by building
	cfg.Functions[FuncUpper] = ""
	assert.True(t, d.HasFunction(FuncUpper))
}

func TestNilDialectUsesDefaults(t *testing.T) {
	var d *Dialect

	assert.Equal(t, "ansi", d.GetName())
	assert.Equal(t, `"order"`, d.QuoteIdentifierIfNeeded("order"))
	assert.Equal(t, "'it''s'", d.StringLiteral("it's"))
	assert.Equal(t, "TRUE", d.BooleanLiteral(true))
	assert.Equal(t, "MOD(a, b)", d.Modulo("a", "b"))
}

func TestNormalizationStrategies(t *testing.T) {
	tests := []struct {
		name  string
		norm  core.NormalizationStrategy
		input string
		want  string
	}{
		{"lowercase", core.NormLowercase, "FooBar", "foobar"},
		{"uppercase", core.NormUppercase, "FooBar", "FOOBAR"},
		{"case sensitive", core.NormCaseSensitive, "FooBar", "FooBar"},
		{"case insensitive", core.NormCaseInsensitive, "FooBar", "foobar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDialect("test").
				Identifiers(`"`, `"`, `""`, tt.norm).
				Build()

			assert.Equal(t, tt.want, d.NormalizeName(tt.input))
		})
	}
}

func TestQuoteIdentifier(t *testing.T) {
	d := NewDialect("test").Identifiers("[", "]", "]]", core.NormCaseInsensitive).Build()

	tests := []struct {
		input string
		want  string
	}{
		{"carcompany", "carcompany"},
		{"car_company2", "car_company2"},
		{"select", "[select]"},
		{"USER", "[USER]"},
		{"car company", "[car company]"},
		{"2fast", "[2fast]"},
		{"odd]name", "[odd]]name]"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, d.QuoteIdentifierIfNeeded(tt.input))
		})
	}

	assert.Equal(t, "carcompany.uid", d.QualifiedColumn("carcompany", "uid"))
	assert.Equal(t, "[order].[key]", d.QualifiedColumn("order", "key"))
	assert.Equal(t, "uid", d.QualifiedColumn("", "uid"))
}

func TestStringLiteral(t *testing.T) {
	ansi := NewDialect("ansi").Build()
	backslash := NewDialect("mysqlish").
		Configure(func(cfg *core.DialectConfig) { cfg.EscapeBackslash = true }).
		Build()

	assert.Equal(t, "'TOYOTA'", ansi.StringLiteral("TOYOTA"))
	assert.Equal(t, "'O''Brien'", ansi.StringLiteral("O'Brien"))
	assert.Equal(t, `'a\b'`, ansi.StringLiteral(`a\b`))
	assert.Equal(t, `'a\\b'`, backslash.StringLiteral(`a\b`))
	assert.Equal(t, `'it''s \\ ok'`, backslash.StringLiteral(`it's \ ok`))
}

func TestNumberLiteral(t *testing.T) {
	var d *Dialect

	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"int", 42, "42"},
		{"negative int64", int64(-7), "-7"},
		{"uint8", uint8(9), "9"},
		{"large", 90000000, "90000000"},
		{"float", 2.5, "2.5"},
		{"float whole", float64(90000000), "90000000"},
		{"float32", float32(0.5), "0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.NumberLiteral(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := d.NumberLiteral("12")
	assert.ErrorIs(t, err, core.ErrConfiguration)
}

func TestLiteral(t *testing.T) {
	d := NewDialect("test").
		Configure(func(cfg *core.DialectConfig) {
			cfg.IntervalTemplate = "INTERVAL '{0}' SECOND"
			cfg.GeometryTemplate = "ST_GeomFromText({0})"
		}).
		Build()
	ts := time.Date(2024, 3, 9, 13, 5, 7, 250*int(time.Millisecond), time.UTC)

	tests := []struct {
		name  string
		typ   core.SemanticType
		value any
		want  string
	}{
		{"null", core.TypeText, nil, "NULL"},
		{"text", core.TypeText, "TOYOTA", "'TOYOTA'"},
		{"integer", core.TypeInteger, 3, "3"},
		{"decimal", core.TypeDecimal, 1.25, "1.25"},
		{"decimal from int", core.TypeDecimal, 4, "4"},
		{"boolean", core.TypeBoolean, false, "FALSE"},
		{"timestamp", core.TypeTimestamp, ts, "TIMESTAMP '2024-03-09 13:05:07.250'"},
		{"interval", core.TypeInterval, 90 * time.Minute, "INTERVAL '5400' SECOND"},
		{"geometry", core.TypeGeometry, core.Point{X: 1, Y: 2}, "ST_GeomFromText('POINT (1 2)')"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Literal(tt.typ, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDateLiteralIsZoneIndependent(t *testing.T) {
	d := NewDialect("test").Build()
	utc := time.Date(2024, 3, 9, 13, 5, 7, 0, time.UTC)
	tokyo := utc.In(time.FixedZone("JST", 9*60*60))

	assert.Equal(t, "TIMESTAMP '2024-03-09 13:05:07.000'", d.DateLiteral(utc))
	assert.Equal(t, d.DateLiteral(utc), d.DateLiteral(tokyo))
}

func TestLiteralRejectsMismatchedValues(t *testing.T) {
	var d *Dialect

	tests := []struct {
		name  string
		typ   core.SemanticType
		value any
	}{
		{"text from int", core.TypeText, 7},
		{"integer from float", core.TypeInteger, 1.5},
		{"boolean from string", core.TypeBoolean, "true"},
		{"timestamp from string", core.TypeTimestamp, "2024-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Literal(tt.typ, tt.value)
			var cfgErr *core.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, core.CodeIllegalValue, cfgErr.Code)
		})
	}
}

func TestUnsupportedFragments(t *testing.T) {
	d := NewDialect("bare").Build()

	_, err := d.IntervalLiteral(time.Second)
	assert.ErrorIs(t, err, core.ErrDialectUnsupported)

	_, err = d.GeometryLiteral(core.Point{})
	assert.ErrorIs(t, err, core.ErrDialectUnsupported)

	_, err = d.GeometryEquals("a", "b")
	assert.ErrorIs(t, err, core.ErrDialectUnsupported)

	_, err = d.TypeName(core.TypeGeometry, false)
	var unsupported *core.DialectUnsupportedError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "bare", unsupported.Dialect)

	_, err = d.Function("soundex", "x")
	assert.ErrorIs(t, err, core.ErrDialectUnsupported)
}

func TestFunction(t *testing.T) {
	var d *Dialect

	got, err := d.Function(FuncCurrentTimestamp)
	require.NoError(t, err)
	assert.Equal(t, "CURRENT_TIMESTAMP", got)

	got, err = d.Function(FuncSubstring, "name", "1", "3")
	require.NoError(t, err)
	assert.Equal(t, "SUBSTRING(name, 1, 3)", got)

	got, err = d.Function("UPPER", "name")
	require.NoError(t, err)
	assert.Equal(t, "UPPER(name)", got)

	assert.Contains(t, d.Functions(), FuncCoalesce)
}

func TestLike(t *testing.T) {
	ansi := NewDialect("ansi").Build()
	ilike := NewDialect("pg").
		Configure(func(cfg *core.DialectConfig) { cfg.CaseInsensitiveLike = "ILIKE" }).
		Build()

	assert.Equal(t, "name LIKE 'T%'", ansi.Like("name", "'T%'", false, false))
	assert.Equal(t, "name NOT LIKE 'T%'", ansi.Like("name", "'T%'", false, true))
	assert.Equal(t, "LOWER(name) LIKE LOWER('T%')", ansi.Like("name", "'T%'", true, false))
	assert.Equal(t, "name ILIKE 'T%'", ilike.Like("name", "'T%'", true, false))
	assert.Equal(t, "name NOT ILIKE 'T%'", ilike.Like("name", "'T%'", true, true))
}

func TestSortDirection(t *testing.T) {
	ansi := NewDialect("ansi").Build()
	noNulls := NewDialect("old").
		Configure(func(cfg *core.DialectConfig) { cfg.NoNullsOrdering = true }).
		Build()

	got, err := ansi.SortDirection(true, NullsLast)
	require.NoError(t, err)
	assert.Equal(t, "DESC NULLS LAST", got)

	got, err = noNulls.SortDirection(false, NullsDefault)
	require.NoError(t, err)
	assert.Equal(t, "ASC", got)

	_, err = noNulls.SortDirection(false, NullsFirst)
	assert.ErrorIs(t, err, core.ErrDialectUnsupported)
}

func TestJoinKeyword(t *testing.T) {
	ansi := NewDialect("ansi").Build()
	noFull := NewDialect("nofull").
		Configure(func(cfg *core.DialectConfig) { cfg.NoFullOuterJoin = true }).
		Build()
	comma := NewDialect("comma").
		Configure(func(cfg *core.DialectConfig) { cfg.CommaJoins = true }).
		Build()

	for kind, want := range map[JoinKind]string{
		JoinInner: "INNER JOIN",
		JoinLeft:  "LEFT OUTER JOIN",
		JoinFull:  "FULL OUTER JOIN",
		JoinCross: "CROSS JOIN",
	} {
		got, err := ansi.JoinKeyword(kind)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := noFull.JoinKeyword(JoinFull)
	assert.ErrorIs(t, err, core.ErrDialectUnsupported)

	assert.False(t, comma.SupportsANSIJoins())
	got, err := comma.JoinKeyword(JoinInner)
	require.NoError(t, err)
	assert.Equal(t, ",", got)
	_, err = comma.JoinKeyword(JoinLeft)
	assert.ErrorIs(t, err, core.ErrDialectUnsupported)
}

func TestPaging(t *testing.T) {
	build := func(style core.PagingStyle) *Dialect {
		return NewDialect(style.String()).
			Paging(style).
			Configure(func(cfg *core.DialectConfig) { cfg.PagingOrderFallback = "(SELECT NULL)" }).
			Build()
	}

	tests := []struct {
		name   string
		style  core.PagingStyle
		limit  int
		offset int
		want   Paging
	}{
		{"none", core.PagingLimitOffset, 0, 0, Paging{}},
		{"limit", core.PagingLimitOffset, 10, 0, Paging{Clause: "LIMIT 10", Position: PagingAfterOrder}},
		{"limit offset", core.PagingLimitOffset, 10, 20, Paging{Clause: "LIMIT 10 OFFSET 20", Position: PagingAfterOrder}},
		{"top", core.PagingTop, 5, 0, Paging{Clause: "TOP 5", Position: PagingBeforeColumns, AfterDistinct: true}},
		{"fetch first", core.PagingFetchFirst, 5, 0, Paging{
			Clause:        "OFFSET 0 ROWS FETCH NEXT 5 ROWS ONLY",
			Position:      PagingAfterOrder,
			OrderFallback: "(SELECT NULL)",
		}},
		{"skip first", core.PagingSkipFirst, 5, 15, Paging{Clause: "SKIP 15 FIRST 5", Position: PagingBeforeColumns}},
		{"first only", core.PagingSkipFirst, 5, 0, Paging{Clause: "FIRST 5", Position: PagingBeforeColumns}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := build(tt.style).Paging(tt.limit, tt.offset)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := build(core.PagingTop).Paging(5, 5)
	assert.ErrorIs(t, err, core.ErrDialectUnsupported)

	_, err = build(core.PagingUnsupported).Paging(5, 0)
	assert.ErrorIs(t, err, core.ErrDialectUnsupported)

	_, err = build(core.PagingLimitOffset).Paging(0, 5)
	var cfgErr *core.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, core.CodeInvalidPaging, cfgErr.Code)
}

func TestColumnDefinition(t *testing.T) {
	ansi := NewDialect("ansi").Build()
	serial := NewDialect("pg").
		Configure(func(cfg *core.DialectConfig) { cfg.AutoIncrementType = "BIGSERIAL" }).
		Build()
	none := NewDialect("none").
		Configure(func(cfg *core.DialectConfig) { cfg.NoAutoIncrement = true }).
		Build()

	got, err := ansi.ColumnDefinition("uid", core.TypeInteger, true, true)
	require.NoError(t, err)
	assert.Equal(t, "uid BIGINT GENERATED BY DEFAULT AS IDENTITY", got)

	got, err = serial.ColumnDefinition("uid", core.TypeInteger, true, true)
	require.NoError(t, err)
	assert.Equal(t, "uid BIGSERIAL", got)

	got, err = ansi.ColumnDefinition("name", core.TypeText, false, false)
	require.NoError(t, err)
	assert.Equal(t, "name VARCHAR(1000)", got)

	_, err = none.ColumnDefinition("uid", core.TypeInteger, true, true)
	assert.True(t, errors.Is(err, core.ErrDialectUnsupported))
}

func TestColumnAlias(t *testing.T) {
	var d *Dialect

	a := d.ColumnAlias("carcompany", "uid")
	assert.Equal(t, a, d.ColumnAlias("carcompany", "uid"))
	assert.NotEqual(t, a, d.ColumnAlias("marque", "uid"))
	assert.Regexp(t, `^DB[0-9a-z]{1,13}$`, a)
}

func TestExists(t *testing.T) {
	var d *Dialect
	assert.Equal(t, "EXISTS (SELECT 1 FROM t)", d.Exists("SELECT 1 FROM t;\n"))
}

func TestRegistry(t *testing.T) {
	d := NewDialect("registry_test").Build()
	Register(d, "registry_alias")

	got, ok := Get("REGISTRY_TEST")
	require.True(t, ok)
	assert.Same(t, d, got)

	got, err := Lookup("registry_alias")
	require.NoError(t, err)
	assert.Same(t, d, got)

	assert.Contains(t, List(), "registry_test")
	assert.NotContains(t, List(), "registry_alias")

	_, err = Lookup("")
	assert.ErrorIs(t, err, ErrDialectRequired)

	_, err = Lookup("nope")
	var unknown *UnknownDialectError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nope", unknown.Name)
}
