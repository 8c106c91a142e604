package expr

import (
	"testing"
	"time"

	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ansi  = dialect.NewDialect("ansi").Build()
	mysql = dialect.NewDialect("mysql").
		Identifiers("`", "`", "``", core.NormCaseSensitive).
		Configure(func(cfg *core.DialectConfig) {
			cfg.ConcatTemplate = "CONCAT({0}, {1})"
			cfg.Functions = map[string]string{dialect.FuncLength: "LENGTH"}
		}).
		Build()
)

func TestValueOf(t *testing.T) {
	valid := []struct {
		typ core.SemanticType
		v   any
	}{
		{core.TypeInteger, 3},
		{core.TypeInteger, uint16(3)},
		{core.TypeDecimal, 3},
		{core.TypeDecimal, 3.5},
		{core.TypeText, "x"},
		{core.TypeBoolean, true},
		{core.TypeTimestamp, time.Now()},
		{core.TypeInterval, time.Hour},
		{core.TypeGeometry, core.Point{}},
		{core.TypeGeometry, &core.Point{}},
		{core.TypeBinary, []byte("x")},
		{core.TypeText, nil},
	}
	for _, tt := range valid {
		_, err := ValueOf(tt.typ, tt.v)
		assert.NoError(t, err, "%s <- %T", tt.typ, tt.v)
	}

	invalid := []struct {
		typ core.SemanticType
		v   any
	}{
		{core.TypeInteger, 3.5},
		{core.TypeText, 3},
		{core.TypeBoolean, "true"},
		{core.TypeTimestamp, "2020-01-01"},
		{core.TypeInterval, 60},
		{core.TypeBinary, "x"},
		{core.TypeUnknown, 1},
	}
	for _, tt := range invalid {
		_, err := ValueOf(tt.typ, tt.v)
		var cfgErr *core.ConfigurationError
		require.ErrorAs(t, err, &cfgErr, "%s <- %T", tt.typ, tt.v)
		assert.Equal(t, core.CodeIllegalValue, cfgErr.Code)
	}

	assert.Panics(t, func() { MustValue(core.TypeText, 1) })
}

func TestColumn(t *testing.T) {
	c := Col("carcompany", "name", core.TypeText)

	got, err := c.Render(ansi)
	require.NoError(t, err)
	assert.Equal(t, "carcompany.name", got)
	assert.Equal(t, []string{"carcompany"}, c.Tables())

	got, err = c.Unqualified().Render(ansi)
	require.NoError(t, err)
	assert.Equal(t, "name", got)
	assert.Nil(t, c.Unqualified().Tables())
}

func TestTablesOf(t *testing.T) {
	a := Col("b", "x", core.TypeInteger)
	b := Col("a", "y", core.TypeInteger)
	assert.Equal(t, []string{"a", "b"}, TablesOf(a, b, a, nil, MustValue(core.TypeInteger, 1)))
}

func TestArithmetic(t *testing.T) {
	price := Col("car", "price", core.TypeDecimal)
	qty := Col("car", "qty", core.TypeInteger)
	made := Col("car", "made", core.TypeTimestamp)
	name := Col("car", "name", core.TypeText)

	got, err := Mul(price, qty).Render(ansi)
	require.NoError(t, err)
	assert.Equal(t, "(car.price * car.qty)", got)
	assert.Equal(t, core.TypeDecimal, Mul(price, qty).Type())
	assert.Equal(t, core.TypeInteger, Add(qty, qty).Type())

	got, err = Mod(qty, MustValue(core.TypeInteger, 2)).Render(ansi)
	require.NoError(t, err)
	assert.Equal(t, "MOD(car.qty, 2)", got)

	shifted := Add(made, MustValue(core.TypeInterval, time.Minute))
	assert.Equal(t, core.TypeTimestamp, shifted.Type())

	_, err = Add(name, qty).Render(ansi)
	assert.ErrorIs(t, err, core.ErrConfiguration)
	assert.Equal(t, []string{"car"}, Add(name, qty).Tables())
}

func TestFunctions(t *testing.T) {
	name := Col("carcompany", "name", core.TypeText)
	uid := Col("carcompany", "uid", core.TypeInteger)

	tests := []struct {
		name string
		e    Expression
		d    *dialect.Dialect
		want string
	}{
		{"upper", Upper(name), ansi, "UPPER(carcompany.name)"},
		{"lower", Lower(name), ansi, "LOWER(carcompany.name)"},
		{"length ansi", Length(name), ansi, "CHAR_LENGTH(carcompany.name)"},
		{"length mysql", Length(name), mysql, "LENGTH(carcompany.name)"},
		{"trim", Trim(name), ansi, "TRIM(carcompany.name)"},
		{"abs", Abs(uid), ansi, "ABS(carcompany.uid)"},
		{"round", Round(uid, 2), ansi, "ROUND(carcompany.uid, 2)"},
		{"coalesce", Coalesce(name, MustValue(core.TypeText, "n/a")), ansi, "COALESCE(carcompany.name, 'n/a')"},
		{"now", CurrentTimestamp(), ansi, "CURRENT_TIMESTAMP"},
		{"count", CountAll(), ansi, "COUNT(*)"},
		{"substring", Substr(name, 1, 3), ansi, "SUBSTRING(carcompany.name, 1, 3)"},
		{"substring to end", Substr(name, 2, 0), ansi, "SUBSTRING(carcompany.name, 2, CHAR_LENGTH(carcompany.name))"},
		{"concat", Join(name, MustValue(core.TypeText, "!"), name), ansi, "carcompany.name || '!' || carcompany.name"},
		{"concat mysql", Join(name, MustValue(core.TypeText, "!")), mysql, "CONCAT(carcompany.name, '!')"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.e.Render(tt.d)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFunctionTypeErrors(t *testing.T) {
	uid := Col("carcompany", "uid", core.TypeInteger)

	_, err := Upper(uid).Render(ansi)
	assert.ErrorIs(t, err, core.ErrConfiguration)

	_, err = Substr(uid, 1, 2).Render(ansi)
	assert.ErrorIs(t, err, core.ErrConfiguration)

	_, err = Substr(Col("t", "c", core.TypeText), 0, 2).Render(ansi)
	assert.ErrorIs(t, err, core.ErrConfiguration)

	_, err = Join(uid, uid).Render(ansi)
	assert.ErrorIs(t, err, core.ErrConfiguration)

	_, err = Call("soundex", core.TypeText, uid).Render(ansi)
	assert.ErrorIs(t, err, core.ErrDialectUnsupported)
}

func TestBooleanJunctions(t *testing.T) {
	got, err := And().Render(ansi)
	require.NoError(t, err)
	assert.Equal(t, "1=1", got)

	got, err = Or().Render(ansi)
	require.NoError(t, err)
	assert.Equal(t, "1=0", got)

	got, err = And(True, False).Render(ansi)
	require.NoError(t, err)
	assert.Equal(t, "(1=1) AND (1=0)", got)

	got, err = Not(And(True, False)).Render(ansi)
	require.NoError(t, err)
	assert.Equal(t, "(1=0) OR (1=1)", got)

	assert.Equal(t, True, Not(Not(True)))
	assert.Equal(t, core.TypeBoolean, Or(True).Type())
}
