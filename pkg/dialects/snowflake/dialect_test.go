package snowflake

import (
	"testing"

	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	d := Snowflake

	require.NotNil(t, d)

	assert.Equal(t, "snowflake", d.Name)
	assert.Equal(t, `"`, d.Identifiers.Quote)
	assert.Equal(t, "PUBLIC", d.DefaultSchema)
	assert.Equal(t, core.NormUppercase, d.Identifiers.Normalization)
}

func TestDialectRegistration(t *testing.T) {
	d, ok := dialect.Get("snowflake")
	require.True(t, ok, "snowflake dialect should be registered")
	require.NotNil(t, d)
	assert.Equal(t, "snowflake", d.Name)
}

func TestIdentifierQuoting(t *testing.T) {
	d := Snowflake

	assert.Equal(t, "MARQUE", d.NormalizeName("marque"))
	assert.Equal(t, `"qualify"`, d.QuoteIdentifierIfNeeded("qualify"))
	assert.Equal(t, "carcompany", d.QuoteIdentifierIfNeeded("carcompany"))
}

func TestFragments(t *testing.T) {
	d := Snowflake

	assert.Equal(t, "name ILIKE 'to%'", d.Like("name", "'to%'", true, false))

	def, err := d.ColumnDefinition("uid", core.TypeInteger, true, true)
	require.NoError(t, err)
	assert.Equal(t, "uid NUMBER(38,0) AUTOINCREMENT", def)

	g, err := d.GeometryLiteral(core.Point{X: 3, Y: 4})
	require.NoError(t, err)
	assert.Equal(t, "TO_GEOMETRY('POINT (3 4)')", g)

	// equality on geometry has no portable spelling here
	_, err = d.GeometryEquals("a", "b")
	assert.ErrorIs(t, err, core.ErrDialectUnsupported)
}
