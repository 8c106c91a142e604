package schema

import (
	"testing"
	"time"

	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
	"github.com/leapstack-labs/querygraph/pkg/operator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func carCompany() *Table {
	return NewTable("carcompany", Integer("uid"), Text("name")).WithPrimaryKey("uid", true)
}

func TestColumnModes(t *testing.T) {
	tests := []struct {
		name  string
		col   *Column
		apply func(c *Column) error
		want  Mode
	}{
		{"none", Text("name"), func(*Column) error { return nil }, ModeNone},
		{"literal", Text("name"), func(c *Column) error { return c.PermittedValues("TOYOTA") }, ModeLiteral},
		{"in", Text("name"), func(c *Column) error { return c.PermittedValues("TOYOTA", "HONDA") }, ModeIn},
		{"null", Text("name"), func(c *Column) error { return c.PermitNull() }, ModeNull},
		{"null literal", Text("name"), func(c *Column) error { return c.PermittedValues(nil) }, ModeNull},
		{"like", Text("name"), func(c *Column) error { return c.PermittedPattern("T%") }, ModeLike},
		{"between", Integer("uid"), func(c *Column) error { return c.PermittedRange(0, 90000000) }, ModeBetween},
		{"compare", Integer("uid"), func(c *Column) error {
			return c.Permit(operator.GreaterThan(c.Ref("t")))
		}, ModeCompare},
		{"cleared", Text("name"), func(c *Column) error {
			if err := c.PermittedValues("x"); err != nil {
				return err
			}
			return c.PermittedValues()
		}, ModeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.apply(tt.col))
			assert.Equal(t, tt.want, tt.col.Mode())
			assert.Equal(t, tt.want.String(), tt.col.Mode().String())
		})
	}
}

func TestColumnRejectsIllegalOperators(t *testing.T) {
	ts := Timestamp("created")
	err := ts.PermittedPattern("2020%")
	var cfgErr *core.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, core.CodeIllegalOperator, cfgErr.Code)
	assert.Equal(t, ModeNone, ts.Mode(), "a rejected operator is not stored")

	err = Integer("uid").PermittedValues("seven")
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, core.CodeIllegalValue, cfgErr.Code)

	assert.ErrorIs(t, Boolean("active").PermittedRange(false, true), core.ErrConfiguration)
	assert.ErrorIs(t, Geometry("site").PermittedValues(core.Point{}, core.Point{X: 1}), core.ErrConfiguration)
	assert.NoError(t, Geometry("site").PermittedValues(core.Point{}))
	assert.NoError(t, Binary("photo").PermitNull())
	assert.NoError(t, Timestamp("created").PermittedRange(time.Time{}, nil))
}

func TestColumnPredicateRendering(t *testing.T) {
	d := dialect.NewDialect("ansi").Build()
	table := carCompany()

	require.NoError(t, table.Column("name").ExcludedValues("TOYOTA"))
	table.Column("name").IncludeNulls()
	require.NoError(t, table.Column("uid").PermittedRange(nil, 10))

	preds := table.Predicates(table.Key())
	require.Len(t, preds, 2)

	got, err := preds[0].Render(d)
	require.NoError(t, err)
	assert.Empty(t, got, "a range with a missing bound is dropped")

	got, err = preds[1].Render(d)
	require.NoError(t, err)
	assert.Equal(t, "(carcompany.name <> 'TOYOTA' OR carcompany.name IS NULL)", got)

	got, err = table.Predicates("")[1].Render(d)
	require.NoError(t, err)
	assert.Equal(t, "(name <> 'TOYOTA' OR name IS NULL)", got)
}

func TestValueListsWithNull(t *testing.T) {
	d := dialect.NewDialect("ansi").Build()

	tests := []struct {
		name  string
		apply func(c *Column) error
		want  string
	}{
		{"permitted", func(c *Column) error { return c.PermittedValues(5, nil) }, "(uid IN (5) OR uid IS NULL)"},
		{"excluded", func(c *Column) error { return c.ExcludedValues(5, nil) }, "(uid NOT IN (5) AND uid IS NOT NULL)"},
		{"excluded only null", func(c *Column) error { return c.ExcludedValues(nil, nil) }, "uid IS NOT NULL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := carCompany()
			require.NoError(t, tt.apply(table.Column("uid")))
			got, err := table.Predicates("")[0].Render(d)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTableCopyIsIndependent(t *testing.T) {
	orig := carCompany().References("uid", "holding", "id")
	cp := orig.Copy()

	require.NoError(t, orig.Column("name").PermittedValues("TOYOTA"))
	require.NoError(t, orig.IgnoreForeignKey("uid"))

	assert.Equal(t, ModeNone, cp.Column("name").Mode())
	fk, ok := cp.ForeignKey("uid")
	require.True(t, ok)
	assert.False(t, fk.Ignored)

	aliased := orig.As("maker")
	assert.Equal(t, "maker", aliased.Key())
	assert.Equal(t, "carcompany", orig.Key())
	assert.Equal(t, "maker", aliased.Ref("name").Table)
	assert.Equal(t, core.TypeUnknown, aliased.Ref("nope").T)
}

func TestIgnoreForeignKeyWrongInstance(t *testing.T) {
	err := carCompany().IgnoreForeignKey("fk_carcompany")

	var idErr *core.IdentityError
	require.ErrorAs(t, err, &idErr)
	assert.Equal(t, core.IdentityWrongInstance, idErr.Kind)
	assert.ErrorIs(t, err, core.ErrIdentity)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		table *Table
	}{
		{"no name", NewTable("", Integer("uid"))},
		{"no columns", NewTable("t")},
		{"duplicate column", NewTable("t", Integer("uid"), Text("uid"))},
		{"untyped column", NewTable("t", NewColumn("uid", core.TypeUnknown))},
		{"missing primary key", NewTable("t", Integer("uid")).WithPrimaryKey("id", false)},
		{"foreign key on missing column", NewTable("t", Integer("uid")).References("fk", "x", "id")},
		{"foreign key without target", NewTable("t", Integer("uid")).References("uid", "x", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			var cfgErr *core.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, core.CodeInvalidSchema, cfgErr.Code)
		})
	}

	assert.NoError(t, carCompany().Validate())
}

func TestLoadCatalog(t *testing.T) {
	cat, err := Load("testdata/cars.yaml")
	require.NoError(t, err)

	assert.Equal(t, []string{"carcompany", "marque", "factory_location"}, cat.Names())

	marque, ok := cat.Table("marque")
	require.True(t, ok)
	assert.Equal(t, core.TypeText, marque.Column("name").Type)
	assert.Equal(t, core.TypeInteger, marque.Column("fk_carcompany").Type)
	assert.True(t, marque.Column("created").Excluded)

	fk, ok := marque.ForeignKey("fk_carcompany")
	require.True(t, ok)
	assert.Equal(t, ForeignKey{Column: "fk_carcompany", Table: "carcompany", References: "uid"}, fk)

	site, ok := cat.Table("factory_location")
	require.True(t, ok)
	assert.Equal(t, core.TypeGeometry, site.Column("site").Type)

	company, _ := cat.Table("carcompany")
	assert.True(t, company.AutoIncrement)

	// tables handed out are copies
	require.NoError(t, marque.Column("name").PermittedValues("x"))
	again, _ := cat.Table("marque")
	assert.Equal(t, ModeNone, again.Column("name").Mode())
	assert.Len(t, cat.Tables(), 3)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "tables: ["},
		{"bad type", "tables:\n  - name: t\n    columns:\n      - {name: a, type: money}\n"},
		{"unknown reference", "tables:\n  - name: t\n    columns:\n      - {name: a, type: int}\n    foreign_keys:\n      - {column: a, references: x, references_column: id}\n"},
		{"duplicate table", "tables:\n  - name: t\n    columns: [{name: a, type: int}]\n  - name: t\n    columns: [{name: a, type: int}]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}

	_, err := Load("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestMarshalReloads(t *testing.T) {
	cat, err := Load("testdata/cars.yaml")
	require.NoError(t, err)

	data, err := Marshal(cat.Tables()...)
	require.NoError(t, err)
	assert.Contains(t, string(data), "references: carcompany")
	assert.NotContains(t, string(data), "type: \"\"")

	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cat.Names(), again.Names())

	marque, _ := again.Table("marque")
	fk, ok := marque.ForeignKey("fk_carcompany")
	require.True(t, ok)
	assert.Equal(t, "uid", fk.References)
	assert.True(t, marque.Column("created").Excluded)
}
