package duckdb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/querygraph/internal/testutil"
	"github.com/leapstack-labs/querygraph/pkg/adapter"
	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/query"
	"github.com/leapstack-labs/querygraph/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, cfg core.AdapterConfig) *Adapter {
	t.Helper()
	adp := New(testutil.NewTestLogger(t))
	require.NoError(t, adp.Connect(context.Background(), cfg))
	t.Cleanup(func() { _ = adp.Close() })
	return adp
}

func TestConnectFileCreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cars.duckdb")
	adp := connect(t, core.AdapterConfig{Path: path})
	assert.True(t, adp.IsConnected())

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestNotConnected(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)

	assert.ErrorIs(t, adp.Exec(ctx, "SELECT 1"), adapter.ErrNotConnected)
	_, err := adp.Query(ctx, "SELECT 1")
	assert.ErrorIs(t, err, adapter.ErrNotConnected)
	_, err = adp.Describe(ctx, "marque")
	assert.ErrorIs(t, err, adapter.ErrNotConnected)
	assert.NoError(t, adp.Close(), "closing an unopened adapter is a no-op")
}

func TestToyotaEndToEnd(t *testing.T) {
	ctx := context.Background()
	adp := connect(t, core.AdapterConfig{Path: ":memory:"})

	d := adp.Dialect()
	company := schema.NewTable("carcompany", schema.Integer("uid"), schema.Text("name")).
		WithPrimaryKey("uid", false)
	marque := schema.NewTable("marque", schema.Integer("uid"), schema.Text("name"), schema.Integer("fk_carcompany")).
		WithPrimaryKey("uid", false).
		References("fk_carcompany", "carcompany", "uid")

	var stmts []string
	for _, tbl := range []*schema.Table{company, marque} {
		s, err := query.CreateTable(d, tbl)
		require.NoError(t, err)
		stmts = append(stmts, s)
	}
	for _, row := range []struct {
		table  *schema.Table
		values map[string]any
	}{
		{company, map[string]any{"uid": 1, "name": "TOYOTA"}},
		{company, map[string]any{"uid": 2, "name": "HONDA"}},
		{marque, map[string]any{"uid": 10, "name": "LEXUS", "fk_carcompany": 1}},
		{marque, map[string]any{"uid": 11, "name": "ACURA", "fk_carcompany": 2}},
	} {
		s, err := query.Insert(d, row.table, row.values)
		require.NoError(t, err)
		stmts = append(stmts, s)
	}
	require.NoError(t, adapter.ExecAll(ctx, adp, stmts...))

	require.NoError(t, company.Column("name").PermittedValues("TOYOTA"))
	st, err := query.New().Add(company, marque).Compile(d)
	require.NoError(t, err)

	results, err := adapter.Run(ctx, adp, st)
	require.NoError(t, err)
	require.Len(t, results, 1)
	name, ok := results[0].Get("marque", "name")
	require.True(t, ok)
	assert.Equal(t, "LEXUS", name)
}

func TestDescribeMapsSemanticTypes(t *testing.T) {
	ctx := context.Background()
	adp := connect(t, core.AdapterConfig{})

	require.NoError(t, adapter.ExecAll(ctx, adp,
		`CREATE TABLE factory (id INTEGER NOT NULL, site VARCHAR, capacity DOUBLE, active BOOLEAN, since DATE)`,
		`INSERT INTO factory VALUES (1, 'Toyota City', 1.5, true, DATE '1938-11-03')`,
	))

	meta, err := adp.Describe(ctx, "factory")
	require.NoError(t, err)
	assert.Equal(t, "main", meta.Schema)
	assert.Equal(t, int64(1), meta.RowCount)
	require.Len(t, meta.Columns, 5)
	assert.False(t, meta.Columns[0].Nullable)

	tbl := meta.Table()
	assert.Equal(t, core.TypeInteger, tbl.Column("id").Type)
	assert.Equal(t, core.TypeText, tbl.Column("site").Type)
	assert.Equal(t, core.TypeDecimal, tbl.Column("capacity").Type)
	assert.Equal(t, core.TypeBoolean, tbl.Column("active").Type)
	assert.Equal(t, core.TypeTimestamp, tbl.Column("since").Type)

	_, err = adp.Describe(ctx, "nope")
	assert.Error(t, err)
}

func TestConnectAppliesSettings(t *testing.T) {
	ctx := context.Background()
	adp := connect(t, core.AdapterConfig{
		Path:   ":memory:",
		Params: map[string]any{"settings": map[string]any{"threads": 2}},
	})

	rows, err := adp.Query(ctx, "SELECT current_setting('threads')")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()
	require.True(t, rows.Next())

	var threads any
	require.NoError(t, rows.Scan(&threads))
	assert.Equal(t, "2", fmt.Sprint(threads))
}

func TestConnectRejectsUnknownParams(t *testing.T) {
	adp := New(nil)
	err := adp.Connect(context.Background(), core.AdapterConfig{
		Params: map[string]any{"extension": "json"},
	})
	require.Error(t, err)
	assert.False(t, adp.IsConnected())
}
