package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/leapstack-labs/querygraph/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSN(t *testing.T) {
	tests := []struct {
		name   string
		config adapter.Config
		want   string
	}{
		{
			name:   "defaults",
			config: adapter.Config{Database: "cars"},
			want:   "dbname=cars host=localhost port=5432 sslmode=disable",
		},
		{
			name: "credentials and schema",
			config: adapter.Config{
				Host: "db.example.com", Port: 5433, Database: "cars",
				Username: "admin", Password: "pa ss'word", Schema: "fleet",
			},
			want: `dbname=cars host=db.example.com password='pa ss\'word' port=5433 search_path=fleet sslmode=disable user=admin`,
		},
		{
			name: "options override",
			config: adapter.Config{
				Database: "cars", Schema: "public",
				Options: map[string]string{"sslmode": "require", "application_name": "querygraph"},
			},
			want: "application_name=querygraph dbname=cars host=localhost port=5432 sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildPostgresDSN(tt.config))
		})
	}
}

func TestDSNParsesWithPgx(t *testing.T) {
	cfg, err := pgx.ParseConfig(buildPostgresDSN(adapter.Config{
		Host: "db", Database: "cars", Username: "admin", Password: `a b\c'd`, Schema: "fleet",
	}))
	require.NoError(t, err)
	assert.Equal(t, "db", cfg.Host)
	assert.Equal(t, "cars", cfg.Database)
	assert.Equal(t, `a b\c'd`, cfg.Password)
	assert.Equal(t, "fleet", cfg.RuntimeParams["search_path"])
}

func TestConnectRejectsBadSettings(t *testing.T) {
	adp := New(nil)
	err := adp.Connect(context.Background(), adapter.Config{
		Database: "cars",
		Options:  map[string]string{"sslmode": "sometimes"},
	})
	assert.ErrorContains(t, err, "invalid postgres connection settings")
	assert.False(t, adp.IsConnected())
}

func TestNotConnected(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)

	assert.ErrorIs(t, adp.Exec(ctx, "SELECT 1"), adapter.ErrNotConnected)
	_, err := adp.Describe(ctx, "marque")
	assert.ErrorIs(t, err, adapter.ErrNotConnected)
	assert.NoError(t, adp.Close())
}

func TestRegistered(t *testing.T) {
	factory, ok := adapter.Get("postgres")
	require.True(t, ok)

	pg, ok := factory(nil).(*Adapter)
	require.True(t, ok)
	assert.Equal(t, "postgres", pg.Dialect().GetName())
	assert.Equal(t, "$2", pg.Dialect().FormatPlaceholder(2))
}
