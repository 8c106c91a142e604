package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/leapstack-labs/querygraph/pkg/adapters/sqlite"
	_ "github.com/leapstack-labs/querygraph/pkg/dialects/all"
)

func TestApplyTargetDefaults(t *testing.T) {
	tests := []struct {
		name   string
		target TargetConfig
		want   TargetConfig
	}{
		{
			name:   "empty becomes sqlite",
			target: TargetConfig{},
			want:   TargetConfig{Type: "sqlite", Schema: "main"},
		},
		{
			name:   "postgres port and schema",
			target: TargetConfig{Type: "postgres"},
			want:   TargetConfig{Type: "postgres", Schema: "public", Port: 5432},
		},
		{
			name:   "explicit values kept",
			target: TargetConfig{Type: "mysql", Port: 3307, Schema: "shop"},
			want:   TargetConfig{Type: "mysql", Port: 3307, Schema: "shop"},
		},
		{
			name:   "dialect only",
			target: TargetConfig{Dialect: "oracle"},
			want:   TargetConfig{Dialect: "oracle"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.target
			ApplyTargetDefaults(&got)
			assert.Equal(t, tt.want.Type, got.Type)
			assert.Equal(t, tt.want.Port, got.Port)
			if tt.want.Schema != "" {
				assert.Equal(t, tt.want.Schema, got.Schema)
			}
		})
	}
}

func TestTargetValidate(t *testing.T) {
	tests := []struct {
		name      string
		target    TargetConfig
		errSubstr string
	}{
		{"empty", TargetConfig{}, "target type is required"},
		{"unknown dialect", TargetConfig{Type: "bigquery"}, "unknown dialect"},
		{"dialect override", TargetConfig{Type: "sqlite", Dialect: "oracle"}, ""},
		{"case insensitive", TargetConfig{Type: "SQLite"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.target.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestValidateAdapter(t *testing.T) {
	assert.NoError(t, (&TargetConfig{Type: "sqlite"}).ValidateAdapter())

	err := (&TargetConfig{Type: "oracle"}).ValidateAdapter()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown adapter type")
}

func TestAdapterConfig(t *testing.T) {
	target := TargetConfig{Type: "postgres", Database: "cars", User: "app", Host: "db", Port: 5432}
	cfg := target.AdapterConfig()
	assert.Equal(t, "postgres", cfg.Type)
	assert.Equal(t, "cars", cfg.Database)
	assert.Equal(t, "cars", cfg.Path)
	assert.Equal(t, "app", cfg.Username)
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	assert.Empty(t, FindProjectRoot(nested, 10))

	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileNameAlt), []byte("{}"), 0o600))
	assert.Equal(t, root, FindProjectRoot(nested, 10))
	assert.Empty(t, FindProjectRoot(nested, 1))
}
