package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/leapstack-labs/querygraph/pkg/adapters/sqlite"
	_ "github.com/leapstack-labs/querygraph/pkg/dialects/all"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "querygraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.StringP("target", "t", "", "")
	fs.String("schema", "", "")
	fs.String("dialect", "", "")
	fs.String("database", "", "")
	fs.String("log-level", "", "")
	fs.StringP("output", "o", "", "")
	fs.BoolP("verbose", "v", false, "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	t.Cleanup(ResetConfig)
	dir := t.TempDir()
	path := writeConfig(t, dir, "schema: cars.yaml\n")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "cars.yaml"), cfg.Schema)
	assert.Equal(t, "sqlite", cfg.Target.Type)
	assert.Equal(t, "main", cfg.Target.Schema)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, "127.0.0.1:8787", cfg.Serve.Listen)
	assert.Equal(t, DefaultReadTimeout, cfg.Serve.ReadTimeout)
	assert.Equal(t, int64(DefaultMaxRequestBytes), cfg.Serve.MaxRequestBytes)
	assert.Equal(t, path, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadFileValues(t *testing.T) {
	t.Cleanup(ResetConfig)
	dir := t.TempDir()
	path := writeConfig(t, dir, `
schema: /abs/cars.yaml
log_level: debug
target:
  type: duckdb
  database: data/cars.duckdb
compile:
  allow_blank: true
  dialects: [postgres, oracle]
serve:
  listen: ":9000"
  read_timeout: 3s
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "/abs/cars.yaml", cfg.Schema)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "duckdb", cfg.Target.Type)
	assert.Equal(t, filepath.Join(dir, "data", "cars.duckdb"), cfg.Target.Database)
	assert.True(t, cfg.Compile.AllowBlank)
	assert.Equal(t, []string{"postgres", "oracle"}, cfg.Compile.Dialects)
	assert.Equal(t, ":9000", cfg.Serve.Listen)
	assert.Equal(t, 3*time.Second, cfg.Serve.ReadTimeout)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Cleanup(ResetConfig)
	path := writeConfig(t, t.TempDir(), "target:\n  type: sqlite\n")
	t.Setenv("QUERYGRAPH_TARGET__DIALECT", "oracle")
	t.Setenv("QUERYGRAPH_LOG_LEVEL", "info")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "oracle", cfg.Target.DialectName())
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Cleanup(ResetConfig)
	path := writeConfig(t, t.TempDir(), "log_level: info\n")
	t.Setenv("QUERYGRAPH_TARGET__DIALECT", "oracle")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--dialect", "postgres", "--log-level", "error", "--schema", "s.yaml", "-o", "json"}))

	cfg, err := LoadConfig(path, fs)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Target.DialectName())
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "json", cfg.OutputFormat)

	abs, _ := filepath.Abs("s.yaml")
	assert.Equal(t, abs, cfg.Schema)
}

func TestEnvironmentOverride(t *testing.T) {
	t.Cleanup(ResetConfig)
	path := writeConfig(t, t.TempDir(), `
target:
  type: sqlite
  options: {a: "1"}
environments:
  prod:
    schema: prod.yaml
    target:
      type: postgres
      host: db.internal
      options: {b: "2"}
`)

	cfg, err := LoadConfigWithTarget(path, "prod", nil)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Target.Type)
	assert.Equal(t, "db.internal", cfg.Target.Host)
	assert.Equal(t, 5432, cfg.Target.Port)
	assert.Equal(t, "public", cfg.Target.Schema)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, cfg.Target.Options)
	assert.Equal(t, "prod.yaml", filepath.Base(cfg.Schema))

	_, err = LoadConfigWithTarget(path, "staging", nil)
	assert.ErrorContains(t, err, `unknown environment "staging"`)
}

func TestExpandEnvVars(t *testing.T) {
	t.Cleanup(ResetConfig)
	t.Setenv("QG_TEST_PASSWORD", "s3cret")
	path := writeConfig(t, t.TempDir(), "target:\n  type: postgres\n  password: ${QG_TEST_PASSWORD}\n  user: ${QG_TEST_UNSET}\n")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Target.Password)
	assert.Equal(t, "${QG_TEST_UNSET}", cfg.Target.User)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		errSubstr string
	}{
		{"bad yaml", "target: [", "error reading config file"},
		{"unknown dialect", "target:\n  type: bigquery\n", "unknown dialect"},
		{"bad log level", "log_level: loud\n", "unknown log level"},
		{"bad duration", "serve:\n  read_timeout: soon\n", "unable to decode config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(ResetConfig)
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := LoadConfig(path, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestValidateSchema(t *testing.T) {
	cfg := &Config{}
	assert.ErrorContains(t, cfg.ValidateSchema(), "no schema file configured")

	cfg.Schema = filepath.Join(t.TempDir(), "missing.yaml")
	assert.ErrorContains(t, cfg.ValidateSchema(), "schema file does not exist")
}

func TestMergeTargetConfig(t *testing.T) {
	base := &TargetConfig{Type: "sqlite", Database: "a.db", Params: map[string]any{"x": 1}}
	assert.Same(t, base, MergeTargetConfig(base, nil))

	override := &TargetConfig{Database: "b.db", Params: map[string]any{"y": 2}}
	assert.Same(t, override, MergeTargetConfig(nil, override))

	merged := MergeTargetConfig(base, override)
	assert.Equal(t, "sqlite", merged.Type)
	assert.Equal(t, "b.db", merged.Database)
	assert.Equal(t, map[string]any{"x": 1, "y": 2}, merged.Params)
	assert.Equal(t, "a.db", base.Database)
}
