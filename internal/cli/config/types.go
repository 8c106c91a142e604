// Package config provides configuration management for the querygraph CLI.
//
// Target settings are shared with other tools through internal/config and
// re-exported here via a type alias.
package config

import (
	"time"

	sharedcfg "github.com/leapstack-labs/querygraph/internal/config"
)

// TargetConfig is an alias for the shared target configuration.
type TargetConfig = sharedcfg.TargetConfig

// Config holds all CLI configuration options.
type Config struct {
	// Schema is the default catalog file for requests that name none.
	Schema       string               `koanf:"schema"`
	Verbose      bool                 `koanf:"verbose"`
	LogLevel     string               `koanf:"log_level"`
	OutputFormat string               `koanf:"output"`
	Environment  string               `koanf:"environment"`
	Target       *TargetConfig        `koanf:"target"`
	Compile      CompileConfig        `koanf:"compile"`
	Serve        ServeConfig          `koanf:"serve"`
	Environments map[string]EnvConfig `koanf:"environments"`

	// ProjectRoot is the directory relative paths resolve against.
	ProjectRoot string `koanf:"-"`
}

// CompileConfig holds defaults applied to every compiled request.
type CompileConfig struct {
	AllowBlank     bool `koanf:"allow_blank"`
	AllowCartesian bool `koanf:"allow_cartesian"`
	// Dialects are the targets of compile --all. Empty means every
	// registered dialect.
	Dialects []string `koanf:"dialects"`
}

// ServeConfig holds configuration for the HTTP compile service.
type ServeConfig struct {
	Listen       string        `koanf:"listen"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	// MaxRequestBytes caps the size of a posted request.
	MaxRequestBytes int64 `koanf:"max_request_bytes"`
}

// EnvConfig holds environment-specific configuration overrides.
type EnvConfig struct {
	Schema string        `koanf:"schema"`
	Target *TargetConfig `koanf:"target"`
}

// Default configuration values.
const (
	DefaultEnv             = "dev"
	DefaultOutput          = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultMaxRequestBytes = 1 << 20
)
