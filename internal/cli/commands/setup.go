package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/querygraph/internal/cli/config"
	"github.com/leapstack-labs/querygraph/internal/cli/output"
	"github.com/leapstack-labs/querygraph/internal/request"
	"github.com/leapstack-labs/querygraph/pkg/adapter"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
	"github.com/leapstack-labs/querygraph/pkg/query"
	"github.com/leapstack-labs/querygraph/pkg/schema"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// getConfig returns the current configuration, or a default sqlite target
// when none was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		OutputFormat: config.DefaultOutput,
		Target:       &config.TargetConfig{Type: "sqlite"},
	}
}

// Dialect resolves name, falling back to the target's dialect.
func (c *CommandContext) Dialect(name string) (*dialect.Dialect, error) {
	if name == "" {
		name = c.Cfg.Target.DialectName()
	}
	return dialect.Lookup(name)
}

// Catalog loads the schema file at path, or the configured one.
func (c *CommandContext) Catalog(path string) (*schema.Catalog, error) {
	if path == "" {
		if err := c.Cfg.ValidateSchema(); err != nil {
			return nil, err
		}
		path = c.Cfg.Schema
	}
	return schema.Load(path)
}

// LoadRequest reads a request file and the catalog it compiles against.
func (c *CommandContext) LoadRequest(path string) (*request.Request, *schema.Catalog, error) {
	req, err := request.Load(path)
	if err != nil {
		return nil, nil, err
	}
	cat, err := c.Catalog(req.SchemaPath())
	if err != nil {
		return nil, nil, err
	}
	return req, cat, nil
}

// RequestDialect picks the request's own dialect before the configured one.
func (c *CommandContext) RequestDialect(req *request.Request) (*dialect.Dialect, error) {
	return c.Dialect(req.Dialect)
}

// QueryOptions are the compile options every command passes to queries.
func (c *CommandContext) QueryOptions() []query.Option {
	opts := []query.Option{query.WithLogger(c.Logger)}
	if c.Cfg.Compile.AllowBlank {
		opts = append(opts, query.AllowBlank())
	}
	if c.Cfg.Compile.AllowCartesian {
		opts = append(opts, query.AllowCartesian())
	}
	return opts
}

// Connect opens the configured target. The returned cleanup closes it.
func (c *CommandContext) Connect(ctx context.Context) (adapter.Adapter, func(), error) {
	if err := c.Cfg.Target.ValidateAdapter(); err != nil {
		return nil, nil, err
	}
	cfg := c.Cfg.Target.AdapterConfig()
	a, err := adapter.NewAdapter(cfg, c.Logger)
	if err != nil {
		return nil, nil, err
	}
	if err := a.Connect(ctx, cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s: %w", c.Cfg.Target.Type, err)
	}
	return a, func() { _ = a.Close() }, nil
}
