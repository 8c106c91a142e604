package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/leapstack-labs/querygraph/internal/server"
	"github.com/spf13/cobra"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Listen string
	Watch  bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve query compilation over HTTP",
		Long: `Start an HTTP service that compiles posted query requests against the
configured schema file.

Endpoints:
  POST /compile?dialect=NAME&count=true   compile a request, returns SQL and aliases
  POST /explain                           return the join plan
  GET  /tables                            list catalog tables
  GET  /dialects                          list dialects
  GET  /healthz                           liveness probe`,
		Example: `  # Serve on the configured address
  querygraph serve --schema cars.yaml

  # Reload the schema when it changes
  querygraph serve --listen :8080 --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Listen, "listen", "", "Address to listen on (default from serve.listen)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Reload the schema file when it changes")
	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	if err := cfg.ValidateSchema(); err != nil {
		return err
	}

	listen := cfg.Serve.Listen
	if opts.Listen != "" {
		listen = opts.Listen
	}
	srv, err := server.New(server.Config{
		Listen:          listen,
		SchemaPath:      cfg.Schema,
		Dialect:         cfg.Target.DialectName(),
		ReadTimeout:     cfg.Serve.ReadTimeout,
		WriteTimeout:    cfg.Serve.WriteTimeout,
		MaxRequestBytes: cfg.Serve.MaxRequestBytes,
		Watch:           opts.Watch,
		Options:         cmdCtx.QueryOptions(),
		Logger:          cmdCtx.Logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmdCtx.Renderer.Println(cmdCtx.Renderer.Muted("Serving on " + listen))
	return srv.Serve(ctx)
}
