package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/querygraph/internal/cli/output"
	"github.com/leapstack-labs/querygraph/internal/request"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
	"github.com/leapstack-labs/querygraph/pkg/query"
	"github.com/leapstack-labs/querygraph/pkg/schema"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// CompileOptions holds options for the compile command.
type CompileOptions struct {
	All      bool // Compile for every configured dialect
	Count    bool // Render a COUNT query instead
	Aliases  bool // Print the alias map
	Watch    bool // Recompile when the request or schema changes
	Parallel int  // Concurrent compilations for --all
}

// compiled is the machine-readable form of one compilation.
type compiled struct {
	Dialect string `json:"dialect"`
	*query.Statement
	Error string `json:"error,omitempty"`
}

func newCompiled(name string, st *query.Statement) compiled {
	return compiled{Dialect: name, Statement: st}
}

// NewCompileCommand creates the compile command.
func NewCompileCommand() *cobra.Command {
	opts := &CompileOptions{}
	cmd := &cobra.Command{
		Use:   "compile <request.yaml>",
		Short: "Compile a query request to SQL",
		Long: `Compile a declarative query request into dialect-specific SQL.

Tables listed in the request are joined along their foreign keys and
explicit relationships. Every selected column gets a deterministic alias
that maps result columns back to table and column.

Output adapts to environment:
  - Terminal: Styled SQL
  - Piped/Scripted: Markdown format
  - JSON: SQL plus the alias map`,
		Example: `  # Compile for the configured target
  querygraph compile requests/toyota.yaml

  # Compile for Oracle
  querygraph compile requests/toyota.yaml --dialect oracle

  # Compile for every dialect
  querygraph compile requests/toyota.yaml --all

  # Recompile on every save
  querygraph compile requests/toyota.yaml --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Watch {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
				defer stop()
				return watchCompile(ctx, cmd, args[0], opts)
			}
			return runCompile(cmd.Context(), NewCommandContext(cmd), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.All, "all", false, "Compile for every configured dialect")
	cmd.Flags().BoolVar(&opts.Count, "count", false, "Render a COUNT query")
	cmd.Flags().BoolVar(&opts.Aliases, "aliases", false, "Print the column alias map")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Recompile when files change")
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 4, "Concurrent compilations with --all")

	return cmd
}

func runCompile(ctx context.Context, cmdCtx *CommandContext, path string, opts *CompileOptions) error {
	req, cat, err := cmdCtx.LoadRequest(path)
	if err != nil {
		return err
	}
	if opts.Count {
		req.Count = true
	}

	if opts.All {
		results, err := compileAll(ctx, cmdCtx, req, cat, opts.Parallel)
		if err != nil {
			return err
		}
		return renderCompiled(cmdCtx.Renderer, results, opts.Aliases)
	}

	d, err := cmdCtx.RequestDialect(req)
	if err != nil {
		return err
	}
	st, err := req.Compile(cat, d, cmdCtx.QueryOptions()...)
	if err != nil {
		return err
	}
	return renderCompiled(cmdCtx.Renderer, []compiled{newCompiled(d.GetName(), st)}, opts.Aliases)
}

// dialectNames lists the dialects compile --all targets.
func dialectNames(cmdCtx *CommandContext) []string {
	if names := cmdCtx.Cfg.Compile.Dialects; len(names) > 0 {
		return names
	}
	return DialectNames()
}

// DialectNames returns the sorted names of the registered dialects.
func DialectNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, d := range dialect.All() {
		if !seen[d.Name] {
			seen[d.Name] = true
			names = append(names, d.Name)
		}
	}
	sort.Strings(names)
	return names
}

// compileAll compiles req for every dialect concurrently. A dialect that
// cannot express the query is reported in its result, not as an error.
func compileAll(ctx context.Context, cmdCtx *CommandContext, req *request.Request, cat *schema.Catalog, parallel int) ([]compiled, error) {
	names := dialectNames(cmdCtx)
	results := make([]compiled, len(names))

	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := dialect.Lookup(name)
			if err != nil {
				return err
			}
			st, err := req.Compile(cat, d, cmdCtx.QueryOptions()...)
			if err != nil {
				results[i] = compiled{Dialect: name, Error: err.Error()}
				return nil
			}
			results[i] = newCompiled(name, st)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func renderCompiled(r *output.Renderer, results []compiled, showAliases bool) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		if len(results) == 1 {
			return r.JSON(results[0])
		}
		return r.JSON(results)
	case output.ModeMarkdown:
		return compiledMarkdown(r, results, showAliases)
	default:
		return compiledText(r, results, showAliases)
	}
}

func compiledText(r *output.Renderer, results []compiled, showAliases bool) error {
	styles := r.Styles()
	for i, c := range results {
		if len(results) > 1 {
			if i > 0 {
				r.Println("")
			}
			r.Println(styles.Header2.Render("-- " + c.Dialect))
		}
		if c.Error != "" {
			r.Println(styles.Error.Render(c.Error))
			continue
		}
		r.Println(styles.SQL.Render(c.SQL))
		if showAliases {
			if err := aliasTable(r, c); err != nil {
				return err
			}
		}
	}
	return nil
}

func compiledMarkdown(r *output.Renderer, results []compiled, showAliases bool) error {
	for _, c := range results {
		if len(results) > 1 {
			r.Println(output.FormatHeader(2, c.Dialect))
			r.Println("")
		}
		if c.Error != "" {
			r.Println(output.FormatKeyValue("error", c.Error))
			r.Println("")
			continue
		}
		r.Println(output.FormatCodeBlock("sql", c.SQL))
		r.Println("")
		if showAliases {
			if err := aliasTable(r, c); err != nil {
				return err
			}
			r.Println("")
		}
	}
	return nil
}

func aliasTable(r *output.Renderer, c compiled) error {
	entries := c.Aliases.Entries()
	rows := make([][]any, len(entries))
	for i, a := range entries {
		rows[i] = []any{a.Alias, a.Table, a.Column}
	}
	return r.Table([]string{"alias", "table", "column"}, rows)
}

// watchCompile compiles once, then again whenever the request or its schema
// file changes, until ctx is done. Compile errors are reported and watching
// continues.
func watchCompile(ctx context.Context, cmd *cobra.Command, path string, opts *CompileOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	watched := make(map[string]bool)
	watch := func(file string) error {
		abs, err := filepath.Abs(file)
		if err != nil {
			return err
		}
		if watched[abs] {
			return nil
		}
		watched[abs] = true
		// Editors replace files on save, so watch the directory.
		return watcher.Add(filepath.Dir(abs))
	}

	compileOnce := func() {
		if err := runCompile(ctx, cmdCtx, path, opts); err != nil {
			r.Warning("Error: " + err.Error())
		}
		if req, err := request.Load(path); err == nil {
			schemaPath := req.SchemaPath()
			if schemaPath == "" {
				schemaPath = cmdCtx.Cfg.Schema
			}
			if schemaPath != "" {
				if err := watch(schemaPath); err != nil {
					cmdCtx.Logger.Warn("cannot watch schema", "path", schemaPath, "error", err)
				}
			}
		}
	}

	if err := watch(path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	compileOnce()
	r.Println(r.Muted("Watching for changes (Ctrl+C to stop)"))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watched[ev.Name] || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			cmdCtx.Logger.Debug("file changed", "path", ev.Name, "op", ev.Op.String())
			r.Println("")
			compileOnce()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmdCtx.Logger.Warn("watch error", "error", err)
		}
	}
}
