package commands

import (
	"context"

	"github.com/leapstack-labs/querygraph/internal/cli/output"
	"github.com/leapstack-labs/querygraph/pkg/adapter"
	"github.com/leapstack-labs/querygraph/pkg/query"
	"github.com/spf13/cobra"
)

// RunOptions holds options for the run command.
type RunOptions struct {
	Count bool // Only count matching rows
	Show  bool // Print the SQL before the results
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}
	cmd := &cobra.Command{
		Use:   "run <request.yaml>",
		Short: "Compile a request and run it against the target",
		Long: `Compile a query request for the target's dialect, execute it, and print
the rows. Result columns are decoded through the alias map, so headers
show the table and column each value came from.`,
		Example: `  # Run against the configured target
  querygraph run requests/toyota.yaml

  # Count matching rows
  querygraph run requests/toyota.yaml --count

  # Output as CSV
  querygraph run requests/toyota.yaml -o csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd.Context(), NewCommandContext(cmd), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Count, "count", false, "Only count matching rows")
	cmd.Flags().BoolVar(&opts.Show, "show-sql", false, "Print the SQL before the results")
	return cmd
}

func runRequest(ctx context.Context, cmdCtx *CommandContext, path string, opts *RunOptions) error {
	req, cat, err := cmdCtx.LoadRequest(path)
	if err != nil {
		return err
	}
	if opts.Count {
		req.Count = true
	}

	a, cleanup, err := cmdCtx.Connect(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	st, err := req.Compile(cat, a.Dialect(), cmdCtx.QueryOptions()...)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer
	if opts.Show && r.EffectiveMode() != output.ModeJSON {
		r.Println(r.Muted(st.SQL))
		r.Println("")
	}

	if req.Count {
		n, err := adapter.RunCount(ctx, a, st)
		if err != nil {
			return err
		}
		if r.EffectiveMode() == output.ModeJSON {
			return r.JSON(map[string]int64{"count": n})
		}
		r.Printf("%d\n", n)
		return nil
	}

	results, err := adapter.Run(ctx, a, st)
	if err != nil {
		return err
	}
	headers, rows := resultRows(st, results)
	return r.Rows(headers, rows)
}

// resultRows lays results out in select-list order. Table columns are
// headed table.column, expression columns by their key.
func resultRows(st *query.Statement, results []query.Result) ([]string, [][]any) {
	entries := st.Aliases.Entries()
	headers := make([]string, len(entries))
	for i, e := range entries {
		if e.IsExpression() {
			headers[i] = e.Column
		} else {
			headers[i] = e.Table + "." + e.Column
		}
	}
	rows := make([][]any, len(results))
	for i, res := range results {
		row := make([]any, len(entries))
		for j, e := range entries {
			if e.IsExpression() {
				row[j] = res.Expressions[e.Column]
			} else {
				row[j], _ = res.Get(e.Table, e.Column)
			}
		}
		rows[i] = row
	}
	return headers, rows
}
