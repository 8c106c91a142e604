package commands

import (
	"github.com/leapstack-labs/querygraph/internal/cli/output"
	"github.com/leapstack-labs/querygraph/pkg/adapter"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
	"github.com/spf13/cobra"
)

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List supported SQL dialects",
		Long: `List every registered SQL dialect with the features that differ between
engines: identifier quoting, paging syntax, join syntax and NULLS ordering.
The adapter column shows whether queries can also be run against it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDialects(NewCommandContext(cmd).Renderer)
		},
	}
}

type dialectInfo struct {
	Name          string `json:"name"`
	Quote         string `json:"quote"`
	Paging        string `json:"paging"`
	ANSIJoins     bool   `json:"ansi_joins"`
	NullsOrdering bool   `json:"nulls_ordering"`
	Terminator    string `json:"terminator"`
	DefaultSchema string `json:"default_schema,omitempty"`
	Adapter       bool   `json:"adapter"`
}

func describeDialects() []dialectInfo {
	var out []dialectInfo
	for _, d := range dialect.All() {
		cfg := d.Config()
		out = append(out, dialectInfo{
			Name:          d.Name,
			Quote:         d.QuoteIdentifier("x"),
			Paging:        cfg.Paging.String(),
			ANSIJoins:     d.SupportsANSIJoins(),
			NullsOrdering: !cfg.NoNullsOrdering,
			Terminator:    d.StatementTerminator(),
			DefaultSchema: d.DefaultSchema,
			Adapter:       adapter.IsRegistered(d.Name),
		})
	}
	return out
}

func runDialects(r *output.Renderer) error {
	infos := describeDialects()
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(infos)
	}
	rows := make([][]any, len(infos))
	for i, d := range infos {
		rows[i] = []any{d.Name, d.Quote, d.Paging, yesNo(d.ANSIJoins), yesNo(d.NullsOrdering), d.Terminator, d.DefaultSchema, yesNo(d.Adapter)}
	}
	return r.Table([]string{"dialect", "quoting", "paging", "ansi joins", "nulls order", "terminator", "schema", "adapter"}, rows)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
