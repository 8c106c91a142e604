package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/querygraph/internal/cli/output"
	"github.com/leapstack-labs/querygraph/pkg/query"
	"github.com/spf13/cobra"
)

// NewExplainCommand creates the explain command.
func NewExplainCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain <request.yaml>",
		Short: "Show how a request's tables are joined",
		Long: `Display the join plan of a query request without rendering SQL.

Shows the start table, the join order, the optional (outer joined) tables,
the join graph edges and whether required tables end up in a cartesian
product.`,
		Example: `  # Explain a request
  querygraph explain requests/toyota.yaml

  # Output as JSON
  querygraph explain requests/toyota.yaml --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(cmd, args[0])
		},
	}
	return cmd
}

type planJSON struct {
	Start      string      `json:"start"`
	Order      []string    `json:"order"`
	Optional   []string    `json:"optional,omitempty"`
	Outer      []string    `json:"outer,omitempty"`
	Edges      [][2]string `json:"edges"`
	Components [][]string  `json:"components"`
	Cartesian  bool        `json:"cartesian"`
}

func runExplain(cmd *cobra.Command, path string) error {
	cmdCtx := NewCommandContext(cmd)
	req, cat, err := cmdCtx.LoadRequest(path)
	if err != nil {
		return err
	}
	q, err := req.Build(cat, cmdCtx.QueryOptions()...)
	if err != nil {
		return err
	}
	p, err := q.Explain()
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(planJSON{
			Start:      p.Start,
			Order:      p.Order,
			Optional:   p.Optional,
			Outer:      p.Outer,
			Edges:      p.Edges,
			Components: p.Components,
			Cartesian:  p.Cartesian,
		})
	case output.ModeMarkdown:
		return explainMarkdown(r, p)
	default:
		return explainText(r, p)
	}
}

func explainText(r *output.Renderer, p *query.Plan) error {
	styles := r.Styles()

	r.Header(1, "Join Plan")
	r.Printf("  %s %s\n", styles.Muted.Render("start:"), styles.Table.Render(p.Start))
	for i, key := range p.Order {
		r.Printf("  %d. %s\n", i+1, styles.Table.Render(key))
	}
	if len(p.Optional) > 0 {
		r.Printf("  %s %s\n", styles.Muted.Render("optional:"), strings.Join(p.Optional, ", "))
	}
	if len(p.Outer) > 0 {
		r.Printf("  %s %s\n", styles.Muted.Render("correlated:"), strings.Join(p.Outer, ", "))
	}
	r.Println("")

	r.Println(styles.Header2.Render("Edges"))
	for _, e := range p.Edges {
		r.Printf("  %s - %s\n", e[0], e[1])
	}
	if len(p.Edges) == 0 {
		r.Println(styles.Muted.Render("  (none)"))
	}
	r.Println("")

	if p.Cartesian {
		r.Println(styles.Warning.Render(fmt.Sprintf("Cartesian product: %d unconnected groups", len(p.Components))))
	} else {
		r.Println(styles.Success.Render("All required tables are connected"))
	}
	return nil
}

func explainMarkdown(r *output.Renderer, p *query.Plan) error {
	r.Println(output.FormatHeader(1, "Join Plan"))
	r.Println("")
	r.Println(output.FormatKeyValue("start", p.Start))
	r.Println(output.FormatKeyValue("order", strings.Join(p.Order, ", ")))
	if len(p.Optional) > 0 {
		r.Println(output.FormatKeyValue("optional", strings.Join(p.Optional, ", ")))
	}
	if len(p.Outer) > 0 {
		r.Println(output.FormatKeyValue("correlated", strings.Join(p.Outer, ", ")))
	}
	r.Println(output.FormatKeyValue("cartesian", p.Cartesian))
	r.Println("")

	r.Println(output.FormatHeader(2, "Edges"))
	r.Println("")
	rows := make([][]any, len(p.Edges))
	for i, e := range p.Edges {
		rows[i] = []any{e[0], e[1]}
	}
	return r.Table([]string{"from", "to"}, rows)
}
