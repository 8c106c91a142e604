package commands

import (
	"fmt"

	"github.com/leapstack-labs/querygraph/internal/cli/output"
	"github.com/leapstack-labs/querygraph/pkg/adapter"
	"github.com/leapstack-labs/querygraph/pkg/schema"
	"github.com/spf13/cobra"
)

// DescribeOptions holds options for the describe command.
type DescribeOptions struct {
	Schema bool // Print a schema file entry instead of the column table
}

// NewDescribeCommand creates the describe command.
func NewDescribeCommand() *cobra.Command {
	opts := &DescribeOptions{}
	cmd := &cobra.Command{
		Use:   "describe <table> [table...]",
		Short: "Show a target table's columns",
		Long: `Read table metadata from the target database.

With --schema-yaml the tables are printed as schema file entries with the
engine's column types mapped to semantic types, ready to paste into a
schema file. Foreign keys are not discovered and must be added by hand.`,
		Example: `  # Show columns
  querygraph describe carcompany

  # Bootstrap a schema file
  querygraph describe carcompany marque --schema-yaml > cars.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(cmd, args, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.Schema, "schema-yaml", false, "Print tables as schema file YAML")
	return cmd
}

func runDescribe(cmd *cobra.Command, names []string, opts *DescribeOptions) error {
	cmdCtx := NewCommandContext(cmd)
	a, cleanup, err := cmdCtx.Connect(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	metas := make([]*adapter.Metadata, 0, len(names))
	for _, name := range names {
		m, err := a.Describe(cmd.Context(), name)
		if err != nil {
			return err
		}
		metas = append(metas, m)
	}

	r := cmdCtx.Renderer
	if opts.Schema {
		tables := make([]*schema.Table, len(metas))
		for i, m := range metas {
			tables[i] = m.Table()
		}
		data, err := schema.Marshal(tables...)
		if err != nil {
			return err
		}
		_, err = r.Writer().Write(data)
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(metas)
	}
	for i, m := range metas {
		if i > 0 {
			r.Println("")
		}
		title := m.Name
		if m.Schema != "" {
			title = m.Schema + "." + m.Name
		}
		r.Header(2, fmt.Sprintf("%s (%d rows)", title, m.RowCount))
		rows := make([][]any, len(m.Columns))
		for j, c := range m.Columns {
			rows[j] = []any{c.Name, c.Type, adapter.SemanticTypeOf(c.Type).String(), yesNo(c.Nullable), yesNo(c.PrimaryKey)}
		}
		if err := r.Table([]string{"column", "type", "semantic", "nullable", "key"}, rows); err != nil {
			return err
		}
	}
	return nil
}
