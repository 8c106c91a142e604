package commands

import (
	"fmt"
	"slices"

	"github.com/leapstack-labs/querygraph/internal/cli/output"
	"github.com/leapstack-labs/querygraph/pkg/adapter"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
	"github.com/leapstack-labs/querygraph/pkg/query"
	"github.com/leapstack-labs/querygraph/pkg/schema"
	"github.com/spf13/cobra"
)

// DDLOptions holds options for the ddl subcommands.
type DDLOptions struct {
	Apply bool // Execute against the target instead of printing
}

// NewDDLCommand creates the ddl command.
func NewDDLCommand() *cobra.Command {
	opts := &DDLOptions{}
	cmd := &cobra.Command{
		Use:   "ddl",
		Short: "Render CREATE and DROP TABLE statements for the schema",
		Long: `Render table DDL for the catalog in the configured dialect.

Without table names every table in the schema file is used. DROP statements
are emitted in reverse declaration order.`,
		Example: `  # Print CREATE TABLE statements for Postgres
  querygraph ddl create --dialect postgres

  # Create two tables in the configured target
  querygraph ddl create carcompany marque --apply

  # Drop everything
  querygraph ddl drop --apply`,
	}

	create := &cobra.Command{
		Use:   "create [table...]",
		Short: "Render CREATE TABLE statements",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDDL(cmd, args, opts, false)
		},
	}
	drop := &cobra.Command{
		Use:   "drop [table...]",
		Short: "Render DROP TABLE statements",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDDL(cmd, args, opts, true)
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.Apply, "apply", false, "Execute the statements against the target")
	cmd.AddCommand(create, drop)
	return cmd
}

func runDDL(cmd *cobra.Command, names []string, opts *DDLOptions, drop bool) error {
	cmdCtx := NewCommandContext(cmd)
	cat, err := cmdCtx.Catalog("")
	if err != nil {
		return err
	}
	tables, err := selectTables(cat, names)
	if err != nil {
		return err
	}
	if drop {
		slices.Reverse(tables)
	}

	var d *dialect.Dialect
	var a adapter.Adapter
	if opts.Apply {
		conn, cleanup, err := cmdCtx.Connect(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		a, d = conn, conn.Dialect()
	} else if d, err = cmdCtx.Dialect(""); err != nil {
		return err
	}

	statements, err := ddlStatements(d, tables, drop)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if a != nil {
		if err := adapter.ExecAll(cmd.Context(), a, statements...); err != nil {
			return err
		}
		verb := "Created"
		if drop {
			verb = "Dropped"
		}
		r.Success(fmt.Sprintf("%s %d table(s)", verb, len(statements)))
		return nil
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(map[string]any{"dialect": d.GetName(), "statements": statements})
	case output.ModeMarkdown:
		for _, s := range statements {
			r.Println(output.FormatCodeBlock("sql", s))
			r.Println("")
		}
	default:
		for i, s := range statements {
			if i > 0 {
				r.Println("")
			}
			r.Println(r.Styles().SQL.Render(s))
		}
	}
	return nil
}

// selectTables returns the named tables, or all of them in declaration order.
func selectTables(cat *schema.Catalog, names []string) ([]*schema.Table, error) {
	if len(names) == 0 {
		return cat.Tables(), nil
	}
	tables := make([]*schema.Table, 0, len(names))
	for _, name := range names {
		t, ok := cat.Table(name)
		if !ok {
			return nil, fmt.Errorf("unknown table %q (available: %v)", name, cat.Names())
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func ddlStatements(d *dialect.Dialect, tables []*schema.Table, drop bool) ([]string, error) {
	statements := make([]string, 0, len(tables))
	for _, t := range tables {
		var s string
		var err error
		if drop {
			s, err = query.DropTable(d, t)
		} else {
			s, err = query.CreateTable(d, t)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Name, err)
		}
		statements = append(statements, s)
	}
	return statements, nil
}
