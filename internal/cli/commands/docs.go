package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/querygraph/internal/cli/output"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// NewDocsCommand creates the hidden docs command that writes the markdown
// reference pages.
func NewDocsCommand() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:    "docs",
		Short:  "Generate markdown reference pages",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return GenerateDocs(cmd.Root(), outDir)
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "docs", "Output directory")
	return cmd
}

// GenerateDocs writes cli/index.md, one cli/<command>.md per visible
// command and dialects.md under outDir.
func GenerateDocs(root *cobra.Command, outDir string) error {
	cliDir := filepath.Join(outDir, "cli")
	if err := os.MkdirAll(cliDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	pages := map[string]string{
		filepath.Join(cliDir, "index.md"):    cliIndex(root),
		filepath.Join(outDir, "dialects.md"): dialectsPage(),
	}
	for _, c := range visibleCommands(root) {
		pages[filepath.Join(cliDir, c.Name()+".md")] = commandPage(root, c)
	}
	for path, content := range pages {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}

func visibleCommands(root *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, c := range root.Commands() {
		if c.Hidden || c.Name() == "help" || c.Name() == "__complete" {
			continue
		}
		out = append(out, c)
	}
	return out
}

type page struct {
	b strings.Builder
}

func (p *page) header(level int, text string) {
	p.line(output.FormatHeader(level, text))
}

func (p *page) line(s string) {
	p.b.WriteString(s)
	p.b.WriteString("\n\n")
}

func (p *page) table(headers []string, rows [][]string) {
	t := table.NewWriter()
	h := make(table.Row, len(headers))
	for i, s := range headers {
		h[i] = s
	}
	t.AppendHeader(h)
	for _, r := range rows {
		row := make(table.Row, len(r))
		for i, s := range r {
			row[i] = s
		}
		t.AppendRow(row)
	}
	p.line(t.RenderMarkdown())
}

func (p *page) String() string {
	return strings.TrimRight(p.b.String(), "\n") + "\n"
}

func code(s string) string { return "`" + s + "`" }

func cliIndex(root *cobra.Command) string {
	var p page
	p.header(1, "CLI Reference")
	p.line(firstParagraph(root.Long))

	p.header(2, "Commands")
	var rows [][]string
	for _, c := range visibleCommands(root) {
		rows = append(rows, []string{fmt.Sprintf("[%s](%s.md)", code(c.Name()), c.Name()), c.Short})
	}
	p.table([]string{"Command", "Description"}, rows)

	p.header(2, "Global Options")
	flagsTable(&p, root.PersistentFlags())

	p.header(2, "Environment Variables")
	p.line("Every configuration key can be set from the environment. Nested keys are joined with a double underscore.")
	p.table([]string{"Variable", "Key"}, [][]string{
		{code("QUERYGRAPH_SCHEMA"), code("schema")},
		{code("QUERYGRAPH_LOG_LEVEL"), code("log_level")},
		{code("QUERYGRAPH_TARGET__TYPE"), code("target.type")},
		{code("QUERYGRAPH_TARGET__DIALECT"), code("target.dialect")},
		{code("QUERYGRAPH_SERVE__LISTEN"), code("serve.listen")},
	})
	p.line("Command-line flags take precedence over environment variables.")

	p.header(2, "Exit Codes")
	p.table([]string{"Code", "Meaning"}, [][]string{
		{code("0"), "Success"},
		{code("1"), "Error (check stderr for details)"},
	})
	return p.String()
}

func commandPage(root, c *cobra.Command) string {
	var p page
	p.header(1, c.Name())
	if c.Long != "" {
		p.line(c.Long)
	} else {
		p.line(c.Short)
	}

	p.header(2, "Usage")
	use := c.UseLine()
	if c.HasSubCommands() {
		use = fmt.Sprintf("%s %s <subcommand> [options]", root.Name(), c.Name())
	}
	p.line(output.FormatCodeBlock("bash", use))

	if c.HasSubCommands() {
		p.header(2, "Subcommands")
		var rows [][]string
		for _, sub := range c.Commands() {
			if !sub.Hidden {
				rows = append(rows, []string{code(sub.Name()), sub.Short})
			}
		}
		p.table([]string{"Subcommand", "Description"}, rows)
	}
	if c.HasLocalFlags() {
		p.header(2, "Options")
		flagsTable(&p, c.LocalFlags())
	}
	if c.Example != "" {
		p.header(2, "Examples")
		p.line(output.FormatCodeBlock("bash", cleanExample(c.Example)))
	}
	return p.String()
}

func flagsTable(p *page, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		short := ""
		if f.Shorthand != "" {
			short = "-" + f.Shorthand
		}
		def := f.DefValue
		if f.Value.Type() == "string" && def != "" {
			def = code(def)
		}
		rows = append(rows, []string{code("--" + f.Name), short, def, f.Usage})
	})
	p.table([]string{"Option", "Short", "Default", "Description"}, rows)
}

func dialectsPage() string {
	var p page
	p.header(1, "Dialects")
	p.line("Fragments that differ between the supported engines. The adapter column marks engines queries can also be run against.")
	var rows [][]string
	for _, d := range describeDialects() {
		rows = append(rows, []string{
			code(d.Name), code(d.Quote), d.Paging, yesNo(d.ANSIJoins), yesNo(d.NullsOrdering), yesNo(d.Adapter),
		})
	}
	p.table([]string{"Dialect", "Quoting", "Paging", "ANSI joins", "NULLS order", "Adapter"}, rows)
	return p.String()
}

func firstParagraph(s string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(s), "\n\n")
	return strings.Join(strings.Fields(first), " ")
}

// cleanExample removes common leading whitespace from example text.
func cleanExample(example string) string {
	lines := strings.Split(example, "\n")
	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent <= 0 {
		return strings.TrimSpace(example)
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		if len(line) >= minIndent {
			out[i] = line[minIndent:]
		} else {
			out[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
