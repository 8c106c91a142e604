package output

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Table renders rows under headers in the effective mode. JSON output is an
// array of objects keyed by header.
func (r *Renderer) Table(headers []string, rows [][]any) error {
	mode := r.EffectiveMode()
	if mode == ModeJSON {
		objs := make([]map[string]any, len(rows))
		for i, row := range rows {
			obj := make(map[string]any, len(headers))
			for j, h := range headers {
				if j < len(row) {
					obj[h] = row[j]
				}
			}
			objs[i] = obj
		}
		return r.JSON(objs)
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	t.AppendHeader(header)
	for _, row := range rows {
		out := make(table.Row, len(row))
		for i, v := range row {
			out[i] = FormatValue(v)
		}
		t.AppendRow(out)
	}

	switch mode {
	case ModeMarkdown:
		t.RenderMarkdown()
	case ModeCSV:
		t.RenderCSV()
	default:
		t.Render()
	}
	return nil
}

// Rows renders query results and a row count.
func (r *Renderer) Rows(headers []string, rows [][]any) error {
	mode := r.EffectiveMode()
	if len(rows) == 0 && (mode == ModeText || mode == ModeMarkdown) {
		r.Println("(0 rows)")
		return nil
	}
	if err := r.Table(headers, rows); err != nil {
		return err
	}
	if mode == ModeText || mode == ModeMarkdown {
		r.Printf("(%d rows)\n", len(rows))
	}
	return nil
}

// FormatValue renders a cell; nil is NULL.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339)
	}
	return fmt.Sprintf("%v", v)
}
