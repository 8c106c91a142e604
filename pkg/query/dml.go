package query

import (
	"strings"

	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
	"github.com/leapstack-labs/querygraph/pkg/expr"
	"github.com/leapstack-labs/querygraph/pkg/schema"
)

// Insert renders an INSERT of one row. values maps column names to Go
// values; columns are emitted in declaration order.
func Insert(d *dialect.Dialect, t *schema.Table, values map[string]any) (string, error) {
	cols, vals, err := assignments(d, t, values)
	if err != nil {
		return "", err
	}
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = d.QuoteIdentifierIfNeeded(c)
	}
	return "INSERT INTO " + d.QuoteIdentifierIfNeeded(t.Name) +
		" (" + strings.Join(quoted, ", ") + ")\n" +
		"VALUES (" + strings.Join(vals, ", ") + ")" + d.StatementTerminator(), nil
}

// Update renders an UPDATE setting values on the rows matched by the
// table's column predicates.
func Update(d *dialect.Dialect, t *schema.Table, values map[string]any) (string, error) {
	cols, vals, err := assignments(d, t, values)
	if err != nil {
		return "", err
	}
	where, err := dmlWhere(d, t)
	if err != nil {
		return "", err
	}
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = d.QuoteIdentifierIfNeeded(c) + " = " + vals[i]
	}
	return "UPDATE " + d.QuoteIdentifierIfNeeded(t.Name) + "\n" +
		"SET " + strings.Join(sets, ", ") + "\n" +
		where + d.StatementTerminator(), nil
}

// Delete renders a DELETE of the rows matched by the table's column
// predicates.
func Delete(d *dialect.Dialect, t *schema.Table) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	where, err := dmlWhere(d, t)
	if err != nil {
		return "", err
	}
	return "DELETE FROM " + d.QuoteIdentifierIfNeeded(t.Name) + "\n" + where + d.StatementTerminator(), nil
}

// CreateTable renders CREATE TABLE for the descriptor.
func CreateTable(d *dialect.Dialect, t *schema.Table) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	defs := make([]string, 0, len(t.Columns)+1)
	declared := false
	for _, c := range t.Columns {
		pk := c.Name == t.PrimaryKey
		autoInc := pk && t.AutoIncrement
		def, err := d.ColumnDefinition(c.Name, c.Type, pk, autoInc)
		if err != nil {
			return "", err
		}
		if autoInc && d.AutoIncrementDeclaresKey() {
			declared = true
		}
		defs = append(defs, "  "+def)
	}
	if t.PrimaryKey != "" && !declared {
		defs = append(defs, "  PRIMARY KEY ("+d.QuoteIdentifierIfNeeded(t.PrimaryKey)+")")
	}
	return "CREATE TABLE " + d.QuoteIdentifierIfNeeded(t.Name) + " (\n" +
		strings.Join(defs, ",\n") + "\n)" + d.StatementTerminator(), nil
}

// DropTable renders DROP TABLE.
func DropTable(d *dialect.Dialect, t *schema.Table) (string, error) {
	if t == nil || t.Name == "" {
		return "", core.NewConfigurationError(core.CodeInvalidSchema, "table has no name")
	}
	return "DROP TABLE " + d.QuoteIdentifierIfNeeded(t.Name) + d.StatementTerminator(), nil
}

// assignments renders the values for declared columns in declaration order.
func assignments(d *dialect.Dialect, t *schema.Table, values map[string]any) ([]string, []string, error) {
	if err := t.Validate(); err != nil {
		return nil, nil, err
	}
	if len(values) == 0 {
		return nil, nil, core.NewConfigurationError(core.CodeBlankQuery, "no values for %s", t.Name)
	}
	for name := range values {
		if t.Column(name) == nil {
			return nil, nil, core.NewConfigurationError(core.CodeUnknownColumn, "%s has no column %s", t.Name, name)
		}
	}
	var cols, vals []string
	for _, c := range t.Columns {
		v, ok := values[c.Name]
		if !ok {
			continue
		}
		val, err := expr.ValueOf(c.Type, v)
		if err != nil {
			return nil, nil, err
		}
		lit, err := val.Render(d)
		if err != nil {
			return nil, nil, err
		}
		cols = append(cols, c.Name)
		vals = append(vals, lit)
	}
	return cols, vals, nil
}

// dmlWhere renders the WHERE clause from the table's column predicates with
// unqualified columns. A statement that would touch every row is refused.
func dmlWhere(d *dialect.Dialect, t *schema.Table) (string, error) {
	lines := []string{"WHERE " + d.TrueCondition()}
	for _, p := range t.Predicates("") {
		s, err := p.Render(d)
		if err != nil {
			return "", err
		}
		if s != "" {
			lines = append(lines, "AND ("+s+")")
		}
	}
	if len(lines) == 1 {
		return "", core.NewConfigurationError(core.CodeBlankQuery, "statement without a predicate would touch every row of %s", t.Name)
	}
	return strings.Join(lines, "\n"), nil
}
