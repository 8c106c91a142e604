// Package schema provides explicit table descriptors: typed columns, primary
// keys, foreign keys and the predicates a caller attaches to columns.
//
// Descriptors are built in code or loaded from YAML. A query captures copies
// of them, so changes made after adding a table to a query have no effect on it.
package schema

import (
	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/expr"
)

// ForeignKey declares that Column holds values of Table.References.
type ForeignKey struct {
	Column     string
	Table      string
	References string
	// Ignored foreign keys do not produce joins.
	Ignored bool
}

// Table describes a database table.
type Table struct {
	Name string
	// Alias distinguishes two uses of the same table in one query.
	Alias         string
	Columns       []*Column
	PrimaryKey    string
	AutoIncrement bool
	ForeignKeys   []ForeignKey
}

// NewTable creates a table with the given columns.
func NewTable(name string, columns ...*Column) *Table {
	return &Table{Name: name, Columns: columns}
}

// Key returns the table identity: the alias if set, else the name.
func (t *Table) Key() string {
	if t.Alias != "" {
		return t.Alias
	}
	return t.Name
}

// WithPrimaryKey declares the primary key column.
func (t *Table) WithPrimaryKey(column string, autoIncrement bool) *Table {
	t.PrimaryKey = column
	t.AutoIncrement = autoIncrement
	return t
}

// References declares a foreign key from column to table.references.
func (t *Table) References(column, table, references string) *Table {
	t.ForeignKeys = append(t.ForeignKeys, ForeignKey{Column: column, Table: table, References: references})
	return t
}

// As returns a copy of the table under an alias.
func (t *Table) As(alias string) *Table {
	cp := t.Copy()
	cp.Alias = alias
	return cp
}

// Copy returns a deep copy of the table, pending predicates included.
func (t *Table) Copy() *Table {
	cp := *t
	cp.Columns = make([]*Column, len(t.Columns))
	for i, c := range t.Columns {
		cp.Columns[i] = c.clone()
	}
	cp.ForeignKeys = append([]ForeignKey(nil), t.ForeignKeys...)
	return &cp
}

// Column returns the named column, or nil.
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Ref returns an expression referencing a column of this table by key.
// An undeclared column has an unknown type.
func (t *Table) Ref(column string) expr.Column {
	if c := t.Column(column); c != nil {
		return c.Ref(t.Key())
	}
	return expr.Col(t.Key(), column, core.TypeUnknown)
}

// ForeignKey returns the foreign key declared on column.
func (t *Table) ForeignKey(column string) (ForeignKey, bool) {
	for _, fk := range t.ForeignKeys {
		if fk.Column == column {
			return fk, true
		}
	}
	return ForeignKey{}, false
}

// IgnoreForeignKey stops the foreign key on column from producing a join.
func (t *Table) IgnoreForeignKey(column string) error {
	for i := range t.ForeignKeys {
		if t.ForeignKeys[i].Column == column {
			t.ForeignKeys[i].Ignored = true
			return nil
		}
	}
	return &core.IdentityError{
		Kind:    core.IdentityWrongInstance,
		Table:   t.Key(),
		Message: "no foreign key on column " + column,
	}
}

// HasPredicates reports whether any column carries a predicate.
func (t *Table) HasPredicates() bool {
	for _, c := range t.Columns {
		if c.Mode() != ModeNone {
			return true
		}
	}
	return false
}

// Predicates returns the pending column predicates, in column order,
// referencing columns through key. An empty key leaves columns unqualified.
func (t *Table) Predicates(key string) []expr.Boolean {
	var out []expr.Boolean
	for _, c := range t.Columns {
		if c.Mode() == ModeNone {
			continue
		}
		out = append(out, c.Operator().On(c.Ref(key)))
	}
	return out
}

// Validate checks the descriptor for internal consistency.
func (t *Table) Validate() error {
	if t.Name == "" {
		return core.NewConfigurationError(core.CodeInvalidSchema, "table has no name")
	}
	if len(t.Columns) == 0 {
		return core.NewConfigurationError(core.CodeInvalidSchema, "table %s has no columns", t.Name)
	}
	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if c.Name == "" {
			return core.NewConfigurationError(core.CodeInvalidSchema, "table %s has an unnamed column", t.Name)
		}
		if seen[c.Name] {
			return core.NewConfigurationError(core.CodeInvalidSchema, "table %s declares column %s twice", t.Name, c.Name)
		}
		if c.Type == core.TypeUnknown {
			return core.NewConfigurationError(core.CodeInvalidSchema, "column %s.%s has no type", t.Name, c.Name)
		}
		seen[c.Name] = true
	}
	if t.PrimaryKey != "" && !seen[t.PrimaryKey] {
		return core.NewConfigurationError(core.CodeInvalidSchema, "primary key %s is not a column of %s", t.PrimaryKey, t.Name)
	}
	for _, fk := range t.ForeignKeys {
		if !seen[fk.Column] {
			return core.NewConfigurationError(core.CodeInvalidSchema, "foreign key %s is not a column of %s", fk.Column, t.Name)
		}
		if fk.Table == "" || fk.References == "" {
			return core.NewConfigurationError(core.CodeInvalidSchema, "foreign key %s.%s has no target", t.Name, fk.Column)
		}
	}
	return nil
}
