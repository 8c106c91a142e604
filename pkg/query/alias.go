package query

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
)

// AliasEntry maps one select-list alias to its origin. Expression columns
// have an empty Table and carry their caller-chosen key in Column.
type AliasEntry struct {
	Alias  string `json:"alias"`
	Table  string `json:"table,omitempty"`
	Column string `json:"column"`
}

// IsExpression reports whether the entry is an expression column.
func (e AliasEntry) IsExpression() bool { return e.Table == "" }

// AliasMap is the companion of a compiled SELECT: it maps every result
// column alias back to the table and column it came from. Lookups ignore
// case because some engines fold unquoted labels.
type AliasMap struct {
	entries  []AliasEntry
	byAlias  map[string]int
	byOrigin map[string]int
}

func newAliasMap() *AliasMap {
	return &AliasMap{byAlias: make(map[string]int), byOrigin: make(map[string]int)}
}

func originKey(table, column string) string {
	return table + "\x00" + column
}

// add registers table.column and returns its alias. The alias is the
// dialect's hash-derived name; a collision with a different origin gets a
// numeric suffix.
func (m *AliasMap) add(d *dialect.Dialect, table, column string) string {
	if i, ok := m.byOrigin[originKey(table, column)]; ok {
		return m.entries[i].Alias
	}
	return m.insert(d.ColumnAlias(table, column), table, column)
}

// addExpression registers an expression column under key.
func (m *AliasMap) addExpression(key string) string {
	if i, ok := m.byOrigin[originKey("", key)]; ok {
		return m.entries[i].Alias
	}
	return m.insert(key, "", key)
}

func (m *AliasMap) insert(alias, table, column string) string {
	base := alias
	for n := 2; ; n++ {
		if _, taken := m.byAlias[strings.ToUpper(alias)]; !taken {
			break
		}
		alias = base + "_" + strconv.Itoa(n)
	}
	m.byAlias[strings.ToUpper(alias)] = len(m.entries)
	m.byOrigin[originKey(table, column)] = len(m.entries)
	m.entries = append(m.entries, AliasEntry{Alias: alias, Table: table, Column: column})
	return alias
}

// Lookup returns the origin of an alias.
func (m *AliasMap) Lookup(alias string) (AliasEntry, bool) {
	if m == nil {
		return AliasEntry{}, false
	}
	i, ok := m.byAlias[strings.ToUpper(alias)]
	if !ok {
		return AliasEntry{}, false
	}
	return m.entries[i], true
}

// Alias returns the alias assigned to table.column.
func (m *AliasMap) Alias(table, column string) (string, bool) {
	if m == nil {
		return "", false
	}
	i, ok := m.byOrigin[originKey(table, column)]
	if !ok {
		return "", false
	}
	return m.entries[i].Alias, true
}

// Entries returns the entries in select-list order.
func (m *AliasMap) Entries() []AliasEntry {
	if m == nil {
		return nil
	}
	return append([]AliasEntry(nil), m.entries...)
}

// MarshalJSON encodes the entries in select-list order.
func (m *AliasMap) MarshalJSON() ([]byte, error) {
	entries := m.Entries()
	if entries == nil {
		entries = []AliasEntry{}
	}
	return json.Marshal(entries)
}

// Len returns the number of aliases.
func (m *AliasMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Statement is a compiled SQL statement.
type Statement struct {
	// ID identifies the compilation in logs.
	ID  uuid.UUID `json:"id"`
	SQL string    `json:"sql"`
	// Aliases decodes result columns; empty for statements without a
	// select list of table columns.
	Aliases *AliasMap `json:"aliases"`
	// Tables lists the selected table keys in join order.
	Tables []string `json:"tables"`
}

// String returns the SQL text.
func (s *Statement) String() string { return s.SQL }

// Result is one decoded row.
type Result struct {
	// Tables maps table key to column name to value.
	Tables map[string]map[string]any
	// Expressions maps expression column keys to values.
	Expressions map[string]any
}

// Get returns the value of table.column.
func (r Result) Get(table, column string) (any, bool) {
	row, ok := r.Tables[table]
	if !ok {
		return nil, false
	}
	v, ok := row[column]
	return v, ok
}

// Decode groups one result row by table using the alias map. columns are
// the labels reported by the driver, values the scanned row.
func (s *Statement) Decode(columns []string, values []any) (Result, error) {
	if len(columns) != len(values) {
		return Result{}, fmt.Errorf("decode: %d columns but %d values", len(columns), len(values))
	}
	res := Result{Tables: make(map[string]map[string]any), Expressions: make(map[string]any)}
	for i, label := range columns {
		e, ok := s.Aliases.Lookup(label)
		if !ok {
			return Result{}, fmt.Errorf("decode: unknown column alias %q", label)
		}
		if e.IsExpression() {
			res.Expressions[e.Column] = values[i]
			continue
		}
		row, ok := res.Tables[e.Table]
		if !ok {
			row = make(map[string]any)
			res.Tables[e.Table] = row
		}
		row[e.Column] = values[i]
	}
	return res, nil
}
