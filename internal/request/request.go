// Package request turns declarative YAML query requests into compiled-ready
// queries over a schema catalog.
package request

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
	"github.com/leapstack-labs/querygraph/pkg/expr"
	"github.com/leapstack-labs/querygraph/pkg/operator"
	"github.com/leapstack-labs/querygraph/pkg/query"
	"github.com/leapstack-labs/querygraph/pkg/schema"
	"gopkg.in/yaml.v3"
)

// Request describes one SELECT over catalog tables.
type Request struct {
	// Dialect overrides the configured dialect when set.
	Dialect string `yaml:"dialect"`
	// Schema is a catalog file, relative to the request file.
	Schema string `yaml:"schema"`

	Tables            []TableRef      `yaml:"tables"`
	Relate            []Relation      `yaml:"relate"`
	IgnoreForeignKeys []ForeignKeyRef `yaml:"ignore_foreign_keys"`
	Columns           []ExprColumn    `yaml:"columns"`
	Order             []OrderTerm     `yaml:"order"`

	Limit    int  `yaml:"limit"`
	Offset   int  `yaml:"offset"`
	Page     int  `yaml:"page"`
	PageSize int  `yaml:"page_size"`
	Distinct bool `yaml:"distinct"`
	Count    bool `yaml:"count"`

	AllowBlank     bool `yaml:"allow_blank"`
	AllowCartesian bool `yaml:"allow_cartesian"`

	// dir is the directory the request was loaded from.
	dir string
}

// TableRef adds one catalog table to the query.
type TableRef struct {
	Table    string   `yaml:"table"`
	Alias    string   `yaml:"alias"`
	Optional bool     `yaml:"optional"`
	Exclude  []string `yaml:"exclude"`
	Filters  []Filter `yaml:"filters"`
}

// Filter restricts one column. Op is one of eq, ne, in, not_in, lt, le,
// gt, ge, between, between_exclusive, like, ilike, not_like, null,
// not_null.
type Filter struct {
	Column       string `yaml:"column"`
	Op           string `yaml:"op"`
	Value        any    `yaml:"value"`
	Values       []any  `yaml:"values"`
	IncludeNulls bool   `yaml:"include_nulls"`
}

// Relation joins two columns written as "table.column".
type Relation struct {
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
	// Op is an operator kind name; empty means equals.
	Op string `yaml:"op"`
}

// ForeignKeyRef names a foreign key to leave out of join inference.
type ForeignKeyRef struct {
	Table  string `yaml:"table"`
	Column string `yaml:"column"`
}

// ExprColumn selects a function of columns under Key.
type ExprColumn struct {
	Key  string   `yaml:"key"`
	Func string   `yaml:"func"`
	Args []string `yaml:"args"`
}

// OrderTerm sorts by a "table.column" reference.
type OrderTerm struct {
	Column string `yaml:"column"`
	Desc   bool   `yaml:"desc"`
	// Nulls is "first", "last" or empty.
	Nulls string `yaml:"nulls"`
}

// Load reads a request file.
func Load(path string) (*Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request: %w", err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.dir = filepath.Dir(path)
	return r, nil
}

// Parse decodes a request from YAML.
func Parse(data []byte) (*Request, error) {
	var r Request
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if len(r.Tables) == 0 {
		return nil, core.NewConfigurationError(core.CodeNoRequiredTables, "request lists no tables")
	}
	return &r, nil
}

// SchemaPath resolves the request's schema file, or "" when it has none.
func (r *Request) SchemaPath() string {
	if r.Schema == "" || filepath.IsAbs(r.Schema) {
		return r.Schema
	}
	return filepath.Join(r.dir, r.Schema)
}

// Build assembles the query against the catalog.
func (r *Request) Build(cat *schema.Catalog, opts ...query.Option) (*query.Query, error) {
	if r.AllowBlank {
		opts = append(opts, query.AllowBlank())
	}
	if r.AllowCartesian {
		opts = append(opts, query.AllowCartesian())
	}
	q := query.New(opts...)
	b := &builder{q: q, tables: make(map[string]*schema.Table)}

	for _, ref := range r.Tables {
		if err := b.addTable(cat, ref); err != nil {
			return nil, err
		}
	}
	for _, fk := range r.IgnoreForeignKeys {
		t, ok := b.tables[fk.Table]
		if !ok {
			return nil, unknownTable(fk.Table)
		}
		q.IgnoreForeignKey(t, fk.Column)
	}
	for _, rel := range r.Relate {
		if err := b.relate(rel); err != nil {
			return nil, err
		}
	}
	for _, c := range r.Columns {
		e, err := b.function(c)
		if err != nil {
			return nil, err
		}
		q.Column(c.Key, e)
	}
	for _, o := range r.Order {
		term, err := b.order(o)
		if err != nil {
			return nil, err
		}
		q.OrderBy(term)
	}

	switch {
	case r.Page > 0 || r.PageSize > 0:
		q.Page(r.Page, r.PageSize)
	default:
		if r.Limit > 0 {
			q.Limit(r.Limit)
		}
		if r.Offset > 0 {
			q.Offset(r.Offset)
		}
	}
	if r.Distinct {
		q.Distinct()
	}
	return q, nil
}

type builder struct {
	q      *query.Query
	tables map[string]*schema.Table
}

func unknownTable(key string) error {
	return core.NewConfigurationError(core.CodeUnknownTable, "request references unknown table %q", key)
}

func (b *builder) addTable(cat *schema.Catalog, ref TableRef) error {
	src, ok := cat.Table(ref.Table)
	if !ok {
		return unknownTable(ref.Table)
	}
	t := src.Copy()
	if ref.Alias != "" {
		t = t.As(ref.Alias)
	}
	for _, name := range ref.Exclude {
		c := t.Column(name)
		if c == nil {
			return core.NewConfigurationError(core.CodeUnknownColumn, "%s has no column %s", t.Name, name)
		}
		c.Excluded = true
	}

	var extra []expr.Boolean
	for _, f := range ref.Filters {
		c := t.Column(f.Column)
		if c == nil {
			return core.NewConfigurationError(core.CodeUnknownColumn, "%s has no column %s", t.Name, f.Column)
		}
		op, err := filterOperator(c, f)
		if err != nil {
			return fmt.Errorf("filter on %s.%s: %w", t.Key(), f.Column, err)
		}
		// The first filter becomes the column predicate; later ones are
		// plain conditions.
		if c.Operator().IsZero() {
			if err := c.Permit(op); err != nil {
				return err
			}
			continue
		}
		if err := op.Check(c.Type); err != nil {
			return err
		}
		extra = append(extra, op.On(c.Ref(t.Key())))
	}

	b.tables[t.Key()] = t
	if ref.Optional {
		b.q.AddOptional(t)
	} else {
		b.q.Add(t)
	}
	if len(extra) > 0 {
		b.q.Where(extra...)
	}
	return nil
}

// column resolves a "table.column" reference among the added tables.
func (b *builder) column(ref string) (expr.Column, error) {
	key, name, ok := strings.Cut(ref, ".")
	if !ok {
		return expr.Column{}, core.NewConfigurationError(core.CodeUnknownColumn, "column reference %q is not table.column", ref)
	}
	t, found := b.tables[key]
	if !found {
		return expr.Column{}, unknownTable(key)
	}
	if t.Column(name) == nil {
		return expr.Column{}, core.NewConfigurationError(core.CodeUnknownColumn, "%s has no column %s", key, name)
	}
	return t.Ref(name), nil
}

func (b *builder) relate(rel Relation) error {
	left, err := b.column(rel.Left)
	if err != nil {
		return err
	}
	right, err := b.column(rel.Right)
	if err != nil {
		return err
	}
	kind := operator.KindEquals
	if rel.Op != "" {
		k, ok := operator.ParseKind(rel.Op)
		if !ok {
			return core.NewConfigurationError(core.CodeIllegalOperator, "unknown relation operator %q", rel.Op)
		}
		kind = k
	}
	b.q.RelateBy(operator.Relation(kind), left, right)
	return nil
}

func (b *builder) order(o OrderTerm) (query.Order, error) {
	col, err := b.column(o.Column)
	if err != nil {
		return query.Order{}, err
	}
	term := query.Asc(col)
	if o.Desc {
		term = query.Desc(col)
	}
	switch strings.ToLower(o.Nulls) {
	case "":
	case "first":
		term = term.NullsFirst()
	case "last":
		term = term.NullsLast()
	default:
		return query.Order{}, core.NewConfigurationError(core.CodeInvalidSchema, "nulls must be first or last, got %q", o.Nulls)
	}
	return term, nil
}

func (b *builder) function(c ExprColumn) (expr.Expression, error) {
	args := make([]expr.Expression, len(c.Args))
	for i, a := range c.Args {
		col, err := b.column(a)
		if err != nil {
			return nil, err
		}
		args[i] = col
	}
	arity := func(n int) error {
		if len(args) != n {
			return core.NewConfigurationError(core.CodeIllegalOperator, "%s takes %d argument(s), got %d", c.Func, n, len(args))
		}
		return nil
	}

	switch strings.ToLower(c.Func) {
	case "upper", "lower", "length", "trim", "abs", "count":
		if err := arity(1); err != nil {
			return nil, err
		}
		switch strings.ToLower(c.Func) {
		case "upper":
			return expr.Upper(args[0]), nil
		case "lower":
			return expr.Lower(args[0]), nil
		case "length":
			return expr.Length(args[0]), nil
		case "trim":
			return expr.Trim(args[0]), nil
		case "abs":
			return expr.Abs(args[0]), nil
		default:
			return expr.Count(args[0]), nil
		}
	case "coalesce":
		if len(args) == 0 {
			return nil, arity(1)
		}
		return expr.Coalesce(args[0], args[1:]...), nil
	case "concat":
		if len(args) < 2 {
			return nil, arity(2)
		}
		return expr.Join(args[0], args[1], args[2:]...), nil
	case "current_timestamp":
		if err := arity(0); err != nil {
			return nil, err
		}
		return expr.CurrentTimestamp(), nil
	}
	return nil, core.NewConfigurationError(core.CodeIllegalOperator, "unknown function %q", c.Func)
}

// Compile builds the query and renders it for d, as a COUNT when the
// request asks for one.
func (r *Request) Compile(cat *schema.Catalog, d *dialect.Dialect, opts ...query.Option) (*query.Statement, error) {
	q, err := r.Build(cat, opts...)
	if err != nil {
		return nil, err
	}
	if r.Count {
		return q.Count(d)
	}
	return q.Compile(d)
}
