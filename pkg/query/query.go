// Package query compiles table descriptors, relationships and predicates
// into a single dialect-correct SQL statement.
//
// A Query collects required and optional tables, explicit relationships and
// boolean conditions. Compile builds a relationship graph from them, infers
// the join order, and renders SELECT text through a *dialect.Dialect together
// with an AliasMap that decodes result columns back to their table and column.
//
// Tables are copied when added, so later changes to a descriptor do not
// affect the query.
package query

import (
	"log/slog"

	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
	"github.com/leapstack-labs/querygraph/pkg/expr"
	"github.com/leapstack-labs/querygraph/pkg/operator"
	"github.com/leapstack-labs/querygraph/pkg/schema"
)

// Option configures a Query.
type Option func(*Query)

// WithLogger sets the logger used for compile diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(q *Query) {
		if logger != nil {
			q.logger = logger
		}
	}
}

// AllowCartesian permits required tables with no join path between them.
// They are combined with CROSS JOIN.
func AllowCartesian() Option {
	return func(q *Query) { q.allowCartesian = true }
}

// AllowBlank permits queries without any filtering predicate.
func AllowBlank() Option {
	return func(q *Query) { q.allowBlank = true }
}

type entry struct {
	// src is the descriptor the caller added; table is the query's copy.
	src      *schema.Table
	table    *schema.Table
	required bool
}

// Relationship joins two columns with an operator.
type Relationship struct {
	Left  expr.Column
	Right expr.Column
	Op    operator.Operator
}

// Render implements expr.Expression.
func (r Relationship) Render(d *dialect.Dialect) (string, error) {
	return r.Op.RenderRelationship(r.Left, r.Right, d)
}

// Type implements expr.Expression.
func (Relationship) Type() core.SemanticType { return core.TypeBoolean }

// Tables implements expr.Expression.
func (r Relationship) Tables() []string { return expr.TablesOf(r.Left, r.Right) }

// Negate implements expr.Boolean.
func (r Relationship) Negate() expr.Boolean {
	r.Op = r.Op.Not()
	return r
}

// Reverse swaps the sides, mirroring the operator.
func (r Relationship) Reverse() Relationship {
	return Relationship{Left: r.Right, Right: r.Left, Op: r.Op.Reverse()}
}

// Order is an ORDER BY term.
type Order struct {
	Expr       expr.Expression
	Descending bool
	Nulls      dialect.NullsOrder
}

// Asc orders by e ascending.
func Asc(e expr.Expression) Order { return Order{Expr: e} }

// Desc orders by e descending.
func Desc(e expr.Expression) Order { return Order{Expr: e, Descending: true} }

// NullsFirst returns the term with NULLs sorted first.
func (o Order) NullsFirst() Order {
	o.Nulls = dialect.NullsFirst
	return o
}

// NullsLast returns the term with NULLs sorted last.
func (o Order) NullsLast() Order {
	o.Nulls = dialect.NullsLast
	return o
}

type selectExpr struct {
	key  string
	expr expr.Expression
}

// Query is a request to compile. The zero value is not usable; call New.
type Query struct {
	tables     []entry
	outer      []*schema.Table
	conditions []expr.Boolean
	relations  []Relationship
	columns    []selectExpr
	order      []Order
	limit      int
	offset     int
	distinct   bool

	allowCartesian bool
	allowBlank     bool
	logger         *slog.Logger

	// err holds the first builder error; Compile reports it.
	err error
}

// New creates an empty query.
func New(opts ...Option) *Query {
	q := &Query{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Add adds required tables. Every result row has a match in each of them.
func (q *Query) Add(tables ...*schema.Table) *Query {
	return q.add(true, tables)
}

// AddOptional adds tables that are outer-joined to the required ones.
func (q *Query) AddOptional(tables ...*schema.Table) *Query {
	return q.add(false, tables)
}

func (q *Query) add(required bool, tables []*schema.Table) *Query {
	for _, t := range tables {
		if t == nil {
			continue
		}
		q.tables = append(q.tables, entry{src: t, table: t.Copy(), required: required})
	}
	return q
}

// Where adds boolean conditions. A condition that references two or more
// tables also connects them in the join graph.
func (q *Query) Where(conditions ...expr.Boolean) *Query {
	for _, c := range conditions {
		if c != nil {
			q.conditions = append(q.conditions, c)
		}
	}
	return q
}

// Relate joins two columns with equality.
func (q *Query) Relate(left, right expr.Column) *Query {
	return q.RelateBy(operator.Relation(operator.KindEquals), left, right)
}

// RelateBy joins two columns with the given operator, typically built
// with operator.Relation.
func (q *Query) RelateBy(op operator.Operator, left, right expr.Column) *Query {
	q.relations = append(q.relations, Relationship{Left: left, Right: right, Op: op})
	return q
}

// IgnoreForeignKey stops the foreign key declared on column of table from
// producing a join. The table must be a descriptor previously added to this
// query.
func (q *Query) IgnoreForeignKey(table *schema.Table, column string) *Query {
	for _, e := range q.tables {
		if e.src == table {
			if err := e.table.IgnoreForeignKey(column); err != nil {
				q.setErr(err)
			}
			return q
		}
	}
	name := "<nil>"
	if table != nil {
		name = table.Key()
	}
	q.setErr(&core.IdentityError{
		Kind:    core.IdentityWrongInstance,
		Table:   name,
		Message: "table was not added to this query",
	})
	return q
}

// Correlate makes the query a subquery of one that selects from outer.
// Outer tables take part in join inference but are not selected from;
// predicates linking them to this query's tables go into WHERE.
func (q *Query) Correlate(outer ...*schema.Table) *Query {
	for _, t := range outer {
		if t != nil {
			q.outer = append(q.outer, t.Copy())
		}
	}
	return q
}

// Column adds an expression to the select list under key.
func (q *Query) Column(key string, e expr.Expression) *Query {
	q.columns = append(q.columns, selectExpr{key: key, expr: e})
	return q
}

// OrderBy appends ORDER BY terms.
func (q *Query) OrderBy(terms ...Order) *Query {
	q.order = append(q.order, terms...)
	return q
}

// Limit caps the number of rows. Zero means no limit.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// Offset skips rows. It requires a limit.
func (q *Query) Offset(n int) *Query {
	q.offset = n
	return q
}

// Page selects the 1-based page of the given size.
func (q *Query) Page(page, size int) *Query {
	if page < 1 {
		page = 1
	}
	q.limit = size
	q.offset = (page - 1) * size
	return q
}

// Distinct removes duplicate rows.
func (q *Query) Distinct() *Query {
	q.distinct = true
	return q
}

func (q *Query) setErr(err error) {
	if q.err == nil {
		q.err = err
	}
}

// clone returns an independent copy of the query.
func (q *Query) clone() *Query {
	cp := *q
	cp.tables = make([]entry, len(q.tables))
	for i, e := range q.tables {
		cp.tables[i] = entry{src: e.src, table: e.table.Copy(), required: e.required}
	}
	cp.outer = make([]*schema.Table, len(q.outer))
	for i, t := range q.outer {
		cp.outer[i] = t.Copy()
	}
	cp.conditions = append([]expr.Boolean(nil), q.conditions...)
	cp.relations = append([]Relationship(nil), q.relations...)
	cp.columns = append([]selectExpr(nil), q.columns...)
	cp.order = append([]Order(nil), q.order...)
	return &cp
}
