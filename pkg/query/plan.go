package query

import (
	"errors"

	"github.com/leapstack-labs/querygraph/internal/graph"
	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/expr"
	"github.com/leapstack-labs/querygraph/pkg/operator"
	"github.com/leapstack-labs/querygraph/pkg/schema"
)

// Plan describes how a query's tables are joined.
type Plan struct {
	// Start is the first required table; traversal begins there.
	Start string
	// Order lists the selected tables in join order.
	Order []string
	// Optional lists the outer-joined tables.
	Optional []string
	// Outer lists correlated tables of an enclosing query.
	Outer []string
	// Edges are the join graph edges, each pair sorted.
	Edges [][2]string
	// Components are the connected groups of tables.
	Components [][]string
	// Cartesian is set when required tables are combined without a join
	// predicate.
	Cartesian bool
}

// link is a predicate that may connect tables. Foreign keys, explicit
// relationships and caller conditions all become links.
type link struct {
	cond   expr.Boolean
	tables []string
	// filter marks caller conditions, which count against blank queries.
	filter bool
}

type plan struct {
	Plan
	entries map[string]entry
	outer   map[string]*schema.Table
	pos     map[string]int
	links   []link
}

// placeWhere is the placement of links rendered in the WHERE clause.
const placeWhere = -1

// JoinOrder returns the selected tables in the order they are joined.
func (q *Query) JoinOrder() ([]string, error) {
	p, err := q.plan()
	if err != nil {
		return nil, err
	}
	return p.Order, nil
}

// Explain returns the join plan without rendering SQL.
func (q *Query) Explain() (*Plan, error) {
	p, err := q.plan()
	if err != nil {
		return nil, err
	}
	return &p.Plan, nil
}

func (q *Query) plan() (*plan, error) {
	if q.err != nil {
		return nil, q.err
	}
	p := &plan{
		entries: make(map[string]entry, len(q.tables)),
		outer:   make(map[string]*schema.Table, len(q.outer)),
		pos:     make(map[string]int, len(q.tables)),
	}
	g := graph.NewGraph()

	// placed holds tables in the order they were added, outer tables last.
	placed := make([]*schema.Table, 0, len(q.tables)+len(q.outer))
	for _, e := range q.tables {
		if err := e.table.Validate(); err != nil {
			return nil, err
		}
		key := e.table.Key()
		if _, dup := p.entries[key]; dup {
			return nil, duplicateTable(key)
		}
		p.entries[key] = e
		g.AddNode(key, e.required)
		placed = append(placed, e.table)
		if e.required && p.Start == "" {
			p.Start = key
		}
		if !e.required {
			p.Optional = append(p.Optional, key)
		}
	}
	for _, t := range q.outer {
		key := t.Key()
		if _, dup := p.entries[key]; dup {
			return nil, duplicateTable(key)
		}
		if _, dup := p.outer[key]; dup {
			return nil, duplicateTable(key)
		}
		p.outer[key] = t
		p.Outer = append(p.Outer, key)
		g.AddNode(key, true)
		placed = append(placed, t)
	}
	if p.Start == "" {
		return nil, core.NewConfigurationError(core.CodeNoRequiredTables, "query has no required table")
	}

	// Each table is compared against every table placed before it. Two
	// instances of a self-referencing table get one link per foreign key:
	// the earlier instance holds the reference, the later one is referenced.
	for i, t := range placed {
		for _, prev := range placed[:i] {
			if p.isOuter(t.Key()) && p.isOuter(prev.Key()) {
				continue
			}
			p.foreignKeys(prev, t)
			if t.Name != prev.Name {
				p.foreignKeys(t, prev)
			}
		}
	}
	for _, r := range q.relations {
		if err := p.checkColumn(r.Left); err != nil {
			return nil, err
		}
		if err := p.checkColumn(r.Right); err != nil {
			return nil, err
		}
		p.links = append(p.links, link{cond: r, tables: r.Tables()})
	}
	for _, c := range q.conditions {
		tables := c.Tables()
		if err := p.checkTables(tables); err != nil {
			return nil, err
		}
		p.links = append(p.links, link{cond: c, tables: tables, filter: true})
	}
	for _, c := range q.columns {
		if err := p.checkTables(c.expr.Tables()); err != nil {
			return nil, err
		}
	}
	for _, o := range q.order {
		if err := p.checkTables(o.Expr.Tables()); err != nil {
			return nil, err
		}
	}

	for _, l := range p.links {
		if len(l.tables) > 1 {
			if err := g.ConnectAll(l.tables...); err != nil {
				return nil, err
			}
		}
	}

	if err := g.Check(p.Start); err != nil {
		var gerr *core.GraphError
		if !errors.As(err, &gerr) || gerr.Kind != core.GraphCartesian || !q.allowCartesian {
			return nil, err
		}
		p.Cartesian = true
	}

	seen := make(map[string]bool, g.NodeCount())
	visit := func(from string) {
		for _, k := range g.ToList(from) {
			if seen[k] {
				continue
			}
			seen[k] = true
			if _, ok := p.entries[k]; ok {
				p.pos[k] = len(p.Order)
				p.Order = append(p.Order, k)
			}
		}
	}
	visit(p.Start)
	for _, e := range q.tables {
		if key := e.table.Key(); e.required && !seen[key] {
			visit(key)
		}
	}

	p.Edges = g.Edges()
	p.Components = g.Components()
	return p, nil
}

func duplicateTable(key string) error {
	return &core.IdentityError{
		Kind:    core.IdentityDuplicateTable,
		Table:   key,
		Message: "table appears twice; give one an alias",
	}
}

func (p *plan) isOuter(key string) bool {
	_, ok := p.outer[key]
	return ok
}

func (p *plan) table(key string) (*schema.Table, bool) {
	if e, ok := p.entries[key]; ok {
		return e.table, true
	}
	t, ok := p.outer[key]
	return t, ok
}

// foreignKeys adds a link for every active foreign key of from that points
// at to. The referenced column is on the left.
func (p *plan) foreignKeys(from, to *schema.Table) {
	for _, fk := range from.ForeignKeys {
		if fk.Ignored || fk.Table != to.Name {
			continue
		}
		r := Relationship{
			Left:  to.Ref(fk.References),
			Right: from.Ref(fk.Column),
			Op:    operator.Relation(operator.KindEquals),
		}
		p.links = append(p.links, link{cond: r, tables: r.Tables()})
	}
}

func (p *plan) checkTables(keys []string) error {
	for _, k := range keys {
		if _, ok := p.table(k); !ok {
			return &core.IdentityError{
				Kind:    core.IdentityWrongInstance,
				Table:   k,
				Message: "referenced table is not part of the query",
			}
		}
	}
	return nil
}

func (p *plan) checkColumn(c expr.Column) error {
	if err := p.checkTables(c.Tables()); err != nil {
		return err
	}
	t, ok := p.table(c.Table)
	if !ok {
		return core.NewConfigurationError(core.CodeUnknownColumn, "column %s has no table", c.Name)
	}
	if t.Column(c.Name) == nil {
		return core.NewConfigurationError(core.CodeUnknownColumn, "%s has no column %s", c.Table, c.Name)
	}
	return nil
}

// position returns a table's index in the join order; outer tables come
// before all of them.
func (p *plan) position(key string) int {
	if i, ok := p.pos[key]; ok {
		return i
	}
	return -1
}

// placement returns the index of the table whose ON clause receives the
// link, or placeWhere. A link goes to the table that completes it; links
// touching only one required table, or any outer table, go to WHERE.
func (p *plan) placement(l link) int {
	owner, inner := placeWhere, 0
	for _, k := range l.tables {
		if p.isOuter(k) {
			return placeWhere
		}
		inner++
		owner = max(owner, p.position(k))
	}
	if inner == 0 || (inner == 1 && p.entries[p.Order[owner]].required) {
		return placeWhere
	}
	return owner
}

// oriented puts the earlier placed side of a relationship on the left.
func (p *plan) oriented(l link) expr.Boolean {
	r, ok := l.cond.(Relationship)
	if !ok || p.position(r.Left.Table) <= p.position(r.Right.Table) {
		return l.cond
	}
	return r.Reverse()
}
