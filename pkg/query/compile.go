package query

import (
	"strings"

	"github.com/google/uuid"
	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
	"github.com/leapstack-labs/querygraph/pkg/expr"
	"github.com/leapstack-labs/querygraph/pkg/schema"
)

// Compile renders the query as a SELECT for the dialect. A nil dialect uses
// ANSI defaults.
func (q *Query) Compile(d *dialect.Dialect) (*Statement, error) {
	return q.compile(d, false)
}

// Count renders a SELECT COUNT(*) over the same tables and predicates.
// Ordering and paging are ignored.
func (q *Query) Count(d *dialect.Dialect) (*Statement, error) {
	return q.compile(d, true)
}

func (q *Query) compile(d *dialect.Dialect, count bool) (*Statement, error) {
	id := uuid.New()
	p, err := q.plan()
	if err != nil {
		q.logger.Debug("query rejected", "id", id, "dialect", d.GetName(), "error", err)
		return nil, err
	}

	r := &renderer{q: q, p: p, d: d, aliases: newAliasMap()}
	sql, err := r.render(count)
	if err != nil {
		q.logger.Debug("query rejected", "id", id, "dialect", d.GetName(), "error", err)
		return nil, err
	}

	st := &Statement{ID: id, SQL: sql, Aliases: r.aliases, Tables: p.Order}
	if count {
		st.Aliases = newAliasMap()
	}
	q.logger.Debug("compiled query",
		"id", id,
		"dialect", d.GetName(),
		"tables", p.Order,
		"cartesian", p.Cartesian,
		"columns", st.Aliases.Len(),
	)
	return st, nil
}

// term is one predicate of an ON or WHERE clause.
type term struct {
	cond expr.Boolean
	// filter marks predicates that restrict rows rather than join them.
	filter bool
}

type renderer struct {
	q       *Query
	p       *plan
	d       *dialect.Dialect
	aliases *AliasMap
	// filters counts rendered predicates that restrict the rows of
	// required tables.
	filters int
}

func (r *renderer) render(count bool) (string, error) {
	from, where, err := r.tables()
	if err != nil {
		return "", err
	}
	if r.filters == 0 && !r.q.allowBlank && len(r.q.outer) == 0 {
		return "", core.NewConfigurationError(core.CodeBlankQuery,
			"query has no predicate; allow blank queries to select every row")
	}

	whereLines := []string{"WHERE " + r.d.TrueCondition()}
	for _, w := range where {
		whereLines = append(whereLines, "AND ("+w+")")
	}

	if count {
		if !r.q.distinct {
			countAll, err := expr.CountAll().Render(r.d)
			if err != nil {
				return "", err
			}
			lines := append([]string{"SELECT " + countAll}, from...)
			return r.finish(append(lines, whereLines...)), nil
		}
		return r.countDistinct(from, whereLines)
	}

	columns, err := r.columns()
	if err != nil {
		return "", err
	}
	paging, err := r.d.Paging(r.q.limit, r.q.offset)
	if err != nil {
		return "", err
	}
	orderBy, err := r.orderBy(paging)
	if err != nil {
		return "", err
	}

	lines := append([]string{r.head(columns, paging)}, from...)
	lines = append(lines, whereLines...)
	if orderBy != "" {
		lines = append(lines, orderBy)
	}
	if paging.Position == dialect.PagingAfterOrder {
		lines = append(lines, paging.Clause)
	}
	return r.finish(lines), nil
}

func (r *renderer) finish(lines []string) string {
	return strings.Join(lines, "\n") + r.d.StatementTerminator()
}

// countDistinct counts the rows of the DISTINCT select in a derived table.
func (r *renderer) countDistinct(from, whereLines []string) (string, error) {
	columns, err := r.columns()
	if err != nil {
		return "", err
	}
	countAll, err := expr.CountAll().Render(r.d)
	if err != nil {
		return "", err
	}
	lines := []string{"SELECT " + countAll, "FROM ("}
	lines = append(lines, r.head(columns, dialect.Paging{}))
	lines = append(lines, from...)
	lines = append(lines, whereLines...)
	lines = append(lines, ") counted")
	return r.finish(lines), nil
}

func (r *renderer) head(columns []string, paging dialect.Paging) string {
	var mods []string
	if r.q.distinct {
		mods = append(mods, "DISTINCT")
	}
	if paging.Position == dialect.PagingBeforeColumns {
		if paging.AfterDistinct {
			mods = append(mods, paging.Clause)
		} else {
			mods = append([]string{paging.Clause}, mods...)
		}
	}
	mods = append(mods, strings.Join(columns, ", "))
	return "SELECT " + strings.Join(mods, " ")
}

// tables renders the FROM clause with its joins and collects the WHERE
// predicates.
func (r *renderer) tables() (from []string, where []string, err error) {
	p, d := r.p, r.d
	ansi := d.SupportsANSIJoins()

	on := make([][]term, len(p.Order))
	var whereLinks []term
	for _, l := range p.links {
		t := term{cond: p.oriented(l), filter: l.filter}
		if at := p.placement(l); at == placeWhere {
			whereLinks = append(whereLinks, t)
		} else {
			on[at] = append(on[at], t)
		}
	}

	var relocated, columnPreds []string
	refs := make([]string, 0, len(p.Order))
	for i, key := range p.Order {
		e := p.entries[key]
		preds := predicateTerms(e.table, key)
		if e.required {
			frags, err := r.renderTerms(preds, true)
			if err != nil {
				return nil, nil, err
			}
			columnPreds = append(columnPreds, frags...)
		} else {
			on[i] = append(on[i], preds...)
		}

		ref := tableRef(d, e.table)
		if i == 0 {
			refs = append(refs, ref)
			continue
		}
		// An outer join's ON clause never removes rows of the required
		// tables, so its predicates do not make the query non-blank.
		frags, err := r.renderTerms(on[i], e.required)
		if err != nil {
			return nil, nil, err
		}

		kind := dialect.JoinInner
		switch {
		case !e.required:
			kind = dialect.JoinLeft
		case len(frags) == 0:
			kind = dialect.JoinCross
		}
		kw, err := d.JoinKeyword(kind)
		if err != nil {
			return nil, nil, err
		}
		if !ansi {
			refs = append(refs, ref)
			relocated = append(relocated, frags...)
			continue
		}
		switch {
		case kind == dialect.JoinCross:
			from = append(from, kw+" "+ref)
		case len(frags) == 0:
			from = append(from, kw+" "+ref+" ON "+d.TrueCondition())
		default:
			from = append(from, kw+" "+ref+" ON "+conjunction(frags))
		}
	}
	from = append([]string{"FROM " + strings.Join(refs, ", ")}, from...)

	linkFrags, err := r.renderTerms(whereLinks, true)
	if err != nil {
		return nil, nil, err
	}
	where = append(relocated, columnPreds...)
	where = append(where, linkFrags...)
	return from, where, nil
}

func predicateTerms(t *schema.Table, key string) []term {
	preds := t.Predicates(key)
	out := make([]term, len(preds))
	for i, p := range preds {
		out[i] = term{cond: p, filter: true}
	}
	return out
}

// renderTerms renders terms, dropping those that render empty. Filters are
// counted when restricts is set.
func (r *renderer) renderTerms(terms []term, restricts bool) ([]string, error) {
	var out []string
	for _, t := range terms {
		s, err := t.cond.Render(r.d)
		if err != nil {
			return nil, err
		}
		if s == "" {
			continue
		}
		if t.filter && restricts {
			r.filters++
		}
		out = append(out, s)
	}
	return out, nil
}

func conjunction(frags []string) string {
	if len(frags) == 1 {
		return frags[0]
	}
	return "(" + strings.Join(frags, ") AND (") + ")"
}

func tableRef(d *dialect.Dialect, t *schema.Table) string {
	ref := d.QuoteIdentifierIfNeeded(t.Name)
	if t.Alias != "" {
		ref += " " + d.QuoteIdentifierIfNeeded(t.Alias)
	}
	return ref
}

// columns renders the select list and fills the alias map.
func (r *renderer) columns() ([]string, error) {
	var out []string
	for _, key := range r.p.Order {
		for _, c := range r.p.entries[key].table.Columns {
			if c.Excluded {
				continue
			}
			alias := r.aliases.add(r.d, key, c.Name)
			out = append(out, r.d.QualifiedColumn(key, c.Name)+" "+r.d.QuoteIdentifierIfNeeded(alias))
		}
	}
	for _, c := range r.q.columns {
		if c.key == "" {
			return nil, core.NewConfigurationError(core.CodeNoColumns, "expression column has no key")
		}
		s, err := c.expr.Render(r.d)
		if err != nil {
			return nil, err
		}
		alias := r.aliases.addExpression(c.key)
		out = append(out, s+" "+r.d.QuoteIdentifierIfNeeded(alias))
	}
	if len(out) == 0 {
		return nil, core.NewConfigurationError(core.CodeNoColumns, "every column is excluded")
	}
	return out, nil
}

func (r *renderer) orderBy(paging dialect.Paging) (string, error) {
	if len(r.q.order) == 0 {
		if paging.OrderFallback != "" {
			return "ORDER BY " + paging.OrderFallback, nil
		}
		return "", nil
	}
	terms := make([]string, 0, len(r.q.order))
	for _, o := range r.q.order {
		s, err := o.Expr.Render(r.d)
		if err != nil {
			return "", err
		}
		dir, err := r.d.SortDirection(o.Descending, o.Nulls)
		if err != nil {
			return "", err
		}
		terms = append(terms, s+" "+dir)
	}
	return "ORDER BY " + strings.Join(terms, ", "), nil
}
