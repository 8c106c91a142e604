package dialect

// Concat joins two rendered string expressions.
func (d *Dialect) Concat(left, right string) string {
	return render(d.orDefault().cfg.ConcatTemplate, left, right)
}

// Modulo renders the remainder of left divided by right.
func (d *Dialect) Modulo(left, right string) string {
	return render(d.orDefault().cfg.ModuloTemplate, left, right)
}

// Like renders a pattern match. With fold set the match ignores case, using
// the engine's native operator when it has one and LOWER() on both sides
// otherwise.
func (d *Dialect) Like(operand, pattern string, fold, negated bool) string {
	op := d.LikeOperator(fold)
	if fold && op == "LIKE" {
		operand = "LOWER(" + operand + ")"
		pattern = "LOWER(" + pattern + ")"
	}
	if negated {
		op = "NOT " + op
	}
	return operand + " " + op + " " + pattern
}

// LikeOperator returns the pattern-match keyword. A case-insensitive request
// falls back to plain LIKE when the engine has no native operator.
func (d *Dialect) LikeOperator(caseInsensitive bool) string {
	d = d.orDefault()
	if caseInsensitive && d.cfg.CaseInsensitiveLike != "" {
		return d.cfg.CaseInsensitiveLike
	}
	return "LIKE"
}

// NullsOrder selects where NULLs sort relative to other values.
type NullsOrder int

const (
	// NullsDefault leaves NULL placement to the engine.
	NullsDefault NullsOrder = iota
	// NullsFirst sorts NULLs before other values.
	NullsFirst
	// NullsLast sorts NULLs after other values.
	NullsLast
)

// SortDirection renders the ordering suffix for an ORDER BY term.
func (d *Dialect) SortDirection(descending bool, nulls NullsOrder) (string, error) {
	d = d.orDefault()
	dir := "ASC"
	if descending {
		dir = "DESC"
	}
	if nulls == NullsDefault {
		return dir, nil
	}
	if d.cfg.NoNullsOrdering {
		return "", d.unsupported("NULLS FIRST/LAST ordering")
	}
	if nulls == NullsFirst {
		return dir + " NULLS FIRST", nil
	}
	return dir + " NULLS LAST", nil
}
