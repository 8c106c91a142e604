package dialect

// JoinKind identifies a join between two tables.
type JoinKind string

// Join kinds.
const (
	JoinInner JoinKind = "INNER"
	JoinLeft  JoinKind = "LEFT"
	JoinFull  JoinKind = "FULL"
	JoinCross JoinKind = "CROSS"
)

// SupportsANSIJoins reports whether the engine has JOIN ... ON syntax.
// Without it the compiler lists tables with commas and filters in WHERE.
func (d *Dialect) SupportsANSIJoins() bool {
	return !d.orDefault().cfg.CommaJoins
}

// JoinKeyword returns the keyword phrase introducing a join of the given kind.
func (d *Dialect) JoinKeyword(kind JoinKind) (string, error) {
	d = d.orDefault()
	if d.cfg.CommaJoins {
		if kind == JoinInner || kind == JoinCross {
			return ",", nil
		}
		return "", d.unsupported(string(kind) + " OUTER JOIN")
	}
	switch kind {
	case JoinInner:
		return "INNER JOIN", nil
	case JoinLeft:
		return "LEFT OUTER JOIN", nil
	case JoinFull:
		if d.cfg.NoFullOuterJoin {
			return "", d.unsupported("FULL OUTER JOIN")
		}
		return "FULL OUTER JOIN", nil
	case JoinCross:
		return "CROSS JOIN", nil
	default:
		return "", d.unsupported("join kind " + string(kind))
	}
}
