package dialect

import (
	"strconv"

	"github.com/leapstack-labs/querygraph/pkg/core"
)

// PagingPosition says where a paging clause goes in a SELECT.
type PagingPosition int

const (
	// PagingNone means no clause is needed.
	PagingNone PagingPosition = iota
	// PagingBeforeColumns places the clause between SELECT and the column list.
	PagingBeforeColumns
	// PagingAfterOrder places the clause after ORDER BY.
	PagingAfterOrder
)

// Paging is a rendered row-limit clause and where to put it.
type Paging struct {
	Clause   string
	Position PagingPosition
	// OrderFallback is an ORDER BY expression to use when the query has no
	// ordering and the syntax requires one.
	OrderFallback string
	// AfterDistinct places a PagingBeforeColumns clause after DISTINCT
	// rather than before it.
	AfterDistinct bool
}

// Paging renders a row limit and offset. A limit of zero or less means no
// limit; an offset without a limit is only legal when the engine can express it.
func (d *Dialect) Paging(limit, offset int) (Paging, error) {
	d = d.orDefault()
	if limit <= 0 && offset <= 0 {
		return Paging{}, nil
	}
	if limit <= 0 {
		return Paging{}, core.NewConfigurationError(core.CodeInvalidPaging,
			"offset %d requires a row limit", offset)
	}
	n := strconv.Itoa(limit)
	switch d.cfg.Paging {
	case core.PagingLimitOffset:
		clause := "LIMIT " + n
		if offset > 0 {
			clause += " OFFSET " + strconv.Itoa(offset)
		}
		return Paging{Clause: clause, Position: PagingAfterOrder}, nil
	case core.PagingTop:
		if offset > 0 {
			return Paging{}, d.unsupported("row offsets")
		}
		return Paging{Clause: "TOP " + n, Position: PagingBeforeColumns, AfterDistinct: true}, nil
	case core.PagingFetchFirst:
		return Paging{
			Clause:        "OFFSET " + strconv.Itoa(max(offset, 0)) + " ROWS FETCH NEXT " + n + " ROWS ONLY",
			Position:      PagingAfterOrder,
			OrderFallback: d.cfg.PagingOrderFallback,
		}, nil
	case core.PagingSkipFirst:
		clause := "FIRST " + n
		if offset > 0 {
			clause = "SKIP " + strconv.Itoa(offset) + " " + clause
		}
		return Paging{Clause: clause, Position: PagingBeforeColumns}, nil
	default:
		return Paging{}, d.unsupported("row limits")
	}
}
