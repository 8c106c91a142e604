package adapter

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/querygraph/pkg/query"
)

// Run executes a compiled statement and decodes every row through the
// statement's alias map.
func Run(ctx context.Context, a Adapter, st *query.Statement) ([]query.Result, error) {
	rows, err := a.Query(ctx, st.SQL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	var results []query.Result
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		res, err := st.Decode(columns, values)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return results, nil
}

// RunCount executes a statement produced by Query.Count and returns the
// single count it yields.
func RunCount(ctx context.Context, a Adapter, st *query.Statement) (int64, error) {
	rows, err := a.Query(ctx, st.SQL)
	if err != nil {
		return 0, err
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, fmt.Errorf("error iterating rows: %w", err)
		}
		return 0, fmt.Errorf("count query returned no rows")
	}
	var n int64
	if err := rows.Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to scan count: %w", err)
	}
	return n, rows.Err()
}

// ExecAll executes statements in order, stopping at the first failure.
func ExecAll(ctx context.Context, a Adapter, statements ...string) error {
	for i, s := range statements {
		if err := a.Exec(ctx, s); err != nil {
			return fmt.Errorf("statement %d: %w", i+1, err)
		}
	}
	return nil
}
