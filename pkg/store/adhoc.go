package store

import (
	"context"
	"fmt"
	"time"
)

// RawTable is a scanned query result: column headers plus stringified
// rows, before display shaping.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// Empty reports whether the query returned zero rows.
func (t *RawTable) Empty() bool { return len(t.Rows) == 0 }

// RunUserQuery executes a synthesized SELECT behind the universal CTE and
// returns the raw result plus the full statement that was sent, for
// auditability. Errors from the store are returned as-is for the caller to
// capture into turn state.
func (s *TransactionStore) RunUserQuery(ctx context.Context, query string) (*RawTable, string, error) {
	full := UniversalCTE + query

	rows, err := s.db.QueryContext(ctx, full)
	if err != nil {
		return nil, full, err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, full, err
	}

	table := &RawTable{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, full, err
		}
		rendered := make([]string, len(cols))
		for i, v := range values {
			rendered[i] = renderValue(v)
		}
		table.Rows = append(table.Rows, rendered)
	}
	if err := rows.Err(); err != nil {
		return nil, full, err
	}

	return table, full, nil
}

// renderValue formats a scanned cell for display.
func renderValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
