package model

// RawTable is an unnormalized table as it comes off the wire: whatever
// column names the source used, in whatever order and casing, with cell
// values still untyped. Both the SQLite reader and the CSV fallback
// reader produce this shape; the normalizer consumes it.
type RawTable struct {
	Columns []string
	Rows    [][]any
}

// Empty reports whether the table holds no rows.
func (t *RawTable) Empty() bool {
	return len(t.Rows) == 0
}
