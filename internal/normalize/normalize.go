// Package normalize reconciles arbitrarily-named input columns onto the
// canonical six-field record schema. It is pure: no I/O, no mutation of
// its input, and no errors; malformed cells degrade to nil.
package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/speedwagon-io/sysdash/internal/model"
)

// Layouts accepted for timestamp cells. The first one is the persisted
// form; the rest cover common CSV exports.
var timeLayouts = []string{
	model.TimeLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Table maps a raw table onto the canonical schema. For each canonical
// column the source column is picked by case-insensitive exact match,
// then case-sensitive exact match; with no match the column is nil for
// every row. Works for zero rows and zero columns.
func Table(raw model.RawTable) model.Table {
	idx := columnIndex(raw.Columns)

	tsCol := idx.lookup(model.ColTimestamp)
	cpuCol := idx.lookup(model.ColCPU)
	memCol := idx.lookup(model.ColMemory)
	diskCol := idx.lookup(model.ColDisk)
	statusCol := idx.lookup(model.ColPingStatus)
	pingCol := idx.lookup(model.ColPingMs)

	out := make(model.Table, 0, len(raw.Rows))
	for _, row := range raw.Rows {
		out = append(out, model.Record{
			Timestamp:  ToTime(cell(row, tsCol)),
			CPU:        ToFloat(cell(row, cpuCol)),
			Memory:     ToFloat(cell(row, memCol)),
			Disk:       ToFloat(cell(row, diskCol)),
			PingStatus: ToText(cell(row, statusCol)),
			PingMs:     ToFloat(cell(row, pingCol)),
		})
	}
	return out
}

// FindTimeColumn picks the input column that looks like a time field:
// any column whose name contains "time", case-insensitive. The first
// such column wins. This is deliberately loose; see the bootstrap
// import, which refuses a fallback file where no column qualifies.
func FindTimeColumn(columns []string) (string, bool) {
	for _, c := range columns {
		if strings.Contains(strings.ToLower(c), "time") {
			return c, true
		}
	}
	return "", false
}

type columnLookup struct {
	byLower map[string]int
	byExact map[string]int
}

func columnIndex(columns []string) columnLookup {
	idx := columnLookup{
		byLower: make(map[string]int, len(columns)),
		byExact: make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		lower := strings.ToLower(c)
		if _, seen := idx.byLower[lower]; !seen {
			idx.byLower[lower] = i
		}
		if _, seen := idx.byExact[c]; !seen {
			idx.byExact[c] = i
		}
	}
	return idx
}

// lookup resolves a canonical name to a source column index, -1 if the
// source has no such column under either matching rule.
func (l columnLookup) lookup(canonical string) int {
	if i, ok := l.byLower[strings.ToLower(canonical)]; ok {
		return i
	}
	if i, ok := l.byExact[canonical]; ok {
		return i
	}
	return -1
}

func cell(row []any, col int) any {
	if col < 0 || col >= len(row) {
		return nil
	}
	return row[col]
}

// ToTime coerces a cell to a timestamp. Unparseable values are nil,
// never an error.
func ToTime(v any) *time.Time {
	switch val := v.(type) {
	case nil:
		return nil
	case time.Time:
		return &val
	case *time.Time:
		return val
	case []byte:
		return parseTime(string(val))
	case string:
		return parseTime(val)
	default:
		return nil
	}
}

func parseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// ToFloat coerces a cell to float64, nil on anything non-numeric.
func ToFloat(v any) *float64 {
	switch val := v.(type) {
	case nil:
		return nil
	case float64:
		return &val
	case float32:
		f := float64(val)
		return &f
	case int:
		f := float64(val)
		return &f
	case int64:
		f := float64(val)
		return &f
	case []byte:
		return parseFloat(string(val))
	case string:
		return parseFloat(val)
	default:
		return nil
	}
}

func parseFloat(s string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &f
}

// ToText coerces a cell to its textual form. A nil cell becomes the
// literal null-text (see model.NullStatusText); this matches what the
// store already contains for rows imported before the field existed.
func ToText(v any) string {
	switch val := v.(type) {
	case nil:
		return model.NullStatusText
	case string:
		return val
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
