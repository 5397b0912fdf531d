// Package report derives the views the dashboard renders from a loaded
// table: status filtering, latest-row metrics, tail windows, threshold
// flags and status counts. Everything here is pure and never mutates
// its input; an empty table in means an empty result out.
package report

import (
	"time"

	"github.com/speedwagon-io/sysdash/internal/model"
)

// FilterAll selects every row regardless of ping status.
const FilterAll = "ALL"

// Filter returns the rows whose Ping_Status equals status exactly.
// Equality is case-sensitive and the filter value is not normalized;
// "up" does not match "UP". FilterAll returns all rows. Relative order
// is preserved either way.
func Filter(table model.Table, status string) model.Table {
	if status == FilterAll {
		out := make(model.Table, len(table))
		copy(out, table)
		return out
	}

	out := make(model.Table, 0)
	for _, rec := range table {
		if rec.PingStatus == status {
			out = append(out, rec)
		}
	}
	return out
}

// LatestRow returns the last row in the table's current order, which
// after a load is the most recent sample. Nil on an empty table.
func LatestRow(table model.Table) *model.Record {
	if len(table) == 0 {
		return nil
	}
	rec := table[len(table)-1]
	return &rec
}

// TailWindow returns the last n rows in current order; with fewer than
// n rows the whole table comes back.
func TailWindow(table model.Table, n int) model.Table {
	if n < 0 {
		n = 0
	}
	if n > len(table) {
		n = len(table)
	}
	out := make(model.Table, n)
	copy(out, table[len(table)-n:])
	return out
}

// FlaggedRow pairs a record with its threshold flag.
type FlaggedRow struct {
	model.Record
	Flagged bool `json:"flagged"`
}

// FlagThreshold marks rows where the named metric is at or above the
// threshold. An unknown field or a nil cell is never flagged.
func FlagThreshold(table model.Table, field string, threshold float64) []FlaggedRow {
	out := make([]FlaggedRow, 0, len(table))
	for _, rec := range table {
		flagged := false
		if v, ok := rec.Field(field); ok && v != nil {
			flagged = *v >= threshold
		}
		out = append(out, FlaggedRow{Record: rec, Flagged: flagged})
	}
	return out
}

// StatusCounts returns the frequency of each distinct status value,
// including any null-text values the data carries.
func StatusCounts(table model.Table) map[string]int {
	counts := make(map[string]int)
	for _, rec := range table {
		counts[rec.PingStatus]++
	}
	return counts
}

// TimeRange returns the earliest and latest known timestamps. ok is
// false when no row has a parseable timestamp.
func TimeRange(table model.Table) (earliest, latest time.Time, ok bool) {
	for _, rec := range table {
		if rec.Timestamp == nil {
			continue
		}
		t := *rec.Timestamp
		if !ok {
			earliest, latest = t, t
			ok = true
			continue
		}
		if t.Before(earliest) {
			earliest = t
		}
		if t.After(latest) {
			latest = t
		}
	}
	return earliest, latest, ok
}

// SeriesPoint is one chartable sample of a single metric.
type SeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     *float64  `json:"value"`
}

// SeriesPoints extracts the (timestamp, value) pairs for one metric
// column, dropping rows without a timestamp. Nil values stay in so
// charts show gaps where a sample was malformed.
func SeriesPoints(table model.Table, field string) []SeriesPoint {
	out := make([]SeriesPoint, 0, len(table))
	for _, rec := range table {
		if rec.Timestamp == nil {
			continue
		}
		v, ok := rec.Field(field)
		if !ok {
			return nil
		}
		out = append(out, SeriesPoint{Timestamp: *rec.Timestamp, Value: v})
	}
	return out
}
