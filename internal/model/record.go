package model

import "time"

// TimeLayout is how timestamps are persisted in the records table.
const TimeLayout = "2006-01-02 15:04:05"

// Canonical column names of the records table, in fixed order.
const (
	ColTimestamp  = "Timestamp"
	ColCPU        = "CPU"
	ColMemory     = "Memory"
	ColDisk       = "Disk"
	ColPingStatus = "Ping_Status"
	ColPingMs     = "Ping_ms"
)

// Columns returns the canonical schema in its fixed order.
func Columns() []string {
	return []string{ColTimestamp, ColCPU, ColMemory, ColDisk, ColPingStatus, ColPingMs}
}

// NullStatusText is what a missing status value is coerced to. The
// original data pipeline stringified nulls, so persisted tables may
// already contain this as a category; keeping the same spelling means
// old and new rows count together.
const NullStatusText = "None"

// Record is one monitoring sample. Nil fields mean the source value was
// missing or unparseable; they are never an error.
type Record struct {
	Timestamp  *time.Time `json:"timestamp"`
	CPU        *float64   `json:"cpu"`
	Memory     *float64   `json:"memory"`
	Disk       *float64   `json:"disk"`
	PingStatus string     `json:"ping_status"`
	PingMs     *float64   `json:"ping_ms"`
}

// Table is an ordered sequence of records. No key is enforced; order is
// whatever the producer established (the loader sorts by timestamp).
type Table []Record

// Field returns the named metric value of a record, for threshold checks
// and chart series. Unknown names return (nil, false).
func (r *Record) Field(name string) (*float64, bool) {
	switch name {
	case ColCPU:
		return r.CPU, true
	case ColMemory:
		return r.Memory, true
	case ColDisk:
		return r.Disk, true
	case ColPingMs:
		return r.PingMs, true
	default:
		return nil, false
	}
}

// IsMetricColumn reports whether name is one of the four numeric columns.
func IsMetricColumn(name string) bool {
	switch name {
	case ColCPU, ColMemory, ColDisk, ColPingMs:
		return true
	}
	return false
}
