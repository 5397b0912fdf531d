package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedwagon-io/sysdash/internal/model"
)

func TestTableMatchesColumnsCaseInsensitively(t *testing.T) {
	raw := model.RawTable{
		Columns: []string{"ping_ms", "TIMESTAMP", "cpu", "Memory", "disk", "PING_STATUS"},
		Rows: [][]any{
			{"12.5", "2024-03-01 10:00:00", "55.5", "70.1", "30.0", "UP"},
		},
	}

	table := Table(raw)
	require.Len(t, table, 1)

	rec := table[0]
	require.NotNil(t, rec.Timestamp)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), *rec.Timestamp)
	require.NotNil(t, rec.CPU)
	assert.Equal(t, 55.5, *rec.CPU)
	require.NotNil(t, rec.Memory)
	assert.Equal(t, 70.1, *rec.Memory)
	require.NotNil(t, rec.Disk)
	assert.Equal(t, 30.0, *rec.Disk)
	assert.Equal(t, "UP", rec.PingStatus)
	require.NotNil(t, rec.PingMs)
	assert.Equal(t, 12.5, *rec.PingMs)
}

func TestTableFillsMissingColumnsWithNil(t *testing.T) {
	raw := model.RawTable{
		Columns: []string{"Timestamp", "CPU"},
		Rows: [][]any{
			{"2024-03-01 10:00:00", "42"},
			{"2024-03-01 10:01:00", "43"},
		},
	}

	table := Table(raw)
	require.Len(t, table, 2)

	for _, rec := range table {
		assert.Nil(t, rec.Memory)
		assert.Nil(t, rec.Disk)
		assert.Nil(t, rec.PingMs)
		// Missing status is coerced to text, so the null spelling
		// shows up as a real value.
		assert.Equal(t, model.NullStatusText, rec.PingStatus)
	}
}

func TestTableCoercesMalformedCellsToNil(t *testing.T) {
	raw := model.RawTable{
		Columns: []string{"Timestamp", "CPU", "Memory", "Disk", "Ping_Status", "Ping_ms"},
		Rows: [][]any{
			{"not a date", "high", "", "12.0", "DOWN", "abc"},
		},
	}

	table := Table(raw)
	require.Len(t, table, 1)

	rec := table[0]
	assert.Nil(t, rec.Timestamp)
	assert.Nil(t, rec.CPU)
	assert.Nil(t, rec.Memory)
	require.NotNil(t, rec.Disk)
	assert.Equal(t, 12.0, *rec.Disk)
	assert.Equal(t, "DOWN", rec.PingStatus)
	assert.Nil(t, rec.PingMs)
}

func TestTableEmptyInputs(t *testing.T) {
	tests := []struct {
		name string
		raw  model.RawTable
	}{
		{name: "zero rows", raw: model.RawTable{Columns: []string{"Timestamp", "CPU"}}},
		{name: "zero columns", raw: model.RawTable{Rows: [][]any{{}, {}}}},
		{name: "completely empty", raw: model.RawTable{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				table := Table(tt.raw)
				assert.Len(t, table, len(tt.raw.Rows))
			})
		})
	}
}

func TestTableHandlesSQLCellTypes(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	raw := model.RawTable{
		Columns: []string{"Timestamp", "CPU", "Memory", "Disk", "Ping_Status", "Ping_ms"},
		Rows: [][]any{
			{ts, 55.5, int64(70), []byte("30.5"), []byte("UP"), nil},
		},
	}

	table := Table(raw)
	require.Len(t, table, 1)

	rec := table[0]
	require.NotNil(t, rec.Timestamp)
	assert.True(t, ts.Equal(*rec.Timestamp))
	require.NotNil(t, rec.CPU)
	assert.Equal(t, 55.5, *rec.CPU)
	require.NotNil(t, rec.Memory)
	assert.Equal(t, 70.0, *rec.Memory)
	require.NotNil(t, rec.Disk)
	assert.Equal(t, 30.5, *rec.Disk)
	assert.Equal(t, "UP", rec.PingStatus)
	assert.Nil(t, rec.PingMs)
}

func TestToTimeLayouts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *time.Time
	}{
		{
			name:  "stored layout",
			input: "2024-03-01 10:00:00",
			want:  timePtr(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)),
		},
		{
			name:  "rfc3339",
			input: "2024-03-01T10:00:00Z",
			want:  timePtr(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)),
		},
		{
			name:  "date only",
			input: "2024-03-01",
			want:  timePtr(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		},
		{name: "garbage", input: "yesterday-ish", want: nil},
		{name: "blank", input: "   ", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToTime(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got))
		})
	}
}

func TestToTextNullQuirk(t *testing.T) {
	assert.Equal(t, "None", ToText(nil))
	assert.Equal(t, "UP", ToText("UP"))
	assert.Equal(t, "true", ToText(true))
}

func TestFindTimeColumn(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		want    string
		ok      bool
	}{
		{name: "exact", columns: []string{"CPU", "Timestamp"}, want: "Timestamp", ok: true},
		{name: "substring", columns: []string{"cpu", "logged_time_utc"}, want: "logged_time_utc", ok: true},
		{name: "case insensitive", columns: []string{"TIME"}, want: "TIME", ok: true},
		{name: "first wins", columns: []string{"time_a", "time_b"}, want: "time_a", ok: true},
		{name: "none", columns: []string{"cpu", "mem"}, want: "", ok: false},
		{name: "empty", columns: nil, want: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindTimeColumn(tt.columns)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
