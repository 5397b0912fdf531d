package store

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedwagon-io/sysdash/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := New(log, filepath.Join(t.TempDir(), "log.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestTableExists(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	exists, err := st.TableExists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, st.CreateEmpty(ctx))

	exists, err = st.TableExists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCreateEmptyIsIdempotent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.CreateEmpty(ctx))
	require.NoError(t, st.CreateEmpty(ctx))

	count, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCountWithoutTable(t *testing.T) {
	st := newTestStore(t)

	count, err := st.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestReplaceAndSelectAll(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	cpu := 55.5
	ping := 12.5
	table := model.Table{
		{Timestamp: &ts, CPU: &cpu, PingStatus: "UP", PingMs: &ping},
		{PingStatus: "DOWN"}, // all-nil metrics persist as NULLs
	}

	require.NoError(t, st.Replace(ctx, table))

	raw, err := st.SelectAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, model.Columns(), raw.Columns)
	require.Len(t, raw.Rows, 2)

	count, err := st.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestReplaceOverwritesExistingRows(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Replace(ctx, model.Table{{PingStatus: "UP"}, {PingStatus: "UP"}}))
	require.NoError(t, st.Replace(ctx, model.Table{{PingStatus: "DOWN"}}))

	count, err := st.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestSelectAllEmptyTable(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.CreateEmpty(ctx))

	raw, err := st.SelectAll(ctx)
	require.NoError(t, err)
	assert.True(t, raw.Empty())
}
