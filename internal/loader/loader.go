// Package loader reads the records table into a time-sorted in-memory
// table, optionally through a short-lived cache.
package loader

import (
	"context"
	"log/slog"
	"sort"

	"github.com/speedwagon-io/sysdash/internal/lib/logger/sl"
	"github.com/speedwagon-io/sysdash/internal/model"
	"github.com/speedwagon-io/sysdash/internal/normalize"
)

// Store is the slice of the store the loader needs.
type Store interface {
	SelectAll(ctx context.Context) (model.RawTable, error)
}

type Loader struct {
	log   *slog.Logger
	store Store
	cache *Cache // nil disables caching
}

func New(log *slog.Logger, store Store, cache *Cache) *Loader {
	return &Loader{log: log, store: store, cache: cache}
}

// LoadAll returns the full records table, normalized and sorted
// ascending by timestamp. An unreachable store or failed query is not
// an error here: it comes back as an empty table plus a warning status,
// which callers treat exactly like an empty table.
func (l *Loader) LoadAll(ctx context.Context) (model.Table, model.Status) {
	if l.cache != nil {
		if table, status, ok := l.cache.get(); ok {
			return table, status
		}
	}

	table, status := l.loadFresh(ctx)

	if l.cache != nil {
		l.cache.put(table, status)
	}
	return table, status
}

// Refresh invalidates the cache synchronously; the next LoadAll reads
// the store again. No-op without a cache.
func (l *Loader) Refresh() {
	if l.cache != nil {
		l.cache.Invalidate()
		l.log.Debug("cache invalidated by refresh")
	}
}

func (l *Loader) loadFresh(ctx context.Context) (model.Table, model.Status) {
	raw, err := l.store.SelectAll(ctx)
	if err != nil {
		l.log.Warn("failed to load records", sl.Err(err))
		return model.Table{}, model.Warning("store unavailable; no data")
	}

	// An empty result may have no usable columns at all, so skip
	// normalization entirely.
	if raw.Empty() {
		return model.Table{}, model.OK
	}

	table := normalize.Table(raw)
	sortByTime(table)
	return table, model.OK
}

// sortByTime orders ascending by timestamp, stable, with unknown
// timestamps after all known ones.
func sortByTime(table model.Table) {
	sort.SliceStable(table, func(i, j int) bool {
		ti, tj := table[i].Timestamp, table[j].Timestamp
		if ti == nil {
			return false
		}
		if tj == nil {
			return true
		}
		return ti.Before(*tj)
	})
}
