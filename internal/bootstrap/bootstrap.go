// Package bootstrap makes sure the records table exists before the
// first render: import the fallback CSV if one is present, otherwise
// create an empty table. Conditions come back as statuses, not errors;
// a failed bootstrap leaves the dashboard in its "no data" state
// instead of taking the process down.
package bootstrap

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/speedwagon-io/sysdash/internal/lib/logger/sl"
	"github.com/speedwagon-io/sysdash/internal/model"
	"github.com/speedwagon-io/sysdash/internal/normalize"
)

// Store is the slice of the store the bootstrapper needs.
type Store interface {
	TableExists(ctx context.Context) (bool, error)
	CreateEmpty(ctx context.Context) error
	Replace(ctx context.Context, table model.Table) error
}

// EnsureSchema is idempotent: with the table already present it does
// nothing. The fallback file is only ever read, never written.
func EnsureSchema(ctx context.Context, log *slog.Logger, st Store, csvPath string) model.Status {
	exists, err := st.TableExists(ctx)
	if err != nil {
		log.Warn("store unreachable during bootstrap", sl.Err(err))
		return model.Warning("store unavailable; no data")
	}
	if exists {
		return model.OK
	}

	if _, err := os.Stat(csvPath); err == nil {
		return importFallback(ctx, log, st, csvPath)
	}

	if err := st.CreateEmpty(ctx); err != nil {
		log.Error("failed to create empty records table", sl.Err(err))
		return model.Error("failed to create records table")
	}

	log.Warn("no fallback file found, created empty records table",
		slog.String("csv_path", csvPath),
	)
	return model.Warning("empty table created; no data available yet")
}

func importFallback(ctx context.Context, log *slog.Logger, st Store, csvPath string) model.Status {
	raw, err := readCSV(csvPath)
	if err != nil {
		log.Error("failed to read fallback file",
			slog.String("csv_path", csvPath),
			sl.Err(err),
		)
		return model.Error("failed to parse fallback file")
	}

	if _, ok := normalize.FindTimeColumn(raw.Columns); !ok {
		log.Error("fallback file has no time-like column",
			slog.String("csv_path", csvPath),
			slog.String("columns", strings.Join(raw.Columns, ",")),
		)
		return model.Error("no time-like column found")
	}

	raw.Columns = reconcileHeader(raw.Columns)
	table := normalize.Table(raw)

	if err := st.Replace(ctx, table); err != nil {
		log.Error("failed to import fallback file", sl.Err(err))
		return model.Error("failed to import fallback file")
	}

	log.Info("records table imported from fallback",
		slog.String("csv_path", csvPath),
		slog.Int("rows", len(table)),
	)
	return model.Info("imported from fallback")
}

// readCSV loads the whole fallback file as an untyped table, first
// row as header.
func readCSV(path string) (model.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.RawTable{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return model.RawTable{}, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return model.RawTable{}, nil
	}

	raw := model.RawTable{Columns: records[0]}
	for _, rec := range records[1:] {
		row := make([]any, len(rec))
		for i, cell := range rec {
			row[i] = cell
		}
		raw.Rows = append(raw.Rows, row)
	}
	return raw, nil
}

// reconcileHeader renames fallback-file columns the normalizer would
// otherwise miss: the time-like column (substring match) becomes
// Timestamp, and loosely named metric columns like "cpu_pct" or
// "mem_pct" take their canonical names. This looseness applies only to
// the import; store reads go through the strict matching in normalize.
func reconcileHeader(columns []string) []string {
	out := make([]string, len(columns))
	copy(out, columns)

	timeCol, _ := normalize.FindTimeColumn(columns)

	for i, c := range out {
		if c == timeCol {
			out[i] = model.ColTimestamp
			continue
		}
		lower := strings.ToLower(c)
		switch {
		case strings.HasPrefix(lower, "cpu"):
			out[i] = model.ColCPU
		case strings.HasPrefix(lower, "mem"):
			out[i] = model.ColMemory
		case strings.HasPrefix(lower, "disk"):
			out[i] = model.ColDisk
		case strings.Contains(lower, "status"):
			out[i] = model.ColPingStatus
		case strings.HasPrefix(lower, "ping") || strings.HasPrefix(lower, "latency"):
			out[i] = model.ColPingMs
		}
	}
	return out
}
