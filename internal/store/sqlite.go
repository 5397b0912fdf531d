// Package store is the SQLite access layer for the records table.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/speedwagon-io/sysdash/internal/lib/logger/sl"
	"github.com/speedwagon-io/sysdash/internal/model"
)

// TableName is the fixed name of the records table.
const TableName = "logs"

type SQLiteStore struct {
	log *slog.Logger
	db  *sql.DB
}

func New(log *slog.Logger, dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{log: log, db: db}, nil
}

// TableExists checks sqlite_master for the records table.
func (s *SQLiteStore) TableExists(ctx context.Context) (bool, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?", TableName,
	).Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check table existence: %w", err)
	}
	return true, nil
}

// CreateEmpty creates the records table with the canonical six-column
// schema, all columns nullable. Idempotent.
func (s *SQLiteStore) CreateEmpty(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			Timestamp   TEXT,
			CPU         REAL,
			Memory      REAL,
			Disk        REAL,
			Ping_Status TEXT,
			Ping_ms     REAL
		);
	`, TableName)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Replace drops any existing records table and writes the given rows as
// the new one. Timestamps are persisted in the fixed string layout.
func (s *SQLiteStore) Replace(ctx context.Context, table model.Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", TableName)); err != nil {
		return fmt.Errorf("failed to drop table: %w", err)
	}

	createQuery := fmt.Sprintf(`
		CREATE TABLE %s (
			Timestamp   TEXT,
			CPU         REAL,
			Memory      REAL,
			Disk        REAL,
			Ping_Status TEXT,
			Ping_ms     REAL
		);
	`, TableName)
	if _, err := tx.ExecContext(ctx, createQuery); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (Timestamp, CPU, Memory, Disk, Ping_Status, Ping_ms) VALUES (?, ?, ?, ?, ?, ?)",
		TableName,
	))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range table {
		var ts any
		if rec.Timestamp != nil {
			ts = rec.Timestamp.Format(model.TimeLayout)
		}
		if _, err := stmt.ExecContext(ctx, ts, rec.CPU, rec.Memory, rec.Disk, rec.PingStatus, rec.PingMs); err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.log.Debug("records table replaced", slog.Int("rows", len(table)))
	return nil
}

// SelectAll reads the whole records table, untyped, preserving whatever
// column names and order the table actually has.
func (s *SQLiteStore) SelectAll(ctx context.Context) (model.RawTable, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s", TableName))
	if err != nil {
		return model.RawTable{}, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return model.RawTable{}, fmt.Errorf("failed to read columns: %w", err)
	}

	raw := model.RawTable{Columns: columns}
	for rows.Next() {
		cells := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			s.log.Error("failed to scan row", sl.Err(err))
			continue
		}
		raw.Rows = append(raw.Rows, cells)
	}

	return raw, rows.Err()
}

// Count returns the number of rows in the records table.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", TableName)).Scan(&count)
	if err != nil {
		if isMissingTable(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func isMissingTable(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such table")
}
