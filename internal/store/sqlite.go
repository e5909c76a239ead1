package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/inkwellhq/inkwell/internal/types"
)

// timeLayout keeps sub-second precision so date columns stay byte-equal
// with the dates inside the JSON history columns.
const timeLayout = time.RFC3339Nano

// SQLiteStore is the SQLite-backed record database for folders and notes.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore creates a new SQLiteStore instance.
// It initializes the database with WAL mode, applies pragmas, and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		// A pooled second connection would open a fresh empty database.
		db.SetMaxOpenConns(1)
	}

	if err := enablePragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable pragmas: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db, path: dbPath}, nil
}

// enablePragmas sets SQLite pragmas for optimal performance and safety.
func enablePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Counts returns the number of folders and notes.
func (s *SQLiteStore) Counts(ctx context.Context) (int64, int64, error) {
	var folders, notes int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM folders").Scan(&folders); err != nil {
		return 0, 0, fmt.Errorf("count folders: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notes").Scan(&notes); err != nil {
		return 0, 0, fmt.Errorf("count notes: %w", err)
	}
	return folders, notes, nil
}

// GenerateSnapshot writes a consistent copy of the database next to the
// live file using VACUUM INTO.
func (s *SQLiteStore) GenerateSnapshot(ctx context.Context) error {
	target, err := s.GetSnapshotPath(ctx)
	if err != nil {
		return err
	}

	// VACUUM INTO refuses to overwrite an existing file.
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove previous snapshot: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, "VACUUM INTO ?", target); err != nil {
		return fmt.Errorf("vacuum into snapshot: %w", err)
	}
	return nil
}

// GetSnapshotPath returns the path snapshots are written to.
func (s *SQLiteStore) GetSnapshotPath(ctx context.Context) (string, error) {
	if s.path == "" || s.path == ":memory:" {
		return "", fmt.Errorf("snapshots require a file-backed database")
	}
	return s.path + ".snapshot", nil
}

// --- column helpers ---

func marshalJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal column: %w", err)
	}
	return string(data), nil
}

func unmarshalColumn(raw string, v any) error {
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("parse column: %w", err)
	}
	return nil
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}

func parseStamps(raw string) ([]types.DateStamp, error) {
	var stamps []types.DateStamp
	if err := json.Unmarshal([]byte(raw), &stamps); err != nil {
		return nil, fmt.Errorf("parse date history: %w", err)
	}
	return stamps, nil
}
