package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/inkwellhq/inkwell/internal/temporal"
	"github.com/inkwellhq/inkwell/internal/types"
)

// DefaultFolderColor is applied when a folder is created without one.
const DefaultFolderColor = "#007bff"

const folderColumns = `
	f.id, f.name, f.description, f.color,
	f.main_created_at, f.custom_created_dates,
	f.created_at, f.updated_at,
	(SELECT COUNT(*) FROM notes n WHERE n.folder_id = f.id) AS notes_count`

// scanFolder scans a folder row, including the derived notes count.
func scanFolder(scanner interface{ Scan(...any) error }) (*types.Folder, error) {
	var f types.Folder
	var mainCreatedAt, createdDates, createdAt, updatedAt string

	err := scanner.Scan(
		&f.ID,
		&f.Name,
		&f.Description,
		&f.Color,
		&mainCreatedAt,
		&createdDates,
		&createdAt,
		&updatedAt,
		&f.NotesCount,
	)
	if err != nil {
		return nil, err
	}

	if f.MainCreatedAt, err = parseTime(mainCreatedAt); err != nil {
		return nil, err
	}
	if f.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if f.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	stamps, err := parseStamps(createdDates)
	if err != nil {
		return nil, err
	}
	f.CustomCreatedDates = stamps

	return &f, nil
}

// ListFolders returns all folders ordered by their effective creation
// date, newest first. NotesCount reflects the live count of owned notes.
func (s *SQLiteStore) ListFolders(ctx context.Context) ([]types.Folder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+folderColumns+`
		FROM folders f
		ORDER BY f.main_created_at DESC, f.id
	`)
	if err != nil {
		return nil, fmt.Errorf("query folders: %w", err)
	}
	defer rows.Close()

	folders := []types.Folder{}
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// GetFolder retrieves a folder by ID.
func (s *SQLiteStore) GetFolder(ctx context.Context, id string) (*types.Folder, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+folderColumns+`
		FROM folders f
		WHERE f.id = ?
	`, id)

	f, err := scanFolder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFolderNotFound
		}
		return nil, fmt.Errorf("scan folder: %w", err)
	}
	return f, nil
}

// CreateFolder stores a new folder, seeding its creation-date history with
// a single entry (the supplied override or now).
func (s *SQLiteStore) CreateFolder(ctx context.Context, req types.CreateFolderRequest) (*types.Folder, error) {
	now := time.Now().UTC()
	main, history := temporal.Seed(req.CustomCreatedAt, now)

	color := req.Color
	if color == "" {
		color = DefaultFolderColor
	}

	historyJSON, err := marshalJSON(history)
	if err != nil {
		return nil, err
	}

	id := ulid.Make().String()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO folders (id, name, description, color, main_created_at, custom_created_dates, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, req.Name, req.Description, color,
		main.Format(timeLayout), historyJSON,
		now.Format(timeLayout), now.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("insert folder: %w", err)
	}

	return s.GetFolder(ctx, id)
}

// UpdateFolder replaces the writable folder fields. A supplied creation
// override appends to the history and moves mainCreatedAt; otherwise the
// history is untouched.
func (s *SQLiteStore) UpdateFolder(ctx context.Context, id string, req types.UpdateFolderRequest) (*types.Folder, error) {
	current, err := s.GetFolder(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	main, history := temporal.ApplyEdit(current.CustomCreatedDates, current.MainCreatedAt, req.CustomCreatedAt, now)

	color := req.Color
	if color == "" {
		color = current.Color
	}

	historyJSON, err := marshalJSON(history)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE folders
		SET name = ?, description = ?, color = ?, main_created_at = ?, custom_created_dates = ?, updated_at = ?
		WHERE id = ?
	`, req.Name, req.Description, color,
		main.Format(timeLayout), historyJSON, now.Format(timeLayout), id)
	if err != nil {
		return nil, fmt.Errorf("update folder: %w", err)
	}

	return s.GetFolder(ctx, id)
}

// DeleteFolder removes a folder and every note it owns in one transaction.
// The cascade is atomic: either the folder and all its notes are gone, or
// nothing is.
func (s *SQLiteStore) DeleteFolder(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM notes WHERE folder_id = ?", id); err != nil {
		return fmt.Errorf("delete folder notes: %w", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM folders WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrFolderNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetFolderStats summarizes a folder's notes.
func (s *SQLiteStore) GetFolderStats(ctx context.Context, id string) (*types.FolderStats, error) {
	if _, err := s.GetFolder(ctx, id); err != nil {
		return nil, err
	}

	var stats types.FolderStats
	var lastActivity sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(is_pinned), 0),
		       MAX(main_last_modified)
		FROM notes
		WHERE folder_id = ?
	`, id).Scan(&stats.NotesCount, &stats.PinnedNotes, &lastActivity)
	if err != nil {
		return nil, fmt.Errorf("query folder stats: %w", err)
	}

	if lastActivity.Valid {
		t, err := parseTime(lastActivity.String)
		if err != nil {
			return nil, err
		}
		stats.LastActivity = &t
	}
	return &stats, nil
}
