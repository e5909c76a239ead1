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

const noteColumns = `
	id, folder_id, title, content, tags, is_pinned, images,
	main_created_at, custom_created_dates,
	main_last_modified, custom_last_modified_dates,
	created_at, updated_at`

// scanNote scans a note row. The folder reference is left as a bare ID;
// callers that need the expanded snapshot resolve it separately.
func scanNote(scanner interface{ Scan(...any) error }) (*types.Note, error) {
	var n types.Note
	var folderID, tagsJSON, imagesJSON string
	var isPinned int
	var mainCreatedAt, createdDates, mainLastModified, modifiedDates string
	var createdAt, updatedAt string

	err := scanner.Scan(
		&n.ID,
		&folderID,
		&n.Title,
		&n.Content,
		&tagsJSON,
		&isPinned,
		&imagesJSON,
		&mainCreatedAt,
		&createdDates,
		&mainLastModified,
		&modifiedDates,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	n.Folder = types.Reference(folderID)
	n.IsPinned = isPinned != 0
	if n.MainCreatedAt, err = parseTime(mainCreatedAt); err != nil {
		return nil, err
	}
	if n.MainLastModified, err = parseTime(mainLastModified); err != nil {
		return nil, err
	}
	n.LastModified = n.MainLastModified
	if n.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if n.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	if err := unmarshalColumn(tagsJSON, &n.Tags); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(imagesJSON, &n.Images); err != nil {
		return nil, err
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	if n.Images == nil {
		n.Images = []types.Attachment{}
	}

	if n.CustomCreatedDates, err = parseStamps(createdDates); err != nil {
		return nil, err
	}
	if n.CustomLastModifiedDates, err = parseStamps(modifiedDates); err != nil {
		return nil, err
	}

	return &n, nil
}

// NotesByFolder returns all notes owned by the folder, unordered; the
// query engine owns ordering and pagination.
func (s *SQLiteStore) NotesByFolder(ctx context.Context, folderID string) ([]types.Note, error) {
	if _, err := s.GetFolder(ctx, folderID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+noteColumns+`
		FROM notes
		WHERE folder_id = ?
	`, folderID)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	return collectNotes(rows)
}

// AllNotes returns every note in the store, for cross-folder search.
func (s *SQLiteStore) AllNotes(ctx context.Context) ([]types.Note, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+noteColumns+` FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	return collectNotes(rows)
}

func collectNotes(rows *sql.Rows) ([]types.Note, error) {
	notes := []types.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return notes, nil
}

// GetNote retrieves a note by ID. With expand the folder reference carries
// a full snapshot of the owning folder instead of a bare ID.
func (s *SQLiteStore) GetNote(ctx context.Context, id string, expand bool) (*types.Note, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+noteColumns+`
		FROM notes
		WHERE id = ?
	`, id)

	n, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("scan note: %w", err)
	}

	if expand {
		folder, err := s.GetFolder(ctx, n.Folder.ID())
		if err != nil {
			return nil, fmt.Errorf("expand folder reference: %w", err)
		}
		n.Folder = types.Expanded(folder)
	}
	return n, nil
}

// CreateNote stores a new note. Images are already validated and encoded
// by the attachment pipeline. Both date histories are seeded with a single
// entry at now.
func (s *SQLiteStore) CreateNote(ctx context.Context, req types.CreateNoteRequest, images []types.Attachment) (*types.Note, error) {
	if _, err := s.GetFolder(ctx, req.FolderID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	mainCreated, createdHistory := temporal.Seed(nil, now)
	mainModified, modifiedHistory := temporal.Seed(nil, now)

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	if images == nil {
		images = []types.Attachment{}
	}

	cols, err := noteJSONColumns(tags, images, createdHistory, modifiedHistory)
	if err != nil {
		return nil, err
	}

	id := ulid.Make().String()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO notes (
			id, folder_id, title, content, tags, is_pinned, images,
			main_created_at, custom_created_dates,
			main_last_modified, custom_last_modified_dates,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, req.FolderID, req.Title, req.Content, cols.tags, boolToInt(req.IsPinned), cols.images,
		mainCreated.Format(timeLayout), cols.createdDates,
		mainModified.Format(timeLayout), cols.modifiedDates,
		now.Format(timeLayout), now.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}

	return s.GetNote(ctx, id, false)
}

// UpdateNote replaces the writable note fields, drops attachments marked
// for removal, appends the new ones, and applies any supplied date
// overrides. Without an override a field's history is untouched.
func (s *SQLiteStore) UpdateNote(ctx context.Context, id string, req types.UpdateNoteRequest, newImages []types.Attachment) (*types.Note, error) {
	current, err := s.GetNote(ctx, id, false)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	mainCreated, createdHistory := temporal.ApplyEdit(
		current.CustomCreatedDates, current.MainCreatedAt, req.CustomCreatedAt, now)
	mainModified, modifiedHistory := temporal.ApplyEdit(
		current.CustomLastModifiedDates, current.MainLastModified, req.CustomLastModified, now)

	images := applyRemovals(current.Images, req.RemoveImages)
	images = append(images, newImages...)

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	cols, err := noteJSONColumns(tags, images, createdHistory, modifiedHistory)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE notes
		SET title = ?, content = ?, tags = ?, is_pinned = ?, images = ?,
		    main_created_at = ?, custom_created_dates = ?,
		    main_last_modified = ?, custom_last_modified_dates = ?,
		    updated_at = ?
		WHERE id = ?
	`, req.Title, req.Content, cols.tags, boolToInt(req.IsPinned), cols.images,
		mainCreated.Format(timeLayout), cols.createdDates,
		mainModified.Format(timeLayout), cols.modifiedDates,
		now.Format(timeLayout), id)
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}

	return s.GetNote(ctx, id, false)
}

// DeleteNote removes a note by ID.
func (s *SQLiteStore) DeleteNote(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// TogglePin flips the note's pinned flag. Date histories are untouched; a
// pin is not an edit.
func (s *SQLiteStore) TogglePin(ctx context.Context, id string) (*types.Note, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE notes SET is_pinned = 1 - is_pinned, updated_at = ? WHERE id = ?
	`, time.Now().UTC().Format(timeLayout), id)
	if err != nil {
		return nil, fmt.Errorf("toggle pin: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrNoteNotFound
	}

	return s.GetNote(ctx, id, false)
}

// --- helpers ---

type noteJSON struct {
	tags, images, createdDates, modifiedDates string
}

func noteJSONColumns(tags []string, images []types.Attachment, created, modified []types.DateStamp) (noteJSON, error) {
	var cols noteJSON
	var err error
	if cols.tags, err = marshalJSON(tags); err != nil {
		return cols, err
	}
	if cols.images, err = marshalJSON(images); err != nil {
		return cols, err
	}
	if cols.createdDates, err = marshalJSON(created); err != nil {
		return cols, err
	}
	if cols.modifiedDates, err = marshalJSON(modified); err != nil {
		return cols, err
	}
	return cols, nil
}

func applyRemovals(images []types.Attachment, remove []string) []types.Attachment {
	if len(remove) == 0 {
		return images
	}
	removeSet := make(map[string]bool, len(remove))
	for _, name := range remove {
		removeSet[name] = true
	}

	kept := make([]types.Attachment, 0, len(images))
	for _, img := range images {
		if !removeSet[img.Filename] {
			kept = append(kept, img)
		}
	}
	return kept
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
