package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/inkwellhq/inkwell/internal/types"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustCreateFolder(t *testing.T, s *SQLiteStore, name string) *types.Folder {
	t.Helper()
	f, err := s.CreateFolder(context.Background(), types.CreateFolderRequest{Name: name})
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func mustCreateNote(t *testing.T, s *SQLiteStore, folderID, title string) *types.Note {
	t.Helper()
	n, err := s.CreateNote(context.Background(), types.CreateNoteRequest{
		Title:    title,
		Content:  "content of " + title,
		FolderID: folderID,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestStore_NewSQLiteStore(t *testing.T) {
	newTestStore(t)
}

func TestStore_CreateFolder_SeedsHistory(t *testing.T) {
	s := newTestStore(t)

	f := mustCreateFolder(t, s, "Work")

	if f.ID == "" {
		t.Error("expected ID to be set")
	}
	if f.Color != DefaultFolderColor {
		t.Errorf("expected default color, got %q", f.Color)
	}
	if len(f.CustomCreatedDates) != 1 {
		t.Fatalf("expected seeded history of 1, got %d", len(f.CustomCreatedDates))
	}
	if !f.MainCreatedAt.Equal(f.CustomCreatedDates[0].Date) {
		t.Error("mainCreatedAt does not mirror the seeded history entry")
	}
	if f.NotesCount != 0 {
		t.Errorf("expected 0 notes, got %d", f.NotesCount)
	}
}

func TestStore_CreateFolder_WithCreationOverride(t *testing.T) {
	s := newTestStore(t)

	past := time.Date(2020, 1, 15, 12, 0, 0, 0, time.UTC)
	f, err := s.CreateFolder(context.Background(), types.CreateFolderRequest{
		Name:            "Archive",
		Color:           "#ff0000",
		CustomCreatedAt: &past,
	})
	if err != nil {
		t.Fatal(err)
	}

	if !f.MainCreatedAt.Equal(past) {
		t.Errorf("expected mainCreatedAt %v, got %v", past, f.MainCreatedAt)
	}
	if !f.CustomCreatedDates[0].Date.Equal(past) {
		t.Error("history entry does not carry the override")
	}
	if f.CustomCreatedDates[0].ModifiedAt.Equal(past) {
		t.Error("modifiedAt should be the apply time, not the override")
	}
}

func TestStore_UpdateFolder_OverrideAppendsHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	f := mustCreateFolder(t, s, "Work")

	// Plain edit: no override, history untouched.
	updated, err := s.UpdateFolder(ctx, f.ID, types.UpdateFolderRequest{
		Name: "Work renamed", Description: "new desc", Color: f.Color,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(updated.CustomCreatedDates) != 1 {
		t.Errorf("history grew on a content-only edit: %d entries", len(updated.CustomCreatedDates))
	}
	if updated.Name != "Work renamed" || updated.Description != "new desc" {
		t.Errorf("fields not updated: %+v", updated)
	}

	// Edit with override: history appends, main moves.
	override := time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)
	updated, err = s.UpdateFolder(ctx, f.ID, types.UpdateFolderRequest{
		Name: "Work renamed", Color: f.Color, CustomCreatedAt: &override,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(updated.CustomCreatedDates) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(updated.CustomCreatedDates))
	}
	if !updated.MainCreatedAt.Equal(override) {
		t.Errorf("expected main %v, got %v", override, updated.MainCreatedAt)
	}
	last := updated.CustomCreatedDates[len(updated.CustomCreatedDates)-1]
	if !last.Date.Equal(updated.MainCreatedAt) {
		t.Error("mainCreatedAt does not mirror last history entry")
	}
}

func TestStore_GetFolder_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetFolder(context.Background(), "01BOGUS")
	if !errors.Is(err, ErrFolderNotFound) {
		t.Errorf("expected ErrFolderNotFound, got %v", err)
	}
}

func TestStore_NotesCountReflectsTruth(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	f := mustCreateFolder(t, s, "Work")

	for i := 0; i < 3; i++ {
		mustCreateNote(t, s, f.ID, "note")
	}

	got, err := s.GetFolder(ctx, f.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.NotesCount != 3 {
		t.Errorf("expected notesCount 3, got %d", got.NotesCount)
	}

	notes, err := s.NotesByFolder(ctx, f.ID)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteNote(ctx, notes[0].ID); err != nil {
		t.Fatal(err)
	}

	got, err = s.GetFolder(ctx, f.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.NotesCount != 2 {
		t.Errorf("expected notesCount 2 after delete, got %d", got.NotesCount)
	}
}

func TestStore_DeleteFolder_CascadesToNotes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	f := mustCreateFolder(t, s, "Doomed")
	other := mustCreateFolder(t, s, "Safe")
	for i := 0; i < 4; i++ {
		mustCreateNote(t, s, f.ID, "doomed note")
	}
	kept := mustCreateNote(t, s, other.ID, "kept note")

	if err := s.DeleteFolder(ctx, f.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := s.GetFolder(ctx, f.ID); !errors.Is(err, ErrFolderNotFound) {
		t.Errorf("folder still present: %v", err)
	}
	// No orphan notes may survive the cascade.
	all, err := s.AllNotes(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range all {
		if n.Folder.ID() == f.ID {
			t.Errorf("orphan note %s still references deleted folder", n.ID)
		}
	}
	if _, err := s.GetNote(ctx, kept.ID, false); err != nil {
		t.Errorf("note in another folder was deleted: %v", err)
	}
}

func TestStore_DeleteFolder_NotFound(t *testing.T) {
	s := newTestStore(t)
	if err := s.DeleteFolder(context.Background(), "01BOGUS"); !errors.Is(err, ErrFolderNotFound) {
		t.Errorf("expected ErrFolderNotFound, got %v", err)
	}
}

func TestStore_CreateNote_SeedsBothHistories(t *testing.T) {
	s := newTestStore(t)
	f := mustCreateFolder(t, s, "Work")

	n, err := s.CreateNote(context.Background(), types.CreateNoteRequest{
		Title:    "First",
		Content:  "body",
		FolderID: f.ID,
		Tags:     []string{"work", "urgent", "work"},
		IsPinned: true,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(n.CustomCreatedDates) != 1 || len(n.CustomLastModifiedDates) != 1 {
		t.Fatalf("expected both histories seeded with 1 entry: %d, %d",
			len(n.CustomCreatedDates), len(n.CustomLastModifiedDates))
	}
	if !n.MainCreatedAt.Equal(n.CustomCreatedDates[0].Date) {
		t.Error("mainCreatedAt does not mirror history")
	}
	if !n.MainLastModified.Equal(n.CustomLastModifiedDates[0].Date) {
		t.Error("mainLastModified does not mirror history")
	}
	if !n.LastModified.Equal(n.MainLastModified) {
		t.Error("legacy lastModified does not mirror mainLastModified")
	}

	// Tag order and duplicates survive the round trip.
	want := []string{"work", "urgent", "work"}
	if len(n.Tags) != len(want) {
		t.Fatalf("expected %v, got %v", want, n.Tags)
	}
	for i := range want {
		if n.Tags[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, n.Tags)
		}
	}
	if !n.IsPinned {
		t.Error("expected pinned note")
	}
}

func TestStore_CreateNote_UnknownFolder(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateNote(context.Background(), types.CreateNoteRequest{
		Title: "x", Content: "y", FolderID: "01BOGUS",
	}, nil)
	if !errors.Is(err, ErrFolderNotFound) {
		t.Errorf("expected ErrFolderNotFound, got %v", err)
	}
}

func TestStore_UpdateNote_ContentOnlyEditKeepsHistories(t *testing.T) {
	s := newTestStore(t)
	f := mustCreateFolder(t, s, "Work")
	n := mustCreateNote(t, s, f.ID, "Before")

	updated, err := s.UpdateNote(context.Background(), n.ID, types.UpdateNoteRequest{
		Title:   "After",
		Content: "changed body",
		Tags:    []string{},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if updated.Title != "After" {
		t.Errorf("title not updated: %q", updated.Title)
	}
	if len(updated.CustomCreatedDates) != 1 || len(updated.CustomLastModifiedDates) != 1 {
		t.Error("histories changed on a content-only edit")
	}
	if !updated.MainLastModified.Equal(n.MainLastModified) {
		t.Error("mainLastModified advanced without an override")
	}
}

func TestStore_UpdateNote_DateOverrides(t *testing.T) {
	s := newTestStore(t)
	f := mustCreateFolder(t, s, "Work")
	n := mustCreateNote(t, s, f.ID, "Note")

	created := time.Date(2021, 2, 3, 4, 5, 6, 0, time.UTC)
	modified := time.Date(2022, 3, 4, 5, 6, 7, 0, time.UTC)
	updated, err := s.UpdateNote(context.Background(), n.ID, types.UpdateNoteRequest{
		Title:              n.Title,
		Content:            n.Content,
		Tags:               n.Tags,
		CustomCreatedAt:    &created,
		CustomLastModified: &modified,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if !updated.MainCreatedAt.Equal(created) || !updated.MainLastModified.Equal(modified) {
		t.Errorf("overrides not applied: %v / %v", updated.MainCreatedAt, updated.MainLastModified)
	}
	if len(updated.CustomCreatedDates) != 2 || len(updated.CustomLastModifiedDates) != 2 {
		t.Errorf("expected both histories to grow to 2: %d, %d",
			len(updated.CustomCreatedDates), len(updated.CustomLastModifiedDates))
	}
}

func TestStore_UpdateNote_RemoveAndAddImages(t *testing.T) {
	s := newTestStore(t)
	f := mustCreateFolder(t, s, "Work")

	initial := []types.Attachment{
		{Filename: "img-1", OriginalName: "a.png", Mimetype: "image/png", Size: 3, Data: "data:image/png;base64,YWJj"},
		{Filename: "img-2", OriginalName: "b.png", Mimetype: "image/png", Size: 3, Data: "data:image/png;base64,ZGVm"},
	}
	n, err := s.CreateNote(context.Background(), types.CreateNoteRequest{
		Title: "Pics", Content: "c", FolderID: f.ID,
	}, initial)
	if err != nil {
		t.Fatal(err)
	}
	if len(n.Images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(n.Images))
	}

	added := types.Attachment{Filename: "img-3", OriginalName: "c.png", Mimetype: "image/png", Size: 3, Data: "data:image/png;base64,Z2hp"}
	updated, err := s.UpdateNote(context.Background(), n.ID, types.UpdateNoteRequest{
		Title: n.Title, Content: n.Content, Tags: n.Tags,
		RemoveImages: []string{"img-1"},
	}, []types.Attachment{added})
	if err != nil {
		t.Fatal(err)
	}

	if len(updated.Images) != 2 {
		t.Fatalf("expected 2 images after remove+add, got %d", len(updated.Images))
	}
	if updated.Images[0].Filename != "img-2" || updated.Images[1].Filename != "img-3" {
		t.Errorf("unexpected image set: %+v", updated.Images)
	}
}

func TestStore_TogglePin_DoesNotTouchHistories(t *testing.T) {
	s := newTestStore(t)
	f := mustCreateFolder(t, s, "Work")
	n := mustCreateNote(t, s, f.ID, "Note")

	ctx := context.Background()
	pinned, err := s.TogglePin(ctx, n.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !pinned.IsPinned {
		t.Error("expected pinned after first toggle")
	}

	unpinned, err := s.TogglePin(ctx, n.ID)
	if err != nil {
		t.Fatal(err)
	}
	if unpinned.IsPinned {
		t.Error("expected unpinned after second toggle")
	}

	if len(unpinned.CustomCreatedDates) != 1 || len(unpinned.CustomLastModifiedDates) != 1 {
		t.Error("toggling pin altered date histories")
	}
	if !unpinned.MainLastModified.Equal(n.MainLastModified) {
		t.Error("toggling pin moved mainLastModified")
	}
}

func TestStore_GetNote_ExpandedFolderRef(t *testing.T) {
	s := newTestStore(t)
	f := mustCreateFolder(t, s, "Work")
	n := mustCreateNote(t, s, f.ID, "Note")

	bare, err := s.GetNote(context.Background(), n.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	if bare.Folder.IsExpanded() {
		t.Error("expected bare reference")
	}
	if bare.Folder.ID() != f.ID {
		t.Errorf("expected folder id %s, got %s", f.ID, bare.Folder.ID())
	}

	expanded, err := s.GetNote(context.Background(), n.ID, true)
	if err != nil {
		t.Fatal(err)
	}
	folder, err := expanded.Folder.Folder()
	if err != nil {
		t.Fatal(err)
	}
	if folder.Name != "Work" {
		t.Errorf("expected expanded folder snapshot, got %+v", folder)
	}
}

func TestStore_GetFolderStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	f := mustCreateFolder(t, s, "Work")

	mustCreateNote(t, s, f.ID, "a")
	n := mustCreateNote(t, s, f.ID, "b")
	if _, err := s.TogglePin(ctx, n.ID); err != nil {
		t.Fatal(err)
	}

	stats, err := s.GetFolderStats(ctx, f.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stats.NotesCount != 2 || stats.PinnedNotes != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.LastActivity == nil {
		t.Error("expected lastActivity for non-empty folder")
	}

	empty := mustCreateFolder(t, s, "Empty")
	stats, err = s.GetFolderStats(ctx, empty.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stats.NotesCount != 0 || stats.LastActivity != nil {
		t.Errorf("unexpected stats for empty folder: %+v", stats)
	}
}

func TestStore_CorruptDateColumnSurfacesError(t *testing.T) {
	s := newTestStore(t)
	f := mustCreateFolder(t, s, "Work")

	_, err := s.db.ExecContext(context.Background(),
		"UPDATE folders SET main_created_at = 'not-a-date' WHERE id = ?", f.ID)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.GetFolder(context.Background(), f.ID); err == nil {
		t.Error("expected error for unparseable stored date, got nil")
	}
}

func TestStore_Counts(t *testing.T) {
	s := newTestStore(t)
	f := mustCreateFolder(t, s, "Work")
	mustCreateNote(t, s, f.ID, "a")

	folders, notes, err := s.Counts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if folders != 1 || notes != 1 {
		t.Errorf("expected 1/1, got %d/%d", folders, notes)
	}
}

func TestStore_GenerateSnapshot(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "inkwell.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	mustCreateFolder(t, s, "Work")

	ctx := context.Background()
	if err := s.GenerateSnapshot(ctx); err != nil {
		t.Fatal(err)
	}

	path, err := s.GetSnapshotPath(ctx)
	if err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("snapshot file is empty")
	}

	// Regenerating over an existing snapshot succeeds.
	if err := s.GenerateSnapshot(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestStore_GetSnapshotPath_MemoryDatabase(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetSnapshotPath(context.Background()); err == nil {
		t.Error("expected error for in-memory database")
	}
}
