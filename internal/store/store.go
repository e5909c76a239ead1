package store

import (
	"context"

	"github.com/inkwellhq/inkwell/internal/types"
)

// Store defines the interface contract for all record storage operations.
type Store interface {
	ListFolders(ctx context.Context) ([]types.Folder, error)
	GetFolder(ctx context.Context, id string) (*types.Folder, error)
	CreateFolder(ctx context.Context, req types.CreateFolderRequest) (*types.Folder, error)
	UpdateFolder(ctx context.Context, id string, req types.UpdateFolderRequest) (*types.Folder, error)
	DeleteFolder(ctx context.Context, id string) error
	GetFolderStats(ctx context.Context, id string) (*types.FolderStats, error)

	NotesByFolder(ctx context.Context, folderID string) ([]types.Note, error)
	AllNotes(ctx context.Context) ([]types.Note, error)
	GetNote(ctx context.Context, id string, expand bool) (*types.Note, error)
	CreateNote(ctx context.Context, req types.CreateNoteRequest, images []types.Attachment) (*types.Note, error)
	UpdateNote(ctx context.Context, id string, req types.UpdateNoteRequest, newImages []types.Attachment) (*types.Note, error)
	DeleteNote(ctx context.Context, id string) error
	TogglePin(ctx context.Context, id string) (*types.Note, error)

	Counts(ctx context.Context) (folders, notes int64, err error)
	GenerateSnapshot(ctx context.Context) error
	GetSnapshotPath(ctx context.Context) (string, error)
	Close() error
}
