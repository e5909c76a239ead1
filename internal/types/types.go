package types

import (
	"time"
)

// Field limits enforced at validation time.
const (
	MaxFolderNameLength        = 100
	MaxFolderDescriptionLength = 500
	MaxNoteTitleLength         = 200
	MaxNoteContentLength       = 10000
	MaxImagesPerNote           = 5
	MaxImageBytes              = 5 * 1024 * 1024
)

// DateStamp is one entry in a record's override history: the user-chosen
// date plus the moment the override was applied.
type DateStamp struct {
	Date       time.Time `json:"date"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// Folder groups notes under a name and color.
type Folder struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`

	// NotesCount is derived from the notes table on every read; it is
	// never stored.
	NotesCount int `json:"notesCount"`

	// MainCreatedAt always mirrors the date of the last entry in
	// CustomCreatedDates.
	MainCreatedAt      time.Time   `json:"mainCreatedAt"`
	CustomCreatedDates []DateStamp `json:"customCreatedDates"`

	// Storage-level timestamps, distinct from the user-overridable
	// MainCreatedAt.
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Attachment is an image embedded inline in its owning note. Data holds a
// base64 data URL renderable without a separate fetch.
type Attachment struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Mimetype     string `json:"mimetype"`
	Size         int64  `json:"size"`
	Data         string `json:"data"`
}

// Note is a text record owned by exactly one folder.
type Note struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Content  string       `json:"content"`
	Folder   FolderRef    `json:"folderId"`
	Tags     []string     `json:"tags"`
	IsPinned bool         `json:"isPinned"`
	Images   []Attachment `json:"images"`

	MainCreatedAt      time.Time   `json:"mainCreatedAt"`
	CustomCreatedDates []DateStamp `json:"customCreatedDates"`

	MainLastModified        time.Time   `json:"mainLastModified"`
	CustomLastModifiedDates []DateStamp `json:"customLastModifiedDates"`

	// LastModified mirrors MainLastModified for callers that predate the
	// override history.
	LastModified time.Time `json:"lastModified"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewImage is a raw user-supplied image before validation and encoding.
type NewImage struct {
	OriginalName string `json:"originalName"`
	Mimetype     string `json:"mimetype"`
	Size         int64  `json:"size"`
	Data         string `json:"data"`
}

// CreateFolderRequest carries the fields for folder creation. A non-nil
// CustomCreatedAt overrides the seeded creation date.
type CreateFolderRequest struct {
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	Color           string     `json:"color,omitempty"`
	CustomCreatedAt *time.Time `json:"customCreatedAt,omitempty"`
}

// UpdateFolderRequest carries the full folder field set for an update.
type UpdateFolderRequest struct {
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Color           string     `json:"color"`
	CustomCreatedAt *time.Time `json:"customCreatedAt,omitempty"`
}

// CreateNoteRequest carries the fields for note creation. Images are raw
// and pass through the attachment pipeline before the write.
type CreateNoteRequest struct {
	Title    string     `json:"title"`
	Content  string     `json:"content"`
	FolderID string     `json:"folderId"`
	Tags     []string   `json:"tags,omitempty"`
	IsPinned bool       `json:"isPinned,omitempty"`
	Images   []NewImage `json:"images,omitempty"`
}

// UpdateNoteRequest carries the full note field set for an update.
// RemoveImages lists existing attachment filenames marked for removal
// during the edit session.
type UpdateNoteRequest struct {
	Title              string     `json:"title"`
	Content            string     `json:"content"`
	Tags               []string   `json:"tags"`
	IsPinned           bool       `json:"isPinned"`
	Images             []NewImage `json:"images,omitempty"`
	RemoveImages       []string   `json:"removeImages,omitempty"`
	CustomCreatedAt    *time.Time `json:"customCreatedAt,omitempty"`
	CustomLastModified *time.Time `json:"customLastModified,omitempty"`
}

// Pagination describes one page of a note listing.
type Pagination struct {
	Current    int `json:"current"`
	Total      int `json:"total"`
	Count      int `json:"count"`
	TotalNotes int `json:"totalNotes"`
}

// NoteList is the result of a folder listing or search query.
type NoteList struct {
	Notes      []Note     `json:"notes"`
	Pagination Pagination `json:"pagination"`
}

// FolderStats summarizes a folder's contents.
type FolderStats struct {
	NotesCount   int        `json:"notesCount"`
	PinnedNotes  int        `json:"pinnedNotes"`
	LastActivity *time.Time `json:"lastActivity"`
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	FolderCount int64  `json:"folderCount"`
	NoteCount   int64  `json:"noteCount"`
}
