package notes

import (
	"encoding/json"
	"time"
)

// DateStamp is one entry in a record's override history.
type DateStamp struct {
	Date       time.Time `json:"date"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// Folder is a group of notes.
type Folder struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Description        string      `json:"description"`
	Color              string      `json:"color"`
	NotesCount         int         `json:"notesCount"`
	MainCreatedAt      time.Time   `json:"mainCreatedAt"`
	CustomCreatedDates []DateStamp `json:"customCreatedDates"`
	CreatedAt          time.Time   `json:"createdAt"`
	UpdatedAt          time.Time   `json:"updatedAt"`
}

// FolderID is a note's owning folder reference. The server returns either a
// bare folder ID string or the expanded folder object; both decode to the ID
// with the expanded form retained when present.
type FolderID struct {
	ID     string
	Folder *Folder
}

// UnmarshalJSON accepts both the string and object encodings.
func (f *FolderID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		f.Folder = nil
		return json.Unmarshal(data, &f.ID)
	}
	var folder Folder
	if err := json.Unmarshal(data, &folder); err != nil {
		return err
	}
	f.ID = folder.ID
	f.Folder = &folder
	return nil
}

// MarshalJSON emits the expanded object when present, the bare ID otherwise.
func (f FolderID) MarshalJSON() ([]byte, error) {
	if f.Folder != nil {
		return json.Marshal(f.Folder)
	}
	return json.Marshal(f.ID)
}

// Attachment is an image embedded inline in its owning note.
type Attachment struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Mimetype     string `json:"mimetype"`
	Size         int64  `json:"size"`
	Data         string `json:"data"`
}

// NewImage is an encoded image payload ready for submission.
type NewImage struct {
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
	Folder   FolderID     `json:"folderId"`
	Tags     []string     `json:"tags"`
	IsPinned bool         `json:"isPinned"`
	Images   []Attachment `json:"images"`

	MainCreatedAt      time.Time   `json:"mainCreatedAt"`
	CustomCreatedDates []DateStamp `json:"customCreatedDates"`

	MainLastModified        time.Time   `json:"mainLastModified"`
	CustomLastModifiedDates []DateStamp `json:"customLastModifiedDates"`

	LastModified time.Time `json:"lastModified"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateFolderRequest carries the fields for folder creation.
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

// CreateNoteRequest carries the fields for note creation.
type CreateNoteRequest struct {
	Title    string     `json:"title"`
	Content  string     `json:"content"`
	FolderID string     `json:"folderId"`
	Tags     []string   `json:"tags,omitempty"`
	IsPinned bool       `json:"isPinned,omitempty"`
	Images   []NewImage `json:"images,omitempty"`
}

// UpdateNoteRequest carries the full note field set for an update.
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

// Health is the server health payload.
type Health struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	FolderCount int64  `json:"folderCount"`
	NoteCount   int64  `json:"noteCount"`
}

// ListParams selects, orders, and pages a folder's note listing.
type ListParams struct {
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}
