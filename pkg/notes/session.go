package notes

import (
	"context"
	"fmt"
	"time"

	"github.com/inkwellhq/inkwell/internal/temporal"
)

// EditSession accumulates changes to one note before a single save.
// Opening a session pre-stages the session start time as the note's
// modification date override, so a completed save stamps when editing
// began rather than when the save landed. Attachment removals and
// additions stay pending until the save and can be undone individually.
type EditSession struct {
	note      Note
	startedAt time.Time

	title    string
	content  string
	tags     []string
	isPinned bool

	customCreatedAt    *time.Time
	customLastModified *time.Time

	removals  map[string]bool
	additions []NewImage
}

// NewEditSession opens an edit session over the note as currently loaded.
func NewEditSession(note Note, now time.Time) *EditSession {
	tags := make([]string, len(note.Tags))
	copy(tags, note.Tags)

	return &EditSession{
		note:               note,
		startedAt:          now,
		title:              note.Title,
		content:            note.Content,
		tags:               tags,
		isPinned:           note.IsPinned,
		customLastModified: temporal.ProposeNow(now),
		removals:           make(map[string]bool),
	}
}

// SetTitle replaces the note title.
func (s *EditSession) SetTitle(title string) { s.title = title }

// SetContent replaces the note content.
func (s *EditSession) SetContent(content string) { s.content = content }

// SetTags replaces the tag list.
func (s *EditSession) SetTags(tags []string) { s.tags = tags }

// SetPinned sets the pinned flag.
func (s *EditSession) SetPinned(pinned bool) { s.isPinned = pinned }

// OverrideCreatedAt stages a creation date override for the save.
func (s *EditSession) OverrideCreatedAt(t time.Time) {
	s.customCreatedAt = &t
}

// OverrideLastModified replaces the pre-staged modification date.
func (s *EditSession) OverrideLastModified(t time.Time) {
	s.customLastModified = &t
}

// RemoveImage stages an existing attachment for removal. Nothing is
// deleted until the save.
func (s *EditSession) RemoveImage(filename string) {
	s.removals[filename] = true
}

// RestoreImage undoes a staged removal.
func (s *EditSession) RestoreImage(filename string) {
	delete(s.removals, filename)
}

// AttachImages validates and stages chosen files against the projected
// attachment count. Invalid files are reported individually and never
// abort the rest of the selection.
func (s *EditSession) AttachImages(files []ImageFile) []RejectedImage {
	accepted, rejected := SelectImages(s.projectedCount(), files)
	s.additions = append(s.additions, accepted...)
	return rejected
}

// DetachImage drops a staged addition by index.
func (s *EditSession) DetachImage(i int) {
	if i < 0 || i >= len(s.additions) {
		return
	}
	s.additions = append(s.additions[:i], s.additions[i+1:]...)
}

// StagedImages returns the pending additions in selection order.
func (s *EditSession) StagedImages() []NewImage {
	return s.additions
}

func (s *EditSession) projectedCount() int {
	return len(s.note.Images) - len(s.removals) + len(s.additions)
}

// Request builds the update payload for the session's changes.
func (s *EditSession) Request() UpdateNoteRequest {
	removals := make([]string, 0, len(s.removals))
	for _, img := range s.note.Images {
		if s.removals[img.Filename] {
			removals = append(removals, img.Filename)
		}
	}

	return UpdateNoteRequest{
		Title:              s.title,
		Content:            s.content,
		Tags:               s.tags,
		IsPinned:           s.isPinned,
		Images:             s.additions,
		RemoveImages:       removals,
		CustomCreatedAt:    s.customCreatedAt,
		CustomLastModified: s.customLastModified,
	}
}

// Save submits the session's changes.
func (s *EditSession) Save(ctx context.Context, c *Client) (*Note, error) {
	note, err := c.UpdateNote(ctx, s.note.ID, s.Request())
	if err != nil {
		return nil, fmt.Errorf("save edit session: %w", err)
	}
	return note, nil
}
