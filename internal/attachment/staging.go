package attachment

import "github.com/inkwellhq/inkwell/internal/types"

// Staging tracks an edit session's pending attachment changes. Marking an
// existing image for removal deletes nothing until the update is actually
// persisted, and both removals and new additions can be undone
// individually before the save.
type Staging struct {
	existing  int
	removals  map[string]bool
	additions []types.NewImage
}

// NewStaging starts a staging set for a note currently holding existing
// attachments.
func NewStaging(existing int) *Staging {
	return &Staging{
		existing: existing,
		removals: make(map[string]bool),
	}
}

// MarkRemoval stages an existing attachment for removal by filename.
func (s *Staging) MarkRemoval(filename string) {
	s.removals[filename] = true
}

// UnmarkRemoval restores a previously marked attachment.
func (s *Staging) UnmarkRemoval(filename string) {
	delete(s.removals, filename)
}

// Add stages new images, enforcing the count limit against the projected
// total (existing - staged removals + staged additions). On failure the
// staging set is unchanged.
func (s *Staging) Add(images ...types.NewImage) error {
	if err := EnforceLimit(s.existing, len(s.removals), len(s.additions)+len(images)); err != nil {
		return err
	}
	s.additions = append(s.additions, images...)
	return nil
}

// Unstage drops a staged addition by index.
func (s *Staging) Unstage(i int) {
	if i < 0 || i >= len(s.additions) {
		return
	}
	s.additions = append(s.additions[:i], s.additions[i+1:]...)
}

// Removals returns the filenames currently marked for removal.
func (s *Staging) Removals() []string {
	names := make([]string, 0, len(s.removals))
	for name := range s.removals {
		names = append(names, name)
	}
	return names
}

// Additions returns the staged new images in the order they were added.
func (s *Staging) Additions() []types.NewImage {
	return s.additions
}

// ProjectedCount is the attachment count the note would hold if the
// session were saved now.
func (s *Staging) ProjectedCount() int {
	return s.existing - len(s.removals) + len(s.additions)
}
