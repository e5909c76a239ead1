package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrFolderNotExpanded indicates a caller required the expanded folder
// snapshot but the reference carries only an ID.
var ErrFolderNotExpanded = errors.New("folder reference not expanded")

// FolderRef is a note's reference to its owning folder. It is either a
// bare folder ID or an expanded snapshot of the folder record, never both.
// On the wire it serializes to a JSON string or a JSON object accordingly.
type FolderRef struct {
	id     string
	folder *Folder
}

// Reference returns a FolderRef carrying only the folder ID.
func Reference(id string) FolderRef {
	return FolderRef{id: id}
}

// Expanded returns a FolderRef carrying a full folder snapshot.
func Expanded(f *Folder) FolderRef {
	return FolderRef{id: f.ID, folder: f}
}

// ID returns the referenced folder's ID, available in both variants.
func (r FolderRef) ID() string {
	return r.id
}

// IsExpanded reports whether the reference carries a folder snapshot.
func (r FolderRef) IsExpanded() bool {
	return r.folder != nil
}

// Folder returns the expanded snapshot, or ErrFolderNotExpanded for a
// bare reference.
func (r FolderRef) Folder() (*Folder, error) {
	if r.folder == nil {
		return nil, ErrFolderNotExpanded
	}
	return r.folder, nil
}

// MarshalJSON encodes the reference as a string (bare ID) or an object
// (expanded snapshot).
func (r FolderRef) MarshalJSON() ([]byte, error) {
	if r.folder != nil {
		return json.Marshal(r.folder)
	}
	return json.Marshal(r.id)
}

// UnmarshalJSON accepts either wire form.
func (r *FolderRef) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Reference(id)
		return nil
	}

	var f Folder
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("folder reference must be a string or folder object: %w", err)
	}
	*r = Expanded(&f)
	return nil
}
