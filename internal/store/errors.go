package store

import "errors"

var (
	ErrFolderNotFound = errors.New("folder not found")
	ErrNoteNotFound   = errors.New("note not found")
)
