package notes

import (
	"log/slog"
	"sort"
	"sync"
)

// FolderCache holds the client's view of the folder list. Note creation
// and deletion adjust the cached counts immediately so the UI can update
// without a round trip; Reconcile replaces the cache with the server's
// listing and logs any counts the optimism got wrong.
type FolderCache struct {
	mu      sync.RWMutex
	folders map[string]Folder
}

// NewFolderCache creates an empty cache.
func NewFolderCache() *FolderCache {
	return &FolderCache{folders: make(map[string]Folder)}
}

// Get returns the cached folder, if present.
func (c *FolderCache) Get(id string) (Folder, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.folders[id]
	return f, ok
}

// List returns the cached folders ordered newest-created-first, matching
// the server's listing order.
func (c *FolderCache) List() []Folder {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Folder, 0, len(c.folders))
	for _, f := range c.folders {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MainCreatedAt.Equal(out[j].MainCreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].MainCreatedAt.After(out[j].MainCreatedAt)
	})
	return out
}

// Put inserts or replaces a single folder.
func (c *FolderCache) Put(f Folder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.folders[f.ID] = f
}

// Remove evicts a folder.
func (c *FolderCache) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.folders, id)
}

// NoteCreated optimistically increments a folder's cached note count.
// Unknown folders are ignored; the next reload will pick them up.
func (c *FolderCache) NoteCreated(folderID string) {
	c.adjustCount(folderID, 1)
}

// NoteDeleted optimistically decrements a folder's cached note count.
func (c *FolderCache) NoteDeleted(folderID string) {
	c.adjustCount(folderID, -1)
}

func (c *FolderCache) adjustCount(folderID string, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, ok := c.folders[folderID]
	if !ok {
		return
	}
	f.NotesCount += delta
	if f.NotesCount < 0 {
		f.NotesCount = 0
	}
	c.folders[folderID] = f
}

// Reconcile replaces the cache with the server's authoritative listing.
// Cached counts that drifted from the server values are logged; the server
// always wins.
func (c *FolderCache) Reconcile(fresh []Folder) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, f := range fresh {
		if cached, ok := c.folders[f.ID]; ok && cached.NotesCount != f.NotesCount {
			slog.Debug("folder note count reconciled",
				"folder_id", f.ID,
				"cached", cached.NotesCount,
				"actual", f.NotesCount,
			)
		}
	}

	c.folders = make(map[string]Folder, len(fresh))
	for _, f := range fresh {
		c.folders[f.ID] = f
	}
}
