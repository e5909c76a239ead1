// Package query serves filtered, pinned-first, sorted, paginated note
// listings. The engine is pure: it operates on note slices already loaded
// from the store and never touches storage itself.
package query

import (
	"sort"
	"strings"

	"github.com/inkwellhq/inkwell/internal/types"
)

// Sort keys accepted by Params.SortBy.
const (
	SortByCreatedAt    = "createdAt"
	SortByLastModified = "lastModified"
	SortByTitle        = "title"
)

// Sort orders accepted by Params.SortOrder.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// DefaultLimit is the page size used when the caller supplies none.
const DefaultLimit = 12

// Params selects, orders, and pages a note listing.
type Params struct {
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// Normalize fills defaults and clamps nonsense values so every downstream
// step can assume well-formed parameters.
func (p Params) Normalize() Params {
	switch p.SortBy {
	case SortByCreatedAt, SortByLastModified, SortByTitle:
	default:
		p.SortBy = SortByCreatedAt
	}
	if p.SortOrder != OrderAsc {
		p.SortOrder = OrderDesc
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	return p
}

// ToggleSort returns the parameters after the user selects a sort key:
// re-selecting the current key flips the order, a new key resets to
// descending. Either way the listing returns to page 1.
func (p Params) ToggleSort(sortBy string) Params {
	if p.SortBy == sortBy {
		if p.SortOrder == OrderAsc {
			p.SortOrder = OrderDesc
		} else {
			p.SortOrder = OrderAsc
		}
	} else {
		p.SortBy = sortBy
		p.SortOrder = OrderDesc
	}
	p.Page = 1
	return p
}

// Run filters, orders, and pages notes already scoped to one folder.
// Pinned notes always precede unpinned ones regardless of sort key; within
// each partition notes sort by the requested key with ID as tiebreaker.
func Run(notes []types.Note, p Params) types.NoteList {
	p = p.Normalize()

	matched := filter(notes, p.Search)

	var pinned, unpinned []types.Note
	for _, n := range matched {
		if n.IsPinned {
			pinned = append(pinned, n)
		} else {
			unpinned = append(unpinned, n)
		}
	}
	sortNotes(pinned, p.SortBy, p.SortOrder)
	sortNotes(unpinned, p.SortBy, p.SortOrder)

	ordered := append(pinned, unpinned...)
	return paginate(ordered, p.Page, p.Limit)
}

// Matches reports whether a note satisfies the search query: a
// case-insensitive substring of its title, content, or any tag. A blank
// query matches everything.
func Matches(n types.Note, search string) bool {
	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(n.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(n.Content), q) {
		return true
	}
	for _, tag := range n.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func filter(notes []types.Note, search string) []types.Note {
	if strings.TrimSpace(search) == "" {
		return notes
	}
	var matched []types.Note
	for _, n := range notes {
		if Matches(n, search) {
			matched = append(matched, n)
		}
	}
	return matched
}

func sortNotes(notes []types.Note, sortBy, order string) {
	asc := order == OrderAsc
	sort.SliceStable(notes, func(i, j int) bool {
		a, b := notes[i], notes[j]

		var less, equal bool
		switch sortBy {
		case SortByTitle:
			at, bt := strings.ToLower(a.Title), strings.ToLower(b.Title)
			less, equal = at < bt, at == bt
		case SortByLastModified:
			less, equal = a.MainLastModified.Before(b.MainLastModified), a.MainLastModified.Equal(b.MainLastModified)
		default:
			less, equal = a.MainCreatedAt.Before(b.MainCreatedAt), a.MainCreatedAt.Equal(b.MainCreatedAt)
		}

		if equal {
			// Ties break by ID so repeated queries return the same order.
			return a.ID < b.ID
		}
		if asc {
			return less
		}
		return !less
	})
}

func paginate(notes []types.Note, page, limit int) types.NoteList {
	totalNotes := len(notes)
	totalPages := (totalNotes + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * limit
	end := start + limit
	if start > totalNotes {
		start = totalNotes
	}
	if end > totalNotes {
		end = totalNotes
	}

	pageNotes := notes[start:end]
	if pageNotes == nil {
		pageNotes = []types.Note{}
	}

	return types.NoteList{
		Notes: pageNotes,
		Pagination: types.Pagination{
			Current:    page,
			Total:      totalPages,
			Count:      len(pageNotes),
			TotalNotes: totalNotes,
		},
	}
}

// RunGlobal serves the cross-folder search listing: matching notes from
// every folder ordered newest-modified-first. The pin partition does not
// apply outside a single folder.
func RunGlobal(notes []types.Note, search string, page, limit int) types.NoteList {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	matched := filter(notes, search)
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.MainLastModified.Equal(b.MainLastModified) {
			return a.ID < b.ID
		}
		return a.MainLastModified.After(b.MainLastModified)
	})

	return paginate(matched, page, limit)
}
