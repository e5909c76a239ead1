// Package temporal tracks user-overridable record dates. Each record keeps
// a canonical "main" date per field (creation, modification) backed by an
// append-only history of every override the user applied. The main date is
// always exactly the date of the newest history entry.
package temporal

import (
	"time"

	"github.com/inkwellhq/inkwell/internal/types"
)

// Seed builds the initial one-entry history for a new record. When the
// caller supplies an override the history starts at that date; otherwise it
// starts at now. The returned main date equals the single entry's date.
func Seed(override *time.Time, now time.Time) (main time.Time, history []types.DateStamp) {
	date := now
	if override != nil {
		date = *override
	}
	return date, []types.DateStamp{{Date: date, ModifiedAt: now}}
}

// ApplyEdit appends an override to the history and advances the main date.
// A nil override leaves both untouched: a plain content edit does not
// implicitly move the date.
func ApplyEdit(history []types.DateStamp, main time.Time, override *time.Time, now time.Time) (time.Time, []types.DateStamp) {
	if override == nil {
		return main, history
	}
	return *override, append(history, types.DateStamp{Date: *override, ModifiedAt: now})
}

// ProposeNow captures the start of an edit session as a pre-staged override
// for the modification date. The standard edit flow treats this proposal as
// user-supplied, so a completed save stamps the session-start time unless
// the user replaces the value before saving.
func ProposeNow(now time.Time) *time.Time {
	proposed := now
	return &proposed
}

// Entry is one history row prepared for display.
type Entry struct {
	Date       time.Time
	ModifiedAt time.Time
	Current    bool
}

// DisplayHistory returns the history most-recent-first with only the newest
// entry flagged current. Histories of one entry or fewer have nothing worth
// showing and yield nil.
func DisplayHistory(history []types.DateStamp) []Entry {
	if len(history) <= 1 {
		return nil
	}

	entries := make([]Entry, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		entries = append(entries, Entry{
			Date:       history[i].Date,
			ModifiedAt: history[i].ModifiedAt,
			Current:    i == len(history)-1,
		})
	}
	return entries
}

// Consistent reports whether the main date mirrors the last history entry.
// Stores use it as a read-time sanity check.
func Consistent(main time.Time, history []types.DateStamp) bool {
	if len(history) == 0 {
		return false
	}
	return history[len(history)-1].Date.Equal(main)
}
