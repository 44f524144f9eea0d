package setlist

import (
	"sort"

	"github.com/Mrjmbjmb/setlist-manager/internal/models"
)

// Renumber rewrites entry positions to a contiguous 1..N sequence, keeping
// the current position order, and clears every StartsEncore flag after the
// first one it sees. This is the authoritative enforcement point for the
// "at most one encore" invariant.
//
// Entries are mutated in place. Reports whether anything changed, so callers
// can skip the write when the setlist was already clean.
func Renumber(entries []models.SetlistEntry) bool {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Position < entries[j].Position
	})

	changed := false
	encoreSeen := false
	for i := range entries {
		if want := i + 1; entries[i].Position != want {
			entries[i].Position = want
			changed = true
		}
		if entries[i].StartsEncore {
			if encoreSeen {
				entries[i].StartsEncore = false
				changed = true
			}
			encoreSeen = true
		}
	}
	return changed
}
