// Package availability derives the set of bookable seat ids from an
// availability snapshot.
package availability

import "github.com/iliyamo/cinema-seat-selection/internal/model"

// Index is a constant-time lookup set of seat ids that were bookable
// when the snapshot was fetched.  The zero value is an empty index and
// reports every seat as unavailable.
type Index struct {
	ids map[uint64]struct{}
}

// Build indexes the seats of an availability snapshot.  A nil or empty
// snapshot yields an empty index.
func Build(snapshot []model.Seat) Index {
	ids := make(map[uint64]struct{}, len(snapshot))
	for _, s := range snapshot {
		if s.ID == 0 {
			continue
		}
		ids[s.ID] = struct{}{}
	}
	return Index{ids: ids}
}

// Contains reports whether the seat id is bookable.
func (ix Index) Contains(id uint64) bool {
	_, ok := ix.ids[id]
	return ok
}

// Len returns the number of bookable seats.
func (ix Index) Len() int { return len(ix.ids) }
