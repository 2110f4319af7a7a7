// Package selection holds the user's in-progress seat selection for one
// showtime.  It is the only mutable user-facing state of a seat
// selection session; every change goes through Toggle, Reset or
// Reconcile.
package selection

import (
	"sort"

	"github.com/iliyamo/cinema-seat-selection/internal/availability"
	"github.com/iliyamo/cinema-seat-selection/internal/model"
)

// Outcome reports what a Toggle did.
type Outcome int

const (
	// Unavailable means the seat is not in the availability index; nothing changed.
	Unavailable Outcome = iota
	// Added means the seat was added to the selection.
	Added
	// Removed means the seat was withdrawn from the selection.
	Removed
	// QuotaReached means the selection is full; nothing changed.
	QuotaReached
)

func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case QuotaReached:
		return "quota_reached"
	default:
		return "unavailable"
	}
}

// Changed reports whether the outcome mutated the selection.
func (o Outcome) Changed() bool { return o == Added || o == Removed }

// State is the selection for one showtime.  After every mutation the
// chosen seats are a subset of the last applied availability index and
// never exceed TicketQuota.  State is not safe for concurrent use; it is
// owned by a single session goroutine.
type State struct {
	showtimeID  uint64
	ticketQuota int
	chosen      map[uint64]model.Seat
}

// New returns an empty selection for a showtime.
func New(showtimeID uint64, ticketQuota int) *State {
	s := &State{}
	s.Reset(showtimeID, ticketQuota)
	return s
}

// Reset clears the selection and binds it to a new showtime context.
func (s *State) Reset(showtimeID uint64, ticketQuota int) {
	if ticketQuota < 0 {
		ticketQuota = 0
	}
	s.showtimeID = showtimeID
	s.ticketQuota = ticketQuota
	s.chosen = make(map[uint64]model.Seat)
}

// ShowtimeID returns the showtime the selection belongs to.
func (s *State) ShowtimeID() uint64 { return s.showtimeID }

// TicketQuota returns the maximum number of seats that may be chosen.
func (s *State) TicketQuota() int { return s.ticketQuota }

// Len returns the number of chosen seats.
func (s *State) Len() int { return len(s.chosen) }

// Full reports whether the quota is reached.
func (s *State) Full() bool { return len(s.chosen) >= s.ticketQuota }

// Has reports whether the seat id is chosen.
func (s *State) Has(id uint64) bool {
	_, ok := s.chosen[id]
	return ok
}

// Toggle adds or removes a seat.  Seats missing from the index are
// never touched.  A chosen seat is removed; otherwise it is added while
// the quota allows.  Requests beyond the quota are ignored, so the first
// seats toggled win.
func (s *State) Toggle(seat model.Seat, index availability.Index) Outcome {
	if !index.Contains(seat.ID) {
		return Unavailable
	}
	if _, ok := s.chosen[seat.ID]; ok {
		delete(s.chosen, seat.ID)
		return Removed
	}
	if len(s.chosen) >= s.ticketQuota {
		return QuotaReached
	}
	s.chosen[seat.ID] = seat
	return Added
}

// Reconcile evicts chosen seats that are missing from a freshly
// resolved availability index and returns their ids in ascending order.
func (s *State) Reconcile(index availability.Index) []uint64 {
	var evicted []uint64
	for id := range s.chosen {
		if !index.Contains(id) {
			delete(s.chosen, id)
			evicted = append(evicted, id)
		}
	}
	sort.Slice(evicted, func(i, j int) bool { return evicted[i] < evicted[j] })
	return evicted
}

// Seats returns a copy of the chosen seats ordered by id.  Callers that
// need map order sort the result with seatmap.Layout.Sort.
func (s *State) Seats() []model.Seat {
	out := make([]model.Seat, 0, len(s.chosen))
	for _, seat := range s.chosen {
		out = append(out, seat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
