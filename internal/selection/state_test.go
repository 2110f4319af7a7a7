package selection

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-seat-selection/internal/availability"
	"github.com/iliyamo/cinema-seat-selection/internal/model"
)

var (
	a1 = model.Seat{ID: 1, RowLabel: "A", SeatNumber: 1, SeatType: model.SeatStandard}
	a2 = model.Seat{ID: 2, RowLabel: "A", SeatNumber: 2, SeatType: model.SeatStandard}
	a3 = model.Seat{ID: 3, RowLabel: "A", SeatNumber: 3, SeatType: model.SeatStandard}
	c7 = model.Seat{ID: 37, RowLabel: "C", SeatNumber: 7, SeatType: model.SeatStandard}
)

func chosenIDs(s *State) []uint64 {
	out := []uint64{}
	for _, seat := range s.Seats() {
		out = append(out, seat.ID)
	}
	return out
}

func TestQuotaFirstComeFirstServed(t *testing.T) {
	ix := availability.Build([]model.Seat{a1, a2, a3})
	s := New(101, 2)

	assert.Equal(t, Added, s.Toggle(a1, ix))
	assert.Equal(t, []uint64{1}, chosenIDs(s))
	assert.Equal(t, Added, s.Toggle(a2, ix))
	assert.Equal(t, []uint64{1, 2}, chosenIDs(s))
	assert.Equal(t, QuotaReached, s.Toggle(a3, ix))
	assert.Equal(t, []uint64{1, 2}, chosenIDs(s))
	assert.True(t, s.Full())
}

func TestDeselectAtQuotaFreesASlot(t *testing.T) {
	ix := availability.Build([]model.Seat{a1, a2, a3})
	s := New(101, 2)
	s.Toggle(a1, ix)
	s.Toggle(a2, ix)
	s.Toggle(a3, ix)

	assert.Equal(t, Removed, s.Toggle(a1, ix))
	assert.Equal(t, []uint64{2}, chosenIDs(s))
	assert.Equal(t, Added, s.Toggle(a3, ix))
	assert.Equal(t, []uint64{2, 3}, chosenIDs(s))
}

func TestUnavailableSeatIsNoOp(t *testing.T) {
	ix := availability.Build([]model.Seat{a1, a2})
	s := New(101, 4)
	s.Toggle(a1, ix)

	assert.Equal(t, Unavailable, s.Toggle(c7, ix))
	assert.Equal(t, []uint64{1}, chosenIDs(s))
	assert.False(t, Unavailable.Changed())
}

func TestUnknownAvailabilityRejectsEverything(t *testing.T) {
	s := New(101, 4)
	assert.Equal(t, Unavailable, s.Toggle(a1, availability.Index{}))
	assert.Equal(t, 0, s.Len())
}

func TestDoubleToggleIsIdentity(t *testing.T) {
	ix := availability.Build([]model.Seat{a1, a2, a3})
	s := New(101, 3)
	s.Toggle(a1, ix)
	before := chosenIDs(s)

	s.Toggle(a2, ix)
	s.Toggle(a2, ix)
	assert.Equal(t, before, chosenIDs(s))
}

func TestResetClears(t *testing.T) {
	ix := availability.Build([]model.Seat{a1, a2})
	s := New(101, 2)
	s.Toggle(a1, ix)
	s.Toggle(a2, ix)

	s.Reset(102, 2)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, uint64(102), s.ShowtimeID())
	assert.False(t, s.Has(1))
}

func TestNegativeQuotaClampsToZero(t *testing.T) {
	ix := availability.Build([]model.Seat{a1})
	s := New(101, -3)
	assert.Equal(t, 0, s.TicketQuota())
	assert.Equal(t, QuotaReached, s.Toggle(a1, ix))
}

func TestReconcileEvictsBookedSeats(t *testing.T) {
	ix := availability.Build([]model.Seat{a1, a2, a3})
	s := New(101, 3)
	s.Toggle(a3, ix)
	s.Toggle(a1, ix)
	s.Toggle(a2, ix)

	evicted := s.Reconcile(availability.Build([]model.Seat{a2}))
	assert.Equal(t, []uint64{1, 3}, evicted)
	assert.Equal(t, []uint64{2}, chosenIDs(s))

	assert.Empty(t, s.Reconcile(availability.Build([]model.Seat{a2})))
}

func TestInvariantsHoldUnderRandomToggles(t *testing.T) {
	all := []model.Seat{a1, a2, a3, c7}
	for _, seat := range []uint64{10, 11, 12, 13} {
		all = append(all, model.Seat{ID: seat, RowLabel: "D", SeatNumber: uint32(seat)})
	}
	ix := availability.Build(all[:6])
	rng := rand.New(rand.NewSource(7))

	for quota := 0; quota <= 5; quota++ {
		s := New(1, quota)
		for i := 0; i < 500; i++ {
			s.Toggle(all[rng.Intn(len(all))], ix)
			require.LessOrEqual(t, s.Len(), quota)
			for _, seat := range s.Seats() {
				require.True(t, ix.Contains(seat.ID))
			}
		}
	}
}
