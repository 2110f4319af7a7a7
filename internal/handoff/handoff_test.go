package handoff

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-seat-selection/internal/model"
	"github.com/iliyamo/cinema-seat-selection/internal/seatmap"
)

func seat(id uint64, row string, num uint32) model.Seat {
	return model.Seat{ID: id, RoomID: 1, RowLabel: row, SeatNumber: num, SeatType: model.SeatStandard}
}

func TestBuildPayloadEmpty(t *testing.T) {
	_, err := BuildPayload(Input{ShowtimeID: 5}, seatmap.Layout{}, time.Now())
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestBuildPayloadOrdersByLayout(t *testing.T) {
	all := []model.Seat{seat(1, "A", 1), seat(2, "A", 2), seat(3, "B", 1), seat(4, "AA", 1)}
	layout := seatmap.Build(all)
	now := time.Date(2026, 3, 1, 18, 30, 0, 0, time.FixedZone("x", 3600))

	p, err := BuildPayload(Input{
		SessionID:  "s-1",
		UserID:     "42",
		ShowtimeID: 9,
		MovieRef:   &model.MovieRef{ID: 3, Title: "Heat"},
		Seats:      []model.Seat{all[3], all[2], all[1]},
		Total:      38.5,
	}, layout, now)
	require.NoError(t, err)

	assert.Equal(t, []string{"A2", "B1", "AA1"}, p.SeatLabels)
	assert.Equal(t, []uint64{2, 3, 4}, p.SeatIDs)
	assert.Equal(t, 38.5, p.Total)
	assert.Equal(t, time.UTC, p.IssuedAt.Location())
}

func TestToEvent(t *testing.T) {
	p := model.CheckoutPayload{
		SessionID:  "s-1",
		ShowtimeID: 9,
		MovieRef:   &model.MovieRef{ID: 3, Title: "Heat"},
		SeatIDs:    []uint64{1},
		SeatLabels: []string{"A1"},
		Total:      14.5,
		IssuedAt:   time.Date(2026, 3, 1, 17, 30, 0, 0, time.UTC),
	}
	ev := ToEvent(p)
	assert.Equal(t, uint64(3), ev.MovieID)
	assert.Equal(t, "Heat", ev.MovieTitle)
	assert.Equal(t, []string{"A1"}, ev.SeatLabels)
	assert.Equal(t, "2026-03-01T17:30:00Z", ev.RequestedAt)

	p.MovieRef = nil
	assert.Zero(t, ToEvent(p).MovieID)
}

func TestLogGatewayNeverFails(t *testing.T) {
	assert.NoError(t, LogGateway{}.ProceedToPayment(context.Background(), model.CheckoutPayload{}))
}
