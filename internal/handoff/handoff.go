// Package handoff moves a finished seat selection on to the payment
// stage.  The selection service never charges anyone; it only emits the
// chosen seat labels and the total to whoever processes payment.
package handoff

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/cinema-seat-selection/internal/model"
	"github.com/iliyamo/cinema-seat-selection/internal/seatmap"
)

// ErrEmptySelection is returned when proceeding without any chosen seat.
var ErrEmptySelection = errors.New("no seats selected")

// Gateway delivers a checkout payload to the payment stage.
type Gateway interface {
	ProceedToPayment(ctx context.Context, p model.CheckoutPayload) error
}

// Input is what a session knows at the moment the user proceeds.
type Input struct {
	SessionID  string
	UserID     string
	ShowtimeID uint64
	MovieRef   *model.MovieRef
	Seats      []model.Seat
	Total      float64
}

// BuildPayload turns a selection into the outbound payload.  Seats are
// listed in seat map order so the payment page shows them the way the
// user saw them.
func BuildPayload(in Input, layout seatmap.Layout, now time.Time) (model.CheckoutPayload, error) {
	if len(in.Seats) == 0 {
		return model.CheckoutPayload{}, ErrEmptySelection
	}
	seats := append([]model.Seat(nil), in.Seats...)
	layout.Sort(seats)

	p := model.CheckoutPayload{
		SessionID:  in.SessionID,
		UserID:     in.UserID,
		ShowtimeID: in.ShowtimeID,
		MovieRef:   in.MovieRef,
		SeatIDs:    make([]uint64, 0, len(seats)),
		SeatLabels: make([]string, 0, len(seats)),
		Total:      in.Total,
		IssuedAt:   now.UTC(),
	}
	for _, s := range seats {
		p.SeatIDs = append(p.SeatIDs, s.ID)
		p.SeatLabels = append(p.SeatLabels, s.Label())
	}
	return p, nil
}

// LogGateway only logs the payload.  It stands in for the broker when
// the queue is disabled.
type LogGateway struct {
	Log *zap.Logger
}

func (g LogGateway) ProceedToPayment(_ context.Context, p model.CheckoutPayload) error {
	log := g.Log
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("checkout requested",
		zap.String("session_id", p.SessionID),
		zap.Uint64("showtime_id", p.ShowtimeID),
		zap.Strings("seats", p.SeatLabels),
		zap.Float64("total", p.Total),
	)
	return nil
}
