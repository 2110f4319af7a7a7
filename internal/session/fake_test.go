package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/iliyamo/cinema-seat-selection/internal/model"
)

var errUpstream = errors.New("upstream unavailable")

type fakeFetcher struct {
	mu        sync.Mutex
	showtimes map[uint64]*model.Showtime
	rooms     map[uint64][]model.Seat
	avail     map[uint64][]model.Seat
	fail      map[string]bool
}

func newFakeFetcher() *fakeFetcher {
	a1 := model.Seat{ID: 1, RoomID: 7, RowLabel: "A", SeatNumber: 1, SeatType: model.SeatStandard}
	a2 := model.Seat{ID: 2, RoomID: 7, RowLabel: "A", SeatNumber: 2, SeatType: model.SeatStandard}
	a3 := model.Seat{ID: 3, RoomID: 7, RowLabel: "A", SeatNumber: 3, SeatType: model.SeatStandard}
	b5 := model.Seat{ID: 4, RoomID: 7, RowLabel: "B", SeatNumber: 5, SeatType: "recliner"}
	c1 := model.Seat{ID: 10, RoomID: 8, RowLabel: "C", SeatNumber: 1, SeatType: model.SeatVIP}
	return &fakeFetcher{
		showtimes: map[uint64]*model.Showtime{
			101: {ID: 101, RoomID: 7, MovieTitle: "Heat", Price: 9},
			102: {ID: 102, RoomID: 8, MovieTitle: "Alien", Price: 11},
		},
		rooms: map[uint64][]model.Seat{
			7: {b5, a3, a1, a2},
			8: {c1},
		},
		avail: map[uint64][]model.Seat{
			101: {a1, a2, a3, b5},
			102: {c1},
		},
		fail: map[string]bool{},
	}
}

func (f *fakeFetcher) setAvail(id uint64, seats []model.Seat) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.avail[id] = seats
}

func (f *fakeFetcher) setFail(key string, v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[key] = v
}

func (f *fakeFetcher) failing(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fail[key]
}

func (f *fakeFetcher) FetchShowtime(_ context.Context, id uint64) (*model.Showtime, error) {
	if f.failing(fmt.Sprintf("showtime:%d", id)) {
		return nil, errUpstream
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.showtimes[id]
	if !ok {
		return nil, fmt.Errorf("showtime %d: not found", id)
	}
	cp := *st
	return &cp, nil
}

func (f *fakeFetcher) FetchRoomSeats(_ context.Context, roomID uint64) ([]model.Seat, error) {
	if f.failing(fmt.Sprintf("room:%d", roomID)) {
		return nil, errUpstream
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Seat(nil), f.rooms[roomID]...), nil
}

func (f *fakeFetcher) FetchAvailableSeats(_ context.Context, id uint64) ([]model.Seat, error) {
	if f.failing(fmt.Sprintf("avail:%d", id)) {
		return nil, errUpstream
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Seat(nil), f.avail[id]...), nil
}

type recordingGateway struct {
	mu       sync.Mutex
	payloads []model.CheckoutPayload
	err      error
}

func (g *recordingGateway) ProceedToPayment(_ context.Context, p model.CheckoutPayload) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.payloads = append(g.payloads, p)
	return nil
}

func (g *recordingGateway) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.payloads)
}
