package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/iliyamo/cinema-seat-selection/internal/model"
)

var errBoom = errors.New("boom")

// fakeFetcher serves canned data.  When hold is set, every fetch blocks
// until release is closed or its context ends.
type fakeFetcher struct {
	mu        sync.Mutex
	showtimes map[uint64]*model.Showtime
	rooms     map[uint64][]model.Seat
	avail     map[uint64][]model.Seat
	fail      map[string]error
	calls     []string
	hold      bool
	release   chan struct{}
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		showtimes: map[uint64]*model.Showtime{},
		rooms:     map[uint64][]model.Seat{},
		avail:     map[uint64][]model.Seat{},
		fail:      map[string]error{},
		release:   make(chan struct{}),
	}
}

func (f *fakeFetcher) wait(ctx context.Context, key string) error {
	f.mu.Lock()
	f.calls = append(f.calls, key)
	hold := f.hold
	err := f.fail[key]
	f.mu.Unlock()
	if hold {
		select {
		case <-f.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *fakeFetcher) FetchShowtime(ctx context.Context, id uint64) (*model.Showtime, error) {
	if err := f.wait(ctx, fmt.Sprintf("showtime:%d", id)); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.showtimes[id]
	if !ok {
		return nil, errBoom
	}
	cp := *st
	return &cp, nil
}

func (f *fakeFetcher) FetchRoomSeats(ctx context.Context, roomID uint64) ([]model.Seat, error) {
	if err := f.wait(ctx, fmt.Sprintf("room:%d", roomID)); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Seat(nil), f.rooms[roomID]...), nil
}

func (f *fakeFetcher) FetchAvailableSeats(ctx context.Context, showtimeID uint64) ([]model.Seat, error) {
	if err := f.wait(ctx, fmt.Sprintf("avail:%d", showtimeID)); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Seat(nil), f.avail[showtimeID]...), nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
