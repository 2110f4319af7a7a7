package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-seat-selection/internal/model"
)

type stubShows map[uint64]*model.Showtime

func (s stubShows) GetByID(_ context.Context, id uint64) (*model.Showtime, error) {
	if st, ok := s[id]; ok {
		return st, nil
	}
	return nil, ErrShowNotFound
}

type stubSeats struct {
	byHall map[uint64][]model.Seat
	err    error
}

func (s stubSeats) GetByHall(_ context.Context, hallID uint64) ([]model.Seat, error) {
	return s.byHall[hallID], s.err
}

func (s stubSeats) ListFree(_ context.Context, showID uint64) ([]model.Seat, error) {
	return s.byHall[showID], s.err
}

func TestCatalogFetchShowtime(t *testing.T) {
	c := &Catalog{shows: stubShows{5: {ID: 5, RoomID: 2, Price: CentsToPrice(1250)}}}

	st, err := c.FetchShowtime(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 12.5, st.Price)

	_, err = c.FetchShowtime(context.Background(), 6)
	assert.ErrorIs(t, err, ErrShowNotFound)
}

func TestCatalogEmptyHallIsAnError(t *testing.T) {
	c := &Catalog{seats: stubSeats{byHall: map[uint64][]model.Seat{
		2: {{ID: 1, RoomID: 2, RowLabel: "A", SeatNumber: 1}},
	}}}

	seats, err := c.FetchRoomSeats(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, seats, 1)

	_, err = c.FetchRoomSeats(context.Background(), 3)
	assert.ErrorIs(t, err, ErrHallNotFound)
}

func TestCatalogSoldOutIsNotAnError(t *testing.T) {
	c := &Catalog{showSeats: stubSeats{byHall: map[uint64][]model.Seat{}}}
	seats, err := c.FetchAvailableSeats(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, seats)

	boom := errors.New("connection refused")
	c = &Catalog{showSeats: stubSeats{err: boom}}
	_, err = c.FetchAvailableSeats(context.Background(), 5)
	assert.ErrorIs(t, err, boom)
}

func TestCentsToPrice(t *testing.T) {
	assert.Equal(t, 0.0, CentsToPrice(0))
	assert.Equal(t, 18.0, CentsToPrice(1800))
	assert.Equal(t, 9.99, CentsToPrice(999))
}
