package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/cinema-seat-selection/internal/model"
)

type showReader interface {
	GetByID(ctx context.Context, id uint64) (*model.Showtime, error)
}

type hallSeatReader interface {
	GetByHall(ctx context.Context, hallID uint64) ([]model.Seat, error)
}

type freeSeatReader interface {
	ListFree(ctx context.Context, showID uint64) ([]model.Seat, error)
}

// Catalog serves showtimes, seat maps and availability from MySQL.  It
// satisfies loader.Fetcher.
type Catalog struct {
	shows     showReader
	seats     hallSeatReader
	showSeats freeSeatReader
}

// NewCatalog builds a Catalog over db.
func NewCatalog(db *sql.DB) *Catalog {
	return &Catalog{
		shows:     NewShowRepo(db),
		seats:     NewSeatRepo(db),
		showSeats: NewShowSeatRepo(db),
	}
}

func (c *Catalog) FetchShowtime(ctx context.Context, id uint64) (*model.Showtime, error) {
	st, err := c.shows.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("show %d: %w", id, err)
	}
	return st, nil
}

func (c *Catalog) FetchRoomSeats(ctx context.Context, hallID uint64) ([]model.Seat, error) {
	seats, err := c.seats.GetByHall(ctx, hallID)
	if err != nil {
		return nil, fmt.Errorf("seats of hall %d: %w", hallID, err)
	}
	if len(seats) == 0 {
		return nil, fmt.Errorf("seats of hall %d: %w", hallID, ErrHallNotFound)
	}
	return seats, nil
}

// FetchAvailableSeats returns the free seats of a show.  An empty result
// is a valid snapshot: the show is sold out.
func (c *Catalog) FetchAvailableSeats(ctx context.Context, showID uint64) ([]model.Seat, error) {
	seats, err := c.showSeats.ListFree(ctx, showID)
	if err != nil {
		return nil, fmt.Errorf("free seats of show %d: %w", showID, err)
	}
	return seats, nil
}
