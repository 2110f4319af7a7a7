package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/cinema-seat-selection/internal/model"
)

// ShowRepo reads shows.  A show is a showtime: a screening of a movie
// in a hall with a base price stored in cents.
type ShowRepo struct {
	db *sql.DB
}

func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// GetByID retrieves a show by id.  Cancelled shows are not returned.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Showtime, error) {
	const q = `SELECT id, hall_id, title, starts_at, base_price_cents
	           FROM shows
	           WHERE id = ? AND status <> 'CANCELLED'`
	var (
		st    model.Showtime
		cents uint32
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(&st.ID, &st.RoomID, &st.MovieTitle, &st.StartsAt, &cents)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	st.StartsAt = st.StartsAt.UTC().Truncate(time.Second)
	st.Price = CentsToPrice(cents)
	return &st, nil
}

// CentsToPrice converts a stored cent amount into a price.
func CentsToPrice(cents uint32) float64 {
	return float64(cents) / 100
}
