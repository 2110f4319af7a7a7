package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/cinema-seat-selection/internal/model"
)

// Show seat statuses.  Only FREE seats are offered for selection; HELD
// and RESERVED seats belong to bookings in progress or completed.
const (
	ShowSeatFree     = "FREE"
	ShowSeatHeld     = "HELD"
	ShowSeatReserved = "RESERVED"
)

// ShowSeatRepo reads the per-show seat status.
type ShowSeatRepo struct {
	db *sql.DB
}

func NewShowSeatRepo(db *sql.DB) *ShowSeatRepo {
	return &ShowSeatRepo{db: db}
}

// ListFree returns the seats still free for a show.  Expired holds count
// as free, matching how the booking side releases them.
func (r *ShowSeatRepo) ListFree(ctx context.Context, showID uint64) ([]model.Seat, error) {
	const q = `SELECT s.id, s.hall_id, s.row_label, s.seat_number, s.seat_type
	           FROM show_seats ss
	           JOIN seats s ON s.id = ss.seat_id
	           WHERE ss.show_id = ? AND s.is_active = 1
	             AND (ss.status = ?
	                  OR (ss.status = ? AND NOT EXISTS (
	                        SELECT 1 FROM seat_holds h
	                        WHERE h.show_id = ss.show_id AND h.seat_id = ss.seat_id
	                          AND h.expires_at > UTC_TIMESTAMP())))
	           ORDER BY s.row_label, s.seat_number`
	rows, err := r.db.QueryContext(ctx, q, showID, ShowSeatFree, ShowSeatHeld)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSeats(rows)
}
