package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/cinema-seat-selection/internal/model"
)

// SeatRepo reads the physical seats of a hall.
type SeatRepo struct {
	db *sql.DB
}

func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// GetByHall retrieves the active seats of a hall ordered by row_label
// then seat_number.  Deactivated seats are not part of the seat map.
func (r *SeatRepo) GetByHall(ctx context.Context, hallID uint64) ([]model.Seat, error) {
	const q = `SELECT id, hall_id, row_label, seat_number, seat_type
	           FROM seats
	           WHERE hall_id = ? AND is_active = 1
	           ORDER BY row_label, seat_number`
	rows, err := r.db.QueryContext(ctx, q, hallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSeats(rows)
}

func scanSeats(rows *sql.Rows) ([]model.Seat, error) {
	result := []model.Seat{}
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.RoomID, &s.RowLabel, &s.SeatNumber, &s.SeatType); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
