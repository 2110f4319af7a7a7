package model

import "time"

// MovieRef is the opaque movie reference carried through the booking
// flow from the showtime-selection step to payment.
type MovieRef struct {
	ID    uint64 `json:"id"`
	Title string `json:"title,omitempty"`
}

// BookingContext is the inbound context handed over by the upstream
// showtime-selection step when the seat selection screen is entered.
type BookingContext struct {
	ShowtimeID  uint64    `json:"showtime_id" validate:"required"`
	MovieRef    *MovieRef `json:"movie_ref,omitempty"`
	TicketQuota int       `json:"ticket_quota" validate:"required,min=1"`
}

// CheckoutPayload is emitted to the payment stage when the user
// proceeds.  SeatLabels follow the seat map ordering.
type CheckoutPayload struct {
	SessionID  string    `json:"session_id"`
	UserID     string    `json:"user_id,omitempty"`
	ShowtimeID uint64    `json:"showtime_id"`
	MovieRef   *MovieRef `json:"movie_ref,omitempty"`
	SeatIDs    []uint64  `json:"seat_ids"`
	SeatLabels []string  `json:"seat_labels"`
	Total      float64   `json:"total"`
	IssuedAt   time.Time `json:"issued_at"`
}
