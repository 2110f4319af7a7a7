// Package queue defines message payloads exchanged over the message broker.
package queue

// CheckoutQueueName is the durable queue the payment stage consumes.
const CheckoutQueueName = "booking.checkout"

// CheckoutRequestedEvent is published when a user proceeds from seat
// selection to payment.  It carries everything the payment stage needs
// without calling back into the selection service.
type CheckoutRequestedEvent struct {
	SessionID   string   `json:"session_id"`
	UserID      string   `json:"user_id,omitempty"`
	ShowtimeID  uint64   `json:"showtime_id"`
	MovieID     uint64   `json:"movie_id,omitempty"`
	MovieTitle  string   `json:"movie_title,omitempty"`
	SeatIDs     []uint64 `json:"seat_ids"`
	SeatLabels  []string `json:"seats"`
	Total       float64  `json:"total"`
	RequestedAt string   `json:"requested_at"`
}
