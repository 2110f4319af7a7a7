package model

import (
	"strconv"
	"strings"
)

// Seat types known to the price table.  Any other value is accepted
// and priced through the DEFAULT entry.
const (
	SeatStandard   = "STANDARD"
	SeatRecliner   = "RECLINER"
	SeatVIP        = "VIP"
	SeatAccessible = "ACCESSIBLE"
)

// Seat describes a physical seat in a room.  Seats are immutable once
// loaded and are identified by ID alone; row label and seat number are
// only used for display and ordering.
//
// Fields:
//  ID         – seat identifier.
//  RoomID     – room (hall) to which this seat belongs.
//  RowLabel   – letter or string designating the row.
//  SeatNumber – number of the seat within the row.
//  SeatType   – type of seat (STANDARD, RECLINER, VIP, ...).
type Seat struct {
	ID         uint64 `json:"id"`
	RoomID     uint64 `json:"room_id"`
	RowLabel   string `json:"row_label"`
	SeatNumber uint32 `json:"seat_number"`
	SeatType   string `json:"seat_type"`
}

// Label returns the human readable seat label such as "A1".
func (s Seat) Label() string {
	return NormalizeRowLabel(s.RowLabel) + strconv.FormatUint(uint64(s.SeatNumber), 10)
}

// NormalizeSeatType upper-cases and trims a seat type for table lookups.
func NormalizeSeatType(t string) string {
	return strings.ToUpper(strings.TrimSpace(t))
}

// NormalizeRowLabel upper-cases and trims a row label.
func NormalizeRowLabel(l string) string {
	return strings.ToUpper(strings.TrimSpace(l))
}
