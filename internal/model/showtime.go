package model

import "time"

// Showtime represents a scheduled screening of a movie in a particular
// room.  The seat-selection flow only needs RoomID to find the seat map;
// Price is the showtime's base ticket price used as a last-resort unit
// price.
//
// Fields:
//  ID         – showtime identifier.
//  RoomID     – room where the screening takes place.
//  MovieTitle – title of the movie, informational.
//  StartsAt   – screening time.
//  Price      – base price of a ticket.
type Showtime struct {
	ID         uint64    `json:"id"`
	RoomID     uint64    `json:"room_id"`
	MovieTitle string    `json:"movie_title,omitempty"`
	StartsAt   time.Time `json:"screening_time"`
	Price      float64   `json:"price"`
}
