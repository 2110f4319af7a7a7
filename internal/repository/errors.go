// Package repository reads the three seat-selection resources straight
// from the cinema database: shows, the seats of a hall and the per-show
// seat status.  It is the mysql alternative to the HTTP upstream and is
// read-only; seats are never held or reserved from here.
package repository

import "errors"

// ErrShowNotFound indicates that a show was not located in the DB.
var ErrShowNotFound = errors.New("show not found")

// ErrHallNotFound is returned when a hall has no seats at all, which in
// this schema means the hall does not exist.
var ErrHallNotFound = errors.New("hall not found")
