package loader

import (
	"errors"
	"fmt"
	"strings"
)

// Kind names one of the three resources a seat selection depends on.
type Kind int

const (
	KindShowtime Kind = iota
	KindRoomSeats
	KindAvailability
)

func (k Kind) String() string {
	switch k {
	case KindShowtime:
		return "showtime"
	case KindRoomSeats:
		return "room_seats"
	case KindAvailability:
		return "availability"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind converts the string form of a Kind back.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "showtime":
		return KindShowtime, true
	case "room_seats", "seats", "seatmap":
		return KindRoomSeats, true
	case "availability", "available":
		return KindAvailability, true
	}
	return 0, false
}

// Status is the lifecycle state of a resource.
type Status int

const (
	// Idle means no fetch was issued (no showtime id, or waiting on a dependency).
	Idle Status = iota
	Loading
	Ready
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "idle"
}

// MarshalText renders the status as its name in JSON views.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText parses a status name.
func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "idle":
		*s = Idle
	case "loading":
		*s = Loading
	case "ready":
		*s = Ready
	case "failed":
		*s = Failed
	default:
		return fmt.Errorf("unknown status %q", b)
	}
	return nil
}

// ErrMissingRoom is recorded on the room seats resource when a showtime
// resolves without a room id.
var ErrMissingRoom = errors.New("showtime has no room")

// FetchError is the error value stored on a failed resource.
type FetchError struct {
	Resource Kind
	Key      uint64
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s %d: %v", e.Resource, e.Key, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Resource is one independently loading remote value.  Key is the id it
// was requested with.  While a reload is in flight the previous Value is
// kept and Status is Loading.
type Resource[T any] struct {
	Status Status
	Key    uint64
	Value  T
	Err    error

	resolved bool
	ticket   uint64
}

// Resolved reports whether Value holds data fetched for the current key.
func (r *Resource[T]) Resolved() bool { return r.resolved }

// Usable reports whether Value can be trusted: it was resolved and the
// most recent fetch did not fail.
func (r *Resource[T]) Usable() bool { return r.resolved && r.Status != Failed }

func (r *Resource[T]) begin(key, ticket uint64) {
	if r.Key != key {
		var zero T
		r.Value = zero
		r.resolved = false
	}
	r.Key = key
	r.Status = Loading
	r.Err = nil
	r.ticket = ticket
}

func (r *Resource[T]) accepts(ticket uint64) bool {
	return ticket != 0 && r.ticket == ticket && r.Status == Loading
}

func (r *Resource[T]) succeed(v T) {
	r.Value = v
	r.Status = Ready
	r.Err = nil
	r.resolved = true
}

func (r *Resource[T]) fail(kind Kind, err error) {
	r.Status = Failed
	r.Err = &FetchError{Resource: kind, Key: r.Key, Err: err}
}
