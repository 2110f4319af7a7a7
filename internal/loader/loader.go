// Package loader fetches the three resources behind a seat selection:
// the showtime (which names the room), the room's seat map and the
// seats still available for the showtime.  Fetches run concurrently;
// their results are handed back through a deliver callback and applied
// by the owner of the Loader, so no result mutates state on its own.
package loader

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/cinema-seat-selection/internal/model"
)

// Fetcher is the remote API the loader reads from.
type Fetcher interface {
	FetchShowtime(ctx context.Context, id uint64) (*model.Showtime, error)
	FetchRoomSeats(ctx context.Context, roomID uint64) ([]model.Seat, error)
	FetchAvailableSeats(ctx context.Context, showtimeID uint64) ([]model.Seat, error)
}

// Result is the outcome of one fetch.  It is opaque to callers; pass it
// to Loader.Apply.
type Result struct {
	Kind Kind
	Key  uint64

	ticket   uint64
	showtime *model.Showtime
	seats    []model.Seat
	err      error
}

// Err returns the fetch error, if any.
func (r Result) Err() error { return r.err }

const defaultTimeout = 5 * time.Second

// Option configures a Loader.
type Option func(*Loader)

// WithTimeout bounds every single fetch.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithLogger sets the logger used for fetch diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// Loader tracks the three resources for the current showtime id.
// Every SetShowtime bumps a generation and every fetch carries a ticket;
// results whose ticket is no longer awaited are dropped on Apply, so a
// superseded response can never overwrite newer state.  A Loader is not
// safe for concurrent use, except for the deliver callback which is
// invoked from fetch goroutines.
type Loader struct {
	fetcher Fetcher
	deliver func(Result)
	timeout time.Duration
	log     *zap.Logger

	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc

	generation uint64
	tickets    uint64
	showtimeID uint64

	Showtime     Resource[*model.Showtime]
	RoomSeats    Resource[[]model.Seat]
	Availability Resource[[]model.Seat]
}

// New returns an idle Loader.  In-flight fetches are cancelled when
// parent is done or on Close.
func New(parent context.Context, f Fetcher, deliver func(Result), opts ...Option) *Loader {
	l := &Loader{
		fetcher: f,
		deliver: deliver,
		timeout: defaultTimeout,
		log:     zap.NewNop(),
		parent:  parent,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.ctx, l.cancel = context.WithCancel(parent)
	return l
}

// Generation counts SetShowtime calls.
func (l *Loader) Generation() uint64 { return l.generation }

// ShowtimeID returns the current showtime key; zero when unset.
func (l *Loader) ShowtimeID() uint64 { return l.showtimeID }

// SetShowtime switches the loader to a new showtime id.  Pending fetches
// are cancelled and all resources are reset.  The showtime and its
// availability are fetched right away; the seat map follows once the
// showtime names its room.  A zero id leaves everything Idle.
func (l *Loader) SetShowtime(id uint64) {
	l.generation++
	l.cancel()
	l.ctx, l.cancel = context.WithCancel(l.parent)

	l.showtimeID = id
	l.Showtime = Resource[*model.Showtime]{}
	l.RoomSeats = Resource[[]model.Seat]{}
	l.Availability = Resource[[]model.Seat]{}
	if id == 0 {
		return
	}
	l.startShowtime()
	l.startAvailability()
}

// Reload re-issues the fetch of one resource for the current showtime.
// It reports false when there is nothing to reload: no showtime id, or
// the seat map is requested before the showtime resolved.
func (l *Loader) Reload(kind Kind) bool {
	if l.showtimeID == 0 {
		return false
	}
	switch kind {
	case KindShowtime:
		l.startShowtime()
	case KindAvailability:
		l.startAvailability()
	case KindRoomSeats:
		if !l.Showtime.Usable() || l.Showtime.Value == nil || l.Showtime.Value.RoomID == 0 {
			return false
		}
		l.startRoomSeats(l.Showtime.Value.RoomID)
	default:
		return false
	}
	return true
}

// Apply stores a fetch result if it is still awaited and reports
// whether it was accepted.  A resolved showtime chains the seat map
// fetch for its room.
func (l *Loader) Apply(res Result) bool {
	switch res.Kind {
	case KindShowtime:
		if !l.Showtime.accepts(res.ticket) {
			return l.drop(res)
		}
		if res.err != nil {
			l.Showtime.fail(KindShowtime, res.err)
			l.log.Warn("showtime fetch failed", zap.Uint64("showtime_id", res.Key), zap.Error(res.err))
			return true
		}
		l.Showtime.succeed(res.showtime)
		l.chainRoomSeats(res.showtime)
	case KindRoomSeats:
		if !l.RoomSeats.accepts(res.ticket) {
			return l.drop(res)
		}
		if res.err != nil {
			l.RoomSeats.fail(KindRoomSeats, res.err)
			l.log.Warn("seat map fetch failed", zap.Uint64("room_id", res.Key), zap.Error(res.err))
			return true
		}
		l.RoomSeats.succeed(res.seats)
	case KindAvailability:
		if !l.Availability.accepts(res.ticket) {
			return l.drop(res)
		}
		if res.err != nil {
			l.Availability.fail(KindAvailability, res.err)
			l.log.Warn("availability fetch failed", zap.Uint64("showtime_id", res.Key), zap.Error(res.err))
			return true
		}
		l.Availability.succeed(res.seats)
	default:
		return false
	}
	return true
}

// Close cancels every in-flight fetch.
func (l *Loader) Close() { l.cancel() }

func (l *Loader) drop(res Result) bool {
	l.log.Debug("dropping stale result", zap.Stringer("resource", res.Kind), zap.Uint64("key", res.Key))
	return false
}

func (l *Loader) chainRoomSeats(st *model.Showtime) {
	if st == nil || st.RoomID == 0 {
		l.RoomSeats.begin(0, 0)
		l.RoomSeats.fail(KindRoomSeats, ErrMissingRoom)
		return
	}
	if l.RoomSeats.Key == st.RoomID && (l.RoomSeats.Status == Loading || l.RoomSeats.Usable()) {
		return
	}
	l.startRoomSeats(st.RoomID)
}

func (l *Loader) nextTicket() uint64 {
	l.tickets++
	return l.tickets
}

func (l *Loader) startShowtime() {
	id := l.showtimeID
	t := l.nextTicket()
	l.Showtime.begin(id, t)
	l.spawn(func(ctx context.Context) Result {
		st, err := l.fetcher.FetchShowtime(ctx, id)
		return Result{Kind: KindShowtime, Key: id, ticket: t, showtime: st, err: err}
	})
}

func (l *Loader) startRoomSeats(roomID uint64) {
	t := l.nextTicket()
	l.RoomSeats.begin(roomID, t)
	l.spawn(func(ctx context.Context) Result {
		seats, err := l.fetcher.FetchRoomSeats(ctx, roomID)
		return Result{Kind: KindRoomSeats, Key: roomID, ticket: t, seats: seats, err: err}
	})
}

func (l *Loader) startAvailability() {
	id := l.showtimeID
	t := l.nextTicket()
	l.Availability.begin(id, t)
	l.spawn(func(ctx context.Context) Result {
		seats, err := l.fetcher.FetchAvailableSeats(ctx, id)
		return Result{Kind: KindAvailability, Key: id, ticket: t, seats: seats, err: err}
	})
}

func (l *Loader) spawn(fetch func(ctx context.Context) Result) {
	ctx, timeout, deliver := l.ctx, l.timeout, l.deliver
	go func() {
		fctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		deliver(fetch(fctx))
	}()
}
