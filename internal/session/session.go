// Package session runs one seat selection per booking flow.  Each
// Session is an actor: a single goroutine owns the loader, the selection
// and every derived value, and all requests reach it through its inbox.
// Fetch results arrive through the same inbox, so selection changes and
// resource updates are applied strictly one after another.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/cinema-seat-selection/internal/availability"
	"github.com/iliyamo/cinema-seat-selection/internal/handoff"
	"github.com/iliyamo/cinema-seat-selection/internal/loader"
	"github.com/iliyamo/cinema-seat-selection/internal/model"
	"github.com/iliyamo/cinema-seat-selection/internal/pricing"
	"github.com/iliyamo/cinema-seat-selection/internal/seatmap"
	"github.com/iliyamo/cinema-seat-selection/internal/selection"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session closed")
	ErrSeatNotFound    = errors.New("seat not in seat map")
	ErrNothingToReload = errors.New("resource cannot be reloaded yet")
	ErrHandoffFailed   = errors.New("proceed to payment failed")
)

// Deps are the collaborators shared by all sessions.
type Deps struct {
	Fetcher      loader.Fetcher
	Pricing      *pricing.Engine
	Gateway      handoff.Gateway
	FetchTimeout time.Duration
	Log          *zap.Logger
	Now          func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Pricing == nil {
		d.Pricing = pricing.NewEngine(nil, 0)
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Gateway == nil {
		d.Gateway = handoff.LogGateway{Log: d.Log}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

type msg interface{ isSessionMsg() }

type setShowtimeMsg struct {
	id    uint64
	reply chan View
}

type toggleMsg struct {
	seatID uint64
	reply  chan toggleReply
}

type toggleReply struct {
	view    View
	outcome selection.Outcome
	err     error
}

type reloadMsg struct {
	kind  loader.Kind
	reply chan reloadReply // nil for background refreshes
}

type reloadReply struct {
	view View
	err  error
}

type proceedMsg struct {
	ctx   context.Context
	reply chan proceedReply
}

type proceedReply struct {
	payload model.CheckoutPayload
	err     error
}

type viewMsg struct{ reply chan View }

type fetchedMsg struct{ res loader.Result }

func (setShowtimeMsg) isSessionMsg() {}
func (toggleMsg) isSessionMsg()      {}
func (reloadMsg) isSessionMsg()      {}
func (proceedMsg) isSessionMsg()     {}
func (viewMsg) isSessionMsg()        {}
func (fetchedMsg) isSessionMsg()     {}

// Session is a live seat selection.  Its exported methods are safe for
// concurrent use; they block until the session goroutine answers or the
// caller's context ends.
type Session struct {
	id     string
	owner  string
	movie  *model.MovieRef
	inbox  chan msg
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	seen   atomic.Int64
	onDone func(*Session)

	// owned by loop
	deps      Deps
	log       *zap.Logger
	loader    *loader.Loader
	sel       *selection.State
	layout    seatmap.Layout
	index     availability.Index
	evicted   []model.Seat
	completed bool
}

func newSession(parent context.Context, id, owner string, bc model.BookingContext, deps Deps, onDone func(*Session)) *Session {
	deps = deps.withDefaults()
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		id:     id,
		owner:  owner,
		movie:  bc.MovieRef,
		inbox:  make(chan msg, 64),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
		onDone: onDone,
		deps:   deps,
		log:    deps.Log.With(zap.String("session_id", id)),
		sel:    selection.New(bc.ShowtimeID, bc.TicketQuota),
	}
	s.loader = loader.New(ctx, deps.Fetcher, s.deliver,
		loader.WithTimeout(deps.FetchTimeout),
		loader.WithLogger(s.log),
	)
	s.touch()
	s.setShowtime(bc.ShowtimeID)
	go s.loop()
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Owner returns the user id that created the session.
func (s *Session) Owner() string { return s.owner }

// LastSeen returns the time of the last user request.
func (s *Session) LastSeen() time.Time { return time.Unix(0, s.seen.Load()) }

// Done is closed once the session goroutine has exited.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) touch() { s.seen.Store(s.deps.Now().UnixNano()) }

// deliver runs on fetch goroutines and hands results to the loop.
func (s *Session) deliver(res loader.Result) {
	select {
	case s.inbox <- fetchedMsg{res: res}:
	case <-s.ctx.Done():
	}
}

// View returns the current state.
func (s *Session) View(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	if err := s.send(ctx, viewMsg{reply: reply}); err != nil {
		return View{}, err
	}
	return await(ctx, s, reply)
}

// SetShowtime switches the session to another showtime.  The selection
// is always cleared, even when id equals the current showtime.
func (s *Session) SetShowtime(ctx context.Context, id uint64) (View, error) {
	reply := make(chan View, 1)
	if err := s.send(ctx, setShowtimeMsg{id: id, reply: reply}); err != nil {
		return View{}, err
	}
	return await(ctx, s, reply)
}

// Toggle selects or deselects a seat of the loaded seat map.  Outcomes
// that leave the selection unchanged are not errors.
func (s *Session) Toggle(ctx context.Context, seatID uint64) (View, selection.Outcome, error) {
	reply := make(chan toggleReply, 1)
	if err := s.send(ctx, toggleMsg{seatID: seatID, reply: reply}); err != nil {
		return View{}, selection.Unavailable, err
	}
	r, err := await(ctx, s, reply)
	if err != nil {
		return View{}, selection.Unavailable, err
	}
	return r.view, r.outcome, r.err
}

// Reload re-fetches one resource of the current showtime.
func (s *Session) Reload(ctx context.Context, kind loader.Kind) (View, error) {
	reply := make(chan reloadReply, 1)
	if err := s.send(ctx, reloadMsg{kind: kind, reply: reply}); err != nil {
		return View{}, err
	}
	r, err := await(ctx, s, reply)
	if err != nil {
		return View{}, err
	}
	return r.view, r.err
}

// refresh queues a background availability reload.  It never blocks
// and does not count as user activity.
func (s *Session) refresh() bool {
	select {
	case s.inbox <- reloadMsg{kind: loader.KindAvailability}:
		return true
	default:
		return false
	}
}

// Proceed hands the selection to the payment stage.  It fails with
// handoff.ErrEmptySelection when nothing is chosen.  After a successful
// hand-off the session is completed and closes itself.
func (s *Session) Proceed(ctx context.Context) (model.CheckoutPayload, error) {
	reply := make(chan proceedReply, 1)
	if err := s.send(ctx, proceedMsg{ctx: ctx, reply: reply}); err != nil {
		return model.CheckoutPayload{}, err
	}
	r, err := await(ctx, s, reply)
	if err != nil {
		return model.CheckoutPayload{}, err
	}
	return r.payload, r.err
}

// Close stops the session and cancels its in-flight fetches.
func (s *Session) Close() {
	s.cancel()
}

func (s *Session) send(ctx context.Context, m msg) error {
	s.touch()
	select {
	case <-s.ctx.Done():
		return ErrSessionClosed
	default:
	}
	select {
	case s.inbox <- m:
		return nil
	case <-s.ctx.Done():
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func await[T any](ctx context.Context, s *Session, reply <-chan T) (T, error) {
	var zero T
	select {
	case v := <-reply:
		return v, nil
	case <-s.done:
		// the loop may have answered right before exiting
		select {
		case v := <-reply:
			return v, nil
		default:
			return zero, ErrSessionClosed
		}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func (s *Session) loop() {
	defer close(s.done)
	defer func() {
		s.loader.Close()
		if s.onDone != nil {
			s.onDone(s)
		}
	}()
	for {
		select {
		case <-s.ctx.Done():
			return
		case m := <-s.inbox:
			s.handle(m)
		}
	}
}

func (s *Session) handle(m msg) {
	switch m := m.(type) {
	case fetchedMsg:
		s.applyResult(m.res)

	case viewMsg:
		m.reply <- s.view()

	case setShowtimeMsg:
		s.setShowtime(m.id)
		m.reply <- s.view()

	case toggleMsg:
		seat, ok := s.layout.Seat(m.seatID)
		if !ok {
			m.reply <- toggleReply{view: s.view(), outcome: selection.Unavailable, err: ErrSeatNotFound}
			return
		}
		s.evicted = nil
		out := s.sel.Toggle(seat, s.index)
		s.log.Debug("toggle", zap.Uint64("seat_id", seat.ID), zap.Stringer("outcome", out))
		m.reply <- toggleReply{view: s.view(), outcome: out}

	case reloadMsg:
		ok := s.loader.Reload(m.kind)
		if m.reply == nil {
			return
		}
		var err error
		if !ok {
			err = fmt.Errorf("%w: %s", ErrNothingToReload, m.kind)
		}
		m.reply <- reloadReply{view: s.view(), err: err}

	case proceedMsg:
		p, err := s.proceed(m.ctx)
		m.reply <- proceedReply{payload: p, err: err}
		if err == nil {
			s.completed = true
			s.cancel()
		}
	}
}

func (s *Session) setShowtime(id uint64) {
	s.sel.Reset(id, s.sel.TicketQuota())
	s.evicted = nil
	s.layout = seatmap.Layout{}
	s.index = availability.Index{}
	s.loader.SetShowtime(id)
}

func (s *Session) applyResult(res loader.Result) {
	if !s.loader.Apply(res) {
		return
	}
	switch res.Kind {
	case loader.KindRoomSeats:
		if s.loader.RoomSeats.Usable() {
			s.layout = seatmap.Build(s.loader.RoomSeats.Value)
		} else {
			s.layout = seatmap.Layout{}
		}
	case loader.KindAvailability:
		if !s.loader.Availability.Usable() {
			// a failed refresh keeps the last good index; nothing is evicted
			return
		}
		s.index = availability.Build(s.loader.Availability.Value)
		s.evict(s.sel.Reconcile(s.index))
	}
}

// evict records the seats dropped by a refresh.  The notice stays until
// the next user action or the next eviction.
func (s *Session) evict(ids []uint64) {
	if len(ids) == 0 {
		return
	}
	s.evicted = make([]model.Seat, 0, len(ids))
	for _, id := range ids {
		seat, ok := s.layout.Seat(id)
		if !ok {
			seat = model.Seat{ID: id}
		}
		s.evicted = append(s.evicted, seat)
	}
	s.log.Info("evicted seats no longer available", zap.Uint64s("seat_ids", ids))
}

func (s *Session) fallbackPrice() float64 {
	if s.loader.Showtime.Usable() && s.loader.Showtime.Value != nil {
		return s.loader.Showtime.Value.Price
	}
	return 0
}

func (s *Session) chosenInMapOrder() []model.Seat {
	seats := s.sel.Seats()
	s.layout.Sort(seats)
	return seats
}

func (s *Session) proceed(ctx context.Context) (model.CheckoutPayload, error) {
	seats := s.chosenInMapOrder()
	quote := s.deps.Pricing.Quote(seats, s.fallbackPrice())
	p, err := handoff.BuildPayload(handoff.Input{
		SessionID:  s.id,
		UserID:     s.owner,
		ShowtimeID: s.sel.ShowtimeID(),
		MovieRef:   s.movie,
		Seats:      seats,
		Total:      quote.Total,
	}, s.layout, s.deps.Now())
	if err != nil {
		return model.CheckoutPayload{}, err
	}
	if err := s.deps.Gateway.ProceedToPayment(ctx, p); err != nil {
		s.log.Error("proceed to payment failed", zap.Error(err))
		return model.CheckoutPayload{}, fmt.Errorf("%w: %w", ErrHandoffFailed, err)
	}
	s.log.Info("selection handed off", zap.Strings("seats", p.SeatLabels), zap.Float64("total", p.Total))
	return p, nil
}
