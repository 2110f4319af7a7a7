package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-seat-selection/internal/model"
)

// Hub indexes the live sessions by id.  A session leaves the hub when it
// completes, when it is removed, or when it idles out.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ctx      context.Context
	cancel   context.CancelFunc
	deps     Deps
	log      *zap.Logger
}

// NewHub returns an empty hub.  Sessions are cancelled with parent.
func NewHub(parent context.Context, deps Deps) *Hub {
	deps = deps.withDefaults()
	ctx, cancel := context.WithCancel(parent)
	return &Hub{
		sessions: make(map[string]*Session),
		ctx:      ctx,
		cancel:   cancel,
		deps:     deps,
		log:      deps.Log,
	}
}

// Create enters the seat selection screen for owner.  Loading of the
// showtime starts immediately.
func (h *Hub) Create(owner string, bc model.BookingContext) *Session {
	id := uuid.NewString()
	s := newSession(h.ctx, id, owner, bc, h.deps, h.forget)
	h.mu.Lock()
	h.sessions[id] = s
	h.mu.Unlock()
	h.log.Info("session created",
		zap.String("session_id", id),
		zap.String("owner", owner),
		zap.Uint64("showtime_id", bc.ShowtimeID),
		zap.Int("ticket_quota", bc.TicketQuota),
	)
	return s
}

// Get returns the session with id if it belongs to owner.  Sessions of
// other users are reported as not found.
func (h *Hub) Get(id, owner string) (*Session, error) {
	h.mu.RLock()
	s, ok := h.sessions[id]
	h.mu.RUnlock()
	if !ok || s.owner != owner {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove closes and forgets a session.
func (h *Hub) Remove(id, owner string) error {
	s, err := h.Get(id, owner)
	if err != nil {
		return err
	}
	h.forget(s)
	s.Close()
	return nil
}

// Len returns the number of live sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// RefreshAvailability asks every live session to reload its
// availability snapshot and returns how many accepted.
func (h *Hub) RefreshAvailability() int {
	n := 0
	for _, s := range h.snapshot() {
		if s.refresh() {
			n++
		}
	}
	return n
}

// SweepIdle closes sessions without user activity for longer than ttl.
func (h *Hub) SweepIdle(ttl time.Duration) int {
	cutoff := h.deps.Now().Add(-ttl)
	n := 0
	for _, s := range h.snapshot() {
		if s.LastSeen().Before(cutoff) {
			h.forget(s)
			s.Close()
			n++
		}
	}
	if n > 0 {
		h.log.Info("idle sessions closed", zap.Int("count", n))
	}
	return n
}

// Shutdown closes every session.
func (h *Hub) Shutdown() {
	h.cancel()
	h.mu.Lock()
	clear(h.sessions)
	h.mu.Unlock()
}

func (h *Hub) forget(s *Session) {
	h.mu.Lock()
	if cur, ok := h.sessions[s.id]; ok && cur == s {
		delete(h.sessions, s.id)
	}
	h.mu.Unlock()
}

func (h *Hub) snapshot() []*Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		out = append(out, s)
	}
	return out
}
