package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-seat-selection/internal/handoff"
	"github.com/iliyamo/cinema-seat-selection/internal/loader"
	"github.com/iliyamo/cinema-seat-selection/internal/middleware"
	"github.com/iliyamo/cinema-seat-selection/internal/model"
	"github.com/iliyamo/cinema-seat-selection/internal/session"
)

var validate = validator.New()

// SelectionHandler exposes seat selection sessions.  All methods assume
// JWT authentication and role validation already ran; a session is only
// visible to the user who entered it.
type SelectionHandler struct {
	Hub        *session.Hub
	MaxTickets int
	Log        *zap.Logger
}

func NewSelectionHandler(hub *session.Hub, maxTickets int, log *zap.Logger) *SelectionHandler {
	if hub == nil {
		panic("nil hub passed to NewSelectionHandler")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SelectionHandler{Hub: hub, MaxTickets: maxTickets, Log: log}
}

type showtimeRequest struct {
	ShowtimeID *uint64 `json:"showtime_id" validate:"required"`
}

type toggleResponse struct {
	Outcome string `json:"outcome"`
	session.View
}

// Enter handles POST /v1/selections.  The body is the booking context
// handed over by the showtime selection step.  It returns 201 with the
// initial view; resources load in the background.
func (h *SelectionHandler) Enter(c echo.Context) error {
	uid := middleware.UserID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var bc model.BookingContext
	if err := c.Bind(&bc); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(&bc); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if h.MaxTickets > 0 && bc.TicketQuota > h.MaxTickets {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket_quota exceeds " + strconv.Itoa(h.MaxTickets)})
	}

	s := h.Hub.Create(uid, bc)
	v, err := s.View(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, v)
}

// Get handles GET /v1/selections/:id.
func (h *SelectionHandler) Get(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	v, err := s.View(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

// SetShowtime handles PUT /v1/selections/:id/showtime.  The selection is
// cleared.  A showtime id of 0 unloads everything.
func (h *SelectionHandler) SetShowtime(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	var body showtimeRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "showtime_id is required"})
	}
	v, err := s.SetShowtime(c.Request().Context(), *body.ShowtimeID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

// Toggle handles POST /v1/selections/:id/seats/:seat_id/toggle.  Toggles
// that change nothing (seat taken, quota reached) still return 200; the
// outcome field says what happened.
func (h *SelectionHandler) Toggle(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	seatID, err := strconv.ParseUint(c.Param("seat_id"), 10, 64)
	if err != nil || seatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
	}
	v, out, err := s.Toggle(c.Request().Context(), seatID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, toggleResponse{Outcome: out.String(), View: v})
}

// Reload handles POST /v1/selections/:id/reload/:resource, the retry
// affordance for a failed resource.
func (h *SelectionHandler) Reload(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	kind, ok := loader.ParseKind(c.Param("resource"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown resource"})
	}
	v, err := s.Reload(c.Request().Context(), kind)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusAccepted, v)
}

// Proceed handles POST /v1/selections/:id/proceed.  On success the
// payload sent to payment is returned and the session ends.
func (h *SelectionHandler) Proceed(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	p, err := s.Proceed(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Leave handles DELETE /v1/selections/:id.
func (h *SelectionHandler) Leave(c echo.Context) error {
	if err := h.Hub.Remove(c.Param("id"), middleware.UserID(c)); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SelectionHandler) session(c echo.Context) (*session.Session, error) {
	return h.Hub.Get(c.Param("id"), middleware.UserID(c))
}

func (h *SelectionHandler) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, session.ErrSessionClosed):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "selection not found"})
	case errors.Is(err, session.ErrSeatNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
	case errors.Is(err, session.ErrNothingToReload):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, handoff.ErrEmptySelection):
		return c.JSON(http.StatusConflict, echo.Map{"error": "no seats selected"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "request cancelled"})
	}
	h.Log.Error("selection request failed", zap.String("path", c.Path()), zap.Error(err))
	if errors.Is(err, session.ErrHandoffFailed) {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment hand-off failed"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
