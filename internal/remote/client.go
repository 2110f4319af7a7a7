// Package remote reads showtimes, seat maps and availability from the
// cinema CRUD API over HTTP.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-seat-selection/internal/model"
)

// ErrNotFound matches a *StatusError carrying 404.
var ErrNotFound = errors.New("not found")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.Code)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

const maxErrorBody = 512

// Client implements loader.Fetcher against the upstream API.
type Client struct {
	base  string
	http  *http.Client
	log   *zap.Logger
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithBearerToken sends a static service token on every request.
func WithBearerToken(tok string) Option {
	return func(c *Client) { c.token = tok }
}

// New returns a client for the API rooted at baseURL, e.g.
// "http://localhost:8000/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type movieDTO struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
}

type roomDTO struct {
	ID uint64 `json:"id"`
}

// showtimeDTO accepts both the flat form (room_id, movie_title) and the
// nested form (room{}, movie{}) served by the CRUD API.
type showtimeDTO struct {
	ID            uint64    `json:"id"`
	RoomID        uint64    `json:"room_id"`
	MovieTitle    string    `json:"movie_title"`
	ScreeningTime time.Time `json:"screening_time" copier:"StartsAt"`
	Price         float64   `json:"price"`
	Room          *roomDTO  `json:"room" copier:"-"`
	Movie         *movieDTO `json:"movie" copier:"-"`
}

type seatDTO struct {
	ID         uint64 `json:"id"`
	RoomID     uint64 `json:"room_id"`
	RowLabel   string `json:"row_label"`
	SeatNumber uint32 `json:"seat_number"`
	SeatType   string `json:"seat_type"`
}

// FetchShowtime reads GET /showtimes/{id}.
func (c *Client) FetchShowtime(ctx context.Context, id uint64) (*model.Showtime, error) {
	var dto showtimeDTO
	if err := c.get(ctx, "/showtimes/"+strconv.FormatUint(id, 10), &dto); err != nil {
		return nil, err
	}
	var st model.Showtime
	if err := copier.Copy(&st, &dto); err != nil {
		return nil, fmt.Errorf("map showtime: %w", err)
	}
	if st.RoomID == 0 && dto.Room != nil {
		st.RoomID = dto.Room.ID
	}
	if st.MovieTitle == "" && dto.Movie != nil {
		st.MovieTitle = dto.Movie.Title
	}
	if st.ID == 0 {
		st.ID = id
	}
	return &st, nil
}

// FetchRoomSeats reads GET /rooms/{id}/seats.
func (c *Client) FetchRoomSeats(ctx context.Context, roomID uint64) ([]model.Seat, error) {
	return c.seats(ctx, "/rooms/"+strconv.FormatUint(roomID, 10)+"/seats")
}

// FetchAvailableSeats reads GET /showtimes/{id}/seats, the seats still
// free for the showtime.
func (c *Client) FetchAvailableSeats(ctx context.Context, showtimeID uint64) ([]model.Seat, error) {
	return c.seats(ctx, "/showtimes/"+strconv.FormatUint(showtimeID, 10)+"/seats")
}

func (c *Client) seats(ctx context.Context, path string) ([]model.Seat, error) {
	var dtos []seatDTO
	if err := c.get(ctx, path, &dtos); err != nil {
		return nil, err
	}
	seats := make([]model.Seat, 0, len(dtos))
	if err := copier.Copy(&seats, &dtos); err != nil {
		return nil, fmt.Errorf("map seats: %w", err)
	}
	return seats, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	url := c.base + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()
	c.log.Debug("upstream request",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Method: http.MethodGet, URL: url, Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
