package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-seat-selection/internal/model"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/showtimes/2035", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer svc", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":2035,"screening_time":"2026-05-01T20:00:00Z","price":9.5,
			"movie":{"id":3,"title":"Heat"},"room":{"id":124,"name":"Room 1"}}`))
	})
	mux.HandleFunc("/api/showtimes/2036", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":2036,"room_id":125,"movie_title":"Alien","price":7}`))
	})
	mux.HandleFunc("/api/rooms/124/seats", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"room_id":124,"row_label":"A","seat_number":1,"seat_type":"standard"},
			{"id":2,"room_id":124,"row_label":"B","seat_number":5,"seat_type":"recliner"}]`))
	})
	mux.HandleFunc("/api/showtimes/2035/seats", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":2,"room_id":124,"row_label":"B","seat_number":5,"seat_type":"recliner"}]`))
	})
	mux.HandleFunc("/api/showtimes/9/seats", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})
	mux.HandleFunc("/api/rooms/5/seats", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchShowtimeNested(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL+"/api/", WithBearerToken("svc"))

	st, err := c.FetchShowtime(context.Background(), 2035)
	require.NoError(t, err)
	assert.Equal(t, uint64(124), st.RoomID)
	assert.Equal(t, "Heat", st.MovieTitle)
	assert.Equal(t, 9.5, st.Price)
	assert.Equal(t, time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC), st.StartsAt.UTC())
}

func TestFetchShowtimeFlat(t *testing.T) {
	srv := newServer(t)
	st, err := New(srv.URL + "/api").FetchShowtime(context.Background(), 2036)
	require.NoError(t, err)
	assert.Equal(t, uint64(125), st.RoomID)
	assert.Equal(t, "Alien", st.MovieTitle)
}

func TestFetchSeats(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL + "/api")

	seats, err := c.FetchRoomSeats(context.Background(), 124)
	require.NoError(t, err)
	require.Len(t, seats, 2)
	assert.Equal(t, model.Seat{ID: 2, RoomID: 124, RowLabel: "B", SeatNumber: 5, SeatType: "recliner"}, seats[1])

	avail, err := c.FetchAvailableSeats(context.Background(), 2035)
	require.NoError(t, err)
	assert.Len(t, avail, 1)
}

func TestFetchErrors(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL + "/api")

	_, err := c.FetchShowtime(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.FetchAvailableSeats(context.Background(), 9)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.Code)
	assert.Equal(t, "boom", se.Body)
	assert.NotErrorIs(t, err, ErrNotFound)

	_, err = c.FetchRoomSeats(context.Background(), 5)
	assert.ErrorContains(t, err, "decode")
}

func TestFetchHonoursContext(t *testing.T) {
	srv := newServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(srv.URL+"/api").FetchShowtime(ctx, 2035)
	assert.ErrorIs(t, err, context.Canceled)
}
