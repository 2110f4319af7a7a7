package session

import (
	"strconv"

	"github.com/iliyamo/cinema-seat-selection/internal/loader"
	"github.com/iliyamo/cinema-seat-selection/internal/model"
	"github.com/iliyamo/cinema-seat-selection/internal/pricing"
)

// View is a read-only snapshot of a session, shaped for the JSON API.
type View struct {
	ID          string          `json:"id"`
	ShowtimeID  uint64          `json:"showtime_id"`
	TicketQuota int             `json:"ticket_quota"`
	MovieRef    *model.MovieRef `json:"movie_ref,omitempty"`
	Generation  uint64          `json:"generation"`
	Resources   Resources       `json:"resources"`
	Showtime    *model.Showtime `json:"showtime,omitempty"`
	Rows        []RowView       `json:"rows"`
	MaxCols     int             `json:"max_cols"`
	Selected    []string        `json:"selected"`
	Quote       pricing.Quote   `json:"quote"`
	Evicted     []string        `json:"evicted,omitempty"`
	CanProceed  bool            `json:"can_proceed"`
}

// Resources reports the load state of each remote resource.
type Resources struct {
	Showtime     ResourceView `json:"showtime"`
	RoomSeats    ResourceView `json:"room_seats"`
	Availability ResourceView `json:"availability"`
}

// ResourceView is the load status of one resource.
type ResourceView struct {
	Status loader.Status `json:"status"`
	Error  string        `json:"error,omitempty"`
}

// RowView is one seat map row in seat-number order.
type RowView struct {
	Label string     `json:"row_label"`
	Seats []SeatView `json:"seats"`
}

// SeatView is one seat with its availability and selection flags.
type SeatView struct {
	ID        uint64 `json:"id"`
	Label     string `json:"label"`
	Number    uint32 `json:"seat_number"`
	SeatType  string `json:"seat_type"`
	Available bool   `json:"available"`
	Selected  bool   `json:"selected"`
}

func resourceView[T any](r *loader.Resource[T]) ResourceView {
	v := ResourceView{Status: r.Status}
	if r.Err != nil {
		v.Error = r.Err.Error()
	}
	return v
}

// view must only be called from the session goroutine.
func (s *Session) view() View {
	seats := s.chosenInMapOrder()
	v := View{
		ID:          s.id,
		ShowtimeID:  s.sel.ShowtimeID(),
		TicketQuota: s.sel.TicketQuota(),
		MovieRef:    s.movie,
		Generation:  s.loader.Generation(),
		Resources: Resources{
			Showtime:     resourceView(&s.loader.Showtime),
			RoomSeats:    resourceView(&s.loader.RoomSeats),
			Availability: resourceView(&s.loader.Availability),
		},
		Rows:       make([]RowView, 0, len(s.layout.Rows)),
		MaxCols:    s.layout.MaxCols,
		Selected:   make([]string, 0, len(seats)),
		Quote:      s.deps.Pricing.Quote(seats, s.fallbackPrice()),
		CanProceed: len(seats) > 0 && !s.completed,
	}
	if s.loader.Showtime.Usable() {
		v.Showtime = s.loader.Showtime.Value
	}
	for _, r := range s.layout.Rows {
		row := RowView{Label: r.Label, Seats: make([]SeatView, 0, len(r.Seats))}
		for _, seat := range r.Seats {
			row.Seats = append(row.Seats, SeatView{
				ID:        seat.ID,
				Label:     seat.Label(),
				Number:    seat.SeatNumber,
				SeatType:  model.NormalizeSeatType(seat.SeatType),
				Available: s.index.Contains(seat.ID),
				Selected:  s.sel.Has(seat.ID),
			})
		}
		v.Rows = append(v.Rows, row)
	}
	for _, seat := range seats {
		v.Selected = append(v.Selected, seat.Label())
	}
	for _, seat := range s.evicted {
		if seat.RowLabel == "" {
			v.Evicted = append(v.Evicted, "#"+strconv.FormatUint(seat.ID, 10))
			continue
		}
		v.Evicted = append(v.Evicted, seat.Label())
	}
	return v
}
