// Package seatmap groups a room's seat layout into ordered rows for
// rendering and for ordering selection summaries.
package seatmap

import (
	"sort"
	"strconv"
	"strings"

	"github.com/iliyamo/cinema-seat-selection/internal/model"
)

// Row is one row of the seat map.  Seats are sorted by seat number.
type Row struct {
	Label string       `json:"row_label"`
	Seats []model.Seat `json:"seats"`
}

// Layout is the row grouping of a seat map.  It is derived data and is
// rebuilt whenever the seat map resolves; callers never mutate it.
type Layout struct {
	Rows    []Row `json:"rows"`
	MaxCols int   `json:"max_cols"`

	byID map[uint64]position
}

type position struct {
	row, col int
}

// Build groups seats by row label.  Rows are ordered alphabetically by
// their spreadsheet-style index (A..Z, AA, AB, ...); labels that are not
// plain letters sort lexically after that.  An empty seat map yields an
// empty layout.
func Build(seats []model.Seat) Layout {
	rowsMap := make(map[string][]model.Seat)
	maxCols := 0
	for _, s := range seats {
		lbl := model.NormalizeRowLabel(s.RowLabel)
		rowsMap[lbl] = append(rowsMap[lbl], s)
		if int(s.SeatNumber) > maxCols {
			maxCols = int(s.SeatNumber)
		}
	}

	order := make([]string, 0, len(rowsMap))
	for lbl := range rowsMap {
		order = append(order, lbl)
	}
	sort.Slice(order, func(i, j int) bool { return lessRowLabel(order[i], order[j]) })

	out := Layout{Rows: make([]Row, 0, len(order)), MaxCols: maxCols, byID: make(map[uint64]position, len(seats))}
	for ri, lbl := range order {
		rs := rowsMap[lbl]
		sort.SliceStable(rs, func(i, j int) bool {
			if rs[i].SeatNumber != rs[j].SeatNumber {
				return rs[i].SeatNumber < rs[j].SeatNumber
			}
			return rs[i].ID < rs[j].ID
		})
		for ci, s := range rs {
			out.byID[s.ID] = position{row: ri, col: ci}
		}
		out.Rows = append(out.Rows, Row{Label: lbl, Seats: rs})
	}
	return out
}

// Seat looks up a seat of the layout by id.
func (l Layout) Seat(id uint64) (model.Seat, bool) {
	p, ok := l.byID[id]
	if !ok {
		return model.Seat{}, false
	}
	return l.Rows[p.row].Seats[p.col], true
}

// Len returns the number of seats in the layout.
func (l Layout) Len() int { return len(l.byID) }

// Sort orders seats the way they appear on the map: row by row, then by
// seat number.  Seats unknown to the layout go last, ordered by id.
func (l Layout) Sort(seats []model.Seat) {
	sort.SliceStable(seats, func(i, j int) bool {
		pi, okI := l.byID[seats[i].ID]
		pj, okJ := l.byID[seats[j].ID]
		switch {
		case okI && okJ:
			if pi.row != pj.row {
				return pi.row < pj.row
			}
			return pi.col < pj.col
		case okI != okJ:
			return okI
		default:
			return seats[i].ID < seats[j].ID
		}
	})
}

// Pretty renders each row as "A: 1, 2, 3".
func (l Layout) Pretty() []string {
	out := make([]string, 0, len(l.Rows))
	for _, r := range l.Rows {
		var b strings.Builder
		b.WriteString(r.Label)
		b.WriteString(": ")
		for i, s := range r.Seats {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.FormatUint(uint64(s.SeatNumber), 10))
		}
		out = append(out, b.String())
	}
	return out
}

func lessRowLabel(a, b string) bool {
	ia, okA := rowLabelToIndex(a)
	ib, okB := rowLabelToIndex(b)
	switch {
	case okA && okB:
		return ia < ib
	case okA != okB:
		return okA
	default:
		return a < b
	}
}

// rowLabelToIndex converts a row label like A or AA into its zero-based index.
func rowLabelToIndex(label string) (int, bool) {
	s := model.NormalizeRowLabel(label)
	if s == "" {
		return -1, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch < 'A' || ch > 'Z' {
			return -1, false
		}
		n = n*26 + int(ch-'A'+1)
	}
	return n - 1, true
}
