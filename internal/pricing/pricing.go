// Package pricing turns a seat selection into a price quote: a unit
// price per seat type, a subtotal, and a fixed service fee.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/iliyamo/cinema-seat-selection/internal/model"
)

// DefaultKey is the price table entry used for unlisted seat types.
const DefaultKey = "DEFAULT"

// ErrInvalidTable is returned by ParseTable for malformed input.
var ErrInvalidTable = errors.New("invalid price table")

// Table maps a normalized seat type to its unit price.
type Table map[string]float64

// ParseTable reads a table in the form "STANDARD=12.50,RECLINER=18".
// Keys are normalized to upper case.  An empty string yields an empty table.
func ParseTable(s string) (Table, error) {
	t := Table{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, "=")
		key := model.NormalizeSeatType(k)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTable, part)
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
			return nil, fmt.Errorf("%w: bad price for %s", ErrInvalidTable, key)
		}
		t[key] = price
	}
	return t, nil
}

// Engine computes quotes from a price table and a service fee.
type Engine struct {
	table      Table
	serviceFee float64
}

// NewEngine returns an Engine.  The table is copied.
func NewEngine(table Table, serviceFee float64) *Engine {
	cp := make(Table, len(table))
	for k, v := range table {
		cp[model.NormalizeSeatType(k)] = v
	}
	return &Engine{table: cp, serviceFee: serviceFee}
}

// ServiceFee returns the configured fixed fee.
func (e *Engine) ServiceFee() float64 { return e.serviceFee }

// UnitPrice returns the price of one seat.  The seat type entry wins,
// then DEFAULT, then the showtime's base price.
func (e *Engine) UnitPrice(seat model.Seat, fallback float64) float64 {
	if p, ok := e.table[model.NormalizeSeatType(seat.SeatType)]; ok {
		return p
	}
	if p, ok := e.table[DefaultKey]; ok {
		return p
	}
	return fallback
}

// Line is one priced seat of a quote.
type Line struct {
	SeatID    uint64  `json:"seat_id"`
	Label     string  `json:"label"`
	SeatType  string  `json:"seat_type"`
	UnitPrice float64 `json:"unit_price"`
}

// Quote is the price summary of a selection.
type Quote struct {
	Lines      []Line  `json:"lines"`
	Subtotal   float64 `json:"subtotal"`
	ServiceFee float64 `json:"service_fee"`
	Total      float64 `json:"total"`
}

// Quote prices the seats in the order given.  fallback is the
// showtime's base price, used when the table has no entry.
func (e *Engine) Quote(seats []model.Seat, fallback float64) Quote {
	q := Quote{Lines: make([]Line, 0, len(seats)), ServiceFee: Round(e.serviceFee)}
	subtotal := 0.0
	for _, s := range seats {
		p := e.UnitPrice(s, fallback)
		subtotal += p
		q.Lines = append(q.Lines, Line{
			SeatID:    s.ID,
			Label:     s.Label(),
			SeatType:  model.NormalizeSeatType(s.SeatType),
			UnitPrice: Round(p),
		})
	}
	q.Subtotal = Round(subtotal)
	q.Total = Round(subtotal + e.serviceFee)
	return q
}

// Round rounds a monetary value to two decimals.
func Round(v float64) float64 {
	return math.Round(v*100) / 100
}

// Format renders a monetary value with two decimals.
func Format(v float64) string {
	return strconv.FormatFloat(Round(v), 'f', 2, 64)
}
