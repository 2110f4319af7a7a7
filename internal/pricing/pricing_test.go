package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-seat-selection/internal/model"
)

func TestQuoteSingleRecliner(t *testing.T) {
	e := NewEngine(Table{"recliner": 18.00, "STANDARD": 12.50}, 2.00)
	b5 := model.Seat{ID: 25, RowLabel: "B", SeatNumber: 5, SeatType: "recliner"}

	q := e.Quote([]model.Seat{b5}, 0)
	assert.Equal(t, 18.00, q.Subtotal)
	assert.Equal(t, 20.00, q.Total)
	require.Len(t, q.Lines, 1)
	assert.Equal(t, "B5", q.Lines[0].Label)
	assert.Equal(t, "RECLINER", q.Lines[0].SeatType)
}

func TestUnitPriceFallbacks(t *testing.T) {
	cases := []struct {
		name  string
		table Table
		seat  string
		base  float64
		want  float64
	}{
		{"listed type", Table{"VIP": 20, DefaultKey: 10}, "vip", 9, 20},
		{"default entry", Table{"VIP": 20, DefaultKey: 10}, "STANDARD", 9, 10},
		{"showtime price", Table{"VIP": 20}, "STANDARD", 9, 9},
		{"empty table", nil, "", 7.5, 7.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEngine(tc.table, 0)
			assert.Equal(t, tc.want, e.UnitPrice(model.Seat{SeatType: tc.seat}, tc.base))
		})
	}
}

func TestQuoteRounding(t *testing.T) {
	e := NewEngine(Table{DefaultKey: 0.1}, 0.2)
	seats := []model.Seat{{ID: 1}, {ID: 2}}

	q := e.Quote(seats, 0)
	assert.Equal(t, 0.2, q.Subtotal)
	assert.Equal(t, 0.4, q.Total)
	assert.Equal(t, "0.40", Format(q.Total))
}

func TestEmptyQuote(t *testing.T) {
	q := NewEngine(Table{DefaultKey: 10}, 2).Quote(nil, 0)
	assert.Empty(t, q.Lines)
	assert.Equal(t, 0.0, q.Subtotal)
	assert.Equal(t, 2.0, q.Total)
}

func TestParseTable(t *testing.T) {
	tb, err := ParseTable(" standard=12.50, RECLINER=18 ,default=10,")
	require.NoError(t, err)
	assert.Equal(t, Table{"STANDARD": 12.5, "RECLINER": 18, DefaultKey: 10}, tb)

	tb, err = ParseTable("")
	require.NoError(t, err)
	assert.Empty(t, tb)

	for _, bad := range []string{"STANDARD", "=3", "VIP=abc", "VIP=-1"} {
		_, err := ParseTable(bad)
		assert.ErrorIs(t, err, ErrInvalidTable, bad)
	}
}
