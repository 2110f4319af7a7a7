package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/cinema-seat-selection/internal/model"
)

func TestBuild(t *testing.T) {
	ix := Build([]model.Seat{{ID: 1}, {ID: 2}, {ID: 2}, {ID: 0}})

	assert.Equal(t, 2, ix.Len())
	assert.True(t, ix.Contains(1))
	assert.True(t, ix.Contains(2))
	assert.False(t, ix.Contains(3))
	assert.False(t, ix.Contains(0))
}

func TestZeroIndexIsEmpty(t *testing.T) {
	var ix Index
	assert.Equal(t, 0, ix.Len())
	assert.False(t, ix.Contains(1))

	assert.Equal(t, 0, Build(nil).Len())
}
