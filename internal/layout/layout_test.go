package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	g, err := Parse([]string{
		"01- ",
		"3 10",
	})
	require.NoError(t, err)

	rows := g.Rows()
	require.Len(t, rows, 2)
	require.Len(t, rows[0], 4)

	assert.Equal(t, CellTaken, rows[0][0].Kind)
	assert.Equal(t, CellSeat, rows[0][1].Kind)
	assert.Equal(t, CellDivider, rows[0][2].Kind)
	assert.Equal(t, CellBlank, rows[0][3].Kind)
	assert.Equal(t, CellPillar, rows[1][0].Kind)

	seats := g.Seats()
	require.Len(t, seats, 2)
	assert.Equal(t, "0-1", seats[0].SeatID())
	assert.Equal(t, "1-2", seats[1].SeatID())
}

func TestParse_UnknownCharacter(t *testing.T) {
	_, err := Parse([]string{"0x0"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown layout character")
}

func TestIsSeat(t *testing.T) {
	g := ForRestaurant("한빛식당")

	assert.True(t, g.IsSeat("0-3"))
	assert.True(t, g.IsSeat("0-7"))
	assert.False(t, g.IsSeat("0-0"), "permanently occupied cell is not reservable")
	assert.False(t, g.IsSeat("5-5"), "out of bounds")
	assert.False(t, g.IsSeat("garbage"))
}

func TestIsSeat_NonCanonicalID(t *testing.T) {
	g := ForRestaurant("한빛식당")

	// These all parse to cell (0,3) but name a different string than the
	// seat's stored id, so reservation checks against "0-3" would miss them.
	assert.False(t, g.IsSeat("0-3x"))
	assert.False(t, g.IsSeat("00-3"))
	assert.False(t, g.IsSeat("0-03"))
	assert.False(t, g.IsSeat(" 0-3"))
	assert.False(t, g.IsSeat("0-3 "))
	assert.False(t, g.IsSeat("+0-3"))
}

func TestForRestaurant_Fallback(t *testing.T) {
	g := ForRestaurant("없는식당")
	require.NotNil(t, g)

	seats := g.Seats()
	require.Len(t, seats, 1)
	assert.Equal(t, "1-2", seats[0].SeatID())
}

func TestRestaurantsHaveSeats(t *testing.T) {
	for _, name := range Restaurants() {
		g := ForRestaurant(name)
		assert.NotEmpty(t, g.Seats(), name)
	}
}

func TestCellLookup(t *testing.T) {
	g := ForRestaurant("은하수식당")

	cell, ok := g.Cell(1, 1)
	require.True(t, ok)
	assert.Equal(t, CellSeat, cell.Kind)

	_, ok = g.Cell(-1, 0)
	assert.False(t, ok)
	_, ok = g.Cell(0, 99)
	assert.False(t, ok)
}
