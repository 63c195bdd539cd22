// Package layout defines the fixed seating grid of each restaurant. Grids
// are parsed once from compact template strings at package init and then
// served as immutable cell matrices indexed by row and column.
package layout

import "fmt"

// CellKind classifies one grid cell.
type CellKind int

const (
	// CellBlank is empty floor, rendered as nothing.
	CellBlank CellKind = iota
	// CellSeat is a reservable seat.
	CellSeat
	// CellTaken is a permanently occupied decorative seat, never bookable.
	CellTaken
	// CellDivider is a table or aisle marker.
	CellDivider
	// CellPillar is a structural pillar.
	CellPillar
)

func (k CellKind) String() string {
	switch k {
	case CellBlank:
		return "blank"
	case CellSeat:
		return "seat"
	case CellTaken:
		return "taken"
	case CellDivider:
		return "divider"
	case CellPillar:
		return "pillar"
	default:
		return "unknown"
	}
}

// Cell is one position in a restaurant grid.
type Cell struct {
	Row  int
	Col  int
	Kind CellKind
}

// SeatID returns the canonical "row-col" seat identifier.
func (c Cell) SeatID() string {
	return fmt.Sprintf("%d-%d", c.Row, c.Col)
}

// Grid is a parsed, immutable seating plan.
type Grid struct {
	rows  [][]Cell
	seats []Cell
}

// Rows returns the cell matrix.
func (g *Grid) Rows() [][]Cell {
	return g.rows
}

// Seats returns every reservable cell in row-major order.
func (g *Grid) Seats() []Cell {
	return g.seats
}

// Cell looks up a position; ok is false outside the grid.
func (g *Grid) Cell(row, col int) (Cell, bool) {
	if row < 0 || row >= len(g.rows) {
		return Cell{}, false
	}
	if col < 0 || col >= len(g.rows[row]) {
		return Cell{}, false
	}
	return g.rows[row][col], true
}

// IsSeat reports whether the seat id names a reservable cell. Only the
// canonical "row-col" form counts; ids with extra characters would bypass
// the seat's stored reservations.
func (g *Grid) IsSeat(seatID string) bool {
	var row, col int
	if _, err := fmt.Sscanf(seatID, "%d-%d", &row, &col); err != nil {
		return false
	}
	cell, ok := g.Cell(row, col)
	return ok && cell.Kind == CellSeat && cell.SeatID() == seatID
}

// Template characters, carried over from the original floor plans:
// '1' reservable seat, '0' permanently occupied seat, '-' divider,
// '3' pillar, ' ' blank floor.
func kindOf(ch rune) (CellKind, error) {
	switch ch {
	case '1':
		return CellSeat, nil
	case '0':
		return CellTaken, nil
	case '-':
		return CellDivider, nil
	case '3':
		return CellPillar, nil
	case ' ':
		return CellBlank, nil
	default:
		return CellBlank, fmt.Errorf("unknown layout character %q", ch)
	}
}

// Parse builds a Grid from template lines.
func Parse(lines []string) (*Grid, error) {
	g := &Grid{}
	for r, line := range lines {
		var row []Cell
		for c, ch := range line {
			kind, err := kindOf(ch)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", r, c, err)
			}
			cell := Cell{Row: r, Col: c, Kind: kind}
			row = append(row, cell)
			if kind == CellSeat {
				g.seats = append(g.seats, cell)
			}
		}
		g.rows = append(g.rows, row)
	}
	return g, nil
}

func mustParse(lines []string) *Grid {
	g, err := Parse(lines)
	if err != nil {
		panic(err)
	}
	return g
}

// Restaurant floor plans. Unknown restaurant names fall back to
// defaultGrid, so a new cafeteria still renders something bookable.
var (
	grids = map[string]*Grid{
		"한빛식당": mustParse([]string{
			"00010001",
		}),
		"별빛식당": mustParse([]string{
			"111111",
			"------",
			"000000",
		}),
		"은하수식당": mustParse([]string{
			"000 000",
			" 1   1 ",
			"000 000",
		}),
	}

	defaultGrid = mustParse([]string{
		"0000",
		"0 10",
		"0000",
	})
)

// ForRestaurant returns the grid for the named restaurant, or the default
// grid for unknown names.
func ForRestaurant(name string) *Grid {
	if g, ok := grids[name]; ok {
		return g
	}
	return defaultGrid
}

// Restaurants lists the names with a dedicated floor plan.
func Restaurants() []string {
	return []string{"한빛식당", "별빛식당", "은하수식당"}
}
