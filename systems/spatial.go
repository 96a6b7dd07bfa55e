// Package systems provides the rigid-body world and the game rules that
// operate on it.
package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// SpatialGrid is a uniform-cell broad phase. Bodies are inserted into every
// cell their bounding box touches; callers deduplicate pairs.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]int // body indices per cell
}

// NewSpatialGrid creates a grid covering the given area. Boxes outside the
// area are clamped onto the border cells.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]int, cols*rows)
	for i := range cells {
		cells[i] = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Clear removes all entries from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds body index idx to every cell overlapped by box.
func (g *SpatialGrid) Insert(idx int, box r2.Box) {
	c0, r0 := g.cellCoords(box.Min)
	c1, r1 := g.cellCoords(box.Max)
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			cell := r*g.cols + c
			g.cells[cell] = append(g.cells[cell], idx)
		}
	}
}

// ForEachCell calls fn with the occupants of every non-trivial cell.
func (g *SpatialGrid) ForEachCell(fn func(occupants []int)) {
	for _, cell := range g.cells {
		if len(cell) > 1 {
			fn(cell)
		}
	}
}

// cellCoords returns the clamped column and row for a position.
func (g *SpatialGrid) cellCoords(p r2.Vec) (col, row int) {
	col = int(math.Floor(p.X / g.cellSize))
	row = int(math.Floor(p.Y / g.cellSize))

	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}
