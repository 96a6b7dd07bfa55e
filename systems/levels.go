package systems

import "gonum.org/v1/gonum/spatial/r2"

// PyramidLayout holds the geometry for BuildLevel.
type PyramidLayout struct {
	CanW, CanH float64
	HGap, VGap float64
	CenterX    float64
	GroundY    float64 // top surface the base row stands on
	MinX, MaxX float64 // usable horizontal range
}

// Placement is one can's center and its position in the pyramid.
type Placement struct {
	Pos      r2.Vec
	Row, Col int // row 0 is the base
}

// PyramidRows returns the row count for n cans: the smallest r whose
// triangle r(r+1)/2 holds all n.
func PyramidRows(n int) int {
	r := 0
	for r*(r+1)/2 < n {
		r++
	}
	return r
}

// BuildLevel lays out n cans as a pyramid standing on GroundY. Row i from
// the base holds rows-i slots centered over the row below; the last row may
// be partial and fills from the left. The result depends only on n and the
// layout.
func BuildLevel(n int, l PyramidLayout) []Placement {
	if n <= 0 {
		return nil
	}
	rows := PyramidRows(n)
	stepX := l.CanW + l.HGap
	stepY := l.CanH + l.VGap

	// Keep the base row inside the walls.
	baseW := float64(rows)*l.CanW + float64(rows-1)*l.HGap
	cx := l.CenterX
	if l.MaxX > l.MinX {
		if cx-baseW/2 < l.MinX {
			cx = l.MinX + baseW/2
		}
		if cx+baseW/2 > l.MaxX {
			cx = l.MaxX - baseW/2
		}
	}

	out := make([]Placement, 0, n)
	for row := 0; row < rows && len(out) < n; row++ {
		slots := rows - row
		left := cx - float64(slots-1)*stepX/2
		y := l.GroundY - l.CanH/2 - float64(row)*stepY
		for col := 0; col < slots && len(out) < n; col++ {
			out = append(out, Placement{
				Pos: r2.Vec{X: left + float64(col)*stepX, Y: y},
				Row: row,
				Col: col,
			})
		}
	}
	return out
}
