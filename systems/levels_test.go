package systems

import (
	"math"
	"testing"
)

func testLayout() PyramidLayout {
	return PyramidLayout{
		CanW: 40, CanH: 60,
		HGap: 4, VGap: 2,
		CenterX: 600,
		GroundY: 580,
		MinX:    20,
		MaxX:    780,
	}
}

func rowCounts(ps []Placement) []int {
	var rows []int
	for _, p := range ps {
		for len(rows) <= p.Row {
			rows = append(rows, 0)
		}
		rows[p.Row]++
	}
	return rows
}

func TestPyramidRows(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{0, 0}, {1, 1}, {2, 2}, {3, 2}, {4, 3}, {5, 3}, {6, 3}, {7, 4}, {10, 4}, {11, 5},
	}
	for _, tt := range tests {
		if got := PyramidRows(tt.n); got != tt.want {
			t.Errorf("PyramidRows(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestBuildLevelShapes(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want []int
	}{
		{"five", 5, []int{3, 2}},
		{"six", 6, []int{3, 2, 1}},
		{"seven", 7, []int{4, 3}},
		{"nine", 9, []int{4, 3, 2}},
		{"one", 1, []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := BuildLevel(tt.n, testLayout())
			if len(ps) != tt.n {
				t.Fatalf("got %d placements, want %d", len(ps), tt.n)
			}
			got := rowCounts(ps)
			if len(got) != len(tt.want) {
				t.Fatalf("rows = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("rows = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestBuildLevelEmpty(t *testing.T) {
	for _, n := range []int{0, -3} {
		if ps := BuildLevel(n, testLayout()); len(ps) != 0 {
			t.Errorf("BuildLevel(%d) = %d placements, want 0", n, len(ps))
		}
	}
}

func TestBuildLevelGeometry(t *testing.T) {
	l := testLayout()
	ps := BuildLevel(5, l)

	// Base row stands on the ground, centered on CenterX.
	base := ps[:3]
	for _, p := range base {
		if math.Abs(p.Pos.Y-550) > 1e-9 {
			t.Errorf("base can at y=%v, want 550", p.Pos.Y)
		}
	}
	if mid := base[1].Pos.X; math.Abs(mid-600) > 1e-9 {
		t.Errorf("base center x=%v, want 600", mid)
	}
	if dx := base[1].Pos.X - base[0].Pos.X; math.Abs(dx-44) > 1e-9 {
		t.Errorf("base spacing %v, want 44", dx)
	}

	// Second row sits one can height plus gap higher, between the base cans.
	top := ps[3:]
	for _, p := range top {
		if math.Abs(p.Pos.Y-488) > 1e-9 {
			t.Errorf("row 1 can at y=%v, want 488", p.Pos.Y)
		}
	}
	if math.Abs(top[0].Pos.X-578) > 1e-9 || math.Abs(top[1].Pos.X-622) > 1e-9 {
		t.Errorf("row 1 x = %v, %v; want 578, 622", top[0].Pos.X, top[1].Pos.X)
	}
}

func TestBuildLevelNoOverlap(t *testing.T) {
	l := testLayout()
	for n := 1; n <= 15; n++ {
		ps := BuildLevel(n, l)
		for i := range ps {
			for j := i + 1; j < len(ps); j++ {
				dx := math.Abs(ps[i].Pos.X - ps[j].Pos.X)
				dy := math.Abs(ps[i].Pos.Y - ps[j].Pos.Y)
				if dx < l.CanW && dy < l.CanH {
					t.Fatalf("n=%d: cans %d and %d overlap", n, i, j)
				}
			}
		}
	}
}

func TestBuildLevelStaysInsideWalls(t *testing.T) {
	l := testLayout()
	l.CenterX = 760 // would push the base past the right wall
	ps := BuildLevel(10, l)
	for _, p := range ps {
		if p.Pos.X+l.CanW/2 > l.MaxX+1e-9 || p.Pos.X-l.CanW/2 < l.MinX-1e-9 {
			t.Errorf("can at x=%v outside [%v, %v]", p.Pos.X, l.MinX, l.MaxX)
		}
	}
}

func TestBuildLevelDeterministic(t *testing.T) {
	a := BuildLevel(9, testLayout())
	b := BuildLevel(9, testLayout())
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("placement %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestRowCountNonDecreasing(t *testing.T) {
	prev := 0
	for n := 1; n <= 30; n++ {
		rows := PyramidRows(n)
		if rows < prev {
			t.Errorf("rows dropped from %d to %d at n=%d", prev, rows, n)
		}
		if filled := len(rowCounts(BuildLevel(n, testLayout()))); filled > rows {
			t.Errorf("n=%d fills %d rows, more than %d", n, filled, rows)
		}
		prev = rows
	}
}
