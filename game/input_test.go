package game

import (
	"reflect"
	"testing"
)

func TestPointerFrameQueuesEvents(t *testing.T) {
	tests := []struct {
		name  string
		frame PointerFrame
		want  []pointerKind
	}{
		{"idle", PointerFrame{}, nil},
		{"press", PointerFrame{Pressed: true, Down: true}, []pointerKind{pointerDown}},
		{"drag", PointerFrame{Down: true, Moved: true}, []pointerKind{pointerMove}},
		{"held still", PointerFrame{Down: true}, nil},
		{"release", PointerFrame{Released: true, Moved: true}, []pointerKind{pointerUp}},
		{"click in one frame", PointerFrame{Pressed: true, Released: true}, []pointerKind{pointerDown, pointerUp}},
		{"press while moving", PointerFrame{Pressed: true, Down: true, Moved: true}, []pointerKind{pointerDown}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, nil)
			tt.frame.X, tt.frame.Y = 150, 450
			g.Pointer(tt.frame)

			var got []pointerKind
			for _, in := range g.inputs {
				got = append(got, in.kind)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("queued %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPointerFrameFastFlickLaunches(t *testing.T) {
	g := newTestGame(t, nil)
	g.StartRound()

	a := g.cfg.Derived.Anchor
	g.Pointer(PointerFrame{X: a.X, Y: a.Y, Pressed: true, Down: true})
	g.Step()
	// The pull and the release land in the same polled frame.
	g.Pointer(PointerFrame{X: a.X - 120, Y: a.Y + 10, Released: true, Moved: true})

	if n := countEvents(g.Step(), EventLaunched); n != 1 {
		t.Fatalf("launched = %d, want 1", n)
	}
	if v, _ := g.Slipper(); v.Static {
		t.Error("slipper should be flying")
	}
}
