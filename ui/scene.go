package ui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lata/components"
	"github.com/pthm-cable/lata/game"
	"github.com/pthm-cable/lata/systems"
)

// Scene draws the play field: boundaries, cans, slipper and the band.
type Scene struct {
	theme Theme
}

// NewScene creates a scene with the default theme.
func NewScene() *Scene {
	return &Scene{theme: DefaultTheme()}
}

// SceneData is one frame's worth of world state.
type SceneData struct {
	Bodies   []systems.BodyView
	Sling    game.SlingshotView
	IsDown   func(systems.BodyID) bool
	FloorY   float64
	Selected systems.BodyID
	Width    float64
}

// Draw renders the field and any enabled overlays.
func (s *Scene) Draw(data SceneData, overlays *OverlayRegistry) {
	s.drawSlingFrame(data.Sling)

	for _, b := range data.Bodies {
		color := s.bodyColor(b, data.IsDown)
		switch b.Shape.Kind {
		case components.ShapeCircle:
			rl.DrawCircleV(vec(b.Pos.X, b.Pos.Y), float32(b.Shape.Radius), color)
		case components.ShapeBox:
			drawBox(b, color)
		}

		if overlays.IsEnabled(OverlaySleep) && b.Sleeping {
			drawBox(b, s.theme.Sleeping)
		}
		if overlays.IsEnabled(OverlayBounds) {
			drawAABB(b)
		}
		if overlays.IsEnabled(OverlayVelocity) && !b.Static {
			end := vec(b.Pos.X+b.Vel.X*0.1, b.Pos.Y+b.Vel.Y*0.1)
			rl.DrawLineV(vec(b.Pos.X, b.Pos.Y), end, rl.DarkGreen)
		}
		if b.ID == data.Selected && !data.Selected.IsZero() {
			drawOutline(b, rl.Gold)
		}
	}

	s.drawBand(data.Sling)

	if overlays.IsEnabled(OverlayKnock) {
		y := int32(data.FloorY)
		rl.DrawLine(0, y, int32(data.Width), y, rl.Red)
	}
}

func (s *Scene) bodyColor(b systems.BodyView, isDown func(systems.BodyID) bool) rl.Color {
	switch b.Kind {
	case components.KindSlipper:
		return s.theme.Slipper
	case components.KindCan:
		if isDown != nil && isDown(b.ID) {
			return s.theme.CanDown
		}
		if !b.Static {
			return s.theme.CanActive
		}
		return s.theme.Can
	}
	return s.theme.Boundary
}

// drawSlingFrame draws the fork under the anchor.
func (s *Scene) drawSlingFrame(sl game.SlingshotView) {
	a := sl.Anchor
	base := vec(a.X, a.Y+70)
	fork := vec(a.X, a.Y+25)
	rl.DrawLineEx(base, fork, 8, s.theme.Band)
	rl.DrawLineEx(fork, vec(a.X-18, a.Y-10), 6, s.theme.Band)
	rl.DrawLineEx(fork, vec(a.X+18, a.Y-10), 6, s.theme.Band)
}

// drawBand draws the elastic from the fork tips to the drag point while
// aiming.
func (s *Scene) drawBand(sl game.SlingshotView) {
	if sl.State != systems.SlingAiming {
		return
	}
	a, d := sl.Anchor, sl.DragPoint
	p := vec(d.X, d.Y)
	rl.DrawLineEx(vec(a.X-18, a.Y-10), p, 3, rl.Brown)
	rl.DrawLineEx(vec(a.X+18, a.Y-10), p, 3, rl.Brown)
	rl.DrawCircleLines(int32(a.X), int32(a.Y), float32(sl.MaxPull), rl.Fade(rl.Brown, 0.3))
}

func drawBox(b systems.BodyView, color rl.Color) {
	if b.Shape.Kind != components.ShapeBox {
		rl.DrawCircleV(vec(b.Pos.X, b.Pos.Y), float32(b.Shape.Radius), color)
		return
	}
	w, h := float32(2*b.Shape.HalfW), float32(2*b.Shape.HalfH)
	rl.DrawRectanglePro(
		rl.Rectangle{X: float32(b.Pos.X), Y: float32(b.Pos.Y), Width: w, Height: h},
		rl.Vector2{X: w / 2, Y: h / 2},
		float32(b.Angle*180/math.Pi),
		color,
	)
}

func drawOutline(b systems.BodyView, color rl.Color) {
	if b.Shape.Kind == components.ShapeCircle {
		rl.DrawCircleLines(int32(b.Pos.X), int32(b.Pos.Y), float32(b.Shape.Radius)+2, color)
		return
	}
	c, s := math.Cos(b.Angle), math.Sin(b.Angle)
	hw, hh := b.Shape.HalfW, b.Shape.HalfH
	var pts [5]rl.Vector2
	for i, l := range [4][2]float64{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}} {
		pts[i] = vec(b.Pos.X+l[0]*c-l[1]*s, b.Pos.Y+l[0]*s+l[1]*c)
	}
	pts[4] = pts[0]
	rl.DrawLineStrip(pts[:], color)
}

func drawAABB(b systems.BodyView) {
	var hw, hh float64
	if b.Shape.Kind == components.ShapeCircle {
		hw, hh = b.Shape.Radius, b.Shape.Radius
	} else {
		c, s := math.Abs(math.Cos(b.Angle)), math.Abs(math.Sin(b.Angle))
		hw = b.Shape.HalfW*c + b.Shape.HalfH*s
		hh = b.Shape.HalfW*s + b.Shape.HalfH*c
	}
	rl.DrawRectangleLines(int32(b.Pos.X-hw), int32(b.Pos.Y-hh), int32(2*hw), int32(2*hh), rl.SkyBlue)
}

func vec(x, y float64) rl.Vector2 {
	return rl.Vector2{X: float32(x), Y: float32(y)}
}
