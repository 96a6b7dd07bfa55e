package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lata/components"
	"github.com/pthm-cable/lata/systems"
)

// InspectorData holds the selected body and its can state.
type InspectorData struct {
	Body systems.BodyView
	Down bool // counted as knocked down this level
}

// Inspector renders the body inspection panel.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the inspector panel for the given data.
func (ins *Inspector) Draw(data InspectorData) {
	r := ins.renderer
	padding := r.Theme.Padding
	r.DrawPanel(ins.x, ins.y, ins.width, r.Theme.LineHeight*10+padding*2)

	b := data.Body
	x := ins.x + padding
	y := r.DrawSectionHeader(x, ins.y+padding, b.Kind.String())

	state := "dynamic"
	switch {
	case b.Static:
		state = "static"
	case b.Sleeping:
		state = "asleep"
	}

	y = r.DrawLabelValue(x, y, "State", state)
	y = r.DrawLabelValue(x, y, "Pos", fmt.Sprintf("%.1f, %.1f", b.Pos.X, b.Pos.Y))
	y = r.DrawLabelValue(x, y, "Angle", fmt.Sprintf("%.2f rad", b.Angle))
	y = r.DrawLabelValue(x, y, "Vel", fmt.Sprintf("%.1f, %.1f", b.Vel.X, b.Vel.Y))
	y = r.DrawLabelValue(x, y, "Spin", fmt.Sprintf("%.2f rad/s", b.AngVel))
	y = r.DrawLabelValue(x, y, "Mass", fmt.Sprintf("%.3f", b.Mass))
	if b.Shape.Kind == components.ShapeCircle {
		y = r.DrawLabelValue(x, y, "Radius", fmt.Sprintf("%.0f", b.Shape.Radius))
	} else {
		y = r.DrawLabelValue(x, y, "Size", fmt.Sprintf("%.0f x %.0f", 2*b.Shape.HalfW, 2*b.Shape.HalfH))
	}
	if data.Down {
		rl.DrawText("DOWN", x, y, r.Theme.FontSize, r.Theme.BarFillLow)
	}
}

// PickBody returns the body under p, preferring the last drawn.
func PickBody(bodies []systems.BodyView, px, py float64) (systems.BodyView, bool) {
	for i := len(bodies) - 1; i >= 0; i-- {
		b := bodies[i]
		dx, dy := px-b.Pos.X, py-b.Pos.Y
		if b.Shape.Kind == components.ShapeCircle {
			if dx*dx+dy*dy <= b.Shape.Radius*b.Shape.Radius {
				return b, true
			}
			continue
		}
		c, s := math.Cos(-b.Angle), math.Sin(-b.Angle)
		lx, ly := dx*c-dy*s, dx*s+dy*c
		if math.Abs(lx) <= b.Shape.HalfW && math.Abs(ly) <= b.Shape.HalfH {
			return b, true
		}
	}
	return systems.BodyView{}, false
}
