package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// keyBinding is a fixed game key shown in the help panel.
type keyBinding struct {
	label string
	name  string
}

var gameKeys = []keyBinding{
	{"Drag", "Aim and release to shoot"},
	{"R", "Reload slipper"},
	{"Enter", "Start / restart round"},
	{"F1", "Toggle this panel"},
}

// ControlsPanel lists key bindings and the overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a hidden controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the panel when visible.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) {
	if !c.visible {
		return
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	categories := overlays.Categories()
	rows := len(gameKeys) + 1
	for _, cat := range categories {
		rows += len(overlays.ByCategory(cat)) + 1
	}
	r.DrawPanel(c.x, c.y, c.width, int32(rows)*lineHeight+padding*3)

	y := c.y + padding
	x := c.x + padding
	inner := c.width - padding*2

	y = r.DrawSectionHeader(x, y, "Controls")
	for _, k := range gameKeys {
		c.drawKeyLine(x, y, k.name, k.label, false, false, inner)
		y += lineHeight
	}

	for _, category := range categories {
		y += 4
		y = r.DrawSectionHeader(x, y, categoryLabel(category))
		for _, desc := range overlays.ByCategory(category) {
			c.drawKeyLine(x, y, desc.Name, desc.KeyLabel, true, overlays.IsEnabled(desc.ID), inner)
			y += lineHeight
		}
	}
}

// drawKeyLine draws one name with its key right aligned. Toggles get a
// status square.
func (c *ControlsPanel) drawKeyLine(x, y int32, name, key string, toggle, enabled bool, width int32) {
	r := c.renderer

	nameX := x
	nameColor := r.Theme.LabelColor
	if toggle {
		status := rl.Color{R: 80, G: 80, B: 80, A: 255}
		if enabled {
			status = r.Theme.BarFillHigh
			nameColor = rl.White
		}
		rl.DrawRectangle(x, y+3, 8, 8, status)
		nameX += 14
	}
	rl.DrawText(name, nameX, y, r.Theme.FontSize, nameColor)

	if key != "" {
		keyText := fmt.Sprintf("[%s]", key)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

func categoryLabel(cat string) string {
	switch cat {
	case "physics":
		return "Physics"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}
