package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lata/telemetry"
)

// HUDData holds everything the scoreboard shows.
type HUDData struct {
	Score        int
	Level        int
	CansDown     int
	CansTotal    int
	Timer        int
	TimerTotal   int
	Phase        string // "idle", "running", "over"
	FPS          int32
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the scoreboard panel and the phase banners.
type HUD struct {
	renderer *Renderer
	width    int32
}

// NewHUD creates a HUD of the given panel width.
func NewHUD(width int32) *HUD {
	return &HUD{renderer: NewRenderer(), width: width}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	padding := r.Theme.Padding
	x, y := padding, padding

	r.DrawPanel(x, y, h.width, r.Theme.LineHeight*5+padding*2)
	x += padding
	y += padding

	y = r.DrawLabelValue(x, y, "Score", fmt.Sprintf("%d", data.Score))
	y = r.DrawLabelValue(x, y, "Level", fmt.Sprintf("%d", data.Level))
	y = r.DrawLabelValue(x, y, "Cans", fmt.Sprintf("%d / %d", data.CansDown, data.CansTotal))
	y = r.DrawCountdownBar(x, y, "Time", data.Timer, data.TimerTotal, h.width-padding*2)
	rl.DrawText(fmt.Sprintf("FPS %d", data.FPS), x, y, r.Theme.FontSize, r.Theme.LabelColor)

	cx := data.ScreenWidth / 2
	switch data.Phase {
	case "idle":
		r.DrawCentered("Knock down the cans", cx, data.ScreenHeight/3, 32, rl.DarkGray)
	case "over":
		r.DrawCentered("Time's up!", cx, data.ScreenHeight/3, 40, rl.Maroon)
		r.DrawCentered(fmt.Sprintf("Final score %d on level %d", data.Score, data.Level), cx, data.ScreenHeight/3+48, 20, rl.DarkGray)
	}
}

// DrawControls renders the key hint at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.DarkGray)
}

// PerfPanel renders tick timing per phase.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a perf panel at (x, y).
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// Draw renders the panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, phases []string) {
	r := p.renderer
	padding := r.Theme.Padding
	r.DrawPanel(p.x, p.y, p.width, int32(len(phases)+2)*r.Theme.LineHeight+padding*2)

	x := p.x + padding
	y := r.DrawSectionHeader(x, p.y+padding, "Tick timing")
	rl.DrawText(fmt.Sprintf("avg %s  max %s", stats.AvgTickDuration.Round(time.Microsecond), stats.MaxTickDuration.Round(time.Microsecond)),
		x, y, r.Theme.FontSize, r.Theme.ValueColor)
	y += r.Theme.LineHeight

	for _, name := range phases {
		pct := stats.PhasePct[name]
		color := r.Theme.LabelColor
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}
		rl.DrawText(fmt.Sprintf("%-11s %6s %5.1f%%", name, stats.PhaseAvg[name].Round(time.Microsecond), pct),
			x, y, r.Theme.FontSize-2, color)
		y += r.Theme.LineHeight
	}
}
