package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lata/game"
	"github.com/pthm-cable/lata/systems"
	"github.com/pthm-cable/lata/telemetry"
)

// Viewer is the graphical front end for a Game. It owns nothing of the
// game state; it reads queries, forwards input and ticks the round timer
// once per wall-clock second.
type Viewer struct {
	game *game.Game

	scene     *Scene
	hud       *HUD
	perf      *PerfPanel
	controls  *ControlsPanel
	inspector *Inspector
	overlays  *OverlayRegistry

	selected systems.BodyID
	timerAcc float64
	lastX    float32
	lastY    float32
}

// NewViewer creates a viewer for g. The raylib window must already be open.
func NewViewer(g *game.Game) *Viewer {
	w := int32(g.Config().Screen.Width)
	return &Viewer{
		game:      g,
		scene:     NewScene(),
		hud:       NewHUD(200),
		perf:      NewPerfPanel(w-250, 10, 240),
		controls:  NewControlsPanel(10, 150, 240),
		inspector: NewInspector(w-210, 200, 200),
		overlays:  NewOverlayRegistry(),
	}
}

// Update handles one frame of input and advances the simulation by the
// frame time.
func (v *Viewer) Update() {
	g := v.game
	frame := float64(rl.GetFrameTime())

	v.overlays.HandleInput()
	if rl.IsKeyPressed(rl.KeyF1) {
		v.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyEnter) {
		v.startOrRestart()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.ResetSlipper()
	}

	v.handlePointer()

	if g.Phase() == game.PhaseRunning {
		v.timerAcc += frame
		for v.timerAcc >= 1 && g.Phase() == game.PhaseRunning {
			v.timerAcc--
			g.TickTimer()
		}
	} else {
		v.timerAcc = 0
	}

	g.Advance(frame)
	g.RecordFrame()
}

func (v *Viewer) startOrRestart() {
	if v.game.Phase() == game.PhaseIdle {
		v.game.StartRound()
	} else {
		v.game.RestartRound()
	}
	v.selected = systems.BodyID{}
	v.timerAcc = 0
}

// handlePointer forwards the left mouse button as pointer events. The
// right button selects a body for the inspector.
func (v *Viewer) handlePointer() {
	m := rl.GetMousePosition()
	x, y := float64(m.X), float64(m.Y)

	v.game.Pointer(game.PointerFrame{
		X:        x,
		Y:        y,
		Pressed:  rl.IsMouseButtonPressed(rl.MouseButtonLeft),
		Released: rl.IsMouseButtonReleased(rl.MouseButtonLeft),
		Down:     rl.IsMouseButtonDown(rl.MouseButtonLeft),
		Moved:    m.X != v.lastX || m.Y != v.lastY,
	})
	v.lastX, v.lastY = m.X, m.Y

	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		if b, ok := PickBody(v.game.Bodies(), x, y); ok {
			v.selected = b.ID
		} else {
			v.selected = systems.BodyID{}
		}
	}
}

// Draw renders one frame.
func (v *Viewer) Draw() {
	g := v.game
	cfg := g.Config()

	rl.BeginDrawing()
	rl.ClearBackground(v.scene.theme.Background)

	v.scene.Draw(SceneData{
		Bodies:   g.Bodies(),
		Sling:    g.Slingshot(),
		IsDown:   g.IsDown,
		FloorY:   cfg.Knock.FloorY,
		Selected: v.selected,
		Width:    cfg.Field.Width,
	}, v.overlays)

	r := g.Round()
	v.hud.Draw(HUDData{
		Score:        r.Score,
		Level:        r.Level,
		CansDown:     r.CansDown,
		CansTotal:    r.CansTotal,
		Timer:        r.Timer,
		TimerTotal:   cfg.Round.Timer,
		Phase:        r.Phase().String(),
		FPS:          rl.GetFPS(),
		ScreenWidth:  int32(cfg.Screen.Width),
		ScreenHeight: int32(cfg.Screen.Height),
	})
	v.hud.DrawControls(int32(cfg.Screen.Height), "Drag to aim | R reload | Enter restart | F1 help")

	v.drawButtons(r.Phase())

	v.controls.Draw(v.overlays)
	if v.overlays.IsEnabled(OverlayPerf) {
		v.perf.Draw(g.PerfStats(), telemetry.Phases())
	}
	if !v.selected.IsZero() {
		if b, ok := findBody(g.Bodies(), v.selected); ok {
			v.inspector.Draw(InspectorData{Body: b, Down: g.IsDown(b.ID)})
		} else {
			v.selected = systems.BodyID{}
		}
	}

	rl.EndDrawing()
}

// drawButtons shows Start or Play Again while no round is running.
func (v *Viewer) drawButtons(phase game.Phase) {
	cfg := v.game.Config()
	rect := rl.Rectangle{
		X:      float32(cfg.Screen.Width)/2 - 70,
		Y:      float32(cfg.Screen.Height) / 2,
		Width:  140,
		Height: 36,
	}
	switch phase {
	case game.PhaseIdle:
		if gui.Button(rect, "Start") {
			v.startOrRestart()
		}
	case game.PhaseOver:
		if gui.Button(rect, "Play Again") {
			v.startOrRestart()
		}
	}
}

func findBody(bodies []systems.BodyView, id systems.BodyID) (systems.BodyView, bool) {
	for _, b := range bodies {
		if b.ID == id {
			return b, true
		}
	}
	return systems.BodyView{}, false
}
