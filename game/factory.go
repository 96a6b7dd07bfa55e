package game

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/lata/components"
	"github.com/pthm-cable/lata/config"
	"github.com/pthm-cable/lata/systems"
)

// worldConfig maps physics config onto the world.
func worldConfig(cfg *config.Config) systems.WorldConfig {
	return systems.WorldConfig{
		Width:             cfg.Field.Width,
		Height:            cfg.Field.Height,
		Gravity:           cfg.Derived.Gravity,
		Iterations:        cfg.Physics.Iterations,
		GridCellSize:      cfg.Physics.GridCellSize,
		CorrectionPercent: cfg.Physics.CorrectionPercent,
		CorrectionSlop:    cfg.Physics.CorrectionSlop,
		BounceThreshold:   cfg.Physics.BounceThreshold,
		SleepTime:         cfg.Physics.SleepTime,
		SleepLinear:       cfg.Physics.SleepLinear,
		SleepAngular:      cfg.Physics.SleepAngular,
	}
}

func slingshotConfig(cfg *config.Config) systems.SlingshotConfig {
	return systems.SlingshotConfig{
		Anchor:         cfg.Derived.Anchor,
		Field:          r2.Box{Max: r2.Vec{X: cfg.Field.Width, Y: cfg.Field.Height}},
		Hold:           cfg.Derived.SlipperHold,
		MaxPull:        cfg.Slingshot.MaxPull,
		MinPull:        cfg.Slingshot.MinPull,
		VelocityScale:  cfg.Slingshot.VelocityScale,
		MinLaunchSpeed: cfg.Slingshot.MinLaunchSpeed,
	}
}

func pyramidLayout(cfg *config.Config) systems.PyramidLayout {
	return systems.PyramidLayout{
		CanW:    cfg.Can.Width,
		CanH:    cfg.Can.Height,
		HGap:    cfg.Level.HGap,
		VGap:    cfg.Level.VGap,
		CenterX: cfg.Level.CenterX,
		GroundY: cfg.Derived.GroundTop,
		MinX:    cfg.Derived.Bounds.Min.X,
		MaxX:    cfg.Derived.Bounds.Max.X,
	}
}

// buildWorld creates a fresh world with boundaries and the slipper at the
// anchor. Any previous world and its ids are dropped.
func (g *Game) buildWorld() {
	cfg := g.cfg
	g.world = systems.NewWorld(worldConfig(cfg))
	g.boundaries = g.boundaries[:0]
	g.cans = nil

	w, h, t := cfg.Field.Width, cfg.Field.Height, cfg.Field.WallThickness
	wall := components.Material{Restitution: cfg.Field.WallRestitution, Friction: cfg.Field.WallFriction}
	for _, b := range []struct {
		kind components.Kind
		pos  r2.Vec
		size r2.Vec
	}{
		{components.KindGround, r2.Vec{X: w / 2, Y: h - t/2}, r2.Vec{X: w + t/2, Y: t}},
		{components.KindWall, r2.Vec{X: t / 2, Y: h / 2}, r2.Vec{X: t, Y: h}},
		{components.KindWall, r2.Vec{X: w - t/2, Y: h / 2}, r2.Vec{X: t, Y: h}},
		{components.KindCeiling, r2.Vec{X: w / 2, Y: t / 2}, r2.Vec{X: w + t/2, Y: t}},
	} {
		id := g.world.AddBody(systems.BodyDef{
			Kind:     b.kind,
			Shape:    components.Shape{Kind: components.ShapeBox, HalfW: b.size.X / 2, HalfH: b.size.Y / 2},
			Pos:      b.pos,
			Static:   true,
			Material: wall,
		})
		g.boundaries = append(g.boundaries, id)
	}

	g.slipper = g.world.AddBody(slipperDef(cfg))
	g.sling = systems.NewSlingshot(slingshotConfig(cfg), g.slipper)
}

func slipperDef(cfg *config.Config) systems.BodyDef {
	s := cfg.Slipper
	return systems.BodyDef{
		Kind:    components.KindSlipper,
		Shape:   components.Shape{Kind: components.ShapeCircle, Radius: s.Radius},
		Pos:     cfg.Derived.Anchor,
		Static:  true,
		Density: s.Density,
		Material: components.Material{
			Restitution: s.Restitution,
			Friction:    s.Friction,
			Drag:        s.Drag,
		},
		FixedRotation: s.FixedRotation,
	}
}

// canDef builds a static can at p; it turns dynamic when hit.
func canDef(cfg *config.Config, p r2.Vec) systems.BodyDef {
	c := cfg.Can
	return systems.BodyDef{
		Kind:    components.KindCan,
		Shape:   components.Shape{Kind: components.ShapeBox, HalfW: c.Width / 2, HalfH: c.Height / 2},
		Pos:     p,
		Static:  true,
		Density: c.Density,
		Material: components.Material{
			Restitution: c.Restitution,
			Friction:    c.Friction,
			Drag:        c.Drag,
			AngularDrag: c.AngularDrag,
		},
	}
}

// rebuildCans swaps the level's cans for a fresh pyramid of n. Placements
// are computed before the world is touched and the swap finishes inside one
// call, so no step or render sees a partial level.
func (g *Game) rebuildCans(n int) {
	placements := systems.BuildLevel(n, g.layout)

	for _, id := range g.cans {
		if err := g.world.RemoveBody(id); err != nil {
			g.violation(err)
		}
	}
	g.cans = make([]systems.BodyID, 0, len(placements))
	for _, p := range placements {
		g.cans = append(g.cans, g.world.AddBody(canDef(g.cfg, p.Pos)))
	}
	clear(g.knocked)
	g.levelCleared = false
	g.advanceAt = -1
}
