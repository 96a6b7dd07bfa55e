// Package config provides configuration loading and access for the game.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all game configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Field     FieldConfig     `yaml:"field"`
	Slipper   SlipperConfig   `yaml:"slipper"`
	Slingshot SlingshotConfig `yaml:"slingshot"`
	Can       CanConfig       `yaml:"can"`
	Hit       HitConfig       `yaml:"hit"`
	Knock     KnockConfig     `yaml:"knock"`
	Level     LevelConfig     `yaml:"level"`
	Round     RoundConfig     `yaml:"round"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Debug     DebugConfig     `yaml:"debug"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds rigid-body step parameters.
type PhysicsConfig struct {
	DT                float64 `yaml:"dt"`
	GravityX          float64 `yaml:"gravity_x"`
	GravityY          float64 `yaml:"gravity_y"` // +Y is down
	Iterations        int     `yaml:"iterations"`
	GridCellSize      float64 `yaml:"grid_cell_size"`
	CorrectionPercent float64 `yaml:"correction_percent"`
	CorrectionSlop    float64 `yaml:"correction_slop"`
	SleepTime         float64 `yaml:"sleep_time"`       // Seconds at rest before a body sleeps (0 = never)
	SleepLinear       float64 `yaml:"sleep_linear"`     // Speed below which a body counts as resting
	SleepAngular      float64 `yaml:"sleep_angular"`    // Angular speed below which a body counts as resting
	BounceThreshold   float64 `yaml:"bounce_threshold"` // Closing speeds below this do not bounce
	MaxStepsPerUpdate int     `yaml:"max_steps_per_update"`
}

// FieldConfig holds the play field and its boundary bodies.
type FieldConfig struct {
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
	WallThickness   float64 `yaml:"wall_thickness"`
	WallFriction    float64 `yaml:"wall_friction"`
	WallRestitution float64 `yaml:"wall_restitution"`
}

// SlipperConfig holds the projectile body parameters.
type SlipperConfig struct {
	Radius        float64 `yaml:"radius"`
	Density       float64 `yaml:"density"`
	Restitution   float64 `yaml:"restitution"`
	Friction      float64 `yaml:"friction"`
	Drag          float64 `yaml:"drag"` // Air drag per second
	FixedRotation bool    `yaml:"fixed_rotation"`
}

// SlingshotConfig holds launcher parameters.
type SlingshotConfig struct {
	AnchorX        float64 `yaml:"anchor_x"`
	AnchorY        float64 `yaml:"anchor_y"`
	MaxPull        float64 `yaml:"max_pull"`
	MinPull        float64 `yaml:"min_pull"`         // Shorter pulls are discarded
	VelocityScale  float64 `yaml:"velocity_scale"`   // Launch speed per unit of pull
	MinLaunchSpeed float64 `yaml:"min_launch_speed"` // Accepted launches are at least this fast
}

// CanConfig holds the target body parameters.
type CanConfig struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	Density     float64 `yaml:"density"`
	Restitution float64 `yaml:"restitution"`
	Friction    float64 `yaml:"friction"`
	Drag        float64 `yaml:"drag"`
	AngularDrag float64 `yaml:"angular_drag"`
}

// HitConfig holds slipper-can interaction parameters.
type HitConfig struct {
	ImpulseScale  float64 `yaml:"impulse_scale"`   // Fraction of slipper velocity handed to an activated can
	Spin          float64 `yaml:"spin"`            // Activated cans get angular velocity in [-spin, spin]
	Points        int     `yaml:"points"`          // Score per slipper-can contact
	Chain         bool    `yaml:"chain"`           // Moving cans also activate static cans
	ChainMinSpeed float64 `yaml:"chain_min_speed"` // Relative speed needed for chain activation
}

// KnockConfig holds the can-down predicate.
type KnockConfig struct {
	TiltThreshold float64 `yaml:"tilt_threshold"` // Radians
	FloorY        float64 `yaml:"floor_y"`        // Center y past which a can counts as down
	Kick          float64 `yaml:"kick"`           // Max random spin (rad/s) added to a knocked dynamic can
}

// LevelConfig holds pyramid layout and progression.
type LevelConfig struct {
	StartCans    int     `yaml:"start_cans"`
	CansPerLevel int     `yaml:"cans_per_level"`
	CenterX      float64 `yaml:"center_x"`
	HGap         float64 `yaml:"h_gap"`
	VGap         float64 `yaml:"v_gap"`
	AdvanceDelay float64 `yaml:"advance_delay"` // Seconds between level cleared and next level
}

// RoundConfig holds session parameters.
type RoundConfig struct {
	Timer int `yaml:"timer"` // Seconds
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// DebugConfig holds development switches.
type DebugConfig struct {
	StrictInvariants bool `yaml:"strict_invariants"` // Panic instead of logging on invariant violation
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32              float32 // Physics.DT as float32
	ScreenW32         float32
	ScreenH32         float32
	Gravity           r2.Vec
	Anchor            r2.Vec
	Bounds            r2.Box // Interior of the boundary walls
	SlipperHold       r2.Box // Where the slipper's center may be held while aiming
	GroundTop         float64
	AdvanceDelayTicks int
	TicksPerSecond    int
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Recompute()
	return cfg, nil
}

// Validate rejects configurations the simulation cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Physics.DT <= 0:
		return fmt.Errorf("config: physics.dt must be positive, got %v", c.Physics.DT)
	case c.Field.Width <= 2*c.Field.WallThickness || c.Field.Height <= 2*c.Field.WallThickness:
		return fmt.Errorf("config: field %vx%v too small for walls of %v", c.Field.Width, c.Field.Height, c.Field.WallThickness)
	case c.Slipper.Radius <= 0:
		return fmt.Errorf("config: slipper.radius must be positive")
	case c.Can.Width <= 0 || c.Can.Height <= 0:
		return fmt.Errorf("config: can size must be positive")
	case !c.anchorClear():
		return fmt.Errorf("config: slingshot anchor (%v, %v) leaves the slipper inside a wall", c.Slingshot.AnchorX, c.Slingshot.AnchorY)
	case c.Slingshot.MaxPull < c.Slingshot.MinPull:
		return fmt.Errorf("config: slingshot.max_pull %v below min_pull %v", c.Slingshot.MaxPull, c.Slingshot.MinPull)
	case c.Round.Timer < 0:
		return fmt.Errorf("config: round.timer must not be negative")
	}
	return nil
}

// anchorClear reports whether a slipper resting on the anchor is clear of
// the boundary walls.
func (c *Config) anchorClear() bool {
	m := c.Field.WallThickness + c.Slipper.Radius
	x, y := c.Slingshot.AnchorX, c.Slingshot.AnchorY
	return x >= m && x <= c.Field.Width-m && y >= m && y <= c.Field.Height-m
}

// Recompute refreshes Derived after fields were changed in code.
func (c *Config) Recompute() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.Gravity = r2.Vec{X: c.Physics.GravityX, Y: c.Physics.GravityY}
	c.Derived.Anchor = r2.Vec{X: c.Slingshot.AnchorX, Y: c.Slingshot.AnchorY}

	t := c.Field.WallThickness
	c.Derived.Bounds = r2.Box{
		Min: r2.Vec{X: t, Y: t},
		Max: r2.Vec{X: c.Field.Width - t, Y: c.Field.Height - t},
	}
	c.Derived.GroundTop = c.Field.Height - t
	r := c.Slipper.Radius
	c.Derived.SlipperHold = r2.Box{
		Min: r2.Vec{X: t + r, Y: t + r},
		Max: r2.Vec{X: c.Field.Width - t - r, Y: c.Field.Height - t - r},
	}

	c.Derived.TicksPerSecond = int(math.Round(1 / c.Physics.DT))
	c.Derived.AdvanceDelayTicks = int(math.Round(c.Level.AdvanceDelay / c.Physics.DT))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
