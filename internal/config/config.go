package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/spinarena/internal/dynamo"
	"github.com/san-kum/spinarena/internal/pattern"
	"github.com/san-kum/spinarena/internal/physics"
	"github.com/san-kum/spinarena/internal/sim"
)

const (
	DefaultDt          = 1.0 / 120
	DefaultDuration    = 10.0
	DefaultSampleEvery = 4
	DefaultCount       = 12
	DefaultMinRadius   = 12.0
	DefaultMaxRadius   = 36.0
	DefaultDensity     = 0.002
	DefaultMaxSpeed    = 400.0
	DefaultMaxSpin     = 10.0
	DefaultAddr        = ":8080"
	DefaultFPS         = 60
)

// DefaultPalette matches the colours the web front end picks from.
var DefaultPalette = []string{"#ff6b6b", "#ffd93d", "#6bcb77", "#4d96ff", "#c77dff", "#ff9f1c"}

type Config struct {
	Name        string        `yaml:"name,omitempty"`
	Scene       string        `yaml:"scene"`
	Dt          float64       `yaml:"dt"`
	Duration    float64       `yaml:"duration"`
	Seed        int64         `yaml:"seed"`
	SampleEvery int           `yaml:"sample_every"`
	Physics     PhysicsConfig `yaml:"physics"`
	Arena       ArenaConfig   `yaml:"arena"`
	Spawn       SpawnConfig   `yaml:"spawn"`
	Bodies      []BodyConfig  `yaml:"bodies,omitempty"`
	Server      ServerConfig  `yaml:"server"`
}

// PhysicsConfig holds gravity in m/s²; it is scaled to arena units when the
// parameter set is built.
type PhysicsConfig struct {
	Gravity        float64 `yaml:"gravity"`
	AirDensity     float64 `yaml:"air_density"`
	Drag           float64 `yaml:"drag"`
	RotationalDrag float64 `yaml:"rotational_drag"`
}

type ArenaConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// SpawnConfig drives random body creation. Mass is Density·π·r².
type SpawnConfig struct {
	Count     int      `yaml:"count"`
	MinRadius float64  `yaml:"min_radius"`
	MaxRadius float64  `yaml:"max_radius"`
	Density   float64  `yaml:"density"`
	MaxSpeed  float64  `yaml:"max_speed"`
	MaxSpin   float64  `yaml:"max_spin"`
	Palette   []string `yaml:"palette,omitempty"`
}

// BodyConfig places one body explicitly. A nil Pattern is drawn at random.
type BodyConfig struct {
	X       float64          `yaml:"x"`
	Y       float64          `yaml:"y"`
	Radius  float64          `yaml:"radius"`
	Mass    float64          `yaml:"mass"`
	VX      float64          `yaml:"vx"`
	VY      float64          `yaml:"vy"`
	Spin    float64          `yaml:"spin"`
	Color   string           `yaml:"color,omitempty"`
	Pattern *pattern.Pattern `yaml:"pattern,omitempty"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	FPS  int    `yaml:"fps"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:       "rain",
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		SampleEvery: DefaultSampleEvery,
		Physics: PhysicsConfig{
			Gravity:        physics.DefaultGravity / physics.PixelsPerMeter,
			AirDensity:     physics.DefaultAirDensity,
			Drag:           physics.DefaultDragCoefficient,
			RotationalDrag: physics.DefaultRotationalDragCoefficient,
		},
		Arena: ArenaConfig{
			Width:  physics.DefaultWidth,
			Height: physics.DefaultHeight,
		},
		Spawn: SpawnConfig{
			Count:     DefaultCount,
			MinRadius: DefaultMinRadius,
			MaxRadius: DefaultMaxRadius,
			Density:   DefaultDensity,
			MaxSpeed:  DefaultMaxSpeed,
			MaxSpin:   DefaultMaxSpin,
		},
		Server: ServerConfig{
			Addr: DefaultAddr,
			FPS:  DefaultFPS,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy, so presets can be handed out safely.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Spawn.Palette = append([]string(nil), c.Spawn.Palette...)
	cp.Bodies = make([]BodyConfig, len(c.Bodies))
	for i, b := range c.Bodies {
		cp.Bodies[i] = b
		if b.Pattern != nil {
			p := *b.Pattern
			cp.Bodies[i].Pattern = &p
		}
	}
	return &cp
}

func (c *Config) Validate() error {
	if c.Dt <= 0 || c.Duration <= 0 {
		return fmt.Errorf("%w: dt and duration must be positive", dynamo.ErrParameterBounds)
	}
	if c.SampleEvery < 0 {
		return fmt.Errorf("%w: sample_every must not be negative", dynamo.ErrParameterBounds)
	}
	if err := c.Params().Validate(); err != nil {
		return err
	}
	s := c.Spawn
	if s.Count < 0 {
		return fmt.Errorf("%w: spawn count %d", dynamo.ErrParameterBounds, s.Count)
	}
	if s.Count > 0 {
		if s.MinRadius <= 0 || s.MaxRadius < s.MinRadius {
			return fmt.Errorf("%w: spawn radius range [%v, %v]", dynamo.ErrParameterBounds, s.MinRadius, s.MaxRadius)
		}
		if 2*s.MaxRadius > c.Arena.Width || 2*s.MaxRadius > c.Arena.Height {
			return fmt.Errorf("%w: max radius %v does not fit the arena", dynamo.ErrParameterBounds, s.MaxRadius)
		}
		if s.Density <= 0 {
			return fmt.Errorf("%w: density must be positive", dynamo.ErrParameterBounds)
		}
	}
	for i, b := range c.Bodies {
		if b.Pattern != nil {
			if err := b.Pattern.Validate(); err != nil {
				return fmt.Errorf("body %d: %w", i, err)
			}
		}
	}
	if c.Server.FPS < 0 {
		return fmt.Errorf("%w: fps must not be negative", dynamo.ErrParameterBounds)
	}
	return nil
}

// Params builds the physics parameter set described by the config.
func (c *Config) Params() *physics.Params {
	p := physics.DefaultParams()
	p.SetGravity(c.Physics.Gravity)
	p.SetAirDensity(c.Physics.AirDensity)
	p.SetDragCoefficient(c.Physics.Drag)
	p.SetRotationalDragCoefficient(c.Physics.RotationalDrag)
	p.SetArena(c.Arena.Width, c.Arena.Height)
	return p
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Dt:            c.Dt,
		Duration:      c.Duration,
		Seed:          c.Seed,
		SampleEvery:   c.SampleEvery,
		ValidateState: true,
	}
}

// Palette returns the spawn palette, falling back to DefaultPalette.
func (c *Config) Palette() []string {
	if len(c.Spawn.Palette) > 0 {
		return c.Spawn.Palette
	}
	return DefaultPalette
}

// SetParam sets a physics or arena value by the names physics.Params uses.
// Gravity is in m/s².
func (c *Config) SetParam(name string, value float64) error {
	if err := c.Params().SetParam(name, value); err != nil {
		return err
	}
	switch name {
	case "gravity":
		c.Physics.Gravity = value
	case "air_density":
		c.Physics.AirDensity = value
	case "drag":
		c.Physics.Drag = value
	case "rotational_drag":
		c.Physics.RotationalDrag = value
	case "width":
		c.Arena.Width = value
	case "height":
		c.Arena.Height = value
	}
	return nil
}
