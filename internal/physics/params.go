package physics

import (
	"fmt"

	"github.com/san-kum/spinarena/internal/dynamo"
)

// PixelsPerMeter converts gravity given in m/s² to arena units.
const PixelsPerMeter = 100.0

const (
	DefaultGravity                   = 9.81 * PixelsPerMeter
	DefaultAirDensity                = 0.0014
	DefaultDragCoefficient           = 0.05
	DefaultRotationalDragCoefficient = 0.01
	DefaultWidth                     = 800.0
	DefaultHeight                    = 600.0
)

// Params is the parameter set read by every integration step. The arena size
// is read on every boundary check, so resizing takes effect on the next tick.
type Params struct {
	Gravity                   float64 // arena units/s², +y is down
	AirDensity                float64
	DragCoefficient           float64
	RotationalDragCoefficient float64
	Width                     float64
	Height                    float64
}

func DefaultParams() *Params {
	return &Params{
		Gravity:                   DefaultGravity,
		AirDensity:                DefaultAirDensity,
		DragCoefficient:           DefaultDragCoefficient,
		RotationalDragCoefficient: DefaultRotationalDragCoefficient,
		Width:                     DefaultWidth,
		Height:                    DefaultHeight,
	}
}

// Clone returns an independent copy.
func (p *Params) Clone() *Params {
	c := *p
	return &c
}

// SetGravity takes m/s² and stores it scaled by PixelsPerMeter.
func (p *Params) SetGravity(value float64) {
	p.Gravity = value * PixelsPerMeter
}

func (p *Params) SetAirDensity(value float64) {
	p.AirDensity = value
}

func (p *Params) SetDragCoefficient(value float64) {
	p.DragCoefficient = value
}

func (p *Params) SetRotationalDragCoefficient(value float64) {
	p.RotationalDragCoefficient = value
}

// SetArena updates the arena size, typically after a viewport resize.
func (p *Params) SetArena(width, height float64) {
	p.Width = width
	p.Height = height
}

// GetParams reports the tunable parameters. Gravity is reported in m/s².
func (p *Params) GetParams() map[string]float64 {
	return map[string]float64{
		"gravity":         p.Gravity / PixelsPerMeter,
		"air_density":     p.AirDensity,
		"drag":            p.DragCoefficient,
		"rotational_drag": p.RotationalDragCoefficient,
		"width":           p.Width,
		"height":          p.Height,
	}
}

// SetParam sets one named parameter through the matching setter.
func (p *Params) SetParam(name string, value float64) error {
	if !dynamo.IsFinite(value) {
		return fmt.Errorf("%w: %s must be finite", dynamo.ErrParameterBounds, name)
	}

	switch name {
	case "gravity":
		p.SetGravity(value)
	case "air_density":
		if value < 0 {
			return fmt.Errorf("%w: air_density %v < 0", dynamo.ErrParameterBounds, value)
		}
		p.SetAirDensity(value)
	case "drag":
		if value < 0 {
			return fmt.Errorf("%w: drag %v < 0", dynamo.ErrParameterBounds, value)
		}
		p.SetDragCoefficient(value)
	case "rotational_drag":
		if value < 0 {
			return fmt.Errorf("%w: rotational_drag %v < 0", dynamo.ErrParameterBounds, value)
		}
		p.SetRotationalDragCoefficient(value)
	case "width":
		if value <= 0 {
			return fmt.Errorf("%w: width %v <= 0", dynamo.ErrParameterBounds, value)
		}
		p.SetArena(value, p.Height)
	case "height":
		if value <= 0 {
			return fmt.Errorf("%w: height %v <= 0", dynamo.ErrParameterBounds, value)
		}
		p.SetArena(p.Width, value)
	default:
		return fmt.Errorf("%w: unknown param %q", dynamo.ErrParameterBounds, name)
	}
	return nil
}

// Validate checks the whole set, e.g. after loading it from a config file.
func (p *Params) Validate() error {
	if !dynamo.IsFinite(p.Gravity, p.AirDensity, p.DragCoefficient, p.RotationalDragCoefficient, p.Width, p.Height) {
		return fmt.Errorf("%w: non-finite parameter", dynamo.ErrParameterBounds)
	}
	if p.AirDensity < 0 || p.DragCoefficient < 0 || p.RotationalDragCoefficient < 0 {
		return fmt.Errorf("%w: negative air density or drag coefficient", dynamo.ErrParameterBounds)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: arena %vx%v", dynamo.ErrParameterBounds, p.Width, p.Height)
	}
	return nil
}
