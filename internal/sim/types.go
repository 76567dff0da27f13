package sim

import (
	"github.com/san-kum/spinarena/internal/pattern"
	"github.com/san-kum/spinarena/internal/physics"
)

// Body is a disk managed by a World, with a stable id and its decoration.
type Body struct {
	ID int
	*physics.Disk
	Pattern pattern.Pattern
}

// BodyState is the read-only view of a body handed to renderers and storage.
type BodyState struct {
	ID              int             `json:"id"`
	X               float64         `json:"x"`
	Y               float64         `json:"y"`
	VX              float64         `json:"vx"`
	VY              float64         `json:"vy"`
	Radius          float64         `json:"radius"`
	Mass            float64         `json:"mass"`
	AngularVelocity float64         `json:"angular_velocity"`
	Rotation        float64         `json:"rotation"`
	Color           string          `json:"color"`
	Pattern         pattern.Pattern `json:"pattern"`
	Held            bool            `json:"held"`
}

func (b *Body) State() BodyState {
	return BodyState{
		ID:              b.ID,
		X:               b.X,
		Y:               b.Y,
		VX:              b.VX,
		VY:              b.VY,
		Radius:          b.Radius(),
		Mass:            b.Mass(),
		AngularVelocity: b.AngularVelocity,
		Rotation:        b.Rotation,
		Color:           b.Color,
		Pattern:         b.Pattern,
		Held:            b.Held,
	}
}

// Energy is the linear plus rotational kinetic energy of the body.
func (s BodyState) Energy() float64 {
	ke := 0.5 * s.Mass * (s.VX*s.VX + s.VY*s.VY)
	inertia := 0.5 * s.Mass * s.Radius * s.Radius
	return ke + 0.5*inertia*s.AngularVelocity*s.AngularVelocity
}

// Frame is a snapshot of the whole world after a tick.
type Frame struct {
	Step   int         `json:"step"`
	Time   float64     `json:"time"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Bodies []BodyState `json:"bodies"`
}

// Energy sums the kinetic energy of every body in the frame.
func (f Frame) Energy() float64 {
	total := 0.0
	for _, b := range f.Bodies {
		total += b.Energy()
	}
	return total
}

// StepStats counts the contacts resolved during one tick.
type StepStats struct {
	WallHits   int `json:"wall_hits"`
	Collisions int `json:"collisions"`
}

func (s *StepStats) add(o StepStats) {
	s.WallHits += o.WallHits
	s.Collisions += o.Collisions
}

type Metric interface {
	Name() string
	Observe(f Frame, stats StepStats)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f Frame, stats StepStats)
}

type Config struct {
	Dt            float64
	Duration      float64
	Seed          int64
	SampleEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0 / 120,
		Duration:      10,
		SampleEvery:   1,
		ValidateState: true,
	}
}

type Result struct {
	Frames      []Frame
	Metrics     map[string]float64
	Totals      StepStats
	StepsTaken  int
	EnergyDrift float64
	Errors      []error
}
