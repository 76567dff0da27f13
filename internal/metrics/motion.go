package metrics

import (
	"math"

	"github.com/san-kum/spinarena/internal/sim"
)

// MaxSpeed is the highest linear speed any body reached.
type MaxSpeed struct {
	name string
	max  float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(f sim.Frame, _ sim.StepStats) {
	for _, b := range f.Bodies {
		m.max = math.Max(m.max, math.Hypot(b.VX, b.VY))
	}
}

func (m *MaxSpeed) Value() float64 { return m.max }

func (m *MaxSpeed) Reset() { m.max = 0 }

// Spin is the mean |ω| across bodies and samples.
type Spin struct {
	name    string
	sum     float64
	samples int
}

func NewSpin() *Spin {
	return &Spin{name: "spin"}
}

func (s *Spin) Name() string { return s.name }

func (s *Spin) Observe(f sim.Frame, _ sim.StepStats) {
	for _, b := range f.Bodies {
		s.sum += math.Abs(b.AngularVelocity)
		s.samples++
	}
}

func (s *Spin) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.sum / float64(s.samples)
}

func (s *Spin) Reset() {
	s.sum = 0
	s.samples = 0
}

// Containment is the fraction of samples in which every body lies fully
// inside the arena. Pair pushes applied after the wall clamp can leave a body
// briefly outside, so values just under 1 are normal for crowded scenes.
type Containment struct {
	name       string
	violations int
	samples    int
}

func NewContainment() *Containment {
	return &Containment{name: "containment"}
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) Observe(f sim.Frame, _ sim.StepStats) {
	c.samples++
	for _, b := range f.Bodies {
		if b.X-b.Radius < 0 || b.X+b.Radius > f.Width || b.Y-b.Radius < 0 || b.Y+b.Radius > f.Height {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
