package metrics

import "github.com/san-kum/spinarena/internal/sim"

// CollisionRate is the mean number of disk-disk collisions per step.
type CollisionRate struct {
	name    string
	total   int
	samples int
}

func NewCollisionRate() *CollisionRate {
	return &CollisionRate{name: "collision_rate"}
}

func (c *CollisionRate) Name() string { return c.name }

func (c *CollisionRate) Observe(_ sim.Frame, stats sim.StepStats) {
	c.total += stats.Collisions
	c.samples++
}

func (c *CollisionRate) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.total) / float64(c.samples)
}

func (c *CollisionRate) Reset() {
	c.total = 0
	c.samples = 0
}

// WallRate is the mean number of wall impulses per step.
type WallRate struct {
	name    string
	total   int
	samples int
}

func NewWallRate() *WallRate {
	return &WallRate{name: "wall_rate"}
}

func (w *WallRate) Name() string { return w.name }

func (w *WallRate) Observe(_ sim.Frame, stats sim.StepStats) {
	w.total += stats.WallHits
	w.samples++
}

func (w *WallRate) Value() float64 {
	if w.samples == 0 {
		return 0
	}
	return float64(w.total) / float64(w.samples)
}

func (w *WallRate) Reset() {
	w.total = 0
	w.samples = 0
}

// Default returns a fresh instance of every metric.
func Default() []sim.Metric {
	return []sim.Metric{
		NewEnergy(),
		NewEnergyDrift(),
		NewMaxSpeed(),
		NewSpin(),
		NewCollisionRate(),
		NewWallRate(),
		NewContainment(),
	}
}
