package experiment

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/san-kum/spinarena/internal/config"
	"github.com/san-kum/spinarena/internal/dynamo"
	"github.com/san-kum/spinarena/internal/metrics"
	"github.com/san-kum/spinarena/internal/pattern"
	"github.com/san-kum/spinarena/internal/physics"
	"github.com/san-kum/spinarena/internal/sim"
)

// Scene populates a world. Explicit bodies from the config are added before
// the scene runs, so a scene only handles random spawning.
type Scene func(w *sim.World, cfg *config.Config, r *rand.Rand) error

type Registry struct {
	scenes map[string]Scene
}

func NewRegistry() *Registry {
	r := &Registry{scenes: make(map[string]Scene)}

	r.scenes["rain"] = rain
	r.scenes["collide"] = func(*sim.World, *config.Config, *rand.Rand) error { return nil }
	r.scenes["spinners"] = spinners
	r.scenes["pile"] = pile

	return r
}

// Register adds or replaces a scene.
func (r *Registry) Register(name string, s Scene) {
	r.scenes[name] = s
}

func (r *Registry) GetScene(name string) (Scene, error) {
	s, ok := r.scenes[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene: %s", name)
	}
	return s, nil
}

func (r *Registry) ListScenes() []string {
	names := make([]string, 0, len(r.scenes))
	for name := range r.scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build creates the world described by cfg using the given seed.
func (r *Registry) Build(cfg *config.Config, seed int64) (*sim.World, error) {
	scene, err := r.GetScene(cfg.Scene)
	if err != nil {
		return nil, err
	}

	rng := dynamo.NewRand(seed)
	w := sim.NewWorld(cfg.Params())

	palette := cfg.Palette()
	for i, b := range cfg.Bodies {
		color := b.Color
		if color == "" {
			color = palette[i%len(palette)]
		}
		d, err := physics.NewDisk(b.X, b.Y, b.Radius, b.Mass, color, b.VX, b.VY)
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		d.AngularVelocity = b.Spin

		p := pattern.Choose(rng)
		if b.Pattern != nil {
			p = *b.Pattern
		}
		w.Add(d, p)
	}

	if err := scene(w, cfg, rng); err != nil {
		return nil, fmt.Errorf("scene %s: %w", cfg.Scene, err)
	}
	return w, nil
}

func (r *Registry) DefaultMetrics() []sim.Metric {
	return metrics.Default()
}

// spawn adds one random body inside the box [x0, x1]×[y0, y1], shrunk by the
// body radius so it starts fully inside.
func spawn(w *sim.World, cfg *config.Config, r *rand.Rand, x0, x1, y0, y1 float64) error {
	s := cfg.Spawn
	radius := dynamo.RandomRange(r, s.MinRadius, s.MaxRadius)
	mass := s.Density * math.Pi * radius * radius

	x := dynamo.RandomRange(r, math.Max(x0, radius), math.Min(x1, cfg.Arena.Width-radius))
	y := dynamo.RandomRange(r, math.Max(y0, radius), math.Min(y1, cfg.Arena.Height-radius))

	angle := dynamo.RandomRange(r, 0, 2*math.Pi)
	speed := dynamo.RandomRange(r, 0, s.MaxSpeed)

	d, err := physics.NewDisk(x, y, radius, mass, dynamo.Choose(r, cfg.Palette()), speed*math.Cos(angle), speed*math.Sin(angle))
	if err != nil {
		return err
	}
	d.AngularVelocity = dynamo.RandomRange(r, -s.MaxSpin, s.MaxSpin)
	w.Add(d, pattern.Choose(r))
	return nil
}

// rain drops bodies from the upper third of the arena.
func rain(w *sim.World, cfg *config.Config, r *rand.Rand) error {
	for i := 0; i < cfg.Spawn.Count; i++ {
		if err := spawn(w, cfg, r, 0, cfg.Arena.Width, 0, cfg.Arena.Height/3); err != nil {
			return err
		}
	}
	return nil
}

// spinners scatters bodies over the whole arena with at least half the
// configured spin, so the Magnus force dominates.
func spinners(w *sim.World, cfg *config.Config, r *rand.Rand) error {
	for i := 0; i < cfg.Spawn.Count; i++ {
		if err := spawn(w, cfg, r, 0, cfg.Arena.Width, 0, cfg.Arena.Height); err != nil {
			return err
		}
		b := w.Bodies()[w.Len()-1]
		if math.Abs(b.AngularVelocity) < cfg.Spawn.MaxSpin/2 {
			b.AngularVelocity = math.Copysign(cfg.Spawn.MaxSpin/2, b.AngularVelocity)
		}
	}
	return nil
}

// pile stacks bodies in columns above the floor so they settle into a heap.
func pile(w *sim.World, cfg *config.Config, r *rand.Rand) error {
	s := cfg.Spawn
	cell := 2 * s.MaxRadius
	cols := int(cfg.Arena.Width / cell)
	if cols < 1 {
		cols = 1
	}

	for i := 0; i < s.Count; i++ {
		col, row := i%cols, i/cols
		x := cell/2 + float64(col)*cell
		y := cfg.Arena.Height - cell/2 - float64(row)*cell
		if y < s.MaxRadius {
			y = s.MaxRadius
		}
		if err := spawn(w, cfg, r, x, x, y, y); err != nil {
			return err
		}
	}
	return nil
}
