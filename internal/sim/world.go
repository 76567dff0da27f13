package sim

import (
	"fmt"
	"slices"

	"github.com/san-kum/spinarena/internal/dynamo"
	"github.com/san-kum/spinarena/internal/pattern"
	"github.com/san-kum/spinarena/internal/physics"
)

// World owns a set of bodies and the parameters they are integrated with.
// It is the driver of the physics core: every Step updates each body and then
// resolves every overlapping pair once. A World is not safe for concurrent use.
type World struct {
	params *physics.Params
	bodies []*Body
	disks  []*physics.Disk
	nextID int
	step   int
	time   float64
}

func NewWorld(p *physics.Params) *World {
	if p == nil {
		p = physics.DefaultParams()
	}
	return &World{params: p, nextID: 1}
}

// Params returns the live parameter set; changes apply from the next Step.
func (w *World) Params() *physics.Params { return w.params }

func (w *World) Len() int { return len(w.bodies) }

func (w *World) Time() float64 { return w.time }

func (w *World) Steps() int { return w.step }

// Add takes ownership of d and assigns it the next id.
func (w *World) Add(d *physics.Disk, p pattern.Pattern) *Body {
	b := &Body{ID: w.nextID, Disk: d, Pattern: p}
	w.nextID++
	w.bodies = append(w.bodies, b)
	w.disks = append(w.disks, d)
	return b
}

// Remove deletes the body with the given id and reports whether it existed.
// The body slices are rebuilt, so a slice returned earlier by Bodies keeps
// its contents.
func (w *World) Remove(id int) bool {
	for i, b := range w.bodies {
		if b.ID == id {
			w.bodies = slices.Delete(slices.Clone(w.bodies), i, i+1)
			w.disks = slices.Delete(slices.Clone(w.disks), i, i+1)
			return true
		}
	}
	return false
}

// Clear removes every body. Ids are not reused.
func (w *World) Clear() {
	w.bodies = nil
	w.disks = nil
}

func (w *World) Body(id int) (*Body, bool) {
	for _, b := range w.bodies {
		if b.ID == id {
			return b, true
		}
	}
	return nil, false
}

// Bodies returns the bodies in insertion order. The slice is shared and must
// not be modified; Add and Remove never rewrite elements a caller can see.
func (w *World) Bodies() []*Body { return w.bodies }

func (w *World) lookup(id int) (*Body, error) {
	b, ok := w.Body(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", dynamo.ErrUnknownBody, id)
	}
	return b, nil
}

// Hold freezes a body for external manipulation: forces and integration
// stop, velocity and spin are zeroed.
func (w *World) Hold(id int) error {
	b, err := w.lookup(id)
	if err != nil {
		return err
	}
	b.Held = true
	b.VX, b.VY = 0, 0
	b.AngularVelocity = 0
	return nil
}

// MoveTo writes the position of a body directly. It is meant for held bodies;
// the next Step still clamps the body into the arena.
func (w *World) MoveTo(id int, x, y float64) error {
	b, err := w.lookup(id)
	if err != nil {
		return err
	}
	if !dynamo.IsFinite(x, y) {
		return fmt.Errorf("%w: position (%v, %v)", dynamo.ErrInvalidState, x, y)
	}
	b.X, b.Y = x, y
	return nil
}

// Release lets a held body go with the given throw velocity.
func (w *World) Release(id int, vx, vy float64) error {
	b, err := w.lookup(id)
	if err != nil {
		return err
	}
	if !dynamo.IsFinite(vx, vy) {
		return fmt.Errorf("%w: velocity (%v, %v)", dynamo.ErrInvalidState, vx, vy)
	}
	b.Held = false
	b.VX, b.VY = vx, vy
	return nil
}

// Pick returns the topmost body containing (x, y). Later bodies are drawn on
// top, so the search runs backwards.
func (w *World) Pick(x, y float64) (*Body, bool) {
	for i := len(w.bodies) - 1; i >= 0; i-- {
		b := w.bodies[i]
		dx, dy := x-b.X, y-b.Y
		if dx*dx+dy*dy <= b.Radius()*b.Radius() {
			return b, true
		}
	}
	return nil, false
}

// Step advances the world by dt: every body is integrated and bounced off the
// walls, then each unordered pair is checked once for collision.
func (w *World) Step(dt float64) StepStats {
	var stats StepStats
	for _, d := range w.disks {
		stats.WallHits += d.Update(w.params, dt)
	}
	stats.Collisions = physics.ResolveAll(w.disks)

	w.step++
	w.time += dt
	return stats
}

func (w *World) Snapshot() Frame {
	f := Frame{
		Step:   w.step,
		Time:   w.time,
		Width:  w.params.Width,
		Height: w.params.Height,
		Bodies: make([]BodyState, len(w.bodies)),
	}
	for i, b := range w.bodies {
		f.Bodies[i] = b.State()
	}
	return f
}

func (w *World) Energy() float64 {
	total := 0.0
	for _, d := range w.disks {
		total += d.Energy()
	}
	return total
}

// Validate returns an error wrapping dynamo.ErrInvalidState for the first body
// with a non-finite component.
func (w *World) Validate() error {
	for _, b := range w.bodies {
		if !b.Valid() {
			return &dynamo.SimulationError{
				Step:    w.step,
				Time:    w.time,
				BodyID:  b.ID,
				Wrapped: fmt.Errorf("%w: body %d", dynamo.ErrInvalidState, b.ID),
			}
		}
	}
	return nil
}
