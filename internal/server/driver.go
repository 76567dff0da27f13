package server

import (
	"context"
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/san-kum/spinarena/internal/dynamo"
	"github.com/san-kum/spinarena/internal/sim"
)

// Driver owns a World and advances it in real time. Every access to the world
// goes through the driver's mutex, so HTTP and websocket handlers are
// serialized with ticks.
type Driver struct {
	mu       sync.Mutex
	world    *sim.World
	dt       float64
	fps      int
	substeps int
	rng      *rand.Rand
	palette  []string
	totals   sim.StepStats

	// OnFrame receives each frame after a tick, outside the lock.
	OnFrame func(sim.Frame)
}

// NewDriver steps w by dt, running enough ticks per frame to keep up with fps.
// seed drives pattern and colour choice for bodies created over the API.
func NewDriver(w *sim.World, dt float64, fps int, seed int64, palette []string) *Driver {
	if fps <= 0 {
		fps = 60
	}
	if dt <= 0 {
		dt = 1 / float64(fps)
	}
	return &Driver{
		world:    w,
		dt:       dt,
		fps:      fps,
		substeps: max(1, int(math.Round(1/(float64(fps)*dt)))),
		rng:      dynamo.NewRand(seed),
		palette:  palette,
	}
}

// Do runs fn with exclusive access to the world.
func (d *Driver) Do(fn func(w *sim.World) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fn(d.world)
}

func (d *Driver) Snapshot() sim.Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.world.Snapshot()
}

// Totals returns the contact counts accumulated since the driver started.
func (d *Driver) Totals() sim.StepStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.totals
}

// Tick advances one display frame and publishes the resulting snapshot.
func (d *Driver) Tick() sim.Frame {
	d.mu.Lock()
	for i := 0; i < d.substeps; i++ {
		stats := d.world.Step(d.dt)
		d.totals.WallHits += stats.WallHits
		d.totals.Collisions += stats.Collisions
	}
	frame := d.world.Snapshot()
	err := d.world.Validate()
	d.mu.Unlock()

	if err != nil {
		log.Printf("[serve] %v", err)
	}
	if d.OnFrame != nil {
		d.OnFrame(frame)
	}
	return frame
}

// Run ticks at the configured frame rate until ctx is done.
func (d *Driver) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(d.fps))
	defer ticker.Stop()

	log.Printf("[serve] driver started: dt=%.5f fps=%d substeps=%d", d.dt, d.fps, d.substeps)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[serve] driver stopped at t=%.2fs", d.Snapshot().Time)
			return
		case <-ticker.C:
			d.Tick()
		}
	}
}

// nextColor is only called with the lock held.
func (d *Driver) nextColor() string {
	if len(d.palette) == 0 {
		return "#ffffff"
	}
	return dynamo.Choose(d.rng, d.palette)
}
