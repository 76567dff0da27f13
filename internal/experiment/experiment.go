package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/spinarena/internal/config"
	"github.com/san-kum/spinarena/internal/sim"
)

type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	world     *sim.World
	simulator *sim.Simulator
}

func New(cfg *config.Config, registry *Registry) *Experiment {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Experiment{cfg: cfg, registry: registry}
}

// Setup builds the world from the config seed and attaches metrics.
func (e *Experiment) Setup(metrics []sim.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	w, err := e.registry.Build(e.cfg, e.cfg.Seed)
	if err != nil {
		return err
	}

	e.world = w
	e.simulator = sim.New()
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.world, e.cfg.SimConfig())
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) World() *sim.World {
	return e.world
}

// Factory returns a world factory for ensembles over this config.
func (e *Experiment) Factory() sim.WorldFactory {
	return func(seed int64) (*sim.World, error) {
		return e.registry.Build(e.cfg, seed)
	}
}
