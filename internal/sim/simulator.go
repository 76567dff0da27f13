package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/spinarena/internal/dynamo"
)

type Simulator struct {
	metrics   []Metric
	observers []Observer
}

func New() *Simulator {
	return &Simulator{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run steps w for cfg.Duration and records every SampleEvery-th frame. The
// initial frame is always recorded. On cancellation the partial result is
// returned together with an error wrapping dynamo.ErrContextCanceled.
func (s *Simulator) Run(ctx context.Context, w *World, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := stepCount(cfg)
	every := cfg.SampleEvery
	if every <= 0 {
		every = 1
	}

	result := &Result{
		Frames:  make([]Frame, 0, steps/every+2),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	frame := w.Snapshot()
	result.Frames = append(result.Frames, frame)
	initialEnergy := frame.Energy()

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result, w, initialEnergy)
			return result, fmt.Errorf("%w: %v", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		stats := w.Step(cfg.Dt)
		result.Totals.add(stats)
		result.StepsTaken++

		if cfg.ValidateState {
			if err := w.Validate(); err != nil {
				result.Errors = append(result.Errors, err)
				break
			}
		}

		frame = w.Snapshot()
		for _, m := range s.metrics {
			m.Observe(frame, stats)
		}
		for _, obs := range s.observers {
			obs.OnStep(frame, stats)
		}

		if (i+1)%every == 0 || i == steps-1 {
			result.Frames = append(result.Frames, frame)
		}
	}

	s.finish(result, w, initialEnergy)
	return result, nil
}

func (s *Simulator) finish(result *Result, w *World, initialEnergy float64) {
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(w.Energy()-initialEnergy) / math.Abs(initialEnergy)
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// RunWithCallback steps w until cfg.Duration elapses or callback returns false.
// Nothing is recorded.
func (s *Simulator) RunWithCallback(ctx context.Context, w *World, cfg Config, callback func(Frame, StepStats) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	steps := stepCount(cfg)
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		stats := w.Step(cfg.Dt)

		if cfg.ValidateState {
			if err := w.Validate(); err != nil {
				return err
			}
		}

		if !callback(w.Snapshot(), stats) {
			return nil
		}
	}

	return nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 || !dynamo.IsFinite(cfg.Dt) {
		return fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrParameterBounds, cfg.Dt)
	}
	if cfg.Duration <= 0 || !dynamo.IsFinite(cfg.Duration) {
		return fmt.Errorf("%w: duration must be positive, got %f", dynamo.ErrParameterBounds, cfg.Duration)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("%w: sample_every must not be negative", dynamo.ErrParameterBounds)
	}
	return nil
}

// stepCount tolerates durations that are not an exact multiple of dt in
// binary floating point.
func stepCount(cfg Config) int {
	return int(cfg.Duration/cfg.Dt + 1e-9)
}
