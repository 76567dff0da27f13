package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/spinarena/internal/dynamo"
	"github.com/san-kum/spinarena/internal/pattern"
	"github.com/san-kum/spinarena/internal/physics"
)

func testWorld(seed int64) (*World, error) {
	r := dynamo.NewRand(seed)
	w := NewWorld(physics.DefaultParams())
	for i := 0; i < 6; i++ {
		d, err := physics.NewDisk(
			dynamo.RandomRange(r, 50, 750),
			dynamo.RandomRange(r, 50, 550),
			dynamo.RandomRange(r, 10, 30),
			dynamo.RandomRange(r, 0.5, 3),
			"#88ccff",
			dynamo.RandomRange(r, -300, 300),
			dynamo.RandomRange(r, -300, 300))
		if err != nil {
			return nil, err
		}
		w.Add(d, pattern.Choose(r))
	}
	return w, nil
}

func TestSimulatorRun(t *testing.T) {
	w, _ := testWorld(1)

	cfg := Config{Dt: 0.1, Duration: 1.0, SampleEvery: 1}
	result, err := New().Run(context.Background(), w, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Frames) != 11 {
		t.Errorf("expected 11 frames, got %d", len(result.Frames))
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}
	last := result.Frames[len(result.Frames)-1]
	if math.Abs(last.Time-1.0) > 1e-9 {
		t.Errorf("expected final time 1.0, got %f", last.Time)
	}
}

func TestSimulatorSampling(t *testing.T) {
	w, _ := testWorld(2)

	cfg := Config{Dt: 0.01, Duration: 1.0, SampleEvery: 30}
	result, err := New().Run(context.Background(), w, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// initial, steps 30/60/90, and the final step 100
	if len(result.Frames) != 5 {
		t.Errorf("expected 5 frames, got %d", len(result.Frames))
	}
	if result.Frames[len(result.Frames)-1].Step != 100 {
		t.Errorf("expected last frame at step 100, got %d", result.Frames[len(result.Frames)-1].Step)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
		{"negative sampling", Config{Dt: 0.1, Duration: 1.0, SampleEvery: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Run(context.Background(), NewWorld(nil), tt.cfg)
			if !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestSimulatorCanceled(t *testing.T) {
	w, _ := testWorld(3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New().Run(ctx, w, Config{Dt: 0.01, Duration: 1})
	if !errors.Is(err, dynamo.ErrContextCanceled) {
		t.Fatalf("expected ErrContextCanceled, got %v", err)
	}
	if result == nil || result.StepsTaken != 0 {
		t.Errorf("expected empty partial result, got %+v", result)
	}
}

func TestSimulatorStopsOnInvalidState(t *testing.T) {
	w := NewWorld(nil)
	d, _ := physics.NewDisk(100, 100, 10, 1, "", 0, 0)
	b := w.Add(d, pattern.Pattern{})
	b.AngularVelocity = math.Inf(1)

	result, err := New().Run(context.Background(), w, Config{Dt: 0.01, Duration: 1, ValidateState: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Errors) != 1 || !errors.Is(result.Errors[0], dynamo.ErrInvalidState) {
		t.Errorf("expected one invalid state error, got %v", result.Errors)
	}
	if result.StepsTaken != 1 {
		t.Errorf("expected the run to stop after 1 step, got %d", result.StepsTaken)
	}
}

type countingMetric struct {
	count int
	hits  int
}

func (c *countingMetric) Name() string { return "count" }
func (c *countingMetric) Observe(f Frame, stats StepStats) {
	c.count++
	c.hits += stats.WallHits
}
func (c *countingMetric) Value() float64 { return float64(c.count) }
func (c *countingMetric) Reset()         { c.count, c.hits = 0, 0 }

func TestSimulatorMetrics(t *testing.T) {
	w, _ := testWorld(4)
	metric := &countingMetric{}

	s := New()
	s.AddMetric(metric)

	result, err := s.Run(context.Background(), w, Config{Dt: 0.01, Duration: 2})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Metrics["count"] != 200 {
		t.Errorf("expected 200 observations, got %f", result.Metrics["count"])
	}
	if metric.hits != result.Totals.WallHits {
		t.Errorf("metric saw %d wall hits, totals report %d", metric.hits, result.Totals.WallHits)
	}
}

func TestRunWithCallbackStops(t *testing.T) {
	w, _ := testWorld(5)

	calls := 0
	err := New().RunWithCallback(context.Background(), w, Config{Dt: 0.01, Duration: 10}, func(f Frame, _ StepStats) bool {
		calls++
		return f.Step < 25
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 25 {
		t.Errorf("expected 25 callbacks, got %d", calls)
	}
}

func TestEnsembleIndependentRuns(t *testing.T) {
	e := NewEnsemble(testWorld, func() []Metric { return []Metric{&countingMetric{}} }, 4, 10)

	results, err := e.Run(context.Background(), Config{Dt: 0.01, Duration: 0.5})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Metrics["count"] != 50 {
			t.Errorf("run %d: expected 50 observations, got %f", i, r.Metrics["count"])
		}
	}

	// Same seed through a plain Simulator must match the ensemble run.
	w, _ := testWorld(12)
	single, err := New().Run(context.Background(), w, Config{Dt: 0.01, Duration: 0.5})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	a := single.Frames[len(single.Frames)-1]
	b := results[2].Frames[len(results[2].Frames)-1]
	for i := range a.Bodies {
		if a.Bodies[i] != b.Bodies[i] {
			t.Errorf("body %d diverged: %+v vs %+v", i, a.Bodies[i], b.Bodies[i])
		}
	}
}
