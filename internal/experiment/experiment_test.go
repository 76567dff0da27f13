package experiment

import (
	"context"
	"testing"

	"github.com/san-kum/spinarena/internal/config"
	"github.com/san-kum/spinarena/internal/pattern"
	"github.com/san-kum/spinarena/internal/sim"
)

func TestRegistryListsScenes(t *testing.T) {
	r := NewRegistry()
	scenes := r.ListScenes()

	expected := []string{"collide", "pile", "rain", "spinners"}
	if len(scenes) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, scenes)
	}
	for i := range expected {
		if scenes[i] != expected[i] {
			t.Errorf("expected %v, got %v", expected, scenes)
		}
	}

	if _, err := r.GetScene("vortex"); err == nil {
		t.Error("expected error for unknown scene")
	}
}

func TestBuildEveryPreset(t *testing.T) {
	r := NewRegistry()
	for _, scene := range config.ListScenes() {
		for _, name := range config.ListPresets(scene) {
			cfg := config.GetPreset(scene, name)
			w, err := r.Build(cfg, 1)
			if err != nil {
				t.Errorf("%s/%s: %v", scene, name, err)
				continue
			}
			if w.Len() != cfg.Spawn.Count+len(cfg.Bodies) {
				t.Errorf("%s/%s: expected %d bodies, got %d", scene, name, cfg.Spawn.Count+len(cfg.Bodies), w.Len())
			}
			for _, b := range w.Snapshot().Bodies {
				if b.X-b.Radius < 0 || b.X+b.Radius > cfg.Arena.Width || b.Y-b.Radius < 0 || b.Y+b.Radius > cfg.Arena.Height {
					t.Errorf("%s/%s: body %d spawned outside the arena: %+v", scene, name, b.ID, b)
				}
			}
		}
	}
}

func TestBuildExplicitBodies(t *testing.T) {
	cfg := config.GetPreset("collide", "head_on")
	cfg.Bodies[1].Pattern = &pattern.Pattern{Kind: pattern.Star, Count: 7}
	cfg.Bodies[1].Color = "#123456"

	w, err := NewRegistry().Build(cfg, 3)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if w.Len() != 2 {
		t.Fatalf("expected 2 bodies, got %d", w.Len())
	}

	b := w.Bodies()[1]
	if b.Pattern.Kind != pattern.Star || b.Pattern.Count != 7 {
		t.Errorf("expected explicit star pattern, got %v", b.Pattern)
	}
	if b.Color != "#123456" {
		t.Errorf("expected explicit color, got %s", b.Color)
	}
	if w.Bodies()[0].Color != config.DefaultPalette[0] {
		t.Errorf("expected palette color, got %s", w.Bodies()[0].Color)
	}
}

func TestBuildRejectsBadBody(t *testing.T) {
	cfg := config.GetPreset("collide", "head_on")
	cfg.Bodies[0].Mass = 0

	if _, err := NewRegistry().Build(cfg, 1); err == nil {
		t.Error("expected error for zero mass body")
	}
}

func TestBuildIsSeeded(t *testing.T) {
	cfg := config.GetPreset("rain", "light")
	r := NewRegistry()

	a, _ := r.Build(cfg, 42)
	b, _ := r.Build(cfg, 42)
	c, _ := r.Build(cfg, 43)

	fa, fb, fc := a.Snapshot(), b.Snapshot(), c.Snapshot()
	for i := range fa.Bodies {
		if fa.Bodies[i] != fb.Bodies[i] {
			t.Fatalf("body %d differs for the same seed", i)
		}
	}
	if fa.Bodies[0] == fc.Bodies[0] {
		t.Error("expected a different seed to change the scene")
	}
}

func TestSpinnersHaveSpin(t *testing.T) {
	cfg := config.GetPreset("spinners", "magnus")
	w, err := NewRegistry().Build(cfg, 8)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	for _, b := range w.Bodies() {
		if abs(b.AngularVelocity) < cfg.Spawn.MaxSpin/2 {
			t.Errorf("body %d spin %f below %f", b.ID, b.AngularVelocity, cfg.Spawn.MaxSpin/2)
		}
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestExperimentRun(t *testing.T) {
	cfg := config.GetPreset("collide", "head_on")
	cfg.Duration = 2

	e := New(cfg, nil)
	if _, err := e.Run(context.Background()); err == nil {
		t.Error("expected error before setup")
	}

	if err := e.Setup(e.registry.DefaultMetrics()); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	result, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Totals.Collisions == 0 {
		t.Error("expected the head-on pair to collide")
	}
	if _, ok := result.Metrics["collision_rate"]; !ok {
		t.Error("expected collision_rate metric")
	}
}

func TestExperimentFactory(t *testing.T) {
	e := New(config.GetPreset("rain", "light"), nil)
	ens := sim.NewEnsemble(e.Factory(), nil, 3, 100)

	results, err := ens.Run(context.Background(), sim.Config{Dt: 0.01, Duration: 0.2})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}
