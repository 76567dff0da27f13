package automation

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/san-kum/spinarena/internal/config"
	"github.com/san-kum/spinarena/internal/experiment"
	"github.com/san-kum/spinarena/internal/metrics"
	"github.com/san-kum/spinarena/internal/sim"
	"github.com/san-kum/spinarena/internal/storage"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. Unset fields keep the preset's (or the default
// config's) values.
type ScenarioStep struct {
	Scene    string             `yaml:"scene"`
	Preset   string             `yaml:"preset"`
	Duration float64            `yaml:"duration"`
	Dt       float64            `yaml:"dt"`
	Seed     int64              `yaml:"seed"`
	Count    *int               `yaml:"count"`
	Params   map[string]float64 `yaml:"params"`
	Save     bool               `yaml:"save"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// Config resolves the step into a validated run configuration.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Scene != "" {
		cfg.Scene = s.Scene
	}
	if s.Preset != "" {
		p := config.GetPreset(cfg.Scene, s.Preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %s for scene %s", s.Preset, cfg.Scene)
		}
		cfg = p
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.Count != nil {
		cfg.Spawn.Count = *s.Count
	}
	for name, value := range s.Params {
		if err := cfg.SetParam(name, value); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// StepResult is the outcome of one scenario step. RunID is empty unless the
// step was saved.
type StepResult struct {
	Step   int
	Scene  string
	RunID  string
	Result *sim.Result
}

// RunScenario executes the steps in order. Steps marked save are written to
// store, which may be nil when nothing is saved. Progress goes to out.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, store *storage.Store, out io.Writer) ([]StepResult, error) {
	if out == nil {
		out = io.Discard
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		fmt.Fprintf(out, "running step %d/%d: %s\n", i+1, len(scenario.Steps), cfg.Scene)

		exp := experiment.New(cfg, registry)
		if err := exp.Setup(metrics.Default()); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: i + 1, Scene: cfg.Scene, Result: result}
		if step.Save {
			if store == nil {
				return results, fmt.Errorf("step %d: save requested without a store", i+1)
			}
			sr.RunID, err = store.Save(storage.RunMetadata{
				Scene:    cfg.Scene,
				Preset:   step.Preset,
				Seed:     cfg.Seed,
				Dt:       cfg.Dt,
				Duration: cfg.Duration,
				Params:   cfg.Params().GetParams(),
			}, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// ParameterSweep runs one config across evenly spaced values of a parameter
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult summarizes one sweep point
type SweepResult struct {
	ParamValue  float64
	FinalEnergy float64
	MaxEnergy   float64
	MinEnergy   float64
	Totals      sim.StepStats
	Metrics     map[string]float64
}

// RunSweep executes a parameter sweep. Every point uses the base seed, so the
// only difference between runs is the swept value.
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry, out io.Writer) ([]SweepResult, error) {
	if out == nil {
		out = io.Discard
	}
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	results := make([]SweepResult, 0, sweep.NumSteps)

	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := sweep.Base.Clone()
		if err := cfg.SetParam(sweep.ParamName, paramVal); err != nil {
			return results, err
		}

		exp := experiment.New(cfg, registry)
		if err := exp.Setup(metrics.Default()); err != nil {
			return results, err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, err
		}

		sr := SweepResult{
			ParamValue: paramVal,
			MinEnergy:  math.Inf(1),
			MaxEnergy:  math.Inf(-1),
			Totals:     result.Totals,
			Metrics:    result.Metrics,
		}
		for _, f := range result.Frames {
			e := f.Energy()
			sr.MinEnergy = math.Min(sr.MinEnergy, e)
			sr.MaxEnergy = math.Max(sr.MaxEnergy, e)
		}
		if n := len(result.Frames); n > 0 {
			sr.FinalEnergy = result.Frames[n-1].Energy()
		} else {
			sr.MinEnergy, sr.MaxEnergy = 0, 0
		}
		results = append(results, sr)

		fmt.Fprintf(out, "sweep %d/%d: %s=%.4f\n", i+1, sweep.NumSteps, sweep.ParamName, paramVal)
	}

	return results, nil
}
