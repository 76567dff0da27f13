package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/spinarena/internal/experiment"
)

// Goal says which direction of the objective metric is better.
type Goal int

const (
	Minimize Goal = iota
	Maximize
)

// Trial is one evaluated grid point.
type Trial struct {
	Params map[string]float64
	Value  float64
}

// GridSearch evaluates every combination of the given parameter values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	goal       Goal
}

func NewGridSearch(params []string, ranges [][]float64, goal Goal) (*GridSearch, error) {
	if len(params) == 0 || len(params) != len(ranges) {
		return nil, fmt.Errorf("need one value range per parameter, got %d names and %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("parameter %s has no values", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges, goal: goal}, nil
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

func (g *GridSearch) better(a, b float64) bool {
	if g.goal == Maximize {
		return a > b
	}
	return a < b
}

// Search runs build for each grid point and returns the best point, its
// metric value and every trial in grid order. The first failing run aborts
// the search.
func (g *GridSearch) Search(
	ctx context.Context,
	build func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (map[string]float64, float64, []Trial, error) {
	best := math.Inf(1)
	if g.goal == Maximize {
		best = math.Inf(-1)
	}
	var bestParams map[string]float64
	trials := make([]Trial, 0, g.Size())

	// odometer over the ranges, last parameter fastest
	idx := make([]int, len(g.ranges))
	for {
		if err := ctx.Err(); err != nil {
			return bestParams, best, trials, err
		}

		params := make(map[string]float64, len(g.paramNames))
		for i, name := range g.paramNames {
			params[name] = g.ranges[i][idx[i]]
		}

		exp, err := build(params)
		if err != nil {
			return bestParams, best, trials, fmt.Errorf("build %v: %w", params, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return bestParams, best, trials, fmt.Errorf("run %v: %w", params, err)
		}
		val, ok := result.Metrics[metricName]
		if !ok {
			return bestParams, best, trials, fmt.Errorf("metric %s not recorded", metricName)
		}

		trials = append(trials, Trial{Params: params, Value: val})
		if bestParams == nil || g.better(val, best) {
			best, bestParams = val, params
		}

		d := len(idx) - 1
		for ; d >= 0; d-- {
			idx[d]++
			if idx[d] < len(g.ranges[d]) {
				break
			}
			idx[d] = 0
		}
		if d < 0 {
			return bestParams, best, trials, nil
		}
	}
}
