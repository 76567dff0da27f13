// Package automation runs scripted batches: YAML scenarios of several runs
// and single-parameter sweeps.
package automation
