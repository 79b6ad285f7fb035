// Package harness runs independent batches of simulations outside the
// pure core (internal/sim never touches goroutines, files, or the
// clock). Grounded on cmd/headless-report/main.go's multi-run loop,
// generalized from a sequential for-loop into a bounded worker pool
// since batch runs here are fully independent (disjoint world state
// per run) and don't share the teacher's combat-report accumulation.
package harness

import (
	"runtime"
	"sync"

	"github.com/google/uuid"

	"github.com/oakfield-labs/sweepsim/internal/sim"
)

// BatchConfig describes one batch of independent runs over the same
// layout, varying only the RNG seed (and, optionally, the policy).
type BatchConfig struct {
	Layout   sim.Layout
	Params   sim.Parameters
	Runs     int
	BaseSeed uint64

	// MaxTicks bounds each run; 0 lets Simulator.Run derive a bound
	// from time_cap/tick_duration.
	MaxTicks int
}

// RunResult is one completed (or failed-to-construct) run.
type RunResult struct {
	RunID uuid.UUID
	Index int
	Seed  uint64

	Result sim.Result
	Err    error
}

// RunBatch executes cfg.Runs independent simulations concurrently, one
// goroutine per run, with at most one fewer than the host's CPU count
// (and at least one) running at a time. Each run gets its
// own Simulator built from the same Layout (read-only, safely shared)
// with a seed derived from BaseSeed+index, so results are
// reproducible given (Layout, Params, BaseSeed, Runs).
func RunBatch(cfg BatchConfig) []RunResult {
	results := make([]RunResult, cfg.Runs)

	sem := make(chan struct{}, maxWorkers())
	var wg sync.WaitGroup
	wg.Add(cfg.Runs)

	for i := 0; i < cfg.Runs; i++ {
		i := i
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = runOne(cfg, i)
		}()
	}
	wg.Wait()

	return results
}

func runOne(cfg BatchConfig, index int) RunResult {
	seed := cfg.BaseSeed + uint64(index)
	params := cfg.Params
	params.Simulation.RandomSeed = seed

	runID, err := uuid.NewRandom()
	if err != nil {
		return RunResult{Index: index, Seed: seed, Err: err}
	}

	s, err := sim.NewSimulator(cfg.Layout, params)
	if err != nil {
		return RunResult{RunID: runID, Index: index, Seed: seed, Err: err}
	}
	s.Run(cfg.MaxTicks)

	return RunResult{RunID: runID, Index: index, Seed: seed, Result: s.Result()}
}

func maxWorkers() int {
	n := runtime.NumCPU() - 1
	if n < 1 {
		n = 1
	}
	return n
}
