// Package bench executes batches of solver configurations, measures their
// runtime and solution quality, and persists the results as CSV rows or
// database records. This package contains the suite definitions and grid
// expansion previously embedded in cmd/ant-bench to enable unit testing
// and reuse across the codebase.
package bench

import (
	"fmt"
	"math"
)

// DefaultSeed is the city-generation and solver seed used by the built-in
// suites. Fixed so suite results are comparable across machines.
const DefaultSeed int64 = 42

// defaultCycles is used when a grid dimension leaves the cycle count empty.
const defaultCycles = 50

// RunConfig describes one benchmark run: the problem size, the colony
// parameters, and the seed. Ants == 0 means one ant per city.
type RunConfig struct {
	N           int     `json:"n"`
	Ants        int     `json:"m"`
	Cycles      int     `json:"cycles"`
	Alpha       float64 `json:"alpha"`
	Beta        float64 `json:"beta"`
	Persistence float64 `json:"p"`
	Q           float64 `json:"q"`
	Seed        int64   `json:"seed"`
	Workers     int     `json:"workers,omitempty"`
}

// NewRunConfig returns a RunConfig for the given size, colony and cycle
// count with the standard parameter values (alpha 1, beta 5, p 0.5, Q 100).
func NewRunConfig(n, ants, cycles int, seed int64) RunConfig {
	return RunConfig{
		N:           n,
		Ants:        ants,
		Cycles:      cycles,
		Alpha:       1.0,
		Beta:        5.0,
		Persistence: 0.5,
		Q:           100.0,
		Seed:        seed,
	}
}

// Validate checks the configuration before any cities are generated so a
// bad entry fails fast instead of mid-suite.
func (c RunConfig) Validate() error {
	if c.N < 2 {
		return fmt.Errorf("n must be at least 2, got %d", c.N)
	}
	if c.Ants < 0 {
		return fmt.Errorf("m must not be negative, got %d", c.Ants)
	}
	if c.Cycles <= 0 {
		return fmt.Errorf("cycles must be positive, got %d", c.Cycles)
	}
	if math.IsNaN(c.Alpha) || math.IsInf(c.Alpha, 0) {
		return fmt.Errorf("alpha must be finite, got %f", c.Alpha)
	}
	if math.IsNaN(c.Beta) || math.IsInf(c.Beta, 0) {
		return fmt.Errorf("beta must be finite, got %f", c.Beta)
	}
	if math.IsNaN(c.Persistence) || c.Persistence < 0 || c.Persistence > 1 {
		return fmt.Errorf("p must be within [0, 1], got %f", c.Persistence)
	}
	if math.IsNaN(c.Q) || math.IsInf(c.Q, 0) || c.Q < 0 {
		return fmt.Errorf("q must be non-negative and finite, got %f", c.Q)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// DefaultConfigs returns the full benchmark suite, from small instances up
// to the 500-city stress tests. Expect several hours of runtime.
func DefaultConfigs() []RunConfig {
	var configs []RunConfig
	add := func(n, ants, cycles int) {
		configs = append(configs, NewRunConfig(n, ants, cycles, DefaultSeed))
	}

	// Small instances with generous cycle counts for fine convergence.
	for _, t := range []struct{ n, ants, cycles int }{
		{10, 10, 100}, {10, 20, 100}, {10, 5, 100},
		{20, 10, 100}, {20, 20, 100}, {20, 40, 100}, {20, 20, 200},
		{30, 15, 100}, {30, 30, 100}, {30, 60, 100}, {30, 30, 200}, {30, 30, 500},
	} {
		add(t.n, t.ants, t.cycles)
	}

	// Medium instances.
	for _, t := range []struct{ n, ants, cycles int }{
		{50, 25, 100}, {50, 50, 100}, {50, 100, 100}, {50, 50, 200}, {50, 50, 500},
		{75, 50, 100}, {75, 75, 100}, {75, 100, 100}, {75, 75, 200},
	} {
		add(t.n, t.ants, t.cycles)
	}

	// Large instances.
	for _, t := range []struct{ n, ants, cycles int }{
		{100, 50, 100}, {100, 100, 100}, {100, 150, 100},
		{100, 100, 200}, {100, 100, 500}, {100, 100, 1000},
		{150, 100, 100}, {150, 150, 100}, {150, 200, 100},
		{150, 150, 200}, {150, 150, 500},
	} {
		add(t.n, t.ants, t.cycles)
	}

	// Very large instances; each run takes minutes to hours.
	for _, t := range []struct{ n, ants, cycles int }{
		{200, 100, 100}, {200, 150, 100}, {200, 200, 100},
		{200, 200, 200}, {200, 200, 500}, {200, 200, 1000},
		{300, 150, 100}, {300, 200, 100}, {300, 300, 100},
		{300, 300, 200}, {300, 300, 500},
		{400, 200, 100}, {400, 300, 100}, {400, 400, 100},
		{400, 400, 200}, {400, 400, 500},
		{500, 250, 100}, {500, 400, 100}, {500, 500, 100},
		{500, 500, 200}, {500, 500, 500}, {500, 500, 1000},
	} {
		add(t.n, t.ants, t.cycles)
	}

	// Parameter sensitivity at a fixed medium size.
	for _, alpha := range []float64{0.5, 1.0, 1.5, 2.0} {
		for _, beta := range []float64{3.0, 5.0, 7.0} {
			c := NewRunConfig(100, 100, 100, DefaultSeed)
			c.Alpha = alpha
			c.Beta = beta
			configs = append(configs, c)
		}
	}

	// Seed robustness: the same three sizes under different seeds.
	for _, seed := range []int64{42, 123, 456, 789, 2025} {
		configs = append(configs,
			NewRunConfig(50, 50, 100, seed),
			NewRunConfig(100, 100, 100, seed),
			NewRunConfig(200, 200, 100, seed),
		)
	}

	return configs
}

// QuickConfigs returns a handful of light runs for checking the pipeline
// before committing to the full suite.
func QuickConfigs() []RunConfig {
	return []RunConfig{
		NewRunConfig(20, 20, 20, DefaultSeed),
		NewRunConfig(30, 30, 20, DefaultSeed),
		NewRunConfig(40, 40, 20, DefaultSeed),
	}
}

// Grid describes a parameter sweep as per-dimension value lists. Empty
// dimensions fall back to a single default value; Sizes is required.
type Grid struct {
	Sizes        []int     `json:"sizes"`
	Ants         []int     `json:"ants,omitempty"`
	Cycles       []int     `json:"cycles,omitempty"`
	Alphas       []float64 `json:"alphas,omitempty"`
	Betas        []float64 `json:"betas,omitempty"`
	Persistences []float64 `json:"persistences,omitempty"`
	Qs           []float64 `json:"qs,omitempty"`
	Seeds        []int64   `json:"seeds,omitempty"`
}

// Configs expands the grid into the full cartesian product of run
// configurations. The product size is validated against limit before any
// allocation so an oversized request fails instead of exhausting memory.
func (g Grid) Configs(limit int) ([]RunConfig, error) {
	if len(g.Sizes) == 0 {
		return nil, fmt.Errorf("at least one problem size is required")
	}
	ants := g.Ants
	if len(ants) == 0 {
		ants = []int{0}
	}
	cycles := g.Cycles
	if len(cycles) == 0 {
		cycles = []int{defaultCycles}
	}
	alphas := g.Alphas
	if len(alphas) == 0 {
		alphas = []float64{1.0}
	}
	betas := g.Betas
	if len(betas) == 0 {
		betas = []float64{5.0}
	}
	ps := g.Persistences
	if len(ps) == 0 {
		ps = []float64{0.5}
	}
	qs := g.Qs
	if len(qs) == 0 {
		qs = []float64{100.0}
	}
	seeds := g.Seeds
	if len(seeds) == 0 {
		seeds = []int64{DefaultSeed}
	}

	total := len(g.Sizes) * len(ants) * len(cycles) * len(alphas) *
		len(betas) * len(ps) * len(qs) * len(seeds)
	if limit > 0 && total > limit {
		return nil, fmt.Errorf("parameter grid too large: would generate %d configurations (max %d)", total, limit)
	}

	configs := make([]RunConfig, 0, total)
	for _, n := range g.Sizes {
		for _, m := range ants {
			for _, cy := range cycles {
				for _, alpha := range alphas {
					for _, beta := range betas {
						for _, p := range ps {
							for _, q := range qs {
								for _, seed := range seeds {
									configs = append(configs, RunConfig{
										N:           n,
										Ants:        m,
										Cycles:      cy,
										Alpha:       alpha,
										Beta:        beta,
										Persistence: p,
										Q:           q,
										Seed:        seed,
									})
								}
							}
						}
					}
				}
			}
		}
	}
	return configs, nil
}
