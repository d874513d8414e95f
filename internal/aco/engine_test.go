package aco

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/issoudelache/ANT-tsp--demo/internal/tsp"
)

func int64Ptr(v int64) *int64 { return &v }

// squareCities is the 10x10 unit square instance whose optimal tour is the
// 40.0 perimeter.
func squareCities() []tsp.City {
	return []tsp.City{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0}}
}

func TestNewRejectsInvalidInput(t *testing.T) {
	valid := tsp.GenerateCities(5, 1)

	testCases := []struct {
		name      string
		cities    []tsp.City
		mutate    func(*Config)
		wantField string
	}{
		{"no_cities", nil, nil, "cities"},
		{"one_city", []tsp.City{{X: 1, Y: 1}}, nil, "cities"},
		{"nan_coordinate", []tsp.City{{X: math.NaN(), Y: 0}, {X: 1, Y: 1}}, nil, "cities"},
		{"inf_coordinate", []tsp.City{{X: 0, Y: math.Inf(1)}, {X: 1, Y: 1}}, nil, "cities"},
		{"zero_ants", valid, func(c *Config) { c.Ants = 0 }, "ants"},
		{"negative_ants", valid, func(c *Config) { c.Ants = -3 }, "ants"},
		{"persistence_below_range", valid, func(c *Config) { c.Persistence = -0.01 }, "persistence"},
		{"persistence_above_range", valid, func(c *Config) { c.Persistence = 1.01 }, "persistence"},
		{"persistence_nan", valid, func(c *Config) { c.Persistence = math.NaN() }, "persistence"},
		{"alpha_nan", valid, func(c *Config) { c.Alpha = math.NaN() }, "alpha"},
		{"alpha_inf", valid, func(c *Config) { c.Alpha = math.Inf(-1) }, "alpha"},
		{"beta_nan", valid, func(c *Config) { c.Beta = math.NaN() }, "beta"},
		{"q_negative", valid, func(c *Config) { c.Q = -1 }, "q"},
		{"q_nan", valid, func(c *Config) { c.Q = math.NaN() }, "q"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig(len(tc.cities))
			if tc.mutate != nil {
				cfg = DefaultConfig(len(valid))
				tc.mutate(&cfg)
			}
			_, err := New(tc.cities, cfg)
			if err == nil {
				t.Fatal("New accepted invalid input")
			}
			var invalid *InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("error is %T, want *InvalidInputError", err)
			}
			if invalid.Field != tc.wantField {
				t.Errorf("error field = %q, want %q", invalid.Field, tc.wantField)
			}
		})
	}
}

func TestNewAcceptsZeroQ(t *testing.T) {
	cfg := DefaultConfig(4)
	cfg.Q = 0
	_, err := New(squareCities(), cfg)
	if err != nil {
		t.Fatalf("New rejected Q=0: %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig(12)
	assert.Equal(t, 1.0, cfg.Alpha)
	assert.Equal(t, 5.0, cfg.Beta)
	assert.Equal(t, 0.5, cfg.Persistence)
	assert.Equal(t, 100.0, cfg.Q)
	assert.Equal(t, 12, cfg.Ants)
	assert.Nil(t, cfg.Seed)
}

func TestRunCycleStatsShape(t *testing.T) {
	cities := tsp.GenerateCities(9, 3)
	cfg := DefaultConfig(9)
	cfg.Ants = 6
	cfg.Seed = int64Ptr(42)
	e, err := New(cities, cfg)
	require.NoError(t, err)

	stats := e.RunCycle()

	require.Len(t, stats.AllLengths, 6)
	assert.Equal(t, 1, stats.Cycle)
	assert.Equal(t, 1, e.Cycle())

	lowest, sum := math.Inf(1), 0.0
	for _, l := range stats.AllLengths {
		sum += l
		if l < lowest {
			lowest = l
		}
	}
	assert.Equal(t, lowest, stats.BestLenCycle)
	assert.InDelta(t, sum/6, stats.MeanLenCycle, 1e-9)
	assert.Equal(t, stats.BestLenCycle, stats.BestLenGlobal)
	require.NoError(t, stats.BestTourGlobal.Validate(9))
}

// best_len_global must always equal the minimum length any ant has produced
// across all cycles, and therefore never increase.
func TestBestLengthMonotonicAndExact(t *testing.T) {
	cities := tsp.GenerateCities(15, 8)
	cfg := DefaultConfig(15)
	cfg.Seed = int64Ptr(123)
	e, err := New(cities, cfg)
	require.NoError(t, err)

	_, before := e.Best()
	assert.True(t, math.IsInf(before, 1), "best length before any cycle should be +Inf")

	prev := math.Inf(1)
	observedMin := math.Inf(1)
	for i := 0; i < 30; i++ {
		stats := e.RunCycle()
		for _, l := range stats.AllLengths {
			if l < observedMin {
				observedMin = l
			}
		}
		if stats.BestLenGlobal > prev {
			t.Fatalf("cycle %d: best_len_global rose from %v to %v", stats.Cycle, prev, stats.BestLenGlobal)
		}
		if stats.BestLenGlobal != observedMin {
			t.Fatalf("cycle %d: best_len_global = %v, want observed minimum %v", stats.Cycle, stats.BestLenGlobal, observedMin)
		}
		prev = stats.BestLenGlobal
	}

	tour, best := e.Best()
	assert.Equal(t, observedMin, best)
	require.NoError(t, tour.Validate(15))
	dist, _ := buildDistanceMatrices(cities)
	assert.InDelta(t, best, tour.length(dist), 1e-9)
}

// Two engines with the same coordinates, hyperparameters and seed must
// produce identical statistics, cycle for cycle. The wall-clock timing
// fields are the only permitted difference.
func TestDeterminismAcrossEngines(t *testing.T) {
	cities := tsp.GenerateCities(12, 5)
	cfg := DefaultConfig(12)
	cfg.Seed = int64Ptr(2025)

	e1, err := New(cities, cfg)
	require.NoError(t, err)
	e2, err := New(cities, cfg)
	require.NoError(t, err)

	var run1, run2 []CycleStats
	for i := 0; i < 20; i++ {
		run1 = append(run1, e1.RunCycle())
		run2 = append(run2, e2.RunCycle())
	}

	ignoreTimings := cmpopts.IgnoreFields(CycleStats{}, "ConstructTime", "EvaporateTime", "DepositTime")
	if diff := cmp.Diff(run1, run2, ignoreTimings); diff != "" {
		t.Errorf("identically seeded runs diverged:\n%s", diff)
	}
}

// Parallel construction uses the same per-ant streams as the sequential
// loop, so the worker count must not change any statistic.
func TestParallelConstructionMatchesSequential(t *testing.T) {
	cities := tsp.GenerateCities(14, 9)

	sequential := DefaultConfig(14)
	sequential.Seed = int64Ptr(7)

	parallel := sequential
	parallel.Workers = 4

	e1, err := New(cities, sequential)
	require.NoError(t, err)
	e2, err := New(cities, parallel)
	require.NoError(t, err)

	var run1, run2 []CycleStats
	for i := 0; i < 15; i++ {
		run1 = append(run1, e1.RunCycle())
		run2 = append(run2, e2.RunCycle())
	}

	ignoreTimings := cmpopts.IgnoreFields(CycleStats{}, "ConstructTime", "EvaporateTime", "DepositTime")
	if diff := cmp.Diff(run1, run2, ignoreTimings); diff != "" {
		t.Errorf("parallel construction diverged from sequential:\n%s", diff)
	}
}

func TestPheromoneSymmetryAfterCycles(t *testing.T) {
	cities := tsp.GenerateCities(10, 4)
	cfg := DefaultConfig(10)
	cfg.Seed = int64Ptr(77)
	e, err := New(cities, cfg)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		e.RunCycle()
		tau := e.PheromoneSnapshot()
		for a := range tau {
			for b := range tau[a] {
				if tau[a][b] != tau[b][a] {
					t.Fatalf("cycle %d: tau[%d][%d]=%v != tau[%d][%d]=%v", i+1, a, b, tau[a][b], b, a, tau[b][a])
				}
			}
		}
	}
}

// The 4-city square converges onto its 40.0 perimeter well within 50
// cycles at the stock parameters.
func TestSquareConvergesToPerimeter(t *testing.T) {
	cfg := Config{Alpha: 1.0, Beta: 5.0, Persistence: 0.5, Q: 100.0, Ants: 4, Seed: int64Ptr(42)}
	e, err := New(squareCities(), cfg)
	require.NoError(t, err)

	var last CycleStats
	for i := 0; i < 50; i++ {
		last = e.RunCycle()
	}

	assert.InDelta(t, 40.0, last.BestLenGlobal, 1e-9)
	require.NoError(t, last.BestTourGlobal.Validate(4))
}

// With two cities every tour is [0,1,0] or [1,0,1]; the best length is twice
// the single distance from the very first cycle.
func TestTwoCityInstance(t *testing.T) {
	cities := []tsp.City{{X: 0, Y: 0}, {X: 3, Y: 4}}
	cfg := DefaultConfig(2)
	cfg.Seed = int64Ptr(1)
	e, err := New(cities, cfg)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		stats := e.RunCycle()
		assert.Equal(t, 10.0, stats.BestLenGlobal)
		assert.Equal(t, 10.0, stats.MeanLenCycle)
		for _, l := range stats.AllLengths {
			assert.Equal(t, 10.0, l)
		}
	}
}

// Full persistence with a zero deposit constant leaves tau at its initial
// state no matter how many cycles run.
func TestNoEvaporationZeroDepositKeepsTau(t *testing.T) {
	cities := tsp.GenerateCities(6, 10)
	cfg := DefaultConfig(6)
	cfg.Persistence = 1.0
	cfg.Q = 0
	cfg.Seed = int64Ptr(3)
	e, err := New(cities, cfg)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		e.RunCycle()
	}

	tau := e.PheromoneSnapshot()
	for i := range tau {
		for j := range tau[i] {
			want := 1.0
			if i == j {
				want = 0.0
			}
			if tau[i][j] != want {
				t.Fatalf("tau[%d][%d] = %v, want %v", i, j, tau[i][j], want)
			}
		}
	}
}

// Duplicate coordinates are legal input; the degenerate pair only loses its
// visibility, the run itself proceeds normally.
func TestDuplicateCoordinatesStillRun(t *testing.T) {
	cities := []tsp.City{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}
	cfg := DefaultConfig(4)
	cfg.Seed = int64Ptr(6)
	e, err := New(cities, cfg)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		stats := e.RunCycle()
		require.NoError(t, stats.BestTourGlobal.Validate(4))
		for _, l := range stats.AllLengths {
			if math.IsNaN(l) || math.IsInf(l, 0) {
				t.Fatalf("cycle %d produced non-finite tour length %v", i+1, l)
			}
		}
	}
	tau := e.PheromoneSnapshot()
	for i := range tau {
		for j := range tau[i] {
			if math.IsNaN(tau[i][j]) || math.IsInf(tau[i][j], 0) {
				t.Fatalf("tau[%d][%d] is non-finite: %v", i, j, tau[i][j])
			}
		}
	}
}

func TestCitiesAndSnapshotAreCopies(t *testing.T) {
	cities := tsp.GenerateCities(5, 12)
	cfg := DefaultConfig(5)
	cfg.Seed = int64Ptr(2)
	e, err := New(cities, cfg)
	require.NoError(t, err)

	// Mutating the caller's slice after construction must not reach the
	// engine.
	original := cities[0]
	cities[0] = tsp.City{X: -999, Y: -999}
	assert.Equal(t, original, e.Cities()[0])

	// Mutating a snapshot must not reach tau.
	snap := e.PheromoneSnapshot()
	snap[0][1] = 12345
	assert.NotEqual(t, 12345.0, e.PheromoneSnapshot()[0][1])
}

func BenchmarkRunCycle(b *testing.B) {
	cities := tsp.GenerateCities(100, 42)
	cfg := DefaultConfig(100)
	cfg.Seed = int64Ptr(42)
	e, err := New(cities, cfg)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.RunCycle()
	}
}

func BenchmarkRunCycleParallel(b *testing.B) {
	cities := tsp.GenerateCities(100, 42)
	cfg := DefaultConfig(100)
	cfg.Seed = int64Ptr(42)
	cfg.Workers = 4
	e, err := New(cities, cfg)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.RunCycle()
	}
}
