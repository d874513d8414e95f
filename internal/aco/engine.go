// Package aco implements the Ant-Cycle variant of Ant System for symmetric
// Euclidean TSP instances.
//
// An Engine owns a city set, its derived distance/visibility matrices, a
// pheromone matrix and a random seed. Each RunCycle call advances the
// simulation by exactly one cycle: every ant constructs a probabilistic
// tour, the pheromone matrix evaporates, every tour deposits, and the
// best-known solution is updated. Independent engines are safe to run
// concurrently; a single engine is not goroutine-safe.
package aco

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/issoudelache/ANT-tsp--demo/internal/tsp"
)

// Config carries the engine hyperparameters. See DefaultConfig for the
// stock values.
type Config struct {
	// Alpha is the pheromone influence exponent.
	Alpha float64 `json:"alpha"`
	// Beta is the visibility influence exponent.
	Beta float64 `json:"beta"`
	// Persistence is the fraction of pheromone retained per cycle, in
	// [0,1]. The evaporation rate is 1-Persistence.
	Persistence float64 `json:"p"`
	// Q scales deposition: each ant spreads Q/length along its tour.
	Q float64 `json:"q"`
	// Ants is the number of tours constructed per cycle.
	Ants int `json:"m"`
	// Seed fixes the random source. A nil Seed draws one from the clock,
	// giving up reproducibility.
	Seed *int64 `json:"seed,omitempty"`
	// Workers sets the number of construction goroutines per cycle.
	// Values <= 1 construct sequentially. The choice never changes the
	// results, only the scheduling.
	Workers int `json:"workers,omitempty"`
}

// DefaultConfig returns the stock hyperparameters for an n-city instance:
// alpha 1, beta 5, persistence 0.5, Q 100 and one ant per city.
func DefaultConfig(n int) Config {
	return Config{Alpha: 1.0, Beta: 5.0, Persistence: 0.5, Q: 100.0, Ants: n}
}

// InvalidInputError reports a constraint violated at engine construction.
// All constraints are checked before the first cycle; a constructed engine
// cannot fail mid-run.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// CycleStats is the record emitted by every RunCycle call. The three timing
// fields are wall-clock measurements of the cycle phases and are the only
// fields that vary between identically seeded runs.
type CycleStats struct {
	Cycle          int           `json:"cycle"`
	BestLenCycle   float64       `json:"best_len_cycle"`
	MeanLenCycle   float64       `json:"mean_len_cycle"`
	BestLenGlobal  float64       `json:"best_len_global"`
	BestTourGlobal Tour          `json:"best_tour_global"`
	AllLengths     []float64     `json:"all_lengths"`
	ConstructTime  time.Duration `json:"construct_time_ns"`
	EvaporateTime  time.Duration `json:"evaporate_time_ns"`
	DepositTime    time.Duration `json:"deposit_time_ns"`
}

// Engine runs Ant-Cycle simulations over a fixed city set.
type Engine struct {
	cities []tsp.City
	n      int

	dist *matrix
	eta  *matrix
	pher *pheromoneStore

	cfg   Config
	seed  int64
	cycle int

	bestLen  float64
	bestTour Tour
}

// New validates the configuration and builds an engine. The city slice is
// copied; later mutation by the caller has no effect. Validation failures
// are returned as *InvalidInputError.
func New(cities []tsp.City, cfg Config) (*Engine, error) {
	if len(cities) < 2 {
		return nil, &InvalidInputError{Field: "cities", Reason: fmt.Sprintf("need at least 2 cities, got %d", len(cities))}
	}
	for i, c := range cities {
		if !isFinite(c.X) || !isFinite(c.Y) {
			return nil, &InvalidInputError{Field: "cities", Reason: fmt.Sprintf("city %d has non-finite coordinates (%v, %v)", i, c.X, c.Y)}
		}
	}
	if cfg.Ants <= 0 {
		return nil, &InvalidInputError{Field: "ants", Reason: fmt.Sprintf("ant count must be positive, got %d", cfg.Ants)}
	}
	if math.IsNaN(cfg.Persistence) || cfg.Persistence < 0 || cfg.Persistence > 1 {
		return nil, &InvalidInputError{Field: "persistence", Reason: fmt.Sprintf("must be in [0,1], got %v", cfg.Persistence)}
	}
	if !isFinite(cfg.Alpha) {
		return nil, &InvalidInputError{Field: "alpha", Reason: fmt.Sprintf("must be finite, got %v", cfg.Alpha)}
	}
	if !isFinite(cfg.Beta) {
		return nil, &InvalidInputError{Field: "beta", Reason: fmt.Sprintf("must be finite, got %v", cfg.Beta)}
	}
	if math.IsNaN(cfg.Q) || math.IsInf(cfg.Q, 0) || cfg.Q < 0 {
		return nil, &InvalidInputError{Field: "q", Reason: fmt.Sprintf("must be finite and non-negative, got %v", cfg.Q)}
	}

	seed := time.Now().UnixNano()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}

	owned := make([]tsp.City, len(cities))
	copy(owned, cities)
	dist, eta := buildDistanceMatrices(owned)

	return &Engine{
		cities:  owned,
		n:       len(owned),
		dist:    dist,
		eta:     eta,
		pher:    newPheromoneStore(len(owned)),
		cfg:     cfg,
		seed:    seed,
		bestLen: math.Inf(1),
	}, nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// RunCycle advances the simulation by exactly one Ant-Cycle iteration:
//
//  1. every ant constructs a tour, start cities assigned round-robin
//     (ant k starts at city k mod n), and its length is measured
//  2. tau is evaporated by the persistence factor
//  3. every (tour, length) pair deposits
//  4. the global best is replaced if this cycle found a strictly shorter tour
//  5. the cycle mean is computed
//
// The phases run strictly in that order; deposition always sees the fully
// evaporated matrix. The returned record carries defensive copies and is the
// caller's to keep.
func (e *Engine) RunCycle() CycleStats {
	m := e.cfg.Ants
	tours := make([]Tour, m)
	lengths := make([]float64, m)

	start := time.Now()
	if e.cfg.Workers > 1 {
		e.constructAll(tours, lengths)
	} else {
		for k := 0; k < m; k++ {
			e.constructAnt(k, tours, lengths)
		}
	}
	constructTime := time.Since(start)

	start = time.Now()
	e.pher.evaporate(e.cfg.Persistence)
	evaporateTime := time.Since(start)

	start = time.Now()
	for k := 0; k < m; k++ {
		e.pher.deposit(tours[k], lengths[k], e.cfg.Q)
	}
	depositTime := time.Since(start)

	bestIdx := 0
	sum := 0.0
	for k := 0; k < m; k++ {
		sum += lengths[k]
		if lengths[k] < lengths[bestIdx] {
			bestIdx = k
		}
	}
	if lengths[bestIdx] < e.bestLen {
		e.bestLen = lengths[bestIdx]
		e.bestTour = append(Tour(nil), tours[bestIdx]...)
	}

	e.cycle++

	return CycleStats{
		Cycle:          e.cycle,
		BestLenCycle:   lengths[bestIdx],
		MeanLenCycle:   sum / float64(m),
		BestLenGlobal:  e.bestLen,
		BestTourGlobal: append(Tour(nil), e.bestTour...),
		AllLengths:     append([]float64(nil), lengths...),
		ConstructTime:  constructTime,
		EvaporateTime:  evaporateTime,
		DepositTime:    depositTime,
	}
}

// constructAnt builds the tour for ant k of the current cycle and records
// its length.
func (e *Engine) constructAnt(k int, tours []Tour, lengths []float64) {
	rng := antRNG(e.seed, e.cycle, k)
	t := constructTour(k%e.n, e.pher.tau, e.eta, e.cfg.Alpha, e.cfg.Beta, rng)
	tours[k] = t
	lengths[k] = t.length(e.dist)
}

// constructAll stripes the ants across the configured workers. Construction
// only reads tau and eta, so every worker sees the same snapshot; the
// per-ant streams make the outcome identical to the sequential loop. All
// writes go to disjoint slice indices.
func (e *Engine) constructAll(tours []Tour, lengths []float64) {
	workers := e.cfg.Workers
	if workers > len(tours) {
		workers = len(tours)
	}
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for k := w; k < len(tours); k += workers {
				e.constructAnt(k, tours, lengths)
			}
		}(w)
	}
	wg.Wait()
}

// N returns the number of cities.
func (e *Engine) N() int { return e.n }

// Ants returns the per-cycle ant count.
func (e *Engine) Ants() int { return e.cfg.Ants }

// Cycle returns how many cycles have completed.
func (e *Engine) Cycle() int { return e.cycle }

// Best returns a copy of the shortest tour found so far and its length.
// Before the first cycle the tour is nil and the length +Inf.
func (e *Engine) Best() (Tour, float64) {
	return append(Tour(nil), e.bestTour...), e.bestLen
}

// Cities returns a copy of the engine's city set.
func (e *Engine) Cities() []tsp.City {
	return append([]tsp.City(nil), e.cities...)
}

// PheromoneSnapshot copies out the current tau matrix, row-major.
func (e *Engine) PheromoneSnapshot() [][]float64 {
	return e.pher.tau.rows()
}
