// Package monitor serves the solver dashboard: a web UI plus JSON API for
// launching runs and parameter sweeps, watching their progress cycle by
// cycle, and rendering convergence and tour charts from the live state.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/issoudelache/ANT-tsp--demo/internal/aco"
	"github.com/issoudelache/ANT-tsp--demo/internal/bench"
	"github.com/issoudelache/ANT-tsp--demo/internal/config"
	"github.com/issoudelache/ANT-tsp--demo/internal/db"
	"github.com/issoudelache/ANT-tsp--demo/internal/monitoring"
	"github.com/issoudelache/ANT-tsp--demo/internal/tsp"
)

// ErrRunInProgress is returned by Start while a run is already active.
var ErrRunInProgress = errors.New("run already in progress")

// RunStatus represents the current state of a solver run
type RunStatus string

const (
	RunStatusIdle     RunStatus = "idle"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusError    RunStatus = "error"
)

// RunRequest defines the parameters for starting a run. Only N is required;
// everything else falls back to the tuning defaults. The hyperparameters are
// pointers because zero is a legal value for p and Q, so absence and zero
// must stay distinguishable.
type RunRequest struct {
	N           int      `json:"n"`
	Ants        int      `json:"m,omitempty"`
	Cycles      int      `json:"cycles,omitempty"`
	Alpha       *float64 `json:"alpha,omitempty"`
	Beta        *float64 `json:"beta,omitempty"`
	Persistence *float64 `json:"p,omitempty"`
	Q           *float64 `json:"q,omitempty"`
	Seed        *int64   `json:"seed,omitempty"`
	Workers     int      `json:"workers,omitempty"`
}

// RunState holds the current state and results of a run
type RunState struct {
	Status          RunStatus        `json:"status"`
	RunID           string           `json:"run_id,omitempty"`
	StartedAt       *time.Time       `json:"started_at,omitempty"`
	CompletedAt     *time.Time       `json:"completed_at,omitempty"`
	Config          *bench.RunConfig `json:"config,omitempty"`
	Cities          []tsp.City       `json:"cities,omitempty"`
	TotalCycles     int              `json:"total_cycles"`
	CompletedCycles int              `json:"completed_cycles"`
	BestLenGlobal   float64          `json:"best_len_global"`
	BestTour        aco.Tour         `json:"best_tour,omitempty"`
	History         []aco.CycleStats `json:"history"`
	Error           string           `json:"error,omitempty"`

	// pheromone is the latest tau snapshot, refreshed every cycle. Kept out
	// of the JSON state because it is n*n floats; the heatmap handler reads
	// it through Pheromone instead.
	pheromone [][]float64
}

// RunManager drives interactive solver runs for the dashboard. One run at a
// time; a second Start while a run is active fails.
type RunManager struct {
	store    *db.DB
	defaults *config.TuningConfig

	mu     sync.RWMutex
	state  RunState
	cancel context.CancelFunc
}

// NewRunManager creates a run manager. store may be nil, in which case
// completed runs are not persisted.
func NewRunManager(store *db.DB, defaults *config.TuningConfig) *RunManager {
	if defaults == nil {
		defaults = config.EmptyTuningConfig()
	}
	return &RunManager{
		store:    store,
		defaults: defaults,
		state:    RunState{Status: RunStatusIdle},
	}
}

// buildConfig resolves a request against the tuning defaults. N passes
// through unchanged so Validate can reject it with a useful message.
func (m *RunManager) buildConfig(req RunRequest) bench.RunConfig {
	ants := req.Ants
	if ants == 0 {
		ants = m.defaults.GetAnts()
	}
	cycles := req.Cycles
	if cycles <= 0 {
		cycles = m.defaults.GetCycles()
	}
	seed := bench.DefaultSeed
	if req.Seed != nil {
		seed = *req.Seed
	}

	cfg := bench.NewRunConfig(req.N, ants, cycles, seed)
	cfg.Alpha = m.defaults.GetAlpha()
	if req.Alpha != nil {
		cfg.Alpha = *req.Alpha
	}
	cfg.Beta = m.defaults.GetBeta()
	if req.Beta != nil {
		cfg.Beta = *req.Beta
	}
	cfg.Persistence = m.defaults.GetPersistence()
	if req.Persistence != nil {
		cfg.Persistence = *req.Persistence
	}
	cfg.Q = m.defaults.GetQ()
	if req.Q != nil {
		cfg.Q = *req.Q
	}
	cfg.Workers = req.Workers
	if cfg.Workers == 0 {
		cfg.Workers = m.defaults.GetWorkers()
	}
	return cfg
}

// Start validates the request, builds the solver, and launches the run in a
// background goroutine. ctx bounds the lifetime of the run: cancelling it
// stops the solver between cycles, so pass a server-scoped context rather
// than a per-request one.
func (m *RunManager) Start(ctx context.Context, req RunRequest) error {
	cfg := m.buildConfig(req)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid run config: %w", err)
	}

	ants := cfg.Ants
	if ants == 0 {
		ants = cfg.N
	}
	cities := tsp.GenerateCities(cfg.N, cfg.Seed)
	seed := cfg.Seed
	engine, err := aco.New(cities, aco.Config{
		Alpha:       cfg.Alpha,
		Beta:        cfg.Beta,
		Persistence: cfg.Persistence,
		Q:           cfg.Q,
		Ants:        ants,
		Seed:        &seed,
		Workers:     cfg.Workers,
	})
	if err != nil {
		return fmt.Errorf("creating solver: %w", err)
	}

	// Now acquire lock for state modification
	m.mu.Lock()
	if m.state.Status == RunStatusRunning {
		m.mu.Unlock()
		return ErrRunInProgress
	}

	now := time.Now()
	m.state = RunState{
		Status:      RunStatusRunning,
		RunID:       uuid.New().String(),
		StartedAt:   &now,
		Config:      &cfg,
		Cities:      cities,
		TotalCycles: cfg.Cycles,
		History:     make([]aco.CycleStats, 0, cfg.Cycles),
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.mu.Unlock()

	go m.run(runCtx, engine, cfg)

	return nil
}

// Stop cancels a running solve. Completed cycles stay visible in the state.
func (m *RunManager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// run executes the solve in a background goroutine, publishing per-cycle
// progress into the shared state.
func (m *RunManager) run(ctx context.Context, engine *aco.Engine, cfg bench.RunConfig) {
	interval := cfg.Cycles / 10
	if interval < 1 {
		interval = 1
	}

	var firstBest, meanFinal float64
	start := time.Now()
	for cycle := 1; cycle <= cfg.Cycles; cycle++ {
		select {
		case <-ctx.Done():
			m.mu.Lock()
			m.state.Status = RunStatusError
			m.state.Error = fmt.Sprintf("run stopped at cycle %d/%d: %v", cycle, cfg.Cycles, ctx.Err())
			now := time.Now()
			m.state.CompletedAt = &now
			m.mu.Unlock()
			return
		default:
		}

		stats := engine.RunCycle()
		if cycle == 1 {
			firstBest = stats.BestLenCycle
		}
		meanFinal = stats.MeanLenCycle

		m.mu.Lock()
		m.state.History = append(m.state.History, stats)
		m.state.CompletedCycles = cycle
		m.state.BestLenGlobal = stats.BestLenGlobal
		m.state.BestTour = stats.BestTourGlobal
		m.state.pheromone = engine.PheromoneSnapshot()
		m.mu.Unlock()

		if cycle%interval == 0 || cycle == cfg.Cycles {
			monitoring.Logf("[run] cycle %d/%d: best=%.2f mean=%.2f",
				cycle, cfg.Cycles, stats.BestLenGlobal, stats.MeanLenCycle)
		}
	}
	runtime := time.Since(start)

	tour, best := engine.Best()

	m.mu.RLock()
	runID := m.state.RunID
	startedAt := *m.state.StartedAt
	history := append([]aco.CycleStats(nil), m.state.History...)
	m.mu.RUnlock()

	res := &bench.Result{
		RunID:         runID,
		Config:        cfg,
		StartedAt:     startedAt,
		Runtime:       runtime,
		TimePerCycle:  runtime / time.Duration(cfg.Cycles),
		BestLenGlobal: best,
		BestTour:      tour,
		MeanLenFinal:  meanFinal,
		History:       history,
	}
	if firstBest > 0 {
		res.ImprovementPct = (firstBest - best) / firstBest * 100.0
	}

	if m.store != nil {
		if err := m.store.InsertBenchmarkRun(res); err != nil {
			monitoring.Logf("[run] WARNING: failed to persist run %s: %v", runID, err)
		}
	}

	m.mu.Lock()
	m.state.Status = RunStatusComplete
	now := time.Now()
	m.state.CompletedAt = &now
	m.mu.Unlock()
	monitoring.Logf("[run] complete: best=%.2f improvement=%.1f%% in %s",
		best, res.ImprovementPct, runtime.Round(time.Millisecond))
}

// GetRunState returns a copy of the current run state.
func (m *RunManager) GetRunState() RunState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	// Return a copy to avoid race conditions
	state := m.state
	history := make([]aco.CycleStats, len(m.state.History))
	copy(history, m.state.History)
	state.History = history
	state.BestTour = append(aco.Tour(nil), m.state.BestTour...)
	state.Cities = append([]tsp.City(nil), m.state.Cities...)
	return state
}

// Pheromone returns the latest tau snapshot, or nil before the first cycle.
// Rows are indexed by city in generation order.
func (m *RunManager) Pheromone() [][]float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([][]float64(nil), m.state.pheromone...)
}
