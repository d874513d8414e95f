package monitor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/issoudelache/ANT-tsp--demo/internal/bench"
	"github.com/issoudelache/ANT-tsp--demo/internal/config"
	"github.com/issoudelache/ANT-tsp--demo/internal/db"
	"github.com/issoudelache/ANT-tsp--demo/internal/monitoring"
	"github.com/issoudelache/ANT-tsp--demo/internal/security"
)

// ErrSweepInProgress is returned by Start while a sweep is already active.
var ErrSweepInProgress = errors.New("sweep already in progress")

// SweepStatus represents the current state of a benchmark sweep
type SweepStatus string

const (
	SweepStatusIdle     SweepStatus = "idle"
	SweepStatusRunning  SweepStatus = "running"
	SweepStatusComplete SweepStatus = "complete"
	SweepStatusError    SweepStatus = "error"
)

// SweepRequest defines the parameters for starting a sweep. Either Suite
// names a built-in configuration list, or the per-dimension value lists are
// expanded to their cartesian product. Empty dimensions fall back to the
// standard single value.
type SweepRequest struct {
	// Suite selects a built-in list: "default" (the full benchmark suite)
	// or "quick" (three light runs). When set, the grid fields are ignored.
	Suite string `json:"suite,omitempty"`

	Sizes        []int     `json:"sizes,omitempty"`
	Ants         []int     `json:"ants,omitempty"`
	Cycles       []int     `json:"cycles,omitempty"`
	Alphas       []float64 `json:"alphas,omitempty"`
	Betas        []float64 `json:"betas,omitempty"`
	Persistences []float64 `json:"persistences,omitempty"`
	Qs           []float64 `json:"qs,omitempty"`
	Seeds        []int64   `json:"seeds,omitempty"`

	// Workers sets the construction goroutines inside each run. The runs
	// themselves execute sequentially so their timings stay comparable.
	Workers int `json:"workers,omitempty"`
}

// SweepState holds the current state and results of a sweep
type SweepState struct {
	Status        SweepStatus      `json:"status"`
	StartedAt     *time.Time       `json:"started_at,omitempty"`
	CompletedAt   *time.Time       `json:"completed_at,omitempty"`
	TotalRuns     int              `json:"total_runs"`
	CompletedRuns int              `json:"completed_runs"`
	CurrentConfig *bench.RunConfig `json:"current_config,omitempty"`
	Results       []bench.Record   `json:"results"`
	ExportPath    string           `json:"export_path,omitempty"`
	Error         string           `json:"error,omitempty"`
	Warnings      []string         `json:"warnings,omitempty"`
	Request       *SweepRequest    `json:"request,omitempty"`
}

// SweepManager orchestrates benchmark sweeps for the dashboard. One sweep at
// a time; individual run failures are recorded as warnings and the sweep
// continues.
type SweepManager struct {
	store    *db.DB
	defaults *config.TuningConfig

	mu     sync.RWMutex
	state  SweepState
	cancel context.CancelFunc
}

// NewSweepManager creates a sweep manager. store may be nil, in which case
// results exist only in the sweep state and the CSV export.
func NewSweepManager(store *db.DB, defaults *config.TuningConfig) *SweepManager {
	if defaults == nil {
		defaults = config.EmptyTuningConfig()
	}
	return &SweepManager{
		store:    store,
		defaults: defaults,
		state:    SweepState{Status: SweepStatusIdle},
	}
}

// addWarning appends a warning message to the sweep state.
func (m *SweepManager) addWarning(msg string) {
	m.mu.Lock()
	m.state.Warnings = append(m.state.Warnings, msg)
	m.mu.Unlock()
}

// expandConfigs resolves the request into a concrete configuration list.
func (m *SweepManager) expandConfigs(req SweepRequest) ([]bench.RunConfig, error) {
	var configs []bench.RunConfig
	switch req.Suite {
	case "default":
		configs = bench.DefaultConfigs()
	case "quick":
		configs = bench.QuickConfigs()
	case "":
		grid := bench.Grid{
			Sizes:        req.Sizes,
			Ants:         req.Ants,
			Cycles:       req.Cycles,
			Alphas:       req.Alphas,
			Betas:        req.Betas,
			Persistences: req.Persistences,
			Qs:           req.Qs,
			Seeds:        req.Seeds,
		}
		var err error
		configs, err = grid.Configs(m.defaults.GetMaxSweepConfigs())
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown suite %q (want \"default\" or \"quick\")", req.Suite)
	}

	if req.Workers > 0 {
		for i := range configs {
			configs[i].Workers = req.Workers
		}
	}
	return configs, nil
}

// Start validates the request and launches the sweep in a background
// goroutine. ctx bounds the sweep's lifetime, so pass a server-scoped
// context rather than a per-request one.
func (m *SweepManager) Start(ctx context.Context, req SweepRequest) error {
	configs, err := m.expandConfigs(req)
	if err != nil {
		return err
	}
	if len(configs) == 0 {
		return fmt.Errorf("no configurations to sweep")
	}

	// Now acquire lock for state modification
	m.mu.Lock()
	if m.state.Status == SweepStatusRunning {
		m.mu.Unlock()
		return ErrSweepInProgress
	}

	now := time.Now()
	m.state = SweepState{
		Status:    SweepStatusRunning,
		StartedAt: &now,
		TotalRuns: len(configs),
		Results:   make([]bench.Record, 0, len(configs)),
		Request:   &req,
	}

	sweepCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.mu.Unlock()

	go m.run(sweepCtx, configs)

	return nil
}

// Stop cancels a running sweep. Completed runs stay visible in the state.
func (m *SweepManager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// run executes the sweep in a background goroutine.
func (m *SweepManager) run(ctx context.Context, configs []bench.RunConfig) {
	total := len(configs)
	results := make([]*bench.Result, 0, total)

	for i, cfg := range configs {
		select {
		case <-ctx.Done():
			m.stopWithError(fmt.Sprintf("sweep stopped at run %d/%d: %v", i+1, total, ctx.Err()))
			return
		default:
		}

		monitoring.Logf("[sweep] run %d/%d: n=%d m=%d cycles=%d alpha=%.2f beta=%.2f p=%.2f q=%.1f seed=%d",
			i+1, total, cfg.N, cfg.Ants, cfg.Cycles, cfg.Alpha, cfg.Beta, cfg.Persistence, cfg.Q, cfg.Seed)

		m.mu.Lock()
		current := cfg
		m.state.CurrentConfig = &current
		m.mu.Unlock()

		res, err := bench.RunOne(ctx, cfg)
		if err != nil {
			if ctx.Err() != nil {
				// Cancellation surfaces through RunOne; report it as a stop
				// rather than a per-run failure.
				m.stopWithError(fmt.Sprintf("sweep stopped at run %d/%d: %v", i+1, total, ctx.Err()))
				return
			}
			monitoring.Logf("[sweep] ERROR: run %d/%d failed: %v", i+1, total, err)
			m.addWarning(fmt.Sprintf("run %d: %v", i+1, err))
			continue
		}

		results = append(results, res)
		if m.store != nil {
			if err := m.store.InsertBenchmarkRun(res); err != nil {
				monitoring.Logf("[sweep] WARNING: failed to persist run %s: %v", res.RunID, err)
				m.addWarning(fmt.Sprintf("run %d: persist failed: %v", i+1, err))
			}
		}

		m.mu.Lock()
		m.state.Results = append(m.state.Results, res.Record())
		m.state.CompletedRuns = i + 1
		m.mu.Unlock()
	}

	exportPath := m.exportResults(results)

	m.mu.Lock()
	m.state.Status = SweepStatusComplete
	now := time.Now()
	m.state.CompletedAt = &now
	m.state.CurrentConfig = nil
	m.state.ExportPath = exportPath
	m.mu.Unlock()
	monitoring.Logf("[sweep] sweep complete: %d/%d runs succeeded", len(results), total)
}

// stopWithError marks the sweep as stopped and records when.
func (m *SweepManager) stopWithError(msg string) {
	m.mu.Lock()
	m.state.Status = SweepStatusError
	m.state.Error = msg
	now := time.Now()
	m.state.CompletedAt = &now
	m.state.CurrentConfig = nil
	m.mu.Unlock()
}

// exportResults writes the sweep summary next to the configured export file,
// under a timestamped filename so consecutive sweeps never clobber each
// other. Returns the written path, or "" when nothing was written.
func (m *SweepManager) exportResults(results []*bench.Result) string {
	records := bench.Records(results)
	if len(records) == 0 {
		return ""
	}
	dir := filepath.Dir(m.defaults.GetExportPath())
	path := filepath.Join(dir, fmt.Sprintf("sweep_%s.csv", FormatTimestamp(time.Now())))
	if err := security.ValidateExportPath(path); err != nil {
		monitoring.Logf("[sweep] WARNING: refusing export path: %v", err)
		m.addWarning(fmt.Sprintf("export failed: %v", err))
		return ""
	}
	if err := bench.WriteCSV(path, records); err != nil {
		monitoring.Logf("[sweep] WARNING: failed to export results: %v", err)
		m.addWarning(fmt.Sprintf("export failed: %v", err))
		return ""
	}
	monitoring.Logf("[sweep] exported %d rows to %s", len(records), path)
	return path
}

// GetSweepState returns a copy of the current sweep state.
func (m *SweepManager) GetSweepState() SweepState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	// Return a copy to avoid race conditions
	state := m.state
	results := make([]bench.Record, len(m.state.Results))
	copy(results, m.state.Results)
	state.Results = results
	state.Warnings = append([]string(nil), m.state.Warnings...)
	return state
}
