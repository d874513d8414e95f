package bench

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/issoudelache/ANT-tsp--demo/internal/aco"
	"github.com/issoudelache/ANT-tsp--demo/internal/monitoring"
	"github.com/issoudelache/ANT-tsp--demo/internal/tsp"
)

// Result holds the outcome of one benchmark run.
type Result struct {
	RunID     string    `json:"run_id"`
	Config    RunConfig `json:"config"`
	StartedAt time.Time `json:"started_at"`

	Runtime      time.Duration `json:"runtime"`
	TimePerCycle time.Duration `json:"time_per_cycle"`

	BestLenGlobal  float64  `json:"best_len_global"`
	BestTour       aco.Tour `json:"best_tour"`
	MeanLenFinal   float64  `json:"mean_len_final"`
	ImprovementPct float64  `json:"improvement_pct"`

	// History keeps the per-cycle statistics for convergence analysis.
	// It is not serialised with the summary row.
	History []aco.CycleStats `json:"-"`
}

// RunOne executes a single benchmark run to completion. The solver seed and
// the city-generation seed both come from cfg.Seed, so the same config
// always reproduces the same result. Cancelling ctx aborts between cycles.
func RunOne(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid benchmark config: %w", err)
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
		return nil, fmt.Errorf("creating solver: %w", err)
	}

	res := &Result{
		RunID:     uuid.New().String(),
		Config:    cfg,
		StartedAt: time.Now(),
		History:   make([]aco.CycleStats, 0, cfg.Cycles),
	}

	var firstBest float64
	start := time.Now()
	for cycle := 1; cycle <= cfg.Cycles; cycle++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("run stopped at cycle %d/%d: %w", cycle, cfg.Cycles, ctx.Err())
		default:
		}

		stats := engine.RunCycle()
		res.History = append(res.History, stats)
		if cycle == 1 {
			firstBest = stats.BestLenCycle
		}
		if cycle == cfg.Cycles {
			res.MeanLenFinal = stats.MeanLenCycle
		}
	}
	res.Runtime = time.Since(start)
	res.TimePerCycle = res.Runtime / time.Duration(cfg.Cycles)

	tour, best := engine.Best()
	res.BestTour = tour
	res.BestLenGlobal = best
	if firstBest > 0 {
		res.ImprovementPct = (firstBest - best) / firstBest * 100.0
	}

	return res, nil
}

// RunAll executes every configuration and returns one result per config in
// input order. A config that fails is logged and leaves a nil entry; the
// remaining runs continue. With workers > 1 the runs are distributed over a
// worker pool. Run results do not depend on the worker count, only the
// wall-clock time does.
func RunAll(ctx context.Context, configs []RunConfig, workers int) []*Result {
	results := make([]*Result, len(configs))
	if len(configs) == 0 {
		return results
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(configs) {
		workers = len(configs)
	}

	start := time.Now()

	runOne := func(i int) {
		cfg := configs[i]
		monitoring.Logf("[bench] run %d/%d: n=%d m=%d cycles=%d alpha=%.2f beta=%.2f p=%.2f q=%.1f seed=%d",
			i+1, len(configs), cfg.N, cfg.Ants, cfg.Cycles, cfg.Alpha, cfg.Beta, cfg.Persistence, cfg.Q, cfg.Seed)

		res, err := RunOne(ctx, cfg)
		if err != nil {
			monitoring.Logf("[bench] run %d/%d failed: %v", i+1, len(configs), err)
			return
		}
		results[i] = res
		monitoring.Logf("[bench] run %d/%d done in %s: best=%.2f improvement=%.1f%%",
			i+1, len(configs), res.Runtime.Round(time.Millisecond), res.BestLenGlobal, res.ImprovementPct)
	}

	if workers == 1 {
		for i := range configs {
			if ctx.Err() != nil {
				break
			}
			runOne(i)
		}
	} else {
		jobs := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					runOne(i)
				}
			}()
		}
	dispatch:
		for i := range configs {
			select {
			case <-ctx.Done():
				break dispatch
			case jobs <- i:
			}
		}
		close(jobs)
		wg.Wait()
	}

	wall := time.Since(start)
	var done int
	var solverTime time.Duration
	for _, r := range results {
		if r != nil {
			done++
			solverTime += r.Runtime
		}
	}
	if workers > 1 && wall > 0 {
		monitoring.Logf("[bench] completed %d/%d runs in %s (solver time %s, speedup %.1fx)",
			done, len(configs), wall.Round(time.Millisecond), solverTime.Round(time.Millisecond),
			float64(solverTime)/float64(wall))
	} else {
		monitoring.Logf("[bench] completed %d/%d runs in %s",
			done, len(configs), wall.Round(time.Millisecond))
	}

	return results
}
