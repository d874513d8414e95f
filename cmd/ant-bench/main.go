package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/issoudelache/ANT-tsp--demo/internal/bench"
	"github.com/issoudelache/ANT-tsp--demo/internal/db"
)

func main() {
	// The migrate subcommand manages the results database schema and
	// bypasses the benchmark flags entirely.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrate(os.Args[2:])
		return
	}

	// Suite selection
	suite := flag.String("suite", "", "Predefined suite: 'default' or 'quick' (overrides the grid flags)")

	// Parameter grid (cartesian product of all listed values; each flag
	// takes comma-separated values or a min:max:step range)
	sizes := flag.String("sizes", "", "Problem sizes (e.g. 20,50,100 or 10:50:10)")
	ants := flag.String("ants", "", "Ant counts (0 means one ant per city)")
	cycles := flag.String("cycles", "", "Cycle counts (default 50)")
	alphas := flag.String("alphas", "", "Pheromone weights (default 1.0)")
	betas := flag.String("betas", "", "Visibility weights (default 5.0)")
	ps := flag.String("ps", "", "Persistence values (default 0.5)")
	qs := flag.String("qs", "", "Deposit constants (default 100.0)")
	seeds := flag.String("seeds", "", "Random seeds (default 42)")
	limit := flag.Int("limit", 1000, "Maximum number of grid configurations")

	// Execution
	workers := flag.Int("workers", 1, "Goroutines used for tour construction within a run")
	parallel := flag.Int("parallel", 1, "Runs executed concurrently (values above 1 skew per-run timings)")

	// Output
	output := flag.String("output", "", "Output CSV filename (defaults to benchmarks-<timestamp>.csv)")
	dbFile := flag.String("db", "", "Also record results in this SQLite database (empty disables)")

	flag.Parse()

	configs, err := buildConfigs(*suite, *sizes, *ants, *cycles, *alphas, *betas, *ps, *qs, *seeds, *limit)
	if err != nil {
		log.Fatalf("Invalid benchmark plan: %v", err)
	}
	for i := range configs {
		configs[i].Workers = *workers
	}

	var store *db.DB
	if *dbFile != "" {
		store, err = db.NewDB(*dbFile)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("Benchmark plan: %d runs (parallel=%d, workers=%d)", len(configs), *parallel, *workers)

	start := time.Now()
	results := bench.RunAll(ctx, configs, *parallel)
	if ctx.Err() != nil {
		log.Printf("Benchmark interrupted; writing completed runs")
	}

	records := bench.Records(results)
	if len(records) == 0 {
		log.Fatal("No successful runs to report")
	}

	if store != nil {
		inserted := 0
		for _, res := range results {
			if res == nil {
				continue
			}
			if err := store.InsertBenchmarkRun(res); err != nil {
				log.Printf("WARNING: failed to record run %s: %v", res.RunID, err)
				continue
			}
			inserted++
		}
		log.Printf("Recorded %d runs in %s", inserted, *dbFile)
	}

	filename := *output
	if filename == "" {
		filename = fmt.Sprintf("benchmarks-%s.csv", time.Now().Format("20060102-150405"))
	}
	if err := bench.WriteCSV(filename, records); err != nil {
		log.Fatalf("Could not write output file %s: %v", filename, err)
	}

	top := records[0]
	for _, r := range records[1:] {
		if r.ImprovementPct > top.ImprovementPct {
			top = r
		}
	}

	log.Printf("\nBenchmark complete! %d/%d runs in %s", len(records), len(configs), time.Since(start).Round(time.Millisecond))
	log.Printf("Largest improvement: %.1f%% (n=%d m=%d cycles=%d alpha=%.1f beta=%.1f p=%.2f q=%.1f)",
		top.ImprovementPct, top.N, top.Ants, top.Cycles, top.Alpha, top.Beta, top.Persistence, top.Q)
	log.Printf("Results: %s", filename)
}

// buildConfigs turns the suite or grid flags into run configurations. With
// neither a suite nor sizes it falls back to the quick suite.
func buildConfigs(suite, sizes, ants, cycles, alphas, betas, ps, qs, seeds string, limit int) ([]bench.RunConfig, error) {
	switch suite {
	case "default":
		return bench.DefaultConfigs(), nil
	case "quick":
		return bench.QuickConfigs(), nil
	case "":
	default:
		return nil, fmt.Errorf("unknown suite %q (want \"default\" or \"quick\")", suite)
	}

	var grid bench.Grid
	var err error
	if grid.Sizes, err = bench.ParseIntParamList(sizes); err != nil {
		return nil, fmt.Errorf("invalid -sizes: %w", err)
	}
	if grid.Ants, err = bench.ParseIntParamList(ants); err != nil {
		return nil, fmt.Errorf("invalid -ants: %w", err)
	}
	if grid.Cycles, err = bench.ParseIntParamList(cycles); err != nil {
		return nil, fmt.Errorf("invalid -cycles: %w", err)
	}
	if grid.Alphas, err = bench.ParseParamList(alphas); err != nil {
		return nil, fmt.Errorf("invalid -alphas: %w", err)
	}
	if grid.Betas, err = bench.ParseParamList(betas); err != nil {
		return nil, fmt.Errorf("invalid -betas: %w", err)
	}
	if grid.Persistences, err = bench.ParseParamList(ps); err != nil {
		return nil, fmt.Errorf("invalid -ps: %w", err)
	}
	if grid.Qs, err = bench.ParseParamList(qs); err != nil {
		return nil, fmt.Errorf("invalid -qs: %w", err)
	}
	if grid.Seeds, err = bench.ParseSeedList(seeds); err != nil {
		return nil, fmt.Errorf("invalid -seeds: %w", err)
	}

	if len(grid.Sizes) == 0 {
		log.Printf("No suite or sizes given; running the quick suite")
		return bench.QuickConfigs(), nil
	}
	return grid.Configs(limit)
}

// runMigrate handles "ant-bench migrate <action>".
func runMigrate(args []string) {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	dbPath := fs.String("db", "benchmarks.db", "Path to the SQLite results database")
	fs.Parse(args)
	db.RunMigrateCommand(fs.Args(), *dbPath)
}
