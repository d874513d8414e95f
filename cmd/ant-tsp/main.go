package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/issoudelache/ANT-tsp--demo/internal/aco"
	"github.com/issoudelache/ANT-tsp--demo/internal/bench"
	"github.com/issoudelache/ANT-tsp--demo/internal/db"
	"github.com/issoudelache/ANT-tsp--demo/internal/monitor"
	"github.com/issoudelache/ANT-tsp--demo/internal/tsp"
)

var (
	nCities   = flag.Int("n", 30, "Number of cities")
	nAnts     = flag.Int("m", 0, "Number of ants (default: one per city)")
	cycles    = flag.Int("cycles", 50, "Number of cycles to run")
	alpha     = flag.Float64("alpha", 1.0, "Pheromone weight")
	beta      = flag.Float64("beta", 5.0, "Visibility weight")
	p         = flag.Float64("p", 0.5, "Pheromone persistence (fraction retained per cycle)")
	q         = flag.Float64("q", 100.0, "Deposit constant")
	seed      = flag.Int64("seed", bench.DefaultSeed, "Random seed for city layout and tour construction")
	workers   = flag.Int("workers", 1, "Goroutines used for tour construction")
	printTour = flag.Bool("print-tour", false, "Print the city order of the best tour")
	plots     = flag.Bool("plots", false, "Write convergence and tour PNGs after the run")
	plotsDir  = flag.String("plots-dir", "plots", "Base directory for PNG output")
	dbFile    = flag.String("db", "", "Record the result into this SQLite database (empty disables)")
)

func main() {
	flag.Parse()

	if *nCities < 2 {
		log.Fatalf("need at least 2 cities, got %d", *nCities)
	}
	if *cycles < 1 {
		log.Fatalf("need at least 1 cycle, got %d", *cycles)
	}

	ants := *nAnts
	if ants == 0 {
		ants = *nCities
	}

	cities := tsp.GenerateCities(*nCities, *seed)
	engineSeed := *seed
	engine, err := aco.New(cities, aco.Config{
		Alpha:       *alpha,
		Beta:        *beta,
		Persistence: *p,
		Q:           *q,
		Ants:        ants,
		Seed:        &engineSeed,
		Workers:     *workers,
	})
	if err != nil {
		log.Fatalf("failed to build solver: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("solving: n=%d m=%d cycles=%d alpha=%.2f beta=%.2f p=%.2f q=%.1f seed=%d",
		*nCities, ants, *cycles, *alpha, *beta, *p, *q, *seed)

	interval := *cycles / 10
	if interval < 1 {
		interval = 1
	}

	start := time.Now()
	startedAt := start.UTC()
	history := make([]aco.CycleStats, 0, *cycles)
	var firstBest, meanFinal float64
	cyclesDone := 0

loop:
	for cycle := 1; cycle <= *cycles; cycle++ {
		select {
		case <-ctx.Done():
			log.Printf("interrupted at cycle %d/%d", cycle, *cycles)
			break loop
		default:
		}

		stats := engine.RunCycle()
		history = append(history, stats)
		cyclesDone = cycle
		if cycle == 1 {
			firstBest = stats.BestLenCycle
		}
		meanFinal = stats.MeanLenCycle
		if cycle%interval == 0 || cycle == *cycles {
			log.Printf("cycle %d/%d: best=%.2f mean=%.2f global=%.2f",
				cycle, *cycles, stats.BestLenCycle, stats.MeanLenCycle, stats.BestLenGlobal)
		}
	}

	if cyclesDone == 0 {
		log.Fatal("no cycles completed")
	}

	runtime := time.Since(start)
	tour, best := engine.Best()
	improvement := 0.0
	if firstBest > 0 {
		improvement = (firstBest - best) / firstBest * 100.0
	}

	log.Printf("best tour length: %.4f", best)
	log.Printf("mean length (final cycle): %.4f", meanFinal)
	log.Printf("improvement over first cycle: %.1f%%", improvement)
	log.Printf("runtime: %s (%s per cycle)", runtime, runtime/time.Duration(cyclesDone))

	if *printTour {
		var b strings.Builder
		for i, city := range tour {
			if i > 0 {
				b.WriteString(" -> ")
			}
			b.WriteString(strconv.Itoa(city))
		}
		log.Printf("best tour: %s", b.String())
	}

	if *plots {
		dir := monitor.MakePlotOutputDir(*plotsDir, "")
		count, err := monitor.SaveRunPlots(dir, cities, tour, best, history)
		if err != nil {
			log.Fatalf("failed to write plots: %v", err)
		}
		log.Printf("wrote %d plots to %s", count, dir)
	}

	if *dbFile != "" {
		store, err := db.NewDB(*dbFile)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer store.Close()

		res := &bench.Result{
			RunID: uuid.New().String(),
			Config: bench.RunConfig{
				N:           *nCities,
				Ants:        ants,
				Cycles:      cyclesDone,
				Alpha:       *alpha,
				Beta:        *beta,
				Persistence: *p,
				Q:           *q,
				Seed:        *seed,
				Workers:     *workers,
			},
			StartedAt:      startedAt,
			Runtime:        runtime,
			TimePerCycle:   runtime / time.Duration(cyclesDone),
			BestLenGlobal:  best,
			BestTour:       tour,
			MeanLenFinal:   meanFinal,
			ImprovementPct: improvement,
			History:        history,
		}
		if err := store.InsertBenchmarkRun(res); err != nil {
			log.Fatalf("failed to record run: %v", err)
		}
		log.Printf("recorded run %s in %s", res.RunID, *dbFile)
	}
}
