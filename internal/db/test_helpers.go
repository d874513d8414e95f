package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/issoudelache/ANT-tsp--demo/internal/aco"
	"github.com/issoudelache/ANT-tsp--demo/internal/bench"
)

// newTestDB creates a fully migrated database in a temp directory.
// The connection is closed automatically when the test finishes.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	database, err := NewDB(filepath.Join(t.TempDir(), "benchmarks_test.db"))
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return database
}

// sampleResult builds a solver result with fixed values for store tests.
// The best tour is the identity permutation over n cities.
func sampleResult(runID string, n int, seed int64) *bench.Result {
	tour := make(aco.Tour, n)
	for i := range tour {
		tour[i] = i
	}

	return &bench.Result{
		RunID:          runID,
		Config:         bench.NewRunConfig(n, n, 25, seed),
		StartedAt:      time.Now().UTC(),
		Runtime:        1500 * time.Millisecond,
		TimePerCycle:   60 * time.Millisecond,
		BestLenGlobal:  412.5,
		BestTour:       tour,
		MeanLenFinal:   430.25,
		ImprovementPct: 8.5,
	}
}
