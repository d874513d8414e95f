package monitor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/issoudelache/ANT-tsp--demo/internal/aco"
	"github.com/issoudelache/ANT-tsp--demo/internal/tsp"
)

func testHistory() []aco.CycleStats {
	return []aco.CycleStats{
		{Cycle: 1, BestLenCycle: 52.0, MeanLenCycle: 61.5, BestLenGlobal: 52.0},
		{Cycle: 2, BestLenCycle: 48.0, MeanLenCycle: 55.0, BestLenGlobal: 48.0},
		{Cycle: 3, BestLenCycle: 49.0, MeanLenCycle: 51.2, BestLenGlobal: 48.0},
	}
}

func testCities() []tsp.City {
	return []tsp.City{
		{X: 0, Y: 0},
		{X: 10, Y: 0},
		{X: 10, Y: 10},
		{X: 0, Y: 10},
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := FormatTimestamp(time.Date(2026, 1, 7, 17, 31, 29, 0, time.UTC))
	if ts != "20260107_173129" {
		t.Errorf("expected 20260107_173129, got %s", ts)
	}
}

func TestMakePlotOutputDir(t *testing.T) {
	withID := MakePlotOutputDir("plots", "run-abc")
	if !strings.HasPrefix(withID, filepath.Join("plots", "run-abc")) {
		t.Errorf("expected run ID in path, got %s", withID)
	}

	withoutID := MakePlotOutputDir("plots", "")
	if !strings.HasPrefix(filepath.Base(withoutID), "run_") {
		t.Errorf("expected run_ prefix, got %s", withoutID)
	}

	hostile := MakePlotOutputDir("plots", "../escape")
	if strings.Contains(hostile, "..") {
		t.Errorf("expected sanitized run ID, got %s", hostile)
	}
}

func TestGenerateColors(t *testing.T) {
	colors := generateColors(5)
	if len(colors) != 5 {
		t.Fatalf("expected 5 colors, got %d", len(colors))
	}
	if colors[0] == colors[4] {
		t.Error("expected distinct colors across the palette")
	}
	if generateColors(0) != nil {
		t.Error("expected nil palette for n=0")
	}
}

func TestConvergencePlot(t *testing.T) {
	p, err := convergencePlot(testHistory())
	if err != nil {
		t.Fatalf("convergencePlot: %v", err)
	}
	if p.Title.Text != "ACO Convergence" {
		t.Errorf("unexpected title %q", p.Title.Text)
	}
}

func TestTourPlot(t *testing.T) {
	p, err := tourPlot(testCities(), aco.Tour{0, 1, 2, 3}, 40.0)
	if err != nil {
		t.Fatalf("tourPlot: %v", err)
	}
	if !strings.Contains(p.Title.Text, "40.00") {
		t.Errorf("expected tour length in title, got %q", p.Title.Text)
	}
}

func TestSaveRunPlots(t *testing.T) {
	dir := t.TempDir()
	count, err := SaveRunPlots(dir, testCities(), aco.Tour{0, 1, 2, 3}, 40.0, testHistory())
	if err != nil {
		t.Fatalf("SaveRunPlots: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 plots, got %d", count)
	}
	for _, name := range []string{"convergence.png", "tour.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestSaveRunPlotsPartial(t *testing.T) {
	dir := t.TempDir()
	count, err := SaveRunPlots(dir, testCities(), aco.Tour{0, 1, 2, 3}, 40.0, nil)
	if err != nil {
		t.Fatalf("SaveRunPlots: %v", err)
	}
	if count != 1 {
		t.Errorf("expected only the tour plot, got %d", count)
	}

	count, err = SaveRunPlots(dir, nil, nil, 0, nil)
	if err != nil {
		t.Fatalf("SaveRunPlots with no data: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no plots for empty run, got %d", count)
	}
}
