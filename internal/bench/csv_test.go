package bench

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/issoudelache/ANT-tsp--demo/internal/aco"
)

func sampleRecords() []Record {
	return []Record{
		{
			N: 20, Ants: 20, Cycles: 50,
			Alpha: 1.0, Beta: 5.0, Persistence: 0.5, Q: 100.0, Seed: 42,
			RuntimeSec: 1.25, TimePerCycle: 0.025,
			BestLenGlobal: 412.5, MeanLenFinal: 430.125, ImprovementPct: 12.5,
		},
		{
			N: 50, Ants: 25, Cycles: 100,
			Alpha: 1.5, Beta: 3.0, Persistence: 0.9, Q: 0, Seed: 2025,
			RuntimeSec: 8.5, TimePerCycle: 0.085,
			BestLenGlobal: 612.75, MeanLenFinal: 650.5, ImprovementPct: 4.25,
		},
	}
}

func TestWriteReadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "benchmarks.csv")
	records := sampleRecords()

	require.NoError(t, WriteCSV(path, records))

	loaded, err := ReadCSV(path)
	require.NoError(t, err)
	if diff := cmp.Diff(records, loaded); diff != "" {
		t.Errorf("records differ after roundtrip (-want +got):\n%s", diff)
	}
}

func TestWriteCSVHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "benchmarks.csv")
	require.NoError(t, WriteCSV(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	first := strings.SplitN(string(data), "\n", 2)[0]
	assert.Equal(t, strings.Join(Header, ","), first)
}

func TestAppendCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "benchmarks.csv")
	records := sampleRecords()

	// Appending to a missing file creates it, header included.
	require.NoError(t, AppendCSV(path, records[:1]))
	require.NoError(t, AppendCSV(path, records[1:]))

	loaded, err := ReadCSV(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	if diff := cmp.Diff(records, loaded); diff != "" {
		t.Errorf("records differ (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "n,m,cycles"), "header must appear exactly once")
}

func TestReadCSVMissing(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestReadCSVRejectsUnknownHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b,c\n1,2,3\n"), 0644))

	_, err := ReadCSV(path)
	assert.Error(t, err)
}

func TestReadCSVRejectsBadRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	var sb strings.Builder
	sb.WriteString(strings.Join(Header, ","))
	sb.WriteString("\n20,20,50,1.0,5.0,0.5,100.0,notaseed,1.0,0.02,400,410,5\n")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0644))

	_, err := ReadCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed")
}

func TestResultRecord(t *testing.T) {
	res := &Result{
		RunID:          "test",
		Config:         NewRunConfig(30, 15, 200, 7),
		Runtime:        2500 * time.Millisecond,
		TimePerCycle:   12500 * time.Microsecond,
		BestLenGlobal:  512.5,
		BestTour:       aco.Tour{0, 1, 2, 0},
		MeanLenFinal:   530.25,
		ImprovementPct: 8.0,
	}

	rec := res.Record()
	assert.Equal(t, 30, rec.N)
	assert.Equal(t, 15, rec.Ants)
	assert.Equal(t, 200, rec.Cycles)
	assert.Equal(t, int64(7), rec.Seed)
	assert.InDelta(t, 2.5, rec.RuntimeSec, 1e-12)
	assert.InDelta(t, 0.0125, rec.TimePerCycle, 1e-12)
	assert.Equal(t, 512.5, rec.BestLenGlobal)
	assert.Equal(t, 530.25, rec.MeanLenFinal)
	assert.Equal(t, 8.0, rec.ImprovementPct)
}

func TestRecordsSkipsFailedRuns(t *testing.T) {
	results := []*Result{
		{Config: NewRunConfig(10, 10, 10, 1), BestLenGlobal: 100},
		nil,
		{Config: NewRunConfig(20, 20, 10, 2), BestLenGlobal: 200},
	}

	records := Records(results)
	require.Len(t, records, 2)
	assert.Equal(t, 10, records[0].N)
	assert.Equal(t, 20, records[1].N)
}
