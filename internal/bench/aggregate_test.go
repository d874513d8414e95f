package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	records := []Record{
		{N: 50, RuntimeSec: 1.0, BestLenGlobal: 10.0, ImprovementPct: 5.0},
		{N: 50, RuntimeSec: 2.0, BestLenGlobal: 20.0, ImprovementPct: 10.0},
		{N: 50, RuntimeSec: 3.0, BestLenGlobal: 30.0, ImprovementPct: 15.0},
	}

	s := Summarize(records)
	assert.Equal(t, 3, s.Runs)
	assert.InDelta(t, 2.0, s.MeanRuntimeSec, 1e-12)
	assert.Equal(t, 1.0, s.MinRuntimeSec)
	assert.Equal(t, 3.0, s.MaxRuntimeSec)
	assert.Equal(t, 10.0, s.BestLen)
	assert.InDelta(t, 20.0, s.MeanBestLen, 1e-12)
	assert.InDelta(t, 10.0, s.StdDevBestLen, 1e-12)
	assert.InDelta(t, 10.0, s.MeanImprovementPct, 1e-12)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, Summary{}, s)
}

func TestSummarizeSingleRun(t *testing.T) {
	s := Summarize([]Record{{RuntimeSec: 4.0, BestLenGlobal: 40.0}})
	assert.Equal(t, 1, s.Runs)
	assert.Equal(t, 4.0, s.MinRuntimeSec)
	assert.Equal(t, 4.0, s.MaxRuntimeSec)
	assert.Equal(t, 0.0, s.StdDevBestLen)
}

func TestSummarizeBySize(t *testing.T) {
	records := []Record{
		{N: 20, RuntimeSec: 1.0, BestLenGlobal: 300.0},
		{N: 10, RuntimeSec: 0.5, BestLenGlobal: 200.0},
		{N: 10, RuntimeSec: 0.7, BestLenGlobal: 180.0},
	}

	summaries := SummarizeBySize(records)
	require.Len(t, summaries, 2)

	assert.Equal(t, 10, summaries[0].N)
	assert.Equal(t, 2, summaries[0].Runs)
	assert.Equal(t, 180.0, summaries[0].BestLen)

	assert.Equal(t, 20, summaries[1].N)
	assert.Equal(t, 1, summaries[1].Runs)
	assert.Equal(t, 300.0, summaries[1].BestLen)
}
