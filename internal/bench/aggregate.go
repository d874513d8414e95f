package bench

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a set of benchmark records into headline numbers for
// CLI output and the dashboard results view.
type Summary struct {
	Runs               int     `json:"runs"`
	MeanRuntimeSec     float64 `json:"mean_runtime_sec"`
	MinRuntimeSec      float64 `json:"min_runtime_sec"`
	MaxRuntimeSec      float64 `json:"max_runtime_sec"`
	BestLen            float64 `json:"best_len"`
	MeanBestLen        float64 `json:"mean_best_len"`
	StdDevBestLen      float64 `json:"stddev_best_len"`
	MeanImprovementPct float64 `json:"mean_improvement_pct"`
}

// Summarize computes aggregate statistics over records. Returns a zero
// Summary for an empty slice.
func Summarize(records []Record) Summary {
	if len(records) == 0 {
		return Summary{}
	}

	runtimes := make([]float64, len(records))
	bests := make([]float64, len(records))
	improvements := make([]float64, len(records))
	for i, r := range records {
		runtimes[i] = r.RuntimeSec
		bests[i] = r.BestLenGlobal
		improvements[i] = r.ImprovementPct
	}

	s := Summary{
		Runs:               len(records),
		MeanRuntimeSec:     stat.Mean(runtimes, nil),
		MinRuntimeSec:      runtimes[0],
		MaxRuntimeSec:      runtimes[0],
		BestLen:            bests[0],
		MeanBestLen:        stat.Mean(bests, nil),
		MeanImprovementPct: stat.Mean(improvements, nil),
	}
	if len(bests) > 1 {
		s.StdDevBestLen = stat.StdDev(bests, nil)
	}
	for i := 1; i < len(records); i++ {
		if runtimes[i] < s.MinRuntimeSec {
			s.MinRuntimeSec = runtimes[i]
		}
		if runtimes[i] > s.MaxRuntimeSec {
			s.MaxRuntimeSec = runtimes[i]
		}
		if bests[i] < s.BestLen {
			s.BestLen = bests[i]
		}
	}
	return s
}

// SizeSummary is a per-problem-size aggregate, used for runtime scaling
// charts.
type SizeSummary struct {
	N int `json:"n"`
	Summary
}

// SummarizeBySize groups records by problem size and aggregates each group.
// Results are ordered by ascending size.
func SummarizeBySize(records []Record) []SizeSummary {
	bySize := make(map[int][]Record)
	for _, r := range records {
		bySize[r.N] = append(bySize[r.N], r)
	}

	summaries := make([]SizeSummary, 0, len(bySize))
	for n, group := range bySize {
		summaries = append(summaries, SizeSummary{N: n, Summary: Summarize(group)})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].N < summaries[j].N })
	return summaries
}
