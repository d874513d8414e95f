package monitor

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"net/http"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// echartsAssetsPrefix is where rendered chart pages load the echarts runtime
// from.
const echartsAssetsPrefix = "https://go-echarts.github.io/go-echarts-assets/assets/"

// viridisColors is the ramp used by the value-mapped charts.
var viridisColors = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

// handleDashboard renders the dashboard shell with iframes to the charts.
func (ws *WebServer) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	doc := fmt.Sprintf(dashboardHTML, html.EscapeString(ws.address))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(doc))
}

// handleTourChart renders the city layout with the best tour drawn over it.
func (ws *WebServer) handleTourChart(w http.ResponseWriter, r *http.Request) {
	state := ws.runs.GetRunState()
	if len(state.Cities) == 0 {
		ws.writeJSONError(w, http.StatusNotFound, "no run available")
		return
	}

	data := make([]opts.ScatterData, 0, len(state.Cities))
	maxAbs := 0.0
	for _, c := range state.Cities {
		if math.Abs(c.X) > maxAbs {
			maxAbs = math.Abs(c.X)
		}
		if math.Abs(c.Y) > maxAbs {
			maxAbs = math.Abs(c.Y)
		}
		data = append(data, opts.ScatterData{Value: []interface{}{c.X, c.Y}})
	}

	// Add a small padding so points at the edges are visible
	pad := maxAbs * 1.05
	if pad == 0 {
		pad = 1.0
	}

	subtitle := fmt.Sprintf("n=%d cycle=%d/%d", len(state.Cities), state.CompletedCycles, state.TotalCycles)
	if len(state.BestTour) > 0 {
		subtitle += fmt.Sprintf(" best=%.2f", state.BestLenGlobal)
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Best Tour", Theme: "dark", Width: "900px", Height: "900px", AssetsHost: echartsAssetsPrefix}),
		charts.WithTitleOpts(opts.Title{Title: "Best Tour", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: 0, Max: pad, Name: "X", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: pad, Name: "Y", NameLocation: "middle", NameGap: 30}),
	)
	scatter.AddSeries("cities", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}), charts.WithItemStyleOpts(opts.ItemStyle{Color: "#9e9e9e"}))

	if len(state.BestTour) > 0 {
		path := make([]opts.LineData, 0, len(state.BestTour)+1)
		for _, city := range state.BestTour {
			c := state.Cities[city]
			path = append(path, opts.LineData{Value: []interface{}{c.X, c.Y}})
		}
		// Close the cycle back to the start city
		start := state.Cities[state.BestTour[0]]
		path = append(path, opts.LineData{Value: []interface{}{start.X, start.Y}})

		line := charts.NewLine()
		line.AddSeries("best tour", path,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: "#ff5252", Width: 2}),
		)
		scatter.Overlap(line)
	}

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render tour chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleConvergenceChart renders tour length per cycle for the current or
// most recent run.
func (ws *WebServer) handleConvergenceChart(w http.ResponseWriter, r *http.Request) {
	state := ws.runs.GetRunState()
	if len(state.History) == 0 {
		ws.writeJSONError(w, http.StatusNotFound, "no cycle history available")
		return
	}

	x := make([]string, 0, len(state.History))
	best := make([]opts.LineData, 0, len(state.History))
	mean := make([]opts.LineData, 0, len(state.History))
	global := make([]opts.LineData, 0, len(state.History))
	for _, s := range state.History {
		x = append(x, strconv.Itoa(s.Cycle))
		best = append(best, opts.LineData{Value: s.BestLenCycle})
		mean = append(mean, opts.LineData{Value: s.MeanLenCycle})
		global = append(global, opts.LineData{Value: s.BestLenGlobal})
	}

	subtitle := fmt.Sprintf("cycle=%d/%d best=%.2f", state.CompletedCycles, state.TotalCycles, state.BestLenGlobal)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Convergence", Theme: "dark", Width: "100%", Height: "720px", AssetsHost: echartsAssetsPrefix}),
		charts.WithTitleOpts(opts.Title{Title: "Convergence", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Cycle"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Tour length", Scale: opts.Bool(true)}),
	)
	line.SetXAxis(x).
		AddSeries("best (cycle)", best).
		AddSeries("mean (cycle)", mean).
		AddSeries("best (global)", global).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render convergence chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handlePheromoneChart renders the tau matrix as a colored scatter, one
// point per city pair.
// Query params:
//   - max_points (optional; default 8000) to reduce payload size
func (ws *WebServer) handlePheromoneChart(w http.ResponseWriter, r *http.Request) {
	pher := ws.runs.Pheromone()
	if len(pher) == 0 {
		ws.writeJSONError(w, http.StatusNotFound, "no pheromone snapshot available")
		return
	}

	maxPoints := 8000
	if mp := r.URL.Query().Get("max_points"); mp != "" {
		if v, err := strconv.Atoi(mp); err == nil && v > 100 && v <= 50000 {
			maxPoints = v
		}
	}

	n := len(pher)
	// Downsample by stride to stay within maxPoints
	stride := 1
	if n*n > maxPoints {
		stride = int(math.Ceil(math.Sqrt(float64(n*n) / float64(maxPoints))))
	}

	data := make([]opts.ScatterData, 0, (n/stride+1)*(n/stride+1))
	maxTau := 0.0
	for i := 0; i < n; i += stride {
		for j := 0; j < n && j < len(pher[i]); j += stride {
			tau := pher[i][j]
			if tau > maxTau {
				maxTau = tau
			}
			data = append(data, opts.ScatterData{Value: []interface{}{i, j, tau}})
		}
	}
	if maxTau == 0 {
		maxTau = 1.0
	}

	// One symbol per sampled cell, sized to roughly tile the canvas
	symbol := 900 * stride / n
	if symbol < 2 {
		symbol = 2
	}
	if symbol > 18 {
		symbol = 18
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Pheromone Matrix", Theme: "dark", Width: "900px", Height: "900px", AssetsHost: echartsAssetsPrefix}),
		charts.WithTitleOpts(opts.Title{Title: "Pheromone Matrix", Subtitle: fmt.Sprintf("n=%d points=%d stride=%d", n, len(data), stride)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -1.0, Max: float64(n), Name: "City i", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -1.0, Max: float64(n), Name: "City j", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxTau),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: viridisColors},
		}),
	)
	scatter.AddSeries("tau", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: float32(symbol)}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render pheromone chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleSweepChart renders the sweep results as bars of best tour length and
// improvement per completed run.
func (ws *WebServer) handleSweepChart(w http.ResponseWriter, r *http.Request) {
	state := ws.sweeps.GetSweepState()
	if len(state.Results) == 0 {
		ws.writeJSONError(w, http.StatusNotFound, "no sweep results available")
		return
	}

	x := make([]string, 0, len(state.Results))
	best := make([]opts.BarData, 0, len(state.Results))
	improvement := make([]opts.BarData, 0, len(state.Results))
	for _, rec := range state.Results {
		x = append(x, fmt.Sprintf("n=%d m=%d c=%d", rec.N, rec.Ants, rec.Cycles))
		best = append(best, opts.BarData{Value: rec.BestLenGlobal})
		improvement = append(improvement, opts.BarData{Value: rec.ImprovementPct})
	}

	subtitle := fmt.Sprintf("%d/%d runs complete", state.CompletedRuns, state.TotalRuns)
	if state.Status == SweepStatusRunning && state.CurrentConfig != nil {
		subtitle += fmt.Sprintf(", running n=%d m=%d", state.CurrentConfig.N, state.CurrentConfig.Ants)
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "720px", AssetsHost: echartsAssetsPrefix}),
		charts.WithTitleOpts(opts.Title{Title: "Sweep Results", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).
		AddSeries("best length", best).
		AddSeries("improvement %", improvement)

	page := components.NewPage()
	page.SetAssetsHost(echartsAssetsPrefix)
	page.AddCharts(bar)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("render error: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
