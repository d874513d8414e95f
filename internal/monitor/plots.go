package monitor

import (
	"fmt"
	"image/color"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/issoudelache/ANT-tsp--demo/internal/aco"
	"github.com/issoudelache/ANT-tsp--demo/internal/security"
	"github.com/issoudelache/ANT-tsp--demo/internal/tsp"
)

// convergencePlot builds a tour-length-per-cycle plot from a run's history.
func convergencePlot(history []aco.CycleStats) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "ACO Convergence"
	p.X.Label.Text = "Cycle"
	p.Y.Label.Text = "Tour length"

	bestPts := make(plotter.XYs, 0, len(history))
	meanPts := make(plotter.XYs, 0, len(history))
	globalPts := make(plotter.XYs, 0, len(history))
	for _, s := range history {
		x := float64(s.Cycle)
		bestPts = append(bestPts, plotter.XY{X: x, Y: s.BestLenCycle})
		meanPts = append(meanPts, plotter.XY{X: x, Y: s.MeanLenCycle})
		globalPts = append(globalPts, plotter.XY{X: x, Y: s.BestLenGlobal})
	}

	colors := generateColors(3)
	series := []struct {
		label string
		pts   plotter.XYs
	}{
		{"best (cycle)", bestPts},
		{"mean (cycle)", meanPts},
		{"best (global)", globalPts},
	}
	for i, s := range series {
		line, err := plotter.NewLine(s.pts)
		if err != nil {
			return nil, err
		}
		line.Color = colors[i]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(s.label, line)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	return p, nil
}

// tourPlot builds a city map with the best tour drawn as a closed path.
func tourPlot(cities []tsp.City, tour aco.Tour, bestLen float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Best Tour (length %.2f)", bestLen)
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"

	cityPts := make(plotter.XYs, 0, len(cities))
	for _, c := range cities {
		cityPts = append(cityPts, plotter.XY{X: c.X, Y: c.Y})
	}
	scatter, err := plotter.NewScatter(cityPts)
	if err != nil {
		return nil, err
	}
	scatter.GlyphStyle.Radius = vg.Points(3)
	scatter.GlyphStyle.Color = color.RGBA{R: 0x9e, G: 0x9e, B: 0x9e, A: 255}
	p.Add(scatter)
	p.Legend.Add("cities", scatter)

	if len(tour) > 0 {
		pathPts := make(plotter.XYs, 0, len(tour)+1)
		for _, city := range tour {
			c := cities[city]
			pathPts = append(pathPts, plotter.XY{X: c.X, Y: c.Y})
		}
		// Close the cycle back to the start city
		start := cities[tour[0]]
		pathPts = append(pathPts, plotter.XY{X: start.X, Y: start.Y})

		line, err := plotter.NewLine(pathPts)
		if err != nil {
			return nil, err
		}
		line.Color = color.RGBA{R: 0xff, G: 0x52, B: 0x52, A: 255}
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add("tour", line)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	return p, nil
}

// SaveRunPlots writes convergence.png and tour.png for a finished run into
// dir, creating it if needed. Returns the number of plots written.
func SaveRunPlots(dir string, cities []tsp.City, tour aco.Tour, bestLen float64, history []aco.CycleStats) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create output dir: %w", err)
	}

	count := 0
	if len(history) > 0 {
		p, err := convergencePlot(history)
		if err != nil {
			return count, err
		}
		file := filepath.Join(dir, "convergence.png")
		if err := p.Save(14*vg.Inch, 6*vg.Inch, file); err != nil {
			return count, fmt.Errorf("save convergence plot: %w", err)
		}
		count++
	}

	if len(cities) > 0 && len(tour) > 0 {
		p, err := tourPlot(cities, tour, bestLen)
		if err != nil {
			return count, err
		}
		file := filepath.Join(dir, "tour.png")
		if err := p.Save(8*vg.Inch, 8*vg.Inch, file); err != nil {
			return count, fmt.Errorf("save tour plot: %w", err)
		}
		count++
	}

	return count, nil
}

// handleConvergencePNG serves the convergence plot for the current or most
// recent run as a PNG.
func (ws *WebServer) handleConvergencePNG(w http.ResponseWriter, r *http.Request) {
	state := ws.runs.GetRunState()
	if len(state.History) == 0 {
		ws.writeJSONError(w, http.StatusNotFound, "no cycle history available")
		return
	}

	p, err := convergencePlot(state.History)
	if err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to build plot: %v", err))
		return
	}
	ws.writePlotPNG(w, p, 14*vg.Inch, 6*vg.Inch)
}

// handleTourPNG serves the best-tour plot for the current or most recent
// run as a PNG.
func (ws *WebServer) handleTourPNG(w http.ResponseWriter, r *http.Request) {
	state := ws.runs.GetRunState()
	if len(state.Cities) == 0 {
		ws.writeJSONError(w, http.StatusNotFound, "no run available")
		return
	}

	p, err := tourPlot(state.Cities, state.BestTour, state.BestLenGlobal)
	if err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to build plot: %v", err))
		return
	}
	ws.writePlotPNG(w, p, 8*vg.Inch, 8*vg.Inch)
}

func (ws *WebServer) writePlotPNG(w http.ResponseWriter, p *plot.Plot, width, height vg.Length) {
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render png: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := wt.WriteTo(w); err != nil {
		log.Printf("failed to write png response: %v", err)
	}
}

// generateColors creates a palette of distinct colors for plot lines
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}

	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range)
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}

// FormatTimestamp generates a timestamp string for file and directory naming.
func FormatTimestamp(t time.Time) string {
	return t.Format("20060102_150405")
}

// MakePlotOutputDir builds a timestamped plot directory for a run:
// <baseDir>/<runID>/<timestamp>, or <baseDir>/run_<timestamp> when the run
// has no ID.
func MakePlotOutputDir(baseDir, runID string) string {
	ts := FormatTimestamp(time.Now())
	if runID != "" {
		return filepath.Join(baseDir, security.SanitizeFilename(runID), ts)
	}
	return filepath.Join(baseDir, "run_"+ts)
}
