package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/issoudelache/ANT-tsp--demo/internal/bench"
	"github.com/issoudelache/ANT-tsp--demo/internal/config"
	"github.com/issoudelache/ANT-tsp--demo/internal/db"
	"github.com/issoudelache/ANT-tsp--demo/internal/version"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// WebServer handles the HTTP interface for the solver dashboard. It exposes
// the run and sweep control endpoints, the stored benchmark results, and the
// chart renderers.
type WebServer struct {
	address string
	store   *db.DB
	tuning  *config.TuningConfig
	runs    *RunManager
	sweeps  *SweepManager
	server  *http.Server

	// baseCtx bounds the background runs and sweeps. Handlers pass it to the
	// managers instead of the request context, which dies as soon as the
	// start handler returns.
	baseCtx    context.Context
	baseCancel context.CancelFunc
}

// WebServerConfig contains configuration options for the web server
type WebServerConfig struct {
	Address string
	DB      *db.DB
	Tuning  *config.TuningConfig
}

// NewWebServer creates a new web server with the provided configuration
func NewWebServer(cfg WebServerConfig) *WebServer {
	tuning := cfg.Tuning
	if tuning == nil {
		tuning = config.EmptyTuningConfig()
	}

	ws := &WebServer{
		address: cfg.Address,
		store:   cfg.DB,
		tuning:  tuning,
		runs:    NewRunManager(cfg.DB, tuning),
		sweeps:  NewSweepManager(cfg.DB, tuning),
	}
	ws.baseCtx, ws.baseCancel = context.WithCancel(context.Background())

	ws.server = &http.Server{
		Addr:    ws.address,
		Handler: LoggingMiddleware(ws.setupRoutes()),
	}

	return ws
}

func (ws *WebServer) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// Start begins the HTTP server in a goroutine and handles graceful shutdown
func (ws *WebServer) Start(ctx context.Context) error {
	// Start server in a goroutine so it doesn't block
	go func() {
		log.Printf("Starting HTTP server on %s", ws.address)
		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for context cancellation to shut down server
	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	// Stop any background run or sweep before draining connections
	ws.baseCancel()

	// Create a shutdown context with a shorter timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := ws.server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
		// Force close the server if graceful shutdown fails
		if err := ws.server.Close(); err != nil {
			log.Printf("HTTP server force close error: %v", err)
		}
	}

	log.Printf("HTTP server routine stopped")
	return nil
}

// Close shuts down the web server
func (ws *WebServer) Close() error {
	ws.baseCancel()
	if ws.server != nil {
		return ws.server.Close()
	}
	return nil
}

// Runs exposes the run manager, for wiring plots and CLI status output.
func (ws *WebServer) Runs() *RunManager { return ws.runs }

// Sweeps exposes the sweep manager.
func (ws *WebServer) Sweeps() *SweepManager { return ws.sweeps }

// setupRoutes configures the HTTP routes and handlers
func (ws *WebServer) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", ws.handleDashboard)
	mux.HandleFunc("/health", ws.handleHealth)

	mux.HandleFunc("/api/run/start", ws.handleRunStart)
	mux.HandleFunc("/api/run/stop", ws.handleRunStop)
	mux.HandleFunc("/api/run/state", ws.handleRunState)

	mux.HandleFunc("/api/sweep/start", ws.handleSweepStart)
	mux.HandleFunc("/api/sweep/stop", ws.handleSweepStop)
	mux.HandleFunc("/api/sweep/state", ws.handleSweepState)

	mux.HandleFunc("/api/results", ws.handleResults)
	mux.HandleFunc("/api/results/csv", ws.handleResultsCSV)
	mux.HandleFunc("/api/config", ws.handleConfig)

	mux.HandleFunc("/charts/tour", ws.handleTourChart)
	mux.HandleFunc("/charts/convergence", ws.handleConvergenceChart)
	mux.HandleFunc("/charts/pheromone", ws.handlePheromoneChart)
	mux.HandleFunc("/charts/sweep", ws.handleSweepChart)

	mux.HandleFunc("/plots/convergence.png", ws.handleConvergencePNG)
	mux.HandleFunc("/plots/tour.png", ws.handleTourPNG)

	if ws.store != nil {
		ws.store.AttachAdminRoutes(mux)
	}

	return mux
}

// handleHealth handles the health check endpoint
func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "ok", "service": "ant-tsp", "version": "%s", "timestamp": "%s"}`,
		version.String(), time.Now().UTC().Format(time.RFC3339))
}

// handleRunStart launches a solver run
func (ws *WebServer) handleRunStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ws.writeJSONError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if err := ws.runs.Start(ws.baseCtx, req); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrRunInProgress) {
			status = http.StatusConflict
		}
		ws.writeJSONError(w, status, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "started"})
}

// handleRunStop cancels a running solve
func (ws *WebServer) handleRunStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	ws.runs.Stop()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "stopped"})
}

// handleRunState returns the current run state
func (ws *WebServer) handleRunState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	state := ws.runs.GetRunState()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(state)
}

// handleSweepStart launches a benchmark sweep
func (ws *WebServer) handleSweepStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req SweepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ws.writeJSONError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if err := ws.sweeps.Start(ws.baseCtx, req); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrSweepInProgress) {
			status = http.StatusConflict
		}
		ws.writeJSONError(w, status, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "started"})
}

// handleSweepStop cancels a running sweep
func (ws *WebServer) handleSweepStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	ws.sweeps.Stop()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "stopped"})
}

// handleSweepState returns the current sweep state
func (ws *WebServer) handleSweepState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	state := ws.sweeps.GetSweepState()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(state)
}

// handleResults returns stored benchmark runs, newest first.
// Query params:
//
//	limit (optional, default 100)
func (ws *WebServer) handleResults(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if ws.store == nil {
		ws.writeJSONError(w, http.StatusServiceUnavailable, "results database not configured")
		return
	}

	limit := 100
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			ws.writeJSONError(w, http.StatusBadRequest, "Invalid 'limit' parameter")
			return
		}
		limit = parsed
	}

	runs, err := ws.store.ListBenchmarkRuns(limit)
	if err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve runs: %v", err))
		return
	}

	if err := json.NewEncoder(w).Encode(runs); err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, "Failed to write runs")
		return
	}
}

// handleResultsCSV streams the stored benchmark runs as a CSV download in
// the export column order.
func (ws *WebServer) handleResultsCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if ws.store == nil {
		ws.writeJSONError(w, http.StatusServiceUnavailable, "results database not configured")
		return
	}

	limit := 0 // all rows by default
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			ws.writeJSONError(w, http.StatusBadRequest, "Invalid 'limit' parameter")
			return
		}
		limit = parsed
	}

	records, err := ws.store.ListBenchmarkRecords(limit)
	if err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve records: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="benchmarks.csv"`)
	if err := bench.WriteCSVTo(w, records); err != nil {
		log.Printf("failed to stream CSV export: %v", err)
	}
}

// handleConfig returns the effective tuning defaults
func (ws *WebServer) handleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	cfg := map[string]interface{}{
		"alpha":             ws.tuning.GetAlpha(),
		"beta":              ws.tuning.GetBeta(),
		"p":                 ws.tuning.GetPersistence(),
		"q":                 ws.tuning.GetQ(),
		"m":                 ws.tuning.GetAnts(),
		"cycles":            ws.tuning.GetCycles(),
		"workers":           ws.tuning.GetWorkers(),
		"export_path":       ws.tuning.GetExportPath(),
		"database_path":     ws.tuning.GetDatabasePath(),
		"max_sweep_configs": ws.tuning.GetMaxSweepConfigs(),
	}

	if err := json.NewEncoder(w).Encode(cfg); err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, "Failed to write config")
		return
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400 && statusCode < 500:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 500:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}
