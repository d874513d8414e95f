// Package db stores benchmark runs in SQLite. The schema is managed by
// embedded golang-migrate files; see migrations.go and migrate.go.
package db

import (
	"compress/gzip"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/tailscale/tailsql/server/tailsql"
	_ "modernc.org/sqlite"
	"tailscale.com/tsweb"

	"github.com/issoudelache/ANT-tsp--demo/internal/bench"
)

type DB struct {
	*sql.DB
}

// OpenDB opens the database and applies the connection PRAGMAs without
// touching the schema. Use NewDB when migrations should run.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	return &DB{db}, nil
}

// NewDB opens the database and brings the schema up to the latest
// migration version.
func NewDB(path string) (*DB, error) {
	database, err := OpenDB(path)
	if err != nil {
		return nil, err
	}

	migrationsFS, err := getMigrationsFS()
	if err != nil {
		database.Close()
		return nil, err
	}
	if err := database.MigrateUp(migrationsFS); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return database, nil
}

// NewDBWithMigrationCheck opens the database. With runMigrations set it
// behaves like NewDB; otherwise it refuses to open a database whose schema
// is not at the latest version, telling the operator to migrate first.
func NewDBWithMigrationCheck(path string, runMigrations bool) (*DB, error) {
	if runMigrations {
		return NewDB(path)
	}

	database, err := OpenDB(path)
	if err != nil {
		return nil, err
	}

	migrationsFS, err := getMigrationsFS()
	if err != nil {
		database.Close()
		return nil, err
	}
	if needsAction, err := database.CheckAndPromptMigrations(migrationsFS); needsAction {
		database.Close()
		return nil, err
	}

	return database, nil
}

// BenchmarkRun is one stored benchmark row.
type BenchmarkRun struct {
	RunID          string    `json:"run_id"`
	N              int       `json:"n"`
	Ants           int       `json:"m"`
	Cycles         int       `json:"cycles"`
	Alpha          float64   `json:"alpha"`
	Beta           float64   `json:"beta"`
	Persistence    float64   `json:"p"`
	Q              float64   `json:"q"`
	Seed           int64     `json:"seed"`
	RuntimeSec     float64   `json:"runtime_sec"`
	TimePerCycle   float64   `json:"time_per_cycle"`
	BestLenGlobal  float64   `json:"best_len_global"`
	MeanLenFinal   float64   `json:"mean_len_final"`
	ImprovementPct float64   `json:"improvement_pct"`
	BestTour       []int     `json:"best_tour,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func (r *BenchmarkRun) String() string {
	return fmt.Sprintf("run %s: n=%d m=%d cycles=%d best=%.2f runtime=%.2fs",
		r.RunID, r.N, r.Ants, r.Cycles, r.BestLenGlobal, r.RuntimeSec)
}

// Record flattens the stored row into a CSV-shaped benchmark record.
func (r *BenchmarkRun) Record() bench.Record {
	return bench.Record{
		N:              r.N,
		Ants:           r.Ants,
		Cycles:         r.Cycles,
		Alpha:          r.Alpha,
		Beta:           r.Beta,
		Persistence:    r.Persistence,
		Q:              r.Q,
		Seed:           r.Seed,
		RuntimeSec:     r.RuntimeSec,
		TimePerCycle:   r.TimePerCycle,
		BestLenGlobal:  r.BestLenGlobal,
		MeanLenFinal:   r.MeanLenFinal,
		ImprovementPct: r.ImprovementPct,
	}
}

// InsertBenchmarkRun stores a completed run. The best tour is kept as JSON
// so the dashboard can redraw it later.
func (db *DB) InsertBenchmarkRun(res *bench.Result) error {
	if res == nil {
		return fmt.Errorf("cannot store nil benchmark result")
	}

	tourJSON, err := json.Marshal(res.BestTour)
	if err != nil {
		return fmt.Errorf("failed to encode best tour: %w", err)
	}

	_, err = db.Exec(
		`INSERT INTO benchmark_runs (
			run_id, n, m, cycles, alpha, beta, p, q, seed,
			runtime_sec, time_per_cycle, best_len_global, mean_len_final,
			improvement_pct, best_tour
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.RunID, res.Config.N, res.Config.Ants, res.Config.Cycles,
		res.Config.Alpha, res.Config.Beta, res.Config.Persistence, res.Config.Q,
		res.Config.Seed, res.Runtime.Seconds(), res.TimePerCycle.Seconds(),
		res.BestLenGlobal, res.MeanLenFinal, res.ImprovementPct, string(tourJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert benchmark run: %w", err)
	}
	return nil
}

const benchmarkRunColumns = `run_id, n, m, cycles, alpha, beta, p, q, seed,
	runtime_sec, time_per_cycle, best_len_global, mean_len_final,
	improvement_pct, best_tour, created_at`

func scanBenchmarkRun(row interface{ Scan(...interface{}) error }) (BenchmarkRun, error) {
	var (
		run       BenchmarkRun
		tourJSON  sql.NullString
		createdAt string
	)
	if err := row.Scan(
		&run.RunID, &run.N, &run.Ants, &run.Cycles,
		&run.Alpha, &run.Beta, &run.Persistence, &run.Q, &run.Seed,
		&run.RuntimeSec, &run.TimePerCycle, &run.BestLenGlobal, &run.MeanLenFinal,
		&run.ImprovementPct, &tourJSON, &createdAt,
	); err != nil {
		return BenchmarkRun{}, err
	}

	if tourJSON.Valid && tourJSON.String != "" {
		if err := json.Unmarshal([]byte(tourJSON.String), &run.BestTour); err != nil {
			return BenchmarkRun{}, fmt.Errorf("failed to decode best tour: %w", err)
		}
	}
	if ts, err := time.ParseInLocation("2006-01-02 15:04:05", createdAt, time.UTC); err == nil {
		run.CreatedAt = ts
	}
	return run, nil
}

// ListBenchmarkRuns returns the most recent runs, newest first. A limit
// of zero or below falls back to 100 rows.
func (db *DB) ListBenchmarkRuns(limit int) ([]BenchmarkRun, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.Query(
		`SELECT `+benchmarkRunColumns+` FROM benchmark_runs
		 ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query benchmark runs: %w", err)
	}
	defer rows.Close()

	var runs []BenchmarkRun
	for rows.Next() {
		run, err := scanBenchmarkRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

// GetBenchmarkRun looks up one run by its ID.
func (db *DB) GetBenchmarkRun(runID string) (*BenchmarkRun, error) {
	row := db.QueryRow(
		`SELECT `+benchmarkRunColumns+` FROM benchmark_runs WHERE run_id = ?`, runID)

	run, err := scanBenchmarkRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("benchmark run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load benchmark run: %w", err)
	}
	return &run, nil
}

// CountBenchmarkRuns returns the total number of stored runs.
func (db *DB) CountBenchmarkRuns() (int, error) {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM benchmark_runs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count benchmark runs: %w", err)
	}
	return count, nil
}

// ListBenchmarkRecords returns recent runs flattened to benchmark records,
// ready for aggregation or CSV export.
func (db *DB) ListBenchmarkRecords(limit int) ([]bench.Record, error) {
	runs, err := db.ListBenchmarkRuns(limit)
	if err != nil {
		return nil, err
	}
	records := make([]bench.Record, len(runs))
	for i := range runs {
		records[i] = runs[i].Record()
	}
	return records, nil
}

// DatabaseStats reports per-table row counts for the admin stats endpoint.
type DatabaseStats struct {
	Tables map[string]int `json:"tables"`
}

// Stats counts the rows in every user table.
func (db *DB) Stats() (*DatabaseStats, error) {
	rows, err := db.DB.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats := &DatabaseStats{Tables: make(map[string]int, len(names))}
	for _, name := range names {
		var count int
		// Table names come from sqlite_master, not user input.
		if err := db.DB.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %q", name)).Scan(&count); err != nil {
			return nil, fmt.Errorf("failed to count rows in %s: %w", name, err)
		}
		stats.Tables[name] = count
	}
	return stats, nil
}

func (db *DB) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)
	// create a tailSQL instance and point it to our DB
	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		log.Fatalf("failed to create tailsql server: %v", err)
	}
	tsql.SetDB("sqlite://benchmarks.db", db.DB, &tailsql.DBOptions{
		Label: "Benchmarks DB",
	})

	// mount the tailSQL server on the debug /tailsql path
	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())

	debug.Handle("db-stats", "Per-table row counts", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stats, err := db.Stats()
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to collect stats: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(stats); err != nil {
			log.Printf("Failed to encode stats: %v", err)
		}
	}))

	debug.Handle("backup", "Create and download a backup of the database now", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		unixTime := time.Now().Unix()
		backupPath := fmt.Sprintf("backup-%d.db", unixTime)
		if _, err := db.DB.Exec("VACUUM INTO ?", backupPath); err != nil {
			http.Error(w, fmt.Sprintf("Failed to create backup: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", backupPath))
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Encoding", "gzip")

		// Send the backup file to the client
		backupFile, err := os.Open(backupPath)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to open backup file: %v", err), http.StatusInternalServerError)
			return
		}

		// close the backup file after sending it
		// and remove it from the filesystem
		defer func() {
			backupFile.Close()
			if err := os.Remove(backupPath); err != nil {
				log.Printf("Failed to remove backup file: %v", err)
			}
		}()

		gzipWriter := gzip.NewWriter(w)
		defer gzipWriter.Close()
		if _, err := gzipWriter.Write([]byte{}); err != nil {
			// Need to write something to initialize the gzip header
			http.Error(w, fmt.Sprintf("Failed to initialize gzip writer: %v", err), http.StatusInternalServerError)
			return
		}

		// Copy the backup file content to the gzip writer
		if _, err := io.Copy(gzipWriter, backupFile); err != nil {
			http.Error(w, fmt.Sprintf("Failed to write backup file: %v", err), http.StatusInternalServerError)
			return
		}
	}))
}
