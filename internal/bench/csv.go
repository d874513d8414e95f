package bench

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// Header is the canonical column order for benchmark CSV exports. Existing
// export files are read back with exactly these columns, so the order is
// part of the file format.
var Header = []string{
	"n", "m", "cycles", "alpha", "beta", "p", "Q", "seed",
	"runtime_sec", "time_per_cycle", "best_len_global", "mean_len_final", "improvement_pct",
}

// Record is one flat benchmark summary row, matching Header column for
// column.
type Record struct {
	N              int
	Ants           int
	Cycles         int
	Alpha          float64
	Beta           float64
	Persistence    float64
	Q              float64
	Seed           int64
	RuntimeSec     float64
	TimePerCycle   float64
	BestLenGlobal  float64
	MeanLenFinal   float64
	ImprovementPct float64
}

// Record flattens a run result into a CSV row. Durations become seconds.
func (r *Result) Record() Record {
	return Record{
		N:              r.Config.N,
		Ants:           r.Config.Ants,
		Cycles:         r.Config.Cycles,
		Alpha:          r.Config.Alpha,
		Beta:           r.Config.Beta,
		Persistence:    r.Config.Persistence,
		Q:              r.Config.Q,
		Seed:           r.Config.Seed,
		RuntimeSec:     r.Runtime.Seconds(),
		TimePerCycle:   r.TimePerCycle.Seconds(),
		BestLenGlobal:  r.BestLenGlobal,
		MeanLenFinal:   r.MeanLenFinal,
		ImprovementPct: r.ImprovementPct,
	}
}

// Records flattens a result slice, skipping failed (nil) entries.
func Records(results []*Result) []Record {
	records := make([]Record, 0, len(results))
	for _, r := range results {
		if r == nil {
			continue
		}
		records = append(records, r.Record())
	}
	return records
}

func (r Record) row() []string {
	return []string{
		strconv.Itoa(r.N),
		strconv.Itoa(r.Ants),
		strconv.Itoa(r.Cycles),
		fmt.Sprintf("%.6f", r.Alpha),
		fmt.Sprintf("%.6f", r.Beta),
		fmt.Sprintf("%.6f", r.Persistence),
		fmt.Sprintf("%.6f", r.Q),
		strconv.FormatInt(r.Seed, 10),
		fmt.Sprintf("%.6f", r.RuntimeSec),
		fmt.Sprintf("%.6f", r.TimePerCycle),
		fmt.Sprintf("%.6f", r.BestLenGlobal),
		fmt.Sprintf("%.6f", r.MeanLenFinal),
		fmt.Sprintf("%.6f", r.ImprovementPct),
	}
}

func parseRecord(row []string) (Record, error) {
	if len(row) != len(Header) {
		return Record{}, fmt.Errorf("expected %d columns, got %d", len(Header), len(row))
	}

	var rec Record
	var err error
	if rec.N, err = strconv.Atoi(row[0]); err != nil {
		return Record{}, fmt.Errorf("invalid n %q: %w", row[0], err)
	}
	if rec.Ants, err = strconv.Atoi(row[1]); err != nil {
		return Record{}, fmt.Errorf("invalid m %q: %w", row[1], err)
	}
	if rec.Cycles, err = strconv.Atoi(row[2]); err != nil {
		return Record{}, fmt.Errorf("invalid cycles %q: %w", row[2], err)
	}
	floats := []struct {
		idx  int
		name string
		dst  *float64
	}{
		{3, "alpha", &rec.Alpha},
		{4, "beta", &rec.Beta},
		{5, "p", &rec.Persistence},
		{6, "Q", &rec.Q},
		{8, "runtime_sec", &rec.RuntimeSec},
		{9, "time_per_cycle", &rec.TimePerCycle},
		{10, "best_len_global", &rec.BestLenGlobal},
		{11, "mean_len_final", &rec.MeanLenFinal},
		{12, "improvement_pct", &rec.ImprovementPct},
	}
	for _, f := range floats {
		if *f.dst, err = strconv.ParseFloat(row[f.idx], 64); err != nil {
			return Record{}, fmt.Errorf("invalid %s %q: %w", f.name, row[f.idx], err)
		}
	}
	if rec.Seed, err = strconv.ParseInt(row[7], 10, 64); err != nil {
		return Record{}, fmt.Errorf("invalid seed %q: %w", row[7], err)
	}
	return rec, nil
}

// WriteCSVTo writes the header and records to w in the canonical column
// order. Used directly by the dashboard's CSV download.
func WriteCSVTo(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(rec.row()); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush rows: %w", err)
	}
	return nil
}

// WriteCSV writes records to path, creating parent directories as needed
// and overwriting any existing file.
func WriteCSV(path string, records []Record) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if err := WriteCSVTo(f, records); err != nil {
		return err
	}
	return f.Close()
}

// AppendCSV appends records to an existing export, writing the header only
// when the file does not exist yet.
func AppendCSV(path string, records []Record) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return WriteCSV(path, records)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, rec := range records {
		if err := w.Write(rec.row()); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush export file: %w", err)
	}
	return f.Close()
}

// ReadCSV loads a benchmark export written by WriteCSV or AppendCSV.
func ReadCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read export file: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("export file %s is empty", path)
	}

	if len(rows[0]) != len(Header) {
		return nil, fmt.Errorf("unexpected header in %s: %v", path, rows[0])
	}
	for i, col := range Header {
		if rows[0][i] != col {
			return nil, fmt.Errorf("unexpected header in %s: column %d is %q, want %q", path, i, rows[0][i], col)
		}
	}

	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseRecord(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
