package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default solver values.
const DefaultConfigPath = "config/aco.defaults.json"

// TuningConfig is the root configuration shared by the CLIs and the
// dashboard server. Every field is optional; the Get* accessors fall back
// to the stock defaults, so partial config files are safe.
type TuningConfig struct {
	// Engine hyperparameters
	Alpha       *float64 `json:"alpha,omitempty"`
	Beta        *float64 `json:"beta,omitempty"`
	Persistence *float64 `json:"p,omitempty"`
	Q           *float64 `json:"q,omitempty"`
	Ants        *int     `json:"m,omitempty"` // 0 means one ant per city
	Cycles      *int     `json:"cycles,omitempty"`
	Workers     *int     `json:"workers,omitempty"`

	// Run reporting
	ProgressInterval *int `json:"progress_interval,omitempty"`

	// Benchmark and server plumbing
	ExportPath      *string `json:"export_path,omitempty"`
	DatabasePath    *string `json:"database_path,omitempty"`
	Listen          *string `json:"listen,omitempty"`
	MaxSweepConfigs *int    `json:"max_sweep_configs,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrString(v string) *string    { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields unset, meaning
// every accessor serves its default.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The file must
// carry a .json extension and stay under the max file size; fields omitted
// from the JSON retain their defaults.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath,
// searching upward from the working directory. Panics if the file cannot be
// loaded; intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks the configuration values that have constraints.
func (c *TuningConfig) Validate() error {
	if c.Persistence != nil {
		if *c.Persistence < 0 || *c.Persistence > 1 {
			return fmt.Errorf("p must be between 0 and 1, got %f", *c.Persistence)
		}
	}
	if c.Q != nil && *c.Q < 0 {
		return fmt.Errorf("q must be non-negative, got %f", *c.Q)
	}
	if c.Ants != nil && *c.Ants < 0 {
		return fmt.Errorf("m must be non-negative, got %d", *c.Ants)
	}
	if c.Cycles != nil && *c.Cycles <= 0 {
		return fmt.Errorf("cycles must be positive, got %d", *c.Cycles)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	if c.ProgressInterval != nil && *c.ProgressInterval < 0 {
		return fmt.Errorf("progress_interval must be non-negative, got %d", *c.ProgressInterval)
	}
	if c.MaxSweepConfigs != nil && *c.MaxSweepConfigs <= 0 {
		return fmt.Errorf("max_sweep_configs must be positive, got %d", *c.MaxSweepConfigs)
	}
	return nil
}

// GetAlpha returns the pheromone influence exponent or the default.
func (c *TuningConfig) GetAlpha() float64 {
	if c.Alpha == nil {
		return 1.0
	}
	return *c.Alpha
}

// GetBeta returns the visibility influence exponent or the default.
func (c *TuningConfig) GetBeta() float64 {
	if c.Beta == nil {
		return 5.0
	}
	return *c.Beta
}

// GetPersistence returns the pheromone persistence factor or the default.
// The value is the fraction retained per cycle; 1-p evaporates.
func (c *TuningConfig) GetPersistence() float64 {
	if c.Persistence == nil {
		return 0.5
	}
	return *c.Persistence
}

// GetQ returns the deposit constant or the default.
func (c *TuningConfig) GetQ() float64 {
	if c.Q == nil {
		return 100.0
	}
	return *c.Q
}

// GetAnts returns the configured ant count. 0 means one ant per city and is
// resolved by the caller once the instance size is known.
func (c *TuningConfig) GetAnts() int {
	if c.Ants == nil {
		return 0
	}
	return *c.Ants
}

// GetCycles returns the cycle count or the default.
func (c *TuningConfig) GetCycles() int {
	if c.Cycles == nil {
		return 50
	}
	return *c.Cycles
}

// GetWorkers returns the construction worker count or the default
// (sequential).
func (c *TuningConfig) GetWorkers() int {
	if c.Workers == nil {
		return 1
	}
	return *c.Workers
}

// GetProgressInterval returns how many cycles pass between progress log
// lines, or the default. 0 disables progress logging.
func (c *TuningConfig) GetProgressInterval() int {
	if c.ProgressInterval == nil {
		return 10
	}
	return *c.ProgressInterval
}

// GetExportPath returns the benchmark CSV destination or the default.
func (c *TuningConfig) GetExportPath() string {
	if c.ExportPath == nil || *c.ExportPath == "" {
		return "exports/benchmarks.csv"
	}
	return *c.ExportPath
}

// GetDatabasePath returns the results database path or the default.
func (c *TuningConfig) GetDatabasePath() string {
	if c.DatabasePath == nil || *c.DatabasePath == "" {
		return "benchmarks.db"
	}
	return *c.DatabasePath
}

// GetListen returns the dashboard listen address or the default.
func (c *TuningConfig) GetListen() string {
	if c.Listen == nil || *c.Listen == "" {
		return ":8080"
	}
	return *c.Listen
}

// GetMaxSweepConfigs returns the sweep size guard or the default.
func (c *TuningConfig) GetMaxSweepConfigs() int {
	if c.MaxSweepConfigs == nil {
		return 1000
	}
	return *c.MaxSweepConfigs
}
