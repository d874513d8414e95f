package bench

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunConfigDefaults(t *testing.T) {
	cfg := NewRunConfig(30, 15, 100, 7)

	assert.Equal(t, 30, cfg.N)
	assert.Equal(t, 15, cfg.Ants)
	assert.Equal(t, 100, cfg.Cycles)
	assert.Equal(t, 1.0, cfg.Alpha)
	assert.Equal(t, 5.0, cfg.Beta)
	assert.Equal(t, 0.5, cfg.Persistence)
	assert.Equal(t, 100.0, cfg.Q)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 0, cfg.Workers)
}

func TestRunConfigValidate(t *testing.T) {
	testCases := []struct {
		name      string
		mutate    func(*RunConfig)
		expectErr bool
	}{
		{"valid", func(c *RunConfig) {}, false},
		{"ants_zero_means_per_city", func(c *RunConfig) { c.Ants = 0 }, false},
		{"zero_q", func(c *RunConfig) { c.Q = 0 }, false},
		{"full_persistence", func(c *RunConfig) { c.Persistence = 1.0 }, false},
		{"too_few_cities", func(c *RunConfig) { c.N = 1 }, true},
		{"negative_ants", func(c *RunConfig) { c.Ants = -1 }, true},
		{"zero_cycles", func(c *RunConfig) { c.Cycles = 0 }, true},
		{"alpha_nan", func(c *RunConfig) { c.Alpha = math.NaN() }, true},
		{"beta_inf", func(c *RunConfig) { c.Beta = math.Inf(1) }, true},
		{"persistence_above_one", func(c *RunConfig) { c.Persistence = 1.5 }, true},
		{"persistence_negative", func(c *RunConfig) { c.Persistence = -0.1 }, true},
		{"negative_q", func(c *RunConfig) { c.Q = -1 }, true},
		{"negative_workers", func(c *RunConfig) { c.Workers = -1 }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewRunConfig(20, 20, 50, DefaultSeed)
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultConfigsSuite(t *testing.T) {
	configs := DefaultConfigs()
	require.Len(t, configs, 81)

	for i, cfg := range configs {
		require.NoErrorf(t, cfg.Validate(), "config %d invalid", i)
	}

	// The suite ends on the stress test and covers the parameter grid and
	// the seed-robustness phase.
	var stress, grid, seeded int
	for _, cfg := range configs {
		if cfg.N == 500 && cfg.Ants == 500 && cfg.Cycles == 1000 {
			stress++
		}
		if cfg.N == 100 && cfg.Cycles == 100 && cfg.Alpha == 2.0 && cfg.Beta == 7.0 {
			grid++
		}
		if cfg.Seed == 2025 {
			seeded++
		}
	}
	assert.Equal(t, 1, stress)
	assert.Equal(t, 1, grid)
	assert.Equal(t, 3, seeded)
}

func TestQuickConfigs(t *testing.T) {
	configs := QuickConfigs()
	require.Len(t, configs, 3)

	for i, want := range []struct{ n, cycles int }{{20, 20}, {30, 20}, {40, 20}} {
		assert.Equal(t, want.n, configs[i].N)
		assert.Equal(t, want.n, configs[i].Ants)
		assert.Equal(t, want.cycles, configs[i].Cycles)
		assert.Equal(t, DefaultSeed, configs[i].Seed)
		assert.NoError(t, configs[i].Validate())
	}
}

func TestGridConfigs(t *testing.T) {
	grid := Grid{
		Sizes:  []int{10, 20},
		Alphas: []float64{0.5, 1.0, 1.5},
	}

	configs, err := grid.Configs(100)
	require.NoError(t, err)
	require.Len(t, configs, 6)

	// Omitted dimensions fall back to the standard single values.
	for _, cfg := range configs {
		assert.Equal(t, 0, cfg.Ants)
		assert.Equal(t, defaultCycles, cfg.Cycles)
		assert.Equal(t, 5.0, cfg.Beta)
		assert.Equal(t, 0.5, cfg.Persistence)
		assert.Equal(t, 100.0, cfg.Q)
		assert.Equal(t, DefaultSeed, cfg.Seed)
	}

	// Size varies slowest, alpha fastest.
	assert.Equal(t, 10, configs[0].N)
	assert.Equal(t, 0.5, configs[0].Alpha)
	assert.Equal(t, 10, configs[2].N)
	assert.Equal(t, 1.5, configs[2].Alpha)
	assert.Equal(t, 20, configs[3].N)
	assert.Equal(t, 0.5, configs[3].Alpha)
}

func TestGridConfigsRequiresSizes(t *testing.T) {
	_, err := Grid{}.Configs(100)
	assert.Error(t, err)
}

func TestGridConfigsLimit(t *testing.T) {
	grid := Grid{
		Sizes: []int{10, 20, 30},
		Seeds: []int64{1, 2, 3, 4},
	}

	_, err := grid.Configs(10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")

	configs, err := grid.Configs(12)
	require.NoError(t, err)
	assert.Len(t, configs, 12)
}
