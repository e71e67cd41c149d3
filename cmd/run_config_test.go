package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/oupath/sim"
)

func writeRunFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRunConfig_OverlaysBase(t *testing.T) {
	// GIVEN a run file that sets only some fields
	path := writeRunFile(t, `
samples: 5
steps: 10
sigma: 0.7
seed: 7
`)

	// WHEN loaded on top of the defaults
	cfg, err := LoadRunConfig(path, DefaultRunConfig())
	require.NoError(t, err)

	// THEN set fields win and the rest keep their defaults
	want := DefaultRunConfig()
	want.Samples = 5
	want.Steps = 10
	want.Sigma = 0.7
	want.Seed = 7
	assert.Equal(t, want, cfg)
}

func TestLoadRunConfig_UnknownFieldRejected(t *testing.T) {
	// Strict parsing: typos must cause errors
	path := writeRunFile(t, "samples: 5\nsigmaa: 0.7\n")
	_, err := LoadRunConfig(path, DefaultRunConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sigmaa")
}

func TestLoadRunConfig_MissingFile(t *testing.T) {
	base := DefaultRunConfig()
	cfg, err := LoadRunConfig(filepath.Join(t.TempDir(), "absent.yaml"), base)
	require.Error(t, err)
	assert.Equal(t, base, cfg)
}

func TestRunConfig_Conversions(t *testing.T) {
	cfg := RunConfig{Samples: 3, Horizon: 2, Steps: 20, Mu: 1, Sigma: 0.5, Theta: 0.25, X0: -1, Seed: 9, Workers: 4}

	assert.Equal(t, sim.NewPathParams(2, 20, 1, 0.5, 0.25, -1), cfg.PathParams())
	assert.Equal(t, sim.NewDatasetConfig(3, cfg.PathParams(), 4), cfg.DatasetConfig())

	rng := cfg.RNG()
	require.NotNil(t, rng)
	assert.Equal(t, sim.SimulationKey(9), rng.Key())

	cfg.Ambient = true
	assert.Nil(t, cfg.RNG())
}

func TestDefaultRunConfig_IsValid(t *testing.T) {
	assert.NoError(t, DefaultRunConfig().DatasetConfig().Validate())
}

func TestResolveRunConfig_FlagsOverrideRunFile(t *testing.T) {
	// GIVEN a run file and one explicitly set flag
	configPath = writeRunFile(t, "samples: 5\nsteps: 10\nseed: 7\n")
	t.Cleanup(func() { configPath = "" })
	require.NoError(t, generateCmd.Flags().Set("steps", "33"))
	t.Cleanup(func() { steps = DefaultRunConfig().Steps })

	// WHEN resolved
	cfg, err := resolveRunConfig(generateCmd)
	require.NoError(t, err)

	// THEN the flag wins over the file, the file wins over defaults
	assert.Equal(t, 33, cfg.Steps)
	assert.Equal(t, 5, cfg.Samples)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, DefaultRunConfig().Sigma, cfg.Sigma)
}
