package cmd

import (
	"bytes"
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/oupath/sim"
)

// RunConfig describes one dataset generation run. It is loaded from a YAML
// run file and/or CLI flags.
type RunConfig struct {
	Samples int     `yaml:"samples"`
	Horizon float64 `yaml:"horizon"`
	Steps   int     `yaml:"steps"`
	Mu      float64 `yaml:"mu"`
	Sigma   float64 `yaml:"sigma"`
	Theta   float64 `yaml:"theta"`
	X0      float64 `yaml:"x0"`
	Seed    int64   `yaml:"seed"`
	Ambient bool    `yaml:"ambient,omitempty"` // ignore Seed and draw from the process-wide generator
	Workers int     `yaml:"workers,omitempty"`
}

// DefaultRunConfig returns the values used when neither a run file nor a
// flag sets a field.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Samples: 100,
		Horizon: 1.0,
		Steps:   100,
		Mu:      0.0,
		Sigma:   0.3,
		Theta:   1.0,
		X0:      1.0,
		Seed:    42,
		Workers: 1,
	}
}

// LoadRunConfig parses a YAML run file on top of base. Fields missing from
// the file keep their base value. Unknown fields are rejected so typos fail.
func LoadRunConfig(path string, base RunConfig) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, errors.Wrapf(err, "reading run file %s", path)
	}
	cfg := base
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return base, errors.Wrapf(err, "parsing run file %s", path)
	}
	return cfg, nil
}

// PathParams returns the per-path parameters.
func (c RunConfig) PathParams() sim.PathParams {
	return sim.NewPathParams(c.Horizon, c.Steps, c.Mu, c.Sigma, c.Theta, c.X0)
}

// DatasetConfig returns the assembler configuration.
func (c RunConfig) DatasetConfig() sim.DatasetConfig {
	return sim.NewDatasetConfig(c.Samples, c.PathParams(), c.Workers)
}

// RNG returns the partitioned generator for the run, or nil in ambient mode.
func (c RunConfig) RNG() *sim.PartitionedRNG {
	if c.Ambient {
		return nil
	}
	return sim.NewPartitionedRNG(sim.NewSimulationKey(c.Seed))
}
