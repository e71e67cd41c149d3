package sim

import (
	"math"

	"github.com/cockroachdb/errors"
)

// ErrInvalidParams is returned for parameter sets that cannot produce a path
// or a dataset. Use errors.Is to match; the wrapped message names the field.
var ErrInvalidParams = errors.New("invalid OU parameters")

// PathParams groups the parameters of a single OU path.
type PathParams struct {
	Horizon float64 // time horizon T (> 0)
	Steps   int     // number of grid points, len_trajectory (>= 2)
	Mu      float64 // long-run mean
	Sigma   float64 // volatility (>= 0)
	Theta   float64 // mean-reversion rate
	X0      float64 // initial value
}

// NewPathParams creates a PathParams. No validation is performed; see Validate.
func NewPathParams(horizon float64, steps int, mu, sigma, theta, x0 float64) PathParams {
	return PathParams{
		Horizon: horizon,
		Steps:   steps,
		Mu:      mu,
		Sigma:   sigma,
		Theta:   theta,
		X0:      x0,
	}
}

// Dt returns the step size T / len_trajectory.
// Note the divisor is the point count, not the interval count.
func (p PathParams) Dt() float64 {
	return p.Horizon / float64(p.Steps)
}

// Validate reports whether p describes a well-formed path.
// Simulate does not call it; BuildDataset does.
func (p PathParams) Validate() error {
	if p.Steps < 2 {
		return errors.Wrapf(ErrInvalidParams, "steps must be >= 2, got %d", p.Steps)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"horizon", p.Horizon}, {"mu", p.Mu}, {"sigma", p.Sigma}, {"theta", p.Theta}, {"x0", p.X0},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return errors.Wrapf(ErrInvalidParams, "%s must be finite, got %v", f.name, f.v)
		}
	}
	if p.Horizon <= 0 {
		return errors.Wrapf(ErrInvalidParams, "horizon must be > 0, got %v", p.Horizon)
	}
	if p.Sigma < 0 {
		return errors.Wrapf(ErrInvalidParams, "sigma must be >= 0, got %v", p.Sigma)
	}
	return nil
}

// DatasetConfig groups dataset assembly parameters.
type DatasetConfig struct {
	Samples int        // number of paths, n_samples (> 0)
	Path    PathParams // parameters shared by every path
	Workers int        // max concurrent simulations; <= 1 means sequential
}

// NewDatasetConfig creates a DatasetConfig.
func NewDatasetConfig(samples int, path PathParams, workers int) DatasetConfig {
	return DatasetConfig{Samples: samples, Path: path, Workers: workers}
}

// Validate reports whether c can produce a dataset.
func (c DatasetConfig) Validate() error {
	if c.Samples <= 0 {
		return errors.Wrapf(ErrInvalidParams, "samples must be > 0, got %d", c.Samples)
	}
	return c.Path.Validate()
}
