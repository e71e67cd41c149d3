package sim

import (
	"context"
	"math/rand/v2"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/inference-sim/oupath/sim/spline"
	"github.com/inference-sim/oupath/sim/tensor"
)

// Channel indices along the last axis of Dataset.Paths.
const (
	ChannelTime  = 0
	ChannelValue = 1
	numChannels  = 2
)

// Dataset holds stacked OU paths and their interpolation coefficients.
type Dataset struct {
	Paths  *tensor.Dense3 // (samples, steps, 2): [time, value] per grid point
	Coeffs *tensor.Dense3 // (samples, steps-1, 8): Hermite coefficients over Knots
	Knots  []float64      // normalized time axis, linspace(0, 1, steps)
	Params PathParams
}

// Samples returns the number of paths in the dataset.
func (d *Dataset) Samples() int {
	n, _, _ := d.Paths.Dims()
	return n
}

// Path returns a copy of sample i as a Path.
func (d *Dataset) Path(i int) *Path {
	m := d.Paths.Matrix(i)
	steps, _ := m.Dims()
	p := &Path{Times: make([]float64, steps), Values: make([]float64, steps)}
	for j := 0; j < steps; j++ {
		p.Times[j] = m.At(j, ChannelTime)
		p.Values[j] = m.At(j, ChannelValue)
	}
	return p
}

// Spline returns the interpolating spline of sample i on the normalized axis.
func (d *Dataset) Spline(i int) (*spline.Spline, error) {
	return spline.New(d.Knots, d.Coeffs.Matrix(i))
}

// BuildDataset simulates cfg.Samples independent paths and fits Hermite cubic
// coefficients with backward-difference derivatives to each one over a
// normalized [0, 1] time axis.
//
// With a nil rng every path draws from the process-wide generator and samples
// are simulated sequentially. With a non-nil rng sample i draws from
// rng.ForSubsystem(SubsystemSample(i)); up to cfg.Workers samples are then
// simulated concurrently and the result does not depend on cfg.Workers.
//
// Any failure aborts the whole dataset; partial results are never returned.
func BuildDataset(ctx context.Context, cfg DatasetConfig, rng *PartitionedRNG) (*Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	steps := cfg.Path.Steps
	logrus.Debugf("building OU dataset: samples=%d steps=%d horizon=%v mu=%v sigma=%v theta=%v x0=%v",
		cfg.Samples, steps, cfg.Path.Horizon, cfg.Path.Mu, cfg.Path.Sigma, cfg.Path.Theta, cfg.Path.X0)

	paths := tensor.NewDense3(cfg.Samples, steps, numChannels, nil)
	var err error
	if rng == nil {
		err = simulateSequential(ctx, cfg, paths)
	} else {
		err = simulatePartitioned(ctx, cfg, rng, paths)
	}
	if err != nil {
		return nil, err
	}

	knots := linspace(0, 1, steps)
	coeffs, err := spline.HermiteBackwardCoeffs(paths, knots)
	if err != nil {
		return nil, errors.Wrap(err, "fitting spline coefficients")
	}
	logrus.Debugf("built OU dataset: paths=%v coeffs=%v", paths.Shape(), coeffs.Shape())

	return &Dataset{
		Paths:  paths,
		Coeffs: coeffs,
		Knots:  knots,
		Params: cfg.Path,
	}, nil
}

func simulateSequential(ctx context.Context, cfg DatasetConfig, paths *tensor.Dense3) error {
	for i := 0; i < cfg.Samples; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := simulateInto(cfg.Path, nil, paths, i); err != nil {
			return err
		}
	}
	return nil
}

func simulatePartitioned(ctx context.Context, cfg DatasetConfig, rng *PartitionedRNG, paths *tensor.Dense3) error {
	// Derive every stream up front: PartitionedRNG is single-goroutine only.
	sources := make([]*rand.Rand, cfg.Samples)
	for i := range sources {
		sources[i] = rng.ForSubsystem(SubsystemSample(i))
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for i := 0; i < cfg.Samples; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return simulateInto(cfg.Path, sources[i], paths, i)
		})
	}
	return g.Wait()
}

// simulateInto writes sample i into its own slice of paths; concurrent calls
// with distinct i never overlap.
func simulateInto(p PathParams, src rand.Source, paths *tensor.Dense3, i int) error {
	path, err := Simulate(p, src)
	if err != nil {
		return errors.Wrapf(err, "simulating sample %d", i)
	}
	m := mat.NewDense(path.Len(), numChannels, nil)
	m.SetCol(ChannelTime, path.Times)
	m.SetCol(ChannelValue, path.Values)
	paths.SetMatrix(i, m)
	return nil
}
