// Package summary aggregates per-step statistics across the paths of a
// dataset and compares them with the analytic OU moments.
package summary

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/inference-sim/oupath/sim"
)

// Step holds the cross-sample statistics at one grid point.
// Time is the grid time; SimTime is j*dt, the time the scheme actually
// integrated to, and the one the expected moments are evaluated at.
type Step struct {
	Time             float64
	SimTime          float64
	Mean             float64
	Variance         float64 // unbiased; NaN with a single sample
	ExpectedMean     float64
	ExpectedVariance float64
}

// Summary aggregates statistics from a Dataset.
type Summary struct {
	Samples          int
	Steps            []Step
	MaxMeanError     float64 // max |Mean - ExpectedMean| over steps
	MaxVarianceError float64 // max |Variance - ExpectedVariance| over steps, NaN skipped
}

// Summarize computes per-step statistics from a Dataset.
// Safe for a nil dataset (returns zero-value fields).
func Summarize(ds *sim.Dataset) *Summary {
	summary := &Summary{}
	if ds == nil || ds.Paths == nil {
		return summary
	}

	n, steps, _ := ds.Paths.Dims()
	summary.Samples = n
	summary.Steps = make([]Step, steps)
	column := make([]float64, n)
	for j := 0; j < steps; j++ {
		for i := 0; i < n; i++ {
			column[i] = ds.Paths.At(i, j, sim.ChannelValue)
		}
		mean, variance := stat.MeanVariance(column, nil)
		simTime := float64(j) * ds.Params.Dt()
		wantMean, wantVariance := sim.Moments(ds.Params, simTime)
		summary.Steps[j] = Step{
			Time:             ds.Paths.At(0, j, sim.ChannelTime),
			SimTime:          simTime,
			Mean:             mean,
			Variance:         variance,
			ExpectedMean:     wantMean,
			ExpectedVariance: wantVariance,
		}

		summary.MaxMeanError = math.Max(summary.MaxMeanError, math.Abs(mean-wantMean))
		if !math.IsNaN(variance) {
			summary.MaxVarianceError = math.Max(summary.MaxVarianceError, math.Abs(variance-wantVariance))
		}
	}
	return summary
}
