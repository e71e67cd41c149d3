// Package spline fits piecewise-cubic Hermite splines whose knot derivatives
// are backward differences, and evaluates them.
//
// For a path sampled at knots t[0..L-1] the derivative at knot k is
// (x[k]-x[k-1])/(t[k]-t[k-1]); knot 0 reuses the first forward difference.
// Each segment k is stored as four coefficient groups so that, with
// s = t - t[k],
//
//	x(t)  = a + b*s + c*s^2 + d*s^3
//	x'(t) = b + 2c*s + 3d*s^2
//
// The groups are laid out along the last axis as [a | b | 2c | 3d], one entry
// per channel in each group.
package spline

import (
	"math"

	"github.com/cockroachdb/errors"

	"github.com/inference-sim/oupath/sim/tensor"
)

// Coefficient groups per channel.
const groups = 4

var (
	// ErrInvalidKnots is returned for knot sequences that are too short,
	// non-finite, or not strictly increasing.
	ErrInvalidKnots = errors.New("invalid spline knots")

	// ErrShape is returned when data and knots disagree on the number of points.
	ErrShape = errors.New("spline shape mismatch")
)

// HermiteBackwardCoeffs computes per-sample Hermite cubic coefficients for x,
// a (samples, points, channels) array sampled at knots. The result has shape
// (samples, points-1, 4*channels).
func HermiteBackwardCoeffs(x *tensor.Dense3, knots []float64) (*tensor.Dense3, error) {
	if err := validateKnots(knots); err != nil {
		return nil, err
	}
	n, points, channels := x.Dims()
	if points != len(knots) {
		return nil, errors.Wrapf(ErrShape, "data has %d points but %d knots were given", points, len(knots))
	}
	if n == 0 || channels == 0 {
		return nil, errors.Wrapf(ErrShape, "empty data of shape (%d, %d, %d)", n, points, channels)
	}

	segments := points - 1
	out := tensor.NewDense3(n, segments, groups*channels, nil)
	slope := make([]float64, segments)
	for s := 0; s < n; s++ {
		path := x.Matrix(s)
		coeffs := out.Matrix(s)
		for ch := 0; ch < channels; ch++ {
			for k := 0; k < segments; k++ {
				slope[k] = (path.At(k+1, ch) - path.At(k, ch)) / (knots[k+1] - knots[k])
			}
			for k := 0; k < segments; k++ {
				h := knots[k+1] - knots[k]
				mPrev := slope[max(k-1, 0)]
				mNext := slope[k]
				c := (3*slope[k] - 2*mPrev - mNext) / h
				d := (mPrev + mNext - 2*slope[k]) / (h * h)

				coeffs.Set(k, ch, path.At(k, ch))
				coeffs.Set(k, channels+ch, mPrev)
				coeffs.Set(k, 2*channels+ch, 2*c)
				coeffs.Set(k, 3*channels+ch, 3*d)
			}
		}
	}
	return out, nil
}

func validateKnots(knots []float64) error {
	if len(knots) < 2 {
		return errors.Wrapf(ErrInvalidKnots, "need at least 2 knots, got %d", len(knots))
	}
	for i, k := range knots {
		if math.IsNaN(k) || math.IsInf(k, 0) {
			return errors.Wrapf(ErrInvalidKnots, "knot %d is not finite (%v)", i, k)
		}
		if i > 0 && k <= knots[i-1] {
			return errors.Wrapf(ErrInvalidKnots, "knots must be strictly increasing: t[%d]=%v <= t[%d]=%v", i, k, i-1, knots[i-1])
		}
	}
	return nil
}
