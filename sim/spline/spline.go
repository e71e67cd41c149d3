package spline

import (
	"sort"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"
)

// Spline evaluates one sample's Hermite coefficients.
// Times outside the knot range extrapolate the boundary segment.
type Spline struct {
	knots    []float64
	coeffs   *mat.Dense // (segments x 4*channels)
	channels int
}

// New builds a Spline from knots and a (len(knots)-1 x 4*channels) coefficient
// matrix such as one leading entry of HermiteBackwardCoeffs' result.
// Both inputs are copied.
func New(knots []float64, coeffs mat.Matrix) (*Spline, error) {
	if err := validateKnots(knots); err != nil {
		return nil, err
	}
	r, c := coeffs.Dims()
	if r != len(knots)-1 {
		return nil, errors.Wrapf(ErrShape, "coefficients have %d segments but %d knots were given", r, len(knots))
	}
	if c == 0 || c%groups != 0 {
		return nil, errors.Wrapf(ErrShape, "coefficient width %d is not a positive multiple of %d", c, groups)
	}
	return &Spline{
		knots:    append([]float64(nil), knots...),
		coeffs:   mat.DenseCopyOf(coeffs),
		channels: c / groups,
	}, nil
}

// Channels returns the number of interpolated channels.
func (sp *Spline) Channels() int {
	return sp.channels
}

// Interval returns the first and last knot.
func (sp *Spline) Interval() (lo, hi float64) {
	return sp.knots[0], sp.knots[len(sp.knots)-1]
}

// segment returns the largest k with knots[k] <= t, clamped to a valid segment.
func (sp *Spline) segment(t float64) int {
	k := sort.Search(len(sp.knots), func(i int) bool { return sp.knots[i] > t }) - 1
	return min(max(k, 0), len(sp.knots)-2)
}

// Evaluate returns the interpolated value of every channel at t.
func (sp *Spline) Evaluate(t float64) []float64 {
	k := sp.segment(t)
	s := t - sp.knots[k]
	out := make([]float64, sp.channels)
	for ch := range out {
		a, b, c2, d3 := sp.group(k, ch)
		out[ch] = a + s*(b+s*(c2/2+s*d3/3))
	}
	return out
}

// Derivative returns the time derivative of every channel at t.
func (sp *Spline) Derivative(t float64) []float64 {
	k := sp.segment(t)
	s := t - sp.knots[k]
	out := make([]float64, sp.channels)
	for ch := range out {
		_, b, c2, d3 := sp.group(k, ch)
		out[ch] = b + s*(c2+s*d3)
	}
	return out
}

func (sp *Spline) group(k, ch int) (a, b, c2, d3 float64) {
	n := sp.channels
	return sp.coeffs.At(k, ch), sp.coeffs.At(k, n+ch), sp.coeffs.At(k, 2*n+ch), sp.coeffs.At(k, 3*n+ch)
}
