package sim

import (
	"math"
	"math/rand/v2"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Path is one realization of the OU process on an evenly spaced grid.
type Path struct {
	Times  []float64 // grid over [0, T], both endpoints included
	Values []float64 // process state at each grid point
}

// Len returns the number of grid points.
func (p *Path) Len() int {
	return len(p.Times)
}

// Simulate draws one OU path with the Euler–Maruyama scheme
//
//	X[i] = X[i-1] + theta*(mu - X[i-1])*dt + sigma*dB_i,  dB_i ~ N(0, dt)
//
// with dt = T/Steps. One Gaussian draw is consumed per step even when sigma
// is zero, so the stream position depends only on Steps.
//
// A nil src draws from the process-wide generator; such calls are not
// reproducible. Parameters are not validated: invalid values propagate as
// NaN or sign flips. Only Steps < 1 is rejected, since the path has nowhere
// to hold X0.
func Simulate(p PathParams, src rand.Source) (*Path, error) {
	if p.Steps < 1 {
		return nil, errors.Wrapf(ErrInvalidParams, "steps must be >= 1, got %d", p.Steps)
	}
	dt := p.Dt()
	noise := distuv.Normal{Mu: 0, Sigma: math.Sqrt(dt), Src: src}

	path := &Path{
		Times:  linspace(0, p.Horizon, p.Steps),
		Values: make([]float64, p.Steps),
	}
	x := path.Values
	x[0] = p.X0
	for i := 1; i < p.Steps; i++ {
		dB := noise.Rand()
		drift := p.Mu - x[i-1]
		x[i] = x[i-1] + p.Theta*drift*dt + p.Sigma*dB
	}
	return path, nil
}

// linspace returns n evenly spaced points over [lo, hi].
// The last point is exactly hi.
func linspace(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{lo}
	}
	grid := floats.Span(make([]float64, n), lo, hi)
	grid[n-1] = hi
	return grid
}
