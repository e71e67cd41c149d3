package sim

import "math"

// Moments returns the mean and variance of the continuous OU process at time t
// started from p.X0:
//
//	mean     = mu + (X0 - mu) * exp(-theta*t)
//	variance = sigma^2 * (1 - exp(-2*theta*t)) / (2*theta)
//
// With theta == 0 the process is a scaled Brownian motion and the variance is
// sigma^2 * t. The Euler scheme used by Simulate converges to these as dt -> 0.
func Moments(p PathParams, t float64) (mean, variance float64) {
	mean = p.Mu + (p.X0-p.Mu)*math.Exp(-p.Theta*t)
	if p.Theta == 0 {
		return mean, p.Sigma * p.Sigma * t
	}
	variance = p.Sigma * p.Sigma * -math.Expm1(-2*p.Theta*t) / (2 * p.Theta)
	return mean, variance
}
