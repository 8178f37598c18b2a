// Package normal provides the normal distribution used by the analytic
// pricers and a Box-Muller sampler for simulation.
package normal

import (
	"fmt"
	"math"

	"github.com/meenmo/qflib/errs"
)

// invSqrt2Pi is 1/sqrt(2π).
var invSqrt2Pi = 1.0 / math.Sqrt(2*math.Pi)

// Distribution is a normal distribution with the given mean and standard
// deviation. StdDev must be positive and finite; a literal that breaks this
// yields Inf or NaN from CDF and PDF. Use New to validate.
type Distribution struct {
	Mean   float64
	StdDev float64
}

// Standard is N(0, 1).
var Standard = Distribution{Mean: 0, StdDev: 1}

// New returns N(mean, stdDev²) after checking that mean is finite and
// stdDev is positive and finite.
func New(mean, stdDev float64) (Distribution, error) {
	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		return Distribution{}, fmt.Errorf("normal.New: mean %g is not finite: %w", mean, errs.ErrInvalidArgument)
	}
	if !(stdDev > 0) || math.IsInf(stdDev, 1) {
		return Distribution{}, fmt.Errorf("normal.New: standard deviation must be positive and finite, got %g: %w", stdDev, errs.ErrInvalidArgument)
	}
	return Distribution{Mean: mean, StdDev: stdDev}, nil
}

// CDF evaluates P(X <= x).
func (d Distribution) CDF(x float64) float64 {
	return StandardCDF(d.normalize(x))
}

// PDF evaluates the density at x.
func (d Distribution) PDF(x float64) float64 {
	return StandardPDF(d.normalize(x)) / d.StdDev
}

func (d Distribution) normalize(x float64) float64 {
	return (x - d.Mean) / d.StdDev
}

// StandardCDF is the Abramowitz-Stegun 26.2.17 rational approximation of
// the standard normal CDF. Absolute error is below 7.5e-8.
func StandardCDF(x float64) float64 {
	if x < 0 {
		return 1 - StandardCDF(-x)
	}
	t := 1.0 / (1.0 + 0.2316419*x)
	poly := ((((1.330274429*t-1.821255978)*t+1.781477937)*t-0.356563782)*t + 0.31938153) * t
	return 1.0 - poly*StandardPDF(x)
}

// StandardPDF is (1/√(2π))·e^(−x²/2).
func StandardPDF(x float64) float64 {
	return invSqrt2Pi * math.Exp(-0.5*x*x)
}
