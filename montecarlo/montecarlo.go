// Package montecarlo prices European options by simulating geometric
// Brownian motion.
package montecarlo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/meenmo/qflib/config"
	"github.com/meenmo/qflib/errs"
	"github.com/meenmo/qflib/normal"
	"github.com/meenmo/qflib/option"
)

// NextGBM advances a GBM value by dt with drift rate, volatility sigma and
// standard normal shock z.
func NextGBM(prev, rate, sigma, dt, z float64) float64 {
	return prev * math.Exp((rate-0.5*sigma*sigma)*dt+sigma*math.Sqrt(dt)*z)
}

// Path simulates steps increments of length dt starting from s0. The
// returned slice has steps+1 entries with s0 first.
func Path(s0, rate, sigma, dt float64, steps int, s *normal.Sampler) []float64 {
	out := make([]float64, steps+1)
	out[0] = s0
	for i := 1; i <= steps; i++ {
		out[i] = NextGBM(out[i-1], rate, sigma, dt, s.Next())
	}
	return out
}

// EuropeanConfig controls the simulation. Paths is the number of normal
// draws; zero means config.MonteCarloPaths. With Antithetic each draw z is
// paired with -z and the pair average counts as one sample, so Paths must
// be even.
type EuropeanConfig struct {
	Paths      int
	Antithetic bool
}

// Estimate is a Monte Carlo price with its standard error.
type Estimate struct {
	Price    float64
	StdError float64
	Paths    int
}

// European prices a European call or put by sampling the terminal price
// in a single step under the risk-neutral drift r - q.
func European(opt option.Option, rate float64, cfg EuropeanConfig, s *normal.Sampler) (Estimate, error) {
	if err := opt.Validate(); err != nil {
		return Estimate{}, fmt.Errorf("montecarlo.European: %w", err)
	}
	if opt.Style != option.European {
		return Estimate{}, fmt.Errorf("montecarlo.European: %s exercise: %w", opt.Style, errs.ErrUnsupportedStyle)
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) || math.IsNaN(opt.Underlying.YieldRate) || math.IsInf(opt.Underlying.YieldRate, 0) {
		return Estimate{}, fmt.Errorf("montecarlo.European: rate %g and yield %g must be finite: %w", rate, opt.Underlying.YieldRate, errs.ErrInvalidArgument)
	}
	if s == nil {
		return Estimate{}, fmt.Errorf("montecarlo.European: sampler is required: %w", errs.ErrInvalidArgument)
	}

	paths := cfg.Paths
	if paths == 0 {
		paths = config.GetConfig().MonteCarloPaths
	}
	samples := paths
	if cfg.Antithetic {
		if paths%2 != 0 {
			return Estimate{}, fmt.Errorf("montecarlo.European: antithetic paths must be even, got %d: %w", paths, errs.ErrInvalidArgument)
		}
		samples = paths / 2
	}
	if paths < 0 || samples < 2 {
		return Estimate{}, fmt.Errorf("montecarlo.European: too few paths (%d): %w", paths, errs.ErrInvalidArgument)
	}

	spot := opt.Underlying.Price
	sigma := opt.Underlying.Volatility
	drift := rate - opt.Underlying.YieldRate
	T := opt.TimeToMaturity
	df := math.Exp(-rate * T)

	values := make([]float64, samples)
	for i := range values {
		z := s.Next()
		v := opt.Payoff(NextGBM(spot, drift, sigma, T, z))
		if cfg.Antithetic {
			v = 0.5 * (v + opt.Payoff(NextGBM(spot, drift, sigma, T, -z)))
		}
		values[i] = df * v
	}

	mean, std := stat.MeanStdDev(values, nil)
	return Estimate{
		Price:    mean,
		StdError: std / math.Sqrt(float64(samples)),
		Paths:    paths,
	}, nil
}
