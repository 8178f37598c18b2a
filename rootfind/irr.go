package rootfind

import (
	"fmt"
	"math"

	"github.com/meenmo/qflib/config"
	"github.com/meenmo/qflib/errs"
)

// IrrResult is the output of ComputeIrr.
type IrrResult struct {
	// Rate is the per-period internal rate of return as a decimal.
	Rate float64
	// Iterations is the number of Newton-Raphson steps taken.
	Iterations int
}

// ComputeIrr solves Σ cf[j]/(1+x)^j = 0 for x with Newton-Raphson.
//
// cashFlows[0] is the initial outlay and must be negative; at least two
// flows are required. The initial guess is -(1 + cf[1]/cf[0]). Iteration
// stops when |NPV| <= IrrTolerance. Reaching IrrMaxIterations, a non-finite
// iterate, or a root above IrrMaxRate all fail with ErrConvergenceFailure.
func ComputeIrr(cashFlows []float64) (IrrResult, error) {
	if len(cashFlows) < 2 {
		return IrrResult{}, fmt.Errorf("ComputeIrr: at least 2 cash flows are required, got %d: %w", len(cashFlows), errs.ErrInvalidArgument)
	}
	if !(cashFlows[0] < 0) {
		return IrrResult{}, fmt.Errorf("ComputeIrr: first cash flow must be negative, got %g: %w", cashFlows[0], errs.ErrInvalidArgument)
	}

	return ComputeIrrFrom(cashFlows, -(1 + cashFlows[1]/cashFlows[0]))
}

// ComputeIrrFrom is ComputeIrr with an explicit initial guess, for callers
// that retry after the default guess fails.
func ComputeIrrFrom(cashFlows []float64, guess float64) (IrrResult, error) {
	if len(cashFlows) < 2 {
		return IrrResult{}, fmt.Errorf("ComputeIrr: at least 2 cash flows are required, got %d: %w", len(cashFlows), errs.ErrInvalidArgument)
	}

	c := config.GetConfig()
	rate, iterations, err := solveIrr(cashFlows, guess, c.IrrTolerance, c.IrrMaxIterations)
	if err != nil {
		return IrrResult{}, err
	}
	if rate > c.IrrMaxRate {
		return IrrResult{}, fmt.Errorf("ComputeIrr: root %g exceeds %g: %w", rate, c.IrrMaxRate, errs.ErrConvergenceFailure)
	}
	return IrrResult{Rate: rate, Iterations: iterations}, nil
}

// NPV evaluates Σ cf[j]/(1+rate)^j.
func NPV(cashFlows []float64, rate float64) float64 {
	var sum float64
	growth := 1 + rate
	disc := 1.0
	for _, cf := range cashFlows {
		sum += cf / disc
		disc *= growth
	}
	return sum
}

// NPVDerivative evaluates d NPV / d rate = Σ -j·cf[j]/(1+rate)^(j+1).
func NPVDerivative(cashFlows []float64, rate float64) float64 {
	var sum float64
	growth := 1 + rate
	disc := growth
	for j := 1; j < len(cashFlows); j++ {
		disc *= growth
		sum -= float64(j) * cashFlows[j] / disc
	}
	return sum
}

// ---------------------------------------------------------------------------
// Newton-Raphson solver (unexported)
// ---------------------------------------------------------------------------

func solveIrr(cfs []float64, x, tolerance float64, maxIter int) (float64, int, error) {
	for iter := 1; iter <= maxIter; iter++ {
		if x <= -1 {
			return 0, iter, fmt.Errorf("ComputeIrr: iterate %g left the domain (-1, inf) at iter %d: %w", x, iter, errs.ErrConvergenceFailure)
		}
		f := NPV(cfs, x)
		df := NPVDerivative(cfs, x)
		if !isFinite(f) || !isFinite(df) || df == 0 {
			return 0, iter, fmt.Errorf("ComputeIrr: degenerate step at iter %d (npv=%g, dnpv=%g): %w", iter, f, df, errs.ErrConvergenceFailure)
		}

		x -= f / df
		if !isFinite(x) {
			return 0, iter, fmt.Errorf("ComputeIrr: iterate diverged at iter %d: %w", iter, errs.ErrConvergenceFailure)
		}
		if x > -1 && math.Abs(NPV(cfs, x)) <= tolerance {
			return x, iter, nil
		}
	}
	return 0, maxIter, fmt.Errorf("ComputeIrr: did not converge after %d iterations: %w", maxIter, errs.ErrConvergenceFailure)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
