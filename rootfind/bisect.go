package rootfind

import (
	"fmt"
	"math"

	"github.com/meenmo/qflib/config"
	"github.com/meenmo/qflib/errs"
)

// Bisect finds a root of f in [low, high] by repeated halving. It stops once
// mid - low <= tolerance and returns mid.
//
// f(low) and f(high) must have opposite signs; otherwise ErrInvalidBracket is
// returned. A bracket end that is already an exact root is returned as is.
func Bisect(f func(float64) float64, low, high, tolerance float64) (float64, error) {
	if tolerance <= 0 {
		return 0, fmt.Errorf("Bisect: tolerance must be positive: %w", errs.ErrInvalidArgument)
	}
	if !(low < high) {
		return 0, fmt.Errorf("Bisect: low (%g) must be below high (%g): %w", low, high, errs.ErrInvalidArgument)
	}

	yLow, yHigh := f(low), f(high)
	if math.IsNaN(yLow) || math.IsNaN(yHigh) {
		return 0, fmt.Errorf("Bisect: f is not evaluable at the bracket ends: %w", errs.ErrInvalidBracket)
	}
	if yLow == 0 {
		return low, nil
	}
	if yHigh == 0 {
		return high, nil
	}
	if sameSign(yLow, yHigh) {
		return 0, fmt.Errorf("Bisect: f(%g)=%g and f(%g)=%g share sign: %w", low, yLow, high, yHigh, errs.ErrInvalidBracket)
	}

	mid := (low + high) / 2
	yMid := f(mid)
	for mid-low > tolerance {
		if sameSign(yLow, yMid) {
			low, yLow = mid, yMid
		} else {
			high = mid
		}
		next := (low + high) / 2
		if next <= low || next >= high {
			// bracket narrower than float spacing
			break
		}
		mid = next
		yMid = f(mid)
	}
	return mid, nil
}

// BisectDefault runs Bisect with the configured BisectTolerance.
func BisectDefault(f func(float64) float64, low, high float64) (float64, error) {
	return Bisect(f, low, high, config.GetConfig().BisectTolerance)
}

func sameSign(a, b float64) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}
