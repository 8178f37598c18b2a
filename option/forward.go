package option

import (
	"fmt"
	"math"

	"github.com/meenmo/qflib/errs"
)

// ForwardPrice is the no-arbitrage forward on u for delivery in tenor
// years: S·e^((r−q)·T).
func ForwardPrice(u Underlying, rate, tenor float64) (float64, error) {
	if tenor < 0 {
		return 0, fmt.Errorf("ForwardPrice: tenor must not be negative, got %g: %w", tenor, errs.ErrInvalidArgument)
	}
	return u.Price * math.Exp((rate-u.YieldRate)*tenor), nil
}
