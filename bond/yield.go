package bond

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/qflib/daycount"
	"github.com/meenmo/qflib/errs"
	"github.com/meenmo/qflib/rootfind"
)

// DatedYieldInput holds what is needed to solve a bond's yield from a quoted
// clean price on a settlement date between coupons.
type DatedYieldInput struct {
	SettlementDate time.Time
	// CleanPrice is the quoted price excluding accrued, in face-value units.
	CleanPrice float64
	// CouponFrequency is coupons per year (1 = annual, 2 = semi-annual).
	CouponFrequency int
	// Convention is used for accrued interest and the fractional first period.
	// Empty means ACT/ACT.
	Convention daycount.Convention
	// Cashflows are the remaining cash flows after settlement.
	Cashflows []Cashflow
}

// DatedYieldResult is the output of DatedYield.
type DatedYieldResult struct {
	// Yield is annualized with CouponFrequency compounding, as a decimal.
	Yield           float64
	DirtyPrice      float64
	AccruedInterest float64
	// Iterations counts Newton-Raphson steps; zero when bisection was used.
	Iterations int
}

// DatedYield solves for the yield y such that Σ CF_k/(1+y/f)^t_k equals the
// dirty price, where t_1 is the fraction of the current coupon period left
// at settlement and t_k = t_1 + (k-1).
//
// Newton-Raphson with an analytic derivative is tried first. If it stalls,
// the root is bracketed on [yieldFloor, yieldCeiling] and bisected.
func DatedYield(in DatedYieldInput) (DatedYieldResult, error) {
	if in.SettlementDate.IsZero() {
		return DatedYieldResult{}, fmt.Errorf("DatedYield: SettlementDate is required: %w", errs.ErrInvalidArgument)
	}
	if len(in.Cashflows) == 0 {
		return DatedYieldResult{}, fmt.Errorf("DatedYield: Cashflows are required: %w", errs.ErrInvalidArgument)
	}
	if in.CouponFrequency <= 0 || 12%in.CouponFrequency != 0 {
		return DatedYieldResult{}, fmt.Errorf("DatedYield: CouponFrequency %d must divide 12: %w", in.CouponFrequency, errs.ErrInvalidArgument)
	}
	if !(in.CleanPrice > 0) {
		return DatedYieldResult{}, fmt.Errorf("DatedYield: CleanPrice must be positive: %w", errs.ErrInvalidArgument)
	}
	conv := in.Convention
	if conv == "" {
		conv = daycount.ActAct
	}

	// Previous coupon date: first cashflow minus one coupon period.
	prevCoupon := daycount.AddMonths(in.Cashflows[0].Date, -12/in.CouponFrequency)
	if in.SettlementDate.Before(prevCoupon) || !in.Cashflows[0].Date.After(in.SettlementDate) {
		return DatedYieldResult{}, fmt.Errorf("DatedYield: settlement must fall inside the first coupon period: %w", errs.ErrInvalidArgument)
	}

	accruedFrac, err := periodFraction(prevCoupon, in.SettlementDate, in.Cashflows[0].Date, conv)
	if err != nil {
		return DatedYieldResult{}, err
	}
	accrued := in.Cashflows[0].Coupon * accruedFrac
	dirty := in.CleanPrice + accrued
	t1 := 1 - accruedFrac

	price := func(y float64) float64 {
		p, _ := dirtyPriceAndDeriv(y, float64(in.CouponFrequency), t1, in.Cashflows)
		return p - dirty
	}

	y, iterations, err := solveYield(dirty, float64(in.CouponFrequency), t1, in.Cashflows)
	if err != nil {
		y, err = rootfind.BisectDefault(price, yieldFloor, yieldCeiling)
		if err != nil {
			return DatedYieldResult{}, fmt.Errorf("DatedYield: %w", err)
		}
		iterations = 0
	}

	return DatedYieldResult{
		Yield:           y,
		DirtyPrice:      dirty,
		AccruedInterest: accrued,
		Iterations:      iterations,
	}, nil
}

// DirtyPrice discounts the cash flows at annual yield y with the first
// period shortened to t1 coupon periods.
func DirtyPrice(y float64, frequency int, t1 float64, cfs []Cashflow) float64 {
	p, _ := dirtyPriceAndDeriv(y, float64(frequency), t1, cfs)
	return p
}

// ---------------------------------------------------------------------------
// Newton-Raphson solver (unexported)
// ---------------------------------------------------------------------------

const (
	yieldTolerance = 1e-10
	yieldMaxIter   = 100
	yieldFloor     = -0.05
	yieldCeiling   = 0.50
)

func solveYield(target, freq, t1 float64, cfs []Cashflow) (float64, int, error) {
	y := 0.05

	for iter := 0; iter < yieldMaxIter; iter++ {
		price, dPdy := dirtyPriceAndDeriv(y, freq, t1, cfs)
		f := price - target

		if math.Abs(f) < yieldTolerance {
			return y, iter + 1, nil
		}
		if math.Abs(dPdy) < 1e-15 {
			return y, iter + 1, fmt.Errorf("DatedYield: derivative too small at iter %d: %w", iter, errs.ErrConvergenceFailure)
		}

		y = clamp(y-f/dPdy, yieldFloor, yieldCeiling)
	}

	return y, yieldMaxIter, fmt.Errorf("DatedYield: did not converge after %d iterations: %w", yieldMaxIter, errs.ErrConvergenceFailure)
}

// dirtyPriceAndDeriv returns (price, dPrice/dy):
//
//	t_k   = t_1 + (k − 1)
//	price = Σ CF_k / (1+y/f)^t_k
//	dP/dy = Σ −(t_k/f) · CF_k / (1+y/f)^(t_k+1)
func dirtyPriceAndDeriv(y, freq, t1 float64, cfs []Cashflow) (float64, float64) {
	g := 1 + y/freq
	var price, deriv float64
	for i, cf := range cfs {
		t := t1 + float64(i)
		amt := cf.Amount()
		price += amt / math.Pow(g, t)
		deriv += -t / freq * amt / math.Pow(g, t+1)
	}
	return price, deriv
}

// periodFraction is the share of the coupon period [prev, next] elapsed at settlement.
func periodFraction(prev, settlement, next time.Time, conv daycount.Convention) (float64, error) {
	elapsed, err := daycount.YearFraction(prev, settlement, conv)
	if err != nil {
		return 0, fmt.Errorf("DatedYield: %w", err)
	}
	whole, err := daycount.YearFraction(prev, next, conv)
	if err != nil {
		return 0, fmt.Errorf("DatedYield: %w", err)
	}
	if whole <= 0 {
		return 0, fmt.Errorf("DatedYield: empty coupon period: %w", errs.ErrInvalidArgument)
	}
	return elapsed / whole, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
