// Package bond prices level-coupon bonds and computes their yield and
// duration measures.
package bond

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/meenmo/qflib/daycount"
	"github.com/meenmo/qflib/errs"
	"github.com/meenmo/qflib/rootfind"
	"github.com/meenmo/qflib/timevalue"
)

// Bond is a fixed-coupon bond priced from issue.
type Bond struct {
	FaceValue       float64
	Years           int
	PaymentsPerYear int
	// CouponRate is the annual coupon as a decimal (0.05 for 5%).
	CouponRate float64
	// MarketPrice is optional; zero or NaN means "use the fair price".
	MarketPrice float64
}

// CouponPayment is the coupon paid each period.
func (b Bond) CouponPayment() float64 {
	return b.FaceValue * b.CouponRate / float64(b.PaymentsPerYear)
}

// TotalPayments is the number of coupon periods to maturity.
func (b Bond) TotalPayments() int {
	return b.Years * b.PaymentsPerYear
}

func (b Bond) validate(fn string) error {
	switch {
	case b.Years <= 0:
		return fmt.Errorf("%s: years must be positive, got %d: %w", fn, b.Years, errs.ErrInvalidArgument)
	case b.PaymentsPerYear <= 0:
		return fmt.Errorf("%s: payments per year must be positive, got %d: %w", fn, b.PaymentsPerYear, errs.ErrInvalidArgument)
	case !(b.FaceValue > 0) || math.IsInf(b.FaceValue, 0):
		return fmt.Errorf("%s: face value must be positive, got %v: %w", fn, b.FaceValue, errs.ErrInvalidArgument)
	case !(b.CouponRate >= 0):
		return fmt.Errorf("%s: coupon rate must be non-negative, got %v: %w", fn, b.CouponRate, errs.ErrInvalidArgument)
	}
	return nil
}

// Analytics is the output of Price.
type Analytics struct {
	FairPrice   float64
	MarketPrice float64
	// PeriodicYield is the IRR per coupon period.
	PeriodicYield float64
	// YieldToMaturity is PeriodicYield annualized by PaymentsPerYear.
	YieldToMaturity float64
	// Durations are measured in coupon periods.
	MacaulayDuration float64
	ModifiedDuration float64
	DollarDuration   float64
	// Iterations is the number of Newton-Raphson steps of the yield solve.
	Iterations int
}

// Price discounts the bond at annualRate/PaymentsPerYear per period and
// derives yield and durations. Durations use the market price, which falls
// back to the fair price when unset.
func Price(b Bond, annualRate float64) (Analytics, error) {
	if err := b.validate("Price"); err != nil {
		return Analytics{}, err
	}
	r := annualRate / float64(b.PaymentsPerYear)
	if !(r > -1) || math.IsInf(r, 0) {
		return Analytics{}, fmt.Errorf("Price: periodic rate %v must be greater than -1: %w", r, errs.ErrInvalidArgument)
	}

	n := b.TotalPayments()
	fair := timevalue.PresentValue(b.FaceValue, n, r) + timevalue.AnnuityPresentValue(b.CouponPayment(), n, r)

	mkt := b.MarketPrice
	if mkt == 0 || math.IsNaN(mkt) {
		mkt = fair
	}

	cfs := Cashflows(b, fair)
	irr, err := rootfind.ComputeIrr(cfs)
	if errors.Is(err, errs.ErrConvergenceFailure) {
		// Retry from the current yield. A zero coupon puts the default guess at -1.
		irr, err = rootfind.ComputeIrrFrom(cfs, b.CouponPayment()/fair)
	}
	if err != nil {
		return Analytics{}, fmt.Errorf("Price: yield to maturity: %w", err)
	}

	mac, mod, dollar, err := Durations(b, annualRate, mkt)
	if err != nil {
		return Analytics{}, err
	}

	return Analytics{
		FairPrice:        fair,
		MarketPrice:      mkt,
		PeriodicYield:    irr.Rate,
		YieldToMaturity:  irr.Rate * float64(b.PaymentsPerYear),
		MacaulayDuration: mac,
		ModifiedDuration: mod,
		DollarDuration:   dollar,
		Iterations:       irr.Iterations,
	}, nil
}

// Durations returns Macaulay, modified and dollar duration at annualRate.
//
//	mac    = (Σ PV(i·c, i, r) + PV(n·F, n, r)) / marketPrice
//	mod    = mac / (1+r)
//	dollar = marketPrice · mod / 10000
func Durations(b Bond, annualRate, marketPrice float64) (mac, mod, dollar float64, err error) {
	if err := b.validate("Durations"); err != nil {
		return 0, 0, 0, err
	}
	if !(marketPrice > 0) || math.IsInf(marketPrice, 0) {
		return 0, 0, 0, fmt.Errorf("Durations: market price must be positive, got %v: %w", marketPrice, errs.ErrInvalidArgument)
	}
	r := annualRate / float64(b.PaymentsPerYear)
	if !(r > -1) {
		return 0, 0, 0, fmt.Errorf("Durations: periodic rate %v must be greater than -1: %w", r, errs.ErrInvalidArgument)
	}

	n := b.TotalPayments()
	c := b.CouponPayment()
	weighted := make([]float64, n+1)
	for i := 1; i <= n; i++ {
		weighted[i] = float64(i) * c
	}
	weighted[n] += float64(n) * b.FaceValue

	mac = timevalue.PresentValueOfCashFlows(weighted, r) / marketPrice
	mod = mac / (1 + r)
	dollar = marketPrice * mod / 10000
	return mac, mod, dollar, nil
}

// EffectiveDuration estimates duration from prices after a parallel yield
// shift of ±yieldChange. A price that moves the wrong way is rejected.
func EffectiveDuration(marketPrice, priceYieldFalls, priceYieldRises, yieldChange float64) (float64, error) {
	if err := checkShock("EffectiveDuration", marketPrice, priceYieldFalls, priceYieldRises, yieldChange); err != nil {
		return 0, err
	}
	return (priceYieldFalls - priceYieldRises) / (2 * marketPrice * yieldChange), nil
}

// EffectiveConvexity estimates convexity from the same shocked prices.
func EffectiveConvexity(marketPrice, priceYieldFalls, priceYieldRises, yieldChange float64) (float64, error) {
	if err := checkShock("EffectiveConvexity", marketPrice, priceYieldFalls, priceYieldRises, yieldChange); err != nil {
		return 0, err
	}
	return (priceYieldFalls + priceYieldRises - 2*marketPrice) / (marketPrice * yieldChange * yieldChange), nil
}

func checkShock(fn string, mkt, falls, rises, dy float64) error {
	if !(mkt > 0) {
		return fmt.Errorf("%s: market price must be positive, got %v: %w", fn, mkt, errs.ErrInvalidArgument)
	}
	if dy == 0 || math.IsNaN(dy) {
		return fmt.Errorf("%s: yield change must be non-zero: %w", fn, errs.ErrInvalidArgument)
	}
	if falls < mkt || rises > mkt {
		return fmt.Errorf("%s: expected price(yield down) >= %v >= price(yield up), got %v and %v: %w", fn, mkt, falls, rises, errs.ErrInvalidArgument)
	}
	return nil
}

// AccruedInterest is the coupon accrued between start and end under the
// given convention.
func AccruedInterest(b Bond, start, end time.Time, convention daycount.Convention) (float64, error) {
	yf, err := daycount.YearFraction(start, end, convention)
	if err != nil {
		return 0, fmt.Errorf("AccruedInterest: %w", err)
	}
	if yf < 0 {
		return 0, fmt.Errorf("AccruedInterest: end %s precedes start %s: %w", end.Format("2006-01-02"), start.Format("2006-01-02"), errs.ErrInvalidArgument)
	}
	return yf * b.FaceValue * b.CouponRate, nil
}

// Cashflows returns the purchase-to-maturity flows [-price, c, ..., c+F].
func Cashflows(b Bond, price float64) []float64 {
	n := b.TotalPayments()
	if n <= 0 {
		return []float64{-price}
	}
	c := b.CouponPayment()
	cfs := make([]float64, n+1)
	cfs[0] = -price
	for i := 1; i <= n; i++ {
		cfs[i] = c
	}
	cfs[n] += b.FaceValue
	return cfs
}
