package option

import (
	"fmt"
	"math"

	"github.com/meenmo/qflib/config"
	"github.com/meenmo/qflib/errs"
)

// PlainVanillaSwap is a fixed-for-floating interest rate swap.
//
// Rates are decimals (0.075 == 7.5%); Tenor is in years. The annuity is
// built on the floating schedule, so FixedPaymentsPerYear is carried for
// reporting and does not enter the price.
type PlainVanillaSwap struct {
	FixedRate            float64
	FloatRate            float64
	Tenor                float64
	FixedPaymentsPerYear int
	FloatPaymentsPerYear int
}

// Swaption is a European option to enter the underlying swap.
//
// Volatility is the Black volatility of the swap rate, which depends on
// expiry, tenor and strike.
type Swaption struct {
	Strike         float64
	TimeToMaturity float64
	Volatility     float64
	Swap           PlainVanillaSwap
}

// PayerSwaption prices the right to pay fixed with Black's formula:
//
//	α = (1 − (1 + flt/m)^(−tenor·m)) / flt
//	price = α·e^(−rT)·(flt·N(d1) − fix·N(d2))
func PayerSwaption(sw Swaption, rate float64) (Result, error) {
	in, err := newSwaptionInputs("PayerSwaption", sw, rate)
	if err != nil {
		return Result{}, err
	}
	price := in.alpha * math.Exp(-rate*sw.TimeToMaturity) * (in.flt*N(in.d1) - in.fix*N(in.d2))
	return Result{Price: price}, nil
}

// ReceiverSwaption prices the right to receive fixed:
//
//	price = α·e^(−rT)·(fix·N(−d2) − flt·N(−d1))
func ReceiverSwaption(sw Swaption, rate float64) (Result, error) {
	in, err := newSwaptionInputs("ReceiverSwaption", sw, rate)
	if err != nil {
		return Result{}, err
	}
	price := in.alpha * math.Exp(-rate*sw.TimeToMaturity) * (in.fix*N(-in.d2) - in.flt*N(-in.d1))
	return Result{Price: price}, nil
}

type swaptionInputs struct {
	flt, fix, alpha, d1, d2 float64
}

// newSwaptionInputs applies one rule to both payer and receiver: the
// swaption strike must equal the swap's fixed rate.
func newSwaptionInputs(caller string, sw Swaption, rate float64) (swaptionInputs, error) {
	s := sw.Swap
	switch {
	case !isFinite(rate):
		return swaptionInputs{}, fmt.Errorf("%s: discount rate %g is not finite: %w", caller, rate, errs.ErrInvalidArgument)
	case !(sw.TimeToMaturity > 0):
		return swaptionInputs{}, fmt.Errorf("%s: time to maturity must be positive: %w", caller, errs.ErrInvalidArgument)
	case !(sw.Volatility > 0):
		return swaptionInputs{}, fmt.Errorf("%s: volatility must be positive: %w", caller, errs.ErrInvalidArgument)
	case !(s.Tenor > 0):
		return swaptionInputs{}, fmt.Errorf("%s: swap tenor must be positive: %w", caller, errs.ErrInvalidArgument)
	case s.FloatPaymentsPerYear <= 0:
		return swaptionInputs{}, fmt.Errorf("%s: float payments per year must be positive: %w", caller, errs.ErrInvalidArgument)
	case !(s.FloatRate > 0) || !(s.FixedRate > 0):
		return swaptionInputs{}, fmt.Errorf("%s: swap rates must be positive: %w", caller, errs.ErrInvalidArgument)
	}
	if math.Abs(sw.Strike-s.FixedRate) > config.GetConfig().StrikeTolerance {
		return swaptionInputs{}, fmt.Errorf("%s: strike %g must equal the swap fixed rate %g: %w", caller, sw.Strike, s.FixedRate, errs.ErrInvalidArgument)
	}

	m := float64(s.FloatPaymentsPerYear)
	flt, fix := s.FloatRate, s.FixedRate
	sigSqrtT := sw.Volatility * math.Sqrt(sw.TimeToMaturity)

	in := swaptionInputs{flt: flt, fix: fix}
	in.alpha = (1 - math.Pow(1+flt/m, -s.Tenor*m)) / flt
	in.d1 = (math.Log(flt/fix) + sw.Volatility*sw.Volatility/2*sw.TimeToMaturity) / sigSqrtT
	in.d2 = in.d1 - sigSqrtT
	return in, nil
}
