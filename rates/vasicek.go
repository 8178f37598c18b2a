// Package rates holds one-factor short-rate models.
package rates

import (
	"fmt"
	"math"

	"github.com/meenmo/qflib/errs"
)

// Vasicek is the mean-reverting short-rate model dr = a(b − r)dt + σ dW.
type Vasicek struct {
	SpeedOfReversion float64 // a
	LongTermRate     float64 // b
	Volatility       float64 // σ
}

// ZeroCoupon is the closed-form price of a unit zero-coupon bond.
type ZeroCoupon struct {
	PresentValue    float64
	SpotRate        float64
	YieldVolatility float64
}

// ZeroCoupon prices a unit bond maturing at t years with the short rate
// starting at the long-term rate.
func (v Vasicek) ZeroCoupon(t float64) (ZeroCoupon, error) {
	return v.ZeroCouponFrom(v.LongTermRate, t)
}

// ZeroCouponFrom prices a unit bond maturing at t from short rate r0:
//
//	B(t)   = (1 − e^{−at}) / a
//	ln A(t) = (b − σ²/2a²)(B(t) − t) − σ²B(t)²/4a
//	P      = A(t)·e^{−B(t)·r0}
func (v Vasicek) ZeroCouponFrom(r0, t float64) (ZeroCoupon, error) {
	if err := v.validate(); err != nil {
		return ZeroCoupon{}, err
	}
	if !(t > 0) || math.IsInf(t, 0) {
		return ZeroCoupon{}, fmt.Errorf("Vasicek.ZeroCoupon: maturity must be positive, got %v: %w", t, errs.ErrInvalidArgument)
	}
	if math.IsNaN(r0) || math.IsInf(r0, 0) {
		return ZeroCoupon{}, fmt.Errorf("Vasicek.ZeroCoupon: short rate must be finite: %w", errs.ErrInvalidArgument)
	}

	a, b, vol := v.SpeedOfReversion, v.LongTermRate, v.Volatility

	minusDisc := 1 - math.Exp(-a*t)
	longTermVar := b - vol*vol/(2*a*a)
	logA := longTermVar/a*minusDisc - t*longTermVar - vol*vol/(4*a*a*a)*minusDisc*minusDisc
	bt := minusDisc / a

	return ZeroCoupon{
		PresentValue:    math.Exp(logA - r0*bt),
		SpotRate:        -(logA - bt*r0) / t,
		YieldVolatility: vol / (a * t) * minusDisc,
	}, nil
}

func (v Vasicek) validate() error {
	switch {
	case !(v.SpeedOfReversion > 0):
		return fmt.Errorf("Vasicek: speed of reversion must be positive, got %v: %w", v.SpeedOfReversion, errs.ErrInvalidArgument)
	case !(v.LongTermRate > 0):
		return fmt.Errorf("Vasicek: long-term rate must be positive, got %v: %w", v.LongTermRate, errs.ErrInvalidArgument)
	case !(v.Volatility > 0):
		return fmt.Errorf("Vasicek: volatility must be positive, got %v: %w", v.Volatility, errs.ErrInvalidArgument)
	}
	return nil
}
