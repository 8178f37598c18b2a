// Package timevalue holds discrete-compounding present and future value helpers
// shared by the bond and mortgage analytics.
package timevalue

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/meenmo/qflib/errs"
)

// PresentValue discounts a single amount due in periods periods.
func PresentValue(fv float64, periods int, rate float64) float64 {
	return fv / math.Pow(1+rate, float64(periods))
}

// FutureValue compounds a single amount forward.
func FutureValue(pv float64, periods int, rate float64) float64 {
	return pv * math.Pow(1+rate, float64(periods))
}

// AnnuityPresentValue is the PV of a level payment paid at the end of each period.
func AnnuityPresentValue(pmt float64, periods int, rate float64) float64 {
	if rate == 0 {
		return pmt * float64(periods)
	}
	return pmt / rate * (1 - 1/math.Pow(1+rate, float64(periods)))
}

// AnnuityFutureValue is the FV of a level payment paid at the end of each period.
func AnnuityFutureValue(pmt float64, periods int, rate float64) float64 {
	if rate == 0 {
		return pmt * float64(periods)
	}
	return pmt / rate * (math.Pow(1+rate, float64(periods)) - 1)
}

// PresentValueOfCashFlows discounts payments[i] by (1+rate)^i. The first
// payment is undiscounted.
func PresentValueOfCashFlows(payments []float64, rate float64) float64 {
	pv := make([]float64, len(payments))
	for i, p := range payments {
		pv[i] = p / math.Pow(1+rate, float64(i))
	}
	return floats.Sum(pv)
}

// PresentValueOfCashFlowsAt discounts payments[i] by (1+rates[i])^i.
func PresentValueOfCashFlowsAt(payments, rates []float64) (float64, error) {
	if len(payments) != len(rates) {
		return 0, fmt.Errorf("PresentValueOfCashFlowsAt: %d payments but %d rates: %w", len(payments), len(rates), errs.ErrInvalidArgument)
	}
	pv := make([]float64, len(payments))
	for i, p := range payments {
		pv[i] = p / math.Pow(1+rates[i], float64(i))
	}
	return floats.Sum(pv), nil
}

// DiscountFactor returns 1/(1+rate)^periods.
func DiscountFactor(rate float64, periods int) (float64, error) {
	if rate <= -1 {
		return 0, fmt.Errorf("DiscountFactor: rate %v must be greater than -1: %w", rate, errs.ErrInvalidArgument)
	}
	return 1 / math.Pow(1+rate, float64(periods)), nil
}

// ImpliedForwardRate solves (1+F)^(y-x)·(1+Rx)^x = (1+Ry)^y for F.
func ImpliedForwardRate(spotX float64, periodX int, spotY float64, periodY int) (float64, error) {
	if periodX < 0 || periodX >= periodY {
		return 0, fmt.Errorf("ImpliedForwardRate: need 0 <= periodX < periodY, got %d and %d: %w", periodX, periodY, errs.ErrInvalidArgument)
	}
	if spotX <= -1 || spotY <= -1 {
		return 0, fmt.Errorf("ImpliedForwardRate: spot rates must be greater than -1: %w", errs.ErrInvalidArgument)
	}
	growth := math.Pow(1+spotY, float64(periodY)) / math.Pow(1+spotX, float64(periodX))
	return math.Pow(growth, 1/float64(periodY-periodX)) - 1, nil
}
