package mortgage

import (
	"fmt"
	"math"

	"github.com/meenmo/qflib/errs"
)

const (
	// plateauCPR is the annualized prepayment speed reached at the end of the ramp.
	plateauCPR = 0.06
	// rampMonths is the loan age at which the ramp reaches the plateau.
	rampMonths = 30
)

// Prepayment is a computed prepayment-speed curve, one entry per remaining period.
// CPR[i] and SMM[i] belong to month i+1 of the remaining term.
type Prepayment struct {
	Periods    int
	Seasoning  int
	Multiplier float64
	CPR        []float64
	SMM        []float64
}

// ComputeCpr returns the annualized conditional prepayment rate for the given
// month (1-based, counted from the start of the schedule) of a loan that is
// already seasoning months old. The speed ramps linearly to 6% at loan age 30
// and is scaled by multiplier.
func ComputeCpr(month, seasoning int, multiplier float64) (float64, error) {
	if err := checkCurveArgs("ComputeCpr", month, seasoning, multiplier); err != nil {
		return 0, err
	}
	if month > rampMonths-seasoning {
		return plateauCPR * multiplier, nil
	}
	return plateauCPR * multiplier * float64(month+seasoning) / rampMonths, nil
}

// ComputeSmm returns the single monthly mortality for the same month.
func ComputeSmm(month, seasoning int, multiplier float64) (float64, error) {
	if err := checkCurveArgs("ComputeSmm", month, seasoning, multiplier); err != nil {
		return 0, err
	}
	cpr, err := ComputeCpr(month, seasoning, multiplier)
	if err != nil {
		return 0, err
	}
	return SmmFromCpr(cpr), nil
}

// SmmFromCpr converts an annual rate into its monthly equivalent.
func SmmFromCpr(cpr float64) float64 {
	return 1 - math.Pow(1-cpr, 1.0/12.0)
}

// ComputePrepayment builds the CPR and SMM curves for periods-seasoning months.
func ComputePrepayment(periods, seasoning int, multiplier float64) (Prepayment, error) {
	if periods <= 0 || seasoning < 0 || seasoning >= periods {
		return Prepayment{}, fmt.Errorf("ComputePrepayment: need 0 <= seasoning < periods, got seasoning=%d periods=%d: %w", seasoning, periods, errs.ErrInvalidArgument)
	}
	if multiplier < 0 || math.IsNaN(multiplier) {
		return Prepayment{}, fmt.Errorf("ComputePrepayment: multiplier must be non-negative, got %v: %w", multiplier, errs.ErrInvalidArgument)
	}

	remaining := periods - seasoning
	p := Prepayment{
		Periods:    periods,
		Seasoning:  seasoning,
		Multiplier: multiplier,
		CPR:        make([]float64, remaining),
		SMM:        make([]float64, remaining),
	}
	for i := 0; i < remaining; i++ {
		cpr, err := ComputeCpr(i+1, seasoning, multiplier)
		if err != nil {
			return Prepayment{}, err
		}
		p.CPR[i] = cpr
		p.SMM[i] = SmmFromCpr(cpr)
	}
	return p, nil
}

func checkCurveArgs(fn string, month, seasoning int, multiplier float64) error {
	switch {
	case month <= 0:
		return fmt.Errorf("%s: month must be positive, got %d: %w", fn, month, errs.ErrInvalidArgument)
	case seasoning < 0:
		return fmt.Errorf("%s: seasoning must be non-negative, got %d: %w", fn, seasoning, errs.ErrInvalidArgument)
	case multiplier < 0 || math.IsNaN(multiplier):
		return fmt.Errorf("%s: multiplier must be non-negative, got %v: %w", fn, multiplier, errs.ErrInvalidArgument)
	}
	return nil
}
