package mortgage

import (
	"fmt"
	"math"

	"github.com/meenmo/qflib/errs"
	"github.com/meenmo/qflib/timevalue"
)

// Strips values the interest-only and principal-only pieces of a pass-through
// backed by an amortized schedule.
type Strips struct {
	InterestOnly  float64
	PrincipalOnly float64
	Interest      []float64
	Principal     []float64
}

// Total is the value of the whole pass-through.
func (s Strips) Total() float64 {
	return s.InterestOnly + s.PrincipalOnly
}

// PassThrough splits the schedule's cash flows into investor interest (the
// beginning balance at passThroughRate/12) and principal (scheduled plus
// prepaid), and discounts each stream monthly at discountRate/12. Month i's
// flows arrive at the end of month i+1.
func PassThrough(s Schedule, passThroughRate, discountRate float64) (Strips, error) {
	if len(s.Statuses) == 0 {
		return Strips{}, fmt.Errorf("PassThrough: empty schedule: %w", errs.ErrInvalidArgument)
	}
	if !(passThroughRate >= 0) || math.IsInf(passThroughRate, 0) {
		return Strips{}, fmt.Errorf("PassThrough: pass-through rate must be non-negative, got %v: %w", passThroughRate, errs.ErrInvalidArgument)
	}
	if !(discountRate > -12) || math.IsInf(discountRate, 0) {
		return Strips{}, fmt.Errorf("PassThrough: discount rate %v out of range: %w", discountRate, errs.ErrInvalidArgument)
	}

	n := len(s.Statuses)
	out := Strips{
		Interest:  make([]float64, n),
		Principal: make([]float64, n),
	}
	// index 0 is today; flows start at month 1
	io := make([]float64, n+1)
	po := make([]float64, n+1)
	for i, st := range s.Statuses {
		out.Interest[i] = st.BeginningBalance * passThroughRate / 12
		out.Principal[i] = st.TotalPrincipal()
		io[i+1] = out.Interest[i]
		po[i+1] = out.Principal[i]
	}
	monthly := discountRate / 12
	out.InterestOnly = timevalue.PresentValueOfCashFlows(io, monthly)
	out.PrincipalOnly = timevalue.PresentValueOfCashFlows(po, monthly)
	return out, nil
}
