// Package mortgage models level-payment mortgage amortization with an optional
// seasoning-ramped prepayment curve.
package mortgage

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/meenmo/qflib/errs"
)

// Mortgage describes a fixed-rate loan. Periods and Seasoning are in months.
// A zero PrepaymentMultiplier disables prepayment modeling.
type Mortgage struct {
	InitialBalance       float64
	Periods              int
	Seasoning            int
	AnnualRate           float64
	PrepaymentMultiplier float64
}

// ActualPeriods is the number of months left to amortize.
func (m Mortgage) ActualPeriods() int {
	return m.Periods - m.Seasoning
}

// MonthlyRate is the annual rate divided by 12.
func (m Mortgage) MonthlyRate() float64 {
	return m.AnnualRate / 12
}

func (m Mortgage) validate() error {
	switch {
	case !(m.InitialBalance > 0) || math.IsInf(m.InitialBalance, 0):
		return fmt.Errorf("Amortize: initial balance must be positive, got %v: %w", m.InitialBalance, errs.ErrInvalidArgument)
	case m.Periods <= 0:
		return fmt.Errorf("Amortize: periods must be positive, got %d: %w", m.Periods, errs.ErrInvalidArgument)
	case m.Seasoning < 0 || m.Seasoning >= m.Periods:
		return fmt.Errorf("Amortize: need 0 <= seasoning < periods, got seasoning=%d periods=%d: %w", m.Seasoning, m.Periods, errs.ErrInvalidArgument)
	case !(m.AnnualRate >= 0) || math.IsInf(m.AnnualRate, 0):
		return fmt.Errorf("Amortize: annual rate must be non-negative, got %v: %w", m.AnnualRate, errs.ErrInvalidArgument)
	case m.PrepaymentMultiplier < 0 || math.IsNaN(m.PrepaymentMultiplier):
		return fmt.Errorf("Amortize: prepayment multiplier must be non-negative, got %v: %w", m.PrepaymentMultiplier, errs.ErrInvalidArgument)
	}
	return nil
}

// Status is one month of the schedule. Period is the 0-based index into
// the remaining term.
type Status struct {
	Period             int
	BeginningBalance   float64
	EndingBalance      float64
	ScheduledPayment   float64
	Interest           float64
	ScheduledPrincipal float64
	Prepayment         float64
}

// TotalPrincipal is the balance reduction for the month.
func (s Status) TotalPrincipal() float64 {
	return s.ScheduledPrincipal + s.Prepayment
}

// Schedule is the amortization result. Prepayment is nil when the loan has
// no prepayment multiplier.
type Schedule struct {
	Mortgage   Mortgage
	Prepayment *Prepayment
	Statuses   []Status
}

// Totals aggregates the schedule into a single Status: flows are summed, the
// beginning balance is the initial balance and the ending balance is the
// last month's. Period holds the number of months.
func (s Schedule) Totals() Status {
	n := len(s.Statuses)
	out := Status{Period: n}
	if n == 0 {
		return out
	}
	pay := make([]float64, n)
	interest := make([]float64, n)
	principal := make([]float64, n)
	prepaid := make([]float64, n)
	for i, st := range s.Statuses {
		pay[i] = st.ScheduledPayment
		interest[i] = st.Interest
		principal[i] = st.ScheduledPrincipal
		prepaid[i] = st.Prepayment
	}
	out.BeginningBalance = s.Statuses[0].BeginningBalance
	out.EndingBalance = s.Statuses[n-1].EndingBalance
	out.ScheduledPayment = floats.Sum(pay)
	out.Interest = floats.Sum(interest)
	out.ScheduledPrincipal = floats.Sum(principal)
	out.Prepayment = floats.Sum(prepaid)
	return out
}

// Amortize runs the monthly balance recurrence over the remaining term.
// Each month pays the level annuity over the months still outstanding, so the
// payment is re-levelled after every prepayment. A zero rate amortizes the
// balance in equal principal installments.
func Amortize(m Mortgage) (Schedule, error) {
	if err := m.validate(); err != nil {
		return Schedule{}, err
	}

	sched := Schedule{Mortgage: m}
	if m.PrepaymentMultiplier != 0 {
		p, err := ComputePrepayment(m.Periods, m.Seasoning, m.PrepaymentMultiplier)
		if err != nil {
			return Schedule{}, err
		}
		sched.Prepayment = &p
	}

	rate := m.MonthlyRate()
	remaining := m.ActualPeriods()
	sched.Statuses = make([]Status, 0, remaining)

	balance := m.InitialBalance
	for i := 0; i < remaining; i++ {
		left := float64(remaining - i)
		st := Status{Period: i, BeginningBalance: balance}
		if rate == 0 {
			st.ScheduledPayment = balance / left
		} else {
			st.ScheduledPayment = balance * rate / (1 - math.Pow(1+rate, -left))
		}
		st.Interest = balance * rate
		st.ScheduledPrincipal = st.ScheduledPayment - st.Interest
		if sched.Prepayment != nil {
			st.Prepayment = (balance - st.ScheduledPrincipal) * sched.Prepayment.SMM[i]
		}
		st.EndingBalance = balance - st.ScheduledPrincipal - st.Prepayment
		sched.Statuses = append(sched.Statuses, st)
		balance = st.EndingBalance
	}
	return sched, nil
}
