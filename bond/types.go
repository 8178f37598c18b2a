package bond

import (
	"fmt"
	"time"

	"github.com/meenmo/qflib/daycount"
	"github.com/meenmo/qflib/errs"
)

// Cashflow is a single dated cash payment for a bond.
//
// Amounts are in the same currency units as the bond's face value.
type Cashflow struct {
	Date      time.Time
	Coupon    float64
	Principal float64
}

func (c Cashflow) Amount() float64 {
	return c.Coupon + c.Principal
}

// CouponSchedule lays out the bond's coupons on regular dates from issue.
// PaymentsPerYear must divide 12. Dates follow daycount.AddMonths, so a
// month-end issue keeps paying on month ends.
func CouponSchedule(b Bond, issue time.Time) ([]Cashflow, error) {
	if err := b.validate("CouponSchedule"); err != nil {
		return nil, err
	}
	if 12%b.PaymentsPerYear != 0 {
		return nil, fmt.Errorf("CouponSchedule: %d payments per year do not fall on whole months: %w", b.PaymentsPerYear, errs.ErrInvalidArgument)
	}
	months := 12 / b.PaymentsPerYear
	n := b.TotalPayments()
	c := b.CouponPayment()

	out := make([]Cashflow, n)
	for i := range out {
		out[i] = Cashflow{Date: daycount.AddMonths(issue, months*(i+1)), Coupon: c}
	}
	out[n-1].Principal = b.FaceValue
	return out, nil
}

// Remaining drops cash flows paid on or before settlement.
func Remaining(cfs []Cashflow, settlement time.Time) []Cashflow {
	for i, cf := range cfs {
		if cf.Date.After(settlement) {
			return cfs[i:]
		}
	}
	return nil
}

// CashflowCents is a dated cash flow quoted in integer minor units, as in
// coupon feeds that store cents.
type CashflowCents struct {
	Date           time.Time
	CouponCents    int64
	PrincipalCents int64
}

func (c CashflowCents) ToCashflow() Cashflow {
	return Cashflow{
		Date:      c.Date,
		Coupon:    float64(c.CouponCents) / 100.0,
		Principal: float64(c.PrincipalCents) / 100.0,
	}
}

func ToCashflows(in []CashflowCents) []Cashflow {
	out := make([]Cashflow, 0, len(in))
	for _, cf := range in {
		out = append(out, cf.ToCashflow())
	}
	return out
}
