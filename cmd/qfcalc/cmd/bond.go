package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meenmo/qflib/bond"
	"github.com/meenmo/qflib/daycount"
)

const dateLayout = "2006-01-02"

type bondTask struct {
	FaceValue       float64 `json:"face_value" yaml:"face_value"`
	Years           int     `json:"years" yaml:"years"`
	PaymentsPerYear int     `json:"payments_per_year" yaml:"payments_per_year"`
	CouponRate      float64 `json:"coupon_rate" yaml:"coupon_rate"`
	MarketPrice     float64 `json:"market_price" yaml:"market_price"`
	Rate            float64 `json:"rate" yaml:"rate"`
	// ShockBP reprices the bond at rate ± ShockBP basis points for
	// effective duration and convexity.
	ShockBP float64 `json:"shock_bp" yaml:"shock_bp"`

	// Optional dated yield solved from CleanPrice at SettlementDate. Coupons
	// come from Cashflows when given, else they are laid out from IssueDate.
	IssueDate      string         `json:"issue_date" yaml:"issue_date"`
	SettlementDate string         `json:"settlement_date" yaml:"settlement_date"`
	CleanPrice     float64        `json:"clean_price" yaml:"clean_price"`
	DayCount       string         `json:"day_count" yaml:"day_count"`
	Cashflows      []cashflowJSON `json:"cashflows" yaml:"cashflows"`
}

// cashflowJSON amounts are integer cents.
type cashflowJSON struct {
	Date      string `json:"date" yaml:"date"`
	Coupon    int64  `json:"coupon" yaml:"coupon"`
	Principal int64  `json:"principal" yaml:"principal"`
}

type bondResult struct {
	FairPrice          decimal.Decimal  `json:"fair_price"`
	MarketPrice        decimal.Decimal  `json:"market_price"`
	PeriodicYield      float64          `json:"periodic_yield"`
	YieldToMaturity    float64          `json:"yield_to_maturity"`
	MacaulayDuration   float64          `json:"macaulay_duration"`
	ModifiedDuration   float64          `json:"modified_duration"`
	DollarDuration     float64          `json:"dollar_duration"`
	EffectiveDuration  *float64         `json:"effective_duration,omitempty"`
	EffectiveConvexity *float64         `json:"effective_convexity,omitempty"`
	Iterations         int              `json:"iterations"`
	DatedYield         *float64         `json:"dated_yield,omitempty"`
	AccruedInterest    *decimal.Decimal `json:"accrued_interest,omitempty"`
}

func processBond(in bondTask) (bondResult, error) {
	b := bond.Bond{
		FaceValue:       in.FaceValue,
		Years:           in.Years,
		PaymentsPerYear: in.PaymentsPerYear,
		CouponRate:      in.CouponRate,
		MarketPrice:     in.MarketPrice,
	}
	a, err := bond.Price(b, in.Rate)
	if err != nil {
		return bondResult{}, err
	}

	out := bondResult{
		FairPrice:        money(a.FairPrice),
		MarketPrice:      money(a.MarketPrice),
		PeriodicYield:    a.PeriodicYield,
		YieldToMaturity:  a.YieldToMaturity,
		MacaulayDuration: a.MacaulayDuration,
		ModifiedDuration: a.ModifiedDuration,
		DollarDuration:   a.DollarDuration,
		Iterations:       a.Iterations,
	}

	if in.ShockBP != 0 {
		dy := in.ShockBP / 10000
		down, err := bond.Price(b, in.Rate-dy)
		if err != nil {
			return bondResult{}, fmt.Errorf("shock down: %w", err)
		}
		up, err := bond.Price(b, in.Rate+dy)
		if err != nil {
			return bondResult{}, fmt.Errorf("shock up: %w", err)
		}
		eff, err := bond.EffectiveDuration(a.FairPrice, down.FairPrice, up.FairPrice, dy)
		if err != nil {
			return bondResult{}, err
		}
		conv, err := bond.EffectiveConvexity(a.FairPrice, down.FairPrice, up.FairPrice, dy)
		if err != nil {
			return bondResult{}, err
		}
		out.EffectiveDuration, out.EffectiveConvexity = &eff, &conv
	}

	if strings.TrimSpace(in.SettlementDate) != "" {
		res, err := datedYield(b, in)
		if err != nil {
			return bondResult{}, err
		}
		ai := money(res.AccruedInterest)
		out.DatedYield, out.AccruedInterest = &res.Yield, &ai
	}
	return out, nil
}

func datedYield(b bond.Bond, in bondTask) (bond.DatedYieldResult, error) {
	settle, err := time.Parse(dateLayout, in.SettlementDate)
	if err != nil {
		return bond.DatedYieldResult{}, fmt.Errorf("invalid settlement_date: %v", err)
	}
	conv := daycount.ActAct
	if strings.TrimSpace(in.DayCount) != "" {
		if conv, err = daycount.Parse(in.DayCount); err != nil {
			return bond.DatedYieldResult{}, err
		}
	}

	cfs, err := taskCashflows(b, in)
	if err != nil {
		return bond.DatedYieldResult{}, err
	}
	clean := in.CleanPrice
	if clean == 0 {
		clean = b.MarketPrice
	}
	return bond.DatedYield(bond.DatedYieldInput{
		SettlementDate:  settle,
		CleanPrice:      clean,
		CouponFrequency: b.PaymentsPerYear,
		Convention:      conv,
		Cashflows:       bond.Remaining(cfs, settle),
	})
}

func taskCashflows(b bond.Bond, in bondTask) ([]bond.Cashflow, error) {
	if len(in.Cashflows) == 0 {
		issue, err := time.Parse(dateLayout, in.IssueDate)
		if err != nil {
			return nil, fmt.Errorf("invalid issue_date: %v", err)
		}
		return bond.CouponSchedule(b, issue)
	}

	cents := make([]bond.CashflowCents, 0, len(in.Cashflows))
	for _, cf := range in.Cashflows {
		d, err := time.Parse(dateLayout, cf.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid cashflow date %s: %v", cf.Date, err)
		}
		cents = append(cents, bond.CashflowCents{Date: d, CouponCents: cf.Coupon, PrincipalCents: cf.Principal})
	}
	return bond.ToCashflows(cents), nil
}
