package cmd

import (
	"github.com/shopspring/decimal"

	"github.com/meenmo/qflib/mortgage"
)

type mortgageTask struct {
	InitialBalance       float64 `json:"initial_balance" yaml:"initial_balance"`
	Periods              int     `json:"periods" yaml:"periods"`
	Seasoning            int     `json:"seasoning" yaml:"seasoning"`
	AnnualRate           float64 `json:"annual_rate" yaml:"annual_rate"`
	PrepaymentMultiplier float64 `json:"prepayment_multiplier" yaml:"prepayment_multiplier"`
	// Schedule includes every month in the output.
	Schedule bool `json:"schedule" yaml:"schedule"`
	// PassThroughRate values IO and PO strips; DiscountRate defaults to
	// the mortgage rate.
	PassThroughRate *float64 `json:"pass_through_rate" yaml:"pass_through_rate"`
	DiscountRate    *float64 `json:"discount_rate" yaml:"discount_rate"`
}

type mortgageRow struct {
	Period             int             `json:"period"`
	BeginningBalance   decimal.Decimal `json:"beginning_balance"`
	ScheduledPayment   decimal.Decimal `json:"scheduled_payment"`
	Interest           decimal.Decimal `json:"interest"`
	ScheduledPrincipal decimal.Decimal `json:"scheduled_principal"`
	Prepayment         decimal.Decimal `json:"prepayment"`
	EndingBalance      decimal.Decimal `json:"ending_balance"`
	SMM                float64         `json:"smm,omitempty"`
}

type mortgageResult struct {
	Periods         int              `json:"periods"`
	FirstPayment    decimal.Decimal  `json:"first_payment"`
	TotalPayment    decimal.Decimal  `json:"total_payment"`
	TotalInterest   decimal.Decimal  `json:"total_interest"`
	TotalPrincipal  decimal.Decimal  `json:"total_principal"`
	TotalPrepayment decimal.Decimal  `json:"total_prepayment"`
	EndingBalance   decimal.Decimal  `json:"ending_balance"`
	InterestOnly    *decimal.Decimal `json:"interest_only,omitempty"`
	PrincipalOnly   *decimal.Decimal `json:"principal_only,omitempty"`
	Rows            []mortgageRow    `json:"rows,omitempty"`
}

func processMortgage(in mortgageTask) (mortgageResult, error) {
	m := mortgage.Mortgage{
		InitialBalance:       in.InitialBalance,
		Periods:              in.Periods,
		Seasoning:            in.Seasoning,
		AnnualRate:           in.AnnualRate,
		PrepaymentMultiplier: in.PrepaymentMultiplier,
	}
	s, err := mortgage.Amortize(m)
	if err != nil {
		return mortgageResult{}, err
	}

	tot := s.Totals()
	out := mortgageResult{
		Periods:         tot.Period,
		FirstPayment:    money(s.Statuses[0].ScheduledPayment),
		TotalPayment:    money(tot.ScheduledPayment + tot.Prepayment),
		TotalInterest:   money(tot.Interest),
		TotalPrincipal:  money(tot.ScheduledPrincipal),
		TotalPrepayment: money(tot.Prepayment),
		EndingBalance:   money(tot.EndingBalance),
	}

	if in.PassThroughRate != nil {
		disc := in.AnnualRate
		if in.DiscountRate != nil {
			disc = *in.DiscountRate
		}
		strips, err := mortgage.PassThrough(s, *in.PassThroughRate, disc)
		if err != nil {
			return mortgageResult{}, err
		}
		ioValue, poValue := money(strips.InterestOnly), money(strips.PrincipalOnly)
		out.InterestOnly, out.PrincipalOnly = &ioValue, &poValue
	}

	if in.Schedule {
		out.Rows = make([]mortgageRow, len(s.Statuses))
		for i, st := range s.Statuses {
			row := mortgageRow{
				Period:             st.Period,
				BeginningBalance:   money(st.BeginningBalance),
				ScheduledPayment:   money(st.ScheduledPayment),
				Interest:           money(st.Interest),
				ScheduledPrincipal: money(st.ScheduledPrincipal),
				Prepayment:         money(st.Prepayment),
				EndingBalance:      money(st.EndingBalance),
			}
			if s.Prepayment != nil {
				row.SMM = s.Prepayment.SMM[i]
			}
			out.Rows[i] = row
		}
	}
	return out, nil
}
