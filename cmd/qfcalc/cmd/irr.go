package cmd

import (
	"github.com/meenmo/qflib/rootfind"
)

type irrTask struct {
	CashFlows []float64 `json:"cash_flows" yaml:"cash_flows"`
	// Guess overrides the default initial guess -(1 + cf1/cf0).
	Guess *float64 `json:"guess" yaml:"guess"`
}

type irrResult struct {
	Rate       float64 `json:"rate"`
	Iterations int     `json:"iterations"`
	NPV        float64 `json:"npv"`
}

func processIrr(in irrTask) (irrResult, error) {
	var (
		res rootfind.IrrResult
		err error
	)
	if in.Guess != nil {
		res, err = rootfind.ComputeIrrFrom(in.CashFlows, *in.Guess)
	} else {
		res, err = rootfind.ComputeIrr(in.CashFlows)
	}
	if err != nil {
		return irrResult{}, err
	}
	return irrResult{
		Rate:       res.Rate,
		Iterations: res.Iterations,
		NPV:        rootfind.NPV(in.CashFlows, res.Rate),
	}, nil
}
