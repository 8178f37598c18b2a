package cmd

import (
	"fmt"
	"strings"

	"github.com/meenmo/qflib/option"
)

type swaptionTask struct {
	// Side is "payer" or "receiver".
	Side string `json:"side" yaml:"side"`
	// Strike defaults to the swap's fixed rate.
	Strike         float64 `json:"strike" yaml:"strike"`
	Maturity       float64 `json:"maturity" yaml:"maturity"`
	Volatility     float64 `json:"volatility" yaml:"volatility"`
	Rate           float64 `json:"rate" yaml:"rate"`
	FixedRate      float64 `json:"fixed_rate" yaml:"fixed_rate"`
	FloatRate      float64 `json:"float_rate" yaml:"float_rate"`
	Tenor          float64 `json:"tenor" yaml:"tenor"`
	FixedFrequency int     `json:"fixed_frequency" yaml:"fixed_frequency"`
	FloatFrequency int     `json:"float_frequency" yaml:"float_frequency"`
}

type swaptionResult struct {
	Side  string  `json:"side"`
	Price float64 `json:"price"`
}

func processSwaption(in swaptionTask) (swaptionResult, error) {
	strike := in.Strike
	if strike == 0 {
		strike = in.FixedRate
	}
	sw := option.Swaption{
		Strike:         strike,
		TimeToMaturity: in.Maturity,
		Volatility:     in.Volatility,
		Swap: option.PlainVanillaSwap{
			FixedRate:            in.FixedRate,
			FloatRate:            in.FloatRate,
			Tenor:                in.Tenor,
			FixedPaymentsPerYear: in.FixedFrequency,
			FloatPaymentsPerYear: in.FloatFrequency,
		},
	}

	side := strings.ToLower(strings.TrimSpace(in.Side))
	var (
		res option.Result
		err error
	)
	switch side {
	case "payer", "":
		side = "payer"
		res, err = option.PayerSwaption(sw, in.Rate)
	case "receiver":
		res, err = option.ReceiverSwaption(sw, in.Rate)
	default:
		return swaptionResult{}, fmt.Errorf("unknown side %q (want payer or receiver)", in.Side)
	}
	if err != nil {
		return swaptionResult{}, err
	}
	return swaptionResult{Side: side, Price: res.Price}, nil
}
