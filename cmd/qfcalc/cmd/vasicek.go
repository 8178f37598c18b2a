package cmd

import (
	"errors"

	"github.com/meenmo/qflib/rates"
)

type vasicekTask struct {
	SpeedOfReversion float64 `json:"speed_of_reversion" yaml:"speed_of_reversion"`
	LongTermRate     float64 `json:"long_term_rate" yaml:"long_term_rate"`
	Volatility       float64 `json:"volatility" yaml:"volatility"`
	// ShortRate defaults to the long-term rate.
	ShortRate  *float64  `json:"short_rate" yaml:"short_rate"`
	Maturities []float64 `json:"maturities" yaml:"maturities"`
}

type vasicekPoint struct {
	Maturity        float64 `json:"maturity"`
	PresentValue    float64 `json:"present_value"`
	SpotRate        float64 `json:"spot_rate"`
	YieldVolatility float64 `json:"yield_volatility"`
}

type vasicekResult struct {
	Points []vasicekPoint `json:"points"`
}

func processVasicek(in vasicekTask) (vasicekResult, error) {
	if len(in.Maturities) == 0 {
		return vasicekResult{}, errors.New("maturities are required")
	}
	v := rates.Vasicek{
		SpeedOfReversion: in.SpeedOfReversion,
		LongTermRate:     in.LongTermRate,
		Volatility:       in.Volatility,
	}
	r0 := in.LongTermRate
	if in.ShortRate != nil {
		r0 = *in.ShortRate
	}

	out := vasicekResult{Points: make([]vasicekPoint, 0, len(in.Maturities))}
	for _, t := range in.Maturities {
		zc, err := v.ZeroCouponFrom(r0, t)
		if err != nil {
			return vasicekResult{}, err
		}
		out.Points = append(out.Points, vasicekPoint{
			Maturity:        t,
			PresentValue:    zc.PresentValue,
			SpotRate:        zc.SpotRate,
			YieldVolatility: zc.YieldVolatility,
		})
	}
	return out, nil
}
