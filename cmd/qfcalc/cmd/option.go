package cmd

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/meenmo/qflib/lattice"
	"github.com/meenmo/qflib/montecarlo"
	"github.com/meenmo/qflib/normal"
	"github.com/meenmo/qflib/option"
)

const (
	methodAnalytic   = "analytic"
	methodLattice    = "lattice"
	methodMonteCarlo = "montecarlo"
)

type optionTask struct {
	Type   string `json:"type" yaml:"type"`
	Style  string `json:"style" yaml:"style"`
	Method string `json:"method" yaml:"method"`

	Symbol     string  `json:"symbol" yaml:"symbol"`
	Spot       float64 `json:"spot" yaml:"spot"`
	Strike     float64 `json:"strike" yaml:"strike"`
	Maturity   float64 `json:"maturity" yaml:"maturity"`
	Volatility float64 `json:"volatility" yaml:"volatility"`
	Yield      float64 `json:"yield" yaml:"yield"`
	Rate       float64 `json:"rate" yaml:"rate"`
	// Greeks defaults to true for the analytic method.
	Greeks *bool `json:"greeks" yaml:"greeks"`

	// lattice
	Stages       int       `json:"stages" yaml:"stages"`
	Rates        []float64 `json:"rates" yaml:"rates"`
	Volatilities []float64 `json:"volatilities" yaml:"volatilities"`
	Yields       []float64 `json:"yields" yaml:"yields"`

	// montecarlo; seed 0 means 1 so runs are reproducible
	Paths      int    `json:"paths" yaml:"paths"`
	Antithetic bool   `json:"antithetic" yaml:"antithetic"`
	Seed       uint64 `json:"seed" yaml:"seed"`
}

type optionResult struct {
	Symbol   string  `json:"symbol,omitempty"`
	Method   string  `json:"method"`
	Price    float64 `json:"price"`
	Delta    float64 `json:"delta"`
	Gamma    float64 `json:"gamma"`
	Vega     float64 `json:"vega,omitempty"`
	Theta    float64 `json:"theta"`
	Rho      float64 `json:"rho,omitempty"`
	Charm    float64 `json:"charm,omitempty"`
	Stages   int     `json:"stages,omitempty"`
	Paths    int     `json:"paths,omitempty"`
	StdError float64 `json:"std_error,omitempty"`
}

func processOption(in optionTask) (optionResult, error) {
	typ, err := option.ParseOptionType(in.Type)
	if err != nil {
		return optionResult{}, err
	}
	style, err := option.ParseExerciseStyle(in.Style)
	if err != nil {
		return optionResult{}, err
	}
	opt := option.Option{
		Type:           typ,
		Style:          style,
		Strike:         in.Strike,
		TimeToMaturity: in.Maturity,
		Underlying: option.Underlying{
			Symbol:     in.Symbol,
			Price:      in.Spot,
			Volatility: in.Volatility,
			YieldRate:  in.Yield,
		},
	}

	method := strings.ToLower(strings.TrimSpace(in.Method))
	if method == "" {
		method = methodAnalytic
		if style == option.American {
			method = methodLattice
		}
	}
	out := optionResult{Symbol: in.Symbol, Method: method}

	switch method {
	case methodAnalytic:
		greeks := in.Greeks == nil || *in.Greeks
		res, err := option.BlackScholes(opt, in.Rate, greeks)
		if err != nil {
			return optionResult{}, err
		}
		out.Price, out.Delta, out.Gamma = res.Price, res.Delta, res.Gamma
		out.Vega, out.Theta, out.Rho, out.Charm = res.Vega, res.Theta, res.Rho, res.Charm

	case methodLattice:
		rates := in.Rates
		if len(rates) == 0 {
			rates = []float64{in.Rate}
		}
		res, err := lattice.Price(lattice.Input{
			Option:       opt,
			Stages:       in.Stages,
			Rates:        rates,
			Volatilities: in.Volatilities,
			Yields:       in.Yields,
		})
		if err != nil {
			return optionResult{}, err
		}
		out.Price, out.Delta, out.Gamma, out.Theta = res.Price, res.Delta, res.Gamma, res.Theta
		out.Stages = res.Stages

	case methodMonteCarlo:
		seed := in.Seed
		if seed == 0 {
			seed = 1
		}
		s := normal.NewSampler(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
		est, err := montecarlo.European(opt, in.Rate, montecarlo.EuropeanConfig{Paths: in.Paths, Antithetic: in.Antithetic}, s)
		if err != nil {
			return optionResult{}, err
		}
		out.Price, out.StdError, out.Paths = est.Price, est.StdError, est.Paths

	default:
		return optionResult{}, fmt.Errorf("unknown method %q (want %s, %s or %s)", in.Method, methodAnalytic, methodLattice, methodMonteCarlo)
	}
	return out, nil
}
