package option

import (
	"fmt"
	"math"

	"github.com/meenmo/qflib/errs"
	"github.com/meenmo/qflib/normal"
)

// BlackScholes prices a European option in closed form with continuous
// yield q = Underlying.YieldRate:
//
//	d1 = (ln(S/K) + (r − q + σ²/2)·T) / (σ√T),   d2 = d1 − σ√T
//	call = S·e^(−qT)·N(d1) − K·e^(−rT)·N(d2)
//	put  = K·e^(−rT)·N(−d2) − S·e^(−qT)·N(−d1)
//
// When withGreeks is false only Price is set. American and Asian styles
// return ErrUnsupportedStyle.
func BlackScholes(opt Option, rate float64, withGreeks bool) (Result, error) {
	if opt.Style != European {
		return Result{}, fmt.Errorf("BlackScholes: %s style: %w", opt.Style, errs.ErrUnsupportedStyle)
	}
	if err := opt.Validate(); err != nil {
		return Result{}, fmt.Errorf("BlackScholes: %w", err)
	}
	if !isFinite(rate) || !isFinite(opt.Underlying.YieldRate) {
		return Result{}, fmt.Errorf("BlackScholes: rate %g and yield %g must be finite: %w", rate, opt.Underlying.YieldRate, errs.ErrInvalidArgument)
	}

	in := newInputs(opt, rate)
	if in.sig == 0 {
		return zeroVol(opt, in, withGreeks), nil
	}

	nd1, nd2 := N(in.d1), N(in.d2)
	nnd1, nnd2 := N(-in.d1), N(-in.d2)

	var res Result
	if opt.Type == Call {
		res.Price = in.s*in.yieldDisc*nd1 - in.k*in.rateDisc*nd2
	} else {
		res.Price = in.k*in.rateDisc*nnd2 - in.s*in.yieldDisc*nnd1
	}
	if !withGreeks {
		return res, nil
	}

	pd1 := P(in.d1)
	sigSqrtT := in.sig * in.sqrtT
	decay := pd1 * (2*(in.r-in.q)*in.t - in.d2*sigSqrtT) / (2 * in.t * sigSqrtT)

	res.Gamma = in.yieldDisc * pd1 / (in.s * sigSqrtT)
	res.Vega = in.s * in.yieldDisc * pd1 * in.sqrtT
	common := -in.yieldDisc * in.s * pd1 * in.sig / (2 * in.sqrtT)

	if opt.Type == Call {
		res.Delta = in.yieldDisc * nd1
		res.Theta = common - in.r*in.k*in.rateDisc*nd2 + in.q*in.s*in.yieldDisc*nd1
		res.Rho = in.k * in.t * in.rateDisc * nd2
		res.Charm = in.yieldDisc * (in.q*nd1 - decay)
	} else {
		res.Delta = -in.yieldDisc * nnd1
		res.Theta = common + in.r*in.k*in.rateDisc*nnd2 - in.q*in.s*in.yieldDisc*nnd1
		res.Rho = -in.k * in.t * in.rateDisc * nnd2
		res.Charm = -in.yieldDisc * (in.q*nnd1 + decay)
	}
	return res, nil
}

// N is the standard normal CDF.
func N(x float64) float64 {
	return normal.StandardCDF(x)
}

// P is the standard normal PDF.
func P(x float64) float64 {
	return normal.StandardPDF(x)
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

type inputs struct {
	s, k, t, r, q, sig  float64
	sqrtT               float64
	rateDisc, yieldDisc float64
	d1, d2              float64
}

func newInputs(opt Option, rate float64) inputs {
	in := inputs{
		s:   opt.Underlying.Price,
		k:   opt.Strike,
		t:   opt.TimeToMaturity,
		r:   rate,
		q:   opt.Underlying.YieldRate,
		sig: opt.Underlying.Volatility,
	}
	in.sqrtT = math.Sqrt(in.t)
	in.rateDisc = math.Exp(-in.r * in.t)
	in.yieldDisc = math.Exp(-in.q * in.t)
	if in.sig > 0 {
		sigSqrtT := in.sig * in.sqrtT
		in.d1 = (math.Log(in.s/in.k) + (in.r-in.q+in.sig*in.sig/2)*in.t) / sigSqrtT
		in.d2 = in.d1 - sigSqrtT
	}
	return in
}

// zeroVol is the σ→0 limit: the option is worth its discounted forward
// intrinsic value and only the first-order sensitivities survive.
func zeroVol(opt Option, in inputs, withGreeks bool) Result {
	fwdS := in.s * in.yieldDisc
	pvK := in.k * in.rateDisc

	var res Result
	var in1 float64
	if opt.Type == Call {
		res.Price = math.Max(fwdS-pvK, 0)
		if fwdS > pvK {
			in1 = 1
		}
	} else {
		res.Price = math.Max(pvK-fwdS, 0)
		if pvK > fwdS {
			in1 = -1
		}
	}
	if !withGreeks {
		return res
	}
	res.Delta = in1 * in.yieldDisc
	res.Rho = in1 * in.k * in.t * in.rateDisc
	res.Theta = in1 * (in.q*fwdS - in.r*pvK)
	res.Charm = in1 * in.q * in.yieldDisc
	return res
}
