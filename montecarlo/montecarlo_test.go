package montecarlo_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/stat"

	"github.com/meenmo/qflib/errs"
	"github.com/meenmo/qflib/montecarlo"
	"github.com/meenmo/qflib/normal"
	"github.com/meenmo/qflib/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampler(seed uint64) *normal.Sampler {
	return normal.NewSampler(rand.New(rand.NewPCG(seed, 0x9e3779b97f4a7c15)))
}

func atm(typ option.OptionType) option.Option {
	return option.Option{
		Type:           typ,
		Strike:         100,
		TimeToMaturity: 1,
		Underlying:     option.Underlying{Price: 100, Volatility: 0.2, YieldRate: 0.01},
	}
}

func TestNextGBM(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 100*math.Exp(0.03), montecarlo.NextGBM(100, 0.05, 0.2, 1, 0), 1e-12)
	assert.InDelta(t, 100*math.Exp(0.03+0.2), montecarlo.NextGBM(100, 0.05, 0.2, 1, 1), 1e-12)
	assert.Equal(t, 50.0, montecarlo.NextGBM(50, 0.05, 0.2, 0, 3))
}

func TestPath_LogIncrementsHaveExpectedMoments(t *testing.T) {
	t.Parallel()

	const steps = 50000
	dt := 1.0 / 252
	p := montecarlo.Path(1, 0.05, 0.3, dt, steps, sampler(3))
	require.Len(t, p, steps+1)
	assert.Equal(t, 1.0, p[0])

	inc := make([]float64, steps)
	for i := range inc {
		inc[i] = math.Log(p[i+1] / p[i])
	}
	mean, std := stat.MeanStdDev(inc, nil)
	assert.InDelta(t, (0.05-0.045)*dt, mean, 4*0.3*math.Sqrt(dt)/math.Sqrt(steps))
	assert.InDelta(t, 0.3*math.Sqrt(dt), std, 0.02*0.3*math.Sqrt(dt))
}

func TestEuropean_AgreesWithBlackScholes(t *testing.T) {
	t.Parallel()

	for _, typ := range []option.OptionType{option.Call, option.Put} {
		for _, anti := range []bool{false, true} {
			opt := atm(typ)
			want, err := option.BlackScholes(opt, 0.05, false)
			require.NoError(t, err)

			got, err := montecarlo.European(opt, 0.05, montecarlo.EuropeanConfig{Paths: 200000, Antithetic: anti}, sampler(2024))
			require.NoError(t, err)
			assert.Equal(t, 200000, got.Paths)
			if math.Abs(got.Price-want.Price) > 4*got.StdError {
				t.Fatalf("%s antithetic=%v: mc %.5f ± %.5f vs analytic %.5f", typ, anti, got.Price, got.StdError, want.Price)
			}
		}
	}
}

func TestEuropean_AntitheticReducesError(t *testing.T) {
	t.Parallel()

	opt := atm(option.Call)
	plain, err := montecarlo.European(opt, 0.05, montecarlo.EuropeanConfig{Paths: 100000}, sampler(1))
	require.NoError(t, err)
	anti, err := montecarlo.European(opt, 0.05, montecarlo.EuropeanConfig{Paths: 100000, Antithetic: true}, sampler(1))
	require.NoError(t, err)
	assert.Less(t, anti.StdError, plain.StdError)
}

func TestEuropean_Reproducible(t *testing.T) {
	t.Parallel()

	cfg := montecarlo.EuropeanConfig{Paths: 1000}
	a, err := montecarlo.European(atm(option.Put), 0.03, cfg, sampler(99))
	require.NoError(t, err)
	b, err := montecarlo.European(atm(option.Put), 0.03, cfg, sampler(99))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEuropean_InvalidInput(t *testing.T) {
	t.Parallel()

	american := atm(option.Put)
	american.Style = option.American
	_, err := montecarlo.European(american, 0.05, montecarlo.EuropeanConfig{Paths: 100}, sampler(1))
	assert.ErrorIs(t, err, errs.ErrUnsupportedStyle)

	_, err = montecarlo.European(atm(option.Call), 0.05, montecarlo.EuropeanConfig{Paths: 1}, sampler(1))
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, err = montecarlo.European(atm(option.Call), 0.05, montecarlo.EuropeanConfig{Paths: 100}, nil)
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, err = montecarlo.European(atm(option.Call), 0.05, montecarlo.EuropeanConfig{Paths: 101, Antithetic: true}, sampler(1))
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, err = montecarlo.European(atm(option.Call), math.NaN(), montecarlo.EuropeanConfig{Paths: 100}, sampler(1))
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)

	nanYield := atm(option.Put)
	nanYield.Underlying.YieldRate = math.Inf(1)
	_, err = montecarlo.European(nanYield, 0.05, montecarlo.EuropeanConfig{Paths: 100}, sampler(1))
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)

	bad := atm(option.Call)
	bad.Strike = 0
	_, err = montecarlo.European(bad, 0.05, montecarlo.EuropeanConfig{Paths: 100}, sampler(1))
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}
