package normal_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/meenmo/qflib/errs"
	"github.com/meenmo/qflib/normal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestStandardCDF_MatchesReference(t *testing.T) {
	t.Parallel()

	for x := -6.0; x <= 6.0; x += 0.05 {
		got := normal.Standard.CDF(x)
		want := distuv.UnitNormal.CDF(x)
		if math.Abs(got-want) > 1e-7 {
			t.Fatalf("CDF(%.2f) = %.10f, want %.10f", x, got, want)
		}
	}
}

func TestStandardCDF_Symmetry(t *testing.T) {
	t.Parallel()

	for _, x := range []float64{0.1, 0.5, 1, 1.96, 3.3} {
		assert.InDelta(t, 1.0, normal.StandardCDF(x)+normal.StandardCDF(-x), 1e-15)
	}
	assert.InDelta(t, 0.5, normal.StandardCDF(0), 1e-9)
}

func TestPDF_MatchesReference(t *testing.T) {
	t.Parallel()

	for _, x := range []float64{-2.5, -1, 0, 0.3, 1.7} {
		assert.InDelta(t, distuv.UnitNormal.Prob(x), normal.StandardPDF(x), 1e-15)
	}
}

func TestDistribution_ShiftsAndScales(t *testing.T) {
	t.Parallel()

	d := normal.Distribution{Mean: 10, StdDev: 2}
	ref := distuv.Normal{Mu: 10, Sigma: 2}

	for _, x := range []float64{5, 9, 10, 11.5, 16} {
		assert.InDelta(t, ref.CDF(x), d.CDF(x), 1e-7)
		assert.InDelta(t, ref.Prob(x), d.PDF(x), 1e-12)
	}
}

func TestNew_ValidatesStdDev(t *testing.T) {
	t.Parallel()

	d, err := normal.New(10, 2)
	require.NoError(t, err)
	assert.Equal(t, normal.Distribution{Mean: 10, StdDev: 2}, d)

	for _, sd := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := normal.New(0, sd)
		assert.ErrorIs(t, err, errs.ErrInvalidArgument, "stddev %g", sd)
	}
	_, err = normal.New(math.NaN(), 1)
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestSampler_Moments(t *testing.T) {
	t.Parallel()

	s := normal.NewSampler(rand.New(rand.NewPCG(7, 11)))
	xs := make([]float64, 200000)
	s.Fill(xs)

	mean, std := stat.MeanStdDev(xs, nil)
	assert.InDelta(t, 0.0, mean, 0.01)
	assert.InDelta(t, 1.0, std, 0.01)
}

func TestSampler_ReproducibleForSameSeed(t *testing.T) {
	t.Parallel()

	a := normal.NewSampler(rand.New(rand.NewPCG(42, 0)))
	b := normal.NewSampler(rand.New(rand.NewPCG(42, 0)))
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Next(), b.Next())
	}
}

type fixedSource struct{ vals []float64 }

func (f *fixedSource) Float64() float64 {
	v := f.vals[0]
	f.vals = f.vals[1:]
	return v
}

func TestSampler_BoxMullerTransform(t *testing.T) {
	t.Parallel()

	// u1 = 1 - 0.5, u2 = 0.25 -> cos(π/2) = 0.
	s := normal.NewSampler(&fixedSource{vals: []float64{0.5, 0.25}})
	assert.InDelta(t, 0.0, s.Next(), 1e-12)

	// u1 = 1 - 0.5, u2 = 0 -> sqrt(-2 ln 0.5).
	s = normal.NewSampler(&fixedSource{vals: []float64{0.5, 0}})
	assert.InDelta(t, math.Sqrt(2*math.Ln2), s.Next(), 1e-12)
}
