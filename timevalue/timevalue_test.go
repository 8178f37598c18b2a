package timevalue_test

import (
	"math"
	"testing"

	"github.com/meenmo/qflib/errs"
	"github.com/meenmo/qflib/timevalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLumpSum_RoundTrip(t *testing.T) {
	t.Parallel()

	fv := timevalue.FutureValue(100, 10, 0.05)
	assert.InDelta(t, 162.8894626777442, fv, 1e-9)
	assert.InDelta(t, 100.0, timevalue.PresentValue(fv, 10, 0.05), 1e-12)
}

func TestAnnuity(t *testing.T) {
	t.Parallel()

	// 10 payments of 100 at 5%.
	assert.InDelta(t, 772.1734929184818, timevalue.AnnuityPresentValue(100, 10, 0.05), 1e-9)
	assert.InDelta(t, 1257.789253554884, timevalue.AnnuityFutureValue(100, 10, 0.05), 1e-9)

	assert.Equal(t, 1000.0, timevalue.AnnuityPresentValue(100, 10, 0))
	assert.Equal(t, 1000.0, timevalue.AnnuityFutureValue(100, 10, 0))
}

func TestPresentValueOfCashFlows_MatchesAnnuity(t *testing.T) {
	t.Parallel()

	flows := []float64{0, 100, 100, 100, 100}
	got := timevalue.PresentValueOfCashFlows(flows, 0.07)
	want := timevalue.AnnuityPresentValue(100, 4, 0.07)
	if math.Abs(got-want) > 1e-10 {
		t.Fatalf("PV mismatch: got %.12f want %.12f", got, want)
	}
}

func TestPresentValueOfCashFlowsAt(t *testing.T) {
	t.Parallel()

	got, err := timevalue.PresentValueOfCashFlowsAt([]float64{-10, 110}, []float64{0.2, 0.1})
	require.NoError(t, err)
	assert.InDelta(t, 90.0, got, 1e-12)

	_, err = timevalue.PresentValueOfCashFlowsAt([]float64{1, 2}, []float64{0.1})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestDiscountFactor(t *testing.T) {
	t.Parallel()

	df, err := timevalue.DiscountFactor(0.25, 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.64, df, 1e-15)

	_, err = timevalue.DiscountFactor(-1, 2)
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestImpliedForwardRate(t *testing.T) {
	t.Parallel()

	f, err := timevalue.ImpliedForwardRate(0.05, 1, 0.06, 2)
	require.NoError(t, err)
	// (1.06^2 / 1.05) - 1
	assert.InDelta(t, 1.1236/1.05-1, f, 1e-12)

	_, err = timevalue.ImpliedForwardRate(0.05, 3, 0.06, 2)
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}
