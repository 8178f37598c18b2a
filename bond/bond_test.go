package bond_test

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/qflib/bond"
	"github.com/meenmo/qflib/daycount"
	"github.com/meenmo/qflib/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice_MatchesClosedForm(t *testing.T) {
	t.Parallel()

	b := bond.Bond{FaceValue: 1000, Years: 20, PaymentsPerYear: 2, CouponRate: 0.05}
	got, err := bond.Price(b, 0.11)
	require.NoError(t, err)

	r := 0.11 / 2
	want := 1000/math.Pow(1+r, 40) + 25/r*(1-math.Pow(1+r, -40))
	if math.Abs(got.FairPrice-want) > 1e-9 {
		t.Fatalf("fair price: got %.12f want %.12f", got.FairPrice, want)
	}
	assert.Equal(t, got.FairPrice, got.MarketPrice)
	assert.InDelta(t, 0.055, got.PeriodicYield, 1e-9)
	assert.InDelta(t, 0.11, got.YieldToMaturity, 1e-8)
	assert.Greater(t, got.Iterations, 0)

	assert.InDelta(t, 19.778937056031214, got.MacaulayDuration, 1e-9)
	assert.InDelta(t, 18.747807636048545, got.ModifiedDuration, 1e-9)
	assert.InDelta(t, 0.9722917868886343, got.DollarDuration, 1e-9)
}

func TestPrice_ParBond(t *testing.T) {
	t.Parallel()

	b := bond.Bond{FaceValue: 100, Years: 10, PaymentsPerYear: 2, CouponRate: 0.06}
	got, err := bond.Price(b, 0.06)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, got.FairPrice, 1e-10)
	assert.InDelta(t, 0.06, got.YieldToMaturity, 1e-8)
	assert.InDelta(t, 3.0, b.CouponPayment(), 1e-15)
	assert.Equal(t, 20, b.TotalPayments())
}

func TestPrice_UsesQuotedMarketPriceForDurations(t *testing.T) {
	t.Parallel()

	b := bond.Bond{FaceValue: 100, Years: 5, PaymentsPerYear: 1, CouponRate: 0.04, MarketPrice: 98}
	got, err := bond.Price(b, 0.05)
	require.NoError(t, err)
	assert.Equal(t, 98.0, got.MarketPrice)

	mac, _, _, err := bond.Durations(b, 0.05, got.FairPrice)
	require.NoError(t, err)
	assert.InDelta(t, mac*got.FairPrice/98, got.MacaulayDuration, 1e-12)

	b.MarketPrice = math.NaN()
	got, err = bond.Price(b, 0.05)
	require.NoError(t, err)
	assert.Equal(t, got.FairPrice, got.MarketPrice)
}

func TestPrice_ZeroCouponDuration(t *testing.T) {
	t.Parallel()

	b := bond.Bond{FaceValue: 100, Years: 7, PaymentsPerYear: 1}
	got, err := bond.Price(b, 0.03)
	require.NoError(t, err)
	assert.InDelta(t, 7.0, got.MacaulayDuration, 1e-12)
	assert.InDelta(t, 7.0/1.03, got.ModifiedDuration, 1e-12)
	assert.InDelta(t, 0.03, got.YieldToMaturity, 1e-9)
}

func TestPrice_InvalidBond(t *testing.T) {
	t.Parallel()

	_, err := bond.Price(bond.Bond{FaceValue: 100, PaymentsPerYear: 2, CouponRate: 0.05}, 0.05)
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
	_, err = bond.Price(bond.Bond{FaceValue: 100, Years: 2, CouponRate: 0.05}, 0.05)
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
	_, _, _, err = bond.Durations(bond.Bond{FaceValue: 100, Years: 2, PaymentsPerYear: 1}, 0.05, 0)
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestEffectiveDurationAndConvexity(t *testing.T) {
	t.Parallel()

	b := bond.Bond{FaceValue: 100, Years: 10, PaymentsPerYear: 2, CouponRate: 0.05}
	p0, err := bond.Price(b, 0.06)
	require.NoError(t, err)
	down, err := bond.Price(b, 0.059)
	require.NoError(t, err)
	up, err := bond.Price(b, 0.061)
	require.NoError(t, err)

	eff, err := bond.EffectiveDuration(p0.FairPrice, down.FairPrice, up.FairPrice, 0.001)
	require.NoError(t, err)
	assert.InDelta(t, 7.665168381219745, eff, 1e-9)
	// periodic modified duration converted to years
	assert.InDelta(t, p0.ModifiedDuration/2, eff, 1e-3)

	conv, err := bond.EffectiveConvexity(p0.FairPrice, down.FairPrice, up.FairPrice, 0.001)
	require.NoError(t, err)
	assert.InDelta(t, 71.786, conv, 1e-2)

	_, err = bond.EffectiveDuration(p0.FairPrice, up.FairPrice, down.FairPrice, 0.001)
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
	_, err = bond.EffectiveDuration(p0.FairPrice, down.FairPrice, up.FairPrice, 0)
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestAccruedInterest(t *testing.T) {
	t.Parallel()

	b := bond.Bond{FaceValue: 1000, Years: 5, PaymentsPerYear: 2, CouponRate: 0.06}
	start := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)

	ai, err := bond.AccruedInterest(b, start, end, daycount.Thirty360)
	require.NoError(t, err)
	assert.InDelta(t, 15.0, ai, 1e-12)

	ai, err = bond.AccruedInterest(b, start, end, daycount.Act365F)
	require.NoError(t, err)
	assert.InDelta(t, 90.0/365.0*60, ai, 1e-12)

	_, err = bond.AccruedInterest(b, end, start, daycount.Act360)
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestCashflows(t *testing.T) {
	t.Parallel()

	b := bond.Bond{FaceValue: 100, Years: 2, PaymentsPerYear: 2, CouponRate: 0.04}
	assert.InDeltaSlice(t, []float64{-99, 2, 2, 2, 102}, bond.Cashflows(b, 99), 1e-12)
}

func TestCouponSchedule(t *testing.T) {
	t.Parallel()

	issue := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	b := bond.Bond{FaceValue: 100, Years: 3, PaymentsPerYear: 4, CouponRate: 0.08}
	cfs, err := bond.CouponSchedule(b, issue)
	require.NoError(t, err)
	require.Len(t, cfs, 12)
	assert.Equal(t, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), cfs[0].Date)
	assert.Equal(t, time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC), cfs[11].Date)
	assert.InDelta(t, 2.0, cfs[0].Amount(), 1e-15)
	assert.InDelta(t, 102.0, cfs[11].Amount(), 1e-15)

	rest := bond.Remaining(cfs, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	require.Len(t, rest, 8)
	assert.Equal(t, time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC), rest[0].Date)

	_, err = bond.CouponSchedule(bond.Bond{FaceValue: 100, Years: 1, PaymentsPerYear: 5}, issue)
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestToCashflows_ConvertsCents(t *testing.T) {
	t.Parallel()

	d := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	cfs := bond.ToCashflows([]bond.CashflowCents{
		{Date: d, CouponCents: 125},
		{Date: d.AddDate(1, 0, 0), CouponCents: 125, PrincipalCents: 10000},
	})
	require.Len(t, cfs, 2)
	assert.Equal(t, d, cfs[0].Date)
	assert.InDelta(t, 1.25, cfs[0].Amount(), 1e-15)
	assert.InDelta(t, 101.25, cfs[1].Amount(), 1e-15)
}

func TestCouponSchedule_MonthEndIssue(t *testing.T) {
	t.Parallel()

	issue := time.Date(2024, 8, 31, 0, 0, 0, 0, time.UTC)
	cfs, err := bond.CouponSchedule(bond.Bond{FaceValue: 100, Years: 1, PaymentsPerYear: 2, CouponRate: 0.05}, issue)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), cfs[0].Date)
	assert.Equal(t, time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC), cfs[1].Date)
}
