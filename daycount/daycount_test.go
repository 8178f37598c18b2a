package daycount_test

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/qflib/daycount"
	"github.com/meenmo/qflib/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestYearFraction_Actual(t *testing.T) {
	t.Parallel()

	start, end := date(2025, 1, 1), date(2026, 1, 1)

	got, err := daycount.YearFraction(start, end, daycount.Act360)
	require.NoError(t, err)
	assert.InDelta(t, 365.0/360.0, got, 1e-15)

	got, err = daycount.YearFraction(start, end, daycount.Act365F)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-15)

	got, err = daycount.YearFraction(start, end, daycount.Act36525)
	require.NoError(t, err)
	assert.InDelta(t, 365.0/365.25, got, 1e-15)
}

func TestYearFraction_ActActSplitsLeapYear(t *testing.T) {
	t.Parallel()

	// 2023-07-01 .. 2024-07-01: 184 days of 2023, 182 days of 2024.
	got, err := daycount.YearFraction(date(2023, 7, 1), date(2024, 7, 1), daycount.ActAct)
	require.NoError(t, err)
	want := 184.0/365.0 + 182.0/366.0
	if math.Abs(got-want) > 1e-14 {
		t.Fatalf("ACT/ACT mismatch: got %.15f want %.15f", got, want)
	}

	got, err = daycount.YearFraction(date(2024, 1, 1), date(2025, 1, 1), daycount.ActAct)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-15)
}

func TestYearFraction_Thirty360(t *testing.T) {
	t.Parallel()

	got, err := daycount.YearFraction(date(2025, 1, 31), date(2025, 3, 31), daycount.Thirty360)
	require.NoError(t, err)
	assert.InDelta(t, 60.0/360.0, got, 1e-15)

	// US basis only rolls a 31st end date when the start is the 30th/31st.
	got, err = daycount.YearFraction(date(2025, 1, 15), date(2025, 3, 31), daycount.Thirty360)
	require.NoError(t, err)
	assert.InDelta(t, 76.0/360.0, got, 1e-15)

	got, err = daycount.YearFraction(date(2025, 1, 15), date(2025, 3, 31), daycount.Thirty360E)
	require.NoError(t, err)
	assert.InDelta(t, 75.0/360.0, got, 1e-15)
}

func TestParse(t *testing.T) {
	t.Parallel()

	c, err := daycount.Parse("act/365")
	require.NoError(t, err)
	assert.Equal(t, daycount.Act365F, c)

	_, err = daycount.Parse("BUS/252")
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, err = daycount.YearFraction(date(2025, 1, 1), date(2025, 2, 1), daycount.Convention("BUS/252"))
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestAddMonths_ClampsToMonthEnd(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in     time.Time
		months int
		want   time.Time
	}{
		{date(2025, 1, 31), 1, date(2025, 2, 28)},
		{date(2024, 1, 31), 1, date(2024, 2, 29)},
		{date(2025, 8, 31), 6, date(2026, 2, 28)},
		{date(2025, 3, 31), -1, date(2025, 2, 28)},
		{date(2025, 1, 15), 12, date(2026, 1, 15)},
		{date(2025, 11, 30), 3, date(2026, 2, 28)},
	}
	for _, tc := range cases {
		got := daycount.AddMonths(tc.in, tc.months)
		assert.True(t, tc.want.Equal(got), "AddMonths(%s, %d) = %s, want %s",
			tc.in.Format("2006-01-02"), tc.months, got.Format("2006-01-02"), tc.want.Format("2006-01-02"))
	}
}
