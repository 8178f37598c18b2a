// Package daycount converts date pairs into year fractions.
package daycount

import (
	"fmt"
	"strings"
	"time"

	"github.com/meenmo/qflib/errs"
)

// Convention names a day count basis.
type Convention string

const (
	Act360     Convention = "ACT/360"
	Act365F    Convention = "ACT/365F"
	Act36525   Convention = "ACT/365.25"
	ActAct     Convention = "ACT/ACT"
	Thirty360  Convention = "30/360"
	Thirty360E Convention = "30E/360"
)

// Parse maps a convention string (case-insensitive) to a Convention.
func Parse(s string) (Convention, error) {
	switch c := Convention(strings.ToUpper(strings.TrimSpace(s))); c {
	case Act360, Act365F, Act36525, ActAct, Thirty360, Thirty360E:
		return c, nil
	case "ACT/365":
		return Act365F, nil
	}
	return "", fmt.Errorf("daycount.Parse: unknown convention %q: %w", s, errs.ErrInvalidArgument)
}

// YearFraction computes the year fraction from start to end.
//
// ACT/ACT follows the ISDA split: days falling in each calendar year are
// divided by that year's length. 30/360 is the US bond basis; 30E/360 caps
// both day-of-month values at 30.
func YearFraction(start, end time.Time, convention Convention) (float64, error) {
	switch convention {
	case Act360:
		return actualDays(start, end) / 360.0, nil
	case Act365F:
		return actualDays(start, end) / 365.0, nil
	case Act36525:
		return actualDays(start, end) / 365.25, nil
	case ActAct:
		return actActISDA(start, end), nil
	case Thirty360:
		d1, d2 := start.Day(), end.Day()
		if d1 == 31 {
			d1 = 30
		}
		if d2 == 31 && d1 == 30 {
			d2 = 30
		}
		return thirty360(start, end, d1, d2), nil
	case Thirty360E:
		d1, d2 := start.Day(), end.Day()
		if d1 > 30 {
			d1 = 30
		}
		if d2 > 30 {
			d2 = 30
		}
		return thirty360(start, end, d1, d2), nil
	default:
		return 0, fmt.Errorf("daycount.YearFraction: unsupported convention %q: %w", convention, errs.ErrInvalidArgument)
	}
}

func actualDays(start, end time.Time) float64 {
	return float64(civilDays(end) - civilDays(start))
}

// civilDays counts calendar days since the epoch, ignoring time of day and
// zone offsets.
func civilDays(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

func thirty360(start, end time.Time, d1, d2 int) float64 {
	y1, m1 := start.Year(), int(start.Month())
	y2, m2 := end.Year(), int(end.Month())
	return float64(360*(y2-y1)+30*(m2-m1)+(d2-d1)) / 360.0
}

func actActISDA(start, end time.Time) float64 {
	if end.Before(start) {
		return -actActISDA(end, start)
	}
	var frac float64
	cur := start
	for cur.Year() < end.Year() {
		next := time.Date(cur.Year()+1, 1, 1, 0, 0, 0, 0, time.UTC)
		frac += float64(civilDays(next)-civilDays(cur)) / yearLength(cur.Year())
		cur = next
	}
	frac += float64(civilDays(end)-civilDays(cur)) / yearLength(end.Year())
	return frac
}

func yearLength(year int) float64 {
	if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
		return 366
	}
	return 365
}
