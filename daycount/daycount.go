package daycount

import (
	"fmt"
	"strings"
	"time"

	"github.com/meenmo/swapleg/utils"
)

// DayCounter turns an accrual interval into a year fraction.
type DayCounter interface {
	YearFraction(start, end time.Time) float64
	DayCount(start, end time.Time) int
}

// Convention is the closed set of supported day count conventions.
type Convention string

const (
	Act360     Convention = "ACT/360"
	Act365F    Convention = "ACT/365F"
	ActActISDA Convention = "ACT/ACT.ISDA"
	Thirty360  Convention = "30/360"
	ThirtyE360 Convention = "30E/360"
)

var aliases = map[string]Convention{
	"ACT/360":          Act360,
	"ACTUAL/360":       Act360,
	"ACTUAL360":        Act360,
	"A/360":            Act360,
	"ACT/365F":         Act365F,
	"ACT/365.FIXED":    Act365F,
	"ACT/365":          Act365F,
	"ACTUAL/365":       Act365F,
	"ACTUAL365":        Act365F,
	"ACTUAL/365.FIXED": Act365F,
	"ACTUAL365FIXED":   Act365F,
	"A/365F":           Act365F,
	"ACT/ACT.ISDA":     ActActISDA,
	"ACT/ACT":          ActActISDA,
	"ACTUAL/ACTUAL":    ActActISDA,
	"ACTUALACTUAL":     ActActISDA,
	"30/360":           Thirty360,
	"30360":            Thirty360,
	"THIRTY360":        Thirty360,
	"BONDBASIS":        Thirty360,
	"30E/360":          ThirtyE360,
	"30E360":           ThirtyE360,
	"THIRTYE360":       ThirtyE360,
	"EUROBONDBASIS":    ThirtyE360,
}

// Parse maps a convention code (FpML or long form) onto the enum.
func Parse(code string) (Convention, error) {
	key := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(code), " ", ""))
	if c, ok := aliases[key]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown day count convention %q", code)
}

// DayCount returns the day count between start and end under c.
func (c Convention) DayCount(start, end time.Time) int {
	switch c {
	case Thirty360:
		d1, d2 := start.Day(), end.Day()
		if d1 == 31 {
			d1 = 30
		}
		if d2 == 31 && d1 == 30 {
			d2 = 30
		}
		return thirtyDays(start, end, d1, d2)
	case ThirtyE360:
		d1, d2 := start.Day(), end.Day()
		if d1 > 30 {
			d1 = 30
		}
		if d2 > 30 {
			d2 = 30
		}
		return thirtyDays(start, end, d1, d2)
	default:
		return int(utils.Days(start, end))
	}
}

// YearFraction computes the year fraction between two dates.
func (c Convention) YearFraction(start, end time.Time) float64 {
	switch c {
	case Act360:
		return utils.Days(start, end) / 360.0
	case Act365F:
		return utils.Days(start, end) / 365.0
	case Thirty360, ThirtyE360:
		return float64(c.DayCount(start, end)) / 360.0
	case ActActISDA:
		return actActISDA(start, end)
	default:
		return utils.Days(start, end) / 365.0
	}
}

func thirtyDays(start, end time.Time, d1, d2 int) int {
	y1, m1 := start.Year(), int(start.Month())
	y2, m2 := end.Year(), int(end.Month())
	return 360*(y2-y1) + 30*(m2-m1) + (d2 - d1)
}

// actActISDA splits the interval at year boundaries and divides each piece by
// the length of its own year.
func actActISDA(start, end time.Time) float64 {
	if end.Before(start) {
		return -actActISDA(end, start)
	}
	yf := 0.0
	for start.Year() < end.Year() {
		next := time.Date(start.Year()+1, 1, 1, 0, 0, 0, 0, time.UTC)
		yf += utils.Days(start, next) / daysInYear(start.Year())
		start = next
	}
	return yf + utils.Days(start, end)/daysInYear(start.Year())
}

func daysInYear(y int) float64 {
	if time.Date(y, 12, 31, 0, 0, 0, 0, time.UTC).YearDay() == 366 {
		return 366
	}
	return 365
}
