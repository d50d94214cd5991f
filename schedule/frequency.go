package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/meenmo/swapleg/utils"
)

// PeriodUnit is the unit of a frequency multiplier.
type PeriodUnit string

const (
	Day   PeriodUnit = "D"
	Week  PeriodUnit = "W"
	Month PeriodUnit = "M"
	Year  PeriodUnit = "Y"
	// Term means a single period spanning the whole schedule.
	Term PeriodUnit = "T"
)

// Frequency is a period multiplier plus the roll convention applied to
// every grid date it generates.
type Frequency struct {
	Multiplier int
	Period     PeriodUnit
	Roll       RollConvention
}

// ParseFrequency parses codes such as "6M", "1Y", "28D", "1T".
func ParseFrequency(code string) (Frequency, error) {
	s := strings.ToUpper(strings.TrimSpace(code))
	if len(s) < 2 {
		return Frequency{}, fmt.Errorf("invalid frequency %q", code)
	}
	unit := PeriodUnit(s[len(s)-1:])
	switch unit {
	case Day, Week, Month, Year, Term:
	default:
		return Frequency{}, fmt.Errorf("invalid frequency unit in %q", code)
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n <= 0 {
		return Frequency{}, fmt.Errorf("invalid frequency multiplier in %q", code)
	}
	return Frequency{Multiplier: n, Period: unit, Roll: RollNone}, nil
}

// WithRoll returns a copy of f using roll.
func (f Frequency) WithRoll(roll RollConvention) Frequency {
	f.Roll = roll
	return f
}

func (f Frequency) String() string {
	return strconv.Itoa(f.Multiplier) + string(f.Period)
}

// Months returns the frequency length in months for month and year units.
func (f Frequency) Months() (int, bool) {
	switch f.Period {
	case Month:
		return f.Multiplier, true
	case Year:
		return 12 * f.Multiplier, true
	default:
		return 0, false
	}
}

// Days returns the frequency length in days for day and week units.
func (f Frequency) Days() (int, bool) {
	switch f.Period {
	case Day:
		return f.Multiplier, true
	case Week:
		return 7 * f.Multiplier, true
	default:
		return 0, false
	}
}

// Step returns the n-th grid date from anchor (n may be negative). Month based
// dates are computed from the anchor directly and then snapped by the roll
// convention, so clamping in a short month never propagates.
func (f Frequency) Step(anchor time.Time, n int) time.Time {
	if m, ok := f.Months(); ok {
		return f.Roll.Apply(utils.AddMonth(anchor, n*m))
	}
	if d, ok := f.Days(); ok {
		return anchor.AddDate(0, 0, n*d)
	}
	return anchor
}

// Multiple reports how many periods of sub fit into f, when that is a whole
// number. A Term f spans any number of shorter periods and reports 0.
func (f Frequency) Multiple(sub Frequency) (int, bool) {
	if f.Period == Term {
		if sub.Period == Term {
			return 1, true
		}
		return 0, true
	}
	if fm, ok := f.Months(); ok {
		if sm, ok := sub.Months(); ok && sm > 0 && fm%sm == 0 {
			return fm / sm, true
		}
		return 0, false
	}
	if fd, ok := f.Days(); ok {
		if sd, ok := sub.Days(); ok && sd > 0 && fd%sd == 0 {
			return fd / sd, true
		}
		return 0, false
	}
	return 0, false
}

// RollConvention fixes the day of month of generated dates: NONE keeps the
// anchor's day, EOM snaps to month end, "1".."30" pins the day.
type RollConvention string

const (
	RollNone RollConvention = "NONE"
	RollEOM  RollConvention = "EOM"
)

// RollDay returns the day-of-month convention for day.
func RollDay(day int) RollConvention {
	return RollConvention(strconv.Itoa(day))
}

// ParseRollConvention parses "NONE", "EOM" or a day of month 1..31 (31 is EOM).
func ParseRollConvention(code string) (RollConvention, error) {
	s := strings.ToUpper(strings.TrimSpace(code))
	switch s {
	case "", "NONE":
		return RollNone, nil
	case "EOM":
		return RollEOM, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 31 {
		return "", fmt.Errorf("unknown roll convention %q", code)
	}
	if n == 31 {
		return RollEOM, nil
	}
	return RollDay(n), nil
}

// Apply snaps t to the convention.
func (r RollConvention) Apply(t time.Time) time.Time {
	switch r {
	case RollNone, "":
		return t
	case RollEOM:
		return utils.EndOfMonth(t)
	}
	n, err := strconv.Atoi(string(r))
	if err != nil {
		return t
	}
	return utils.WithDay(t, n)
}

// StubType classifies how a partial period at either end is handled.
type StubType string

const (
	StubNone     StubType = ""
	ShortInitial StubType = "ShortInitial"
	LongInitial  StubType = "LongInitial"
	ShortFinal   StubType = "ShortFinal"
	LongFinal    StubType = "LongFinal"
)

// ParseStubType accepts ShortInitial, LONG_FINAL, etc. An empty code is StubNone.
func ParseStubType(code string) (StubType, error) {
	s := strings.ToUpper(strings.NewReplacer("_", "", "-", "", " ", "").Replace(code))
	switch s {
	case "", "NONE":
		return StubNone, nil
	case "SHORTINITIAL":
		return ShortInitial, nil
	case "LONGINITIAL":
		return LongInitial, nil
	case "SHORTFINAL":
		return ShortFinal, nil
	case "LONGFINAL":
		return LongFinal, nil
	default:
		return "", fmt.Errorf("unknown stub type %q", code)
	}
}

func (s StubType) isLong() bool {
	return s == LongInitial || s == LongFinal
}
