package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/swapleg/calendar"
)

// ErrConfiguration marks contradictory schedule parameters (inverted dates,
// first regular date out of range, unknown or unusable conventions).
var ErrConfiguration = errors.New("configuration error")

// MaxPeriods bounds the number of grid dates generated for one schedule.
var MaxPeriods = 20000

// PeriodKind tells regular periods apart from stubs.
type PeriodKind int

const (
	Regular PeriodKind = iota
	InitialStub
	FinalStub
)

func (k PeriodKind) String() string {
	switch k {
	case InitialStub:
		return "initial stub"
	case FinalStub:
		return "final stub"
	default:
		return "regular"
	}
}

// Period is one accrual period, unadjusted and adjusted.
type Period struct {
	UnadjustedStart time.Time
	UnadjustedEnd   time.Time
	AdjustedStart   time.Time
	AdjustedEnd     time.Time
	Kind            PeriodKind
}

// Result holds the generated periods in order. InitialStub and FinalStub
// point at copies of the stub periods, when present.
type Result struct {
	Periods     []Period
	InitialStub *Period
	FinalStub   *Period
}

// Regular returns the regular periods only.
func (r Result) Regular() []Period {
	out := make([]Period, 0, len(r.Periods))
	for _, p := range r.Periods {
		if p.Kind == Regular {
			out = append(out, p)
		}
	}
	return out
}

// GenerateAdjustedCalculationPeriods builds the accrual periods covering
// [startDate, endDate].
//
// The regular grid is anchored on firstRegularPeriodStartDate (startDate when
// zero) and extended backward to startDate and forward to endDate. A remainder
// that does not land on the grid becomes a stub: short stubs stand alone, long
// stubs are merged into the neighbouring regular period. Every boundary is
// then adjusted once under adjustment on cal, so adjusted periods stay
// contiguous. A Term frequency yields a single period.
func GenerateAdjustedCalculationPeriods(
	startDate, endDate, firstRegularPeriodStartDate time.Time,
	freq Frequency,
	adjustment calendar.BusinessDayConvention,
	initialStub, finalStub StubType,
	cal calendar.Calendar,
) (Result, error) {
	first := firstRegularPeriodStartDate
	if first.IsZero() {
		first = startDate
	}
	if err := validate(startDate, endDate, first, freq, adjustment, initialStub, finalStub, cal); err != nil {
		return Result{}, err
	}

	bounds := []time.Time{startDate}
	hasInitialStub, hasFinalStub := false, false

	if freq.Period != Term {
		// Backward from the anchor; grid dates strictly inside (startDate, first).
		var back []time.Time
		if first.After(startDate) {
			aligned := false
			for k := 1; ; k++ {
				if k > MaxPeriods {
					return Result{}, fmt.Errorf("%w: more than %d periods between %s and %s", ErrConfiguration, MaxPeriods, fmtDate(startDate), fmtDate(first))
				}
				d := freq.Step(first, -k)
				if !d.After(startDate) {
					aligned = d.Equal(startDate)
					break
				}
				if d.Before(first) {
					back = append(back, d)
				}
			}
			hasInitialStub = !aligned
		}
		for i := len(back) - 1; i >= 0; i-- {
			bounds = append(bounds, back[i])
		}
		if first.After(startDate) && first.Before(endDate) {
			bounds = append(bounds, first)
		}

		// Forward from the anchor; grid dates strictly inside (first, endDate).
		if first.Before(endDate) {
			aligned := false
			for k := 1; ; k++ {
				if k > MaxPeriods {
					return Result{}, fmt.Errorf("%w: more than %d periods between %s and %s", ErrConfiguration, MaxPeriods, fmtDate(first), fmtDate(endDate))
				}
				d := freq.Step(first, k)
				if !d.Before(endDate) {
					aligned = d.Equal(endDate)
					break
				}
				if d.After(bounds[len(bounds)-1]) {
					bounds = append(bounds, d)
				}
			}
			hasFinalStub = !aligned
		}
	}
	bounds = append(bounds, endDate)

	kinds := make([]PeriodKind, len(bounds)-1)
	if hasInitialStub {
		kinds[0] = InitialStub
	}
	if hasFinalStub {
		kinds[len(kinds)-1] = FinalStub
	}

	// A long stub absorbs the adjacent regular period.
	if hasInitialStub && initialStub.isLong() && len(kinds) > 1 && kinds[1] == Regular {
		bounds = append(bounds[:1], bounds[2:]...)
		kinds = append(kinds[:1], kinds[2:]...)
	}
	if n := len(kinds); hasFinalStub && finalStub.isLong() && n > 1 && kinds[n-2] == Regular {
		bounds = append(bounds[:len(bounds)-2], bounds[len(bounds)-1])
		kinds = append(kinds[:n-2], FinalStub)
	}

	adjusted := make([]time.Time, len(bounds))
	for i, b := range bounds {
		if cal == nil {
			adjusted[i] = b
			continue
		}
		adjusted[i] = cal.Adjust(b, adjustment)
	}

	res := Result{Periods: make([]Period, len(kinds))}
	for i := range kinds {
		res.Periods[i] = Period{
			UnadjustedStart: bounds[i],
			UnadjustedEnd:   bounds[i+1],
			AdjustedStart:   adjusted[i],
			AdjustedEnd:     adjusted[i+1],
			Kind:            kinds[i],
		}
	}
	if res.Periods[0].Kind == InitialStub {
		p := res.Periods[0]
		res.InitialStub = &p
	}
	if last := res.Periods[len(res.Periods)-1]; last.Kind == FinalStub {
		res.FinalStub = &last
	}
	return res, nil
}

func validate(
	start, end, first time.Time,
	freq Frequency,
	adjustment calendar.BusinessDayConvention,
	initialStub, finalStub StubType,
	cal calendar.Calendar,
) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrConfiguration)
	}
	if !start.Before(end) {
		return fmt.Errorf("%w: start %s is not before end %s", ErrConfiguration, fmtDate(start), fmtDate(end))
	}
	if first.Before(start) || first.After(end) {
		return fmt.Errorf("%w: first regular period start %s outside [%s, %s]", ErrConfiguration, fmtDate(first), fmtDate(start), fmtDate(end))
	}
	if freq.Multiplier <= 0 {
		return fmt.Errorf("%w: frequency multiplier must be positive, got %d", ErrConfiguration, freq.Multiplier)
	}
	switch freq.Period {
	case Day, Week, Month, Year, Term:
	default:
		return fmt.Errorf("%w: unknown frequency unit %q", ErrConfiguration, freq.Period)
	}
	if _, err := ParseRollConvention(string(freq.Roll)); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	switch initialStub {
	case StubNone, ShortInitial, LongInitial:
	default:
		return fmt.Errorf("%w: %q is not an initial stub type", ErrConfiguration, initialStub)
	}
	switch finalStub {
	case StubNone, ShortFinal, LongFinal:
	default:
		return fmt.Errorf("%w: %q is not a final stub type", ErrConfiguration, finalStub)
	}
	if cal == nil && adjustment != calendar.NoAdjustment && adjustment != "" {
		return fmt.Errorf("%w: %s adjustment needs a calendar", ErrConfiguration, adjustment)
	}
	return nil
}

func fmtDate(t time.Time) string {
	return t.Format("2006-01-02")
}
