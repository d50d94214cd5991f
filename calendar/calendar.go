package calendar

import (
	"fmt"
	"strings"
	"time"
)

// CalendarID identifies a holiday calendar.
type CalendarID string

const (
	AUSY   CalendarID = "AUSY"
	GBLO   CalendarID = "GBLO"
	TARGET CalendarID = "TARGET"
	USNY   CalendarID = "USNY"
	JPTO   CalendarID = "JPTO"
)

// BusinessDayConvention selects how a non-business day is moved.
type BusinessDayConvention string

const (
	NoAdjustment      BusinessDayConvention = "NONE"
	Following         BusinessDayConvention = "FOLLOWING"
	ModifiedFollowing BusinessDayConvention = "MODFOLLOWING"
	Preceding         BusinessDayConvention = "PRECEDING"
	ModifiedPreceding BusinessDayConvention = "MODPRECEDING"
)

// ParseBusinessDayConvention accepts FpML codes (FOLLOWING, MODFOLLOWING, ...)
// and the long forms (MODIFIED_FOLLOWING). Matching is case-insensitive.
func ParseBusinessDayConvention(code string) (BusinessDayConvention, error) {
	s := strings.ToUpper(strings.TrimSpace(code))
	s = strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
	switch s {
	case "", "NONE", "UNADJUSTED":
		return NoAdjustment, nil
	case "FOLLOWING", "F":
		return Following, nil
	case "MODFOLLOWING", "MODIFIEDFOLLOWING", "MF":
		return ModifiedFollowing, nil
	case "PRECEDING", "P":
		return Preceding, nil
	case "MODPRECEDING", "MODIFIEDPRECEDING", "MP":
		return ModifiedPreceding, nil
	default:
		return "", fmt.Errorf("unknown business day convention %q", code)
	}
}

// Calendar answers business-day questions for a market.
type Calendar interface {
	IsBusinessDay(t time.Time) bool
	Adjust(t time.Time, conv BusinessDayConvention) time.Time
}

// HolidayCalendar treats Saturdays, Sundays and an explicit holiday set as non-business days.
type HolidayCalendar struct {
	id       CalendarID
	holidays map[string]struct{}
}

// New builds a calendar from caller-supplied holiday dates.
func New(id CalendarID, holidays ...time.Time) *HolidayCalendar {
	c := &HolidayCalendar{
		id:       id,
		holidays: make(map[string]struct{}, len(holidays)),
	}
	for _, h := range holidays {
		c.holidays[dateKey(h)] = struct{}{}
	}
	return c
}

// ID returns the calendar identifier.
func (c *HolidayCalendar) ID() CalendarID {
	return c.id
}

func (c *HolidayCalendar) isHoliday(t time.Time) bool {
	_, ok := c.holidays[dateKey(t)]
	return ok
}

// IsBusinessDay checks weekends and the holiday set.
func (c *HolidayCalendar) IsBusinessDay(t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !c.isHoliday(t)
}

// Adjust moves t to a business day under conv.
func (c *HolidayCalendar) Adjust(t time.Time, conv BusinessDayConvention) time.Time {
	return adjust(c, t, conv)
}

type jointCalendar []Calendar

// Joint combines calendars: a day is a business day only when it is one in
// every member (e.g. AUSY-GBLO).
func Joint(cals ...Calendar) Calendar {
	return jointCalendar(cals)
}

func (j jointCalendar) IsBusinessDay(t time.Time) bool {
	for _, c := range j {
		if !c.IsBusinessDay(t) {
			return false
		}
	}
	return true
}

func (j jointCalendar) Adjust(t time.Time, conv BusinessDayConvention) time.Time {
	return adjust(j, t, conv)
}

func adjust(cal Calendar, t time.Time, conv BusinessDayConvention) time.Time {
	switch conv {
	case Following:
		return rollForward(cal, t)
	case ModifiedFollowing:
		adj := rollForward(cal, t)
		if adj.Month() != t.Month() {
			return rollBackward(cal, t)
		}
		return adj
	case Preceding:
		return rollBackward(cal, t)
	case ModifiedPreceding:
		adj := rollBackward(cal, t)
		if adj.Month() != t.Month() {
			return rollForward(cal, t)
		}
		return adj
	default:
		return t
	}
}

func rollForward(cal Calendar, t time.Time) time.Time {
	for !cal.IsBusinessDay(t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

func rollBackward(cal Calendar, t time.Time) time.Time {
	for !cal.IsBusinessDay(t) {
		t = t.AddDate(0, 0, -1)
	}
	return t
}

// AddBusinessDays advances n business days (n can be negative).
func AddBusinessDays(cal Calendar, t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
	}
	for n != 0 {
		t = t.AddDate(0, 0, step)
		if cal.IsBusinessDay(t) {
			n -= step
		}
	}
	return t
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
