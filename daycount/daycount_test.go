package daycount_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/swapleg/daycount"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestParse(t *testing.T) {
	t.Parallel()

	cases := map[string]daycount.Convention{
		"Actual360":     daycount.Act360,
		"ACT/360":       daycount.Act360,
		"ACT/365.FIXED": daycount.Act365F,
		"Actual/365":    daycount.Act365F,
		"30E/360":       daycount.ThirtyE360,
		"30/360":        daycount.Thirty360,
		"act/act":       daycount.ActActISDA,
	}
	for in, want := range cases {
		got, err := daycount.Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := daycount.Parse("BUS/252")
	require.Error(t, err)
}

func TestYearFraction(t *testing.T) {
	t.Parallel()

	start, end := d(1994, 12, 14), d(1995, 6, 14) // 182 days

	assert.InDelta(t, 182.0/360.0, daycount.Act360.YearFraction(start, end), 1e-15)
	assert.InDelta(t, 182.0/365.0, daycount.Act365F.YearFraction(start, end), 1e-15)
	assert.InDelta(t, 0.5, daycount.ThirtyE360.YearFraction(start, end), 1e-15)
	assert.Equal(t, 182, daycount.Act360.DayCount(start, end))
}

func TestThirty360MonthEnds(t *testing.T) {
	t.Parallel()

	// 30/360 only caps D2 at 30 when D1 is 30 or 31; 30E/360 always caps.
	assert.Equal(t, 31, daycount.Thirty360.DayCount(d(1995, 1, 15), d(1995, 2, 16)))
	assert.Equal(t, 28, daycount.Thirty360.DayCount(d(1995, 1, 31), d(1995, 2, 28)))
	assert.Equal(t, 180, daycount.Thirty360.DayCount(d(1995, 1, 30), d(1995, 7, 31)))
	assert.Equal(t, 16, daycount.Thirty360.DayCount(d(1995, 1, 15), d(1995, 1, 31)))
	assert.Equal(t, 15, daycount.ThirtyE360.DayCount(d(1995, 1, 15), d(1995, 1, 31)))
}

func TestActActISDA(t *testing.T) {
	t.Parallel()

	// 1995-07-01 .. 1996-07-01 straddles a leap year.
	got := daycount.ActActISDA.YearFraction(d(1995, 7, 1), d(1996, 7, 1))
	want := 184.0/365.0 + 182.0/366.0
	assert.InDelta(t, want, got, 1e-15)
}
