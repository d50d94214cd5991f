package swap_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meenmo/swapleg/calendar"
	"github.com/meenmo/swapleg/swap"
	"github.com/meenmo/swapleg/swap/curve"
	"github.com/meenmo/swapleg/swap/market"
)

const (
	fixedPayer = "NAB"
	floatPayer = "Counterparty"
)

var valuationDate = date(1994, 12, 20)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// baseLegs is an AUD 1,000,000 swap: NAB pays 8% fixed semi-annually and
// receives AUD-LIBOR-3M, ACT/360, from 1994-12-14 to 1999-12-14.
func baseLegs() (fixed, floating swap.LegParameters) {
	cal := calendar.New(calendar.AUSY)
	common := swap.LegParameters{
		Currency:                     "AUD",
		Notional:                     1_000_000,
		EffectiveDate:                date(1994, 12, 14),
		FirstRegularPeriodStartDate:  date(1995, 6, 14),
		MaturityDate:                 date(1999, 12, 14),
		PaymentFrequency:             "6M",
		DayCount:                     "ACT/360",
		PaymentBusinessDayAdjustment: "MODFOLLOWING",
		AccrualCalendar:              cal,
		PaymentCalendar:              cal,
		FixingCalendar:               cal,
	}

	fixed = common
	fixed.Payer, fixed.Receiver = fixedPayer, floatPayer
	fixed.LegType = "FIXED"
	fixed.FixedRate = 0.08

	floating = common
	floating.Payer, floating.Receiver = floatPayer, fixedPayer
	floating.LegType = "FLOATING"
	floating.FloatingRateIndex = string(market.AUDLIBOR3M)
	floating.FixingBusinessDayAdjustment = "PRECEDING"
	floating.FixingDaysOffset = 2
	return fixed, floating
}

func newTestEnvironment(t *testing.T) *market.Environment {
	t.Helper()
	disc, err := curve.NewFlatCurve(valuationDate, 0.07, curve.WithName("AUD-disc"))
	require.NoError(t, err)
	fwd, err := curve.NewFlatCurve(valuationDate, 0.075, curve.WithName("AUD-LIBOR-3M"))
	require.NoError(t, err)
	return market.NewEnvironment("aud-1994-12-20", map[market.CurveRole]curve.Curve{
		market.RoleDiscount: disc,
		market.RoleForecast: fwd,
	})
}

// newBaseSwap generates and values the base swap. mutate, when set, edits the
// leg parameters first.
func newBaseSwap(t *testing.T, env *market.Environment, mutate func(fixed, floating *swap.LegParameters)) *swap.Swap {
	t.Helper()
	fixed, floating := baseLegs()
	if mutate != nil {
		mutate(&fixed, &floating)
	}
	sw, err := swap.GenerateSwap(fixed, floating)
	require.NoError(t, err)
	require.NoError(t, swap.ValueSwap(sw, env, valuationDate))
	return sw
}

func revalue(t *testing.T, sw *swap.Swap, env *market.Environment) {
	t.Helper()
	require.NoError(t, swap.ValueSwap(sw, env, valuationDate))
}

func partyPV(t *testing.T, sw *swap.Swap, party string) float64 {
	t.Helper()
	m, err := swap.GetPresentValue(sw, party)
	require.NoError(t, err)
	return m.Float64()
}

func partyFV(t *testing.T, sw *swap.Swap, party string) float64 {
	t.Helper()
	m, err := swap.GetFutureValue(sw, party)
	require.NoError(t, err)
	return m.Float64()
}

func streamPV(s *swap.Stream) float64 {
	return s.PresentValue().Float64()
}

func streamFV(s *swap.Stream) float64 {
	return s.FutureValue().Float64()
}
