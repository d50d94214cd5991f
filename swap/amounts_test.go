package swap_test

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/swapleg/swap"
	"github.com/meenmo/swapleg/swap/config"
	"github.com/meenmo/swapleg/swap/curve"
)

// fixedCurve returns the same discount factor and forward rate for every date.
type fixedCurve struct {
	df, fwd float64
}

func (c fixedCurve) DiscountFactor(_, _ time.Time) float64 { return c.df }
func (c fixedCurve) ForwardRate(_, _ time.Time) float64 { return c.fwd }

func curves(t *testing.T) (forecast, discount curve.Curve) {
	t.Helper()
	env := newTestEnvironment(t)
	return env.ForecastCurve(), env.DiscountCurve()
}

func generatedStream(t *testing.T, p swap.LegParameters) *swap.Stream {
	t.Helper()
	s, err := swap.GenerateStream(p)
	require.NoError(t, err)
	return s
}

func TestUpdateCashflowsAmounts_FixedLeg(t *testing.T) {
	t.Parallel()
	fixed, _ := baseLegs()
	s := generatedStream(t, fixed)
	forecast, discount := curves(t)

	require.NoError(t, swap.UpdateCashflowsAmounts(s, forecast, discount, valuationDate))
	for i, pcp := range s.Cashflows.PaymentCalculationPeriods {
		cp := pcp.CalculationPeriods[0]
		assert.InDelta(t, cp.Notional.Value*0.08*cp.DayCountFraction, pcp.ForecastValue, 1e-9, "period %d", i)
		assert.InDelta(t, pcp.ForecastValue*pcp.DiscountFactor, pcp.PresentValue, 1e-9, "period %d", i)
		assert.InDelta(t, discount.DiscountFactor(valuationDate, pcp.AdjustedPaymentDate), pcp.DiscountFactor, 1e-15)
	}
	assert.Equal(t, "AUD", s.PresentValue().Currency)
}

func TestUpdateCashflowsAmounts_Compounding(t *testing.T) {
	t.Parallel()
	_, floating := baseLegs()
	floating.CalculationFrequency = "3M"
	simple := generatedStream(t, floating)
	floating.CompoundingMethod = "COMPOUNDING"
	compounded := generatedStream(t, floating)

	flat := fixedCurve{df: 0.9, fwd: 0.08}
	require.NoError(t, swap.UpdateCashflowsAmounts(simple, flat, flat, valuationDate))
	require.NoError(t, swap.UpdateCashflowsAmounts(compounded, flat, flat, valuationDate))

	s0 := simple.Cashflows.PaymentCalculationPeriods[1]
	c0 := compounded.Cashflows.PaymentCalculationPeriods[1]
	first := c0.CalculationPeriods[0]
	second := c0.CalculationPeriods[1]
	assert.InDelta(t, 1_000_000*0.08*first.DayCountFraction, first.Interest, 1e-9)
	assert.InDelta(t, (1_000_000+first.Interest)*0.08*second.DayCountFraction, second.Interest, 1e-9)
	assert.Greater(t, c0.ForecastValue, s0.ForecastValue)
	assert.InDelta(t, first.Interest+second.Interest, c0.ForecastValue, 1e-9)
}

func TestUpdateCashflowsAmounts_FRADiscounting(t *testing.T) {
	t.Parallel()
	_, floating := baseLegs()
	floating.DiscountingType = "FRA"
	s := generatedStream(t, floating)

	flat := fixedCurve{df: 0.95, fwd: 0.08}
	require.NoError(t, swap.UpdateCashflowsAmounts(s, flat, flat, valuationDate))
	pcp := s.Cashflows.PaymentCalculationPeriods[0]
	tau := pcp.CalculationPeriods[0].DayCountFraction
	assert.InDelta(t, 1_000_000*(1-1/(1+0.08*tau)), pcp.ForecastValue, 1e-9)
	assert.Less(t, pcp.ForecastValue, 1_000_000*0.08*tau)
}

func TestUpdateCashflowsAmounts_PastCashflowPolicy(t *testing.T) {
	t.Parallel()
	fixed, _ := baseLegs()
	forecast, discount := curves(t)
	later := date(1995, 7, 3)

	excl := generatedStream(t, fixed)
	require.NoError(t, swap.UpdateCashflowsAmounts(excl, forecast, discount, later))
	past := excl.Cashflows.PaymentCalculationPeriods[0]
	assert.Zero(t, past.DiscountFactor)
	assert.Zero(t, past.PresentValue)
	assert.Greater(t, past.ForecastValue, 0.0)

	cfg := config.DefaultConfig
	cfg.PastCashflows = config.IncludePast
	v := swap.NewValuer(cfg, zerolog.Nop())
	incl := generatedStream(t, fixed)
	require.NoError(t, v.UpdateCashflowsAmounts(incl, forecast, discount, later))
	past = incl.Cashflows.PaymentCalculationPeriods[0]
	assert.Equal(t, 1.0, past.DiscountFactor)
	assert.Equal(t, past.ForecastValue, past.PresentValue)

	// Paying on the valuation date uses the curve.
	onDate := generatedStream(t, fixed)
	require.NoError(t, swap.UpdateCashflowsAmounts(onDate, forecast, discount, date(1995, 6, 14)))
	assert.InDelta(t, 1.0, onDate.Cashflows.PaymentCalculationPeriods[0].DiscountFactor, 1e-12)
}

func TestUpdateCashflowsAmounts_ForecastOnlyWhenNeeded(t *testing.T) {
	t.Parallel()
	_, floating := baseLegs()
	_, discount := curves(t)

	s := generatedStream(t, floating)
	err := swap.UpdateCashflowsAmounts(s, nil, discount, valuationDate)
	require.ErrorIs(t, err, swap.ErrMissingCurve)

	for i := range s.Cashflows.PaymentCalculationPeriods {
		s.Cashflows.PaymentCalculationPeriods[i].SetObservedRate(0.07)
	}
	require.NoError(t, swap.UpdateCashflowsAmounts(s, nil, discount, valuationDate))
	assert.Greater(t, streamFV(s), 0.0)

	fixed, _ := baseLegs()
	require.NoError(t, swap.UpdateCashflowsAmounts(generatedStream(t, fixed), nil, discount, valuationDate))
}

func TestUpdateCashflowsAmounts_ResetOverrides(t *testing.T) {
	t.Parallel()
	fixed, _ := baseLegs()
	forecast, discount := curves(t)
	s := generatedStream(t, fixed)
	require.NoError(t, swap.UpdateCashflowsAmounts(s, forecast, discount, valuationDate))
	basePV := streamPV(s)

	pcp := &s.Cashflows.PaymentCalculationPeriods[0]
	pcp.SetFixedRate(0.10)
	pcp.SetNotional(2_000_000)
	require.NoError(t, swap.UpdateCashflowsAmounts(s, forecast, discount, valuationDate))
	assert.Greater(t, streamPV(s), basePV)

	s.Cashflows.PaymentCalculationPeriods[0].ResetOverrides()
	require.NoError(t, swap.UpdateCashflowsAmounts(s, forecast, discount, valuationDate))
	assert.InDelta(t, basePV, streamPV(s), 1e-9)
}

func TestUpdateCashflowsAmounts_ErrorsLeaveStreamUntouched(t *testing.T) {
	t.Parallel()
	forecast, discount := curves(t)

	cases := []struct {
		name    string
		leg     func() swap.LegParameters
		corrupt func(s *swap.Stream)
		fc, dc  curve.Curve
		want    error
	}{
		{
			name:    "no discount curve",
			leg:     func() swap.LegParameters { f, _ := baseLegs(); return f },
			corrupt: func(*swap.Stream) {},
			fc:      forecast,
			want:    swap.ErrMissingCurve,
		},
		{
			name: "empty payment period",
			leg:  func() swap.LegParameters { f, _ := baseLegs(); return f },
			corrupt: func(s *swap.Stream) {
				s.Cashflows.PaymentCalculationPeriods[4].CalculationPeriods = nil
			},
			fc: forecast, dc: discount,
			want: swap.ErrStructuralMismatch,
		},
		{
			name: "missing payment date",
			leg:  func() swap.LegParameters { f, _ := baseLegs(); return f },
			corrupt: func(s *swap.Stream) {
				s.Cashflows.PaymentCalculationPeriods[2].AdjustedPaymentDate = time.Time{}
			},
			fc: forecast, dc: discount,
			want: swap.ErrStructuralMismatch,
		},
		{
			name: "gap inside payment period",
			leg: func() swap.LegParameters {
				_, fl := baseLegs()
				fl.CalculationFrequency = "3M"
				return fl
			},
			corrupt: func(s *swap.Stream) {
				cp := &s.Cashflows.PaymentCalculationPeriods[3].CalculationPeriods[1]
				cp.AdjustedStartDate = cp.AdjustedStartDate.AddDate(0, 0, 5)
			},
			fc: forecast, dc: discount,
			want: swap.ErrStructuralMismatch,
		},
		{
			name: "floating period without index",
			leg:  func() swap.LegParameters { _, fl := baseLegs(); return fl },
			corrupt: func(s *swap.Stream) {
				s.Cashflows.PaymentCalculationPeriods[1].CalculationPeriods[0].Floating.Index = ""
			},
			fc: forecast, dc: discount,
			want: swap.ErrStructuralMismatch,
		},
		{
			name: "fixed period without rate on floating stream without index",
			leg:  func() swap.LegParameters { _, fl := baseLegs(); return fl },
			corrupt: func(s *swap.Stream) {
				s.Index = ""
				s.Cashflows.PaymentCalculationPeriods[1].CalculationPeriods[0].RateKind = swap.FixedRate
			},
			fc: forecast, dc: discount,
			want: swap.ErrStructuralMismatch,
		},
		{
			name: "zero length period",
			leg:  func() swap.LegParameters { f, _ := baseLegs(); return f },
			corrupt: func(s *swap.Stream) {
				cp := &s.Cashflows.PaymentCalculationPeriods[5].CalculationPeriods[0]
				cp.AdjustedEndDate = cp.AdjustedStartDate
			},
			fc: forecast, dc: discount,
			want: swap.ErrArithmetic,
		},
		{
			name:    "degenerate discount factor",
			leg:     func() swap.LegParameters { f, _ := baseLegs(); return f },
			corrupt: func(*swap.Stream) {},
			fc:      forecast, dc: fixedCurve{df: 0, fwd: 0.05},
			want: swap.ErrArithmetic,
		},
		{
			name:    "NaN forward",
			leg:     func() swap.LegParameters { _, fl := baseLegs(); return fl },
			corrupt: func(*swap.Stream) {},
			fc:      fixedCurve{df: 0.9, fwd: math.NaN()}, dc: discount,
			want: swap.ErrArithmetic,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := generatedStream(t, tc.leg())
			require.NoError(t, swap.UpdateCashflowsAmounts(s, forecast, discount, valuationDate))
			tc.corrupt(s)
			before := s.Cashflows.Clone()

			err := swap.UpdateCashflowsAmounts(s, tc.fc, tc.dc, valuationDate)
			require.ErrorIs(t, err, tc.want)
			assert.Equal(t, before, s.Cashflows)
		})
	}

	require.ErrorIs(t, swap.UpdateCashflowsAmounts(nil, forecast, discount, valuationDate), swap.ErrStructuralMismatch)
}

func TestUpdatePaymentAmounts(t *testing.T) {
	t.Parallel()
	_, discount := curves(t)
	payments := []swap.Payment{
		{Payer: "A", Receiver: "B", PaymentDate: date(1995, 12, 14), Amount: swap.NewMoney(5_000, "AUD")},
		{Payer: "B", Receiver: "A", PaymentDate: date(1994, 12, 1), Amount: swap.NewMoney(1_000, "AUD")},
	}
	require.NoError(t, swap.UpdatePaymentAmounts(payments, discount, valuationDate))
	assert.InDelta(t, 5_000*payments[0].DiscountFactor, payments[0].PresentValue, 1e-9)
	assert.Zero(t, payments[1].PresentValue)

	require.ErrorIs(t, swap.UpdatePaymentAmounts(payments, nil, valuationDate), swap.ErrMissingCurve)
	require.NoError(t, swap.UpdatePaymentAmounts(nil, nil, valuationDate))

	bad := []swap.Payment{{Payer: "A", Receiver: "B", Amount: swap.NewMoney(1, "AUD")}}
	require.ErrorIs(t, swap.UpdatePaymentAmounts(bad, discount, valuationDate), swap.ErrStructuralMismatch)
	assert.Zero(t, bad[0].DiscountFactor)
}
