package swap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/swapleg/swap"
)

func TestScenario_BaseSwapShape(t *testing.T) {
	t.Parallel()
	env := newTestEnvironment(t)
	sw := newBaseSwap(t, env, nil)

	require.Len(t, sw.Streams, 2)
	fixed, floating := sw.Streams[0], sw.Streams[1]
	require.Len(t, fixed.Cashflows.PaymentCalculationPeriods, 10)
	require.Len(t, floating.Cashflows.PaymentCalculationPeriods, 10)

	first := fixed.Cashflows.PaymentCalculationPeriods[0]
	assert.Equal(t, date(1994, 12, 14), first.StartDate())
	assert.Equal(t, date(1995, 6, 14), first.EndDate())
	assert.Equal(t, date(1995, 6, 14), first.AdjustedPaymentDate)
	// 182 days at 8% on ACT/360.
	assert.InDelta(t, 1_000_000*0.08*182/360, first.ForecastValue, 1e-6)
	assert.Greater(t, first.DiscountFactor, 0.0)
	assert.Less(t, first.DiscountFactor, 1.0)

	last := fixed.Cashflows.PaymentCalculationPeriods[9]
	assert.Equal(t, date(1999, 12, 14), last.EndDate())

	fl := floating.Cashflows.PaymentCalculationPeriods[0].CalculationPeriods[0].Floating
	assert.Equal(t, date(1994, 12, 12), fl.FixingDate)
	assert.False(t, fl.ObservedRate.IsOverridden())
	assert.InDelta(t, fl.ObservedRate.Value+fl.Spread.Value, fl.CalculatedRate, 1e-15)
	assert.Greater(t, fl.ObservedRate.Value, 0.07)

	// NAB pays fixed: its view is the floating PV less the fixed PV.
	assert.InDelta(t, streamPV(floating)-streamPV(fixed), partyPV(t, sw, fixedPayer), 1e-6)
	assert.InDelta(t, -partyPV(t, sw, fixedPayer), partyPV(t, sw, floatPayer), 1e-6)
	assert.Zero(t, partyPV(t, sw, "Bystander"))
}

func TestScenario_Idempotence(t *testing.T) {
	t.Parallel()
	env := newTestEnvironment(t)
	sw := newBaseSwap(t, env, nil)

	sw.Streams[0].Cashflows.PaymentCalculationPeriods[3].SetFixedRate(0.09)
	sw.Streams[1].Cashflows.PaymentCalculationPeriods[0].SetObservedRate(0.0725)
	revalue(t, sw, env)
	pv1, fv1 := partyPV(t, sw, fixedPayer), partyFV(t, sw, fixedPayer)

	revalue(t, sw, env)
	assert.Equal(t, pv1, partyPV(t, sw, fixedPayer))
	assert.Equal(t, fv1, partyFV(t, sw, fixedPayer))

	cp := sw.Streams[0].Cashflows.PaymentCalculationPeriods[3].CalculationPeriods[0]
	assert.True(t, cp.FixedRate.IsOverridden())
	assert.Equal(t, 0.09, cp.FixedRate.Value)
	obs := sw.Streams[1].Cashflows.PaymentCalculationPeriods[0].CalculationPeriods[0].Floating.ObservedRate
	assert.True(t, obs.IsOverridden())
	assert.Equal(t, 0.0725, obs.Value)
}

func TestScenario_RateMonotonicity(t *testing.T) {
	t.Parallel()
	env := newTestEnvironment(t)
	base := newBaseSwap(t, env, nil)
	basePV, baseFV := -streamPV(base.Streams[0]), -streamFV(base.Streams[0])

	shifted := func(bump float64) (float64, float64) {
		sw := base.Clone()
		for i := 0; i < 2; i++ {
			sw.Streams[0].Cashflows.PaymentCalculationPeriods[i].SetFixedRate(0.08 + bump)
		}
		revalue(t, sw, env)
		// Seen from the fixed payer.
		return -streamPV(sw.Streams[0]), -streamFV(sw.Streams[0])
	}

	upPV, upFV := shifted(0.005)
	assert.Less(t, upPV, basePV)
	assert.Less(t, upFV, baseFV)

	downPV, downFV := shifted(-0.005)
	assert.Greater(t, downPV, basePV)
	assert.Greater(t, downFV, baseFV)
}

func TestScenario_NotionalScaling(t *testing.T) {
	t.Parallel()
	env := newTestEnvironment(t)
	base := newBaseSwap(t, env, nil)

	scaled := func(f float64) [4]float64 {
		sw := base.Clone()
		for _, s := range sw.Streams {
			for i := 0; i < 2; i++ {
				s.Cashflows.PaymentCalculationPeriods[i].SetNotional(1_000_000 * f)
			}
		}
		revalue(t, sw, env)
		return [4]float64{
			streamPV(sw.Streams[0]), streamFV(sw.Streams[0]),
			streamPV(sw.Streams[1]), streamFV(sw.Streams[1]),
		}
	}
	baseline := [4]float64{
		streamPV(base.Streams[0]), streamFV(base.Streams[0]),
		streamPV(base.Streams[1]), streamFV(base.Streams[1]),
	}

	up, down := scaled(1.1), scaled(0.9)
	for i := range baseline {
		assert.Greater(t, up[i], baseline[i], "measure %d", i)
		assert.Less(t, down[i], baseline[i], "measure %d", i)
	}
}

func TestScenario_PaymentDateShift(t *testing.T) {
	t.Parallel()
	env := newTestEnvironment(t)
	base := newBaseSwap(t, env, nil)
	const days = 30

	shifted := func(n int) *swap.Swap {
		sw := base.Clone()
		for _, s := range sw.Streams {
			for i := 0; i < 2; i++ {
				pcp := &s.Cashflows.PaymentCalculationPeriods[i]
				pcp.AdjustedPaymentDate = pcp.AdjustedPaymentDate.AddDate(0, 0, n)
			}
		}
		revalue(t, sw, env)
		return sw
	}

	earlier, later := shifted(-days), shifted(days)
	for i := range base.Streams {
		assert.Greater(t, streamPV(earlier.Streams[i]), streamPV(base.Streams[i]), "stream %d earlier", i)
		assert.Less(t, streamPV(later.Streams[i]), streamPV(base.Streams[i]), "stream %d later", i)
		assert.InDelta(t, streamFV(base.Streams[i]), streamFV(earlier.Streams[i]), 1e-9)
		assert.InDelta(t, streamFV(base.Streams[i]), streamFV(later.Streams[i]), 1e-9)
	}
}

func TestScenario_PrincipalExchangeNeutrality(t *testing.T) {
	t.Parallel()
	env := newTestEnvironment(t)
	base := newBaseSwap(t, env, nil)
	withExchanges := newBaseSwap(t, env, func(fixed, floating *swap.LegParameters) {
		for _, leg := range []*swap.LegParameters{fixed, floating} {
			leg.InitialExchange = true
			leg.IntermediateExchange = true
			leg.FinalExchange = true
		}
	})

	require.Len(t, withExchanges.Streams[0].Cashflows.PrincipalExchanges, 2)
	assert.NotEqual(t, streamPV(base.Streams[0]), streamPV(withExchanges.Streams[0]))

	for _, party := range []string{fixedPayer, floatPayer} {
		assert.InDelta(t, partyPV(t, base, party), partyPV(t, withExchanges, party), 1e-9)
		assert.InDelta(t, partyFV(t, base, party), partyFV(t, withExchanges, party), 1e-9)
	}
}

func TestScenario_RemovalAsymmetry(t *testing.T) {
	t.Parallel()
	env := newTestEnvironment(t)
	base := newBaseSwap(t, env, nil)
	basePV, baseFV := partyPV(t, base, fixedPayer), partyFV(t, base, fixedPayer)
	const k = 2

	cases := []struct {
		name   string
		stream int
		fromHd bool
		higher bool
	}{
		{"fixed leg head", 0, true, true},
		{"fixed leg tail", 0, false, true},
		{"floating leg head", 1, true, false},
		{"floating leg tail", 1, false, false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			sw := base.Clone()
			cfs := &sw.Streams[tc.stream].Cashflows
			n := len(cfs.PaymentCalculationPeriods)
			if tc.fromHd {
				cfs.PaymentCalculationPeriods = cfs.PaymentCalculationPeriods[k:]
			} else {
				cfs.PaymentCalculationPeriods = cfs.PaymentCalculationPeriods[:n-k]
			}
			revalue(t, sw, env)
			pv, fv := partyPV(t, sw, fixedPayer), partyFV(t, sw, fixedPayer)
			if tc.higher {
				assert.Greater(t, pv, basePV)
				assert.Greater(t, fv, baseFV)
			} else {
				assert.Less(t, pv, basePV)
				assert.Less(t, fv, baseFV)
			}
		})
	}
}

func TestScenario_AddedCashflow(t *testing.T) {
	t.Parallel()
	env := newTestEnvironment(t)
	base := newBaseSwap(t, env, nil)

	sw := base.Clone()
	cfs := &sw.Streams[0].Cashflows
	extra := cfs.PaymentCalculationPeriods[len(cfs.PaymentCalculationPeriods)-1]
	extra.CalculationPeriods = append([]swap.CalculationPeriod(nil), extra.CalculationPeriods...)
	cp := &extra.CalculationPeriods[0]
	cp.AdjustedStartDate = cp.AdjustedEndDate
	cp.AdjustedEndDate = cp.AdjustedEndDate.AddDate(0, 6, 0)
	extra.AdjustedPaymentDate = cp.AdjustedEndDate
	cfs.PaymentCalculationPeriods = append(cfs.PaymentCalculationPeriods, extra)

	revalue(t, sw, env)
	assert.Len(t, sw.Streams[0].Cashflows.PaymentCalculationPeriods, 11)
	assert.Greater(t, streamFV(sw.Streams[0]), streamFV(base.Streams[0]))
	assert.Less(t, partyPV(t, sw, fixedPayer), partyPV(t, base, fixedPayer))
}

func TestScenario_SpreadChange(t *testing.T) {
	t.Parallel()
	env := newTestEnvironment(t)
	base := newBaseSwap(t, env, nil)
	wider := newBaseSwap(t, env, func(_, floating *swap.LegParameters) {
		floating.Spread = 0.001
	})
	assert.Greater(t, partyPV(t, wider, fixedPayer), partyPV(t, base, fixedPayer))

	sw := base.Clone()
	sw.Streams[1].Cashflows.PaymentCalculationPeriods[0].SetSpread(-0.002)
	revalue(t, sw, env)
	assert.Less(t, partyPV(t, sw, fixedPayer), partyPV(t, base, fixedPayer))
	fl := sw.Streams[1].Cashflows.PaymentCalculationPeriods[0].CalculationPeriods[0].Floating
	assert.InDelta(t, fl.ObservedRate.Value-0.002, fl.CalculatedRate, 1e-15)
}

func TestScenario_FloatingToFixedConversion(t *testing.T) {
	t.Parallel()
	env := newTestEnvironment(t)
	base := newBaseSwap(t, env, nil)

	sw := base.Clone()
	pcp := &sw.Streams[1].Cashflows.PaymentCalculationPeriods[0]
	pcp.SetFixedRate(0.08)
	revalue(t, sw, env)

	cp := sw.Streams[1].Cashflows.PaymentCalculationPeriods[0].CalculationPeriods[0]
	assert.Equal(t, swap.FixedRate, cp.RateKind)
	assert.Equal(t, 0.08, cp.Rate())
	// Same rate, notional and dates as the first fixed coupon.
	assert.InDelta(t, sw.Streams[0].Cashflows.PaymentCalculationPeriods[0].ForecastValue,
		sw.Streams[1].Cashflows.PaymentCalculationPeriods[0].ForecastValue, 1e-6)
}

func TestScenario_FixedConversionUndone(t *testing.T) {
	t.Parallel()
	env := newTestEnvironment(t)
	base := newBaseSwap(t, env, nil)
	fixingDate := base.Streams[1].Cashflows.PaymentCalculationPeriods[0].CalculationPeriods[0].Floating.FixingDate

	sw := base.Clone()
	sw.Streams[1].Cashflows.PaymentCalculationPeriods[0].SetFixedRate(0.08)
	revalue(t, sw, env)

	sw.Streams[1].Cashflows.PaymentCalculationPeriods[0].ResetOverrides()
	revalue(t, sw, env)

	cp := sw.Streams[1].Cashflows.PaymentCalculationPeriods[0].CalculationPeriods[0]
	assert.Equal(t, swap.FloatingRate, cp.RateKind)
	assert.Equal(t, base.Streams[1].Index, cp.Floating.Index)
	assert.Equal(t, fixingDate, cp.Floating.FixingDate)
	assert.InDelta(t, streamPV(base.Streams[1]), streamPV(sw.Streams[1]), 1e-9)
	assert.InDelta(t, partyPV(t, base, fixedPayer), partyPV(t, sw, fixedPayer), 1e-9)
}

func TestScenario_BulletPayments(t *testing.T) {
	t.Parallel()
	env := newTestEnvironment(t)
	base := newBaseSwap(t, env, nil)

	sw := base.Clone()
	sw.AdditionalPayments = []swap.Payment{{
		Payer:       fixedPayer,
		Receiver:    floatPayer,
		PaymentDate: date(1995, 1, 16),
		Amount:      swap.NewMoney(10_000, "AUD"),
	}}
	revalue(t, sw, env)

	p := sw.AdditionalPayments[0]
	assert.Greater(t, p.DiscountFactor, 0.99)
	assert.InDelta(t, 10_000*p.DiscountFactor, p.PresentValue, 1e-9)
	assert.InDelta(t, partyPV(t, base, fixedPayer)-p.PresentValue, partyPV(t, sw, fixedPayer), 1e-6)
	assert.InDelta(t, partyFV(t, base, fixedPayer)-10_000, partyFV(t, sw, fixedPayer), 1e-6)
	assert.InDelta(t, partyPV(t, base, floatPayer)+p.PresentValue, partyPV(t, sw, floatPayer), 1e-6)
}
