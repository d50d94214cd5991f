package swap

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/meenmo/swapleg/daycount"
	"github.com/meenmo/swapleg/swap/config"
	"github.com/meenmo/swapleg/swap/curve"
)

// UpdateCashflowsAmounts values the cashflows of s as of valuationDate.
//
// Computed fields are re-derived from the stream definition and the curves;
// Overridden fields are used as they are. Principal exchanges are rebuilt
// from the exchange flags and the effective notionals. The stream is only
// modified when the whole update succeeds.
func (v *Valuer) UpdateCashflowsAmounts(s *Stream, forecast, discount curve.Curve, valuationDate time.Time) error {
	if s == nil {
		return fmt.Errorf("UpdateCashflowsAmounts: %w: nil stream", ErrStructuralMismatch)
	}
	if isNilInterface(discount) {
		return fmt.Errorf("UpdateCashflowsAmounts: %w: no discount curve for stream %s", ErrMissingCurve, s.ID)
	}
	if isNilInterface(forecast) {
		forecast = nil
	}
	if _, err := daycount.Parse(string(s.DayCount)); err != nil {
		return fmt.Errorf("UpdateCashflowsAmounts: %w: %v", ErrConfiguration, err)
	}

	cfs := s.Cashflows.Clone()
	for i := range cfs.PaymentCalculationPeriods {
		if err := v.updatePaymentPeriod(s, &cfs.PaymentCalculationPeriods[i], forecast, discount, valuationDate); err != nil {
			return fmt.Errorf("UpdateCashflowsAmounts: payment period %d: %w", i, err)
		}
	}

	cfs.PrincipalExchanges = principalExchanges(s.PrincipalExchange, cfs.PaymentCalculationPeriods)
	for i := range cfs.PrincipalExchanges {
		pe := &cfs.PrincipalExchanges[i]
		df, err := v.discountFactor(discount, valuationDate, pe.AdjustedPaymentDate)
		if err != nil {
			return fmt.Errorf("UpdateCashflowsAmounts: %s exchange: %w", pe.Kind, err)
		}
		pe.DiscountFactor = df
		pe.ForecastValue = pe.Amount
		pe.PresentValue = pe.Amount * df
	}

	s.Cashflows = cfs
	v.log.Debug().
		Str("stream", s.ID).
		Str("leg_type", string(s.LegType)).
		Int("payment_periods", len(cfs.PaymentCalculationPeriods)).
		Int("principal_exchanges", len(cfs.PrincipalExchanges)).
		Time("valuation_date", valuationDate).
		Msg("cashflow amounts updated")
	return nil
}

func (v *Valuer) updatePaymentPeriod(s *Stream, pcp *PaymentCalculationPeriod, forecast, discount curve.Curve, valuationDate time.Time) error {
	cps := pcp.CalculationPeriods
	if len(cps) == 0 {
		return fmt.Errorf("%w: no calculation periods", ErrStructuralMismatch)
	}
	if pcp.AdjustedPaymentDate.IsZero() {
		return fmt.Errorf("%w: no payment date", ErrStructuralMismatch)
	}
	for j := 1; j < len(cps); j++ {
		if !cps[j].AdjustedStartDate.Equal(cps[j-1].AdjustedEndDate) {
			return fmt.Errorf("%w: calculation period %d starts %s but period %d ends %s", ErrStructuralMismatch,
				j, cps[j].AdjustedStartDate.Format("2006-01-02"), j-1, cps[j-1].AdjustedEndDate.Format("2006-01-02"))
		}
	}

	interest := make([]float64, len(cps))
	for j := range cps {
		cp := &cps[j]
		if !cp.Notional.IsOverridden() {
			cp.Notional = computed(s.NotionalSchedule.ValueAt(cp.AdjustedStartDate))
		}
		tau := s.DayCount.YearFraction(cp.AdjustedStartDate, cp.AdjustedEndDate)
		if !(tau > 0) {
			return fmt.Errorf("%w: calculation period %d has year fraction %g", ErrArithmetic, j, tau)
		}
		cp.DayCountFraction = tau

		rate, err := s.periodRate(cp, forecast)
		if err != nil {
			return fmt.Errorf("calculation period %d: %w", j, err)
		}

		base := cp.Notional.Value
		if s.Compounding == Compounding {
			base += floats.Sum(interest[:j])
		}
		amt := base * rate * tau
		if s.Discounting == FRADiscounting {
			d := 1 + rate*tau
			if d == 0 {
				return fmt.Errorf("%w: calculation period %d: FRA discount denominator is zero", ErrArithmetic, j)
			}
			amt = base * (1 - 1/d)
		}
		if math.IsNaN(amt) || math.IsInf(amt, 0) {
			return fmt.Errorf("%w: calculation period %d: interest is %g", ErrArithmetic, j, amt)
		}
		cp.Interest = amt
		interest[j] = amt
	}

	amount := floats.Sum(interest)
	df, err := v.discountFactor(discount, valuationDate, pcp.AdjustedPaymentDate)
	if err != nil {
		return err
	}
	pcp.DiscountFactor = df
	pcp.ForecastValue = amount
	pcp.PresentValue = amount * df
	return nil
}

// periodRate resolves the coupon rate of cp, filling its Computed rate fields.
func (s *Stream) periodRate(cp *CalculationPeriod, forecast curve.Curve) (float64, error) {
	if cp.RateKind == FixedRate && !cp.FixedRate.IsOverridden() && s.LegType != LegFixed && s.Index != "" {
		cp.SetFloating(s.Index)
	}
	switch cp.RateKind {
	case FixedRate:
		if !cp.FixedRate.IsOverridden() {
			if s.LegType != LegFixed {
				return 0, fmt.Errorf("%w: fixed period without a rate on a %s stream", ErrStructuralMismatch, s.LegType)
			}
			cp.FixedRate = computed(s.FixedRateSchedule.ValueAt(cp.AdjustedStartDate))
		}
		return cp.FixedRate.Value, nil
	case FloatingRate:
		fl := &cp.Floating
		if fl.Index == "" {
			return 0, fmt.Errorf("%w: floating period without an index", ErrStructuralMismatch)
		}
		if !fl.Spread.IsOverridden() {
			fl.Spread = computed(s.SpreadSchedule.ValueAt(cp.AdjustedStartDate))
		}
		if !fl.ObservedRate.IsOverridden() {
			if forecast == nil {
				return 0, fmt.Errorf("%w: no forecast curve for %s", ErrMissingCurve, fl.Index)
			}
			fwd := forecast.ForwardRate(cp.AdjustedStartDate, cp.AdjustedEndDate)
			if math.IsNaN(fwd) || math.IsInf(fwd, 0) {
				return 0, fmt.Errorf("%w: forward rate for %s is %g", ErrArithmetic, fl.Index, fwd)
			}
			fl.ObservedRate = computed(fwd)
		}
		fl.CalculatedRate = fl.ObservedRate.Value + fl.Spread.Value
		return fl.CalculatedRate, nil
	default:
		return 0, fmt.Errorf("%w: unknown rate kind %d", ErrStructuralMismatch, cp.RateKind)
	}
}

// discountFactor applies the past-cashflow policy before asking the curve.
func (v *Valuer) discountFactor(c curve.Curve, valuationDate, paymentDate time.Time) (float64, error) {
	if paymentDate.Before(valuationDate) {
		if v.cfg.PastCashflows == config.IncludePast {
			return 1, nil
		}
		v.log.Debug().Time("payment_date", paymentDate).Msg("past cashflow excluded")
		return 0, nil
	}
	df := c.DiscountFactor(valuationDate, paymentDate)
	if math.IsNaN(df) || df <= v.cfg.MinDiscountFactor {
		return 0, fmt.Errorf("%w: discount factor %g on %s", ErrArithmetic, df, paymentDate.Format("2006-01-02"))
	}
	return df, nil
}

// UpdatePaymentAmounts discounts bullet payments. payments is only modified
// when every payment values.
func (v *Valuer) UpdatePaymentAmounts(payments []Payment, discount curve.Curve, valuationDate time.Time) error {
	if len(payments) == 0 {
		return nil
	}
	if isNilInterface(discount) {
		return fmt.Errorf("UpdatePaymentAmounts: %w: no discount curve", ErrMissingCurve)
	}
	out := append([]Payment(nil), payments...)
	for i := range out {
		p := &out[i]
		if p.PaymentDate.IsZero() {
			return fmt.Errorf("UpdatePaymentAmounts: payment %d: %w: no payment date", i, ErrStructuralMismatch)
		}
		df, err := v.discountFactor(discount, valuationDate, p.PaymentDate)
		if err != nil {
			return fmt.Errorf("UpdatePaymentAmounts: payment %d: %w", i, err)
		}
		p.DiscountFactor = df
		p.PresentValue = p.Amount.Float64() * df
	}
	copy(payments, out)
	return nil
}
