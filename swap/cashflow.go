package swap

import (
	"fmt"
	"time"

	"github.com/meenmo/swapleg/calendar"
	"github.com/meenmo/swapleg/schedule"
)

// GetCashflows generates the payment calculation periods of s.
//
// Accrual periods come from the schedule generator on the stream's accrual
// calendar (paymentCalendar when unset). Stubs are paid on their own; regular
// periods are grouped by PaymentFrequency/CalculationFrequency, and a term
// payment frequency settles the whole leg at once. Notionals,
// rates and spreads are filled from the step schedules as Computed values and
// principal exchanges are laid out from the exchange flags. Amounts stay zero
// until UpdateCashflowsAmounts runs.
func GetCashflows(s *Stream, fixingCalendar, paymentCalendar calendar.Calendar) (Cashflows, error) {
	if s == nil {
		return Cashflows{}, fmt.Errorf("GetCashflows: %w: nil stream", ErrConfiguration)
	}
	if isNilInterface(paymentCalendar) {
		paymentCalendar = nil
	}
	if isNilInterface(fixingCalendar) {
		fixingCalendar = paymentCalendar
	}
	accrualCalendar := s.AccrualCalendar
	if isNilInterface(accrualCalendar) {
		accrualCalendar = paymentCalendar
	}

	res, err := schedule.GenerateAdjustedCalculationPeriods(
		s.EffectiveDate, s.TerminationDate, s.FirstRegularPeriodStartDate,
		s.CalculationFrequency, s.AccrualConvention,
		s.InitialStub, s.FinalStub,
		accrualCalendar,
	)
	if err != nil {
		return Cashflows{}, fmt.Errorf("GetCashflows: %w", err)
	}

	groupSize, ok := s.PaymentFrequency.Multiple(s.CalculationFrequency)
	if !ok || groupSize < 0 {
		return Cashflows{}, fmt.Errorf("GetCashflows: %w: payment frequency %s is not a multiple of calculation frequency %s",
			ErrConfiguration, s.PaymentFrequency, s.CalculationFrequency)
	}

	var pcps []PaymentCalculationPeriod
	var group []schedule.Period
	flush := func() error {
		if len(group) == 0 {
			return nil
		}
		pcp, err := s.newPaymentPeriod(group, fixingCalendar, paymentCalendar)
		if err != nil {
			return err
		}
		pcps = append(pcps, pcp)
		group = nil
		return nil
	}
	// groupSize 0 is a term payment: every period, stubs included, settles once.
	for _, p := range res.Periods {
		if p.Kind != schedule.Regular && groupSize > 0 {
			if err := flush(); err != nil {
				return Cashflows{}, fmt.Errorf("GetCashflows: %w", err)
			}
			group = append(group, p)
			if err := flush(); err != nil {
				return Cashflows{}, fmt.Errorf("GetCashflows: %w", err)
			}
			continue
		}
		group = append(group, p)
		if len(group) == groupSize {
			if err := flush(); err != nil {
				return Cashflows{}, fmt.Errorf("GetCashflows: %w", err)
			}
		}
	}
	if err := flush(); err != nil {
		return Cashflows{}, fmt.Errorf("GetCashflows: %w", err)
	}

	cfs := Cashflows{PaymentCalculationPeriods: pcps}
	cfs.PrincipalExchanges = principalExchanges(s.PrincipalExchange, pcps)
	return cfs, nil
}

func (s *Stream) newPaymentPeriod(group []schedule.Period, fixingCal, paymentCal calendar.Calendar) (PaymentCalculationPeriod, error) {
	pcp := PaymentCalculationPeriod{
		CalculationPeriods: make([]CalculationPeriod, 0, len(group)),
	}
	for _, p := range group {
		cp := CalculationPeriod{
			UnadjustedStartDate: p.UnadjustedStart,
			UnadjustedEndDate:   p.UnadjustedEnd,
			AdjustedStartDate:   p.AdjustedStart,
			AdjustedEndDate:     p.AdjustedEnd,
			Kind:                p.Kind,
			Notional:            computed(s.NotionalSchedule.ValueAt(p.AdjustedStart)),
		}
		if s.LegType == LegFixed {
			cp.RateKind = FixedRate
			cp.FixedRate = computed(s.FixedRateSchedule.ValueAt(p.AdjustedStart))
		} else {
			fixing, err := shiftBusinessDays(fixingCal, p.AdjustedStart, s.FixingConvention, -s.FixingDaysOffset)
			if err != nil {
				return PaymentCalculationPeriod{}, fmt.Errorf("fixing date: %w", err)
			}
			cp.RateKind = FloatingRate
			cp.Floating = FloatingRateDefinition{
				Index:      s.Index,
				FixingDate: fixing,
				Spread:     computed(s.SpreadSchedule.ValueAt(p.AdjustedStart)),
			}
		}
		pcp.CalculationPeriods = append(pcp.CalculationPeriods, cp)
	}

	base := group[len(group)-1].UnadjustedEnd
	if s.PayRelativeTo == PayAtPeriodStart {
		base = group[0].UnadjustedStart
	}
	pay, err := shiftBusinessDays(paymentCal, base, s.PaymentConvention, s.PaymentDaysOffset)
	if err != nil {
		return PaymentCalculationPeriod{}, fmt.Errorf("payment date: %w", err)
	}
	pcp.UnadjustedPaymentDate = base
	pcp.AdjustedPaymentDate = pay
	return pcp, nil
}

// shiftBusinessDays adjusts t under conv and then moves offset business days.
func shiftBusinessDays(cal calendar.Calendar, t time.Time, conv calendar.BusinessDayConvention, offset int) (time.Time, error) {
	if cal == nil {
		if conv != calendar.NoAdjustment || offset != 0 {
			return time.Time{}, fmt.Errorf("%w: no calendar for adjustment %s with offset %d", ErrConfiguration, conv, offset)
		}
		return t, nil
	}
	return calendar.AddBusinessDays(cal, cal.Adjust(t, conv), offset), nil
}

// principalExchanges lays out the notional flows implied by flags and the
// per-period notionals of pcps. Amounts are signed from the receiver's side.
func principalExchanges(flags ExchangeFlags, pcps []PaymentCalculationPeriod) []PrincipalExchange {
	if !flags.Any() || len(pcps) == 0 {
		return nil
	}
	var cps []CalculationPeriod
	for _, pcp := range pcps {
		cps = append(cps, pcp.CalculationPeriods...)
	}
	if len(cps) == 0 {
		return nil
	}

	var out []PrincipalExchange
	if flags.Initial {
		out = append(out, PrincipalExchange{
			Kind:                InitialExchange,
			AdjustedPaymentDate: cps[0].AdjustedStartDate,
			Amount:              -cps[0].Notional.Value,
		})
	}
	if flags.Intermediate {
		for i := 1; i < len(cps); i++ {
			prev, cur := cps[i-1].Notional.Value, cps[i].Notional.Value
			if prev == cur {
				continue
			}
			out = append(out, PrincipalExchange{
				Kind:                IntermediateExchange,
				AdjustedPaymentDate: cps[i].AdjustedStartDate,
				Amount:              prev - cur,
			})
		}
	}
	if flags.Final {
		last := cps[len(cps)-1]
		out = append(out, PrincipalExchange{
			Kind:                FinalExchange,
			AdjustedPaymentDate: last.AdjustedEndDate,
			Amount:              last.Notional.Value,
		})
	}
	return out
}
