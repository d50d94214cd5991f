package swaps

import (
	"fmt"
	"time"

	"github.com/meenmo/swapleg/calendar"
	"github.com/meenmo/swapleg/swap"
	"github.com/meenmo/swapleg/swap/market"
)

// IRSPreset groups the fixed and floating leg conventions of a vanilla
// fixed-vs-floating swap. Parties, dates, notional and calendars are left
// blank; Vanilla fills them in.
type IRSPreset struct {
	Name     string
	FixedLeg swap.LegParameters
	FloatLeg swap.LegParameters
}

// Preset leg conventions.
var (
	AUDFixedSemi = swap.LegParameters{
		LegType:                      "FIXED",
		Currency:                     "AUD",
		PaymentFrequency:             "6M",
		DayCount:                     "ACT/365F",
		PaymentBusinessDayAdjustment: "MODFOLLOWING",
	}

	AUDLIBOR3MFloat = swap.LegParameters{
		LegType:                      "FLOATING",
		Currency:                     "AUD",
		PaymentFrequency:             "3M",
		DayCount:                     "ACT/365F",
		PaymentBusinessDayAdjustment: "MODFOLLOWING",
		FixingBusinessDayAdjustment:  "MODFOLLOWING",
		FloatingRateIndex:            string(market.AUDLIBOR3M),
	}

	AUDBBSW6MFloat = swap.LegParameters{
		LegType:                      "FLOATING",
		Currency:                     "AUD",
		PaymentFrequency:             "6M",
		DayCount:                     "ACT/365F",
		PaymentBusinessDayAdjustment: "MODFOLLOWING",
		FixingBusinessDayAdjustment:  "MODFOLLOWING",
		FloatingRateIndex:            string(market.AUDBBSW),
	}

	EURFixedAnnual = swap.LegParameters{
		LegType:                      "FIXED",
		Currency:                     "EUR",
		PaymentFrequency:             "1Y",
		DayCount:                     "30E/360",
		PaymentBusinessDayAdjustment: "MODFOLLOWING",
	}

	EURIBOR3MFloat = swap.LegParameters{
		LegType:                      "FLOATING",
		Currency:                     "EUR",
		PaymentFrequency:             "3M",
		DayCount:                     "ACT/360",
		PaymentBusinessDayAdjustment: "MODFOLLOWING",
		FixingBusinessDayAdjustment:  "PRECEDING",
		FixingDaysOffset:             2,
		FloatingRateIndex:            string(market.EURIBOR3M),
	}

	EURIBOR6MFloat = swap.LegParameters{
		LegType:                      "FLOATING",
		Currency:                     "EUR",
		PaymentFrequency:             "6M",
		DayCount:                     "ACT/360",
		PaymentBusinessDayAdjustment: "MODFOLLOWING",
		FixingBusinessDayAdjustment:  "PRECEDING",
		FixingDaysOffset:             2,
		FloatingRateIndex:            string(market.EURIBOR6M),
	}

	// ESTR and SOFR legs pay annually, compounding daily fixings; here the
	// compounded rate is forecast over each annual period in one step.
	ESTRFixed = swap.LegParameters{
		LegType:                      "FIXED",
		Currency:                     "EUR",
		PaymentFrequency:             "1Y",
		DayCount:                     "ACT/360",
		PaymentBusinessDayAdjustment: "MODFOLLOWING",
		PaymentDaysOffset:            1,
	}

	ESTRFloat = swap.LegParameters{
		LegType:                      "FLOATING",
		Currency:                     "EUR",
		PaymentFrequency:             "1Y",
		DayCount:                     "ACT/360",
		PaymentBusinessDayAdjustment: "MODFOLLOWING",
		PaymentDaysOffset:            1,
		FloatingRateIndex:            string(market.ESTR),
	}

	SOFRFixed = swap.LegParameters{
		LegType:                      "FIXED",
		Currency:                     "USD",
		PaymentFrequency:             "1Y",
		DayCount:                     "ACT/360",
		PaymentBusinessDayAdjustment: "MODFOLLOWING",
		PaymentDaysOffset:            2,
	}

	SOFRFloat = swap.LegParameters{
		LegType:                      "FLOATING",
		Currency:                     "USD",
		PaymentFrequency:             "1Y",
		DayCount:                     "ACT/360",
		PaymentBusinessDayAdjustment: "MODFOLLOWING",
		PaymentDaysOffset:            2,
		FloatingRateIndex:            string(market.SOFR),
	}
)

var presets = map[string]IRSPreset{
	"AUD-LIBOR-3M": {Name: "AUD-LIBOR-3M", FixedLeg: AUDFixedSemi, FloatLeg: AUDLIBOR3MFloat},
	"AUD-BBSW-6M":  {Name: "AUD-BBSW-6M", FixedLeg: AUDFixedSemi, FloatLeg: AUDBBSW6MFloat},
	"EURIBOR3M":    {Name: "EURIBOR3M", FixedLeg: EURFixedAnnual, FloatLeg: EURIBOR3MFloat},
	"EURIBOR6M":    {Name: "EURIBOR6M", FixedLeg: EURFixedAnnual, FloatLeg: EURIBOR6MFloat},
	"ESTR":         {Name: "ESTR", FixedLeg: ESTRFixed, FloatLeg: ESTRFloat},
	"SOFR":         {Name: "SOFR", FixedLeg: SOFRFixed, FloatLeg: SOFRFloat},
}

// Preset looks a vanilla preset up by name.
func Preset(name string) (IRSPreset, error) {
	p, ok := presets[name]
	if !ok {
		return IRSPreset{}, fmt.Errorf("%w: unknown swap preset %q", swap.ErrConfiguration, name)
	}
	return p, nil
}

// VanillaTerms are the trade specific terms of a vanilla swap.
type VanillaTerms struct {
	FixedPayer    string
	FloatPayer    string
	EffectiveDate time.Time
	MaturityDate  time.Time
	Notional      float64
	FixedRate     float64
	Spread        float64
	// Calendar is used for accrual, payment and fixing adjustments on both legs.
	Calendar calendar.Calendar
}

// Vanilla fills t into the preset and returns the fixed and floating legs.
func Vanilla(p IRSPreset, t VanillaTerms) (fixedLeg, floatLeg swap.LegParameters) {
	fixedLeg, floatLeg = p.FixedLeg, p.FloatLeg

	fixedLeg.Payer, fixedLeg.Receiver = t.FixedPayer, t.FloatPayer
	floatLeg.Payer, floatLeg.Receiver = t.FloatPayer, t.FixedPayer
	for _, leg := range []*swap.LegParameters{&fixedLeg, &floatLeg} {
		leg.EffectiveDate = t.EffectiveDate
		leg.MaturityDate = t.MaturityDate
		leg.Notional = t.Notional
		leg.AccrualCalendar = t.Calendar
		leg.PaymentCalendar = t.Calendar
		leg.FixingCalendar = t.Calendar
	}
	fixedLeg.FixedRate = t.FixedRate
	floatLeg.Spread = t.Spread
	return fixedLeg, floatLeg
}
