package swap

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meenmo/swapleg/calendar"
	"github.com/meenmo/swapleg/daycount"
	"github.com/meenmo/swapleg/schedule"
	"github.com/meenmo/swapleg/swap/market"
)

// Step is a schedule value effective from Date.
type Step struct {
	Date  time.Time
	Value float64
}

// StepSchedule is a step function sorted by date. Before the first step the
// first value applies.
type StepSchedule []Step

// ValueAt returns the value in force on t.
func (s StepSchedule) ValueAt(t time.Time) float64 {
	if len(s) == 0 {
		return 0
	}
	v := s[0].Value
	for _, st := range s[1:] {
		if st.Date.After(t) {
			break
		}
		v = st.Value
	}
	return v
}

func newStepSchedule(start time.Time, initial float64, steps []Step) StepSchedule {
	out := make(StepSchedule, 0, len(steps)+1)
	out = append(out, Step{Date: start, Value: initial})
	for _, st := range steps {
		if !st.Date.After(start) {
			out[0].Value = st.Value
			continue
		}
		out = append(out, st)
	}
	sort.SliceStable(out[1:], func(i, j int) bool { return out[1+i].Date.Before(out[1+j].Date) })
	return out
}

// LegParameters is the caller-facing description of a leg. Conventions are
// string codes; GenerateStreamDefinition parses them once.
type LegParameters struct {
	Payer    string
	Receiver string
	LegType  string // FIXED | FLOATING
	Currency string

	Notional      float64
	NotionalSteps []Step

	EffectiveDate               time.Time
	MaturityDate                time.Time
	FirstRegularPeriodStartDate time.Time

	PaymentFrequency     string // e.g. 6M
	CalculationFrequency string // defaults to PaymentFrequency
	RollConvention       string // 1..30, EOM, NONE
	InitialStubType      string
	FinalStubType        string
	DayCount             string

	AccrualBusinessDayAdjustment string // defaults to the payment adjustment
	PaymentBusinessDayAdjustment string
	FixingBusinessDayAdjustment  string
	PayRelativeTo                string // END | START
	PaymentDaysOffset            int
	FixingDaysOffset             int

	FixedRate      float64
	FixedRateSteps []Step

	FloatingRateIndex string
	Spread            float64
	SpreadSteps       []Step

	CompoundingMethod string // NONE | COMPOUNDING
	DiscountingType   string // NONE | FRA

	InitialExchange      bool
	IntermediateExchange bool
	FinalExchange        bool

	DiscountCurve string // curve role, defaults to "discount"
	ForecastCurve string // curve role, defaults to "forecast"

	AccrualCalendar calendar.Calendar
	PaymentCalendar calendar.Calendar
	FixingCalendar  calendar.Calendar
}

// GenerateStreamDefinition validates p and parses every convention code. The
// returned stream has no cashflows yet; see GetCashflows and GenerateStream.
func GenerateStreamDefinition(p LegParameters) (*Stream, error) {
	s, err := parseLeg(p)
	if err != nil {
		return nil, fmt.Errorf("GenerateStreamDefinition: %w", err)
	}
	return s, nil
}

// GenerateStream builds the definition and its cashflows using the calendars in p.
func GenerateStream(p LegParameters) (*Stream, error) {
	s, err := GenerateStreamDefinition(p)
	if err != nil {
		return nil, err
	}
	cfs, err := GetCashflows(s, s.FixingCalendar, s.PaymentCalendar)
	if err != nil {
		return nil, err
	}
	s.Cashflows = cfs
	return s, nil
}

// GenerateSwap builds one stream per leg.
func GenerateSwap(legs ...LegParameters) (*Swap, error) {
	if len(legs) < 2 {
		return nil, fmt.Errorf("GenerateSwap: %w: a swap needs at least two legs, got %d", ErrConfiguration, len(legs))
	}
	sw := &Swap{ID: uuid.NewString(), Streams: make([]*Stream, 0, len(legs))}
	for i, leg := range legs {
		s, err := GenerateStream(leg)
		if err != nil {
			return nil, fmt.Errorf("GenerateSwap: leg %d: %w", i, err)
		}
		sw.Streams = append(sw.Streams, s)
	}
	return sw, nil
}

func parseLeg(p LegParameters) (*Stream, error) {
	s := &Stream{
		ID:                          uuid.NewString(),
		Payer:                       strings.TrimSpace(p.Payer),
		Receiver:                    strings.TrimSpace(p.Receiver),
		Currency:                    strings.ToUpper(strings.TrimSpace(p.Currency)),
		EffectiveDate:               p.EffectiveDate,
		TerminationDate:             p.MaturityDate,
		FirstRegularPeriodStartDate: p.FirstRegularPeriodStartDate,
		PaymentDaysOffset:           p.PaymentDaysOffset,
		FixingDaysOffset:            p.FixingDaysOffset,
		AccrualCalendar:             p.AccrualCalendar,
		PaymentCalendar:             p.PaymentCalendar,
		FixingCalendar:              p.FixingCalendar,
		PrincipalExchange: ExchangeFlags{
			Initial:      p.InitialExchange,
			Intermediate: p.IntermediateExchange,
			Final:        p.FinalExchange,
		},
		DiscountCurveRole: market.RoleDiscount,
		ForecastCurveRole: market.RoleForecast,
	}
	if r := strings.TrimSpace(p.DiscountCurve); r != "" {
		s.DiscountCurveRole = market.CurveRole(r)
	}
	if r := strings.TrimSpace(p.ForecastCurve); r != "" {
		s.ForecastCurveRole = market.CurveRole(r)
	}

	if s.Payer == "" || s.Receiver == "" {
		return nil, fmt.Errorf("%w: payer and receiver are required", ErrConfiguration)
	}
	if s.Payer == s.Receiver {
		return nil, fmt.Errorf("%w: payer and receiver are both %q", ErrConfiguration, s.Payer)
	}
	if s.Currency == "" {
		return nil, fmt.Errorf("%w: currency is required", ErrConfiguration)
	}
	if p.EffectiveDate.IsZero() || p.MaturityDate.IsZero() {
		return nil, fmt.Errorf("%w: effective and maturity dates are required", ErrConfiguration)
	}
	if !p.EffectiveDate.Before(p.MaturityDate) {
		return nil, fmt.Errorf("%w: maturity %s not after effective %s", ErrConfiguration,
			p.MaturityDate.Format("2006-01-02"), p.EffectiveDate.Format("2006-01-02"))
	}
	if !(p.Notional > 0) || math.IsInf(p.Notional, 0) {
		return nil, fmt.Errorf("%w: notional must be positive, got %g", ErrConfiguration, p.Notional)
	}
	for _, st := range p.NotionalSteps {
		if !(st.Value > 0) {
			return nil, fmt.Errorf("%w: notional step on %s must be positive", ErrConfiguration, st.Date.Format("2006-01-02"))
		}
	}

	var err error
	switch strings.ToUpper(strings.TrimSpace(p.LegType)) {
	case "FIXED":
		s.LegType = LegFixed
	case "FLOATING", "FLOAT":
		s.LegType = LegFloating
		s.Index = market.ReferenceIndex(strings.TrimSpace(p.FloatingRateIndex))
		if s.Index == "" {
			return nil, fmt.Errorf("%w: floating leg needs a rate index", ErrConfiguration)
		}
	default:
		return nil, fmt.Errorf("%w: unknown leg type %q", ErrConfiguration, p.LegType)
	}

	if s.PaymentFrequency, err = schedule.ParseFrequency(p.PaymentFrequency); err != nil {
		return nil, fmt.Errorf("%w: payment frequency: %v", ErrConfiguration, err)
	}
	calcCode := p.CalculationFrequency
	if strings.TrimSpace(calcCode) == "" {
		calcCode = p.PaymentFrequency
	}
	if s.CalculationFrequency, err = schedule.ParseFrequency(calcCode); err != nil {
		return nil, fmt.Errorf("%w: calculation frequency: %v", ErrConfiguration, err)
	}
	roll, err := schedule.ParseRollConvention(p.RollConvention)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	s.CalculationFrequency = s.CalculationFrequency.WithRoll(roll)
	s.PaymentFrequency = s.PaymentFrequency.WithRoll(roll)
	if _, ok := s.PaymentFrequency.Multiple(s.CalculationFrequency); !ok {
		return nil, fmt.Errorf("%w: payment frequency %s is not a multiple of calculation frequency %s",
			ErrConfiguration, s.PaymentFrequency, s.CalculationFrequency)
	}

	if s.InitialStub, err = schedule.ParseStubType(p.InitialStubType); err != nil {
		return nil, fmt.Errorf("%w: initial stub: %v", ErrConfiguration, err)
	}
	if s.FinalStub, err = schedule.ParseStubType(p.FinalStubType); err != nil {
		return nil, fmt.Errorf("%w: final stub: %v", ErrConfiguration, err)
	}
	if s.DayCount, err = daycount.Parse(p.DayCount); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	if s.PaymentConvention, err = calendar.ParseBusinessDayConvention(p.PaymentBusinessDayAdjustment); err != nil {
		return nil, fmt.Errorf("%w: payment adjustment: %v", ErrConfiguration, err)
	}
	s.AccrualConvention = s.PaymentConvention
	if strings.TrimSpace(p.AccrualBusinessDayAdjustment) != "" {
		if s.AccrualConvention, err = calendar.ParseBusinessDayConvention(p.AccrualBusinessDayAdjustment); err != nil {
			return nil, fmt.Errorf("%w: accrual adjustment: %v", ErrConfiguration, err)
		}
	}
	if s.FixingConvention, err = calendar.ParseBusinessDayConvention(p.FixingBusinessDayAdjustment); err != nil {
		return nil, fmt.Errorf("%w: fixing adjustment: %v", ErrConfiguration, err)
	}
	if s.PayRelativeTo, err = parsePayRelativeTo(p.PayRelativeTo); err != nil {
		return nil, err
	}
	if s.Compounding, err = parseCompounding(p.CompoundingMethod); err != nil {
		return nil, err
	}
	if s.Discounting, err = parseDiscounting(p.DiscountingType); err != nil {
		return nil, err
	}

	s.NotionalSchedule = newStepSchedule(p.EffectiveDate, p.Notional, p.NotionalSteps)
	if s.LegType == LegFixed {
		s.FixedRateSchedule = newStepSchedule(p.EffectiveDate, p.FixedRate, p.FixedRateSteps)
	} else {
		s.SpreadSchedule = newStepSchedule(p.EffectiveDate, p.Spread, p.SpreadSteps)
	}
	return s, nil
}

func parsePayRelativeTo(code string) (PayRelativeTo, error) {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "", "END", "CALCULATIONPERIODENDDATE":
		return PayAtPeriodEnd, nil
	case "START", "CALCULATIONPERIODSTARTDATE":
		return PayAtPeriodStart, nil
	default:
		return "", fmt.Errorf("%w: unknown pay-relative-to %q", ErrConfiguration, code)
	}
}

func parseCompounding(code string) (CompoundingMethod, error) {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "", "NONE":
		return NoCompounding, nil
	case "COMPOUNDING", "STRAIGHT":
		return Compounding, nil
	default:
		return "", fmt.Errorf("%w: unknown compounding method %q", ErrConfiguration, code)
	}
}

func parseDiscounting(code string) (DiscountingType, error) {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "", "NONE":
		return NoDiscounting, nil
	case "FRA", "STANDARD":
		return FRADiscounting, nil
	default:
		return "", fmt.Errorf("%w: unknown discounting type %q", ErrConfiguration, code)
	}
}
