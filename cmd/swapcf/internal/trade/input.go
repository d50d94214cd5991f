// Package trade decodes swapcf trade files into swaps and market environments.
package trade

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/meenmo/swapleg/calendar"
	"github.com/meenmo/swapleg/daycount"
	"github.com/meenmo/swapleg/swap"
	"github.com/meenmo/swapleg/swap/curve"
	"github.com/meenmo/swapleg/swap/market"
	"github.com/meenmo/swapleg/utils"
)

// Input is a trade file. JSON is accepted as well since it is valid YAML.
type Input struct {
	TaskID             string                `yaml:"task_id"`
	ValuationDate      string                `yaml:"valuation_date"`
	Holidays           map[string][]string   `yaml:"holidays"`
	Curves             map[string]CurveInput `yaml:"curves"`
	Legs               []LegInput            `yaml:"legs"`
	AdditionalPayments []PaymentInput        `yaml:"additional_payments"`
}

// CurveInput describes one curve. Exactly one of FlatRate, ZeroRates and
// DiscountFactors is set. Pillar keys are ISO dates or tenors ("6M", "10Y").
type CurveInput struct {
	Settlement      string             `yaml:"settlement"`
	FlatRate        *float64           `yaml:"flat_rate"`
	ZeroRates       map[string]float64 `yaml:"zero_rates"`
	DiscountFactors map[string]float64 `yaml:"discount_factors"`
	ForwardBasis    string             `yaml:"forward_basis"`
}

// StepInput is a dated schedule step.
type StepInput struct {
	Date  string  `yaml:"date"`
	Value float64 `yaml:"value"`
}

// LegInput mirrors swap.LegParameters with text dates and calendar ids.
// Calendars combine with "+", e.g. "AUSY+GBLO".
type LegInput struct {
	Payer    string  `yaml:"payer"`
	Receiver string  `yaml:"receiver"`
	LegType  string  `yaml:"leg_type"`
	Currency string  `yaml:"currency"`
	Notional float64 `yaml:"notional"`

	NotionalSteps []StepInput `yaml:"notional_steps"`

	EffectiveDate               string `yaml:"effective_date"`
	MaturityDate                string `yaml:"maturity_date"`
	FirstRegularPeriodStartDate string `yaml:"first_regular_period_start_date"`

	PaymentFrequency     string `yaml:"payment_frequency"`
	CalculationFrequency string `yaml:"calculation_frequency"`
	RollConvention       string `yaml:"roll_convention"`
	InitialStub          string `yaml:"initial_stub"`
	FinalStub            string `yaml:"final_stub"`
	DayCount             string `yaml:"day_count"`

	AccrualAdjustment string `yaml:"accrual_adjustment"`
	PaymentAdjustment string `yaml:"payment_adjustment"`
	FixingAdjustment  string `yaml:"fixing_adjustment"`
	PayRelativeTo     string `yaml:"pay_relative_to"`
	PaymentDaysOffset int    `yaml:"payment_days_offset"`
	FixingDaysOffset  int    `yaml:"fixing_days_offset"`

	Calendar        string `yaml:"calendar"`
	PaymentCalendar string `yaml:"payment_calendar"`
	FixingCalendar  string `yaml:"fixing_calendar"`

	FixedRate      float64     `yaml:"fixed_rate"`
	FixedRateSteps []StepInput `yaml:"fixed_rate_steps"`

	FloatingRateIndex string      `yaml:"floating_rate_index"`
	Spread            float64     `yaml:"spread"`
	SpreadSteps       []StepInput `yaml:"spread_steps"`

	Compounding string `yaml:"compounding"`
	Discounting string `yaml:"discounting"`

	InitialExchange      bool `yaml:"initial_exchange"`
	IntermediateExchange bool `yaml:"intermediate_exchange"`
	FinalExchange        bool `yaml:"final_exchange"`

	DiscountCurve string `yaml:"discount_curve"`
	ForecastCurve string `yaml:"forecast_curve"`
}

// PaymentInput is an additional bullet payment.
type PaymentInput struct {
	Payer       string  `yaml:"payer"`
	Receiver    string  `yaml:"receiver"`
	PaymentDate string  `yaml:"payment_date"`
	Amount      float64 `yaml:"amount"`
	Currency    string  `yaml:"currency"`
}

// Parse decodes a trade file.
func Parse(raw []byte) (*Input, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("empty input")
	}
	var in Input
	if err := yaml.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}
	if len(in.Legs) == 0 {
		return nil, fmt.Errorf("input has no legs")
	}
	return &in, nil
}

// Trade is a decoded input ready for valuation.
type Trade struct {
	ValuationDate time.Time
	Swap          *swap.Swap
	Environment   *market.Environment
}

// Build generates the swap and its market environment. The environment is
// empty when the input carries no curves.
func (in *Input) Build() (*Trade, error) {
	vd, err := utils.ParseDate(in.ValuationDate)
	if err != nil {
		return nil, fmt.Errorf("invalid valuation_date: %w", err)
	}
	cals, err := in.calendars()
	if err != nil {
		return nil, err
	}

	legs := make([]swap.LegParameters, 0, len(in.Legs))
	for i, l := range in.Legs {
		p, err := l.parameters(cals)
		if err != nil {
			return nil, fmt.Errorf("leg %d: %w", i, err)
		}
		legs = append(legs, p)
	}
	sw, err := swap.GenerateSwap(legs...)
	if err != nil {
		return nil, err
	}
	if in.TaskID != "" {
		sw.ID = in.TaskID
	}
	for i, p := range in.AdditionalPayments {
		d, err := utils.ParseDate(p.PaymentDate)
		if err != nil {
			return nil, fmt.Errorf("additional payment %d: %w", i, err)
		}
		sw.AdditionalPayments = append(sw.AdditionalPayments, swap.Payment{
			Payer:       p.Payer,
			Receiver:    p.Receiver,
			PaymentDate: d,
			Amount:      swap.NewMoney(p.Amount, strings.ToUpper(p.Currency)),
		})
	}

	curves := make(map[market.CurveRole]curve.Curve, len(in.Curves))
	for role, ci := range in.Curves {
		c, err := ci.build(vd, role)
		if err != nil {
			return nil, fmt.Errorf("curve %s: %w", role, err)
		}
		curves[market.CurveRole(role)] = c
	}
	return &Trade{
		ValuationDate: vd,
		Swap:          sw,
		Environment:   market.NewEnvironment(in.TaskID, curves),
	}, nil
}

func (in *Input) calendars() (map[string]*calendar.HolidayCalendar, error) {
	out := make(map[string]*calendar.HolidayCalendar, len(in.Holidays))
	for id, days := range in.Holidays {
		dates := make([]time.Time, 0, len(days))
		for _, s := range days {
			d, err := utils.ParseDate(s)
			if err != nil {
				return nil, fmt.Errorf("holidays %s: %w", id, err)
			}
			dates = append(dates, d)
		}
		key := strings.ToUpper(strings.TrimSpace(id))
		out[key] = calendar.New(calendar.CalendarID(key), dates...)
	}
	return out, nil
}

// resolveCalendar maps "AUSY" or "AUSY+GBLO" onto calendars. Ids without a
// holiday list get a weekend-only calendar.
func resolveCalendar(ids string, cals map[string]*calendar.HolidayCalendar) calendar.Calendar {
	ids = strings.TrimSpace(ids)
	if ids == "" {
		return nil
	}
	var members []calendar.Calendar
	for _, id := range strings.Split(ids, "+") {
		key := strings.ToUpper(strings.TrimSpace(id))
		if key == "" {
			continue
		}
		c, ok := cals[key]
		if !ok {
			c = calendar.New(calendar.CalendarID(key))
		}
		members = append(members, c)
	}
	switch len(members) {
	case 0:
		return nil
	case 1:
		return members[0]
	default:
		return calendar.Joint(members...)
	}
}

func (l LegInput) parameters(cals map[string]*calendar.HolidayCalendar) (swap.LegParameters, error) {
	p := swap.LegParameters{
		Payer:                        l.Payer,
		Receiver:                     l.Receiver,
		LegType:                      l.LegType,
		Currency:                     l.Currency,
		Notional:                     l.Notional,
		PaymentFrequency:             l.PaymentFrequency,
		CalculationFrequency:         l.CalculationFrequency,
		RollConvention:               l.RollConvention,
		InitialStubType:              l.InitialStub,
		FinalStubType:                l.FinalStub,
		DayCount:                     l.DayCount,
		AccrualBusinessDayAdjustment: l.AccrualAdjustment,
		PaymentBusinessDayAdjustment: l.PaymentAdjustment,
		FixingBusinessDayAdjustment:  l.FixingAdjustment,
		PayRelativeTo:                l.PayRelativeTo,
		PaymentDaysOffset:            l.PaymentDaysOffset,
		FixingDaysOffset:             l.FixingDaysOffset,
		FixedRate:                    l.FixedRate,
		FloatingRateIndex:            l.FloatingRateIndex,
		Spread:                       l.Spread,
		CompoundingMethod:            l.Compounding,
		DiscountingType:              l.Discounting,
		InitialExchange:              l.InitialExchange,
		IntermediateExchange:         l.IntermediateExchange,
		FinalExchange:                l.FinalExchange,
		DiscountCurve:                l.DiscountCurve,
		ForecastCurve:                l.ForecastCurve,
	}

	var err error
	if p.EffectiveDate, err = utils.ParseDate(l.EffectiveDate); err != nil {
		return p, fmt.Errorf("effective_date: %w", err)
	}
	if p.MaturityDate, err = utils.ParseDate(l.MaturityDate); err != nil {
		return p, fmt.Errorf("maturity_date: %w", err)
	}
	if strings.TrimSpace(l.FirstRegularPeriodStartDate) != "" {
		if p.FirstRegularPeriodStartDate, err = utils.ParseDate(l.FirstRegularPeriodStartDate); err != nil {
			return p, fmt.Errorf("first_regular_period_start_date: %w", err)
		}
	}
	if p.NotionalSteps, err = steps(l.NotionalSteps); err != nil {
		return p, fmt.Errorf("notional_steps: %w", err)
	}
	if p.FixedRateSteps, err = steps(l.FixedRateSteps); err != nil {
		return p, fmt.Errorf("fixed_rate_steps: %w", err)
	}
	if p.SpreadSteps, err = steps(l.SpreadSteps); err != nil {
		return p, fmt.Errorf("spread_steps: %w", err)
	}

	p.AccrualCalendar = resolveCalendar(l.Calendar, cals)
	p.PaymentCalendar = p.AccrualCalendar
	if l.PaymentCalendar != "" {
		p.PaymentCalendar = resolveCalendar(l.PaymentCalendar, cals)
	}
	p.FixingCalendar = p.PaymentCalendar
	if l.FixingCalendar != "" {
		p.FixingCalendar = resolveCalendar(l.FixingCalendar, cals)
	}
	return p, nil
}

func steps(in []StepInput) ([]swap.Step, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]swap.Step, 0, len(in))
	for _, s := range in {
		d, err := utils.ParseDate(s.Date)
		if err != nil {
			return nil, err
		}
		out = append(out, swap.Step{Date: d, Value: s.Value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (ci CurveInput) build(vd time.Time, role string) (curve.Curve, error) {
	settlement := vd
	if strings.TrimSpace(ci.Settlement) != "" {
		d, err := utils.ParseDate(ci.Settlement)
		if err != nil {
			return nil, fmt.Errorf("settlement: %w", err)
		}
		settlement = d
	}
	opts := []curve.Option{curve.WithName(role)}
	if strings.TrimSpace(ci.ForwardBasis) != "" {
		dc, err := daycount.Parse(ci.ForwardBasis)
		if err != nil {
			return nil, err
		}
		opts = append(opts, curve.WithForwardBasis(dc))
	}

	switch {
	case ci.FlatRate != nil:
		return curve.NewFlatCurve(settlement, *ci.FlatRate, opts...)
	case len(ci.ZeroRates) > 0:
		pillars, err := pillars(settlement, ci.ZeroRates)
		if err != nil {
			return nil, err
		}
		return curve.NewCurveFromZeroRates(settlement, pillars, opts...)
	case len(ci.DiscountFactors) > 0:
		pillars, err := pillars(settlement, ci.DiscountFactors)
		if err != nil {
			return nil, err
		}
		return curve.NewCurveFromDFs(settlement, pillars, opts...)
	default:
		return nil, fmt.Errorf("one of flat_rate, zero_rates or discount_factors is required")
	}
}

func pillars(settlement time.Time, in map[string]float64) (map[time.Time]float64, error) {
	out := make(map[time.Time]float64, len(in))
	for k, v := range in {
		d, err := curve.ParsePillar(settlement, k)
		if err != nil {
			return nil, err
		}
		out[d] = v
	}
	return out, nil
}
