package trade

import (
	"sort"
	"time"

	"github.com/meenmo/swapleg/swap"
	"github.com/meenmo/swapleg/utils"
)

// PeriodOutput is one calculation period.
type PeriodOutput struct {
	UnadjustedStart  string  `json:"unadjusted_start"`
	UnadjustedEnd    string  `json:"unadjusted_end"`
	AdjustedStart    string  `json:"adjusted_start"`
	AdjustedEnd      string  `json:"adjusted_end"`
	Kind             string  `json:"kind"`
	FixingDate       string  `json:"fixing_date,omitempty"`
	Notional         float64 `json:"notional,omitempty"`
	Rate             float64 `json:"rate,omitempty"`
	Overridden       bool    `json:"overridden,omitempty"`
	DayCountFraction float64 `json:"day_count_fraction,omitempty"`
	Interest         float64 `json:"interest,omitempty"`
}

// PaymentOutput is one payment calculation period.
type PaymentOutput struct {
	PaymentDate    string         `json:"payment_date"`
	Periods        []PeriodOutput `json:"periods"`
	DiscountFactor float64        `json:"discount_factor,omitempty"`
	ForecastValue  float64        `json:"forecast_value,omitempty"`
	PresentValue   float64        `json:"present_value,omitempty"`
}

// ExchangeOutput is one principal exchange.
type ExchangeOutput struct {
	Kind           string  `json:"kind"`
	PaymentDate    string  `json:"payment_date"`
	Amount         float64 `json:"amount"`
	DiscountFactor float64 `json:"discount_factor,omitempty"`
	PresentValue   float64 `json:"present_value,omitempty"`
}

// LegOutput is one stream.
type LegOutput struct {
	ID           string           `json:"id"`
	Payer        string           `json:"payer"`
	Receiver     string           `json:"receiver"`
	LegType      string           `json:"leg_type"`
	Currency     string           `json:"currency"`
	Payments     []PaymentOutput  `json:"payments"`
	Exchanges    []ExchangeOutput `json:"principal_exchanges,omitempty"`
	PresentValue *swap.Money      `json:"present_value,omitempty"`
	FutureValue  *swap.Money      `json:"future_value,omitempty"`
}

// PartyValue is the swap value seen by one party.
type PartyValue struct {
	Party        string     `json:"party"`
	PresentValue swap.Money `json:"present_value"`
	FutureValue  swap.Money `json:"future_value"`
}

// Output is what swapcf prints.
type Output struct {
	TaskID        string       `json:"task_id,omitempty"`
	ValuationDate string       `json:"valuation_date,omitempty"`
	Legs          []LegOutput  `json:"legs,omitempty"`
	Values        []PartyValue `json:"values,omitempty"`
	Error         string       `json:"error,omitempty"`
}

func fmtDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(utils.DateLayout)
}

// Legs renders the streams of sw. Amounts are included when valued is set.
func Legs(sw *swap.Swap, valued bool) []LegOutput {
	out := make([]LegOutput, 0, len(sw.Streams))
	for _, s := range sw.Streams {
		leg := LegOutput{
			ID:       s.ID,
			Payer:    s.Payer,
			Receiver: s.Receiver,
			LegType:  string(s.LegType),
			Currency: s.Currency,
		}
		for _, pcp := range s.Cashflows.PaymentCalculationPeriods {
			po := PaymentOutput{PaymentDate: fmtDate(pcp.AdjustedPaymentDate)}
			for _, cp := range pcp.CalculationPeriods {
				pe := PeriodOutput{
					UnadjustedStart: fmtDate(cp.UnadjustedStartDate),
					UnadjustedEnd:   fmtDate(cp.UnadjustedEndDate),
					AdjustedStart:   fmtDate(cp.AdjustedStartDate),
					AdjustedEnd:     fmtDate(cp.AdjustedEndDate),
					Kind:            cp.Kind.String(),
				}
				if cp.RateKind == swap.FloatingRate {
					pe.FixingDate = fmtDate(cp.Floating.FixingDate)
				}
				if valued {
					pe.Notional = cp.Notional.Value
					pe.Rate = cp.Rate()
					pe.Overridden = cp.Notional.IsOverridden() || cp.FixedRate.IsOverridden() ||
						cp.Floating.Spread.IsOverridden() || cp.Floating.ObservedRate.IsOverridden()
					pe.DayCountFraction = cp.DayCountFraction
					pe.Interest = cp.Interest
				}
				po.Periods = append(po.Periods, pe)
			}
			if valued {
				po.DiscountFactor = pcp.DiscountFactor
				po.ForecastValue = pcp.ForecastValue
				po.PresentValue = pcp.PresentValue
			}
			leg.Payments = append(leg.Payments, po)
		}
		for _, ex := range s.Cashflows.PrincipalExchanges {
			eo := ExchangeOutput{
				Kind:        ex.Kind.String(),
				PaymentDate: fmtDate(ex.AdjustedPaymentDate),
				Amount:      ex.Amount,
			}
			if valued {
				eo.DiscountFactor = ex.DiscountFactor
				eo.PresentValue = ex.PresentValue
			}
			leg.Exchanges = append(leg.Exchanges, eo)
		}
		if valued {
			pv, fv := s.PresentValue().Round(2), s.FutureValue().Round(2)
			leg.PresentValue, leg.FutureValue = &pv, &fv
		}
		out = append(out, leg)
	}
	return out
}

// Parties lists every payer and receiver of sw in sorted order.
func Parties(sw *swap.Swap) []string {
	seen := map[string]struct{}{}
	for _, s := range sw.Streams {
		seen[s.Payer] = struct{}{}
		seen[s.Receiver] = struct{}{}
	}
	for _, p := range sw.AdditionalPayments {
		seen[p.Payer] = struct{}{}
		seen[p.Receiver] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Values returns PV and FV for each party, rounded to cents.
func Values(sw *swap.Swap, parties []string) ([]PartyValue, error) {
	out := make([]PartyValue, 0, len(parties))
	for _, p := range parties {
		pv, err := swap.GetPresentValue(sw, p)
		if err != nil {
			return nil, err
		}
		fv, err := swap.GetFutureValue(sw, p)
		if err != nil {
			return nil, err
		}
		out = append(out, PartyValue{Party: p, PresentValue: pv.Round(2), FutureValue: fv.Round(2)})
	}
	return out, nil
}
