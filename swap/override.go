package swap

import "github.com/meenmo/swapleg/swap/market"

// SetNotional pins the notional of the calculation period.
func (cp *CalculationPeriod) SetNotional(n float64) {
	cp.Notional = overridden(n)
}

// SetFixedRate pins a fixed coupon. A floating period becomes a fixed one;
// its fixing date is kept so ResetOverrides can turn it back.
func (cp *CalculationPeriod) SetFixedRate(r float64) {
	cp.RateKind = FixedRate
	cp.FixedRate = overridden(r)
	cp.Floating = FloatingRateDefinition{FixingDate: cp.Floating.FixingDate}
}

// SetSpread pins the spread of a floating period.
func (cp *CalculationPeriod) SetSpread(s float64) {
	cp.Floating.Spread = overridden(s)
}

// SetObservedRate fixes the index rate of a floating period so it is no
// longer forecast off the curve.
func (cp *CalculationPeriod) SetObservedRate(r float64) {
	cp.Floating.ObservedRate = overridden(r)
}

// SetFloating turns the period into a floating one on index with every
// floating field left Computed.
func (cp *CalculationPeriod) SetFloating(index market.ReferenceIndex) {
	cp.RateKind = FloatingRate
	cp.FixedRate = Field{}
	cp.Floating = FloatingRateDefinition{Index: index, FixingDate: cp.Floating.FixingDate}
}

// ResetOverrides hands every field back to valuation. A floating period
// converted by SetFixedRate is restored to its stream's index on the next
// valuation.
func (cp *CalculationPeriod) ResetOverrides() {
	cp.Notional.Source = Computed
	cp.FixedRate.Source = Computed
	cp.Floating.Spread.Source = Computed
	cp.Floating.ObservedRate.Source = Computed
}

// SetNotional pins the notional of every calculation period in the payment period.
func (p *PaymentCalculationPeriod) SetNotional(n float64) {
	for i := range p.CalculationPeriods {
		p.CalculationPeriods[i].SetNotional(n)
	}
}

// SetFixedRate pins the coupon of every calculation period in the payment period.
func (p *PaymentCalculationPeriod) SetFixedRate(r float64) {
	for i := range p.CalculationPeriods {
		p.CalculationPeriods[i].SetFixedRate(r)
	}
}

// SetSpread pins the spread of every calculation period in the payment period.
func (p *PaymentCalculationPeriod) SetSpread(s float64) {
	for i := range p.CalculationPeriods {
		p.CalculationPeriods[i].SetSpread(s)
	}
}

// SetObservedRate fixes the index rate of every calculation period in the payment period.
func (p *PaymentCalculationPeriod) SetObservedRate(r float64) {
	for i := range p.CalculationPeriods {
		p.CalculationPeriods[i].SetObservedRate(r)
	}
}

// ResetOverrides hands every calculation period back to valuation.
func (p *PaymentCalculationPeriod) ResetOverrides() {
	for i := range p.CalculationPeriods {
		p.CalculationPeriods[i].ResetOverrides()
	}
}
