package swap

// Clone returns a deep copy.
func (c Cashflows) Clone() Cashflows {
	out := Cashflows{}
	if c.PaymentCalculationPeriods != nil {
		out.PaymentCalculationPeriods = make([]PaymentCalculationPeriod, len(c.PaymentCalculationPeriods))
		for i, pcp := range c.PaymentCalculationPeriods {
			pcp.CalculationPeriods = append([]CalculationPeriod(nil), pcp.CalculationPeriods...)
			out.PaymentCalculationPeriods[i] = pcp
		}
	}
	if c.PrincipalExchanges != nil {
		out.PrincipalExchanges = append([]PrincipalExchange(nil), c.PrincipalExchanges...)
	}
	return out
}

// Clone returns a deep copy. Calendars are shared; they are read-only.
func (s *Stream) Clone() *Stream {
	if s == nil {
		return nil
	}
	out := *s
	out.NotionalSchedule = append(StepSchedule(nil), s.NotionalSchedule...)
	out.FixedRateSchedule = append(StepSchedule(nil), s.FixedRateSchedule...)
	out.SpreadSchedule = append(StepSchedule(nil), s.SpreadSchedule...)
	out.Cashflows = s.Cashflows.Clone()
	return &out
}

// Clone returns a deep copy of the swap and its streams.
func (sw *Swap) Clone() *Swap {
	if sw == nil {
		return nil
	}
	out := &Swap{ID: sw.ID}
	if sw.Streams != nil {
		out.Streams = make([]*Stream, len(sw.Streams))
		for i, s := range sw.Streams {
			out.Streams[i] = s.Clone()
		}
	}
	if sw.AdditionalPayments != nil {
		out.AdditionalPayments = append([]Payment(nil), sw.AdditionalPayments...)
	}
	return out
}
