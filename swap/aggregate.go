package swap

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PresentValue sums the discounted coupons and principal exchanges of the
// stream, from the receiver's side.
func (s *Stream) PresentValue() Money {
	total := decimal.Zero
	for _, pcp := range s.Cashflows.PaymentCalculationPeriods {
		total = total.Add(decimal.NewFromFloat(pcp.PresentValue))
	}
	for _, pe := range s.Cashflows.PrincipalExchanges {
		total = total.Add(decimal.NewFromFloat(pe.PresentValue))
	}
	return Money{Amount: total, Currency: s.Currency}
}

// FutureValue sums the undiscounted coupons and principal exchanges.
func (s *Stream) FutureValue() Money {
	total := decimal.Zero
	for _, pcp := range s.Cashflows.PaymentCalculationPeriods {
		total = total.Add(decimal.NewFromFloat(pcp.ForecastValue))
	}
	for _, pe := range s.Cashflows.PrincipalExchanges {
		total = total.Add(decimal.NewFromFloat(pe.ForecastValue))
	}
	return Money{Amount: total, Currency: s.Currency}
}

// GetPresentValue returns the swap PV seen by party: streams and payments it
// receives add, those it pays subtract, the rest are ignored.
func GetPresentValue(sw *Swap, party string) (Money, error) {
	m, err := aggregate(sw, party,
		(*Stream).PresentValue,
		func(p Payment) decimal.Decimal { return decimal.NewFromFloat(p.PresentValue) },
	)
	if err != nil {
		return Money{}, fmt.Errorf("GetPresentValue: %w", err)
	}
	return m, nil
}

// GetFutureValue returns the undiscounted swap value seen by party.
func GetFutureValue(sw *Swap, party string) (Money, error) {
	m, err := aggregate(sw, party,
		(*Stream).FutureValue,
		func(p Payment) decimal.Decimal { return p.Amount.Amount },
	)
	if err != nil {
		return Money{}, fmt.Errorf("GetFutureValue: %w", err)
	}
	return m, nil
}

func aggregate(sw *Swap, party string, streamValue func(*Stream) Money, paymentValue func(Payment) decimal.Decimal) (Money, error) {
	if sw == nil {
		return Money{}, fmt.Errorf("%w: nil swap", ErrStructuralMismatch)
	}
	ccy, err := swapCurrency(sw)
	if err != nil {
		return Money{}, err
	}
	total := Money{Amount: decimal.Zero, Currency: ccy}
	for _, s := range sw.Streams {
		v := streamValue(s)
		switch party {
		case s.Receiver:
			total, err = total.Add(v)
		case s.Payer:
			total, err = total.Add(v.Neg())
		}
		if err != nil {
			return Money{}, err
		}
	}
	for _, p := range sw.AdditionalPayments {
		v := Money{Amount: paymentValue(p), Currency: p.Amount.Currency}
		switch party {
		case p.Receiver:
			total, err = total.Add(v)
		case p.Payer:
			total, err = total.Add(v.Neg())
		}
		if err != nil {
			return Money{}, err
		}
	}
	return total, nil
}

// swapCurrency returns the single currency of the swap.
func swapCurrency(sw *Swap) (string, error) {
	ccy := ""
	check := func(c string) error {
		if ccy == "" {
			ccy = c
			return nil
		}
		if c != ccy {
			return fmt.Errorf("%w: mixed currencies %s and %s", ErrConfiguration, ccy, c)
		}
		return nil
	}
	for i, s := range sw.Streams {
		if s == nil {
			return "", fmt.Errorf("%w: stream %d is nil", ErrStructuralMismatch, i)
		}
		if err := check(s.Currency); err != nil {
			return "", err
		}
	}
	for _, p := range sw.AdditionalPayments {
		if err := check(p.Amount.Currency); err != nil {
			return "", err
		}
	}
	return ccy, nil
}
