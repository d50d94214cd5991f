package main

import (
	"fmt"
	"os"
	"time"

	"github.com/meenmo/swapleg/calendar"
	"github.com/meenmo/swapleg/instruments/swaps"
	"github.com/meenmo/swapleg/swap"
	"github.com/meenmo/swapleg/swap/curve"
	"github.com/meenmo/swapleg/swap/market"
)

func main() {
	valuationDate := time.Date(1994, 12, 20, 0, 0, 0, 0, time.UTC)

	preset, err := swaps.Preset("AUD-LIBOR-3M")
	if err != nil {
		fail(err)
	}
	fixed, floating := swaps.Vanilla(preset, swaps.VanillaTerms{
		FixedPayer:    "NAB",
		FloatPayer:    "Counterparty",
		EffectiveDate: time.Date(1994, 12, 14, 0, 0, 0, 0, time.UTC),
		MaturityDate:  time.Date(1999, 12, 14, 0, 0, 0, 0, time.UTC),
		Notional:      1_000_000,
		FixedRate:     0.08,
		Calendar:      calendar.New(calendar.AUSY),
	})

	disc, err := curve.NewCurveFromZeroRates(valuationDate, map[time.Time]float64{
		time.Date(1995, 12, 20, 0, 0, 0, 0, time.UTC): 0.068,
		time.Date(1996, 12, 20, 0, 0, 0, 0, time.UTC): 0.071,
		time.Date(1999, 12, 20, 0, 0, 0, 0, time.UTC): 0.075,
	})
	if err != nil {
		fail(err)
	}
	env := market.NewEnvironment("AUD", map[market.CurveRole]curve.Curve{
		market.RoleDiscount: disc,
		market.RoleForecast: disc,
	})

	sw, err := swap.GenerateSwap(fixed, floating)
	if err != nil {
		fail(err)
	}
	if err := swap.ValueSwap(sw, env, valuationDate); err != nil {
		fail(err)
	}

	for _, s := range sw.Streams {
		fmt.Printf("%-8s leg  payer=%-12s PV=%s  FV=%s\n", s.LegType, s.Payer, s.PresentValue(), s.FutureValue())
	}
	pv, err := swap.GetPresentValue(sw, "NAB")
	if err != nil {
		fail(err)
	}
	fmt.Printf("NPV (NAB): %s\n", pv)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
