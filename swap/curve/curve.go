package curve

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"

	"github.com/meenmo/swapleg/daycount"
	"github.com/meenmo/swapleg/utils"
)

// Curve is the read-only market capability consumed by valuation.
// Implementations must be safe for concurrent use once built.
type Curve interface {
	// DiscountFactor returns the value at asOf of one unit paid at date.
	DiscountFactor(asOf, date time.Time) float64
	// ForwardRate returns the simple forward rate over [start, end].
	ForwardRate(start, end time.Time) float64
}

var ErrInvalidCurve = errors.New("invalid curve")

// DiscountCurve is a pillar curve with log-linear discount factor interpolation.
type DiscountCurve struct {
	name       string
	settlement time.Time
	// timeBasis is the curve time axis; ACT/365F as in QuantLib and Bloomberg.
	timeBasis    daycount.Convention
	forwardBasis daycount.Convention

	pillars []time.Time
	times   []float64
	logDFs  []float64
	interp  interp.PiecewiseLinear
}

// Option configures a DiscountCurve.
type Option func(*DiscountCurve)

// WithForwardBasis sets the accrual basis used by ForwardRate (default ACT/365F).
func WithForwardBasis(dc daycount.Convention) Option {
	return func(c *DiscountCurve) { c.forwardBasis = dc }
}

// WithName labels the curve, e.g. "AUD-LIBOR-3M".
func WithName(name string) Option {
	return func(c *DiscountCurve) { c.name = name }
}

// NewCurveFromDFs creates a curve from discount factors keyed by pillar date.
// A settlement pillar with DF 1 is added when absent. Beyond the last pillar the
// last zero rate is held flat; before the first pillar the first zero rate is used.
func NewCurveFromDFs(settlement time.Time, dfs map[time.Time]float64, opts ...Option) (*DiscountCurve, error) {
	if len(dfs) == 0 {
		return nil, fmt.Errorf("%w: no pillars", ErrInvalidCurve)
	}
	c := &DiscountCurve{
		settlement:   settlement,
		timeBasis:    daycount.Act365F,
		forwardBasis: daycount.Act365F,
	}
	for _, o := range opts {
		o(c)
	}

	pillars := make([]time.Time, 0, len(dfs)+1)
	values := make([]float64, 0, len(dfs))
	for d, df := range dfs {
		if d.Before(settlement) {
			return nil, fmt.Errorf("%w: pillar %s before settlement %s", ErrInvalidCurve, d.Format(utils.DateLayout), settlement.Format(utils.DateLayout))
		}
		pillars = append(pillars, d)
		values = append(values, df)
	}
	if floats.HasNaN(values) || floats.Min(values) <= 0 {
		return nil, fmt.Errorf("%w: discount factors must be positive numbers", ErrInvalidCurve)
	}
	if _, ok := dfs[settlement]; !ok {
		pillars = append(pillars, settlement)
	}
	utils.SortDates(pillars)

	c.pillars = pillars
	c.times = make([]float64, len(pillars))
	c.logDFs = make([]float64, len(pillars))
	for i, d := range pillars {
		c.times[i] = c.timeBasis.YearFraction(settlement, d)
		df, ok := dfs[d]
		if !ok {
			df = 1
		}
		c.logDFs[i] = math.Log(df)
	}
	if len(pillars) < 2 {
		// Settlement only: flat at DF 1.
		c.pillars = append(c.pillars, utils.AddMonth(settlement, 12))
		c.times = append(c.times, c.timeBasis.YearFraction(settlement, c.pillars[1]))
		c.logDFs = append(c.logDFs, c.logDFs[0])
	}
	if err := c.interp.Fit(c.times, c.logDFs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCurve, err)
	}
	return c, nil
}

// NewCurveFromZeroRates builds a curve from continuously compounded zero rates
// (decimals, 0.07 == 7%) on the ACT/365F time axis.
func NewCurveFromZeroRates(settlement time.Time, zeros map[time.Time]float64, opts ...Option) (*DiscountCurve, error) {
	dfs := make(map[time.Time]float64, len(zeros))
	for d, z := range zeros {
		dfs[d] = math.Exp(-z * daycount.Act365F.YearFraction(settlement, d))
	}
	return NewCurveFromDFs(settlement, dfs, opts...)
}

// NewFlatCurve builds a curve with a constant continuously compounded zero rate.
func NewFlatCurve(settlement time.Time, zeroRate float64, opts ...Option) (*DiscountCurve, error) {
	return NewCurveFromZeroRates(settlement, map[time.Time]float64{
		utils.AddMonth(settlement, 12): zeroRate,
	}, opts...)
}

// DF returns the discount factor from settlement to t.
func (c *DiscountCurve) DF(t time.Time) float64 {
	x := c.timeBasis.YearFraction(c.settlement, t)
	last := len(c.times) - 1
	switch {
	case x > c.times[last]:
		return math.Exp(c.logDFs[last] / c.times[last] * x)
	case x < 0:
		return math.Exp(c.logDFs[1] / c.times[1] * x)
	default:
		return math.Exp(c.interp.Predict(x))
	}
}

// DiscountFactor returns DF(date)/DF(asOf).
func (c *DiscountCurve) DiscountFactor(asOf, date time.Time) float64 {
	return c.DF(date) / c.DF(asOf)
}

// ForwardRate returns (DF(start)/DF(end) - 1) / yearFraction(start, end).
func (c *DiscountCurve) ForwardRate(start, end time.Time) float64 {
	alpha := c.forwardBasis.YearFraction(start, end)
	if alpha == 0 {
		return 0
	}
	return (c.DF(start)/c.DF(end) - 1.0) / alpha
}

// ZeroRateAt returns the continuously compounded zero rate to t as a decimal.
func (c *DiscountCurve) ZeroRateAt(t time.Time) float64 {
	x := c.timeBasis.YearFraction(c.settlement, t)
	if x == 0 {
		return -c.logDFs[1] / c.times[1]
	}
	return -math.Log(c.DF(t)) / x
}

// Name returns the curve label.
func (c *DiscountCurve) Name() string {
	return c.name
}

// Settlement returns the curve's settlement date.
func (c *DiscountCurve) Settlement() time.Time {
	return c.settlement
}

// Pillars returns a copy of the pillar dates.
func (c *DiscountCurve) Pillars() []time.Time {
	out := make([]time.Time, len(c.pillars))
	copy(out, c.pillars)
	return out
}
