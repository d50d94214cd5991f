package swap

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/meenmo/swapleg/swap/config"
	"github.com/meenmo/swapleg/swap/curve"
	"github.com/meenmo/swapleg/swap/market"
)

// Valuer values streams and swaps under one configuration. It holds no
// mutable state and may be shared across goroutines.
type Valuer struct {
	cfg config.Config
	log zerolog.Logger
}

// NewValuer creates a valuer. Invalid settings fall back to DefaultConfig values.
func NewValuer(cfg config.Config, log zerolog.Logger) *Valuer {
	if cfg.PastCashflows == "" {
		cfg.PastCashflows = config.DefaultConfig.PastCashflows
	}
	if cfg.Workers <= 0 {
		cfg.Workers = config.DefaultConfig.Workers
	}
	if cfg.MinDiscountFactor < 0 {
		cfg.MinDiscountFactor = config.DefaultConfig.MinDiscountFactor
	}
	return &Valuer{
		cfg: cfg,
		log: log.With().Str("component", "swap_valuer").Logger(),
	}
}

// Config returns the effective configuration.
func (v *Valuer) Config() config.Config {
	return v.cfg
}

var defaultValuer = NewValuer(config.DefaultConfig, zerolog.Nop())

// UpdateCashflowsAmounts values s with the default configuration.
func UpdateCashflowsAmounts(s *Stream, forecast, discount curve.Curve, valuationDate time.Time) error {
	return defaultValuer.UpdateCashflowsAmounts(s, forecast, discount, valuationDate)
}

// UpdatePaymentAmounts discounts bullet payments with the default configuration.
func UpdatePaymentAmounts(payments []Payment, discount curve.Curve, valuationDate time.Time) error {
	return defaultValuer.UpdatePaymentAmounts(payments, discount, valuationDate)
}

// ValueSwap values sw in env with the default configuration.
func ValueSwap(sw *Swap, env *market.Environment, valuationDate time.Time) error {
	return defaultValuer.ValueSwap(sw, env, valuationDate)
}

// curvesFor resolves the curves of a stream. A floating stream on the default
// forecast role first looks for an index specific curve.
func curvesFor(s *Stream, env *market.Environment) (forecast, discount curve.Curve) {
	discount = env.CurveOr(s.DiscountCurveRole, market.RoleDiscount)
	role := s.ForecastCurveRole
	if role == market.RoleForecast && s.Index != "" {
		if c, ok := env.Curve(market.ForecastRole(s.Index)); ok {
			return c, discount
		}
	}
	return env.CurveOr(role, market.RoleForecast), discount
}

// paymentCurve discounts additional payments: the environment's discount
// curve, else the discount curve of the first stream.
func paymentCurve(streams []*Stream, env *market.Environment) curve.Curve {
	if c := env.DiscountCurve(); !isNilInterface(c) || len(streams) == 0 {
		return c
	}
	_, discount := curvesFor(streams[0], env)
	return discount
}

// ValueSwap values every stream and additional payment of sw. Nothing is
// written back unless all of them value.
func (v *Valuer) ValueSwap(sw *Swap, env *market.Environment, valuationDate time.Time) error {
	if sw == nil {
		return fmt.Errorf("ValueSwap: %w: nil swap", ErrStructuralMismatch)
	}
	if env == nil {
		return fmt.Errorf("ValueSwap: %w: nil market environment", ErrMissingCurve)
	}

	clones := make([]*Stream, len(sw.Streams))
	for i, s := range sw.Streams {
		if s == nil {
			return fmt.Errorf("ValueSwap: %w: stream %d is nil", ErrStructuralMismatch, i)
		}
		c := s.Clone()
		forecast, discount := curvesFor(c, env)
		if err := v.UpdateCashflowsAmounts(c, forecast, discount, valuationDate); err != nil {
			return fmt.Errorf("ValueSwap: stream %d: %w", i, err)
		}
		clones[i] = c
	}
	payments := append([]Payment(nil), sw.AdditionalPayments...)
	if err := v.UpdatePaymentAmounts(payments, paymentCurve(clones, env), valuationDate); err != nil {
		return fmt.Errorf("ValueSwap: %w", err)
	}

	for i, c := range clones {
		*sw.Streams[i] = *c
	}
	copy(sw.AdditionalPayments, payments)
	v.log.Debug().Str("swap", sw.ID).Str("environment", env.ID()).Msg("swap valued")
	return nil
}

// ValueSwaps values independent swaps concurrently, at most cfg.Workers at a
// time. The swaps must not share streams. The first error cancels the rest.
func (v *Valuer) ValueSwaps(ctx context.Context, swaps []*Swap, env *market.Environment, valuationDate time.Time) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(v.cfg.Workers)
	for i, sw := range swaps {
		i, sw := i, sw
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := v.ValueSwap(sw, env, valuationDate); err != nil {
				return fmt.Errorf("ValueSwaps: swap %d: %w", i, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// NewValuedSwap generates a swap from legs and values it in env.
func (v *Valuer) NewValuedSwap(env *market.Environment, valuationDate time.Time, legs ...LegParameters) (*Swap, error) {
	sw, err := GenerateSwap(legs...)
	if err != nil {
		return nil, err
	}
	if err := v.ValueSwap(sw, env, valuationDate); err != nil {
		return nil, err
	}
	v.log.Debug().Str("swap", sw.ID).Int("streams", len(sw.Streams)).Msg("swap generated")
	return sw, nil
}
