package market

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/meenmo/swapleg/swap/curve"
)

// CurveRole keys a curve inside an Environment.
type CurveRole string

const (
	RoleDiscount CurveRole = "discount"
	RoleForecast CurveRole = "forecast"
	RoleFX       CurveRole = "fx"
)

// Environment is a named bundle of curves. It is immutable once built and
// may be shared across goroutines.
type Environment struct {
	id     string
	curves map[CurveRole]curve.Curve
}

// NewEnvironment copies curves into a new environment. An empty id gets a UUID.
func NewEnvironment(id string, curves map[CurveRole]curve.Curve) *Environment {
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}
	env := &Environment{
		id:     id,
		curves: make(map[CurveRole]curve.Curve, len(curves)),
	}
	for role, c := range curves {
		if c != nil {
			env.curves[role] = c
		}
	}
	return env
}

func (e *Environment) ID() string {
	return e.id
}

// Curve returns the curve registered for role.
func (e *Environment) Curve(role CurveRole) (curve.Curve, bool) {
	c, ok := e.curves[role]
	return c, ok
}

// CurveOr returns the curve for role, falling back to the fallback role.
func (e *Environment) CurveOr(role, fallback CurveRole) curve.Curve {
	if c, ok := e.curves[role]; ok {
		return c
	}
	return e.curves[fallback]
}

// DiscountCurve returns the discount curve or nil.
func (e *Environment) DiscountCurve() curve.Curve {
	return e.curves[RoleDiscount]
}

// ForecastCurve returns the default forecast curve or nil.
func (e *Environment) ForecastCurve() curve.Curve {
	return e.curves[RoleForecast]
}

// Roles lists the populated roles in sorted order.
func (e *Environment) Roles() []CurveRole {
	out := make([]CurveRole, 0, len(e.curves))
	for r := range e.curves {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
