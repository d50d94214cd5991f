package swap

import (
	"errors"
	"reflect"

	"github.com/meenmo/swapleg/schedule"
)

var (
	// ErrConfiguration marks contradictory leg parameters or unknown convention codes.
	ErrConfiguration = schedule.ErrConfiguration
	// ErrMissingCurve is returned when a curve needed for valuation was not supplied.
	ErrMissingCurve = errors.New("missing curve")
	// ErrStructuralMismatch is returned when caller-edited cashflows no longer
	// match the structure valuation expects.
	ErrStructuralMismatch = errors.New("structural mismatch")
	// ErrArithmetic marks degenerate inputs such as zero-length accrual periods.
	ErrArithmetic = errors.New("arithmetic error")
)

func isNilInterface(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}
