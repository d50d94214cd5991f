package curve

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/meenmo/swapleg/utils"
)

// TenorToDate converts tenors like "1W", "3M", "10Y", "2D" to a date from settlement.
func TenorToDate(settlement time.Time, tenor string) (time.Time, error) {
	tenor = strings.TrimSpace(strings.ToUpper(tenor))
	if len(tenor) < 2 {
		return time.Time{}, fmt.Errorf("invalid tenor %q", tenor)
	}
	v, err := strconv.Atoi(tenor[:len(tenor)-1])
	if err != nil || v < 0 {
		return time.Time{}, fmt.Errorf("invalid tenor %q", tenor)
	}
	switch tenor[len(tenor)-1] {
	case 'D':
		return settlement.AddDate(0, 0, v), nil
	case 'W':
		return settlement.AddDate(0, 0, 7*v), nil
	case 'M':
		return utils.AddMonth(settlement, v), nil
	case 'Y':
		return utils.AddMonth(settlement, 12*v), nil
	default:
		return time.Time{}, fmt.Errorf("invalid tenor %q", tenor)
	}
}

// ParsePillar accepts either an ISO date or a tenor relative to settlement.
func ParsePillar(settlement time.Time, key string) (time.Time, error) {
	if d, err := utils.ParseDate(key); err == nil {
		return d, nil
	}
	return TenorToDate(settlement, key)
}
