package market

// ReferenceIndex names a floating benchmark. The set is open: FpML index
// names not listed here are valid as long as a forecast curve is supplied.
type ReferenceIndex string

const (
	AUDLIBOR3M ReferenceIndex = "AUD-LIBOR-3M"
	AUDLIBOR6M ReferenceIndex = "AUD-LIBOR-6M"
	AUDBBSW    ReferenceIndex = "AUD-BBR-BBSW"
	EURIBOR3M  ReferenceIndex = "EURIBOR3M"
	EURIBOR6M  ReferenceIndex = "EURIBOR6M"
	ESTR       ReferenceIndex = "ESTR"
	SOFR       ReferenceIndex = "SOFR"
	TONAR      ReferenceIndex = "TONAR"
)

// IsOvernight reports whether the reference rate is an overnight index.
func IsOvernight(r ReferenceIndex) bool {
	switch r {
	case ESTR, TONAR, SOFR:
		return true
	default:
		return false
	}
}

// ForecastRole returns the curve role conventionally used to forecast r.
func ForecastRole(r ReferenceIndex) CurveRole {
	return CurveRole(string(RoleForecast) + ":" + string(r))
}
