package swap

import (
	"time"

	"github.com/meenmo/swapleg/calendar"
	"github.com/meenmo/swapleg/daycount"
	"github.com/meenmo/swapleg/schedule"
	"github.com/meenmo/swapleg/swap/market"
)

// LegType distinguishes floating vs fixed.
type LegType string

const (
	LegFloating LegType = "FLOATING"
	LegFixed    LegType = "FIXED"
)

// Provenance records whether a cashflow field was derived by valuation or set by the caller.
type Provenance int

const (
	Computed Provenance = iota
	Overridden
)

func (p Provenance) String() string {
	if p == Overridden {
		return "overridden"
	}
	return "computed"
}

// Field is a cashflow value tagged with its provenance. Valuation rewrites
// Computed fields and never touches Overridden ones.
type Field struct {
	Value  float64
	Source Provenance
}

func computed(v float64) Field {
	return Field{Value: v, Source: Computed}
}

func overridden(v float64) Field {
	return Field{Value: v, Source: Overridden}
}

// IsOverridden reports whether the caller set the value.
func (f Field) IsOverridden() bool {
	return f.Source == Overridden
}

// RateKind tells fixed and floating calculation periods apart.
type RateKind int

const (
	FixedRate RateKind = iota
	FloatingRate
)

// FloatingRateDefinition holds the floating side of a calculation period.
//
// ObservedRate is the index fixing: forecast off the curve while Computed,
// or a caller-fixed rate once Overridden. CalculatedRate = ObservedRate + Spread.
type FloatingRateDefinition struct {
	Index          market.ReferenceIndex
	FixingDate     time.Time
	Spread         Field
	ObservedRate   Field
	CalculatedRate float64
}

// CalculationPeriod is one accrual period.
type CalculationPeriod struct {
	UnadjustedStartDate time.Time
	UnadjustedEndDate   time.Time
	AdjustedStartDate   time.Time
	AdjustedEndDate     time.Time
	Kind                schedule.PeriodKind

	Notional  Field
	RateKind  RateKind
	FixedRate Field
	Floating  FloatingRateDefinition

	// Set by valuation.
	DayCountFraction float64
	Interest         float64
}

// Rate returns the coupon rate in force: the fixed rate or the calculated floating rate.
func (cp CalculationPeriod) Rate() float64 {
	if cp.RateKind == FloatingRate {
		return cp.Floating.CalculatedRate
	}
	return cp.FixedRate.Value
}

// PaymentCalculationPeriod groups the calculation periods settled by one payment.
type PaymentCalculationPeriod struct {
	CalculationPeriods    []CalculationPeriod
	UnadjustedPaymentDate time.Time
	AdjustedPaymentDate   time.Time

	// Set by valuation.
	DiscountFactor float64
	PresentValue   float64
	ForecastValue  float64
}

// StartDate returns the adjusted start of the first calculation period.
func (p PaymentCalculationPeriod) StartDate() time.Time {
	if len(p.CalculationPeriods) == 0 {
		return time.Time{}
	}
	return p.CalculationPeriods[0].AdjustedStartDate
}

// EndDate returns the adjusted end of the last calculation period.
func (p PaymentCalculationPeriod) EndDate() time.Time {
	if len(p.CalculationPeriods) == 0 {
		return time.Time{}
	}
	return p.CalculationPeriods[len(p.CalculationPeriods)-1].AdjustedEndDate
}

// ExchangeKind classifies a principal exchange.
type ExchangeKind int

const (
	InitialExchange ExchangeKind = iota
	IntermediateExchange
	FinalExchange
)

func (k ExchangeKind) String() string {
	switch k {
	case InitialExchange:
		return "initial"
	case IntermediateExchange:
		return "intermediate"
	default:
		return "final"
	}
}

// PrincipalExchange is a notional cashflow, signed from the stream receiver's side:
// the initial exchange is paid (-N), the final one received (+N).
type PrincipalExchange struct {
	Kind                ExchangeKind
	AdjustedPaymentDate time.Time
	Amount              float64
	DiscountFactor      float64
	PresentValue        float64
	ForecastValue       float64
}

// ExchangeFlags switches principal exchanges on.
type ExchangeFlags struct {
	Initial      bool
	Intermediate bool
	Final        bool
}

// Any reports whether at least one exchange is enabled.
func (f ExchangeFlags) Any() bool {
	return f.Initial || f.Intermediate || f.Final
}

// Cashflows is the generated cashflow set of a stream.
type Cashflows struct {
	PaymentCalculationPeriods []PaymentCalculationPeriod
	PrincipalExchanges        []PrincipalExchange
}

// CompoundingMethod applies when a payment period spans several calculation periods.
type CompoundingMethod string

const (
	NoCompounding CompoundingMethod = "NONE"
	Compounding   CompoundingMethod = "COMPOUNDING"
)

// DiscountingType selects FRA-style upfront discounting of the coupon.
type DiscountingType string

const (
	NoDiscounting  DiscountingType = "NONE"
	FRADiscounting DiscountingType = "FRA"
)

// PayRelativeTo anchors payment dates on the period start or end.
type PayRelativeTo string

const (
	PayAtPeriodEnd   PayRelativeTo = "END"
	PayAtPeriodStart PayRelativeTo = "START"
)

// Stream is one swap leg: its parsed definition plus generated cashflows.
type Stream struct {
	ID       string
	Payer    string
	Receiver string
	LegType  LegType
	Currency string

	EffectiveDate               time.Time
	TerminationDate             time.Time
	FirstRegularPeriodStartDate time.Time

	CalculationFrequency schedule.Frequency
	PaymentFrequency     schedule.Frequency
	InitialStub          schedule.StubType
	FinalStub            schedule.StubType
	DayCount             daycount.Convention

	AccrualConvention calendar.BusinessDayConvention
	PaymentConvention calendar.BusinessDayConvention
	FixingConvention  calendar.BusinessDayConvention
	AccrualCalendar   calendar.Calendar
	PaymentCalendar   calendar.Calendar
	FixingCalendar    calendar.Calendar
	PayRelativeTo     PayRelativeTo
	PaymentDaysOffset int
	FixingDaysOffset  int

	NotionalSchedule  StepSchedule
	FixedRateSchedule StepSchedule
	SpreadSchedule    StepSchedule
	Index             market.ReferenceIndex
	Compounding       CompoundingMethod
	Discounting       DiscountingType

	PrincipalExchange ExchangeFlags

	DiscountCurveRole market.CurveRole
	ForecastCurveRole market.CurveRole

	Cashflows Cashflows
}

// Payment is an additional bullet payment between two parties.
type Payment struct {
	Payer          string
	Receiver       string
	PaymentDate    time.Time
	Amount         Money
	DiscountFactor float64
	PresentValue   float64
}

// Swap is two or more streams plus optional bullet payments.
type Swap struct {
	ID                 string
	Streams            []*Stream
	AdditionalPayments []Payment
}
