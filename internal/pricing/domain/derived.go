package domain

import (
	refdomain "github.com/ifgsrl/gestionale/internal/reftable/domain"
	"github.com/shopspring/decimal"
)

// OpeningAttributes are copied verbatim from the elements catalog.
type OpeningAttributes struct {
	LeafCount           string
	OpeningKind         string
	Typology            string
	TypologyDescription string
	HingeCount          string
	ExtraLabor          string
	Multiplier          string
	MultiplierCost      string
	Minimums            [5]string
	LockPresence        string
	BracketCount        string
}

// DiscountFields are the discount settings as shown on every position,
// plus the normalized combined rate.
type DiscountFields struct {
	Tier1       string
	Tier2       string
	Tier3       string
	Combined    string
	Description string
	Rate        decimal.Decimal
}

type SpacerFields struct {
	Active          bool
	TypeCode        int
	Label           string
	ColorCode       int
	ThreeSidedCount int
}

// CounterFrameBreakdown is one of the mutually exclusive per-type groups.
// Only the group matching the position's counter-frame type is filled.
type CounterFrameBreakdown struct {
	Count  int
	Meters decimal.NullDecimal
	Cost   decimal.NullDecimal
}

type CounterFrameFields struct {
	CostPerMeter     decimal.NullDecimal
	Verified         bool
	LengthDriver     int
	MultiplierFactor decimal.Decimal
	ListCost         decimal.NullDecimal
	DiscountedCost   decimal.NullDecimal
	Single           CounterFrameBreakdown
	Double           CounterFrameBreakdown
	ThermalA         CounterFrameBreakdown
	ThermalB         CounterFrameBreakdown
}

// DerivedFields is everything computed for a position. It is rebuilt in
// full on every change and never patched.
type DerivedFields struct {
	Defender string
	Opening  OpeningAttributes
	Discount DiscountFields

	ListPrice     decimal.NullDecimal
	UnitOfMeasure string

	MqR           decimal.Decimal
	MIR           decimal.Decimal
	MinTable      string
	MinTableIndex int
	MinOverride   string
	MqFattPz      decimal.Decimal
	MqTotaliFatt  decimal.Decimal
	MlTotaliFatt  decimal.Decimal

	DiscountedUnitPrice     decimal.NullDecimal
	UnitListValue           decimal.NullDecimal
	PositionListTotal       decimal.NullDecimal
	PositionDiscountedTotal decimal.NullDecimal

	Spacer       SpacerFields
	CounterFrame CounterFrameFields
}

// Field is one named value of the ordered quote record.
type Field struct {
	Name  string
	Value string
}

type IssueKind string

const (
	IssueMissingReference IssueKind = "missing_reference"
	IssueMalformedNumeric IssueKind = "malformed_numeric"
	IssueConfigurationGap IssueKind = "configuration_gap"
	IssueInvalidPosition  IssueKind = "invalid_position"
)

// Issue is a recoverable problem met while pricing a position. Issues
// never stop the computation.
type Issue struct {
	Kind    IssueKind
	Table   refdomain.Table
	Key     string
	Field   string
	Message string
}
