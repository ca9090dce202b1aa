// Package domain defines positions, their derived pricing fields and the
// enumerations shared by the pricing engine and its callers.
package domain

import (
	"errors"
	"strings"

	refdomain "github.com/ifgsrl/gestionale/internal/reftable/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrMissingPieceCount  = errors.New("missing_piece_count")
	ErrInvalidPieceCount  = errors.New("invalid_piece_count")
	ErrMissingOpeningType = errors.New("missing_opening_type")
)

type Color string

const (
	ColorStandardRAL Color = refdomain.ColorStandardRAL
	ColorWoodEffect  Color = refdomain.ColorWoodEffect
	ColorRaw         Color = refdomain.ColorRaw
	ColorExtraJamb   Color = refdomain.ColorExtraJamb
)

// Code is the accessory colour code: 1 standard RAL, 2 wood effect, 3 raw,
// 4 extra jamb. Other colours have no code.
func (c Color) Code() int {
	switch c {
	case ColorStandardRAL:
		return 1
	case ColorWoodEffect:
		return 2
	case ColorRaw:
		return 3
	case ColorExtraJamb:
		return 4
	default:
		return 0
	}
}

type CounterFrameType string

const (
	CounterFrameNone     CounterFrameType = ""
	CounterFrameSingle   CounterFrameType = "C. SINGOLO"
	CounterFrameDouble   CounterFrameType = "C. DOPPIO"
	CounterFrameThermalA CounterFrameType = "C. TERMICO TIP A"
	CounterFrameThermalB CounterFrameType = "C. TERMICO TIP B"
)

// IsSet reports whether a counter-frame was chosen. The literal "0" counts
// as none.
func (t CounterFrameType) IsSet() bool {
	v := strings.TrimSpace(string(t))
	return v != "" && v != "0"
}

// LengthDriver is 1 for single and double counter-frames, 2 for the
// thermal ones and 0 otherwise.
func (t CounterFrameType) LengthDriver() int {
	switch t {
	case CounterFrameSingle, CounterFrameDouble:
		return 1
	case CounterFrameThermalA, CounterFrameThermalB:
		return 2
	default:
		return 0
	}
}

type SpacerType string

const (
	SpacerTypeDefault   SpacerType = ""
	SpacerTypeRevealExt SpacerType = "IMBOTTE"
	SpacerTypeWelded    SpacerType = "SALDATO"
)

// Labels shown for the welded and reveal-extension sub-types.
const (
	SpacerLabelWelded    = "DS - SALDATO"
	SpacerLabelRevealExt = "I - IMBOTTE"
)

// Code is 3 for welded spacers, 2 for reveal extensions and 1 otherwise.
func (t SpacerType) Code() int {
	switch t {
	case SpacerTypeWelded:
		return 3
	case SpacerTypeRevealExt:
		return 2
	default:
		return 1
	}
}

// Label is the fixed description of the sub-type, empty for the default.
func (t SpacerType) Label() string {
	switch t.Code() {
	case 3:
		return SpacerLabelWelded
	case 2:
		return SpacerLabelRevealExt
	default:
		return ""
	}
}

// Handle/cylinder configurations that make a position a defender.
const (
	HandleDoubleWithCylinder = "DOPPIA MANIGLIA E CILINDRO PASSANTE"
	HandleCylinderOnly       = "SOLO CILINDRO PASSANTE"
)

const (
	Yes = "SI"
	No  = "NO"
)

// Position is one quote line as entered by the operator.
type Position struct {
	PieceCount     int
	OpeningType    string
	Model          string
	GridModel      string
	Color          Color
	Width          decimal.NullDecimal
	Height         decimal.NullDecimal
	FrameType      string
	BunkerBar      string
	HandleCylinder string
	Spacer         string
	SpacerType     SpacerType
	SpacerWidth    decimal.NullDecimal
	SpacerHeight   decimal.NullDecimal
	CounterFrame   CounterFrameType
	SwingPosition  string
	LoweredHandle  string
}

// Validate checks the mandatory fields.
func (p Position) Validate() error {
	if strings.TrimSpace(p.OpeningType) == "" {
		return ErrMissingOpeningType
	}
	if p.PieceCount == 0 {
		return ErrMissingPieceCount
	}
	if p.PieceCount < 0 {
		return ErrInvalidPieceCount
	}
	return nil
}

// SpacerActive reports whether spacers or reveal extensions were requested.
func (p Position) SpacerActive() bool {
	v := strings.ToUpper(strings.TrimSpace(p.Spacer))
	return v != "" && v != No
}

// Defender is derived from the handle/cylinder configuration.
func (p Position) Defender() string {
	switch strings.TrimSpace(p.HandleCylinder) {
	case HandleDoubleWithCylinder, HandleCylinderOnly:
		return Yes
	default:
		return No
	}
}

// DiscountSettings are the quote-wide discount inputs, as typed by the
// operator.
type DiscountSettings struct {
	Tier1       string
	Tier2       string
	Tier3       string
	Combined    string
	Description string
}
