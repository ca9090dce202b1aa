package domain

import (
	"strconv"
	"strings"

	"github.com/ifgsrl/gestionale/internal/config"
	"github.com/ifgsrl/gestionale/internal/numfmt"
	"github.com/ifgsrl/gestionale/internal/pricing"
	pricingdomain "github.com/ifgsrl/gestionale/internal/pricing/domain"
)

// PositionInput is a position as typed by the operator.
type PositionInput struct {
	PieceCount     string
	OpeningType    string
	Model          string
	GridModel      string
	Color          string
	Width          string
	Height         string
	FrameType      string
	BunkerBar      string
	HandleCylinder string
	Spacer         string
	SpacerType     string
	SpacerWidth    string
	SpacerHeight   string
	CounterFrame   string
	SwingPosition  string
	LoweredHandle  string
}

// WithDefaults fills the blank optional fields from the operator defaults.
// DUO models get the default grid model; other models never do.
func (in PositionInput) WithDefaults(d config.QuoteDefaults) PositionInput {
	fill := func(v *string, def string) {
		if strings.TrimSpace(*v) == "" {
			*v = def
		}
	}
	fill(&in.Color, d.Color)
	fill(&in.SwingPosition, d.SwingPosition)
	fill(&in.LoweredHandle, d.LoweredHandle)
	fill(&in.BunkerBar, d.BunkerBar)
	fill(&in.Spacer, d.Spacer)
	if pricing.RequiresCombinedGrid(in.Model) {
		fill(&in.GridModel, d.GridModel)
	}
	return in
}

// Position converts and validates the input. Malformed dimensions are
// reported as issues and left absent. On a validation error the partially
// converted position is still returned.
func (in PositionInput) Position() (pricingdomain.Position, []pricingdomain.Issue, error) {
	var issues []pricingdomain.Issue

	p := pricingdomain.Position{
		OpeningType:    strings.TrimSpace(in.OpeningType),
		Model:          strings.TrimSpace(in.Model),
		GridModel:      strings.TrimSpace(in.GridModel),
		Color:          pricingdomain.Color(strings.TrimSpace(in.Color)),
		FrameType:      strings.TrimSpace(in.FrameType),
		BunkerBar:      strings.TrimSpace(in.BunkerBar),
		HandleCylinder: strings.TrimSpace(in.HandleCylinder),
		Spacer:         strings.TrimSpace(in.Spacer),
		SpacerType:     pricingdomain.SpacerType(strings.TrimSpace(in.SpacerType)),
		CounterFrame:   pricingdomain.CounterFrameType(strings.TrimSpace(in.CounterFrame)),
		SwingPosition:  strings.TrimSpace(in.SwingPosition),
		LoweredHandle:  strings.TrimSpace(in.LoweredHandle),
	}

	var issue *pricingdomain.Issue
	if p.Width, issue = pricing.ParseDimension(pricing.ColWidth, in.Width); issue != nil {
		issues = append(issues, *issue)
	}
	if p.Height, issue = pricing.ParseDimension(pricing.ColHeight, in.Height); issue != nil {
		issues = append(issues, *issue)
	}
	if p.SpacerWidth, issue = pricing.ParseDimension(pricing.ColSpacerWidth, in.SpacerWidth); issue != nil {
		issues = append(issues, *issue)
	}
	if p.SpacerHeight, issue = pricing.ParseDimension(pricing.ColSpacerHeight, in.SpacerHeight); issue != nil {
		issues = append(issues, *issue)
	}

	if raw := strings.TrimSpace(in.PieceCount); raw != "" {
		n, ok := numfmt.ParseInt(raw)
		if !ok || n < 1 {
			return p, issues, pricingdomain.ErrInvalidPieceCount
		}
		p.PieceCount = int(n)
	}
	if err := p.Validate(); err != nil {
		return p, issues, err
	}
	return p, issues, nil
}

// InputFromPosition is the inverse of Position, used to edit a line.
func InputFromPosition(p pricingdomain.Position) PositionInput {
	return PositionInput{
		PieceCount:     itoa(p.PieceCount),
		OpeningType:    p.OpeningType,
		Model:          p.Model,
		GridModel:      p.GridModel,
		Color:          string(p.Color),
		Width:          numfmt.Plain(p.Width),
		Height:         numfmt.Plain(p.Height),
		FrameType:      p.FrameType,
		BunkerBar:      p.BunkerBar,
		HandleCylinder: p.HandleCylinder,
		Spacer:         p.Spacer,
		SpacerType:     string(p.SpacerType),
		SpacerWidth:    numfmt.Plain(p.SpacerWidth),
		SpacerHeight:   numfmt.Plain(p.SpacerHeight),
		CounterFrame:   string(p.CounterFrame),
		SwingPosition:  p.SwingPosition,
		LoweredHandle:  p.LoweredHandle,
	}
}

// InputFromRecord reads the input columns of a stored record.
func InputFromRecord(rec map[string]string) PositionInput {
	return PositionInput{
		PieceCount:     rec[pricing.ColPieceCount],
		OpeningType:    rec[pricing.ColOpeningType],
		Model:          rec[pricing.ColModel],
		GridModel:      rec[pricing.ColGridModel],
		Color:          rec[pricing.ColColor],
		Width:          rec[pricing.ColWidth],
		Height:         rec[pricing.ColHeight],
		FrameType:      rec[pricing.ColFrameType],
		BunkerBar:      rec[pricing.ColBunkerBar],
		HandleCylinder: rec[pricing.ColHandleCylinder],
		Spacer:         rec[pricing.ColSpacer],
		SpacerType:     rec[pricing.ColSpacerType],
		SpacerWidth:    rec[pricing.ColSpacerWidth],
		SpacerHeight:   rec[pricing.ColSpacerHeight],
		CounterFrame:   rec[pricing.ColCounterFrame],
		SwingPosition:  rec[pricing.ColSwingPosition],
		LoweredHandle:  rec[pricing.ColLoweredHandle],
	}
}

func itoa(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
