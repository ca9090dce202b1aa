package domain

import (
	"testing"

	"github.com/ifgsrl/gestionale/internal/config"
	"github.com/ifgsrl/gestionale/internal/pricing"
	pricingdomain "github.com/ifgsrl/gestionale/internal/pricing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionInput_WithDefaults(t *testing.T) {
	defaults := config.DefaultQuoteDefaults()

	in := PositionInput{PieceCount: "1", OpeningType: "1 ANTA DX", Model: "M1", Color: "GREZZO"}.WithDefaults(defaults)
	assert.Equal(t, "GREZZO", in.Color)
	assert.Equal(t, "ANTA A GIRO", in.SwingPosition)
	assert.Equal(t, "NO", in.LoweredHandle)
	assert.Equal(t, "NO", in.BunkerBar)
	assert.Equal(t, "NO", in.Spacer)
	assert.Equal(t, "", in.GridModel)

	duo := PositionInput{Model: "DUO BLIND"}.WithDefaults(defaults)
	assert.Equal(t, "DA DEFINIRE", duo.GridModel)
	assert.Equal(t, "STANDARD RAL", duo.Color)
}

func TestPositionInput_Position(t *testing.T) {
	p, issues, err := PositionInput{
		PieceCount:   "2",
		OpeningType:  " 1 ANTA DX ",
		Model:        "M1",
		Width:        "1000",
		Height:       "2000,5",
		SpacerWidth:  "x",
		CounterFrame: "C. SINGOLO",
	}.Position()
	require.NoError(t, err)
	assert.Equal(t, 2, p.PieceCount)
	assert.Equal(t, "1 ANTA DX", p.OpeningType)
	assert.Equal(t, pricingdomain.CounterFrameSingle, p.CounterFrame)
	assert.Equal(t, "2000.5", p.Height.Decimal.String())
	require.Len(t, issues, 1)
	assert.Equal(t, pricing.ColSpacerWidth, issues[0].Field)

	back := InputFromPosition(p)
	assert.Equal(t, "2", back.PieceCount)
	assert.Equal(t, "2000,5", back.Height)
	assert.Equal(t, "", back.SpacerWidth)
}

func TestPositionInput_PositionErrors(t *testing.T) {
	_, _, err := PositionInput{OpeningType: "1 ANTA DX"}.Position()
	assert.ErrorIs(t, err, pricingdomain.ErrMissingPieceCount)

	_, _, err = PositionInput{PieceCount: "0", OpeningType: "1 ANTA DX"}.Position()
	assert.ErrorIs(t, err, pricingdomain.ErrInvalidPieceCount)

	_, _, err = PositionInput{PieceCount: "1,5", OpeningType: "1 ANTA DX"}.Position()
	assert.ErrorIs(t, err, pricingdomain.ErrInvalidPieceCount)

	_, _, err = PositionInput{PieceCount: "1"}.Position()
	assert.ErrorIs(t, err, pricingdomain.ErrMissingOpeningType)
}
