package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/ifgsrl/gestionale/internal/pricing"
	pricingdomain "github.com/ifgsrl/gestionale/internal/pricing/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() Document {
	p := pricingdomain.Position{
		PieceCount:  2,
		OpeningType: "1 ANTA DX",
		Model:       "M1",
		Color:       pricingdomain.ColorStandardRAL,
		Width:       decimal.NewNullDecimal(decimal.NewFromInt(1000)),
		Height:      decimal.NewNullDecimal(decimal.NewFromInt(2000)),
	}
	return Document{
		ID:         uuid.MustParse("7f1d2c1e-6f7a-4d38-9d52-51c3f1e0a001"),
		Protocol:   "124",
		ClientName: "Rossi Srl",
		General:    map[string]string{"email": "info@rossi.it"},
		Discounts:  pricingdomain.DiscountSettings{Tier1: "10", Combined: "10", Description: "sconto 10"},
		Lines:      []Line{{ID: snowflake.ID(1), Number: 1, Position: p}},
		CreatedAt:  time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		UpdatedAt:  time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
	}
}

func TestDocument_MarshalJSON_RecordOrder(t *testing.T) {
	raw, err := json.Marshal(sampleDocument())
	require.NoError(t, err)

	var out struct {
		Lines []json.RawMessage `json:"posizioni"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Len(t, out.Lines, 1)

	line := string(out.Lines[0])
	last := -1
	for _, col := range pricing.Columns() {
		idx := strings.Index(line, `"`+col+`":`)
		require.GreaterOrEqual(t, idx, 0, col)
		assert.Greater(t, idx, last, col)
		last = idx
	}
}

func TestDocument_RoundTrip(t *testing.T) {
	doc := sampleDocument()
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var got Document
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, doc.Protocol, got.Protocol)
	assert.Equal(t, doc.ClientName, got.ClientName)
	assert.Equal(t, doc.General, got.General)
	assert.Equal(t, doc.Discounts, got.Discounts)
	assert.True(t, doc.CreatedAt.Equal(got.CreatedAt))
	require.Len(t, got.Lines, 1)
	assert.Equal(t, doc.Lines[0].Position, got.Lines[0].Position)
	assert.Equal(t, snowflake.ID(0), got.Lines[0].ID)
	assert.Empty(t, got.Lines[0].Issues)
}

func TestDocument_UnmarshalLegacyKeys(t *testing.T) {
	raw := `{
		"dati_b1": {"Sconto1": "20", "Sconto_in_decimali": 0.2, "Dicitura_sconto": "netto", "Numero_protocollo": "77"},
		"dati_b2": {"nome_cliente": "Bianchi", "rif_cliente": "villa"},
		"posizioni": [
			{"Pos.": 1, "nr. pezzi": 3, "Serramento": "2 ANTE", "L (mm)": 1200, "H (mm)": "abc"},
			{"Pos.": 2, "Serramento": "", "nr. pezzi": "1"}
		]
	}`

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.Equal(t, "77", doc.Protocol)
	assert.Equal(t, "Bianchi", doc.ClientName)
	assert.Equal(t, "villa", doc.ClientReference)
	assert.Equal(t, "20", doc.Discounts.Tier1)
	assert.Equal(t, "0.2", doc.Discounts.Combined)
	assert.Equal(t, "netto", doc.Discounts.Description)
	assert.Equal(t, map[string]string{"Numero_protocollo": "77"}, doc.General)
	assert.Equal(t, uuid.Nil, doc.ID)

	require.Len(t, doc.Lines, 2)
	first := doc.Lines[0]
	assert.Equal(t, 3, first.Position.PieceCount)
	assert.True(t, first.Position.Width.Decimal.Equal(decimal.NewFromInt(1200)))
	assert.False(t, first.Position.Height.Valid)
	require.Len(t, first.Issues, 1)
	assert.Equal(t, pricing.ColHeight, first.Issues[0].Field)

	second := doc.Lines[1]
	require.Len(t, second.Issues, 1)
	assert.Equal(t, pricingdomain.IssueInvalidPosition, second.Issues[0].Kind)
}

func TestDocument_UnmarshalInvalid(t *testing.T) {
	var doc Document
	err := json.Unmarshal([]byte(`{"posizioni": "nope"}`), &doc)
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestDocument_IndexRenumberTotals(t *testing.T) {
	doc := sampleDocument()
	doc.Lines = append(doc.Lines, Line{ID: 9, Number: 7, Position: pricingdomain.Position{PieceCount: 1}})
	doc.Lines[0].Derived.PositionListTotal = decimal.NewNullDecimal(decimal.NewFromInt(400))
	doc.Lines[0].Derived.PositionDiscountedTotal = decimal.NewNullDecimal(decimal.NewFromInt(360))
	doc.Lines[0].Derived.MqTotaliFatt = decimal.NewFromInt(4)

	i, err := doc.Index(9)
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	_, err = doc.Index(42)
	assert.ErrorIs(t, err, ErrPositionNotFound)

	doc.Renumber()
	assert.Equal(t, 2, doc.Lines[1].Number)

	totals := doc.Totals()
	assert.Equal(t, 3, totals.Pieces)
	assert.True(t, totals.ListTotal.Equal(decimal.NewFromInt(400)))
	assert.True(t, totals.DiscountedTotal.Equal(decimal.NewFromInt(360)))
	assert.True(t, totals.BillableArea.Equal(decimal.NewFromInt(4)))
}
