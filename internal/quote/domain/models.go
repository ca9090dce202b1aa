// Package domain contains the quote document and its positions.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/ifgsrl/gestionale/internal/pricing"
	pricingdomain "github.com/ifgsrl/gestionale/internal/pricing/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrPositionNotFound = errors.New("position_not_found")
	ErrDocumentRequired = errors.New("document_required")
	ErrInvalidDocument  = errors.New("invalid_document")
)

// Document is a quote: client data, discount settings and priced lines.
// It is not safe for concurrent use.
type Document struct {
	ID              uuid.UUID
	Protocol        string
	ClientName      string
	ClientReference string
	General         map[string]string
	Discounts       pricingdomain.DiscountSettings
	Lines           []Line
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Line is one position of the document. ID identifies the line for the
// current session only; it is not persisted.
type Line struct {
	ID       snowflake.ID
	Number   int
	Position pricingdomain.Position
	Derived  pricingdomain.DerivedFields
	Issues   []pricingdomain.Issue
}

// Record returns the line as the ordered field list stored in the document.
func (l Line) Record() []pricingdomain.Field {
	return pricing.Record(l.Number, l.Position, l.Derived)
}

// Index returns the slice index of the line with the given id.
func (d *Document) Index(id snowflake.ID) (int, error) {
	for i := range d.Lines {
		if d.Lines[i].ID == id {
			return i, nil
		}
	}
	return -1, ErrPositionNotFound
}

// Renumber assigns progressive numbers starting at 1 in slice order.
func (d *Document) Renumber() {
	for i := range d.Lines {
		d.Lines[i].Number = i + 1
	}
}

// Totals are the document sums shown at the bottom of exports.
type Totals struct {
	Pieces          int
	BillableArea    decimal.Decimal
	ListTotal       decimal.Decimal
	DiscountedTotal decimal.Decimal
	CounterFrames   decimal.Decimal
}

// Totals sums every line. Lines with unknown prices add nothing.
func (d *Document) Totals() Totals {
	var t Totals
	for _, l := range d.Lines {
		t.Pieces += l.Position.PieceCount
		t.BillableArea = t.BillableArea.Add(l.Derived.MqTotaliFatt)
		t.ListTotal = t.ListTotal.Add(l.Derived.PositionListTotal.Decimal)
		t.DiscountedTotal = t.DiscountedTotal.Add(l.Derived.PositionDiscountedTotal.Decimal)
		t.CounterFrames = t.CounterFrames.Add(l.Derived.CounterFrame.DiscountedCost.Decimal)
	}
	return t
}
