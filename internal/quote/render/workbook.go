package render

import (
	"context"
	"fmt"
	"io"

	"github.com/ifgsrl/gestionale/internal/pricing"
	quotedomain "github.com/ifgsrl/gestionale/internal/quote/domain"
	"github.com/xuri/excelize/v2"
)

const (
	sheetPositions = "Posizioni"
	sheetSummary   = "Riepilogo"
)

// Workbook exports every position record, one row per line, with the
// record columns as header.
func (r *Renderer) Workbook(ctx context.Context, doc *quotedomain.Document) (io.Reader, error) {
	if doc == nil {
		return nil, quotedomain.ErrDocumentRequired
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetPositions); err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	if err := setRow(f, sheetPositions, 1, toCells(pricing.Columns())); err != nil {
		return nil, err
	}
	for i, l := range doc.Lines {
		rec := l.Record()
		values := make([]any, len(rec))
		for j, field := range rec {
			values[j] = field.Value
		}
		if err := setRow(f, sheetPositions, i+2, values); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(sheetSummary); err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	totals := doc.Totals()
	summary := [][]any{
		{"Numero protocollo", doc.Protocol},
		{"Cliente", doc.ClientName},
		{"Riferimento", doc.ClientReference},
		{pricing.ColDiscount1, doc.Discounts.Tier1},
		{pricing.ColDiscount2, doc.Discounts.Tier2},
		{pricing.ColDiscount3, doc.Discounts.Tier3},
		{pricing.ColDiscountCombined, doc.Discounts.Combined},
		{pricing.ColDiscountDescription, doc.Discounts.Description},
		{"Pezzi", totals.Pieces},
		{"Mq fatturati", totals.BillableArea.InexactFloat64()},
		{"Totale listino", totals.ListTotal.InexactFloat64()},
		{"Totale scontato", totals.DiscountedTotal.InexactFloat64()},
		{"Controtelai", totals.CounterFrames.InexactFloat64()},
	}
	for i, row := range summary {
		if err := setRow(f, sheetSummary, i+1, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	return buf, nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("render workbook: %w", err)
	}
	return nil
}

func toCells(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
