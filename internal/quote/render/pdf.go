package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ifgsrl/gestionale/internal/numfmt"
	quotedomain "github.com/ifgsrl/gestionale/internal/quote/domain"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// PDF renders the quote summary: header, one row per position and totals.
func (r *Renderer) PDF(ctx context.Context, doc *quotedomain.Document) (io.Reader, error) {
	if doc == nil {
		return nil, quotedomain.ErrDocumentRequired
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Pagina {current} di {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, "Preventivo N. "+doc.Protocol, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New("Cliente: "+doc.ClientName, props.Text{Top: 0}),
			text.New("Riferimento: "+doc.ClientReference, props.Text{Top: 5}),
			text.New("Data: "+doc.UpdatedAt.Format("02/01/2006"), props.Text{Top: 10}),
		),
		col.New(6).Add(
			text.New("Sconto: "+numfmt.Percent(doc.Discounts.Combined), props.Text{Align: align.Right}),
			text.New(numfmt.PercentLabel(doc.Discounts.Description), props.Text{Top: 5, Align: align.Right}),
		),
	)

	header := props.Text{Style: fontstyle.Bold, Size: 8}
	headerRight := props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right}
	m.AddRow(8,
		text.NewCol(1, "Pos.", header),
		text.NewCol(1, "Pz.", headerRight),
		text.NewCol(2, "Serramento", header),
		text.NewCol(2, "Modello", header),
		text.NewCol(1, "Colore", header),
		text.NewCol(1, "L x H", headerRight),
		text.NewCol(1, "Mq fatt.", headerRight),
		text.NewCol(1, "Listino", headerRight),
		text.NewCol(1, "Scontato", headerRight),
		text.NewCol(1, "Controtel.", headerRight),
	)

	cell := props.Text{Size: 8}
	cellRight := props.Text{Size: 8, Align: align.Right}
	for _, l := range doc.Lines {
		d := l.Derived
		m.AddRow(10,
			text.NewCol(1, strconv.Itoa(l.Number), cell),
			text.NewCol(1, strconv.Itoa(l.Position.PieceCount), cellRight),
			text.NewCol(2, l.Position.OpeningType, cell),
			text.NewCol(2, strings.TrimSpace(l.Position.Model+" "+l.Position.GridModel), cell),
			text.NewCol(1, string(l.Position.Color), cell),
			text.NewCol(1, dimensions(l), cellRight),
			text.NewCol(1, numfmt.Decimal2(d.MqTotaliFatt), cellRight),
			text.NewCol(1, numfmt.EuroNull(d.PositionListTotal), cellRight),
			text.NewCol(1, numfmt.EuroNull(d.PositionDiscountedTotal), cellRight),
			text.NewCol(1, numfmt.EuroNull(d.CounterFrame.DiscountedCost), cellRight),
		)
	}

	totals := doc.Totals()
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Totale listino", cell),
		text.NewCol(2, numfmt.EuroAlways(totals.ListTotal), cellRight),
	)
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Totale scontato", cell),
		text.NewCol(2, numfmt.EuroAlways(totals.DiscountedTotal), cellRight),
	)
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Controtelai", cell),
		text.NewCol(2, numfmt.EuroAlways(totals.CounterFrames), cellRight),
	)
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Totale", props.Text{Style: fontstyle.Bold, Size: 8}),
		text.NewCol(2, numfmt.EuroAlways(totals.DiscountedTotal.Add(totals.CounterFrames)), props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right}),
	)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return bytes.NewReader(out.GetBytes()), nil
}

func dimensions(l quotedomain.Line) string {
	w, h := numfmt.Plain(l.Position.Width), numfmt.Plain(l.Position.Height)
	if w == "" && h == "" {
		return ""
	}
	return w + " x " + h
}
