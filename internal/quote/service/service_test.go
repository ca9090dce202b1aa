package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ifgsrl/gestionale/internal/clock"
	"github.com/ifgsrl/gestionale/internal/config"
	pricingdomain "github.com/ifgsrl/gestionale/internal/pricing/domain"
	quotedomain "github.com/ifgsrl/gestionale/internal/quote/domain"
	"github.com/ifgsrl/gestionale/internal/quote/repository"
	"github.com/ifgsrl/gestionale/internal/reftable"
	refdomain "github.com/ifgsrl/gestionale/internal/reftable/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type tableSource struct {
	tables []refdomain.RawTable
}

func (s *tableSource) Name() string { return "fixture" }

func (s *tableSource) Load(context.Context) ([]refdomain.RawTable, []refdomain.Warning, error) {
	return s.tables, nil, nil
}

type fakeRecorder struct {
	priced    map[string]int
	misses    map[string]int
	malformed map[string]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{priced: map[string]int{}, misses: map[string]int{}, malformed: map[string]int{}}
}

func (r *fakeRecorder) PositionPriced(path string) { r.priced[path]++ }
func (r *fakeRecorder) ReferenceMiss(table string) { r.misses[table]++ }
func (r *fakeRecorder) MalformedNumeric(f string)  { r.malformed[f]++ }
func (r *fakeRecorder) ReferenceReload(string)     {}
func (r *fakeRecorder) ReferenceRows(string, int)  {}

func fixtureTables(m1Price string) []refdomain.RawTable {
	return []refdomain.RawTable{
		{
			Name:    refdomain.TableElements,
			Headers: []string{"TIPOLOGIA COMPLETA DI APERTURA", "NUMERO ANTE", "MINIMI 1 (protezione singola)"},
			Rows: [][]string{
				{"1 ANTA DX", "1", "1,50"},
				{"2 ANTE", "2", "2"},
			},
		},
		{
			Name:    refdomain.TablePriceList,
			Headers: []string{"MODELLO", "Minimi", "Unità di misura", "STANDARD RAL"},
			Rows: [][]string{
				{"M1", "", "mq", m1Price},
				{"DUO BLIND", "1", "mq", "300"},
			},
		},
		{
			Name:    refdomain.TableCounterFrames,
			Headers: []string{"CONTROTELAIO", "COSTO", "Ml / nr. Pezzi"},
			Rows: [][]string{
				{"C. SINGOLO", "12,5", "1"},
			},
		},
	}
}

type fixture struct {
	svc      quotedomain.Service
	source   *tableSource
	holder   *reftable.Holder
	clock    *clock.FakeClock
	recorder *fakeRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	source := &tableSource{tables: fixtureTables("100")}
	holder := reftable.NewHolder(source, reftable.DefaultSchema(), nil, zap.NewNop())
	require.NoError(t, holder.Reload(context.Background()))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	f := &fixture{
		source:   source,
		holder:   holder,
		clock:    clock.NewFakeClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)),
		recorder: newFakeRecorder(),
	}
	f.svc = NewService(ServiceParam{
		Log:      zap.NewNop(),
		Holder:   holder,
		Defaults: config.NewStaticDefaultsHolder(config.DefaultQuoteDefaults()),
		Repo:     repository.NewFileStore(t.TempDir()),
		Recorder: f.recorder,
		GenID:    node,
		Clock:    f.clock,
	})
	return f
}

func (f *fixture) newDocument(t *testing.T, combined string) *quotedomain.Document {
	t.Helper()
	doc, err := f.svc.NewDocument(context.Background(), quotedomain.NewDocumentRequest{
		Protocol:   "124",
		ClientName: "Rossi",
		Discounts:  pricingdomain.DiscountSettings{Combined: combined},
	})
	require.NoError(t, err)
	return doc
}

func window(width string) quotedomain.PositionInput {
	return quotedomain.PositionInput{
		PieceCount:  "2",
		OpeningType: "1 ANTA DX",
		Model:       "M1",
		Width:       width,
		Height:      "2000",
	}
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestAddPosition(t *testing.T) {
	f := newFixture(t)
	doc := f.newDocument(t, "10")
	f.clock.Advance(time.Minute)

	line, err := f.svc.AddPosition(context.Background(), doc, window("1000"))
	require.NoError(t, err)

	assert.NotZero(t, line.ID)
	assert.Equal(t, 1, line.Number)
	assert.Empty(t, line.Issues)
	assert.Equal(t, pricingdomain.ColorStandardRAL, line.Position.Color)
	assert.Equal(t, "ANTA A GIRO", line.Position.SwingPosition)
	assert.Equal(t, "NO", line.Position.Spacer)
	assert.True(t, line.Derived.PositionListTotal.Decimal.Equal(dec("400")))
	assert.True(t, line.Derived.PositionDiscountedTotal.Decimal.Equal(dec("360")))

	require.Len(t, doc.Lines, 1)
	assert.Equal(t, line, doc.Lines[0])
	assert.Equal(t, f.clock.Now(), doc.UpdatedAt)
	assert.True(t, doc.CreatedAt.Before(doc.UpdatedAt))
	assert.Equal(t, 1, f.recorder.priced[pathInsert])
}

func TestAddPosition_CombinedGridDefault(t *testing.T) {
	f := newFixture(t)
	doc := f.newDocument(t, "")

	in := window("1000")
	in.Model = "DUO BLIND"
	line, err := f.svc.AddPosition(context.Background(), doc, in)
	require.NoError(t, err)
	assert.Equal(t, "DA DEFINIRE", line.Position.GridModel)
	assert.Equal(t, "1,50", line.Derived.MinOverride)
}

func TestAddPosition_Invalid(t *testing.T) {
	f := newFixture(t)
	doc := f.newDocument(t, "")

	in := window("1000")
	in.PieceCount = ""
	_, err := f.svc.AddPosition(context.Background(), doc, in)
	assert.ErrorIs(t, err, pricingdomain.ErrMissingPieceCount)

	in = window("1000")
	in.OpeningType = " "
	_, err = f.svc.AddPosition(context.Background(), doc, in)
	assert.ErrorIs(t, err, pricingdomain.ErrMissingOpeningType)

	_, err = f.svc.AddPosition(context.Background(), nil, window("1000"))
	assert.ErrorIs(t, err, quotedomain.ErrDocumentRequired)

	assert.Empty(t, doc.Lines)
}

func TestAddPosition_Issues(t *testing.T) {
	f := newFixture(t)
	doc := f.newDocument(t, "")

	in := window("mille")
	in.Model = "M9"
	line, err := f.svc.AddPosition(context.Background(), doc, in)
	require.NoError(t, err)

	require.Len(t, line.Issues, 2)
	assert.Equal(t, pricingdomain.IssueMalformedNumeric, line.Issues[0].Kind)
	assert.Equal(t, pricingdomain.IssueMissingReference, line.Issues[1].Kind)
	assert.False(t, line.Derived.ListPrice.Valid)
	assert.Equal(t, 1, f.recorder.misses[string(refdomain.TablePriceList)])
	assert.Equal(t, 1, f.recorder.malformed["L (mm)"])

	require.NoError(t, f.svc.RecalculateAll(context.Background(), doc))
	assert.Len(t, doc.Lines[0].Issues, 2)
}

func TestUpdatePosition(t *testing.T) {
	f := newFixture(t)
	doc := f.newDocument(t, "")
	line, err := f.svc.AddPosition(context.Background(), doc, window("1000"))
	require.NoError(t, err)

	in := quotedomain.InputFromPosition(line.Position)
	in.Width = "500"
	updated, err := f.svc.UpdatePosition(context.Background(), doc, line.ID, in)
	require.NoError(t, err)

	assert.Equal(t, line.ID, updated.ID)
	assert.Equal(t, 1, updated.Number)
	assert.True(t, updated.Derived.MqR.Equal(dec("1")))
	assert.True(t, updated.Derived.PositionListTotal.Decimal.Equal(dec("200")))
	assert.Equal(t, updated, doc.Lines[0])

	_, err = f.svc.UpdatePosition(context.Background(), doc, snowflake.ID(42), in)
	assert.ErrorIs(t, err, quotedomain.ErrPositionNotFound)

	in.PieceCount = "0"
	_, err = f.svc.UpdatePosition(context.Background(), doc, line.ID, in)
	assert.ErrorIs(t, err, pricingdomain.ErrInvalidPieceCount)
	assert.Equal(t, updated, doc.Lines[0])
}

func TestUpdatePosition_SameResultAsInsert(t *testing.T) {
	f := newFixture(t)
	doc := f.newDocument(t, "10")

	first, err := f.svc.AddPosition(context.Background(), doc, window("1000"))
	require.NoError(t, err)
	second, err := f.svc.AddPosition(context.Background(), doc, window("700"))
	require.NoError(t, err)

	edited, err := f.svc.UpdatePosition(context.Background(), doc, second.ID, quotedomain.InputFromPosition(first.Position))
	require.NoError(t, err)
	assert.Equal(t, first.Derived, edited.Derived)
}

func TestDuplicatePosition(t *testing.T) {
	f := newFixture(t)
	doc := f.newDocument(t, "")
	a, err := f.svc.AddPosition(context.Background(), doc, window("1000"))
	require.NoError(t, err)
	b, err := f.svc.AddPosition(context.Background(), doc, window("800"))
	require.NoError(t, err)

	dup, err := f.svc.DuplicatePosition(context.Background(), doc, a.ID)
	require.NoError(t, err)

	require.Len(t, doc.Lines, 3)
	assert.NotEqual(t, a.ID, dup.ID)
	assert.Equal(t, []snowflake.ID{a.ID, dup.ID, b.ID}, ids(doc))
	assert.Equal(t, 2, dup.Number)
	assert.Equal(t, 3, doc.Lines[2].Number)
	assert.Equal(t, a.Position, dup.Position)
	assert.Equal(t, a.Derived, dup.Derived)
}

func TestDeletePosition(t *testing.T) {
	f := newFixture(t)
	doc := f.newDocument(t, "")
	a, _ := f.svc.AddPosition(context.Background(), doc, window("1000"))
	b, _ := f.svc.AddPosition(context.Background(), doc, window("900"))
	c, _ := f.svc.AddPosition(context.Background(), doc, window("800"))

	require.NoError(t, f.svc.DeletePosition(context.Background(), doc, b.ID))
	assert.Equal(t, []snowflake.ID{a.ID, c.ID}, ids(doc))
	assert.Equal(t, 2, doc.Lines[1].Number)

	err := f.svc.DeletePosition(context.Background(), doc, b.ID)
	assert.ErrorIs(t, err, quotedomain.ErrPositionNotFound)
}

func TestRenumber(t *testing.T) {
	f := newFixture(t)
	doc := f.newDocument(t, "")
	_, _ = f.svc.AddPosition(context.Background(), doc, window("1000"))
	_, _ = f.svc.AddPosition(context.Background(), doc, window("900"))

	doc.Lines[0], doc.Lines[1] = doc.Lines[1], doc.Lines[0]
	require.NoError(t, f.svc.Renumber(context.Background(), doc))
	assert.Equal(t, 1, doc.Lines[0].Number)
	assert.Equal(t, 2, doc.Lines[1].Number)

	assert.ErrorIs(t, f.svc.Renumber(context.Background(), nil), quotedomain.ErrDocumentRequired)
}

func TestApplyDiscounts(t *testing.T) {
	f := newFixture(t)
	doc := f.newDocument(t, "10")
	_, _ = f.svc.AddPosition(context.Background(), doc, window("1000"))
	_, _ = f.svc.AddPosition(context.Background(), doc, window("1000"))

	settings := pricingdomain.DiscountSettings{Tier1: "20", Combined: "0,2", Description: "sconto 20"}
	require.NoError(t, f.svc.ApplyDiscounts(context.Background(), doc, settings))

	assert.Equal(t, settings, doc.Discounts)
	for _, l := range doc.Lines {
		assert.True(t, l.Derived.PositionDiscountedTotal.Decimal.Equal(dec("320")))
		assert.Equal(t, "20,00 %", l.Derived.Discount.Tier1)
		assert.Equal(t, "sconto 20,00 %", l.Derived.Discount.Description)
	}
	assert.Equal(t, 2, f.recorder.priced[pathDiscounts])
}

func TestRecalculateAll_AfterReload(t *testing.T) {
	f := newFixture(t)
	doc := f.newDocument(t, "")
	_, _ = f.svc.AddPosition(context.Background(), doc, window("1000"))

	f.source.tables = fixtureTables("150")
	require.NoError(t, f.holder.Reload(context.Background()))
	assert.True(t, doc.Lines[0].Derived.PositionListTotal.Decimal.Equal(dec("400")))

	require.NoError(t, f.svc.RecalculateAll(context.Background(), doc))
	assert.True(t, doc.Lines[0].Derived.PositionListTotal.Decimal.Equal(dec("600")))
}

func TestSaveOpen(t *testing.T) {
	f := newFixture(t)
	doc := f.newDocument(t, "10")
	doc.ClientReference = "villa"
	first, _ := f.svc.AddPosition(context.Background(), doc, window("1000"))
	in := window("800")
	in.CounterFrame = "C. SINGOLO"
	second, _ := f.svc.AddPosition(context.Background(), doc, in)

	path, err := f.svc.Save(context.Background(), doc)
	require.NoError(t, err)
	assert.Contains(t, path, "n-124-rossi-rif-villa.json")

	got, err := f.svc.Open(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, doc.Discounts, got.Discounts)
	require.Len(t, got.Lines, 2)
	assert.NotZero(t, got.Lines[0].ID)
	assert.NotEqual(t, got.Lines[0].ID, got.Lines[1].ID)
	assert.Equal(t, first.Derived.PositionDiscountedTotal, got.Lines[0].Derived.PositionDiscountedTotal)
	assert.Equal(t, second.Record(), got.Lines[1].Record())
	assert.Equal(t, 2, f.recorder.priced[pathOpen])
}

func TestOpen_Missing(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Open(context.Background(), "missing.json")
	assert.Error(t, err)
}

func ids(doc *quotedomain.Document) []snowflake.ID {
	out := make([]snowflake.ID, len(doc.Lines))
	for i, l := range doc.Lines {
		out[i] = l.ID
	}
	return out
}
