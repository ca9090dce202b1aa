// Package pricing derives the billable quantities and costs of a position
// from the reference tables and the quote discount settings.
package pricing

import (
	"fmt"
	"strings"

	"github.com/ifgsrl/gestionale/internal/numfmt"
	"github.com/ifgsrl/gestionale/internal/pricing/domain"
	refdomain "github.com/ifgsrl/gestionale/internal/reftable/domain"
	"github.com/shopspring/decimal"
)

// Compute builds the complete derived record of a position. It is pure:
// the same inputs always produce the same record. Problems with the inputs
// or the reference data never stop it; they are reported as issues and
// leave the affected fields empty.
func Compute(p domain.Position, tables Tables, discounts domain.DiscountSettings) (domain.DerivedFields, []domain.Issue) {
	if tables == nil {
		tables = emptyTables{}
	}
	var issues issueList
	d := domain.DerivedFields{Defender: p.Defender()}

	element, ok := tables.Element(p.OpeningType)
	if !ok && strings.TrimSpace(p.OpeningType) != "" {
		issues.missing(refdomain.TableElements, p.OpeningType)
	}
	d.Opening = openingAttributes(element)

	price, ok := tables.Price(p.Model)
	if !ok && strings.TrimSpace(p.Model) != "" {
		issues.missing(refdomain.TablePriceList, p.Model)
	}

	applyGeometry(&d, p, element, price, &issues)
	applyListPrice(&d, p, price)
	applyDiscount(&d, discounts, &issues)
	applyCosts(&d)
	applySpacer(&d, p)
	applyCounterFrame(&d, p, tables, &issues)

	return d, issues.list
}

func openingAttributes(e refdomain.Element) domain.OpeningAttributes {
	return domain.OpeningAttributes{
		LeafCount:           e.LeafCount,
		OpeningKind:         e.OpeningKind,
		Typology:            e.Typology,
		TypologyDescription: e.TypologyDescription,
		HingeCount:          e.HingeCount,
		ExtraLabor:          e.ExtraLabor,
		Multiplier:          e.Multiplier,
		MultiplierCost:      e.MultiplierCost,
		Minimums:            e.Minimums,
		LockPresence:        e.LockPresence,
		BracketCount:        e.BracketCount,
	}
}

// combinedGridModels need a combined grid model chosen alongside.
var combinedGridModels = map[string]struct{}{
	"DUO":                   {},
	"DUO MILLENNIUM":        {},
	"DUO ALLUMINIO":         {},
	"DUO REVOLUTION":        {},
	"DUO GRETHA":            {},
	"DUO GRETHA ALLUMINIO":  {},
	"DUO BLIND":             {},
	"DUO BLIND ORIENTABILE": {},
	"DUO BLIND ALLUMINIO":   {},
	"DUO BLIND SLIM":        {},
}

// DefaultGridModel is used when a DUO model has no grid model yet.
const DefaultGridModel = "DA DEFINIRE"

// RequiresCombinedGrid reports whether model belongs to the DUO family.
func RequiresCombinedGrid(model string) bool {
	_, ok := combinedGridModels[strings.ToUpper(strings.TrimSpace(model))]
	return ok
}

// ParseDimension reads a millimetre dimension typed by the operator.
// Blank input is absent; garbled input is absent and reported.
func ParseDimension(field, raw string) (decimal.NullDecimal, *domain.Issue) {
	if strings.TrimSpace(raw) == "" {
		return decimal.NullDecimal{}, nil
	}
	v, ok := numfmt.Parse(raw)
	if !ok {
		return decimal.NullDecimal{}, &domain.Issue{
			Kind:    domain.IssueMalformedNumeric,
			Field:   field,
			Message: fmt.Sprintf("invalid number %q", raw),
		}
	}
	if v.IsNegative() {
		return decimal.NullDecimal{}, &domain.Issue{
			Kind:    domain.IssueMalformedNumeric,
			Field:   field,
			Message: fmt.Sprintf("negative dimension %q", raw),
		}
	}
	return decimal.NewNullDecimal(v), nil
}

type issueList struct {
	list []domain.Issue
}

func (l *issueList) add(i domain.Issue) {
	l.list = append(l.list, i)
}

func (l *issueList) missing(table refdomain.Table, key string) {
	l.add(domain.Issue{
		Kind:    domain.IssueMissingReference,
		Table:   table,
		Key:     key,
		Message: fmt.Sprintf("%q not found in %s", key, table),
	})
}

func (l *issueList) malformed(table refdomain.Table, key, field, raw string) {
	l.add(domain.Issue{
		Kind:    domain.IssueMalformedNumeric,
		Table:   table,
		Key:     key,
		Field:   field,
		Message: fmt.Sprintf("invalid number %q", raw),
	})
}
