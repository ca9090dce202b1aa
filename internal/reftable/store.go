package reftable

import (
	"fmt"
	"strings"

	"github.com/ifgsrl/gestionale/internal/numfmt"
	"github.com/ifgsrl/gestionale/internal/reftable/domain"
	"github.com/shopspring/decimal"
)

type table struct {
	keys []string
	rows map[string]domain.Row
}

// Store is an immutable snapshot of the reference tables. It is safe for
// concurrent readers; reloads build a new Store.
type Store struct {
	tables        map[domain.Table]*table
	elements      map[string]domain.Element
	prices        map[string]domain.PriceEntry
	counterFrames map[string]domain.CounterFrame
}

// Empty returns a store with no rows.
func Empty() *Store {
	s, _ := NewStore(DefaultSchema())
	return s
}

// NewStore resolves raw sheets against the schema. Tables absent from raws
// are empty. Duplicate keys keep their first row.
func NewStore(schema Schema, raws ...domain.RawTable) (*Store, []domain.Warning) {
	var warnings []domain.Warning

	byName := make(map[domain.Table]domain.RawTable, len(raws))
	for _, raw := range raws {
		if _, ok := schema[raw.Name]; !ok {
			warnings = append(warnings, domain.Warning{Table: raw.Name, Reason: "unknown table"})
			continue
		}
		byName[raw.Name] = raw
	}

	s := &Store{tables: make(map[domain.Table]*table, len(domain.Tables))}
	for _, name := range domain.Tables {
		ts, ok := schema[name]
		if !ok {
			s.tables[name] = &table{rows: map[string]domain.Row{}}
			continue
		}
		raw, ok := byName[name]
		if !ok {
			warnings = append(warnings, domain.Warning{Table: name, Reason: "table not loaded"})
			s.tables[name] = &table{rows: map[string]domain.Row{}}
			continue
		}
		t, w := buildTable(ts, raw)
		warnings = append(warnings, w...)
		s.tables[name] = t
	}

	s.index()
	return s, warnings
}

func buildTable(ts TableSchema, raw domain.RawTable) (*table, []domain.Warning) {
	t := &table{rows: map[string]domain.Row{}}
	if len(raw.Headers) == 0 {
		return t, []domain.Warning{{Table: ts.Table, Reason: "missing header row"}}
	}

	r, warnings := ts.resolve(raw.Headers)
	if r.key < 0 {
		return t, append(warnings, domain.Warning{Table: ts.Table, Field: ts.Key, Reason: "key column not found"})
	}

	for _, cells := range raw.Rows {
		key := cell(cells, r.key)
		if key == "" {
			continue
		}
		if _, dup := t.rows[key]; dup {
			continue
		}
		row := make(domain.Row, len(r.columns))
		for field, col := range r.columns {
			row[field] = cell(cells, col)
		}
		t.keys = append(t.keys, key)
		t.rows[key] = row
	}
	return t, warnings
}

func cell(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	v := strings.TrimSpace(cells[i])
	switch strings.ToLower(v) {
	case "nan", "none", "null":
		return ""
	}
	return v
}

func (s *Store) index() {
	elements := s.tables[domain.TableElements]
	s.elements = make(map[string]domain.Element, len(elements.rows))
	for key, row := range elements.rows {
		s.elements[key] = domain.Element{
			OpeningType:         key,
			LeafCount:           row[FieldLeafCount],
			OpeningKind:         row[FieldOpeningKind],
			Typology:            row[FieldTypology],
			TypologyDescription: row[FieldTypologyDescription],
			HingeCount:          row[FieldHingeCount],
			ExtraLabor:          row[FieldExtraLabor],
			Multiplier:          row[FieldMultiplier],
			MultiplierCost:      row[FieldMultiplierCost],
			Minimums: [5]string{
				row[FieldMin1], row[FieldMin2], row[FieldMin3], row[FieldMin4], row[FieldMin5],
			},
			LockPresence: row[FieldLockPresence],
			BracketCount: row[FieldBracketCount],
		}
	}

	prices := s.tables[domain.TablePriceList]
	s.prices = make(map[string]domain.PriceEntry, len(prices.rows))
	for key, row := range prices.rows {
		entry := domain.PriceEntry{
			Model:         key,
			Prices:        make(map[string]decimal.NullDecimal, len(domain.Colors)),
			MinTable:      row[FieldMinTable],
			UnitOfMeasure: row[FieldUnitOfMeasure],
		}
		for _, color := range domain.Colors {
			if d, ok := numfmt.Parse(row[color]); ok {
				entry.Prices[color] = decimal.NewNullDecimal(d)
			}
		}
		s.prices[key] = entry
	}

	frames := s.tables[domain.TableCounterFrames]
	s.counterFrames = make(map[string]domain.CounterFrame, len(frames.rows))
	for key, row := range frames.rows {
		cf := domain.CounterFrame{Type: key}
		if d, ok := numfmt.Parse(row[FieldCostPerMeter]); ok {
			cf.CostPerMeter = decimal.NewNullDecimal(d)
		}
		if n, ok := numfmt.ParseInt(row[FieldLengthDriver]); ok {
			cf.LengthDriver = int(n)
		}
		s.counterFrames[key] = cf
	}
}

// Lookup returns a copy of the row stored under key.
func (s *Store) Lookup(name domain.Table, key string) (domain.Row, error) {
	t, ok := s.tables[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, domain.ErrUnknownTable)
	}
	row, ok := t.rows[strings.TrimSpace(key)]
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", name, key, domain.ErrNotFound)
	}
	out := make(domain.Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out, nil
}

func (s *Store) Element(openingType string) (domain.Element, bool) {
	e, ok := s.elements[strings.TrimSpace(openingType)]
	return e, ok
}

func (s *Store) Price(model string) (domain.PriceEntry, bool) {
	p, ok := s.prices[strings.TrimSpace(model)]
	return p, ok
}

func (s *Store) CounterFrame(kind string) (domain.CounterFrame, bool) {
	cf, ok := s.counterFrames[strings.TrimSpace(kind)]
	return cf, ok
}

func (s *Store) GridModel(model string) (domain.GridModel, bool) {
	key := strings.TrimSpace(model)
	if _, ok := s.tables[domain.TableGridModels].rows[key]; !ok {
		return domain.GridModel{}, false
	}
	return domain.GridModel{Model: key}, true
}

// OpeningTypes lists the elements catalog keys in sheet order.
func (s *Store) OpeningTypes() []string { return s.keys(domain.TableElements) }

// Models lists the price list models in sheet order.
func (s *Store) Models() []string { return s.keys(domain.TablePriceList) }

func (s *Store) GridModels() []string { return s.keys(domain.TableGridModels) }

func (s *Store) CounterFrameTypes() []string { return s.keys(domain.TableCounterFrames) }

func (s *Store) FrameTypes() []domain.FrameType {
	keys := s.keys(domain.TableFrameTypes)
	out := make([]domain.FrameType, 0, len(keys))
	for _, k := range keys {
		out = append(out, domain.FrameType{Name: k})
	}
	return out
}

// Counts reports the number of rows per table.
func (s *Store) Counts() map[domain.Table]int {
	out := make(map[domain.Table]int, len(s.tables))
	for name, t := range s.tables {
		out[name] = len(t.keys)
	}
	return out
}

func (s *Store) keys(name domain.Table) []string {
	t, ok := s.tables[name]
	if !ok {
		return nil
	}
	return append([]string(nil), t.keys...)
}
