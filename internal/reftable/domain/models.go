// Package domain holds the reference tables used to price positions.
package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Table names a reference table.
type Table string

const (
	TableElements      Table = "elements"
	TablePriceList     Table = "price_list"
	TableGridModels    Table = "grid_models"
	TableCounterFrames Table = "counter_frames"
	TableFrameTypes    Table = "frame_types"
)

// Tables lists every reference table in load order.
var Tables = []Table{
	TableElements,
	TablePriceList,
	TableGridModels,
	TableCounterFrames,
	TableFrameTypes,
}

// Price list colour columns.
const (
	ColorStandardRAL = "STANDARD RAL"
	ColorWoodEffect  = "EFFETTO LEGNO"
	ColorRaw         = "GREZZO"
	ColorExtraJamb   = "EXTRA MAZZETTA"
)

// Colors lists the priced colour columns.
var Colors = []string{ColorStandardRAL, ColorWoodEffect, ColorRaw, ColorExtraJamb}

// Length drivers of a counter-frame.
const (
	LengthDriverPerPiece = 1
	LengthDriverPerMeter = 2
)

var (
	ErrNotFound       = errors.New("not_found")
	ErrUnknownTable   = errors.New("unknown_table")
	ErrUnknownSource  = errors.New("unknown_reference_source")
	ErrSheetNotLoaded = errors.New("sheet_not_loaded")
)

// RawTable is a sheet as read from its source: a header row followed by
// data rows, all cells as text.
type RawTable struct {
	Name    Table
	Headers []string
	Rows    [][]string
}

// Row is a resolved reference row keyed by canonical field name.
type Row map[string]string

// Element is one opening type of the elements catalog. Values are kept as
// found in the catalog; they are copied verbatim onto priced positions.
type Element struct {
	OpeningType         string
	LeafCount           string
	OpeningKind         string
	Typology            string
	TypologyDescription string
	HingeCount          string
	ExtraLabor          string
	Multiplier          string
	MultiplierCost      string
	Minimums            [5]string
	LockPresence        string
	BracketCount        string
}

// Minimum returns the minimum billable quantity slot for a 1-based table
// index. Indexes outside 1..5 report false.
func (e Element) Minimum(index int) (string, bool) {
	if index < 1 || index > len(e.Minimums) {
		return "", false
	}
	return e.Minimums[index-1], true
}

// PriceEntry is one model of the price list.
type PriceEntry struct {
	Model         string
	Prices        map[string]decimal.NullDecimal
	MinTable      string
	UnitOfMeasure string
}

// Price returns the list price for a colour column.
func (p PriceEntry) Price(color string) decimal.NullDecimal {
	if p.Prices == nil {
		return decimal.NullDecimal{}
	}
	return p.Prices[color]
}

// GridModel is an entry of the combined grid model list.
type GridModel struct {
	Model string
}

// CounterFrame is one counter-frame type of the catalog.
type CounterFrame struct {
	Type         string
	CostPerMeter decimal.NullDecimal
	LengthDriver int
}

// FrameType is a frame type suggestion.
type FrameType struct {
	Name string
}

// Warning describes a recoverable problem found while building a store.
type Warning struct {
	Table  Table
	Field  string
	Reason string
}
