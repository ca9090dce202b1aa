package reftable

import (
	"strings"
	"unicode"

	"github.com/ifgsrl/gestionale/internal/reftable/domain"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Canonical field names.
const (
	FieldOpeningType         = "opening_type"
	FieldLeafCount           = "leaf_count"
	FieldOpeningKind         = "opening_kind"
	FieldTypology            = "typology"
	FieldTypologyDescription = "typology_description"
	FieldHingeCount          = "hinge_count"
	FieldExtraLabor          = "extra_labor"
	FieldMultiplier          = "multiplier"
	FieldMultiplierCost      = "multiplier_cost"
	FieldMin1                = "min_1"
	FieldMin2                = "min_2"
	FieldMin3                = "min_3"
	FieldMin4                = "min_4"
	FieldMin5                = "min_5"
	FieldLockPresence        = "lock_presence"
	FieldBracketCount        = "bracket_count"

	FieldModel         = "model"
	FieldMinTable      = "min_table"
	FieldUnitOfMeasure = "unit_of_measure"

	FieldCounterFrameType = "counter_frame_type"
	FieldCostPerMeter     = "cost_per_meter"
	FieldLengthDriver     = "length_driver"

	FieldFrameType = "frame_type"
)

// Field maps a canonical field to the headers accepted for it. Aliases are
// tried in order and the first one present in the sheet wins.
type Field struct {
	Name    string
	Aliases []string
}

// TableSchema describes one reference table.
type TableSchema struct {
	Table  domain.Table
	Key    string
	Fields []Field
	// KeyFromFirstColumn uses the first column as key when no key alias
	// matches.
	KeyFromFirstColumn bool
}

// Schema is the full set of reference table schemas.
type Schema map[domain.Table]TableSchema

// DefaultSchema returns the header aliases of the company workbook.
func DefaultSchema() Schema {
	priceFields := []Field{
		{Name: FieldModel, Aliases: []string{"MODELLO", "Model"}},
		{Name: FieldMinTable, Aliases: []string{
			"Minimi",
			"MINIMI 1 (protezione singola)",
			"MINIMI 1",
			"MINIMI",
			"Minimi 1",
			"MINIMI_1",
		}},
		{Name: FieldUnitOfMeasure, Aliases: []string{"Unità di misura", "Unità misura", "UM", "Unit of measure"}},
		{Name: domain.ColorStandardRAL, Aliases: []string{"STANDARD RAL", "RAL", "Standard-RAL"}},
		{Name: domain.ColorWoodEffect, Aliases: []string{"EFFETTO LEGNO", "Wood effect", "Wood-Effect"}},
		{Name: domain.ColorRaw, Aliases: []string{"GREZZO", "Raw"}},
		{Name: domain.ColorExtraJamb, Aliases: []string{"EXTRA MAZZETTA", "Extra jamb", "Extra-Jamb"}},
	}

	return Schema{
		domain.TableElements: {
			Table:              domain.TableElements,
			Key:                FieldOpeningType,
			KeyFromFirstColumn: true,
			Fields: []Field{
				{Name: FieldOpeningType, Aliases: []string{"TIPOLOGIA COMPLETA DI APERTURA", "Serramento"}},
				{Name: FieldLeafCount, Aliases: []string{"NUMERO ANTE", "N. ANTE", "N.ANTE"}},
				{Name: FieldOpeningKind, Aliases: []string{"APERTURA", "AP."}},
				{Name: FieldTypology, Aliases: []string{"TIPOLOGIA", "TIP."}},
				{Name: FieldTypologyDescription, Aliases: []string{"DESCRIZIONE TIPOLOGIA", "DESCR.TIP"}},
				{Name: FieldHingeCount, Aliases: []string{"N. CERNIERE", "NUMERO CERNIERE", "N.CERN."}},
				{Name: FieldExtraLabor, Aliases: []string{"EXTRA LAVORAZIONE", "XLAV"}},
				{Name: FieldMultiplier, Aliases: []string{"MULTIPLO", "MULT."}},
				{Name: FieldMultiplierCost, Aliases: []string{"COSTO MULTIPLO", "COSTO MLT"}},
				{Name: FieldMin1, Aliases: []string{"MINIMI 1 (protezione singola)", "MINIMI 1", "MIN.1"}},
				{Name: FieldMin2, Aliases: []string{"MINIMI 2 (snodo)", "MINIMI 2", "MIN.2"}},
				{Name: FieldMin3, Aliases: []string{"MINIMI 3 (combinati)", "MINIMI 3", "MIN.3"}},
				{Name: FieldMin4, Aliases: []string{"MINIMI 4", "MIN.4"}},
				{Name: FieldMin5, Aliases: []string{"MINIMI 5", "MIN.5"}},
				{Name: FieldLockPresence, Aliases: []string{"Presenza serratura", "P.SERR."}},
				{Name: FieldBracketCount, Aliases: []string{"Numero staffette", "N.STAFF."}},
			},
		},
		domain.TablePriceList: {
			Table:  domain.TablePriceList,
			Key:    FieldModel,
			Fields: priceFields,
		},
		domain.TableGridModels: {
			Table:              domain.TableGridModels,
			Key:                FieldModel,
			KeyFromFirstColumn: true,
			Fields: []Field{
				{Name: FieldModel, Aliases: []string{"MODELLO GRATA COMBINATO", "Modello grata combinato", "MODELLO"}},
			},
		},
		domain.TableCounterFrames: {
			Table:              domain.TableCounterFrames,
			Key:                FieldCounterFrameType,
			KeyFromFirstColumn: true,
			Fields: []Field{
				{Name: FieldCounterFrameType, Aliases: []string{"CONTROTELAIO", "Tipologia controtelaio"}},
				{Name: FieldCostPerMeter, Aliases: []string{"COSTO", "Costo al Ml", "COSTO AL ML"}},
				{Name: FieldLengthDriver, Aliases: []string{"Ml / nr. Pezzi", "Tipologia ml/nr. Pezzi", "ML/NR PEZZI"}},
			},
		},
		domain.TableFrameTypes: {
			Table:              domain.TableFrameTypes,
			Key:                FieldFrameType,
			KeyFromFirstColumn: true,
			Fields: []Field{
				{Name: FieldFrameType, Aliases: []string{"TELAIO", "Tipo telaio"}},
			},
		},
	}
}

// resolved binds canonical fields to column indexes of a sheet.
type resolved struct {
	key     int
	columns map[string]int
}

// resolve matches the sheet headers against the table schema once. Fields
// with no matching header are reported and left unbound.
func (t TableSchema) resolve(headers []string) (resolved, []domain.Warning) {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		n := NormalizeHeader(h)
		if n == "" {
			continue
		}
		if _, dup := index[n]; !dup {
			index[n] = i
		}
	}

	r := resolved{key: -1, columns: make(map[string]int, len(t.Fields))}
	var warnings []domain.Warning
	for _, f := range t.Fields {
		col, ok := -1, false
		for _, alias := range f.Aliases {
			if col, ok = index[NormalizeHeader(alias)]; ok {
				break
			}
		}
		if !ok {
			if f.Name == t.Key && t.KeyFromFirstColumn {
				continue
			}
			warnings = append(warnings, domain.Warning{
				Table:  t.Table,
				Field:  f.Name,
				Reason: "column not found",
			})
			continue
		}
		r.columns[f.Name] = col
	}

	if col, ok := r.columns[t.Key]; ok {
		r.key = col
	} else if t.KeyFromFirstColumn && len(headers) > 0 {
		r.key = 0
		r.columns[t.Key] = 0
	}
	return r, warnings
}

func foldAccents() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// NormalizeHeader folds a column header for comparison: accents are
// stripped, letters lower-cased and runs of other characters collapse to
// a single underscore. "Unità di misura" becomes "unita_di_misura".
func NormalizeHeader(h string) string {
	folded, _, err := transform.String(foldAccents(), h)
	if err != nil {
		folded = h
	}

	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}
