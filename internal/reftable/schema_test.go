package reftable

import (
	"testing"

	"github.com/ifgsrl/gestionale/internal/reftable/domain"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"Unità di misura":               "unita_di_misura",
		"UNITA' DI MISURA":              "unita_di_misura",
		"unita_di_misura":               "unita_di_misura",
		"  Ml / nr. Pezzi ":             "ml_nr_pezzi",
		"MINIMI 1 (protezione singola)": "minimi_1_protezione_singola",
		"N.CERN.":                       "n_cern",
		"":                              "",
		"---":                           "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeHeader(in), in)
	}
}

func TestResolve_FirstAliasWins(t *testing.T) {
	ts := DefaultSchema()[domain.TablePriceList]

	// Both "MINIMI 1" and "Minimi" exist: "Minimi" is listed first.
	r, _ := ts.resolve([]string{"MODELLO", "MINIMI 1", "Minimi", "STANDARD RAL"})
	assert.Equal(t, 2, r.columns[FieldMinTable])

	r, _ = ts.resolve([]string{"MODELLO", "Minimi 1", "MINIMI"})
	assert.Equal(t, 2, r.columns[FieldMinTable])
}

func TestResolve_MissingColumnsAreWarnings(t *testing.T) {
	ts := DefaultSchema()[domain.TablePriceList]

	r, warnings := ts.resolve([]string{"MODELLO", "STANDARD RAL"})
	assert.Equal(t, 0, r.key)
	assert.Equal(t, 1, r.columns[domain.ColorStandardRAL])

	missing := map[string]bool{}
	for _, w := range warnings {
		missing[w.Field] = true
	}
	assert.True(t, missing[FieldMinTable])
	assert.True(t, missing[FieldUnitOfMeasure])
	assert.True(t, missing[domain.ColorWoodEffect])
	assert.False(t, missing[FieldModel])
}

func TestResolve_KeyFromFirstColumn(t *testing.T) {
	ts := DefaultSchema()[domain.TableElements]

	r, warnings := ts.resolve([]string{"Apertura completa", "NUMERO ANTE"})
	assert.Equal(t, 0, r.key)
	for _, w := range warnings {
		assert.NotEqual(t, FieldOpeningType, w.Field)
	}

	prices := DefaultSchema()[domain.TablePriceList]
	r, _ = prices.resolve([]string{"Articolo", "STANDARD RAL"})
	assert.Equal(t, -1, r.key)
}
