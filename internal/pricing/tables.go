package pricing

import (
	refdomain "github.com/ifgsrl/gestionale/internal/reftable/domain"
)

// Tables is the read side of the reference store used while pricing.
// *reftable.Store implements it.
type Tables interface {
	Element(openingType string) (refdomain.Element, bool)
	Price(model string) (refdomain.PriceEntry, bool)
	CounterFrame(kind string) (refdomain.CounterFrame, bool)
}

type emptyTables struct{}

func (emptyTables) Element(string) (refdomain.Element, bool)           { return refdomain.Element{}, false }
func (emptyTables) Price(string) (refdomain.PriceEntry, bool)          { return refdomain.PriceEntry{}, false }
func (emptyTables) CounterFrame(string) (refdomain.CounterFrame, bool) { return refdomain.CounterFrame{}, false }
