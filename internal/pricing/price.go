package pricing

import (
	"strings"

	"github.com/ifgsrl/gestionale/internal/numfmt"
	"github.com/ifgsrl/gestionale/internal/pricing/domain"
	refdomain "github.com/ifgsrl/gestionale/internal/reftable/domain"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// applyListPrice copies the list price for the position colour. A missing
// model, colour column or price cell leaves the price null.
func applyListPrice(d *domain.DerivedFields, p domain.Position, price refdomain.PriceEntry) {
	d.ListPrice = price.Price(string(p.Color))
	d.UnitOfMeasure = price.UnitOfMeasure
}

// applyDiscount copies the quote-wide settings onto the position and
// normalises the combined rate.
func applyDiscount(d *domain.DerivedFields, s domain.DiscountSettings, issues *issueList) {
	d.Discount = domain.DiscountFields{
		Tier1:       numfmt.Percent(s.Tier1),
		Tier2:       numfmt.Percent(s.Tier2),
		Tier3:       numfmt.Percent(s.Tier3),
		Combined:    numfmt.Percent(s.Combined),
		Description: numfmt.PercentLabel(strings.TrimSpace(s.Description)),
	}
	d.Discount.Rate = CombinedRate(s.Combined)
	if strings.TrimSpace(s.Combined) != "" {
		if _, ok := numfmt.Parse(s.Combined); !ok {
			issues.malformed("", "", ColDiscountCombined, s.Combined)
		}
	}
}

// CombinedRate parses the combined discount as a fraction. Whole
// percentages above 1 are divided by 100; blank or garbled input is 0.
func CombinedRate(raw string) decimal.Decimal {
	v, ok := numfmt.Parse(raw)
	if !ok {
		return decimal.Zero
	}
	return numfmt.NormalizeRate(v)
}

// applyCosts derives the window costs from the list price. They stay null
// when the list price is unknown.
func applyCosts(d *domain.DerivedFields) {
	if !d.ListPrice.Valid {
		return
	}
	price := d.ListPrice.Decimal
	discounted := price.Mul(one.Sub(d.Discount.Rate))

	d.DiscountedUnitPrice = decimal.NewNullDecimal(discounted)
	d.UnitListValue = decimal.NewNullDecimal(price.Mul(d.MqFattPz))
	d.PositionListTotal = decimal.NewNullDecimal(price.Mul(d.MqTotaliFatt))
	d.PositionDiscountedTotal = decimal.NewNullDecimal(discounted.Mul(d.MqTotaliFatt))
}
