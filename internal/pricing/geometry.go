package pricing

import (
	"strings"

	"github.com/ifgsrl/gestionale/internal/numfmt"
	"github.com/ifgsrl/gestionale/internal/pricing/domain"
	refdomain "github.com/ifgsrl/gestionale/internal/reftable/domain"
	"github.com/shopspring/decimal"
)

var (
	perSquareMeter = decimal.New(1, -6)
	perMeter       = decimal.New(1, -3)
	two            = decimal.NewFromInt(2)
)

// Area returns the per-piece area in square metres of a width x height in
// millimetres, rounded to two digits. Absent dimensions count as zero.
func Area(width, height decimal.NullDecimal) decimal.Decimal {
	return numfmt.Round2(orZero(width).Mul(orZero(height)).Mul(perSquareMeter))
}

// Length returns the per-piece billable length in metres: width plus twice
// the height, rounded to two digits.
func Length(width, height decimal.NullDecimal) decimal.Decimal {
	return numfmt.Round2(orZero(width).Add(orZero(height).Mul(two)).Mul(perMeter))
}

// applyGeometry fills the billable quantities. The element and price entry
// may be zero values when their lookups missed.
func applyGeometry(d *domain.DerivedFields, p domain.Position, element refdomain.Element, price refdomain.PriceEntry, issues *issueList) {
	pieces := decimal.NewFromInt(int64(p.PieceCount))

	d.MqR = Area(p.Width, p.Height)
	d.MIR = Length(p.Width, p.Height)
	d.MinTable = price.MinTable

	if sel := strings.TrimSpace(price.MinTable); sel != "" {
		n, ok := numfmt.ParseInt(sel)
		switch {
		case !ok:
			issues.malformed(refdomain.TablePriceList, price.Model, ColMinTable, sel)
		case n >= 1 && n <= int64(len(element.Minimums)):
			d.MinTableIndex = int(n)
		}
	}

	billable := d.MqR
	if min, ok := element.Minimum(d.MinTableIndex); ok {
		d.MinOverride = min
		if strings.TrimSpace(min) != "" {
			v, ok := numfmt.Parse(min)
			if !ok {
				issues.malformed(refdomain.TableElements, element.OpeningType, ColMinOverride, min)
			}
			billable = decimal.Max(billable, v)
		}
	}

	d.MqFattPz = numfmt.Round2(billable)
	d.MqTotaliFatt = numfmt.Round2(d.MqFattPz.Mul(pieces))
	d.MlTotaliFatt = numfmt.Round2(d.MIR.Mul(pieces))
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
