package pricing

import (
	"fmt"

	"github.com/ifgsrl/gestionale/internal/pricing/domain"
	refdomain "github.com/ifgsrl/gestionale/internal/reftable/domain"
	"github.com/shopspring/decimal"
)

// applySpacer fills the spacer descriptors. Spacer metres and costs have no
// source table and stay empty.
func applySpacer(d *domain.DerivedFields, p domain.Position) {
	s := domain.SpacerFields{
		Active:    p.SpacerActive(),
		TypeCode:  p.SpacerType.Code(),
		Label:     p.SpacerType.Label(),
		ColorCode: p.Color.Code(),
	}
	if s.Active {
		s.ThreeSidedCount = p.PieceCount * 3
	}
	d.Spacer = s
}

func applyCounterFrame(d *domain.DerivedFields, p domain.Position, tables Tables, issues *issueList) {
	pieces := decimal.NewFromInt(int64(p.PieceCount))
	cf := domain.CounterFrameFields{
		Verified:         p.CounterFrame.IsSet(),
		LengthDriver:     p.CounterFrame.LengthDriver(),
		MultiplierFactor: pieces,
	}
	defer func() { d.CounterFrame = cf }()

	if cf.Verified && cf.LengthDriver == refdomain.LengthDriverPerPiece {
		cf.MultiplierFactor = d.MlTotaliFatt
	}
	if !cf.Verified {
		return
	}

	entry, ok := tables.CounterFrame(string(p.CounterFrame))
	if !ok {
		issues.missing(refdomain.TableCounterFrames, string(p.CounterFrame))
	} else {
		if entry.LengthDriver != 0 && cf.LengthDriver != 0 && entry.LengthDriver != cf.LengthDriver {
			issues.add(domain.Issue{
				Kind:    domain.IssueConfigurationGap,
				Table:   refdomain.TableCounterFrames,
				Key:     entry.Type,
				Field:   ColCounterFrameDriver,
				Message: fmt.Sprintf("catalog length driver %d ignored, type implies %d", entry.LengthDriver, cf.LengthDriver),
			})
		}

		cf.CostPerMeter = entry.CostPerMeter
		if entry.CostPerMeter.Valid {
			list := entry.CostPerMeter.Decimal.Mul(cf.MultiplierFactor)
			cf.ListCost = decimal.NewNullDecimal(list)
			if d.Discount.Combined != "" {
				cf.DiscountedCost = decimal.NewNullDecimal(list.Mul(one.Sub(d.Discount.Rate)))
			}
		}
	}

	// count and metres come from the type alone, cost is per metre
	breakdown := domain.CounterFrameBreakdown{
		Count:  p.PieceCount,
		Meters: decimal.NewNullDecimal(d.MIR),
		Cost:   cf.CostPerMeter,
	}
	switch p.CounterFrame {
	case domain.CounterFrameSingle:
		cf.Single = breakdown
	case domain.CounterFrameDouble:
		cf.Double = breakdown
	case domain.CounterFrameThermalA:
		cf.ThermalA = breakdown
	case domain.CounterFrameThermalB:
		cf.ThermalB = breakdown
	}
}
