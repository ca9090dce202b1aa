package pricing

import (
	"strconv"

	"github.com/ifgsrl/gestionale/internal/numfmt"
	"github.com/ifgsrl/gestionale/internal/pricing/domain"
)

// Quote record column names. Names and order are stored in saved quotes.
const (
	ColPosition       = "Pos."
	ColPieceCount     = "nr. pezzi"
	ColOpeningType    = "Serramento"
	ColModel          = "Modello"
	ColGridModel      = "Modello grata combinato"
	ColColor          = "Colore"
	ColWidth          = "L (mm)"
	ColHeight         = "H (mm)"
	ColFrameType      = "Tipo telaio"
	ColBunkerBar      = "BUNK"
	ColHandleCylinder = "Dmcp / Scp"
	ColDefender       = "Defender"
	ColSpacer         = "Dist."
	ColSpacerType     = "Tipo dist."
	ColSpacerWidth    = "L (mm) dist."
	ColSpacerHeight   = "H (mm) dist."
	ColCounterFrame   = "Tipologia controtelaio"
	ColSwingPosition  = "Anta a giro posizione"
	ColLoweredHandle  = "M.rib."

	ColLeafCount           = "N.ANTE"
	ColOpeningKind         = "AP."
	ColTypology            = "TIP."
	ColTypologyDescription = "DESCR.TIP"
	ColHingeCount          = "N.CERN."
	ColExtraLabor          = "XLAV"
	ColMultiplier          = "MULT."
	ColMultiplierCost      = "COSTO MLT"
	ColMin1                = "MIN.1"
	ColMin2                = "MIN.2"
	ColMin3                = "MIN.3"
	ColMin4                = "MIN.4"
	ColMin5                = "MIN.5"
	ColLockPresence        = "P.SERR."
	ColBracketCount        = "N.STAFF."

	ColDiscount1           = "Sconto 1"
	ColDiscount2           = "Sconto 2"
	ColDiscount3           = "Sconto 3"
	ColDiscountCombined    = "Sconto in decimali"
	ColDiscountDescription = "Dicitura sconto"

	ColListPrice               = "Prezzo_listino"
	ColMqR                     = "MqR"
	ColMIR                     = "MIR"
	ColMinTable                = "Tabella_minimi"
	ColUnitOfMeasure           = "Unita_di_misura"
	ColMinOverride             = "Min_fatt_pz"
	ColMqFattPz                = "Mq_fatt_pz"
	ColMqTotaliFatt            = "Mq_totali_fatt"
	ColMlTotaliFatt            = "Ml_totali_fatt"
	ColDiscountedUnitPrice     = "Costo_scontato_Mq"
	ColUnitListValue           = "Prezzo_listino_unitario"
	ColPositionListTotal       = "Costo_serramento_listino_posizione"
	ColPositionDiscountedTotal = "Costo_serramento_scontato_posizione"

	ColSpacerActive         = "Distanziali/Imbotti"
	ColSpacerTypeCode       = "Tipo distanziali/imbotti"
	ColSpacerLabel          = "Dicitura distanziale/imbotte"
	ColSpacerMeters         = "Ml Distanziali"
	ColRevealMeters         = "Ml Imbotti"
	ColSpacerColor          = "Colore dist/imb"
	ColSpacerKind           = "Tip. dist/imb"
	ColSpacerMetersRAL      = "Ml Distanziali Standard Ral"
	ColSpacerMetersWood     = "Ml Distanziali Effetto legno"
	ColSpacerMetersRaw      = "Ml Distanziali grezzo"
	ColRevealMetersRAL      = "Ml imbotti Standard Ral"
	ColRevealMetersWood     = "Ml imbotti Effetto legno"
	ColRevealMetersRaw      = "Ml imbotti grezzo"
	ColSpacerCostPerMeter   = "Costo al Ml"
	ColSpacerListCost       = "Costo List Dist"
	ColRevealListCost       = "Costo List Imb"
	ColSpacerListTotal      = "Somma Cost listino dist + imbotte"
	ColSpacerDiscountedCost = "Costo scontato somma dist/imb posizione"
	ColThreeSidedSpacers    = "N. distanziali a 3 lati"
	ColSpacerTotalMeters    = "Ml totali Dist/imb"

	ColCounterFrameCostPerMeter = "Costo al ml controtelaio singolo"
	ColCounterFrameVerified     = "Verifica controtelaio"
	ColCounterFrameDriver       = "Tipologia ml/nr. Pezzi"
	ColCounterFrameFactor       = "Fattore moltiplicatore ml/nr. Pezzi"
	ColCounterFrameListCost     = "Costo listino per posizione controtelaio"
	ColCounterFrameDiscounted   = "Costo scontato controtelaio posizione"
	ColSingleCount              = "N. Controtelai singoli"
	ColSingleMeters             = "ML Controtelaio singolo"
	ColSingleCost               = "Costo Controtelaio singolo"
	ColDoubleCount              = "N. Controtelai doppi"
	ColDoubleMeters             = "ML Controtelaio doppio"
	ColDoubleCost               = "Costo Controtelaio doppio"
	ColThermalACount            = "N. Controtelaio termico TIP A"
	ColThermalACost             = "Costo listino controtelaio termico TIP A"
	ColThermalBCount            = "N. Controtelaio termico TIP B"
	ColThermalBCost             = "Costo listino controtelaio termico TIP B"
)

// Record returns the position and its derived fields as the ordered list
// of named, formatted values stored in a quote document.
func Record(number int, p domain.Position, d domain.DerivedFields) []domain.Field {
	r := make(recordBuilder, 0, 96)

	r.add(ColPosition, strconv.Itoa(number))
	r.add(ColPieceCount, strconv.Itoa(p.PieceCount))
	r.add(ColOpeningType, p.OpeningType)
	r.add(ColModel, p.Model)
	r.add(ColGridModel, p.GridModel)
	r.add(ColColor, string(p.Color))
	r.add(ColWidth, numfmt.Plain(p.Width))
	r.add(ColHeight, numfmt.Plain(p.Height))
	r.add(ColFrameType, p.FrameType)
	r.add(ColBunkerBar, p.BunkerBar)
	r.add(ColHandleCylinder, p.HandleCylinder)
	r.add(ColDefender, d.Defender)
	r.add(ColSpacer, p.Spacer)
	r.add(ColSpacerType, string(p.SpacerType))
	r.add(ColSpacerWidth, numfmt.Plain(p.SpacerWidth))
	r.add(ColSpacerHeight, numfmt.Plain(p.SpacerHeight))
	r.add(ColCounterFrame, string(p.CounterFrame))
	r.add(ColSwingPosition, p.SwingPosition)
	r.add(ColLoweredHandle, p.LoweredHandle)

	o := d.Opening
	r.add(ColLeafCount, o.LeafCount)
	r.add(ColOpeningKind, o.OpeningKind)
	r.add(ColTypology, o.Typology)
	r.add(ColTypologyDescription, o.TypologyDescription)
	r.add(ColHingeCount, o.HingeCount)
	r.add(ColExtraLabor, o.ExtraLabor)
	r.add(ColMultiplier, o.Multiplier)
	r.add(ColMultiplierCost, o.MultiplierCost)
	for i, col := range []string{ColMin1, ColMin2, ColMin3, ColMin4, ColMin5} {
		r.add(col, o.Minimums[i])
	}
	r.add(ColLockPresence, o.LockPresence)
	r.add(ColBracketCount, o.BracketCount)

	r.add(ColDiscount1, d.Discount.Tier1)
	r.add(ColDiscount2, d.Discount.Tier2)
	r.add(ColDiscount3, d.Discount.Tier3)
	r.add(ColDiscountCombined, d.Discount.Combined)
	r.add(ColDiscountDescription, d.Discount.Description)

	listPrice := ""
	if d.ListPrice.Valid {
		listPrice = numfmt.EuroAlways(d.ListPrice.Decimal)
	}
	r.add(ColListPrice, listPrice)
	r.add(ColMqR, numfmt.Decimal2(d.MqR))
	r.add(ColMIR, numfmt.Decimal2(d.MIR))
	r.add(ColMinTable, d.MinTable)
	r.add(ColUnitOfMeasure, d.UnitOfMeasure)
	r.add(ColMinOverride, d.MinOverride)
	r.add(ColMqFattPz, numfmt.Decimal2(d.MqFattPz))
	r.add(ColMqTotaliFatt, numfmt.Decimal2(d.MqTotaliFatt))
	r.add(ColMlTotaliFatt, numfmt.Decimal2(d.MlTotaliFatt))
	r.add(ColDiscountedUnitPrice, numfmt.EuroNull(d.DiscountedUnitPrice))
	r.add(ColUnitListValue, numfmt.EuroNull(d.UnitListValue))
	r.add(ColPositionListTotal, numfmt.EuroNull(d.PositionListTotal))
	r.add(ColPositionDiscountedTotal, numfmt.EuroNull(d.PositionDiscountedTotal))

	s := d.Spacer
	r.add(ColSpacerActive, flag(s.Active))
	r.add(ColSpacerTypeCode, strconv.Itoa(s.TypeCode))
	r.add(ColSpacerLabel, s.Label)
	r.add(ColSpacerMeters, "")
	r.add(ColRevealMeters, "")
	r.add(ColSpacerColor, optionalInt(s.ColorCode))
	r.add(ColSpacerKind, "")
	r.add(ColSpacerMetersRAL, "")
	r.add(ColSpacerMetersWood, "")
	r.add(ColSpacerMetersRaw, "")
	r.add(ColRevealMetersRAL, "")
	r.add(ColRevealMetersWood, "")
	r.add(ColRevealMetersRaw, "")
	r.add(ColSpacerCostPerMeter, "")
	r.add(ColSpacerListCost, "")
	r.add(ColRevealListCost, "")
	r.add(ColSpacerListTotal, "")
	r.add(ColSpacerDiscountedCost, "")
	r.add(ColThreeSidedSpacers, optionalInt(s.ThreeSidedCount))
	r.add(ColSpacerTotalMeters, "")

	c := d.CounterFrame
	r.add(ColCounterFrameCostPerMeter, numfmt.EuroNull(c.CostPerMeter))
	r.add(ColCounterFrameVerified, optionalFlag(c.Verified))
	r.add(ColCounterFrameDriver, optionalInt(c.LengthDriver))
	r.add(ColCounterFrameFactor, factor(c))
	r.add(ColCounterFrameListCost, numfmt.EuroNull(c.ListCost))
	r.add(ColCounterFrameDiscounted, numfmt.EuroNull(c.DiscountedCost))
	r.add(ColSingleCount, strconv.Itoa(c.Single.Count))
	r.add(ColSingleMeters, numfmt.Decimal2Null(c.Single.Meters))
	r.add(ColSingleCost, numfmt.EuroNull(c.Single.Cost))
	r.add(ColDoubleCount, strconv.Itoa(c.Double.Count))
	r.add(ColDoubleMeters, numfmt.Decimal2Null(c.Double.Meters))
	r.add(ColDoubleCost, numfmt.EuroNull(c.Double.Cost))
	r.add(ColThermalACount, strconv.Itoa(c.ThermalA.Count))
	r.add(ColThermalACost, numfmt.EuroNull(c.ThermalA.Cost))
	r.add(ColThermalBCount, strconv.Itoa(c.ThermalB.Count))
	r.add(ColThermalBCost, numfmt.EuroNull(c.ThermalB.Cost))

	return r
}

// Columns lists the record column names in order.
func Columns() []string {
	fields := Record(0, domain.Position{}, domain.DerivedFields{})
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}

type recordBuilder []domain.Field

func (r *recordBuilder) add(name, value string) {
	*r = append(*r, domain.Field{Name: name, Value: value})
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func optionalFlag(b bool) string {
	if b {
		return "1"
	}
	return ""
}

func optionalInt(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// factor is in metres when the length driver is 1, a piece count otherwise.
func factor(c domain.CounterFrameFields) string {
	if c.Verified && c.LengthDriver == 1 {
		return numfmt.Decimal2(c.MultiplierFactor)
	}
	if c.MultiplierFactor.Equal(c.MultiplierFactor.Truncate(0)) {
		return c.MultiplierFactor.String()
	}
	return numfmt.Decimal2(c.MultiplierFactor)
}
