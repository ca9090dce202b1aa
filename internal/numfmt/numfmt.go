// Package numfmt parses and formats numbers using the Italian conventions
// found in price lists and quote documents: comma as decimal separator,
// dot as thousands separator, "€ " prefix for currency.
package numfmt

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	numberRe = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
)

// Parse reads a decimal from user or spreadsheet text. It accepts either
// separator convention ("1.234,56", "1,234.56", "1000,5", "1000.5") and
// ignores currency and percent decorations. Blank or unparsable input
// yields zero and false.
func Parse(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "none") {
		return decimal.Zero, false
	}
	s = strings.NewReplacer("€", "", "%", "", " ", "", " ", "").Replace(s)
	if s == "" {
		return decimal.Zero, false
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			// 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// 1,234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			return decimal.Zero, false
		}
		s = strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1:
		// 1.234.567
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseOrZero is Parse without the ok flag.
func ParseOrZero(raw string) decimal.Decimal {
	d, _ := Parse(raw)
	return d
}

// ParseInt reads an integral value. "3", "3,0" and "3.0" are all 3;
// fractional or garbled input reports false.
func ParseInt(raw string) (int64, bool) {
	d, ok := Parse(raw)
	if !ok || !d.Equal(d.Truncate(0)) {
		return 0, false
	}
	return d.IntPart(), true
}

// Round2 rounds to two fraction digits, ties to even.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

// Decimal2 formats with two fraction digits and a comma: "2,00".
func Decimal2(d decimal.Decimal) string {
	return strings.Replace(Round2(d).StringFixedBank(2), ".", ",", 1)
}

// Decimal2Null formats a nullable decimal, empty when not valid.
func Decimal2Null(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return Decimal2(d.Decimal)
}

// Plain formats an input quantity without padding: "1000", "1000,5".
func Plain(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return strings.Replace(d.Decimal.String(), ".", ",", 1)
}

// Euro formats a computed amount as "€ 1.234,56". Zero renders as "".
func Euro(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return EuroAlways(d)
}

// EuroNull formats a nullable amount, empty when not valid or zero.
func EuroNull(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return Euro(d.Decimal)
}

// EuroAlways formats an amount including zero ("€ 0,00").
func EuroAlways(d decimal.Decimal) string {
	return "€ " + grouped(Round2(d))
}

// Percent formats a percentage value as "20,00 %". Blank or garbled input
// is returned unchanged.
func Percent(raw string) string {
	d, ok := Parse(raw)
	if !ok {
		return strings.TrimSpace(raw)
	}
	return Decimal2(d) + " %"
}

// PercentLabel rewrites every bare number of a free-text discount
// description into percent notation: "sconto 20+10" becomes
// "sconto 20,00 %+10,00 %". Numbers already followed by "%" are kept.
func PercentLabel(label string) string {
	matches := numberRe.FindAllStringIndex(label, -1)
	if len(matches) == 0 {
		return label
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		b.WriteString(label[last:start])
		token := label[start:end]
		d, ok := Parse(token)
		if !ok || strings.HasPrefix(strings.TrimLeft(label[end:], " "), "%") {
			b.WriteString(token)
		} else {
			b.WriteString(Decimal2(d) + " %")
		}
		last = end
	}
	b.WriteString(label[last:])
	return b.String()
}

// NormalizeRate converts a discount expressed either as a fraction (0.2)
// or as a whole percentage (20) to a fraction. Values above 1 are divided
// by 100; values at or below 1 are returned unchanged.
func NormalizeRate(d decimal.Decimal) decimal.Decimal {
	if d.GreaterThan(decimal.NewFromInt(1)) {
		return d.Div(hundred)
	}
	return d
}

func grouped(d decimal.Decimal) string {
	s := d.StringFixedBank(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i+1:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}
