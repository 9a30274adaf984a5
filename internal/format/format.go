// Package format renders money and ratios for display.
package format

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders v as US dollars with two decimals and thousands
// separators, e.g. -1234.5 becomes "-$1,234.50".
func FormatCurrency(v float64) string {
	return FormatCurrencyDecimal(decimal.NewFromFloat(v))
}

// FormatCurrencyDecimal is FormatCurrency for decimal amounts.
func FormatCurrencyDecimal(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	whole := d.Truncate(0)
	cents := d.Sub(whole).Shift(2).IntPart()

	return sign + "$" + printer.Sprintf("%d", whole.IntPart()) + printer.Sprintf(".%02d", cents)
}

// FormatPercent renders a ratio as a percentage with one decimal: 0.75 is "75.0%".
func FormatPercent(v float64) string {
	return FormatPercentPlaces(v, 1)
}

// FormatPercentPlaces renders a ratio as a percentage with the given number
// of decimals. Expense ratios need two: 0.0003 is "0.03%".
func FormatPercentPlaces(v float64, places int32) string {
	return decimal.NewFromFloat(v).Shift(2).StringFixed(places) + "%"
}
