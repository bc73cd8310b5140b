// Package money holds the currency arithmetic used for quote totals.
//
// Amounts are stored as float64 in the JSON documents for compatibility
// with existing data files, but every multiplication, sum and rounding goes
// through shopspring/decimal so that e.g. 333.33 × 3 is exactly 999.99
// before rounding.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencyPrefix is printed before formatted amounts.
const CurrencyPrefix = "NT$"

// RoundWhole rounds v to the nearest whole currency unit, ties to even
// (2.5 → 2, 3.5 → 4).
func RoundWhole(v float64) float64 {
	return decimal.NewFromFloat(v).RoundBank(0).InexactFloat64()
}

// Mul returns a × b computed in decimal.
func Mul(a, b float64) float64 {
	return decimal.NewFromFloat(a).Mul(decimal.NewFromFloat(b)).InexactFloat64()
}

// Sum adds vs in decimal.
func Sum(vs ...float64) float64 {
	total := decimal.Zero
	for _, v := range vs {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.InexactFloat64()
}

var printer = message.NewPrinter(language.TraditionalChinese)

// Format renders v as a whole-unit amount with digit grouping, e.g. "NT$ 1,350".
func Format(v float64) string {
	whole := decimal.NewFromFloat(v).RoundBank(0).IntPart()
	return printer.Sprintf("%s %d", CurrencyPrefix, whole)
}
