// Package gnf formats amounts for receipt display: Guinean francs, fr-GN
// digit grouping, no decimal places, "GNF" suffix.
package gnf

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.MustParse("fr-GN"))

// Format renders e.g. 1234500 as "1 234 500 GNF". The franc has no minor
// unit, so amounts are rounded to whole francs.
func Format(amount decimal.Decimal) string {
	return printer.Sprintf("%v GNF", number.Decimal(amount.Round(0).IntPart()))
}
