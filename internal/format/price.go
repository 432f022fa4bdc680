// Package format renders prices and spreads for display.
//
// Every band rounds half away from zero on the shortest decimal form of
// the input, so identical inputs always produce identical strings.
package format

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrInvalidInput is returned for negative, NaN or infinite prices.
var ErrInvalidInput = errors.New("format: price must be a finite non-negative number")

// Placeholder is what Display shows in place of an unformattable value.
const Placeholder = "-"

// Band thresholds, checked from the top down.
const (
	groupedMin = 1000
	unitMin    = 1
	smallMin   = 0.0001
)

// Price formats a price by magnitude:
//
//	>= 1000        $1,234.50     (grouped, 2 digits)
//	[1, 1000)      $12.3456      (4 digits)
//	[0.0001, 1)    $0.123456     (6 digits)
//	< 0.0001       $0.00001234   (8 digits)
func Price(v float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return "", ErrInvalidInput
	}

	d := decimal.NewFromFloat(v)
	switch {
	case v >= groupedMin:
		rounded, _ := d.Round(2).Float64()
		return message.NewPrinter(language.English).Sprintf("$%.2f", rounded), nil
	case v >= unitMin:
		return "$" + d.StringFixed(4), nil
	case v >= smallMin:
		return "$" + d.StringFixed(6), nil
	default:
		return "$" + d.StringFixed(8), nil
	}
}

// Display is Price with invalid input shown as Placeholder.
func Display(v float64) string {
	s, err := Price(v)
	if err != nil {
		return Placeholder
	}
	return s
}

// Percent formats a spread with two fractional digits, e.g. "1.25%".
func Percent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Placeholder
	}
	return decimal.NewFromFloat(v).StringFixed(2) + "%"
}
