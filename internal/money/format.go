package money

import (
	"fmt"
	"math"
	"strings"
)

// zeroDecimal lists ISO 4217 currencies whose minor unit is the whole unit.
var zeroDecimal = map[string]struct{}{
	"jpy": {},
	"krw": {},
}

// Digits returns the number of fractional digits used when rendering the currency.
func Digits(currency string) int {
	if _, ok := zeroDecimal[strings.ToLower(strings.TrimSpace(currency))]; ok {
		return 0
	}
	return 2
}

// Format renders a minor-unit amount as "<value> <CODE>". The currency code is
// upper-cased; an empty code still yields a trailing space so the shape stays
// stable for callers that concatenate.
func Format(minor int64, currency string) string {
	digits := Digits(currency)
	value := float64(minor) / math.Pow10(digits)
	return fmt.Sprintf("%.*f %s", digits, value, strings.ToUpper(strings.TrimSpace(currency)))
}
