package httphandler

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ParsePrice reduces a display price string to its numeric value by
// stripping every character that is not a digit or a decimal point.
// "$1,299.95" becomes 1299.95.
func ParsePrice(s string) (float64, error) {
	const op = "ParsePrice"

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, fmt.Errorf("%s: no numeric value in %q", op, s)
	}

	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q: %w", op, s, err)
	}
	return v, nil
}

var currencyPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders a monetary value the way the cart displays it.
func FormatCurrency(v float64) string {
	return currencyPrinter.Sprint(currency.NarrowSymbol(currency.USD.Amount(v)))
}
