package loader

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usd = message.NewPrinter(language.AmericanEnglish)

// FormatBalance renders v as US currency, e.g. 1234.5 -> "$1,234.50".
func FormatBalance(v float64) string {
	v = math.Round(v*100) / 100
	if v < 0 {
		return usd.Sprintf("-$%.2f", -v)
	}
	return usd.Sprintf("$%.2f", v)
}
