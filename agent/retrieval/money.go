package retrieval

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// PriceFormatter renders integer cents as a localized currency string.
type PriceFormatter struct {
	printer *message.Printer
	prefix  string
}

func NewPriceFormatter(tag language.Tag, prefix string) PriceFormatter {
	return PriceFormatter{
		printer: message.NewPrinter(tag),
		prefix:  prefix,
	}
}

func (f PriceFormatter) Format(cents int64) string {
	return f.prefix + f.printer.Sprint(number.Decimal(float64(cents)/100, number.Scale(2)))
}

const (
	maxCentsAmount = float64(math.MaxInt64 / 100)
	centsEpsilon   = 1e-9
)

// CentsFromAmount converts an upper price bound to the largest whole number
// of cents not above it. Amounts beyond the int64 range are clamped; NaN and
// infinities report false.
func CentsFromAmount(amount float64) (int64, bool) {
	switch {
	case math.IsNaN(amount), math.IsInf(amount, 0):
		return 0, false
	case amount >= maxCentsAmount:
		return math.MaxInt64, true
	case amount <= -maxCentsAmount:
		return math.MinInt64, true
	}
	return int64(math.Floor(amount*100 + centsEpsilon)), true
}
