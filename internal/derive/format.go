package derive

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// The console renders money in Rwandan francs: zero decimal digits, grouped
// per the Kinyarwanda locale.
var printer = message.NewPrinter(language.MustParse("rw-RW"))

// FormatAmount renders a whole-franc amount, e.g. "RWF 15,000".
func FormatAmount(amount int64) string {
	return printer.Sprintf("RWF %v", number.Decimal(amount))
}

// FormatAmountPtr treats a missing amount as zero rather than failing.
func FormatAmountPtr(amount *int64) string {
	if amount == nil {
		return FormatAmount(0)
	}
	return FormatAmount(*amount)
}
