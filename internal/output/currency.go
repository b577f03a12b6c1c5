package output

import (
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	currencyMu     sync.RWMutex
	currencySymbol = "£"
)

// SetCurrencySymbol changes the symbol used by FormatCurrency.
func SetCurrencySymbol(symbol string) {
	currencyMu.Lock()
	defer currencyMu.Unlock()
	currencySymbol = symbol
}

func symbol() string {
	currencyMu.RLock()
	defer currencyMu.RUnlock()
	return currencySymbol
}

// FormatCurrency formats a decimal as currency with thousands separators
func FormatCurrency(amount decimal.Decimal) string {
	return formatMoney(amount, 2)
}

// FormatWholeCurrency formats a decimal as currency rounded to whole units
func FormatWholeCurrency(amount decimal.Decimal) string {
	return formatMoney(amount, 0)
}

func formatMoney(amount decimal.Decimal, places int32) string {
	sign := ""
	rounded := amount.Round(places)
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}
	return sign + symbol() + FormatNumber(rounded, int(places))
}

// FormatNumber groups thousands and fixes the number of decimal places
func FormatNumber(v decimal.Decimal, places int) string {
	return message.NewPrinter(language.BritishEnglish).Sprint(number.Decimal(v.InexactFloat64(), number.Scale(places)))
}

// FormatPercentage formats a fraction as a percentage
func FormatPercentage(fraction decimal.Decimal) string {
	return fraction.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}
