package common

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const (
	// Default separator widths
	DefaultWidth = 80
	WideWidth    = 100
)

// PrintSeparator prints a separator line with the specified character and width
func PrintSeparator(w io.Writer, char string, width int) {
	fmt.Fprintln(w, strings.Repeat(char, width))
}

// PrintHeader prints a formatted header with title and separators
func PrintHeader(w io.Writer, title string, width int) {
	fmt.Fprintln(w)
	PrintSeparator(w, "=", width)
	fmt.Fprintln(w, title)
	PrintSeparator(w, "=", width)
}

// PrintFooter prints a formatted footer with message and separators
func PrintFooter(w io.Writer, message string, width int) {
	fmt.Fprintln(w)
	PrintSeparator(w, "=", width)
	fmt.Fprintln(w, message)
	PrintSeparator(w, "=", width)
}

// BoxPrefix returns the appropriate box-drawing prefix for list items
func BoxPrefix(isLast bool) string {
	if isLast {
		return "└─ "
	}
	return "├─ "
}

// FormatAmount renders an amount in a display currency, e.g. "$1,234.50".
// Amounts with more fractional digits than the currency supports are shown
// exactly, suffixed with the currency code, rather than rounded.
func FormatAmount(amount decimal.Decimal, currencyCode string) string {
	currency := money.GetCurrency(strings.ToUpper(currencyCode))
	if currency == nil {
		return amount.String()
	}

	minor := amount.Shift(int32(currency.Fraction))
	if !minor.IsInteger() || minor.Abs().GreaterThan(maxMinorUnits) {
		return amount.String() + " " + currency.Code
	}
	return currency.Formatter().Format(minor.IntPart())
}

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)
