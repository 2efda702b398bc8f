// Package format renders and parses user-facing currency and percentage strings.
package format

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/iwvelando/loan-calculator/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// numericPrefix matches the longest leading decimal number of an already
// stripped currency string.
var numericPrefix = regexp.MustCompile(`^-?(\d+(\.\d*)?|\.\d+)`)

// Currency returns a US English currency string with a dollar sign and
// thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 {
		return "-" + constants.CurrencySymbol + formatted
	}
	return constants.CurrencySymbol + formatted
}

// Percent renders value with a fixed number of decimals and a trailing
// percent sign (e.g., "9.00%"). No grouping is applied.
func Percent(value float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return fmt.Sprintf("%.*f%%", decimals, value)
}

// ParseCurrency converts user input such as "$1,234.56" back into a number.
// Every character other than digits, '.' and '-' is dropped and the longest
// numeric prefix of what remains is parsed. Input that does not yield a finite
// number parses as 0.
func ParseCurrency(value string) float64 {
	stripped := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, value)

	match := numericPrefix.FindString(stripped)
	if match == "" {
		return 0
	}

	parsed, err := strconv.ParseFloat(match, 64)
	if err != nil || math.IsInf(parsed, 0) || math.IsNaN(parsed) {
		return 0
	}
	return parsed
}

func formatPositiveCurrency(value float64) string {
	p := message.NewPrinter(language.AmericanEnglish)
	return p.Sprintf("%.2f", value)
}

// CurrencyInput reformats what a user typed into a currency field with
// thousands separators and up to three fraction digits, without a symbol
// (e.g., "60000" becomes "60,000"). Input that parses as 0 yields "".
func CurrencyInput(value string) string {
	n := ParseCurrency(value)
	if n == 0 {
		return ""
	}

	rounded := math.Round(math.Abs(n)*1000) / 1000
	plain := strconv.FormatFloat(rounded, 'f', -1, 64)
	intPart, fracPart, _ := strings.Cut(plain, ".")

	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return plain
	}

	p := message.NewPrinter(language.AmericanEnglish)
	formatted := p.Sprintf("%d", whole)
	if fracPart != "" {
		formatted += "." + fracPart
	}
	if n < 0 {
		return "-" + formatted
	}
	return formatted
}
