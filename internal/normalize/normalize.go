// Package normalize turns raw extracted text into typed values. It is pure:
// no I/O, no logging, and unparseable input maps to an absent value instead
// of an error.
package normalize

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"msuhthegreat/pricefinder/internal/product"
)

var (
	priceRegex    = regexp.MustCompile(`[0-9][0-9,]*(?:\.[0-9]+)?`)
	digitsRegex   = regexp.MustCompile(`^[0-9]+$`)
	fractionRegex = regexp.MustCompile(`[0-9]{1,2}`)
)

// availability keyword table. Unavailable keywords are checked first because
// "currently unavailable" contains "available".
var (
	unavailableKeywords = []string{
		"currently unavailable",
		"out of stock",
		"sold out",
		"unavailable",
		"temporarily out",
	}
	availableKeywords = []string{
		"in stock",
		"add to cart",
		"buy now",
		"available",
		"usually ships",
	}
)

// Price parses price text such as "$1,299.00", "1299", or "$13.99 with
// coupon" into a two-decimal amount. It returns nil when no price can be
// read; zero is a valid, distinct price.
func Price(text string) *decimal.Decimal {
	match := priceRegex.FindString(text)
	if match == "" {
		return nil
	}

	cleaned := strings.ReplaceAll(match, ",", "")
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return nil
	}

	rounded := amount.Round(2)
	return &rounded
}

// PriceParts builds a price from the split whole/fraction texts the search
// page renders ("1,299" + "00"). A missing or non-numeric fraction means
// zero cents; a missing whole part means no price.
func PriceParts(whole, fraction string) *decimal.Decimal {
	whole = strings.ReplaceAll(strings.TrimSpace(whole), ",", "")
	whole = strings.TrimSuffix(whole, ".")
	if whole == "" || !digitsRegex.MatchString(whole) {
		return nil
	}

	frac := fractionRegex.FindString(fraction)
	if frac == "" {
		frac = "00"
	}

	amount, err := decimal.NewFromString(whole + "." + frac)
	if err != nil {
		return nil
	}

	rounded := amount.Round(2)
	return &rounded
}

// Title trims and collapses all interior whitespace runs to single spaces.
func Title(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Availability maps page text onto the availability enum via the keyword
// table. Unrecognized text is Unknown, never a guess toward Available.
func Availability(text string) product.Availability {
	lowered := strings.ToLower(Title(text))
	if lowered == "" {
		return product.AvailabilityUnknown
	}

	for _, kw := range unavailableKeywords {
		if strings.Contains(lowered, kw) {
			return product.AvailabilityUnavailable
		}
	}
	for _, kw := range availableKeywords {
		if strings.Contains(lowered, kw) {
			return product.AvailabilityAvailable
		}
	}
	return product.AvailabilityUnknown
}
