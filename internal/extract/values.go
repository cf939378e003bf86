package extract

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/itchyny/timefmt-go"
	"github.com/shopspring/decimal"
)

var reNonNumeric = regexp.MustCompile(`[^\d.]`)

var errEmptyNumber = errors.New("no digits")

// CleanNumeric drops every character except digits and '.'.
func CleanNumeric(s string) string {
	return reNonNumeric.ReplaceAllString(s, "")
}

// ParseAmount cleans s and parses the remainder as a decimal.
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := CleanNumeric(s)
	if clean == "" {
		return decimal.Zero, errEmptyNumber
	}
	return decimal.NewFromString(clean)
}

// ParseDate parses s with a strptime layout such as %m/%d/%Y.
func ParseDate(s, format string) (time.Time, error) {
	return timefmt.Parse(strings.TrimSpace(s), format)
}
