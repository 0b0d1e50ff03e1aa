package util

import (
	"strconv"
	"strings"
)

// NumberLocale describes how a vendor writes numbers. The defaults match
// the common "1,500.00" style seen in the target price lists.
type NumberLocale struct {
	DecimalSep   string
	ThousandsSep string
}

func DefaultLocale() NumberLocale {
	return NumberLocale{DecimalSep: ".", ThousandsSep: ","}
}

// ParsePrice parses a cell value as a non-negative price. Thousands
// separators, currency markers and surrounding whitespace are stripped
// before parsing. Returns false for anything that is not a plain
// non-negative number.
func ParsePrice(input string, locale NumberLocale) (float64, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(input, "\u00A0", " "))
	if s == "" {
		return 0, false
	}

	s = strings.TrimLeft(s, "$€£৳₹ ")
	s = strings.TrimRight(s, " /-")
	if locale.ThousandsSep != "" {
		s = strings.ReplaceAll(s, locale.ThousandsSep, "")
	}
	s = strings.ReplaceAll(s, " ", "")
	if locale.DecimalSep != "" && locale.DecimalSep != "." {
		s = strings.ReplaceAll(s, locale.DecimalSep, ".")
	}
	if s == "" {
		return 0, false
	}

	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil || parsed < 0 {
		return 0, false
	}
	return parsed, true
}
