package extract

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// suffixAmountRE matches amounts written unit-last: "420元", "35.5塊".
var suffixAmountRE = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:元|塊|块)`)

// prefixAmountRE matches amounts written symbol-first: "NT$120", "$ 45.9".
var prefixAmountRE = regexp.MustCompile(`(?i)(?:NT\$|NTD|\$)\s*(\d+(?:\.\d+)?)`)

// bareNumberLineRE matches a line that is nothing but a 2+ digit number.
var bareNumberLineRE = regexp.MustCompile(`^\d{2,}(?:\.\d+)?$`)

// bareAmountFloor guards the no-currency fallback: candidates at or below
// it are more likely clock fragments or counts than money.
const bareAmountFloor = 60

// findAmount extracts a monetary amount, or nil when none is present.
//
// A number attached to a currency unit or symbol always wins, earliest
// occurrence first. Only when no currency appears anywhere does a bare
// number qualify, and then only standing alone on its own line with a
// value above bareAmountFloor.
func findAmount(text string) *decimal.Decimal {
	start := -1
	var raw string
	if m := suffixAmountRE.FindStringSubmatchIndex(text); m != nil {
		start = m[0]
		raw = text[m[2]:m[3]]
	}
	if m := prefixAmountRE.FindStringSubmatchIndex(text); m != nil && (start < 0 || m[0] < start) {
		start = m[0]
		raw = text[m[2]:m[3]]
	}
	if start >= 0 {
		if d, err := decimal.NewFromString(raw); err == nil {
			return &d
		}
	}

	for _, line := range splitLines(text) {
		if !bareNumberLineRE.MatchString(line) {
			continue
		}
		d, err := decimal.NewFromString(line)
		if err != nil || d.LessThanOrEqual(decimal.NewFromInt(bareAmountFloor)) {
			continue
		}
		return &d
	}
	return nil
}
