package devis

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// amountTokenRe matches a French-formatted monetary token: optional space or
// dot thousands separators, comma decimal separator, two decimal places.
var amountTokenRe = regexp.MustCompile(`\d{1,3}(?:[ .]\d{3})*,\d{2}|\d+,\d{2}`)

// ParseAmount parses a French-locale amount token ("12 345,67", "1.234,00",
// "0,00") into an exact decimal. The zero amount is a valid value; an
// unparsable token is an error, never a zero.
func ParseAmount(token string) (decimal.Decimal, error) {
	cleaned := NormalizeLine(token)
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount token")
	}
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("malformed amount %q: %w", token, err)
	}
	return d, nil
}

// extractAmount finds the last amount token on a line and parses it. The
// last token wins because labels occasionally carry quantities before the
// price column.
func extractAmount(line string) (Amount, error) {
	tokens := amountTokenRe.FindAllString(line, -1)
	if len(tokens) == 0 {
		return Amount{}, fmt.Errorf("no amount token in %q", line)
	}
	v, err := ParseAmount(tokens[len(tokens)-1])
	if err != nil {
		return Amount{}, err
	}
	return NewAmount(v), nil
}

// FormatAmountFR renders an amount back to French formatting with space
// thousands separators and a comma decimal ("12 345,67"). Invalid amounts
// render as the empty string so the form field stays blank.
func FormatAmountFR(a Amount) string {
	if !a.Valid {
		return ""
	}
	fixed := a.Value.StringFixed(2)
	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)
	out := strings.Join(groups, " ") + "," + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
