package devis

import (
	"fmt"
	"regexp"
	"strings"
)

// referenceRe is the strict grammar of a devis reference: "SRX", a four
// digit year-month, a three letter type code, a six digit number. Spaces may
// creep in through text extraction and are tolerated between the groups.
var referenceRe = regexp.MustCompile(`(?i)SRX\s*(\d{4})\s*([A-Z]{3})\s*(\d{6})`)

// ReferenceParts is a decomposed devis reference.
type ReferenceParts struct {
	YearMonth string // e.g. "2512"
	TypeCode  string // e.g. "AFF"
	Number    string // zero-padded six digit suffix, e.g. "040301"
}

// DecomposeReference parses a full reference code. Anything that does not
// match the strict SRX grammar is an error for this sub-field only; callers
// keep the raw reference and continue.
func DecomposeReference(ref string) (ReferenceParts, error) {
	m := referenceRe.FindStringSubmatch(ref)
	if m == nil {
		return ReferenceParts{}, fmt.Errorf("reference %q does not match SRX grammar", ref)
	}
	return ReferenceParts{
		YearMonth: m[1],
		TypeCode:  strings.ToUpper(m[2]),
		Number:    m[3],
	}, nil
}

// CanonicalReference extracts and re-joins the SRX code found in s, without
// the stray spaces text extraction may have introduced. Returns "" when s
// carries no reference.
func CanonicalReference(s string) string {
	m := referenceRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return "SRX" + m[1] + strings.ToUpper(m[2]) + m[3]
}

// ReferenceFromFilename extracts the reference encoded in a source file
// name. The filename is considered more reliable than the document text
// because it is not subject to extraction artifacts.
func ReferenceFromFilename(name string) string {
	return CanonicalReference(name)
}
