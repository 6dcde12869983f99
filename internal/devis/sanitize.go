package devis

import (
	"regexp"
	"strings"
)

// The vendor (RIAUX) prints its own identity all over the devis. None of it
// may ever survive into a customer-facing field of the generated purchase
// order, so every such field passes through Sanitize before a record may be
// rendered. There is deliberately no way to switch this off.

// denyPatterns are the vendor-identity pattern groups, matched
// case-insensitively against customer-facing string fields.
var denyPatterns = []*regexp.Regexp{
	// Factory address and its constituent tokens.
	regexp.MustCompile(`(?i)VAUGARNY`),
	regexp.MustCompile(`(?i)\b35560\b`),
	regexp.MustCompile(`(?i)BAZOUGES[\s-]+LA[\s-]+P[EÉ]ROUSE`),
	regexp.MustCompile(`(?i)\bBAZOUGES\b`),
	// Vendor phone numbers.
	regexp.MustCompile(`02[\s.]?99[\s.]?97[\s.]?45[\s.]?40`),
	regexp.MustCompile(`02[\s.]?99[\s.]?98[\s.]?04[\s.]?50`),
	// Registration identifiers.
	regexp.MustCompile(`(?i)RCS\s+RENNES`),
	regexp.MustCompile(`(?i)SIRET[\s:]*\d[\d\s]*`),
	regexp.MustCompile(`(?i)NAF[\s:]*1623Z`),
	regexp.MustCompile(`(?i)TVA[\s:]*FR[\d\s]+`),
	// Company name variants.
	regexp.MustCompile(`(?i)GROUPE[\s-]?RIAUX`),
	regexp.MustCompile(`(?i)RIAUX[\s-]?SAS`),
	regexp.MustCompile(`(?i)S\.?A\.?S\.?\s+RIAUX`),
	regexp.MustCompile(`(?i)\bRIAUX\b`),
	regexp.MustCompile(`(?i)SAS\s+au\s+capital`),
}

// FieldOutcome says how far the sanitizer had to go on one field.
type FieldOutcome string

const (
	// OutcomeTrimmed means vendor fragments were removed but usable content
	// remains.
	OutcomeTrimmed FieldOutcome = "trimmed"
	// OutcomeCleared means the whole value was vendor identity and the field
	// is now empty.
	OutcomeCleared FieldOutcome = "cleared"
)

// ContaminationReport lists the customer-facing fields the sanitizer had to
// alter. An empty report means the record was clean.
type ContaminationReport struct {
	Fields map[string]FieldOutcome
}

// Contaminated reports whether any field was altered.
func (r ContaminationReport) Contaminated() bool {
	return len(r.Fields) > 0
}

// Cleared reports whether the named field was fully emptied.
func (r ContaminationReport) Cleared(field string) bool {
	return r.Fields[field] == OutcomeCleared
}

// Sanitize scans every customer-facing string field of rec against the
// vendor deny-list and returns a cleaned copy plus the report of what was
// altered. Amounts and technical options are out of scope: they never carry
// identity.
func Sanitize(rec Record) (Record, ContaminationReport) {
	report := ContaminationReport{Fields: make(map[string]FieldOutcome)}
	out := rec

	sanitizeField(&out.Client.Name, "client_nom", &report)
	sanitizeAddress(&out.Client, &report)
	sanitizeField(&out.Client.PostalCode, "client_cp", &report)
	sanitizeField(&out.Client.City, "client_ville", &report)
	sanitizeField(&out.Client.Phone, "client_tel", &report)
	sanitizeField(&out.Client.Email, "client_email", &report)
	sanitizeField(&out.RefAffaire, "ref_affaire", &report)

	// Postal code and city travel together; if either side was vendor
	// identity the pair is meaningless.
	if report.Cleared("client_cp") || report.Cleared("client_ville") {
		out.Client.PostalCode = ""
		out.Client.City = ""
	}

	return out, report
}

// sanitizeField applies the deny-list to a single-line field. A match
// spanning the whole value clears the field; a partial match removes just
// the span.
func sanitizeField(value *string, name string, report *ContaminationReport) {
	cleaned, outcome, hit := scrub(*value)
	if !hit {
		return
	}
	*value = cleaned
	report.Fields[name] = outcome
}

// sanitizeAddress treats the multi-line address line by line: polluted lines
// are dropped or trimmed individually, so one vendor footer line does not
// cost the client their street.
func sanitizeAddress(client *Client, report *ContaminationReport) {
	if client.Address == "" {
		return
	}
	var kept []string
	hit := false
	for _, line := range strings.Split(client.Address, "\n") {
		cleaned, _, lineHit := scrub(line)
		if lineHit {
			hit = true
		}
		if strings.TrimSpace(cleaned) != "" {
			kept = append(kept, cleaned)
		}
	}
	if !hit {
		return
	}
	client.Address = strings.Join(kept, "\n")
	if client.Address == "" {
		report.Fields["client_adresse"] = OutcomeCleared
	} else {
		report.Fields["client_adresse"] = OutcomeTrimmed
	}
}

// scrub removes every deny-list match from s. It reports the cleaned value,
// whether the result counts as cleared or trimmed, and whether anything
// matched at all.
func scrub(s string) (string, FieldOutcome, bool) {
	if s == "" {
		return s, "", false
	}
	cleaned := s
	hit := false
	for _, re := range denyPatterns {
		if re.MatchString(cleaned) {
			hit = true
			cleaned = re.ReplaceAllString(cleaned, " ")
		}
	}
	if !hit {
		return s, "", false
	}
	cleaned = NormalizeLine(cleaned)
	if cleaned == "" || !hasLetterOrDigit(cleaned) {
		return "", OutcomeCleared, true
	}
	return cleaned, OutcomeTrimmed, true
}

func hasLetterOrDigit(s string) bool {
	for _, r := range s {
		if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') || r > 127 {
			return true
		}
	}
	return false
}
