package bdc

import (
	"regexp"
	"strings"
)

const maxOutputNameLen = 150

var (
	refAffairePrefixRe = regexp.MustCompile(`(?i)^r[ée]f\s+affaire\s*:?\s*`)
	reservedCharsRe    = regexp.MustCompile(`[\\/:*?"<>|]`)
	whitespaceRe       = regexp.MustCompile(`\s+`)
)

// OutputName suggests the file name for a generated purchase order:
// "CDE <client> Ref <affaire>.pdf". Windows-reserved characters are replaced
// with spaces and the total length is capped at 150 characters. An empty
// business reference becomes "INCONNUE" so the name always states that the
// reference is unknown rather than silently omitting it.
func OutputName(clientName, refAffaire string) string {
	client := strings.TrimSpace(clientName)
	if client == "" {
		client = "CLIENT"
	}

	ref := refAffairePrefixRe.ReplaceAllString(strings.TrimSpace(refAffaire), "")
	ref = strings.TrimSpace(ref)
	if ref == "" {
		ref = "INCONNUE"
	}

	base := "CDE " + client + " Ref " + ref
	base = reservedCharsRe.ReplaceAllString(base, " ")
	base = strings.TrimSpace(whitespaceRe.ReplaceAllString(base, " "))

	if max := maxOutputNameLen - len(".pdf"); len(base) > max {
		base = strings.TrimRight(base[:max], " ")
	}

	return base + ".pdf"
}
