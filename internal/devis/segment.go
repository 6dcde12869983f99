package devis

import (
	"regexp"
	"strings"
)

// SegmentName identifies one of the regions of interest inside a devis.
type SegmentName string

const (
	SegmentClient      SegmentName = "client"
	SegmentCommercial  SegmentName = "commercial"
	SegmentReference   SegmentName = "reference"
	SegmentRefAffaire  SegmentName = "ref_affaire"
	SegmentFourniture  SegmentName = "fourniture_ht"
	SegmentPrestations SegmentName = "prestations_ht"
	SegmentTotal       SegmentName = "total_ht"
	SegmentPose        SegmentName = "pose"
)

// Segment is a named contiguous sub-range of the line sequence. Start and
// End are indices into the original Lines ([Start, End) bounds); Lines holds
// the covered lines. Segments are computed independently of each other, so a
// missing anchor in one never hides another.
type Segment struct {
	Name  SegmentName
	Start int
	End   int
	Lines []string
}

// Anchor patterns. All scans are case-insensitive forward scans over the
// full line sequence.
var (
	codeClientRe        = regexp.MustCompile(`(?i)code\s+client`)
	contactCommercialRe = regexp.MustCompile(`(?i)contact\s+commercial`)
	devisNumRe          = regexp.MustCompile(`(?i)devis\s+n`)
	refAffaireRe        = regexp.MustCompile(`(?i)r.?f\.?\s+affaire`)
	devisDateRe         = regexp.MustCompile(`(?i)date\s+du\s+devis|\b\d{2}/\d{2}/\d{4}\b`)
	prestationsHeaderRe = regexp.MustCompile(`(?i)^\s*PRESTATIONS`)
	sectionHeaderRe     = regexp.MustCompile(`^[A-ZÀ-Ý][A-ZÀ-Ý\s]{3,}$`)
	poseLineRe          = regexp.MustCompile(`(?i)\bpose\s+au\b`)
	poseWordRe          = regexp.MustCompile(`(?i)\bpose\b`)

	fournitureLabelRe  = regexp.MustCompile(`(?i)PRIX\s+DE\s+LA\s+FOURNITURE\s+HT`)
	prestationsLabelRe = regexp.MustCompile(`(?i)PRIX\s+PRESTATIONS\s+ET\s+SERVICES\s+HT`)
	totalLabelRe       = regexp.MustCompile(`(?i)TOTAL\s+HORS\s+TAXE`)
)

// commercialLookahead bounds how far past the "Contact commercial" anchor
// the scan may reach for the contact name.
const commercialLookahead = 3

// FindClientBlock locates the client identity block: from the line matching
// "Code client :" (inclusive) up to the line matching "Contact commercial :"
// (exclusive). Both anchors must be present, in that order; otherwise the
// block is reported as not found.
func FindClientBlock(lines Lines) (Segment, bool) {
	start := -1
	for i, l := range lines {
		if codeClientRe.MatchString(l) {
			start = i
			break
		}
	}
	if start < 0 {
		return Segment{Name: SegmentClient}, false
	}
	end := -1
	for i := start + 1; i < len(lines); i++ {
		if contactCommercialRe.MatchString(lines[i]) {
			end = i
			break
		}
	}
	if end < 0 {
		return Segment{Name: SegmentClient}, false
	}
	return Segment{Name: SegmentClient, Start: start, End: end, Lines: lines[start:end]}, true
}

// FindCommercialLine locates the sales contact name: the first non-empty
// line strictly after the "Contact commercial :" anchor, within a bounded
// look-ahead. An inline value after the colon on the anchor line wins.
func FindCommercialLine(lines Lines) (Segment, bool) {
	for i, l := range lines {
		if !contactCommercialRe.MatchString(l) {
			continue
		}
		if inline := afterColon(l); inline != "" {
			return Segment{Name: SegmentCommercial, Start: i, End: i + 1, Lines: []string{inline}}, true
		}
		limit := i + 1 + commercialLookahead
		if limit > len(lines) {
			limit = len(lines)
		}
		for j := i + 1; j < limit; j++ {
			if strings.TrimSpace(lines[j]) != "" {
				return Segment{Name: SegmentCommercial, Start: j, End: j + 1, Lines: []string{lines[j]}}, true
			}
		}
		return Segment{Name: SegmentCommercial}, false
	}
	return Segment{Name: SegmentCommercial}, false
}

// FindReferenceLine locates the quote reference: preferably a "DEVIS N°"
// line carrying an SRX code, otherwise the first line anywhere that matches
// the SRX grammar (text extraction sometimes detaches the code from its
// label).
func FindReferenceLine(lines Lines) (Segment, bool) {
	for i, l := range lines {
		if devisNumRe.MatchString(l) && referenceRe.MatchString(l) {
			return Segment{Name: SegmentReference, Start: i, End: i + 1, Lines: []string{l}}, true
		}
	}
	for i, l := range lines {
		if referenceRe.MatchString(l) {
			return Segment{Name: SegmentReference, Start: i, End: i + 1, Lines: []string{l}}, true
		}
	}
	return Segment{Name: SegmentReference}, false
}

// FindRefAffaire locates the business reference. The labelled form
// "Réf affaire : X" wins; failing that, the last non-empty line immediately
// preceding the devis date token is used.
func FindRefAffaire(lines Lines) (Segment, bool) {
	for i, l := range lines {
		if !refAffaireRe.MatchString(l) {
			continue
		}
		if inline := afterColon(l); inline != "" {
			return Segment{Name: SegmentRefAffaire, Start: i, End: i + 1, Lines: []string{inline}}, true
		}
		if j := nextNonEmpty(lines, i+1); j >= 0 {
			return Segment{Name: SegmentRefAffaire, Start: j, End: j + 1, Lines: []string{lines[j]}}, true
		}
		return Segment{Name: SegmentRefAffaire}, false
	}
	for i, l := range lines {
		if devisDateRe.MatchString(l) && i > 0 {
			for j := i - 1; j >= 0; j-- {
				if strings.TrimSpace(lines[j]) != "" {
					return Segment{Name: SegmentRefAffaire, Start: j, End: j + 1, Lines: []string{lines[j]}}, true
				}
			}
			break
		}
	}
	return Segment{Name: SegmentRefAffaire}, false
}

// findAmountSegment locates one labelled amount: the amount token appears on
// the label line itself or, failing that, on the adjacent preceding
// non-empty line (column layouts often split label and value).
func findAmountSegment(lines Lines, name SegmentName, label *regexp.Regexp) (Segment, bool) {
	for i, l := range lines {
		if !label.MatchString(l) {
			continue
		}
		if amountTokenRe.MatchString(l) {
			return Segment{Name: name, Start: i, End: i + 1, Lines: []string{l}}, true
		}
		for j := i - 1; j >= 0; j-- {
			if strings.TrimSpace(lines[j]) == "" {
				continue
			}
			if amountTokenRe.MatchString(lines[j]) {
				return Segment{Name: name, Start: j, End: i + 1, Lines: lines[j : i+1]}, true
			}
			break
		}
		// Label found but no usable token nearby: keep the label line so
		// the extractor can report a malformed value instead of a missing
		// anchor.
		return Segment{Name: name, Start: i, End: i + 1, Lines: []string{l}}, true
	}
	return Segment{Name: name}, false
}

// FindFourniture locates the materials pre-tax amount line.
func FindFourniture(lines Lines) (Segment, bool) {
	return findAmountSegment(lines, SegmentFourniture, fournitureLabelRe)
}

// FindPrestations locates the services pre-tax amount line.
func FindPrestations(lines Lines) (Segment, bool) {
	return findAmountSegment(lines, SegmentPrestations, prestationsLabelRe)
}

// FindTotal locates the total pre-tax amount line.
func FindTotal(lines Lines) (Segment, bool) {
	return findAmountSegment(lines, SegmentTotal, totalLabelRe)
}

// FindPoseSection locates the installation section: the lines between a
// "PRESTATIONS" section header and the next top-level section header (or end
// of document).
func FindPoseSection(lines Lines) (Segment, bool) {
	start := -1
	for i, l := range lines {
		if prestationsHeaderRe.MatchString(l) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return Segment{Name: SegmentPose}, false
	}
	end := len(lines)
	for i := start; i < len(lines); i++ {
		if sectionHeaderRe.MatchString(lines[i]) && !prestationsHeaderRe.MatchString(lines[i]) {
			end = i
			break
		}
	}
	return Segment{Name: SegmentPose, Start: start, End: end, Lines: lines[start:end]}, true
}

// ScanSegments runs every anchor search over the line sequence and returns
// the segments that were found. Searches are independent; partial results
// are the normal case for malformed documents.
func ScanSegments(lines Lines) map[SegmentName]Segment {
	segments := make(map[SegmentName]Segment)
	finders := []func(Lines) (Segment, bool){
		FindClientBlock,
		FindCommercialLine,
		FindReferenceLine,
		FindRefAffaire,
		FindFourniture,
		FindPrestations,
		FindTotal,
		FindPoseSection,
	}
	for _, find := range finders {
		if seg, ok := find(lines); ok {
			segments[seg.Name] = seg
		}
	}
	return segments
}
