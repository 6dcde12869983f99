package devis

import (
	"regexp"
	"strings"
)

// Field-level patterns used inside segments.
var (
	emailRe   = regexp.MustCompile(`(?i)[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}`)
	phoneRe   = regexp.MustCompile(`\b(?:\+33|0)\s?\d(?:[\s.-]?\d{2}){4}\b`)
	cpVilleRe = regexp.MustCompile(`\b(\d{5})\s+(\S.*)`)
	numericRe = regexp.MustCompile(`^[\d\s]+$`)

	// addressStopRe ends the address capture: contact details below the
	// address belong to other fields.
	addressStopRe = regexp.MustCompile(`(?i)^(t[ée]l|fax|portable|e[-\s]?mail|mail|validit)`)

	modeleRe      = regexp.MustCompile(`(?i)-\s*mod.le\s*:`)
	marcheRe      = regexp.MustCompile(`(?i)-\s*marches?\s*:`)
	structureRe   = regexp.MustCompile(`(?i)-\s*structure\s*:`)
	mainCourRe    = regexp.MustCompile(`(?i)-\s*main\s+courante\s*:`)
	contremRe     = regexp.MustCompile(`(?i)-\s*contremarches?\s*:`)
	rampeRe       = regexp.MustCompile(`(?i)-\s*rampe\s*:`)
	nezMarcheRe   = regexp.MustCompile(`(?i)-\s*nez\s+de\s+marches?\s*:`)
	poteauRe      = regexp.MustCompile(`(?i)-\s*poteaux?\b`)
	tpaRe         = regexp.MustCompile(`(?i)\(TPA\)`)
	poteauDroitRe = regexp.MustCompile(`(?i)\bpoteau\s+droit\b`)
)

// negativeContremarche marks riser values that mean "none sold".
var negativeContremarche = []string{"sans", "non", "aucune"}

// structureFlags maps structure wording to the order form's structure family,
// most specific first.
var structureFlags = []struct {
	needle string
	flag   StructureType
}{
	{"cremaillere", StructureCremaillere},
	{"limon decoupe", StructureLimonDecoupe},
	{"limon central", StructureLimonCentral},
	{"limon", StructureLimon},
}

// woodSpecies maps accent-stripped wood keywords to their display labels,
// used as a fallback when no finish value yields an essence.
var woodSpecies = []struct {
	keyword string
	label   string
}{
	{"chene", "Chêne"},
	{"hetre", "Hêtre"},
	{"frene", "Frêne"},
	{"erable", "Érable"},
	{"sapin", "Sapin"},
	{"sipo", "Sipo"},
	{"hemlock", "Hemlock"},
	{"pin", "Pin"},
}

// Extract applies the per-field extraction rules to the segments computed
// from lines and returns the structured record. Missing segments map to
// empty fields plus a warning; Extract never fails as a whole.
func Extract(lines Lines, segments map[SegmentName]Segment) Record {
	var rec Record

	extractReference(lines, segments, &rec)
	extractRefAffaire(segments, &rec)
	extractClient(segments, &rec)
	extractCommercial(lines, segments, &rec)
	extractAmounts(segments, &rec)
	extractPose(segments, &rec)
	extractOptions(lines, &rec)

	return rec
}

func extractReference(lines Lines, segments map[SegmentName]Segment, rec *Record) {
	seg, ok := segments[SegmentReference]
	if !ok {
		rec.warn("référence devis introuvable")
		return
	}
	rec.Reference = CanonicalReference(seg.Lines[0])
	applyReferenceParts(rec)
}

// applyReferenceParts decomposes rec.Reference into its sub-fields. A
// non-conforming reference fails only the sub-fields.
func applyReferenceParts(rec *Record) {
	parts, err := DecomposeReference(rec.Reference)
	if err != nil {
		rec.YearMonth, rec.TypeCode, rec.Number = "", "", ""
		rec.warn("référence devis non conforme: " + rec.Reference)
		return
	}
	rec.YearMonth = parts.YearMonth
	rec.TypeCode = parts.TypeCode
	rec.Number = parts.Number
}

func extractRefAffaire(segments map[SegmentName]Segment, rec *Record) {
	seg, ok := segments[SegmentRefAffaire]
	if !ok {
		rec.warn("réf affaire introuvable")
		return
	}
	rec.RefAffaire = strings.TrimSpace(seg.Lines[0])
}

// extractClient splits the client block into name, address lines, postal
// code and city. The first line that is not purely numeric (the customer
// code) is the name; everything after it belongs to the address.
func extractClient(segments map[SegmentName]Segment, rec *Record) {
	seg, ok := segments[SegmentClient]
	if !ok {
		rec.warn("bloc client introuvable")
		return
	}

	var addressLines []string
	for i, line := range seg.Lines {
		if i == 0 {
			// Anchor line; an inline value after "Code client :" is the
			// customer code, not identity data.
			continue
		}
		cleaned := strings.TrimSpace(line)
		if cleaned == "" || numericRe.MatchString(cleaned) {
			continue
		}
		if addressStopRe.MatchString(cleaned) || emailRe.MatchString(cleaned) {
			break
		}
		if rec.Client.Name == "" {
			rec.Client.Name = cleaned
			continue
		}
		addressLines = append(addressLines, cleaned)
	}
	if rec.Client.Name == "" {
		rec.warn("nom client introuvable dans le bloc client")
	}

	for _, line := range addressLines {
		if m := cpVilleRe.FindStringSubmatch(line); m != nil && rec.Client.PostalCode == "" {
			rec.Client.PostalCode = m[1]
			rec.Client.City = strings.TrimSpace(m[2])
		}
	}
	rec.Client.Address = strings.Join(addressLines, "\n")

	blockText := strings.Join(seg.Lines, "\n")
	rec.Client.Phone = phoneRe.FindString(blockText)
	rec.Client.Email = emailRe.FindString(blockText)
}

// extractCommercial reads the sales contact name and then scans the lines
// right below it for phones and an email. Mobile numbers (06/07) win the
// primary phone slot.
func extractCommercial(lines Lines, segments map[SegmentName]Segment, rec *Record) {
	seg, ok := segments[SegmentCommercial]
	if !ok {
		rec.warn("contact commercial introuvable")
		return
	}
	rec.Commercial.Name = strings.TrimSpace(seg.Lines[0])

	limit := seg.End + 4
	if limit > len(lines) {
		limit = len(lines)
	}
	for i := seg.End; i < limit; i++ {
		line := lines[i]
		if rec.Commercial.Email == "" {
			rec.Commercial.Email = emailRe.FindString(line)
		}
		for _, phone := range phoneRe.FindAllString(line, -1) {
			compact := strings.NewReplacer(" ", "", ".", "", "-", "").Replace(phone)
			switch {
			case (strings.HasPrefix(compact, "06") || strings.HasPrefix(compact, "07")) && rec.Commercial.Phone == "":
				rec.Commercial.Phone = phone
			case rec.Commercial.SecondaryPhone == "":
				rec.Commercial.SecondaryPhone = phone
			}
		}
	}
	if rec.Commercial.Phone == "" && rec.Commercial.SecondaryPhone != "" {
		rec.Commercial.Phone, rec.Commercial.SecondaryPhone = rec.Commercial.SecondaryPhone, ""
	}
}

func extractAmounts(segments map[SegmentName]Segment, rec *Record) {
	rec.Fourniture = amountFromSegment(segments, SegmentFourniture, "montant fourniture HT", rec)
	rec.Prestations = amountFromSegment(segments, SegmentPrestations, "montant prestations HT", rec)
	rec.TotalHT = amountFromSegment(segments, SegmentTotal, "total HT", rec)
}

func amountFromSegment(segments map[SegmentName]Segment, name SegmentName, label string, rec *Record) Amount {
	seg, ok := segments[name]
	if !ok {
		rec.warn(label + " introuvable")
		return Amount{}
	}
	// The token may sit on any line of the segment; the segmenter keeps the
	// label line last when the value precedes it.
	for _, line := range seg.Lines {
		if a, err := extractAmount(line); err == nil {
			return a
		}
	}
	rec.warn(label + " illisible")
	return Amount{}
}

// extractPose applies the ordered pose policy: an amount-bearing "Pose au"
// line wins; a pose section without one is ambiguous; no section at all is
// a clean absence.
func extractPose(segments map[SegmentName]Segment, rec *Record) {
	seg, ok := segments[SegmentPose]
	if !ok {
		rec.Pose = Pose{Sold: false, Provenance: ProvenanceAuto}
		return
	}
	sawPoseLine := false
	sawPoseMention := false
	for i, line := range seg.Lines {
		if !poseLineRe.MatchString(line) {
			if poseWordRe.MatchString(line) {
				sawPoseMention = true
			}
			continue
		}
		sawPoseLine = true
		if a, err := extractAmount(line); err == nil {
			rec.Pose = Pose{Sold: true, Amount: a, Provenance: ProvenanceAuto}
			return
		}
		// Amount may have wrapped to the adjacent line.
		if i+1 < len(seg.Lines) {
			if a, err := extractAmount(seg.Lines[i+1]); err == nil {
				rec.Pose = Pose{Sold: true, Amount: a, Provenance: ProvenanceAuto}
				return
			}
		}
		// No amount on this line; a later "Pose au" line in the same
		// section may still carry one.
	}
	if sawPoseLine {
		rec.Pose = Pose{Sold: false, Provenance: ProvenanceAmbiguous}
		rec.warn("ligne pose présente mais montant illisible")
		return
	}
	if sawPoseMention {
		// The section talks about installation without a readable
		// "Pose au <montant>" line; someone has to look at it.
		rec.Pose = Pose{Sold: false, Provenance: ProvenanceAmbiguous}
		rec.warn("mention de pose sans montant exploitable")
		return
	}
	rec.Pose = Pose{Sold: false, Provenance: ProvenanceAuto}
}

// extractOptions scans the whole document for the technical option anchors.
// Each anchor is independent and first match wins, except "Poteau droit"
// which always forces the poteaux-départ field empty.
func extractOptions(lines Lines, rec *Record) {
	opts := &rec.Options
	sawPoteauDroit := false

	for _, line := range lines {
		value := afterColon(line)
		switch {
		case modeleRe.MatchString(line):
			setIfEmpty(&opts.Gamme, value)
		case marcheRe.MatchString(line):
			setIfEmpty(&opts.FinitionMarches, value)
		case structureRe.MatchString(line):
			setIfEmpty(&opts.FinitionStructure, value)
			if opts.Structure == StructureUnknown {
				opts.Structure = structureType(value)
			}
		case mainCourRe.MatchString(line):
			setIfEmpty(&opts.MainCourante, value)
			if strings.Contains(strings.ToLower(value), "scellement") {
				setIfEmpty(&opts.MainCouranteScellement, value)
			}
		case contremRe.MatchString(line):
			setIfEmpty(&opts.FinitionContremarche, value)
			if opts.Contremarche == ContremarcheUnknown {
				opts.Contremarche = contremarcheFlag(value)
			}
		case rampeRe.MatchString(line):
			setIfEmpty(&opts.FinitionRampe, value)
		case nezMarcheRe.MatchString(line):
			setIfEmpty(&opts.NezDeMarches, value)
		case poteauRe.MatchString(line):
			if tpaRe.MatchString(line) {
				opts.TeteDePoteau = "TPA"
			}
			if !sawPoteauDroit {
				// The (TPA) marker feeds the head-type field, not the
				// départ description.
				setIfEmpty(&opts.PoteauxDepart, strings.TrimSpace(tpaRe.ReplaceAllString(value, "")))
			}
		}
		if poteauDroitRe.MatchString(line) {
			// Standard post: the départ field stays empty no matter what
			// other poteau lines said.
			sawPoteauDroit = true
			opts.PoteauxDepart = ""
		}
	}

	opts.Essence = deriveEssence(opts.FinitionMarches)
	if opts.Essence == "" {
		for _, v := range []string{opts.FinitionStructure, opts.MainCourante, opts.FinitionContremarche, opts.FinitionRampe} {
			if opts.Essence = speciesFromText(v); opts.Essence != "" {
				break
			}
		}
	}
}

// deriveEssence takes the wood species from a step finish value: the
// substring before the first "-" separator, trimmed. Without a separator the
// whole value is the essence.
func deriveEssence(finitionMarches string) string {
	if finitionMarches == "" {
		return ""
	}
	before, _, found := strings.Cut(finitionMarches, "-")
	if !found {
		return strings.TrimSpace(finitionMarches)
	}
	return strings.TrimSpace(before)
}

// speciesFromText finds a known wood species keyword in free text,
// accent-insensitively.
func speciesFromText(s string) string {
	folded := foldAccents(strings.ToLower(s))
	for _, w := range woodSpecies {
		if strings.Contains(folded, w.keyword) {
			return w.label
		}
	}
	return ""
}

var accentFolder = strings.NewReplacer(
	"à", "a", "â", "a", "ä", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"î", "i", "ï", "i",
	"ô", "o", "ö", "o",
	"ù", "u", "û", "u", "ü", "u",
	"ç", "c",
)

func foldAccents(s string) string {
	return accentFolder.Replace(s)
}

func contremarcheFlag(value string) ContremarcheFlag {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return ContremarcheUnknown
	}
	for _, neg := range negativeContremarche {
		if strings.Contains(v, neg) {
			return ContremarcheWithout
		}
	}
	return ContremarcheWith
}

func structureType(value string) StructureType {
	v := foldAccents(strings.ToLower(value))
	for _, s := range structureFlags {
		if strings.Contains(v, s.needle) {
			return s.flag
		}
	}
	return StructureUnknown
}

func setIfEmpty(dst *string, value string) {
	if *dst == "" && value != "" {
		*dst = value
	}
}
