package devis

// PoseAmountPolicy decides what happens to the pose amount when installation
// is sold but no explicit "Pose au" amount was readable. The source material
// is genuinely inconsistent here, so the choice is configuration, not code.
type PoseAmountPolicy string

const (
	// PoseAmountFromPrestations falls back to the prestations total.
	PoseAmountFromPrestations PoseAmountPolicy = "prestations"
	// PoseAmountLeaveEmpty leaves the amount absent for manual entry.
	PoseAmountLeaveEmpty PoseAmountPolicy = "empty"
)

// ParseOptions are the per-document inputs supplied by the caller alongside
// the line sequence. The zero value is usable.
type ParseOptions struct {
	// FilenameReference is the reference encoded in the source file name,
	// when available. It takes precedence over the in-document reference
	// because filenames do not suffer text-extraction artifacts.
	FilenameReference string

	// PoseOverride, when non-nil, replaces the detected pose decision
	// unconditionally and marks the provenance as forced.
	PoseOverride *bool

	// FallbackCommercial is used when no sales contact could be read.
	FallbackCommercial string

	// PoseAmountFallback selects the sold-without-amount behavior.
	// Defaults to PoseAmountFromPrestations.
	PoseAmountFallback PoseAmountPolicy
}

// Parse runs the full extraction pipeline over one document's line
// sequence: segmentation, field extraction, option/override application and
// the sanitizer gate. It is pure; concurrent calls on different documents
// need no coordination.
func Parse(lines Lines, opts ParseOptions) (Record, ContaminationReport) {
	segments := ScanSegments(lines)
	rec := Extract(lines, segments)

	if ref := CanonicalReference(opts.FilenameReference); ref != "" && ref != rec.Reference {
		rec.Reference = ref
		applyReferenceParts(&rec)
	}

	if opts.PoseOverride != nil {
		amount := rec.Pose.Amount
		if !*opts.PoseOverride {
			amount = Amount{}
		}
		rec.Pose = Pose{Sold: *opts.PoseOverride, Amount: amount, Provenance: ProvenanceForced}
	}

	if rec.Pose.Sold && !rec.Pose.Amount.Valid {
		switch opts.PoseAmountFallback {
		case PoseAmountLeaveEmpty:
			// Keep it absent; the operator fills it in on the form.
		default:
			rec.Pose.Amount = rec.Prestations
		}
	}

	if rec.Commercial.Name == "" && opts.FallbackCommercial != "" {
		rec.Commercial.Name = opts.FallbackCommercial
	}

	return Sanitize(rec)
}
