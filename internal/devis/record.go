package devis

import "github.com/shopspring/decimal"

// PoseProvenance records how the pose (installation) decision was reached.
// Consumers must handle all three states; an ambiguous decision is a review
// condition, not a silent default.
type PoseProvenance string

const (
	// ProvenanceAuto means the decision came from the document itself,
	// including the clean-absence case where no pose section exists.
	ProvenanceAuto PoseProvenance = "auto"
	// ProvenanceForced means a caller override replaced the detected value.
	ProvenanceForced PoseProvenance = "forced"
	// ProvenanceAmbiguous means a pose section was present but could not be
	// read with confidence; the record needs human review.
	ProvenanceAmbiguous PoseProvenance = "ambiguous"
)

// Amount is a parsed pre-tax amount. Valid distinguishes an explicit value
// (including an explicit zero) from a missing or unparsable token.
type Amount struct {
	Value decimal.Decimal
	Valid bool
}

// NewAmount wraps a decimal in a valid Amount.
func NewAmount(v decimal.Decimal) Amount {
	return Amount{Value: v, Valid: true}
}

// Equal reports whether two amounts carry the same validity and value.
func (a Amount) Equal(b Amount) bool {
	if a.Valid != b.Valid {
		return false
	}
	if !a.Valid {
		return true
	}
	return a.Value.Equal(b.Value)
}

// Client identifies the customer the purchase order is issued for.
// Address keeps its source lines newline-joined.
type Client struct {
	Name       string
	Address    string
	PostalCode string
	City       string
	Phone      string
	Email      string
}

// Commercial is the vendor-side sales contact printed on the devis.
type Commercial struct {
	Name           string
	Phone          string
	SecondaryPhone string
	Email          string
}

// Pose is the installation decision: whether installation was sold, the
// associated amount when it was, and how the decision was reached.
type Pose struct {
	Sold       bool
	Amount     Amount
	Provenance PoseProvenance
}

// ContremarcheFlag says whether risers (contremarches) are included.
type ContremarcheFlag string

const (
	ContremarcheUnknown ContremarcheFlag = ""
	ContremarcheWith    ContremarcheFlag = "with"
	ContremarcheWithout ContremarcheFlag = "without"
)

// StructureType is the stair structure family ticked on the order form.
type StructureType string

const (
	StructureUnknown      StructureType = ""
	StructureCremaillere  StructureType = "cremaillere"
	StructureLimon        StructureType = "limon"
	StructureLimonDecoupe StructureType = "limon_decoupe"
	StructureLimonCentral StructureType = "limon_central"
)

// Options carries the technical stair options read from the devis body.
type Options struct {
	Gamme                  string
	Essence                string
	FinitionMarches        string
	FinitionStructure      string
	FinitionContremarche   string
	FinitionRampe          string
	MainCourante           string
	MainCouranteScellement string
	NezDeMarches           string
	TeteDePoteau           string
	PoteauxDepart          string
	Contremarche           ContremarcheFlag
	Structure              StructureType
}

// Record is the structured output of parsing one devis. It is produced once
// per document and never mutated in place; the sanitizer returns a new copy.
type Record struct {
	// Reference is the full SRX code, e.g. "SRX2512AFF040301".
	Reference string
	// YearMonth, TypeCode and Number are the decomposed reference parts.
	YearMonth string
	TypeCode  string
	Number    string

	Client     Client
	Commercial Commercial

	// RefAffaire is the business case reference ("affaire").
	RefAffaire string

	Fourniture  Amount
	Prestations Amount
	TotalHT     Amount

	Pose    Pose
	Options Options

	// Warnings lists the non-fatal extraction problems encountered, in
	// document order. Missing anchors and malformed values land here.
	Warnings []string
}

// warn appends a non-fatal extraction warning.
func (r *Record) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
