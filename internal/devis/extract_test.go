package devis

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extractSample(t *testing.T) Record {
	t.Helper()
	lines := sampleDevisLines()
	return Extract(lines, ScanSegments(lines))
}

func TestExtractReference(t *testing.T) {
	rec := extractSample(t)

	assert.Equal(t, "SRX2512AFF040301", rec.Reference)
	assert.Equal(t, "2512", rec.YearMonth)
	assert.Equal(t, "AFF", rec.TypeCode)
	assert.Equal(t, "040301", rec.Number)
}

func TestDecomposeReference(t *testing.T) {
	parts, err := DecomposeReference("SRX2512AFF040301")
	require.NoError(t, err)
	assert.Equal(t, ReferenceParts{YearMonth: "2512", TypeCode: "AFF", Number: "040301"}, parts)

	// Extraction artifacts: stray spaces between the groups are tolerated.
	parts, err = DecomposeReference("SRX 2512 AFF 040301")
	require.NoError(t, err)
	assert.Equal(t, "040301", parts.Number)

	_, err = DecomposeReference("SRXBAD")
	assert.Error(t, err)
}

func TestNonConformingReferenceFailsOnlySubFields(t *testing.T) {
	lines := NormalizeLines([]string{
		"DEVIS N° SRXBAD",
		"Code client : 1",
		"CLIENT DUPONT",
		"Contact commercial :",
	})

	rec := Extract(lines, ScanSegments(lines))

	assert.Empty(t, rec.YearMonth)
	assert.Empty(t, rec.TypeCode)
	assert.Empty(t, rec.Number)
	// The rest of the record is unaffected.
	assert.Equal(t, "CLIENT DUPONT", rec.Client.Name)
}

func TestExtractClient(t *testing.T) {
	rec := extractSample(t)

	assert.Equal(t, "BERVAL MAISONS", rec.Client.Name)
	assert.Equal(t, "12 RUE DES ARTISANS\n77600 BUSSY SAINT GEORGES", rec.Client.Address)
	assert.Equal(t, "77600", rec.Client.PostalCode)
	assert.Equal(t, "BUSSY SAINT GEORGES", rec.Client.City)
	assert.Equal(t, "01 64 66 10 10", rec.Client.Phone)
	assert.Equal(t, "contact@berval.fr", rec.Client.Email)
}

func TestExtractClientOnlyNumericLines(t *testing.T) {
	lines := NormalizeLines([]string{
		"Code client : 040301",
		"040301",
		"Contact commercial :",
		"Jean MARTIN",
	})

	rec := Extract(lines, ScanSegments(lines))

	assert.Empty(t, rec.Client.Name, "a block of customer codes has no name")
	found := false
	for _, w := range rec.Warnings {
		if strings.Contains(w, "nom client") {
			found = true
		}
	}
	assert.True(t, found, "empty client name must be surfaced as a warning, got %v", rec.Warnings)
}

func TestExtractCommercial(t *testing.T) {
	rec := extractSample(t)

	assert.Equal(t, "Jean MARTIN", rec.Commercial.Name)
	assert.Equal(t, "06 12 34 56 78", rec.Commercial.Phone)
	assert.Equal(t, "jean.martin@groupe-riaux.fr", rec.Commercial.Email)
}

func TestExtractCommercialLandlineOnly(t *testing.T) {
	lines := NormalizeLines([]string{
		"Contact commercial :",
		"Jean MARTIN",
		"02 99 11 22 33",
	})

	rec := Extract(lines, ScanSegments(lines))

	// Without a mobile the landline still lands in the primary slot.
	assert.Equal(t, "02 99 11 22 33", rec.Commercial.Phone)
	assert.Empty(t, rec.Commercial.SecondaryPhone)
}

func TestExtractAmounts(t *testing.T) {
	rec := extractSample(t)

	require.True(t, rec.Fourniture.Valid)
	require.True(t, rec.Prestations.Valid)
	require.True(t, rec.TotalHT.Valid)
	assert.True(t, rec.Fourniture.Value.Equal(decimal.RequireFromString("10500.50")))
	assert.True(t, rec.Prestations.Value.Equal(decimal.RequireFromString("1200.00")))
	assert.True(t, rec.TotalHT.Value.Equal(decimal.RequireFromString("11700.50")))
}

func TestExtractAmountsMissingLabel(t *testing.T) {
	lines := NormalizeLines([]string{
		"PRIX DE LA FOURNITURE HT 100,00",
	})

	rec := Extract(lines, ScanSegments(lines))

	assert.True(t, rec.Fourniture.Valid)
	assert.False(t, rec.Prestations.Valid, "missing label must yield an absent amount, not zero")
	assert.False(t, rec.TotalHT.Valid)
}

func TestExtractPoseSold(t *testing.T) {
	rec := extractSample(t)

	assert.True(t, rec.Pose.Sold)
	assert.Equal(t, ProvenanceAuto, rec.Pose.Provenance)
	require.True(t, rec.Pose.Amount.Valid)
	assert.True(t, rec.Pose.Amount.Value.Equal(decimal.RequireFromString("1200.00")))
}

func TestExtractPoseAmountOnAdjacentLine(t *testing.T) {
	lines := NormalizeLines([]string{
		"PRESTATIONS ET SERVICES",
		"Pose au",
		"1 200,00",
	})

	rec := Extract(lines, ScanSegments(lines))

	assert.True(t, rec.Pose.Sold)
	require.True(t, rec.Pose.Amount.Valid)
	assert.True(t, rec.Pose.Amount.Value.Equal(decimal.RequireFromString("1200.00")))
}

func TestExtractPoseLaterPricedLine(t *testing.T) {
	// Descriptive "Pose au" wording without an amount must not stop the
	// scan before a priced line further down the same section.
	lines := NormalizeLines([]string{
		"PRESTATIONS ET SERVICES",
		"Pose au rez-de-chaussée selon plan",
		"Fixations et finitions comprises",
		"Pose au 1 200,00",
	})

	rec := Extract(lines, ScanSegments(lines))

	assert.True(t, rec.Pose.Sold)
	assert.Equal(t, ProvenanceAuto, rec.Pose.Provenance)
	require.True(t, rec.Pose.Amount.Valid)
	assert.True(t, rec.Pose.Amount.Value.Equal(decimal.RequireFromString("1200.00")))
	assert.NotContains(t, rec.Warnings, "ligne pose présente mais montant illisible")
}

func TestExtractPoseAmbiguous(t *testing.T) {
	lines := NormalizeLines([]string{
		"PRESTATIONS ET SERVICES",
		"Pose au chantier selon conditions",
	})

	rec := Extract(lines, ScanSegments(lines))

	assert.False(t, rec.Pose.Sold)
	assert.Equal(t, ProvenanceAmbiguous, rec.Pose.Provenance)
}

func TestExtractPoseMentionWithoutAmount(t *testing.T) {
	lines := NormalizeLines([]string{
		"PRESTATIONS ET SERVICES",
		"Livraison et pose par nos soins",
	})

	rec := Extract(lines, ScanSegments(lines))

	assert.False(t, rec.Pose.Sold)
	assert.Equal(t, ProvenanceAmbiguous, rec.Pose.Provenance)
}

func TestExtractPoseCleanAbsence(t *testing.T) {
	lines := NormalizeLines([]string{
		"Code client : 1",
		"CLIENT DUPONT",
		"Contact commercial :",
	})

	rec := Extract(lines, ScanSegments(lines))

	assert.False(t, rec.Pose.Sold)
	assert.Equal(t, ProvenanceAuto, rec.Pose.Provenance, "no pose section is a clean absence, not ambiguity")
}

func TestExtractOptions(t *testing.T) {
	rec := extractSample(t)

	assert.Equal(t, "GAMME ATELIER", rec.Options.Gamme)
	assert.Equal(t, "Chêne - brut", rec.Options.FinitionMarches)
	assert.Equal(t, "Chêne", rec.Options.Essence)
	assert.Equal(t, "TPA", rec.Options.TeteDePoteau)
	assert.Equal(t, "carré", rec.Options.PoteauxDepart)
	assert.Equal(t, StructureLimonDecoupe, rec.Options.Structure)
	assert.Equal(t, ContremarcheWithout, rec.Options.Contremarche)
	assert.Equal(t, "Chêne scellement inox", rec.Options.MainCouranteScellement)
}

func TestExtractPoteauDepartDropsTPAMarker(t *testing.T) {
	lines := NormalizeLines([]string{
		"- Poteau de départ : carré (TPA)",
	})

	rec := Extract(lines, ScanSegments(lines))

	assert.Equal(t, "carré", rec.Options.PoteauxDepart, "the marker belongs to the head-type field only")
	assert.Equal(t, "TPA", rec.Options.TeteDePoteau)
}

func TestDeriveEssence(t *testing.T) {
	tests := []struct {
		name     string
		finition string
		want     string
	}{
		{"with separator", "Chêne - brut", "Chêne"},
		{"no separator", "Hêtre verni", "Hêtre verni"},
		{"separator only splits once", "Chêne - brut - mat", "Chêne"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deriveEssence(tt.finition); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPoteauDroitForcesDepartEmpty(t *testing.T) {
	// "Poteau droit" wins over any other poteau line, in either order.
	lines := NormalizeLines([]string{
		"- Poteau de départ : carré (TPA)",
		"Poteau droit",
	})

	rec := Extract(lines, ScanSegments(lines))

	assert.Empty(t, rec.Options.PoteauxDepart)
	assert.Equal(t, "TPA", rec.Options.TeteDePoteau, "TPA and standard post are not mutually exclusive")

	lines = NormalizeLines([]string{
		"Poteau droit",
		"- Poteau de départ : carré",
	})
	rec = Extract(lines, ScanSegments(lines))
	assert.Empty(t, rec.Options.PoteauxDepart)
}

func TestSpeciesFallbackFromOtherFinishes(t *testing.T) {
	lines := NormalizeLines([]string{
		"- Structure : limon en hêtre massif",
	})

	rec := Extract(lines, ScanSegments(lines))

	assert.Equal(t, "Hêtre", rec.Options.Essence)
}
