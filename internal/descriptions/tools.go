package descriptions

// Comprehensive tool descriptions with practical examples and use cases

const (
	DevisParseDescription = `Parse a devis PDF and return the extracted, sanitized record without generating anything.

**When to use:** Inspect what the generator would read from a devis before committing to a purchase order, or audit the sanitizer's decisions.

**Why it's useful:** Shows the decomposed SRX reference, client and commercial blocks, amounts, the installation (pose) decision with its provenance, every sanitizer alteration, and the conditions that would block generation.

**Examples:**
• Pre-flight check: "Parse SRX2512AFF040301.pdf and show me what would land on the purchase order"
• Audit: "Parse devis.pdf to see whether any vendor identity leaked into the client block"
• Pose review: "Parse devis.pdf with pose=true to preview the forced installation decision"

**Common workflows:**
1. Review & Generate: devis_parse → inspect record and warnings → bdc_generate
2. Sanitizer Audit: devis_parse → review alterations → correct the source document if needed
3. Ambiguity Resolution: devis_parse → see provenance "ambiguous" → re-run with an explicit pose override

**Best practices:** Check the "Generation would be refused" section; those conditions must be resolved before bdc_generate will accept the document.`

	BDCGenerateDescription = `Generate a purchase order PDF from a devis PDF.

**When to use:** A devis is ready to be turned into a filled purchase order form.

**Why it's useful:** Runs the full pipeline in one call: validation, text extraction, parsing, vendor-identity sanitization, and AcroForm filling. The output file name encodes the client and business reference.

**Examples:**
• Single order: "Generate the purchase order for SRX2512AFF040301.pdf"
• Forced installation: "Generate with pose=true because installation was agreed by phone"
• No installation: "Generate with pose=false; the client declined the pose line"

**Common workflows:**
1. Direct Generation: bdc_generate → collect the output path → forward the purchase order
2. Review First: devis_parse → verify the record → bdc_generate
3. Batch: devis_search_directory → bdc_generate each file → report failures

**Best practices:** Generation is refused when the client name, devis reference or business reference is missing or was entirely vendor identity; use devis_parse to see why before retrying.`

	DevisSearchDirectoryDescription = `List the devis PDFs (SRX*.pdf) found in a directory.

**When to use:** Discover which devis are available for processing, or build a batch run.

**Why it's useful:** Filters to the vendor's export naming scheme and skips files that fail basic validation, so every listed file is a plausible generation candidate.

**Examples:**
• Inventory: "List the devis waiting in /commandes/devis/"
• Batch preparation: "Find all devis in the default directory, then generate each one"

**Common workflows:**
1. Batch Processing: devis_search_directory → bdc_generate each file → summarize results
2. Monitoring: devis_search_directory on a drop folder → process new arrivals

**Best practices:** Omit the directory argument to use the configured devis directory.`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	"devis_parse":            DevisParseDescription,
	"bdc_generate":           BDCGenerateDescription,
	"devis_search_directory": DevisSearchDirectoryDescription,
}

// GetToolDescription returns the comprehensive description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a list of all available tool names
func GetAllToolNames() []string {
	var names []string
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	return names
}
