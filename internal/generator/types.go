package generator

import (
	"fmt"
	"strings"

	"github.com/bdc-tools/bdc-generator/internal/devis"
)

// ParseRequest asks for the structured record of one devis, without
// generating anything.
type ParseRequest struct {
	// Path of the devis PDF.
	Path string
	// PoseOverride, when non-nil, forces the installation decision.
	PoseOverride *bool
}

// ParseResult carries the sanitized record and the audit trail of the run.
type ParseResult struct {
	Path    string
	Record  devis.Record
	Report  devis.ContaminationReport
	Pages   int
	Blocked []string
}

// GenerateRequest asks for a purchase order to be generated from one devis.
type GenerateRequest struct {
	Path         string
	PoseOverride *bool
}

// GenerateResult reports one successful generation.
type GenerateResult struct {
	Path       string
	OutputPath string
	Record     devis.Record
	Report     devis.ContaminationReport
}

// BatchFailure records one devis that could not be processed during a batch
// run.
type BatchFailure struct {
	Path string
	Err  error
}

// BatchResult summarizes a directory run. Failures never abort the batch.
type BatchResult struct {
	Results  []GenerateResult
	Failures []BatchFailure
}

// Successful returns the number of generated purchase orders.
func (b *BatchResult) Successful() int { return len(b.Results) }

// Failed returns the number of devis that could not be processed.
func (b *BatchResult) Failed() int { return len(b.Failures) }

// BlockedError is returned when a devis parsed successfully but the record
// is unfit for generation: a purchase order without a client name or devis
// reference would be worse than no purchase order at all.
type BlockedError struct {
	Path    string
	Reasons []string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("generation blocked for %s: %s", e.Path, strings.Join(e.Reasons, "; "))
}
