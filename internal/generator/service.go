package generator

import (
	"fmt"
	"path/filepath"

	"github.com/bdc-tools/bdc-generator/internal/bdc"
	"github.com/bdc-tools/bdc-generator/internal/devis"
	"github.com/bdc-tools/bdc-generator/internal/pdf"
)

// Settings carries the run-independent configuration of the service.
type Settings struct {
	// TemplatePath is the AcroForm purchase order template.
	TemplatePath string
	// OutputDir receives the generated purchase orders.
	OutputDir string
	// MaxFileSize bounds how large a devis PDF may be, in bytes.
	MaxFileSize int64
	// FallbackCommercial is used when no sales contact could be read.
	FallbackCommercial string
	// PoseAmountPolicy selects the sold-without-amount behavior.
	PoseAmountPolicy devis.PoseAmountPolicy
}

// Service orchestrates the devis-to-purchase-order pipeline: validation,
// text extraction, parsing, the sanitizer gate and form filling.
type Service struct {
	settings  Settings
	reader    *pdf.Reader
	validator *pdf.Validator
	search    *pdf.Search
	filler    *bdc.Filler
}

// NewService creates a generation service with all components.
func NewService(settings Settings) (*Service, error) {
	if settings.MaxFileSize <= 0 {
		return nil, fmt.Errorf("maxFileSize must be greater than 0")
	}

	return &Service{
		settings:  settings,
		reader:    pdf.NewReader(settings.MaxFileSize),
		validator: pdf.NewValidator(settings.MaxFileSize),
		search:    pdf.NewSearch(settings.MaxFileSize),
		filler:    bdc.NewFiller(),
	}, nil
}

// ParseDevis validates and parses one devis without generating anything.
// The result includes the blocking conditions, if any, so callers can show
// why a record would be refused.
func (s *Service) ParseDevis(req ParseRequest) (*ParseResult, error) {
	validation, err := s.validator.ValidateFile(pdf.ValidateRequest{Path: req.Path})
	if err != nil {
		return nil, err
	}
	if !validation.Valid {
		return nil, fmt.Errorf("not a readable devis PDF: %s", validation.Message)
	}

	read, err := s.reader.ReadDevis(pdf.DevisReadRequest{Path: req.Path})
	if err != nil {
		return nil, err
	}

	lines := devis.NormalizeLines(read.Lines)
	rec, report := devis.Parse(lines, devis.ParseOptions{
		FilenameReference:  filepath.Base(req.Path),
		PoseOverride:       req.PoseOverride,
		FallbackCommercial: s.settings.FallbackCommercial,
		PoseAmountFallback: s.settings.PoseAmountPolicy,
	})

	return &ParseResult{
		Path:    req.Path,
		Record:  rec,
		Report:  report,
		Pages:   read.Pages,
		Blocked: blockingConditions(rec, report),
	}, nil
}

// Generate parses one devis and fills the purchase order template with the
// sanitized record. A record that fails the blocking conditions returns a
// *BlockedError; the template is never touched for such records.
func (s *Service) Generate(req GenerateRequest) (*GenerateResult, error) {
	parsed, err := s.ParseDevis(ParseRequest{Path: req.Path, PoseOverride: req.PoseOverride})
	if err != nil {
		return nil, err
	}
	if len(parsed.Blocked) > 0 {
		return nil, &BlockedError{Path: req.Path, Reasons: parsed.Blocked}
	}

	name := bdc.OutputName(parsed.Record.Client.Name, parsed.Record.RefAffaire)
	outputPath := filepath.Join(s.settings.OutputDir, name)

	values := bdc.BuildFieldValues(parsed.Record)
	if err := s.filler.Fill(s.settings.TemplatePath, values, outputPath); err != nil {
		return nil, err
	}

	return &GenerateResult{
		Path:       req.Path,
		OutputPath: outputPath,
		Record:     parsed.Record,
		Report:     parsed.Report,
	}, nil
}

// GenerateBatch processes every devis PDF found directly inside dir. One
// failing document never aborts the run; it lands in the failure list and
// the batch continues.
func (s *Service) GenerateBatch(dir string, poseOverride *bool) (*BatchResult, error) {
	files, err := s.search.FindDevisFiles(dir)
	if err != nil {
		return nil, err
	}

	batch := &BatchResult{}
	for _, file := range files {
		result, err := s.Generate(GenerateRequest{Path: file.Path, PoseOverride: poseOverride})
		if err != nil {
			batch.Failures = append(batch.Failures, BatchFailure{Path: file.Path, Err: err})
			continue
		}
		batch.Results = append(batch.Results, *result)
	}

	return batch, nil
}

// FindDevisFiles lists the devis candidates inside dir.
func (s *Service) FindDevisFiles(dir string) ([]pdf.FileInfo, error) {
	return s.search.FindDevisFiles(dir)
}

// blockingConditions returns why a record must not become a purchase order.
// An empty slice means the record is fit for generation.
func blockingConditions(rec devis.Record, report devis.ContaminationReport) []string {
	var reasons []string

	if report.Cleared("client_nom") {
		reasons = append(reasons, "client name was entirely vendor identity")
	} else if rec.Client.Name == "" {
		reasons = append(reasons, "client name missing")
	}

	if rec.YearMonth == "" {
		reasons = append(reasons, "devis reference missing")
	}

	if rec.RefAffaire == "" {
		reasons = append(reasons, "business reference missing")
	}

	return reasons
}
