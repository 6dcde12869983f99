package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Reader extracts the text line sequence from devis PDF files.
type Reader struct {
	maxFileSize int64
	maxTextSize int
}

// NewReader creates a new PDF reader with the specified constraints.
func NewReader(maxFileSize int64) *Reader {
	return &Reader{
		maxFileSize: maxFileSize,
		maxTextSize: 10 * 1024 * 1024, // 10MB text limit
	}
}

// ReadDevis extracts the text content of a devis PDF as ordered lines,
// page by page, flattened to document order.
func (r *Reader) ReadDevis(req DevisReadRequest) (*DevisReadResult, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(req.Path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", req.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	if err := r.validatePDFFile(req.Path, fileInfo); err != nil {
		return nil, err
	}

	f, pdfReader, err := pdf.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	lines, err := r.extractLines(pdfReader)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text content: %w", err)
	}

	return &DevisReadResult{
		Path:  req.Path,
		Lines: lines,
		Pages: pdfReader.NumPage(),
		Size:  fileInfo.Size(),
	}, nil
}

// validatePDFFile performs basic validation on a PDF file.
func (r *Reader) validatePDFFile(filePath string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	if !strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", filePath)
	}

	if fileInfo.Size() > r.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), r.maxFileSize)
	}

	return nil
}

// extractLines pulls the plain text of every page and splits it into lines.
// A page that fails to extract is skipped; partial text is more useful than
// none for a parser built around independent anchors.
func (r *Reader) extractLines(pdfReader *pdf.Reader) ([]string, error) {
	var lines []string
	totalLength := 0

	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if totalLength+len(content) > r.maxTextSize {
			break
		}
		totalLength += len(content)

		lines = append(lines, strings.Split(content, "\n")...)
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("no text content could be extracted from PDF")
	}

	return lines, nil
}
