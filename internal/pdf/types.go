package pdf

// DevisReadRequest asks for the text lines of one devis PDF.
type DevisReadRequest struct {
	Path string
}

// DevisReadResult carries the extracted line sequence and basic file facts.
// Lines are raw page text lines in reading order, not yet normalized; the
// parsing layer owns normalization.
type DevisReadResult struct {
	Path  string
	Lines []string
	Pages int
	Size  int64
}

// ValidateRequest asks whether a file is a readable PDF.
type ValidateRequest struct {
	Path string
}

// ValidateResult reports the outcome of validation. An invalid file is a
// result, not an error: batch runs keep going.
type ValidateResult struct {
	Path    string
	Valid   bool
	Message string
}

// FileInfo describes one discovered devis candidate.
type FileInfo struct {
	Path string
	Name string
	Size int64
}
