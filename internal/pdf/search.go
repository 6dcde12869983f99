package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Search discovers devis candidates for batch processing.
type Search struct {
	maxFileSize int64
	validator   *Validator
}

// NewSearch creates a new devis search handler with the specified
// constraints.
func NewSearch(maxFileSize int64) *Search {
	return &Search{
		maxFileSize: maxFileSize,
		validator:   NewValidator(maxFileSize),
	}
}

// FindDevisFiles returns the SRX devis PDFs directly inside dir, sorted by
// name. Files that fail basic validation (wrong extension, empty,
// oversized) are skipped silently; batch discovery should not abort on one
// bad file.
func (s *Search) FindDevisFiles(dir string) ([]FileInfo, error) {
	if dir == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !IsDevisName(entry.Name()) {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := s.validator.ValidateFileInfo(path, fi); err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path: path,
			Name: entry.Name(),
			Size: fi.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// IsDevisName reports whether a file name looks like a devis export:
// "SRX*.pdf", case-insensitive.
func IsDevisName(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasPrefix(lower, "srx") && strings.HasSuffix(lower, ".pdf")
}
