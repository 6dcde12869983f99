package pdf

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsDevisName(t *testing.T) {
	tests := []struct {
		name string
		file string
		want bool
	}{
		{"standard devis", "SRX2512AFF040301.pdf", true},
		{"lowercase", "srx2512aff040301.pdf", true},
		{"named copy", "SRX2512AFF040301 - copie.pdf", true},
		{"not a devis", "bon de commande V1.pdf", false},
		{"wrong extension", "SRX2512AFF040301.txt", false},
		{"prefix elsewhere", "devis SRX2512.pdf", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDevisName(tt.file); got != tt.want {
				t.Errorf("IsDevisName(%q) = %v, want %v", tt.file, got, tt.want)
			}
		})
	}
}

func TestFindDevisFiles(t *testing.T) {
	dir := t.TempDir()

	// Minimal PDF header so the size check passes; content is irrelevant
	// for discovery.
	for _, name := range []string{
		"SRX2512AFF040301.pdf",
		"SRX2501AFF000001.pdf",
		"notes.txt",
		"bon de commande V1.pdf",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "SRXdir.pdf"), 0o750); err != nil {
		t.Fatal(err)
	}

	search := NewSearch(1024 * 1024)
	files, err := search.FindDevisFiles(dir)
	if err != nil {
		t.Fatalf("FindDevisFiles failed: %v", err)
	}

	if len(files) != 2 {
		t.Fatalf("expected 2 devis files, got %d: %v", len(files), files)
	}
	// Sorted by name.
	if files[0].Name != "SRX2501AFF000001.pdf" || files[1].Name != "SRX2512AFF040301.pdf" {
		t.Errorf("unexpected order: %v", files)
	}
}

func TestFindDevisFilesSkipsEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "SRX2512AFF040301.pdf"), nil, 0o600); err != nil {
		t.Fatal(err)
	}

	search := NewSearch(1024 * 1024)
	files, err := search.FindDevisFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 0 {
		t.Errorf("expected empty files to be skipped, got %v", files)
	}
}

func TestFindDevisFilesMissingDirectory(t *testing.T) {
	search := NewSearch(1024)
	if _, err := search.FindDevisFiles(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestValidateFileInfo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "SRX1.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o600); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	v := NewValidator(4) // smaller than the file
	if err := v.ValidateFileInfo(path, info); err == nil {
		t.Error("expected oversized file to be rejected")
	}

	v = NewValidator(1024)
	if err := v.ValidateFileInfo(path, info); err != nil {
		t.Errorf("expected file to pass basic validation: %v", err)
	}
}
