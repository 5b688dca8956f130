package intake

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractTextFromPlainText(t *testing.T) {
	e := NewExtractor(t.TempDir())

	content := "Jane Fernandes\nAccountant, 4 years experience"
	text, size, err := e.ExtractText("Jane_9876543210_Naukri.txt", strings.NewReader(content))
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if text != content {
		t.Errorf("Expected content back, got %q", text)
	}
	if size != int64(len(content)) {
		t.Errorf("Expected size %d, got %d", len(content), size)
	}
}

func TestExtractTextRejectsUnknownType(t *testing.T) {
	e := NewExtractor(t.TempDir())
	_, _, err := e.ExtractText("cv.xyz", strings.NewReader("data"))
	if err == nil || !strings.Contains(err.Error(), "unsupported file type") {
		t.Errorf("Expected unsupported file type error, got %v", err)
	}
}

func TestExtractTextStripsDirectoryFromFilename(t *testing.T) {
	dir := t.TempDir()
	e := NewExtractor(dir)
	_, _, err := e.ExtractText("../escape.txt", strings.NewReader("data"))
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.txt")); err != nil {
		t.Errorf("File not saved inside the uploads dir: %v", err)
	}
}
