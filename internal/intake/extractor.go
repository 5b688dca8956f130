package intake

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
)

// Extractor pulls plain text out of uploaded CV files so the stored
// candidate record carries a searchable copy of the document.
type Extractor struct {
	uploadsDir string
}

func NewExtractor(uploadsDir string) *Extractor {
	return &Extractor{uploadsDir: uploadsDir}
}

// ExtractText saves the file under the uploads dir and extracts its text.
// PDF and Word documents go through docconv; plain text is read directly.
func (e *Extractor) ExtractText(filename string, reader io.Reader) (string, int64, error) {
	if err := os.MkdirAll(e.uploadsDir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create uploads dir: %w", err)
	}

	filePath := filepath.Join(e.uploadsDir, filepath.Base(filename))
	file, err := os.Create(filePath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	size, err := io.Copy(file, reader)
	if err != nil {
		return "", 0, fmt.Errorf("failed to save file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf", ".doc", ".docx":
		res, err := docconv.ConvertPath(filePath)
		if err != nil {
			return "", size, fmt.Errorf("failed to parse document: %w", err)
		}
		return res.Body, size, nil
	case ".txt":
		content, err := os.ReadFile(filePath)
		if err != nil {
			return "", size, fmt.Errorf("failed to read text file: %w", err)
		}
		return string(content), size, nil
	default:
		return "", size, fmt.Errorf("unsupported file type: %s", ext)
	}
}
