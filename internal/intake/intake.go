package intake

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// AllowedExtensions are the CV file types accepted at intake.
var AllowedExtensions = []string{".pdf", ".doc", ".docx", ".txt"}

// MaxFileSize is the upload limit per CV file.
const MaxFileSize = 5 << 20 // 5 MB

var mobilePattern = regexp.MustCompile(`^\d{10}$`)

// File is one raw entry handed to the classifier.
type File struct {
	Name string
	Size int64
	Path string
}

// Record is an accepted intake entry: metadata parsed from the filename plus
// the original file.
type Record struct {
	Name   string
	Mobile string
	Source string
	File   File
}

// Rejection is a refused entry with a human-readable reason.
type Rejection struct {
	File   File
	Reason string
}

// Classify partitions a batch of raw files into accepted and rejected
// entries. Filenames must encode Name_Mobile_Source with a 10-digit mobile;
// extension and size limits apply. Pure: re-running on the same input yields
// the same partition, and a bad file never aborts the rest of the batch.
func Classify(files []File) (accepted []Record, rejected []Rejection) {
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f.Name))
		if !allowedExt(ext) {
			rejected = append(rejected, Rejection{File: f, Reason: fmt.Sprintf("unsupported file type %q (allowed: %s)", ext, strings.Join(AllowedExtensions, ", "))})
			continue
		}
		if f.Size > MaxFileSize {
			rejected = append(rejected, Rejection{File: f, Reason: "file exceeds the 5 MB limit"})
			continue
		}
		name, mobile, source, err := ParseFilename(f.Name)
		if err != nil {
			rejected = append(rejected, Rejection{File: f, Reason: err.Error()})
			continue
		}
		accepted = append(accepted, Record{Name: name, Mobile: mobile, Source: source, File: f})
	}
	return accepted, rejected
}

// ParseFilename splits a CV filename of the form Name_Mobile_Source.<ext>.
// Extra underscore-delimited segments after the mobile join into the source.
func ParseFilename(filename string) (name, mobile, source string, err error) {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	parts := strings.Split(base, "_")
	if len(parts) < 3 {
		return "", "", "", fmt.Errorf("filename %q must follow Name_Mobile_Source", filename)
	}
	name = strings.TrimSpace(parts[0])
	mobile = strings.TrimSpace(parts[1])
	source = strings.TrimSpace(strings.Join(parts[2:], "_"))
	if name == "" {
		return "", "", "", fmt.Errorf("filename %q has an empty name segment", filename)
	}
	if !mobilePattern.MatchString(mobile) {
		return "", "", "", fmt.Errorf("mobile %q must be exactly 10 digits", mobile)
	}
	if source == "" {
		return "", "", "", fmt.Errorf("filename %q has an empty source segment", filename)
	}
	return name, mobile, source, nil
}

func allowedExt(ext string) bool {
	for _, e := range AllowedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}
