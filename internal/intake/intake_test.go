package intake

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseFilename(t *testing.T) {
	name, mobile, source, err := ParseFilename("Jane_9876543210_Naukri.pdf")
	if err != nil {
		t.Fatalf("Expected parse to succeed: %v", err)
	}
	if name != "Jane" || mobile != "9876543210" || source != "Naukri" {
		t.Errorf("Got %q/%q/%q", name, mobile, source)
	}
}

func TestParseFilenameJoinsExtraSegmentsIntoSource(t *testing.T) {
	_, _, source, err := ParseFilename("Ravi_9123456780_Walk_In_Drive.docx")
	if err != nil {
		t.Fatalf("Expected parse to succeed: %v", err)
	}
	if source != "Walk_In_Drive" {
		t.Errorf("Expected joined source, got %q", source)
	}
}

func TestParseFilenameRejectsBadInput(t *testing.T) {
	cases := []struct {
		filename string
		wantIn   string
	}{
		{"Jane_123_Naukri.pdf", "10 digits"},
		{"JaneOnly.pdf", "Name_Mobile_Source"},
		{"Jane_9876543210.pdf", "Name_Mobile_Source"},
		{"_9876543210_Naukri.pdf", "empty name"},
		{"Jane_98765abc10_Naukri.pdf", "10 digits"},
	}
	for _, tc := range cases {
		_, _, _, err := ParseFilename(tc.filename)
		if err == nil {
			t.Errorf("%s: expected error", tc.filename)
			continue
		}
		if !strings.Contains(err.Error(), tc.wantIn) {
			t.Errorf("%s: error %q does not mention %q", tc.filename, err, tc.wantIn)
		}
	}
}

func TestClassifyPartitionsBatch(t *testing.T) {
	files := []File{
		{Name: "Jane_9876543210_Naukri.pdf", Size: 1024},
		{Name: "Jane_123_Naukri.pdf", Size: 1024},
		{Name: "JaneOnly.pdf", Size: 1024},
		{Name: "Ravi_9123456780_Referral.exe", Size: 1024},
		{Name: "Asha_9000000000_Indeed.docx", Size: MaxFileSize + 1},
		{Name: "Meena_9555511111_LinkedIn.txt", Size: 2048},
	}

	accepted, rejected := Classify(files)
	if len(accepted) != 2 {
		t.Fatalf("Expected 2 accepted, got %d", len(accepted))
	}
	if accepted[0].Name != "Jane" || accepted[0].Mobile != "9876543210" || accepted[0].Source != "Naukri" {
		t.Errorf("First accepted record wrong: %+v", accepted[0])
	}
	if accepted[1].Name != "Meena" {
		t.Errorf("Expected Meena accepted, got %+v", accepted[1])
	}

	if len(rejected) != 4 {
		t.Fatalf("Expected 4 rejected, got %d", len(rejected))
	}
	for _, rej := range rejected {
		if rej.Reason == "" {
			t.Errorf("Rejection for %s carries no reason", rej.File.Name)
		}
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	files := []File{
		{Name: "Jane_9876543210_Naukri.pdf", Size: 1024},
		{Name: "broken.pdf", Size: 10},
	}
	a1, r1 := Classify(files)
	a2, r2 := Classify(files)
	if !reflect.DeepEqual(a1, a2) || !reflect.DeepEqual(r1, r2) {
		t.Error("Classification is not deterministic across runs")
	}
}

func TestClassifyEmptyBatch(t *testing.T) {
	accepted, rejected := Classify(nil)
	if len(accepted) != 0 || len(rejected) != 0 {
		t.Error("Empty batch should partition into two empty lists")
	}
}
