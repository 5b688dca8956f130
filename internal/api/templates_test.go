package api

import (
	"strings"
	"testing"

	"hr-pipeline/internal/pipeline"
)

func TestRenderMessage(t *testing.T) {
	c := &pipeline.Candidate{Name: "Jane Fernandes", Role: "Accountant", Mobile: "9876543210"}

	cases := []struct {
		templateType string
		wantIn       []string
	}{
		{"interview_invite", []string{"Dear Jane Fernandes", "Accountant", "9876543210"}},
		{"selection", []string{"Congratulations", "Accountant", "9876543210"}},
		{"rejection", []string{"Dear Jane Fernandes", "not be moving forward"}},
	}
	for _, tc := range cases {
		msg, err := renderMessage(tc.templateType, c)
		if err != nil {
			t.Errorf("%s: render failed: %v", tc.templateType, err)
			continue
		}
		for _, want := range tc.wantIn {
			if !strings.Contains(msg, want) {
				t.Errorf("%s: message %q missing %q", tc.templateType, msg, want)
			}
		}
	}
}

func TestRenderMessageUnknownType(t *testing.T) {
	_, err := renderMessage("offer_letter", &pipeline.Candidate{Name: "Jane"})
	if err == nil {
		t.Fatal("Expected error for unknown template type")
	}
	if !strings.Contains(err.Error(), "offer_letter") {
		t.Errorf("Error should name the bad type: %v", err)
	}
}
