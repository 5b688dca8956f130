package api

import (
	"fmt"
	"strings"
	"text/template"

	"hr-pipeline/internal/pipeline"
)

// messageTemplates are the fixed artifacts the message endpoint can render.
// They only read candidate fields; nothing here mutates state.
var messageTemplates = map[string]*template.Template{
	"interview_invite": template.Must(template.New("interview_invite").Parse(
		"Dear {{.Name}},\n\n" +
			"You have been shortlisted for the {{.Role}} position. " +
			"Please attend the interview as scheduled. We will reach you on {{.Mobile}} for confirmation.\n\n" +
			"Regards,\nHR Team")),
	"selection": template.Must(template.New("selection").Parse(
		"Dear {{.Name}},\n\n" +
			"Congratulations! You have been selected for the {{.Role}} position. " +
			"Our HR team will contact you on {{.Mobile}} with the next steps.\n\n" +
			"Regards,\nHR Team")),
	"rejection": template.Must(template.New("rejection").Parse(
		"Dear {{.Name}},\n\n" +
			"Thank you for your interest in the {{.Role}} position. " +
			"We will not be moving forward with your application at this time.\n\n" +
			"Regards,\nHR Team")),
}

func renderMessage(templateType string, c *pipeline.Candidate) (string, error) {
	tmpl, ok := messageTemplates[templateType]
	if !ok {
		known := make([]string, 0, len(messageTemplates))
		for k := range messageTemplates {
			known = append(known, k)
		}
		return "", fmt.Errorf("unknown template type %q (known: %s)", templateType, strings.Join(known, ", "))
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, c); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return b.String(), nil
}
