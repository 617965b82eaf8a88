package docgen

import (
	"fmt"
	"strings"
)

// systemInstruction frames every drafting request.
const systemInstruction = "You are a technical writer producing " +
	"well-structured Markdown project documents. Use '## ' headings " +
	"for every required section and keep the content factual and concise."

// requiredSections lists the section headings each document type must
// contain, in order. Validation checks for these.
var requiredSections = map[Type][]string{
	TypeProjectCharter: {
		"Purpose",
		"Scope",
		"Stakeholders",
		"Milestones",
		"Risks",
	},
	TypeRequirements: {
		"Overview",
		"Functional Requirements",
		"Non-Functional Requirements",
		"Constraints",
		"Acceptance Criteria",
	},
	TypeDataPlan: {
		"Data Description",
		"Storage and Backup",
		"Access and Sharing",
		"Retention",
	},
}

// SectionsFor returns the required section headings for a document
// type, or nil for unknown types.
func SectionsFor(t Type) []string {
	sections := requiredSections[t]
	out := make([]string, len(sections))
	copy(out, sections)
	return out
}

// buildPrompt renders the drafting prompt for a request.
func buildPrompt(req Request) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Draft a %s titled %q.\n\n", displayName(req.Type), req.Title)
	sb.WriteString("The document must contain these sections, each under a '## ' heading:\n")
	for _, section := range requiredSections[req.Type] {
		fmt.Fprintf(&sb, "- %s\n", section)
	}
	if req.Context != "" {
		fmt.Fprintf(&sb, "\nBackground:\n%s\n", req.Context)
	}
	return sb.String()
}

// displayName returns a human-readable name for a document type.
func displayName(t Type) string {
	return strings.ReplaceAll(string(t), "-", " ")
}
