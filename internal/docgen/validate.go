package docgen

import (
	"fmt"
	"regexp"
	"strings"
)

// headingPattern matches Markdown level-2 section headings.
var headingPattern = regexp.MustCompile(`(?m)^##\s+(.+?)\s*$`)

// minDraftLength is the smallest body, in bytes, a draft can have and
// still plausibly cover its sections.
const minDraftLength = 64

// Finding is one structural problem in a draft.
type Finding struct {
	// Section is the section heading the finding concerns.
	Section string

	// Message describes the problem.
	Message string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s", f.Section, f.Message)
}

// Report is the outcome of validating a draft's structure.
type Report struct {
	// Findings lists structural problems, empty when the draft is clean.
	Findings []Finding

	// Sections lists the headings actually present, in document order.
	Sections []string
}

// OK reports whether the draft passed validation.
func (r *Report) OK() bool {
	return len(r.Findings) == 0
}

// validate checks content against the required sections for the
// document type. Every problem is collected; nothing fails fast.
func validate(t Type, content string) *Report {
	report := &Report{}

	seen := make(map[string]int)
	for _, match := range headingPattern.FindAllStringSubmatch(content, -1) {
		heading := match[1]
		report.Sections = append(report.Sections, heading)
		seen[normalizeHeading(heading)]++
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		report.Findings = append(report.Findings, Finding{
			Section: "(document)",
			Message: "document body is empty",
		})
		return report
	}
	if len(trimmed) < minDraftLength {
		report.Findings = append(report.Findings, Finding{
			Section: "(document)",
			Message: fmt.Sprintf("document body is too short (%d bytes, need %d)", len(trimmed), minDraftLength),
		})
	}

	for _, section := range requiredSections[t] {
		switch n := seen[normalizeHeading(section)]; {
		case n == 0:
			report.Findings = append(report.Findings, Finding{
				Section: section,
				Message: "required section is missing",
			})
		case n > 1:
			report.Findings = append(report.Findings, Finding{
				Section: section,
				Message: fmt.Sprintf("section appears %d times", n),
			})
		}
	}

	return report
}

// normalizeHeading folds case and surrounding whitespace so heading
// comparison tolerates cosmetic variation.
func normalizeHeading(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}
