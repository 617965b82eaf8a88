package docgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/docugen/docugen/internal/plugin/hook"
)

// Publisher writes generated documents to the output directory,
// firing publish hooks around the write. A critical publish.before
// error vetoes the write.
type Publisher struct {
	dir   string
	hooks HookRunner
}

// NewPublisher builds a publisher targeting dir. A nil runner disables
// hooks.
func NewPublisher(dir string, hooks HookRunner) *Publisher {
	if hooks == nil {
		hooks = nopRunner{}
	}
	return &Publisher{dir: dir, hooks: hooks}
}

// Publish writes the document as Markdown and returns the file path.
func (p *Publisher) Publish(ctx context.Context, doc *Document) (string, error) {
	if _, err := p.hooks.ExecuteHook(ctx, hook.BeforePublish, doc); err != nil {
		return "", fmt.Errorf("%w: %w", ErrPublishVetoed, err)
	}

	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(p.dir, fileName(doc))
	if err := os.WriteFile(path, []byte(render(doc)), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	if _, err := p.hooks.ExecuteHook(ctx, hook.AfterPublish, doc); err != nil {
		return path, fmt.Errorf("published with hook failure: %w", err)
	}
	return path, nil
}

// render produces the final Markdown file body.
func render(doc *Document) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", doc.Request.Title)
	sb.WriteString(strings.TrimSpace(doc.Content))
	sb.WriteString("\n")
	return sb.String()
}

// fileName derives a stable, filesystem-safe name for the document.
func fileName(doc *Document) string {
	return fmt.Sprintf("%s-%s.md", doc.Request.Type, slugify(doc.Request.Title))
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowercases the title and collapses everything that is not a
// letter or digit into single hyphens.
func slugify(s string) string {
	s = slugPattern.ReplaceAllString(strings.ToLower(s), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "untitled"
	}
	return s
}
