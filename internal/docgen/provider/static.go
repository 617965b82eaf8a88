package provider

import (
	"context"
	"fmt"
	"strings"
)

// Static returns canned Markdown without calling any network API. It
// is the default backend for offline use and tests.
type Static struct {
	body string
}

// NewStatic returns a provider that serves body for every request. An
// empty body produces a skeleton built from the request's prompt.
func NewStatic(body string) *Static {
	return &Static{body: body}
}

// Name identifies the backend.
func (s *Static) Name() string { return "static" }

// Complete returns the canned body, or a skeleton echoing the prompt.
func (s *Static) Complete(_ context.Context, req Request) (string, error) {
	if s.body != "" {
		return s.body, nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", strings.TrimSpace(req.Prompt))
	sb.WriteString("*(placeholder content; configure a hosted provider for real drafts)*\n")
	return sb.String(), nil
}
