package docgen

import (
	"context"
	"fmt"

	"github.com/docugen/docugen/internal/docgen/provider"
	"github.com/docugen/docugen/internal/plugin/hook"
)

// HookRunner fires a lifecycle event at registered plugin handlers.
// *plugin.Registry satisfies it.
type HookRunner interface {
	ExecuteHook(ctx context.Context, event hook.Event, args ...any) ([]hook.Result, error)
}

// nopRunner is used when no registry is wired in.
type nopRunner struct{}

func (nopRunner) ExecuteHook(context.Context, hook.Event, ...any) ([]hook.Result, error) {
	return nil, nil
}

// Generator drafts and validates documents, firing generation and
// validation hooks around each stage.
type Generator struct {
	provider provider.Provider
	hooks    HookRunner
}

// NewGenerator builds a generator over the given provider. A nil
// runner disables hooks.
func NewGenerator(p provider.Provider, hooks HookRunner) *Generator {
	if hooks == nil {
		hooks = nopRunner{}
	}
	return &Generator{provider: p, hooks: hooks}
}

// Generate runs the draft and validation stages for one request.
//
// Hook handlers receive the *Document and may rewrite its Content. A
// critical hook error halts the pipeline; non-critical handler errors
// are reported through the registry's notifications and do not stop
// generation.
func (g *Generator) Generate(ctx context.Context, req Request) (*Document, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	doc := newDocument(req)

	if _, err := g.hooks.ExecuteHook(ctx, hook.BeforeGeneration, doc); err != nil {
		return nil, fmt.Errorf("generation aborted: %w", err)
	}

	content, err := g.provider.Complete(ctx, provider.Request{
		System: systemInstruction,
		Prompt: buildPrompt(req),
	})
	if err != nil {
		return nil, fmt.Errorf("draft %s: %w", req.Type, err)
	}
	doc.Content = content

	if _, err := g.hooks.ExecuteHook(ctx, hook.AfterGeneration, doc); err != nil {
		return nil, fmt.Errorf("generation aborted: %w", err)
	}

	if _, err := g.hooks.ExecuteHook(ctx, hook.BeforeValidation, doc); err != nil {
		return nil, fmt.Errorf("validation aborted: %w", err)
	}

	doc.Report = validate(req.Type, doc.Content)

	if _, err := g.hooks.ExecuteHook(ctx, hook.AfterValidation, doc); err != nil {
		return nil, fmt.Errorf("validation aborted: %w", err)
	}

	return doc, nil
}
