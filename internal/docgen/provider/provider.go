// Package provider abstracts the language model backends used to draft
// document content. Each backend implements Provider; ForName selects
// one from configuration.
package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Errors returned by provider selection and completion.
var (
	// ErrUnknownProvider indicates the configured provider name is not supported.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrMissingAPIKey indicates the provider's API key environment variable is unset.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrEmptyCompletion indicates the backend returned no usable text.
	ErrEmptyCompletion = errors.New("empty completion")
)

// Request describes one completion call.
type Request struct {
	// System is the system instruction framing the task.
	System string

	// Prompt is the user-facing request text.
	Prompt string

	// MaxTokens caps the completion length. Zero uses the provider default.
	MaxTokens int
}

// Provider produces text completions for document generation.
type Provider interface {
	// Name identifies the backend.
	Name() string

	// Complete returns the text completion for the request.
	Complete(ctx context.Context, req Request) (string, error)
}

// API key environment variables, one per hosted backend.
const (
	anthropicKeyEnv = "ANTHROPIC_API_KEY"
	openaiKeyEnv    = "OPENAI_API_KEY"
	geminiKeyEnv    = "GEMINI_API_KEY"
)

// ForName builds the provider named in configuration. Hosted backends
// read their API key from the environment.
func ForName(name, model string) (Provider, error) {
	switch name {
	case "anthropic":
		key := os.Getenv(anthropicKeyEnv)
		if key == "" {
			return nil, fmt.Errorf("%w: set %s", ErrMissingAPIKey, anthropicKeyEnv)
		}
		return NewAnthropic(key, model), nil

	case "openai":
		key := os.Getenv(openaiKeyEnv)
		if key == "" {
			return nil, fmt.Errorf("%w: set %s", ErrMissingAPIKey, openaiKeyEnv)
		}
		return NewOpenAI(key, model), nil

	case "gemini":
		key := os.Getenv(geminiKeyEnv)
		if key == "" {
			return nil, fmt.Errorf("%w: set %s", ErrMissingAPIKey, geminiKeyEnv)
		}
		return NewGemini(key, model), nil

	case "static":
		return NewStatic(""), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}
