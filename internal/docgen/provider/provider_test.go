package provider

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestForNameStatic(t *testing.T) {
	p, err := ForName("static", "")
	if err != nil {
		t.Fatalf("ForName: %v", err)
	}
	if p.Name() != "static" {
		t.Errorf("Name() = %q", p.Name())
	}
}

func TestForNameUnknown(t *testing.T) {
	if _, err := ForName("cohere", ""); !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("err = %v, want ErrUnknownProvider", err)
	}
}

func TestForNameMissingKeys(t *testing.T) {
	for _, tt := range []struct {
		name string
		env  string
	}{
		{"anthropic", "ANTHROPIC_API_KEY"},
		{"openai", "OPENAI_API_KEY"},
		{"gemini", "GEMINI_API_KEY"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, "")
			if _, err := ForName(tt.name, ""); !errors.Is(err, ErrMissingAPIKey) {
				t.Errorf("err = %v, want ErrMissingAPIKey", err)
			}
		})
	}
}

func TestForNameHostedWithKeys(t *testing.T) {
	for _, tt := range []struct {
		name string
		env  string
	}{
		{"anthropic", "ANTHROPIC_API_KEY"},
		{"openai", "OPENAI_API_KEY"},
		{"gemini", "GEMINI_API_KEY"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, "test-key")
			p, err := ForName(tt.name, "")
			if err != nil {
				t.Fatalf("ForName: %v", err)
			}
			if p.Name() != tt.name {
				t.Errorf("Name() = %q, want %q", p.Name(), tt.name)
			}
		})
	}
}

func TestStaticCannedBody(t *testing.T) {
	p := NewStatic("# Charter\n\nBody.\n")
	got, err := p.Complete(context.Background(), Request{Prompt: "ignored"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "# Charter\n\nBody.\n" {
		t.Errorf("Complete = %q", got)
	}
}

func TestStaticSkeletonEchoesPrompt(t *testing.T) {
	p := NewStatic("")
	got, err := p.Complete(context.Background(), Request{Prompt: "Draft the project charter."})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !strings.Contains(got, "Draft the project charter.") {
		t.Errorf("skeleton does not echo prompt: %q", got)
	}
}
