package provider

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// defaultGeminiModel is used when no model is configured.
const defaultGeminiModel = "gemini-1.5-pro"

// Gemini drafts document text through the Google generative AI API.
// The client is created lazily on first use because construction needs
// a context.
type Gemini struct {
	apiKey string
	model  string
}

// NewGemini returns a provider backed by the Gemini API.
func NewGemini(apiKey, model string) *Gemini {
	if model == "" {
		model = defaultGeminiModel
	}
	return &Gemini{apiKey: apiKey, model: model}
}

// Name identifies the backend.
func (g *Gemini) Name() string { return "gemini" }

// Complete sends the request as a single GenerateContent call.
func (g *Gemini) Complete(ctx context.Context, req Request) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if req.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.System)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyCompletion
	}
	return sb.String(), nil
}
