// Package llms provides generative model clients behind the LLM interface.
// Every client runs at a fixed low temperature and performs no internal
// retry; transport failures surface to the caller unchanged.
package llms

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"docsight/internal/rag/interfaces"
)

// defaultTemperature keeps generation near-deterministic, which the strict
// JSON output contract depends on.
const defaultTemperature = 0.1

// Gemini generates text through the Google GenAI API.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a Gemini client for the given model name.
func NewGemini(ctx context.Context, modelName, apiKey string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(defaultTemperature)

	return &Gemini{client: client, model: model}, nil
}

// Generate sends the prompt and returns the concatenated text parts of the
// first candidate.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var out string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out += string(text)
		}
	}
	return out, nil
}

// Close releases the underlying client connection.
func (g *Gemini) Close() error {
	return g.client.Close()
}

var _ interfaces.LLM = (*Gemini)(nil)
