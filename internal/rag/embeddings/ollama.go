package embeddings

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	olla "github.com/ollama/ollama/api"

	"docsight/internal/rag/interfaces"
)

const defaultOllamaURL = "http://localhost:11434"

// Ollama embeds text through a local or remote Ollama server.
type Ollama struct {
	client *olla.Client
	model  string
}

// NewOllama creates an Ollama embedding client for the given model name. An
// empty baseURL falls back to the local default.
func NewOllama(model, baseURL string) (*Ollama, error) {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base URL: %w", err)
	}

	hc := &http.Client{Timeout: 120 * time.Second}
	return &Ollama{client: olla.NewClient(parsedURL, hc), model: model}, nil
}

// Embed embeds all texts in one batched request.
func (o *Ollama) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := o.client.Embed(ctx, &olla.EmbedRequest{
		Model: o.model,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama embed: %d texts, %d vectors", len(texts), len(resp.Embeddings))
	}
	return resp.Embeddings, nil
}

var _ interfaces.EmbeddingModel = (*Ollama)(nil)
