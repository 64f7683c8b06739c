package embeddings

import (
	"context"

	"docsight/internal/rag/errs"
	"docsight/internal/rag/interfaces"
)

// New creates an embedding client for the configured provider.
func New(ctx context.Context, provider, model, apiKey, baseURL string) (interfaces.EmbeddingModel, error) {
	switch provider {
	case "gemini":
		return NewGemini(ctx, model, apiKey)
	case "openai":
		return NewOpenAI(model, apiKey, baseURL)
	case "ollama":
		return NewOllama(model, baseURL)
	default:
		return nil, errs.Newf(errs.KindConfiguration, "unsupported embedding provider: %s", provider)
	}
}
