// Package embeddings provides text embedding clients behind the
// EmbeddingModel interface. Every client returns one vector per input text,
// in input order.
package embeddings

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"docsight/internal/rag/interfaces"
)

// Gemini embeds text through the Google GenAI embedding API.
type Gemini struct {
	client *genai.Client
	model  *genai.EmbeddingModel
}

// NewGemini creates a Gemini embedding client for the given model name.
func NewGemini(ctx context.Context, modelName, apiKey string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &Gemini{client: client, model: client.EmbeddingModel(modelName)}, nil
}

// Embed embeds all texts in one batched request.
func (g *Gemini) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	batch := g.model.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	res, err := g.model.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("gemini batch embed: %w", err)
	}

	vectors := make([][]float32, 0, len(res.Embeddings))
	for _, emb := range res.Embeddings {
		vectors = append(vectors, emb.Values)
	}
	return vectors, nil
}

// Close releases the underlying client connection.
func (g *Gemini) Close() error {
	return g.client.Close()
}

var _ interfaces.EmbeddingModel = (*Gemini)(nil)
