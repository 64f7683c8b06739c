// Package interfaces declares the seams between the RAG pipeline and its
// external capabilities, so every component stays testable with substitute
// implementations.
package interfaces

import (
	"context"

	"docsight/internal/rag/schema"
)

// EmbeddingModel is the interface for a text embedding model. Embed returns
// one fixed-length vector per input text, in input order.
type EmbeddingModel interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// LLM is the interface for a generative model that produces free-form text
// for a prompt. Implementations run at a fixed low temperature and perform
// no internal retry.
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Splitter splits source text into bounded, overlapping chunk texts.
// Implementations are pure: identical input yields identical output.
type Splitter interface {
	Split(text string) []string
}

// Loader decodes one uploaded file into plain text. The pipeline never
// touches raw bytes beyond this boundary.
type Loader interface {
	Load(ctx context.Context, filename string, data []byte) (string, error)
}

// DocumentStore is the durable, chunked storage and similarity search
// surface for user documents. Add persists a whole document atomically; a
// reader never observes a document with some chunks present and others
// missing.
type DocumentStore interface {
	// Add chunks, embeds, and persists text as one document. When
	// documentID is empty a new id is generated. Returns the document id
	// and the number of chunks produced.
	Add(ctx context.Context, documentID, text string, metadata map[string]interface{}) (string, int, error)

	// Search embeds the query and returns the topK most similar chunks,
	// descending by score. A non-empty documentID scopes the search to that
	// document.
	Search(ctx context.Context, query string, topK int, documentID string) ([]schema.RetrievalHit, error)

	// Delete removes every chunk of a document and returns the count
	// removed. An unknown id yields 0, not an error.
	Delete(ctx context.Context, documentID string) (int, error)

	// List returns one entry per stored document, in upload order.
	List(ctx context.Context) ([]schema.Document, error)

	// Close releases the underlying storage handle.
	Close() error
}
