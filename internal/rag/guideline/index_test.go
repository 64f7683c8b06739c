package guideline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsight/internal/rag/errs"
)

// stubEmbedder maps known texts to fixed vectors.
type stubEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, ok := s.vectors[t]
		if !ok {
			vec = []float32{0, 0, 1}
		}
		out[i] = vec
	}
	return out, nil
}

func TestNewIndexEmptyCorpus(t *testing.T) {
	_, err := NewIndex(context.Background(), &stubEmbedder{}, nil)
	require.Error(t, err)
	assert.Equal(t, errs.KindConfiguration, errs.KindOf(err))
}

func TestNewIndexEmbedderUnavailable(t *testing.T) {
	embedder := &stubEmbedder{err: errors.New("connection refused")}
	_, err := NewIndex(context.Background(), embedder, []string{"a", "b"})
	require.Error(t, err)
	assert.Equal(t, errs.KindConfiguration, errs.KindOf(err))
}

func TestRetrieveTopKDescending(t *testing.T) {
	// Scenario: three entries, top_k=2 returns exactly the two most
	// similar, in descending order.
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"structure guidance": {1, 0, 0},
		"evidence guidance":  {0.9, 0.1, 0},
		"style guidance":     {0, 1, 0},
		"query":              {1, 0, 0},
	}}
	corpus := []string{"style guidance", "evidence guidance", "structure guidance"}

	idx, err := NewIndex(context.Background(), embedder, corpus)
	require.NoError(t, err)
	require.Equal(t, 3, idx.Len())

	got, err := idx.Retrieve(context.Background(), "query", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"structure guidance", "evidence guidance"}, got)
}

func TestRetrieveCorpusSmallerThanTopK(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{}}
	idx, err := NewIndex(context.Background(), embedder, []string{"only entry"})
	require.NoError(t, err)

	got, err := idx.Retrieve(context.Background(), "anything", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"only entry"}, got)
}

func TestRetrieveTiesBreakByInsertionOrder(t *testing.T) {
	// All entries embed identically; order must match the corpus.
	same := []float32{1, 1, 0}
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"first": same, "second": same, "third": same, "q": same,
	}}
	idx, err := NewIndex(context.Background(), embedder, []string{"first", "second", "third"})
	require.NoError(t, err)

	got, err := idx.Retrieve(context.Background(), "q", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, got)
}

func TestRetrieveEmbeddingFailureAtQueryTime(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{}}
	idx, err := NewIndex(context.Background(), embedder, []string{"entry"})
	require.NoError(t, err)

	embedder.err = errors.New("quota exceeded")
	_, err = idx.Retrieve(context.Background(), "q", 1)
	require.Error(t, err)
	assert.Equal(t, errs.KindEmbedding, errs.KindOf(err))
}

func TestDefaultCorpusNonEmpty(t *testing.T) {
	assert.Len(t, DefaultCorpus, 4)
	for _, entry := range DefaultCorpus {
		assert.NotEmpty(t, entry)
	}
}
