// Package guideline provides static semantic lookup over the curated
// analysis guideline corpus.
package guideline

import (
	"context"
	"sort"

	"docsight/internal/rag/errs"
	"docsight/internal/rag/interfaces"
	"docsight/internal/rag/vectorop"
)

// Index holds the guideline corpus and its embeddings. It is built once at
// process start and is read-only afterwards, so concurrent Retrieve calls
// need no synchronisation.
type Index struct {
	embedder interfaces.EmbeddingModel
	entries  []string
	vectors  [][]float32
}

// NewIndex embeds every corpus entry once. An embedding failure here is a
// startup-time configuration error.
func NewIndex(ctx context.Context, embedder interfaces.EmbeddingModel, corpus []string) (*Index, error) {
	if len(corpus) == 0 {
		return nil, errs.New(errs.KindConfiguration, "guideline corpus is empty")
	}

	vectors, err := embedder.Embed(ctx, corpus)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindConfiguration, "embedding guideline corpus")
	}
	if len(vectors) != len(corpus) {
		return nil, errs.Newf(errs.KindConfiguration,
			"embedding count mismatch: %d entries, %d vectors", len(corpus), len(vectors))
	}

	entries := make([]string, len(corpus))
	copy(entries, corpus)

	return &Index{embedder: embedder, entries: entries, vectors: vectors}, nil
}

// Len returns the corpus size.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Retrieve returns the topK guideline texts most similar to the query,
// descending by cosine similarity. Ties break by original corpus insertion
// order. A corpus smaller than topK is returned whole.
func (idx *Index) Retrieve(ctx context.Context, query string, topK int) ([]string, error) {
	if topK <= 0 {
		return nil, nil
	}

	queryVectors, err := idx.embedder.Embed(ctx, []string{query})
	if err != nil || len(queryVectors) == 0 {
		return nil, errs.Wrap(err, errs.KindEmbedding, "embedding guideline query")
	}
	queryVec := queryVectors[0]

	type ranked struct {
		position int
		score    float64
	}
	scores := make([]ranked, len(idx.entries))
	for i, vec := range idx.vectors {
		scores[i] = ranked{position: i, score: vectorop.Cosine(queryVec, vec)}
	}
	sort.SliceStable(scores, func(a, b int) bool {
		return scores[a].score > scores[b].score
	})

	if topK > len(scores) {
		topK = len(scores)
	}
	results := make([]string, 0, topK)
	for _, r := range scores[:topK] {
		results = append(results, idx.entries[r.position])
	}
	return results, nil
}
