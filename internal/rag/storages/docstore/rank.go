package docstore

import (
	"sort"

	"docsight/internal/rag/schema"
	"docsight/internal/rag/vectorop"
)

// candidate pairs a stored chunk with the upload sequence of its document,
// which is the secondary sort key for ties.
type candidate struct {
	chunk schema.Chunk
	seq   int64
}

// rankByQuery scores candidates against the query vector and returns the
// topK as retrieval hits, descending by score. Ties break by document
// upload order, then chunk index, so repeated searches against an unchanged
// store return identical ordering.
func rankByQuery(queryVec []float32, candidates []candidate, topK int) []schema.RetrievalHit {
	if topK <= 0 || len(candidates) == 0 {
		return nil
	}

	type scored struct {
		candidate
		score float64
	}
	ranked := make([]scored, len(candidates))
	for i, c := range candidates {
		ranked[i] = scored{candidate: c, score: vectorop.Cosine(queryVec, c.chunk.Embedding)}
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		if ranked[a].score != ranked[b].score {
			return ranked[a].score > ranked[b].score
		}
		if ranked[a].seq != ranked[b].seq {
			return ranked[a].seq < ranked[b].seq
		}
		return ranked[a].chunk.Index < ranked[b].chunk.Index
	})

	if topK > len(ranked) {
		topK = len(ranked)
	}
	hits := make([]schema.RetrievalHit, 0, topK)
	for _, r := range ranked[:topK] {
		hits = append(hits, schema.RetrievalHit{Chunk: r.chunk, Score: r.score})
	}
	return hits
}
