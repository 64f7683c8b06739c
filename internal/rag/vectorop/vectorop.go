// Package vectorop provides the small amount of vector arithmetic the
// retrieval components need.
package vectorop

import "math"

// Cosine returns the cosine similarity between two vectors. Range is -1
// (opposite) to 1 (identical direction). A zero-length or zero-norm vector
// yields 0 so degenerate embeddings never rank above real matches.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
