// Package splitters implements chunking of source text for indexing.
package splitters

import (
	"strings"
	"unicode/utf8"

	"docsight/internal/rag/interfaces"
)

// Default chunking parameters, matching the retrieval granularity the
// analysis prompts were tuned against.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
)

// boundarySets lists cut candidates from the largest semantic boundary down:
// paragraph breaks, then sentence endings, then any whitespace. Raw
// character cuts are the final fallback.
var boundarySets = [][]string{
	{"\n\n"},
	{". ", ".\n", "! ", "!\n", "? ", "?\n"},
	{" ", "\n", "\t"},
}

// RecursiveSplitter splits text into overlapping chunks, preferring to cut
// at the largest semantic boundary available inside each window. Splitting
// is pure: identical input always yields identical chunks, and concatenating
// the chunks in order reproduces the source text up to the duplicated
// overlap spans.
type RecursiveSplitter struct {
	// ChunkSize is the maximum chunk length in bytes.
	ChunkSize int
	// ChunkOverlap is the length of text repeated at the tail of chunk i
	// and the head of chunk i+1.
	ChunkOverlap int
}

// NewRecursiveSplitter creates a splitter, falling back to the defaults for
// non-positive parameters and clamping the overlap below the chunk size.
func NewRecursiveSplitter(chunkSize, chunkOverlap int) *RecursiveSplitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = DefaultChunkOverlap
	}
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 2
	}
	return &RecursiveSplitter{ChunkSize: chunkSize, ChunkOverlap: chunkOverlap}
}

// Split cuts text into chunks of at most ChunkSize bytes. Text that fits in
// a single chunk is returned whole.
func (s *RecursiveSplitter) Split(text string) []string {
	if text == "" {
		return nil
	}
	if len(text) <= s.ChunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + s.ChunkSize
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}

		cut := s.findCut(text, start, end)
		chunks = append(chunks, text[start:cut])

		next := cut - s.ChunkOverlap
		// Never step backwards; a chunk shorter than the overlap would
		// otherwise loop forever.
		if next <= start {
			next = cut
		}
		// Keep the next chunk aligned to a rune boundary.
		for next < cut && !utf8.RuneStart(text[next]) {
			next++
		}
		start = next
	}
	return chunks
}

// findCut picks the cut position inside (start, end]. It tries each
// boundary set in order and accepts a boundary only when at least half the
// window precedes it, so boundary-dense text still produces chunks of
// useful size. The separator stays with the left chunk.
func (s *RecursiveSplitter) findCut(text string, start, end int) int {
	window := text[start:end]
	minCut := s.ChunkSize / 2

	for _, seps := range boundarySets {
		best := -1
		for _, sep := range seps {
			if idx := strings.LastIndex(window, sep); idx >= 0 {
				if cand := idx + len(sep); cand > best {
					best = cand
				}
			}
		}
		if best >= minCut {
			return start + best
		}
	}

	// Raw character cut; back off so a multi-byte rune is never split.
	cut := end
	for cut > start && !utf8.RuneStart(text[cut]) {
		cut--
	}
	if cut == start {
		cut = end
	}
	return cut
}

var _ interfaces.Splitter = (*RecursiveSplitter)(nil)
