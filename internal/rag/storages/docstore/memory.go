package docstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"docsight/internal/rag/errs"
	"docsight/internal/rag/interfaces"
	"docsight/internal/rag/schema"
	"docsight/pkg/logger"
)

// memoryDocument is one stored document with its chunks.
type memoryDocument struct {
	meta   documentMeta
	seq    int64
	chunks []schema.Chunk
}

// MemoryStore is an in-process DocumentStore for tests and for deployments
// that don't need persistence. Same Add/Search/Delete/List semantics as the
// SQLite store, nothing survives a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	docs     map[string]*memoryDocument
	nextSeq  int64
	embedder interfaces.EmbeddingModel
	splitter interfaces.Splitter
	log      *logger.Logger
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(embedder interfaces.EmbeddingModel, splitter interfaces.Splitter, log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		docs:     make(map[string]*memoryDocument),
		embedder: embedder,
		splitter: splitter,
		log:      log,
	}
}

// Add chunks, embeds, and stores text as one document. The store is only
// mutated after every chunk embedded successfully, so a failed add leaves no
// trace.
func (m *MemoryStore) Add(ctx context.Context, documentID, text string, metadata map[string]interface{}) (string, int, error) {
	if strings.TrimSpace(text) == "" {
		return "", 0, errs.New(errs.KindInput, "document text is empty")
	}
	if documentID == "" {
		documentID = uuid.New().String()
	}

	pieces := m.splitter.Split(text)
	vectors, err := embedTexts(ctx, m.embedder, pieces)
	if err != nil {
		return "", 0, err
	}

	meta := normaliseMetadata(metadata)
	chunks := make([]schema.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = schema.Chunk{
			ID:          fmt.Sprintf("%s_chunk_%d", documentID, i),
			DocumentID:  documentID,
			Index:       i,
			TotalChunks: len(pieces),
			Text:        piece,
			Embedding:   vectors[i],
			Metadata:    meta.asMap(),
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.docs[documentID]; exists {
		return "", 0, errs.Newf(errs.KindInput, "document %q already exists", documentID)
	}
	m.nextSeq++
	m.docs[documentID] = &memoryDocument{meta: meta, seq: m.nextSeq, chunks: chunks}

	m.log.WithFields(map[string]interface{}{
		"document_id": documentID,
		"chunks":      len(chunks),
	}).Info("document indexed")
	return documentID, len(chunks), nil
}

// Search embeds the query and ranks stored chunks by cosine similarity,
// optionally restricted to one document.
func (m *MemoryStore) Search(ctx context.Context, query string, topK int, documentID string) ([]schema.RetrievalHit, error) {
	queryVectors, err := m.embedder.Embed(ctx, []string{query})
	if err != nil || len(queryVectors) == 0 {
		return nil, errs.Wrap(err, errs.KindEmbedding, "embedding search query")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var candidates []candidate
	for id, doc := range m.docs {
		if documentID != "" && id != documentID {
			continue
		}
		for _, chunk := range doc.chunks {
			candidates = append(candidates, candidate{chunk: chunk, seq: doc.seq})
		}
	}

	return rankByQuery(queryVectors[0], candidates, topK), nil
}

// Delete removes a document and returns how many chunks went with it. An
// unknown id yields 0, not an error.
func (m *MemoryStore) Delete(ctx context.Context, documentID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, exists := m.docs[documentID]
	if !exists {
		return 0, nil
	}
	delete(m.docs, documentID)
	return len(doc.chunks), nil
}

// List returns one entry per stored document, in upload order.
func (m *MemoryStore) List(ctx context.Context) ([]schema.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]schema.Document, 0, len(m.docs))
	for id, doc := range m.docs {
		docs = append(docs, schema.Document{
			DocumentID: id,
			Filename:   doc.meta.Filename,
			FileSize:   doc.meta.FileSize,
			UploadDate: doc.meta.UploadDate,
			ChunkCount: len(doc.chunks),
		})
	}
	sort.Slice(docs, func(a, b int) bool {
		return m.docs[docs[a].DocumentID].seq < m.docs[docs[b].DocumentID].seq
	})
	return docs, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}

var _ interfaces.DocumentStore = (*MemoryStore)(nil)
