package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsight/internal/rag/errs"
	"docsight/internal/rag/gateway"
	"docsight/internal/rag/schema"
	"docsight/pkg/logger"
)

// stubStore serves canned retrieval hits and records the last search.
type stubStore struct {
	hits       []schema.RetrievalHit
	err        error
	lastQuery  string
	lastTopK   int
	lastDocID  string
	searchHits int
}

func (s *stubStore) Add(context.Context, string, string, map[string]interface{}) (string, int, error) {
	return "", 0, errors.New("not implemented")
}

func (s *stubStore) Search(_ context.Context, query string, topK int, documentID string) ([]schema.RetrievalHit, error) {
	s.searchHits++
	s.lastQuery = query
	s.lastTopK = topK
	s.lastDocID = documentID
	if s.err != nil {
		return nil, s.err
	}
	return s.hits, nil
}

func (s *stubStore) Delete(context.Context, string) (int, error) { return 0, nil }
func (s *stubStore) List(context.Context) ([]schema.Document, error) {
	return nil, nil
}
func (s *stubStore) Close() error { return nil }

func passageHit(docID string, index, total int, text string) schema.RetrievalHit {
	return schema.RetrievalHit{
		Chunk: schema.Chunk{
			ID:          docID + "_chunk_0",
			DocumentID:  docID,
			Index:       index,
			TotalChunks: total,
			Text:        text,
			Metadata: map[string]interface{}{
				schema.MetadataKeyFileName: docID + ".txt",
			},
		},
		Score: 0.9,
	}
}

func newQAAgent(t *testing.T, store *stubStore, llm *stubLLM) *QA {
	t.Helper()
	logger.Init(logger.ParseLevel("error"))
	log := logger.New("agent_test")
	return NewQA(store, gateway.New(llm, 0, log), log)
}

func TestAskSingleChunkAnswerWithOneSource(t *testing.T) {
	store := &stubStore{hits: []schema.RetrievalHit{
		passageHit("notes", 0, 1, "The deployment runs on three regions."),
	}}
	llm := &stubLLM{response: `{"answer": "According to Source 1, the deployment runs on three regions."}`}
	agent := newQAAgent(t, store, llm)

	result, err := agent.Ask(context.Background(), "Where does the deployment run?", "")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Answer)
	require.Len(t, result.Sources, 1)
	assert.Equal(t, 1, result.Sources[0].SourceNumber)
	assert.Equal(t, "The deployment runs on three regions.", result.Sources[0].Text)
	assert.Equal(t, "notes.txt (Chunk 1/1)", result.Sources[0].Document)
	assert.Equal(t, "notes", result.Sources[0].DocumentID)
	assert.Equal(t, QATopK, store.lastTopK)
}

func TestAskEmptyStoreShortCircuitsWithoutModelCall(t *testing.T) {
	store := &stubStore{}
	llm := &stubLLM{response: `{"answer": "should never be used"}`}
	agent := newQAAgent(t, store, llm)

	result, err := agent.Ask(context.Background(), "Anything in there?", "")
	require.NoError(t, err)
	assert.Equal(t, emptyStoreAnswer, result.Answer)
	assert.Empty(t, result.Sources)
	assert.Zero(t, llm.callCount(), "no model call without retrieved passages")
}

func TestAskSourceNumbersFollowPromptOrder(t *testing.T) {
	store := &stubStore{hits: []schema.RetrievalHit{
		passageHit("a", 2, 5, "first passage"),
		passageHit("b", 0, 1, "second passage"),
		passageHit("a", 4, 5, "third passage"),
	}}
	llm := &stubLLM{response: `{"answer": "See Source 2."}`}
	agent := newQAAgent(t, store, llm)

	result, err := agent.Ask(context.Background(), "which passage?", "")
	require.NoError(t, err)
	require.Len(t, result.Sources, 3)
	for i, source := range result.Sources {
		assert.Equal(t, i+1, source.SourceNumber)
	}
	assert.Equal(t, "a.txt (Chunk 3/5)", result.Sources[0].Document)
	assert.Equal(t, "b.txt (Chunk 1/1)", result.Sources[1].Document)
}

func TestAskPassesDocumentScope(t *testing.T) {
	store := &stubStore{hits: []schema.RetrievalHit{passageHit("scoped", 0, 1, "content")}}
	llm := &stubLLM{response: `{"answer": "yes"}`}
	agent := newQAAgent(t, store, llm)

	_, err := agent.Ask(context.Background(), "scoped question", "scoped")
	require.NoError(t, err)
	assert.Equal(t, "scoped", store.lastDocID)
}

func TestAskRejectsBlankQuestion(t *testing.T) {
	store := &stubStore{}
	agent := newQAAgent(t, store, &stubLLM{})

	_, err := agent.Ask(context.Background(), "   ", "")
	require.Error(t, err)
	assert.Equal(t, errs.KindInput, errs.KindOf(err))
	assert.Zero(t, store.searchHits, "input rejection must not reach retrieval")
}

func TestAskRetrievalFailureSurfacesKind(t *testing.T) {
	store := &stubStore{err: errs.New(errs.KindEmbedding, "embedding service down")}
	llm := &stubLLM{}
	agent := newQAAgent(t, store, llm)

	_, err := agent.Ask(context.Background(), "a question", "")
	require.Error(t, err)
	assert.Equal(t, errs.KindEmbedding, errs.KindOf(err))
	assert.Zero(t, llm.callCount())
}

func TestAskMalformedModelOutput(t *testing.T) {
	store := &stubStore{hits: []schema.RetrievalHit{passageHit("doc", 0, 1, "content")}}
	llm := &stubLLM{response: "plain prose, no payload"}
	agent := newQAAgent(t, store, llm)

	_, err := agent.Ask(context.Background(), "a question", "")
	require.Error(t, err)
	assert.Equal(t, errs.KindMalformedOutput, errs.KindOf(err))
}
