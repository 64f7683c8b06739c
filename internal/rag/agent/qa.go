package agent

import (
	"context"
	"fmt"
	"strings"

	"docsight/internal/rag/errs"
	"docsight/internal/rag/gateway"
	"docsight/internal/rag/interfaces"
	"docsight/internal/rag/prompt"
	"docsight/internal/rag/schema"
	"docsight/internal/rag/validate"
	"docsight/pkg/logger"
)

// QATopK is how many passages ground one answer.
const QATopK = 5

// emptyStoreAnswer is returned without a model call when retrieval finds
// nothing to ground an answer on.
const emptyStoreAnswer = "I don't have any documents to answer this question. Please upload documents first."

// QA runs the cited question-answering pipeline: passage retrieval, prompt
// assembly, one generation call, strict validation, source attribution.
type QA struct {
	store interfaces.DocumentStore
	gw    *gateway.Gateway
	log   *logger.Logger
}

// NewQA creates a question-answering agent.
func NewQA(store interfaces.DocumentStore, gw *gateway.Gateway, log *logger.Logger) *QA {
	return &QA{store: store, gw: gw, log: log}
}

// Ask answers a question grounded in stored documents. A non-empty
// documentID scopes retrieval to one document. When retrieval yields no
// passages, a fixed answer with no sources is returned and the model is
// never called.
func (q *QA) Ask(ctx context.Context, question, documentID string) (*schema.QAResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, errs.New(errs.KindInput, "question is empty")
	}

	q.transition(stateRetrieving)
	hits, err := q.store.Search(ctx, question, QATopK, documentID)
	if err != nil {
		return nil, q.fail(err)
	}
	if len(hits) == 0 {
		q.log.Info("no passages retrieved, answering without model call")
		q.transition(stateDone)
		return &schema.QAResult{Answer: emptyStoreAnswer, Sources: []schema.Source{}}, nil
	}

	q.transition(statePrompting)
	passages := make([]string, len(hits))
	for i, hit := range hits {
		passages[i] = hit.Chunk.Text
	}
	p := prompt.Assemble(schema.TaskQA, question, passages)

	q.transition(stateGenerating)
	raw, err := q.gw.Generate(ctx, p)
	if err != nil {
		return nil, q.fail(err)
	}
	payload, err := q.gw.ExtractPayload(raw)
	if err != nil {
		return nil, q.fail(err)
	}

	q.transition(stateValidating)
	result, err := validate.QA(payload)
	if err != nil {
		return nil, q.fail(err)
	}
	result.Answer = strings.TrimSpace(result.Answer)
	result.Sources = sourcesFromHits(hits)

	q.transition(stateDone)
	return result, nil
}

// sourcesFromHits builds the citation list from the exact hits the prompt
// was assembled from, so source_number N always names the passage the model
// saw as [Source N].
func sourcesFromHits(hits []schema.RetrievalHit) []schema.Source {
	sources := make([]schema.Source, len(hits))
	for i, hit := range hits {
		chunk := hit.Chunk
		filename := "Unknown"
		if name, ok := chunk.Metadata[schema.MetadataKeyFileName].(string); ok && name != "" {
			filename = name
		}
		sources[i] = schema.Source{
			SourceNumber: i + 1,
			Text:         chunk.Text,
			Document:     fmt.Sprintf("%s (Chunk %d/%d)", filename, chunk.Index+1, chunk.TotalChunks),
			DocumentID:   chunk.DocumentID,
		}
	}
	return sources
}

func (q *QA) transition(s state) {
	q.log.WithField("state", string(s)).Debug("qa pipeline")
}

func (q *QA) fail(err error) error {
	q.log.WithField("state", string(stateFailed)).WithError(err).Warn("qa pipeline failed")
	return err
}
