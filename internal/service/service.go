// Package service is the application facade: it owns the use cases the HTTP
// layer exposes and hides pipeline wiring from transport concerns.
package service

import (
	"context"
	"time"
	"unicode/utf8"

	"docsight/internal/loaders"
	"docsight/internal/rag/agent"
	"docsight/internal/rag/errs"
	"docsight/internal/rag/interfaces"
	"docsight/internal/rag/schema"
	"docsight/pkg/logger"
)

// UploadMinChars is the minimum extracted text length for an upload.
const UploadMinChars = 50

// UploadResult describes one stored document.
type UploadResult struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	ChunkCount int    `json:"chunk_count"`
}

// Service bundles the two agents and the document store behind one surface.
type Service struct {
	analysis *agent.Analysis
	qa       *agent.QA
	store    interfaces.DocumentStore
	log      *logger.Logger
}

// New creates the application service.
func New(analysis *agent.Analysis, qa *agent.QA, store interfaces.DocumentStore, log *logger.Logger) *Service {
	return &Service{analysis: analysis, qa: qa, store: store, log: log}
}

// Analyze runs the completeness analysis pipeline on documentText.
func (s *Service) Analyze(ctx context.Context, documentText string) (*schema.AnalysisResult, error) {
	return s.analysis.Analyze(ctx, documentText)
}

// Upload extracts text from an uploaded file and stores it as a new
// document.
func (s *Service) Upload(ctx context.Context, filename string, data []byte) (*UploadResult, error) {
	loader, err := loaders.ForFile(filename, data)
	if err != nil {
		return nil, err
	}

	text, err := loader.Load(ctx, filename, data)
	if err != nil {
		return nil, err
	}
	if n := utf8.RuneCountInString(text); n < UploadMinChars {
		return nil, errs.Newf(errs.KindInput,
			"document too short: %d characters, minimum %d", n, UploadMinChars)
	}

	metadata := map[string]interface{}{
		schema.MetadataKeyFileName:   filename,
		schema.MetadataKeyFileSize:   int64(len(text)),
		schema.MetadataKeyUploadDate: time.Now().UTC(),
	}
	documentID, chunkCount, err := s.store.Add(ctx, "", text, metadata)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(map[string]interface{}{
		"document_id": documentID,
		"filename":    filename,
		"chunks":      chunkCount,
	}).Info("document uploaded")
	return &UploadResult{
		DocumentID: documentID,
		Filename:   filename,
		ChunkCount: chunkCount,
	}, nil
}

// Ask answers a question grounded in stored documents, optionally scoped to
// one document.
func (s *Service) Ask(ctx context.Context, question, documentID string) (*schema.QAResult, error) {
	return s.qa.Ask(ctx, question, documentID)
}

// ListDocuments returns every stored document in upload order.
func (s *Service) ListDocuments(ctx context.Context) ([]schema.Document, error) {
	return s.store.List(ctx)
}

// DeleteDocument removes a document and reports how many chunks were
// deleted. Deleting an unknown id reports zero; the HTTP layer decides how
// to present that.
func (s *Service) DeleteDocument(ctx context.Context, documentID string) (int, error) {
	return s.store.Delete(ctx, documentID)
}
