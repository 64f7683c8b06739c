// Package docstore implements durable, chunked storage and similarity
// search for user documents.
package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"docsight/internal/rag/errs"
	"docsight/internal/rag/interfaces"
	"docsight/internal/rag/schema"
	"docsight/pkg/logger"
)

const dbFileName = "documents.db"

// SQLiteStore persists one row per chunk in a SQLite database under a
// configurable data directory, surviving process restart. Writes are
// serialised against each other and against in-flight reads, so a reader
// never observes a document mid-write.
type SQLiteStore struct {
	mu       sync.RWMutex
	db       *sql.DB
	path     string
	embedder interfaces.EmbeddingModel
	splitter interfaces.Splitter
	log      *logger.Logger
}

// NewSQLiteStore opens (creating if needed) the store under dataDir.
func NewSQLiteStore(dataDir string, embedder interfaces.EmbeddingModel, splitter interfaces.Splitter, log *logger.Logger) (*SQLiteStore, error) {
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, errs.Wrap(err, errs.KindConfiguration, "creating data directory")
	}

	dbPath := filepath.Join(dataDir, dbFileName)
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errs.Wrap(err, errs.KindConfiguration, "opening document database")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, errs.Wrap(err, errs.KindConfiguration, "enabling foreign keys")
	}

	s := &SQLiteStore{
		db:       db,
		path:     dbPath,
		embedder: embedder,
		splitter: splitter,
		log:      log,
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			document_id TEXT PRIMARY KEY,
			filename    TEXT NOT NULL,
			file_size   INTEGER NOT NULL,
			upload_date TEXT NOT NULL,
			chunk_count INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS chunks (
			id           TEXT PRIMARY KEY,
			document_id  TEXT NOT NULL REFERENCES documents(document_id) ON DELETE CASCADE,
			chunk_index  INTEGER NOT NULL,
			total_chunks INTEGER NOT NULL,
			content      TEXT NOT NULL,
			embedding    BLOB NOT NULL,
			metadata     TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_chunks_document ON chunks(document_id);
	`)
	if err != nil {
		return errs.Wrap(err, errs.KindConfiguration, "creating document store schema")
	}
	return nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Add chunks, embeds, and persists text as one document inside a single
// transaction. No partial document is ever visible to Search or List.
func (s *SQLiteStore) Add(ctx context.Context, documentID, text string, metadata map[string]interface{}) (string, int, error) {
	if strings.TrimSpace(text) == "" {
		return "", 0, errs.New(errs.KindInput, "document text is empty")
	}
	if documentID == "" {
		documentID = uuid.New().String()
	}

	pieces := s.splitter.Split(text)
	vectors, err := embedTexts(ctx, s.embedder, pieces)
	if err != nil {
		return "", 0, err
	}

	meta := normaliseMetadata(metadata)
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return "", 0, errs.Wrap(err, errs.KindStorage, "encoding chunk metadata")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM documents WHERE document_id = ?", documentID).Scan(&exists); err != nil {
		return "", 0, errs.Wrap(err, errs.KindStorage, "checking document id")
	}
	if exists > 0 {
		return "", 0, errs.Newf(errs.KindInput, "document %q already exists", documentID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", 0, errs.Wrap(err, errs.KindStorage, "beginning transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO documents (document_id, filename, file_size, upload_date, chunk_count)
		VALUES (?, ?, ?, ?, ?)
	`, documentID, meta.Filename, meta.FileSize, meta.UploadDate.Format(time.RFC3339), len(pieces)); err != nil {
		return "", 0, errs.Wrap(err, errs.KindStorage, "saving document")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, chunk_index, total_chunks, content, embedding, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", 0, errs.Wrap(err, errs.KindStorage, "preparing chunk insert")
	}
	defer stmt.Close()

	for i, piece := range pieces {
		chunkID := fmt.Sprintf("%s_chunk_%d", documentID, i)
		if _, err := stmt.ExecContext(ctx, chunkID, documentID, i, len(pieces),
			piece, embeddingToBytes(vectors[i]), string(metaJSON)); err != nil {
			return "", 0, errs.Wrap(err, errs.KindStorage, "saving chunk")
		}
	}

	if err := tx.Commit(); err != nil {
		return "", 0, errs.Wrap(err, errs.KindStorage, "committing document")
	}

	s.log.WithFields(map[string]interface{}{
		"document_id": documentID,
		"chunks":      len(pieces),
	}).Info("document indexed")
	return documentID, len(pieces), nil
}

// Search embeds the query and ranks all chunks (or only those of one
// document) by cosine similarity.
func (s *SQLiteStore) Search(ctx context.Context, query string, topK int, documentID string) ([]schema.RetrievalHit, error) {
	queryVectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil || len(queryVectors) == 0 {
		return nil, errs.Wrap(err, errs.KindEmbedding, "embedding search query")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sqlQuery := `
		SELECT c.id, c.document_id, c.chunk_index, c.total_chunks, c.content, c.embedding, c.metadata, d.rowid
		FROM chunks c
		JOIN documents d ON d.document_id = c.document_id
	`
	args := []interface{}{}
	if documentID != "" {
		sqlQuery += " WHERE c.document_id = ?"
		args = append(args, documentID)
	}
	sqlQuery += " ORDER BY d.rowid, c.chunk_index"

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindStorage, "querying chunks")
	}
	defer rows.Close()

	var candidates []candidate
	for rows.Next() {
		var (
			chunk     schema.Chunk
			blob      []byte
			metaJSON  string
			uploadSeq int64
		)
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Index, &chunk.TotalChunks,
			&chunk.Text, &blob, &metaJSON, &uploadSeq); err != nil {
			return nil, errs.Wrap(err, errs.KindStorage, "scanning chunk")
		}
		chunk.Embedding = bytesToEmbedding(blob)
		if err := json.Unmarshal([]byte(metaJSON), &chunk.Metadata); err != nil {
			chunk.Metadata = map[string]interface{}{}
		}
		candidates = append(candidates, candidate{chunk: chunk, seq: uploadSeq})
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(err, errs.KindStorage, "iterating chunks")
	}

	return rankByQuery(queryVectors[0], candidates, topK), nil
}

// Delete removes every chunk of a document. An unknown id yields 0, not an
// error.
func (s *SQLiteStore) Delete(ctx context.Context, documentID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errs.Wrap(err, errs.KindStorage, "beginning transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID)
	if err != nil {
		return 0, errs.Wrap(err, errs.KindStorage, "deleting chunks")
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, errs.Wrap(err, errs.KindStorage, "counting deleted chunks")
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE document_id = ?", documentID); err != nil {
		return 0, errs.Wrap(err, errs.KindStorage, "deleting document")
	}

	if err := tx.Commit(); err != nil {
		return 0, errs.Wrap(err, errs.KindStorage, "committing delete")
	}

	if deleted > 0 {
		s.log.WithFields(map[string]interface{}{
			"document_id": documentID,
			"chunks":      deleted,
		}).Info("document deleted")
	}
	return int(deleted), nil
}

// List returns one entry per stored document, in upload order.
func (s *SQLiteStore) List(ctx context.Context) ([]schema.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT document_id, filename, file_size, upload_date, chunk_count
		FROM documents ORDER BY rowid
	`)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindStorage, "querying documents")
	}
	defer rows.Close()

	docs := []schema.Document{}
	for rows.Next() {
		var (
			doc      schema.Document
			uploaded string
		)
		if err := rows.Scan(&doc.DocumentID, &doc.Filename, &doc.FileSize, &uploaded, &doc.ChunkCount); err != nil {
			return nil, errs.Wrap(err, errs.KindStorage, "scanning document")
		}
		doc.UploadDate, _ = time.Parse(time.RFC3339, uploaded)
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(err, errs.KindStorage, "iterating documents")
	}
	return docs, nil
}

var _ interfaces.DocumentStore = (*SQLiteStore)(nil)
