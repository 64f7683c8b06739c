// Package schema holds the data types carried through the RAG pipeline.
package schema

import "time"

// Metadata keys attached to chunks at indexing time.
const (
	// MetadataKeyFileName is the key for the source file name.
	MetadataKeyFileName = "filename"
	// MetadataKeyFileSize is the key for the decoded source size in bytes.
	MetadataKeyFileSize = "file_size"
	// MetadataKeyUploadDate is the key for the upload timestamp (RFC 3339).
	MetadataKeyUploadDate = "upload_date"
)

// Completeness statuses an analysis may report.
const (
	StatusComplete = "complete"
	StatusPartial  = "partial"
	StatusUnknown  = "unknown"
)

// Chunk is the unit of storage and retrieval in the document store. A
// document is persisted as a contiguous run of chunks with indexes
// 0..TotalChunks-1; TotalChunks is identical across all chunks of one
// document.
type Chunk struct {
	// ID is the unique identifier of this chunk.
	ID string

	// DocumentID groups the chunks of one uploaded document.
	DocumentID string

	// Index is the 0-based position of this chunk within its document.
	Index int

	// TotalChunks is the number of chunks the document was split into.
	TotalChunks int

	// Text is the chunk content. Concatenating chunk texts in Index order
	// reproduces the source text up to the duplicated overlap spans.
	Text string

	// Embedding is the vector representation of Text.
	Embedding []float32

	// Metadata holds source information (filename, file_size, upload_date).
	Metadata map[string]interface{}
}

// Document is the per-upload summary the store reports when listing.
type Document struct {
	DocumentID string    `json:"document_id"`
	Filename   string    `json:"filename"`
	FileSize   int64     `json:"file_size"`
	UploadDate time.Time `json:"upload_date"`
	ChunkCount int       `json:"chunk_count"`
}

// RetrievalHit is one similarity search result. It is transient, produced
// per query, and keeps a reference to the matched chunk so callers can cite
// it without recomputing anything.
type RetrievalHit struct {
	Chunk Chunk
	// Score is the cosine similarity between the query and the chunk, in
	// [-1, 1] for non-degenerate vectors.
	Score float64
}

// TaskType selects which prompt contract the assembler applies.
type TaskType string

const (
	// TaskAnalysis is the document-completeness analysis task.
	TaskAnalysis TaskType = "analysis"
	// TaskQA is the cited question-answering task.
	TaskQA TaskType = "qa"
)

// Prompt is the two-part prompt sent to the generative model. It is a pure
// function of its inputs; identical inputs always produce identical prompts.
type Prompt struct {
	// System carries the fixed contract for the task type.
	System string
	// User carries the dynamic subject text and retrieved context.
	User string
}

// Text renders the prompt as the single string the model consumes.
func (p Prompt) Text() string {
	return p.System + "\n\n" + p.User
}

// AnalysisResult is the validated outcome of the completeness analysis.
type AnalysisResult struct {
	// Summary is a brief description of the document, 10 to 500 characters.
	Summary string `json:"summary"`

	// CompletenessStatus is one of complete, partial, or unknown.
	CompletenessStatus string `json:"completeness_status"`

	// MissingPoints lists missing sections. Empty when the status is
	// complete.
	MissingPoints []string `json:"missing_points"`

	// Evidence lists direct quotes from the document supporting the
	// analysis. At least one entry.
	Evidence []string `json:"evidence"`

	// Confidence is the model's self-reported certainty in [0, 1].
	Confidence float64 `json:"confidence"`
}

// Source is one citation in a Q&A answer. SourceNumber is exactly the
// 1-based position the passage occupied in the prompt shown to the model.
type Source struct {
	SourceNumber int    `json:"source_number"`
	Text         string `json:"text"`
	Document     string `json:"document"`
	DocumentID   string `json:"document_id"`
}

// QAResult is the validated outcome of the question-answering task.
type QAResult struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}
