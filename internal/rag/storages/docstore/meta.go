package docstore

import (
	"time"

	"docsight/internal/rag/schema"
)

// documentMeta is the normalised per-document metadata carried on every
// chunk, so a retrieval hit can be attributed without a second lookup.
type documentMeta struct {
	Filename   string    `json:"filename"`
	FileSize   int64     `json:"file_size"`
	UploadDate time.Time `json:"upload_date"`
}

// normaliseMetadata extracts the known keys from caller-supplied metadata,
// filling defaults for anything absent.
func normaliseMetadata(metadata map[string]interface{}) documentMeta {
	meta := documentMeta{
		Filename:   "Unknown",
		UploadDate: time.Now().UTC(),
	}
	if metadata == nil {
		return meta
	}
	if name, ok := metadata[schema.MetadataKeyFileName].(string); ok && name != "" {
		meta.Filename = name
	}
	switch size := metadata[schema.MetadataKeyFileSize].(type) {
	case int64:
		meta.FileSize = size
	case int:
		meta.FileSize = int64(size)
	case float64:
		meta.FileSize = int64(size)
	}
	if when, ok := metadata[schema.MetadataKeyUploadDate].(time.Time); ok {
		meta.UploadDate = when.UTC()
	}
	return meta
}

// asMap renders the metadata in the same shape chunk rows store.
func (m documentMeta) asMap() map[string]interface{} {
	return map[string]interface{}{
		schema.MetadataKeyFileName:   m.Filename,
		schema.MetadataKeyFileSize:   m.FileSize,
		schema.MetadataKeyUploadDate: m.UploadDate.Format(time.RFC3339),
	}
}
