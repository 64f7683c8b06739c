// Package loaders decodes uploaded files into plain text. Each loader
// handles one file family; ForFile picks a loader from the filename and the
// detected content type.
package loaders

import (
	"context"
	"strings"
	"unicode/utf8"

	"docsight/internal/rag/errs"
	"docsight/internal/rag/interfaces"
)

// TextLoader decodes plain text files.
type TextLoader struct{}

// NewTextLoader creates a TextLoader.
func NewTextLoader() *TextLoader {
	return &TextLoader{}
}

// Load returns the file content as UTF-8 text, replacing any invalid byte
// sequences.
func (l *TextLoader) Load(_ context.Context, filename string, data []byte) (string, error) {
	text := string(data)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	if strings.TrimSpace(text) == "" {
		return "", errs.Newf(errs.KindInput, "file %q contains no text", filename)
	}
	return text, nil
}

var _ interfaces.Loader = (*TextLoader)(nil)
