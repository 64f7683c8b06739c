package loaders

import (
	"context"

	"docsight/internal/rag/interfaces"
)

// MarkdownLoader decodes markdown files. The markup is kept as-is: headings
// and list markers carry structure the splitter's paragraph boundaries can
// use.
type MarkdownLoader struct {
	text *TextLoader
}

// NewMarkdownLoader creates a MarkdownLoader.
func NewMarkdownLoader() *MarkdownLoader {
	return &MarkdownLoader{text: NewTextLoader()}
}

// Load returns the markdown content as UTF-8 text.
func (l *MarkdownLoader) Load(ctx context.Context, filename string, data []byte) (string, error) {
	return l.text.Load(ctx, filename, data)
}

var _ interfaces.Loader = (*MarkdownLoader)(nil)
