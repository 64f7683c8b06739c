package loaders

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"docsight/internal/rag/errs"
	"docsight/internal/rag/interfaces"
)

// ForFile picks a loader from the filename extension, falling back to
// content-type detection when the extension says nothing. Unsupported files
// yield an input error naming the detected type.
func ForFile(filename string, data []byte) (interfaces.Loader, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return NewTextLoader(), nil
	case ".md", ".markdown":
		return NewMarkdownLoader(), nil
	case ".pdf":
		return NewPDFLoader(), nil
	}

	mtype := mimetype.Detect(data)
	switch {
	case mtype.Is("application/pdf"):
		return NewPDFLoader(), nil
	case mtype.Is("text/plain") || strings.HasPrefix(mtype.String(), "text/"):
		return NewTextLoader(), nil
	}

	return nil, errs.Newf(errs.KindInput,
		"unsupported file type %q (detected %s); supported: .txt, .md, .pdf", filepath.Ext(filename), mtype.String())
}
