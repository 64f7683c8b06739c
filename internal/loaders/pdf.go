package loaders

import (
	"bytes"
	"context"
	"strings"

	"github.com/ledongthuc/pdf"

	"docsight/internal/rag/errs"
	"docsight/internal/rag/interfaces"
)

// PDFLoader extracts the plain text of a PDF file.
type PDFLoader struct{}

// NewPDFLoader creates a PDFLoader.
func NewPDFLoader() *PDFLoader {
	return &PDFLoader{}
}

// Load parses the PDF and returns its concatenated text content.
func (l *PDFLoader) Load(_ context.Context, filename string, data []byte) (text string, err error) {
	// The parser panics on some malformed files instead of returning an
	// error.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = errs.Newf(errs.KindInput, "parsing pdf %q: %v", filename, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errs.Wrapf(err, errs.KindInput, "parsing pdf %q", filename)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", errs.Wrapf(err, errs.KindInput, "extracting text from pdf %q", filename)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", errs.Wrapf(err, errs.KindInput, "reading text from pdf %q", filename)
	}

	text = buf.String()
	if strings.TrimSpace(text) == "" {
		return "", errs.Newf(errs.KindInput, "pdf %q contains no extractable text", filename)
	}
	return text, nil
}

var _ interfaces.Loader = (*PDFLoader)(nil)
