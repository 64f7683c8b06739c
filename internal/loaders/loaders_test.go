package loaders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsight/internal/rag/errs"
)

func TestForFileByExtension(t *testing.T) {
	cases := []struct {
		filename string
		want     interface{}
	}{
		{"notes.txt", &TextLoader{}},
		{"README.md", &MarkdownLoader{}},
		{"guide.MARKDOWN", &MarkdownLoader{}},
		{"paper.pdf", &PDFLoader{}},
	}
	for _, tc := range cases {
		loader, err := ForFile(tc.filename, []byte("content"))
		require.NoError(t, err, tc.filename)
		assert.IsType(t, tc.want, loader, tc.filename)
	}
}

func TestForFileDetectsTextWithoutExtension(t *testing.T) {
	loader, err := ForFile("LICENSE", []byte("Permission is hereby granted, free of charge"))
	require.NoError(t, err)
	assert.IsType(t, &TextLoader{}, loader)
}

func TestForFileRejectsUnsupportedType(t *testing.T) {
	// PNG magic bytes: not a document format.
	_, err := ForFile("image.png", []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a})
	require.Error(t, err)
	assert.Equal(t, errs.KindInput, errs.KindOf(err))
}

func TestTextLoaderReturnsContent(t *testing.T) {
	text, err := NewTextLoader().Load(context.Background(), "notes.txt", []byte("hello world"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestTextLoaderRepairsInvalidUTF8(t *testing.T) {
	text, err := NewTextLoader().Load(context.Background(), "notes.txt", []byte{'o', 'k', 0xff, '!'})
	require.NoError(t, err)
	assert.Contains(t, text, "ok")
	assert.Contains(t, text, "!")
}

func TestTextLoaderRejectsEmptyFile(t *testing.T) {
	_, err := NewTextLoader().Load(context.Background(), "empty.txt", []byte("  \n\t"))
	require.Error(t, err)
	assert.Equal(t, errs.KindInput, errs.KindOf(err))
}

func TestMarkdownLoaderKeepsMarkup(t *testing.T) {
	source := "# Title\n\n- item one\n- item two\n"
	text, err := NewMarkdownLoader().Load(context.Background(), "doc.md", []byte(source))
	require.NoError(t, err)
	assert.Equal(t, source, text)
}

func TestPDFLoaderRejectsGarbage(t *testing.T) {
	_, err := NewPDFLoader().Load(context.Background(), "broken.pdf", []byte("not a pdf at all"))
	require.Error(t, err)
	assert.Equal(t, errs.KindInput, errs.KindOf(err))
}
