package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("raw file bytes"), 0o644))
	return path
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		mimeType string
		format   Format
		ok       bool
	}{
		{MimePDF, FormatPDF, true},
		{MimePPT, FormatSlides, true},
		{MimePPTX, FormatSlides, true},
		{"text/plain", 0, false},
		{"image/png", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		format, ok := DetectFormat(tt.mimeType)
		assert.Equal(t, tt.ok, ok, tt.mimeType)
		if tt.ok {
			assert.Equal(t, tt.format, format, tt.mimeType)
		}
	}
}

func TestExtractPDF(t *testing.T) {
	path := writeTempFile(t, "doc.pdf")

	content, err := NewExtractor().Extract(path, "doc.pdf", MimePDF)
	require.NoError(t, err)
	assert.NotEmpty(t, content.Text)
	assert.Zero(t, content.SlideCount) // no slide count for PDFs
	assert.Equal(t, "doc.pdf", content.FileName)
	assert.Equal(t, MimePDF, content.MimeType)
}

func TestExtractSlides(t *testing.T) {
	path := writeTempFile(t, "deck.pptx")

	content, err := NewExtractor().Extract(path, "deck.pptx", MimePPTX)
	require.NoError(t, err)
	assert.NotEmpty(t, content.Text)
	assert.Equal(t, 7, content.SlideCount)
}

func TestExtractUnsupportedFormat(t *testing.T) {
	path := writeTempFile(t, "notes.txt")

	_, err := NewExtractor().Extract(path, "notes.txt", "text/plain")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestExtractUnreadableFile(t *testing.T) {
	_, err := NewExtractor().Extract(filepath.Join(t.TempDir(), "missing.pdf"), "missing.pdf", MimePDF)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExtractionFailed))
	assert.Contains(t, err.Error(), "missing.pdf")
}
