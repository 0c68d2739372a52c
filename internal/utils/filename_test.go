package utils

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeBaseName(t *testing.T) {
	assert.Equal(t, "lecture-01_slides.pptx", SanitizeBaseName("lecture-01_slides.pptx"))
	assert.Equal(t, "my_notes_v2_.pdf", SanitizeBaseName("my notes v2!.pdf"))
	assert.Equal(t, "passwd", SanitizeBaseName("../../etc/passwd"))
	assert.Equal(t, "file", SanitizeBaseName(""))
}

func TestGenerateUploadName(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	name := GenerateUploadName("My Lecture.pdf", now)
	assert.Equal(t, fmt.Sprintf("%d_My_Lecture.pdf", now.UnixMilli()), name)
}

func TestGenerateUploadNamePreservesExtension(t *testing.T) {
	now := time.Now()
	assert.Contains(t, GenerateUploadName("deck.pptx", now), ".pptx")
	assert.Contains(t, GenerateUploadName("old deck.ppt", now), "_old_deck.ppt")
}
