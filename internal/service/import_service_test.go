package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPDFExtractShortText(t *testing.T) {
	out := buildPDFExtract("Q1. What is TCP?")

	assert.Equal(t, "Q1. What is TCP?", out.ExtractedText)
	assert.False(t, out.Truncated)
	assert.NotEmpty(t, out.Note)
}

func TestBuildPDFExtractTruncatesLongText(t *testing.T) {
	long := strings.Repeat("x", pdfPreviewLimit+50)
	out := buildPDFExtract(long)

	assert.True(t, out.Truncated)
	assert.Len(t, out.ExtractedText, pdfPreviewLimit+len("..."))
	assert.True(t, strings.HasSuffix(out.ExtractedText, "..."))
}
