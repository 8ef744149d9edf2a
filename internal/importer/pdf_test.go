package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeExtractedText(t *testing.T) {
	in := "  Q1. What is TCP?  \r\n\r\n\r\n\r\nA) Transmission Control Protocol\r\n   \nB) Other\n"
	out := normalizeExtractedText(in)

	assert.Equal(t, "Q1. What is TCP?\n\nA) Transmission Control Protocol\n\nB) Other", out)
}

func TestNormalizeExtractedTextWhitespaceOnly(t *testing.T) {
	assert.Empty(t, normalizeExtractedText("  \n\t \r\n   "))
}

func TestExtractPDFTextRejectsNonPDF(t *testing.T) {
	r := strings.NewReader("question_text,subject\nnot a pdf,Math\n")
	_, err := ExtractPDFText(r, int64(r.Len()))
	require.Error(t, err)
}
