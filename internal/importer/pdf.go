package importer

import (
	"errors"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoPDFText is returned for PDFs without an extractable text layer,
// typically scanned documents.
var ErrNoPDFText = errors.New("no extractable text found in pdf")

// ExtractPDFText pulls the plain-text layer out of a PDF so it can be
// reviewed and reformatted as CSV. Pages that fail to decode are skipped.
func ExtractPDFText(r io.ReaderAt, size int64) (string, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}

	text := normalizeExtractedText(b.String())
	if text == "" {
		return "", ErrNoPDFText
	}
	return text, nil
}

// normalizeExtractedText trims per-line whitespace and collapses runs of
// blank lines down to one.
func normalizeExtractedText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var b strings.Builder
	empty := 0
	for _, line := range strings.Split(s, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			empty++
			if empty > 1 {
				continue
			}
			b.WriteString("\n")
			continue
		}
		empty = 0
		b.WriteString(trimmed)
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String())
}
