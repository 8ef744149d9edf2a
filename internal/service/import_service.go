package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gatesim/gatesim-backend/internal/importer"
	"github.com/gatesim/gatesim-backend/internal/model"
	"github.com/gatesim/gatesim-backend/internal/repository"
)

// ImportReport summarizes one bulk upload.
type ImportReport struct {
	TotalRows int                 `json:"total_rows"`
	Imported  int                 `json:"imported"`
	Failed    int                 `json:"failed"`
	Errors    []importer.RowError `json:"errors,omitempty"`
}

// ImportPreview summarizes a dry-run parse without persisting anything.
type ImportPreview struct {
	TotalRows int                 `json:"total_rows"`
	Valid     int                 `json:"valid"`
	Failed    int                 `json:"failed"`
	Questions []model.Question    `json:"questions"`
	Errors    []importer.RowError `json:"errors,omitempty"`
}

// ImportService runs CSV bulk imports into the question bank. Imports
// are partial-failure-tolerant: bad rows are reported, good rows land.
type ImportService struct {
	questionRepo *repository.QuestionRepository
	log          zerolog.Logger
}

// NewImportService creates a new ImportService.
func NewImportService(questionRepo *repository.QuestionRepository, log zerolog.Logger) *ImportService {
	return &ImportService{
		questionRepo: questionRepo,
		log:          log.With().Str("component", "import_service").Logger(),
	}
}

// ImportCSV parses and persists a CSV file. Duplicate questions are
// reported as row errors, not import failures.
func (s *ImportService) ImportCSV(ctx context.Context, creatorID uuid.UUID, r io.Reader) (*ImportReport, error) {
	parsed, err := importer.Parse(r)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{
		TotalRows: len(parsed.Questions) + len(parsed.Errors),
		Errors:    parsed.Errors,
	}

	for _, pq := range parsed.Questions {
		q := pq.Question
		q.CreatedBy = creatorID

		dup, err := s.questionRepo.ExistsDuplicate(ctx, model.NormalizeText(q.QuestionText), q.Subject, q.Topic, uuid.Nil)
		if err != nil {
			return nil, fmt.Errorf("check duplicate: %w", err)
		}
		if dup {
			report.Errors = append(report.Errors, importer.RowError{
				Row:     pq.Row,
				Message: "duplicate question for this subject and topic",
			})
			continue
		}

		if err := s.questionRepo.Create(ctx, &q); err != nil {
			s.log.Error().Err(err).Int("row", pq.Row).Msg("Failed to insert imported question")
			report.Errors = append(report.Errors, importer.RowError{
				Row:     pq.Row,
				Message: "failed to save question",
			})
			continue
		}
		report.Imported++
	}

	report.Failed = len(report.Errors)

	s.log.Info().
		Int("total", report.TotalRows).
		Int("imported", report.Imported).
		Int("failed", report.Failed).
		Msg("CSV import finished")

	return report, nil
}

// PDFExtract is the text layer of an uploaded PDF, returned for manual
// review. Long documents come back truncated.
type PDFExtract struct {
	ExtractedText string `json:"extracted_text"`
	Truncated     bool   `json:"truncated"`
	Note          string `json:"note"`
}

const pdfPreviewLimit = 1000

// ExtractPDF pulls the text out of an uploaded PDF. Nothing is persisted;
// the caller reformats the text as CSV for the import endpoint.
func (s *ImportService) ExtractPDF(r io.ReaderAt, size int64) (*PDFExtract, error) {
	text, err := importer.ExtractPDFText(r, size)
	if err != nil {
		return nil, err
	}
	return buildPDFExtract(text), nil
}

func buildPDFExtract(text string) *PDFExtract {
	out := &PDFExtract{
		ExtractedText: text,
		Note:          "PDF text requires manual review. Format the questions as CSV for automatic import.",
	}
	if len(text) > pdfPreviewLimit {
		out.ExtractedText = text[:pdfPreviewLimit] + "..."
		out.Truncated = true
	}
	return out
}

// PreviewCSV parses a CSV file and reports what an import would do.
func (s *ImportService) PreviewCSV(r io.Reader) (*ImportPreview, error) {
	parsed, err := importer.Parse(r)
	if err != nil {
		return nil, err
	}

	preview := &ImportPreview{
		TotalRows: len(parsed.Questions) + len(parsed.Errors),
		Valid:     len(parsed.Questions),
		Failed:    len(parsed.Errors),
		Errors:    parsed.Errors,
	}
	for _, pq := range parsed.Questions {
		preview.Questions = append(preview.Questions, pq.Question)
	}
	return preview, nil
}
