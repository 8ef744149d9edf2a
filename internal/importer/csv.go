// Package importer parses bulk question uploads. Parsing is
// partial-failure-tolerant: a malformed row produces a row-keyed error
// and processing continues with the next row.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gatesim/gatesim-backend/internal/model"
)

const maxOptions = 4

// RowError describes why one data row was rejected.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

func (e RowError) String() string {
	return fmt.Sprintf("Row %d: %s", e.Row, e.Message)
}

// ParsedQuestion pairs a well-formed question with its source row number
// so downstream duplicate rejections can still be reported per row.
type ParsedQuestion struct {
	Row      int
	Question model.Question
}

// Result aggregates one parse pass.
type Result struct {
	Questions []ParsedQuestion
	Errors    []RowError
}

// Parse reads a CSV question file. The header row is row 1; data rows are
// numbered from 2, matching what admins see in their spreadsheet.
//
// Expected columns: question_text, question_type, subject, topic,
// option_1..option_4, option_N_correct, marks, negative_marks,
// explanation, correct_answer. NAT rows leave the option columns blank
// and carry the answer in correct_answer (or, as a fallback, option_1).
func Parse(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Ragged rows are handled per row, not fatally.
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["question_text"]; !ok {
		return nil, fmt.Errorf("missing required column question_text")
	}

	res := &Result{}
	for rowNum := 2; ; rowNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Errors = append(res.Errors, RowError{Row: rowNum, Message: err.Error()})
			continue
		}

		q, perr := parseRow(cols, record)
		if perr != "" {
			res.Errors = append(res.Errors, RowError{Row: rowNum, Message: perr})
			continue
		}
		res.Questions = append(res.Questions, ParsedQuestion{Row: rowNum, Question: *q})
	}

	return res, nil
}

// field returns the trimmed cell value for a named column, or "" when the
// column is absent or the row is too short.
func field(cols map[string]int, record []string, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func parseRow(cols map[string]int, record []string) (*model.Question, string) {
	text := field(cols, record, "question_text")
	if text == "" {
		return nil, "question_text is required"
	}

	typeRaw := field(cols, record, "question_type")
	if typeRaw == "" {
		typeRaw = field(cols, record, "type")
	}
	if typeRaw == "" {
		typeRaw = "MCQ"
	}
	qt := model.QuestionType(strings.ToUpper(typeRaw))
	switch qt {
	case model.QuestionTypeMCQ, model.QuestionTypeMSQ, model.QuestionTypeNAT:
	default:
		return nil, fmt.Sprintf("unknown question_type %q", typeRaw)
	}

	q := &model.Question{
		QuestionText:  text,
		QuestionType:  qt,
		Subject:       defaultStr(field(cols, record, "subject"), "General"),
		Topic:         defaultStr(field(cols, record, "topic"), "General"),
		Difficulty:    defaultStr(field(cols, record, "difficulty"), "medium"),
		Marks:         1.0,
		NegativeMarks: 0.33,
		Explanation:   field(cols, record, "explanation"),
	}

	if raw := field(cols, record, "marks"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			return nil, fmt.Sprintf("invalid marks %q", raw)
		}
		q.Marks = v
	}
	if raw := field(cols, record, "negative_marks"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return nil, fmt.Sprintf("invalid negative_marks %q", raw)
		}
		q.NegativeMarks = v
	}

	if qt == model.QuestionTypeNAT {
		q.CorrectAnswer = field(cols, record, "correct_answer")
		if q.CorrectAnswer == "" {
			// Legacy sheets put the NAT answer in the first option column.
			q.CorrectAnswer = field(cols, record, "option_1")
		}
	} else {
		for i := 1; i <= maxOptions; i++ {
			optText := field(cols, record, fmt.Sprintf("option_%d", i))
			if optText == "" {
				continue
			}
			correctRaw := strings.ToLower(field(cols, record, fmt.Sprintf("option_%d_correct", i)))
			q.Options = append(q.Options, model.QuestionOption{
				ID:        uuid.New(),
				Text:      optText,
				IsCorrect: correctRaw == "true" || correctRaw == "1" || correctRaw == "yes",
			})
		}
	}

	if err := q.ValidateShape(); err != nil {
		return nil, err.Error()
	}

	return q, ""
}

func defaultStr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
