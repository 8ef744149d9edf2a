package model

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// QuestionType enumerates supported question formats.
type QuestionType string

const (
	// QuestionTypeMCQ is single-answer multiple choice.
	QuestionTypeMCQ QuestionType = "MCQ"
	// QuestionTypeMSQ is multi-answer multiple choice.
	QuestionTypeMSQ QuestionType = "MSQ"
	// QuestionTypeNAT is numerical answer type (no options).
	QuestionTypeNAT QuestionType = "NAT"
)

// QuestionOption is one choice of an MCQ/MSQ question.
type QuestionOption struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	IsCorrect bool      `json:"is_correct"`
}

// Question represents a single bank question.
type Question struct {
	ID            uuid.UUID        `json:"id"`
	QuestionText  string           `json:"question_text"`
	QuestionType  QuestionType     `json:"question_type"`
	Subject       string           `json:"subject"`
	Topic         string           `json:"topic"`
	Difficulty    string           `json:"difficulty"`
	Marks         float64          `json:"marks"`
	NegativeMarks float64          `json:"negative_marks"`
	Options       []QuestionOption `json:"options"`
	CorrectAnswer string           `json:"correct_answer,omitempty"`
	Explanation   string           `json:"explanation,omitempty"`
	CreatedBy     uuid.UUID        `json:"created_by"`
	SharedWith    []string         `json:"shared_with,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// SanitizedQuestion is a question with answer-revealing fields stripped,
// safe to send to a student during an exam or via a share link.
type SanitizedQuestion struct {
	ID           uuid.UUID         `json:"id"`
	QuestionText string            `json:"question_text"`
	QuestionType QuestionType      `json:"question_type"`
	Subject      string            `json:"subject"`
	Topic        string            `json:"topic"`
	Difficulty   string            `json:"difficulty"`
	Marks        float64           `json:"marks"`
	NegativeMarks float64          `json:"negative_marks"`
	Options      []SanitizedOption `json:"options"`
}

// SanitizedOption is an option without the is_correct flag.
type SanitizedOption struct {
	ID   uuid.UUID `json:"id"`
	Text string    `json:"text"`
}

// Sanitize strips the correct answer and option flags.
func (q *Question) Sanitize() SanitizedQuestion {
	opts := make([]SanitizedOption, len(q.Options))
	for i, o := range q.Options {
		opts[i] = SanitizedOption{ID: o.ID, Text: o.Text}
	}
	return SanitizedQuestion{
		ID:            q.ID,
		QuestionText:  q.QuestionText,
		QuestionType:  q.QuestionType,
		Subject:       q.Subject,
		Topic:         q.Topic,
		Difficulty:    q.Difficulty,
		Marks:         q.Marks,
		NegativeMarks: q.NegativeMarks,
		Options:       opts,
	}
}

// CorrectOptionIDs returns the ids of options flagged correct.
func (q *Question) CorrectOptionIDs() []uuid.UUID {
	var ids []uuid.UUID
	for _, o := range q.Options {
		if o.IsCorrect {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

// NormalizeText lowercases and collapses whitespace for duplicate detection
// and pool deduplication.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Question shape errors.
var (
	ErrMCQShape = errors.New("MCQ requires at least 2 options with exactly one correct")
	ErrMSQShape = errors.New("MSQ requires at least 2 options with at least one correct")
	ErrNATShape = errors.New("NAT requires a numeric correct_answer and no options")
)

// ValidateShape enforces the per-type structural invariants.
func (q *Question) ValidateShape() error {
	switch q.QuestionType {
	case QuestionTypeMCQ:
		if len(q.Options) < 2 || len(q.CorrectOptionIDs()) != 1 {
			return ErrMCQShape
		}
	case QuestionTypeMSQ:
		if len(q.Options) < 2 || len(q.CorrectOptionIDs()) == 0 {
			return ErrMSQShape
		}
	case QuestionTypeNAT:
		if len(q.Options) != 0 {
			return ErrNATShape
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(q.CorrectAnswer), 64); err != nil {
			return ErrNATShape
		}
	default:
		return errors.New("unknown question type")
	}
	return nil
}

// CreateOptionRequest is one option in a create-question payload.
type CreateOptionRequest struct {
	Text      string `json:"text" binding:"required,min=1,max=1000"`
	IsCorrect bool   `json:"is_correct"`
}

// CreateQuestionRequest is the payload for creating a question.
type CreateQuestionRequest struct {
	QuestionText  string                `json:"question_text" binding:"required,min=1,max=4000"`
	QuestionType  string                `json:"question_type" binding:"required,oneof=MCQ MSQ NAT"`
	Subject       string                `json:"subject" binding:"required,min=1,max=100"`
	Topic         string                `json:"topic" binding:"required,min=1,max=100"`
	Difficulty    string                `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	Marks         float64               `json:"marks" binding:"required,gt=0"`
	NegativeMarks float64               `json:"negative_marks" binding:"gte=0"`
	Options       []CreateOptionRequest `json:"options" binding:"omitempty,dive"`
	CorrectAnswer string                `json:"correct_answer" binding:"omitempty,max=100"`
	Explanation   string                `json:"explanation" binding:"omitempty,max=4000"`
}

// UpdateQuestionRequest is the payload for updating a question. All fields
// optional; absent fields keep their stored values.
type UpdateQuestionRequest struct {
	QuestionText  *string               `json:"question_text" binding:"omitempty,min=1,max=4000"`
	Subject       *string               `json:"subject" binding:"omitempty,min=1,max=100"`
	Topic         *string               `json:"topic" binding:"omitempty,min=1,max=100"`
	Difficulty    *string               `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	Marks         *float64              `json:"marks" binding:"omitempty,gt=0"`
	NegativeMarks *float64              `json:"negative_marks" binding:"omitempty,gte=0"`
	Options       []CreateOptionRequest `json:"options" binding:"omitempty,dive"`
	CorrectAnswer *string               `json:"correct_answer" binding:"omitempty,max=100"`
	Explanation   *string               `json:"explanation" binding:"omitempty,max=4000"`
}

// ShareQuestionRequest grants read-only visibility to a list of emails.
type ShareQuestionRequest struct {
	Emails []string `json:"emails" binding:"required,min=1,max=50,dive,email"`
}
