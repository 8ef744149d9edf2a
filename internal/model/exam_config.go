package model

import (
	"time"

	"github.com/google/uuid"
)

// ExamConfig is a reusable exam template: duration, subject mix and size.
type ExamConfig struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	DurationMinutes    int       `json:"duration_minutes"`
	TotalQuestions     int       `json:"total_questions"`
	Subjects           []string  `json:"subjects"`
	QuestionTypes      []string  `json:"question_types,omitempty"`
	RandomizeQuestions bool      `json:"randomize_questions"`
	CreatedBy          uuid.UUID `json:"created_by"`
	CreatedAt          time.Time `json:"created_at"`
}

// CreateExamConfigRequest is the payload for creating an exam configuration.
type CreateExamConfigRequest struct {
	Name               string   `json:"name" binding:"required,min=3,max=255"`
	Description        string   `json:"description" binding:"omitempty,max=2000"`
	DurationMinutes    int      `json:"duration_minutes" binding:"required,min=1,max=480"`
	TotalQuestions     int      `json:"total_questions" binding:"required,min=1,max=500"`
	Subjects           []string `json:"subjects" binding:"required,min=1,dive,min=1,max=100"`
	QuestionTypes      []string `json:"question_types" binding:"omitempty,dive,oneof=MCQ MSQ NAT"`
	RandomizeQuestions *bool    `json:"randomize_questions" binding:"omitempty"`
}
