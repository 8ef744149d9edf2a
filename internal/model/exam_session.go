package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// QuestionStatus tracks per-question progress inside a session.
type QuestionStatus string

const (
	StatusNotVisited     QuestionStatus = "not_visited"
	StatusNotAnswered    QuestionStatus = "not_answered"
	StatusAnswered       QuestionStatus = "answered"
	StatusMarked         QuestionStatus = "marked"
	StatusMarkedAnswered QuestionStatus = "marked_answered"
)

// ValidStatus reports whether s is a recognized question status.
func ValidStatus(s QuestionStatus) bool {
	switch s {
	case StatusNotVisited, StatusNotAnswered, StatusAnswered, StatusMarked, StatusMarkedAnswered:
		return true
	}
	return false
}

// ExamSession is one user's attempt at one exam configuration's sampled
// question set. The question sequence is fixed at creation; answers and
// statuses are keyed by question id from that sequence. Once Submitted
// flips true the maps are frozen.
type ExamSession struct {
	ID              uuid.UUID                     `json:"id"`
	UserID          uuid.UUID                     `json:"user_id"`
	ExamConfigID    uuid.UUID                     `json:"exam_config_id"`
	Questions       []uuid.UUID                   `json:"questions"`
	Answers         map[string]json.RawMessage    `json:"answers"`
	QuestionStatus  map[string]QuestionStatus     `json:"question_status"`
	StartTime       time.Time                     `json:"start_time"`
	EndTime         *time.Time                    `json:"end_time,omitempty"`
	Submitted       bool                          `json:"submitted"`
	CurrentQuestion int                           `json:"current_question"`
}

// HasQuestion reports whether qid belongs to the session's fixed sequence.
// Lookups into the answer/status maps are validated against this, never
// trusted blindly.
func (s *ExamSession) HasQuestion(qid uuid.UUID) bool {
	for _, id := range s.Questions {
		if id == qid {
			return true
		}
	}
	return false
}

// RecordAnswerRequest is the payload for saving one answer.
// Answer accepts a scalar (MCQ option id, NAT value) or an array of
// option ids (MSQ); the shape is checked at scoring time only.
type RecordAnswerRequest struct {
	QuestionID uuid.UUID       `json:"question_id" binding:"required"`
	Answer     json.RawMessage `json:"answer"`
	Status     QuestionStatus  `json:"status" binding:"omitempty,oneof=not_answered answered marked marked_answered"`
}

// QuestionView is the student-facing wrapper returned while taking an exam.
type QuestionView struct {
	Question       SanitizedQuestion `json:"question"`
	QuestionNumber int               `json:"question_number"`
	TotalQuestions int               `json:"total_questions"`
	CurrentAnswer  json.RawMessage   `json:"current_answer,omitempty"`
}
