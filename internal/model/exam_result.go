package model

import (
	"time"

	"github.com/google/uuid"
)

// SubjectScore is the per-subject breakdown of a result.
type SubjectScore struct {
	Correct   int `json:"correct"`
	Attempted int `json:"attempted"`
	Total     int `json:"total"`
}

// ExamResult is the scored outcome of a submitted session. Created exactly
// once per session; re-submission returns the stored record unchanged.
type ExamResult struct {
	ID               uuid.UUID               `json:"id"`
	UserID           uuid.UUID               `json:"user_id"`
	ExamSessionID    uuid.UUID               `json:"exam_session_id"`
	TotalQuestions   int                     `json:"total_questions"`
	Attempted        int                     `json:"attempted"`
	Correct          int                     `json:"correct"`
	Incorrect        int                     `json:"incorrect"`
	Score            float64                 `json:"score"`
	Percentage       float64                 `json:"percentage"`
	SubjectScores    map[string]SubjectScore `json:"subject_wise_score"`
	TimeTakenMinutes int                     `json:"time_taken_minutes"`
	SubmittedAt      time.Time               `json:"submitted_at"`
}
