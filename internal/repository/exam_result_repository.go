package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/gatesim/gatesim-backend/internal/model"
)

// ErrResultExists is returned when a result already exists for a session.
var ErrResultExists = errors.New("result already exists for session")

// ExamResultRepository handles exam result data access.
type ExamResultRepository struct {
	pool *pgxpool.Pool
}

// NewExamResultRepository creates a new ExamResultRepository.
func NewExamResultRepository(pool *pgxpool.Pool) *ExamResultRepository {
	return &ExamResultRepository{pool: pool}
}

// Create inserts a result. The exam_session_id unique constraint makes
// result creation exactly-once per session.
func (r *ExamResultRepository) Create(ctx context.Context, res *model.ExamResult) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO exam_results
		   (user_id, exam_session_id, total_questions, attempted, correct, incorrect,
		    score, percentage, subject_scores, time_taken_minutes, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		res.UserID, res.ExamSessionID, res.TotalQuestions, res.Attempted, res.Correct,
		res.Incorrect, res.Score, res.Percentage, res.SubjectScores,
		res.TimeTakenMinutes, res.SubmittedAt,
	).Scan(&res.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrResultExists
		}
		return err
	}
	return nil
}

// GetBySession retrieves the result for a session scoped to its owner.
func (r *ExamResultRepository) GetBySession(ctx context.Context, sessionID, userID uuid.UUID) (*model.ExamResult, error) {
	res := &model.ExamResult{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, exam_session_id, total_questions, attempted, correct,
		        incorrect, score, percentage, subject_scores, time_taken_minutes, submitted_at
		 FROM exam_results
		 WHERE exam_session_id = $1 AND user_id = $2`, sessionID, userID,
	).Scan(&res.ID, &res.UserID, &res.ExamSessionID, &res.TotalQuestions, &res.Attempted,
		&res.Correct, &res.Incorrect, &res.Score, &res.Percentage, &res.SubjectScores,
		&res.TimeTakenMinutes, &res.SubmittedAt)
	if err != nil {
		return nil, err
	}
	return res, nil
}
