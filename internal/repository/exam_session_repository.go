package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/gatesim/gatesim-backend/internal/model"
)

// ExamSessionRepository handles exam session data access. The answer and
// status maps live in JSONB columns; every mutation is a single UPDATE
// statement (atomic per row) guarded by submitted = FALSE, which is what
// freezes the session after submission even under concurrent writers.
type ExamSessionRepository struct {
	pool *pgxpool.Pool
}

// NewExamSessionRepository creates a new ExamSessionRepository.
func NewExamSessionRepository(pool *pgxpool.Pool) *ExamSessionRepository {
	return &ExamSessionRepository{pool: pool}
}

const sessionColumns = `id, user_id, exam_config_id, questions, answers, question_status,
	start_time, end_time, submitted, current_question`

func (r *ExamSessionRepository) scanSession(row interface{ Scan(...any) error }) (*model.ExamSession, error) {
	s := &model.ExamSession{}
	err := row.Scan(
		&s.ID, &s.UserID, &s.ExamConfigID, &s.Questions, &s.Answers, &s.QuestionStatus,
		&s.StartTime, &s.EndTime, &s.Submitted, &s.CurrentQuestion,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a new session with its fixed question sequence and
// initialized status map.
func (r *ExamSessionRepository) Create(ctx context.Context, s *model.ExamSession) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO exam_sessions (user_id, exam_config_id, questions, answers, question_status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, start_time`,
		s.UserID, s.ExamConfigID, s.Questions, s.Answers, s.QuestionStatus,
	).Scan(&s.ID, &s.StartTime)
}

// GetByOwner retrieves a session by id scoped to its owning user.
func (r *ExamSessionRepository) GetByOwner(ctx context.Context, id, userID uuid.UUID) (*model.ExamSession, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+`
		 FROM exam_sessions WHERE id = $1 AND user_id = $2`, id, userID)
	return r.scanSession(row)
}

// GetActive retrieves the unsubmitted session for a (user, config) pair,
// if any. At most one exists per pair.
func (r *ExamSessionRepository) GetActive(ctx context.Context, userID, configID uuid.UUID) (*model.ExamSession, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+`
		 FROM exam_sessions
		 WHERE user_id = $1 AND exam_config_id = $2 AND submitted = FALSE`, userID, configID)
	return r.scanSession(row)
}

// CountActiveByConfig counts unsubmitted sessions referencing a config.
// Used to block config deletion while attempts are still open.
func (r *ExamSessionRepository) CountActiveByConfig(ctx context.Context, configID uuid.UUID) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM exam_sessions WHERE exam_config_id = $1 AND submitted = FALSE`,
		configID,
	).Scan(&n)
	return n, err
}

// VisitQuestion moves the cursor to index and transitions qid from
// not_visited to not_answered. This is the only path that changes
// visited state. Returns false when the session is missing or submitted.
func (r *ExamSessionRepository) VisitQuestion(ctx context.Context, id uuid.UUID, index int, qid uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE exam_sessions
		 SET current_question = $2,
		     question_status = CASE
		       WHEN question_status ->> $3 = 'not_visited'
		       THEN jsonb_set(question_status, ARRAY[$3], '"not_answered"')
		       ELSE question_status
		     END
		 WHERE id = $1 AND submitted = FALSE`,
		id, index, qid.String())
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// UpsertAnswer writes one answer and its status in a single atomic
// UPDATE. A nil answer removes the stored entry (clear-response).
// Returns false when the session is missing or already submitted.
func (r *ExamSessionRepository) UpsertAnswer(ctx context.Context, id, qid uuid.UUID, answer json.RawMessage, status model.QuestionStatus) (bool, error) {
	statusJSON, err := json.Marshal(status)
	if err != nil {
		return false, err
	}

	var tagQuery string
	args := []any{id, qid.String(), statusJSON}
	if len(answer) == 0 || string(answer) == "null" {
		tagQuery = `UPDATE exam_sessions
		 SET answers = answers - $2,
		     question_status = jsonb_set(question_status, ARRAY[$2], $3::jsonb)
		 WHERE id = $1 AND submitted = FALSE`
	} else {
		tagQuery = `UPDATE exam_sessions
		 SET answers = jsonb_set(answers, ARRAY[$2], $4::jsonb, true),
		     question_status = jsonb_set(question_status, ARRAY[$2], $3::jsonb)
		 WHERE id = $1 AND submitted = FALSE`
		args = append(args, []byte(answer))
	}

	tag, err := r.pool.Exec(ctx, tagQuery, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Freeze flips submitted to true and stamps the end time. The transition
// is one-way: a second call matches zero rows and returns false.
func (r *ExamSessionRepository) Freeze(ctx context.Context, id uuid.UUID, end time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE exam_sessions
		 SET submitted = TRUE, end_time = $2
		 WHERE id = $1 AND submitted = FALSE`, id, end)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
