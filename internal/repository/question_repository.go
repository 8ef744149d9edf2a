package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/gatesim/gatesim-backend/internal/model"
)

// QuestionRepository handles question bank data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

const questionColumns = `id, question_text, question_type, subject, topic, difficulty,
	marks, negative_marks, options, correct_answer, explanation, created_by, shared_with, created_at`

func scanQuestion(row interface{ Scan(...any) error }) (*model.Question, error) {
	q := &model.Question{}
	err := row.Scan(
		&q.ID, &q.QuestionText, &q.QuestionType, &q.Subject, &q.Topic, &q.Difficulty,
		&q.Marks, &q.NegativeMarks, &q.Options, &q.CorrectAnswer, &q.Explanation,
		&q.CreatedBy, &q.SharedWith, &q.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// Create inserts a new question with its precomputed normalized text.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions
		   (question_text, normalized_text, question_type, subject, topic, difficulty,
		    marks, negative_marks, options, correct_answer, explanation, created_by, shared_with)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id, created_at`,
		q.QuestionText, model.NormalizeText(q.QuestionText), q.QuestionType, q.Subject, q.Topic,
		q.Difficulty, q.Marks, q.NegativeMarks, q.Options, q.CorrectAnswer, q.Explanation,
		q.CreatedBy, textArray(q.SharedWith),
	).Scan(&q.ID, &q.CreatedAt)
}

// GetByID retrieves a single question.
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = $1`, id)
	return scanQuestion(row)
}

// ExistsDuplicate reports whether a question with the same normalized
// text, subject and topic already exists (excluding excludeID, which may
// be uuid.Nil for creates).
func (r *QuestionRepository) ExistsDuplicate(ctx context.Context, normalizedText, subject, topic string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM questions
		   WHERE normalized_text = $1 AND lower(subject) = lower($2) AND lower(topic) = lower($3)
		     AND id <> $4
		 )`, normalizedText, subject, topic, excludeID,
	).Scan(&exists)
	return exists, err
}

// List retrieves questions with an optional subject filter, paginated.
func (r *QuestionRepository) List(ctx context.Context, subject string, limit, offset int) ([]model.Question, int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM questions WHERE ($1 = '' OR subject = $1)`, subject,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+`
		 FROM questions
		 WHERE ($1 = '' OR subject = $1)
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`, subject, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, 0, err
		}
		questions = append(questions, *q)
	}
	return questions, total, rows.Err()
}

// ListAccessible retrieves questions the user owns plus those shared
// with their email, with an optional subject filter, paginated.
func (r *QuestionRepository) ListAccessible(ctx context.Context, userID uuid.UUID, email, subject string, limit, offset int) ([]model.Question, int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM questions
		 WHERE (created_by = $1 OR $2 = ANY(shared_with))
		   AND ($3 = '' OR subject = $3)`, userID, email, subject,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+`
		 FROM questions
		 WHERE (created_by = $1 OR $2 = ANY(shared_with))
		   AND ($3 = '' OR subject = $3)
		 ORDER BY created_at DESC
		 LIMIT $4 OFFSET $5`, userID, email, subject, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, 0, err
		}
		questions = append(questions, *q)
	}
	return questions, total, rows.Err()
}

// ListBySubjects retrieves the full question pool matching the given
// subjects and, when non-empty, question types. Store order (created_at)
// is the non-randomized sampling order.
func (r *QuestionRepository) ListBySubjects(ctx context.Context, subjects, types []string) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+`
		 FROM questions
		 WHERE subject = ANY($1)
		   AND (cardinality($2::text[]) = 0 OR question_type = ANY($2))
		 ORDER BY created_at ASC`, subjects, types)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

// GetByIDs retrieves the questions for the given ids. Missing ids are
// simply absent from the result; callers tolerate deleted questions.
func (r *QuestionRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make(map[uuid.UUID]*model.Question)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		found[q.ID] = q
	}
	return found, rows.Err()
}

// Update rewrites a question (full row, normalized text recomputed).
func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE questions
		 SET question_text = $1, normalized_text = $2, subject = $3, topic = $4,
		     difficulty = $5, marks = $6, negative_marks = $7, options = $8,
		     correct_answer = $9, explanation = $10
		 WHERE id = $11`,
		q.QuestionText, model.NormalizeText(q.QuestionText), q.Subject, q.Topic,
		q.Difficulty, q.Marks, q.NegativeMarks, q.Options, q.CorrectAnswer,
		q.Explanation, q.ID)
	return err
}

// SetSharedWith replaces the read-only recipient list.
func (r *QuestionRepository) SetSharedWith(ctx context.Context, id uuid.UUID, emails []string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE questions SET shared_with = $1 WHERE id = $2`, textArray(emails), id)
	return err
}

// textArray guards TEXT[] parameters against nil slices, which pgx would
// encode as SQL NULL and trip the NOT NULL constraints.
func textArray(a []string) []string {
	if a == nil {
		return []string{}
	}
	return a
}

// Delete removes a question. Historical sessions keep their dangling
// references; scoring skips ids it cannot resolve.
func (r *QuestionRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
