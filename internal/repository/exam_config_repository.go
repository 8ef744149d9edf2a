package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/gatesim/gatesim-backend/internal/model"
)

// ExamConfigRepository handles exam configuration data access.
type ExamConfigRepository struct {
	pool *pgxpool.Pool
}

// NewExamConfigRepository creates a new ExamConfigRepository.
func NewExamConfigRepository(pool *pgxpool.Pool) *ExamConfigRepository {
	return &ExamConfigRepository{pool: pool}
}

// Create inserts a new exam configuration.
func (r *ExamConfigRepository) Create(ctx context.Context, c *model.ExamConfig) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO exam_configs
		   (name, description, duration_minutes, total_questions, subjects,
		    question_types, randomize_questions, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		c.Name, c.Description, c.DurationMinutes, c.TotalQuestions, textArray(c.Subjects),
		textArray(c.QuestionTypes), c.RandomizeQuestions, c.CreatedBy,
	).Scan(&c.ID, &c.CreatedAt)
}

// GetByID retrieves an exam configuration.
func (r *ExamConfigRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ExamConfig, error) {
	c := &model.ExamConfig{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, duration_minutes, total_questions, subjects,
		        question_types, randomize_questions, created_by, created_at
		 FROM exam_configs WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.DurationMinutes, &c.TotalQuestions,
		&c.Subjects, &c.QuestionTypes, &c.RandomizeQuestions, &c.CreatedBy, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List retrieves all exam configurations, newest first.
func (r *ExamConfigRepository) List(ctx context.Context) ([]model.ExamConfig, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, duration_minutes, total_questions, subjects,
		        question_types, randomize_questions, created_by, created_at
		 FROM exam_configs
		 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []model.ExamConfig
	for rows.Next() {
		var c model.ExamConfig
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.DurationMinutes,
			&c.TotalQuestions, &c.Subjects, &c.QuestionTypes, &c.RandomizeQuestions,
			&c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

// Delete removes an exam configuration.
func (r *ExamConfigRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM exam_configs WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
