package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gatesim/gatesim-backend/internal/config"
	"github.com/gatesim/gatesim-backend/internal/model"
	"github.com/gatesim/gatesim-backend/internal/repository"
)

var (
	ErrQuestionNotFound  = errors.New("question not found")
	ErrDuplicateQuestion = errors.New("an identical question already exists for this subject and topic")
	ErrNotQuestionOwner  = errors.New("question belongs to another user")
	ErrShareTokenInvalid = errors.New("share token is invalid or expired")
)

// QuestionService manages the question bank: CRUD with duplicate
// detection, owner-scoped access, and email/token based sharing.
type QuestionService struct {
	cfg          *config.Config
	questionRepo *repository.QuestionRepository
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(cfg *config.Config, questionRepo *repository.QuestionRepository, rdb *redis.Client, log zerolog.Logger) *QuestionService {
	return &QuestionService{
		cfg:          cfg,
		questionRepo: questionRepo,
		rdb:          rdb,
		log:          log.With().Str("component", "question_service").Logger(),
	}
}

// Create validates the per-type shape, rejects duplicates within the
// same subject and topic, and persists the question.
func (s *QuestionService) Create(ctx context.Context, creatorID uuid.UUID, req *model.CreateQuestionRequest) (*model.Question, error) {
	q := &model.Question{
		QuestionText:  req.QuestionText,
		QuestionType:  model.QuestionType(req.QuestionType),
		Subject:       req.Subject,
		Topic:         req.Topic,
		Difficulty:    req.Difficulty,
		Marks:         req.Marks,
		NegativeMarks: req.NegativeMarks,
		Options:       buildOptions(req.Options),
		CorrectAnswer: req.CorrectAnswer,
		Explanation:   req.Explanation,
		CreatedBy:     creatorID,
	}

	if err := q.ValidateShape(); err != nil {
		return nil, err
	}

	dup, err := s.questionRepo.ExistsDuplicate(ctx, model.NormalizeText(q.QuestionText), q.Subject, q.Topic, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}
	if dup {
		return nil, ErrDuplicateQuestion
	}

	if err := s.questionRepo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return q, nil
}

func buildOptions(reqs []model.CreateOptionRequest) []model.QuestionOption {
	if len(reqs) == 0 {
		return nil
	}
	opts := make([]model.QuestionOption, len(reqs))
	for i, o := range reqs {
		opts[i] = model.QuestionOption{ID: uuid.New(), Text: o.Text, IsCorrect: o.IsCorrect}
	}
	return opts
}

// Get returns a question if the user owns it, it was shared with their
// email, or they are an admin.
func (s *QuestionService) Get(ctx context.Context, user *model.User, id uuid.UUID) (*model.Question, error) {
	q, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canRead(q, user) {
		return nil, ErrQuestionNotFound
	}
	return q, nil
}

// List returns questions the user can see. Admins see the whole bank.
func (s *QuestionService) List(ctx context.Context, user *model.User, subject string, limit, offset int) ([]model.Question, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if user.Role == model.RoleAdmin {
		return s.questionRepo.List(ctx, subject, limit, offset)
	}
	return s.questionRepo.ListAccessible(ctx, user.ID, user.Email, subject, limit, offset)
}

// Update applies the provided fields and revalidates shape and
// duplicates. Only the owner or an admin may update.
func (s *QuestionService) Update(ctx context.Context, user *model.User, id uuid.UUID, req *model.UpdateQuestionRequest) (*model.Question, error) {
	q, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(q, user) {
		return nil, ErrNotQuestionOwner
	}

	if req.QuestionText != nil {
		q.QuestionText = *req.QuestionText
	}
	if req.Subject != nil {
		q.Subject = *req.Subject
	}
	if req.Topic != nil {
		q.Topic = *req.Topic
	}
	if req.Difficulty != nil {
		q.Difficulty = *req.Difficulty
	}
	if req.Marks != nil {
		q.Marks = *req.Marks
	}
	if req.NegativeMarks != nil {
		q.NegativeMarks = *req.NegativeMarks
	}
	if req.Options != nil {
		q.Options = buildOptions(req.Options)
	}
	if req.CorrectAnswer != nil {
		q.CorrectAnswer = *req.CorrectAnswer
	}
	if req.Explanation != nil {
		q.Explanation = *req.Explanation
	}

	if err := q.ValidateShape(); err != nil {
		return nil, err
	}

	dup, err := s.questionRepo.ExistsDuplicate(ctx, model.NormalizeText(q.QuestionText), q.Subject, q.Topic, q.ID)
	if err != nil {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}
	if dup {
		return nil, ErrDuplicateQuestion
	}

	if err := s.questionRepo.Update(ctx, q); err != nil {
		return nil, fmt.Errorf("update question: %w", err)
	}
	return q, nil
}

// Delete removes a question. Sessions referencing it keep running;
// scoring skips what it cannot resolve.
func (s *QuestionService) Delete(ctx context.Context, user *model.User, id uuid.UUID) error {
	q, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(q, user) {
		return ErrNotQuestionOwner
	}

	deleted, err := s.questionRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if !deleted {
		return ErrQuestionNotFound
	}
	return nil
}

// Share replaces the question's read-only recipient email list.
func (s *QuestionService) Share(ctx context.Context, user *model.User, id uuid.UUID, emails []string) error {
	q, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(q, user) {
		return ErrNotQuestionOwner
	}

	if err := s.questionRepo.SetSharedWith(ctx, id, emails); err != nil {
		return fmt.Errorf("set shared_with: %w", err)
	}

	s.log.Info().
		Str("question_id", id.String()).
		Int("recipients", len(emails)).
		Msg("Question shared")
	return nil
}

// CreateShareLink mints an opaque token that resolves to the sanitized
// question until its TTL expires.
func (s *QuestionService) CreateShareLink(ctx context.Context, user *model.User, id uuid.UUID) (string, error) {
	q, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	if !canModify(q, user) {
		return "", ErrNotQuestionOwner
	}

	token := uuid.NewString()
	err = s.rdb.Set(ctx, config.CacheKey.ShareTokenKey(token), id.String(), s.cfg.ShareTokenTTL).Err()
	if err != nil {
		return "", fmt.Errorf("store share token: %w", err)
	}
	return token, nil
}

// ResolveShareToken returns the sanitized question behind a live token.
// No authentication is required on this path.
func (s *QuestionService) ResolveShareToken(ctx context.Context, token string) (*model.SanitizedQuestion, error) {
	raw, err := s.rdb.Get(ctx, config.CacheKey.ShareTokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrShareTokenInvalid
		}
		return nil, fmt.Errorf("resolve share token: %w", err)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, ErrShareTokenInvalid
	}

	q, err := s.load(ctx, id)
	if err != nil {
		if errors.Is(err, ErrQuestionNotFound) {
			return nil, ErrShareTokenInvalid // Deleted after sharing.
		}
		return nil, err
	}

	view := q.Sanitize()
	return &view, nil
}

func (s *QuestionService) load(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	q, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("get question: %w", err)
	}
	return q, nil
}

func canModify(q *model.Question, user *model.User) bool {
	return user.Role == model.RoleAdmin || q.CreatedBy == user.ID
}

func canRead(q *model.Question, user *model.User) bool {
	if canModify(q, user) {
		return true
	}
	for _, email := range q.SharedWith {
		if email == user.Email {
			return true
		}
	}
	return false
}
