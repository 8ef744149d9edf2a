package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/gatesim/gatesim-backend/internal/model"
	"github.com/gatesim/gatesim-backend/internal/repository"
	"github.com/gatesim/gatesim-backend/internal/scoring"
)

// Domain errors.
var (
	ErrConfigNotFound        = errors.New("exam configuration not found")
	ErrSessionNotFound       = errors.New("exam session not found")
	ErrSessionSubmitted      = errors.New("exam session already submitted")
	ErrInsufficientQuestions = errors.New("not enough questions for this exam")
	ErrQuestionNotInSession  = errors.New("question does not belong to this session")
)

// SessionService orchestrates the exam session lifecycle: start/resume,
// question navigation, answer recording, and synchronous submit+score.
type SessionService struct {
	sessionRepo  *repository.ExamSessionRepository
	configRepo   *repository.ExamConfigRepository
	questionRepo *repository.QuestionRepository
	resultRepo   *repository.ExamResultRepository
	log          zerolog.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	sessionRepo *repository.ExamSessionRepository,
	configRepo *repository.ExamConfigRepository,
	questionRepo *repository.QuestionRepository,
	resultRepo *repository.ExamResultRepository,
	log zerolog.Logger,
) *SessionService {
	return &SessionService{
		sessionRepo:  sessionRepo,
		configRepo:   configRepo,
		questionRepo: questionRepo,
		resultRepo:   resultRepo,
		log:          log.With().Str("component", "session_service").Logger(),
	}
}

// Start resumes the user's unsubmitted session for the config if one
// exists; otherwise it samples a fresh question set and creates one.
func (s *SessionService) Start(ctx context.Context, userID, configID uuid.UUID) (*model.ExamSession, error) {
	existing, err := s.sessionRepo.GetActive(ctx, userID, configID)
	if err == nil {
		return existing, nil // Idempotent resume.
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check existing session: %w", err)
	}

	cfg, err := s.configRepo.GetByID(ctx, configID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("get config: %w", err)
	}

	pool, err := s.questionRepo.ListBySubjects(ctx, cfg.Subjects, cfg.QuestionTypes)
	if err != nil {
		return nil, fmt.Errorf("load question pool: %w", err)
	}

	selected, err := samplePool(pool, cfg.TotalQuestions, cfg.RandomizeQuestions)
	if err != nil {
		return nil, err
	}

	session := &model.ExamSession{
		UserID:         userID,
		ExamConfigID:   configID,
		Questions:      selected,
		Answers:        map[string]json.RawMessage{},
		QuestionStatus: make(map[string]model.QuestionStatus, len(selected)),
	}
	for i, qid := range selected {
		if i == 0 {
			session.QuestionStatus[qid.String()] = model.StatusNotAnswered
		} else {
			session.QuestionStatus[qid.String()] = model.StatusNotVisited
		}
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Concurrent start for the same (user, config): the partial
			// unique index lost the race for us, so resume the winner.
			return s.sessionRepo.GetActive(ctx, userID, configID)
		}
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.log.Info().
		Str("session_id", session.ID.String()).
		Str("config_id", configID.String()).
		Int("questions", len(selected)).
		Msg("Exam session started")

	return session, nil
}

// samplePool deduplicates by normalized question text (first occurrence
// wins) and selects n questions, uniformly without replacement when
// randomize is set, else in store order.
func samplePool(pool []model.Question, n int, randomize bool) ([]uuid.UUID, error) {
	seen := make(map[string]struct{}, len(pool))
	var deduped []uuid.UUID
	for i := range pool {
		key := model.NormalizeText(pool[i].QuestionText)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, pool[i].ID)
	}

	if len(deduped) < n {
		return nil, ErrInsufficientQuestions
	}

	if randomize {
		rand.Shuffle(len(deduped), func(i, j int) {
			deduped[i], deduped[j] = deduped[j], deduped[i]
		})
	}
	return deduped[:n], nil
}

// Get returns the raw session for its owner.
func (s *SessionService) Get(ctx context.Context, userID, sessionID uuid.UUID) (*model.ExamSession, error) {
	session, err := s.sessionRepo.GetByOwner(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// GetQuestion fetches the question at index with answer fields stripped,
// transitions its status from not_visited and moves the cursor. This is
// the only path through which visited state changes.
func (s *SessionService) GetQuestion(ctx context.Context, userID, sessionID uuid.UUID, index int) (*model.QuestionView, error) {
	session, err := s.Get(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Submitted {
		return nil, ErrSessionNotFound
	}
	if index < 0 || index >= len(session.Questions) {
		return nil, ErrSessionNotFound
	}

	qid := session.Questions[index]
	question, err := s.questionRepo.GetByID(ctx, qid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound // Deleted behind the session's back.
		}
		return nil, fmt.Errorf("get question: %w", err)
	}

	if _, err := s.sessionRepo.VisitQuestion(ctx, session.ID, index, qid); err != nil {
		return nil, fmt.Errorf("visit question: %w", err)
	}

	return &model.QuestionView{
		Question:       question.Sanitize(),
		QuestionNumber: index + 1,
		TotalQuestions: len(session.Questions),
		CurrentAnswer:  session.Answers[qid.String()],
	}, nil
}

// RecordAnswer upserts one answer and status. The question id must be
// part of the session's fixed sequence; answer shape is not validated
// here — scoring interprets it.
func (s *SessionService) RecordAnswer(ctx context.Context, userID, sessionID uuid.UUID, req *model.RecordAnswerRequest) error {
	session, err := s.Get(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if session.Submitted {
		return ErrSessionSubmitted
	}
	if !session.HasQuestion(req.QuestionID) {
		return ErrQuestionNotInSession
	}

	status := req.Status
	if status == "" {
		status = model.StatusAnswered
	}

	answer := req.Answer
	if status == model.StatusNotAnswered {
		answer = nil // Explicit clear-response.
	}

	ok, err := s.sessionRepo.UpsertAnswer(ctx, session.ID, req.QuestionID, answer, status)
	if err != nil {
		return fmt.Errorf("upsert answer: %w", err)
	}
	if !ok {
		return ErrSessionSubmitted // Frozen between our read and write.
	}
	return nil
}

// Submit freezes the session and scores it. Idempotent: a second call
// returns the stored result unchanged.
func (s *SessionService) Submit(ctx context.Context, userID, sessionID uuid.UUID) (*model.ExamResult, error) {
	session, err := s.Get(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Submitted {
		return s.getExistingResult(ctx, userID, sessionID)
	}

	end := time.Now().UTC()
	froze, err := s.sessionRepo.Freeze(ctx, session.ID, end)
	if err != nil {
		return nil, fmt.Errorf("freeze session: %w", err)
	}
	if !froze {
		// Concurrent submit won; return its result.
		return s.getExistingResult(ctx, userID, sessionID)
	}

	// Re-read after the freeze: an answer written between our first read
	// and the freeze is durable and must be scored.
	session, err = s.Get(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.GetByIDs(ctx, session.Questions)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	result := scoring.Score(session, questions, end)

	if err := s.resultRepo.Create(ctx, result); err != nil {
		if errors.Is(err, repository.ErrResultExists) {
			return s.getExistingResult(ctx, userID, sessionID)
		}
		return nil, fmt.Errorf("persist result: %w", err)
	}

	s.log.Info().
		Str("session_id", sessionID.String()).
		Float64("score", result.Score).
		Int("correct", result.Correct).
		Msg("Exam session submitted and scored")

	return result, nil
}

// GetResult fetches the stored result for a submitted session.
func (s *SessionService) GetResult(ctx context.Context, userID, sessionID uuid.UUID) (*model.ExamResult, error) {
	return s.getExistingResult(ctx, userID, sessionID)
}

func (s *SessionService) getExistingResult(ctx context.Context, userID, sessionID uuid.UUID) (*model.ExamResult, error) {
	result, err := s.resultRepo.GetBySession(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get result: %w", err)
	}
	return result, nil
}
