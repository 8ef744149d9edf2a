package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gatesim/gatesim-backend/internal/config"
	"github.com/gatesim/gatesim-backend/internal/model"
	"github.com/gatesim/gatesim-backend/internal/repository"
)

var ErrConfigHasActiveSessions = errors.New("exam configuration has active sessions")

const configListCacheTTL = 5 * time.Minute

// ExamConfigService manages reusable exam blueprints.
type ExamConfigService struct {
	configRepo  *repository.ExamConfigRepository
	sessionRepo *repository.ExamSessionRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewExamConfigService creates a new ExamConfigService.
func NewExamConfigService(
	configRepo *repository.ExamConfigRepository,
	sessionRepo *repository.ExamSessionRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *ExamConfigService {
	return &ExamConfigService{
		configRepo:  configRepo,
		sessionRepo: sessionRepo,
		rdb:         rdb,
		log:         log.With().Str("component", "exam_config_service").Logger(),
	}
}

// Create persists a new exam configuration and invalidates the list cache.
func (s *ExamConfigService) Create(ctx context.Context, creatorID uuid.UUID, req *model.CreateExamConfigRequest) (*model.ExamConfig, error) {
	randomize := true // Default unless explicitly disabled.
	if req.RandomizeQuestions != nil {
		randomize = *req.RandomizeQuestions
	}

	cfg := &model.ExamConfig{
		Name:               req.Name,
		Description:        req.Description,
		DurationMinutes:    req.DurationMinutes,
		TotalQuestions:     req.TotalQuestions,
		Subjects:           req.Subjects,
		QuestionTypes:      req.QuestionTypes,
		RandomizeQuestions: randomize,
		CreatedBy:          creatorID,
	}

	if err := s.configRepo.Create(ctx, cfg); err != nil {
		return nil, fmt.Errorf("create config: %w", err)
	}

	s.invalidateListCache(ctx)
	return cfg, nil
}

// Get returns a single configuration.
func (s *ExamConfigService) Get(ctx context.Context, id uuid.UUID) (*model.ExamConfig, error) {
	cfg, err := s.configRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("get config: %w", err)
	}
	return cfg, nil
}

// List returns all configurations, served from the Redis cache when warm.
func (s *ExamConfigService) List(ctx context.Context) ([]model.ExamConfig, error) {
	key := config.CacheKey.ExamConfigListKey()

	if cached, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
		var configs []model.ExamConfig
		if err := json.Unmarshal(cached, &configs); err == nil {
			return configs, nil
		}
	}

	configs, err := s.configRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list configs: %w", err)
	}

	if payload, err := json.Marshal(configs); err == nil {
		if err := s.rdb.Set(ctx, key, payload, configListCacheTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("Failed to cache exam config list")
		}
	}
	return configs, nil
}

// Delete removes a configuration unless unsubmitted sessions still
// reference it.
func (s *ExamConfigService) Delete(ctx context.Context, id uuid.UUID) error {
	active, err := s.sessionRepo.CountActiveByConfig(ctx, id)
	if err != nil {
		return fmt.Errorf("count active sessions: %w", err)
	}
	if active > 0 {
		return ErrConfigHasActiveSessions
	}

	deleted, err := s.configRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete config: %w", err)
	}
	if !deleted {
		return ErrConfigNotFound
	}

	s.invalidateListCache(ctx)
	return nil
}

func (s *ExamConfigService) invalidateListCache(ctx context.Context) {
	if err := s.rdb.Del(ctx, config.CacheKey.ExamConfigListKey()).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Failed to invalidate exam config list cache")
	}
}
