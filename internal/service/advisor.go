package service

import (
	"context"
	"errors"

	"github.com/gatesim/gatesim-backend/internal/model"
)

// ErrAdvisorUnavailable is returned when no AI backend is configured.
var ErrAdvisorUnavailable = errors.New("AI advisory is not available")

// Advisor provides AI-assisted study features. Its answers are advisory
// only; scoring and session state never depend on it.
type Advisor interface {
	GenerateExplanation(ctx context.Context, req *model.ExplainRequest) (string, error)
	Categorize(ctx context.Context, req *model.CategorizeRequest) (string, error)
	Enhance(ctx context.Context, req *model.EnhanceRequest) (string, error)
	Ask(ctx context.Context, req *model.AskRequest) (string, error)
	Generate(ctx context.Context, req *model.GenerateRequest) (string, error)
	Analyze(ctx context.Context, req *model.AnalyzeRequest) (string, error)
}

// NoopAdvisor is wired when no API key is present. Every call reports
// the capability as unavailable.
type NoopAdvisor struct{}

func (NoopAdvisor) GenerateExplanation(context.Context, *model.ExplainRequest) (string, error) {
	return "", ErrAdvisorUnavailable
}

func (NoopAdvisor) Categorize(context.Context, *model.CategorizeRequest) (string, error) {
	return "", ErrAdvisorUnavailable
}

func (NoopAdvisor) Enhance(context.Context, *model.EnhanceRequest) (string, error) {
	return "", ErrAdvisorUnavailable
}

func (NoopAdvisor) Ask(context.Context, *model.AskRequest) (string, error) {
	return "", ErrAdvisorUnavailable
}

func (NoopAdvisor) Generate(context.Context, *model.GenerateRequest) (string, error) {
	return "", ErrAdvisorUnavailable
}

func (NoopAdvisor) Analyze(context.Context, *model.AnalyzeRequest) (string, error) {
	return "", ErrAdvisorUnavailable
}
