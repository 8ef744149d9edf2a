package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/gatesim/gatesim-backend/internal/model"
)

// GeminiAdvisor implements Advisor on top of the Gemini API with a
// token-bucket cap on concurrent requests.
type GeminiAdvisor struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	rateChan chan struct{}
	log      zerolog.Logger
}

// NewGeminiAdvisor creates a Gemini-backed advisor.
func NewGeminiAdvisor(ctx context.Context, apiKey, modelName string, concurrentReqs int, log zerolog.Logger) (*GeminiAdvisor, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	m := client.GenerativeModel(modelName)
	m.SetTemperature(0.3)
	m.SetTopP(0.95)

	if concurrentReqs < 1 {
		concurrentReqs = 1
	}
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiAdvisor{
		client:   client,
		model:    m,
		rateChan: rateChan,
		log:      log.With().Str("component", "gemini_advisor").Logger(),
	}, nil
}

// Close releases the underlying API client.
func (a *GeminiAdvisor) Close() {
	a.client.Close()
}

func (a *GeminiAdvisor) acquireRate(ctx context.Context) error {
	select {
	case <-a.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(2 * time.Minute):
		return fmt.Errorf("timeout waiting for gemini rate slot")
	}
}

func (a *GeminiAdvisor) releaseRate() {
	a.rateChan <- struct{}{}
}

func (a *GeminiAdvisor) complete(ctx context.Context, prompt string) (string, error) {
	if err := a.acquireRate(ctx); err != nil {
		return "", err
	}
	defer a.releaseRate()

	resp, err := a.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		a.log.Error().Err(err).Msg("Gemini request failed")
		return "", fmt.Errorf("gemini: %w", err)
	}

	text := extractText(resp)
	if text == "" {
		return "", fmt.Errorf("gemini: empty response")
	}
	return text, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
	}
	return strings.TrimSpace(sb.String())
}

func (a *GeminiAdvisor) GenerateExplanation(ctx context.Context, req *model.ExplainRequest) (string, error) {
	var sb strings.Builder
	sb.WriteString("Explain the following exam question step by step for a student preparing for a competitive engineering exam.\n\n")
	if req.Subject != "" {
		fmt.Fprintf(&sb, "Subject: %s\n", req.Subject)
	}
	fmt.Fprintf(&sb, "Question: %s\n", req.QuestionText)
	for i, opt := range req.Options {
		fmt.Fprintf(&sb, "Option %d: %s\n", i+1, opt)
	}
	if req.CorrectAnswer != "" {
		fmt.Fprintf(&sb, "Correct answer: %s\n", req.CorrectAnswer)
	}
	sb.WriteString("\nWalk through the reasoning, then state why the correct answer is correct and the others are not.")
	return a.complete(ctx, sb.String())
}

func (a *GeminiAdvisor) Categorize(ctx context.Context, req *model.CategorizeRequest) (string, error) {
	prompt := fmt.Sprintf(
		"Classify this exam question. Reply with JSON containing subject, topic and difficulty (easy, medium or hard), nothing else.\n\nQuestion: %s",
		req.QuestionText)
	return a.complete(ctx, prompt)
}

func (a *GeminiAdvisor) Enhance(ctx context.Context, req *model.EnhanceRequest) (string, error) {
	prompt := fmt.Sprintf(
		"Reword the following exam question so it is clearer and unambiguous, without changing its meaning or answer. Reply with the improved question text only.\n\nQuestion: %s",
		req.QuestionText)
	return a.complete(ctx, prompt)
}

func (a *GeminiAdvisor) Ask(ctx context.Context, req *model.AskRequest) (string, error) {
	var sb strings.Builder
	sb.WriteString("You are a study assistant for competitive engineering exams. Answer the student's question concisely.\n\n")
	if req.Context != "" {
		fmt.Fprintf(&sb, "Context:\n%s\n\n", req.Context)
	}
	fmt.Fprintf(&sb, "Question: %s", req.Prompt)
	return a.complete(ctx, sb.String())
}

func (a *GeminiAdvisor) Generate(ctx context.Context, req *model.GenerateRequest) (string, error) {
	count := req.Count
	if count == 0 {
		count = 1
	}
	qType := req.QuestionType
	if qType == "" {
		qType = "MCQ"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate %d %s practice question(s) for subject %q", count, qType, req.Subject)
	if req.Topic != "" {
		fmt.Fprintf(&sb, ", topic %q", req.Topic)
	}
	if req.Difficulty != "" {
		fmt.Fprintf(&sb, ", difficulty %s", req.Difficulty)
	}
	sb.WriteString(". Reply with a JSON array where each element has question_text, options (with is_correct flags, empty for NAT), correct_answer and explanation.")
	return a.complete(ctx, sb.String())
}

func (a *GeminiAdvisor) Analyze(ctx context.Context, req *model.AnalyzeRequest) (string, error) {
	var sb strings.Builder
	sb.WriteString("A student finished a mock exam. Analyze their performance and suggest what to focus on next.\n\n")
	fmt.Fprintf(&sb, "Total questions: %d, correct: %d, incorrect: %d, score: %.2f, percentage: %.1f%%\n",
		req.TotalQuestions, req.Correct, req.Incorrect, req.Score, req.Percentage)

	subjects := make([]string, 0, len(req.SubjectScores))
	for subject := range req.SubjectScores {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)
	for _, subject := range subjects {
		ss := req.SubjectScores[subject]
		fmt.Fprintf(&sb, "%s: %d/%d correct, %d attempted\n", subject, ss.Correct, ss.Total, ss.Attempted)
	}
	return a.complete(ctx, sb.String())
}
