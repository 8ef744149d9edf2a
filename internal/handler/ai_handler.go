package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gatesim/gatesim-backend/internal/model"
	"github.com/gatesim/gatesim-backend/internal/response"
	"github.com/gatesim/gatesim-backend/internal/service"
	"github.com/gatesim/gatesim-backend/internal/validator"
)

// AIHandler exposes the advisory endpoints. All of them are best-effort
// pass-throughs; exam state never depends on their answers.
type AIHandler struct {
	advisor service.Advisor
}

// NewAIHandler creates a new AIHandler.
func NewAIHandler(advisor service.Advisor) *AIHandler {
	return &AIHandler{advisor: advisor}
}

// Explain godoc
// POST /api/ai/explain
func (h *AIHandler) Explain(c *gin.Context) {
	var req model.ExplainRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	text, err := h.advisor.GenerateExplanation(c.Request.Context(), &req)
	if err != nil {
		h.failAdvisory(c, err)
		return
	}
	response.Success(c, http.StatusOK, model.AdvisorResponse{Text: text})
}

// Categorize godoc
// POST /api/ai/categorize
func (h *AIHandler) Categorize(c *gin.Context) {
	var req model.CategorizeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	text, err := h.advisor.Categorize(c.Request.Context(), &req)
	if err != nil {
		h.failAdvisory(c, err)
		return
	}
	response.Success(c, http.StatusOK, model.AdvisorResponse{Text: text})
}

// Enhance godoc
// POST /api/ai/enhance
func (h *AIHandler) Enhance(c *gin.Context) {
	var req model.EnhanceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	text, err := h.advisor.Enhance(c.Request.Context(), &req)
	if err != nil {
		h.failAdvisory(c, err)
		return
	}
	response.Success(c, http.StatusOK, model.AdvisorResponse{Text: text})
}

// Ask godoc
// POST /api/ai/ask
func (h *AIHandler) Ask(c *gin.Context) {
	var req model.AskRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	text, err := h.advisor.Ask(c.Request.Context(), &req)
	if err != nil {
		h.failAdvisory(c, err)
		return
	}
	response.Success(c, http.StatusOK, model.AdvisorResponse{Text: text})
}

// Generate godoc
// POST /api/ai/generate
func (h *AIHandler) Generate(c *gin.Context) {
	var req model.GenerateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	text, err := h.advisor.Generate(c.Request.Context(), &req)
	if err != nil {
		h.failAdvisory(c, err)
		return
	}
	response.Success(c, http.StatusOK, model.AdvisorResponse{Text: text})
}

// Analyze godoc
// POST /api/ai/analyze
func (h *AIHandler) Analyze(c *gin.Context) {
	var req model.AnalyzeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	text, err := h.advisor.Analyze(c.Request.Context(), &req)
	if err != nil {
		h.failAdvisory(c, err)
		return
	}
	response.Success(c, http.StatusOK, model.AdvisorResponse{Text: text})
}

func (h *AIHandler) failAdvisory(c *gin.Context, err error) {
	if errors.Is(err, service.ErrAdvisorUnavailable) {
		response.Fail(c, http.StatusServiceUnavailable, response.ErrAIUnavailable)
		return
	}
	response.Fail(c, http.StatusBadGateway, response.ErrAIUnavailable)
}
