package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gatesim/gatesim-backend/internal/model"
	"github.com/gatesim/gatesim-backend/internal/response"
	"github.com/gatesim/gatesim-backend/internal/service"
	"github.com/gatesim/gatesim-backend/internal/validator"
)

// ExamConfigHandler handles exam configuration endpoints.
type ExamConfigHandler struct {
	configService *service.ExamConfigService
}

// NewExamConfigHandler creates a new ExamConfigHandler.
func NewExamConfigHandler(configService *service.ExamConfigService) *ExamConfigHandler {
	return &ExamConfigHandler{configService: configService}
}

// Create godoc
// POST /api/admin/exams
func (h *ExamConfigHandler) Create(c *gin.Context) {
	user := requestUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateExamConfigRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	cfg, err := h.configService.Create(c.Request.Context(), user.ID, &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"exam_config": cfg})
}

// List godoc
// GET /api/exams
// Available to every authenticated user; students pick an exam from here.
func (h *ExamConfigHandler) List(c *gin.Context) {
	configs, err := h.configService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exam_configs": configs})
}

// Delete godoc
// DELETE /api/admin/exams/:id
// Refused while unsubmitted sessions still reference the configuration.
func (h *ExamConfigHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.configService.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrConfigNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrConfigHasActiveSessions):
			response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
