package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gatesim/gatesim-backend/internal/middleware"
	"github.com/gatesim/gatesim-backend/internal/model"
	"github.com/gatesim/gatesim-backend/internal/response"
	"github.com/gatesim/gatesim-backend/internal/service"
	"github.com/gatesim/gatesim-backend/internal/validator"
)

// QuestionHandler handles question bank endpoints.
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// requestUser builds the acting user from validated claims. Ownership
// and sharing checks only need id, email and role.
func requestUser(c *gin.Context) *model.User {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return nil
	}
	return &model.User{ID: claims.UserID, Email: claims.Email, Role: claims.Role}
}

// Create godoc
// POST /api/admin/questions
func (h *QuestionHandler) Create(c *gin.Context) {
	user := requestUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.Create(c.Request.Context(), user.ID, &req)
	if err != nil {
		h.failQuestion(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

// List godoc
// GET /api/questions (own + shared), GET /api/admin/questions (whole bank)
func (h *QuestionHandler) List(c *gin.Context) {
	user := requestUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	questions, total, err := h.questionService.List(c.Request.Context(), user, c.Query("subject"), perPage, (page-1)*perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"questions": questions},
		response.NewPagination(page, perPage, total))
}

// Get godoc
// GET /api/questions/:id
func (h *QuestionHandler) Get(c *gin.Context) {
	user := requestUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	question, err := h.questionService.Get(c.Request.Context(), user, id)
	if err != nil {
		h.failQuestion(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"question": question})
}

// Update godoc
// PUT /api/questions/:id
func (h *QuestionHandler) Update(c *gin.Context) {
	user := requestUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.Update(c.Request.Context(), user, id, &req)
	if err != nil {
		h.failQuestion(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"question": question})
}

// Delete godoc
// DELETE /api/admin/questions/:id
func (h *QuestionHandler) Delete(c *gin.Context) {
	user := requestUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.questionService.Delete(c.Request.Context(), user, id); err != nil {
		h.failQuestion(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Share godoc
// POST /api/questions/:id/share
// Replaces the question's read-only recipient email list.
func (h *QuestionHandler) Share(c *gin.Context) {
	user := requestUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.ShareQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.questionService.Share(c.Request.Context(), user, id, req.Emails); err != nil {
		h.failQuestion(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"shared_with": req.Emails})
}

// CreateShareLink godoc
// POST /api/questions/:id/share-link
// Mints a time-limited token anyone can redeem for the sanitized question.
func (h *QuestionHandler) CreateShareLink(c *gin.Context) {
	user := requestUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	token, err := h.questionService.CreateShareLink(c.Request.Context(), user, id)
	if err != nil {
		h.failQuestion(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"token": token})
}

// ResolveShared godoc
// GET /api/shared/:token
// Public: resolves a live share token to the sanitized question.
func (h *QuestionHandler) ResolveShared(c *gin.Context) {
	question, err := h.questionService.ResolveShareToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, service.ErrShareTokenInvalid) {
			response.Fail(c, http.StatusNotFound, response.ErrInvalidShareToken)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"question": question})
}

func (h *QuestionHandler) failQuestion(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrQuestionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrDuplicateQuestion):
		response.Fail(c, http.StatusConflict, response.ErrDuplicateQuestion)
	case errors.Is(err, service.ErrNotQuestionOwner):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, model.ErrMCQShape), errors.Is(err, model.ErrMSQShape), errors.Is(err, model.ErrNATShape):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
