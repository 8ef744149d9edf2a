package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gatesim/gatesim-backend/internal/model"
	"github.com/gatesim/gatesim-backend/internal/response"
	"github.com/gatesim/gatesim-backend/internal/service"
	"github.com/gatesim/gatesim-backend/internal/validator"
)

// SessionHandler handles the exam session lifecycle endpoints.
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// Start godoc
// POST /api/exam/start/:configId
// Starts a fresh attempt or resumes the caller's unsubmitted one.
func (h *SessionHandler) Start(c *gin.Context) {
	user := requestUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	configID, err := uuid.Parse(c.Param("configId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	session, err := h.sessionService.Start(c.Request.Context(), user.ID, configID)
	if err != nil {
		h.failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": session})
}

// Get godoc
// GET /api/exam/session/:sessionId
func (h *SessionHandler) Get(c *gin.Context) {
	user := requestUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sessionID, err := uuid.Parse(c.Param("sessionId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	session, err := h.sessionService.Get(c.Request.Context(), user.ID, sessionID)
	if err != nil {
		h.failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": session})
}

// GetQuestion godoc
// GET /api/exam/question/:sessionId/:index
// Returns the sanitized question at a zero-based index and marks it visited.
func (h *SessionHandler) GetQuestion(c *gin.Context) {
	user := requestUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sessionID, err := uuid.Parse(c.Param("sessionId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	view, err := h.sessionService.GetQuestion(c.Request.Context(), user.ID, sessionID, index)
	if err != nil {
		h.failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, view)
}

// RecordAnswer godoc
// POST /api/exam/answer/:sessionId
func (h *SessionHandler) RecordAnswer(c *gin.Context) {
	user := requestUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sessionID, err := uuid.Parse(c.Param("sessionId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.RecordAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.sessionService.RecordAnswer(c.Request.Context(), user.ID, sessionID, &req); err != nil {
		h.failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Submit godoc
// POST /api/exam/submit/:sessionId
// Freezes the session and returns the scored result. Idempotent.
func (h *SessionHandler) Submit(c *gin.Context) {
	user := requestUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sessionID, err := uuid.Parse(c.Param("sessionId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.sessionService.Submit(c.Request.Context(), user.ID, sessionID)
	if err != nil {
		h.failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// GetResult godoc
// GET /api/results/:sessionId
func (h *SessionHandler) GetResult(c *gin.Context) {
	user := requestUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sessionID, err := uuid.Parse(c.Param("sessionId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.sessionService.GetResult(c.Request.Context(), user.ID, sessionID)
	if err != nil {
		h.failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

func (h *SessionHandler) failSession(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrConfigNotFound), errors.Is(err, service.ErrSessionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrInsufficientQuestions):
		response.Fail(c, http.StatusBadRequest, response.ErrInsufficientQuestions)
	case errors.Is(err, service.ErrSessionSubmitted):
		response.Fail(c, http.StatusConflict, response.ErrSessionSubmitted)
	case errors.Is(err, service.ErrQuestionNotInSession):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
