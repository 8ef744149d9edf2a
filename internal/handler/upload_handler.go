package handler

import (
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gatesim/gatesim-backend/internal/config"
	"github.com/gatesim/gatesim-backend/internal/response"
	"github.com/gatesim/gatesim-backend/internal/service"
)

// UploadHandler handles CSV bulk import and PDF extraction endpoints.
type UploadHandler struct {
	cfg           *config.Config
	importService *service.ImportService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(cfg *config.Config, importService *service.ImportService) *UploadHandler {
	return &UploadHandler{cfg: cfg, importService: importService}
}

// ImportCSV godoc
// POST /api/admin/upload/csv
// Imports questions from a CSV file. Bad rows are reported per row; the
// rest are saved.
func (h *UploadHandler) ImportCSV(c *gin.Context) {
	user := requestUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	file, _, ok := h.openUpload(c, ".csv")
	if !ok {
		return
	}
	defer file.Close()

	report, err := h.importService.ImportCSV(c.Request.Context(), user.ID, file)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	response.Success(c, http.StatusOK, report)
}

// PreviewCSV godoc
// POST /api/admin/upload/preview-csv
// Dry run: parses and validates without saving anything.
func (h *UploadHandler) PreviewCSV(c *gin.Context) {
	file, _, ok := h.openUpload(c, ".csv")
	if !ok {
		return
	}
	defer file.Close()

	preview, err := h.importService.PreviewCSV(file)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	response.Success(c, http.StatusOK, preview)
}

// ExtractPDF godoc
// POST /api/admin/upload/pdf
// Extracts the text layer of a PDF so it can be reviewed and reformatted
// as CSV. Nothing is persisted.
func (h *UploadHandler) ExtractPDF(c *gin.Context) {
	file, header, ok := h.openUpload(c, ".pdf")
	if !ok {
		return
	}
	defer file.Close()

	extract, err := h.importService.ExtractPDF(file, header.Size)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	response.Success(c, http.StatusOK, extract)
}

func (h *UploadHandler) openUpload(c *gin.Context, ext string) (multipart.File, *multipart.FileHeader, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return nil, nil, false
	}

	if !strings.EqualFold(filepath.Ext(header.Filename), ext) {
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		return nil, nil, false
	}

	if header.Size > h.cfg.MaxUploadBytes {
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		return nil, nil, false
	}

	file, err := header.Open()
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return nil, nil, false
	}
	return file, header, true
}
