package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/folio-backend/internal/response"
	"github.com/stemsi/folio-backend/internal/service"
	"github.com/stemsi/folio-backend/internal/validator"
)

// ReaderHandler handles the reading view endpoints.
type ReaderHandler struct {
	readerService *service.ReaderService
}

// NewReaderHandler creates a new ReaderHandler.
func NewReaderHandler(readerService *service.ReaderService) *ReaderHandler {
	return &ReaderHandler{readerService: readerService}
}

// OpenBook godoc
// GET /api/v1/reader/books/:id
func (h *ReaderHandler) OpenBook(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	view, err := h.readerService.Open(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, view)
}

// DefaultSettings godoc
// GET /api/v1/reader/settings/default
func (h *ReaderHandler) DefaultSettings(c *gin.Context) {
	response.Success(c, http.StatusOK, h.readerService.DefaultSettings())
}

// ApplyCommand godoc
// POST /api/v1/reader/settings
// Applies one reader command to the settings the client sends back.
func (h *ReaderHandler) ApplyCommand(c *gin.Context) {
	var req service.ReaderCommandRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	settings, err := h.readerService.ApplyCommand(req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, settings)
}
