package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/folio-backend/internal/response"
	"github.com/stemsi/folio-backend/internal/service"
	"github.com/stemsi/folio-backend/internal/validator"
)

// PreferencesHandler handles the app settings endpoints.
type PreferencesHandler struct {
	preferencesService *service.PreferencesService
}

// NewPreferencesHandler creates a new PreferencesHandler.
func NewPreferencesHandler(preferencesService *service.PreferencesService) *PreferencesHandler {
	return &PreferencesHandler{preferencesService: preferencesService}
}

// Defaults godoc
// GET /api/v1/settings/default
func (h *PreferencesHandler) Defaults(c *gin.Context) {
	response.Success(c, http.StatusOK, h.preferencesService.Defaults())
}

// ApplyCommand godoc
// POST /api/v1/settings
// Applies one command to the preferences the client sends back. The reply
// carries the new preferences and the reader settings they imply.
func (h *PreferencesHandler) ApplyCommand(c *gin.Context) {
	var req service.PreferencesCommandRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	prefs, err := h.preferencesService.ApplyCommand(req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"settings": prefs,
		"reader":   h.preferencesService.ReaderDefaults(prefs),
	})
}
