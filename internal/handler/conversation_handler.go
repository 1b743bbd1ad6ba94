package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/folio-backend/internal/model"
	"github.com/stemsi/folio-backend/internal/response"
	"github.com/stemsi/folio-backend/internal/service"
	"github.com/stemsi/folio-backend/internal/validator"
)

// ConversationHandler handles the assistant chat endpoints.
type ConversationHandler struct {
	conversationService *service.ConversationService
}

// NewConversationHandler creates a new ConversationHandler.
func NewConversationHandler(conversationService *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService}
}

// CreateConversation godoc
// POST /api/v1/conversations
// Opens a conversation seeded with the assistant greeting.
func (h *ConversationHandler) CreateConversation(c *gin.Context) {
	response.Success(c, http.StatusCreated, h.conversationService.Create())
}

// GetConversation godoc
// GET /api/v1/conversations/:id
func (h *ConversationHandler) GetConversation(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.conversationService.View(id)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, view)
}

// PostMessage godoc
// POST /api/v1/conversations/:id/messages
// Appends the user message; the assistant reply arrives after a delay and
// is visible via GET or the stream.
func (h *ConversationHandler) PostMessage(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req model.PostMessageRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	msg, err := h.conversationService.Post(id, req.Content)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, msg)
}

// CloseConversation godoc
// DELETE /api/v1/conversations/:id
func (h *ConversationHandler) CloseConversation(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.conversationService.Close(id); err != nil {
		fail(c, err)
		return
	}

	response.NoContent(c)
}
