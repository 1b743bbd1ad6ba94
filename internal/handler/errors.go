package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stemsi/folio-backend/internal/chat"
	"github.com/stemsi/folio-backend/internal/preferences"
	"github.com/stemsi/folio-backend/internal/quiz"
	"github.com/stemsi/folio-backend/internal/reader"
	"github.com/stemsi/folio-backend/internal/response"
	"github.com/stemsi/folio-backend/internal/service"
)

// classify maps a domain error to its HTTP status and API code.
func classify(err error) (int, response.ErrCode) {
	switch {
	case errors.Is(err, service.ErrBookNotFound):
		return http.StatusNotFound, response.ErrNotFound
	case errors.Is(err, service.ErrQuizNotFound):
		return http.StatusNotFound, response.ErrQuizNotFound
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound, response.ErrSessionNotFound
	case errors.Is(err, service.ErrConversationNotFound):
		return http.StatusNotFound, response.ErrConversationNotFound
	case errors.Is(err, quiz.ErrInvalidTransition):
		return http.StatusConflict, response.ErrInvalidTransition
	case errors.Is(err, quiz.ErrNoSelection):
		return http.StatusUnprocessableEntity, response.ErrNoSelection
	case errors.Is(err, quiz.ErrOptionOutOfRange):
		return http.StatusUnprocessableEntity, response.ErrOptionOutOfRange
	case errors.Is(err, quiz.ErrEmptyQuiz):
		return http.StatusUnprocessableEntity, response.ErrQuizNotFound
	case errors.Is(err, chat.ErrEmptyMessage):
		return http.StatusUnprocessableEntity, response.ErrEmptyMessage
	case errors.Is(err, chat.ErrClosed):
		return http.StatusGone, response.ErrConversationClosed
	case errors.Is(err, reader.ErrUnknownCommand), errors.Is(err, preferences.ErrUnknownCommand):
		return http.StatusBadRequest, response.ErrUnknownCommand
	case errors.Is(err, reader.ErrInvalidValue):
		return http.StatusBadRequest, response.ErrInvalidValue
	default:
		return http.StatusInternalServerError, response.ErrInternal
	}
}

// fail writes the mapped error response.
func fail(c *gin.Context, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	response.Fail(c, status, code)
}

// parseUUIDParam reads a UUID path parameter, writing INVALID_ID on failure.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}
