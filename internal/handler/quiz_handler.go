package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stemsi/folio-backend/internal/model"
	"github.com/stemsi/folio-backend/internal/response"
	"github.com/stemsi/folio-backend/internal/service"
	"github.com/stemsi/folio-backend/internal/validator"
)

// QuizHandler handles quiz catalog and session endpoints.
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// ListQuizzes godoc
// GET /api/v1/quizzes
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	quizzes, err := h.quizService.ListQuizzes(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quizzes": quizzes})
}

// StartSession godoc
// POST /api/v1/quizzes/:quiz_id/sessions
// Always creates a fresh attempt.
func (h *QuizHandler) StartSession(c *gin.Context) {
	view, err := h.quizService.StartSession(c.Request.Context(), c.Param("quiz_id"))
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, view)
}

// GetSession godoc
// GET /api/v1/quiz-sessions/:id
func (h *QuizHandler) GetSession(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.quizService.GetSession(id)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, view)
}

// SelectOption godoc
// POST /api/v1/quiz-sessions/:id/select
func (h *QuizHandler) SelectOption(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req model.SelectOptionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.quizService.Select(id, *req.Option)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, view)
}

// Submit godoc
// POST /api/v1/quiz-sessions/:id/submit
func (h *QuizHandler) Submit(c *gin.Context) {
	h.step(c, h.quizService.Submit)
}

// Advance godoc
// POST /api/v1/quiz-sessions/:id/advance
func (h *QuizHandler) Advance(c *gin.Context) {
	h.step(c, h.quizService.Advance)
}

// Restart godoc
// POST /api/v1/quiz-sessions/:id/restart
func (h *QuizHandler) Restart(c *gin.Context) {
	h.step(c, h.quizService.Restart)
}

// DiscardSession godoc
// DELETE /api/v1/quiz-sessions/:id
func (h *QuizHandler) DiscardSession(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.quizService.Discard(id); err != nil {
		fail(c, err)
		return
	}

	response.NoContent(c)
}

func (h *QuizHandler) step(c *gin.Context, fn func(uuid.UUID) (*service.SessionView, error)) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	view, err := fn(id)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, view)
}
