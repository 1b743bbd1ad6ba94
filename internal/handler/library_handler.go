package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/folio-backend/internal/model"
	"github.com/stemsi/folio-backend/internal/response"
	"github.com/stemsi/folio-backend/internal/service"
	"github.com/stemsi/folio-backend/internal/validator"
)

// LibraryHandler handles book catalog endpoints.
type LibraryHandler struct {
	libraryService *service.LibraryService
}

// NewLibraryHandler creates a new LibraryHandler.
func NewLibraryHandler(libraryService *service.LibraryService) *LibraryHandler {
	return &LibraryHandler{libraryService: libraryService}
}

// ListBooks godoc
// GET /api/v1/library/books?q=&category=
// Searches title and author, optionally within one category.
func (h *LibraryHandler) ListBooks(c *gin.Context) {
	var query model.LibraryQuery
	if fields := validator.BindQuery(c, &query); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	books, err := h.libraryService.List(c.Request.Context(), query)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"books": books, "total": len(books)})
}

// ListCategories godoc
// GET /api/v1/library/categories
func (h *LibraryHandler) ListCategories(c *gin.Context) {
	categories, err := h.libraryService.Categories(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"categories": categories})
}

// GetBook godoc
// GET /api/v1/library/books/:id
func (h *LibraryHandler) GetBook(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	book, err := h.libraryService.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, book)
}
