package service

import (
	"context"

	"github.com/stemsi/folio-backend/internal/model"
	"github.com/stemsi/folio-backend/internal/reader"
)

// ReaderCommandRequest applies one command to the client's current settings.
type ReaderCommandRequest struct {
	Settings reader.Settings `json:"settings"`
	Command  reader.Command  `json:"command" binding:"required,max=32"`
	Value    string          `json:"value" binding:"max=32"`
}

// ReaderService serves the reading view. Settings are client-held; the
// server only computes transitions.
type ReaderService struct {
	library *LibraryService
}

// NewReaderService creates a new ReaderService.
func NewReaderService(library *LibraryService) *ReaderService {
	return &ReaderService{library: library}
}

// Open returns the book's reader view.
func (s *ReaderService) Open(ctx context.Context, bookID int) (*model.ReaderView, error) {
	return s.library.ReaderView(ctx, bookID)
}

// DefaultSettings returns the settings a fresh reader view starts with.
func (s *ReaderService) DefaultSettings() reader.Settings {
	return reader.Defaults()
}

// ApplyCommand returns req.Settings with req.Command applied.
func (s *ReaderService) ApplyCommand(req ReaderCommandRequest) (reader.Settings, error) {
	return reader.Apply(req.Settings, req.Command, req.Value)
}
