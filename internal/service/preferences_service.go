package service

import (
	"github.com/stemsi/folio-backend/internal/preferences"
	"github.com/stemsi/folio-backend/internal/reader"
)

// PreferencesCommandRequest applies one command to the client's current preferences.
type PreferencesCommandRequest struct {
	Preferences preferences.Preferences `json:"settings"`
	Command     preferences.Command     `json:"command" binding:"required,max=40"`
	Value       string                  `json:"value" binding:"max=32"`
}

// PreferencesService computes app preference transitions. Like reader
// settings, preferences live on the client.
type PreferencesService struct{}

// NewPreferencesService creates a new PreferencesService.
func NewPreferencesService() *PreferencesService {
	return &PreferencesService{}
}

// Defaults returns the preferences of a new learner.
func (s *PreferencesService) Defaults() preferences.Preferences {
	return preferences.Defaults()
}

// ApplyCommand returns req.Preferences with req.Command applied.
func (s *PreferencesService) ApplyCommand(req PreferencesCommandRequest) (preferences.Preferences, error) {
	return preferences.Apply(req.Preferences, req.Command, req.Value)
}

// ReaderDefaults returns the reader settings implied by p.
func (s *PreferencesService) ReaderDefaults(p preferences.Preferences) reader.Settings {
	return p.ReaderDefaults()
}
