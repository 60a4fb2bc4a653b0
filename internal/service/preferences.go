package service

import (
	"context"
	"encoding/json"

	"github.com/julianstephens/metaflow/internal/constants"
	"github.com/julianstephens/metaflow/internal/errors"
	"github.com/julianstephens/metaflow/internal/logger"
	"github.com/julianstephens/metaflow/internal/models"
	"github.com/julianstephens/metaflow/internal/storage"
	"github.com/julianstephens/metaflow/internal/validation"
)

// PreferencesService stores the two single-value keys: preferences and theme.
type PreferencesService struct {
	store storage.Provider
}

func NewPreferencesService(store storage.Provider) *PreferencesService {
	return &PreferencesService{store: store}
}

// Get returns the stored preferences, or the defaults when none are stored or they
// cannot be read.
func (s *PreferencesService) Get(ctx context.Context) models.Preferences {
	raw, ok, err := s.store.Get(ctx, constants.KeyPreferences)
	if err != nil {
		logger.Warn("Failed to read preferences, using defaults", "error", err)
		return models.DefaultPreferences()
	}
	if !ok {
		return models.DefaultPreferences()
	}

	prefs := models.DefaultPreferences()
	if err := json.Unmarshal(raw, &prefs); err != nil {
		logger.Warn("Corrupt preferences, using defaults", "error", err)
		return models.DefaultPreferences()
	}
	return prefs
}

func (s *PreferencesService) Save(ctx context.Context, prefs models.Preferences) error {
	if err := validation.ValidatePreferences(prefs); err != nil {
		return err
	}
	data, err := json.Marshal(prefs)
	if err != nil {
		return errors.IO("encode", constants.KeyPreferences, err)
	}
	return s.store.Set(ctx, constants.KeyPreferences, data)
}

func (s *PreferencesService) Theme(ctx context.Context) models.Theme {
	raw, ok, err := s.store.Get(ctx, constants.KeyTheme)
	if err != nil || !ok {
		return models.ThemeSystem
	}
	var theme models.Theme
	if err := json.Unmarshal(raw, &theme); err != nil || !theme.Valid() {
		return models.ThemeSystem
	}
	return theme
}

func (s *PreferencesService) SetTheme(ctx context.Context, theme models.Theme) error {
	if !theme.Valid() {
		return errors.Invalid("unknown theme %q", theme)
	}
	data, err := json.Marshal(theme)
	if err != nil {
		return errors.IO("encode", constants.KeyTheme, err)
	}
	return s.store.Set(ctx, constants.KeyTheme, data)
}
