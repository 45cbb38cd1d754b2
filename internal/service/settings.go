package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/text/language"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	domainerrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/store"
	"github.com/shelfmark/shelfmark-server/internal/validation"
)

// SettingsService stores per-user locale and theme preferences. The
// server only holds the values; clients interpret them.
type SettingsService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewSettingsService creates a new settings service.
func NewSettingsService(store *store.Store, validator *validation.Validator, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// UpdateSettingsRequest carries the new preference values.
type UpdateSettingsRequest struct {
	Locale string `json:"locale" validate:"required,max=35"`
	Theme  string `json:"theme" validate:"required,oneof=light dark system"`
}

// GetSettings returns the user's settings, creating defaults when none
// were saved yet.
func (s *SettingsService) GetSettings(ctx context.Context, userID string) (*domain.UserSettings, error) {
	settings, err := s.store.GetOrCreateUserSettings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings validates and persists new preference values.
func (s *SettingsService) UpdateSettings(ctx context.Context, userID string, req UpdateSettingsRequest) (*domain.UserSettings, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if _, err := language.Parse(req.Locale); err != nil {
		return nil, domainerrors.Validation("locale must be a valid BCP 47 tag")
	}

	settings := &domain.UserSettings{
		UserID:    userID,
		Locale:    req.Locale,
		Theme:     domain.Theme(req.Theme),
		UpdatedAt: time.Now(),
	}
	if err := s.store.UpsertUserSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Settings updated", "user_id", userID, "locale", req.Locale, "theme", req.Theme)
	}

	return settings, nil
}
