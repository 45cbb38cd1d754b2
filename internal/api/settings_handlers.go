package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/service"
)

func (s *Server) registerSettingsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSettings",
		Method:      http.MethodGet,
		Path:        "/api/v1/settings",
		Summary:     "Get settings",
		Description: "Returns the current user's settings, creating defaults on first read",
		Tags:        []string{"Settings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetSettings)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateSettings",
		Method:      http.MethodPut,
		Path:        "/api/v1/settings",
		Summary:     "Update settings",
		Description: "Replaces the current user's settings",
		Tags:        []string{"Settings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateSettings)
}

// SettingsResponse contains user settings in API responses.
type SettingsResponse struct {
	Locale    string    `json:"locale" doc:"BCP 47 locale tag, keys title collation"`
	Theme     string    `json:"theme" doc:"light, dark, or system"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// SettingsOutput wraps the settings response for Huma.
type SettingsOutput struct {
	Body SettingsResponse
}

// UpdateSettingsRequest is the request body for updating settings.
type UpdateSettingsRequest struct {
	Locale string `json:"locale" validate:"required,max=35" doc:"BCP 47 locale tag"`
	Theme  string `json:"theme" validate:"required,oneof=light dark system" doc:"Color scheme"`
}

// UpdateSettingsInput wraps the update settings request for Huma.
type UpdateSettingsInput struct {
	Body UpdateSettingsRequest
}

func (s *Server) handleGetSettings(ctx context.Context, _ *struct{}) (*SettingsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	settings, err := s.services.Settings.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &SettingsOutput{Body: mapSettingsResponse(settings)}, nil
}

func (s *Server) handleUpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*SettingsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	settings, err := s.services.Settings.UpdateSettings(ctx, userID, service.UpdateSettingsRequest{
		Locale: input.Body.Locale,
		Theme:  input.Body.Theme,
	})
	if err != nil {
		return nil, err
	}

	return &SettingsOutput{Body: mapSettingsResponse(settings)}, nil
}

func mapSettingsResponse(settings *domain.UserSettings) SettingsResponse {
	return SettingsResponse{
		Locale:    settings.Locale,
		Theme:     string(settings.Theme),
		UpdatedAt: settings.UpdatedAt,
	}
}
