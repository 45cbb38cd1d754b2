package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/service"
)

func TestGetSettings_DefaultsOnFirstRead(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()

	settings, err := svc.settings.GetSettings(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "en", settings.Locale)
	assert.Equal(t, domain.ThemeSystem, settings.Theme)
}

func TestUpdateSettings_RoundTrip(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()

	ctx := context.Background()

	updated, err := svc.settings.UpdateSettings(ctx, "user-1", service.UpdateSettingsRequest{
		Locale: "es-MX",
		Theme:  "dark",
	})
	require.NoError(t, err)
	assert.Equal(t, "es-MX", updated.Locale)

	fetched, err := svc.settings.GetSettings(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "es-MX", fetched.Locale)
	assert.Equal(t, domain.ThemeDark, fetched.Theme)
}

func TestUpdateSettings_RejectsBadValues(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()

	ctx := context.Background()

	_, err := svc.settings.UpdateSettings(ctx, "user-1", service.UpdateSettingsRequest{
		Locale: "en",
		Theme:  "sepia",
	})
	assert.Error(t, err)

	_, err = svc.settings.UpdateSettings(ctx, "user-1", service.UpdateSettingsRequest{
		Locale: "!!not-a-tag!!",
		Theme:  "light",
	})
	assert.Error(t, err)
}
