package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeSettings(t *testing.T, body []byte) SettingsResponse {
	t.Helper()

	var envelope struct {
		Data SettingsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope.Data
}

func TestSettingsDefaults(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := signupUser(t, ts, "reader@example.com")

	resp := ts.api.Get("/api/v1/settings", authHeader(token))
	require.Equal(t, http.StatusOK, resp.Code)

	settings := decodeSettings(t, resp.Body.Bytes())
	assert.Equal(t, "en", settings.Locale)
	assert.Equal(t, "system", settings.Theme)
}

func TestUpdateSettings(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := signupUser(t, ts, "reader@example.com")

	resp := ts.api.Put("/api/v1/settings", authHeader(token), map[string]any{
		"locale": "es-MX",
		"theme":  "dark",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/settings", authHeader(token))
	require.Equal(t, http.StatusOK, resp.Code)

	settings := decodeSettings(t, resp.Body.Bytes())
	assert.Equal(t, "es-MX", settings.Locale)
	assert.Equal(t, "dark", settings.Theme)
}

func TestUpdateSettingsRejectsBadValues(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := signupUser(t, ts, "reader@example.com")

	resp := ts.api.Put("/api/v1/settings", authHeader(token), map[string]any{
		"locale": "not a locale!!",
		"theme":  "dark",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.api.Put("/api/v1/settings", authHeader(token), map[string]any{
		"locale": "en",
		"theme":  "sepia",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)
}
