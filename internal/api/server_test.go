package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark-server/internal/auth"
	"github.com/shelfmark/shelfmark-server/internal/metrics"
	"github.com/shelfmark/shelfmark-server/internal/service"
	"github.com/shelfmark/shelfmark-server/internal/store"
	"github.com/shelfmark/shelfmark-server/internal/validation"
)

// testKeyHex is a fixed 32-byte PASETO key for tests.
const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// testServer wraps the API server with a humatest client.
type testServer struct {
	*Server
	api humatest.TestAPI
}

// setupTestServer creates a test server backed by a temporary database.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.New(t.TempDir(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	tokenService, err := auth.NewTokenService(testKeyHex, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	v := validation.New()
	recorder := metrics.Noop{}

	sessionService := service.NewSessionService(st, tokenService, logger)
	authService := service.NewAuthService(st, tokenService, sessionService, v, recorder, service.AuthConfig{
		ResetRedirectURL:   "https://books.example.com",
		ResetTokenDuration: time.Hour,
	}, logger)
	settingsService := service.NewSettingsService(st, v, logger)
	bookService := service.NewBookService(st, settingsService, v, recorder, logger)

	services := &Services{
		Auth:     authService,
		Session:  sessionService,
		Book:     bookService,
		Settings: settingsService,
	}

	srv := NewServer(st, services, recorder, Options{}, logger)
	srv.authRateLimiter.Stop()
	srv.authRateLimiter = nil // Per-IP limits are exercised separately

	return &testServer{
		Server: srv,
		api:    humatest.Wrap(t, srv.api),
	}
}

// signupUser creates an account through the service layer and returns
// its access token and user ID.
func signupUser(t *testing.T, ts *testServer, email string) (token, userID string) {
	t.Helper()

	resp, err := ts.services.Auth.Signup(context.Background(), service.SignupRequest{
		Email:    email,
		Password: "reading-is-fun",
	})
	require.NoError(t, err)

	return resp.AccessToken, resp.User.ID
}

func authHeader(token string) string {
	return "Authorization: Bearer " + token
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"healthy"`)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	ts := setupTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/users/me"},
		{http.MethodGet, "/api/v1/books"},
		{http.MethodGet, "/api/v1/stats"},
		{http.MethodGet, "/api/v1/settings"},
	}

	for _, p := range paths {
		resp := ts.api.Do(p.method, p.path)
		require.Equal(t, http.StatusUnauthorized, resp.Code, "%s %s", p.method, p.path)
	}
}

func TestInvalidTokenRejected(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/users/me", "Authorization: Bearer not-a-token")
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestGetCurrentUser(t *testing.T) {
	ts := setupTestServer(t)
	token, userID := signupUser(t, ts, "me@example.com")

	resp := ts.api.Get("/api/v1/users/me", authHeader(token))
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), userID)
	require.Contains(t, resp.Body.String(), "me@example.com")
	require.NotContains(t, resp.Body.String(), "password")
}
