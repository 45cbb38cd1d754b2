package service_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark-server/internal/auth"
	"github.com/shelfmark/shelfmark-server/internal/metrics"
	"github.com/shelfmark/shelfmark-server/internal/service"
	"github.com/shelfmark/shelfmark-server/internal/store"
	"github.com/shelfmark/shelfmark-server/internal/validation"
)

// testKeyHex is a fixed 32-byte key for token tests.
const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

type services struct {
	store    *store.Store
	auth     *service.AuthService
	sessions *service.SessionService
	books    *service.BookService
	settings *service.SettingsService
}

func setupServices(t *testing.T) (*services, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "service-test-*")
	require.NoError(t, err)

	s, err := store.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	tokens, err := auth.NewTokenService(testKeyHex, 15*time.Minute, 720*time.Hour)
	require.NoError(t, err)

	v := validation.New()
	sessions := service.NewSessionService(s, tokens, nil)
	authSvc := service.NewAuthService(s, tokens, sessions, v, metrics.Noop{}, service.AuthConfig{
		ResetRedirectURL:   "https://books.example.com",
		ResetTokenDuration: time.Hour,
	}, nil)
	settings := service.NewSettingsService(s, v, nil)
	books := service.NewBookService(s, settings, v, metrics.Noop{}, nil)

	cleanup := func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return &services{
		store:    s,
		auth:     authSvc,
		sessions: sessions,
		books:    books,
		settings: settings,
	}, cleanup
}
