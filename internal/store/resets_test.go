package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

func newReset(id, userID, tokenHash string, expiresIn time.Duration) *domain.PasswordReset {
	return &domain.PasswordReset{
		ID:        id,
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().Add(expiresIn),
		CreatedAt: time.Now(),
	}
}

func TestPasswordResetLifecycle(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	reset := newReset("reset-1", "user-1", "hash-a", time.Hour)

	require.NoError(t, s.CreatePasswordReset(ctx, reset))

	got, err := s.GetPasswordResetByToken(ctx, "hash-a")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)

	// Consuming stamps the used time; the caller does not.
	require.NoError(t, s.MarkPasswordResetUsed(ctx, got))
	assert.False(t, got.UsedAt.IsZero())

	_, err = s.GetPasswordResetByToken(ctx, "hash-a")
	require.ErrorIs(t, err, store.ErrResetNotFound)
}

func TestPasswordReset_Expired(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.CreatePasswordReset(ctx, newReset("reset-1", "user-1", "hash-a", -time.Minute)))

	_, err := s.GetPasswordResetByToken(ctx, "hash-a")
	require.ErrorIs(t, err, store.ErrResetNotFound)

	deleted, err := s.DeleteExpiredPasswordResets(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
}

func TestPasswordReset_UnknownToken(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := s.GetPasswordResetByToken(context.Background(), "never-issued")
	require.ErrorIs(t, err, store.ErrResetNotFound)
}
