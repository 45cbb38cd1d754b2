package service_test

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/service"
)

func signup(t *testing.T, svc *services, email string) *service.AuthResponse {
	t.Helper()
	resp, err := svc.auth.Signup(context.Background(), service.SignupRequest{
		Email:       email,
		Password:    "correct-horse",
		DisplayName: "Reader",
	})
	require.NoError(t, err)
	return resp
}

func TestSignup_CreatesUserAndSession(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()

	resp := signup(t, svc, "reader@example.com")

	assert.NotEmpty(t, resp.User.ID)
	assert.True(t, strings.HasPrefix(resp.User.ID, "user-"))
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)

	// The token round-trips through the middleware path.
	user, claims, err := svc.auth.VerifyAccessToken(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, user.ID)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()

	signup(t, svc, "reader@example.com")

	_, err := svc.auth.Signup(context.Background(), service.SignupRequest{
		Email:    "Reader@Example.com",
		Password: "correct-horse",
	})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeAlreadyExists, domainErr.Code)
}

func TestSignup_ShortPasswordRejected(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()

	_, err := svc.auth.Signup(context.Background(), service.SignupRequest{
		Email:    "reader@example.com",
		Password: "tiny",
	})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)
}

func TestLogin_Success(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()

	signup(t, svc, "reader@example.com")

	resp, err := svc.auth.Login(context.Background(), service.LoginRequest{
		Email:    "reader@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.False(t, resp.User.LastLoginAt.IsZero())
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()

	signup(t, svc, "reader@example.com")

	_, errWrong := svc.auth.Login(context.Background(), service.LoginRequest{
		Email:    "reader@example.com",
		Password: "incorrect",
	})
	_, errUnknown := svc.auth.Login(context.Background(), service.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever1",
	})

	var wrong, unknown *domainerrors.Error
	require.ErrorAs(t, errWrong, &wrong)
	require.ErrorAs(t, errUnknown, &unknown)
	assert.Equal(t, wrong.Code, unknown.Code)
	assert.Equal(t, wrong.Message, unknown.Message)
}

func TestRefreshTokens_RotatesToken(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()

	first := signup(t, svc, "reader@example.com")

	second, err := svc.auth.RefreshTokens(context.Background(), service.RefreshRequest{
		RefreshToken: first.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, first.SessionID, second.SessionID)

	// The rotated-out token no longer works.
	_, err = svc.auth.RefreshTokens(context.Background(), service.RefreshRequest{
		RefreshToken: first.RefreshToken,
	})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeTokenExpired, domainErr.Code)
}

func TestLogout_RevokesSession(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()

	resp := signup(t, svc, "reader@example.com")
	require.NoError(t, svc.auth.Logout(context.Background(), resp.SessionID))

	_, err := svc.auth.RefreshTokens(context.Background(), service.RefreshRequest{
		RefreshToken: resp.RefreshToken,
	})
	assert.Error(t, err)
}

func TestForgotPassword_UnknownEmailIsSilent(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()

	resp, err := svc.auth.ForgotPassword(context.Background(), service.ForgotPasswordRequest{
		Email: "nobody@example.com",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Message)
	assert.Empty(t, resp.ResetLink)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()

	original := signup(t, svc, "reader@example.com")

	forgot, err := svc.auth.ForgotPassword(context.Background(), service.ForgotPasswordRequest{
		Email: "reader@example.com",
	})
	require.NoError(t, err)
	require.NotEmpty(t, forgot.ResetLink)
	assert.True(t, strings.HasPrefix(forgot.ResetLink, "https://books.example.com/reset-password?token="))

	link, err := url.Parse(forgot.ResetLink)
	require.NoError(t, err)
	token := link.Query().Get("token")
	require.NotEmpty(t, token)

	require.NoError(t, svc.auth.ResetPassword(context.Background(), service.ResetPasswordRequest{
		Token:    token,
		Password: "new-password",
	}))

	// Old password no longer works, new one does.
	_, err = svc.auth.Login(context.Background(), service.LoginRequest{
		Email:    "reader@example.com",
		Password: "correct-horse",
	})
	assert.Error(t, err)

	_, err = svc.auth.Login(context.Background(), service.LoginRequest{
		Email:    "reader@example.com",
		Password: "new-password",
	})
	assert.NoError(t, err)

	// Pre-reset sessions were revoked.
	_, err = svc.auth.RefreshTokens(context.Background(), service.RefreshRequest{
		RefreshToken: original.RefreshToken,
	})
	assert.Error(t, err)

	// The token is single use.
	err = svc.auth.ResetPassword(context.Background(), service.ResetPasswordRequest{
		Token:    token,
		Password: "another-one",
	})
	assert.Error(t, err)
}

func TestForgotPassword_FallsBackToOrigin(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()

	signup(t, svc, "reader@example.com")

	// The configured redirect URL wins over the origin.
	resp, err := svc.auth.ForgotPassword(context.Background(), service.ForgotPasswordRequest{
		Email:  "reader@example.com",
		Origin: "https://other.example.com",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.ResetLink, "https://books.example.com/"))
}
