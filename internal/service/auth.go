package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/shelfmark/shelfmark-server/internal/auth"
	"github.com/shelfmark/shelfmark-server/internal/domain"
	domainerrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/id"
	"github.com/shelfmark/shelfmark-server/internal/metrics"
	"github.com/shelfmark/shelfmark-server/internal/store"
	"github.com/shelfmark/shelfmark-server/internal/validation"
)

// AuthService handles account creation, login, token refresh, and the
// password recovery flow. Session mechanics are delegated to
// SessionService.
type AuthService struct {
	store              *store.Store
	tokenService       *auth.TokenService
	sessionService     *SessionService
	validator          *validation.Validator
	metrics            metrics.Recorder
	resetRedirectURL   string
	resetTokenDuration time.Duration
	logger             *slog.Logger
}

// AuthConfig carries the auth-service tunables out of the app config.
type AuthConfig struct {
	ResetRedirectURL   string
	ResetTokenDuration time.Duration
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store *store.Store,
	tokenService *auth.TokenService,
	sessionService *SessionService,
	validator *validation.Validator,
	recorder metrics.Recorder,
	cfg AuthConfig,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:              store,
		tokenService:       tokenService,
		sessionService:     sessionService,
		validator:          validator,
		metrics:            recorder,
		resetRedirectURL:   cfg.ResetRedirectURL,
		resetTokenDuration: cfg.ResetTokenDuration,
		logger:             logger,
	}
}

// SignupRequest contains new account data.
type SignupRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6,max=1024"`
	DisplayName string `json:"display_name" validate:"max=200"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IPAddress string `json:"-"` // Extracted from request by handler
}

// RefreshRequest contains the refresh token being rotated.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
	IPAddress    string `json:"-"`
}

// ForgotPasswordRequest starts the password recovery flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
	// Origin is the requesting page origin, used when no redirect URL
	// is configured.
	Origin string `json:"-"`
}

// ResetPasswordRequest completes the password recovery flow.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6,max=1024"`
}

// AuthResponse contains authentication tokens and user data.
type AuthResponse struct {
	User *domain.User `json:"user"`
	SessionResponse
}

// ForgotPasswordResponse acknowledges a recovery request. ResetLink is
// only populated here because there is no mail transport; a deployment
// fronting this with email would deliver it instead of returning it.
type ForgotPasswordResponse struct {
	Message   string `json:"message"`
	ResetLink string `json:"reset_link,omitempty"`
}

// Signup creates a new account and logs it straight in.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		Email:        req.Email,
		PasswordHash: passwordHash,
		DisplayName:  req.DisplayName,
		LastLoginAt:  time.Now(),
	}
	user.ID = userID
	user.InitTimestamps()

	if err := s.store.Users.Create(ctx, userID, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("email already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	sessionResp, err := s.sessionService.CreateSession(ctx, user, "", "")
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.metrics.RecordSignup()
	if s.logger != nil {
		s.logger.Info("User signed up", "user_id", userID, "email", user.Email)
	}

	return &AuthResponse{
		User:            user,
		SessionResponse: *sessionResp,
	}, nil
}

// Login authenticates a user and creates a new session.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.Users.GetByIndex(ctx, "email", req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Don't leak whether email exists
			s.metrics.RecordLogin(false)
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	valid, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		s.metrics.RecordLogin(false)
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	user.LastLoginAt = time.Now()
	user.Touch()
	if err := s.store.Users.Update(ctx, user.ID, user); err != nil {
		// Log but don't fail login
		if s.logger != nil {
			s.logger.Warn("Failed to update last login time",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	sessionResp, err := s.sessionService.CreateSession(ctx, user, "", req.IPAddress)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.metrics.RecordLogin(true)
	if s.logger != nil {
		s.logger.Info("User logged in", "user_id", user.ID)
	}

	return &AuthResponse{
		User:            user,
		SessionResponse: *sessionResp,
	}, nil
}

// RefreshTokens rotates a refresh token into a new token pair.
func (s *AuthService) RefreshTokens(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	sessionResp, user, err := s.sessionService.RefreshSession(ctx, req.RefreshToken, req.IPAddress)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:            user,
		SessionResponse: *sessionResp,
	}, nil
}

// Logout revokes a session, invalidating its refresh token.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessionService.DeleteSession(ctx, sessionID)
}

// ForgotPassword issues a single-use reset token for the account. The
// response is identical whether or not the email exists.
func (s *AuthService) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (*ForgotPasswordResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	ack := &ForgotPasswordResponse{
		Message: "If that email is registered, a reset link has been issued.",
	}

	user, err := s.store.Users.GetByIndex(ctx, "email", req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ack, nil
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	token, err := auth.GenerateOpaqueToken()
	if err != nil {
		return nil, fmt.Errorf("generate reset token: %w", err)
	}

	resetID, err := id.Generate("reset")
	if err != nil {
		return nil, fmt.Errorf("generate reset ID: %w", err)
	}

	now := time.Now()
	reset := &domain.PasswordReset{
		ID:        resetID,
		UserID:    user.ID,
		TokenHash: auth.HashOpaqueToken(token),
		ExpiresAt: now.Add(s.resetTokenDuration),
		CreatedAt: now,
	}
	if err := s.store.CreatePasswordReset(ctx, reset); err != nil {
		return nil, fmt.Errorf("save password reset: %w", err)
	}

	ack.ResetLink = s.buildResetLink(req.Origin, token)
	if s.logger != nil {
		s.logger.Info("Password reset issued", "user_id", user.ID)
	}

	return ack, nil
}

// ResetPassword consumes a reset token and sets the new password.
// Every existing session for the user is revoked.
func (s *AuthService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	reset, err := s.store.GetPasswordResetByToken(ctx, auth.HashOpaqueToken(req.Token))
	if err != nil {
		return domainerrors.TokenExpired("invalid or expired reset token").WithCause(err)
	}

	user, err := s.store.Users.Get(ctx, reset.UserID)
	if err != nil {
		return domainerrors.NotFound("user not found").WithCause(err)
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = passwordHash
	user.Touch()
	if err := s.store.Users.Update(ctx, user.ID, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if err := s.store.MarkPasswordResetUsed(ctx, reset); err != nil {
		return fmt.Errorf("mark reset used: %w", err)
	}

	if err := s.sessionService.DeleteAllUserSessions(ctx, user.ID); err != nil {
		// The password already changed; stale sessions only shorten to
		// their natural expiry.
		if s.logger != nil {
			s.logger.Warn("Failed to revoke sessions after password reset",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	if s.logger != nil {
		s.logger.Info("Password reset completed", "user_id", user.ID)
	}

	return nil
}

// VerifyAccessToken validates a token and returns the associated user.
// Used by authentication middleware.
func (s *AuthService) VerifyAccessToken(ctx context.Context, tokenString string) (*domain.User, *auth.AccessClaims, error) {
	claims, err := s.tokenService.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("invalid token").WithCause(err)
	}

	user, err := s.store.Users.Get(ctx, claims.UserID)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("user not found").WithCause(err)
	}

	return user, claims, nil
}

// GetUser returns a user by ID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// buildResetLink prefers the configured redirect URL and falls back to
// the requesting origin.
func (s *AuthService) buildResetLink(origin, token string) string {
	base := s.resetRedirectURL
	if base == "" {
		base = origin
	}
	if base == "" {
		return ""
	}
	return base + "/reset-password?token=" + url.QueryEscape(token)
}
