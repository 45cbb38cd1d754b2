package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmark/shelfmark-server/internal/service"
)

type ctxKey int

const userIDKey ctxKey = iota

// GetUserID reads the authenticated user id placed in the context by
// authMiddleware. Handlers on protected routes call this first; the 401
// it returns is what an anonymous request sees.
func GetUserID(ctx context.Context) (string, error) {
	userID, _ := ctx.Value(userIDKey).(string)
	if userID == "" {
		return "", huma.Error401Unauthorized("Authentication required")
	}
	return userID, nil
}

func setUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// authMiddleware verifies a Bearer token when one is present and records
// the user id in the request context. It never rejects: routes that need
// a user enforce it through GetUserID, which keeps public routes like
// /health on the same chain.
func authMiddleware(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, _, err := auth.VerifyAccessToken(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(setUserID(r.Context(), user.ID)))
		})
	}
}
