package auth

import "time"

// AccessClaims is the decoded claim set of an access token. Tokens are
// v4.local, so nothing here is readable without the server key.
type AccessClaims struct {
	// Registered PASETO claims.
	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	IssuedAt   time.Time `json:"iat"`
	NotBefore  time.Time `json:"nbf"`
	Expiration time.Time `json:"exp"`
	TokenID    string    `json:"jti"`

	// Application claims. UserID duplicates Subject for callers that
	// unmarshal claims without PASETO's accessors.
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
