package domain

import "time"

// PasswordReset is a single-use recovery token letting a user who lost
// their password set a new one.
type PasswordReset struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"token_hash,omitempty"` // Stored hashed, filter from API responses
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UsedAt    time.Time `json:"used_at,omitzero"`
}

// IsExpired checks if the reset token has passed its expiration time.
func (p *PasswordReset) IsExpired() bool {
	return time.Now().After(p.ExpiresAt)
}

// IsUsed reports whether the token has already been consumed.
func (p *PasswordReset) IsUsed() bool {
	return !p.UsedAt.IsZero()
}
