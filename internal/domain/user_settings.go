package domain

import "time"

// Theme is the user's preferred color scheme.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Valid reports whether t is one of the known themes.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark || t == ThemeSystem
}

// UserSettings holds per-user presentation preferences. The server only
// stores and returns them; interpretation is up to the client.
type UserSettings struct {
	UserID string `json:"user_id"`

	// Locale is a BCP 47 tag, e.g. "en" or "es-MX". Also keys the
	// locale-aware title collation in listing sorts.
	Locale string `json:"locale"`
	Theme  Theme  `json:"theme"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserSettings creates settings with sensible defaults.
func NewUserSettings(userID string) *UserSettings {
	return &UserSettings{
		UserID:    userID,
		Locale:    "en",
		Theme:     ThemeSystem,
		UpdatedAt: time.Now(),
	}
}
