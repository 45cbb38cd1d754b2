package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/shelfmark/shelfmark-server/internal/domain"
)

// Settings are keyed by owner, one record per user.
const userSettingsPrefix = "settings:"

// ErrUserSettingsNotFound is returned when a user has no settings record.
var ErrUserSettingsNotFound = ErrNotFound.WithMessage("user settings not found")

// GetUserSettings loads the settings record for userID.
func (s *Store) GetUserSettings(ctx context.Context, userID string) (*domain.UserSettings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var settings *domain.UserSettings
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userSettingsPrefix + userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrUserSettingsNotFound
		}
		if err != nil {
			return fmt.Errorf("read settings: %w", err)
		}
		return item.Value(func(val []byte) error {
			settings = &domain.UserSettings{}
			return json.Unmarshal(val, settings)
		})
	})
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// UpsertUserSettings writes the settings record, replacing any previous one.
func (s *Store) UpsertUserSettings(ctx context.Context, settings *domain.UserSettings) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(userSettingsPrefix+settings.UserID), data)
	})
}

// GetOrCreateUserSettings loads the user's settings, materializing the
// defaults on first access.
func (s *Store) GetOrCreateUserSettings(ctx context.Context, userID string) (*domain.UserSettings, error) {
	settings, err := s.GetUserSettings(ctx, userID)
	switch {
	case err == nil:
		return settings, nil
	case errors.Is(err, ErrUserSettingsNotFound):
		settings = domain.NewUserSettings(userID)
		if err := s.UpsertUserSettings(ctx, settings); err != nil {
			return nil, err
		}
		return settings, nil
	default:
		return nil, err
	}
}
