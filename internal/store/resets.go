package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/shelfmark/shelfmark-server/internal/domain"
)

const (
	resetPrefix        = "reset:"
	resetByTokenPrefix = "idx:resets:token:" // For recovery-link lookups
)

// ErrResetNotFound is returned when a password reset token is unknown,
// expired, or already used.
var ErrResetNotFound = errors.New("password reset not found")

// CreatePasswordReset stores a new reset record and its token index.
func (s *Store) CreatePasswordReset(_ context.Context, reset *domain.PasswordReset) error {
	key := []byte(resetPrefix + reset.ID)
	tokenKey := []byte(resetByTokenPrefix + reset.TokenHash)

	return s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(reset)
		if err != nil {
			return fmt.Errorf("marshal password reset: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}

		return txn.Set(tokenKey, []byte(reset.ID))
	})
}

// GetPasswordResetByToken retrieves a usable reset record by token hash.
// Expired or already-used records read as not found.
func (s *Store) GetPasswordResetByToken(_ context.Context, tokenHash string) (*domain.PasswordReset, error) {
	tokenKey := []byte(resetByTokenPrefix + tokenHash)

	var resetID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(tokenKey)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			resetID = string(val)
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrResetNotFound
		}
		return nil, fmt.Errorf("lookup reset by token: %w", err)
	}

	var reset domain.PasswordReset
	if err := s.get([]byte(resetPrefix+resetID), &reset); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrResetNotFound
		}
		return nil, fmt.Errorf("get password reset: %w", err)
	}

	if reset.IsExpired() || reset.IsUsed() {
		return nil, ErrResetNotFound
	}

	return &reset, nil
}

// MarkPasswordResetUsed consumes a reset token so it cannot be replayed.
func (s *Store) MarkPasswordResetUsed(_ context.Context, reset *domain.PasswordReset) error {
	reset.UsedAt = time.Now()
	return s.set([]byte(resetPrefix+reset.ID), reset)
}

// DeleteExpiredPasswordResets removes stale reset records (cleanup job).
func (s *Store) DeleteExpiredPasswordResets(_ context.Context) (int, error) {
	prefix := []byte(resetPrefix)
	type stale struct{ id, tokenHash string }
	var expired []stale

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var reset domain.PasswordReset
				if unmarshalErr := json.Unmarshal(val, &reset); unmarshalErr != nil {
					//nolint:nilerr // Skip malformed records, keep iterating
					return nil
				}

				if reset.IsExpired() || reset.IsUsed() {
					expired = append(expired, stale{id: reset.ID, tokenHash: reset.TokenHash})
				}

				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("find expired password resets: %w", err)
	}

	for _, r := range expired {
		err := s.db.Update(func(txn *badger.Txn) error {
			if err := txn.Delete([]byte(resetPrefix + r.id)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			if err := txn.Delete([]byte(resetByTokenPrefix + r.tokenHash)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			return nil
		})
		if err != nil {
			s.logger.Warn("failed to delete expired password reset", "reset_id", r.id, "error", err)
		}
	}

	return len(expired), nil
}
