package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/shelfmark/shelfmark-server/internal/domain"
)

// Session keys. Token entries map a refresh token hash to a session id;
// user entries exist only for prefix scans and carry empty values.
const (
	sessionPrefix        = "session:"
	sessionByUserPrefix  = "idx:sessions:user:"
	sessionByTokenPrefix = "idx:sessions:token:"
)

var (
	// ErrSessionNotFound is returned when a session id or refresh token
	// resolves to nothing.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when a session exists but its refresh
	// window has passed.
	ErrSessionExpired = errors.New("session expired")
)

func sessionUserKey(userID, sessionID string) []byte {
	return []byte(sessionByUserPrefix + userID + ":" + sessionID)
}

// CreateSession stores a new session with its token and user index entries.
func (s *Store) CreateSession(_ context.Context, session *domain.Session) error {
	key := []byte(sessionPrefix + session.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check session exists: %w", err)
	}
	if exists {
		return errors.New("session already exists")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, data); err != nil {
			return err
		}
		if err := txn.Set([]byte(sessionByTokenPrefix+session.RefreshTokenHash), []byte(session.ID)); err != nil {
			return err
		}
		return txn.Set(sessionUserKey(session.UserID, session.ID), nil)
	})
}

// GetSession loads a session by id. Expired sessions surface as
// ErrSessionExpired, not as data.
func (s *Store) GetSession(_ context.Context, id string) (*domain.Session, error) {
	var session domain.Session
	if err := s.get([]byte(sessionPrefix+id), &session); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session.IsExpired() {
		return nil, ErrSessionExpired
	}
	return &session, nil
}

// GetSessionByRefreshToken resolves a refresh token hash to its session.
func (s *Store) GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error) {
	var sessionID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(sessionByTokenPrefix + tokenHash))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			sessionID = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup session by token: %w", err)
	}

	return s.GetSession(ctx, sessionID)
}

// UpdateSession rewrites a session, moving the token index entry when the
// refresh token rotated.
func (s *Store) UpdateSession(ctx context.Context, session *domain.Session) error {
	old, err := s.GetSession(ctx, session.ID)
	if err != nil {
		return err
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(sessionPrefix+session.ID), data); err != nil {
			return err
		}
		if old.RefreshTokenHash == session.RefreshTokenHash {
			return nil
		}
		if err := txn.Delete([]byte(sessionByTokenPrefix + old.RefreshTokenHash)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set([]byte(sessionByTokenPrefix+session.RefreshTokenHash), []byte(session.ID))
	})
}

// DeleteSession removes a session and its index entries. Deleting a
// missing session is not an error; expired sessions are deletable.
func (s *Store) DeleteSession(_ context.Context, sessionID string) error {
	var session domain.Session
	if err := s.get([]byte(sessionPrefix+sessionID), &session); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return fmt.Errorf("get session for deletion: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(sessionPrefix + sessionID)); err != nil {
			return err
		}
		if err := txn.Delete([]byte(sessionByTokenPrefix + session.RefreshTokenHash)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Delete(sessionUserKey(session.UserID, sessionID)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return nil
	})
}

// ListUserSessions returns the user's live sessions. Expired ones are
// skipped; the cleanup job removes them later.
func (s *Store) ListUserSessions(ctx context.Context, userID string) ([]*domain.Session, error) {
	prefix := []byte(sessionByUserPrefix + userID + ":")
	var sessions []*domain.Session

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			sessionID := key[strings.LastIndexByte(key, ':')+1:]
			if sessionID == "" {
				continue
			}

			session, err := s.GetSession(ctx, sessionID)
			switch {
			case errors.Is(err, ErrSessionExpired), errors.Is(err, ErrSessionNotFound):
				continue
			case err != nil:
				return err
			}
			sessions = append(sessions, session)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list user sessions: %w", err)
	}
	return sessions, nil
}

// DeleteAllUserSessions revokes every session the user holds. Called on
// password reset to force re-authentication everywhere.
func (s *Store) DeleteAllUserSessions(ctx context.Context, userID string) error {
	sessions, err := s.ListUserSessions(ctx, userID)
	if err != nil {
		return fmt.Errorf("list sessions for deletion: %w", err)
	}
	for _, session := range sessions {
		if err := s.DeleteSession(ctx, session.ID); err != nil {
			return fmt.Errorf("delete session %s: %w", session.ID, err)
		}
	}
	return nil
}

// DeleteExpiredSessions sweeps expired sessions and reports how many were
// found. Collection and deletion run in separate transactions so the
// sweep never holds a long write lock.
func (s *Store) DeleteExpiredSessions(ctx context.Context) (int, error) {
	prefix := []byte(sessionPrefix)
	var expired []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var session domain.Session
				if json.Unmarshal(val, &session) != nil {
					return nil // skip malformed records
				}
				if session.IsExpired() {
					expired = append(expired, session.ID)
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
		return 0, fmt.Errorf("find expired sessions: %w", err)
	}

	for _, id := range expired {
		if err := s.DeleteSession(ctx, id); err != nil && s.logger != nil {
			s.logger.Warn("failed to delete expired session", "session_id", id, "error", err)
		}
	}
	return len(expired), nil
}
