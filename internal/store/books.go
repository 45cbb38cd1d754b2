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

const (
	bookPrefix        = "book:"
	bookByOwnerPrefix = "idx:books:owner:" // For listing a user's collection
)

var (
	// ErrBookNotFound is returned when a book does not exist or belongs to
	// another owner. The two cases are deliberately indistinguishable.
	ErrBookNotFound = errors.New("book not found")
	// ErrBookExists is returned when creating a book with an existing ID.
	ErrBookExists = errors.New("book already exists")
)

// CreateBook stores a new book and its owner index entry.
func (s *Store) CreateBook(_ context.Context, book *domain.Book) error {
	key := []byte(bookPrefix + book.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check book exists: %w", err)
	}
	if exists {
		return ErrBookExists
	}

	ownerIndexKey := []byte(bookByOwnerPrefix + book.OwnerID + ":" + book.ID)

	return s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(book)
		if err != nil {
			return fmt.Errorf("marshal book: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}

		return txn.Set(ownerIndexKey, []byte{})
	})
}

// GetBook retrieves a book by ID, scoped to its owner.
// A book owned by someone else reads as not found.
func (s *Store) GetBook(_ context.Context, ownerID, id string) (*domain.Book, error) {
	key := []byte(bookPrefix + id)

	var book domain.Book
	if err := s.get(key, &book); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	if book.OwnerID != ownerID {
		return nil, ErrBookNotFound
	}

	return &book, nil
}

// UpdateBook overwrites an existing book, enforcing owner scope.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	// Ownership and existence check.
	if _, err := s.GetBook(ctx, book.OwnerID, book.ID); err != nil {
		return err
	}

	return s.set([]byte(bookPrefix+book.ID), book)
}

// DeleteBook removes a book and its owner index entry, enforcing owner scope.
func (s *Store) DeleteBook(ctx context.Context, ownerID, id string) error {
	if _, err := s.GetBook(ctx, ownerID, id); err != nil {
		return err
	}

	key := []byte(bookPrefix + id)
	ownerIndexKey := []byte(bookByOwnerPrefix + ownerID + ":" + id)

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(key); err != nil {
			return err
		}

		if err := txn.Delete(ownerIndexKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		return nil
	})
}

// ListBooksByOwner returns a user's whole collection.
// The view engine filters, sorts, and pages in memory from here.
func (s *Store) ListBooksByOwner(ctx context.Context, ownerID string) ([]*domain.Book, error) {
	prefix := []byte(bookByOwnerPrefix + ownerID + ":")
	var ids []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false // We only need keys

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			// Key format: idx:books:owner:ownerID:bookID
			key := string(it.Item().Key())
			parts := strings.Split(key, ":")
			if len(parts) < 5 {
				continue
			}
			ids = append(ids, parts[4])
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list books by owner: %w", err)
	}

	books := make([]*domain.Book, 0, len(ids))
	for _, id := range ids {
		book, err := s.GetBook(ctx, ownerID, id)
		if err != nil {
			if errors.Is(err, ErrBookNotFound) {
				continue // Stale index entry
			}
			return nil, err
		}
		books = append(books, book)
	}

	return books, nil
}

// CountBooksByOwner returns the size of a user's collection without
// loading the records.
func (s *Store) CountBooksByOwner(_ context.Context, ownerID string) (int, error) {
	prefix := []byte(bookByOwnerPrefix + ownerID + ":")
	count := 0

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count books by owner: %w", err)
	}

	return count, nil
}
