package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// Entity gives a domain type CRUD access over a key prefix, with optional
// unique secondary indexes. Values are stored as JSON; index entries map
// an index key back to the entity id.
type Entity[T any] struct {
	store   *Store
	prefix  string
	indexes []Index[T]
}

// Index is a unique secondary index. keys extracts the index keys from an
// entity; lookup, when set, normalizes a search value before lookup (used
// for case-insensitive email matching).
type Index[T any] struct {
	name   string
	keys   func(*T) []string
	lookup func(string) string
}

// NewEntity builds an Entity for prefix under s.
func NewEntity[T any](s *Store, prefix string) *Entity[T] {
	return &Entity[T]{store: s, prefix: prefix}
}

// WithIndex registers a unique secondary index.
func (e *Entity[T]) WithIndex(name string, keys func(*T) []string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{name: name, keys: keys})
	return e
}

// WithIndexTransform registers a unique secondary index whose lookup
// values are passed through transform first.
func (e *Entity[T]) WithIndexTransform(name string, keys func(*T) []string, transform func(string) string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{name: name, keys: keys, lookup: transform})
	return e
}

func (e *Entity[T]) key(id string) []byte {
	return []byte(e.prefix + id)
}

func (e *Entity[T]) indexKey(index, value string) []byte {
	return []byte(e.prefix + "idx:" + index + ":" + value)
}

// decodeItem unmarshals a badger item's value into a fresh T.
func decodeItem[T any](item *badger.Item) (*T, error) {
	var entity T
	err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &entity)
	})
	if err != nil {
		return nil, fmt.Errorf("decode entity: %w", err)
	}
	return &entity, nil
}

// checkIndexFree fails with ErrAlreadyExists when any of the entity's
// index keys is already taken. skip lists keys to ignore (the entity's
// own, during updates).
func (e *Entity[T]) checkIndexFree(txn *badger.Txn, entity *T, skip map[string]bool) error {
	for _, idx := range e.indexes {
		for _, k := range idx.keys(entity) {
			if skip[idx.name+":"+k] {
				continue
			}
			_, err := txn.Get(e.indexKey(idx.name, k))
			if err == nil {
				return fmt.Errorf("index %s conflict on %s: %w", idx.name, k, ErrAlreadyExists)
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("check index key: %w", err)
			}
		}
	}
	return nil
}

func (e *Entity[T]) writeIndexes(txn *badger.Txn, id string, entity *T) error {
	for _, idx := range e.indexes {
		for _, k := range idx.keys(entity) {
			if err := txn.Set(e.indexKey(idx.name, k), []byte(id)); err != nil {
				return fmt.Errorf("write index key: %w", err)
			}
		}
	}
	return nil
}

func (e *Entity[T]) deleteIndexes(txn *badger.Txn, entity *T) error {
	for _, idx := range e.indexes {
		for _, k := range idx.keys(entity) {
			if err := txn.Delete(e.indexKey(idx.name, k)); err != nil {
				return fmt.Errorf("delete index key: %w", err)
			}
		}
	}
	return nil
}

// Create stores a new entity under id. Returns ErrAlreadyExists when the
// id or any unique index key is taken.
func (e *Entity[T]) Create(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("encode entity: %w", err)
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(e.key(id))
		if err == nil {
			return ErrAlreadyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check existing key: %w", err)
		}

		if err := e.checkIndexFree(txn, entity, nil); err != nil {
			return err
		}
		if err := txn.Set(e.key(id), data); err != nil {
			return fmt.Errorf("write entity: %w", err)
		}
		return e.writeIndexes(txn, id, entity)
	})
}

// Get fetches the entity stored under id, or ErrNotFound.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entity *T
	err := e.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(e.key(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("read entity: %w", err)
		}
		entity, err = decodeItem[T](item)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// GetByIndex resolves value through the named index and fetches the
// entity it points at. The index's lookup transform, if any, is applied
// to value first.
func (e *Entity[T]) GetByIndex(ctx context.Context, indexName, value string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, idx := range e.indexes {
		if idx.name == indexName && idx.lookup != nil {
			value = idx.lookup(value)
			break
		}
	}

	var id string
	err := e.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(e.indexKey(indexName, value))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("read index key: %w", err)
		}
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return e.Get(ctx, id)
}

// Update replaces the entity stored under id, moving index entries that
// changed. Returns ErrNotFound when id is absent and ErrAlreadyExists
// when a new index key collides with another entity's.
func (e *Entity[T]) Update(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("encode entity: %w", err)
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(e.key(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("read existing entity: %w", err)
		}

		old, err := decodeItem[T](item)
		if err != nil {
			return err
		}

		if err := e.deleteIndexes(txn, old); err != nil {
			return err
		}

		// Keys the old entity already held are not conflicts.
		keep := make(map[string]bool)
		for _, idx := range e.indexes {
			for _, k := range idx.keys(old) {
				keep[idx.name+":"+k] = true
			}
		}
		if err := e.checkIndexFree(txn, entity, keep); err != nil {
			return err
		}

		if err := txn.Set(e.key(id), data); err != nil {
			return fmt.Errorf("write entity: %w", err)
		}
		return e.writeIndexes(txn, id, entity)
	})
}

// Delete removes the entity and its index entries. Deleting a missing id
// is not an error.
func (e *Entity[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(e.key(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read entity: %w", err)
		}

		entity, err := decodeItem[T](item)
		if err != nil {
			return err
		}
		if err := e.deleteIndexes(txn, entity); err != nil {
			return err
		}
		if err := txn.Delete(e.key(id)); err != nil {
			return fmt.Errorf("delete entity: %w", err)
		}
		return nil
	})
}

// List iterates every entity under the prefix, skipping index entries.
// Iteration errors are delivered through the sequence.
func (e *Entity[T]) List(ctx context.Context) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		//nolint:errcheck // Errors are delivered through the iterator
		e.store.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(e.prefix)
			opts.PrefetchValues = true

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek([]byte(e.prefix)); it.ValidForPrefix([]byte(e.prefix)); it.Next() {
				if err := ctx.Err(); err != nil {
					yield(nil, err)
					return err
				}

				rest := strings.TrimPrefix(string(it.Item().Key()), e.prefix)
				if strings.HasPrefix(rest, "idx:") {
					continue
				}

				entity, err := decodeItem[T](it.Item())
				if err != nil {
					yield(nil, err)
					return err
				}
				if !yield(entity, nil) {
					return nil
				}
			}
			return nil
		})
	}
}
