package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark-server/internal/store"
)

type testEntity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Tag  string `json:"tag"`
}

func TestEntity_CRUD(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	entity := store.NewEntity[testEntity](s, "test:")

	data := &testEntity{ID: "1", Name: "first"}
	require.NoError(t, entity.Create(ctx, "1", data))

	got, err := entity.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Name)

	got.Name = "renamed"
	require.NoError(t, entity.Update(ctx, "1", got))

	got, err = entity.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)

	require.NoError(t, entity.Delete(ctx, "1"))
	_, err = entity.Get(ctx, "1")
	require.ErrorIs(t, err, store.ErrNotFound)

	// Delete is idempotent.
	require.NoError(t, entity.Delete(ctx, "1"))
}

func TestEntity_Create_AlreadyExists(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	entity := store.NewEntity[testEntity](s, "test:")

	require.NoError(t, entity.Create(ctx, "1", &testEntity{ID: "1"}))
	err := entity.Create(ctx, "1", &testEntity{ID: "1"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestEntity_IndexConflictOnUpdate(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	entity := store.NewEntity[testEntity](s, "test:").
		WithIndex("tag", func(e *testEntity) []string {
			return []string{e.Tag}
		})

	require.NoError(t, entity.Create(ctx, "1", &testEntity{ID: "1", Tag: "a"}))
	require.NoError(t, entity.Create(ctx, "2", &testEntity{ID: "2", Tag: "b"}))

	// Moving entity 2 onto entity 1's tag conflicts.
	err := entity.Update(ctx, "2", &testEntity{ID: "2", Tag: "a"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	// Re-writing with its own tag works.
	require.NoError(t, entity.Update(ctx, "2", &testEntity{ID: "2", Tag: "b", Name: "kept"}))

	got, err := entity.GetByIndex(ctx, "tag", "b")
	require.NoError(t, err)
	assert.Equal(t, "kept", got.Name)
}

func TestEntity_List(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	entity := store.NewEntity[testEntity](s, "test:").
		WithIndex("tag", func(e *testEntity) []string {
			return []string{e.Tag}
		})

	require.NoError(t, entity.Create(ctx, "1", &testEntity{ID: "1", Tag: "a"}))
	require.NoError(t, entity.Create(ctx, "2", &testEntity{ID: "2", Tag: "b"}))

	var ids []string
	for e, err := range entity.List(ctx) {
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}

	// Index keys are skipped; only the two entities come back.
	assert.ElementsMatch(t, []string{"1", "2"}, ids)
}
