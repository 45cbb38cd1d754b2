package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

func newBook(id, ownerID, title string) *domain.Book {
	b := &domain.Book{
		OwnerID: ownerID,
		Title:   title,
		Author:  "Some Author",
		Format:  domain.FormatPhysical,
	}
	b.ID = id
	b.InitTimestamps()
	return b
}

func TestBookCRUD(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	book := newBook("book-1", "user-1", "Dune")

	require.NoError(t, s.CreateBook(ctx, book))

	got, err := s.GetBook(ctx, "user-1", "book-1")
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)

	got.Title = "Dune Messiah"
	require.NoError(t, s.UpdateBook(ctx, got))

	got, err = s.GetBook(ctx, "user-1", "book-1")
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", got.Title)

	require.NoError(t, s.DeleteBook(ctx, "user-1", "book-1"))

	_, err = s.GetBook(ctx, "user-1", "book-1")
	require.ErrorIs(t, err, store.ErrBookNotFound)
}

func TestCreateBook_DuplicateID(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.CreateBook(ctx, newBook("book-1", "user-1", "Dune")))

	err := s.CreateBook(ctx, newBook("book-1", "user-1", "Dune again"))
	require.ErrorIs(t, err, store.ErrBookExists)
}

func TestGetBook_OwnerScoping(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.CreateBook(ctx, newBook("book-1", "user-1", "Dune")))

	// Another user can't read it; same error as a missing book.
	_, err := s.GetBook(ctx, "user-2", "book-1")
	require.ErrorIs(t, err, store.ErrBookNotFound)

	// Nor update it.
	stolen := newBook("book-1", "user-2", "Mine now")
	err = s.UpdateBook(ctx, stolen)
	require.ErrorIs(t, err, store.ErrBookNotFound)

	// Nor delete it.
	err = s.DeleteBook(ctx, "user-2", "book-1")
	require.ErrorIs(t, err, store.ErrBookNotFound)

	// Owner still sees it untouched.
	got, err := s.GetBook(ctx, "user-1", "book-1")
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
}

func TestListBooksByOwner(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("book-%d", i)
		require.NoError(t, s.CreateBook(ctx, newBook(id, "user-1", "Title "+id)))
	}
	require.NoError(t, s.CreateBook(ctx, newBook("book-other", "user-2", "Not yours")))

	books, err := s.ListBooksByOwner(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, books, 5)
	for _, b := range books {
		assert.Equal(t, "user-1", b.OwnerID)
	}

	count, err := s.CountBooksByOwner(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	// User with no books gets an empty list, not an error.
	books, err = s.ListBooksByOwner(ctx, "user-3")
	require.NoError(t, err)
	assert.Empty(t, books)
}
