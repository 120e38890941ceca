package service

import (
	"context"
	"sync"
	"testing"

	"bookstore/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddAccumulatesOnOneRow(t *testing.T) {
	gdb := newTestDB(t)
	reader := createUser(t, gdb, "reader", domain.RoleUser)
	author := createAuthor(t, gdb, "Author")
	cat := createCategory(t, gdb, "Cat")
	book := createBook(t, gdb, "Book", "9.99", true, author.ID, cat.ID)
	carts := NewCarts(gdb)
	ctx := context.Background()

	require.NoError(t, carts.Add(ctx, reader.ID, book.ID, 1))
	require.NoError(t, carts.Add(ctx, reader.ID, book.ID, 2))

	items, err := carts.Get(ctx, reader.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "Book", items[0].Title)
	assert.Equal(t, "Author", items[0].AuthorName)
}

func TestCartConcurrentAddsKeepOneRow(t *testing.T) {
	gdb := newTestDB(t)
	reader := createUser(t, gdb, "reader", domain.RoleUser)
	author := createAuthor(t, gdb, "Author")
	cat := createCategory(t, gdb, "Cat")
	book := createBook(t, gdb, "Book", "9.99", true, author.ID, cat.ID)
	carts := NewCarts(gdb)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, carts.Add(ctx, reader.ID, book.ID, 1))
		}()
	}
	wg.Wait()

	items, err := carts.Get(ctx, reader.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestCartRejectsUnknownOrHiddenBooks(t *testing.T) {
	gdb := newTestDB(t)
	reader := createUser(t, gdb, "reader", domain.RoleUser)
	author := createAuthor(t, gdb, "Author")
	cat := createCategory(t, gdb, "Cat")
	draft := createBook(t, gdb, "Draft", "1", false, author.ID, cat.ID)
	carts := NewCarts(gdb)
	ctx := context.Background()

	assert.ErrorIs(t, carts.Add(ctx, reader.ID, 404, 1), ErrNotFound)
	assert.ErrorIs(t, carts.Add(ctx, reader.ID, draft.ID, 1), ErrNotFound)
	assert.ErrorIs(t, carts.Add(ctx, reader.ID, draft.ID, 0), ErrInvalidInput)
}

func TestCartSetQuantityRemoveAndClear(t *testing.T) {
	gdb := newTestDB(t)
	reader := createUser(t, gdb, "reader", domain.RoleUser)
	author := createAuthor(t, gdb, "Author")
	cat := createCategory(t, gdb, "Cat")
	first := createBook(t, gdb, "First", "1", true, author.ID, cat.ID)
	second := createBook(t, gdb, "Second", "2", true, author.ID, cat.ID)
	carts := NewCarts(gdb)
	ctx := context.Background()

	require.NoError(t, carts.Add(ctx, reader.ID, first.ID, 4))
	require.NoError(t, carts.SetQuantity(ctx, reader.ID, first.ID, 2))
	require.NoError(t, carts.SetQuantity(ctx, reader.ID, second.ID, 1))

	items, err := carts.Get(ctx, reader.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)

	require.NoError(t, carts.SetQuantity(ctx, reader.ID, second.ID, 0))
	assert.ErrorIs(t, carts.Remove(ctx, reader.ID, second.ID), ErrNotFound)

	require.NoError(t, carts.Remove(ctx, reader.ID, first.ID))
	require.NoError(t, carts.Add(ctx, reader.ID, first.ID, 1))
	require.NoError(t, carts.Clear(ctx, reader.ID))
	items, err = carts.Get(ctx, reader.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
