package service

import (
	"context"
	"testing"
	"time"

	"bookstore/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogHidesUnapprovedBooksFromPublic(t *testing.T) {
	gdb := newTestDB(t)
	author := createAuthor(t, gdb, "Ursula K. Le Guin")
	cat := createCategory(t, gdb, "Fantasy")
	live := createBook(t, gdb, "A Wizard of Earthsea", "12.50", true, author.ID, cat.ID)
	draft := createBook(t, gdb, "Tehanu", "14.00", false, author.ID, cat.ID)
	catalog := NewCatalog(gdb, nil)
	ctx := context.Background()

	public, err := catalog.List(ctx, anonymous)
	require.NoError(t, err)
	assert.Equal(t, []string{"A Wizard of Earthsea"}, titles(public))

	all, err := catalog.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = catalog.Get(ctx, anonymous, draft.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := catalog.Get(ctx, admin, draft.ID)
	require.NoError(t, err)
	assert.False(t, got.IsApproved)

	got, err = catalog.Get(ctx, anonymous, live.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ursula K. Le Guin", got.AuthorName)
	assert.Equal(t, "Fantasy", got.CategoryName)
	require.NotNil(t, got.Price)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("12.50")))

	found, err := catalog.Search(ctx, anonymous, "tehanu")
	require.NoError(t, err)
	assert.Empty(t, found)

	filtered, err := catalog.Filter(ctx, anonymous, BookFilter{Author: "guin"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A Wizard of Earthsea"}, titles(filtered))
}

func TestCatalogSearch(t *testing.T) {
	gdb := newTestDB(t)
	herbert := createAuthor(t, gdb, "Frank Herbert")
	tolkien := createAuthor(t, gdb, "J.R.R. Tolkien")
	scifi := createCategory(t, gdb, "Science Fiction")
	fantasy := createCategory(t, gdb, "Fantasy")
	createBook(t, gdb, "Dune", "15.00", true, herbert.ID, scifi.ID)
	createBook(t, gdb, "The Hobbit", "10.00", true, tolkien.ID, fantasy.ID)
	catalog := NewCatalog(gdb, nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"title", "DUNE", []string{"Dune"}},
		{"author", "tolkien", []string{"The Hobbit"}},
		{"category", "science", []string{"Dune"}},
		{"genre", "fiction", []string{"Dune", "The Hobbit"}},
		{"blank query lists everything", "   ", []string{"Dune", "The Hobbit"}},
		{"no match", "zzz", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books, err := catalog.Search(ctx, anonymous, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(books))
		})
	}
}

func TestCatalogFilterMinPriceIsOpenEnded(t *testing.T) {
	gdb := newTestDB(t)
	author := createAuthor(t, gdb, "Anon")
	cat := createCategory(t, gdb, "General")
	createBook(t, gdb, "Five", "5", true, author.ID, cat.ID)
	createBook(t, gdb, "Fifteen", "15", true, author.ID, cat.ID)
	createBook(t, gdb, "TwentyFive", "25", true, author.ID, cat.ID)
	catalog := NewCatalog(gdb, nil)

	min := decimal.NewFromInt(10)
	books, err := catalog.Filter(context.Background(), anonymous, BookFilter{MinPrice: &min})
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.True(t, books[0].Price.Equal(decimal.NewFromInt(15)))
	assert.True(t, books[1].Price.Equal(decimal.NewFromInt(25)))

	max := decimal.NewFromInt(20)
	books, err = catalog.Filter(context.Background(), anonymous, BookFilter{MinPrice: &min, MaxPrice: &max})
	require.NoError(t, err)
	assert.Equal(t, []string{"Fifteen"}, titles(books))
}

func TestCatalogWildcardsMatchLiterally(t *testing.T) {
	gdb := newTestDB(t)
	author := createAuthor(t, gdb, "Anon")
	cat := createCategory(t, gdb, "General")
	createBook(t, gdb, "a_b", "5", true, author.ID, cat.ID)
	createBook(t, gdb, "axb", "5", true, author.ID, cat.ID)
	createBook(t, gdb, "100% Go!", "5", true, author.ID, cat.ID)
	catalog := NewCatalog(gdb, nil)
	ctx := context.Background()

	books, err := catalog.Search(ctx, anonymous, "a_b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a_b"}, titles(books))
	books, err = catalog.Search(ctx, anonymous, "0% go!")
	require.NoError(t, err)
	assert.Equal(t, []string{"100% Go!"}, titles(books))

	books, err = catalog.Filter(ctx, anonymous, BookFilter{Author: "%"})
	require.NoError(t, err)
	assert.Empty(t, books)
	books, err = catalog.Filter(ctx, anonymous, BookFilter{Genre: "_"})
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestCatalogFilterCombinesPredicates(t *testing.T) {
	gdb := newTestDB(t)
	herbert := createAuthor(t, gdb, "Frank Herbert")
	scifi := createCategory(t, gdb, "Science Fiction")
	other := createCategory(t, gdb, "Classics")
	createBook(t, gdb, "Dune", "15", true, herbert.ID, scifi.ID)
	createBook(t, gdb, "The Dragon in the Sea", "9", true, herbert.ID, other.ID)
	catalog := NewCatalog(gdb, nil)

	books, err := catalog.Filter(context.Background(), anonymous, BookFilter{Author: "herbert", Category: "science"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dune"}, titles(books))
}

func TestCatalogCreateUpdateDelete(t *testing.T) {
	gdb := newTestDB(t)
	author := createAuthor(t, gdb, "Octavia E. Butler")
	cat := createCategory(t, gdb, "Science Fiction")
	catalog := NewCatalog(gdb, nil)
	ctx := context.Background()

	in := BookInput{
		Title:      "Kindred",
		Price:      decimal.RequireFromString("11.999"),
		AuthorID:   author.ID,
		CategoryID: cat.ID,
		ImageURL:   "/api/uploads/covers/kindred.png",
	}
	created, err := catalog.Create(ctx, in, true)
	require.NoError(t, err)
	assert.True(t, created.IsApproved)
	assert.Equal(t, "/uploads/covers/kindred.png", created.ImageURL)
	assert.True(t, created.Price.Equal(decimal.RequireFromString("12")))

	in.Title = "Kindred (Anniversary Edition)"
	updated, err := catalog.Update(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Kindred (Anniversary Edition)", updated.Title)
	assert.True(t, updated.IsApproved, "nil IsApproved keeps the flag")

	hidden, err := catalog.SetApproval(ctx, created.ID, false)
	require.NoError(t, err)
	assert.False(t, hidden.IsApproved)

	require.NoError(t, catalog.Delete(ctx, created.ID))
	assert.ErrorIs(t, catalog.Delete(ctx, created.ID), ErrNotFound)

	_, err = catalog.Update(ctx, 999, in)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = catalog.SetApproval(ctx, 999, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogCreateRejectsBadInput(t *testing.T) {
	gdb := newTestDB(t)
	author := createAuthor(t, gdb, "Someone")
	catalog := NewCatalog(gdb, nil)
	ctx := context.Background()

	_, err := catalog.Create(ctx, BookInput{Title: " ", AuthorID: author.ID, CategoryID: 1}, true)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = catalog.Create(ctx, BookInput{Title: "X", AuthorID: author.ID, CategoryID: 42}, true)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = catalog.Create(ctx, BookInput{Title: "X", Price: decimal.NewFromInt(-1), AuthorID: author.ID, CategoryID: 1}, true)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCatalogCacheIsInvalidatedByMutations(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	cache := utils.NewCache(rdb, "catalog:", time.Minute)

	gdb := newTestDB(t)
	author := createAuthor(t, gdb, "Cached Author")
	cat := createCategory(t, gdb, "Cached")
	first := createBook(t, gdb, "First", "1", true, author.ID, cat.ID)
	catalog := NewCatalog(gdb, cache)
	ctx := context.Background()

	books, err := catalog.List(ctx, anonymous)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.True(t, mr.Exists("catalog:"+approvedListKey))

	_, err = catalog.Get(ctx, anonymous, first.ID)
	require.NoError(t, err)
	assert.True(t, mr.Exists("catalog:book:1"))

	_, err = catalog.Create(ctx, BookInput{Title: "Second", AuthorID: author.ID, CategoryID: cat.ID}, true)
	require.NoError(t, err)
	assert.False(t, mr.Exists("catalog:"+approvedListKey))
	assert.True(t, mr.Exists("catalog:book:1"), "creating a book leaves other cached books alone")

	books, err = catalog.List(ctx, anonymous)
	require.NoError(t, err)
	assert.Equal(t, []string{"First", "Second"}, titles(books))

	_, err = catalog.SetApproval(ctx, first.ID, false)
	require.NoError(t, err)
	assert.False(t, mr.Exists("catalog:"+approvedListKey))
	assert.False(t, mr.Exists("catalog:book:1"))
	_, err = catalog.Get(ctx, anonymous, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = catalog.List(ctx, anonymous)
	require.NoError(t, err)
	require.NoError(t, NewTaxonomy(gdb, catalog).DeleteCategory(ctx, cat.ID))
	assert.Empty(t, mr.Keys())
	books, err = catalog.List(ctx, anonymous)
	require.NoError(t, err)
	assert.Empty(t, books)
}
