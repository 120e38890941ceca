package service

import (
	"context"
	"sync"
	"testing"

	"bookstore/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func duneRequest() SubmitInput {
	return SubmitInput{
		Title:      "Dune",
		AuthorName: "Frank Herbert",
		Genre:      "Sci-Fi",
		Price:      decimal.RequireFromString("15.00"),
	}
}

func TestSubmitStoresPendingRequest(t *testing.T) {
	gdb := newTestDB(t)
	writer := createUser(t, gdb, "frank", domain.RoleAuthor)
	requests := NewBookRequests(gdb, NewCatalog(gdb, nil))
	ctx := context.Background()

	req, err := requests.Submit(ctx, writer.ID, duneRequest())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, req.Status)
	assert.Equal(t, writer.ID, req.RequestedByID)
	assert.Equal(t, "Test frank", req.RequestedByName)

	mine, err := requests.Mine(ctx, writer.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	pending, err := requests.Pending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestSubmitValidatesInput(t *testing.T) {
	gdb := newTestDB(t)
	writer := createUser(t, gdb, "frank", domain.RoleAuthor)
	requests := NewBookRequests(gdb, NewCatalog(gdb, nil))
	ctx := context.Background()

	_, err := requests.Submit(ctx, writer.ID, SubmitInput{Title: "No author"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	missing := uint(77)
	in := duneRequest()
	in.CategoryID = &missing
	_, err = requests.Submit(ctx, writer.ID, in)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestApproveCreatesAuthorAndBook(t *testing.T) {
	gdb := newTestDB(t)
	scifi := createCategory(t, gdb, "Science Fiction")
	writer := createUser(t, gdb, "frank", domain.RoleAuthor)
	catalog := NewCatalog(gdb, nil)
	requests := NewBookRequests(gdb, catalog)
	ctx := context.Background()

	req, err := requests.Submit(ctx, writer.ID, duneRequest())
	require.NoError(t, err)

	book, err := requests.Approve(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)
	assert.True(t, book.IsApproved)
	assert.Equal(t, "Frank Herbert", book.AuthorName)
	assert.Equal(t, scifi.ID, book.CategoryID, "first category is the fallback")

	var author domain.Author
	require.NoError(t, gdb.Where("name = ?", "Frank Herbert").First(&author).Error)
	require.NotNil(t, author.UserID)
	assert.Equal(t, writer.ID, *author.UserID)

	all, err := requests.All(ctx, domain.StatusApproved)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, domain.StatusApproved, all[0].Status)

	public, err := catalog.List(ctx, anonymous)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dune"}, titles(public))

	_, err = requests.Approve(ctx, req.ID)
	assert.ErrorIs(t, err, ErrNotPending)
	_, err = requests.Reject(ctx, req.ID)
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestApproveReusesExistingAuthorAndRequestedCategory(t *testing.T) {
	gdb := newTestDB(t)
	createCategory(t, gdb, "First")
	target := createCategory(t, gdb, "Target")
	existing := createAuthor(t, gdb, "Frank Herbert")
	writer := createUser(t, gdb, "frank", domain.RoleAuthor)
	requests := NewBookRequests(gdb, NewCatalog(gdb, nil))
	ctx := context.Background()

	in := duneRequest()
	in.CategoryID = &target.ID
	req, err := requests.Submit(ctx, writer.ID, in)
	require.NoError(t, err)

	book, err := requests.Approve(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, book.AuthorID)
	assert.Equal(t, target.ID, book.CategoryID)

	var authors int64
	require.NoError(t, gdb.Model(&domain.Author{}).Count(&authors).Error)
	assert.EqualValues(t, 1, authors)
}

func TestEnsureAuthorReusesAConcurrentInsert(t *testing.T) {
	gdb := newTestDB(t)
	first := createUser(t, gdb, "first", domain.RoleAuthor)
	second := createUser(t, gdb, "second", domain.RoleAuthor)

	created, err := ensureAuthor(gdb, "Ursula K. Le Guin", first.ID)
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	// The second insert loses on the unique name and gets the winner's row
	var reused domain.Author
	err = gdb.Transaction(func(tx *gorm.DB) error {
		var err error
		reused, err = ensureAuthor(tx, "Ursula K. Le Guin", second.ID)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, reused.ID)
	require.NotNil(t, reused.UserID)
	assert.Equal(t, first.ID, *reused.UserID)

	var authors int64
	require.NoError(t, gdb.Model(&domain.Author{}).Count(&authors).Error)
	assert.EqualValues(t, 1, authors)
}

func TestApproveWithoutCategoriesFails(t *testing.T) {
	gdb := newTestDB(t)
	writer := createUser(t, gdb, "frank", domain.RoleAuthor)
	requests := NewBookRequests(gdb, NewCatalog(gdb, nil))
	ctx := context.Background()

	req, err := requests.Submit(ctx, writer.ID, duneRequest())
	require.NoError(t, err)

	_, err = requests.Approve(ctx, req.ID)
	assert.ErrorIs(t, err, ErrNoCategory)

	// The transaction rolled back: nothing was created and the request is still pending
	var authors, books int64
	require.NoError(t, gdb.Model(&domain.Author{}).Count(&authors).Error)
	require.NoError(t, gdb.Model(&domain.Book{}).Count(&books).Error)
	assert.Zero(t, authors)
	assert.Zero(t, books)
	pending, err := requests.Pending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestRejectCreatesNoBook(t *testing.T) {
	gdb := newTestDB(t)
	createCategory(t, gdb, "Any")
	writer := createUser(t, gdb, "frank", domain.RoleAuthor)
	requests := NewBookRequests(gdb, NewCatalog(gdb, nil))
	ctx := context.Background()

	req, err := requests.Submit(ctx, writer.ID, duneRequest())
	require.NoError(t, err)

	rejected, err := requests.Reject(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, rejected.Status)

	var books int64
	require.NoError(t, gdb.Model(&domain.Book{}).Count(&books).Error)
	assert.Zero(t, books)

	_, err = requests.Approve(ctx, req.ID)
	assert.ErrorIs(t, err, ErrNotPending)
	_, err = requests.Reject(ctx, 12345)
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestConcurrentApproveAndRejectOnlyOneWins(t *testing.T) {
	gdb := newTestDB(t)
	createCategory(t, gdb, "Any")
	writer := createUser(t, gdb, "frank", domain.RoleAuthor)
	requests := NewBookRequests(gdb, NewCatalog(gdb, nil))
	ctx := context.Background()

	req, err := requests.Submit(ctx, writer.ID, duneRequest())
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = requests.Approve(ctx, req.ID)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = requests.Reject(ctx, req.ID)
	}()
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrNotPending)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestAllRejectsUnknownStatus(t *testing.T) {
	gdb := newTestDB(t)
	requests := NewBookRequests(gdb, NewCatalog(gdb, nil))

	_, err := requests.All(context.Background(), domain.RequestStatus("Archived"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}
