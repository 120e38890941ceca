package db

import (
	"testing"

	"bookstore/internal/config"
	"bookstore/internal/domain"
	"bookstore/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateSeedAndEnsureAdmin(t *testing.T) {
	cfg := config.Defaults()
	cfg.DBDriver = "sqlite"
	cfg.DBPath = ":memory:"
	gdb, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, Migrate(gdb))

	require.NoError(t, EnsureAdmin(gdb, cfg))
	require.NoError(t, EnsureAdmin(gdb, cfg), "second call is a no-op")
	var admins []domain.User
	require.NoError(t, gdb.Where("role = ?", domain.RoleAdmin).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin", admins[0].Username)
	assert.True(t, utils.CheckPassword(admins[0].PasswordHash, "Admin@123"))

	require.NoError(t, Seed(gdb))
	require.NoError(t, Seed(gdb), "seeding twice keeps one copy")

	var authors, categories, books int64
	require.NoError(t, gdb.Model(&domain.Author{}).Count(&authors).Error)
	require.NoError(t, gdb.Model(&domain.Category{}).Count(&categories).Error)
	require.NoError(t, gdb.Model(&domain.Book{}).Count(&books).Error)
	assert.EqualValues(t, 3, authors)
	assert.EqualValues(t, 3, categories)
	assert.EqualValues(t, 1, books)

	var book domain.Book
	require.NoError(t, gdb.Preload("Author").First(&book).Error)
	assert.True(t, book.IsApproved)
	assert.Equal(t, "J.K. Rowling", book.Author.Name)
	assert.Equal(t, "19.99", book.Price.StringFixed(2))
}

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	_, err := Dialector(config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}
