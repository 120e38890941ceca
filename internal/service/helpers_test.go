package service

import (
	"testing"

	"bookstore/internal/config"
	"bookstore/internal/db"
	"bookstore/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	anonymous = Viewer{}
	admin     = Viewer{UserID: 1, Role: domain.RoleAdmin}
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(config.Config{DBDriver: "sqlite", DBPath: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func createUser(t *testing.T, gdb *gorm.DB, username string, role domain.Role) domain.User {
	t.Helper()
	u := domain.User{
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    "Test",
		LastName:     username,
		PhoneNumber:  "555-0100",
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, gdb.Create(&u).Error)
	return u
}

func createAuthor(t *testing.T, gdb *gorm.DB, name string) domain.Author {
	t.Helper()
	a := domain.Author{Name: name}
	require.NoError(t, gdb.Omit(clause.Associations).Create(&a).Error)
	return a
}

func createCategory(t *testing.T, gdb *gorm.DB, name string) domain.Category {
	t.Helper()
	c := domain.Category{Name: name}
	require.NoError(t, gdb.Create(&c).Error)
	return c
}

func createBook(t *testing.T, gdb *gorm.DB, title, price string, approved bool, authorID, categoryID uint) domain.Book {
	t.Helper()
	b := domain.Book{
		Title:      title,
		Genre:      "Fiction",
		Price:      decimal.RequireFromString(price),
		AuthorID:   authorID,
		CategoryID: categoryID,
		IsApproved: approved,
	}
	require.NoError(t, gdb.Omit(clause.Associations).Create(&b).Error)
	return b
}

func titles(books []BookDTO) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}
