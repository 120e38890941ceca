package db

import (
	"errors" // Error inspection
	"fmt"    // Error wrapping

	"bookstore/internal/config" // Application configuration
	"bookstore/internal/domain" // Importing domain models
	"bookstore/internal/utils"  // Password hashing

	"github.com/shopspring/decimal" // Fixed-point prices
	"github.com/sirupsen/logrus"    // Logrus for structured logging
	"gorm.io/gorm"                  // GORM ORM library
)

// Models lists every table in dependency order
func Models() []any {
	return []any{
		&domain.User{},
		&domain.Author{},
		&domain.Category{},
		&domain.Book{},
		&domain.CartItem{},
		&domain.Favorite{},
		&domain.BookRequest{},
	}
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}

// EnsureAdmin creates the configured admin account when no admin exists
func EnsureAdmin(db *gorm.DB, cfg config.Config) error {
	var count int64 // Number of existing admins
	if err := db.Model(&domain.User{}).Where("role = ?", domain.RoleAdmin).Count(&count).Error; err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return nil // Admin already present
	}
	hash, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	admin := domain.User{
		Username:     cfg.AdminUsername,
		Email:        cfg.AdminEmail,
		FirstName:    "Super",
		LastName:     "Admin",
		PhoneNumber:  "0000000000",
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id":  admin.ID,       // Admin ID
		"username": admin.Username, // Admin username
	}).Info("Default admin created")
	return nil
}

// Seed inserts the starter catalog when the tables are empty
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var authors int64 // Existing author count
		if err := tx.Model(&domain.Author{}).Count(&authors).Error; err != nil {
			return err
		}
		if authors == 0 {
			seed := []domain.Author{{Name: "J.K. Rowling"}, {Name: "George R.R. Martin"}, {Name: "J.R.R. Tolkien"}}
			if err := tx.Create(&seed).Error; err != nil {
				return fmt.Errorf("seed authors: %w", err)
			}
		}
		var categories int64 // Existing category count
		if err := tx.Model(&domain.Category{}).Count(&categories).Error; err != nil {
			return err
		}
		if categories == 0 {
			seed := []domain.Category{{Name: "Fantasy"}, {Name: "Adventure"}, {Name: "Fiction"}}
			if err := tx.Create(&seed).Error; err != nil {
				return fmt.Errorf("seed categories: %w", err)
			}
		}
		var books int64 // Existing book count
		if err := tx.Model(&domain.Book{}).Count(&books).Error; err != nil {
			return err
		}
		if books > 0 {
			return nil
		}
		var author domain.Author // Author of the sample book
		if err := tx.Where("name = ?", "J.K. Rowling").First(&author).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // Catalog was seeded by hand, leave it alone
			}
			return err
		}
		var category domain.Category // Category of the sample book
		if err := tx.Where("name = ?", "Fantasy").First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		book := domain.Book{
			Title:       "Harry Potter and the Philosopher's Stone",
			Description: "A young wizard's journey begins.",
			Price:       decimal.RequireFromString("19.99"),
			Genre:       "Fantasy",
			AuthorID:    author.ID,
			CategoryID:  category.ID,
			ImageURL:    "https://example.com/hp1.jpg",
			IsApproved:  true,
		}
		if err := tx.Omit("Author", "Category").Create(&book).Error; err != nil {
			return fmt.Errorf("seed book: %w", err)
		}
		logrus.Info("Seed data inserted.")
		return nil
	})
}
