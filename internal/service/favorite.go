package service

import (
	"context" // Request scoped operations
	"fmt"     // Error wrapping

	"bookstore/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/clause"        // Upsert clauses
)

// Favorites manages per-user favorite books
type Favorites struct {
	db *gorm.DB // Database handle
}

// NewFavorites builds the favorites service
func NewFavorites(db *gorm.DB) *Favorites {
	return &Favorites{db: db}
}

// List returns the favorite books of userID that are still approved
func (s *Favorites) List(ctx context.Context, userID uint) ([]BookDTO, error) {
	var favs []domain.Favorite
	if err := s.db.WithContext(ctx).
		Joins("JOIN books ON books.id = favorites.book_id AND books.is_approved = ?", true).
		Preload("Book.Author").Preload("Book.Category").
		Where("favorites.user_id = ?", userID).Order("favorites.id").Find(&favs).Error; err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	out := make([]BookDTO, len(favs))
	for i, f := range favs {
		out[i] = toBookDTO(f.Book)
	}
	return out, nil
}

// Add marks bookID as a favorite; a second add is ErrAlreadyFavorite
func (s *Favorites) Add(ctx context.Context, userID, bookID uint) error {
	if err := requireApprovedBook(ctx, s.db, bookID); err != nil {
		return err
	}
	fav := domain.Favorite{UserID: userID, BookID: bookID}
	// Insert-or-nothing on the unique (user_id, book_id) index
	res := s.db.WithContext(ctx).Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}, {Name: "book_id"}}, DoNothing: true}).
		Create(&fav)
	if res.Error != nil {
		return fmt.Errorf("add favorite: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyFavorite
	}
	logrus.WithFields(logrus.Fields{
		"user_id": userID, // User ID
		"book_id": bookID, // Book ID
	}).Info("Book added to favorites")
	return nil
}

// Remove unmarks bookID
func (s *Favorites) Remove(ctx context.Context, userID, bookID uint) error {
	res := s.db.WithContext(ctx).Where("user_id = ? AND book_id = ?", userID, bookID).Delete(&domain.Favorite{})
	if res.Error != nil {
		return fmt.Errorf("remove favorite: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("book not found in favorites: %w", ErrNotFound)
	}
	logrus.WithFields(logrus.Fields{
		"user_id": userID, // User ID
		"book_id": bookID, // Book ID
	}).Info("Book removed from favorites")
	return nil
}
