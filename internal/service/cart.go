package service

import (
	"context" // Request scoped operations
	"fmt"     // Error wrapping
	"time"    // Upsert timestamps

	"bookstore/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/clause"        // Upsert clauses
)

// Carts manages per-user shopping carts
type Carts struct {
	db *gorm.DB // Database handle
}

// NewCarts builds the cart service
func NewCarts(db *gorm.DB) *Carts {
	return &Carts{db: db}
}

// Get returns the cart lines of userID; lines whose book was unapproved are left out
func (s *Carts) Get(ctx context.Context, userID uint) ([]CartItemDTO, error) {
	var items []domain.CartItem
	if err := s.db.WithContext(ctx).
		Joins("JOIN books ON books.id = cart_items.book_id AND books.is_approved = ?", true).
		Preload("Book.Author").Preload("Book.Category").
		Where("cart_items.user_id = ?", userID).Order("cart_items.id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	out := make([]CartItemDTO, len(items))
	for i, item := range items {
		out[i] = toCartItemDTO(item)
	}
	return out, nil
}

// Add puts qty copies of bookID in the cart, accumulating onto an existing line
func (s *Carts) Add(ctx context.Context, userID, bookID uint, qty int) error {
	if qty < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}
	if err := requireApprovedBook(ctx, s.db, bookID); err != nil {
		return err
	}
	item := domain.CartItem{UserID: userID, BookID: bookID, Quantity: qty}
	// Unique (user_id, book_id) plus upsert keeps concurrent adds on one row
	err := s.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity":   gorm.Expr("cart_items.quantity + ?", qty),
			"updated_at": time.Now(),
		}),
	}).Create(&item).Error
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,      // User ID
			"book_id": bookID,      // Book ID
			"error":   err.Error(), // Error message
		}).Error("Failed to add to cart")
		return fmt.Errorf("add to cart: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id":  userID, // User ID
		"book_id":  bookID, // Book ID
		"quantity": qty,    // Added quantity
	}).Info("Book added to cart")
	return nil
}

// SetQuantity replaces the quantity of a cart line in one statement; qty <= 0 removes the line
func (s *Carts) SetQuantity(ctx context.Context, userID, bookID uint, qty int) error {
	if qty <= 0 {
		return s.Remove(ctx, userID, bookID)
	}
	if err := requireApprovedBook(ctx, s.db, bookID); err != nil {
		return err
	}
	item := domain.CartItem{UserID: userID, BookID: bookID, Quantity: qty}
	err := s.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
		DoUpdates: clause.Assignments(map[string]any{"quantity": qty, "updated_at": time.Now()}),
	}).Create(&item).Error
	if err != nil {
		return fmt.Errorf("set cart quantity: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id":  userID, // User ID
		"book_id":  bookID, // Book ID
		"quantity": qty,    // New quantity
	}).Info("Cart quantity set")
	return nil
}

// Remove deletes the cart line for bookID
func (s *Carts) Remove(ctx context.Context, userID, bookID uint) error {
	res := s.db.WithContext(ctx).Where("user_id = ? AND book_id = ?", userID, bookID).Delete(&domain.CartItem{})
	if res.Error != nil {
		return fmt.Errorf("remove from cart: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("book not found in cart: %w", ErrNotFound)
	}
	logrus.WithFields(logrus.Fields{
		"user_id": userID, // User ID
		"book_id": bookID, // Book ID
	}).Info("Book removed from cart")
	return nil
}

// Clear empties the cart of userID
func (s *Carts) Clear(ctx context.Context, userID uint) error {
	res := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.CartItem{})
	if res.Error != nil {
		return fmt.Errorf("clear cart: %w", res.Error)
	}
	logrus.WithFields(logrus.Fields{
		"user_id": userID,           // User ID
		"removed": res.RowsAffected, // Deleted lines
	}).Info("Cart cleared")
	return nil
}

// requireApprovedBook reports ErrNotFound unless bookID names a visible book
func requireApprovedBook(ctx context.Context, db *gorm.DB, bookID uint) error {
	var count int64
	if err := db.WithContext(ctx).Model(&domain.Book{}).
		Where("id = ? AND is_approved = ?", bookID, true).Count(&count).Error; err != nil {
		return fmt.Errorf("check book: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("book %w", ErrNotFound)
	}
	return nil
}
