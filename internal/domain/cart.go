package domain

import "time"

// CartItem Model, one row per (user, book)
type CartItem struct {
	ID        uint      `gorm:"primaryKey"`                                    // Primary key
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_book"`       // Owner
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"` // Owner relation
	BookID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_book"`       // Book in cart
	Book      Book      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"` // Book relation
	Quantity  int       `gorm:"not null;default:1"`                            // Always >= 1
	CreatedAt time.Time // Creation timestamp
	UpdatedAt time.Time // Last update timestamp
}

// Favorite Model, one row per (user, book)
type Favorite struct {
	ID        uint      `gorm:"primaryKey"`                                    // Primary key
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorite_user_book"`   // Owner
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"` // Owner relation
	BookID    uint      `gorm:"not null;uniqueIndex:idx_favorite_user_book"`   // Favorited book
	Book      Book      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"` // Book relation
	CreatedAt time.Time // Creation timestamp
}
