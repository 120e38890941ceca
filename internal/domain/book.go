package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, matching what the front end sends
	decimal.MarshalJSONWithoutQuotes = true
}

// Book Model
type Book struct {
	ID           uint            `gorm:"primaryKey"`                  // Primary key
	Title        string          `gorm:"size:255;not null;index"`     // Book title
	Description  string          `gorm:"type:text"`                   // Long description
	Price        decimal.Decimal `gorm:"type:decimal(18,2);not null"` // Price, two decimals
	Genre        string          `gorm:"size:100;index"`              // Free-form genre
	ImageURL     string          `gorm:"size:512"`                    // Relative cover path or external URL
	SamplePdfURL string          `gorm:"size:512"`                    // Relative sample PDF path
	IsApproved   bool            `gorm:"not null;default:false;index"`
	AuthorID     uint            `gorm:"not null;index"` // Foreign key to Author
	Author       Author          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CategoryID   uint            `gorm:"not null;index"` // Foreign key to Category
	Category     Category        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt    time.Time       // Creation timestamp
	UpdatedAt    time.Time       // Last update timestamp
}
