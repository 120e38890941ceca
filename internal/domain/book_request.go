package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestStatus is the lifecycle state of a BookRequest
type RequestStatus string

// Request states. Approved and Rejected are terminal.
const (
	StatusPending  RequestStatus = "Pending"
	StatusApproved RequestStatus = "Approved"
	StatusRejected RequestStatus = "Rejected"
)

// Valid reports whether s is a known request status
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// BookRequest Model, an author's proposal awaiting admin review
type BookRequest struct {
	ID            uint            `gorm:"primaryKey"`                  // Primary key
	Title         string          `gorm:"size:255;not null"`           // Proposed title
	AuthorName    string          `gorm:"size:255;not null"`           // Author display name to resolve on approval
	Description   string          `gorm:"type:text"`                   // Proposed description
	Genre         string          `gorm:"size:100"`                    // Proposed genre
	Price         decimal.Decimal `gorm:"type:decimal(18,2);not null"` // Proposed price
	CoverImageURL string          `gorm:"size:512"`                    // Relative cover path
	SamplePdfURL  string          `gorm:"size:512"`                    // Relative sample PDF path
	Status        RequestStatus   `gorm:"size:20;not null;default:Pending;index"`
	RequestedByID uint            `gorm:"not null;index"` // Requesting user
	RequestedBy   User            `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CategoryID    *uint           `gorm:"index"` // Optional target category
	Category      *Category       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	CreatedAt     time.Time       // Submission timestamp
	UpdatedAt     time.Time       // Last status change
}
