package domain

import "time"

// Role is the authorization tier carried in the bearer token
type Role string

// Known roles
const (
	RoleUser   Role = "User"   // Regular customer
	RoleAuthor Role = "Author" // May submit book requests
	RoleAdmin  Role = "Admin"  // Manages catalog and requests
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAuthor, RoleAdmin:
		return true
	}
	return false
}

// User Model
type User struct {
	ID              uint      `gorm:"primaryKey"`                          // Primary key
	Username        string    `gorm:"size:100;uniqueIndex;not null"`       // Unique username
	Email           string    `gorm:"size:255;uniqueIndex;not null"`       // Unique email
	FirstName       string    `gorm:"size:100;not null"`                   // First name
	LastName        string    `gorm:"size:100;not null"`                   // Last name
	PhoneNumber     string    `gorm:"size:50;not null"`                    // Phone number
	PasswordHash    string    `gorm:"not null"`                            // Hashed password
	ProfileImageURL string    `gorm:"size:512"`                            // Relative avatar path
	Role            Role      `gorm:"size:20;not null;default:User;index"` // Role: User, Author or Admin
	CreatedAt       time.Time // Creation timestamp
	UpdatedAt       time.Time // Last update timestamp
}
