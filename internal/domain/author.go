package domain

// Author Model
type Author struct {
	ID     uint   `gorm:"primaryKey"`                    // Primary key
	Name   string `gorm:"size:255;uniqueIndex;not null"` // Unique display name
	UserID *uint  `gorm:"index"`                         // Optional back-link to the author's account
	User   *User  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

// Category Model
type Category struct {
	ID   uint   `gorm:"primaryKey"`                    // Primary key
	Name string `gorm:"size:255;uniqueIndex;not null"` // Unique category name
}
