package service

import (
	"strings"

	"bookstore/internal/domain"
	"bookstore/internal/storage"

	"github.com/shopspring/decimal"
)

// Viewer identifies the caller of a read operation. The zero value is anonymous.
type Viewer struct {
	UserID uint
	Role   domain.Role
}

// IsAdmin reports whether the viewer may see unapproved books
func (v Viewer) IsAdmin() bool {
	return v.Role == domain.RoleAdmin
}

// BookDTO is the public shape of a book
type BookDTO struct {
	ID           uint             `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	AuthorID     uint             `json:"authorId"`
	AuthorName   string           `json:"authorName"`
	CategoryID   uint             `json:"categoryId"`
	CategoryName string           `json:"categoryName"`
	Genre        string           `json:"genre"`
	Price        *decimal.Decimal `json:"price"` // Null for external recommendations
	ImageURL     string           `json:"imageUrl"`
	SamplePdfURL string           `json:"samplePdfUrl"`
	IsApproved   bool             `json:"isApproved"`
}

// BookRequestDTO is the public shape of a book request
type BookRequestDTO struct {
	ID              uint                 `json:"id"`
	Title           string               `json:"title"`
	AuthorName      string               `json:"authorName"`
	Description     string               `json:"description"`
	Genre           string               `json:"genre"`
	Price           decimal.Decimal      `json:"price"`
	CoverImageURL   string               `json:"coverImageUrl"`
	SamplePdfURL    string               `json:"samplePdfUrl"`
	Status          domain.RequestStatus `json:"status"`
	RequestedByID   uint                 `json:"requestedById"`
	RequestedByName string               `json:"requestedByName"`
	CategoryID      *uint                `json:"categoryId"`
}

// CartItemDTO is one line of a user's cart
type CartItemDTO struct {
	BookID       uint            `json:"bookId"`
	Title        string          `json:"title"`
	AuthorName   string          `json:"authorName"`
	CategoryName string          `json:"categoryName"`
	Genre        string          `json:"genre"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	ImageURL     string          `json:"imageUrl"`
}

// AuthorDTO is the public shape of an author
type AuthorDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// CategoryDTO is the public shape of a category
type CategoryDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ProfileDTO is the public shape of a user account
type ProfileDTO struct {
	ID              uint        `json:"id"`
	Username        string      `json:"username"`
	FirstName       string      `json:"firstName"`
	LastName        string      `json:"lastName"`
	Email           string      `json:"email"`
	PhoneNumber     string      `json:"phoneNumber"`
	ProfileImageURL *string     `json:"profileImageUrl"`
	Role            domain.Role `json:"role"`
}

func toBookDTO(b domain.Book) BookDTO {
	price := b.Price
	return BookDTO{
		ID:           b.ID,
		Title:        b.Title,
		Description:  b.Description,
		AuthorID:     b.AuthorID,
		AuthorName:   b.Author.Name,
		CategoryID:   b.CategoryID,
		CategoryName: b.Category.Name,
		Genre:        b.Genre,
		Price:        &price,
		ImageURL:     storage.NormalizePath(b.ImageURL),
		SamplePdfURL: storage.NormalizePath(b.SamplePdfURL),
		IsApproved:   b.IsApproved,
	}
}

func toBookDTOs(books []domain.Book) []BookDTO {
	out := make([]BookDTO, len(books))
	for i, b := range books {
		out[i] = toBookDTO(b)
	}
	return out
}

func toBookRequestDTO(r domain.BookRequest) BookRequestDTO {
	name := strings.TrimSpace(r.RequestedBy.FirstName + " " + r.RequestedBy.LastName)
	return BookRequestDTO{
		ID:              r.ID,
		Title:           r.Title,
		AuthorName:      r.AuthorName,
		Description:     r.Description,
		Genre:           r.Genre,
		Price:           r.Price,
		CoverImageURL:   storage.NormalizePath(r.CoverImageURL),
		SamplePdfURL:    storage.NormalizePath(r.SamplePdfURL),
		Status:          r.Status,
		RequestedByID:   r.RequestedByID,
		RequestedByName: name,
		CategoryID:      r.CategoryID,
	}
}

func toBookRequestDTOs(reqs []domain.BookRequest) []BookRequestDTO {
	out := make([]BookRequestDTO, len(reqs))
	for i, r := range reqs {
		out[i] = toBookRequestDTO(r)
	}
	return out
}

func toCartItemDTO(c domain.CartItem) CartItemDTO {
	return CartItemDTO{
		BookID:       c.BookID,
		Title:        c.Book.Title,
		AuthorName:   c.Book.Author.Name,
		CategoryName: c.Book.Category.Name,
		Genre:        c.Book.Genre,
		Price:        c.Book.Price,
		Quantity:     c.Quantity,
		ImageURL:     storage.NormalizePath(c.Book.ImageURL),
	}
}

// ToProfile projects u, turning the stored avatar path into an absolute URL under baseURL
func ToProfile(u domain.User, baseURL string) ProfileDTO {
	p := ProfileDTO{
		ID:          u.ID,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
	}
	if u.ProfileImageURL != "" {
		url := AbsoluteURL(baseURL, u.ProfileImageURL)
		p.ProfileImageURL = &url
	}
	return p
}

// AbsoluteURL joins a relative upload path onto baseURL; absolute URLs pass through
func AbsoluteURL(baseURL, p string) string {
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	return strings.TrimRight(baseURL, "/") + storage.NormalizePath(p)
}
