package service

import (
	"context" // Request scoped operations
	"errors"  // Error inspection
	"fmt"     // Error wrapping
	"strconv" // Cache keys
	"strings" // Search normalization

	"bookstore/internal/domain"  // Importing domain models
	"bookstore/internal/storage" // Path normalization
	"bookstore/internal/utils"   // Redis cache

	"github.com/shopspring/decimal" // Fixed-point prices
	"github.com/sirupsen/logrus"    // Logging library
	"gorm.io/gorm"                  // GORM ORM library
	"gorm.io/gorm/clause"           // Association control
)

const approvedListKey = "books:approved" // Cache key for the public list

// BookInput carries the mutable fields of a book
type BookInput struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Genre        string          `json:"genre"`
	Price        decimal.Decimal `json:"price"`
	AuthorID     uint            `json:"authorId"`
	CategoryID   uint            `json:"categoryId"`
	ImageURL     string          `json:"imageUrl"`
	SamplePdfURL string          `json:"samplePdfUrl"`
	IsApproved   *bool           `json:"isApproved"` // Nil keeps the current flag on update
}

func (in BookInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if in.AuthorID == 0 || in.CategoryID == 0 {
		return fmt.Errorf("%w: authorId and categoryId are required", ErrInvalidInput)
	}
	return nil
}

// BookFilter holds the independent predicates of a catalog filter; zero values are ignored
type BookFilter struct {
	Author   string
	Category string
	Genre    string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// Catalog serves and maintains books
type Catalog struct {
	db    *gorm.DB     // Database handle
	cache *utils.Cache // Approved-book cache, may be nil
}

// NewCatalog builds a Catalog over db; cache may be nil
func NewCatalog(db *gorm.DB, cache *utils.Cache) *Catalog {
	return &Catalog{db: db, cache: cache}
}

// query starts a book query scoped to what viewer may see
func (s *Catalog) query(ctx context.Context, viewer Viewer) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&domain.Book{}).Preload("Author").Preload("Category")
	if !viewer.IsAdmin() {
		q = q.Where("books.is_approved = ?", true) // Public callers only see approved books
	}
	return q
}

// List returns every book visible to viewer
func (s *Catalog) List(ctx context.Context, viewer Viewer) ([]BookDTO, error) {
	if !viewer.IsAdmin() {
		var cached []BookDTO // Try to get cached response
		if found, err := s.cache.Get(ctx, approvedListKey, &cached); err == nil && found {
			return cached, nil
		}
	}
	var books []domain.Book
	if err := s.query(ctx, viewer).Order("books.id").Find(&books).Error; err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	out := toBookDTOs(books)
	if !viewer.IsAdmin() {
		s.cacheSet(ctx, approvedListKey, out)
	}
	return out, nil
}

// Get returns one book; unapproved books are not found for non-admin viewers
func (s *Catalog) Get(ctx context.Context, viewer Viewer, id uint) (BookDTO, error) {
	key := bookKey(id)
	if !viewer.IsAdmin() {
		var cached BookDTO
		if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
			return cached, nil
		}
	}
	var book domain.Book
	if err := s.query(ctx, viewer).Where("books.id = ?", id).First(&book).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BookDTO{}, fmt.Errorf("book %w", ErrNotFound)
		}
		return BookDTO{}, fmt.Errorf("get book: %w", err)
	}
	out := toBookDTO(book)
	if !viewer.IsAdmin() {
		s.cacheSet(ctx, key, out)
	}
	return out, nil
}

// Create inserts a book with the given approval flag
func (s *Catalog) Create(ctx context.Context, in BookInput, approved bool) (BookDTO, error) {
	if err := in.validate(); err != nil {
		return BookDTO{}, err
	}
	if err := s.checkRefs(ctx, in.AuthorID, in.CategoryID); err != nil {
		return BookDTO{}, err
	}
	book := domain.Book{
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		Genre:        strings.TrimSpace(in.Genre),
		Price:        in.Price.Round(2),
		AuthorID:     in.AuthorID,
		CategoryID:   in.CategoryID,
		ImageURL:     storage.NormalizePath(in.ImageURL),
		SamplePdfURL: storage.NormalizePath(in.SamplePdfURL),
		IsApproved:   approved,
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&book).Error; err != nil {
		logrus.WithFields(logrus.Fields{
			"title": book.Title,  // Book title
			"error": err.Error(), // Error message
		}).Error("Failed to create book")
		return BookDTO{}, fmt.Errorf("create book: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"book_id":  book.ID,         // Book ID
		"approved": book.IsApproved, // Approval flag
	}).Info("Book created")
	s.invalidateBook(ctx, book.ID)
	return s.Get(ctx, Viewer{Role: domain.RoleAdmin}, book.ID)
}

// Update replaces the mutable fields of a book
func (s *Catalog) Update(ctx context.Context, id uint, in BookInput) (BookDTO, error) {
	if err := in.validate(); err != nil {
		return BookDTO{}, err
	}
	var book domain.Book
	if err := s.db.WithContext(ctx).First(&book, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BookDTO{}, fmt.Errorf("book %w", ErrNotFound)
		}
		return BookDTO{}, fmt.Errorf("load book: %w", err)
	}
	if err := s.checkRefs(ctx, in.AuthorID, in.CategoryID); err != nil {
		return BookDTO{}, err
	}
	book.Title = strings.TrimSpace(in.Title)
	book.Description = in.Description
	book.Genre = strings.TrimSpace(in.Genre)
	book.Price = in.Price.Round(2)
	book.AuthorID = in.AuthorID
	book.CategoryID = in.CategoryID
	book.ImageURL = storage.NormalizePath(in.ImageURL)
	book.SamplePdfURL = storage.NormalizePath(in.SamplePdfURL)
	if in.IsApproved != nil {
		book.IsApproved = *in.IsApproved
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(&book).Error; err != nil {
		return BookDTO{}, fmt.Errorf("update book: %w", err)
	}
	logrus.WithField("book_id", book.ID).Info("Book updated")
	s.invalidateBook(ctx, book.ID)
	return s.Get(ctx, Viewer{Role: domain.RoleAdmin}, book.ID)
}

// Delete hard-deletes a book
func (s *Catalog) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&domain.Book{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("book %w", ErrNotFound)
	}
	logrus.WithField("book_id", id).Info("Book deleted")
	s.invalidateBook(ctx, id)
	return nil
}

// SetApproval flips the approval flag of a book
func (s *Catalog) SetApproval(ctx context.Context, id uint, approved bool) (BookDTO, error) {
	res := s.db.WithContext(ctx).Model(&domain.Book{}).Where("id = ?", id).Update("is_approved", approved)
	if res.Error != nil {
		return BookDTO{}, fmt.Errorf("update approval: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// MySQL reports zero rows when the value is unchanged, so confirm existence
		var count int64
		if err := s.db.WithContext(ctx).Model(&domain.Book{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return BookDTO{}, fmt.Errorf("update approval: %w", err)
		}
		if count == 0 {
			return BookDTO{}, fmt.Errorf("book %w", ErrNotFound)
		}
	}
	logrus.WithFields(logrus.Fields{
		"book_id":  id,       // Book ID
		"approved": approved, // New flag
	}).Info("Book approval changed")
	s.invalidateBook(ctx, id)
	return s.Get(ctx, Viewer{Role: domain.RoleAdmin}, id)
}

// Search matches query case-insensitively against title, author, category and genre.
// A blank query returns the unfiltered list.
func (s *Catalog) Search(ctx context.Context, viewer Viewer, query string) ([]BookDTO, error) {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return s.List(ctx, viewer)
	}
	like := containsPattern(term)
	var books []domain.Book
	err := s.query(ctx, viewer).
		Joins("JOIN authors ON authors.id = books.author_id").
		Joins("JOIN categories ON categories.id = books.category_id").
		Where("LOWER(books.title) LIKE ? ESCAPE '!' OR LOWER(authors.name) LIKE ? ESCAPE '!' OR "+
			"LOWER(categories.name) LIKE ? ESCAPE '!' OR LOWER(books.genre) LIKE ? ESCAPE '!'",
			like, like, like, like).
		Order("books.id").
		Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return toBookDTOs(books), nil
}

// Filter applies every set predicate of f, AND-combined
func (s *Catalog) Filter(ctx context.Context, viewer Viewer, f BookFilter) ([]BookDTO, error) {
	q := s.query(ctx, viewer)
	if v := strings.ToLower(strings.TrimSpace(f.Author)); v != "" {
		q = q.Joins("JOIN authors ON authors.id = books.author_id").
			Where("LOWER(authors.name) LIKE ? ESCAPE '!'", containsPattern(v))
	}
	if v := strings.ToLower(strings.TrimSpace(f.Category)); v != "" {
		q = q.Joins("JOIN categories ON categories.id = books.category_id").
			Where("LOWER(categories.name) LIKE ? ESCAPE '!'", containsPattern(v))
	}
	if v := strings.ToLower(strings.TrimSpace(f.Genre)); v != "" {
		q = q.Where("LOWER(books.genre) LIKE ? ESCAPE '!'", containsPattern(v))
	}
	if f.MinPrice != nil {
		q = q.Where("books.price >= ?", *f.MinPrice) // Open ended when no maximum is given
	}
	if f.MaxPrice != nil {
		q = q.Where("books.price <= ?", *f.MaxPrice)
	}
	var books []domain.Book
	if err := q.Order("books.id").Find(&books).Error; err != nil {
		return nil, fmt.Errorf("filter books: %w", err)
	}
	return toBookDTOs(books), nil
}

// likeEscaper makes LIKE wildcards in user input match literally, paired with ESCAPE '!'
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern is the LIKE pattern matching term anywhere
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// checkRefs verifies that the author and category exist
func (s *Catalog) checkRefs(ctx context.Context, authorID, categoryID uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.Author{}).Where("id = ?", authorID).Count(&count).Error; err != nil {
		return fmt.Errorf("check author: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: author %d does not exist", ErrInvalidInput, authorID)
	}
	if err := s.db.WithContext(ctx).Model(&domain.Category{}).Where("id = ?", categoryID).Count(&count).Error; err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: category %d does not exist", ErrInvalidInput, categoryID)
	}
	return nil
}

func (s *Catalog) cacheSet(ctx context.Context, key string, v any) {
	if err := s.cache.Set(ctx, key, v); err != nil {
		logrus.WithFields(logrus.Fields{
			"key":   key,         // Cache key
			"error": err.Error(), // Error message
		}).Warn("Catalog cache write failed")
	}
}

// invalidate drops every cached catalog read
func (s *Catalog) invalidate(ctx context.Context) {
	if err := s.cache.Flush(ctx); err != nil {
		logrus.WithError(err).Warn("Catalog cache invalidation failed")
	}
}

// invalidateBook drops the public list and the cached copy of book id
func (s *Catalog) invalidateBook(ctx context.Context, id uint) {
	if err := s.cache.Delete(ctx, approvedListKey, bookKey(id)); err != nil {
		logrus.WithFields(logrus.Fields{
			"book_id": id,          // Book ID
			"error":   err.Error(), // Error message
		}).Warn("Catalog cache invalidation failed")
	}
}

func bookKey(id uint) string {
	return "book:" + strconv.FormatUint(uint64(id), 10)
}
