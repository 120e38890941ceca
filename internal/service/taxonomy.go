package service

import (
	"context" // Request scoped operations
	"errors"  // Error inspection
	"fmt"     // Error wrapping
	"strings" // Input normalization

	"bookstore/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Taxonomy manages authors and categories
type Taxonomy struct {
	db      *gorm.DB // Database handle
	catalog *Catalog // Catalog whose cache renames would stale
}

// NewTaxonomy builds the author/category service
func NewTaxonomy(db *gorm.DB, catalog *Catalog) *Taxonomy {
	return &Taxonomy{db: db, catalog: catalog}
}

// Authors lists authors by name
func (s *Taxonomy) Authors(ctx context.Context) ([]AuthorDTO, error) {
	var authors []domain.Author
	if err := s.db.WithContext(ctx).Order("name").Find(&authors).Error; err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	out := make([]AuthorDTO, len(authors))
	for i, a := range authors {
		out[i] = AuthorDTO{ID: a.ID, Name: a.Name}
	}
	return out, nil
}

// Categories lists categories by name
func (s *Taxonomy) Categories(ctx context.Context) ([]CategoryDTO, error) {
	var cats []domain.Category
	if err := s.db.WithContext(ctx).Order("name").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]CategoryDTO, len(cats))
	for i, c := range cats {
		out[i] = CategoryDTO{ID: c.ID, Name: c.Name}
	}
	return out, nil
}

// CreateAuthor adds an author; names are unique
func (s *Taxonomy) CreateAuthor(ctx context.Context, name string) (AuthorDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return AuthorDTO{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	author := domain.Author{Name: name}
	if err := s.db.WithContext(ctx).Omit("User").Create(&author).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return AuthorDTO{}, fmt.Errorf("author %w", ErrNameTaken)
		}
		return AuthorDTO{}, fmt.Errorf("create author: %w", err)
	}
	logrus.WithField("author_id", author.ID).Info("Author created")
	return AuthorDTO{ID: author.ID, Name: author.Name}, nil
}

// CreateCategory adds a category; names are unique
func (s *Taxonomy) CreateCategory(ctx context.Context, name string) (CategoryDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return CategoryDTO{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	cat := domain.Category{Name: name}
	if err := s.db.WithContext(ctx).Create(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return CategoryDTO{}, fmt.Errorf("category %w", ErrNameTaken)
		}
		return CategoryDTO{}, fmt.Errorf("create category: %w", err)
	}
	logrus.WithField("category_id", cat.ID).Info("Category created")
	return CategoryDTO{ID: cat.ID, Name: cat.Name}, nil
}

// DeleteCategory removes a category and, by cascade, its books
func (s *Taxonomy) DeleteCategory(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&domain.Category{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("category %w", ErrNotFound)
	}
	logrus.WithField("category_id", id).Info("Category deleted")
	s.catalog.invalidate(ctx)
	return nil
}

// DeleteAuthor removes an author and, by cascade, their books
func (s *Taxonomy) DeleteAuthor(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&domain.Author{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete author: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("author %w", ErrNotFound)
	}
	logrus.WithField("author_id", id).Info("Author deleted")
	s.catalog.invalidate(ctx)
	return nil
}
