package service

import (
	"context" // Request scoped operations
	"errors"  // Error inspection
	"fmt"     // Error wrapping
	"strings" // Input normalization

	"bookstore/internal/domain"  // Importing domain models
	"bookstore/internal/storage" // Path normalization

	"github.com/shopspring/decimal" // Fixed-point prices
	"github.com/sirupsen/logrus"    // Logging library
	"gorm.io/gorm"                  // GORM ORM library
	"gorm.io/gorm/clause"           // Association control
)

// SubmitInput is an author's proposal. There is no status field: submissions are always Pending.
type SubmitInput struct {
	Title         string          `json:"title" form:"title"`
	AuthorName    string          `json:"authorName" form:"authorName"`
	Description   string          `json:"description" form:"description"`
	Genre         string          `json:"genre" form:"genre"`
	Price         decimal.Decimal `json:"price" form:"-"`
	CategoryID    *uint           `json:"categoryId" form:"-"`
	CoverImageURL string          `json:"coverImageUrl" form:"coverImageUrl"`
	SamplePdfURL  string          `json:"samplePdfUrl" form:"samplePdfUrl"`
}

// BookRequests runs the submission and review workflow
type BookRequests struct {
	db      *gorm.DB // Database handle
	catalog *Catalog // Catalog whose cache approval invalidates
}

// NewBookRequests builds the workflow service
func NewBookRequests(db *gorm.DB, catalog *Catalog) *BookRequests {
	return &BookRequests{db: db, catalog: catalog}
}

// Submit stores a new Pending request for requesterID
func (s *BookRequests) Submit(ctx context.Context, requesterID uint, in SubmitInput) (BookRequestDTO, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.AuthorName) == "" {
		return BookRequestDTO{}, fmt.Errorf("%w: title and authorName are required", ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return BookRequestDTO{}, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	db := s.db.WithContext(ctx)
	if in.CategoryID != nil {
		var count int64 // Category existence
		if err := db.Model(&domain.Category{}).Where("id = ?", *in.CategoryID).Count(&count).Error; err != nil {
			return BookRequestDTO{}, fmt.Errorf("check category: %w", err)
		}
		if count == 0 {
			return BookRequestDTO{}, fmt.Errorf("%w: category %d does not exist", ErrInvalidInput, *in.CategoryID)
		}
	}
	req := domain.BookRequest{
		Title:         strings.TrimSpace(in.Title),
		AuthorName:    strings.TrimSpace(in.AuthorName),
		Description:   in.Description,
		Genre:         strings.TrimSpace(in.Genre),
		Price:         in.Price.Round(2),
		CoverImageURL: storage.NormalizePath(in.CoverImageURL),
		SamplePdfURL:  storage.NormalizePath(in.SamplePdfURL),
		Status:        domain.StatusPending, // Never trust a client supplied status
		RequestedByID: requesterID,
		CategoryID:    in.CategoryID,
	}
	if err := db.Omit(clause.Associations).Create(&req).Error; err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": requesterID, // Requesting user
			"error":   err.Error(), // Error message
		}).Error("Failed to submit book request")
		return BookRequestDTO{}, fmt.Errorf("submit request: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id":    requesterID, // Requesting user
		"request_id": req.ID,      // New request
	}).Info("Book request submitted")
	return s.get(ctx, req.ID)
}

// Mine lists the requests submitted by requesterID
func (s *BookRequests) Mine(ctx context.Context, requesterID uint) ([]BookRequestDTO, error) {
	var reqs []domain.BookRequest
	if err := s.db.WithContext(ctx).Preload("RequestedBy").
		Where("requested_by_id = ?", requesterID).Order("id").Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return toBookRequestDTOs(reqs), nil
}

// Pending lists every request awaiting review
func (s *BookRequests) Pending(ctx context.Context) ([]BookRequestDTO, error) {
	return s.All(ctx, domain.StatusPending)
}

// All lists requests, optionally restricted to one status
func (s *BookRequests) All(ctx context.Context, status domain.RequestStatus) ([]BookRequestDTO, error) {
	q := s.db.WithContext(ctx).Preload("RequestedBy").Order("id")
	if status != "" {
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
		}
		q = q.Where("status = ?", status)
	}
	var reqs []domain.BookRequest
	if err := q.Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return toBookRequestDTOs(reqs), nil
}

// Approve turns a Pending request into an approved Book, creating the Author when needed
func (s *BookRequests) Approve(ctx context.Context, id uint) (BookDTO, error) {
	var book domain.Book // Materialized book
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req domain.BookRequest
		if err := tx.First(&req, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotPending
			}
			return err
		}
		if req.Status != domain.StatusPending {
			return ErrNotPending // Terminal states never transition again
		}
		// Resolve author by exact name, or create one owned by the requester
		var author domain.Author
		err := tx.Where("name = ?", req.AuthorName).First(&author).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			author, err = ensureAuthor(tx, req.AuthorName, req.RequestedByID)
		}
		if err != nil {
			return fmt.Errorf("resolve author: %w", err)
		}
		// Category from the request, else the first one on record
		var categoryID uint
		if req.CategoryID != nil {
			categoryID = *req.CategoryID
		} else {
			var first domain.Category
			if err := tx.Order("id").First(&first).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNoCategory
				}
				return fmt.Errorf("default category: %w", err)
			}
			categoryID = first.ID
		}
		title := req.Title
		if title == "" {
			title = "Untitled"
		}
		book = domain.Book{
			Title:        title,
			Description:  req.Description,
			Genre:        req.Genre,
			Price:        req.Price,
			ImageURL:     storage.NormalizePath(req.CoverImageURL),
			SamplePdfURL: storage.NormalizePath(req.SamplePdfURL),
			AuthorID:     author.ID,
			CategoryID:   categoryID,
			IsApproved:   true,
		}
		if err := tx.Omit(clause.Associations).Create(&book).Error; err != nil {
			return fmt.Errorf("create book: %w", err)
		}
		return s.transition(tx, id, domain.StatusApproved)
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"request_id": id,          // Request ID
			"error":      err.Error(), // Error message
		}).Warn("Book request approval failed")
		return BookDTO{}, err
	}
	logrus.WithFields(logrus.Fields{
		"request_id": id,            // Request ID
		"book_id":    book.ID,       // Created book
		"author_id":  book.AuthorID, // Resolved author
	}).Info("Book request approved")
	s.catalog.invalidateBook(ctx, book.ID)
	return s.catalog.Get(ctx, Viewer{Role: domain.RoleAdmin}, book.ID)
}

// Reject marks a Pending request Rejected
func (s *BookRequests) Reject(ctx context.Context, id uint) (BookRequestDTO, error) {
	if err := s.transition(s.db.WithContext(ctx), id, domain.StatusRejected); err != nil {
		return BookRequestDTO{}, err
	}
	logrus.WithField("request_id", id).Info("Book request rejected")
	return s.get(ctx, id)
}

// ensureAuthor inserts the author name owned by ownerID. When a concurrent approval
// inserted the same name first, that row is returned instead.
func ensureAuthor(tx *gorm.DB, name string, ownerID uint) (domain.Author, error) {
	author := domain.Author{Name: name, UserID: &ownerID}
	res := tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&author)
	if res.Error != nil {
		return domain.Author{}, fmt.Errorf("create author: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return author, nil
	}
	var existing domain.Author // Locking read sees rows committed after the snapshot
	if err := tx.Clauses(clause.Locking{Strength: clause.LockingStrengthShare}).
		Where("name = ?", name).First(&existing).Error; err != nil {
		return domain.Author{}, fmt.Errorf("reload author: %w", err)
	}
	logrus.WithField("author", name).Debug("Author created concurrently, reusing it")
	return existing, nil
}

// transition moves request id out of Pending; zero affected rows means it was not Pending
func (s *BookRequests) transition(tx *gorm.DB, id uint, to domain.RequestStatus) error {
	res := tx.Model(&domain.BookRequest{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Update("status", to)
	if res.Error != nil {
		return fmt.Errorf("update request status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotPending
	}
	return nil
}

func (s *BookRequests) get(ctx context.Context, id uint) (BookRequestDTO, error) {
	var req domain.BookRequest
	if err := s.db.WithContext(ctx).Preload("RequestedBy").First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BookRequestDTO{}, fmt.Errorf("request %w", ErrNotFound)
		}
		return BookRequestDTO{}, fmt.Errorf("load request: %w", err)
	}
	return toBookRequestDTO(req), nil
}
