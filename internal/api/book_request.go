package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Form number parsing
	"strings"  // Form trimming

	"bookstore/internal/domain"     // Request statuses
	"bookstore/internal/middleware" // Caller identity
	"bookstore/internal/service"    // Book request workflow
	"bookstore/internal/storage"    // Upload storage

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Form price parsing
)

// SubmitBookRequestHandler records an author's proposal. Multipart forms may carry
// coverImage and samplePdf files; JSON bodies reference already uploaded paths.
func SubmitBookRequestHandler(requests *service.BookRequests, store storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in service.SubmitInput
		var saved []string // Files stored for this request
		if isMultipart(c) {
			if err := c.ShouldBind(&in); err != nil {
				badRequest(c, "Invalid request")
				return
			}
			if raw := strings.TrimSpace(c.PostForm("price")); raw != "" {
				price, err := decimal.NewFromString(raw)
				if err != nil {
					badRequest(c, "price must be a number")
					return
				}
				in.Price = price
			}
			if raw := strings.TrimSpace(c.PostForm("categoryId")); raw != "" {
				v, err := strconv.ParseUint(raw, 10, 32)
				if err != nil {
					badRequest(c, "categoryId must be a number")
					return
				}
				id := uint(v)
				in.CategoryID = &id
			}
			cover, err := saveUpload(c, store, "coverImage", storage.FolderCovers)
			if err != nil {
				badRequest(c, err.Error())
				return
			}
			if cover != "" {
				in.CoverImageURL = cover
				saved = append(saved, cover)
			}
			pdf, err := saveUpload(c, store, "samplePdf", storage.FolderPDFs)
			if err != nil {
				discardUpload(c, store, cover)
				badRequest(c, err.Error())
				return
			}
			if pdf != "" {
				in.SamplePdfURL = pdf
				saved = append(saved, pdf)
			}
		} else if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		req, err := requests.Submit(c.Request.Context(), middleware.UserID(c), in)
		if err != nil {
			for _, p := range saved {
				discardUpload(c, store, p)
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Book submitted for review", "request": req})
	}
}

// MyBookRequestsHandler lists the caller's own submissions
func MyBookRequestsHandler(requests *service.BookRequests) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqs, err := requests.Mine(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, reqs)
	}
}

// ListBookRequestsHandler lists every request, optionally narrowed by ?status= (admin)
func ListBookRequestsHandler(requests *service.BookRequests) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqs, err := requests.All(c.Request.Context(), domain.RequestStatus(c.Query("status")))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, reqs)
	}
}

// PendingBookRequestsHandler lists requests awaiting review (admin)
func PendingBookRequestsHandler(requests *service.BookRequests) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqs, err := requests.Pending(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, reqs)
	}
}

// ApproveBookRequestHandler publishes a pending request as a book (admin)
func ApproveBookRequestHandler(requests *service.BookRequests) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		book, err := requests.Approve(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Book request approved", "book": book})
	}
}

// RejectBookRequestHandler declines a pending request (admin)
func RejectBookRequestHandler(requests *service.BookRequests) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		req, err := requests.Reject(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Book request rejected", "request": req})
	}
}
