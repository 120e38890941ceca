package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strconv"  // Path parameter parsing
	"strings"  // Content type check

	"bookstore/internal/middleware" // Caller identity
	"bookstore/internal/service"    // Sentinel errors

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// statusFor maps a service error onto an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrAlreadyFavorite),
		errors.Is(err, service.ErrNameTaken):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrNotPending):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUpstream):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError // Includes ErrNoCategory, whose message is still shown
}

// respondError writes err as {"message": ...}; unexpected errors are logged and hidden
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError && !errors.Is(err, service.ErrNoCategory) {
		logrus.WithFields(logrus.Fields{
			"path":  c.FullPath(), // Route
			"error": err.Error(),  // Error message
		}).Error("Unhandled error")
		msg = "Internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}

// badRequest writes a 400 with msg
func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": msg})
}

// idParam parses the numeric path parameter name, answering 400 when it is not one
func idParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		badRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(v), true
}

// viewer builds the read scope of the caller
func viewer(c *gin.Context) service.Viewer {
	return service.Viewer{UserID: middleware.UserID(c), Role: middleware.Role(c)}
}

// baseURL is scheme://host of the current request
func baseURL(c *gin.Context) string {
	return middleware.Scheme(c) + "://" + c.Request.Host
}

// isMultipart reports whether the request body is a multipart form
func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}
