package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes

	"bookstore/internal/storage" // Upload storage

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

const maxUploadSize = 10 << 20 // Per-file upload limit

// saveUpload stores the multipart file in field under folder and returns its public path.
// A missing file yields an empty path and no error.
func saveUpload(c *gin.Context, store storage.Store, field, folder string) (string, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if fh.Size > maxUploadSize {
		return "", errors.New(field + " is larger than 10 MB")
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	path, err := store.Save(c.Request.Context(), folder, fh.Filename, f, fh.Size, fh.Header.Get("Content-Type"))
	if err != nil {
		return "", err
	}
	logrus.WithFields(logrus.Fields{
		"field": field, // Form field
		"path":  path,  // Stored public path
		"size":  fh.Size,
	}).Info("File uploaded")
	return path, nil
}

// discardUpload removes a file saved for a request that then failed
func discardUpload(c *gin.Context, store storage.Store, path string) {
	if path == "" {
		return
	}
	if err := store.Delete(c.Request.Context(), path); err != nil {
		logrus.WithFields(logrus.Fields{
			"path":  path,        // Orphaned file
			"error": err.Error(), // Error message
		}).Warn("Failed to remove orphaned upload")
	}
}

// ServeUploadHandler streams a stored file
func ServeUploadHandler(store storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		obj, err := store.Open(c.Request.Context(), storage.PublicPrefix+trimSlash(c.Param("path")))
		if errors.Is(err, storage.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "File not found"})
			return
		}
		if err != nil {
			respondError(c, err)
			return
		}
		defer obj.Body.Close()
		c.DataFromReader(http.StatusOK, obj.Size, obj.ContentType, obj.Body, map[string]string{
			"Cache-Control": "public, max-age=86400",
		})
	}
}

func trimSlash(p string) string {
	for len(p) > 0 && p[0] == '/' {
		p = p[1:]
	}
	return p
}
