// Package storage keeps uploaded covers, sample PDFs and avatars behind public
// paths of the form /uploads/<folder>/<name>.
package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Upload folders
const (
	FolderCovers   = "covers"
	FolderPDFs     = "pdfs"
	FolderProfiles = "profiles"
)

// PublicPrefix is the URL prefix every stored file is served under.
const PublicPrefix = "/uploads/"

// ErrNotFound is returned when a public path does not name a stored file.
var ErrNotFound = errors.New("file not found")

// Object is an opened stored file.
type Object struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

// Store saves and serves uploaded files.
type Store interface {
	// Save stores r under folder and returns its public path.
	Save(ctx context.Context, folder, filename string, r io.Reader, size int64, contentType string) (string, error)
	Open(ctx context.Context, publicPath string) (*Object, error)
	Delete(ctx context.Context, publicPath string) error
}

// objectKey builds a unique storage key like "profiles/<uuid>_cover.png".
func objectKey(folder, filename string) string {
	return folder + "/" + uuid.NewString() + "_" + safeFilename(filename)
}

// keyFromPublicPath strips the public prefix and rejects traversal.
func keyFromPublicPath(publicPath string) (string, error) {
	if !strings.HasPrefix(publicPath, PublicPrefix) {
		return "", ErrNotFound
	}
	key := path.Clean(strings.TrimPrefix(publicPath, PublicPrefix))
	if key == "." || strings.HasPrefix(key, "..") || strings.HasPrefix(key, "/") {
		return "", ErrNotFound
	}
	return key, nil
}

// NormalizePath rewrites legacy "/api/uploads/..." paths to "/uploads/...".
func NormalizePath(p string) string {
	if len(p) >= len("/api/uploads") && strings.EqualFold(p[:len("/api/uploads")], "/api/uploads") {
		return p[len("/api"):]
	}
	return p
}

func safeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.TrimSpace(name)
	if name == "" || name == "." {
		return "file"
	}
	return name
}
