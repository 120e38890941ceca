package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// FileStore saves uploaded files to disk under a base directory.
type FileStore struct {
	basePath string
}

// NewFileStore creates the base directory if missing.
func NewFileStore(basePath string) (*FileStore, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("storage base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

// Save streams r to <base>/<folder>/<uuid>_<name>.
func (f *FileStore) Save(_ context.Context, folder, filename string, r io.Reader, _ int64, _ string) (string, error) {
	key := objectKey(folder, filename)
	target := filepath.Join(f.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, r); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return PublicPrefix + key, nil
}

// Open returns the file behind publicPath.
func (f *FileStore) Open(_ context.Context, publicPath string) (*Object, error) {
	key, err := keyFromPublicPath(publicPath)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(f.basePath, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		file.Close()
		return nil, ErrNotFound
	}
	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &Object{Body: file, Size: info.Size(), ContentType: contentType}, nil
}

// Delete removes the file behind publicPath; a missing file is not an error.
func (f *FileStore) Delete(_ context.Context, publicPath string) error {
	key, err := keyFromPublicPath(publicPath)
	if err != nil {
		return nil
	}
	if err := os.Remove(filepath.Join(f.basePath, filepath.FromSlash(key))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}
