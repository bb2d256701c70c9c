// Package storage provides object storage implementations for file uploads.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	catalogapp "github.com/markethub/backend/internal/application/catalog"
)

// LocalObjectStorage writes objects to a local directory. Used for
// development until a real S3 bucket is configured.
type LocalObjectStorage struct {
	dir     string
	baseURL string
}

// NewLocalObjectStorage creates a filesystem-backed object storage rooted at
// dir, serving files from baseURL
func NewLocalObjectStorage(dir, baseURL string) (*LocalObjectStorage, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	if baseURL == "" {
		baseURL = "http://localhost:8080/static"
	}

	return &LocalObjectStorage{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Upload writes the object under key and returns its public URL
func (s *LocalObjectStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	// Keep writes inside the storage root
	cleaned := filepath.Clean("/" + key)
	target := filepath.Join(s.dir, cleaned)

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create object directory: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create object file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return "", fmt.Errorf("failed to write object: %w", err)
	}

	return s.baseURL + strings.ReplaceAll(cleaned, string(filepath.Separator), "/"), nil
}

// Ensure LocalObjectStorage implements ObjectStorage
var _ catalogapp.ObjectStorage = (*LocalObjectStorage)(nil)
