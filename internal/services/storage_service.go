package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/R6Joan/Festa-Roser/internal/models"
	"github.com/google/uuid"
)

// UploadStorage handles the on-disk placement of uploaded images. Files
// are stored flat under one directory with generated names; the original
// filename only contributes its extension.
type UploadStorage struct {
	basePath          string
	allowedExtensions map[string]bool
	maxFileSizeBytes  int64
}

// NewUploadStorage creates a new UploadStorage rooted at basePath
func NewUploadStorage(basePath string, allowedExtensions []string, maxFileSizeMiB int64) (*UploadStorage, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return nil, err
	}

	extSet := make(map[string]bool)
	if len(allowedExtensions) == 0 {
		for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp"} {
			extSet[ext] = true
		}
	} else {
		for _, ext := range allowedExtensions {
			extSet[strings.ToLower(ext)] = true
		}
	}

	return &UploadStorage{
		basePath:          absPath,
		allowedExtensions: extSet,
		maxFileSizeBytes:  maxFileSizeMiB << 20,
	}, nil
}

// MaxBytes returns the configured upload size ceiling
func (s *UploadStorage) MaxBytes() int64 {
	return s.maxFileSizeBytes
}

// Store saves an image and returns the generated file name
func (s *UploadStorage) Store(reader io.Reader, originalFilename string, fileSize int64) (string, error) {
	if fileSize > s.maxFileSizeBytes {
		return "", models.ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filepath.Base(originalFilename)))
	if !s.allowedExtensions[ext] {
		return "", models.ErrInvalidExtension
	}

	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.New().String()[:8], ext)
	fullPath := filepath.Join(s.basePath, name)

	file, err := os.OpenFile(fullPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		os.Remove(fullPath)
		return "", err
	}

	return name, nil
}

// GetFullPath returns the absolute path for a stored file name
func (s *UploadStorage) GetFullPath(storedName string) (string, error) {
	if strings.TrimSpace(storedName) == "" {
		return "", fmt.Errorf("stored name cannot be empty")
	}

	fullPath := filepath.Join(s.basePath, filepath.FromSlash(storedName))

	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(absPath, s.basePath) {
		return "", models.ErrPathTraversal
	}

	return absPath, nil
}

// BasePath returns the storage root
func (s *UploadStorage) BasePath() string {
	return s.basePath
}

// Exists checks if a file exists under storage
func (s *UploadStorage) Exists(storedName string) bool {
	fullPath, err := s.GetFullPath(storedName)
	if err != nil {
		return false
	}
	_, err = os.Stat(fullPath)
	return err == nil
}

// Delete removes a stored file. Photo deletion does not call this: stored
// images are left on disk as documented behavior.
func (s *UploadStorage) Delete(storedName string) bool {
	fullPath, err := s.GetFullPath(storedName)
	if err != nil {
		return false
	}
	return os.Remove(fullPath) == nil
}
