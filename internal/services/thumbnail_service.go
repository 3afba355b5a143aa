package services

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/R6Joan/Festa-Roser/internal/models"
	"github.com/disintegration/imaging"
)

const (
	thumbMaxDim  = 480
	thumbQuality = 85
	thumbDirName = "thumbs"
)

// ThumbnailService generates a single bounded gallery thumbnail per upload.
// Decoding doubles as the image-type check for uploads.
type ThumbnailService struct {
	basePath string
}

// NewThumbnailService creates a ThumbnailService writing under basePath
func NewThumbnailService(basePath string) *ThumbnailService {
	return &ThumbnailService{basePath: basePath}
}

// Validate reports whether the bytes decode as an image
func (s *ThumbnailService) Validate(imageData []byte) error {
	if _, err := imaging.Decode(bytes.NewReader(imageData)); err != nil {
		return models.ErrNotAnImage
	}
	return nil
}

// Generate decodes the image, fits it into the thumbnail bounds and writes
// it as JPEG next to the uploads. Returns the thumbnail's relative name.
func (s *ThumbnailService) Generate(imageData []byte, storedName string) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(imageData), imaging.AutoOrientation(true))
	if err != nil {
		return "", models.ErrNotAnImage
	}

	thumb := imaging.Fit(img, thumbMaxDim, thumbMaxDim, imaging.Lanczos)

	thumbDir := filepath.Join(s.basePath, thumbDirName)
	if err := os.MkdirAll(thumbDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	base := strings.TrimSuffix(storedName, filepath.Ext(storedName))
	thumbName := filepath.Join(thumbDirName, base+"_thumb.jpg")
	thumbPath := filepath.Join(s.basePath, thumbName)

	if err := imaging.Save(thumb, thumbPath, imaging.JPEGQuality(thumbQuality)); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %w", err)
	}

	return filepath.ToSlash(thumbName), nil
}
