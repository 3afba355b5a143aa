package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PhotoRecord is one entry in the photo ledger. Records are created at
// upload, removed only by an owner-authorized delete, and never mutated
// in between.
type PhotoRecord struct {
	ID         string    `json:"id"`
	Src        string    `json:"src"`
	Thumb      string    `json:"thumb,omitempty"`
	Uploader   Uploader  `json:"uploader"`
	UploadedAt time.Time `json:"uploadedAt,omitempty"`
}

// NewPhotoRecord creates a record for a freshly stored image.
func NewPhotoRecord(identity *Identity, src, thumb string) (*PhotoRecord, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}
	if strings.TrimSpace(src) == "" {
		return nil, ErrEmptySrc
	}

	return &PhotoRecord{
		ID:         NewPhotoID(),
		Src:        src,
		Thumb:      thumb,
		Uploader:   UploaderFor(identity),
		UploadedAt: time.Now().UTC(),
	}, nil
}

// NewPhotoID generates a photo id: millisecond timestamp plus a random
// suffix so concurrent uploads in the same millisecond cannot collide.
func NewPhotoID() string {
	return fmt.Sprintf("foto-%d-%s", time.Now().UnixMilli(), uuid.New().String()[:8])
}

// Errors

// LedgerError is the error type for ledger and upload failures
type LedgerError struct {
	Message string
}

func (e LedgerError) Error() string {
	return e.Message
}

var (
	ErrUnauthenticated  = LedgerError{"authentication required"}
	ErrNotOwner         = LedgerError{"only the uploader may delete a photo"}
	ErrPhotoNotFound    = LedgerError{"photo not found"}
	ErrMissingPhotoID   = LedgerError{"photo_id is required"}
	ErrEmptySrc         = LedgerError{"stored image path cannot be empty"}
	ErrNoImage          = LedgerError{"no image was provided"}
	ErrFileTooLarge     = LedgerError{"image exceeds the maximum allowed size"}
	ErrNotAnImage       = LedgerError{"only images are allowed"}
	ErrInvalidExtension = LedgerError{"file extension not allowed"}
	ErrPathTraversal    = LedgerError{"invalid path - path traversal detected"}
)
