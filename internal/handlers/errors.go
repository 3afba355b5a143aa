package handlers

import (
	"net/http"

	"github.com/R6Joan/Festa-Roser/internal/models"
)

// statusForError maps ledger errors onto HTTP status codes. Anything
// unrecognized is a server failure; ledger I/O errors are never retried.
func statusForError(err error) int {
	switch err {
	case models.ErrUnauthenticated:
		return http.StatusUnauthorized
	case models.ErrNotOwner:
		return http.StatusForbidden
	case models.ErrPhotoNotFound:
		return http.StatusNotFound
	case models.ErrMissingPhotoID, models.ErrNoImage, models.ErrEmptySrc:
		return http.StatusBadRequest
	case models.ErrFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case models.ErrNotAnImage, models.ErrInvalidExtension:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}
