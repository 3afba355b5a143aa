package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/R6Joan/Festa-Roser/internal/middleware"
	"github.com/R6Joan/Festa-Roser/internal/models"
	"github.com/R6Joan/Festa-Roser/internal/services"
	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
)

// multipart form parsing headroom on top of the image size ceiling
const multipartOverhead = 1 << 20

// PhotoHandler handles the photo ledger endpoints
type PhotoHandler struct {
	service *services.PhotoService
}

// NewPhotoHandler creates a new PhotoHandler
func NewPhotoHandler(service *services.PhotoService) *PhotoHandler {
	return &PhotoHandler{service: service}
}

// List returns every photo record in insertion order
func (h *PhotoHandler) List(w http.ResponseWriter, r *http.Request) {
	photos, err := h.service.List(r.Context())
	if err != nil {
		log.Printf("Error listing photos: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to read the photo ledger.")
		return
	}

	responses := make([]models.PhotoResponse, len(photos))
	for i, p := range photos {
		responses[i] = models.PhotoToResponse(p)
	}

	h.respondJSON(w, http.StatusOK, responses)
}

// Upload accepts a multipart image, appends it to the ledger and redirects
// back to the contest gallery.
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r.Context())
	if identity == nil {
		h.respondError(w, http.StatusUnauthorized, "You must sign in to upload photos.")
		return
	}

	maxBytes := h.service.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		h.respondError(w, http.StatusRequestEntityTooLarge,
			"Image exceeds the "+humanize.IBytes(uint64(maxBytes))+" upload limit.")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "No image was provided.")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to read the image.")
		return
	}

	record, err := h.service.Upload(r.Context(), identity, content, header.Filename)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			log.Printf("Error uploading photo: %v", err)
			h.respondError(w, status, "Failed to store the photo.")
			return
		}
		h.respondError(w, status, err.Error())
		return
	}

	log.Printf("Photo uploaded: %s -> %s", record.ID, record.Src)

	http.Redirect(w, r, "/#concurs-fotos", http.StatusSeeOther)
}

// Delete removes a photo when the caller passes the ownership gate
func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r.Context())
	if identity == nil {
		h.respondError(w, http.StatusUnauthorized, "You must sign in to delete photos.")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		h.respondError(w, http.StatusBadRequest, "Photo ID is required.")
		return
	}

	if err := h.service.Delete(r.Context(), id, identity); err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			log.Printf("Error deleting photo: %v", err)
			h.respondError(w, status, "Failed to delete the photo.")
			return
		}
		h.respondError(w, status, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Helper methods

func (h *PhotoHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *PhotoHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, models.ErrorResponse{Error: message})
}
