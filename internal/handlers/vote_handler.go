package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/R6Joan/Festa-Roser/internal/middleware"
	"github.com/R6Joan/Festa-Roser/internal/models"
	"github.com/R6Joan/Festa-Roser/internal/services"
)

// VoteHandler handles the vote ledger endpoints
type VoteHandler struct {
	service *services.VoteService
}

// NewVoteHandler creates a new VoteHandler
func NewVoteHandler(service *services.VoteService) *VoteHandler {
	return &VoteHandler{service: service}
}

// Summary returns every photo's tally as seen by the caller. Anonymous
// callers get voted=false everywhere.
func (h *VoteHandler) Summary(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r.Context())

	summary, err := h.service.Summary(r.Context(), identity)
	if err != nil {
		log.Printf("Error reading vote ledger: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to read the vote ledger.")
		return
	}

	h.respondJSON(w, http.StatusOK, summary)
}

// Toggle flips the caller's vote on a photo and returns the new tally
func (h *VoteHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r.Context())
	if identity == nil {
		h.respondError(w, http.StatusUnauthorized, "You must sign in to vote.")
		return
	}

	var req models.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	status, err := h.service.Toggle(r.Context(), req.PhotoID, identity)
	if err != nil {
		code := statusForError(err)
		if code == http.StatusInternalServerError {
			log.Printf("Error toggling vote: %v", err)
			h.respondError(w, code, "Failed to record the vote.")
			return
		}
		h.respondError(w, code, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, status)
}

// Helper methods

func (h *VoteHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *VoteHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, models.ErrorResponse{Error: message})
}
