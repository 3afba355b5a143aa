package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/R6Joan/Festa-Roser/internal/middleware"
	"github.com/R6Joan/Festa-Roser/internal/models"
	"github.com/R6Joan/Festa-Roser/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	stateCookieName = "oauth_state"

	// where the browser lands after login and after an upload
	galleryPath = "/#concurs-fotos"
)

// AuthHandler handles the OAuth login flow and the session endpoints
type AuthHandler struct {
	authService  *services.AuthService
	sessionHours int
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService, sessionHours int) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		sessionHours: sessionHours,
	}
}

// Begin redirects the browser to the provider's consent page
func (h *AuthHandler) Begin(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	if !h.authService.KnownProvider(provider) {
		http.Error(w, "Unknown provider", http.StatusNotFound)
		return
	}

	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   10 * 60,
	})

	authURL, err := h.authService.AuthURL(provider, state)
	if err != nil {
		http.Error(w, "Unknown provider", http.StatusNotFound)
		return
	}

	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback finishes the OAuth flow: verifies state, exchanges the code for
// an identity, creates a session and sends the browser back to the gallery.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	if !h.authService.KnownProvider(provider) {
		http.Error(w, "Unknown provider", http.StatusNotFound)
		return
	}

	// The provider reports denial via an error parameter
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		log.Printf("OAuth denied by %s: %s", provider, errParam)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		http.Error(w, "Invalid OAuth state", http.StatusBadRequest)
		return
	}
	clearCookie(w, stateCookieName)

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Missing authorization code", http.StatusBadRequest)
		return
	}

	identity, err := h.authService.Exchange(r.Context(), provider, code)
	if err != nil {
		log.Printf("OAuth exchange failed for %s: %v", provider, err)
		http.Error(w, "Authentication failed", http.StatusBadGateway)
		return
	}

	session, err := h.authService.CreateSession(r.Context(), identity)
	if err != nil {
		log.Printf("Failed to create session: %v", err)
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   h.sessionHours * 60 * 60,
	})

	http.Redirect(w, r, galleryPath, http.StatusFound)
}

// Me is the identity probe the frontend uses to decide whether the
// visitor is signed in.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")

	if identity == nil {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(models.MeResponse{OK: false})
		return
	}

	json.NewEncoder(w).Encode(models.MeResponse{
		OK: true,
		User: &models.UserPublic{
			Provider: identity.Provider,
			Name:     identity.Name,
		},
	})
}

// Logout ends the current session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			log.Printf("Failed to delete session: %v", err)
		}
	}
	clearCookie(w, middleware.SessionCookieName)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}
