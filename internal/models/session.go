package models

import (
	"time"

	"github.com/google/uuid"
)

// Session associates a browser cookie with a previously authenticated
// identity. The ID doubles as the cookie value.
type Session struct {
	ID             string    `json:"id"`
	Identity       Identity  `json:"identity"`
	CreatedAt      time.Time `json:"createdAt"`
	ExpiresAt      time.Time `json:"expiresAt"`
	LastActivityAt time.Time `json:"lastActivityAt"`
}

// NewSession creates a session for a freshly authenticated identity.
func NewSession(identity Identity, durationHours int) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:             uuid.New().String(),
		Identity:       identity,
		CreatedAt:      now,
		ExpiresAt:      now.Add(time.Duration(durationHours) * time.Hour),
		LastActivityAt: now,
	}
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().UTC().After(s.ExpiresAt)
}

// Touch updates the last activity timestamp
func (s *Session) Touch() {
	s.LastActivityAt = time.Now().UTC()
}
