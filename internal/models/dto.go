package models

import "time"

// PhotoResponse is a single photo in API responses. The uploader's subject
// id stays out of the public view.
type PhotoResponse struct {
	ID       string            `json:"id"`
	Src      string            `json:"src"`
	Thumb    string            `json:"thumb,omitempty"`
	Uploader *UploaderResponse `json:"uploader,omitempty"`
}

// UploaderResponse is the public uploader view
type UploaderResponse struct {
	Provider string `json:"provider"`
	Name     string `json:"name"`
}

// PhotoToResponse converts a ledger record to its public view
func PhotoToResponse(p *PhotoRecord) PhotoResponse {
	resp := PhotoResponse{
		ID:    p.ID,
		Src:   p.Src,
		Thumb: p.Thumb,
	}
	if p.Uploader.Provider != "" || p.Uploader.Name != "" {
		resp.Uploader = &UploaderResponse{
			Provider: p.Uploader.Provider,
			Name:     p.Uploader.Name,
		}
	}
	return resp
}

// MeResponse is returned by the identity probe endpoint
type MeResponse struct {
	OK   bool        `json:"ok"`
	User *UserPublic `json:"user,omitempty"`
}

// UserPublic is the minimal identity view exposed to the frontend
type UserPublic struct {
	Provider string `json:"provider"`
	Name     string `json:"name"`
}

// VoteRequest is the body of a vote toggle call
type VoteRequest struct {
	PhotoID string `json:"photo_id"`
}

// ErrorResponse is the uniform error body
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
