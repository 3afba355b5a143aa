package models

// Identity is the (provider, subject id) pair resolved by an OAuth provider.
// It is the sole key used for vote attribution and ownership checks.
type Identity struct {
	Provider string `json:"provider"`
	ID       string `json:"id"`
	Name     string `json:"name"`
}

// UserID returns the canonical voter key, "provider:subjectId".
func (i *Identity) UserID() string {
	return i.Provider + ":" + i.ID
}

// Uploader is the identity snapshot stored on a photo record at upload time.
// Records written before subject ids were stored carry only the display name.
type Uploader struct {
	Provider string `json:"provider"`
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
}

// UploaderFor snapshots an identity for storage on a photo record.
func UploaderFor(identity *Identity) Uploader {
	return Uploader{
		Provider: identity.Provider,
		ID:       identity.ID,
		Name:     identity.Name,
	}
}

// OwnedBy reports whether the given identity owns a record uploaded by u.
// Legacy records without a stored subject id fall back to comparing display
// names, which is weaker and kept only for those records.
func (u Uploader) OwnedBy(identity *Identity) bool {
	if identity == nil {
		return false
	}
	if u.Provider != identity.Provider {
		return false
	}
	if u.ID != "" {
		return u.ID == identity.ID
	}
	return u.Name != "" && u.Name == identity.Name
}
