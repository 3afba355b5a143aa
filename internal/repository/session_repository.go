package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/R6Joan/Festa-Roser/internal/models"
)

// SessionRepository implements SessionRepo on SQLite
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	query := `SELECT id, provider, subject_id, display_name, created_at, expires_at, last_activity_at
			  FROM sessions WHERE id = ?`

	var session models.Session
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID, &session.Identity.Provider, &session.Identity.ID,
		&session.Identity.Name, &session.CreatedAt, &session.ExpiresAt,
		&session.LastActivityAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Add(ctx context.Context, session *models.Session) error {
	query := `INSERT INTO sessions (id, provider, subject_id, display_name, created_at, expires_at, last_activity_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		session.ID, session.Identity.Provider, session.Identity.ID,
		session.Identity.Name, session.CreatedAt, session.ExpiresAt,
		session.LastActivityAt,
	)
	return err
}

func (r *SessionRepository) Touch(ctx context.Context, id string) error {
	query := `UPDATE sessions SET last_activity_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	return err
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM sessions WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at < ?`
	result, err := r.db.ExecContext(ctx, query, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
