package repository

import (
	"context"

	"github.com/R6Joan/Festa-Roser/internal/models"
)

// PhotoStore persists the photo ledger as a whole. Every Load re-reads
// durable state and every Save rewrites it wholesale; there is no partial
// update. A transactional store can be substituted behind this interface.
type PhotoStore interface {
	Load(ctx context.Context) ([]*models.PhotoRecord, error)
	Save(ctx context.Context, photos []*models.PhotoRecord) error
}

// VoteStore persists the vote ledger as a whole, same contract as PhotoStore.
type VoteStore interface {
	Load(ctx context.Context) (models.VoteLedger, error)
	Save(ctx context.Context, ledger models.VoteLedger) error
}

// SessionRepo defines the interface for session persistence operations
type SessionRepo interface {
	GetByID(ctx context.Context, id string) (*models.Session, error)
	Add(ctx context.Context, session *models.Session) error
	Touch(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
