package services

import (
	"context"
	"strings"

	"github.com/R6Joan/Festa-Roser/internal/models"
	"github.com/R6Joan/Festa-Roser/internal/observability"
	"github.com/R6Joan/Festa-Roser/internal/repository"
)

// VoteService owns the vote toggle protocol: load the whole ledger, flip
// one voter's membership, write the whole ledger back, then broadcast.
// There is no locking across the load-modify-save sequence; two concurrent
// toggles on the same ledger resolve last-writer-wins.
type VoteService struct {
	votes    repository.VoteStore
	notifier Notifier
}

// NewVoteService creates a new VoteService
func NewVoteService(votes repository.VoteStore, notifier Notifier) *VoteService {
	return &VoteService{
		votes:    votes,
		notifier: notifier,
	}
}

// Toggle flips the acting identity's vote on a photo and returns the
// resulting tally. The ledger write completes before the broadcast goes
// out, so a client refreshing on the event observes a consistent ledger.
func (s *VoteService) Toggle(ctx context.Context, photoID string, identity *models.Identity) (models.VoteStatus, error) {
	ctx, span := observability.StartServiceSpan(ctx, "votes", "toggle")
	defer span.End()

	if identity == nil {
		return models.VoteStatus{}, models.ErrUnauthenticated
	}
	if strings.TrimSpace(photoID) == "" {
		return models.VoteStatus{}, models.ErrMissingPhotoID
	}

	span.SetAttributes(
		observability.PhotoID(photoID),
		observability.VoterID(identity.UserID()),
	)

	ledger, err := s.votes.Load(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return models.VoteStatus{}, err
	}

	status := ledger.Entry(photoID).Toggle(identity.UserID())

	if err := s.votes.Save(ctx, ledger); err != nil {
		observability.RecordError(span, err)
		return models.VoteStatus{}, err
	}

	s.notifier.Notify(Event{
		Type: EventVoteUpdated,
		Payload: VoteUpdatedPayload{
			PhotoID: photoID,
			Data:    status,
		},
	})

	observability.WithContext(ctx).Debugf("Vote toggled on %s: votes=%d voted=%v", photoID, status.Votes, status.Voted)

	return status, nil
}

// Summary returns the tally of every photo in the vote ledger as seen by
// the given identity. Anonymous callers get Voted=false everywhere. The
// ledger is re-read on every call, so the view reflects the latest
// committed write.
func (s *VoteService) Summary(ctx context.Context, identity *models.Identity) (map[string]models.VoteStatus, error) {
	ctx, span := observability.StartServiceSpan(ctx, "votes", "summary")
	defer span.End()

	userID := ""
	if identity != nil {
		userID = identity.UserID()
	}

	ledger, err := s.votes.Load(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	summary := make(map[string]models.VoteStatus, len(ledger))
	for photoID, entry := range ledger {
		summary[photoID] = entry.Status(userID)
	}
	return summary, nil
}
