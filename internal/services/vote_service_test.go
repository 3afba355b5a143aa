package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/R6Joan/Festa-Roser/internal/models"
	"github.com/R6Joan/Festa-Roser/internal/repository"
)

// captureNotifier records broadcast events and optionally runs a probe
// at the moment of delivery.
type captureNotifier struct {
	events  []Event
	onEvent func(Event)
}

func (n *captureNotifier) Notify(event Event) {
	n.events = append(n.events, event)
	if n.onEvent != nil {
		n.onEvent(event)
	}
}

func setupVoteService(t *testing.T) (*VoteService, *repository.JSONVoteStore, *captureNotifier) {
	t.Helper()

	dir, err := os.MkdirTemp("", "festa-roser-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	store := repository.NewJSONVoteStore(filepath.Join(dir, "votes.json"))
	notifier := &captureNotifier{}
	return NewVoteService(store, notifier), store, notifier
}

func TestVoteService_Toggle(t *testing.T) {
	ctx := context.Background()
	joan := &models.Identity{Provider: "google", ID: "111", Name: "Joan"}
	maria := &models.Identity{Provider: "facebook", ID: "222", Name: "Maria"}

	t.Run("rejects anonymous callers", func(t *testing.T) {
		svc, _, notifier := setupVoteService(t)

		_, err := svc.Toggle(ctx, "foto-1", nil)

		assert.ErrorIs(t, err, models.ErrUnauthenticated)
		assert.Empty(t, notifier.events)
	})

	t.Run("rejects blank photo id", func(t *testing.T) {
		svc, _, notifier := setupVoteService(t)

		_, err := svc.Toggle(ctx, "  ", joan)

		assert.ErrorIs(t, err, models.ErrMissingPhotoID)
		assert.Empty(t, notifier.events)
	})

	t.Run("first toggle records the vote", func(t *testing.T) {
		svc, store, _ := setupVoteService(t)

		status, err := svc.Toggle(ctx, "foto-1", joan)
		require.NoError(t, err)

		assert.Equal(t, 1, status.Votes)
		assert.True(t, status.Voted)

		ledger, err := store.Load(ctx)
		require.NoError(t, err)
		assert.True(t, ledger["foto-1"].HasVoter("google:111"))
	})

	t.Run("double toggle restores the previous state", func(t *testing.T) {
		svc, store, _ := setupVoteService(t)

		_, err := svc.Toggle(ctx, "foto-1", maria)
		require.NoError(t, err)

		_, err = svc.Toggle(ctx, "foto-1", joan)
		require.NoError(t, err)
		status, err := svc.Toggle(ctx, "foto-1", joan)
		require.NoError(t, err)

		assert.Equal(t, 1, status.Votes)
		assert.False(t, status.Voted)

		ledger, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"facebook:222"}, ledger["foto-1"].Voters)
	})

	t.Run("votes from different identities accumulate", func(t *testing.T) {
		svc, _, _ := setupVoteService(t)

		_, err := svc.Toggle(ctx, "foto-1", joan)
		require.NoError(t, err)
		status, err := svc.Toggle(ctx, "foto-1", maria)
		require.NoError(t, err)

		assert.Equal(t, 2, status.Votes)
		assert.True(t, status.Voted)
	})

	t.Run("broadcasts voteUpdated with the acting voter's view", func(t *testing.T) {
		svc, _, notifier := setupVoteService(t)

		_, err := svc.Toggle(ctx, "foto-1", joan)
		require.NoError(t, err)

		require.Len(t, notifier.events, 1)
		assert.Equal(t, EventVoteUpdated, notifier.events[0].Type)

		payload, ok := notifier.events[0].Payload.(VoteUpdatedPayload)
		require.True(t, ok)
		assert.Equal(t, "foto-1", payload.PhotoID)
		assert.Equal(t, models.VoteStatus{Votes: 1, Voted: true}, payload.Data)
	})

	t.Run("ledger is persisted before the broadcast", func(t *testing.T) {
		svc, store, notifier := setupVoteService(t)

		var persistedAtNotify bool
		notifier.onEvent = func(Event) {
			ledger, err := store.Load(ctx)
			require.NoError(t, err)
			persistedAtNotify = ledger["foto-1"] != nil && ledger["foto-1"].HasVoter("google:111")
		}

		_, err := svc.Toggle(ctx, "foto-1", joan)
		require.NoError(t, err)
		assert.True(t, persistedAtNotify)
	})
}

func TestVoteService_Summary(t *testing.T) {
	ctx := context.Background()
	joan := &models.Identity{Provider: "google", ID: "111", Name: "Joan"}

	t.Run("empty ledger yields empty summary", func(t *testing.T) {
		svc, _, _ := setupVoteService(t)

		summary, err := svc.Summary(ctx, joan)
		require.NoError(t, err)
		assert.Empty(t, summary)
	})

	t.Run("voted flag is personal to the caller", func(t *testing.T) {
		svc, _, _ := setupVoteService(t)

		_, err := svc.Toggle(ctx, "foto-1", joan)
		require.NoError(t, err)

		summary, err := svc.Summary(ctx, joan)
		require.NoError(t, err)
		assert.Equal(t, models.VoteStatus{Votes: 1, Voted: true}, summary["foto-1"])

		other := &models.Identity{Provider: "facebook", ID: "222", Name: "Maria"}
		summary, err = svc.Summary(ctx, other)
		require.NoError(t, err)
		assert.Equal(t, models.VoteStatus{Votes: 1, Voted: false}, summary["foto-1"])
	})

	t.Run("anonymous callers never see voted=true", func(t *testing.T) {
		svc, _, _ := setupVoteService(t)

		_, err := svc.Toggle(ctx, "foto-1", joan)
		require.NoError(t, err)

		summary, err := svc.Summary(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, models.VoteStatus{Votes: 1, Voted: false}, summary["foto-1"])
	})

	t.Run("photos with empty entries appear with zero votes", func(t *testing.T) {
		svc, store, _ := setupVoteService(t)

		ledger := models.VoteLedger{}
		ledger.Entry("foto-new")
		require.NoError(t, store.Save(ctx, ledger))

		summary, err := svc.Summary(ctx, joan)
		require.NoError(t, err)
		assert.Equal(t, models.VoteStatus{Votes: 0, Voted: false}, summary["foto-new"])
	})
}
