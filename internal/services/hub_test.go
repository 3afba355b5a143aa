package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/R6Joan/Festa-Roser/internal/models"
)

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.After(time.Second)
	for hub.ClientCount() != want {
		select {
		case <-deadline:
			t.Fatalf("hub never reached %d clients", want)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestHub_Notify(t *testing.T) {
	t.Run("fans an event out to every connected viewer", func(t *testing.T) {
		hub := NewHub()
		go hub.Run()

		a := hub.NewClient("viewer-a", nil)
		b := hub.NewClient("viewer-b", nil)
		hub.Register(a)
		hub.Register(b)
		waitForClients(t, hub, 2)

		hub.Notify(Event{
			Type: EventVoteUpdated,
			Payload: VoteUpdatedPayload{
				PhotoID: "foto-1",
				Data:    models.VoteStatus{Votes: 3, Voted: true},
			},
		})

		for _, client := range []*Client{a, b} {
			select {
			case raw := <-client.Send:
				var event struct {
					Type    string `json:"type"`
					Payload struct {
						PhotoID string `json:"photo_id"`
						Data    struct {
							Votes int  `json:"votes"`
							Voted bool `json:"voted"`
						} `json:"data"`
					} `json:"payload"`
				}
				require.NoError(t, json.Unmarshal(raw, &event))
				assert.Equal(t, EventVoteUpdated, event.Type)
				assert.Equal(t, "foto-1", event.Payload.PhotoID)
				assert.Equal(t, 3, event.Payload.Data.Votes)
				assert.True(t, event.Payload.Data.Voted)
			case <-time.After(time.Second):
				t.Fatalf("client %s never received the event", client.ID)
			}
		}
	})

	t.Run("unregistered viewers stop receiving events", func(t *testing.T) {
		hub := NewHub()
		go hub.Run()

		client := hub.NewClient("viewer", nil)
		hub.Register(client)
		waitForClients(t, hub, 1)

		hub.Unregister(client)
		waitForClients(t, hub, 0)

		hub.Notify(Event{Type: EventPhotoDeleted, Payload: PhotoDeletedPayload{ID: "foto-1"}})

		// The send channel is closed on unregister
		_, open := <-client.Send
		assert.False(t, open)
	})
}
