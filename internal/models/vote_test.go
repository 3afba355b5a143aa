package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVoteEntry_Toggle(t *testing.T) {
	t.Run("first toggle adds the voter", func(t *testing.T) {
		entry := &VoteEntry{Voters: []string{}}

		status := entry.Toggle("google:111")

		assert.True(t, status.Voted)
		assert.Equal(t, 1, status.Votes)
		assert.True(t, entry.HasVoter("google:111"))
	})

	t.Run("second toggle removes the voter", func(t *testing.T) {
		entry := &VoteEntry{Voters: []string{"google:111"}}

		status := entry.Toggle("google:111")

		assert.False(t, status.Voted)
		assert.Equal(t, 0, status.Votes)
		assert.False(t, entry.HasVoter("google:111"))
	})

	t.Run("double toggle restores the original set", func(t *testing.T) {
		entry := &VoteEntry{Voters: []string{"facebook:222"}}

		entry.Toggle("google:111")
		entry.Toggle("google:111")

		assert.Equal(t, []string{"facebook:222"}, entry.Voters)
	})

	t.Run("never produces duplicate voters", func(t *testing.T) {
		entry := &VoteEntry{Voters: []string{}}

		for i := 0; i < 5; i++ {
			entry.Toggle("google:111")
		}

		count := 0
		for _, v := range entry.Voters {
			if v == "google:111" {
				count++
			}
		}
		assert.LessOrEqual(t, count, 1)
	})

	t.Run("count always equals voter list length", func(t *testing.T) {
		entry := &VoteEntry{Voters: []string{}}

		for _, user := range []string{"google:1", "facebook:2", "google:3", "google:1"} {
			status := entry.Toggle(user)
			assert.Equal(t, len(entry.Voters), status.Votes)
		}
	})

	t.Run("removing a middle voter keeps the others", func(t *testing.T) {
		entry := &VoteEntry{Voters: []string{"a:1", "b:2", "c:3"}}

		status := entry.Toggle("b:2")

		assert.Equal(t, 2, status.Votes)
		assert.True(t, entry.HasVoter("a:1"))
		assert.True(t, entry.HasVoter("c:3"))
		assert.False(t, entry.HasVoter("b:2"))
	})
}

func TestVoteEntry_Status(t *testing.T) {
	entry := &VoteEntry{Voters: []string{"google:111", "facebook:222"}}

	t.Run("voter sees voted=true", func(t *testing.T) {
		status := entry.Status("google:111")
		assert.Equal(t, 2, status.Votes)
		assert.True(t, status.Voted)
	})

	t.Run("non-voter sees voted=false", func(t *testing.T) {
		status := entry.Status("google:999")
		assert.Equal(t, 2, status.Votes)
		assert.False(t, status.Voted)
	})

	t.Run("anonymous caller sees voted=false", func(t *testing.T) {
		status := entry.Status("")
		assert.Equal(t, 2, status.Votes)
		assert.False(t, status.Voted)
	})
}

func TestVoteLedger_Entry(t *testing.T) {
	t.Run("creates an empty entry on first touch", func(t *testing.T) {
		ledger := VoteLedger{}

		entry := ledger.Entry("foto-1")

		assert.NotNil(t, entry)
		assert.Empty(t, entry.Voters)
		assert.Contains(t, ledger, "foto-1")
	})

	t.Run("returns the same entry on later touches", func(t *testing.T) {
		ledger := VoteLedger{}

		first := ledger.Entry("foto-1")
		first.Toggle("google:111")
		second := ledger.Entry("foto-1")

		assert.Equal(t, 1, len(second.Voters))
	})
}
