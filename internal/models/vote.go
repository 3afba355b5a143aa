package models

// VoteEntry holds the voter set for a single photo. Voter keys are
// "provider:subjectId" strings; membership is the sole source of truth
// for both the public count and the per-user voted flag.
type VoteEntry struct {
	Voters []string `json:"voters"`
}

// HasVoter reports whether the given voter key is in the set.
func (e *VoteEntry) HasVoter(userID string) bool {
	for _, v := range e.Voters {
		if v == userID {
			return true
		}
	}
	return false
}

// Toggle flips the voter's membership and returns the resulting state.
// A membership test guards the insert so duplicates can never occur.
func (e *VoteEntry) Toggle(userID string) VoteStatus {
	for i, v := range e.Voters {
		if v == userID {
			e.Voters = append(e.Voters[:i], e.Voters[i+1:]...)
			return VoteStatus{Votes: len(e.Voters), Voted: false}
		}
	}
	e.Voters = append(e.Voters, userID)
	return VoteStatus{Votes: len(e.Voters), Voted: true}
}

// Status computes the public view of the entry for the given voter key.
// An empty key (anonymous caller) always yields Voted=false.
func (e *VoteEntry) Status(userID string) VoteStatus {
	return VoteStatus{
		Votes: len(e.Voters),
		Voted: userID != "" && e.HasVoter(userID),
	}
}

// VoteLedger maps photo ids to their voter sets. It mirrors votes.json.
type VoteLedger map[string]*VoteEntry

// Entry returns the ledger entry for a photo id, creating an empty one
// the first time any vote touches that id.
func (l VoteLedger) Entry(photoID string) *VoteEntry {
	entry, ok := l[photoID]
	if !ok {
		entry = &VoteEntry{Voters: []string{}}
		l[photoID] = entry
	}
	return entry
}

// VoteStatus is the public tally of a photo as seen by one caller.
type VoteStatus struct {
	Votes int  `json:"votes"`
	Voted bool `json:"voted"`
}
