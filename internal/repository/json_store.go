package repository

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/R6Joan/Festa-Roser/internal/models"
	"github.com/R6Joan/Festa-Roser/internal/observability"
)

// JSONPhotoStore keeps the photo ledger in a single human-inspectable JSON
// file, re-read on every Load and rewritten wholesale on every Save.
//
// The mutex only serializes the individual file reads and writes so two
// goroutines cannot interleave inside one write. It does NOT span a caller's
// load-modify-save sequence: two concurrent mutations can still each load a
// stale snapshot and the second Save wins. Last-writer-wins is the
// documented consistency model of this service.
type JSONPhotoStore struct {
	path string
	mu   sync.Mutex
}

// NewJSONPhotoStore creates a store backed by the given file path
func NewJSONPhotoStore(path string) *JSONPhotoStore {
	return &JSONPhotoStore{path: path}
}

func (s *JSONPhotoStore) Load(ctx context.Context) ([]*models.PhotoRecord, error) {
	_, span := observability.StartLedgerSpan(ctx, "load", "photos")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []*models.PhotoRecord{}, nil
	}
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	var photos []*models.PhotoRecord
	if err := json.Unmarshal(data, &photos); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	if photos == nil {
		photos = []*models.PhotoRecord{}
	}
	return photos, nil
}

func (s *JSONPhotoStore) Save(ctx context.Context, photos []*models.PhotoRecord) error {
	_, span := observability.StartLedgerSpan(ctx, "save", "photos")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(photos, "", "  ")
	if err != nil {
		observability.RecordError(span, err)
		return err
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		observability.RecordError(span, err)
		return err
	}
	return nil
}

// JSONVoteStore keeps the vote ledger in a single JSON file mapping photo
// ids to voter lists. Same whole-file contract and consistency model as
// JSONPhotoStore.
type JSONVoteStore struct {
	path string
	mu   sync.Mutex
}

// NewJSONVoteStore creates a store backed by the given file path
func NewJSONVoteStore(path string) *JSONVoteStore {
	return &JSONVoteStore{path: path}
}

func (s *JSONVoteStore) Load(ctx context.Context) (models.VoteLedger, error) {
	_, span := observability.StartLedgerSpan(ctx, "load", "votes")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return models.VoteLedger{}, nil
	}
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	var ledger models.VoteLedger
	if err := json.Unmarshal(data, &ledger); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	if ledger == nil {
		ledger = models.VoteLedger{}
	}
	return ledger, nil
}

func (s *JSONVoteStore) Save(ctx context.Context, ledger models.VoteLedger) error {
	_, span := observability.StartLedgerSpan(ctx, "save", "votes")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(ledger, "", "  ")
	if err != nil {
		observability.RecordError(span, err)
		return err
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		observability.RecordError(span, err)
		return err
	}
	return nil
}
