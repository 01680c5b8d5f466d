package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/cvmatch/internal/domain/model"
)

// MemoryStore is a mutex-guarded, in-memory Store.
//
// Per-user history is kept in insertion order so that records sharing a
// CreatedAt resolve to the one submitted last.
type MemoryStore struct {
	mu         sync.RWMutex
	records    map[string]model.AnalysisRecord
	byUser     map[string][]string
	maxPerUser int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		records: make(map[string]model.AnalysisRecord),
		byUser:  make(map[string][]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save inserts or replaces a record.
func (s *MemoryStore) Save(_ context.Context, rec model.AnalysisRecord) error { //nolint:gocritic // hugeParam: records are stored by value
	if rec.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidRecord)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.records[rec.ID]; ok {
		if prev.UserID != rec.UserID {
			return fmt.Errorf("%w: %s belongs to another user", ErrInvalidRecord, rec.ID)
		}
		s.records[rec.ID] = rec
		return nil
	}

	s.records[rec.ID] = rec
	ids := append(s.byUser[rec.UserID], rec.ID)
	if s.maxPerUser > 0 && len(ids) > s.maxPerUser {
		for _, old := range ids[:len(ids)-s.maxPerUser] {
			delete(s.records, old)
		}
		ids = append([]string(nil), ids[len(ids)-s.maxPerUser:]...)
	}
	s.byUser[rec.UserID] = ids
	return nil
}

// Get returns a record by ID.
func (s *MemoryStore) Get(_ context.Context, id string) (model.AnalysisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return model.AnalysisRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, nil
}

// LatestByUser returns the newest record for a user.
func (s *MemoryStore) LatestByUser(_ context.Context, userID string) (model.AnalysisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		latest model.AnalysisRecord
		found  bool
	)
	for _, id := range s.byUser[userID] {
		rec := s.records[id]
		if !found || !rec.CreatedAt.Before(latest.CreatedAt) {
			latest, found = rec, true
		}
	}
	if !found {
		return model.AnalysisRecord{}, fmt.Errorf("%w for user %q", ErrNotFound, userID)
	}
	return latest, nil
}

// Delete removes a record and its place in the user's history.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return nil
	}
	delete(s.records, id)

	ids := s.byUser[rec.UserID]
	for i, v := range ids {
		if v == id {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(s.byUser, rec.UserID)
	} else {
		s.byUser[rec.UserID] = ids
	}
	return nil
}

// Count returns the number of records held.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
