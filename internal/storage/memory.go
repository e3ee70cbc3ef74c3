// Package storage keeps timer snapshots for the lifetime of the process.
package storage

import (
	"context"
	"sync"

	"github.com/hammamikhairi/ringtimer/internal/domain"
	"github.com/hammamikhairi/ringtimer/internal/logger"
)

// Compile-time interface check.
var _ domain.StateStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory snapshot store. Safe for concurrent access.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]domain.Snapshot
	log   *logger.Logger
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		snaps: make(map[string]domain.Snapshot),
		log:   log,
	}
}

// Save stores a snapshot under key. Overwrites if it already exists.
func (s *MemoryStore) Save(ctx context.Context, key string, snap domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("saving snapshot %s (kind=%s)", key, snap.Kind)
	s.snaps[key] = snap
	return nil
}

// Load retrieves the snapshot stored under key.
func (s *MemoryStore) Load(ctx context.Context, key string) (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snaps[key]
	if !ok {
		s.log.Debug("snapshot not found: %s", key)
		return domain.Snapshot{}, domain.ErrNotFound
	}
	return snap, nil
}

// Delete removes the snapshot stored under key.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.snaps[key]; !ok {
		return domain.ErrNotFound
	}
	delete(s.snaps, key)
	s.log.Debug("deleted snapshot %s", key)
	return nil
}

// Len returns the number of stored snapshots.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snaps)
}
