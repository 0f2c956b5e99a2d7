package progress

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/junta/backend/internal/domain/shared"
)

// MemoryStore is an in-memory progress store suitable for single-instance
// deployments and tests. Entries expire after a TTL so finished imports
// do not accumulate forever.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]memoryEntry
	ttl     time.Duration
}

type memoryEntry struct {
	snap      Snapshot
	expiresAt time.Time
}

// NewMemoryStore creates a new in-memory progress store
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &MemoryStore{
		entries: make(map[uuid.UUID]memoryEntry),
		ttl:     ttl,
	}
}

// Publish stores the latest snapshot for an import
func (s *MemoryStore) Publish(_ context.Context, snap Snapshot) error {
	if snap.UpdatedAt.IsZero() {
		snap.UpdatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpired()
	s.entries[snap.ImportID] = memoryEntry{
		snap:      snap,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

// Get returns the latest snapshot for an import
func (s *MemoryStore) Get(_ context.Context, importID uuid.UUID) (*Snapshot, error) {
	s.mu.RLock()
	entry, ok := s.entries[importID]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, shared.ErrNotFound
	}

	snap := entry.snap
	return &snap, nil
}

// evictExpired removes stale entries. Caller must hold the write lock.
func (s *MemoryStore) evictExpired() {
	now := time.Now()
	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
}

var _ Store = (*MemoryStore)(nil)
