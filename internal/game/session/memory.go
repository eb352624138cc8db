// Package session provides the in-memory SessionStore implementation: a
// TTL'd, version-stamped map suitable for single-process deployments and
// tests. The durable Postgres implementation lives in
// internal/storage/postgres.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cory-johannsen/dialstrike/internal/game/combat"
)

// entry is the stored envelope for one session: the store's private copy,
// its version counter, and its expiry deadline.
type entry struct {
	sess      *combat.Session
	version   int64
	expiresAt time.Time
}

// MemoryStore is an in-memory combat.SessionStore with sliding TTL expiry
// and per-key versioned compare-and-swap. All methods are safe for
// concurrent use. Expired entries are reaped lazily on access; Sweep
// removes them eagerly for callers that want bounded memory.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates an empty store with the given TTL window.
//
// Precondition: ttl must be > 0.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Create persists a new session at version 1.
//
// Postcondition: s.Version == 1; the session is retrievable until the TTL
// lapses. Returns an error if the ID is already present and live.
func (m *MemoryStore) Create(_ context.Context, s *combat.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ent, exists := m.entries[s.ID]; exists && m.now().Before(ent.expiresAt) {
		return fmt.Errorf("session %q already exists", s.ID)
	}

	s.Version = 1
	m.entries[s.ID] = &entry{
		sess:      s.Clone(),
		version:   1,
		expiresAt: m.now().Add(m.ttl),
	}
	return nil
}

// Get returns an independent copy stamped with the stored version,
// refreshing the TTL.
//
// Postcondition: Returns combat.ErrSessionNotFound for absent and expired
// sessions alike.
func (m *MemoryStore) Get(_ context.Context, id string) (*combat.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ent, err := m.liveEntry(id)
	if err != nil {
		return nil, err
	}

	ent.expiresAt = m.now().Add(m.ttl)
	out := ent.sess.Clone()
	out.Version = ent.version
	return out, nil
}

// Update writes the session back iff s.Version matches the stored version,
// then bumps the version and refreshes the TTL.
//
// Postcondition: On success s.Version is the new stored version. Returns
// combat.ErrVersionConflict on a stale version, combat.ErrSessionNotFound
// when absent or expired.
func (m *MemoryStore) Update(_ context.Context, s *combat.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ent, err := m.liveEntry(s.ID)
	if err != nil {
		return err
	}

	if s.Version != ent.version {
		return fmt.Errorf("%w: session %q at version %d, caller has %d", combat.ErrVersionConflict, s.ID, ent.version, s.Version)
	}

	ent.version++
	s.Version = ent.version
	ent.sess = s.Clone()
	ent.expiresAt = m.now().Add(m.ttl)
	return nil
}

// Delete removes the session. Deleting an absent session is a no-op.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

// Sweep removes all expired entries and returns how many were reaped.
func (m *MemoryStore) Sweep(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	reaped := 0
	for id, ent := range m.entries {
		if !now.Before(ent.expiresAt) {
			delete(m.entries, id)
			reaped++
		}
	}
	return reaped, nil
}

// Len returns the number of entries currently held, including any expired
// entries not yet reaped.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// liveEntry returns the entry for id if it exists and has not expired,
// reaping it otherwise. Caller must hold mu.
func (m *MemoryStore) liveEntry(id string) (*entry, error) {
	ent, exists := m.entries[id]
	if !exists {
		return nil, fmt.Errorf("%w: %q", combat.ErrSessionNotFound, id)
	}
	if !m.now().Before(ent.expiresAt) {
		delete(m.entries, id)
		return nil, fmt.Errorf("%w: %q", combat.ErrSessionNotFound, id)
	}
	return ent, nil
}
