package combat

import "context"

// SessionStore is the keyed, TTL-based storage abstraction for sessions and
// the engine's concurrency boundary. Every successful read or write
// refreshes the session's expiry window; an expired session is
// indistinguishable from one that never existed.
//
// Implementations MUST be safe for concurrent use and MUST guarantee that
// two concurrent Updates against the same session never both succeed
// against the same version — one observes ErrVersionConflict.
type SessionStore interface {
	// Create persists a new session and stamps its initial version.
	//
	// Postcondition: On success the session is retrievable by Get until
	// its TTL lapses.
	Create(ctx context.Context, s *Session) error

	// Get returns an independent copy of the session, or
	// ErrSessionNotFound when it is absent or expired. The TTL is
	// refreshed on success.
	Get(ctx context.Context, id string) (*Session, error)

	// Update writes the session back if and only if its Version still
	// matches the stored one, then bumps the version and refreshes the
	// TTL. Returns ErrVersionConflict on a stale version and
	// ErrSessionNotFound when the session is absent or expired.
	Update(ctx context.Context, s *Session) error

	// Delete removes the session. Deleting an absent session is not an
	// error.
	Delete(ctx context.Context, id string) error
}
