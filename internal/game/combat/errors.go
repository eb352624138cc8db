package combat

import "errors"

// ErrSessionNotFound is returned when a session is absent, expired, or
// already deleted. The three cases are deliberately indistinguishable to
// callers.
var ErrSessionNotFound = errors.New("combat session not found")

// ErrSessionComplete is returned when an attack or defend action targets a
// session that already reached a terminal status.
var ErrSessionComplete = errors.New("combat session already complete")

// ErrSessionActive is returned when completion is requested for a session
// that is still ongoing.
var ErrSessionActive = errors.New("combat session still ongoing")

// ErrVersionConflict is returned by SessionStore.Update when the session was
// modified since it was read. The engine re-reads and retries; two
// concurrent turn applications never both succeed against one HP snapshot.
var ErrVersionConflict = errors.New("combat session version conflict")

// ErrStorageUnavailable is returned after the engine's bounded retries
// against the session store are exhausted.
var ErrStorageUnavailable = errors.New("session storage unavailable")
