// Package combat implements the server-authoritative dial combat engine:
// session state, turn transitions, and orchestration against a session
// store. Clients only ever predict outcomes cosmetically; the engine's
// responses are the sole source of truth for what happened.
package combat

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a combat session.
type Status int

const (
	StatusOngoing Status = iota
	StatusVictory
	StatusDefeat
)

// String returns a human-readable status label.
func (s Status) String() string {
	switch s {
	case StatusOngoing:
		return "ongoing"
	case StatusVictory:
		return "victory"
	case StatusDefeat:
		return "defeat"
	default:
		return "unknown"
	}
}

// Stats is an immutable snapshot of a combatant's stats taken at session
// creation. Re-equipping mid-combat never changes an active session.
type Stats struct {
	MaxHP    int
	Atk      float64
	Def      float64
	Accuracy float64
}

// Session is the full state of one combat encounter. It is owned by the
// SessionStore for its lifetime; the engine fetches a copy, mutates it, and
// writes it back atomically per action.
type Session struct {
	// ID is the opaque session key, immutable after creation.
	ID string
	// PlayerID is the owning player, immutable.
	PlayerID string
	// LocationID and CombatLevel are immutable context for enemy and loot
	// selection.
	LocationID  string
	CombatLevel int
	// EnemyTypeID, EnemyStyleID, and EnemyTier identify the spawned enemy,
	// immutable after creation.
	EnemyTypeID  string
	EnemyStyleID string
	EnemyTier    int
	// TurnNumber starts at 1 and increments on every resolved action.
	TurnNumber int
	// HP values are bounded to [0, max]; never negative, never above max.
	PlayerHP    int
	EnemyHP     int
	MaxPlayerHP int
	MaxEnemyHP  int
	// Stat snapshots, immutable after creation.
	PlayerStats Stats
	EnemyStats  Stats
	// Status is terminal once it leaves StatusOngoing.
	Status Status
	// CreatedAt is set once; LastTouchedAt is refreshed on every
	// successful turn and drives the store's TTL.
	CreatedAt     time.Time
	LastTouchedAt time.Time
	// Version is managed by the SessionStore for optimistic concurrency;
	// the engine passes it through untouched.
	Version int64
}

// NewSession builds a fresh ongoing session with both sides at full HP and
// a generated session ID.
//
// Precondition: playerStats.MaxHP and enemyStats.MaxHP must be >= 1.
// Postcondition: Status == StatusOngoing; TurnNumber == 1; both HP values
// equal their max.
func NewSession(playerID, locationID string, combatLevel int, enemyTypeID, enemyStyleID string, enemyTier int, playerStats, enemyStats Stats) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:            uuid.New().String(),
		PlayerID:      playerID,
		LocationID:    locationID,
		CombatLevel:   combatLevel,
		EnemyTypeID:   enemyTypeID,
		EnemyStyleID:  enemyStyleID,
		EnemyTier:     enemyTier,
		TurnNumber:    1,
		PlayerHP:      playerStats.MaxHP,
		EnemyHP:       enemyStats.MaxHP,
		MaxPlayerHP:   playerStats.MaxHP,
		MaxEnemyHP:    enemyStats.MaxHP,
		PlayerStats:   playerStats,
		EnemyStats:    enemyStats,
		Status:        StatusOngoing,
		CreatedAt:     now,
		LastTouchedAt: now,
	}
}

// Terminal reports whether the session has reached a terminal status.
// No transition leaves StatusVictory or StatusDefeat.
func (s *Session) Terminal() bool {
	return s.Status != StatusOngoing
}

// ApplyDamageToPlayer reduces player HP by amount, flooring at zero.
//
// Precondition: amount must be >= 0.
// Postcondition: PlayerHP >= 0.
func (s *Session) ApplyDamageToPlayer(amount int) {
	s.PlayerHP -= amount
	if s.PlayerHP < 0 {
		s.PlayerHP = 0
	}
}

// ApplyDamageToEnemy reduces enemy HP by amount, flooring at zero.
//
// Precondition: amount must be >= 0.
// Postcondition: EnemyHP >= 0.
func (s *Session) ApplyDamageToEnemy(amount int) {
	s.EnemyHP -= amount
	if s.EnemyHP < 0 {
		s.EnemyHP = 0
	}
}

// Clone returns an independent copy of the session.
func (s *Session) Clone() *Session {
	out := *s
	return &out
}
