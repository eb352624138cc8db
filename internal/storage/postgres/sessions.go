package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/dialstrike/internal/game/combat"
)

const sessionColumns = `id, player_id, location_id, combat_level,
	enemy_type_id, enemy_style_id, enemy_tier, turn_number,
	player_hp, enemy_hp, max_player_hp, max_enemy_hp,
	player_atk, player_def, player_accuracy,
	enemy_atk, enemy_def, enemy_accuracy,
	status, created_at, last_touched_at, version`

// SessionStore is the durable combat.SessionStore backed by PostgreSQL.
// Expiry uses an expires_at column: reads and writes refresh it, and
// expired rows are treated as absent until Sweep deletes them. Optimistic
// concurrency rides on a version column checked in the UPDATE predicate.
type SessionStore struct {
	db  *pgxpool.Pool
	ttl time.Duration
}

// NewSessionStore creates a SessionStore backed by the given pool.
//
// Precondition: db must be a valid, open connection pool; ttl must be > 0.
func NewSessionStore(db *pgxpool.Pool, ttl time.Duration) *SessionStore {
	return &SessionStore{db: db, ttl: ttl}
}

// Create inserts a new session at version 1.
//
// Postcondition: s.Version == 1 on success.
func (r *SessionStore) Create(ctx context.Context, s *combat.Session) error {
	s.Version = 1
	_, err := r.db.Exec(ctx,
		`INSERT INTO combat_sessions (`+sessionColumns+`, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		         $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`,
		s.ID, s.PlayerID, s.LocationID, s.CombatLevel,
		s.EnemyTypeID, s.EnemyStyleID, s.EnemyTier, s.TurnNumber,
		s.PlayerHP, s.EnemyHP, s.MaxPlayerHP, s.MaxEnemyHP,
		s.PlayerStats.Atk, s.PlayerStats.Def, s.PlayerStats.Accuracy,
		s.EnemyStats.Atk, s.EnemyStats.Def, s.EnemyStats.Accuracy,
		int(s.Status), s.CreatedAt, s.LastTouchedAt, s.Version,
		time.Now().UTC().Add(r.ttl),
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// Get fetches a live session and refreshes its expiry in the same
// statement.
//
// Postcondition: Returns combat.ErrSessionNotFound for absent and expired
// sessions alike.
func (r *SessionStore) Get(ctx context.Context, id string) (*combat.Session, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE combat_sessions
		 SET expires_at = $2
		 WHERE id = $1 AND expires_at > now()
		 RETURNING `+sessionColumns,
		id, time.Now().UTC().Add(r.ttl),
	)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", combat.ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("querying session: %w", err)
	}
	return s, nil
}

// Update writes the session back iff its version matches, bumping the
// version and refreshing the expiry. The version predicate in the UPDATE
// makes the compare-and-swap atomic; of two racing writers exactly one
// matches.
//
// Postcondition: On success s.Version is the new stored version. Returns
// combat.ErrVersionConflict on a stale version, combat.ErrSessionNotFound
// when absent or expired.
func (r *SessionStore) Update(ctx context.Context, s *combat.Session) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE combat_sessions
		 SET turn_number = $3, player_hp = $4, enemy_hp = $5, status = $6,
		     last_touched_at = $7, version = version + 1, expires_at = $8
		 WHERE id = $1 AND version = $2 AND expires_at > now()`,
		s.ID, s.Version,
		s.TurnNumber, s.PlayerHP, s.EnemyHP, int(s.Status),
		s.LastTouchedAt, time.Now().UTC().Add(r.ttl),
	)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	if tag.RowsAffected() == 1 {
		s.Version++
		return nil
	}

	// No row matched: distinguish a stale version from a vanished session.
	var exists bool
	err = r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM combat_sessions WHERE id = $1 AND expires_at > now())`,
		s.ID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking session existence: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: session %q stale at version %d", combat.ErrVersionConflict, s.ID, s.Version)
	}
	return fmt.Errorf("%w: %q", combat.ErrSessionNotFound, s.ID)
}

// Delete removes the session. Deleting an absent session is a no-op.
func (r *SessionStore) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM combat_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// Sweep deletes all expired sessions and returns how many were removed.
func (r *SessionStore) Sweep(ctx context.Context) (int, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM combat_sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("sweeping sessions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func scanSession(row pgx.Row) (*combat.Session, error) {
	var s combat.Session
	var status int
	err := row.Scan(
		&s.ID, &s.PlayerID, &s.LocationID, &s.CombatLevel,
		&s.EnemyTypeID, &s.EnemyStyleID, &s.EnemyTier, &s.TurnNumber,
		&s.PlayerHP, &s.EnemyHP, &s.MaxPlayerHP, &s.MaxEnemyHP,
		&s.PlayerStats.Atk, &s.PlayerStats.Def, &s.PlayerStats.Accuracy,
		&s.EnemyStats.Atk, &s.EnemyStats.Def, &s.EnemyStats.Accuracy,
		&status, &s.CreatedAt, &s.LastTouchedAt, &s.Version,
	)
	if err != nil {
		return nil, err
	}
	s.Status = combat.Status(status)
	s.PlayerStats.MaxHP = s.MaxPlayerHP
	s.EnemyStats.MaxHP = s.MaxEnemyHP
	return &s, nil
}
