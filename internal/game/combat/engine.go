package combat

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dialstrike/internal/game/damage"
	"github.com/cory-johannsen/dialstrike/internal/game/enemy"
	"github.com/cory-johannsen/dialstrike/internal/game/loot"
	"github.com/cory-johannsen/dialstrike/internal/game/rng"
)

// PlayerStatsProvider supplies the stat snapshot captured at session start.
type PlayerStatsProvider interface {
	// Stats returns the player's current combat stats. Read-only.
	Stats(ctx context.Context, playerID string) (Stats, error)
}

// EnemySelector picks an enemy template for a location type and combat
// level. Satisfied by enemy.PoolSelector.
type EnemySelector interface {
	Select(ctx context.Context, locationType string, combatLevel int) (*enemy.Template, error)
}

// Engine orchestrates combat sessions: creation, turn processing, and
// completion. It holds no session state between calls — every operation
// re-fetches from the store, so any number of engine instances can share
// one store backend.
type Engine struct {
	store      SessionStore
	selector   EnemySelector
	stats      PlayerStatsProvider
	loot       loot.Generator
	src        rng.Source
	mitigation damage.MitigationTable
	retries    int
	logger     *zap.Logger
}

// NewEngine creates an Engine.
//
// Precondition: all arguments must be non-nil; mitigation must have passed
// Validate(); retries must be >= 0 (0 means a single attempt).
func NewEngine(store SessionStore, selector EnemySelector, stats PlayerStatsProvider, lootGen loot.Generator, src rng.Source, mitigation damage.MitigationTable, retries int, logger *zap.Logger) *Engine {
	return &Engine{
		store:      store,
		selector:   selector,
		stats:      stats,
		loot:       lootGen,
		src:        src,
		mitigation: mitigation,
		retries:    retries,
		logger:     logger,
	}
}

// StartCombat selects an enemy for the location, snapshots the player's
// stats, and persists a fresh session.
//
// Postcondition: On success the returned session is StatusOngoing at turn 1
// with both sides at full HP, and is retrievable from the store. On failure
// no session is created. Enemy selection failures (including
// enemy.ErrNoEligibleEnemies) are surfaced unchanged.
func (e *Engine) StartCombat(ctx context.Context, playerID, locationID, locationType string, combatLevel int) (*Session, error) {
	tmpl, err := e.selector.Select(ctx, locationType, combatLevel)
	if err != nil {
		return nil, fmt.Errorf("selecting enemy: %w", err)
	}

	playerStats, err := e.stats.Stats(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("snapshotting player stats: %w", err)
	}

	hp, atk, def := tmpl.ScaledStats()
	enemyStats := Stats{MaxHP: hp, Atk: atk, Def: def, Accuracy: tmpl.Accuracy}

	sess := NewSession(playerID, locationID, combatLevel, tmpl.ID, tmpl.StyleID, tmpl.Tier, playerStats, enemyStats)

	if err := e.withRetries(func() error { return e.store.Create(ctx, sess) }); err != nil {
		return nil, err
	}

	e.logger.Info("combat started",
		zap.String("session_id", sess.ID),
		zap.String("player_id", playerID),
		zap.String("enemy_type", tmpl.ID),
		zap.Int("enemy_tier", tmpl.Tier),
		zap.Int("combat_level", combatLevel),
	)
	return sess, nil
}

// ProcessAttack applies a player attack at the given tap angle.
//
// The read-modify-write cycle retries on version conflicts with a fresh
// read, so concurrent actions against one session serialize; transient
// store failures are retried up to the bound and then surfaced as
// ErrStorageUnavailable. On any error the persisted session state is
// unchanged from before the call.
func (e *Engine) ProcessAttack(ctx context.Context, sessionID string, tapAngle float64) (AttackOutcome, error) {
	return e.processTurn(ctx, sessionID, "attack", func(s *Session) (AttackOutcome, error) {
		return ApplyAttack(s, tapAngle, e.src)
	})
}

// ProcessDefend applies a player defend action. Symmetric to ProcessAttack.
func (e *Engine) ProcessDefend(ctx context.Context, sessionID string, tapAngle float64) (AttackOutcome, error) {
	return e.processTurn(ctx, sessionID, "defend", func(s *Session) (AttackOutcome, error) {
		return ApplyDefend(s, tapAngle, e.mitigation, e.src)
	})
}

// CompleteCombat finalizes a terminal session: loot is generated on victory
// only, and the session is deleted from the store regardless of outcome.
//
// Postcondition: Returns ErrSessionActive when the session is still
// ongoing; ErrSessionNotFound when it is absent, expired, or already
// completed. After a successful return the session no longer exists.
func (e *Engine) CompleteCombat(ctx context.Context, sessionID string) (loot.Result, error) {
	var sess *Session
	err := e.withRetries(func() error {
		var getErr error
		sess, getErr = e.store.Get(ctx, sessionID)
		return getErr
	})
	if err != nil {
		return loot.Result{}, err
	}

	if !sess.Terminal() {
		return loot.Result{}, fmt.Errorf("%w: session %s", ErrSessionActive, sessionID)
	}

	var result loot.Result
	if sess.Status == StatusVictory {
		result, err = e.loot.Generate(ctx, sess.EnemyTypeID, sess.EnemyStyleID, sess.CombatLevel)
		if err != nil {
			return loot.Result{}, fmt.Errorf("generating loot: %w", err)
		}
	}

	if err := e.withRetries(func() error { return e.store.Delete(ctx, sessionID) }); err != nil {
		return loot.Result{}, err
	}

	e.logger.Info("combat completed",
		zap.String("session_id", sessionID),
		zap.String("status", sess.Status.String()),
		zap.Int("turns", sess.TurnNumber),
		zap.Int("loot_gold", result.Gold),
		zap.Int("loot_xp", result.XP),
	)
	return result, nil
}

// processTurn runs one fetch-mutate-write cycle for an attack or defend
// action, retrying version conflicts and transient store errors up to the
// bound.
func (e *Engine) processTurn(ctx context.Context, sessionID, action string, apply func(*Session) (AttackOutcome, error)) (AttackOutcome, error) {
	var lastErr error
	for attempt := 0; attempt <= e.retries; attempt++ {
		sess, err := e.store.Get(ctx, sessionID)
		if err != nil {
			if errors.Is(err, ErrSessionNotFound) {
				return AttackOutcome{}, err
			}
			lastErr = err
			continue
		}

		outcome, err := apply(sess)
		if err != nil {
			// Pure turn application never has transient failures.
			return AttackOutcome{}, err
		}

		err = e.store.Update(ctx, sess)
		if err == nil {
			e.logger.Debug("turn resolved",
				zap.String("session_id", sessionID),
				zap.String("action", action),
				zap.String("zone", outcome.Zone.String()),
				zap.Int("damage_to_enemy", outcome.DamageToEnemy),
				zap.Int("damage_to_player", outcome.DamageToPlayer),
				zap.Int("turn", outcome.TurnNumber),
				zap.String("status", outcome.Status.String()),
			)
			return outcome, nil
		}
		if errors.Is(err, ErrSessionNotFound) {
			return AttackOutcome{}, err
		}
		// Version conflict: another writer won this turn; re-read and
		// re-apply against the fresh state. Transient errors share the
		// same bounded loop.
		lastErr = err
	}
	return AttackOutcome{}, fmt.Errorf("%w: %s after %d attempts: %v", ErrStorageUnavailable, action, e.retries+1, lastErr)
}

// withRetries runs op up to retries+1 times, surfacing ErrSessionNotFound
// immediately and wrapping anything else as ErrStorageUnavailable once the
// bound is exhausted.
func (e *Engine) withRetries(op func() error) error {
	var lastErr error
	for attempt := 0; attempt <= e.retries; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrSessionNotFound) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("%w: after %d attempts: %v", ErrStorageUnavailable, e.retries+1, lastErr)
}
