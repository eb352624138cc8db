package combat

import (
	"time"

	"github.com/cory-johannsen/dialstrike/internal/game/damage"
	"github.com/cory-johannsen/dialstrike/internal/game/rng"
	"github.com/cory-johannsen/dialstrike/internal/game/zone"
)

// AttackOutcome is the ephemeral result of one resolved action — the return
// contract of a turn. It is never persisted independently.
type AttackOutcome struct {
	SessionID      string
	Zone           zone.Zone
	DamageToEnemy  int
	DamageToPlayer int
	Critical       bool
	PlayerHP       int
	EnemyHP        int
	TurnNumber     int
	Status         Status
}

// ApplyAttack resolves a player attack at the given tap angle and mutates s
// in place. Bands are recomputed from the player's live accuracy snapshot.
//
// Zone semantics: miss deals nothing; graze/normal/crit damage the enemy
// with player ATK vs enemy DEF; injure redirects a normal-multiplier hit
// (enemy ATK vs player DEF) onto the player. When neither HP reached zero
// the enemy counters at the normal multiplier — the enemy's turn folded
// into the same resolution. A fatal primary blow suppresses the counter.
//
// Precondition: angle in [0, 360]; src non-nil.
// Postcondition: TurnNumber incremented by exactly 1; HP bounds preserved;
// Status terminal iff one side's HP reached 0. Returns ErrSessionComplete
// without mutating s when the session is already terminal.
func ApplyAttack(s *Session, angle float64, src rng.Source) (AttackOutcome, error) {
	if s.Terminal() {
		return AttackOutcome{}, ErrSessionComplete
	}

	bands := zone.ComputeBands(s.PlayerStats.Accuracy)
	z := zone.Resolve(angle, bands)

	var toEnemy, toPlayer int
	var critical bool

	switch z {
	case zone.ZoneMiss:
		// No damage either direction.
	case zone.ZoneInjure:
		res := damage.Compute(s.EnemyStats.Atk, s.PlayerStats.Def, zone.ZoneInjure, src)
		toPlayer = res.Damage
		s.ApplyDamageToPlayer(toPlayer)
	default:
		res := damage.Compute(s.PlayerStats.Atk, s.EnemyStats.Def, z, src)
		toEnemy = res.Damage
		critical = res.Critical
		s.ApplyDamageToEnemy(toEnemy)
	}

	if s.EnemyHP > 0 && s.PlayerHP > 0 {
		counter := damage.Compute(s.EnemyStats.Atk, s.PlayerStats.Def, zone.ZoneNormal, src)
		toPlayer += counter.Damage
		s.ApplyDamageToPlayer(counter.Damage)
	}

	finishTurn(s)

	return AttackOutcome{
		SessionID:      s.ID,
		Zone:           z,
		DamageToEnemy:  toEnemy,
		DamageToPlayer: toPlayer,
		Critical:       critical,
		PlayerHP:       s.PlayerHP,
		EnemyHP:        s.EnemyHP,
		TurnNumber:     s.TurnNumber,
		Status:         s.Status,
	}, nil
}

// ApplyDefend resolves a player defend action. The zone mechanics match
// ApplyAttack, but the resolved zone mitigates the enemy's incoming hit for
// this turn instead of dealing damage: the defend turn is the enemy's
// attack, so no separate counter-response follows.
//
// Precondition: angle in [0, 360]; mit must have passed Validate(); src
// non-nil.
// Postcondition: As ApplyAttack; enemy HP is never changed by a defend.
func ApplyDefend(s *Session, angle float64, mit damage.MitigationTable, src rng.Source) (AttackOutcome, error) {
	if s.Terminal() {
		return AttackOutcome{}, ErrSessionComplete
	}

	bands := zone.ComputeBands(s.PlayerStats.Accuracy)
	z := zone.Resolve(angle, bands)

	incoming := damage.Compute(s.EnemyStats.Atk, s.PlayerStats.Def, zone.ZoneNormal, src)
	taken := damage.Mitigate(incoming.Damage, z, mit)
	s.ApplyDamageToPlayer(taken)

	finishTurn(s)

	return AttackOutcome{
		SessionID:      s.ID,
		Zone:           z,
		DamageToPlayer: taken,
		Critical:       z == zone.ZoneCrit,
		PlayerHP:       s.PlayerHP,
		EnemyHP:        s.EnemyHP,
		TurnNumber:     s.TurnNumber,
		Status:         s.Status,
	}, nil
}

// finishTurn applies the shared end-of-turn bookkeeping: terminal status on
// the turn that zeroed an HP bar, turn increment, and touch timestamp.
//
// Only one side's HP can reach zero in a single action, so victory and
// defeat are mutually exclusive here.
func finishTurn(s *Session) {
	switch {
	case s.EnemyHP == 0:
		s.Status = StatusVictory
	case s.PlayerHP == 0:
		s.Status = StatusDefeat
	}
	s.TurnNumber++
	s.LastTouchedAt = time.Now().UTC()
}
