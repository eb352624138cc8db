package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/dialstrike/internal/game/combat"
)

func TestNewSession(t *testing.T) {
	player := combat.Stats{MaxHP: 120, Atk: 40, Def: 25, Accuracy: 0.8}
	enemy := combat.Stats{MaxHP: 60, Atk: 20, Def: 10, Accuracy: 0.5}

	s := combat.NewSession("player-1", "loc-7", 12, "goblin", "raider", 2, player, enemy)

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "player-1", s.PlayerID)
	assert.Equal(t, "loc-7", s.LocationID)
	assert.Equal(t, 12, s.CombatLevel)
	assert.Equal(t, "goblin", s.EnemyTypeID)
	assert.Equal(t, "raider", s.EnemyStyleID)
	assert.Equal(t, 2, s.EnemyTier)
	assert.Equal(t, 1, s.TurnNumber)
	assert.Equal(t, 120, s.PlayerHP)
	assert.Equal(t, 60, s.EnemyHP)
	assert.Equal(t, 120, s.MaxPlayerHP)
	assert.Equal(t, 60, s.MaxEnemyHP)
	assert.Equal(t, combat.StatusOngoing, s.Status)
	assert.False(t, s.Terminal())
}

func TestSession_DistinctIDs(t *testing.T) {
	stats := combat.Stats{MaxHP: 10, Atk: 1, Def: 1, Accuracy: 0.5}
	a := combat.NewSession("p", "l", 1, "e", "", 1, stats, stats)
	b := combat.NewSession("p", "l", 1, "e", "", 1, stats, stats)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestSession_ApplyDamageFloorsAtZero(t *testing.T) {
	s := testSession(5, 5)

	s.ApplyDamageToPlayer(99)
	assert.Equal(t, 0, s.PlayerHP)

	s.ApplyDamageToEnemy(99)
	assert.Equal(t, 0, s.EnemyHP)
}

func TestSession_Clone(t *testing.T) {
	s := testSession(100, 80)
	c := s.Clone()

	c.PlayerHP = 1
	c.Status = combat.StatusDefeat

	assert.Equal(t, 100, s.PlayerHP)
	assert.Equal(t, combat.StatusOngoing, s.Status)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "ongoing", combat.StatusOngoing.String())
	assert.Equal(t, "victory", combat.StatusVictory.String())
	assert.Equal(t, "defeat", combat.StatusDefeat.String())
}
