package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/dialstrike/internal/game/combat"
	"github.com/cory-johannsen/dialstrike/internal/game/session"
)

func newSession() *combat.Session {
	return combat.NewSession("player-1", "loc-1", 5, "rat", "vermin", 1,
		combat.Stats{MaxHP: 100, Atk: 50, Def: 20, Accuracy: 0.75},
		combat.Stats{MaxHP: 80, Atk: 30, Def: 15, Accuracy: 0.5},
	)
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	store := session.NewMemoryStore(15 * time.Minute)
	ctx := context.Background()

	s := newSession()
	require.NoError(t, store.Create(ctx, s))
	assert.Equal(t, int64(1), s.Version)

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, int64(1), got.Version)
	assert.Equal(t, 100, got.PlayerHP)
}

func TestMemoryStore_GetReturnsIndependentCopy(t *testing.T) {
	store := session.NewMemoryStore(15 * time.Minute)
	ctx := context.Background()

	s := newSession()
	require.NoError(t, store.Create(ctx, s))

	a, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	a.PlayerHP = 1

	b, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, b.PlayerHP)
}

func TestMemoryStore_GetUnknown(t *testing.T) {
	store := session.NewMemoryStore(15 * time.Minute)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, combat.ErrSessionNotFound)
}

func TestMemoryStore_CreateDuplicateRejected(t *testing.T) {
	store := session.NewMemoryStore(15 * time.Minute)
	ctx := context.Background()

	s := newSession()
	require.NoError(t, store.Create(ctx, s))
	assert.Error(t, store.Create(ctx, s.Clone()))
}

func TestMemoryStore_UpdateBumpsVersion(t *testing.T) {
	store := session.NewMemoryStore(15 * time.Minute)
	ctx := context.Background()

	s := newSession()
	require.NoError(t, store.Create(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	got.EnemyHP = 45

	require.NoError(t, store.Update(ctx, got))
	assert.Equal(t, int64(2), got.Version)

	reread, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 45, reread.EnemyHP)
	assert.Equal(t, int64(2), reread.Version)
}

func TestMemoryStore_UpdateStaleVersionConflicts(t *testing.T) {
	store := session.NewMemoryStore(15 * time.Minute)
	ctx := context.Background()

	s := newSession()
	require.NoError(t, store.Create(ctx, s))

	first, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	second, err := store.Get(ctx, s.ID)
	require.NoError(t, err)

	first.EnemyHP = 45
	require.NoError(t, store.Update(ctx, first))

	second.EnemyHP = 10
	err = store.Update(ctx, second)
	assert.ErrorIs(t, err, combat.ErrVersionConflict)

	// The winner's write stands.
	reread, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 45, reread.EnemyHP)
}

func TestMemoryStore_UpdateUnknown(t *testing.T) {
	store := session.NewMemoryStore(15 * time.Minute)

	err := store.Update(context.Background(), newSession())
	assert.ErrorIs(t, err, combat.ErrSessionNotFound)
}

func TestMemoryStore_DeleteIdempotent(t *testing.T) {
	store := session.NewMemoryStore(15 * time.Minute)
	ctx := context.Background()

	s := newSession()
	require.NoError(t, store.Create(ctx, s))

	require.NoError(t, store.Delete(ctx, s.ID))
	require.NoError(t, store.Delete(ctx, s.ID))

	_, err := store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, combat.ErrSessionNotFound)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := session.NewMemoryStore(20 * time.Millisecond)
	ctx := context.Background()

	s := newSession()
	require.NoError(t, store.Create(ctx, s))

	time.Sleep(40 * time.Millisecond)

	_, err := store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, combat.ErrSessionNotFound)

	err = store.Update(ctx, s)
	assert.ErrorIs(t, err, combat.ErrSessionNotFound)
}

func TestMemoryStore_GetRefreshesTTL(t *testing.T) {
	store := session.NewMemoryStore(60 * time.Millisecond)
	ctx := context.Background()

	s := newSession()
	require.NoError(t, store.Create(ctx, s))

	// Keep touching the session past the original window.
	for i := 0; i < 4; i++ {
		time.Sleep(30 * time.Millisecond)
		_, err := store.Get(ctx, s.ID)
		require.NoError(t, err)
	}
}

func TestMemoryStore_Sweep(t *testing.T) {
	store := session.NewMemoryStore(20 * time.Millisecond)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Create(ctx, newSession()))
	}
	assert.Equal(t, 3, store.Len())

	time.Sleep(40 * time.Millisecond)

	fresh := newSession()
	require.NoError(t, store.Create(ctx, fresh))

	reaped, err := store.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, reaped)
	assert.Equal(t, 1, store.Len())

	_, err = store.Get(ctx, fresh.ID)
	assert.NoError(t, err)
}
