package enemy_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/dialstrike/internal/game/enemy"
)

// scriptedSource returns pre-set Intn values in order, then repeats the last.
type scriptedSource struct {
	values []int
	idx    int
}

func (s *scriptedSource) Intn(n int) int {
	v := s.values[s.idx]
	if s.idx < len(s.values)-1 {
		s.idx++
	}
	if v >= n {
		return n - 1
	}
	return v
}

func (s *scriptedSource) Float64() float64 { return 0 }

func makeTemplate(id, locationType string, weight int) *enemy.Template {
	return &enemy.Template{
		ID: id, Name: id, LocationType: locationType,
		MinLevel: 1, MaxLevel: 10, Tier: 1, SpawnWeight: weight,
		BaseHP: 10, BaseAtk: 5, BaseDef: 1, Accuracy: 0.5,
	}
}

func TestPoolSelector_WeightedDraw(t *testing.T) {
	catalog := enemy.NewMemoryCatalog([]*enemy.Template{
		makeTemplate("a", "sewer", 3),
		makeTemplate("b", "sewer", 7),
	})

	// Total weight 10: rolls 0-2 pick a, 3-9 pick b.
	sel := enemy.NewPoolSelector(catalog, &scriptedSource{values: []int{2}})
	got, err := sel.Select(context.Background(), "sewer", 3)
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)

	sel = enemy.NewPoolSelector(catalog, &scriptedSource{values: []int{3}})
	got, err = sel.Select(context.Background(), "sewer", 3)
	require.NoError(t, err)
	assert.Equal(t, "b", got.ID)
}

func TestPoolSelector_ZeroWeightExcluded(t *testing.T) {
	catalog := enemy.NewMemoryCatalog([]*enemy.Template{
		makeTemplate("never", "sewer", 0),
		makeTemplate("always", "sewer", 1),
	})
	sel := enemy.NewPoolSelector(catalog, &scriptedSource{values: []int{0}})

	for i := 0; i < 10; i++ {
		got, err := sel.Select(context.Background(), "sewer", 3)
		require.NoError(t, err)
		assert.Equal(t, "always", got.ID)
	}
}

func TestPoolSelector_UniversalFallback(t *testing.T) {
	catalog := enemy.NewMemoryCatalog([]*enemy.Template{
		makeTemplate("wanderer", "", 5),
	})
	sel := enemy.NewPoolSelector(catalog, &scriptedSource{values: []int{0}})

	got, err := sel.Select(context.Background(), "volcano", 3)
	require.NoError(t, err)
	assert.Equal(t, "wanderer", got.ID)
}

func TestPoolSelector_FallbackWhenLocationPoolAllZeroWeight(t *testing.T) {
	catalog := enemy.NewMemoryCatalog([]*enemy.Template{
		makeTemplate("disabled", "sewer", 0),
		makeTemplate("wanderer", "", 5),
	})
	sel := enemy.NewPoolSelector(catalog, &scriptedSource{values: []int{0}})

	got, err := sel.Select(context.Background(), "sewer", 3)
	require.NoError(t, err)
	assert.Equal(t, "wanderer", got.ID)
}

func TestPoolSelector_NoEligibleEnemies(t *testing.T) {
	sel := enemy.NewPoolSelector(enemy.NewMemoryCatalog(nil), &scriptedSource{values: []int{0}})

	_, err := sel.Select(context.Background(), "sewer", 3)
	assert.ErrorIs(t, err, enemy.ErrNoEligibleEnemies)
}

func TestPoolSelector_LevelFiltering(t *testing.T) {
	tmpl := makeTemplate("mid", "sewer", 5)
	tmpl.MinLevel = 4
	tmpl.MaxLevel = 6
	catalog := enemy.NewMemoryCatalog([]*enemy.Template{tmpl})
	sel := enemy.NewPoolSelector(catalog, &scriptedSource{values: []int{0}})

	_, err := sel.Select(context.Background(), "sewer", 3)
	assert.ErrorIs(t, err, enemy.ErrNoEligibleEnemies)

	got, err := sel.Select(context.Background(), "sewer", 5)
	require.NoError(t, err)
	assert.Equal(t, "mid", got.ID)
}

func TestPoolSelector_Property_AlwaysReturnsPositiveWeight(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(rt, "templates")
		var pool []*enemy.Template
		anyPositive := false
		for i := 0; i < n; i++ {
			w := rapid.IntRange(0, 5).Draw(rt, "weight")
			if w > 0 {
				anyPositive = true
			}
			pool = append(pool, makeTemplate(string(rune('a'+i)), "sewer", w))
		}
		roll := rapid.IntRange(0, 100).Draw(rt, "roll")
		sel := enemy.NewPoolSelector(enemy.NewMemoryCatalog(pool), &scriptedSource{values: []int{roll}})

		got, err := sel.Select(context.Background(), "sewer", 3)
		if !anyPositive {
			assert.ErrorIs(rt, err, enemy.ErrNoEligibleEnemies)
			return
		}
		require.NoError(rt, err)
		assert.Greater(rt, got.SpawnWeight, 0)
	})
}

func TestPoolSelector_CatalogErrorPropagates(t *testing.T) {
	sel := enemy.NewPoolSelector(failingCatalog{}, &scriptedSource{values: []int{0}})
	_, err := sel.Select(context.Background(), "sewer", 3)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, enemy.ErrNoEligibleEnemies))
}

type failingCatalog struct{}

func (failingCatalog) ListEligible(context.Context, string, int) ([]*enemy.Template, error) {
	return nil, errors.New("catalog offline")
}
