package enemy_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/dialstrike/internal/game/enemy"
)

const validTemplateYAML = `
id: sewer-rat
name: Sewer Rat
description: A rat the size of a small dog.
style_id: vermin
location_type: sewer
min_level: 1
max_level: 5
tier: 2
spawn_weight: 10
base_hp: 20
base_atk: 8.0
base_def: 2.0
accuracy: 0.4
`

func TestLoadTemplateFromBytes_Valid(t *testing.T) {
	tmpl, err := enemy.LoadTemplateFromBytes([]byte(validTemplateYAML))
	require.NoError(t, err)
	assert.Equal(t, "sewer-rat", tmpl.ID)
	assert.Equal(t, "vermin", tmpl.StyleID)
	assert.Equal(t, 2, tmpl.Tier)
	assert.Equal(t, 10, tmpl.SpawnWeight)
}

func TestLoadTemplateFromBytes_InvalidYAML(t *testing.T) {
	_, err := enemy.LoadTemplateFromBytes([]byte("{not yaml"))
	assert.Error(t, err)
}

func TestTemplate_Validate(t *testing.T) {
	base := func() enemy.Template {
		return enemy.Template{
			ID: "x", Name: "X", MinLevel: 1, MaxLevel: 3,
			Tier: 1, SpawnWeight: 1, BaseHP: 10, BaseAtk: 5, BaseDef: 1, Accuracy: 0.5,
		}
	}

	tests := []struct {
		name   string
		mutate func(*enemy.Template)
	}{
		{"empty id", func(t *enemy.Template) { t.ID = "" }},
		{"empty name", func(t *enemy.Template) { t.Name = "" }},
		{"min level zero", func(t *enemy.Template) { t.MinLevel = 0 }},
		{"max below min", func(t *enemy.Template) { t.MaxLevel = 0 }},
		{"tier zero", func(t *enemy.Template) { t.Tier = 0 }},
		{"negative weight", func(t *enemy.Template) { t.SpawnWeight = -1 }},
		{"zero hp", func(t *enemy.Template) { t.BaseHP = 0 }},
		{"negative atk", func(t *enemy.Template) { t.BaseAtk = -1 }},
		{"accuracy above one", func(t *enemy.Template) { t.Accuracy = 1.5 }},
	}

	valid := base()
	assert.NoError(t, valid.Validate())

	for _, tc := range tests {
		tmpl := base()
		tc.mutate(&tmpl)
		assert.Error(t, tmpl.Validate(), tc.name)
	}
}

func TestTemplate_ScaledStats(t *testing.T) {
	tmpl := enemy.Template{BaseHP: 20, BaseAtk: 8, BaseDef: 2, Tier: 3}
	hp, atk, def := tmpl.ScaledStats()
	assert.Equal(t, 60, hp)
	assert.Equal(t, 24.0, atk)
	assert.Equal(t, 6.0, def)
}

func TestTemplate_EligibleAt(t *testing.T) {
	tmpl := enemy.Template{LocationType: "sewer", MinLevel: 2, MaxLevel: 5}
	assert.True(t, tmpl.EligibleAt("sewer", 3))
	assert.False(t, tmpl.EligibleAt("forest", 3))
	assert.False(t, tmpl.EligibleAt("sewer", 1))
	assert.False(t, tmpl.EligibleAt("sewer", 6))

	// Universal templates live under the empty pool key only; the selector,
	// not the eligibility check, handles the fallback.
	universal := enemy.Template{MinLevel: 1, MaxLevel: 10}
	assert.False(t, universal.EligibleAt("anywhere", 5))
	assert.True(t, universal.EligibleAt("", 5))
}

func TestLoadTemplates_Dir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rat.yaml"), []byte(validTemplateYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	templates, err := enemy.LoadTemplates(dir)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "sewer-rat", templates[0].ID)
}

func TestLoadTemplates_InvalidFileFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("id: ''\n"), 0o644))

	_, err := enemy.LoadTemplates(dir)
	assert.Error(t, err)
}
