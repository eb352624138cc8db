package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/dialstrike/internal/game/enemy"
)

// EnemyCatalog is the enemy.Catalog backed by PostgreSQL. Templates with an
// empty location_type are the universal pool.
type EnemyCatalog struct {
	db *pgxpool.Pool
}

// NewEnemyCatalog creates an EnemyCatalog backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewEnemyCatalog(db *pgxpool.Pool) *EnemyCatalog {
	return &EnemyCatalog{db: db}
}

// ListEligible returns the templates whose location type matches exactly
// and whose level range includes combatLevel.
//
// Postcondition: Returns an empty slice, not an error, when nothing
// matches.
func (r *EnemyCatalog) ListEligible(ctx context.Context, locationType string, combatLevel int) ([]*enemy.Template, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, description, style_id, location_type,
		        min_level, max_level, tier, spawn_weight,
		        base_hp, base_atk, base_def, accuracy
		 FROM enemy_templates
		 WHERE location_type = $1 AND min_level <= $2 AND max_level >= $2`,
		locationType, combatLevel,
	)
	if err != nil {
		return nil, fmt.Errorf("querying enemy templates: %w", err)
	}
	defer rows.Close()

	var templates []*enemy.Template
	for rows.Next() {
		var t enemy.Template
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Description, &t.StyleID, &t.LocationType,
			&t.MinLevel, &t.MaxLevel, &t.Tier, &t.SpawnWeight,
			&t.BaseHP, &t.BaseAtk, &t.BaseDef, &t.Accuracy,
		); err != nil {
			return nil, fmt.Errorf("scanning enemy template: %w", err)
		}
		templates = append(templates, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating enemy templates: %w", err)
	}
	return templates, nil
}

// Upsert inserts or replaces an enemy template by ID. Used by the content
// importer to sync the YAML template files into the database.
//
// Precondition: t must have passed Validate().
func (r *EnemyCatalog) Upsert(ctx context.Context, t *enemy.Template) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO enemy_templates
		   (id, name, description, style_id, location_type,
		    min_level, max_level, tier, spawn_weight,
		    base_hp, base_atk, base_def, accuracy)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name,
		   description = EXCLUDED.description,
		   style_id = EXCLUDED.style_id,
		   location_type = EXCLUDED.location_type,
		   min_level = EXCLUDED.min_level,
		   max_level = EXCLUDED.max_level,
		   tier = EXCLUDED.tier,
		   spawn_weight = EXCLUDED.spawn_weight,
		   base_hp = EXCLUDED.base_hp,
		   base_atk = EXCLUDED.base_atk,
		   base_def = EXCLUDED.base_def,
		   accuracy = EXCLUDED.accuracy`,
		t.ID, t.Name, t.Description, t.StyleID, t.LocationType,
		t.MinLevel, t.MaxLevel, t.Tier, t.SpawnWeight,
		t.BaseHP, t.BaseAtk, t.BaseDef, t.Accuracy,
	)
	if err != nil {
		return fmt.Errorf("upserting enemy template: %w", err)
	}
	return nil
}

// Get fetches a single template by ID.
//
// Postcondition: Returns pgx.ErrNoRows wrapped when the ID is unknown.
func (r *EnemyCatalog) Get(ctx context.Context, id string) (*enemy.Template, error) {
	var t enemy.Template
	err := r.db.QueryRow(ctx,
		`SELECT id, name, description, style_id, location_type,
		        min_level, max_level, tier, spawn_weight,
		        base_hp, base_atk, base_def, accuracy
		 FROM enemy_templates WHERE id = $1`,
		id,
	).Scan(
		&t.ID, &t.Name, &t.Description, &t.StyleID, &t.LocationType,
		&t.MinLevel, &t.MaxLevel, &t.Tier, &t.SpawnWeight,
		&t.BaseHP, &t.BaseAtk, &t.BaseDef, &t.Accuracy,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("enemy template %q: %w", id, err)
		}
		return nil, fmt.Errorf("querying enemy template: %w", err)
	}
	return &t, nil
}
