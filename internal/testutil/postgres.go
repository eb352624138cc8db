// Package testutil provides test helpers including container management
// for integration tests.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cory-johannsen/dialstrike/internal/config"
	"github.com/cory-johannsen/dialstrike/internal/storage/postgres"
)

// integrationEnv gates container-backed tests so the unit suite stays
// runnable without Docker.
const integrationEnv = "DIALSTRIKE_INTEGRATION"

// RequireIntegration skips the test unless integration testing is enabled
// via the DIALSTRIKE_INTEGRATION environment variable.
func RequireIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv(integrationEnv) == "" {
		t.Skipf("set %s to run container-backed tests", integrationEnv)
	}
}

// PostgresContainer wraps a testcontainers PostgreSQL instance.
type PostgresContainer struct {
	container testcontainers.Container
	Pool      *postgres.Pool
	RawPool   *pgxpool.Pool
	Config    config.DatabaseConfig
}

// NewPostgresContainer starts a PostgreSQL test container and returns
// a connected Pool.
//
// Precondition: Docker must be available.
// Postcondition: Returns a running container with a connected pool,
// or fails the test.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()
	start := time.Now()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("starting postgres container: %v [%s]", err, time.Since(start))
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("getting container host: %v", err)
	}

	mappedPort, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("getting mapped port: %v", err)
	}

	dbCfg := config.DatabaseConfig{
		Enabled:         true,
		Host:            host,
		Port:            mappedPort.Int(),
		User:            "test",
		Password:        "test",
		Name:            "test",
		SSLMode:         "disable",
		MaxConns:        5,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
	}

	pool, err := postgres.NewPool(ctx, dbCfg)
	if err != nil {
		t.Fatalf("connecting to test postgres: %v [%s]", err, time.Since(start))
	}

	t.Logf("postgres container started [%s]", time.Since(start))

	pc := &PostgresContainer{
		container: container,
		Pool:      pool,
		RawPool:   pool.DB(),
		Config:    dbCfg,
	}

	t.Cleanup(func() {
		pool.Close()
		_ = container.Terminate(ctx)
	})

	return pc
}

// ApplySchema creates the combat tables directly for tests.
//
// Precondition: Pool must be connected.
// Postcondition: The combat_sessions and enemy_templates tables exist.
func (pc *PostgresContainer) ApplySchema(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	start := time.Now()

	schema := `
		CREATE TABLE IF NOT EXISTS combat_sessions (
			id              TEXT         PRIMARY KEY,
			player_id       TEXT         NOT NULL,
			location_id     TEXT         NOT NULL,
			combat_level    INT          NOT NULL,
			enemy_type_id   TEXT         NOT NULL,
			enemy_style_id  TEXT         NOT NULL DEFAULT '',
			enemy_tier      INT          NOT NULL,
			turn_number     INT          NOT NULL,
			player_hp       INT          NOT NULL,
			enemy_hp        INT          NOT NULL,
			max_player_hp   INT          NOT NULL,
			max_enemy_hp    INT          NOT NULL,
			player_atk      DOUBLE PRECISION NOT NULL,
			player_def      DOUBLE PRECISION NOT NULL,
			player_accuracy DOUBLE PRECISION NOT NULL,
			enemy_atk       DOUBLE PRECISION NOT NULL,
			enemy_def       DOUBLE PRECISION NOT NULL,
			enemy_accuracy  DOUBLE PRECISION NOT NULL,
			status          INT          NOT NULL,
			created_at      TIMESTAMPTZ  NOT NULL,
			last_touched_at TIMESTAMPTZ  NOT NULL,
			version         BIGINT       NOT NULL,
			expires_at      TIMESTAMPTZ  NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_combat_sessions_expires_at
			ON combat_sessions (expires_at);
		CREATE INDEX IF NOT EXISTS idx_combat_sessions_player_id
			ON combat_sessions (player_id);

		CREATE TABLE IF NOT EXISTS enemy_templates (
			id            TEXT         PRIMARY KEY,
			name          TEXT         NOT NULL,
			description   TEXT         NOT NULL DEFAULT '',
			style_id      TEXT         NOT NULL DEFAULT '',
			location_type TEXT         NOT NULL DEFAULT '',
			min_level     INT          NOT NULL,
			max_level     INT          NOT NULL,
			tier          INT          NOT NULL,
			spawn_weight  INT          NOT NULL,
			base_hp       INT          NOT NULL,
			base_atk      DOUBLE PRECISION NOT NULL,
			base_def      DOUBLE PRECISION NOT NULL,
			accuracy      DOUBLE PRECISION NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_enemy_templates_location_type
			ON enemy_templates (location_type, min_level, max_level);
	`

	_, err := pc.RawPool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("applying schema: %v", err)
	}
	t.Logf("schema applied [%s]", time.Since(start))
}
