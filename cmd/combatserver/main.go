// Package main provides the combat server binary: it loads enemy and loot
// content, wires the combat engine to a session store, and runs the
// background session sweeper.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dialstrike/internal/config"
	"github.com/cory-johannsen/dialstrike/internal/game/combat"
	"github.com/cory-johannsen/dialstrike/internal/game/enemy"
	"github.com/cory-johannsen/dialstrike/internal/game/loot"
	"github.com/cory-johannsen/dialstrike/internal/game/rng"
	"github.com/cory-johannsen/dialstrike/internal/game/session"
	"github.com/cory-johannsen/dialstrike/internal/observability"
	"github.com/cory-johannsen/dialstrike/internal/server"
	"github.com/cory-johannsen/dialstrike/internal/storage/postgres"
)

// baselineStatsProvider serves a flat stat snapshot for every player. The
// real deployment substitutes the character service here.
type baselineStatsProvider struct {
	stats combat.Stats
}

func (p *baselineStatsProvider) Stats(context.Context, string) (combat.Stats, error) {
	return p.stats, nil
}

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	enemiesDir := flag.String("enemies-dir", "", "override for the enemy template YAML directory")
	lootDir := flag.String("loot-dir", "", "override for the loot table YAML directory")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *enemiesDir != "" {
		cfg.Content.EnemiesDir = *enemiesDir
	}
	if *lootDir != "" {
		cfg.Content.LootDir = *lootDir
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting combat server",
		zap.Duration("session_ttl", cfg.Session.TTL),
		zap.Bool("database", cfg.Database.Enabled),
	)

	// Load content
	contentStart := time.Now()
	templates, err := enemy.LoadTemplates(cfg.Content.EnemiesDir)
	if err != nil {
		logger.Fatal("loading enemy templates", zap.Error(err))
	}
	tables, err := loot.LoadTables(cfg.Content.LootDir)
	if err != nil {
		logger.Fatal("loading loot tables", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("enemy_templates", len(templates)),
		zap.Int("loot_tables", len(tables)),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	src := rng.NewCryptoSource()

	// Pick the session store and enemy catalog backends.
	var store combat.SessionStore
	var sweeper server.SessionSweeper
	var catalog enemy.Catalog
	if cfg.Database.Enabled {
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)

		pgCatalog := postgres.NewEnemyCatalog(pool.DB())
		for _, tmpl := range templates {
			if err := pgCatalog.Upsert(ctx, tmpl); err != nil {
				logger.Fatal("syncing enemy template",
					zap.String("template", tmpl.ID),
					zap.Error(err),
				)
			}
		}

		pgStore := postgres.NewSessionStore(pool.DB(), cfg.Session.TTL)
		store, sweeper, catalog = pgStore, pgStore, pgCatalog
	} else {
		memStore := session.NewMemoryStore(cfg.Session.TTL)
		store, sweeper, catalog = memStore, memStore, enemy.NewMemoryCatalog(templates)
	}

	selector := enemy.NewPoolSelector(catalog, src)
	lootGen := loot.NewTableGenerator(tables, src)
	stats := &baselineStatsProvider{
		stats: combat.Stats{MaxHP: 100, Atk: 50, Def: 20, Accuracy: 0.75},
	}

	engine := combat.NewEngine(
		store,
		selector,
		stats,
		lootGen,
		src,
		cfg.Combat.DefendMitigation.Table(),
		cfg.Session.StorageRetries,
		logger,
	)
	lc := server.NewLifecycle(logger)
	lc.Add("session-sweeper", server.NewSweeper(sweeper, cfg.Session.SweepInterval, logger))
	lc.Add("console", newConsoleRunner(engine, os.Stdin, os.Stdout))

	logger.Info("combat server ready", zap.Duration("startup", time.Since(start)))

	if err := lc.Run(ctx); err != nil {
		logger.Fatal("lifecycle error", zap.Error(err))
	}
}
