// Package config provides Viper-based configuration loading for the combat
// server.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/dialstrike/internal/game/damage"
)

// DatabaseConfig holds PostgreSQL connection settings. When Enabled is
// false the server runs with the in-memory session store and the
// YAML-backed enemy catalog only.
type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// SessionConfig holds combat session lifecycle settings.
type SessionConfig struct {
	// TTL is the sliding inactivity window after which an untouched
	// session expires.
	TTL time.Duration `mapstructure:"ttl"`
	// StorageRetries is how many extra attempts the engine makes against
	// the session store after a transient failure or version conflict.
	StorageRetries int `mapstructure:"storage_retries"`
	// SweepInterval is how often the background sweeper reaps expired
	// sessions.
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// CombatConfig holds dial-resolution tuning.
type CombatConfig struct {
	// DefendMitigation maps defend zones to the fraction of incoming
	// damage absorbed. Injure may be negative to amplify the hit.
	DefendMitigation MitigationConfig `mapstructure:"defend_mitigation"`
}

// MitigationConfig mirrors damage.MitigationTable for YAML binding.
type MitigationConfig struct {
	Injure float64 `mapstructure:"injure"`
	Miss   float64 `mapstructure:"miss"`
	Graze  float64 `mapstructure:"graze"`
	Normal float64 `mapstructure:"normal"`
	Crit   float64 `mapstructure:"crit"`
}

// Table converts the configured fractions to a damage.MitigationTable.
func (m MitigationConfig) Table() damage.MitigationTable {
	return damage.MitigationTable{
		Injure: m.Injure,
		Miss:   m.Miss,
		Graze:  m.Graze,
		Normal: m.Normal,
		Crit:   m.Crit,
	}
}

// ContentConfig holds paths to the YAML content directories.
type ContentConfig struct {
	// EnemiesDir contains one YAML file per enemy template.
	EnemiesDir string `mapstructure:"enemies_dir"`
	// LootDir contains one YAML loot table per enemy type.
	LootDir string `mapstructure:"loot_dir"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	Combat   CombatConfig   `mapstructure:"combat"`
	Content  ContentConfig  `mapstructure:"content"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateDatabase(c.Database); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSession(c.Session); err != nil {
		errs = append(errs, err.Error())
	}
	if err := c.Combat.DefendMitigation.Table().Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	if !d.Enabled {
		return nil
	}
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateSession(s SessionConfig) error {
	var errs []string
	if s.TTL <= 0 {
		errs = append(errs, fmt.Sprintf("session.ttl must be positive, got %v", s.TTL))
	}
	if s.StorageRetries < 0 {
		errs = append(errs, fmt.Sprintf("session.storage_retries must be >= 0, got %d", s.StorageRetries))
	}
	if s.SweepInterval <= 0 {
		errs = append(errs, fmt.Sprintf("session.sweep_interval must be positive, got %v", s.SweepInterval))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.EnemiesDir == "" {
		errs = append(errs, "content.enemies_dir must not be empty")
	}
	if c.LootDir == "" {
		errs = append(errs, "content.loot_dir must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with DIALSTRIKE_ prefix
	v.SetEnvPrefix("DIALSTRIKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "dialstrike")
	v.SetDefault("database.password", "dialstrike")
	v.SetDefault("database.name", "dialstrike")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("session.ttl", "15m")
	v.SetDefault("session.storage_retries", 3)
	v.SetDefault("session.sweep_interval", "1m")

	v.SetDefault("combat.defend_mitigation.injure", -0.5)
	v.SetDefault("combat.defend_mitigation.miss", 0.0)
	v.SetDefault("combat.defend_mitigation.graze", 0.4)
	v.SetDefault("combat.defend_mitigation.normal", 0.7)
	v.SetDefault("combat.defend_mitigation.crit", 0.9)

	v.SetDefault("content.enemies_dir", "content/enemies")
	v.SetDefault("content.loot_dir", "content/loot")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
