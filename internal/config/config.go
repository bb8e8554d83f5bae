// Package config provides Viper-based configuration loading for the simulation server.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	// Enabled turns on actor snapshot persistence.
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

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// SimulationConfig controls the fixed-step tick loop and content locations.
type SimulationConfig struct {
	// TickInterval is the wall-clock period of one simulation tick.
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// AbilitiesDir holds ability category YAML files.
	AbilitiesDir string `mapstructure:"abilities_dir"`
	// ConditionsDir holds condition definition YAML files.
	ConditionsDir string `mapstructure:"conditions_dir"`
	// ActorsDir holds actor template YAML files spawned at startup.
	ActorsDir string `mapstructure:"actors_dir"`
	// Seed fixes the dice source; 0 selects crypto/rand.
	Seed uint64 `mapstructure:"seed"`
	// SnapshotInterval is how often actor snapshots are persisted; 0 disables.
	SnapshotInterval time.Duration `mapstructure:"snapshot_interval"`
}

// CombatConfig holds the tunable combat constants.
type CombatConfig struct {
	// MinActivationLock is the floor, in seconds, of every ability lock.
	MinActivationLock float64 `mapstructure:"min_activation_lock"`
	// LearnCapRatio is the fraction of a category's capacity an actor may learn.
	LearnCapRatio float64 `mapstructure:"learn_cap_ratio"`
	// CurrencyReward is granted for a learn attempt beyond the cap.
	CurrencyReward int `mapstructure:"currency_reward"`
	// StaggerDuration is the stagger recovery time in seconds.
	StaggerDuration float64 `mapstructure:"stagger_duration"`
	// KnockdownDuration is the knockdown recovery time in seconds.
	KnockdownDuration float64 `mapstructure:"knockdown_duration"`
}

// ScriptingConfig holds Lua scripting settings.
type ScriptingConfig struct {
	// Dir holds *.lua effect scripts; empty disables scripting.
	Dir string `mapstructure:"dir"`
	// InstructionLimit bounds the VM opcodes one hook call may execute.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// HealthConfig holds the gRPC health listener settings.
type HealthConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (h HealthConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Combat     CombatConfig     `mapstructure:"combat"`
	Scripting  ScriptingConfig  `mapstructure:"scripting"`
	Health     HealthConfig     `mapstructure:"health"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	for _, err := range []error{
		validateLogging(c.Logging),
		validateDatabase(c.Database),
		validateSimulation(c.Simulation),
		validateCombat(c.Combat),
		validateScripting(c.Scripting),
		validateHealth(c.Health),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
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
	return joined(errs)
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.TickInterval <= 0 {
		errs = append(errs, fmt.Sprintf("simulation.tick_interval must be > 0, got %s", s.TickInterval))
	}
	if s.AbilitiesDir == "" {
		errs = append(errs, "simulation.abilities_dir must not be empty")
	}
	if s.ConditionsDir == "" {
		errs = append(errs, "simulation.conditions_dir must not be empty")
	}
	if s.SnapshotInterval < 0 {
		errs = append(errs, "simulation.snapshot_interval must not be negative")
	}
	return joined(errs)
}

func validateCombat(c CombatConfig) error {
	var errs []string
	if c.MinActivationLock <= 0 {
		errs = append(errs, fmt.Sprintf("combat.min_activation_lock must be > 0, got %v", c.MinActivationLock))
	}
	if c.LearnCapRatio <= 0 || c.LearnCapRatio > 1 {
		errs = append(errs, fmt.Sprintf("combat.learn_cap_ratio must be in (0, 1], got %v", c.LearnCapRatio))
	}
	if c.CurrencyReward < 0 {
		errs = append(errs, fmt.Sprintf("combat.currency_reward must be >= 0, got %d", c.CurrencyReward))
	}
	if c.StaggerDuration < 0 || c.KnockdownDuration < 0 {
		errs = append(errs, "combat stagger and knockdown durations must not be negative")
	}
	return joined(errs)
}

func validateScripting(s ScriptingConfig) error {
	if s.Dir != "" && s.InstructionLimit < 0 {
		return fmt.Errorf("scripting.instruction_limit must be >= 0, got %d", s.InstructionLimit)
	}
	return nil
}

func validateHealth(h HealthConfig) error {
	var errs []string
	if h.Host == "" {
		errs = append(errs, "health.host must not be empty")
	}
	if h.Port < 1 || h.Port > 65535 {
		errs = append(errs, fmt.Sprintf("health.port must be 1-65535, got %d", h.Port))
	}
	return joined(errs)
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

func joined(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%s", strings.Join(errs, "; "))
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with SKIRMISH_ prefix
	v.SetEnvPrefix("SKIRMISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
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

// Defaults returns a viper instance holding only the built-in defaults.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "skirmish")
	v.SetDefault("database.password", "skirmish")
	v.SetDefault("database.name", "skirmish")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("simulation.tick_interval", "50ms")
	v.SetDefault("simulation.abilities_dir", "content/abilities")
	v.SetDefault("simulation.conditions_dir", "content/conditions")
	v.SetDefault("simulation.actors_dir", "content/actors")
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.snapshot_interval", "30s")

	v.SetDefault("combat.min_activation_lock", 0.05)
	v.SetDefault("combat.learn_cap_ratio", 0.4)
	v.SetDefault("combat.currency_reward", 50)
	v.SetDefault("combat.stagger_duration", 1.0)
	v.SetDefault("combat.knockdown_duration", 2.5)

	v.SetDefault("scripting.dir", "content/scripts")
	v.SetDefault("scripting.instruction_limit", 100000)

	v.SetDefault("health.host", "0.0.0.0")
	v.SetDefault("health.port", 50051)
}
