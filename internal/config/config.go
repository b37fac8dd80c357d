// Package config loads skirmish settings. Order: defaults -> YAML file ->
// SKIRMISH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"skirmish/internal/combat"
	"skirmish/internal/registry"
)

type Config struct {
	Env     EnvConfig     `yaml:"env"`
	Arena   ArenaConfig   `yaml:"arena"`
	Rogue   CombatantDef  `yaml:"rogue"`
	Fighter CombatantDef  `yaml:"fighter"`
	Episode EpisodeConfig `yaml:"episode"`
	Batch   BatchConfig   `yaml:"batch"`
	Logging LoggingConfig `yaml:"logging"`
	Store   StoreConfig   `yaml:"store"`
}

type EnvConfig struct {
	// ID selects a registered environment.
	ID string `yaml:"id"`
}

type ArenaConfig struct {
	Size       float64 `yaml:"size"`
	RenderMode string  `yaml:"render_mode"`
}

type EpisodeConfig struct {
	Seed   int64  `yaml:"seed"`
	Policy string `yaml:"policy"`
	// Script is the action cycle of the "script" policy.
	Script []string `yaml:"script"`
}

type BatchConfig struct {
	Runs    int `yaml:"runs"`
	Workers int `yaml:"workers"`
}

type LoggingConfig struct {
	// Level is "info", "debug" or "trace".
	Level string `yaml:"level"`
	// Events is a JSONL file receiving every combat event; empty disables it.
	Events string `yaml:"events"`
}

type StoreConfig struct {
	// Path of the SQLite episode database; empty disables recording.
	Path string `yaml:"path"`
}

func Default() *Config {
	return &Config{
		Env:     EnvConfig{ID: registry.SkirmishID},
		Arena:   ArenaConfig{Size: combat.DefaultArenaSize, RenderMode: string(combat.RenderNone)},
		Rogue:   fromProfile(combat.DefaultRogue()),
		Fighter: fromProfile(combat.DefaultFighter()),
		Episode: EpisodeConfig{Seed: 12345, Policy: "kite"},
		Batch:   BatchConfig{Runs: 100, Workers: 8},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path (when non-empty) over the defaults, then applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadYAML(path, cfg); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SKIRMISH_ENV_ID"); v != "" {
		c.Env.ID = v
	}
	if v := os.Getenv("SKIRMISH_ARENA_SIZE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("SKIRMISH_ARENA_SIZE: %w", err)
		}
		c.Arena.Size = f
	}
	if v := os.Getenv("SKIRMISH_RENDER_MODE"); v != "" {
		c.Arena.RenderMode = v
	}
	if v := os.Getenv("SKIRMISH_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("SKIRMISH_SEED: %w", err)
		}
		c.Episode.Seed = n
	}
	if v := os.Getenv("SKIRMISH_POLICY"); v != "" {
		c.Episode.Policy = v
	}
	if v := os.Getenv("SKIRMISH_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SKIRMISH_WORKERS: %w", err)
		}
		c.Batch.Workers = n
	}
	if v := os.Getenv("SKIRMISH_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SKIRMISH_STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Env.ID == "" {
		errs = append(errs, errors.New("env.id is required"))
	}
	if !combat.ValidArenaSize(c.Arena.Size) {
		errs = append(errs, fmt.Errorf("arena.size must be a finite positive number, got %v", c.Arena.Size))
	}
	if _, err := combat.ParseRenderMode(c.Arena.RenderMode); err != nil {
		errs = append(errs, fmt.Errorf("arena.render_mode: %w", err))
	}
	for name, d := range map[string]CombatantDef{"rogue": c.Rogue, "fighter": c.Fighter} {
		if d.MaxHealth <= 0 {
			errs = append(errs, fmt.Errorf("%s.max_health must be positive", name))
		}
		if d.Speed < 0 {
			errs = append(errs, fmt.Errorf("%s.speed must not be negative", name))
		}
	}
	if c.Fighter.Spawn != 0 {
		errs = append(errs, errors.New("fighter.spawn is drawn at reset and cannot be set"))
	}
	for _, s := range c.Episode.Script {
		if _, err := combat.ParseAction(s); err != nil {
			errs = append(errs, fmt.Errorf("episode.script: %w", err))
		}
	}
	if c.Batch.Runs < 0 || c.Batch.Workers < 0 {
		errs = append(errs, errors.New("batch.runs and batch.workers must not be negative"))
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "info", "debug", "trace":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not info, debug or trace", c.Logging.Level))
	}
	return errors.Join(errs...)
}

// EnvOptions converts the arena and combatant settings for environment construction.
func (c *Config) EnvOptions() combat.Options {
	return combat.Options{
		ArenaSize:  c.Arena.Size,
		RenderMode: c.Arena.RenderMode,
		Rogue:      c.Rogue.Profile(),
		Fighter:    c.Fighter.Profile(),
	}
}

// ScriptActions parses the script policy's actions. Validate has already
// rejected unknown names.
func (c *Config) ScriptActions() []combat.Action {
	out := make([]combat.Action, 0, len(c.Episode.Script))
	for _, s := range c.Episode.Script {
		a, err := combat.ParseAction(s)
		if err == nil {
			out = append(out, a)
		}
	}
	return out
}
