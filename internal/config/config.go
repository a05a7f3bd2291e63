// Package config loads counterpunch settings from a YAML file and
// COUNTERPUNCH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/counterpunch/counterpunch-go/internal/game"
)

// EnvPrefix is prepended to every environment override, so engine.hit_pause
// becomes COUNTERPUNCH_ENGINE_HIT_PAUSE.
const EnvPrefix = "COUNTERPUNCH"

type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Arena   ArenaConfig   `mapstructure:"arena"`
	Feed    FeedConfig    `mapstructure:"feed"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EngineConfig holds the arbitration constants.
type EngineConfig struct {
	SpeedRoll          int           `mapstructure:"speed_roll"`
	GuardRoll          int           `mapstructure:"guard_roll"`
	AttackerSpeedBonus int           `mapstructure:"attacker_speed_bonus"`
	DefenderGuardBonus int           `mapstructure:"defender_guard_bonus"`
	HitPause           time.Duration `mapstructure:"hit_pause"`
}

type ArenaConfig struct {
	Width  int   `mapstructure:"width"`
	Height int   `mapstructure:"height"`
	Seed   int64 `mapstructure:"seed"`
}

// FeedConfig configures the websocket display feed.
type FeedConfig struct {
	Address           string        `mapstructure:"address"`
	BroadcastInterval time.Duration `mapstructure:"broadcast_interval"`
	StepInterval      time.Duration `mapstructure:"step_interval"`
}

func setDefaults(v *viper.Viper) {
	def := game.DefaultSettings()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("engine.speed_roll", def.SpeedRoll.Span())
	v.SetDefault("engine.guard_roll", def.GuardRoll.Span())
	v.SetDefault("engine.attacker_speed_bonus", def.AttackerSpeedBonus)
	v.SetDefault("engine.defender_guard_bonus", def.DefenderGuardBonus)
	v.SetDefault("engine.hit_pause", def.HitPause)

	v.SetDefault("arena.width", 12)
	v.SetDefault("arena.height", 12)
	v.SetDefault("arena.seed", 1)

	v.SetDefault("feed.address", ":8080")
	v.SetDefault("feed.broadcast_interval", 100*time.Millisecond)
	v.SetDefault("feed.step_interval", 250*time.Millisecond)
}

// Default returns the configuration used when no file or environment
// override is present.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		// defaults always validate
		panic(err)
	}
	return cfg
}

// Load reads the configuration at path. An empty path skips the file and
// uses defaults plus environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Engine.SpeedRoll < 0 {
		errs = append(errs, fmt.Errorf("engine.speed_roll must not be negative, got %d", c.Engine.SpeedRoll))
	}
	if c.Engine.GuardRoll < 0 {
		errs = append(errs, fmt.Errorf("engine.guard_roll must not be negative, got %d", c.Engine.GuardRoll))
	}
	if c.Engine.HitPause < 0 {
		errs = append(errs, fmt.Errorf("engine.hit_pause must not be negative, got %s", c.Engine.HitPause))
	}
	if c.Arena.Width <= 0 || c.Arena.Height <= 0 {
		errs = append(errs, fmt.Errorf("arena size must be positive, got %dx%d", c.Arena.Width, c.Arena.Height))
	}
	if c.Feed.BroadcastInterval <= 0 {
		errs = append(errs, fmt.Errorf("feed.broadcast_interval must be positive, got %s", c.Feed.BroadcastInterval))
	}
	if c.Feed.StepInterval <= 0 {
		errs = append(errs, fmt.Errorf("feed.step_interval must be positive, got %s", c.Feed.StepInterval))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}

// Settings converts the engine section into arbiter settings. The config
// must have been validated.
func (c EngineConfig) Settings() game.Settings {
	return game.Settings{
		SpeedRoll:          game.NewRoll(c.SpeedRoll),
		GuardRoll:          game.NewRoll(c.GuardRoll),
		AttackerSpeedBonus: c.AttackerSpeedBonus,
		DefenderGuardBonus: c.DefenderGuardBonus,
		HitPause:           c.HitPause,
	}
}
