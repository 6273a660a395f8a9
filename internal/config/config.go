// Package config provides Viper-based configuration loading for the dice roller.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// DiceConfig holds formula evaluation settings.
type DiceConfig struct {
	// Seed seeds the generator; 0 acquires a seed from OS entropy at startup.
	Seed uint64 `mapstructure:"seed"`
	// MaxDice caps the number of dice a single formula may expand to.
	MaxDice int `mapstructure:"max_dice"`
	// Color enables ANSI colors in console output.
	Color bool `mapstructure:"color"`
}

// StatsConfig holds Monte-Carlo statistics settings.
type StatsConfig struct {
	Samples int `mapstructure:"samples"`
	Workers int `mapstructure:"workers"`
}

// PresetsConfig points at an optional preset file.
type PresetsConfig struct {
	File string `mapstructure:"file"`
}

// ScriptingConfig holds Lua macro settings.
type ScriptingConfig struct {
	// InstructionLimit is the opcode budget per script; 0 uses the scripting default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Dice      DiceConfig      `mapstructure:"dice"`
	Stats     StatsConfig     `mapstructure:"stats"`
	Presets   PresetsConfig   `mapstructure:"presets"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
}

// MaxWorkers bounds stats.workers.
const MaxWorkers = 256

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Dice.MaxDice < 1 {
		errs = append(errs, fmt.Sprintf("dice.max_dice must be >= 1, got %d", c.Dice.MaxDice))
	}
	if err := validateStats(c.Stats); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Scripting.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("scripting.instruction_limit must be >= 0, got %d", c.Scripting.InstructionLimit))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
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

func validateStats(s StatsConfig) error {
	var errs []string
	if s.Samples < 1 {
		errs = append(errs, fmt.Sprintf("stats.samples must be >= 1, got %d", s.Samples))
	}
	if s.Workers < 1 || s.Workers > MaxWorkers {
		errs = append(errs, fmt.Sprintf("stats.workers must be 1-%d, got %d", MaxWorkers, s.Workers))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path skips the file and uses
// defaults plus environment.
//
// Precondition: path is empty or names a readable YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with DICE_ prefix
	v.SetEnvPrefix("DICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
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

// Defaults returns the configuration used when no file or environment
// overrides are present.
func Defaults() Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := LoadFromViper(v)
	if err != nil {
		panic("config: defaults are invalid: " + err.Error())
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")

	v.SetDefault("dice.seed", 0)
	v.SetDefault("dice.max_dice", 10000)
	v.SetDefault("dice.color", true)

	v.SetDefault("stats.samples", 100000)
	v.SetDefault("stats.workers", 4)

	v.SetDefault("presets.file", "")

	v.SetDefault("scripting.instruction_limit", 100000)
}
