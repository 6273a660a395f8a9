package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Dice: DiceConfig{
			Seed:    42,
			MaxDice: 10000,
			Color:   true,
		},
		Stats: StatsConfig{
			Samples: 1000,
			Workers: 4,
		},
		Scripting: ScriptingConfig{
			InstructionLimit: 100000,
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, uint64(0), cfg.Dice.Seed)
	assert.Equal(t, 10000, cfg.Dice.MaxDice)
	assert.True(t, cfg.Dice.Color)
	assert.Equal(t, 100000, cfg.Stats.Samples)
	assert.Equal(t, 4, cfg.Stats.Workers)
	assert.Equal(t, "", cfg.Presets.File)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
logging:
  level: debug
  format: json
dice:
  seed: 1234
  max_dice: 50
  color: false
stats:
  samples: 500
  workers: 2
presets:
  file: presets.yaml
scripting:
  instruction_limit: 10
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, uint64(1234), cfg.Dice.Seed)
	assert.Equal(t, 50, cfg.Dice.MaxDice)
	assert.False(t, cfg.Dice.Color)
	assert.Equal(t, 500, cfg.Stats.Samples)
	assert.Equal(t, 2, cfg.Stats.Workers)
	assert.Equal(t, "presets.yaml", cfg.Presets.File)
	assert.Equal(t, 10, cfg.Scripting.InstructionLimit)
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DICE_STATS_WORKERS", "8")
	t.Setenv("DICE_DICE_SEED", "99")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Stats.Workers)
	assert.Equal(t, uint64(99), cfg.Dice.Seed)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestLoadInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stats:\n  workers: 0\n"), 0644))
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stats.workers")
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := validConfig()
		cfg.Logging.Format = format
		assert.NoError(t, cfg.Validate(), "format %q should be valid", format)
	}
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateMaxDice(t *testing.T) {
	cfg := validConfig()
	cfg.Dice.MaxDice = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateInstructionLimit(t *testing.T) {
	cfg := validConfig()
	cfg.Scripting.InstructionLimit = 0
	assert.NoError(t, cfg.Validate())
	cfg.Scripting.InstructionLimit = -1
	assert.Error(t, cfg.Validate())
}

func TestValidateReportsAllViolations(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "loud"
	cfg.Stats.Samples = 0
	cfg.Dice.MaxDice = -3
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
	assert.Contains(t, err.Error(), "stats.samples")
	assert.Contains(t, err.Error(), "dice.max_dice")
}

// Property-based tests

func TestPropertyValidWorkerRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		workers := rapid.IntRange(1, MaxWorkers).Draw(t, "workers")
		cfg := validConfig()
		cfg.Stats.Workers = workers
		if err := cfg.Validate(); err != nil {
			t.Fatalf("valid workers %d rejected: %v", workers, err)
		}
	})
}

func TestPropertyInvalidWorkerRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		workers := rapid.OneOf(
			rapid.IntRange(-1000, 0),
			rapid.IntRange(MaxWorkers+1, 10000),
		).Draw(t, "workers")
		cfg := validConfig()
		cfg.Stats.Workers = workers
		if err := cfg.Validate(); err == nil {
			t.Fatalf("invalid workers %d accepted", workers)
		}
	})
}

func TestPropertySamplesMustBePositive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		samples := rapid.IntRange(-1000, 1000).Draw(t, "samples")
		cfg := validConfig()
		cfg.Stats.Samples = samples
		err := cfg.Validate()
		if (samples >= 1) != (err == nil) {
			t.Fatalf("samples=%d validate err=%v", samples, err)
		}
	})
}
