// Package config holds match configuration: JSON file, environment
// overrides and .env loading.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/talgya/hex-tactics/internal/turn"
	"github.com/talgya/hex-tactics/internal/world"
)

var ErrInvalidConfig = errors.New("invalid config")

// Match configures one match.
type Match struct {
	// Grid
	Radius    int     `json:"radius"`
	TileSize  float64 `json:"tile_size"` // presentation only
	Seed      int64   `json:"seed"`      // 0 = random
	Generator string  `json:"generator"` // "layered" or "simple"

	// Rules
	Players               int    `json:"players"`
	MaxTurns              string `json:"max_turns"` // preset name or number
	UnitsPerPlayer        int    `json:"units_per_player"`
	MovementBudget        int    `json:"movement_budget"`
	KeepSelectedAfterMove bool   `json:"keep_selected_after_move"`

	// Ambient
	JournalPath string `json:"journal_path,omitempty"`
	LogLevel    string `json:"log_level,omitempty"`
}

// Default returns the configuration of a standard two-player match.
func Default() Match {
	return Match{
		Radius:                12,
		TileSize:              1.0,
		Generator:             "layered",
		Players:               2,
		MaxTurns:              "normal",
		UnitsPerPlayer:        3,
		MovementBudget:        4,
		KeepSelectedAfterMove: true,
		LogLevel:              "info",
	}
}

// SmallTest returns a small deterministic configuration for tests.
func SmallTest() Match {
	m := Default()
	m.Radius = 4
	m.Seed = 42
	m.MaxTurns = "3"
	m.UnitsPerPlayer = 2
	m.MovementBudget = 3
	return m
}

// Load reads a JSON config file over the defaults.
func Load(path string) (Match, error) {
	m := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parse config %s: %w", path, err)
	}
	return m, m.Validate()
}

// LoadEnvFile loads .env files into the process environment. Missing files
// are not an error.
func LoadEnvFile(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	slog.Debug("loaded environment from .env")
	return nil
}

// ApplyEnv overrides fields from TACTICS_* environment variables.
func (m *Match) ApplyEnv() error {
	var errs []error
	envInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}

	envInt("TACTICS_RADIUS", &m.Radius)
	envInt("TACTICS_PLAYERS", &m.Players)
	envInt("TACTICS_UNITS", &m.UnitsPerPlayer)
	envInt("TACTICS_BUDGET", &m.MovementBudget)

	if v := os.Getenv("TACTICS_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("TACTICS_SEED: %w", err))
		} else {
			m.Seed = n
		}
	}
	if v := os.Getenv("TACTICS_KEEP_SELECTED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("TACTICS_KEEP_SELECTED: %w", err))
		} else {
			m.KeepSelectedAfterMove = b
		}
	}
	if v := os.Getenv("TACTICS_MAX_TURNS"); v != "" {
		m.MaxTurns = v
	}
	if v := os.Getenv("TACTICS_GENERATOR"); v != "" {
		m.Generator = v
	}
	if v := os.Getenv("TACTICS_JOURNAL"); v != "" {
		m.JournalPath = v
	}
	if v := os.Getenv("TACTICS_LOG_LEVEL"); v != "" {
		m.LogLevel = v
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Validate checks every field and reports all problems at once.
func (m Match) Validate() error {
	var problems []string
	if m.Radius < 1 {
		problems = append(problems, fmt.Sprintf("radius must be positive, got %d", m.Radius))
	}
	if m.TileSize < 0 {
		problems = append(problems, "tile_size must not be negative")
	}
	if m.Players < 1 {
		problems = append(problems, fmt.Sprintf("players must be at least 1, got %d", m.Players))
	}
	if m.UnitsPerPlayer < 0 {
		problems = append(problems, "units_per_player must not be negative")
	}
	if m.MovementBudget < 1 {
		problems = append(problems, fmt.Sprintf("movement_budget must be positive, got %d", m.MovementBudget))
	}
	if _, err := m.GenMode(); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := m.MaxTurnCount(); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := m.SlogLevel(); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// MaxTurnCount resolves MaxTurns to a number; turn.Unbounded disables the
// limit.
func (m Match) MaxTurnCount() (int, error) {
	return turn.ParseMaxTurns(m.MaxTurns)
}

// GenMode resolves the generator name.
func (m Match) GenMode() (world.GenMode, error) {
	switch strings.ToLower(m.Generator) {
	case "", "layered":
		return world.GenLayered, nil
	case "simple":
		return world.GenSimple, nil
	}
	return 0, fmt.Errorf("unknown generator %q", m.Generator)
}

// GenConfig returns the grid generation settings.
func (m Match) GenConfig() world.GenConfig {
	cfg := world.DefaultGenConfig()
	cfg.Radius = m.Radius
	cfg.Seed = m.Seed
	if mode, err := m.GenMode(); err == nil {
		cfg.Mode = mode
	}
	return cfg
}

// SlogLevel parses LogLevel.
func (m Match) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if m.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(m.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}
