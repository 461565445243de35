package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/derekprior/playtest/internal/game"
)

// DefaultSlotLabels are used when the config does not name the slots.
var DefaultSlotLabels = []string{"Slot 1", "Slot 2"}

// GameEntry is a single game as written in the config file.
type GameEntry struct {
	Name       string `yaml:"name"`
	Creator    string `yaml:"creator"`
	Duration   int    `yaml:"duration"`
	MinPlayers int    `yaml:"min_players"`
	MaxPlayers int    `yaml:"max_players"`
}

// Config is the roster, slot names, and games for one scheduling run.
type Config struct {
	Students string      `yaml:"students"`
	Slots    []string    `yaml:"slots"`
	Games    []GameEntry `yaml:"games"`
}

// Roster returns the trimmed student names from the comma separated list.
func (c *Config) Roster() []string {
	return game.ParseRoster(c.Students)
}

// GameList returns the configured games in file order with sequential IDs.
func (c *Config) GameList() []game.Game {
	games := make([]game.Game, 0, len(c.Games))
	for i, e := range c.Games {
		games = append(games, game.Game{
			ID:         i,
			Name:       e.Name,
			Creator:    e.Creator,
			Duration:   e.Duration,
			MinPlayers: e.MinPlayers,
			MaxPlayers: e.MaxPlayers,
		})
	}
	return games
}

// SlotLabels returns the display name of each slot.
func (c *Config) SlotLabels() []string {
	if len(c.Slots) == 0 {
		return DefaultSlotLabels
	}
	return c.Slots
}

// LoadFromBytes parses YAML bytes into a Config and validates it.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromBytes(data)
}

func (c *Config) validate() error {
	if len(c.Slots) != 0 && len(c.Slots) != len(DefaultSlotLabels) {
		return fmt.Errorf("slots must name exactly %d slots, got %d", len(DefaultSlotLabels), len(c.Slots))
	}
	if len(c.Slots) == 2 && c.Slots[0] == c.Slots[1] {
		return fmt.Errorf("slot labels must differ, both are %q", c.Slots[0])
	}

	for i, g := range c.Games {
		label := fmt.Sprintf("game %d", i+1)
		if g.Name != "" {
			label = fmt.Sprintf("game %q", g.Name)
		}
		if g.Name == "" {
			return fmt.Errorf("%s: name is required", label)
		}
		if g.Creator == "" {
			return fmt.Errorf("%s: creator is required", label)
		}
		// Player lists are comma separated, both in students and in the workbook.
		if strings.Contains(g.Name, ",") {
			return fmt.Errorf("%s: name must not contain a comma", label)
		}
		if strings.Contains(g.Creator, ",") {
			return fmt.Errorf("%s: creator %q must not contain a comma", label, g.Creator)
		}
		if g.Duration <= 0 {
			return fmt.Errorf("%s: duration must be positive, got %d", label, g.Duration)
		}
		if g.MinPlayers < 1 {
			return fmt.Errorf("%s: min_players must be at least 1, got %d", label, g.MinPlayers)
		}
		if g.MaxPlayers < g.MinPlayers {
			return fmt.Errorf("%s: max_players %d is less than min_players %d", label, g.MaxPlayers, g.MinPlayers)
		}
	}

	return nil
}
