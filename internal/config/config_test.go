package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

const testConfigYAML = `
students: "John, Jane, Alice, Bob, Carol,"

slots: ["Period 1", "Period 2"]

games:
  - name: Dragon Dice
    creator: John
    duration: 30
    min_players: 2
    max_players: 4
  - name: Castle Siege
    creator: Jane
    duration: 90
    min_players: 3
    max_players: 5
`

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(testConfigYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("roster", func(t *testing.T) {
		want := []string{"John", "Jane", "Alice", "Bob", "Carol"}
		if got := cfg.Roster(); !slices.Equal(got, want) {
			t.Errorf("roster = %q, want %q", got, want)
		}
	})

	t.Run("slot labels", func(t *testing.T) {
		want := []string{"Period 1", "Period 2"}
		if got := cfg.SlotLabels(); !slices.Equal(got, want) {
			t.Errorf("slot labels = %q, want %q", got, want)
		}
	})

	t.Run("games get sequential ids", func(t *testing.T) {
		games := cfg.GameList()
		if len(games) != 2 {
			t.Fatalf("games = %d, want 2", len(games))
		}
		for i, g := range games {
			if g.ID != i {
				t.Errorf("game %q id = %d, want %d", g.Name, g.ID, i)
			}
		}
	})

	t.Run("game fields", func(t *testing.T) {
		g := cfg.GameList()[1]
		if g.Name != "Castle Siege" || g.Creator != "Jane" {
			t.Errorf("game = %q by %q, want Castle Siege by Jane", g.Name, g.Creator)
		}
		if g.Duration != 90 || g.MinPlayers != 3 || g.MaxPlayers != 5 {
			t.Errorf("game numbers = %d/%d/%d, want 90/3/5", g.Duration, g.MinPlayers, g.MaxPlayers)
		}
		if !g.IsLong() {
			t.Error("90 minute game should be long")
		}
	})
}

func TestDefaultSlotLabels(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`students: "A, B"`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cfg.SlotLabels(); !slices.Equal(got, DefaultSlotLabels) {
		t.Errorf("slot labels = %q, want %q", got, DefaultSlotLabels)
	}
	if len(cfg.GameList()) != 0 {
		t.Errorf("games = %d, want 0", len(cfg.GameList()))
	}
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "missing name",
			yaml: `
games:
  - creator: John
    duration: 30
    min_players: 2
    max_players: 3
`,
			wantErr: "name is required",
		},
		{
			name: "missing creator",
			yaml: `
games:
  - name: Dragon Dice
    duration: 30
    min_players: 2
    max_players: 3
`,
			wantErr: "creator is required",
		},
		{
			name: "zero duration",
			yaml: `
games:
  - name: Dragon Dice
    creator: John
    duration: 0
    min_players: 2
    max_players: 3
`,
			wantErr: "duration must be positive",
		},
		{
			name: "min players below one",
			yaml: `
games:
  - name: Dragon Dice
    creator: John
    duration: 30
    min_players: 0
    max_players: 3
`,
			wantErr: "min_players must be at least 1",
		},
		{
			name: "max below min",
			yaml: `
games:
  - name: Dragon Dice
    creator: John
    duration: 30
    min_players: 4
    max_players: 3
`,
			wantErr: "less than min_players",
		},
		{
			name: "comma in creator",
			yaml: `
games:
  - name: Dragon Dice
    creator: "Smith, John"
    duration: 30
    min_players: 2
    max_players: 2
`,
			wantErr: `creator "Smith, John" must not contain a comma`,
		},
		{
			name: "comma in name",
			yaml: `
games:
  - name: "Dice, Dragons"
    creator: John
    duration: 30
    min_players: 2
    max_players: 2
`,
			wantErr: "name must not contain a comma",
		},
		{
			name:    "wrong slot count",
			yaml:    `slots: ["Morning"]`,
			wantErr: "exactly 2 slots",
		},
		{
			name:    "duplicate slot labels",
			yaml:    `slots: ["Morning", "Morning"]`,
			wantErr: "slot labels must differ",
		},
		{
			name: "non-numeric duration",
			yaml: `
games:
  - name: Dragon Dice
    creator: John
    duration: half an hour
    min_players: 2
    max_players: 3
`,
			wantErr: "parsing config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testConfigYAML), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if len(cfg.Games) != 2 {
		t.Errorf("games = %d, want 2", len(cfg.Games))
	}

	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
