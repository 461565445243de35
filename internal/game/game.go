package game

import "strings"

// LongGameMinutes is the duration above which a game spans both slots.
const LongGameMinutes = 60

// Game is a user-submitted activity waiting for a slot and players.
type Game struct {
	ID         int
	Name       string
	Creator    string
	Duration   int // minutes
	MinPlayers int
	MaxPlayers int
}

// IsLong reports whether the game runs long enough to occupy both slots.
func (g Game) IsLong() bool {
	return g.Duration > LongGameMinutes
}

// Needed returns how many students beyond the creator the game requires
// at minimum and accepts at most.
func (g Game) Needed() (min, max int) {
	return g.MinPlayers - 1, g.MaxPlayers - 1
}

// ValidCapacity reports whether the player bounds describe a game that
// could ever be scheduled.
func (g Game) ValidCapacity() bool {
	return g.MinPlayers >= 1 && g.MaxPlayers >= g.MinPlayers
}

// PlaysPerHour returns how many complete plays fit in an hour.
// ok is false when the duration is not positive.
func (g Game) PlaysPerHour() (plays int, ok bool) {
	if g.Duration <= 0 {
		return 0, false
	}
	return 60 / g.Duration, true
}

// ParseRoster splits comma separated student names, trimming whitespace.
// Blank entries are dropped; repeated names are kept.
func ParseRoster(text string) []string {
	var students []string
	for _, s := range strings.Split(text, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		students = append(students, s)
	}
	return students
}
