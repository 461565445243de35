package schedule

import (
	"github.com/derekprior/playtest/internal/game"
)

// NumSlots is the number of time slots in every schedule.
const NumSlots = 2

// ScheduledGame is a game with its concrete roster. Players[0] is always
// the creator.
type ScheduledGame struct {
	game.Game
	Players []string
}

// Drawn returns the players selected from the pool, excluding the creator.
func (sg ScheduledGame) Drawn() []string {
	if len(sg.Players) == 0 {
		return nil
	}
	return sg.Players[1:]
}

// Slot is one time bucket of a finished schedule.
type Slot struct {
	Index int
	Games []ScheduledGame
}

// Players returns every student committed to the slot, in commit order.
func (s Slot) Players() []string {
	var players []string
	for _, g := range s.Games {
		players = append(players, g.Players...)
	}
	return players
}

// slotState accumulates a slot's games and committed students during a
// single run.
type slotState struct {
	games    []ScheduledGame
	assigned map[string]bool
}

func newSlotState() *slotState {
	return &slotState{assigned: make(map[string]bool)}
}

// pool returns roster entries still free in this slot, excluding creator.
// Duplicate roster entries stay independent.
func (s *slotState) pool(roster []string, creator string) []string {
	var free []string
	for _, student := range roster {
		if student == creator || s.assigned[student] {
			continue
		}
		free = append(free, student)
	}
	return free
}

func (s *slotState) busy(student string) bool {
	return s.assigned[student]
}

func (s *slotState) commit(sg ScheduledGame) {
	s.games = append(s.games, sg)
	for _, p := range sg.Players {
		s.assigned[p] = true
	}
}

// intersect keeps the entries of a that also appear in b, in a's order.
func intersect(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, s := range b {
		inB[s] = true
	}
	var both []string
	for _, s := range a {
		if inB[s] {
			both = append(both, s)
		}
	}
	return both
}
