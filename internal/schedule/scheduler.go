package schedule

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/derekprior/playtest/internal/game"
)

// Result is the output of the scheduling process.
type Result struct {
	RunID      string
	Slots      [NumSlots]Slot
	Unassigned []game.Game
}

// Scheduled returns the number of distinct games placed in at least one slot.
func (r *Result) Scheduled() int {
	seen := make(map[int]bool)
	for _, slot := range r.Slots {
		for _, g := range slot.Games {
			seen[g.ID] = true
		}
	}
	return len(seen)
}

// StudentGames maps each student to the game name they play in each slot.
// Students with no game in a slot have an empty string there.
func (r *Result) StudentGames(roster []string) map[string][NumSlots]string {
	games := make(map[string][NumSlots]string)
	for _, student := range roster {
		games[student] = [NumSlots]string{}
	}
	for i, slot := range r.Slots {
		for _, g := range slot.Games {
			for _, p := range g.Players {
				entry := games[p]
				entry[i] = g.Name
				games[p] = entry
			}
		}
	}
	return games
}

// Option configures a scheduling run.
type Option func(*scheduler)

// WithRand sets the random source used to draw players.
func WithRand(rng Rand) Option {
	return func(s *scheduler) { s.rng = rng }
}

// WithLogger sets the logger that receives per-game decisions.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *scheduler) { s.log = logger }
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(s *scheduler) { s.runID = id }
}

// Schedule places each game, in order, into one slot, both slots, or the
// unassigned list. Earlier games claim students first.
func Schedule(roster []string, games []game.Game, opts ...Option) *Result {
	s := newScheduler(roster, opts...)
	s.log.Debug().Int("students", len(roster)).Int("games", len(games)).Msg("scheduling started")

	for _, g := range games {
		s.place(g)
	}

	res := s.result()
	s.log.Debug().
		Int("scheduled", res.Scheduled()).
		Int("unassigned", len(res.Unassigned)).
		Msg("scheduling finished")
	return res
}

type scheduler struct {
	roster []string
	rng    Rand
	log    zerolog.Logger
	runID  string

	slots      [NumSlots]*slotState
	unassigned []game.Game
}

func newScheduler(roster []string, opts ...Option) *scheduler {
	s := &scheduler{
		roster: roster,
		log:    zerolog.Nop(),
	}
	for i := range s.slots {
		s.slots[i] = newSlotState()
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.runID == "" {
		s.runID = uuid.NewString()
	}
	s.log = s.log.With().Str("run_id", s.runID).Logger()
	return s
}

// place decides the outcome for a single game. Exactly one of dual-booking,
// the emptier slot, the other slot, or unassigned happens.
func (s *scheduler) place(g game.Game) {
	log := s.log.With().Int("game_id", g.ID).Str("game", g.Name).Str("creator", g.Creator).Logger()

	if !g.ValidCapacity() {
		log.Warn().Int("min_players", g.MinPlayers).Int("max_players", g.MaxPlayers).
			Msg("invalid player bounds, leaving unassigned")
		s.unassigned = append(s.unassigned, g)
		return
	}

	minNeed, maxNeed := g.Needed()
	var pools [NumSlots][]string
	for i, slot := range s.slots {
		pools[i] = slot.pool(s.roster, g.Creator)
	}

	if g.IsLong() && s.creatorFree(g, 0) && s.creatorFree(g, 1) {
		shared := intersect(pools[0], pools[1])
		picked := draw(s.rng, shared, maxNeed)
		if len(picked) >= minNeed {
			sg := newScheduledGame(g, picked)
			for _, slot := range s.slots {
				slot.commit(sg)
			}
			log.Debug().Strs("players", sg.Players).Msg("dual-booked across both slots")
			return
		}
		log.Debug().Int("free_in_both", len(shared)).Int("need", minNeed).
			Msg("not enough students free in both slots")
	}

	target := s.emptierSlot()
	for _, idx := range []int{target, 1 - target} {
		if !s.creatorFree(g, idx) {
			continue
		}
		picked := draw(s.rng, pools[idx], maxNeed)
		if len(picked) < minNeed {
			continue
		}
		sg := newScheduledGame(g, picked)
		s.slots[idx].commit(sg)
		ev := log.Debug().Int("slot", idx).Strs("players", sg.Players)
		if idx == target {
			ev.Msg("placed")
		} else {
			ev.Msg("placed in fallback slot")
		}
		return
	}

	log.Debug().Int("need", minNeed).
		Int("free_slot_0", len(pools[0])).
		Int("free_slot_1", len(pools[1])).
		Msg("unassigned")
	s.unassigned = append(s.unassigned, g)
}

// emptierSlot returns the slot holding fewer games; ties favor slot 0.
func (s *scheduler) emptierSlot() int {
	if len(s.slots[0].games) <= len(s.slots[1].games) {
		return 0
	}
	return 1
}

// creatorFree reports whether the creator has not already been committed to
// slot idx by an earlier game.
func (s *scheduler) creatorFree(g game.Game, idx int) bool {
	return !s.slots[idx].busy(g.Creator)
}

func (s *scheduler) result() *Result {
	res := &Result{RunID: s.runID, Unassigned: s.unassigned}
	for i, slot := range s.slots {
		res.Slots[i] = Slot{Index: i, Games: slot.games}
	}
	return res
}

func newScheduledGame(g game.Game, drawn []string) ScheduledGame {
	players := make([]string, 0, len(drawn)+1)
	players = append(players, g.Creator)
	players = append(players, drawn...)
	return ScheduledGame{Game: g, Players: players}
}
