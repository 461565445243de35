package validator

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/playtest/internal/config"
	"github.com/derekprior/playtest/internal/excel"
	"github.com/derekprior/playtest/internal/game"
)

// Violation represents a problem found in a schedule workbook.
type Violation struct {
	Row     int
	Type    string // "error" or "warning"
	Message string
}

// Validate reads a schedule workbook and checks it against the config.
func Validate(cfg *config.Config, path string) ([]Violation, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	rows, unassigned, err := excel.ReadSchedule(f, cfg)
	if err != nil {
		return nil, fmt.Errorf("reading schedule: %w", err)
	}

	return Check(cfg, rows, unassigned), nil
}

// Check runs every rule against parsed schedule rows.
func Check(cfg *config.Config, rows []excel.Row, unassigned []excel.UnassignedRow) []Violation {
	games := make(map[int]game.Game)
	for _, g := range cfg.GameList() {
		games[g.ID] = g
	}

	var violations []Violation

	violations = append(violations, checkKnownGames(games, rows, unassigned)...)
	violations = append(violations, checkSlotLabels(rows)...)
	violations = append(violations, checkRosterBounds(games, rows)...)
	violations = append(violations, checkCreatorFirst(games, rows)...)
	violations = append(violations, checkDoubleBooking(rows)...)
	violations = append(violations, checkDualBooking(games, rows)...)
	violations = append(violations, checkConservation(cfg.GameList(), rows, unassigned)...)

	violations = append(violations, checkUnknownStudents(cfg, games, rows)...)
	violations = append(violations, checkUnassigned(games, unassigned)...)

	sort.SliceStable(violations, func(i, j int) bool {
		return violations[i].Type == "error" && violations[j].Type != "error"
	})
	return violations
}

func checkKnownGames(games map[int]game.Game, rows []excel.Row, unassigned []excel.UnassignedRow) []Violation {
	var violations []Violation
	for _, r := range rows {
		if _, ok := games[r.ID]; !ok {
			violations = append(violations, Violation{
				Row:     r.Row,
				Type:    "error",
				Message: fmt.Sprintf("row %d: game ID %d (%s) is not in the config", r.Row, r.ID, r.Game),
			})
		}
	}
	for _, u := range unassigned {
		if _, ok := games[u.ID]; !ok {
			violations = append(violations, Violation{
				Row:     u.Row,
				Type:    "error",
				Message: fmt.Sprintf("unassigned row %d: game ID %d (%s) is not in the config", u.Row, u.ID, u.Game),
			})
		}
	}
	return violations
}

func checkSlotLabels(rows []excel.Row) []Violation {
	var violations []Violation
	for _, r := range rows {
		if r.Slot < 0 {
			violations = append(violations, Violation{
				Row:     r.Row,
				Type:    "error",
				Message: fmt.Sprintf("row %d: %s is in an unknown slot", r.Row, r.Game),
			})
		}
	}
	return violations
}

func checkRosterBounds(games map[int]game.Game, rows []excel.Row) []Violation {
	var violations []Violation
	for _, r := range rows {
		g, ok := games[r.ID]
		if !ok {
			continue
		}
		if n := len(r.Players); n < g.MinPlayers || n > g.MaxPlayers {
			violations = append(violations, Violation{
				Row:  r.Row,
				Type: "error",
				Message: fmt.Sprintf("row %d: %s has %d players (needs %d-%d)",
					r.Row, g.Name, n, g.MinPlayers, g.MaxPlayers),
			})
		}
	}
	return violations
}

func checkCreatorFirst(games map[int]game.Game, rows []excel.Row) []Violation {
	var violations []Violation
	for _, r := range rows {
		g, ok := games[r.ID]
		if !ok {
			continue
		}
		if len(r.Players) == 0 || r.Players[0] != g.Creator {
			violations = append(violations, Violation{
				Row:     r.Row,
				Type:    "error",
				Message: fmt.Sprintf("row %d: %s must list its creator %s first", r.Row, g.Name, g.Creator),
			})
			continue
		}
		if slices.Contains(r.Players[1:], g.Creator) {
			violations = append(violations, Violation{
				Row:     r.Row,
				Type:    "error",
				Message: fmt.Sprintf("row %d: creator %s is listed twice in %s", r.Row, g.Creator, g.Name),
			})
		}
	}
	return violations
}

func checkDoubleBooking(rows []excel.Row) []Violation {
	type slotStudent struct {
		slot    int
		student string
	}
	seen := make(map[slotStudent]excel.Row)

	var violations []Violation
	for _, r := range rows {
		if r.Slot < 0 {
			continue
		}
		for _, p := range r.Players {
			key := slotStudent{r.Slot, p}
			if prev, ok := seen[key]; ok && prev.Row != r.Row {
				violations = append(violations, Violation{
					Row:  r.Row,
					Type: "error",
					Message: fmt.Sprintf("%s is booked into both %s (row %d) and %s (row %d) in the same slot",
						p, prev.Game, prev.Row, r.Game, r.Row),
				})
				continue
			}
			seen[key] = r
		}
	}
	return violations
}

func checkDualBooking(games map[int]game.Game, rows []excel.Row) []Violation {
	bySlot := make(map[int]map[int]excel.Row)
	for _, r := range rows {
		if r.Slot < 0 {
			continue
		}
		if bySlot[r.ID] == nil {
			bySlot[r.ID] = make(map[int]excel.Row)
		}
		bySlot[r.ID][r.Slot] = r
	}

	var violations []Violation
	for id, slots := range bySlot {
		if len(slots) < 2 {
			continue
		}
		first, second := slots[0], slots[1]
		if g, ok := games[id]; ok && !g.IsLong() {
			violations = append(violations, Violation{
				Row:  second.Row,
				Type: "error",
				Message: fmt.Sprintf("%s runs %d minutes but is booked into both slots (only games over %d minutes may be)",
					g.Name, g.Duration, game.LongGameMinutes),
			})
		}
		if !slices.Equal(first.Players, second.Players) {
			violations = append(violations, Violation{
				Row:  second.Row,
				Type: "error",
				Message: fmt.Sprintf("%s has different players in each slot: %s vs %s",
					first.Game, strings.Join(first.Players, ", "), strings.Join(second.Players, ", ")),
			})
		}
	}
	sort.Slice(violations, func(i, j int) bool {
		return violations[i].Row < violations[j].Row
	})
	return violations
}

// checkConservation ensures every configured game is either scheduled or
// listed as unassigned, never both, and appears at most once per slot.
func checkConservation(games []game.Game, rows []excel.Row, unassigned []excel.UnassignedRow) []Violation {
	scheduled := make(map[int]int)
	perSlot := make(map[[2]int]int)
	for _, r := range rows {
		scheduled[r.ID]++
		perSlot[[2]int{r.ID, r.Slot}]++
	}
	listed := make(map[int]bool)
	for _, u := range unassigned {
		listed[u.ID] = true
	}

	var violations []Violation
	for _, g := range games {
		switch {
		case scheduled[g.ID] == 0 && !listed[g.ID]:
			violations = append(violations, Violation{
				Type:    "error",
				Message: fmt.Sprintf("%s (ID %d) is neither scheduled nor listed as unassigned", g.Name, g.ID),
			})
		case scheduled[g.ID] > 0 && listed[g.ID]:
			violations = append(violations, Violation{
				Type:    "error",
				Message: fmt.Sprintf("%s (ID %d) is scheduled but also listed as unassigned", g.Name, g.ID),
			})
		}
		for slot := 0; slot < len(config.DefaultSlotLabels); slot++ {
			if perSlot[[2]int{g.ID, slot}] > 1 {
				violations = append(violations, Violation{
					Type:    "error",
					Message: fmt.Sprintf("%s (ID %d) appears %d times in slot %d", g.Name, g.ID, perSlot[[2]int{g.ID, slot}], slot+1),
				})
			}
		}
	}
	return violations
}

func checkUnknownStudents(cfg *config.Config, games map[int]game.Game, rows []excel.Row) []Violation {
	roster := make(map[string]bool)
	for _, s := range cfg.Roster() {
		roster[s] = true
	}

	var violations []Violation
	for _, r := range rows {
		creator := ""
		if g, ok := games[r.ID]; ok {
			creator = g.Creator
		}
		for _, p := range r.Players {
			if roster[p] || p == creator {
				continue
			}
			violations = append(violations, Violation{
				Row:     r.Row,
				Type:    "warning",
				Message: fmt.Sprintf("row %d: %s in %s is not on the student roster", r.Row, p, r.Game),
			})
		}
	}
	return violations
}

func checkUnassigned(games map[int]game.Game, unassigned []excel.UnassignedRow) []Violation {
	var violations []Violation
	for _, u := range unassigned {
		g, ok := games[u.ID]
		if !ok {
			continue
		}
		violations = append(violations, Violation{
			Row:  u.Row,
			Type: "warning",
			Message: fmt.Sprintf("%s by %s could not be scheduled (needs %d-%d players)",
				g.Name, g.Creator, g.MinPlayers, g.MaxPlayers),
		})
	}
	return violations
}
