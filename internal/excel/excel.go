package excel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/playtest/internal/config"
	"github.com/derekprior/playtest/internal/game"
	"github.com/derekprior/playtest/internal/schedule"
)

const (
	ScheduleSheet   = "Schedule"
	UnassignedSheet = "Unassigned"
	StudentsSheet   = "Students"
)

var (
	scheduleHeaders   = []string{"ID", "Slot", "Game", "Creator", "Duration", "Plays/Hour", "Players"}
	unassignedHeaders = []string{"ID", "Game", "Creator", "Min Players", "Max Players"}
)

// Row is a single game entry on the Schedule sheet. A game booked into both
// slots has one row per slot.
type Row struct {
	Row      int // 1-based sheet row
	ID       int
	Slot     int // 0-based; -1 if the label is not a configured slot
	Game     string
	Creator  string
	Duration int
	Players  []string
}

// UnassignedRow is a single entry on the Unassigned sheet.
type UnassignedRow struct {
	Row        int
	ID         int
	Game       string
	Creator    string
	MinPlayers int
	MaxPlayers int
}

// Generate creates a workbook with the schedule, unassigned games, and a
// per-student view.
func Generate(cfg *config.Config, result *schedule.Result) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetDefaultFont("Arial")

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:      "Playtest Schedule",
		Creator:    "playtest",
		Identifier: result.RunID,
	}); err != nil {
		return nil, fmt.Errorf("setting document properties: %w", err)
	}

	rows := rowsFromResult(result)

	if err := writeScheduleSheet(f, cfg, rows); err != nil {
		return nil, fmt.Errorf("writing schedule sheet: %w", err)
	}
	if err := writeUnassignedSheet(f, result.Unassigned); err != nil {
		return nil, fmt.Errorf("writing unassigned sheet: %w", err)
	}
	if err := writeStudentSheet(f, cfg, rows); err != nil {
		return nil, fmt.Errorf("writing students sheet: %w", err)
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

func rowsFromResult(result *schedule.Result) []Row {
	var rows []Row
	for _, slot := range result.Slots {
		for _, g := range slot.Games {
			rows = append(rows, Row{
				Row:      len(rows) + 2,
				ID:       g.ID,
				Slot:     slot.Index,
				Game:     g.Name,
				Creator:  g.Creator,
				Duration: g.Duration,
				Players:  g.Players,
			})
		}
	}
	return rows
}

func writeScheduleSheet(f *excelize.File, cfg *config.Config, rows []Row) error {
	sheet := ScheduleSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	writeHeaders(f, sheet, scheduleHeaders)

	labels := cfg.SlotLabels()
	for _, r := range rows {
		g := game.Game{Duration: r.Duration}
		f.SetCellValue(sheet, cellRef(1, r.Row), r.ID)
		f.SetCellValue(sheet, cellRef(2, r.Row), labels[r.Slot])
		f.SetCellValue(sheet, cellRef(3, r.Row), r.Game)
		f.SetCellValue(sheet, cellRef(4, r.Row), r.Creator)
		f.SetCellValue(sheet, cellRef(5, r.Row), r.Duration)
		if plays, ok := g.PlaysPerHour(); ok {
			f.SetCellValue(sheet, cellRef(6, r.Row), plays)
		}
		f.SetCellValue(sheet, cellRef(7, r.Row), strings.Join(r.Players, ", "))
	}
	styleBody(f, sheet, len(scheduleHeaders), len(rows))

	widths := map[string]float64{"A": 6, "B": 14, "C": 28, "D": 18, "E": 12, "F": 12, "G": 60}
	for col, w := range widths {
		f.SetColWidth(sheet, col, col, w)
	}

	// Long games span both slots; tint their duration so dual-booked rows stand out.
	if len(rows) > 0 {
		longFill, _ := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#FFEB9C"}},
			Font: &excelize.Font{Size: 12, Family: "Arial"},
		})
		cellRange := fmt.Sprintf("E2:E%d", len(rows)+1)
		f.SetConditionalFormat(sheet, cellRange, []excelize.ConditionalFormatOptions{
			{
				Type:     "cell",
				Criteria: ">",
				Value:    strconv.Itoa(game.LongGameMinutes),
				Format:   &longFill,
			},
		})
	}

	return nil
}

func writeUnassignedSheet(f *excelize.File, games []game.Game) error {
	sheet := UnassignedSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	writeHeaders(f, sheet, unassignedHeaders)

	for i, g := range games {
		row := i + 2
		f.SetCellValue(sheet, cellRef(1, row), g.ID)
		f.SetCellValue(sheet, cellRef(2, row), g.Name)
		f.SetCellValue(sheet, cellRef(3, row), g.Creator)
		f.SetCellValue(sheet, cellRef(4, row), g.MinPlayers)
		f.SetCellValue(sheet, cellRef(5, row), g.MaxPlayers)
	}
	styleBody(f, sheet, len(unassignedHeaders), len(games))

	widths := map[string]float64{"A": 6, "B": 28, "C": 18, "D": 14, "E": 14}
	for col, w := range widths {
		f.SetColWidth(sheet, col, col, w)
	}
	return nil
}

// writeStudentSheet lists every roster student, plus any creator not on the
// roster, with the game they play in each slot.
func writeStudentSheet(f *excelize.File, cfg *config.Config, rows []Row) error {
	sheet := StudentsSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	labels := cfg.SlotLabels()
	headers := append([]string{"Student"}, labels...)
	writeHeaders(f, sheet, headers)

	var students []string
	seen := make(map[string]bool)
	addStudent := func(s string) {
		if !seen[s] {
			seen[s] = true
			students = append(students, s)
		}
	}
	for _, s := range cfg.Roster() {
		addStudent(s)
	}

	games := make(map[string][]string)
	for _, r := range rows {
		if r.Slot < 0 || r.Slot >= len(labels) {
			continue
		}
		for _, p := range r.Players {
			addStudent(p)
			if games[p] == nil {
				games[p] = make([]string, len(labels))
			}
			if games[p][r.Slot] != "" {
				games[p][r.Slot] += "; "
			}
			games[p][r.Slot] += r.Game
		}
	}

	for i, s := range students {
		row := i + 2
		f.SetCellValue(sheet, cellRef(1, row), s)
		for slot, name := range games[s] {
			if name == "" {
				continue
			}
			f.SetCellValue(sheet, cellRef(slot+2, row), name)
		}
	}
	styleBody(f, sheet, len(headers), len(students))

	f.SetColWidth(sheet, "A", "A", 20)
	f.SetColWidth(sheet, "B", colLetter(len(headers)), 28)
	return nil
}

// ReadSchedule parses the Schedule and Unassigned sheets. Rows without a
// numeric ID are skipped.
func ReadSchedule(f *excelize.File, cfg *config.Config) ([]Row, []UnassignedRow, error) {
	sheetRows, err := f.GetRows(ScheduleSheet)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", ScheduleSheet, err)
	}
	if len(sheetRows) == 0 {
		return nil, nil, fmt.Errorf("%s is empty", ScheduleSheet)
	}

	slotIndex := make(map[string]int)
	for i, label := range cfg.SlotLabels() {
		slotIndex[label] = i
	}

	var rows []Row
	for i, cells := range sheetRows {
		if i == 0 || len(cells) < 4 {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(cells[0]))
		if err != nil {
			continue
		}
		slot, ok := slotIndex[strings.TrimSpace(cells[1])]
		if !ok {
			slot = -1
		}
		r := Row{
			Row:     i + 1,
			ID:      id,
			Slot:    slot,
			Game:    cells[2],
			Creator: strings.TrimSpace(cells[3]),
		}
		if len(cells) > 4 {
			r.Duration, _ = strconv.Atoi(strings.TrimSpace(cells[4]))
		}
		if len(cells) > 6 {
			r.Players = game.ParseRoster(cells[6])
		}
		rows = append(rows, r)
	}

	unassigned, err := readUnassigned(f)
	if err != nil {
		return nil, nil, err
	}
	return rows, unassigned, nil
}

func readUnassigned(f *excelize.File) ([]UnassignedRow, error) {
	sheetRows, err := f.GetRows(UnassignedSheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", UnassignedSheet, err)
	}

	var rows []UnassignedRow
	for i, cells := range sheetRows {
		if i == 0 || len(cells) < 3 {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(cells[0]))
		if err != nil {
			continue
		}
		r := UnassignedRow{Row: i + 1, ID: id, Game: cells[1], Creator: strings.TrimSpace(cells[2])}
		if len(cells) > 4 {
			r.MinPlayers, _ = strconv.Atoi(strings.TrimSpace(cells[3]))
			r.MaxPlayers, _ = strconv.Atoi(strings.TrimSpace(cells[4]))
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// UpdateStudentSheet rebuilds the Students sheet from the Schedule sheet so
// hand edits to rosters are reflected, then saves the file in place.
func UpdateStudentSheet(path string, cfg *config.Config) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	rows, _, err := ReadSchedule(f, cfg)
	if err != nil {
		return err
	}

	if idx, _ := f.GetSheetIndex(StudentsSheet); idx >= 0 {
		if err := f.DeleteSheet(StudentsSheet); err != nil {
			return fmt.Errorf("removing %s: %w", StudentsSheet, err)
		}
	}
	if err := writeStudentSheet(f, cfg, rows); err != nil {
		return fmt.Errorf("writing students sheet: %w", err)
	}
	return f.Save()
}

func writeHeaders(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, 1), h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 12, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if headerStyle != 0 {
		f.SetCellStyle(sheet, cellRef(1, 1), cellRef(len(headers), 1), headerStyle)
	}
}

func styleBody(f *excelize.File, sheet string, cols, rows int) {
	if rows == 0 {
		return
	}
	cellStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 12, Family: "Arial"},
	})
	if cellStyle != 0 {
		f.SetCellStyle(sheet, cellRef(1, 2), cellRef(cols, rows+1), cellStyle)
	}
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colLetter(col), row)
}

func colLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
