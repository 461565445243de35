package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/derekprior/playtest/internal/config"
	"github.com/derekprior/playtest/internal/excel"
	"github.com/derekprior/playtest/internal/logging"
	"github.com/derekprior/playtest/internal/schedule"
	"github.com/derekprior/playtest/internal/validator"
)

const defaultConfigFile = "config.yaml"

// resolveConfigPath prefers --config, then ./config.yaml.
func resolveConfigPath(configFlag string) (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	if _, err := os.Stat(defaultConfigFile); err != nil {
		return "", fmt.Errorf("no %s here; run `playtest init` to create one or point --config at your session file", defaultConfigFile)
	}
	return defaultConfigFile, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "playtest",
		Short: "Assign playtest games to two time slots and pick their players",
	}

	var verbose bool
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log why each game landed where it did")

	rootCmd.AddCommand(newInitCmd(), newScheduleCmd(&verbose))
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newInitCmd() *cobra.Command {
	var outputPath string
	cmd := &cobra.Command{
		Use:          "init",
		Short:        "Write a sample session file with students and games to fill in",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(outputPath)
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", defaultConfigFile, "Where to write the session file")
	return cmd
}

func newScheduleCmd(verbose *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Build a session workbook or check an edited one",
	}

	var configFile string
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "Session file with students and games (falls back to ./config.yaml)")

	var outputFile string
	var seed int64
	generateCmd := &cobra.Command{
		Use:          "generate",
		Short:        "Place every game into a slot and write the workbook",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runGenerate(configPath, outputFile, seed, *verbose)
		},
	}
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "schedule.xlsx", "Workbook to write")
	generateCmd.Flags().Int64Var(&seed, "seed", 0, "Seed for drawing players; reuse it to reproduce a schedule (0 uses the clock)")

	validateCmd := &cobra.Command{
		Use:          "validate <schedule.xlsx>",
		Short:        "Check an edited workbook for double-booked students and roster mistakes",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runValidate(configPath, args[0])
		},
	}

	cmd.AddCommand(generateCmd, validateCmd)
	return cmd
}

func runInit(outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use -o to write elsewhere", outputPath)
	}

	if err := os.WriteFile(outputPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("✓ Created %s\n", outputPath)
	return nil
}

const configTemplate = `# Playtest Session Configuration
# ==============================
# Games are scheduled into two time slots, in the order listed below.
# Earlier games pick their players first, so list the games that matter
# most at the top.

# Students available to play, separated by commas.
students: "John, Jane, Alice, Bob, Carol, Dave, Erin, Frank"

# Optional display names for the two slots.
slots: ["Slot 1", "Slot 2"]

# Each game is run by its creator, who always plays and is never drawn
# from the student pool for their own game.
#
# Games longer than 60 minutes are booked into both slots with the same
# players when enough students are free in both. Otherwise they fall back
# to a single slot like any other game.
games:
  - name: Dragon Dice
    creator: John
    duration: 30        # minutes
    min_players: 2      # including the creator
    max_players: 4
  - name: Castle Siege
    creator: Jane
    duration: 90
    min_players: 3
    max_players: 5
`

func runGenerate(configPath, outputPath string, seed int64, verbose bool) error {
	logger := logging.Setup(verbose, nil)

	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Debug().Int64("seed", seed).Str("config", configPath).Msg("generating schedule")

	roster := cfg.Roster()
	games := cfg.GameList()
	fmt.Printf("Scheduling %d games for %d students into %d slots...\n", len(games), len(roster), schedule.NumSlots)

	result := schedule.Schedule(roster, games,
		schedule.WithRand(rand.New(rand.NewSource(seed))),
		schedule.WithLogger(logger),
	)

	labels := cfg.SlotLabels()
	for i, slot := range result.Slots {
		fmt.Printf("\n%s:\n", labels[i])
		if len(slot.Games) == 0 {
			fmt.Println("  No games scheduled")
			continue
		}
		for _, g := range slot.Games {
			perHour := "n/a"
			if plays, ok := g.PlaysPerHour(); ok {
				perHour = fmt.Sprintf("%d", plays)
			}
			fmt.Printf("  %-20s by %-12s %3d min, %s plays/hour\n", g.Name, g.Creator, g.Duration, perHour)
			fmt.Printf("    Players: %s\n", strings.Join(g.Players, ", "))
		}
	}

	fmt.Println("\nPer Student:")
	fmt.Printf("  %-15s %-20s %-20s\n", "Student", labels[0], labels[1])
	studentGames := result.StudentGames(roster)
	seen := make(map[string]bool)
	for _, s := range roster {
		if seen[s] {
			continue
		}
		seen[s] = true
		g := studentGames[s]
		fmt.Printf("  %-15s %-20s %-20s\n", s, g[0], g[1])
	}

	if len(result.Unassigned) > 0 {
		fmt.Printf("\nUnassigned games (%d):\n", len(result.Unassigned))
		for _, g := range result.Unassigned {
			fmt.Printf("  ⚠ %s by %s (needs %d-%d players)\n", g.Name, g.Creator, g.MinPlayers, g.MaxPlayers)
		}
	} else {
		fmt.Printf("\n✓ All %d games scheduled\n", len(games))
	}

	f, err := excel.Generate(cfg, result)
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}

	fmt.Printf("\n✓ Schedule saved to %s\n", outputPath)
	logger.Info().Str("run_id", result.RunID).Int64("seed", seed).Str("output", outputPath).Msg("schedule written")
	if len(result.Unassigned) > 0 {
		return fmt.Errorf("schedule is incomplete: %d of %d games scheduled", result.Scheduled(), len(games))
	}
	return nil
}

func runValidate(configPath, schedulePath string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	violations, err := validator.Validate(cfg, schedulePath)
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	errors := 0
	warnings := 0
	for _, v := range violations {
		switch v.Type {
		case "error":
			errors++
			fmt.Printf("✗ Rule violation: %s\n", v.Message)
		case "warning":
			warnings++
			fmt.Printf("⚠ Warning: %s\n", v.Message)
		}
	}

	fmt.Printf("\nValidation complete: %d rule violations, %d warnings\n", errors, warnings)

	// Regenerate the student view from the (possibly edited) schedule sheet
	if err := excel.UpdateStudentSheet(schedulePath, cfg); err != nil {
		return fmt.Errorf("updating student sheet: %w", err)
	}
	fmt.Printf("✓ Student sheet updated in %s\n", schedulePath)

	if errors > 0 {
		return fmt.Errorf("%d rule violations found", errors)
	}
	return nil
}
