package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/haldorsen/watchlens/internal/config"
	"github.com/haldorsen/watchlens/internal/database"
	"github.com/haldorsen/watchlens/internal/pipeline"
	"github.com/haldorsen/watchlens/internal/temporal"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
	logger     zerolog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "watchlens",
	Short:   "Personal watch-history analytics",
	Long:    "Watchlens ingests a watch-history export and derives temporal, session, content, and interest statistics from it.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(verbose)

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if !verbose {
			logger = logger.Level(parseLevel(cfg.Logging.Level))
		}
		return nil
	},
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func parseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(interestsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("watchlens", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/watchlens/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to point input.dir at your watch-history export.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show results database and system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Printf("Input directory: %s\n\n", cfg.Input.Dir)
		fmt.Println("Runs:")
		fmt.Printf("  Total: %d\n", stats.TotalRuns)

		last, err := db.GetLastRun()
		if err != nil {
			return err
		}
		if last != nil {
			ranAt := ""
			if last.RunAt != nil {
				ranAt = *last.RunAt
			}
			fmt.Printf("\nLast run (%s):\n", ranAt)
			fmt.Printf("  Files ingested: %d\n", last.Files)
			fmt.Printf("  Records: %d\n", last.Records)
			fmt.Printf("  Duplicates removed: %d\n", last.DuplicatesRemoved)
			fmt.Printf("  Sessions: %d (%d binge)\n", last.Sessions, last.BingeSessions)

			if categories, err := db.GetRunCategories(last.ID); err == nil && len(categories) > 0 {
				fmt.Println("\n  Categories:")
				for _, c := range categories {
					fmt.Printf("    %s: %d\n", c.Label, c.Count)
				}
			}
			if scored, err := db.GetRunInterests(last.ID); err == nil && len(scored) > 0 {
				fmt.Println("\n  Interests:")
				for _, i := range scored {
					fmt.Printf("    %s: %d\n", i.Label, i.Count)
				}
			}
		}

		fmt.Println("\nInterests:")
		fmt.Printf("  Total: %d\n", stats.TotalInterests)
		fmt.Printf("  Active: %d\n", stats.ActiveInterests)
		return nil
	},
}

// --- run command ---

var (
	dryRun   bool
	inputDir string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: ingest -> dedupe -> temporal -> sessions -> content -> interests",
	RunE: func(cmd *cobra.Command, args []string) error {
		if inputDir != "" {
			cfg.Input.Dir = inputDir
		}
		if cfg.Input.Dir == "" {
			return fmt.Errorf("no input directory configured; set input.dir or pass --input")
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		pipe := pipeline.New(cfg, db, logger)

		var result *pipeline.Result
		if dryRun {
			result = pipe.DryRun()
		} else {
			result = pipe.Run()
		}

		for i, step := range result.Steps {
			fmt.Printf("\nStep %d/%d: %s\n", i+1, len(result.Steps), step.Name)
			if step.Err != nil {
				fmt.Printf("  Error: %v\n", step.Err)
			} else {
				fmt.Printf("  %s\n", step.Summary)
			}
		}

		if !dryRun {
			printAnalysis(result)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without executing")
	runCmd.Flags().StringVarP(&inputDir, "input", "i", "", "Override the export directory")
}

func printAnalysis(result *pipeline.Result) {
	if result.Temporal != nil {
		t := result.Temporal
		fmt.Println("\nViewing patterns:")
		fmt.Printf("  Peak hour: %02d:00\n", t.PeakHour)
		fmt.Printf("  Peak day: %s\n", temporal.WeekdayName(t.PeakWeekday))
		fmt.Printf("  Averages: %.1f/day, %.1f/week, %.1f/month\n", t.DailyAvg, t.WeeklyAvg, t.MonthlyAvg)
	}

	if len(result.TopChannels) > 0 {
		fmt.Println("\nTop channels:")
		for _, ch := range result.TopChannels {
			fmt.Printf("  %s: %d\n", ch.Channel, ch.Count)
		}
	}

	if len(result.CategoryCounts) > 0 {
		fmt.Println("\nCategories:")
		printSortedCounts(result.CategoryCounts)
	}

	if len(result.InterestCounts) > 0 {
		fmt.Println("\nInterests:")
		printSortedCounts(result.InterestCounts)
	}
}

// printSortedCounts prints a label->count map sorted by count descending,
// label ascending on ties.
func printSortedCounts(counts map[string]int) {
	type kv struct {
		key string
		val int
	}
	var sorted []kv
	for k, v := range counts {
		sorted = append(sorted, kv{k, v})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].val != sorted[j].val {
			return sorted[i].val > sorted[j].val
		}
		return sorted[i].key < sorted[j].key
	})
	for _, s := range sorted {
		fmt.Printf("  %s: %d\n", s.key, s.val)
	}
}

// --- interests command ---

var interestsCmd = &cobra.Command{
	Use:   "interests",
	Short: "Manage interest keyword sets",
}

var interestsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored interests",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		items, err := db.GetAllInterests()
		if err != nil {
			return err
		}

		if len(items) == 0 {
			fmt.Println("No stored interests. Add one with: watchlens interests add")
			return nil
		}

		fmt.Println("Interests:")
		fmt.Println()
		for _, i := range items {
			icon := " "
			if i.IsActive {
				icon = "*"
			}
			fmt.Printf("  [%d] %s %s\n", i.ID, icon, i.Name)
			if len(i.Keywords) > 0 {
				fmt.Printf("        keywords: %s\n", strings.Join(i.Keywords, ", "))
			}
		}
		return nil
	},
}

var interestsAddCmd = &cobra.Command{
	Use:   "add [name] [keywords]",
	Short: "Add an interest with comma-separated keywords",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		name := args[0]
		var keywords []string
		for _, kw := range strings.Split(args[1], ",") {
			kw = strings.TrimSpace(strings.ToLower(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}
		if len(keywords) == 0 {
			return fmt.Errorf("no keywords given")
		}

		id, err := db.InsertInterest(name, keywords)
		if err != nil {
			return err
		}
		fmt.Printf("Added interest [%d]: %s (%s)\n", id, name, strings.Join(keywords, ", "))
		return nil
	},
}

var interestsRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove an interest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid interest ID: %s", args[0])
		}

		interest, err := db.GetInterest(id)
		if err != nil {
			return err
		}
		if interest == nil {
			return fmt.Errorf("interest %d not found", id)
		}

		if err := db.DeleteInterest(id); err != nil {
			return err
		}
		fmt.Printf("Removed interest [%d]: %s\n", id, interest.Name)
		return nil
	},
}

var interestsToggleCmd = &cobra.Command{
	Use:   "toggle [id]",
	Short: "Toggle an interest's active state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid interest ID: %s", args[0])
		}

		interest, err := db.GetInterest(id)
		if err != nil {
			return err
		}
		if interest == nil {
			return fmt.Errorf("interest %d not found", id)
		}

		if err := db.ToggleInterest(id); err != nil {
			return err
		}
		newState := "disabled"
		if !interest.IsActive {
			newState = "enabled"
		}
		fmt.Printf("Interest [%d] %s: %s\n", id, interest.Name, newState)
		return nil
	},
}

func init() {
	interestsCmd.AddCommand(interestsListCmd)
	interestsCmd.AddCommand(interestsAddCmd)
	interestsCmd.AddCommand(interestsRemoveCmd)
	interestsCmd.AddCommand(interestsToggleCmd)
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "watchlens.db")
	return database.Open(dbPath)
}
