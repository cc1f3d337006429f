package pipeline

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/haldorsen/watchlens/internal/config"
	"github.com/haldorsen/watchlens/internal/content"
	"github.com/haldorsen/watchlens/internal/database"
	"github.com/haldorsen/watchlens/internal/history"
	"github.com/haldorsen/watchlens/internal/ingest"
	"github.com/haldorsen/watchlens/internal/interests"
	"github.com/haldorsen/watchlens/internal/sessions"
	"github.com/haldorsen/watchlens/internal/temporal"
)

// StepResult holds the result of a single pipeline step.
type StepResult struct {
	Name    string
	Summary string
	Err     error
}

// TemporalSummary collects the calendar distributions and peaks derived
// from the canonical table.
type TemporalSummary struct {
	ByYear      map[int]int
	ByMonth     map[int]int
	ByWeekday   map[int]int
	ByHour      map[int]int
	PeakHour    int
	PeakWeekday int
	DailyAvg    float64
	WeeklyAvg   float64
	MonthlyAvg  float64
}

// Result holds the results of a full pipeline run. The analysis structures
// are the hand-off point for external renderers and exporters.
type Result struct {
	Steps          []StepResult
	Table          history.Table
	Ingest         *ingest.Result
	Duplicates     int
	Temporal       *TemporalSummary
	Sessions       *sessions.Result
	CategoryCounts map[string]int
	TopChannels    []content.ChannelCount
	InterestCounts map[string]int
}

// Pipeline orchestrates the 6-step watch-history analysis pipeline.
// Stages run strictly in sequence; the canonical table is read-only once
// built.
type Pipeline struct {
	cfg *config.Config
	db  *database.DB
	log zerolog.Logger
}

// New creates a new pipeline. db may be nil, in which case no run report
// is stored and only config-defined interests are scored.
func New(cfg *config.Config, db *database.DB, logger zerolog.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, db: db, log: logger}
}

// Run executes the full pipeline against the configured input directory.
func (p *Pipeline) Run() *Result {
	r := &Result{}

	// Step 1: Ingest
	records, step := p.runIngest(r)
	r.Steps = append(r.Steps, step)
	if step.Err != nil {
		return r
	}

	// Step 2: Dedupe
	r.Steps = append(r.Steps, p.runDedupe(records, r))

	// Step 3: Temporal
	r.Steps = append(r.Steps, p.runTemporal(r))

	// Step 4: Sessions
	r.Steps = append(r.Steps, p.runSessions(r))

	// Step 5: Content
	r.Steps = append(r.Steps, p.runContent(r))

	// Step 6: Interests
	r.Steps = append(r.Steps, p.runInterests(r))

	if err := p.storeRun(r); err != nil {
		p.log.Warn().Err(err).Msg("failed to store run report")
	}

	return r
}

// DryRun shows what would be analyzed without executing.
func (p *Pipeline) DryRun() *Result {
	r := &Result{}

	files := 0
	if entries, err := os.ReadDir(p.cfg.Input.Dir); err == nil {
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
				files++
			}
		}
	}
	r.Steps = append(r.Steps, StepResult{
		Name:    "Ingest",
		Summary: fmt.Sprintf("[dry-run] %d export files in %s", files, p.cfg.Input.Dir),
	})
	r.Steps = append(r.Steps, StepResult{
		Name:    "Sessions",
		Summary: fmt.Sprintf("[dry-run] gap threshold %s", p.cfg.SessionGap()),
	})
	r.Steps = append(r.Steps, StepResult{
		Name:    "Content",
		Summary: fmt.Sprintf("[dry-run] %d categories configured", len(p.cfg.Categories)),
	})
	r.Steps = append(r.Steps, StepResult{
		Name:    "Interests",
		Summary: fmt.Sprintf("[dry-run] %d interest sets configured", len(p.interestSets())),
	})

	return r
}

func (p *Pipeline) runIngest(r *Result) ([]history.Record, StepResult) {
	p.log.Info().Str("dir", p.cfg.Input.Dir).Msg("Step 1/6: ingesting export files")
	ingestor := ingest.New(p.cfg.Input.Dir, p.log)
	records, result, err := ingestor.Load()
	if err != nil {
		return nil, StepResult{Name: "Ingest", Err: err}
	}
	r.Ingest = result
	return records, StepResult{
		Name: "Ingest",
		Summary: fmt.Sprintf("Parsed %d entries from %d files (%d files failed, %d entries dropped)",
			result.Entries, result.Files, result.FilesFailed, result.EntriesDropped),
	}
}

func (p *Pipeline) runDedupe(records []history.Record, r *Result) StepResult {
	p.log.Info().Msg("Step 2/6: building canonical table")
	r.Table = history.Dedupe(records)
	r.Duplicates = len(records) - len(r.Table)
	return StepResult{
		Name:    "Dedupe",
		Summary: fmt.Sprintf("%d unique records (%d duplicates removed)", len(r.Table), r.Duplicates),
	}
}

func (p *Pipeline) runTemporal(r *Result) StepResult {
	p.log.Info().Msg("Step 3/6: temporal analysis")

	peakHour, _, err := temporal.PeakHour(r.Table)
	if err != nil {
		return StepResult{Name: "Temporal", Err: err}
	}
	peakDay, _, err := temporal.PeakWeekday(r.Table)
	if err != nil {
		return StepResult{Name: "Temporal", Err: err}
	}
	dailyAvg, err := temporal.DailyAverage(r.Table)
	if err != nil {
		return StepResult{Name: "Temporal", Err: err}
	}
	weeklyAvg, err := temporal.WeeklyAverage(r.Table)
	if err != nil {
		return StepResult{Name: "Temporal", Err: err}
	}
	monthlyAvg, err := temporal.MonthlyAverage(r.Table)
	if err != nil {
		return StepResult{Name: "Temporal", Err: err}
	}

	r.Temporal = &TemporalSummary{
		ByYear:      temporal.CountByYear(r.Table),
		ByMonth:     temporal.CountByMonth(r.Table),
		ByWeekday:   temporal.CountByWeekday(r.Table),
		ByHour:      temporal.CountByHour(r.Table),
		PeakHour:    peakHour,
		PeakWeekday: peakDay,
		DailyAvg:    dailyAvg,
		WeeklyAvg:   weeklyAvg,
		MonthlyAvg:  monthlyAvg,
	}

	return StepResult{
		Name: "Temporal",
		Summary: fmt.Sprintf("Peak hour %02d:00, peak day %s, %.1f videos/day",
			peakHour, temporal.WeekdayName(peakDay), dailyAvg),
	}
}

func (p *Pipeline) runSessions(r *Result) StepResult {
	p.log.Info().Msg("Step 4/6: session detection")
	detector := sessions.NewDetector(p.cfg.SessionGap(), sessions.BingePolicy{
		MinVideos:   p.cfg.Analysis.BingeMinVideos,
		MinDuration: p.cfg.BingeMinDuration(),
	})
	r.Sessions = detector.Detect(r.Table)
	return StepResult{
		Name: "Sessions",
		Summary: fmt.Sprintf("%d sessions (%d binge) across %d records",
			len(r.Sessions.Sessions), r.Sessions.BingeCount, len(r.Table)),
	}
}

func (p *Pipeline) runContent(r *Result) StepResult {
	p.log.Info().Msg("Step 5/6: content classification")
	classifier := content.NewClassifier(p.cfg.Categories)
	r.CategoryCounts = classifier.CategoryCounts(r.Table)
	r.TopChannels = content.TopChannels(r.Table, p.cfg.Analysis.TopChannels)

	top := "none"
	if len(r.TopChannels) > 0 {
		top = fmt.Sprintf("%s (%d videos)", r.TopChannels[0].Channel, r.TopChannels[0].Count)
	}
	return StepResult{
		Name:    "Content",
		Summary: fmt.Sprintf("%d categories assigned, top channel: %s", len(r.CategoryCounts), top),
	}
}

func (p *Pipeline) runInterests(r *Result) StepResult {
	p.log.Info().Msg("Step 6/6: interest scoring")
	scorer := interests.NewScorer(p.interestSets())
	r.InterestCounts = scorer.Score(r.Table)
	return StepResult{
		Name:    "Interests",
		Summary: fmt.Sprintf("%d interests scored", len(r.InterestCounts)),
	}
}

// interestSets merges the config table with active stored interests; the
// stored ones win on name collisions.
func (p *Pipeline) interestSets() map[string][]string {
	stored := make(map[string][]string)
	if p.db != nil {
		active, err := p.db.GetActiveInterests()
		if err != nil {
			p.log.Warn().Err(err).Msg("failed to load stored interests")
		}
		for _, i := range active {
			stored[i.Name] = i.Keywords
		}
	}
	return interests.Merge(p.cfg.Interests, stored)
}

func (p *Pipeline) storeRun(r *Result) error {
	if p.db == nil {
		return nil
	}

	run := database.Run{
		Records:           len(r.Table),
		DuplicatesRemoved: r.Duplicates,
	}
	if r.Ingest != nil {
		run.Files = r.Ingest.Files
	}
	if r.Sessions != nil {
		run.Sessions = len(r.Sessions.Sessions)
		run.BingeSessions = r.Sessions.BingeCount
	}

	runID, err := p.db.InsertRun(run)
	if err != nil {
		return err
	}
	if err := p.db.InsertRunCategories(runID, r.CategoryCounts); err != nil {
		return err
	}
	return p.db.InsertRunInterests(runID, r.InterestCounts)
}
