package database

// Run summarizes one pipeline run.
type Run struct {
	ID                int64
	RunAt             *string
	Files             int
	Records           int
	DuplicatesRemoved int
	Sessions          int
	BingeSessions     int
}

// Interest is a user-defined interest keyword set.
type Interest struct {
	ID        int64
	Name      string
	Keywords  []string
	IsActive  bool
	CreatedAt *string
	UpdatedAt *string
}

// MetricCount is one (label, count) row from a run's stored results.
type MetricCount struct {
	Label string
	Count int
}

// Stats contains aggregate database statistics.
type Stats struct {
	TotalRuns       int
	TotalInterests  int
	ActiveInterests int
}
