package database

import (
	"database/sql"
	"sort"
)

// InsertRun records a pipeline run summary and returns its ID.
func (db *DB) InsertRun(run Run) (int64, error) {
	result, err := db.conn.Exec(
		`INSERT INTO runs (files, records, duplicates_removed, sessions, binge_sessions)
		VALUES (?, ?, ?, ?, ?)`,
		run.Files, run.Records, run.DuplicatesRemoved, run.Sessions, run.BingeSessions,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// InsertRunCategories stores per-category counts for a run.
func (db *DB) InsertRunCategories(runID int64, counts map[string]int) error {
	return db.insertRunCounts("run_categories", "category", runID, counts)
}

// InsertRunInterests stores per-interest counts for a run.
func (db *DB) InsertRunInterests(runID int64, counts map[string]int) error {
	return db.insertRunCounts("run_interests", "interest", runID, counts)
}

func (db *DB) insertRunCounts(table, column string, runID int64, counts map[string]int) error {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		_, err := db.conn.Exec(
			"INSERT INTO "+table+" (run_id, "+column+", count) VALUES (?, ?, ?)",
			runID, label, counts[label],
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetLastRun returns the most recent run, or nil when no run exists.
func (db *DB) GetLastRun() (*Run, error) {
	row := db.conn.QueryRow(
		`SELECT id, run_at, files, records, duplicates_removed, sessions, binge_sessions
		FROM runs ORDER BY id DESC LIMIT 1`,
	)
	var r Run
	err := row.Scan(&r.ID, &r.RunAt, &r.Files, &r.Records, &r.DuplicatesRemoved, &r.Sessions, &r.BingeSessions)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetRunCategories returns a run's stored category counts, largest first.
func (db *DB) GetRunCategories(runID int64) ([]MetricCount, error) {
	return db.queryRunCounts(
		"SELECT category, count FROM run_categories WHERE run_id = ? ORDER BY count DESC, category ASC", runID,
	)
}

// GetRunInterests returns a run's stored interest counts, largest first.
func (db *DB) GetRunInterests(runID int64) ([]MetricCount, error) {
	return db.queryRunCounts(
		"SELECT interest, count FROM run_interests WHERE run_id = ? ORDER BY count DESC, interest ASC", runID,
	)
}

func (db *DB) queryRunCounts(query string, runID int64) ([]MetricCount, error) {
	rows, err := db.conn.Query(query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []MetricCount
	for rows.Next() {
		var m MetricCount
		if err := rows.Scan(&m.Label, &m.Count); err != nil {
			return nil, err
		}
		counts = append(counts, m)
	}
	return counts, rows.Err()
}

// GetStats returns aggregate statistics for the status command.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{}
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM runs").Scan(&s.TotalRuns); err != nil {
		return nil, err
	}
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM interests").Scan(&s.TotalInterests); err != nil {
		return nil, err
	}
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM interests WHERE is_active = 1").Scan(&s.ActiveInterests); err != nil {
		return nil, err
	}
	return s, nil
}
