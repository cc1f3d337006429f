// Package sessions partitions the watch history into viewing sessions.
package sessions

import (
	"time"

	"github.com/haldorsen/watchlens/internal/history"
)

// DefaultGap is the inter-video gap that ends a session.
const DefaultGap = 2 * time.Hour

// Session is a maximal run of chronologically consecutive records where no
// gap between neighbours exceeds the detector's threshold. Records is a
// sub-slice of the sorted table, not a copy.
type Session struct {
	Records history.Table
	Start   time.Time
	End     time.Time
}

// Size returns the number of records in the session.
func (s Session) Size() int {
	return len(s.Records)
}

// Duration returns the span from the first to the last record.
func (s Session) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// BingePolicy decides which sessions count as binge sessions. A session
// qualifies when it has at least MinVideos records and spans at least
// MinDuration; zero values disable the respective filter, so the zero
// policy counts every session.
type BingePolicy struct {
	MinVideos   int
	MinDuration time.Duration
}

// IsBinge reports whether the session satisfies the policy.
func (p BingePolicy) IsBinge(s Session) bool {
	if p.MinVideos > 0 && s.Size() < p.MinVideos {
		return false
	}
	if p.MinDuration > 0 && s.Duration() < p.MinDuration {
		return false
	}
	return true
}

// Detector groups the watch history into sessions by time gap.
type Detector struct {
	gap   time.Duration
	binge BingePolicy
}

// NewDetector creates a Detector. A non-positive gap falls back to
// DefaultGap.
func NewDetector(gap time.Duration, binge BingePolicy) *Detector {
	if gap <= 0 {
		gap = DefaultGap
	}
	return &Detector{gap: gap, binge: binge}
}

// Result holds the results of a detection run.
type Result struct {
	Sessions   []Session
	BingeCount int
}

// Detect sorts the table by time and partitions it into sessions. Every
// record lands in exactly one session; an empty table yields no sessions.
func (d *Detector) Detect(t history.Table) *Result {
	sorted := history.SortedByTime(t)
	parts := PartitionByGap(sorted, d.gap, func(r history.Record) time.Time {
		return r.Timestamp
	})

	r := &Result{Sessions: make([]Session, 0, len(parts))}
	for _, p := range parts {
		s := Session{
			Records: p,
			Start:   p[0].Timestamp,
			End:     p[len(p)-1].Timestamp,
		}
		r.Sessions = append(r.Sessions, s)
		if d.binge.IsBinge(s) {
			r.BingeCount++
		}
	}
	return r
}

// PartitionByGap splits an already-sorted slice into contiguous runs where
// the gap between consecutive elements never exceeds gap. Each element
// appears in exactly one run; runs are sub-slices of items.
func PartitionByGap[T any](items []T, gap time.Duration, at func(T) time.Time) [][]T {
	if len(items) == 0 {
		return nil
	}

	var parts [][]T
	start := 0
	for i := 1; i < len(items); i++ {
		if at(items[i]).Sub(at(items[i-1])) > gap {
			parts = append(parts, items[start:i])
			start = i
		}
	}
	return append(parts, items[start:])
}
