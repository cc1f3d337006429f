// Package temporal derives calendar distributions from the watch history.
package temporal

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/haldorsen/watchlens/internal/history"
)

// ErrEmptyTable is returned by operations that need at least one record.
var ErrEmptyTable = errors.New("watch history is empty")

var weekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WeekdayIndex maps a timestamp to 0=Monday .. 6=Sunday.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekdayName returns the English name for a 0=Monday weekday index.
func WeekdayName(i int) string {
	if i < 0 || i > 6 {
		return fmt.Sprintf("weekday(%d)", i)
	}
	return weekdayNames[i]
}

// CountByYear counts records per calendar year. Only years with at least
// one record appear.
func CountByYear(t history.Table) map[int]int {
	counts := make(map[int]int)
	for _, r := range t {
		counts[r.Timestamp.Year()]++
	}
	return counts
}

// CountByMonth counts records per month of year (1-12).
func CountByMonth(t history.Table) map[int]int {
	counts := make(map[int]int)
	for _, r := range t {
		counts[int(r.Timestamp.Month())]++
	}
	return counts
}

// CountByWeekday counts records per day of week (0=Monday .. 6=Sunday).
func CountByWeekday(t history.Table) map[int]int {
	counts := make(map[int]int)
	for _, r := range t {
		counts[WeekdayIndex(r.Timestamp)]++
	}
	return counts
}

// CountByHour counts records per hour of day (0-23).
func CountByHour(t history.Table) map[int]int {
	counts := make(map[int]int)
	for _, r := range t {
		counts[r.Timestamp.Hour()]++
	}
	return counts
}

// WeekdayHour is a cell in the day-of-week by hour-of-day grid.
type WeekdayHour struct {
	Weekday int
	Hour    int
}

// CountByWeekdayHour counts records per (weekday, hour) cell, the grouping
// behind the viewing heatmap.
func CountByWeekdayHour(t history.Table) map[WeekdayHour]int {
	counts := make(map[WeekdayHour]int)
	for _, r := range t {
		counts[WeekdayHour{Weekday: WeekdayIndex(r.Timestamp), Hour: r.Timestamp.Hour()}]++
	}
	return counts
}

// PeakHour returns the hour with the most records and its count. Ties go to
// the lowest hour.
func PeakHour(t history.Table) (hour, count int, err error) {
	return peakBucket(CountByHour(t))
}

// PeakWeekday returns the weekday (0=Monday) with the most records and its
// count. Ties go to the lowest weekday index.
func PeakWeekday(t history.Table) (weekday, count int, err error) {
	return peakBucket(CountByWeekday(t))
}

// peakBucket is a stable argmax: buckets are visited in ascending order and
// only a strictly greater count displaces the current peak.
func peakBucket(counts map[int]int) (bucket, count int, err error) {
	if len(counts) == 0 {
		return 0, 0, fmt.Errorf("finding peak: %w", ErrEmptyTable)
	}

	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	bucket = keys[0]
	count = counts[bucket]
	for _, k := range keys[1:] {
		if counts[k] > count {
			bucket = k
			count = counts[k]
		}
	}
	return bucket, count, nil
}

// DailyAverage returns the mean number of records per distinct calendar day
// present in the data.
func DailyAverage(t history.Table) (float64, error) {
	return averageOver(t, func(ts time.Time) string {
		return ts.Format("2006-01-02")
	})
}

// WeeklyAverage returns the mean number of records per distinct ISO week.
func WeeklyAverage(t history.Table) (float64, error) {
	return averageOver(t, func(ts time.Time) string {
		year, week := ts.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	})
}

// MonthlyAverage returns the mean number of records per distinct calendar
// month.
func MonthlyAverage(t history.Table) (float64, error) {
	return averageOver(t, func(ts time.Time) string {
		return ts.Format("2006-01")
	})
}

// averageOver groups records by the given calendar key and averages the
// per-key counts. The divisor is the number of distinct keys present, not
// the min-max span.
func averageOver(t history.Table, key func(time.Time) string) (float64, error) {
	if len(t) == 0 {
		return 0, fmt.Errorf("computing average: %w", ErrEmptyTable)
	}

	buckets := make(map[string]int)
	for _, r := range t {
		buckets[key(r.Timestamp)]++
	}
	return float64(len(t)) / float64(len(buckets)), nil
}
