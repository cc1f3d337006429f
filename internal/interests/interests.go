// Package interests scores the watch history against user-defined
// interest keyword sets.
package interests

import (
	"strings"

	"github.com/haldorsen/watchlens/internal/history"
)

// Scorer counts records matching each interest's keywords.
type Scorer struct {
	sets map[string][]string
}

// NewScorer creates a Scorer from an interest -> keywords table.
func NewScorer(sets map[string][]string) *Scorer {
	return &Scorer{sets: sets}
}

// Score returns a count per configured interest: the number of records
// whose lower-cased title contains at least one of the interest's
// keywords. Every configured interest appears in the result, including
// those with zero matches, and a record may count toward several interests.
func (s *Scorer) Score(t history.Table) map[string]int {
	counts := make(map[string]int, len(s.sets))
	for name := range s.sets {
		counts[name] = 0
	}

	for _, r := range t {
		lower := strings.ToLower(r.Title)
		for name, keywords := range s.sets {
			for _, kw := range keywords {
				if strings.Contains(lower, kw) {
					counts[name]++
					break
				}
			}
		}
	}
	return counts
}

// Merge combines interest tables; later tables win on name collisions.
// Used to layer stored interests over the config file's table.
func Merge(tables ...map[string][]string) map[string][]string {
	merged := make(map[string][]string)
	for _, table := range tables {
		for name, keywords := range table {
			merged[name] = keywords
		}
	}
	return merged
}
