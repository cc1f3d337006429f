// Package history defines the canonical watch-history table that every
// analysis stage reads from.
package history

import (
	"sort"
	"time"

	json "github.com/goccy/go-json"
)

// Record is a single viewing event. Title is HTML-entity-decoded at
// ingestion. Extra carries any additional fields present in the raw export,
// preserved verbatim but never interpreted.
type Record struct {
	Title     string
	Timestamp time.Time
	Extra     map[string]json.RawMessage
}

// Table is the deduplicated collection of watch records. It is built once
// per run and read-only for all downstream consumers.
type Table []Record

// Dedupe removes exact duplicates under the (Title, Timestamp) key, keeping
// the first-encountered record. Running it on its own output is a no-op.
func Dedupe(records []Record) Table {
	seen := make(map[recordKey]struct{}, len(records))
	table := make(Table, 0, len(records))
	for _, r := range records {
		k := recordKey{title: r.Title, ts: r.Timestamp.Unix()}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		table = append(table, r)
	}
	return table
}

type recordKey struct {
	title string
	ts    int64
}

// SortedByTime returns a copy of the table sorted by timestamp ascending.
// The sort is stable: records with identical timestamps keep their
// ingestion order. The table itself is left untouched.
func SortedByTime(t Table) Table {
	sorted := make(Table, len(t))
	copy(sorted, t)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}
