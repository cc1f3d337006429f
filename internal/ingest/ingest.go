// Package ingest reads a watch-history export directory into records.
package ingest

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/haldorsen/watchlens/internal/history"
)

// TimestampLayout is the fixed format of the date_watched field.
const TimestampLayout = "2006-01-02 15:04:05"

// Result holds the results of an ingestion run.
type Result struct {
	Files          int
	FilesFailed    int
	Entries        int
	EntriesDropped int
}

// Ingestor loads raw export files from a directory.
type Ingestor struct {
	dir string
	log zerolog.Logger
}

// New creates a new Ingestor for the given export directory.
func New(dir string, logger zerolog.Logger) *Ingestor {
	return &Ingestor{dir: dir, log: logger}
}

// Load parses every .json file in the directory into watch records, in
// file-then-entry encounter order. A file that cannot be parsed is skipped
// and logged; so is an entry missing a required field or carrying an
// unparseable timestamp. Only an unreadable directory is fatal.
func (in *Ingestor) Load() ([]history.Record, *Result, error) {
	dirEntries, err := os.ReadDir(in.dir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading export directory: %w", err)
	}

	r := &Result{}
	var records []history.Record

	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}

		path := filepath.Join(in.dir, de.Name())
		parsed, dropped, err := in.loadFile(path)
		if err != nil {
			in.log.Warn().Err(err).Str("file", de.Name()).Msg("skipping malformed export file")
			r.FilesFailed++
			continue
		}

		r.Files++
		r.Entries += len(parsed)
		r.EntriesDropped += dropped
		records = append(records, parsed...)
		in.log.Debug().Str("file", de.Name()).Int("entries", len(parsed)).Int("dropped", dropped).Msg("parsed export file")
	}

	in.log.Info().
		Int("files", r.Files).
		Int("files_failed", r.FilesFailed).
		Int("entries", r.Entries).
		Int("entries_dropped", r.EntriesDropped).
		Msg("ingestion complete")

	return records, r, nil
}

func (in *Ingestor) loadFile(path string) ([]history.Record, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}

	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("parsing JSON: %w", err)
	}

	var records []history.Record
	dropped := 0
	for i, entry := range raw {
		rec, err := parseEntry(entry)
		if err != nil {
			in.log.Debug().Err(err).Str("file", filepath.Base(path)).Int("entry", i).Msg("skipping malformed entry")
			dropped++
			continue
		}
		records = append(records, rec)
	}

	return records, dropped, nil
}

// parseEntry converts one raw export entry into a Record. The title and
// date_watched fields are required; everything else is kept opaque in Extra.
func parseEntry(entry map[string]json.RawMessage) (history.Record, error) {
	title, err := stringField(entry, "title")
	if err != nil {
		return history.Record{}, err
	}

	watched, err := stringField(entry, "date_watched")
	if err != nil {
		return history.Record{}, err
	}

	ts, err := time.ParseInLocation(TimestampLayout, watched, time.Local)
	if err != nil {
		return history.Record{}, fmt.Errorf("parsing date_watched %q: %w", watched, err)
	}

	extra := make(map[string]json.RawMessage, len(entry))
	for k, v := range entry {
		if k == "title" || k == "date_watched" {
			continue
		}
		extra[k] = v
	}
	if len(extra) == 0 {
		extra = nil
	}

	return history.Record{
		Title:     html.UnescapeString(title),
		Timestamp: ts,
		Extra:     extra,
	}, nil
}

func stringField(entry map[string]json.RawMessage, key string) (string, error) {
	raw, ok := entry[key]
	if !ok {
		return "", fmt.Errorf("missing %s field", key)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("field %s is not a string: %w", key, err)
	}
	return s, nil
}
