// Package content extracts channel labels and topical categories from
// video titles.
package content

import (
	"sort"
	"strings"

	"github.com/haldorsen/watchlens/internal/history"
)

// OtherCategory is assigned when no keyword rule matches a title.
const OtherCategory = "Other"

// maxChannelPrefix caps how long a "Channel: Title" prefix may be before
// the rule is rejected as a false positive.
const maxChannelPrefix = 50

// ExtractChannel derives a best-effort channel label from a title using
// ordered pattern rules, first match wins:
//
//  1. "Channel - Title"  -> everything before the first " - "
//  2. "Title | Channel"  -> everything after the last " | "
//  3. "Channel: Title"   -> the prefix, if shorter than 50 characters
//  4. otherwise          -> the first three words of the title
//
// The label is unverified text; two variant titles from the same real
// channel may yield different labels.
func ExtractChannel(title string) string {
	if i := strings.Index(title, " - "); i >= 0 {
		return title[:i]
	}
	if i := strings.LastIndex(title, " | "); i >= 0 {
		return title[i+3:]
	}
	if i := strings.Index(title, ": "); i >= 0 && i < maxChannelPrefix {
		return title[:i]
	}

	words := strings.Fields(title)
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.Join(words, " ")
}

// Classifier assigns topical categories to titles via keyword matching.
// The category table is data, not code; see config.DefaultCategories for
// the built-in one.
type Classifier struct {
	categories map[string][]string
}

// NewClassifier creates a Classifier from a category -> keywords table.
func NewClassifier(categories map[string][]string) *Classifier {
	return &Classifier{categories: categories}
}

// Categorize returns every category whose keywords match the lower-cased
// title as a substring, sorted alphabetically. A title matching nothing
// gets exactly [OtherCategory]; the result is never empty.
func (c *Classifier) Categorize(title string) []string {
	lower := strings.ToLower(title)

	var matched []string
	for category, keywords := range c.categories {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, category)
				break
			}
		}
	}

	if len(matched) == 0 {
		return []string{OtherCategory}
	}
	sort.Strings(matched)
	return matched
}

// CategoryCounts counts category assignments across the table. Because
// records are multi-label, the counts sum to at least the record count.
func (c *Classifier) CategoryCounts(t history.Table) map[string]int {
	counts := make(map[string]int)
	for _, r := range t {
		for _, cat := range c.Categorize(r.Title) {
			counts[cat]++
		}
	}
	return counts
}

// CategoryCountsByYear breaks the category counts down per calendar year.
func (c *Classifier) CategoryCountsByYear(t history.Table) map[int]map[string]int {
	byYear := make(map[int]map[string]int)
	for _, r := range t {
		year := r.Timestamp.Year()
		if byYear[year] == nil {
			byYear[year] = make(map[string]int)
		}
		for _, cat := range c.Categorize(r.Title) {
			byYear[year][cat]++
		}
	}
	return byYear
}

// ChannelCount is one entry in a channel ranking.
type ChannelCount struct {
	Channel string
	Count   int
}

// TopChannels ranks extracted channel labels by view count, descending,
// ties broken alphabetically. At most n entries are returned; n <= 0 means
// no limit.
func TopChannels(t history.Table, n int) []ChannelCount {
	counts := make(map[string]int)
	for _, r := range t {
		counts[ExtractChannel(r.Title)]++
	}
	return rankChannels(counts, n)
}

// TopChannelsByYear ranks channels per calendar year.
func TopChannelsByYear(t history.Table, n int) map[int][]ChannelCount {
	byYear := make(map[int]map[string]int)
	for _, r := range t {
		year := r.Timestamp.Year()
		if byYear[year] == nil {
			byYear[year] = make(map[string]int)
		}
		byYear[year][ExtractChannel(r.Title)]++
	}

	ranked := make(map[int][]ChannelCount, len(byYear))
	for year, counts := range byYear {
		ranked[year] = rankChannels(counts, n)
	}
	return ranked
}

func rankChannels(counts map[string]int, n int) []ChannelCount {
	ranked := make([]ChannelCount, 0, len(counts))
	for ch, count := range counts {
		ranked = append(ranked, ChannelCount{Channel: ch, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Channel < ranked[j].Channel
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
