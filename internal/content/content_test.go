package content

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haldorsen/watchlens/internal/history"
)

func rec(title string, year int) history.Record {
	return history.Record{
		Title:     title,
		Timestamp: time.Date(year, 6, 15, 12, 0, 0, 0, time.Local),
	}
}

func TestExtractChannelDashRule(t *testing.T) {
	assert.Equal(t, "NRK", ExtractChannel("NRK - Nyheter i dag"))
	// first occurrence wins
	assert.Equal(t, "A", ExtractChannel("A - B - C"))
}

func TestExtractChannelPipeRule(t *testing.T) {
	assert.Equal(t, "Vox", ExtractChannel("How highways ruined cities | Vox"))
	// last occurrence wins
	assert.Equal(t, "C", ExtractChannel("A | B | C"))
}

func TestExtractChannelDashBeatsPipe(t *testing.T) {
	assert.Equal(t, "A", ExtractChannel("A - B | C"))
}

func TestExtractChannelColonRule(t *testing.T) {
	assert.Equal(t, "Kurzgesagt", ExtractChannel("Kurzgesagt: The Egg"))

	longPrefix := strings.Repeat("x", 60)
	title := longPrefix + ": something else entirely here"
	// Prefix too long: fall through to the first-three-words rule
	assert.Equal(t, longPrefix+": something else", ExtractChannel(title))
}

func TestExtractChannelFallbackFirstThreeWords(t *testing.T) {
	assert.Equal(t, "Amazing drone footage", ExtractChannel("Amazing drone footage of Lofoten"))
	assert.Equal(t, "Two words", ExtractChannel("Two words"))
	assert.Equal(t, "", ExtractChannel(""))
}

func TestCategorizeMultiLabel(t *testing.T) {
	c := NewClassifier(map[string][]string{
		"Music":  {"music", "song", "live"},
		"Comedy": {"funny", "comedy"},
	})

	got := c.Categorize("Funny music video")
	assert.Equal(t, []string{"Comedy", "Music"}, got, "sorted, multi-label")

	got = c.Categorize("Live at Wembley")
	assert.Equal(t, []string{"Music"}, got)
}

func TestCategorizeOtherWhenNothingMatches(t *testing.T) {
	c := NewClassifier(map[string][]string{"Music": {"music"}})
	assert.Equal(t, []string{OtherCategory}, c.Categorize("Quarterly earnings call"))
}

func TestCategorizeIsCaseInsensitive(t *testing.T) {
	c := NewClassifier(map[string][]string{"Gaming": {"gameplay"}})
	assert.Equal(t, []string{"Gaming"}, c.Categorize("ELDEN RING GAMEPLAY part 4"))
}

func TestCategoryCountsSumAtLeastRecordCount(t *testing.T) {
	c := NewClassifier(map[string][]string{
		"Music":  {"music"},
		"Comedy": {"funny"},
	})
	table := history.Table{
		rec("Funny music video", 2024),
		rec("Just music", 2024),
		rec("Nothing matches here", 2024),
	}

	counts := c.CategoryCounts(table)
	total := 0
	for _, n := range counts {
		total += n
	}
	assert.GreaterOrEqual(t, total, len(table))
	assert.Equal(t, 1, counts[OtherCategory])
	assert.Equal(t, 2, counts["Music"])
	assert.Equal(t, 1, counts["Comedy"])
}

func TestCategoryCountsByYear(t *testing.T) {
	c := NewClassifier(map[string][]string{"Music": {"music"}})
	table := history.Table{
		rec("music one", 2023),
		rec("music two", 2024),
		rec("music three", 2024),
	}

	byYear := c.CategoryCountsByYear(table)
	require.Len(t, byYear, 2)
	assert.Equal(t, 1, byYear[2023]["Music"])
	assert.Equal(t, 2, byYear[2024]["Music"])
}

func TestTopChannelsRanking(t *testing.T) {
	table := history.Table{
		rec("Vox - A", 2024),
		rec("Vox - B", 2024),
		rec("Vox - C", 2024),
		rec("NRK - A", 2024),
		rec("NRK - B", 2024),
		rec("Arte - A", 2024),
	}

	ranked := TopChannels(table, 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, ChannelCount{Channel: "Vox", Count: 3}, ranked[0])
	assert.Equal(t, ChannelCount{Channel: "NRK", Count: 2}, ranked[1])
}

func TestTopChannelsTieBreaksAlphabetically(t *testing.T) {
	table := history.Table{
		rec("Beta - x", 2024),
		rec("Alpha - y", 2024),
	}

	ranked := TopChannels(table, 0)
	require.Len(t, ranked, 2)
	assert.Equal(t, "Alpha", ranked[0].Channel)
	assert.Equal(t, "Beta", ranked[1].Channel)
}

func TestTopChannelsByYear(t *testing.T) {
	table := history.Table{
		rec("Vox - A", 2023),
		rec("Vox - B", 2023),
		rec("NRK - A", 2024),
	}

	byYear := TopChannelsByYear(table, 10)
	require.Len(t, byYear, 2)
	assert.Equal(t, "Vox", byYear[2023][0].Channel)
	assert.Equal(t, 2, byYear[2023][0].Count)
	assert.Equal(t, "NRK", byYear[2024][0].Channel)
}
