package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgstats/tgstats/internal/analyze"
	"github.com/tgstats/tgstats/internal/export"
)

func testResult() *analyze.Result {
	chat := &export.Chat{
		ID: 1, Name: "Weekend plans",
		Type: export.ChatPrivateGroup,
	}
	return &analyze.Result{
		Stats: analyze.Stats{
			analyze.FeatureMessages: {
				1: analyze.Accumulator{
					"Alice": {"2023-05-01": 4, "2023-05-02": 2},
					"Bob":   {"2023-05-01": 1},
				},
			},
			analyze.FeatureVoiceMessages: {
				1: analyze.Accumulator{
					"Alice": {
						analyze.KeyQuantity: 2,
						analyze.KeyLength:   90,
					},
				},
			},
			analyze.FeatureDayNight: {
				1: analyze.Accumulator{
					"Alice": {"morning": 3, "evening": 2},
				},
			},
			analyze.FeatureLinks: {
				1: analyze.Accumulator{
					"Alice": {"go.dev": 2},
				},
			},
			analyze.FeatureStickers: {
				1: analyze.Accumulator{
					"Alice": {"❤": 3, "🔥": 1},
				},
			},
			analyze.FeaturePhotos: {
				1: analyze.Accumulator{},
			},
		},
		Index: analyze.ChatIndex{1: chat},
	}
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.html")
	meta := Meta{
		Title:     "Our chats",
		Generated: time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC),
		Range: analyze.TimeRange{
			Start: time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2023, 5, 31, 0, 0, 0, 0, time.UTC),
		},
	}
	require.NoError(t, Build(path, testResult(), meta))

	html, err := os.ReadFile(path)
	require.NoError(t, err)
	page := string(html)
	assert.Contains(t, page, "Our chats")
	assert.Contains(t, page, "Weekend plans")
	assert.Contains(t, page, "2023-05-01 to 2023-05-31")
	assert.Contains(t, page, "report_files/")

	filesDir := filepath.Join(dir, "report_files")
	wantFiles := []string{
		"agg_msg_chat.svg",
		"agg_msg_date.svg",
		"agg_voice_message_quantity.svg",
		"agg_voice_message_length.svg",
		"agg_favourite_sticker_emoji.svg",
		"agg_day_night_quantity.svg",
		"agg_links_site.svg",
		"1_msg_user.svg",
		"1_msg_date.svg",
		"1_msg_avg.svg",
		"1_voice_message_quantity.svg",
		"1_voice_message_length.svg",
		"1_voice_message_lenavg.svg",
		"1_favourite_sticker_emoji.svg",
		"1_day_night_quantity.svg",
		"1_links_site.svg",
	}
	for _, name := range wantFiles {
		data, err := os.ReadFile(filepath.Join(filesDir, name))
		require.NoError(t, err, name)
		assert.Contains(t, string(data), "<svg", name)
		assert.Contains(t, page, name)
	}

	// Photos had no data: no photo chart may exist.
	entries, err := os.ReadDir(filesDir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), "photo")
	}
}

func TestBuild_NoData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.html")
	res := &analyze.Result{
		Stats: analyze.Stats{
			analyze.FeatureMessages: {
				7: analyze.Accumulator{},
			},
		},
		Index: analyze.ChatIndex{
			7: {ID: 7, Type: export.ChatPersonal},
		},
	}
	require.NoError(t, Build(path, res, Meta{
		Generated: time.Now(),
	}))

	html, err := os.ReadFile(path)
	require.NoError(t, err)
	// The chat still gets a section, with a placeholder instead
	// of charts.
	assert.Contains(t, string(html), "chat 7")
	assert.Contains(t, string(html), "No activity")

	entries, err := os.ReadDir(filepath.Join(dir, "empty_files"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSortedValues(t *testing.T) {
	vals := sortedValues(map[string]int{
		"b": 2, "a": 5, "c": 2, "d": 9,
	})
	var names []string
	for _, v := range vals {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{"d", "a", "b", "c"}, names)
}

func TestActiveDayAverages(t *testing.T) {
	acc := analyze.Accumulator{
		"Alice": {"2023-05-01": 10, "2023-05-02": 5},
		"Bob":   {"2023-05-01": 7},
		"Carol": {},
	}
	avg := activeDayAverages(acc)
	assert.Equal(t, map[string]int{"Alice": 7, "Bob": 7}, avg)
}

func TestRatios(t *testing.T) {
	got := ratios(
		map[string]int{"a": 90, "b": 10, "c": 5},
		map[string]int{"a": 2, "b": 0, "c": 1},
	)
	assert.Equal(t, map[string]int{"a": 45, "c": 5}, got)
}

func TestRangeLabel(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2023, 5, d, 0, 0, 0, 0, time.UTC)
	}
	assert.Equal(t, "all time", rangeLabel(analyze.TimeRange{}))
	assert.Equal(t, "since 2023-05-01",
		rangeLabel(analyze.TimeRange{Start: day(1)}))
	assert.Equal(t, "until 2023-05-09",
		rangeLabel(analyze.TimeRange{End: day(9)}))
	assert.True(t, strings.HasPrefix(
		rangeLabel(analyze.TimeRange{Start: day(1), End: day(9)}),
		"2023-05-01"))
}

func TestRenderBar_DegenerateRanges(t *testing.T) {
	// A report over one chat produces single-bar and all-equal
	// charts; those must render, not error.
	t.Run("single bar", func(t *testing.T) {
		var sb strings.Builder
		require.NoError(t, renderBar(&sb, "one chat",
			map[string]int{"only": 7}, 0))
		assert.Contains(t, sb.String(), "<svg")
	})
	t.Run("all equal", func(t *testing.T) {
		var sb strings.Builder
		require.NoError(t, renderBar(&sb, "tied",
			map[string]int{"a": 5, "b": 5}, 0))
		assert.Contains(t, sb.String(), "<svg")
	})
}

func TestRenderDatePlot_ConstantSeries(t *testing.T) {
	var sb strings.Builder
	err := renderDatePlot(&sb, "steady", []dateSeries{{
		Name: "Alice",
		ByDate: map[string]int{
			"2023-05-01": 2, "2023-05-02": 2, "2023-05-03": 2,
		},
	}})
	require.NoError(t, err)
	assert.Contains(t, sb.String(), "<svg")
}

func TestBuild_SingleChat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "solo.html")
	res := &analyze.Result{
		Stats: analyze.Stats{
			analyze.FeatureMessages: {
				3: analyze.Accumulator{
					"Alice": {"2023-05-01": 1},
				},
			},
		},
		Index: analyze.ChatIndex{
			3: {ID: 3, Name: "Alice", Type: export.ChatPersonal},
		},
	}
	require.NoError(t, Build(path, res, Meta{Generated: time.Now()}))

	// The aggregate bar has exactly one bar here.
	_, err := os.Stat(filepath.Join(dir, "solo_files",
		"agg_msg_chat.svg"))
	require.NoError(t, err)
}

func TestRenderBar_CollapsesTail(t *testing.T) {
	totals := make(map[string]int)
	for i := 0; i < 20; i++ {
		totals[strings.Repeat("x", i+1)] = 20 - i
	}
	var sb strings.Builder
	require.NoError(t, renderBar(&sb, "crowded", totals, 0))
	assert.Contains(t, sb.String(), "others")

	sb.Reset()
	require.NoError(t, renderBar(&sb, "narrow", totals, 5))
	assert.Contains(t, sb.String(), "others")
}
