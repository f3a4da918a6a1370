// Package report renders analysis results into a standalone HTML
// page plus a sibling directory of SVG charts.
package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tgstats/tgstats/internal/analyze"
	"github.com/tgstats/tgstats/internal/export"
)

//go:embed templates/index.html.tmpl
var templateFS embed.FS

// aggScope prefixes chart files that aggregate across all chats.
const aggScope = "agg"

// Meta carries the page-level fields of a report. TopN bounds bar
// charts; zero means the default.
type Meta struct {
	Title     string
	Generated time.Time
	Range     analyze.TimeRange
	TopN      int
}

// chartRef is one rendered chart as the template sees it: a file
// name inside the assets directory and a caption.
type chartRef struct {
	File    string
	Caption string
}

// chatSection groups one chat's charts.
type chatSection struct {
	Name   string
	ID     int64
	Charts []chartRef
}

// page is the template model.
type page struct {
	Title     string
	Generated string
	Range     string
	AssetsDir string
	Overview  []chartRef
	Chats     []chatSection
}

// builder owns one report run: the assets directory and the chart
// lists accumulated so far.
type builder struct {
	dir       string
	assetsDir string
	topN      int
	overview  []chartRef
	chats     []chatSection
}

// Build writes the report page at path and its charts under a
// sibling "<name>_files" directory. Features and chats with no data
// in the analyzed window simply contribute no charts.
func Build(path string, res *analyze.Result, meta Meta) error {
	base := strings.TrimSuffix(filepath.Base(path),
		filepath.Ext(path))
	b := &builder{
		dir:       filepath.Join(filepath.Dir(path), base+"_files"),
		assetsDir: base + "_files",
		topN:      meta.TopN,
	}
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("creating assets dir: %w", err)
	}

	ids := res.ChatIDs()
	for _, f := range analyze.Features() {
		byChat, ok := res.Stats[f]
		if !ok {
			continue
		}
		if err := b.overviewCharts(f, byChat, res.Index, ids); err != nil {
			return err
		}
	}
	for _, id := range ids {
		sec := chatSection{Name: chatLabel(res.Index[id]), ID: id}
		for _, f := range analyze.Features() {
			byChat, ok := res.Stats[f]
			if !ok {
				continue
			}
			charts, err := b.chatCharts(f, id, byChat[id])
			if err != nil {
				return err
			}
			sec.Charts = append(sec.Charts, charts...)
		}
		// Chartless chats stay in the page so the reader sees
		// the chat had no activity in the window.
		b.chats = append(b.chats, sec)
	}

	return b.writePage(path, meta)
}

// overviewCharts renders the cross-chat charts for one feature.
func (b *builder) overviewCharts(
	f analyze.Feature, byChat map[int64]analyze.Accumulator,
	index analyze.ChatIndex, ids []int64,
) error {
	switch f {
	case analyze.FeatureSymbols, analyze.FeatureWords,
		analyze.FeatureMessages:
		perChat := make(map[string]int, len(ids))
		var series []dateSeries
		for _, id := range ids {
			acc := byChat[id]
			label := chatLabel(index[id])
			if total := accTotal(acc); total > 0 {
				perChat[label] = total
			}
			if byDate := subkeyTotals(acc); len(byDate) > 0 {
				series = append(series, dateSeries{
					Name: label, ByDate: byDate,
				})
			}
		}
		if len(perChat) > 0 {
			err := b.chart(&b.overview,
				chartName(aggScope, f, "chat"),
				featureLabel(f)+" by chat",
				func(w io.Writer) error {
					return renderBar(w,
						featureLabel(f)+" by chat", perChat,
						b.topN)
				})
			if err != nil {
				return err
			}
		}
		if len(series) > 0 {
			err := b.chart(&b.overview,
				chartName(aggScope, f, "date"),
				featureLabel(f)+" over time",
				func(w io.Writer) error {
					return renderDatePlot(w,
						featureLabel(f)+" over time", series)
				})
			if err != nil {
				return err
			}
		}
	case analyze.FeatureVoiceMessages, analyze.FeatureVideoMessages,
		analyze.FeatureVideoFiles:
		qty := make(map[string]int, len(ids))
		length := make(map[string]int, len(ids))
		for _, id := range ids {
			label := chatLabel(index[id])
			if n := sumValues(authorSub(byChat[id],
				analyze.KeyQuantity)); n > 0 {
				qty[label] = n
			}
			if n := sumValues(authorSub(byChat[id],
				analyze.KeyLength)); n > 0 {
				length[label] = n
			}
		}
		if sumValues(qty) > 0 {
			err := b.chart(&b.overview,
				chartName(aggScope, f, "quantity"),
				featureLabel(f)+" count by chat",
				func(w io.Writer) error {
					return renderPie(w,
						featureLabel(f)+" count by chat", qty)
				})
			if err != nil {
				return err
			}
		}
		if sumValues(length) > 0 {
			err := b.chart(&b.overview,
				chartName(aggScope, f, "length"),
				featureLabel(f)+" duration by chat",
				func(w io.Writer) error {
					return renderPie(w,
						featureLabel(f)+" duration by chat",
						length)
				})
			if err != nil {
				return err
			}
		}
	case analyze.FeatureStickers:
		emojis := make(map[string]int)
		for _, acc := range byChat {
			for emoji, n := range subkeyTotals(acc) {
				emojis[emoji] += n
			}
		}
		if sumValues(emojis) > 0 {
			return b.chart(&b.overview,
				chartName(aggScope, f, "emoji"),
				"most used stickers",
				func(w io.Writer) error {
					return renderBar(w,
						"most used stickers", emojis, b.topN)
				})
		}
	case analyze.FeatureDayNight:
		buckets := make(map[string]int)
		for _, acc := range byChat {
			for bucket, n := range subkeyTotals(acc) {
				buckets[bucket] += n
			}
		}
		if sumValues(buckets) > 0 {
			return b.chart(&b.overview,
				chartName(aggScope, f, "quantity"),
				"activity by time of day",
				func(w io.Writer) error {
					return renderPie(w,
						"activity by time of day", buckets)
				})
		}
	case analyze.FeatureLinks:
		sites := make(map[string]int)
		for _, acc := range byChat {
			for site, n := range subkeyTotals(acc) {
				sites[site] += n
			}
		}
		if sumValues(sites) > 0 {
			return b.chart(&b.overview,
				chartName(aggScope, f, "site"),
				"most linked sites",
				func(w io.Writer) error {
					return renderBar(w,
						"most linked sites", sites, b.topN)
				})
		}
	}
	return nil
}

// chatCharts renders one chat's charts for one feature.
func (b *builder) chatCharts(
	f analyze.Feature, id int64, acc analyze.Accumulator,
) ([]chartRef, error) {
	var charts []chartRef
	scope := strconv.FormatInt(id, 10)
	switch f {
	case analyze.FeatureSymbols, analyze.FeatureWords,
		analyze.FeatureMessages:
		byAuthor := authorTotals(acc)
		if sumValues(byAuthor) == 0 {
			return nil, nil
		}
		err := b.chart(&charts, chartName(scope, f, "user"),
			featureLabel(f)+" by user",
			func(w io.Writer) error {
				return renderPie(w,
					featureLabel(f)+" by user", byAuthor)
			})
		if err != nil {
			return nil, err
		}
		var series []dateSeries
		for author, inner := range acc {
			if len(inner) > 0 {
				series = append(series, dateSeries{
					Name: author, ByDate: inner,
				})
			}
		}
		err = b.chart(&charts, chartName(scope, f, "date"),
			featureLabel(f)+" over time",
			func(w io.Writer) error {
				return renderDatePlot(w,
					featureLabel(f)+" over time", series)
			})
		if err != nil {
			return nil, err
		}
		avg := activeDayAverages(acc)
		if sumValues(avg) > 0 {
			err = b.chart(&charts, chartName(scope, f, "avg"),
				featureLabel(f)+" per active day",
				func(w io.Writer) error {
					return renderBar(w,
						featureLabel(f)+" per active day",
						avg, b.topN)
				})
			if err != nil {
				return nil, err
			}
		}
	case analyze.FeatureVoiceMessages, analyze.FeatureVideoMessages,
		analyze.FeatureVideoFiles:
		qty := authorSub(acc, analyze.KeyQuantity)
		if sumValues(qty) == 0 {
			return nil, nil
		}
		err := b.chart(&charts, chartName(scope, f, "quantity"),
			featureLabel(f)+" count by user",
			func(w io.Writer) error {
				return renderPie(w,
					featureLabel(f)+" count by user", qty)
			})
		if err != nil {
			return nil, err
		}
		length := authorSub(acc, analyze.KeyLength)
		if sumValues(length) > 0 {
			err = b.chart(&charts, chartName(scope, f, "length"),
				featureLabel(f)+" duration by user",
				func(w io.Writer) error {
					return renderPie(w,
						featureLabel(f)+" duration by user",
						length)
				})
			if err != nil {
				return nil, err
			}
			err = b.chart(&charts, chartName(scope, f, "lenavg"),
				"average "+featureLabel(f)+" duration",
				func(w io.Writer) error {
					return renderBar(w,
						"average "+featureLabel(f)+" duration",
						ratios(length, qty), b.topN)
				})
			if err != nil {
				return nil, err
			}
		}
	case analyze.FeaturePhotos:
		qty := authorSub(acc, analyze.KeyQuantity)
		if sumValues(qty) == 0 {
			return nil, nil
		}
		err := b.chart(&charts, chartName(scope, f, "quantity"),
			"photos by user",
			func(w io.Writer) error {
				return renderPie(w, "photos by user", qty)
			})
		if err != nil {
			return nil, err
		}
	case analyze.FeatureStickers:
		emojis := subkeyTotals(acc)
		if sumValues(emojis) == 0 {
			return nil, nil
		}
		err := b.chart(&charts, chartName(scope, f, "emoji"),
			"most used stickers",
			func(w io.Writer) error {
				return renderBar(w, "most used stickers",
					emojis, b.topN)
			})
		if err != nil {
			return nil, err
		}
	case analyze.FeatureDayNight:
		buckets := subkeyTotals(acc)
		if sumValues(buckets) == 0 {
			return nil, nil
		}
		err := b.chart(&charts, chartName(scope, f, "quantity"),
			"activity by time of day",
			func(w io.Writer) error {
				return renderPie(w,
					"activity by time of day", buckets)
			})
		if err != nil {
			return nil, err
		}
	case analyze.FeatureLinks:
		sites := subkeyTotals(acc)
		if sumValues(sites) == 0 {
			return nil, nil
		}
		err := b.chart(&charts, chartName(scope, f, "site"),
			"most linked sites",
			func(w io.Writer) error {
				return renderBar(w, "most linked sites",
					sites, b.topN)
			})
		if err != nil {
			return nil, err
		}
	}
	return charts, nil
}

// chart renders one SVG into the assets directory and records it.
func (b *builder) chart(
	into *[]chartRef, name, caption string,
	render func(io.Writer) error,
) error {
	f, err := os.Create(filepath.Join(b.dir, name))
	if err != nil {
		return fmt.Errorf("creating chart %s: %w", name, err)
	}
	defer f.Close()
	if err := render(f); err != nil {
		return err
	}
	*into = append(*into, chartRef{File: name, Caption: caption})
	return nil
}

// writePage renders the HTML shell referencing the chart files.
func (b *builder) writePage(path string, meta Meta) error {
	tmpl, err := template.ParseFS(templateFS,
		"templates/index.html.tmpl")
	if err != nil {
		return fmt.Errorf("parsing report template: %w", err)
	}
	title := meta.Title
	if title == "" {
		title = "Chat statistics"
	}
	p := page{
		Title:     title,
		Generated: meta.Generated.Format("2006-01-02 15:04 MST"),
		Range:     rangeLabel(meta.Range),
		AssetsDir: b.assetsDir,
		Overview:  b.overview,
		Chats:     b.chats,
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	defer f.Close()
	if err := tmpl.Execute(f, p); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

func chartName(scope string, f analyze.Feature, sub string) string {
	return scope + "_" + string(f) + "_" + sub + ".svg"
}

// featureLabel maps a feature to its page wording.
func featureLabel(f analyze.Feature) string {
	switch f {
	case analyze.FeatureSymbols:
		return "characters"
	case analyze.FeatureWords:
		return "words"
	case analyze.FeatureMessages:
		return "messages"
	case analyze.FeatureVoiceMessages:
		return "voice message"
	case analyze.FeatureVideoMessages:
		return "video message"
	case analyze.FeatureVideoFiles:
		return "video file"
	default:
		return strings.ReplaceAll(string(f), "_", " ")
	}
}

func chatLabel(chat *export.Chat) string {
	if chat == nil {
		return "unknown chat"
	}
	if chat.Name != "" {
		return chat.Name
	}
	return "chat " + strconv.FormatInt(chat.ID, 10)
}

func rangeLabel(r analyze.TimeRange) string {
	switch {
	case r.Start.IsZero() && r.End.IsZero():
		return "all time"
	case r.Start.IsZero():
		return "until " + r.End.Format("2006-01-02")
	case r.End.IsZero():
		return "since " + r.Start.Format("2006-01-02")
	default:
		return r.Start.Format("2006-01-02") + " to " +
			r.End.Format("2006-01-02")
	}
}

// accTotal sums every leaf of an accumulator.
func accTotal(acc analyze.Accumulator) int {
	total := 0
	for _, inner := range acc {
		for _, v := range inner {
			total += v
		}
	}
	return total
}

// authorTotals sums each author's leaves.
func authorTotals(acc analyze.Accumulator) map[string]int {
	out := make(map[string]int, len(acc))
	for author, inner := range acc {
		out[author] = 0
		for _, v := range inner {
			out[author] += v
		}
	}
	return out
}

// subkeyTotals sums across authors per sub-key.
func subkeyTotals(acc analyze.Accumulator) map[string]int {
	out := make(map[string]int)
	for _, inner := range acc {
		for key, v := range inner {
			out[key] += v
		}
	}
	return out
}

// authorSub extracts one sub-key's value per author.
func authorSub(acc analyze.Accumulator, key string) map[string]int {
	out := make(map[string]int, len(acc))
	for author, inner := range acc {
		out[author] = inner[key]
	}
	return out
}

// activeDayAverages divides each author's total by the number of
// days they were active, rounding down.
func activeDayAverages(acc analyze.Accumulator) map[string]int {
	out := make(map[string]int, len(acc))
	for author, inner := range acc {
		if len(inner) == 0 {
			continue
		}
		total := 0
		for _, v := range inner {
			total += v
		}
		out[author] = total / len(inner)
	}
	return out
}

// ratios divides num by den per key, skipping zero denominators.
func ratios(num, den map[string]int) map[string]int {
	out := make(map[string]int, len(num))
	for key, n := range num {
		if d := den[key]; d > 0 {
			out[key] = n / d
		}
	}
	return out
}
