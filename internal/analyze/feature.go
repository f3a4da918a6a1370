package analyze

import (
	"strings"
	"unicode/utf8"

	"github.com/tgstats/tgstats/internal/export"
)

// Feature names one independently selectable statistic.
type Feature string

const (
	FeatureSymbols       Feature = "symb"
	FeatureWords         Feature = "word"
	FeatureMessages      Feature = "msg"
	FeatureVoiceMessages Feature = "voice_message"
	FeatureVideoMessages Feature = "video_message"
	FeatureVideoFiles    Feature = "video_file"
	FeaturePhotos        Feature = "photo"
	FeatureStickers      Feature = "favourite_sticker"
	FeatureDayNight      Feature = "day_night"
	FeatureLinks         Feature = "links"
)

// Accumulator sub-keys shared across features. Text features key by
// local date strings instead (see dateKey).
const (
	KeyQuantity = "quantity"
	KeyLength   = "length"
)

// Time-of-day buckets, indexed by hour/6.
var dayBuckets = [4]string{"night", "morning", "afternoon", "evening"}

// Accumulator is the per-feature working structure: author, then a
// feature-specific sub-key, then an integer count. Leaves default to
// zero through Add; there is no other mutation path.
type Accumulator map[string]map[string]int

// Add bumps the leaf at (author, key) by n, materializing the inner
// map on first use.
func (a Accumulator) Add(author, key string, n int) {
	inner, ok := a[author]
	if !ok {
		inner = make(map[string]int)
		a[author] = inner
	}
	inner[key] += n
}

// Clone returns a deep copy. Used when folding per-chat results into
// the shared stats map from worker goroutines is not enough and the
// caller must not alias the scan's working memory.
func (a Accumulator) Clone() Accumulator {
	out := make(Accumulator, len(a))
	for author, inner := range a {
		c := make(map[string]int, len(inner))
		for k, v := range inner {
			c[k] = v
		}
		out[author] = c
	}
	return out
}

// featureDef is one dispatch-table entry. The scan loop never
// branches on feature names: it allocates an accumulator per active
// feature and funnels every in-window message through update.
type featureDef struct {
	update func(Accumulator, *export.Message)
}

// registry is the full feature dispatch table, resolved once at
// package init. A selected feature missing from this table is a
// ConfigError.
var registry = map[Feature]featureDef{
	FeatureSymbols:  {update: updateSymbols},
	FeatureWords:    {update: updateWords},
	FeatureMessages: {update: updateMessages},
	FeatureVoiceMessages: {
		update: durationUpdate(export.TypeVoiceMessage),
	},
	FeatureVideoMessages: {
		update: durationUpdate(export.TypeVideoMessage),
	},
	FeatureVideoFiles: {
		update: durationUpdate(export.TypeVideoFile),
	},
	FeaturePhotos:   {update: updatePhotos},
	FeatureStickers: {update: updateStickers},
	FeatureDayNight: {update: updateDayNight},
	FeatureLinks:    {update: updateLinks},
}

// Features returns the full known vocabulary in stable order.
func Features() []Feature {
	return []Feature{
		FeatureSymbols, FeatureWords, FeatureMessages,
		FeatureVoiceMessages, FeatureVideoMessages,
		FeatureVideoFiles, FeaturePhotos, FeatureStickers,
		FeatureDayNight, FeatureLinks,
	}
}

// Known reports whether f has a dispatch-table entry.
func Known(f Feature) bool {
	_, ok := registry[f]
	return ok
}

// dateKey buckets a send time by its UTC calendar day.
func dateKey(m *export.Message) string {
	return m.SendTime.Format("2006-01-02")
}

// countSymbols counts the significant characters of a text: runes
// remaining after removing spaces.
func countSymbols(text string) int {
	return utf8.RuneCountInString(strings.ReplaceAll(text, " ", ""))
}

func updateSymbols(a Accumulator, m *export.Message) {
	if m.Type.IsCall() {
		return
	}
	a.Add(m.Author, dateKey(m), countSymbols(m.Text))
}

func updateWords(a Accumulator, m *export.Message) {
	if m.Type.IsCall() {
		return
	}
	a.Add(m.Author, dateKey(m), len(strings.Fields(m.Text)))
}

func updateMessages(a Accumulator, m *export.Message) {
	if m.Type.IsCall() {
		return
	}
	a.Add(m.Author, dateKey(m), 1)
}

// durationUpdate counts quantity and total duration for messages of
// exactly the given type.
func durationUpdate(
	t export.MessageType,
) func(Accumulator, *export.Message) {
	return func(a Accumulator, m *export.Message) {
		if m.Type != t {
			return
		}
		a.Add(m.Author, KeyQuantity, 1)
		a.Add(m.Author, KeyLength, m.Duration)
	}
}

func updatePhotos(a Accumulator, m *export.Message) {
	if m.Type != export.TypePhoto {
		return
	}
	a.Add(m.Author, KeyQuantity, 1)
}

// updateStickers tallies sticker usage per emoji. Stickers with no
// emoji attached carry no identity and are skipped.
func updateStickers(a Accumulator, m *export.Message) {
	if m.Type != export.TypeSticker || m.StickerEmoji == nil {
		return
	}
	a.Add(m.Author, *m.StickerEmoji, 1)
}

func updateDayNight(a Accumulator, m *export.Message) {
	a.Add(m.Author, dayBuckets[m.SendTime.Hour()/6], 1)
}

func updateLinks(a Accumulator, m *export.Message) {
	for _, site := range m.LinkSites {
		a.Add(m.Author, site, 1)
	}
}
