// Package analyze computes per-author statistics over parsed chats.
// Callers select a set of features and a time window; the engine
// walks each chat's in-window messages once, dispatching every
// message to each selected feature's accumulator.
package analyze

import (
	"fmt"
	"sort"
	"sync"

	"github.com/tgstats/tgstats/internal/export"
)

// maxWorkers caps concurrent per-chat scans in AnalyzeParallel.
const maxWorkers = 8

// Selection names the features a run should compute. Only entries
// with a true flag take part; a false entry is as good as absent.
type Selection map[Feature]bool

// ParseSelection validates a list of feature names. Unknown names
// fail the whole run before any scanning starts.
func ParseSelection(names []string) (Selection, error) {
	sel := make(Selection, len(names))
	for _, name := range names {
		f := Feature(name)
		if !Known(f) {
			return nil, &ConfigError{Feature: name}
		}
		sel[f] = true
	}
	return sel, nil
}

// ConfigError reports a selected feature with no implementation.
type ConfigError struct {
	Feature string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("unknown feature %q", e.Feature)
}

// Stats holds one accumulator per (feature, chat) pair. Chats whose
// window held no relevant messages still get an entry, with an empty
// accumulator.
type Stats map[Feature]map[int64]Accumulator

// ChatIndex resolves chat ids in Stats back to their chats.
type ChatIndex map[int64]*export.Chat

// Result bundles a run's statistics with the chats they describe.
type Result struct {
	Stats Stats
	Index ChatIndex
}

// ChatIDs returns the analyzed chat ids in ascending order.
func (r *Result) ChatIDs() []int64 {
	ids := make([]int64, 0, len(r.Index))
	for id := range r.Index {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Progress is called after each chat finishes scanning. done counts
// completed chats out of total.
type Progress func(done, total int)

// Analyze scans every chat sequentially. The zero TimeRange scans
// each chat end to end.
func Analyze(
	chats []export.Chat, sel Selection, tr TimeRange,
) (*Result, error) {
	return analyze(chats, sel, tr, 1, nil)
}

// AnalyzeParallel scans chats with a bounded worker pool, reporting
// per-chat completion through progress when it is non-nil. Results
// are identical to Analyze for the same inputs.
func AnalyzeParallel(
	chats []export.Chat, sel Selection, tr TimeRange,
	progress Progress,
) (*Result, error) {
	return analyze(chats, sel, tr, maxWorkers, progress)
}

func analyze(
	chats []export.Chat, sel Selection, tr TimeRange,
	workers int, progress Progress,
) (*Result, error) {
	for f, on := range sel {
		if !on {
			continue
		}
		if !Known(f) {
			return nil, &ConfigError{Feature: string(f)}
		}
	}

	res := &Result{
		Stats: make(Stats, len(sel)),
		Index: make(ChatIndex, len(chats)),
	}
	for f, on := range sel {
		if on {
			res.Stats[f] = make(map[int64]Accumulator, len(chats))
		}
	}
	for i := range chats {
		res.Index[chats[i].ID] = &chats[i]
	}

	if workers > len(chats) {
		workers = len(chats)
	}
	if workers <= 1 {
		for i := range chats {
			scanChat(res, &chats[i], sel, tr)
			if progress != nil {
				progress(i+1, len(chats))
			}
		}
		return res, nil
	}

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		done int
	)
	jobs := make(chan *export.Chat)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for chat := range jobs {
				scans := scanFeatures(chat, sel, tr)
				mu.Lock()
				for f, acc := range scans {
					res.Stats[f][chat.ID] = acc
				}
				done++
				if progress != nil {
					progress(done, len(chats))
				}
				mu.Unlock()
			}
		}()
	}
	for i := range chats {
		jobs <- &chats[i]
	}
	close(jobs)
	wg.Wait()
	return res, nil
}

// scanChat runs one sequential chat scan straight into res.
func scanChat(
	res *Result, chat *export.Chat, sel Selection, tr TimeRange,
) {
	for f, acc := range scanFeatures(chat, sel, tr) {
		res.Stats[f][chat.ID] = acc
	}
}

// scanFeatures walks a chat's in-window messages once, feeding each
// message to every selected feature.
func scanFeatures(
	chat *export.Chat, sel Selection, tr TimeRange,
) map[Feature]Accumulator {
	accs := make(map[Feature]Accumulator, len(sel))
	for f, on := range sel {
		if on {
			accs[f] = make(Accumulator)
		}
	}
	msgs := window(chat.Messages, tr)
	for i := range msgs {
		for f, acc := range accs {
			registry[f].update(acc, &msgs[i])
		}
	}
	return accs
}
