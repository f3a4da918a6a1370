package analyze

import (
	"sort"
	"time"

	"github.com/tgstats/tgstats/internal/export"
)

// TimeRange bounds a scan. Both ends are inclusive; a zero Start or
// End leaves that side unbounded.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range.
func (r TimeRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

// window locates the slice of msgs whose SendTime lies in r, relying
// on the export's chronological order. Both bounds are found with
// binary search; an empty intersection yields an empty slice.
func window(msgs []export.Message, r TimeRange) []export.Message {
	lo := 0
	if !r.Start.IsZero() {
		lo = sort.Search(len(msgs), func(i int) bool {
			return !msgs[i].SendTime.Before(r.Start)
		})
	}
	hi := len(msgs)
	if !r.End.IsZero() {
		hi = sort.Search(len(msgs), func(i int) bool {
			return msgs[i].SendTime.After(r.End)
		})
	}
	if hi < lo {
		hi = lo
	}
	return msgs[lo:hi]
}
