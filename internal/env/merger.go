package env

import (
	"github.com/zjrosen/strata/internal/log"
)

// SentinelSourceName is the designated lowest-precedence source. Whenever the
// commit pass runs it is re-appended last so every loaded source outranks it.
const SentinelSourceName = "defaultProperties"

// Merger inserts loaded property sources into a destination collection while
// preserving global precedence. The first source is placed immediately above
// the sentinel (or last when no sentinel exists); each subsequent source is
// chained directly after the previously inserted one. A source whose name is
// already present in the destination is skipped: first writer wins per name,
// which keeps duplicate candidate locations from inserting twice.
type Merger struct {
	dest      *MutablePropertySources
	lastAdded string
}

// NewMerger creates a merger over the destination collection.
func NewMerger(dest *MutablePropertySources) *Merger {
	return &Merger{dest: dest}
}

// Add inserts one source per the chaining rules. Silently skips sources whose
// name already exists in the destination.
func (m *Merger) Add(src *PropertySource) {
	if m.dest.Contains(src.Name()) {
		log.Debug(log.CatConfig, "skipping already-present property source", "name", src.Name())
		return
	}
	if m.lastAdded == "" {
		if m.dest.Contains(SentinelSourceName) {
			// Relative source existence was checked above.
			_ = m.dest.AddBefore(SentinelSourceName, src)
		} else {
			m.dest.AddLast(src)
		}
	} else {
		_ = m.dest.AddAfter(m.lastAdded, src)
	}
	m.lastAdded = src.Name()
}

// MoveSentinelToEnd re-appends the sentinel source, if present, so it regains
// the lowest precedence after any insertion activity.
func MoveSentinelToEnd(sources *MutablePropertySources) {
	if src, ok := sources.Get(SentinelSourceName); ok {
		sources.Remove(SentinelSourceName)
		sources.AddLast(src)
	}
}
