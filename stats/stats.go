// Package stats derives per-activity aggregates from a day's history.
package stats

import (
	"sort"

	"github.com/maruel/natural"

	"github.com/gsbellu/mindfulday/catalog"
	"github.com/gsbellu/mindfulday/internal/models"
)

// ActivitySummary aggregates one activity's spans within a day.
// FirstOccurrence is zero for activities that never occurred.
type ActivitySummary struct {
	ActivityID      string
	Label           string
	Icon            string
	Count           int
	TotalDurationMs int64
	FirstOccurrence int64
}

// Summarize folds the given history into one summary per catalog
// activity, in catalog order. Entries referencing ids absent from the
// catalog are appended after the catalog entries, resolved through the
// catalog's fallback definition.
//
// When currentID is non-empty, the in-progress span (currentStart to
// now) is folded into its activity as well: pass it only for the live
// "today" history, never for a frozen yesterday snapshot.
func Summarize(
	entries []models.HistoryEntry,
	cat *catalog.Catalog,
	currentID string,
	currentStart, now int64,
) []ActivitySummary {
	summaries := make([]ActivitySummary, 0, cat.Len())
	index := make(map[string]int, cat.Len())

	for _, def := range cat.Defs() {
		index[def.ID] = len(summaries)
		summaries = append(summaries, ActivitySummary{
			ActivityID: def.ID,
			Label:      def.Label,
			Icon:       def.Icon,
		})
	}

	fold := func(id string, duration, startTime int64) {
		i, ok := index[id]
		if !ok {
			def := cat.Get(id)
			i = len(summaries)
			index[id] = i
			summaries = append(summaries, ActivitySummary{
				ActivityID: def.ID,
				Label:      def.Label,
				Icon:       def.Icon,
			})
		}

		s := &summaries[i]
		s.Count++
		s.TotalDurationMs += duration

		if s.FirstOccurrence == 0 || startTime < s.FirstOccurrence {
			s.FirstOccurrence = startTime
		}
	}

	for _, entry := range entries {
		fold(entry.ActivityID, entry.Duration, entry.StartTime)
	}

	if currentID != "" {
		fold(currentID, now-currentStart, currentStart)
	}

	return summaries
}

// SortByFirstOccurrence orders summaries by when each activity first
// occurred. Activities that never occurred sort last regardless of
// direction; ties break on natural label order.
func SortByFirstOccurrence(summaries []ActivitySummary, descending bool) {
	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]

		if (a.FirstOccurrence == 0) != (b.FirstOccurrence == 0) {
			return b.FirstOccurrence == 0
		}

		if a.FirstOccurrence != b.FirstOccurrence {
			if descending {
				return a.FirstOccurrence > b.FirstOccurrence
			}

			return a.FirstOccurrence < b.FirstOccurrence
		}

		return natural.Less(a.Label, b.Label)
	})
}
