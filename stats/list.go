package stats

import (
	"fmt"
	"io"

	"github.com/gsbellu/mindfulday/internal/timeutil"
	"github.com/gsbellu/mindfulday/internal/ui"
)

const noActivityMsg = "No activity recorded"

// List prints a summary table to the given writer, skipping activities
// that never occurred.
func List(
	w io.Writer,
	summaries []ActivitySummary,
	twentyFourHour bool,
) {
	tableBody := [][]string{
		{"ACTIVITY", "COUNT", "TOTAL", "FIRST SEEN"},
	}

	for _, s := range summaries {
		if s.Count == 0 {
			continue
		}

		tableBody = append(tableBody, []string{
			s.Label,
			fmt.Sprintf("%d", s.Count),
			timeutil.FormatCompact(s.TotalDurationMs),
			timeutil.FormatStamp(s.FirstOccurrence, twentyFourHour),
		})
	}

	if len(tableBody) == 1 {
		fmt.Fprintln(w, noActivityMsg)
		return
	}

	ui.PrintTable(tableBody, w)
}
