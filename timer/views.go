package timer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/gsbellu/mindfulday/internal/timeutil"
	"github.com/gsbellu/mindfulday/stats"
)

const (
	padding  = 2
	maxWidth = 80
)

type styles struct {
	title    lipgloss.Style
	timer    lipgloss.Style
	hint     lipgloss.Style
	cell     lipgloss.Style
	cursor   lipgloss.Style
	active   lipgloss.Style
	doc      lipgloss.Style
	faint    lipgloss.Style
	tableRow lipgloss.Style
}

func newStyles(darkTheme bool) styles {
	accent := lipgloss.Color("5")
	if darkTheme {
		accent = lipgloss.Color("13")
	}

	return styles{
		title:  lipgloss.NewStyle().Bold(true),
		timer:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		hint:   lipgloss.NewStyle().Faint(true),
		cell:   lipgloss.NewStyle().Padding(0, 1),
		cursor: lipgloss.NewStyle().Padding(0, 1).Reverse(true),
		active: lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(accent),
		doc:      lipgloss.NewStyle().Padding(1, padding),
		faint:    lipgloss.NewStyle().Faint(true),
		tableRow: lipgloss.NewStyle().PaddingRight(2),
	}
}

func (t *Tracker) View() string {
	var s strings.Builder

	s.WriteString(t.timersView())
	s.WriteString("\n\n")

	if t.showSummary {
		s.WriteString(t.summaryView())
	} else {
		s.WriteString(t.gridView())
	}

	s.WriteString("\n\n")
	s.WriteString(t.help.ShortHelpView([]key.Binding{
		defaultKeymap.enter,
		defaultKeymap.summary,
		defaultKeymap.quit,
	}))

	return t.style.doc.Render(s.String())
}

// timersView renders the current-activity and day timers with the day
// progress bar.
func (t *Tracker) timersView() string {
	var s strings.Builder

	state := t.machine.State()

	if state.Running() {
		def := t.cat.Get(state.CurrentActivityID)

		s.WriteString(t.style.title.Render(def.Label))
		s.WriteString("  ")
		s.WriteString(t.style.timer.Render(
			timeutil.FormatClock(state.CurrentElapsed(t.clock)),
		))
	} else {
		s.WriteString(t.style.hint.Render("No activity running"))
	}

	s.WriteString("\n\n")
	s.WriteString("Day ")
	s.WriteString(t.style.timer.Render(
		timeutil.FormatClock(state.DayElapsed(t.clock)),
	))
	s.WriteString("\n")

	percent := float64(state.DayElapsed(t.clock)) / float64(typicalDayMs)
	if percent > 1 {
		percent = 1
	}

	s.WriteString(t.progress.ViewAs(percent))

	return s.String()
}

// gridView renders the activity buttons, six per row.
func (t *Tracker) gridView() string {
	defs := t.cat.Defs()
	if len(defs) == 0 {
		return t.style.hint.Render(
			"No activities configured. Check catalog.source in the config file.",
		)
	}

	state := t.machine.State()

	var rows []string

	for start := 0; start < len(defs); start += gridColumns {
		end := start + gridColumns
		if end > len(defs) {
			end = len(defs)
		}

		var cells []string

		for i := start; i < end; i++ {
			label := defs[i].Label

			style := t.style.cell
			switch {
			case i == t.cursor:
				style = t.style.cursor
			case defs[i].ID == state.CurrentActivityID:
				style = t.style.active
			}

			cells = append(cells, style.Render(label))
		}

		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return strings.Join(rows, "\n")
}

// summaryView renders today's per-activity aggregates, most recent
// first.
func (t *Tracker) summaryView() string {
	state := t.machine.State()

	summaries := stats.Summarize(
		state.History,
		t.cat,
		state.CurrentActivityID,
		state.CurrentActivityStartTime,
		t.clock,
	)

	stats.SortByFirstOccurrence(summaries, true)

	var s strings.Builder

	s.WriteString(t.style.title.Render("Today"))
	s.WriteString("\n\n")

	var any bool

	for _, sum := range summaries {
		if sum.Count == 0 {
			continue
		}

		any = true

		s.WriteString(t.style.tableRow.Render(
			fmt.Sprintf("%-14s", sum.Label),
		))
		s.WriteString(fmt.Sprintf(
			"%2d× %10s",
			sum.Count,
			timeutil.FormatCompact(sum.TotalDurationMs),
		))
		s.WriteString("\n")
	}

	if !any {
		s.WriteString(t.style.faint.Render("Nothing logged yet"))
	}

	return s.String()
}
