package timer

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/davecgh/go-spew/spew"

	"github.com/gsbellu/mindfulday/internal/timeutil"
)

func (t *Tracker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		t.clock = timeutil.NowMillis()

		t.checkOverrun(t.clock)

		return t, tick()

	case remoteFetchedMsg:
		if msg.err != nil {
			// degrade to local-only; activities keep logging
			slog.Warn("startup remote fetch failed", slog.Any("error", msg.err))
		}

		return t, nil

	case remoteMsg:
		slog.Debug(spew.Sdump(msg.state))

		if t.syncer.Apply(msg.state) {
			t.overrunSent = false
		}

		return t, t.waitForUpdate()

	case tea.KeyMsg:
		return t.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		t.width = msg.Width

		t.progress.Width = msg.Width - padding*2 - 4
		if t.progress.Width > maxWidth {
			t.progress.Width = maxWidth
		}

		return t, nil

		// FrameMsg is sent when the progress bar wants to animate itself
	case progress.FrameMsg:
		var cmd tea.Cmd

		progressModel, cmd := t.progress.Update(msg)
		t.progress, _ = progressModel.(progress.Model)

		return t, cmd
	}

	return t, nil
}

func (t *Tracker) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := t.cat.Len()

	switch {
	case key.Matches(msg, defaultKeymap.quit):
		if t.cancel != nil {
			t.cancel()
		}

		return t, tea.Batch(tea.ClearScreen, tea.Quit)

	case key.Matches(msg, defaultKeymap.summary):
		t.showSummary = !t.showSummary
		return t, nil

	case key.Matches(msg, defaultKeymap.enter):
		if n == 0 {
			return t, nil
		}

		t.tap(t.cat.Defs()[t.cursor].ID)

		return t, nil

	case key.Matches(msg, defaultKeymap.up):
		if t.cursor-gridColumns >= 0 {
			t.cursor -= gridColumns
		}

	case key.Matches(msg, defaultKeymap.down):
		if t.cursor+gridColumns < n {
			t.cursor += gridColumns
		}

	case key.Matches(msg, defaultKeymap.left):
		if t.cursor > 0 {
			t.cursor--
		}

	case key.Matches(msg, defaultKeymap.right):
		if t.cursor < n-1 {
			t.cursor++
		}

	default:
		// digits jump straight to the first nine activities
		r := msg.String()
		if len(r) == 1 && r[0] >= '1' && r[0] <= '9' {
			i := int(r[0] - '1')
			if i < n {
				t.tap(t.cat.Defs()[i].ID)
			}
		}
	}

	return t, nil
}
