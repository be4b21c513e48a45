// Package timer runs the interactive activity tracker: a grid of
// activity buttons, the current-activity and day-elapsed timers, and
// live application of snapshots arriving from other devices.
package timer

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"
	"github.com/kballard/go-shellquote"

	"github.com/gsbellu/mindfulday/catalog"
	"github.com/gsbellu/mindfulday/config"
	"github.com/gsbellu/mindfulday/internal/models"
	"github.com/gsbellu/mindfulday/internal/timeutil"
	"github.com/gsbellu/mindfulday/session"
	"github.com/gsbellu/mindfulday/syncer"
)

// typicalDayMs maps the day-elapsed timer onto the progress bar: a
// typical active day runs about sixteen hours, wake to sleep.
const typicalDayMs = 16 * 60 * 60 * 1000

const gridColumns = 6

type keymap struct {
	up      key.Binding
	down    key.Binding
	left    key.Binding
	right   key.Binding
	enter   key.Binding
	summary key.Binding
	quit    key.Binding
}

var defaultKeymap = keymap{
	up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "left"),
	),
	right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "right"),
	),
	enter: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "start activity"),
	),
	summary: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "toggle summary"),
	),
	quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Tracker is the bubbletea model for the activity tracker.
type Tracker struct {
	machine *session.Machine
	syncer  *syncer.Syncer
	cat     *catalog.Catalog
	opts    *config.Config

	updates <-chan *models.SessionState
	cancel  context.CancelFunc

	clock       int64 // last tick, epoch ms
	cursor      int
	width       int
	showSummary bool
	overrunSent bool

	progress progress.Model
	help     help.Model
	style    styles
}

type (
	tickMsg time.Time

	// remoteMsg carries one snapshot from the remote subscription.
	remoteMsg struct {
		state *models.SessionState
	}

	// remoteFetchedMsg reports the one-shot startup fetch.
	remoteFetchedMsg struct {
		err error
	}
)

// New creates the tracker model. The machine must already hold the
// locally loaded state.
func New(
	machine *session.Machine,
	sync *syncer.Syncer,
	cat *catalog.Catalog,
	cfg *config.Config,
) *Tracker {
	return &Tracker{
		machine:  machine,
		syncer:   sync,
		cat:      cat,
		opts:     cfg,
		clock:    timeutil.NowMillis(),
		progress: progress.New(progress.WithDefaultGradient()),
		help:     help.New(),
		style:    newStyles(cfg.Display.DarkTheme),
	}
}

// Run starts the remote subscription and blocks on the TUI program
// until the user quits.
func (t *Tracker) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel

	defer cancel()

	updates, err := t.syncer.Subscribe(ctx)
	if err != nil {
		slog.Warn("starting remote subscription", slog.Any("error", err))
	}

	t.updates = updates

	_, err = tea.NewProgram(t).Run()

	return err
}

func (t *Tracker) Init() tea.Cmd {
	cmds := []tea.Cmd{tick(), t.fetchRemote()}

	if t.updates != nil {
		cmds = append(cmds, t.waitForUpdate())
	}

	return tea.Batch(cmds...)
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(ts time.Time) tea.Msg {
		return tickMsg(ts)
	})
}

// fetchRemote performs the one-shot startup fetch. The UI keeps
// rendering the local copy until it completes.
func (t *Tracker) fetchRemote() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(
			context.Background(),
			30*time.Second,
		)
		defer cancel()

		return remoteFetchedMsg{err: t.syncer.FetchRemote(ctx)}
	}
}

// waitForUpdate receives a single remote snapshot; Update re-issues it
// after each delivery.
func (t *Tracker) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		state, ok := <-t.updates
		if !ok {
			return nil
		}

		return remoteMsg{state: state}
	}
}

// tap applies a transition for the given activity and persists the
// result.
func (t *Tracker) tap(activityID string) {
	now := timeutil.NowMillis()

	ev := t.machine.Transition(activityID, now)

	t.overrunSent = false

	if ev.Closed != nil {
		slog.Info(
			"closed activity span",
			slog.String("activity", ev.Closed.ActivityID),
			slog.Int64("duration_ms", ev.Closed.Duration),
		)
	}

	if ev.Rotated {
		slog.Info("day rotated", slog.Int64("day_start", now))
	}

	_ = t.syncer.Persist()

	t.runPostCmd()
}

// runPostCmd executes the configured post-transition command, if any.
func (t *Tracker) runPostCmd() {
	if t.opts.Settings.Cmd == "" {
		return
	}

	cmdSlice, err := shellquote.Split(t.opts.Settings.Cmd)
	if err != nil || len(cmdSlice) == 0 {
		slog.Warn("unable to parse settings.cmd", slog.Any("error", err))
		return
	}

	go func() {
		cmd := exec.Command(cmdSlice[0], cmdSlice[1:]...)

		if rerr := cmd.Run(); rerr != nil {
			slog.Warn("settings.cmd failed", slog.Any("error", rerr))
		}
	}()
}

// checkOverrun sends a single desktop notification when the running
// activity exceeds its target duration.
func (t *Tracker) checkOverrun(now int64) {
	if !t.opts.Notification.Enabled || t.overrunSent {
		return
	}

	state := t.machine.State()
	if !state.Running() {
		return
	}

	def := t.cat.Get(state.CurrentActivityID)
	if def.TargetDurationMinutes <= 0 {
		return
	}

	target := int64(def.TargetDurationMinutes) * 60 * 1000
	if state.CurrentElapsed(now) < target {
		return
	}

	t.overrunSent = true

	title := fmt.Sprintf("%s has passed its target", def.Label)
	msg := fmt.Sprintf(
		"Running for %s (target %d min)",
		timeutil.FormatCompact(state.CurrentElapsed(now)),
		def.TargetDurationMinutes,
	)

	if err := beeep.Notify(title, msg, ""); err != nil {
		slog.Warn("unable to display notification", slog.Any("error", err))
	}
}
