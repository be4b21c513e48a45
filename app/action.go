package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/markusmobius/go-dateparser"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/gsbellu/mindfulday/catalog"
	"github.com/gsbellu/mindfulday/config"
	"github.com/gsbellu/mindfulday/internal/timeutil"
	"github.com/gsbellu/mindfulday/internal/ui"
	"github.com/gsbellu/mindfulday/remote"
	"github.com/gsbellu/mindfulday/session"
	"github.com/gsbellu/mindfulday/stats"
	"github.com/gsbellu/mindfulday/store"
	"github.com/gsbellu/mindfulday/syncer"
	"github.com/gsbellu/mindfulday/timer"
)

var errNoUpdateURL = errors.New(
	"no update endpoint configured: set update.url in the config file",
)

// tracker bundles everything a command needs to operate on the session
// record.
type tracker struct {
	cfg     *config.Config
	db      store.DB
	machine *session.Machine
	syncer  *syncer.Syncer
	cat     *catalog.Catalog
}

// firstNonEmptyString returns its first non-empty argument, or "" if
// all arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

// trackerHelper loads the config, opens the local store, and assembles
// the state machine with its sync adapter and catalog. The machine
// holds the locally stored state on return; remote reconciliation is
// the caller's choice.
func trackerHelper() (*tracker, error) {
	cfg, err := config.New(config.WithViperConfig(config.ConfigFilePath()))
	if err != nil {
		return nil, err
	}

	ui.DarkTheme = cfg.Display.DarkTheme

	db, err := store.NewClient(config.DBFilePath())
	if err != nil {
		return nil, err
	}

	deviceID, err := db.DeviceID()
	if err != nil {
		return nil, err
	}

	machine := session.New(cfg.Settings.WakeID, nil)

	var rem remote.Remote
	if cfg.Remote.BaseURL != "" {
		rem = remote.NewHTTP(cfg.Remote.BaseURL, cfg.Remote.RecordPath)
	}

	sync := syncer.New(machine, db, rem, deviceID)
	sync.LoadLocal()

	return &tracker{
		cfg:     cfg,
		db:      db,
		machine: machine,
		syncer:  sync,
		cat:     loadCatalog(cfg),
	}, nil
}

// loadCatalog resolves the activity catalog: the configured source
// first, then the default catalog in the data directory. Failures
// degrade to an empty catalog rather than blocking the tracker.
func loadCatalog(cfg *config.Config) *catalog.Catalog {
	sources := []string{}
	if cfg.Catalog.Source != "" {
		sources = append(sources, cfg.Catalog.Source)
	}

	sources = append(sources, config.CatalogFilePath())

	for _, src := range sources {
		cat, err := catalog.Load(src)
		if err != nil {
			pterm.Debug.Printfln("catalog source %s unavailable: %v", src, err)
			continue
		}

		return cat
	}

	return catalog.New(nil)
}

// defaultAction starts the interactive tracker.
func defaultAction(_ *cli.Context) error {
	t, err := trackerHelper()
	if err != nil {
		return err
	}

	defer t.db.Close()

	return timer.New(t.machine, t.syncer, t.cat, t.cfg).Run()
}

// logAction records a transition without opening the tracker. With no
// argument it prompts for the activity.
func logAction(ctx *cli.Context) error {
	t, err := trackerHelper()
	if err != nil {
		return err
	}

	defer t.db.Close()

	activityID := ctx.Args().First()
	if activityID == "" {
		activityID, err = promptActivity(t.cat)
		if err != nil {
			return err
		}
	}

	now := timeutil.NowMillis()

	if at := ctx.String("at"); at != "" {
		dt, perr := dateparser.Parse(nil, at)
		if perr != nil {
			return fmt.Errorf("unable to parse --at value %q: %w", at, perr)
		}

		now = timeutil.ToMillis(dt.Time)
	}

	ev := t.machine.Transition(activityID, now)

	_ = t.syncer.Persist()

	if ev.Closed != nil {
		pterm.Info.Printfln(
			"%s ran for %s",
			t.cat.Get(ev.Closed.ActivityID).Label,
			timeutil.FormatCompact(ev.Closed.Duration),
		)
	}

	if ev.Rotated {
		pterm.Info.Println("Previous day archived")
	}

	pterm.Success.Printfln(
		"Now tracking: %s",
		ui.Green(t.cat.Get(activityID).Label),
	)

	return nil
}

// promptActivity asks the user to pick an activity from the catalog.
func promptActivity(cat *catalog.Catalog) (string, error) {
	defs := cat.Defs()
	if len(defs) == 0 {
		return "", errors.New("the activity catalog is empty")
	}

	options := make([]huh.Option[string], len(defs))
	for i, def := range defs {
		options[i] = huh.NewOption(def.Label, def.ID)
	}

	var selected string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which activity?").
				Options(options...).
				Value(&selected),
		),
	)

	err := form.Run()
	if err != nil {
		return "", fmt.Errorf("activity selection failed: %w", err)
	}

	return selected, nil
}

// statusAction prints the current activity and the day timer.
func statusAction(ctx *cli.Context) error {
	t, err := trackerHelper()
	if err != nil {
		return err
	}

	defer t.db.Close()

	state := t.machine.State()

	if ctx.Bool("json") {
		b, jerr := json.Marshal(state)
		if jerr != nil {
			return jerr
		}

		pterm.Println(string(b))

		return nil
	}

	now := timeutil.NowMillis()

	if state.Running() {
		def := t.cat.Get(state.CurrentActivityID)
		pterm.Printfln(
			"%s: %s",
			ui.Green(def.Label),
			timeutil.FormatClock(state.CurrentElapsed(now)),
		)
	} else {
		pterm.Println("No activity running")
	}

	pterm.Printfln("Day: %s", timeutil.FormatClock(state.DayElapsed(now)))

	return nil
}

// summaryAction prints per-activity totals for today or the archived
// previous day.
func summaryAction(ctx *cli.Context) error {
	t, err := trackerHelper()
	if err != nil {
		return err
	}

	defer t.db.Close()

	state := t.machine.State()

	var summaries []stats.ActivitySummary

	if ctx.Bool("yesterday") {
		if state.Yesterday == nil {
			pterm.Println("No archived day yet")
			return nil
		}

		// frozen snapshot: no in-progress span to fold in
		summaries = stats.Summarize(state.Yesterday.History, t.cat, "", 0, 0)
	} else {
		summaries = stats.Summarize(
			state.History,
			t.cat,
			state.CurrentActivityID,
			state.CurrentActivityStartTime,
			timeutil.NowMillis(),
		)
	}

	stats.SortByFirstOccurrence(summaries, ctx.Bool("desc"))

	stats.List(os.Stdout, summaries, t.cfg.Settings.TwentyFourHour)

	return nil
}

// syncAction reconciles with the remote record and pushes the result.
func syncAction(_ *cli.Context) error {
	t, err := trackerHelper()
	if err != nil {
		return err
	}

	defer t.db.Close()

	if t.cfg.Remote.BaseURL == "" {
		return errors.New(
			"sync is not configured: set remote.base_url in the config file",
		)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err = t.syncer.FetchRemote(ctx)
	if err != nil {
		return fmt.Errorf("fetching remote record: %w", err)
	}

	err = t.syncer.Persist()
	if err != nil {
		pterm.Warning.Printfln("local save failed: %v", err)
	}

	state := t.machine.State()

	pterm.Success.Println("Synced with remote record")

	if state.Running() {
		pterm.Printfln(
			"Current activity: %s",
			ui.Green(t.cat.Get(state.CurrentActivityID).Label),
		)
	}

	return nil
}

// checkUpdateAction alerts the user if a newer version of MindfulDay
// has been published.
func checkUpdateAction(_ *cli.Context) error {
	cfg, err := config.New(config.WithViperConfig(config.ConfigFilePath()))
	if err != nil {
		return err
	}

	if cfg.Update.URL == "" {
		return errNoUpdateURL
	}

	spinner, _ := pterm.DefaultSpinner.Start("Checking for updates...")

	c := http.Client{Timeout: 10 * time.Second}

	resp, err := c.Get(
		fmt.Sprintf("%s?t=%d", cfg.Update.URL, timeutil.NowMillis()),
	)
	if err != nil {
		spinner.Fail("HTTP Error: failed to check for update")
		return nil
	}

	defer resp.Body.Close()

	var payload struct {
		Version string `json:"version"`
	}

	err = json.NewDecoder(resp.Body).Decode(&payload)
	if err != nil {
		spinner.Fail("Failed to read published version")
		return nil
	}

	if payload.Version == config.Version {
		spinner.Success(
			"Congratulations, you are using the latest version of MindfulDay",
		)
	} else {
		spinner.Stop()
		pterm.Warning.Prefix = pterm.Prefix{
			Text:  "UPDATE AVAILABLE",
			Style: pterm.NewStyle(pterm.BgYellow, pterm.FgBlack),
		}
		pterm.Warning.Printfln("A new release is published: %s", payload.Version)
	}

	return nil
}

// editConfigAction opens the config file in the user's default text
// editor.
func editConfigAction(_ *cli.Context) error {
	defaultEditor := "nano"

	if runtime.GOOS == "windows" {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	cmd := exec.Command(editor, config.ConfigFilePath())

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}
