// Package app creates the command-line interface.
package app

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/gsbellu/mindfulday/config"
)

const (
	envNoColor           = "NO_COLOR"
	envMindfulDayNoColor = "MINDFULDAY_NO_COLOR"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// Get retrieves the mindfulday app instance.
func Get() *cli.App {
	mindfulApp := &cli.App{
		Name: "mindfulday",
		Usage: `
		MindfulDay tracks your day one activity at a time. Tap an activity to
		start timing it; tapping the wake activity archives the previous day
		and begins a new one. State syncs across devices through a shared
		remote record.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:      "log",
				Usage:     "Record an activity transition without opening the tracker",
				ArgsUsage: "[ACTIVITY_ID]",
				Flags:     []cli.Flag{atFlag},
				Action:    logAction,
			},
			{
				Name:   "status",
				Usage:  "Print the current activity and the day timer",
				Flags:  []cli.Flag{jsonFlag},
				Action: statusAction,
			},
			{
				Name:   "summary",
				Usage:  "Show per-activity totals for today or yesterday",
				Flags:  []cli.Flag{yesterdayFlag, descFlag},
				Action: summaryAction,
			},
			{
				Name:   "sync",
				Usage:  "Reconcile with the remote record and push the local state",
				Action: syncAction,
			},
			{
				Name:   "check-update",
				Usage:  "Check whether a newer version has been published",
				Action: checkUpdateAction,
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags: []cli.Flag{
			noColorFlag,
			verboseFlag,
		},
		Action: defaultAction,
		Before: beforeAction,
	}

	return mindfulApp
}

func beforeAction(ctx *cli.Context) error {
	if _, ok := os.LookupEnv(envNoColor); ok {
		disableStyling()
	}

	if _, ok := os.LookupEnv(envMindfulDayNoColor); ok {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	config.InitializePaths()

	config.InitLogger(ctx.Bool("verbose"))

	return nil
}
