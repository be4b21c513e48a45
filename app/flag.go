package app

import "github.com/urfave/cli/v2"

var (
	atFlag = &cli.StringFlag{
		Name:  "at",
		Usage: "Record the transition at a time in the past (e.g. '5 mins ago')",
	}

	yesterdayFlag = &cli.BoolFlag{
		Name:    "yesterday",
		Aliases: []string{"y"},
		Usage:   "Summarize the archived previous day instead of today",
	}

	descFlag = &cli.BoolFlag{
		Name:  "desc",
		Usage: "Sort the summary by most recent first occurrence",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the raw session record as JSON",
	}

	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	verboseFlag = &cli.BoolFlag{
		Name:  "verbose",
		Usage: "Enable debug logging",
	}
)
