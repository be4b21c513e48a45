package main

import (
	"embed"
	"errors"
	"io/fs"
	"os"

	"github.com/pterm/pterm"

	"github.com/gsbellu/mindfulday/app"
	"github.com/gsbellu/mindfulday/config"
)

//go:embed static/activities.json
var static embed.FS

// init writes the compiled-in default activity catalog to the data
// directory on first run so a fresh install works offline. The resolved
// catalog path carries the MINDFULDAY_ENV suffix, so dev and test runs
// each get their own copy.
func init() {
	config.InitializePaths()

	b, err := fs.ReadFile(static, "static/activities.json")
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	pathToFile := config.CatalogFilePath()

	if _, err = os.Stat(pathToFile); errors.Is(err, fs.ErrNotExist) {
		_ = os.WriteFile(pathToFile, b, os.ModePerm)
	}
}

func run(args []string) error {
	return app.Get().Run(args)
}

func main() {
	err := run(os.Args)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
