// Package config is responsible for loading the program configuration
// from the config file and resolving the application's data paths.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pterm/pterm"
)

type (
	// Config holds all configuration settings.
	Config struct {
		Remote       RemoteConfig
		Catalog      CatalogConfig
		Settings     SettingsConfig
		Notification NotificationConfig
		Display      DisplayConfig
		Update       UpdateConfig
	}

	// RemoteConfig locates the shared remote record. The record is a
	// single JSON document reachable at BaseURL + RecordPath. Sync is
	// disabled when BaseURL is empty.
	RemoteConfig struct {
		BaseURL    string
		RecordPath string
	}

	// CatalogConfig locates the activity catalog source. Source may be
	// an http(s) URL or a local file path; when empty, the compiled-in
	// default catalog in the data directory is used.
	CatalogConfig struct {
		Source string
	}

	// SettingsConfig holds behavioral settings.
	SettingsConfig struct {
		WakeID         string
		Cmd            string
		TwentyFourHour bool
	}

	// NotificationConfig holds desktop notification settings.
	NotificationConfig struct {
		Enabled bool
	}

	// DisplayConfig holds display-related settings.
	DisplayConfig struct {
		DarkTheme bool
	}

	// UpdateConfig holds the version-check endpoint.
	UpdateConfig struct {
		URL string
	}

	// Option is a function that modifies Config.
	Option func(*Config) error
)

const Version = "v1.2.0"

// DefaultWakeID is the activity id that triggers a day rotation.
const DefaultWakeID = "wakeup"

var (
	configDir       = "mindfulday"
	configFileName  = "config.yml"
	dbFileName      = "mindfulday.db"
	logFileName     = "mindfulday.log"
	catalogFileName = "activities.json"
	dbFilePath      string
	configFilePath  string
	logFilePath     string
	catalogFilePath string
)

func DBFilePath() string {
	return dbFilePath
}

func ConfigFilePath() string {
	return configFilePath
}

func LogFilePath() string {
	return logFilePath
}

// CatalogFilePath is where the compiled-in default catalog is written
// on first run, and the fallback catalog source.
func CatalogFilePath() string {
	return catalogFilePath
}

// InitializePaths resolves the XDG locations for the config file, the
// database, the log file, and the default catalog. A MINDFULDAY_ENV
// value suffixes the file names so tests and development builds do not
// touch real data.
func InitializePaths() {
	env := strings.TrimSpace(os.Getenv("MINDFULDAY_ENV"))
	if env != "" {
		configFileName = fmt.Sprintf("config_%s.yml", env)
		dbFileName = fmt.Sprintf("mindfulday_%s.db", env)
		logFileName = fmt.Sprintf("mindfulday_%s.log", env)
		catalogFileName = fmt.Sprintf("activities_%s.json", env)
	}

	var err error

	relPath := filepath.Join(configDir, configFileName)

	configFilePath, err = xdg.ConfigFile(relPath)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	dbFilePath, err = xdg.DataFile(filepath.Join(configDir, dbFileName))
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	logFilePath, err = xdg.DataFile(filepath.Join(configDir, logFileName))
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	catalogFilePath, err = xdg.DataFile(filepath.Join(configDir, catalogFileName))
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

// New creates a Config from the supplied options, applied in order.
func New(opts ...Option) (*Config, error) {
	cfg := defaultConfig()

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Settings: SettingsConfig{
			WakeID: DefaultWakeID,
		},
		Notification: NotificationConfig{
			Enabled: true,
		},
	}
}
