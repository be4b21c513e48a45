package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// viperKeys defines the mapping between config keys and their Viper
// counterparts.
const (
	keyRemoteBaseURL    = "remote.base_url"
	keyRemoteRecordPath = "remote.record_path"
	keyCatalogSource    = "catalog.source"
	keyWakeID           = "settings.wake_id"
	keySessionCmd       = "settings.cmd"
	keyTwentyFourHour   = "settings.24hr_clock"
	keyNotifyEnabled    = "notifications.enabled"
	keyDarkTheme        = "display.dark_theme"
	keyUpdateURL        = "update.url"
)

// WithViperConfig returns an Option that loads configuration from the
// YAML file at configPath, writing a default file first if none exists.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setViperDefaults(v)

		err := v.ReadInConfig()
		if err == nil {
			return loadViperConfig(v, c)
		}

		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("reading config file failed: %w", err)
		}

		if err := v.WriteConfig(); err != nil {
			return fmt.Errorf("writing default config failed: %w", err)
		}

		return loadViperConfig(v, c)
	}
}

func setViperDefaults(v *viper.Viper) {
	v.SetDefault(keyRemoteBaseURL, "")
	v.SetDefault(keyRemoteRecordPath, "/mindfulday/state")
	v.SetDefault(keyCatalogSource, "")
	v.SetDefault(keyWakeID, DefaultWakeID)
	v.SetDefault(keySessionCmd, "")
	v.SetDefault(keyTwentyFourHour, false)
	v.SetDefault(keyNotifyEnabled, true)
	v.SetDefault(keyDarkTheme, true)
	v.SetDefault(keyUpdateURL, "")
}

// loadViperConfig copies the resolved Viper values into the Config
// struct.
func loadViperConfig(v *viper.Viper, c *Config) error {
	c.Remote.BaseURL = v.GetString(keyRemoteBaseURL)
	c.Remote.RecordPath = v.GetString(keyRemoteRecordPath)
	c.Catalog.Source = v.GetString(keyCatalogSource)
	c.Settings.WakeID = v.GetString(keyWakeID)
	c.Settings.Cmd = v.GetString(keySessionCmd)
	c.Settings.TwentyFourHour = v.GetBool(keyTwentyFourHour)
	c.Notification.Enabled = v.GetBool(keyNotifyEnabled)
	c.Display.DarkTheme = v.GetBool(keyDarkTheme)
	c.Update.URL = v.GetString(keyUpdateURL)

	if c.Settings.WakeID == "" {
		c.Settings.WakeID = DefaultWakeID
	}

	return nil
}
