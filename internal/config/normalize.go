package config

import (
	"fmt"
	"strings"
	"time"
)

func (c *Config) normalize() error {
	if err := c.normalizeStation(); err != nil {
		return err
	}
	if err := c.normalizeFiles(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	return nil
}

func (c *Config) normalizeStation() error {
	c.Station.ListingURL = strings.TrimSpace(c.Station.ListingURL)
	if c.Station.ListingURL == "" {
		c.Station.ListingURL = defaultListingURL
	}
	c.Station.StreamBaseURL = strings.TrimSpace(c.Station.StreamBaseURL)
	if c.Station.StreamBaseURL == "" {
		c.Station.StreamBaseURL = defaultStreamBaseURL
	}
	c.Station.FFmpegBinary = strings.TrimSpace(c.Station.FFmpegBinary)
	if c.Station.FFmpegBinary == "" {
		c.Station.FFmpegBinary = defaultFFmpegBinary
	}

	c.Station.Timezone = strings.TrimSpace(c.Station.Timezone)
	if c.Station.Timezone == "" {
		c.location = time.Local
		return nil
	}
	loc, err := time.LoadLocation(c.Station.Timezone)
	if err != nil {
		return fmt.Errorf("station.timezone: %w", err)
	}
	c.location = loc
	return nil
}

func (c *Config) normalizeFiles() error {
	var err error
	if c.Cache.File = strings.TrimSpace(c.Cache.File); c.Cache.File != "" {
		if c.Cache.File, err = expandPath(c.Cache.File); err != nil {
			return fmt.Errorf("cache.file: %w", err)
		}
	}
	if c.Journal.File = strings.TrimSpace(c.Journal.File); c.Journal.File != "" {
		if c.Journal.File, err = expandPath(c.Journal.File); err != nil {
			return fmt.Errorf("journal.file: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
