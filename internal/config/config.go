package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Station contains the broadcaster endpoints and schedule interpretation.
type Station struct {
	ListingURL    string `toml:"listing_url"`
	StreamBaseURL string `toml:"stream_base_url"`
	Timezone      string `toml:"timezone"`
	FFmpegBinary  string `toml:"ffmpeg_binary"`
}

// Cache contains configuration for the detail payload cache.
type Cache struct {
	Enabled bool   `toml:"enabled"`
	File    string `toml:"file"`
}

// Journal contains configuration for the run journal database.
type Journal struct {
	Enabled bool   `toml:"enabled"`
	File    string `toml:"file"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Config encapsulates all configuration values for aircheck.
//
// Configuration sections by subsystem:
//   - Station: listing and stream endpoints, schedule timezone, ffmpeg binary
//   - Cache: detail payload cache location and toggle
//   - Journal: run journal database location and toggle
//   - Logging: log format and level
//   - Notifications: ntfy push notification settings
//   - Sections: ordered archiving rules, matched first-hit-wins
type Config struct {
	Station       Station       `toml:"station"`
	Cache         Cache         `toml:"cache"`
	Journal       Journal       `toml:"journal"`
	Logging       Logging       `toml:"logging"`
	Notifications Notifications `toml:"notifications"`
	Sections      []Section     `toml:"-"`

	location *time.Location
}

// rawConfig mirrors Config for decoding. Sections stay generic maps so
// the reserved Tag* key prefix and unknown-key errors can be handled by
// hand while the file's section order survives.
type rawConfig struct {
	Station       Station          `toml:"station"`
	Cache         Cache            `toml:"cache"`
	Journal       Journal          `toml:"journal"`
	Logging       Logging          `toml:"logging"`
	Notifications Notifications    `toml:"notifications"`
	Sections      []map[string]any `toml:"section"`
}

// DefaultConfigPath returns the absolute path to the default
// configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/aircheck/config.toml")
}

// Load parses and validates the configuration file at path. The
// returned config has paths expanded, the timezone resolved, and every
// section's match rule compiled.
func Load(path string) (*Config, error) {
	expanded, err := expandPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(expanded)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	cfg := Default()
	raw := rawConfig{
		Station:       cfg.Station,
		Cache:         cfg.Cache,
		Journal:       cfg.Journal,
		Logging:       cfg.Logging,
		Notifications: cfg.Notifications,
	}

	decoder := toml.NewDecoder(file)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.Station = raw.Station
	cfg.Cache = raw.Cache
	cfg.Journal = raw.Journal
	cfg.Logging = raw.Logging
	cfg.Notifications = raw.Notifications

	if cfg.Sections, err = buildSections(raw.Sections); err != nil {
		return nil, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Location returns the timezone broadcasts are scheduled in.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// CacheFile returns the payload cache location for the given archive
// root. An empty string means the cache is disabled.
func (c *Config) CacheFile(basedir string) string {
	if !c.Cache.Enabled {
		return ""
	}
	if c.Cache.File != "" {
		return c.Cache.File
	}
	return filepath.Join(basedir, DefaultCacheFileName)
}

// JournalFile returns the run journal location for the given archive
// root. An empty string means the journal is disabled.
func (c *Config) JournalFile(basedir string) string {
	if !c.Journal.Enabled {
		return ""
	}
	if c.Journal.File != "" {
		return c.Journal.File
	}
	return filepath.Join(basedir, DefaultJournalFileName)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
