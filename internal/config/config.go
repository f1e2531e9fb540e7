package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"shiftcal/internal/schedule"
)

// NOTE: Load creates a default config file with 0600 permissions on first
// run, since it will hold the OCR secret.

// OCRConfig describes the CLOVA OCR endpoint.
type OCRConfig struct {
	// URL is the APIGW invoke URL of the OCR domain (general endpoint).
	URL string `yaml:"url" json:"url"`
	// Secret is sent as the X-OCR-SECRET header.
	Secret string `yaml:"secret" json:"-"`
	// Lang is the recognition language, "ko" by default.
	Lang string `yaml:"lang" json:"lang"`
	// TimeoutSeconds bounds a single OCR request.
	TimeoutSeconds int `yaml:"timeout_seconds" json:"timeout_seconds"`
}

// Timeout returns TimeoutSeconds as a duration.
func (o OCRConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutSeconds) * time.Second
}

// WatchConfig configures the inbox watcher.
type WatchConfig struct {
	// Inbox is scanned for *.json OCR responses and *.xlsx schedules.
	Inbox string `yaml:"inbox" json:"inbox"`
	// Outbox receives the per-name .json and .ics results.
	Outbox string `yaml:"outbox" json:"outbox"`
	// Schedule is a cron-style spec (e.g. "*/5 * * * *").
	Schedule string `yaml:"schedule" json:"schedule"`
	// Names lists the employees extracted from every file.
	Names []string `yaml:"names" json:"names"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA timezone of the store (e.g. "Asia/Seoul"). It is
	// only applied when shifts are rendered as calendar events.
	Timezone string `yaml:"timezone" json:"timezone"`

	// Year is used for header dates, which carry only month and day.
	// 0 means the current year.
	Year int `yaml:"year" json:"year"`

	// LogLevel is one of "debug", "info", "error".
	LogLevel string `yaml:"log_level" json:"log_level"`

	// Markers are the row labels of the schedule sheet.
	Markers schedule.Markers `yaml:"markers" json:"markers"`

	OCR   OCRConfig   `yaml:"ocr" json:"ocr"`
	Watch WatchConfig `yaml:"watch" json:"watch"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:   "127.0.0.1:5001",
		Timezone: "Asia/Seoul",
		Year:     0,
		LogLevel: "info",
		Markers:  schedule.DefaultMarkers(),
		OCR: OCRConfig{
			Lang:           "ko",
			TimeoutSeconds: 30,
		},
		Watch: WatchConfig{
			Inbox:    "./var/inbox",
			Outbox:   "./var/outbox",
			Schedule: "*/5 * * * *",
			Names:    []string{},
		},
		BasicAuth: nil,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	d := DefaultConfig()
	if c.Listen == "" {
		c.Listen = d.Listen
	}
	if c.Timezone == "" {
		c.Timezone = d.Timezone
	}
	if c.Year < 0 {
		c.Year = 0
	}
	switch c.LogLevel {
	case "debug", "info", "error":
		// ok
	default:
		c.LogLevel = "info"
	}

	if c.Markers.Date == "" {
		c.Markers.Date = d.Markers.Date
	}
	if c.Markers.Position == "" {
		c.Markers.Position = d.Markers.Position
	}
	if c.Markers.Total == "" {
		c.Markers.Total = d.Markers.Total
	}
	if c.Markers.Month == "" {
		c.Markers.Month = d.Markers.Month
	}
	if c.Markers.Day == "" {
		c.Markers.Day = d.Markers.Day
	}

	if c.OCR.Lang == "" {
		c.OCR.Lang = d.OCR.Lang
	}
	if c.OCR.TimeoutSeconds <= 0 {
		c.OCR.TimeoutSeconds = d.OCR.TimeoutSeconds
	}

	if c.Watch.Inbox == "" {
		c.Watch.Inbox = d.Watch.Inbox
	}
	if c.Watch.Outbox == "" {
		c.Watch.Outbox = d.Watch.Outbox
	}
	if c.Watch.Schedule == "" {
		c.Watch.Schedule = d.Watch.Schedule
	}
	if c.Watch.Names == nil {
		c.Watch.Names = []string{}
	}
}

// EffectiveYear returns Year, or the current year in the configured zone
// when Year is 0.
func (c *Config) EffectiveYear(now time.Time) int {
	if c.Year > 0 {
		return c.Year
	}
	return now.In(c.Location()).Year()
}

// Location resolves Timezone, falling back to time.Local.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path atomically
// (temp file + rename) with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".shiftcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
