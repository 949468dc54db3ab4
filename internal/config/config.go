// Package config handles socialscope configuration: the TOML config file,
// .env files and SOCIALSCOPE_* environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/socialscope/internal/catalog"
	"github.com/aidanlsb/socialscope/internal/daterange"
	"github.com/aidanlsb/socialscope/internal/logger"
)

// Config represents the socialscope configuration.
type Config struct {
	// DataDir holds the reddit/ and twitter/ dataset directories.
	DataDir string `toml:"data_dir"`

	// Catalog is an optional JSON or YAML manifest. When set it is used
	// instead of scanning DataDir.
	Catalog string `toml:"catalog"`

	// Timezone is the IANA location whose calendar days define availability.
	// Empty means the local zone.
	Timezone string `toml:"timezone"`

	// AuditLog is an optional JSONL file that records every resolution run.
	AuditLog string `toml:"audit_log"`

	Resolver ResolverConfig `toml:"resolver"`

	Log logger.Config `toml:"log"`

	UI UIConfig `toml:"ui"`
}

// ResolverConfig tunes date range inference.
type ResolverConfig struct {
	// DefaultWindowDays is the width of synthesized windows.
	DefaultWindowDays int `toml:"default_window_days"`

	// TimestampMinYear and TimestampMaxYear bound the years accepted from
	// bare 10-digit timestamps in filenames.
	TimestampMinYear int `toml:"timestamp_min_year"`
	TimestampMaxYear int `toml:"timestamp_max_year"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown rendering.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	return LoadPath("")
}

// LoadPath loads the configuration from path, or from DefaultPath when path
// is empty. A missing default file yields an empty config; a missing
// explicit file is an error.
func LoadPath(path string) (*Config, error) {
	explicit := strings.TrimSpace(path) != ""
	configPath := ResolveConfigPath(path)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if explicit {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		cfg := &Config{}
		cfg.SetDefaults()
		return cfg, nil
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.SetDefaults()
	return &cfg, nil
}

// SetDefaults fills unset values.
func (c *Config) SetDefaults() {
	if c.Resolver.DefaultWindowDays <= 0 {
		c.Resolver.DefaultWindowDays = daterange.DefaultWindowDays
	}
	if c.Resolver.TimestampMinYear <= 0 {
		c.Resolver.TimestampMinYear = daterange.DefaultTimestampMinYear
	}
	if c.Resolver.TimestampMaxYear <= 0 {
		c.Resolver.TimestampMaxYear = daterange.DefaultTimestampMaxYear
	}
	c.Log.SetDefaults()
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Resolver.TimestampMinYear > c.Resolver.TimestampMaxYear {
		return fmt.Errorf("resolver.timestamp_min_year (%d) is after timestamp_max_year (%d)",
			c.Resolver.TimestampMinYear, c.Resolver.TimestampMaxYear)
	}
	if !logger.ValidLevel(c.Log.Level) {
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}

// Location returns the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Timezone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ResolverParams builds resolver parameters from the config. now may be nil
// to use the wall clock.
func (c *Config) ResolverParams(now func() time.Time) (daterange.Params, error) {
	loc, err := c.Location()
	if err != nil {
		return daterange.Params{}, err
	}
	p := daterange.Params{
		Location:         loc,
		WindowDays:       c.Resolver.DefaultWindowDays,
		TimestampMinYear: c.Resolver.TimestampMinYear,
		TimestampMaxYear: c.Resolver.TimestampMaxYear,
		Now:              now,
	}
	p.SetDefaults()
	return p, nil
}

// CatalogOptions returns where to load the dataset catalog from.
func (c *Config) CatalogOptions() (catalog.Options, error) {
	loc, err := c.Location()
	if err != nil {
		return catalog.Options{}, err
	}
	return catalog.Options{
		DataDir:  ExpandHome(c.DataDir),
		Manifest: ExpandHome(c.Catalog),
		Location: loc,
	}, nil
}

// AuditLogPath returns the expanded audit log path, or "" when disabled.
func (c *Config) AuditLogPath() string {
	return ExpandHome(c.AuditLog)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	path = strings.TrimSpace(path)
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// ResolveConfigPath resolves the effective config path from an optional override.
func ResolveConfigPath(explicitConfigPath string) string {
	if strings.TrimSpace(explicitConfigPath) != "" {
		return explicitConfigPath
	}
	return DefaultPath()
}

// DefaultPath returns the default config file path.
// Checks ~/.config/socialscope/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "socialscope", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "socialscope", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}
