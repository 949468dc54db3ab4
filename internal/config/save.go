package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/socialscope/internal/atomicfile"
)

type persistedConfig struct {
	DataDir  *string               `toml:"data_dir,omitempty"`
	Catalog  *string               `toml:"catalog,omitempty"`
	Timezone *string               `toml:"timezone,omitempty"`
	AuditLog *string               `toml:"audit_log,omitempty"`
	Resolver *ResolverConfig       `toml:"resolver,omitempty"`
	Log      *persistedLogSettings `toml:"log,omitempty"`
	UI       *persistedUISettings  `toml:"ui,omitempty"`
}

type persistedLogSettings struct {
	Level  *string `toml:"level,omitempty"`
	Format *string `toml:"format,omitempty"`
}

type persistedUISettings struct {
	Accent *string `toml:"accent,omitempty"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// SaveTo writes the config to a specific path atomically.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	out := persistedConfig{
		DataDir:  nonEmptyPtr(cfg.DataDir),
		Catalog:  nonEmptyPtr(cfg.Catalog),
		Timezone: nonEmptyPtr(cfg.Timezone),
		AuditLog: nonEmptyPtr(cfg.AuditLog),
	}
	if cfg.Resolver != (ResolverConfig{}) {
		r := cfg.Resolver
		out.Resolver = &r
	}

	level, format := nonEmptyPtr(cfg.Log.Level), nonEmptyPtr(cfg.Log.Format)
	if level != nil || format != nil {
		out.Log = &persistedLogSettings{Level: level, Format: format}
	}
	if accent := nonEmptyPtr(cfg.UI.Accent); accent != nil {
		out.UI = &persistedUISettings{Accent: accent}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return writeConfigFile(path, buf.Bytes())
}

func writeConfigFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := atomicfile.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

const defaultConfig = `# socialscope configuration

# Directory holding reddit/ and twitter/ dataset folders.
# data_dir = "~/socialscope/data"

# Optional catalog manifest (JSON or YAML). Used instead of scanning data_dir.
# catalog = "~/socialscope/datasets.json"

# IANA time zone whose calendar days define availability (default: local).
# timezone = "Asia/Singapore"

# Optional JSONL file recording every resolution run (see 'socialscope history').
# audit_log = "~/.local/state/socialscope/audit.jsonl"

[resolver]
# Width in days of windows synthesized from a single date or as a default.
default_window_days = 30
# Years accepted from bare 10-digit timestamps found in filenames.
timestamp_min_year = 2010
timestamp_max_year = 2050

[log]
# debug, info, warn or error. Logs go to stderr.
level = "warn"
# console or json
format = "console"

# Optional UI accent color for headers in terminal output.
# Supports ANSI color codes (0-255) or hex (#RRGGBB).
# [ui]
# accent = "39"
`

// CreateDefault writes a commented default config to path unless a file
// already exists there. It reports whether a file was written.
func CreateDefault(path string) (bool, error) {
	path = ResolveConfigPath(path)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := writeConfigFile(path, []byte(defaultConfig)); err != nil {
		return false, err
	}
	return true, nil
}
