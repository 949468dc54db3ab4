package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override config file values.
const (
	EnvDataDir  = "SOCIALSCOPE_DATA_DIR"
	EnvCatalog  = "SOCIALSCOPE_CATALOG"
	EnvTimezone = "SOCIALSCOPE_TIMEZONE"
	EnvLogLevel = "SOCIALSCOPE_LOG_LEVEL"
	EnvAuditLog = "SOCIALSCOPE_AUDIT_LOG"
)

// LoadEnvFiles loads .env.local and then .env from the working directory.
// Variables already set in the environment are never overwritten, so
// .env.local wins over .env. Missing files are ignored.
func LoadEnvFiles() error {
	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

// ApplyEnv overrides config values from SOCIALSCOPE_* variables using
// lookup, which is normally os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(EnvDataDir, &c.DataDir)
	set(EnvCatalog, &c.Catalog)
	set(EnvTimezone, &c.Timezone)
	set(EnvLogLevel, &c.Log.Level)
	set(EnvAuditLog, &c.AuditLog)
}

// Overrides carries command-line values that win over both the config file
// and the environment. Empty fields are ignored.
type Overrides struct {
	DataDir  string
	Catalog  string
	Timezone string
	LogLevel string
}

// Apply copies non-empty overrides into c.
func (o Overrides) Apply(c *Config) {
	for _, kv := range []struct {
		src string
		dst *string
	}{
		{o.DataDir, &c.DataDir},
		{o.Catalog, &c.Catalog},
		{o.Timezone, &c.Timezone},
		{o.LogLevel, &c.Log.Level},
	} {
		if v := strings.TrimSpace(kv.src); v != "" {
			*kv.dst = v
		}
	}
}

// Resolve loads the config file at path (or the default path), then applies
// .env files, SOCIALSCOPE_* variables and finally the overrides, and
// validates the result.
func Resolve(path string, overrides Overrides) (*Config, error) {
	cfg, err := LoadPath(path)
	if err != nil {
		return nil, err
	}
	if err := LoadEnvFiles(); err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	overrides.Apply(cfg)
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
