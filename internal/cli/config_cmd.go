package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/aidanlsb/socialscope/internal/config"
	"github.com/aidanlsb/socialscope/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the socialscope config file",
	Long: `Manage ~/.config/socialscope/config.toml (or the file given with --config).

Values are layered: config file, then .env/.env.local, then SOCIALSCOPE_*
environment variables, then command-line flags.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ResolveConfigPath(configPath)
		created, err := config.CreateDefault(path)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
		if isJSONOutput() {
			outputSuccess(map[string]any{"path": path, "created": created}, nil)
			return nil
		}
		if !created {
			fmt.Println(ui.Warningf("Config already exists at %s", path))
			return nil
		}
		fmt.Println(ui.Successf("Created %s", path))
		fmt.Println(ui.Hint("Set data_dir to your dataset directory to get started"))
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := getConfig()
		path := config.ResolveConfigPath(configPath)
		if isJSONOutput() {
			outputSuccess(map[string]any{
				"path":      path,
				"data_dir":  c.DataDir,
				"catalog":   c.Catalog,
				"timezone":  c.Timezone,
				"audit_log": c.AuditLog,
				"resolver":  map[string]int{
					"default_window_days": c.Resolver.DefaultWindowDays,
					"timestamp_min_year":  c.Resolver.TimestampMinYear,
					"timestamp_max_year":  c.Resolver.TimestampMaxYear,
				},
				"log": map[string]string{"level": c.Log.Level, "format": c.Log.Format},
				"ui":  map[string]string{"accent": c.UI.Accent},
			}, nil)
			return nil
		}
		fmt.Println(ui.Hint("# " + path))
		if err := toml.NewEncoder(os.Stdout).Encode(c); err != nil {
			return handleError(ErrInternal, err, "")
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a value in the config file",
	Long: `Set a value in the config file. Environment variables and flags are not
written back.

Keys: data_dir, catalog, timezone, audit_log, resolver.default_window_days,
resolver.timestamp_min_year, resolver.timestamp_max_year, log.level,
log.format, ui.accent

Examples:
  socialscope config set data_dir ~/datasets
  socialscope config set timezone Asia/Singapore`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ResolveConfigPath(configPath)
		c, err := config.LoadPath(path)
		if err != nil {
			c = &config.Config{}
			if _, statErr := os.Stat(path); statErr == nil {
				return handleError(ErrConfigInvalid, err, "")
			}
		}
		if err := setConfigValue(c, args[0], args[1]); err != nil {
			return handleError(ErrInvalidInput, err, "")
		}
		c.SetDefaults()
		if err := c.Validate(); err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		if err := config.SaveTo(path, c); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
		if isJSONOutput() {
			outputSuccess(map[string]any{"path": path, "key": args[0], "value": args[1]}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Set %s in %s", args[0], path))
		return nil
	},
}

func setConfigValue(c *config.Config, key, value string) error {
	value = strings.TrimSpace(value)
	setInt := func(dst *int) error {
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive integer, got %q", key, value)
		}
		*dst = n
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(key)) {
	case "data_dir":
		c.DataDir = value
	case "catalog":
		c.Catalog = value
	case "timezone":
		c.Timezone = value
	case "audit_log":
		c.AuditLog = value
	case "resolver.default_window_days":
		return setInt(&c.Resolver.DefaultWindowDays)
	case "resolver.timestamp_min_year":
		return setInt(&c.Resolver.TimestampMinYear)
	case "resolver.timestamp_max_year":
		return setInt(&c.Resolver.TimestampMaxYear)
	case "log.level":
		c.Log.Level = value
	case "log.format":
		c.Log.Format = value
	case "ui.accent":
		c.UI.Accent = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
