// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/socialscope/internal/config"
	"github.com/aidanlsb/socialscope/internal/logger"
	"github.com/aidanlsb/socialscope/internal/ui"
)

var (
	// Global flags
	configPath   string
	dataDirFlag  string
	catalogFlag  string
	timezoneFlag string
	logLevelFlag string

	// Resolved values
	cfg       *config.Config
	cliLogger logger.Logger = logger.NewNop()

	// nowFunc is the clock used for "today". Tests pin it.
	nowFunc = time.Now
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "socialscope",
	Short: "Socialscope - date coverage for social-media datasets",
	Long: `Socialscope works out which calendar days each collected Reddit and
Twitter dataset covers, from its date metadata or its filename, and answers
coverage questions about them.

Datasets are read from the reddit/ and twitter/ folders of a data directory,
or from a JSON or YAML catalog manifest.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if skipsConfig(cmd) {
			return nil
		}

		loaded, err := config.Resolve(configPath, config.Overrides{
			DataDir:  dataDirFlag,
			Catalog:  catalogFlag,
			Timezone: timezoneFlag,
			LogLevel: logLevelFlag,
		})
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded

		l, err := logger.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		cliLogger = l
		ui.ConfigureTheme(cfg.UI.Accent)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = cliLogger.Sync()
	},
}

// skipsConfig reports whether cmd runs without a resolved config.
func skipsConfig(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "completion", "help", "version", "docs":
		return true
	}
	if cmd.Parent() != nil && (cmd.Parent().Name() == "completion" || cmd.Parent().Name() == "docs") {
		return true
	}
	if cmd.Parent() != nil && cmd.Parent().Name() == "config" {
		return cmd.Name() == "init" || cmd.Name() == "set"
	}
	return false
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Dataset directory with reddit/ and twitter/ folders")
	rootCmd.PersistentFlags().StringVar(&catalogFlag, "catalog", "", "Catalog manifest (JSON or YAML); wins over --data-dir")
	rootCmd.PersistentFlags().StringVar(&timezoneFlag, "timezone", "", "IANA time zone whose calendar days define availability")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Diagnostic log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	if cfg == nil {
		c := &config.Config{}
		c.SetDefaults()
		return c
	}
	return cfg
}
