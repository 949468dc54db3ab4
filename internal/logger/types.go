package logger

// Output formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Defaults for Config.
const (
	DefaultLevel  = "warn"
	DefaultFormat = FormatConsole
)

// DefaultOutputPaths keeps diagnostics off stdout, which carries command output.
var DefaultOutputPaths = []string{"stderr"}

// Config represents the logger configuration.
type Config struct {
	// Level is the minimum level (debug, info, warn, error).
	Level string `toml:"level"`
	// Format is "console" or "json".
	Format string `toml:"format"`
	// OutputPaths are zap sink URLs or file paths.
	OutputPaths []string `toml:"output_paths"`
}

// SetDefaults applies default values to unset fields.
func (c *Config) SetDefaults() {
	if c.Level == "" {
		c.Level = DefaultLevel
	}
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if len(c.OutputPaths) == 0 {
		c.OutputPaths = DefaultOutputPaths
	}
}
