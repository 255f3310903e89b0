// Package config loads photofetch configuration from defaults, an optional
// YAML file, and PHOTOFETCH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/orcas-history/photofetch/internal/logging"
)

// DefaultFileName is the config file probed in the working directory when
// neither --config nor PHOTOFETCH_CONFIG names one.
const DefaultFileName = "photofetch.yaml"

// Output formats accepted for rendered results.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
)

// Config is the effective photofetch configuration.
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
}

// OutputConfig controls where downloads land and how results are rendered.
type OutputConfig struct {
	// Dir is the directory image files are written to.
	Dir string `yaml:"dir"`

	// Format is FormatText, FormatJSON, or FormatNDJSON.
	Format string `yaml:"format"`

	// CreateDirs creates Dir (including parents) before downloading.
	CreateDirs bool `yaml:"create_dirs"`

	// NoColor disables styled terminal output.
	NoColor bool `yaml:"no_color"`
}

// HTTPConfig controls the outgoing download requests.
type HTTPConfig struct {
	// Timeout bounds each download, connection through body read.
	Timeout Duration `yaml:"timeout"`

	// UserAgent is sent with every request. Some photo hosts reject the
	// default Go client string.
	UserAgent string `yaml:"user_agent"`
}

// LoggingConfig is the logging section of the config file.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Duration wraps time.Duration so YAML values like "45s" parse naturally.
type Duration time.Duration

// UnmarshalYAML parses a Go duration string such as "30s" or "1m30s".
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration back into its string form.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Dir:    "extraction/data/images",
			Format: FormatText,
		},
		HTTP: HTTPConfig{
			Timeout:   Duration(30 * time.Second),
			UserAgent: "Mozilla/5.0",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: logging.FormatConsole,
		},
	}
}

// Load builds the effective configuration. Precedence, lowest to highest:
// built-in defaults, a YAML config file, then PHOTOFETCH_* environment
// variables. Flag overrides are applied by the CLI after Load returns.
//
// The file is flagPath when given, else $PHOTOFETCH_CONFIG, else
// DefaultFileName in the working directory. Only the probed default may be
// absent; a file named explicitly must exist.
func Load(flagPath string) (*Config, error) {
	// Fold a .env file into the environment first. Existing variables win,
	// and a missing file is the normal case.
	_ = godotenv.Load()

	cfg := Default()

	path, explicit := resolvePath(flagPath)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
			return nil, fmt.Errorf("failed to parse config file %q: %w", path, unmarshalErr)
		}
	case explicit:
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolvePath picks the config file to read and reports whether the user
// named it explicitly.
func resolvePath(flagPath string) (path string, explicit bool) {
	if flagPath != "" {
		return flagPath, true
	}
	if envPath := os.Getenv("PHOTOFETCH_CONFIG"); envPath != "" {
		return envPath, true
	}
	return DefaultFileName, false
}

// applyEnv overlays PHOTOFETCH_* environment variables onto c.
func (c *Config) applyEnv() {
	c.Output.Dir = getEnv("PHOTOFETCH_OUTPUT_DIR", c.Output.Dir)
	c.Output.Format = getEnv("PHOTOFETCH_OUTPUT_FORMAT", c.Output.Format)
	c.Output.CreateDirs = getBool("PHOTOFETCH_CREATE_DIRS", c.Output.CreateDirs)
	c.Output.NoColor = getBool("PHOTOFETCH_NO_COLOR", c.Output.NoColor)
	c.HTTP.Timeout = Duration(getDuration("PHOTOFETCH_TIMEOUT", c.HTTP.Timeout.Std()))
	c.HTTP.UserAgent = getEnv("PHOTOFETCH_USER_AGENT", c.HTTP.UserAgent)
	c.Logging.Level = getEnv("PHOTOFETCH_LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("PHOTOFETCH_LOG_FORMAT", c.Logging.Format)
	c.Logging.File = getEnv("PHOTOFETCH_LOG_FILE", c.Logging.File)
}

// Validate checks for values the rest of the program cannot work with.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatText, FormatJSON, FormatNDJSON:
	default:
		return fmt.Errorf("invalid output format %q (expected %s, %s, or %s)",
			c.Output.Format, FormatText, FormatJSON, FormatNDJSON)
	}

	if c.Output.Dir == "" {
		return errors.New("output directory must not be empty")
	}

	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.HTTP.Timeout.Std())
	}

	return nil
}

// ToLoggingConfig bridges the logging section to the logging package. A
// configured file switches the destination from stderr to that file.
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}

	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}

// getEnv returns the value of key, or fallback when unset or empty.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getBool parses key as a boolean, returning fallback when unset or invalid.
func getBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// getDuration parses key as a Go duration, returning fallback when unset or
// invalid.
func getDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
