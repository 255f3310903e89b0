// Package logging builds the zerolog loggers used across photofetch and
// carries loggers and run identifiers through context.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Output destinations understood by Config.
const (
	OutputStderr = "stderr"
	OutputFile   = "file"
)

// Log formats understood by Config.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// logFilePerm is the mode for created log files.
const logFilePerm = 0o600

// Config controls logger construction.
type Config struct {
	// Level is a zerolog level name ("debug", "info", "warn", ...).
	// Empty or unparseable values fall back to info.
	Level string

	// Format is FormatConsole for human-readable output or FormatJSON.
	Format string

	// Output is OutputStderr or OutputFile.
	Output string

	// File is the log file path when Output is OutputFile.
	File string
}

// LogResult holds the logger New built along with where its output landed,
// so callers can report fallbacks and close the file handle when done.
type LogResult struct {
	Logger         zerolog.Logger
	UsingFile      bool
	FilePath       string
	FallbackUsed   bool
	FallbackReason string

	file *os.File
}

// Close releases the log file handle, if one was opened.
func (r *LogResult) Close() error {
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}

// New builds a logger from cfg. Logs go to stderr so stdout stays clean for
// product output; a file destination that cannot be opened falls back to
// stderr, with the reason recorded in the result for the caller to surface.
func New(cfg Config) LogResult {
	if cfg.Output == OutputFile && cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFilePerm)
		if err == nil {
			return LogResult{
				Logger:    NewWithWriter(cfg, f),
				UsingFile: true,
				FilePath:  cfg.File,
				file:      f,
			}
		}
		return LogResult{
			Logger:         NewWithWriter(cfg, os.Stderr),
			FallbackUsed:   true,
			FallbackReason: fmt.Sprintf("could not open log file %s: %v", cfg.File, err),
		}
	}
	return LogResult{Logger: NewWithWriter(cfg, os.Stderr)}
}

// PrintFallbackWarning tells the user their configured log destination could
// not be used and logging fell back to stderr.
func PrintFallbackWarning(w io.Writer, reason string) {
	_, _ = fmt.Fprintf(w, "Warning: %s, logging to stderr\n", reason)
}

// NewWithWriter builds a logger from cfg writing to w. Tests use it to
// capture log output.
func NewWithWriter(cfg Config, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	if cfg.Format != FormatJSON {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// ComponentLogger returns logger tagged with a component field so events can
// be traced back to the emitting subsystem.
func ComponentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// FromContext returns the logger stored in ctx via zerolog's WithContext,
// or a disabled logger when none is present.
func FromContext(ctx context.Context) zerolog.Logger {
	return *zerolog.Ctx(ctx)
}

type runIDKey struct{}

// NewRunID mints the ULID that identifies one photofetch invocation in logs
// and machine output.
func NewRunID() string {
	return ulid.Make().String()
}

// ContextWithRunID returns a child context carrying the run ID.
func ContextWithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFromContext returns the run ID stored in ctx, or the empty string
// when absent.
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey{}).(string); ok {
		return id
	}
	return ""
}
