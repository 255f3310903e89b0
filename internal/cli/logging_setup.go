package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/orcas-history/photofetch/internal/config"
	"github.com/orcas-history/photofetch/internal/logging"
)

// logDirPerm is the mode for created log directories.
const logDirPerm = 0o700

// setupLogging configures logging from the loaded config and CLI flags, and
// stamps the command context with the logger and a fresh run ID.
func setupLogging(cmd *cobra.Command, cfg *config.Config) logging.LogResult {
	loggingCfg := cfg.Logging

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
		loggingCfg.File = ""
	}

	// Ensure the log directory exists after all overrides have been applied.
	if loggingCfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(loggingCfg.File), logDirPerm); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not create log directory: %v\n", err)
		}
	}

	result := logging.New(loggingCfg.ToLoggingConfig())
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	// The context carries the untagged base logger so downstream packages
	// can attach their own component field.
	runID := logging.NewRunID()
	ctx := logging.ContextWithRunID(cmd.Context(), runID)
	ctx = result.Logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Info().Ctx(ctx).Str("command", cmd.Name()).Str("run_id", runID).Msg("command started")

	return result
}

// cleanupLogging closes the log file handle opened for the run.
func cleanupLogging(logResult *logging.LogResult) error {
	if logResult == nil {
		return nil
	}
	return logResult.Close()
}
