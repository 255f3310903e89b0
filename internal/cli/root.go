package cli

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/orcas-history/photofetch/internal/config"
	"github.com/orcas-history/photofetch/internal/fetch"
	"github.com/orcas-history/photofetch/internal/logging"
)

// minPositionalArgs is the start number plus at least one URL.
const minPositionalArgs = 2

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// rootFlags holds the flag values bound to the root command.
type rootFlags struct {
	ConfigPath string
	OutputDir  string
	Timeout    time.Duration
	UserAgent  string
	Output     string
	CreateDirs bool
	NoColor    bool
}

// FetchParams holds the parameters for a batch download execution.
// Exported for testing.
type FetchParams struct {
	// StartNum is the photo number assigned to the first URL.
	StartNum int

	// URLs are downloaded in the order given.
	URLs []string
}

// NewRootCmd creates the root Cobra command for the photofetch CLI.
// The root command is the whole interface: it takes a start number followed
// by one or more URLs, downloads them in order, and reports the results.
func NewRootCmd(ver string) *cobra.Command {
	var cfg *config.Config
	var flags rootFlags
	var logResult *logging.LogResult

	cmd := &cobra.Command{
		Use:   "photofetch <start_num> <url> [url...]",
		Short: "Sequential batch photo downloader",
		Long: `Photofetch downloads numbered batches of photos over HTTP, writing them
to disk as zero-padded JPEG files ("0042.jpg"). Downloads run strictly in
input order and a failed URL never aborts the batch.`,
		Version: ver,
		Args:    cobra.MinimumNArgs(minPositionalArgs),
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(flags.ConfigPath)
			if err != nil {
				return err
			}
			cfg = loaded

			applyFlagOverrides(cmd, cfg, &flags)
			if err := cfg.Validate(); err != nil {
				return err
			}

			result := setupLogging(cmd, cfg)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			startNum, err := parseStartNum(args[0])
			if err != nil {
				return err
			}
			return executeFetch(cmd, cfg, FetchParams{StartNum: startNum, URLs: args[1:]})
		},
	}

	defaults := config.Default()
	cmd.Flags().StringVarP(&flags.OutputDir, "output-dir", "o", defaults.Output.Dir,
		"directory to write images to")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", defaults.HTTP.Timeout.Std(),
		"per-download timeout, connection through body read")
	cmd.Flags().StringVar(&flags.UserAgent, "user-agent", defaults.HTTP.UserAgent,
		"User-Agent header sent with each request")
	cmd.Flags().StringVar(&flags.Output, "output", defaults.Output.Format,
		"output format (text, json, ndjson)")
	cmd.Flags().BoolVar(&flags.CreateDirs, "create-dirs", defaults.Output.CreateDirs,
		"create the output directory if missing")
	cmd.Flags().BoolVar(&flags.NoColor, "no-color", defaults.Output.NoColor,
		"disable styled terminal output")

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.ConfigPath, "config", "",
		"config file (default "+config.DefaultFileName+" in the working directory)")

	return cmd
}

const rootCmdExample = `  # Download three photos numbered 0056, 0057, 0058
  photofetch 56 https://photos.example.org/a.jpg \
    https://photos.example.org/b.jpg https://photos.example.org/c.jpg

  # Write into a custom directory, creating it if needed
  photofetch --output-dir /srv/archive/images --create-dirs 100 \
    https://photos.example.org/d.jpg

  # Stream results as newline-delimited JSON
  photofetch --output ndjson 0 https://photos.example.org/e.jpg`

// applyFlagOverrides copies explicitly set flags onto cfg.
// CLI flags override environment variables and the config file.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config, flags *rootFlags) {
	if cmd.Flags().Changed("output-dir") {
		cfg.Output.Dir = flags.OutputDir
	}
	if cmd.Flags().Changed("output") {
		cfg.Output.Format = flags.Output
	}
	if cmd.Flags().Changed("create-dirs") {
		cfg.Output.CreateDirs = flags.CreateDirs
	}
	if cmd.Flags().Changed("no-color") {
		cfg.Output.NoColor = flags.NoColor
	}
	if cmd.Flags().Changed("timeout") {
		cfg.HTTP.Timeout = config.Duration(flags.Timeout)
	}
	if cmd.Flags().Changed("user-agent") {
		cfg.HTTP.UserAgent = flags.UserAgent
	}
}

// parseStartNum parses the positional start number, which must be a
// non-negative integer.
func parseStartNum(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid start number %q: must be an integer", raw)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid start number %d: %w", n, fetch.ErrNegativeStart)
	}
	return n, nil
}

// executeFetch runs the batch download described by params and renders the
// results. Individual download failures are reported in the output, not as
// a command error, so partial runs still exit zero.
func executeFetch(cmd *cobra.Command, cfg *config.Config, params FetchParams) error {
	ctx := cmd.Context()

	batch, err := fetch.NewBatch(params.StartNum, params.URLs)
	if err != nil {
		return err
	}

	logger.Debug().Ctx(ctx).
		Int("start_num", batch.StartNum).
		Int("count", batch.Size()).
		Str("output_dir", cfg.Output.Dir).
		Str("format", cfg.Output.Format).
		Msg("starting batch download")

	renderer := NewRenderer(cmd.OutOrStdout(), cfg.Output.Format, cfg.Output.NoColor)
	renderer.Banner(batch)

	fetcher := fetch.NewFetcher(fetch.Options{
		OutputDir:  cfg.Output.Dir,
		Timeout:    cfg.HTTP.Timeout.Std(),
		UserAgent:  cfg.HTTP.UserAgent,
		CreateDirs: cfg.Output.CreateDirs,
	}).WithProgress(func(outcome fetch.Outcome, _ fetch.ProgressSnapshot) {
		renderer.Item(outcome)
	})

	result, err := fetcher.Run(ctx, batch)
	if err != nil {
		return err
	}

	return renderer.Summary(result)
}
