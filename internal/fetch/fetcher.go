package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/orcas-history/photofetch/internal/logging"
)

const (
	// outputDirPerm is the mode for created output directories.
	outputDirPerm = 0o755

	// imageFilePerm is the mode for written image files.
	imageFilePerm = 0o644
)

// Doer executes HTTP requests. *http.Client satisfies it; tests substitute
// their own implementation.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ProgressFunc is invoked after each download with its outcome and a
// snapshot of overall progress.
type ProgressFunc func(outcome Outcome, snap ProgressSnapshot)

// Options configures a Fetcher.
type Options struct {
	// OutputDir is the directory image files are written to.
	OutputDir string

	// Timeout bounds each download, connection through body read, when the
	// default client is used.
	Timeout time.Duration

	// UserAgent is sent with every request when non-empty.
	UserAgent string

	// CreateDirs creates OutputDir (including parents) before the first
	// download.
	CreateDirs bool
}

// Fetcher downloads photo batches one URL at a time.
type Fetcher struct {
	opts       Options
	client     Doer
	onProgress ProgressFunc
}

// NewFetcher creates a fetcher backed by an HTTP client honoring
// opts.Timeout.
func NewFetcher(opts Options) *Fetcher {
	return &Fetcher{
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout},
	}
}

// WithClient replaces the HTTP client. Tests use it to stub the transport.
func (f *Fetcher) WithClient(client Doer) *Fetcher {
	f.client = client
	return f
}

// WithProgress sets a callback invoked after each finished download.
func (f *Fetcher) WithProgress(callback ProgressFunc) *Fetcher {
	f.onProgress = callback
	return f
}

// Run downloads every URL in the batch strictly in input order. A failed
// download is recorded in the result and the run moves on to the next URL.
// Run itself only returns an error when the output directory cannot be
// created or ctx is done between downloads.
func (f *Fetcher) Run(ctx context.Context, batch *Batch) (*Result, error) {
	log := logging.ComponentLogger(logging.FromContext(ctx), "fetch")

	if f.opts.CreateDirs {
		if err := os.MkdirAll(f.opts.OutputDir, outputDirPerm); err != nil {
			return nil, fmt.Errorf("failed to create output directory %q: %w", f.opts.OutputDir, err)
		}
	}

	progress := NewProgress(batch.Size())
	result := &Result{
		RunID:    logging.RunIDFromContext(ctx),
		StartNum: batch.StartNum,
		Outcomes: make([]Outcome, 0, batch.Size()),
	}
	start := time.Now()

	log.Debug().Ctx(ctx).
		Int("start_num", batch.StartNum).
		Int("count", batch.Size()).
		Str("output_dir", f.opts.OutputDir).
		Msg("batch download started")

	for i, url := range batch.URLs {
		// Check for context cancellation between downloads.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		outcome := f.fetchOne(ctx, batch.IDFor(i), url)
		result.Outcomes = append(result.Outcomes, outcome)
		progress.Record(outcome)

		if outcome.OK() {
			log.Debug().Ctx(ctx).
				Str("photo_id", outcome.ID.String()).
				Int64("bytes", outcome.Bytes).
				Dur("duration", outcome.Duration).
				Msg("photo downloaded")
		} else {
			log.Debug().Ctx(ctx).
				Str("photo_id", outcome.ID.String()).
				Str("url", url).
				Err(outcome.Err).
				Msg("photo download failed")
		}

		if f.onProgress != nil {
			f.onProgress(outcome, progress.Snapshot())
		}
	}

	result.Elapsed = time.Since(start)

	log.Debug().Ctx(ctx).
		Int("succeeded", result.Succeeded()).
		Int("total", result.Total()).
		Dur("elapsed", result.Elapsed).
		Msg("batch download finished")

	return result, nil
}

// fetchOne downloads a single photo to disk. Failures of any kind land in
// the returned outcome.
func (f *Fetcher) fetchOne(ctx context.Context, id PhotoID, url string) (outcome Outcome) {
	outcome.ID = id
	outcome.URL = url

	start := time.Now()
	defer func() { outcome.Duration = time.Since(start) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		outcome.Err = fmt.Errorf("invalid request: %w", err)
		return outcome
	}
	if f.opts.UserAgent != "" {
		req.Header.Set("User-Agent", f.opts.UserAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		outcome.Err = fmt.Errorf("unexpected status: %s", resp.Status)
		return outcome
	}

	// Read the whole body before touching the filesystem so a mid-transfer
	// failure leaves no partial file behind.
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		outcome.Err = fmt.Errorf("failed to read response body: %w", err)
		return outcome
	}

	path := filepath.Join(f.opts.OutputDir, id.Filename())
	if writeErr := os.WriteFile(path, data, imageFilePerm); writeErr != nil {
		outcome.Err = fmt.Errorf("failed to write %s: %w", path, writeErr)
		return outcome
	}

	outcome.Path = path
	outcome.Bytes = int64(len(data))
	return outcome
}
