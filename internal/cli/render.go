package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/orcas-history/photofetch/internal/config"
	"github.com/orcas-history/photofetch/internal/fetch"
)

// Status markers for per-photo result lines.
const (
	markerSuccess = "✓"
	markerFailure = "✗"
)

// colorSuccess returns the Lip Gloss color used for successful download lines.
func colorSuccess() lipgloss.Color { return lipgloss.Color("42") }

// colorFailure returns the Lip Gloss color used for failed download lines.
func colorFailure() lipgloss.Color { return lipgloss.Color("196") }

// isWriterTerminal reports whether the provided io.Writer refers to a
// terminal. It returns true when w is an *os.File whose file descriptor is a
// terminal, and false for any other writer (like bytes.Buffer in tests).
func isWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}

// Renderer writes batch download results in the configured output format.
//
// Text format mirrors the terminal-friendly report: a banner, one ✓/✗ line
// per photo as it completes, and a closing tally. The json format emits a
// single indented report after the run; ndjson emits one object per photo as
// it completes plus a final summary object.
type Renderer struct {
	w       io.Writer
	format  string
	styled  bool
	printer *message.Printer
	enc     *json.Encoder

	// streamErr holds the first NDJSON encode failure; Item cannot return
	// it, so Summary reports it instead.
	streamErr error
}

// NewRenderer creates a renderer writing to w. Styling applies only to text
// format on a terminal, and never when noColor is set.
func NewRenderer(w io.Writer, format string, noColor bool) *Renderer {
	return &Renderer{
		w:       w,
		format:  format,
		styled:  format == config.FormatText && !noColor && isWriterTerminal(w),
		printer: message.NewPrinter(language.English),
		enc:     json.NewEncoder(w),
	}
}

// Banner announces the batch before the first download. Machine formats
// skip it.
func (r *Renderer) Banner(batch *fetch.Batch) {
	if r.format != config.FormatText {
		return
	}
	_, _ = fmt.Fprintf(r.w, "Downloading %d images starting from %s...\n",
		batch.Size(), fetch.FormatPhotoID(batch.StartNum))
}

// Item renders one per-photo result line as downloads complete. In json
// format items are deferred to the final report.
func (r *Renderer) Item(o fetch.Outcome) {
	switch r.format {
	case config.FormatNDJSON:
		if err := r.enc.Encode(newPhotoReport(o)); err != nil && r.streamErr == nil {
			r.streamErr = fmt.Errorf("encoding NDJSON photo: %w", err)
		}
	case config.FormatJSON:
	default:
		r.textItem(o)
	}
}

// textItem writes a single ✓/✗ line. Byte counts use comma grouping to
// match the report format downstream tooling parses.
func (r *Renderer) textItem(o fetch.Outcome) {
	var line string
	if o.OK() {
		line = r.printer.Sprintf("  %s %s: %d bytes", markerSuccess, o.ID, o.Bytes)
		if r.styled {
			line = lipgloss.NewStyle().Foreground(colorSuccess()).Render(line)
		}
	} else {
		line = fmt.Sprintf("  %s %s: %v", markerFailure, o.ID, o.Err)
		if r.styled {
			line = lipgloss.NewStyle().Foreground(colorFailure()).Render(line)
		}
	}
	_, _ = fmt.Fprintln(r.w, line)
}

// Summary renders the final report for the run.
func (r *Renderer) Summary(result *fetch.Result) error {
	switch r.format {
	case config.FormatJSON:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		return enc.Encode(newRunReport(result))
	case config.FormatNDJSON:
		if r.streamErr != nil {
			return r.streamErr
		}
		// The per-photo objects were already streamed; close with a
		// summary object without repeating them.
		report := newRunReport(result)
		report.Photos = nil
		if err := r.enc.Encode(report); err != nil {
			return fmt.Errorf("encoding NDJSON summary: %w", err)
		}
		return nil
	default:
		return r.textSummary(result)
	}
}

// textSummary writes the success ratio followed by one line per failure.
func (r *Renderer) textSummary(result *fetch.Result) error {
	if _, err := fmt.Fprintln(r.w); err != nil {
		return err
	}

	ratio := fmt.Sprintf("Results: %d/%d successful", result.Succeeded(), result.Total())
	if r.styled {
		ratio = lipgloss.NewStyle().Bold(true).Render(ratio)
	}
	if _, err := fmt.Fprintln(r.w, ratio); err != nil {
		return err
	}

	failed := result.Failed()
	if len(failed) == 0 {
		return nil
	}

	if _, err := fmt.Fprintln(r.w, "Failed:"); err != nil {
		return err
	}
	for _, o := range failed {
		line := fmt.Sprintf("  %s: %v", o.ID, o.Err)
		if r.styled {
			line = lipgloss.NewStyle().Foreground(colorFailure()).Render(line)
		}
		if _, err := fmt.Fprintln(r.w, line); err != nil {
			return err
		}
	}
	return nil
}

// photoReport is the JSON shape of a single download outcome.
type photoReport struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	Path       string `json:"path,omitempty"`
	Bytes      int64  `json:"bytes"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// newPhotoReport converts an outcome into its JSON shape.
func newPhotoReport(o fetch.Outcome) photoReport {
	report := photoReport{
		ID:         o.ID.String(),
		URL:        o.URL,
		Path:       o.Path,
		Bytes:      o.Bytes,
		Success:    o.OK(),
		DurationMS: o.Duration.Milliseconds(),
	}
	if o.Err != nil {
		report.Error = o.Err.Error()
	}
	return report
}

// runReport is the JSON shape of a whole batch run.
type runReport struct {
	RunID      string        `json:"run_id,omitempty"`
	StartNum   int           `json:"start_num"`
	Total      int           `json:"total"`
	Succeeded  int           `json:"succeeded"`
	Failed     int           `json:"failed"`
	TotalBytes int64         `json:"total_bytes"`
	ElapsedMS  int64         `json:"elapsed_ms"`
	Photos     []photoReport `json:"photos,omitempty"`
}

// newRunReport converts a result into its JSON shape, photos included.
func newRunReport(result *fetch.Result) runReport {
	report := runReport{
		RunID:      result.RunID,
		StartNum:   result.StartNum,
		Total:      result.Total(),
		Succeeded:  result.Succeeded(),
		Failed:     result.Total() - result.Succeeded(),
		TotalBytes: result.TotalBytes(),
		ElapsedMS:  result.Elapsed.Milliseconds(),
		Photos:     make([]photoReport, 0, len(result.Outcomes)),
	}
	for _, o := range result.Outcomes {
		report.Photos = append(report.Photos, newPhotoReport(o))
	}
	return report
}
