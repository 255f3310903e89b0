package fetch

import "time"

// Outcome records the result of downloading a single photo.
type Outcome struct {
	// ID is the photo's zero-padded identifier.
	ID PhotoID

	// URL is the source the photo was fetched from.
	URL string

	// Path is the file the photo was written to, empty on failure.
	Path string

	// Bytes is the size of the downloaded image, 0 on failure.
	Bytes int64

	// Duration is how long the download took.
	Duration time.Duration

	// Err holds the failure, nil on success.
	Err error
}

// OK reports whether the download succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Result aggregates the outcomes of one batch run.
type Result struct {
	// RunID identifies the invocation in logs and machine output.
	RunID string

	// StartNum is the first photo number of the batch.
	StartNum int

	// Outcomes holds one entry per URL, in input order.
	Outcomes []Outcome

	// Elapsed is the wall-clock duration of the whole run.
	Elapsed time.Duration
}

// Total returns the number of attempted downloads.
func (r *Result) Total() int {
	return len(r.Outcomes)
}

// Succeeded returns the number of successful downloads.
func (r *Result) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

// Successes returns the outcomes that succeeded, in input order.
func (r *Result) Successes() []Outcome {
	var ok []Outcome
	for _, o := range r.Outcomes {
		if o.OK() {
			ok = append(ok, o)
		}
	}
	return ok
}

// Failed returns the outcomes that did not succeed, in input order.
func (r *Result) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}

// TotalBytes returns the bytes written across all successful downloads.
func (r *Result) TotalBytes() int64 {
	var n int64
	for _, o := range r.Outcomes {
		n += o.Bytes
	}
	return n
}
