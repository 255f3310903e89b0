// Package fetch downloads numbered batches of photos over HTTP.
//
// This package implements the download pipeline behind the photofetch CLI.
// Key features:
//   - Strictly sequential downloads in input order, one connection at a time
//   - Per-photo failure isolation (a bad URL never aborts the batch)
//   - Progress tracking with callbacks for rendering
//   - Context-aware cancellation between downloads
//
// Photos are numbered from a caller-chosen start and written to disk as
// zero-padded JPEG files ("0042.jpg"), matching the archive layout the
// downloads feed into.
package fetch
