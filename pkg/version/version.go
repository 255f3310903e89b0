// Package version exposes the photofetch build version.
package version

// Version is the version string reported by --version and the logs.
// Overridden at release time via
// -ldflags "-X github.com/orcas-history/photofetch/pkg/version.Version=v1.2.3".
//
//nolint:gochecknoglobals // Build-time injection target.
var Version = "0.1.0-dev"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
