// Package buildinfo carries release metadata stamped in with
// -ldflags "-X github.com/pantau-dev/pantau/internal/buildinfo.Version=...".
package buildinfo

var (
	// Version is the release tag.
	Version = "dev"
	// Commit is the short git hash the binary was built from.
	Commit = "none"
	// Date is the build time in RFC 3339.
	Date = "unknown"
)
