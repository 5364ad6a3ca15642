// Package version holds build-time identifying information for the tbl CLI.
package version

import "strings"

// Version information for the tbl CLI. Overridable at build time via
// -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// VersionString returns Version, falling back to "dev" if unset.
func VersionString() string {
	v := strings.TrimSpace(Version)
	if v == "" {
		return "dev"
	}
	return v
}
