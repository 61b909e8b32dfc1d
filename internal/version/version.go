// Package version holds build information set through -ldflags.
package version

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String formats the build information for the version command
func String() string {
	return fmt.Sprintf("laia %s (commit %s, built %s)", Version, Commit, Date)
}
